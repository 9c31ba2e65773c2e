package composite

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"net/http"
	"regexp"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/nfnt/resize"
	"golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"

	"codeberg.org/snonux/commonseek/internal/commons"
)

// thumbWidthSegment matches the requested-width path segment of a Commons
// thumbnail URL (e.g. the "256px-" in .../Foo.jpg/256px-Foo.jpg).
var thumbWidthSegment = regexp.MustCompile(`/\d+px-`)

// fetchThumbnails downloads and resizes each record's thumbnail
// concurrently. Failures are logged and skipped; the returned thumbs keep
// their original position within records so the grid stays stable.
func (g *Generator) fetchThumbnails(ctx context.Context, records []commons.ImageRecord) []thumb {
	cells := make([]image.Image, len(records))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.opts.Concurrency)
	for i, rec := range records {
		eg.Go(func() error {
			img, err := g.fetchOne(ctx, rec)
			if err != nil {
				g.logger.Warn("thumbnail fetch failed",
					"index", rec.Index,
					"url", rec.URL,
					"error", err,
				)
				return nil
			}
			cells[i] = img
			return nil
		})
	}
	// Workers never return errors; per-item failures must not cancel
	// sibling fetches.
	_ = eg.Wait()

	thumbs := make([]thumb, 0, len(records))
	for i, img := range cells {
		if img != nil {
			thumbs = append(thumbs, thumb{img: img, pos: i})
		}
	}
	return thumbs
}

// fetchOne downloads a single thumbnail at a width fitted to the cell and
// pads it onto a uniform square cell.
func (g *Generator) fetchOne(ctx context.Context, rec commons.ImageRecord) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.thumbURL(rec), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download failed with status %d", resp.StatusCode)
	}

	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return g.padToCell(img), nil
}

// thumbURL rewrites the record's thumbnail URL to request a width that
// keeps the image's larger dimension at the configured thumbnail size.
func (g *Generator) thumbURL(rec commons.ImageRecord) string {
	width := g.opts.ThumbSize
	if rec.Height > rec.Width {
		width = rec.Width * g.opts.ThumbSize / rec.Height
		if width < 1 {
			width = 1
		}
	}
	return thumbWidthSegment.ReplaceAllString(rec.URL, fmt.Sprintf("/%dpx-", width))
}

// padToCell scales img to fit the cell bounding box, preserving aspect
// ratio, and centers it on a white square so every cell shares one size.
func (g *Generator) padToCell(img image.Image) image.Image {
	size := g.opts.ThumbSize
	fitted := resize.Thumbnail(uint(size), uint(size), img, resize.Lanczos3)

	cell := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(cell, cell.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	b := fitted.Bounds()
	offset := image.Pt((size-b.Dx())/2, (size-b.Dy())/2)
	draw.Draw(cell, b.Sub(b.Min).Add(offset), fitted, b.Min, draw.Over)
	return cell
}
