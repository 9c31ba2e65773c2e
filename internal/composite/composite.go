package composite

import (
	"context"
	"encoding/base64"
	"image"
	"log/slog"
	"net/http"
	"time"

	"codeberg.org/snonux/commonseek/internal/commons"
)

// Options configures composite generation. Every geometry constant is
// explicit so tests can exercise varied layouts.
type Options struct {
	ThumbSize    int           // cell side length and thumbnail bounding box, in pixels
	Columns      int           // fixed grid column count
	Spacing      int           // gap between cells and around the canvas edge, in pixels
	MaxItems     int           // composite item cap; records past it are never fetched
	JPEGQuality  int           // encoder quality
	Concurrency  int           // fetch fan-out ceiling
	FetchTimeout time.Duration // per-thumbnail HTTP deadline
}

// DefaultOptions returns the standard composite geometry.
func DefaultOptions() Options {
	return Options{
		ThumbSize:    256,
		Columns:      3,
		Spacing:      10,
		MaxItems:     15,
		JPEGQuality:  90,
		Concurrency:  8,
		FetchTimeout: 15 * time.Second,
	}
}

// Generator produces thumbnail-grid composites.
type Generator struct {
	opts       Options
	httpClient *http.Client
	logger     *slog.Logger
}

// NewGenerator creates a Generator with the given options. A nil logger
// falls back to slog.Default.
func NewGenerator(opts Options, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	// errgroup treats a limit of 0 as "no goroutines may run"; a
	// non-positive setting here means serial fetching, not a deadlock.
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	return &Generator{
		opts:       opts,
		httpClient: &http.Client{Timeout: opts.FetchTimeout},
		logger:     logger,
	}
}

// thumb is one successfully fetched and resized cell image. pos is the
// item's 0-based position within the retained (capped) record set; layout
// must use it because fetch failures leave gaps in the thumb list.
type thumb struct {
	img image.Image
	pos int
}

// Generate fetches the records' thumbnails and composes them into a single
// base64-encoded JPEG grid. It returns "" for an empty record list or when
// every thumbnail fetch failed; individual failures only blank their cell.
func (g *Generator) Generate(ctx context.Context, records []commons.ImageRecord) (string, error) {
	if len(records) == 0 {
		return "", nil
	}
	if len(records) > g.opts.MaxItems {
		records = records[:g.opts.MaxItems]
	}

	thumbs := g.fetchThumbnails(ctx, records)
	if len(thumbs) == 0 {
		return "", nil
	}

	data, err := g.composeGrid(thumbs, len(records))
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}
