package composite

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"strconv"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// labelInset is the offset of the index label from its cell's top-left
// corner, in pixels on each axis.
const labelInset = 5

// composeGrid lays the thumbs into a fixed-column grid and encodes the
// canvas as JPEG. itemCount is the pre-failure retained count: the canvas
// is sized for every requested item, so failed fetches leave their cell
// blank instead of shifting later thumbnails around.
func (g *Generator) composeGrid(thumbs []thumb, itemCount int) ([]byte, error) {
	cols := g.opts.Columns
	if itemCount < cols {
		cols = itemCount
	}
	cell := g.opts.ThumbSize
	spacing := g.opts.Spacing
	rows := (itemCount + cols - 1) / cols

	width := cols*cell + (cols+1)*spacing
	height := rows*cell + (rows+1)*spacing
	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	for _, t := range thumbs {
		row := t.pos / cols
		col := t.pos % cols
		left := col*cell + (col+1)*spacing
		top := row*cell + (row+1)*spacing

		b := t.img.Bounds()
		draw.Draw(canvas, image.Rect(left, top, left+b.Dx(), top+b.Dy()), t.img, b.Min, draw.Over)
		drawLabel(canvas, left+labelInset, top+labelInset, strconv.Itoa(t.pos+1))
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, canvas, &jpeg.Options{Quality: g.opts.JPEGQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode composite: %w", err)
	}
	return buf.Bytes(), nil
}

// drawLabel renders the 1-based display position near a cell's top-left
// corner. A dark pass offset in four directions under a white center keeps
// the numeral legible over arbitrary thumbnail content.
func drawLabel(dst *image.RGBA, x, y int, label string) {
	for _, off := range []image.Point{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
		drawString(dst, x+off.X, y+off.Y, label, color.Black)
	}
	drawString(dst, x, y, label, color.White)
}

func drawString(dst *image.RGBA, x, y int, s string, c color.Color) {
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(s)
}
