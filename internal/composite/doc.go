// Package composite builds a single labeled thumbnail-grid image from a
// list of normalized search records. Thumbnails are fetched concurrently
// with per-item failure isolation, resized into uniform cells, laid into a
// fixed-column grid with 1-based index labels and encoded as one JPEG.
package composite
