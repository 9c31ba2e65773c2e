package commons

import (
	"regexp"
	"sort"
)

const truncationMarker = "..."

var markupTag = regexp.MustCompile(`<[^>]+>`)

// NormalizeOptions bounds the free-text fields of normalized records.
type NormalizeOptions struct {
	// TextLimit caps captions, dates, descriptions, credit, artist and
	// usage terms, in characters.
	TextLimit int
	// LicenseNameLimit caps the license short name, in characters.
	LicenseNameLimit int
}

// DefaultNormalizeOptions returns the standard field caps.
func DefaultNormalizeOptions() NormalizeOptions {
	return NormalizeOptions{
		TextLimit:        500,
		LicenseNameLimit: 100,
	}
}

// Normalize turns a raw search document into one page of image records.
//
// The raw page list is sorted by its ordinal index, then the caller's
// offset/limit select a window of that full set; the document is expected
// to hold one item past the window so HasMore can be decided without a
// second round trip. Pages without a usable thumbnail URL, width or height
// are dropped entirely. A document carrying an explicit error block fails
// with an *APIError instead of being partially normalized.
func Normalize(doc *RawDocument, offset, limit int, opts NormalizeOptions) (*SearchResultPage, error) {
	if doc.Error != nil {
		return nil, &APIError{Code: doc.Error.Code, Info: doc.Error.Info}
	}

	result := &SearchResultPage{Images: []ImageRecord{}}
	if doc.Query == nil || len(doc.Query.Pages) == 0 {
		return result, nil
	}

	pages := make([]RawPage, len(doc.Query.Pages))
	copy(pages, doc.Query.Pages)
	sort.SliceStable(pages, func(i, j int) bool {
		return pages[i].Index < pages[j].Index
	})

	start := offset
	if start > len(pages) {
		start = len(pages)
	}
	end := offset + limit
	if end > len(pages) {
		end = len(pages)
	}

	if len(pages) > offset+limit {
		result.HasMore = true
		result.NextOffset = offset + limit
	}

	for _, page := range pages[start:end] {
		rec, ok := buildRecord(page, opts)
		if !ok {
			continue
		}
		result.Images = append(result.Images, rec)
	}

	return result, nil
}

// buildRecord maps one raw page to an ImageRecord. The second return value
// is false when the page lacks the required thumbnail URL or dimensions.
func buildRecord(page RawPage, opts NormalizeOptions) (ImageRecord, bool) {
	if len(page.ImageInfo) == 0 {
		return ImageRecord{}, false
	}
	info := page.ImageInfo[0]
	if info.ThumbURL == "" || info.Width <= 0 || info.Height <= 0 {
		return ImageRecord{}, false
	}

	rec := ImageRecord{
		Index:          page.Index,
		Title:          page.Title,
		URL:            info.ThumbURL,
		Width:          info.Width,
		Height:         info.Height,
		AspectRatio:    ApproximateRatio(info.Width, info.Height),
		DescriptionURL: info.DescriptionShortURL,
		Size:           info.Size,
		Caption:        truncate(info.ext("ObjectName"), opts.TextLimit),
		Date:           truncate(stripMarkup(info.ext("DateTimeOriginal")), opts.TextLimit),
		Description:    truncate(stripMarkup(info.ext("ImageDescription")), opts.TextLimit),
		Credit:         truncate(stripMarkup(info.ext("Credit")), opts.TextLimit),
		Artist:         truncate(stripMarkup(info.ext("Artist")), opts.TextLimit),
	}

	license := License{
		Name:       truncate(info.ext("LicenseShortName"), opts.LicenseNameLimit),
		UsageTerms: truncate(stripMarkup(info.ext("UsageTerms")), opts.TextLimit),
		URL:        info.ext("LicenseUrl"),
	}
	if license != (License{}) {
		rec.License = &license
	}

	return rec, true
}

// stripMarkup removes embedded HTML tags; Commons extmetadata values are
// frequently wiki-rendered fragments.
func stripMarkup(s string) string {
	return markupTag.ReplaceAllString(s, "")
}

// truncate caps s at limit characters, appending a marker when it was cut.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if limit <= 0 || len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + truncationMarker
}
