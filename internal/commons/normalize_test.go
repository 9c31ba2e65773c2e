package commons

import (
	"errors"
	"strings"
	"testing"
)

// rawPage builds a valid raw page with the given ordinal.
func rawPage(index int, title string) RawPage {
	return RawPage{
		PageID: 1000 + index,
		Index:  index,
		Title:  title,
		ImageInfo: []RawImageInfo{{
			ThumbURL:            "https://upload.example.org/thumb/a/ab/Img.jpg/256px-Img.jpg",
			Width:               4000,
			Height:              3000,
			Size:                123456,
			URL:                 "https://upload.example.org/a/ab/Img.jpg",
			DescriptionShortURL: "https://commons.example.org/?curid=42",
			Mime:                "image/jpeg",
		}},
	}
}

func docWith(pages ...RawPage) *RawDocument {
	return &RawDocument{Query: &RawQuery{Pages: pages}}
}

func TestNormalizeSortsByOrdinal(t *testing.T) {
	doc := docWith(rawPage(2, "File:C.jpg"), rawPage(0, "File:A.jpg"), rawPage(1, "File:B.jpg"))

	page, err := Normalize(doc, 0, 10, DefaultNormalizeOptions())
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}

	if len(page.Images) != 3 {
		t.Fatalf("Expected 3 images, got %d", len(page.Images))
	}
	for i, rec := range page.Images {
		if rec.Index != i {
			t.Errorf("Image %d has index %d, want %d", i, rec.Index, i)
		}
	}
}

func TestNormalizePagination(t *testing.T) {
	// 7 items in the full set; the document would hold offset+limit+1 of
	// them in production, which a full set always satisfies.
	pages := make([]RawPage, 7)
	for i := range pages {
		pages[i] = rawPage(i, "File:Img.jpg")
	}

	tests := []struct {
		offset, limit  int
		wantCount      int
		wantHasMore    bool
		wantNextOffset int
	}{
		{0, 3, 3, true, 3},
		{3, 3, 3, true, 6},
		{6, 3, 1, false, 0},
		{0, 7, 7, false, 0},
		{0, 10, 7, false, 0},
		{10, 5, 0, false, 0},
	}

	for _, tt := range tests {
		page, err := Normalize(docWith(pages...), tt.offset, tt.limit, DefaultNormalizeOptions())
		if err != nil {
			t.Fatalf("Normalize(%d, %d) returned error: %v", tt.offset, tt.limit, err)
		}
		if len(page.Images) != tt.wantCount {
			t.Errorf("Normalize(%d, %d) returned %d images, want %d", tt.offset, tt.limit, len(page.Images), tt.wantCount)
		}
		if page.HasMore != tt.wantHasMore {
			t.Errorf("Normalize(%d, %d) HasMore = %v, want %v", tt.offset, tt.limit, page.HasMore, tt.wantHasMore)
		}
		if page.NextOffset != tt.wantNextOffset {
			t.Errorf("Normalize(%d, %d) NextOffset = %d, want %d", tt.offset, tt.limit, page.NextOffset, tt.wantNextOffset)
		}
	}
}

func TestNormalizeWindowUsesOrdinalOrder(t *testing.T) {
	doc := docWith(rawPage(3, "File:D.jpg"), rawPage(1, "File:B.jpg"), rawPage(0, "File:A.jpg"), rawPage(2, "File:C.jpg"))

	page, err := Normalize(doc, 1, 2, DefaultNormalizeOptions())
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}

	if len(page.Images) != 2 {
		t.Fatalf("Expected 2 images, got %d", len(page.Images))
	}
	if page.Images[0].Index != 1 || page.Images[1].Index != 2 {
		t.Errorf("Window selected ordinals %d, %d; want 1, 2", page.Images[0].Index, page.Images[1].Index)
	}
}

func TestNormalizeSkipsUnusablePages(t *testing.T) {
	noInfo := RawPage{Index: 1, Title: "File:NoInfo.jpg"}

	noThumb := rawPage(2, "File:NoThumb.jpg")
	noThumb.ImageInfo[0].ThumbURL = ""

	noWidth := rawPage(3, "File:NoWidth.jpg")
	noWidth.ImageInfo[0].Width = 0

	noHeight := rawPage(4, "File:NoHeight.jpg")
	noHeight.ImageInfo[0].Height = 0

	doc := docWith(rawPage(0, "File:Good.jpg"), noInfo, noThumb, noWidth, noHeight)

	page, err := Normalize(doc, 0, 10, DefaultNormalizeOptions())
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}

	if len(page.Images) != 1 {
		t.Fatalf("Expected 1 image, got %d", len(page.Images))
	}
	if page.Images[0].Title != "File:Good.jpg" {
		t.Errorf("Kept wrong record: %s", page.Images[0].Title)
	}
	// Dropped records must not shift the survivor's ordinal
	if page.Images[0].Index != 0 {
		t.Errorf("Surviving record index = %d, want 0", page.Images[0].Index)
	}
}

func TestNormalizeAPIError(t *testing.T) {
	doc := &RawDocument{Error: &RawError{Code: "srsearch-error", Info: "search is temporarily unavailable"}}

	_, err := Normalize(doc, 0, 10, DefaultNormalizeOptions())
	if err == nil {
		t.Fatal("Expected error for document with error block")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected *APIError, got %T", err)
	}
	if apiErr.Code != "srsearch-error" {
		t.Errorf("APIError code = %q, want \"srsearch-error\"", apiErr.Code)
	}
	if !strings.Contains(apiErr.Error(), "temporarily unavailable") {
		t.Errorf("APIError message %q should carry the upstream info", apiErr.Error())
	}
}

func TestNormalizeEmptyDocument(t *testing.T) {
	for _, doc := range []*RawDocument{{}, {Query: &RawQuery{}}} {
		page, err := Normalize(doc, 0, 10, DefaultNormalizeOptions())
		if err != nil {
			t.Fatalf("Normalize returned error: %v", err)
		}
		if len(page.Images) != 0 {
			t.Errorf("Expected no images, got %d", len(page.Images))
		}
		if page.HasMore {
			t.Error("Expected HasMore to be false for empty document")
		}
		if page.NextOffset != 0 {
			t.Errorf("Expected no NextOffset, got %d", page.NextOffset)
		}
	}
}

func TestNormalizeLicenseOmittedWhenEmpty(t *testing.T) {
	withLicense := rawPage(0, "File:Licensed.jpg")
	withLicense.ImageInfo[0].ExtMetadata = map[string]RawExtField{
		"LicenseShortName": {Value: "CC BY-SA 4.0"},
	}
	withoutLicense := rawPage(1, "File:Bare.jpg")

	page, err := Normalize(docWith(withLicense, withoutLicense), 0, 10, DefaultNormalizeOptions())
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}

	if page.Images[0].License == nil {
		t.Error("Expected license sub-object for record with license name")
	} else if page.Images[0].License.Name != "CC BY-SA 4.0" {
		t.Errorf("License name = %q, want \"CC BY-SA 4.0\"", page.Images[0].License.Name)
	}
	if page.Images[1].License != nil {
		t.Error("Expected no license sub-object for record without license fields")
	}
}

func TestNormalizeTruncatesAndStripsMarkup(t *testing.T) {
	long := strings.Repeat("x", 600)
	page0 := rawPage(0, "File:Long.jpg")
	page0.ImageInfo[0].ExtMetadata = map[string]RawExtField{
		"ImageDescription": {Value: flexString("<p>" + long + "</p>")},
		"Artist":           {Value: `<a href="https://example.org/u/jane">Jane</a>`},
		"UsageTerms":       {Value: "<b>Creative Commons</b> Attribution-Share Alike 4.0"},
	}

	page, err := Normalize(docWith(page0), 0, 10, DefaultNormalizeOptions())
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	rec := page.Images[0]

	if len([]rune(rec.Description)) != 500+len([]rune("...")) {
		t.Errorf("Description length = %d, want capped at 500 plus marker", len([]rune(rec.Description)))
	}
	if !strings.HasSuffix(rec.Description, "...") {
		t.Error("Expected truncation marker on capped description")
	}
	if strings.Contains(rec.Description, "<p>") {
		t.Error("Markup should be stripped before capping")
	}
	if rec.Artist != "Jane" {
		t.Errorf("Artist = %q, want \"Jane\"", rec.Artist)
	}
	if rec.License == nil || rec.License.UsageTerms != "Creative Commons Attribution-Share Alike 4.0" {
		t.Errorf("UsageTerms not stripped of markup: %+v", rec.License)
	}
}

func TestNormalizeRecordFields(t *testing.T) {
	page0 := rawPage(0, "File:Field.jpg")
	page0.ImageInfo[0].ExtMetadata = map[string]RawExtField{
		"ObjectName":       {Value: "A field at dawn"},
		"DateTimeOriginal": {Value: "2021-06-01"},
		"Credit":           {Value: "Own work"},
	}

	page, err := Normalize(docWith(page0), 0, 10, DefaultNormalizeOptions())
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	rec := page.Images[0]

	if rec.URL == "" || rec.Width != 4000 || rec.Height != 3000 {
		t.Errorf("Required fields missing: %+v", rec)
	}
	if rec.AspectRatio != "4:3" {
		t.Errorf("AspectRatio = %q, want \"4:3\"", rec.AspectRatio)
	}
	if rec.DescriptionURL != "https://commons.example.org/?curid=42" {
		t.Errorf("DescriptionURL = %q", rec.DescriptionURL)
	}
	if rec.Caption != "A field at dawn" || rec.Date != "2021-06-01" || rec.Credit != "Own work" {
		t.Errorf("Metadata fields wrong: %+v", rec)
	}
	if rec.Size != 123456 {
		t.Errorf("Size = %d, want 123456", rec.Size)
	}
}
