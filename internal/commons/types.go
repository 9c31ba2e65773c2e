package commons

import "encoding/json"

// RawDocument is the MediaWiki API response for a generator=search query
// with imageinfo props (formatversion=2).
type RawDocument struct {
	Error *RawError `json:"error"`
	Query *RawQuery `json:"query"`
}

// RawError is the explicit error block MediaWiki attaches to failed calls.
type RawError struct {
	Code string `json:"code"`
	Info string `json:"info"`
}

// RawQuery wraps the page list of a search response.
type RawQuery struct {
	Pages []RawPage `json:"pages"`
}

// RawPage is a single File: page returned by the search generator. Index is
// the page's position in the full result set, not within this response.
type RawPage struct {
	PageID    int            `json:"pageid"`
	Index     int            `json:"index"`
	Title     string         `json:"title"`
	ImageInfo []RawImageInfo `json:"imageinfo"`
}

// RawImageInfo carries the file-level metadata requested via iiprop.
type RawImageInfo struct {
	ThumbURL            string                 `json:"thumburl"`
	Size                int64                  `json:"size"`
	Width               int                    `json:"width"`
	Height              int                    `json:"height"`
	URL                 string                 `json:"url"`
	DescriptionShortURL string                 `json:"descriptionshorturl"`
	Mime                string                 `json:"mime"`
	ExtMetadata         map[string]RawExtField `json:"extmetadata"`
}

// RawExtField is one entry of the extmetadata bag.
type RawExtField struct {
	Value flexString `json:"value"`
}

// flexString tolerates the mixed value types MediaWiki emits in
// extmetadata: strings and bare numbers (e.g. DateTime) carry over, while
// objects, arrays and null hold no displayable text and decode to "".
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	var v string
	if err := json.Unmarshal(b, &v); err == nil {
		*s = flexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*s = flexString(n.String())
		return nil
	}
	*s = ""
	return nil
}

// ext returns the named extmetadata value, or "" if absent.
func (i *RawImageInfo) ext(name string) string {
	return string(i.ExtMetadata[name].Value)
}

// License groups the licensing fields of an image record. It is only
// attached when the source supplied at least one of them.
type License struct {
	Name       string `json:"name,omitempty"`
	UsageTerms string `json:"usageTerms,omitempty"`
	URL        string `json:"url,omitempty"`
}

// ImageRecord is the normalized output unit of a search. Index is the
// record's ordinal in the full unpaginated result set.
type ImageRecord struct {
	Index          int      `json:"index"`
	Title          string   `json:"title,omitempty"`
	URL            string   `json:"url"`
	Width          int      `json:"width"`
	Height         int      `json:"height"`
	AspectRatio    string   `json:"aspectRatio"`
	DescriptionURL string   `json:"descriptionUrl"`
	Size           int64    `json:"size,omitempty"`
	Caption        string   `json:"caption,omitempty"`
	Date           string   `json:"date,omitempty"`
	Description    string   `json:"description,omitempty"`
	Credit         string   `json:"credit,omitempty"`
	Artist         string   `json:"artist,omitempty"`
	License        *License `json:"license,omitempty"`
}

// SearchResultPage is one page of normalized records. NextOffset is only
// set when HasMore is true and then equals the offset of the next page.
type SearchResultPage struct {
	Images     []ImageRecord `json:"images"`
	HasMore    bool          `json:"hasMore"`
	NextOffset int           `json:"nextOffset,omitempty"`
}
