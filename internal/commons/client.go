package commons

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"
)

const (
	// DefaultEndpoint is the Wikimedia Commons API entry point.
	DefaultEndpoint = "https://commons.wikimedia.org/w/api.php"

	defaultSearchTimeout = 30 * time.Second

	// lookahead is the number of items requested past the caller's window
	// so Normalize can decide HasMore without a second round trip.
	lookahead = 1

	// apiMaxResults is the hard gsrlimit ceiling of the MediaWiki API.
	apiMaxResults = 500

	// fileNamespace restricts the search generator to File: pages.
	fileNamespace = "6"

	// publicDomainStatement is the structured-data search clause selecting
	// files whose copyright status is public domain.
	publicDomainStatement = "haswbstatement:P6216=Q19652"

	extMetadataFields = "ObjectName|DateTimeOriginal|ImageDescription|Credit|Artist|LicenseShortName|UsageTerms|LicenseUrl"
)

// LicenseFilter selects which licensing classes a search may return.
type LicenseFilter string

const (
	// LicenseAll places no licensing restriction on results.
	LicenseAll LicenseFilter = "all"
	// LicenseNoRestrictions limits results to public-domain files.
	LicenseNoRestrictions LicenseFilter = "no_restrictions"
)

// APIError represents a failed Commons API call, either a bad HTTP status
// or an explicit error block in the response document.
type APIError struct {
	Code string
	Info string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("commons api error %s: %s", e.Code, e.Info)
}

// ClientOptions configures a Client.
type ClientOptions struct {
	Endpoint   string        // API entry point (default DefaultEndpoint)
	Timeout    time.Duration // per-search HTTP timeout
	ThumbWidth int           // requested thumbnail width (iiurlwidth)
	UserAgent  string        // sent on every request, required by Wikimedia
}

// Client queries the Commons search API. A circuit breaker guards the
// upstream so a flapping API fails fast instead of stalling every call.
type Client struct {
	endpoint   string
	thumbWidth int
	userAgent  string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
}

// NewClient creates a Commons search client.
func NewClient(opts ClientOptions) *Client {
	if opts.Endpoint == "" {
		opts.Endpoint = DefaultEndpoint
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultSearchTimeout
	}
	if opts.ThumbWidth <= 0 {
		opts.ThumbWidth = 256
	}
	return &Client{
		endpoint:   opts.Endpoint,
		thumbWidth: opts.ThumbWidth,
		userAgent:  opts.UserAgent,
		httpClient: &http.Client{Timeout: opts.Timeout},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name: "commons-search",
		}),
	}
}

// Search runs a keyword search over Commons files and returns the raw
// response document. The request asks for offset+limit+1 items so the
// caller's pagination window can look one item ahead.
func (c *Client) Search(ctx context.Context, query string, offset, limit int, license LicenseFilter) (*RawDocument, error) {
	reqURL := c.searchURL(query, offset, limit, license)

	doc, err := c.breaker.Execute(func() (any, error) {
		return c.fetch(ctx, reqURL)
	})
	if err != nil {
		return nil, err
	}
	return doc.(*RawDocument), nil
}

func (c *Client) fetch(ctx context.Context, reqURL string) (*RawDocument, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{
			Code: strconv.Itoa(resp.StatusCode),
			Info: "unexpected HTTP status from search endpoint",
		}
	}

	var doc RawDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &doc, nil
}

// searchURL builds the generator=search request for one page window.
func (c *Client) searchURL(query string, offset, limit int, license LicenseFilter) string {
	search := query
	if license == LicenseNoRestrictions {
		search += " " + publicDomainStatement
	}

	fetchCount := offset + limit + lookahead
	if fetchCount > apiMaxResults {
		fetchCount = apiMaxResults
	}

	params := url.Values{}
	params.Set("action", "query")
	params.Set("format", "json")
	params.Set("formatversion", "2")
	params.Set("generator", "search")
	params.Set("gsrsearch", search)
	params.Set("gsrnamespace", fileNamespace)
	params.Set("gsrlimit", strconv.Itoa(fetchCount))
	params.Set("prop", "imageinfo")
	params.Set("iiprop", "url|size|mime|extmetadata")
	params.Set("iiurlwidth", strconv.Itoa(c.thumbWidth))
	params.Set("iiextmetadatafilter", extMetadataFields)

	return c.endpoint + "?" + params.Encode()
}
