package cli

import "time"

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile  string
	LogLevel string

	// Commons API flags
	Endpoint      string
	SearchTimeout time.Duration
	UserAgent     string

	// Composite flags
	ThumbSize        int
	GridColumns      int
	GridSpacing      int
	MaxComposite     int
	JPEGQuality      int
	FetchTimeout     time.Duration
	FetchConcurrency int
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		LogLevel:         "info",
		SearchTimeout:    30 * time.Second,
		ThumbSize:        256,
		GridColumns:      3,
		GridSpacing:      10,
		MaxComposite:     15,
		JPEGQuality:      90,
		FetchTimeout:     15 * time.Second,
		FetchConcurrency: 8,
	}
}
