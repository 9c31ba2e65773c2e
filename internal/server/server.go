package server

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"codeberg.org/snonux/commonseek/internal"
	"codeberg.org/snonux/commonseek/internal/commons"
)

const (
	toolName = "search_images"

	maxQueryLength = 200
	maxPageLimit   = 50
	defaultLimit   = 9
)

// Options configures the MCP server surface.
type Options struct {
	NormalizeOptions commons.NormalizeOptions
	// ResponseTextLimit caps the formatted listing, in characters.
	ResponseTextLimit int
}

// DefaultOptions returns the standard server limits.
func DefaultOptions() Options {
	return Options{
		NormalizeOptions:  commons.DefaultNormalizeOptions(),
		ResponseTextLimit: 8000,
	}
}

// Searcher is the upstream search dependency; satisfied by *commons.Client.
type Searcher interface {
	Search(ctx context.Context, query string, offset, limit int, license commons.LicenseFilter) (*commons.RawDocument, error)
}

// CompositeGenerator builds the thumbnail grid; satisfied by *composite.Generator.
type CompositeGenerator interface {
	Generate(ctx context.Context, records []commons.ImageRecord) (string, error)
}

// Server wires the search pipeline into an MCP stdio server.
type Server struct {
	opts      Options
	searcher  Searcher
	generator CompositeGenerator
	logger    *slog.Logger
	mcp       *mcpserver.MCPServer
}

// New creates the MCP server and registers the search_images tool.
func New(opts Options, searcher Searcher, generator CompositeGenerator, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		opts:      opts,
		searcher:  searcher,
		generator: generator,
		logger:    logger,
	}

	s.mcp = mcpserver.NewMCPServer("commonseek", internal.Version,
		mcpserver.WithToolCapabilities(false),
	)
	s.mcp.AddTool(searchImagesTool(), s.handleSearchImages)

	return s
}

// Serve runs the server on stdin/stdout until the client disconnects.
func (s *Server) Serve() error {
	s.logger.Info("serving MCP on stdio", "tool", toolName)
	return mcpserver.ServeStdio(s.mcp)
}

func searchImagesTool() mcp.Tool {
	return mcp.NewTool(toolName,
		mcp.WithDescription("Search Wikimedia Commons for images by keyword. "+
			"Returns a paginated listing with licensing metadata and, on request, "+
			"a single labeled thumbnail grid for visual comparison."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.MinLength(1),
			mcp.MaxLength(maxQueryLength),
			mcp.Description("Search keywords"),
		),
		mcp.WithNumber("limit",
			mcp.DefaultNumber(defaultLimit),
			mcp.Min(1),
			mcp.Max(maxPageLimit),
			mcp.Description("Number of results per page"),
		),
		mcp.WithNumber("offset",
			mcp.DefaultNumber(0),
			mcp.Min(0),
			mcp.Description("Position in the full result set to start from"),
		),
		mcp.WithString("license",
			mcp.DefaultString(string(commons.LicenseAll)),
			mcp.Enum(string(commons.LicenseAll), string(commons.LicenseNoRestrictions)),
			mcp.Description("Restrict results by license"),
		),
		mcp.WithBoolean("include_thumbnails",
			mcp.DefaultBool(true),
			mcp.Description("Attach a composite thumbnail grid of the results"),
		),
	)
}

func (s *Server) handleSearchImages(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	query = strings.TrimSpace(query)
	if query == "" || len([]rune(query)) > maxQueryLength {
		return mcp.NewToolResultError(fmt.Sprintf("query must be 1-%d characters", maxQueryLength)), nil
	}

	limit := req.GetInt("limit", defaultLimit)
	if limit < 1 || limit > maxPageLimit {
		return mcp.NewToolResultError(fmt.Sprintf("limit must be between 1 and %d", maxPageLimit)), nil
	}
	offset := req.GetInt("offset", 0)
	if offset < 0 {
		return mcp.NewToolResultError("offset must not be negative"), nil
	}

	license := commons.LicenseFilter(req.GetString("license", string(commons.LicenseAll)))
	if license != commons.LicenseAll && license != commons.LicenseNoRestrictions {
		return mcp.NewToolResultError(fmt.Sprintf("unknown license filter %q", license)), nil
	}
	includeThumbnails := req.GetBool("include_thumbnails", true)

	s.logger.Info("searching",
		"query", query,
		"offset", offset,
		"limit", limit,
		"license", license,
	)

	doc, err := s.searcher.Search(ctx, query, offset, limit, license)
	if err != nil {
		s.logger.Error("search failed", "query", query, "error", err)
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	page, err := commons.Normalize(doc, offset, limit, s.opts.NormalizeOptions)
	if err != nil {
		s.logger.Error("search rejected by upstream", "query", query, "error", err)
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	text := formatPage(query, page, offset, s.opts.ResponseTextLimit)
	if !includeThumbnails || len(page.Images) == 0 {
		return mcp.NewToolResultText(text), nil
	}

	grid, err := s.generator.Generate(ctx, page.Images)
	if err != nil {
		s.logger.Warn("composite generation failed", "query", query, "error", err)
		return mcp.NewToolResultText(text), nil
	}
	if grid == "" {
		// Every thumbnail fetch failed; the listing still stands alone.
		return mcp.NewToolResultText(text), nil
	}
	return mcp.NewToolResultImage(text, grid, "image/jpeg"), nil
}
