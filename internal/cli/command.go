package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/commonseek/internal"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "commonseek",
		Short: "Wikimedia Commons image search MCP server",
		Long: `commonseek serves a Model Context Protocol tool over stdio that
searches Wikimedia Commons for images by keyword.

Each search returns a paginated listing with licensing and provenance
metadata plus an optional composite thumbnail grid so a caller can compare
candidates in a single image.

Examples:
  commonseek                          # Serve on stdio with defaults
  commonseek --thumbnail-size 192     # Smaller grid cells
  commonseek --config ~/.commonseek.yaml  # Explicit config file`,
		Args:    cobra.NoArgs,
		Version: internal.Version,
	}

	setupFlags(rootCmd, flags)

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Global flags
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.commonseek.yaml)")

	// Local flags
	cmd.Flags().StringVar(&flags.LogLevel, "log-level", flags.LogLevel, "Log level (debug, info, warn, error); logs go to stderr")
	cmd.Flags().StringVar(&flags.Endpoint, "endpoint", flags.Endpoint, "Commons API endpoint (default is the public Wikimedia Commons API)")
	cmd.Flags().DurationVar(&flags.SearchTimeout, "search-timeout", flags.SearchTimeout, "Timeout for one search API call")
	cmd.Flags().StringVar(&flags.UserAgent, "user-agent", flags.UserAgent, "User-Agent header sent to the Commons API")
	cmd.Flags().IntVar(&flags.ThumbSize, "thumbnail-size", flags.ThumbSize, "Thumbnail bounding box and grid cell size in pixels")
	cmd.Flags().IntVar(&flags.GridColumns, "grid-columns", flags.GridColumns, "Number of columns in the composite grid")
	cmd.Flags().IntVar(&flags.GridSpacing, "grid-spacing", flags.GridSpacing, "Gap between grid cells in pixels")
	cmd.Flags().IntVar(&flags.MaxComposite, "max-composite-items", flags.MaxComposite, "Maximum number of thumbnails in one composite")
	cmd.Flags().IntVar(&flags.JPEGQuality, "jpeg-quality", flags.JPEGQuality, "JPEG quality of the composite image (1-100)")
	cmd.Flags().DurationVar(&flags.FetchTimeout, "fetch-timeout", flags.FetchTimeout, "Timeout for one thumbnail download")
	cmd.Flags().IntVar(&flags.FetchConcurrency, "fetch-concurrency", flags.FetchConcurrency, "Maximum concurrent thumbnail downloads")

	// Bind flags to viper
	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	viper.BindPFlag("log.level", cmd.Flags().Lookup("log-level"))
	viper.BindPFlag("commons.endpoint", cmd.Flags().Lookup("endpoint"))
	viper.BindPFlag("commons.search_timeout", cmd.Flags().Lookup("search-timeout"))
	viper.BindPFlag("commons.user_agent", cmd.Flags().Lookup("user-agent"))
	viper.BindPFlag("composite.thumbnail_size", cmd.Flags().Lookup("thumbnail-size"))
	viper.BindPFlag("composite.grid_columns", cmd.Flags().Lookup("grid-columns"))
	viper.BindPFlag("composite.grid_spacing", cmd.Flags().Lookup("grid-spacing"))
	viper.BindPFlag("composite.max_items", cmd.Flags().Lookup("max-composite-items"))
	viper.BindPFlag("composite.jpeg_quality", cmd.Flags().Lookup("jpeg-quality"))
	viper.BindPFlag("composite.fetch_timeout", cmd.Flags().Lookup("fetch-timeout"))
	viper.BindPFlag("composite.fetch_concurrency", cmd.Flags().Lookup("fetch-concurrency"))
}

// ApplyConfig overlays config-file values onto flags the user did not set
// explicitly on the command line. Bound keys resolve through viper, so a
// flag left at its default picks up the .commonseek.yaml value while an
// explicit flag keeps precedence.
func ApplyConfig(cmd *cobra.Command, flags *Flags) {
	if !cmd.Flags().Changed("log-level") {
		flags.LogLevel = viper.GetString("log.level")
	}
	if !cmd.Flags().Changed("endpoint") {
		flags.Endpoint = viper.GetString("commons.endpoint")
	}
	if !cmd.Flags().Changed("search-timeout") {
		flags.SearchTimeout = viper.GetDuration("commons.search_timeout")
	}
	if !cmd.Flags().Changed("user-agent") {
		flags.UserAgent = viper.GetString("commons.user_agent")
	}
	if !cmd.Flags().Changed("thumbnail-size") {
		flags.ThumbSize = viper.GetInt("composite.thumbnail_size")
	}
	if !cmd.Flags().Changed("grid-columns") {
		flags.GridColumns = viper.GetInt("composite.grid_columns")
	}
	if !cmd.Flags().Changed("grid-spacing") {
		flags.GridSpacing = viper.GetInt("composite.grid_spacing")
	}
	if !cmd.Flags().Changed("max-composite-items") {
		flags.MaxComposite = viper.GetInt("composite.max_items")
	}
	if !cmd.Flags().Changed("jpeg-quality") {
		flags.JPEGQuality = viper.GetInt("composite.jpeg_quality")
	}
	if !cmd.Flags().Changed("fetch-timeout") {
		flags.FetchTimeout = viper.GetDuration("composite.fetch_timeout")
	}
	if !cmd.Flags().Changed("fetch-concurrency") {
		flags.FetchConcurrency = viper.GetInt("composite.fetch_concurrency")
	}
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".commonseek" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".commonseek")
	}

	// Environment variables
	viper.SetEnvPrefix("COMMONSEEK")
	viper.AutomaticEnv()

	// Read config file. Messages go to stderr because stdout carries the
	// MCP transport.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
