// =============================================================================
// CAMEO to CSV Converter - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. Running the root
// command with no arguments performs the whole conversion and writes CSV to
// standard output.
//
// COBRA CLI STRUCTURE:
//   rootCmd (cameo2csv)          - convert, same as 'cameo2csv convert'
//   ├── convertCmd (cameo2csv convert)
//   └── versionCmd (cameo2csv version)
//
// CONFIGURATION:
//   The root command is responsible for:
//   1. Setting up global flags (--config, --verbose, source/output overrides)
//   2. Loading the optional configuration file
//   3. Setting up logging
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ginjaninja78/cameo-to-csv/internal/config"
	"github.com/ginjaninja78/cameo-to-csv/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the configuration file.
// A missing file is fine; defaults are used.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// Flag overrides for the configuration file. They only apply when set.
var (
	sourceFile   string
	sourceURL    string
	outputPath   string
	outputFormat string
)

// cfg is the effective configuration, set by loadSettings.
var cfg *config.Config

// logger is the process logger, set by loadSettings.
var logger *zap.Logger

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "cameo2csv",
	Short: "Convert the CAMEO event-code listing to CSV",
	Long: `cameo2csv reads the CAMEO event-code listing and writes one CSV record per
code, with the code split into tiers and the description lowercased:

  "tier1code","tier2code","tier3code","description"
  "03","1","1","express intent to cooperate economically"

The listing is read from cameocodes.txt in the working directory, or
downloaded from the GDELT lookup URL when that file does not exist.

Example Usage:
  cameo2csv                                # Convert to stdout
  cameo2csv -o out/cameo_{timestamp}.csv   # Convert to a file
  cameo2csv --format xlsx -o cameo.xlsx    # Write an Excel workbook
  cameo2csv --config ./cameo.yaml          # Use a custom configuration file`,

	// Errors are reported once by Execute.
	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}
		return loadSettings(cmd)
	},

	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},

	RunE: func(cmd *cobra.Command, args []string) error {
		return runConvert(cmd.Context(), cmd.OutOrStdout())
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. It is called by main.main().
// SIGINT and SIGTERM cancel the command context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

// init sets up the global flags.
func init() {
	flags := rootCmd.PersistentFlags()

	flags.StringVar(&cfgFile, "config", "config.yaml",
		"Path to the configuration file (optional)")
	flags.BoolVarP(&verbose, "verbose", "v", false,
		"Enable debug logging")
	flags.StringVar(&sourceFile, "source", "",
		"Local CAMEO listing (default cameocodes.txt)")
	flags.StringVar(&sourceURL, "url", "",
		"URL fetched when the local listing does not exist")
	flags.StringVarP(&outputPath, "output", "o", "",
		`Output path, "-" for stdout; supports {uuid} and {timestamp}`)
	flags.StringVar(&outputFormat, "format", "",
		"Output format: csv or xlsx")
}

// loadSettings loads the configuration, applies flag overrides and builds
// the logger.
func loadSettings(cmd *cobra.Command) error {
	loaded, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("source") {
		loaded.Source.File = sourceFile
	}
	if flags.Changed("url") {
		loaded.Source.URL = sourceURL
	}
	if flags.Changed("output") {
		loaded.Output.Path = outputPath
	}
	if flags.Changed("format") {
		loaded.Output.Format = strings.ToLower(outputFormat)
	}
	if err := loaded.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	log, err := logging.New(loaded.Logging, verbose)
	if err != nil {
		return err
	}

	cfg = loaded
	logger = log
	return nil
}
