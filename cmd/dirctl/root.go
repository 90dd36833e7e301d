package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/dirkit/pkg/director"
	"github.com/joshuapare/dirkit/pkg/types"
)

var (
	// Global flags
	verbose      bool
	quiet        bool
	jsonOut      bool
	logLevel     string
	showDiag     bool
	strict       bool
	concurrency  int
	nameEncoding string
)

var rootCmd = &cobra.Command{
	Use:   "dirctl",
	Short: "Inspect and extract legacy Director archives",
	Long: `dirctl reads Director-style RIFX/XFIR archives (movies, casts and
projectors) and reports their resource directory, cast libraries, bitmaps,
shapes, fields and sounds. Payloads can be extracted to disk.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().
		StringVar(&logLevel, "log-level", "", "Log to stderr at this level (debug, info, warn, error)")
	rootCmd.PersistentFlags().
		BoolVar(&showDiag, "diagnostics", false, "Collect and print diagnostics after the command")
	rootCmd.PersistentFlags().
		BoolVar(&strict, "strict", false, "Apply conservative size limits for untrusted archives")
	rootCmd.PersistentFlags().
		IntVar(&concurrency, "concurrency", 0, "Files parsed at once by multi-file commands (0 = GOMAXPROCS)")
	rootCmd.PersistentFlags().
		StringVar(&nameEncoding, "name-encoding", "", "Member name charset: macintosh or windows1252 (default by byte order)")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// newLogger builds the stderr logger selected by --log-level. An empty level
// disables logging.
func newLogger() (*slog.Logger, error) {
	if logLevel == "" {
		return nil, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", logLevel, err)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})), nil
}

// openOptions assembles the archive options selected by the global flags.
func openOptions(path string) (types.OpenOptions, error) {
	logger, err := newLogger()
	if err != nil {
		return types.OpenOptions{}, err
	}
	enc := types.NameEncoding(nameEncoding)
	switch enc {
	case types.NameEncodingAuto, types.NameEncodingMacintosh, types.NameEncodingWindows1252:
	default:
		return types.OpenOptions{}, fmt.Errorf("invalid --name-encoding %q", nameEncoding)
	}
	opts := types.OpenOptions{
		SourceName:         path,
		CollectDiagnostics: showDiag,
		Logger:             logger,
		NameEncoding:       enc,
	}
	if strict {
		limits := types.StrictLimits()
		opts.Limits = &limits
	}
	return opts, nil
}

// openArchive opens path with the global options.
func openArchive(path string) (types.Archive, error) {
	opts, err := openOptions(path)
	if err != nil {
		return nil, err
	}
	printVerbose("Opening archive: %s\n", path)
	a, err := director.Open(path, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	return a, nil
}

// finish prints the diagnostics report when --diagnostics is set and closes
// the archive.
func finish(a types.Archive) error {
	defer a.Close()
	if !showDiag || jsonOut {
		return nil
	}
	report := a.Diagnostics()
	if report == nil {
		return nil
	}
	fmt.Fprint(os.Stderr, report.FormatText())
	return nil
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printError prints an error message
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format, args...)
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...interface{}) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// withDiagnostics pairs a JSON payload with the collected diagnostics.
func withDiagnostics(a types.Archive, key string, v interface{}) interface{} {
	if !showDiag {
		return v
	}
	return map[string]interface{}{
		key:           v,
		"diagnostics": a.Diagnostics(),
	}
}
