package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/dirkit/pkg/director"
)

func init() {
	rootCmd.AddCommand(newInfoCmd())
}

func newInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <archive>...",
		Short: "Report the format and content counts of one or more archives",
		Long: `The info command validates each archive's header and resource map and
reports its format descriptor, linkage mode and content counts. Several
archives are parsed concurrently (see --concurrency).

Example:
  dirctl info movie.dir
  dirctl info *.cst --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(cmd.Context(), args)
		},
	}
	return cmd
}

type infoResult struct {
	Path    string            `json:"path"`
	Summary *director.Summary `json:"summary,omitempty"`
	Error   string            `json:"error,omitempty"`
}

func runInfo(ctx context.Context, paths []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	opts, err := openOptions("")
	if err != nil {
		return err
	}
	printVerbose("Reading %d archive(s)\n", len(paths))
	results := director.ReadFiles(ctx, paths, director.BatchOptions{Concurrency: concurrency, Open: opts})

	failed := 0
	out := make([]infoResult, len(results))
	for i, r := range results {
		out[i].Path = r.Path
		if r.Err != nil {
			failed++
			out[i].Error = r.Err.Error()
			continue
		}
		sum := r.Summary
		out[i].Summary = &sum
	}

	if jsonOut {
		if err := printJSON(out); err != nil {
			return err
		}
	} else {
		for _, r := range out {
			if r.Summary == nil {
				printError("%s: %s\n", r.Path, r.Error)
				continue
			}
			printSummary(r.Path, r.Summary)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d archive(s) could not be read", failed, len(paths))
	}
	return nil
}

func printSummary(path string, s *director.Summary) {
	db := s.Container.DataBlock
	printInfo("\nArchive Information:\n")
	printInfo("  File: %s\n", path)
	if stat, err := os.Stat(path); err == nil {
		size := stat.Size()
		if size < 1024 {
			printInfo("  Size: %d bytes\n", size)
		} else if size < 1024*1024 {
			printInfo("  Size: %.1f KB\n", float64(size)/1024)
		} else {
			printInfo("  Size: %.1f MB\n", float64(size)/(1024*1024))
		}
	}
	order := "little-endian"
	if db.IsBigEndian {
		order = "big-endian"
	}
	printInfo("  Magic: %s (%s)\n", db.Magic, order)
	printInfo("  Codec: %s\n", db.Codec)
	printInfo("  Version: %s (archive 0x%X, map %d)\n", db.DirectorVersionLabel, db.ArchiveVersion, db.MapVersion)
	if db.IsProjector {
		printInfo("  Projector: yes\n")
	}
	printInfo("  Payload: %d-%d\n", db.PayloadStart, db.PayloadEnd)
	printInfo("  Resources: %d\n", s.Container.Resources.Len())
	printInfo("  Linkage: %s (%d key links)\n", s.Container.Linkage, s.KeyLinks)
	members := 0
	for _, lib := range s.CastLibraries {
		members += len(lib.Members)
	}
	printInfo("  Cast libraries: %d (%d members)\n", len(s.CastLibraries), members)
	printInfo("  Bitmaps: %d\n", s.Bitmaps)
	printInfo("  Shapes: %d\n", s.Shapes)
	printInfo("  Fields: %d\n", s.Fields)
	printInfo("  Sounds: %d\n", s.Sounds)
	if s.Diagnostics != nil {
		printInfo("\n%s", s.Diagnostics.FormatTextCompact())
	}
}
