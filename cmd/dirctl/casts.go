package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newCastsCmd())
}

func newCastsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "casts <archive>",
		Short: "List cast libraries and their members",
		Long: `The casts command prints every cast library (CAS* resource) with its
occupied slots: slot number, member resource id, type and name.

Example:
  dirctl casts movie.dir
  dirctl casts internal.cst --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCasts(args)
		},
	}
	return cmd
}

func runCasts(args []string) error {
	a, err := openArchive(args[0])
	if err != nil {
		return err
	}
	defer finish(a)

	libs, err := a.ReadCastLibraries()
	if err != nil {
		return fmt.Errorf("failed to read cast libraries: %w", err)
	}
	if jsonOut {
		return printJSON(withDiagnostics(a, "cast_libraries", libs))
	}
	for _, lib := range libs {
		printInfo("Cast %d (%d/%d slots used)\n", lib.ResourceID, len(lib.Members), lib.EntryCount)
		for _, m := range lib.Members {
			printInfo("  %4d  %6d  %-12s %s\n", m.Slot, m.ResourceID, m.MemberType, m.Name)
		}
	}
	return nil
}
