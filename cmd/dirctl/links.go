package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/dirkit/pkg/types"
)

func init() {
	rootCmd.AddCommand(newLinksCmd())
}

func newLinksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "links <archive>",
		Short: "List key table relationships",
		Long: `The links command prints the KEY* table: each child resource, the
owner it belongs to and the tag it was linked under. Archives without a key
table print nothing.

Example:
  dirctl links movie.dir`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLinks(args)
		},
	}
	return cmd
}

func runLinks(args []string) error {
	a, err := openArchive(args[0])
	if err != nil {
		return err
	}
	defer finish(a)

	links, err := a.ReadKeyLinks()
	if err != nil {
		return fmt.Errorf("failed to read key links: %w", err)
	}
	if jsonOut {
		return printJSON(withDiagnostics(a, "links", links))
	}
	if len(links) == 0 {
		c, err := a.ReadDirFilesContainer()
		if err == nil && c.Linkage == types.LinkageDirect {
			printVerbose("No key table; relationships follow id adjacency\n")
		}
		return nil
	}
	for _, l := range links {
		printInfo("%6d -> %-6d %s\n", l.ChildID, l.OwnerSlot, l.ChildTag)
	}
	return nil
}
