package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/dirkit/pkg/types"
)

var resourcesTag string

func init() {
	cmd := newResourcesCmd()
	cmd.Flags().StringVar(&resourcesTag, "tag", "", "Only list resources with this four-character tag")
	rootCmd.AddCommand(cmd)
}

func newResourcesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resources <archive>",
		Short: "List the resource directory",
		Long: `The resources command lists every live entry of the archive's resource
map in on-disk order: id, tag, size and offset.

Example:
  dirctl resources movie.dir
  dirctl resources movie.dir --tag CASt --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResources(args)
		},
	}
	return cmd
}

func runResources(args []string) error {
	a, err := openArchive(args[0])
	if err != nil {
		return err
	}
	defer finish(a)

	c, err := a.ReadDirFilesContainer()
	if err != nil {
		return fmt.Errorf("failed to read directory: %w", err)
	}
	entries := c.Resources.Entries()
	if resourcesTag != "" {
		entries = c.Resources.ByTag(types.MakeChunkTag(resourcesTag))
	}

	if jsonOut {
		return printJSON(withDiagnostics(a, "resources", entries))
	}
	for _, e := range entries {
		printInfo("%6d  %-4s  %10d  0x%08X\n", e.ID, e.Tag, e.Size, e.Offset)
	}
	printVerbose("%d resource(s)\n", len(entries))
	return nil
}
