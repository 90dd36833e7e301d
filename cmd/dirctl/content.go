package main

import (
	"fmt"

	"github.com/opencontainers/go-digest"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(
		newContentCmd("bitmaps", "List bitmap resources and their classified formats", runBitmaps),
		newContentCmd("shapes", "List shape members with their normalized records", runShapes),
		newContentCmd("fields", "List field text resources", runFields),
		newContentCmd("sounds", "List sound members and their audio payloads", runSounds),
	)
}

func newContentCmd(name, short string, run func(path string) error) *cobra.Command {
	return &cobra.Command{
		Use:   name + " <archive>",
		Short: short,
		Long: fmt.Sprintf(`The %[1]s command reads every %[1]s record of the archive. Records that
fail to decode are skipped; use --diagnostics to see why.

Example:
  dirctl %[1]s movie.dir
  dirctl %[1]s movie.dir --json`, name),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args[0])
		},
	}
}

// contentRow is the JSON view shared by the content commands.
type contentRow struct {
	ResourceID int32         `json:"resource_id"`
	OwnerID    int32         `json:"owner_id,omitempty"`
	DataID     int32         `json:"data_id,omitempty"`
	Name       string        `json:"name,omitempty"`
	Tag        string        `json:"tag,omitempty"`
	Format     string        `json:"format"`
	Size       int           `json:"size"`
	Digest     digest.Digest `json:"digest"`
	Detail     interface{}   `json:"detail,omitempty"`
}

func printRows(key string, rows []contentRow, emit func(a interface{}) error) error {
	if jsonOut {
		return emit(rows)
	}
	for _, r := range rows {
		label := r.Name
		if label == "" {
			label = r.Tag
		}
		printInfo("%6d  %-28s %-10s %8d  %s\n", r.ResourceID, r.Format, label, r.Size, r.Digest.Encoded()[:12])
		if verbose && r.Detail != nil {
			printInfo("        %v\n", r.Detail)
		}
	}
	printVerbose("%d %s\n", len(rows), key)
	return nil
}

func runBitmaps(path string) error {
	a, err := openArchive(path)
	if err != nil {
		return err
	}
	defer finish(a)

	bitmaps, err := a.ReadBitmaps()
	if err != nil {
		return fmt.Errorf("failed to read bitmaps: %w", err)
	}
	rows := make([]contentRow, 0, len(bitmaps))
	for _, b := range bitmaps {
		rows = append(rows, contentRow{
			ResourceID: b.ResourceID,
			OwnerID:    b.OwnerID,
			Tag:        b.Tag.String(),
			Format:     b.Format.String(),
			Size:       len(b.Bytes),
			Digest:     b.Digest(),
		})
	}
	return printRows("bitmaps", rows, func(v interface{}) error {
		return printJSON(withDiagnostics(a, "bitmaps", v))
	})
}

func runShapes(path string) error {
	a, err := openArchive(path)
	if err != nil {
		return err
	}
	defer finish(a)

	shapes, err := a.ReadShapes()
	if err != nil {
		return fmt.Errorf("failed to read shapes: %w", err)
	}
	rows := make([]contentRow, 0, len(shapes))
	for _, s := range shapes {
		row := contentRow{
			ResourceID: s.ResourceID,
			OwnerID:    s.OwnerID,
			Name:       s.Name,
			Format:     s.Format.String(),
			Size:       len(s.Bytes),
			Digest:     s.Digest(),
		}
		if shape, err := s.Shape(); err == nil {
			row.Detail = shape
		}
		rows = append(rows, row)
	}
	return printRows("shapes", rows, func(v interface{}) error {
		return printJSON(withDiagnostics(a, "shapes", v))
	})
}

func runFields(path string) error {
	a, err := openArchive(path)
	if err != nil {
		return err
	}
	defer finish(a)

	fields, err := a.ReadFields()
	if err != nil {
		return fmt.Errorf("failed to read fields: %w", err)
	}
	rows := make([]contentRow, 0, len(fields))
	for _, f := range fields {
		row := contentRow{
			ResourceID: f.ResourceID,
			OwnerID:    f.OwnerID,
			Tag:        "STXT",
			Format:     f.Format.String(),
			Size:       len(f.Bytes),
			Digest:     f.Digest(),
		}
		if text, err := f.Text(); err == nil {
			row.Detail = string(text)
		}
		rows = append(rows, row)
	}
	return printRows("fields", rows, func(v interface{}) error {
		return printJSON(withDiagnostics(a, "fields", v))
	})
}

func runSounds(path string) error {
	a, err := openArchive(path)
	if err != nil {
		return err
	}
	defer finish(a)

	sounds, err := a.ReadSounds()
	if err != nil {
		return fmt.Errorf("failed to read sounds: %w", err)
	}
	rows := make([]contentRow, 0, len(sounds))
	for _, s := range sounds {
		rows = append(rows, contentRow{
			ResourceID: s.ResourceID,
			OwnerID:    s.OwnerID,
			DataID:     s.DataID,
			Name:       s.Name,
			Format:     s.Format.String(),
			Size:       len(s.Bytes),
			Digest:     s.Digest(),
		})
	}
	return printRows("sounds", rows, func(v interface{}) error {
		return printJSON(withDiagnostics(a, "sounds", v))
	})
}
