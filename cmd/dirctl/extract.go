package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joshuapare/dirkit/internal/writer"
	"github.com/joshuapare/dirkit/pkg/types"
)

var (
	extractKind string
	extractIDs  []int32
)

func init() {
	cmd := newExtractCmd()
	cmd.Flags().StringVar(&extractKind, "kind", "all", "What to extract: all, bitmaps, shapes, fields, sounds")
	cmd.Flags().Int32SliceVar(&extractIDs, "id", nil, "Extract the raw payload of these resource ids instead")
	rootCmd.AddCommand(cmd)
}

func newExtractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract <archive> <dir>",
		Short: "Write content payloads to a directory",
		Long: `The extract command writes decoded content payloads to <dir>, one file
per record, named <resource id>_<name>.<format>. With --id the raw chunk
payloads of the given resources are written instead.

Files are written atomically. <dir> is created when missing.

Example:
  dirctl extract movie.dir out/
  dirctl extract movie.dir out/ --kind sounds
  dirctl extract movie.dir out/ --id 14 --id 15`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(args)
		},
	}
	return cmd
}

type extracted struct {
	ResourceID int32  `json:"resource_id"`
	Path       string `json:"path"`
	Size       int    `json:"size"`
}

func runExtract(args []string) error {
	switch extractKind {
	case "all", "bitmaps", "shapes", "fields", "sounds":
	default:
		return fmt.Errorf("invalid --kind %q", extractKind)
	}
	outDir := args[1]
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	a, err := openArchive(args[0])
	if err != nil {
		return err
	}
	defer finish(a)

	var written []extracted
	write := func(id int32, name, ext string, data []byte) error {
		file := fmt.Sprintf("%d", id)
		if name = sanitizeName(name); name != "" {
			file += "_" + name
		}
		path := filepath.Join(outDir, file+"."+ext)
		w := &writer.FileWriter{Path: path}
		if err := w.WriteBytes(data); err != nil {
			return fmt.Errorf("failed to write resource %d: %w", id, err)
		}
		printVerbose("Wrote %s (%d bytes)\n", path, len(data))
		written = append(written, extracted{ResourceID: id, Path: path, Size: len(data)})
		return nil
	}

	if len(extractIDs) > 0 {
		c, err := a.ReadDirFilesContainer()
		if err != nil {
			return fmt.Errorf("failed to read directory: %w", err)
		}
		for _, id := range extractIDs {
			data, err := a.ResourceData(id)
			if err != nil {
				return fmt.Errorf("failed to read resource %d: %w", id, err)
			}
			e, _ := c.Resources.Lookup(id)
			if err := write(id, "", tagExt(e.Tag), data); err != nil {
				return err
			}
		}
	} else if err := extractContent(a, write); err != nil {
		return err
	}

	if jsonOut {
		return printJSON(withDiagnostics(a, "extracted", written))
	}
	printInfo("Extracted %d file(s) to %s\n", len(written), outDir)
	return nil
}

func extractContent(a types.Archive, write func(id int32, name, ext string, data []byte) error) error {
	want := func(kind string) bool { return extractKind == "all" || extractKind == kind }

	if want("bitmaps") {
		bitmaps, err := a.ReadBitmaps()
		if err != nil {
			return fmt.Errorf("failed to read bitmaps: %w", err)
		}
		for _, b := range bitmaps {
			if err := write(b.ResourceID, "", strings.ToLower(b.Format.String()), b.Bytes); err != nil {
				return err
			}
		}
	}
	if want("shapes") {
		shapes, err := a.ReadShapes()
		if err != nil {
			return fmt.Errorf("failed to read shapes: %w", err)
		}
		for _, s := range shapes {
			if err := write(s.ResourceID, s.Name, "shape", s.Bytes); err != nil {
				return err
			}
		}
	}
	if want("fields") {
		fields, err := a.ReadFields()
		if err != nil {
			return fmt.Errorf("failed to read fields: %w", err)
		}
		for _, f := range fields {
			text, err := f.Text()
			if err != nil {
				printVerbose("Skipping field %d: %v\n", f.ResourceID, err)
				continue
			}
			if err := write(f.ResourceID, "", "txt", text); err != nil {
				return err
			}
		}
	}
	if want("sounds") {
		sounds, err := a.ReadSounds()
		if err != nil {
			return fmt.Errorf("failed to read sounds: %w", err)
		}
		for _, s := range sounds {
			ext := "media"
			if s.Format == types.SoundSnd {
				ext = "snd"
			}
			if err := write(s.ResourceID, s.Name, ext, s.Bytes); err != nil {
				return err
			}
		}
	}
	return nil
}

// tagExt turns a chunk tag into a file extension ("BITD" -> "bitd").
func tagExt(tag types.ChunkTag) string {
	ext := sanitizeName(strings.ToLower(tag.String()))
	if ext == "" {
		return "bin"
	}
	return ext
}

// sanitizeName keeps letters, digits, '-' and '_' so member names are safe
// as file names.
func sanitizeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ' || r == '.':
			b.WriteRune('_')
		}
	}
	return strings.Trim(b.String(), "_")
}
