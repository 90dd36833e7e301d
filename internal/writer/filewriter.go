// Package writer synthesizes archives the reader accepts and provides the
// sinks they, and extracted payloads, are written to.
package writer

import (
	"fmt"
	"os"
	"path/filepath"
)

// Sink receives fully materialized bytes. The buffer must be treated as
// immutable after return.
type Sink interface {
	WriteBytes(buf []byte) error
}

// FileWriter writes bytes to a filesystem path atomically.
type FileWriter struct {
	Path string
	// Perm is applied to the written file. Zero selects 0o644.
	Perm os.FileMode
}

// WriteBytes writes buf to the configured path atomically via temp file + rename.
func (w *FileWriter) WriteBytes(buf []byte) error {
	// Temp file in the same directory so the rename stays on one filesystem
	dir := filepath.Dir(w.Path)
	tmpFile, err := os.CreateTemp(dir, ".dirkit-tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	defer func() {
		if tmpFile != nil {
			_ = tmpFile.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, writeErr := tmpFile.Write(buf); writeErr != nil {
		return fmt.Errorf("write temp file: %w", writeErr)
	}
	if syncErr := tmpFile.Sync(); syncErr != nil {
		return fmt.Errorf("sync temp file: %w", syncErr)
	}
	perm := w.Perm
	if perm == 0 {
		perm = 0o644
	}
	if chmodErr := tmpFile.Chmod(perm); chmodErr != nil {
		return fmt.Errorf("chmod temp file: %w", chmodErr)
	}
	if closeErr := tmpFile.Close(); closeErr != nil {
		return fmt.Errorf("close temp file: %w", closeErr)
	}
	tmpFile = nil // Don't clean up in defer

	if renameErr := os.Rename(tmpPath, w.Path); renameErr != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", renameErr)
	}
	return nil
}
