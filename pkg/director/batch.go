package director

import (
	"context"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// BatchOptions configures ReadFiles.
type BatchOptions struct {
	// Concurrency bounds how many files are parsed at once. Zero uses
	// GOMAXPROCS.
	Concurrency int

	// Open is applied to every file. SourceName is set per file.
	Open OpenOptions
}

// FileResult is the outcome of inspecting one file.
type FileResult struct {
	Path    string  `json:"path"`
	Summary Summary `json:"summary"`
	Err     error   `json:"-"`
}

// ReadFiles inspects paths concurrently and returns one result per path, in
// input order. Failures are reported per result. Cancelling ctx stops new
// files from starting; files not started carry ctx.Err().
func ReadFiles(ctx context.Context, paths []string, opts BatchOptions) []FileResult {
	results := make([]FileResult, len(paths))
	if len(paths) == 0 {
		return results
	}
	workers := opts.Concurrency
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	logger := opts.Open.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger.Debug("batch read", "files", len(paths), "workers", workers)

	var g errgroup.Group
	g.SetLimit(workers)
	for i, path := range paths {
		results[i].Path = path
		if err := ctx.Err(); err != nil {
			results[i].Err = err
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}
			fileOpts := opts.Open
			fileOpts.SourceName = path
			sum, err := InspectFile(path, fileOpts)
			results[i].Summary = sum
			results[i].Err = err
			if err != nil {
				logger.Warn("read failed", "path", path, "err", err)
			}
			return nil
		})
	}
	_ = g.Wait()
	return results
}
