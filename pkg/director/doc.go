/*
Package director reads legacy Director-style archives (.dir, .cst, .dxr,
projectors) and exposes their resource directory, cast libraries and typed
content.

# Quick Start

Open an archive and list its sounds:

	a, err := director.Open("movie.dir", director.OpenOptions{})
	if err != nil {
	    log.Fatal(err)
	}
	defer a.Close()

	sounds, err := a.ReadSounds()
	for _, s := range sounds {
	    fmt.Println(s.Name, len(s.Bytes), s.Digest())
	}

# Inspection

Inspect reads everything once and returns a Summary:

	sum, err := director.Inspect(src, director.OpenOptions{CollectDiagnostics: true})
	fmt.Println(sum.Container.DataBlock.DirectorVersionLabel, sum.Shapes)

ReadFiles inspects many files concurrently. Each file gets its own result;
one unreadable file never fails the batch:

	results := director.ReadFiles(ctx, paths, director.BatchOptions{Concurrency: 4})
	for _, r := range results {
	    if r.Err != nil {
	        log.Printf("%s: %v", r.Path, r.Err)
	    }
	}

# Errors

Structural failures (truncated header, unknown magic, unreadable resource
map) are returned from Open. Failures confined to one resource are omitted
from the read results and recorded as diagnostics when
OpenOptions.CollectDiagnostics is set. All errors match the sentinels in
pkg/types via errors.Is.
*/
package director
