package reader

import (
	"errors"
	"fmt"
	"sync"

	"github.com/joshuapare/dirkit/pkg/types"
)

// diagnosticSet remembers which issues an archive has already reported.
// Reads re-derive every structure, so the same issue comes up once per read.
type diagnosticSet struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

func newDiagnosticSet() *diagnosticSet {
	return &diagnosticSet{keys: make(map[string]struct{})}
}

// first reports whether d has not been seen before and marks it seen.
func (s *diagnosticSet) first(d types.Diagnostic) bool {
	key := fmt.Sprintf("%d/%d/%d/%s", d.Kind, d.ResourceID, d.Offset, d.Issue)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.keys[key]; dup {
		return false
	}
	s.keys[key] = struct{}{}
	return true
}

// diagnosticCollector accumulates diagnostics across reads. It is nil in
// normal mode; record on a nil collector is a no-op. Callers pass each issue
// once.
type diagnosticCollector struct {
	mu     sync.Mutex
	report *types.DiagnosticReport
}

func newDiagnosticCollector(source string, size int) *diagnosticCollector {
	report := types.NewDiagnosticReport()
	report.Source = source
	report.FileSize = int64(size)
	return &diagnosticCollector{report: report}
}

func (dc *diagnosticCollector) record(d types.Diagnostic) {
	if dc == nil {
		return
	}
	dc.mu.Lock()
	defer dc.mu.Unlock()
	dc.report.Add(d)
}

// getReport returns a finalized snapshot of the report.
func (dc *diagnosticCollector) getReport() *types.DiagnosticReport {
	if dc == nil {
		return nil
	}
	dc.mu.Lock()
	defer dc.mu.Unlock()
	return dc.report.Clone()
}

// Helper functions for creating common diagnostics

func diagStructure(sev types.Severity, e types.ResourceEntry, issue string, err error) types.Diagnostic {
	return types.Diagnostic{
		Severity:   sev,
		Category:   types.DiagStructure,
		Kind:       kindOf(err, types.ErrKindCorrupt),
		ResourceID: e.ID,
		Tag:        e.Tag,
		Offset:     e.Offset,
		Issue:      issue,
		Err:        err,
	}
}

func diagRelationship(sev types.Severity, e types.ResourceEntry, issue string) types.Diagnostic {
	return types.Diagnostic{
		Severity:   sev,
		Category:   types.DiagRelationship,
		Kind:       types.ErrKindInvalidRelationship,
		ResourceID: e.ID,
		Tag:        e.Tag,
		Offset:     e.Offset,
		Issue:      issue,
	}
}

func diagData(sev types.Severity, e types.ResourceEntry, issue string, err error) types.Diagnostic {
	return types.Diagnostic{
		Severity:   sev,
		Category:   types.DiagData,
		Kind:       kindOf(err, types.ErrKindCorrupt),
		ResourceID: e.ID,
		Tag:        e.Tag,
		Offset:     e.Offset,
		Issue:      issue,
		Err:        err,
	}
}

func diagCompat(e types.ResourceEntry, kind types.ErrKind, issue string) types.Diagnostic {
	return types.Diagnostic{
		Severity:   types.SevInfo,
		Category:   types.DiagCompat,
		Kind:       kind,
		ResourceID: e.ID,
		Tag:        e.Tag,
		Offset:     e.Offset,
		Issue:      issue,
	}
}

func kindOf(err error, fallback types.ErrKind) types.ErrKind {
	var te *types.Error
	if errors.As(err, &te) {
		return te.Kind
	}
	return fallback
}
