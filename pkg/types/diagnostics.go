package types

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// -----------------------------------------------------------------------------
// Diagnostics
// -----------------------------------------------------------------------------
//
// Reads skip resources that fail to decode instead of failing the whole
// archive. Each skip is logged and, when OpenOptions.CollectDiagnostics is
// set, recorded here with the resource id, tag and offset involved.

// Severity classifies how serious a diagnostic issue is.
type Severity int

const (
	SevInfo     Severity = iota // Informational (unusual but valid)
	SevWarning                  // A resource or relationship was skipped
	SevError                    // Data loss: a member's content is unreadable
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// MarshalText renders the severity for JSON output.
func (s Severity) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// DiagCategory classifies the type of issue found.
type DiagCategory int

const (
	DiagStructure    DiagCategory = iota // header, map, chunk framing
	DiagRelationship                     // key table, cast list, owner links
	DiagData                             // member payload decode failures
	DiagCompat                           // version or layout irregularities
)

func (c DiagCategory) String() string {
	switch c {
	case DiagStructure:
		return "STRUCTURE"
	case DiagRelationship:
		return "RELATIONSHIP"
	case DiagData:
		return "DATA"
	case DiagCompat:
		return "COMPAT"
	default:
		return "UNKNOWN"
	}
}

// MarshalText renders the category for JSON output.
func (c DiagCategory) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// Diagnostic is a single issue found while reading an archive.
type Diagnostic struct {
	Severity   Severity     `json:"severity"`
	Category   DiagCategory `json:"category"`
	Kind       ErrKind      `json:"-"`
	ResourceID int32        `json:"resource_id"`
	Tag        ChunkTag     `json:"tag"`
	Offset     uint32       `json:"offset"`
	Issue      string       `json:"issue"`
	Err        error        `json:"-"`
}

// DiagnosticReport collects the diagnostics of one archive.
type DiagnosticReport struct {
	Source      string       `json:"source,omitempty"`
	FileSize    int64        `json:"file_size"`
	Diagnostics []Diagnostic `json:"diagnostics"`
	Summary     DiagSummary  `json:"summary"`

	BySeverity map[Severity][]Diagnostic `json:"-"`
	ByOffset   []Diagnostic              `json:"-"` // sorted by offset
}

// DiagSummary provides quick statistics.
type DiagSummary struct {
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Info     int `json:"info"`
}

// NewDiagnosticReport creates an empty report.
func NewDiagnosticReport() *DiagnosticReport {
	return &DiagnosticReport{
		BySeverity: make(map[Severity][]Diagnostic),
	}
}

// Add adds a diagnostic to the report and updates indices.
func (r *DiagnosticReport) Add(d Diagnostic) {
	r.Diagnostics = append(r.Diagnostics, d)

	switch d.Severity {
	case SevError:
		r.Summary.Errors++
	case SevWarning:
		r.Summary.Warnings++
	case SevInfo:
		r.Summary.Info++
	}
	r.BySeverity[d.Severity] = append(r.BySeverity[d.Severity], d)
}

// Finalize sorts diagnostics by offset and prepares for output.
func (r *DiagnosticReport) Finalize() {
	r.ByOffset = make([]Diagnostic, len(r.Diagnostics))
	copy(r.ByOffset, r.Diagnostics)
	sort.SliceStable(r.ByOffset, func(i, j int) bool {
		return r.ByOffset[i].Offset < r.ByOffset[j].Offset
	})
}

// HasErrors returns true if any member content was lost.
func (r *DiagnosticReport) HasErrors() bool {
	return r.Summary.Errors > 0
}

// HasAnyIssues returns true if any issues were found (including info).
func (r *DiagnosticReport) HasAnyIssues() bool {
	return len(r.Diagnostics) > 0
}

// OfKind returns the diagnostics whose underlying error is of kind k.
func (r *DiagnosticReport) OfKind(k ErrKind) []Diagnostic {
	var out []Diagnostic
	for _, d := range r.Diagnostics {
		if d.Kind == k {
			out = append(out, d)
		}
	}
	return out
}

// Clone returns a deep copy safe to hand out while collection continues.
func (r *DiagnosticReport) Clone() *DiagnosticReport {
	c := NewDiagnosticReport()
	c.Source = r.Source
	c.FileSize = r.FileSize
	for _, d := range r.Diagnostics {
		c.Add(d)
	}
	c.Finalize()
	return c
}

// -----------------------------------------------------------------------------
// Output Formatters
// -----------------------------------------------------------------------------

// FormatJSON returns the report as formatted JSON (2-space indentation).
func (r *DiagnosticReport) FormatJSON() (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// FormatText returns a human-readable text report.
func (r *DiagnosticReport) FormatText() string {
	var b strings.Builder

	b.WriteString(strings.Repeat("=", 79) + "\n")
	b.WriteString("Archive Diagnostic Report\n")
	b.WriteString(strings.Repeat("=", 79) + "\n\n")

	if r.Source != "" {
		fmt.Fprintf(&b, "File:      %s\n", r.Source)
	}
	fmt.Fprintf(&b, "Size:      %d bytes\n\n", r.FileSize)

	b.WriteString("SUMMARY\n")
	b.WriteString(strings.Repeat("-", 79) + "\n")
	fmt.Fprintf(&b, "  Errors:   %d\n", r.Summary.Errors)
	fmt.Fprintf(&b, "  Warnings: %d\n", r.Summary.Warnings)
	fmt.Fprintf(&b, "  Info:     %d\n\n", r.Summary.Info)

	if len(r.Diagnostics) == 0 {
		b.WriteString("No issues found.\n")
		return b.String()
	}

	b.WriteString("DIAGNOSTICS\n")
	b.WriteString(strings.Repeat("-", 79) + "\n\n")

	for _, severity := range []Severity{SevError, SevWarning, SevInfo} {
		diags := r.BySeverity[severity]
		if len(diags) == 0 {
			continue
		}
		fmt.Fprintf(&b, "%s (%d)\n", severity, len(diags))
		b.WriteString(strings.Repeat("~", 79) + "\n")
		for i, d := range diags {
			fmt.Fprintf(&b, "\n%d. [%s] resource %d (%s) at offset 0x%X\n", i+1, d.Category, d.ResourceID, d.Tag, d.Offset)
			fmt.Fprintf(&b, "   %s\n", d.Issue)
			if d.Err != nil {
				fmt.Fprintf(&b, "   Cause:    %v\n", d.Err)
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

// FormatTextCompact returns a compact one-line-per-issue text format.
func (r *DiagnosticReport) FormatTextCompact() string {
	var b strings.Builder
	for _, d := range r.ByOffset {
		fmt.Fprintf(&b, "0x%08X [%s/%s] #%d %s %s\n",
			d.Offset, d.Severity, d.Category, d.ResourceID, d.Tag, d.Issue)
	}
	if len(r.Diagnostics) == 0 {
		b.WriteString("No issues found.\n")
	}
	return b.String()
}
