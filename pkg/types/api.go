package types

import (
	"log/slog"
)

// -----------------------------------------------------------------------------
// Typed Errors (stable categories for programmatic handling)
// -----------------------------------------------------------------------------

// ErrKind classifies errors so callers can branch on intent rather than text.
type ErrKind int

const (
	ErrKindTruncatedHeader          ErrKind = iota // buffer shorter than a structure claims
	ErrKindUnknownMagic                            // first four bytes match no container signature
	ErrKindMissingResourceDirectory                // imap/mmap absent or malformed
	ErrKindInvalidRelationship                     // a link names a resource that is absent or of the wrong kind
	ErrKindUnsupportedMemberType                   // cast member type code outside the known set
	ErrKindCorrupt                                 // a single resource failed to decode
	ErrKindNotFound                                // missing resource id
	ErrKindState                                   // invalid operation for current state (closed, I/O)
	ErrKindCompat                                  // readable, but the version, codec or layout is irregular
)

func (k ErrKind) String() string {
	switch k {
	case ErrKindTruncatedHeader:
		return "truncated-header"
	case ErrKindUnknownMagic:
		return "unknown-magic"
	case ErrKindMissingResourceDirectory:
		return "missing-resource-directory"
	case ErrKindInvalidRelationship:
		return "invalid-relationship"
	case ErrKindUnsupportedMemberType:
		return "unsupported-member-type"
	case ErrKindCorrupt:
		return "corrupt"
	case ErrKindNotFound:
		return "not-found"
	case ErrKindState:
		return "state"
	case ErrKindCompat:
		return "compat"
	default:
		return "unknown"
	}
}

// Error is a typed error with an optional underlying cause.
type Error struct {
	Kind ErrKind
	Msg  string
	Err  error // optional underlying cause
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so errors.Is(err, ErrNotFound)
// holds for every not-found error regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinels commonly returned by implementations.
var (
	// ErrTruncatedHeader indicates the container is shorter than its header or declared size.
	ErrTruncatedHeader = &Error{Kind: ErrKindTruncatedHeader, Msg: "truncated archive header"}
	// ErrUnknownMagic indicates the file is not a RIFX/XFIR/RIFF/FFIR container.
	ErrUnknownMagic = &Error{Kind: ErrKindUnknownMagic, Msg: "unknown container magic"}
	// ErrMissingResourceDirectory indicates the resource map could not be located or read.
	ErrMissingResourceDirectory = &Error{Kind: ErrKindMissingResourceDirectory, Msg: "missing resource directory"}
	// ErrInvalidRelationship indicates a key table or cast list names an unusable resource.
	ErrInvalidRelationship = &Error{Kind: ErrKindInvalidRelationship, Msg: "invalid resource relationship"}
	// ErrUnsupportedMemberType indicates a cast member type outside the known set.
	ErrUnsupportedMemberType = &Error{Kind: ErrKindUnsupportedMemberType, Msg: "unsupported member type"}
	// ErrCorrupt indicates a resource payload that could not be decoded.
	ErrCorrupt = &Error{Kind: ErrKindCorrupt, Msg: "corrupt resource"}
	// ErrNotFound indicates a missing resource.
	ErrNotFound = &Error{Kind: ErrKindNotFound, Msg: "not found"}
	// ErrClosed indicates use of an archive after Close.
	ErrClosed = &Error{Kind: ErrKindState, Msg: "archive is closed"}
)

// -----------------------------------------------------------------------------
// Byte sources
// -----------------------------------------------------------------------------

// ByteSource supplies the archive bytes and releases them on Close. Bytes
// must return the same slice for the source's whole lifetime.
type ByteSource interface {
	Bytes() []byte
	Close() error
}

// -----------------------------------------------------------------------------
// Open Options
// -----------------------------------------------------------------------------

// NameEncoding selects the charset used for cast member names.
type NameEncoding string

const (
	// NameEncodingAuto picks Mac OS Roman for big-endian archives and
	// Windows-1252 for little-endian ones.
	NameEncodingAuto        NameEncoding = ""
	NameEncodingMacintosh   NameEncoding = "macintosh"
	NameEncodingWindows1252 NameEncoding = "windows1252"
)

// OpenOptions controls how an archive is opened and read.
type OpenOptions struct {
	// SourceName labels the archive in logs and diagnostics (usually the
	// file path). Open(path) fills it in when empty.
	SourceName string

	// LeaveOpen keeps a caller-supplied byte source alive after Close (and
	// after a failed open). The caller then owns its release. Sources the
	// library creates itself, such as the mapping behind Open(path), are
	// always released.
	LeaveOpen bool

	// CollectDiagnostics records isolated resource failures and other
	// irregularities in a DiagnosticReport retrievable via Diagnostics().
	// Diagnostics are logged either way.
	CollectDiagnostics bool

	// Logger receives structured logs. Nil discards them.
	Logger *slog.Logger

	// Limits guards against absurd counts and sizes. Nil selects
	// DefaultLimits().
	Limits *Limits

	// NameEncoding overrides the member name charset.
	NameEncoding NameEncoding
}

// -----------------------------------------------------------------------------
// Archive API
// -----------------------------------------------------------------------------

// Archive is a read-only view over one container file. Implementations are
// safe for concurrent calls: every read builds a private parse context from
// the archive bytes and returns copies.
type Archive interface {
	// ReadDirFilesContainer returns the envelope, format descriptor, resource
	// directory and the linkage mode chosen for this archive.
	ReadDirFilesContainer() (Container, error)

	// ReadKeyLinks returns the KEY* relationships in file order. Archives
	// without a key table return an empty slice.
	ReadKeyLinks() ([]ResourceKeyLink, error)

	// ReadCastLibraries returns one library per CAS* resource, in map order.
	ReadCastLibraries() ([]CastLibrary, error)

	// ReadBitmaps returns every bitmap-family resource, classified.
	ReadBitmaps() ([]BitmapRecord, error)

	// ReadShapes returns the normalized record of every shape member.
	ReadShapes() ([]ShapeRecord, error)

	// ReadFields returns every STXT resource.
	ReadFields() ([]FieldRecord, error)

	// ReadSounds returns the audio payload of every sound member.
	ReadSounds() ([]SoundRecord, error)

	// ResourceData returns a copy of the payload of resource id.
	ResourceData(id int32) ([]byte, error)

	// Diagnostics returns the report collected so far, or nil when
	// collection is disabled.
	Diagnostics() *DiagnosticReport

	// Close releases the byte source unless it was opened with LeaveOpen.
	Close() error
}
