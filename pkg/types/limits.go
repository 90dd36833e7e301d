package types

// Default reader limits.
const (
	// DefaultMaxResources caps the resource map entry count.
	DefaultMaxResources = 1 << 20

	// DefaultMaxChunkSize caps a single chunk payload (64 MiB).
	DefaultMaxChunkSize = 64 << 20

	// StrictMaxResources and StrictMaxChunkSize suit untrusted input in
	// constrained environments.
	StrictMaxResources = 1 << 14
	StrictMaxChunkSize = 8 << 20
)

// Limits bounds what the reader is willing to allocate for one archive.
type Limits struct {
	// MaxResources is the largest resource map entry count accepted.
	// Larger maps fail with ErrMissingResourceDirectory.
	MaxResources int

	// MaxChunkSize is the largest chunk payload read. Larger chunks fail
	// individually.
	MaxChunkSize int
}

// DefaultLimits returns the limits used when OpenOptions.Limits is nil.
func DefaultLimits() Limits {
	return Limits{
		MaxResources: DefaultMaxResources,
		MaxChunkSize: DefaultMaxChunkSize,
	}
}

// StrictLimits returns conservative limits for untrusted input.
func StrictLimits() Limits {
	return Limits{
		MaxResources: StrictMaxResources,
		MaxChunkSize: StrictMaxChunkSize,
	}
}

// Normalize fills zero fields with defaults.
func (l Limits) Normalize() Limits {
	d := DefaultLimits()
	if l.MaxResources <= 0 {
		l.MaxResources = d.MaxResources
	}
	if l.MaxChunkSize <= 0 {
		l.MaxChunkSize = d.MaxChunkSize
	}
	return l
}
