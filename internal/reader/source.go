package reader

import (
	"sync"

	"github.com/joshuapare/dirkit/pkg/types"
)

// funcSource adapts a buffer and an optional release func to
// types.ByteSource. The release func runs at most once.
type funcSource struct {
	b       []byte
	release func() error
	once    sync.Once
	err     error
}

// NewFuncSource wraps b as a ByteSource whose Close calls release (which
// may be nil) exactly once.
func NewFuncSource(b []byte, release func() error) types.ByteSource {
	return &funcSource{b: b, release: release}
}

func (s *funcSource) Bytes() []byte { return s.b }

func (s *funcSource) Close() error {
	s.once.Do(func() {
		if s.release != nil {
			s.err = s.release()
		}
	})
	return s.err
}
