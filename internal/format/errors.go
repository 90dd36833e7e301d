package format

import "errors"

var (
	// ErrTruncated indicates the buffer lacked the bytes a structure claims.
	ErrTruncated = errors.New("format: truncated buffer")
	// ErrUnknownMagic indicates the first four bytes match no byte-order signature.
	ErrUnknownMagic = errors.New("format: unknown container magic")
	// ErrNoResourceMap indicates the imap/mmap pair is absent or unreadable.
	ErrNoResourceMap = errors.New("format: resource map missing")
	// ErrTagMismatch indicates a chunk header did not carry the expected tag.
	ErrTagMismatch = errors.New("format: chunk tag mismatch")
	// ErrUnsupported indicates a recognized structure in a layout we do not decode.
	ErrUnsupported = errors.New("format: unsupported layout")
)
