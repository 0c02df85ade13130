package imagepkg

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput marks a composition called without its required images.
	ErrInvalidInput = errors.New("invalid composition input")
	// ErrCodec marks a PNG encode or decode failure.
	ErrCodec = errors.New("png codec failure")
)

// InvalidInputError names the input that was missing.
type InvalidInputError struct {
	Frame string
	What  string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("frame %s: %s", e.Frame, e.What)
}

func (e *InvalidInputError) Unwrap() error { return ErrInvalidInput }

// CodecError wraps a failure from the PNG library.
type CodecError struct {
	Op  string
	Err error
}

func (e *CodecError) Error() string {
	return fmt.Sprintf("png %s: %v", e.Op, e.Err)
}

func (e *CodecError) Unwrap() []error { return []error{ErrCodec, e.Err} }

// MissingAsset describes a decorative layer skipped during composition.
type MissingAsset struct {
	Frame string
	Layer string
	Key   string
}

func (m MissingAsset) String() string {
	return fmt.Sprintf("frame %s: %s layer %q missing", m.Frame, m.Layer, m.Key)
}
