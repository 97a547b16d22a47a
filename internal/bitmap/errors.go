package bitmap

import "fmt"

// ErrorKind classifies why a bounded decode failed.
type ErrorKind int

const (
	// Malformed means the stream could not be parsed as a supported image.
	Malformed ErrorKind = iota + 1
	// IOFailure means reading the stream failed before decoding started.
	IOFailure
)

// String returns the metric-friendly name of the kind.
func (k ErrorKind) String() string {
	switch k {
	case Malformed:
		return "malformed"
	case IOFailure:
		return "io_failure"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// DecodeError is returned by every failing decode. Err holds the codec or
// reader error that caused it.
type DecodeError struct {
	Kind ErrorKind
	Err  error
}

// Sentinels for errors.Is. They match any DecodeError of the same kind.
var (
	ErrMalformed = &DecodeError{Kind: Malformed}
	ErrIOFailure = &DecodeError{Kind: IOFailure}
)

func (e *DecodeError) Error() string {
	if e.Err == nil {
		return "decode failed: " + e.Kind.String()
	}
	return fmt.Sprintf("decode failed: %s: %v", e.Kind, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a DecodeError sentinel of the same kind.
func (e *DecodeError) Is(target error) bool {
	t, ok := target.(*DecodeError)
	if !ok {
		return false
	}
	return t.Err == nil && t.Kind == e.Kind
}

func malformed(err error) error {
	return &DecodeError{Kind: Malformed, Err: err}
}

func ioFailure(err error) error {
	return &DecodeError{Kind: IOFailure, Err: err}
}
