package slam

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorKind classifies why a parse stopped.
type ErrorKind int

const (
	// SourceUnavailable means the line source could not be opened or read at all.
	SourceUnavailable ErrorKind = iota + 1
	// LineReadFailure means an individual line could not be decoded.
	LineReadFailure
	// IncompletePose means a pose block was interrupted before its third row.
	IncompletePose
	// IncompleteIntrinsic means an intrinsic block was interrupted before its third row.
	IncompleteIntrinsic
	// UnexpectedPixel means a pixel line directly followed a point.
	UnexpectedPixel
	// MissingCamera means a pixel was accepted while no camera exists to own it. This indicates a
	// bug in the transition rules rather than a malformed log.
	MissingCamera
)

var (
	// ErrSourceUnavailable is matched by errors.Is for SourceUnavailable.
	ErrSourceUnavailable = errors.New("line source unavailable")
	// ErrLineReadFailure is matched by errors.Is for LineReadFailure.
	ErrLineReadFailure = errors.New("line could not be read")
	// ErrIncompletePose is matched by errors.Is for IncompletePose.
	ErrIncompletePose = errors.New("incomplete pose block")
	// ErrIncompleteIntrinsic is matched by errors.Is for IncompleteIntrinsic.
	ErrIncompleteIntrinsic = errors.New("incomplete intrinsic matrix block")
	// ErrUnexpectedPixel is matched by errors.Is for UnexpectedPixel.
	ErrUnexpectedPixel = errors.New("pixel directly after a point")
	// ErrMissingCamera is matched by errors.Is for MissingCamera.
	ErrMissingCamera = errors.New("pixel has no camera to attach to")
)

func (k ErrorKind) sentinel() error {
	switch k {
	case SourceUnavailable:
		return ErrSourceUnavailable
	case LineReadFailure:
		return ErrLineReadFailure
	case IncompletePose:
		return ErrIncompletePose
	case IncompleteIntrinsic:
		return ErrIncompleteIntrinsic
	case UnexpectedPixel:
		return ErrUnexpectedPixel
	case MissingCamera:
		return ErrMissingCamera
	}
	return nil
}

func (k ErrorKind) String() string {
	switch k {
	case SourceUnavailable:
		return "SourceUnavailable"
	case LineReadFailure:
		return "LineReadFailure"
	case IncompletePose:
		return "IncompletePose"
	case IncompleteIntrinsic:
		return "IncompleteIntrinsic"
	case UnexpectedPixel:
		return "UnexpectedPixel"
	case MissingCamera:
		return "MissingCamera"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// ParseError is the error returned for every failed parse. Line is 1-based and zero when the
// failure is not tied to a line (e.g. the file could not be opened).
type ParseError struct {
	Kind ErrorKind
	Line int
	Text string
	Err  error
}

func newParseError(kind ErrorKind, line int, text string) *ParseError {
	return &ParseError{Kind: kind, Line: line, Text: text}
}

func (e *ParseError) Error() string {
	msg := e.Kind.String()
	if sentinel := e.Kind.sentinel(); sentinel != nil {
		msg = sentinel.Error()
	}
	if e.Line > 0 {
		msg = fmt.Sprintf("line %d: %s: %q", e.Line, msg, e.Text)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying I/O error, if any.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel error of the kind.
func (e *ParseError) Is(target error) bool {
	return target == e.Kind.sentinel()
}

// KindOf returns the kind of the first ParseError in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.Kind, true
	}
	return 0, false
}
