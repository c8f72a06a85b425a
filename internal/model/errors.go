package model

import "errors"

// Per-symbol error kinds. Wrap a cause with fmt.Errorf("%w: %w", kind, cause)
// and branch with errors.Is.
var (
	ErrDataUnavailable    = errors.New("data unavailable")
	ErrEmptyOrInvalidData = errors.New("empty or invalid data")
	ErrDegenerateInput    = errors.New("degenerate input")
)

// Error kind labels used in summaries, logs and metrics.
const (
	KindDataUnavailable    = "DataUnavailable"
	KindEmptyOrInvalidData = "EmptyOrInvalidData"
	KindDegenerateInput    = "DegenerateInput"
	KindInternal           = "Internal"
)

// KindOf maps an error to its taxonomy label. nil maps to "".
func KindOf(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrDataUnavailable):
		return KindDataUnavailable
	case errors.Is(err, ErrEmptyOrInvalidData):
		return KindEmptyOrInvalidData
	case errors.Is(err, ErrDegenerateInput):
		return KindDegenerateInput
	default:
		return KindInternal
	}
}
