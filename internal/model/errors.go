package model

import (
	"fmt"
	"strings"
)

// ErrorKind classifies why a series could not be analyzed.
type ErrorKind string

const (
	KindEmptySeries         ErrorKind = "EMPTY_SERIES"
	KindMissingFields       ErrorKind = "MISSING_FIELDS"
	KindInsufficientHistory ErrorKind = "INSUFFICIENT_HISTORY"
)

// SeriesError is returned when a series fails validation or trimming.
type SeriesError struct {
	Kind      ErrorKind
	Fields    []string // missing fields, for KindMissingFields
	Required  int      // window size attempted, for KindInsufficientHistory
	Available int      // rows available, for KindInsufficientHistory
	Reason    string
}

// Sentinels for errors.Is checks.
var (
	ErrEmptySeries         = &SeriesError{Kind: KindEmptySeries}
	ErrMissingFields       = &SeriesError{Kind: KindMissingFields}
	ErrInsufficientHistory = &SeriesError{Kind: KindInsufficientHistory}
)

func (e *SeriesError) Error() string {
	switch e.Kind {
	case KindEmptySeries:
		return "invalid series: empty series"
	case KindMissingFields:
		return fmt.Sprintf("invalid series: missing fields: %s", strings.Join(e.Fields, ", "))
	case KindInsufficientHistory:
		msg := fmt.Sprintf("invalid series: insufficient history: need %d rows, have %d", e.Required, e.Available)
		if e.Reason != "" {
			msg += " (" + e.Reason + ")"
		}
		return msg
	default:
		return "invalid series: " + e.Reason
	}
}

// Is matches any SeriesError of the same kind.
func (e *SeriesError) Is(target error) bool {
	t, ok := target.(*SeriesError)
	return ok && t.Kind == e.Kind
}
