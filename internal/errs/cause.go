package errs

import (
	"errors"
	"fmt"
)

// Cause is the closed set of reasons a repository can fail to be mined.
type Cause string

const (
	CauseMissingTag     Cause = "missing_tag"
	CauseMissingJUnit   Cause = "missing_junit"
	CauseNonBuildable   Cause = "non_buildable"
	CauseTimeout        Cause = "timeout"
	CauseNoReport       Cause = "no_report"
	CauseInvalidProject Cause = "invalid_project"
	CauseUnzippable     Cause = "unzippable"
	CauseCloneTimeout   Cause = "clone_timeout"
	// CauseUnknown is recorded for unexpected errors.
	CauseUnknown Cause = "N/A"
)

// Sentinels, one per cause. Match with errors.Is.
var (
	ErrMissingTag     = &MineError{Cause: CauseMissingTag}
	ErrMissingJUnit   = &MineError{Cause: CauseMissingJUnit}
	ErrNonBuildable   = &MineError{Cause: CauseNonBuildable}
	ErrTimeout        = &MineError{Cause: CauseTimeout}
	ErrNoReport       = &MineError{Cause: CauseNoReport}
	ErrInvalidProject = &MineError{Cause: CauseInvalidProject}
	ErrUnzippable     = &MineError{Cause: CauseUnzippable}
	ErrCloneTimeout   = &MineError{Cause: CauseCloneTimeout}
)

var ErrRecordNotFound = errors.New("record not found")

var causes = []Cause{
	CauseMissingTag, CauseMissingJUnit, CauseNonBuildable, CauseTimeout,
	CauseNoReport, CauseInvalidProject, CauseUnzippable, CauseCloneTimeout,
}

// Causes lists every typed failure cause, excluding CauseUnknown.
func Causes() []Cause {
	out := make([]Cause, len(causes))
	copy(out, causes)
	return out
}

// MineError is a failure tagged with its cause. Err carries the underlying error, if any.
type MineError struct {
	Cause Cause
	Err   error
}

func (e *MineError) Error() string {
	if e.Err == nil {
		return string(e.Cause)
	}
	return fmt.Sprintf("%s: %v", e.Cause, e.Err)
}

func (e *MineError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a MineError with the same cause.
func (e *MineError) Is(target error) bool {
	t, ok := target.(*MineError)
	if !ok {
		return false
	}
	return t.Cause == e.Cause
}

// New tags err with cause.
func New(cause Cause, err error) error {
	return &MineError{Cause: cause, Err: err}
}

// Newf tags a formatted error with cause.
func Newf(cause Cause, format string, args ...any) error {
	return &MineError{Cause: cause, Err: fmt.Errorf(format, args...)}
}

// CauseOf returns the cause carried by err, CauseUnknown for untyped errors.
func CauseOf(err error) Cause {
	var mineErr *MineError
	if errors.As(err, &mineErr) {
		return mineErr.Cause
	}
	return CauseUnknown
}

// IsTyped reports whether err carries one of the typed causes.
func IsTyped(err error) bool {
	return CauseOf(err) != CauseUnknown
}
