// Package failure carries the one error discipline used across vkdraw: every
// fatal condition is an *Error with a Kind and the operation that produced it.
package failure

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindInit
	KindSurface
	KindFrame
	KindAsset
	KindConfig
)

func (k Kind) String() string {
	switch k {
	case KindInit:
		return "init"
	case KindSurface:
		return "surface"
	case KindFrame:
		return "frame"
	case KindAsset:
		return "asset"
	case KindConfig:
		return "config"
	}
	return "unknown"
}

type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Format keeps the cockroachdb stack trace reachable through %+v.
func (e *Error) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') {
		fmt.Fprintf(s, "%s: %s: %+v", e.Kind, e.Op, e.Err)
		return
	}
	fmt.Fprint(s, e.Error())
}

func New(kind Kind, op string, format string, args ...any) error {
	return &Error{Kind: kind, Op: op, Err: errors.Newf(format, args...)}
}

// Wrap returns nil when err is nil. An err that is already an *Error keeps
// its original kind.
func Wrap(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	var existing *Error
	if errors.As(err, &existing) {
		return err
	}
	return &Error{Kind: kind, Op: op, Err: errors.WithStack(err)}
}

func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
