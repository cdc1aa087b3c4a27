// Package assert provides lightweight runtime invariant checks.
// Failures indicate a programming error, not a recoverable runtime
// condition, so they panic rather than return an error.
package assert

import "fmt"

// Assert panics with the formatted message if cond is false.
func Assert(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf(format, args...))
	}
}

// IsNil panics if v is not nil.
func IsNil(v any, format string, args ...any) {
	if v != nil {
		panic(fmt.Sprintf(format, args...))
	}
}

// IsNotNil panics if v is nil.
func IsNotNil(v any, format string, args ...any) {
	if v == nil {
		panic(fmt.Sprintf(format, args...))
	}
}

// Never panics unconditionally; used for branches that should be
// unreachable.
func Never(format string, args ...any) {
	panic(fmt.Sprintf(format, args...))
}
