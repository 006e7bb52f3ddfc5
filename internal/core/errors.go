package core

import (
	"fmt"
	"strings"
)

// ConfigCause identifies why expectation configuration was rejected.
type ConfigCause int

// ConfigCause values, one per distinct misuse.
const (
	// CauseMethodMatcherRedefined: ForMethod was called on a builder that
	// already has a method name matcher.
	CauseMethodMatcherRedefined ConfigCause = iota
	// CauseParametersRedefined: a With* call on a builder that already has a
	// parameters matcher.
	CauseParametersRedefined
	// CauseParametersWithoutMethod: a With* call before any ForMethod call.
	CauseParametersWithoutMethod
	// CauseMethodNotConfigurable: ForMethod was given a literal name that is
	// not in the double's configurable method set.
	CauseMethodNotConfigurable
)

// ConfigurationError reports misuse of an ExpectationBuilder. These are
// programmer errors in test setup: the fix is to correct the test, so they are
// raised synchronously at the offending call rather than batched.
type ConfigurationError struct {
	Cause  ConfigCause
	Method string // populated for CauseMethodNotConfigurable
}

// Error returns a distinct human-readable message per cause.
func (e *ConfigurationError) Error() string {
	switch e.Cause {
	case CauseMethodMatcherRedefined:
		return "method name matcher is already defined, cannot redefine"
	case CauseParametersRedefined:
		return "parameters matcher is already defined, cannot redefine"
	case CauseParametersWithoutMethod:
		return "no method name matcher is defined, cannot define a parameters matcher"
	case CauseMethodNotConfigurable:
		return fmt.Sprintf(
			"method %q cannot be configured: it is not in the configurable method set",
			e.Method,
		)
	default:
		return fmt.Sprintf("unknown configuration error (cause %d)", int(e.Cause))
	}
}

// Is reports whether target is a ConfigurationError with the same cause, so
// callers can test with errors.Is against a prototype value.
func (e *ConfigurationError) Is(target error) bool {
	other, ok := target.(*ConfigurationError)

	return ok && other.Cause == e.Cause
}

// UnexpectedInvocationError reports an intercepted call that no registered
// expectation matched.
type UnexpectedInvocationError struct {
	Method string
	Args   []any
	Detail string // nearest-miss description, possibly including a diff
}

// Error formats the unexpected call along with the nearest-miss detail.
func (e *UnexpectedInvocationError) Error() string {
	msg := fmt.Sprintf("unexpected invocation of %q with arguments:\n%s", e.Method, formatArgs(e.Args))
	if e.Detail != "" {
		msg += "\n" + strings.TrimRight(e.Detail, "\n")
	}

	return msg
}
