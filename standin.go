// Package standin provides test doubles whose expected calls are configured
// through a fluent builder: method-name matcher, parameter matchers,
// invocation counts, stubbed return or panic behavior, ordering constraints,
// and identifiers for later lookup.
//
// This is the public API entry point. Implementation lives in internal/core.
package standin

import (
	"github.com/standinhq/standin/internal/core"
)

// ConfigCause identifies why expectation configuration was rejected.
type ConfigCause = core.ConfigCause

// ConfigCause values re-exported from internal/core.
const (
	CauseMethodMatcherRedefined  = core.CauseMethodMatcherRedefined
	CauseParametersRedefined     = core.CauseParametersRedefined
	CauseParametersWithoutMethod = core.CauseParametersWithoutMethod
	CauseMethodNotConfigurable   = core.CauseMethodNotConfigurable
)

// ConfigurationError reports misuse of an ExpectationBuilder.
type ConfigurationError = core.ConfigurationError

// CountMatcher constrains and verifies how many times one expectation may match.
type CountMatcher = core.CountMatcher

// Double is one test double: registry, configurable method set, and reporter.
type Double = core.Double

// DoublesFor returns every double created under t, in creation order.
func DoublesFor(t TestReporter) []*Double {
	return core.DoublesFor(t)
}

// NewDouble creates a double for the given configurable method set.
func NewDouble(t TestReporter, methods MethodSet) *Double {
	return core.NewDouble(t, methods)
}

// Expectation is the accumulated configuration for one expected call.
type Expectation = core.Expectation

// ExpectationBuilder configures one Expectation through chained calls.
type ExpectationBuilder = core.ExpectationBuilder

// NewExpectationBuilder wraps a fresh expectation in a builder and registers
// it with the registry.
func NewExpectationBuilder(
	registry *ExpectationRegistry,
	count CountMatcher,
	methods MethodSet,
) *ExpectationBuilder {
	return core.NewExpectationBuilder(registry, count, methods)
}

// ExpectationRegistry owns every expectation configured on one double.
type ExpectationRegistry = core.ExpectationRegistry

// NewExpectationRegistry creates an empty registry.
func NewExpectationRegistry() *ExpectationRegistry {
	return core.NewExpectationRegistry()
}

// Invocation is one intercepted call on a double.
type Invocation = core.Invocation

// Matcher defines the interface for flexible value matching.
type Matcher = core.Matcher

// MatchValue checks if actual matches expected.
func MatchValue(actual, expected any) (bool, string) {
	return core.MatchValue(actual, expected)
}

// MethodSet is the allow-list of configurable method names.
type MethodSet = core.MethodSet

// MethodSetOf derives the method set from an interface type, given a nil
// pointer to it, e.g. MethodSetOf((*Store)(nil)).
func MethodSetOf(ifacePtr any) (MethodSet, error) {
	return core.MethodSetOf(ifacePtr)
}

// NewMethodSet builds a method set from literal names, lower-casing each.
func NewMethodSet(names ...string) MethodSet {
	return core.NewMethodSet(names...)
}

// Stub specifies what a matched invocation produces.
type Stub = core.Stub

// TestReporter is the minimal interface standin needs from test frameworks.
type TestReporter = core.TestReporter

// UnexpectedInvocationError reports an intercepted call that no registered
// expectation matched.
type UnexpectedInvocationError = core.UnexpectedInvocationError

// Count matchers re-exported from internal/core.

// AnyTimes returns a matcher satisfied by any number of invocations.
func AnyTimes() CountMatcher { return core.AnyTimes() }

// AtLeast returns a matcher requiring at least n invocations.
func AtLeast(n int) CountMatcher { return core.AtLeast(n) }

// AtMost returns a matcher allowing up to n invocations.
func AtMost(n int) CountMatcher { return core.AtMost(n) }

// Never returns a matcher requiring zero invocations.
func Never() CountMatcher { return core.Never() }

// Once returns a matcher requiring exactly one invocation.
func Once() CountMatcher { return core.Once() }

// Times returns a matcher requiring exactly n invocations.
func Times(n int) CountMatcher { return core.Times(n) }

// Stub constructors re-exported from internal/core.

// NewCallbackStub returns a stub that delegates to fn for each invocation.
func NewCallbackStub(fn func(args []any) []any) Stub { return core.NewCallbackStub(fn) }

// NewConsecutiveStub returns a stub producing one value per call.
func NewConsecutiveStub(values ...any) Stub { return core.NewConsecutiveStub(values...) }

// NewIndirectStub returns a stub that dereferences ptr at invocation time.
func NewIndirectStub(ptr any) Stub { return core.NewIndirectStub(ptr) }

// NewPanicStub returns a stub that panics with value when invoked.
func NewPanicStub(value any) Stub { return core.NewPanicStub(value) }

// NewReturnArgumentStub returns a stub echoing the index-th argument.
func NewReturnArgumentStub(index int) Stub { return core.NewReturnArgumentStub(index) }

// NewReturnSelfStub returns a stub producing the double itself.
func NewReturnSelfStub() Stub { return core.NewReturnSelfStub() }

// NewReturnStub returns a stub producing the same fixed tuple on every call.
func NewReturnStub(values ...any) Stub { return core.NewReturnStub(values...) }

// NewValueMapStub returns a stub that looks the argument tuple up in rows.
func NewValueMapStub(rows [][]any) Stub { return core.NewValueMapStub(rows) }

// VerifyAll verifies every double created under t.
func VerifyAll(t TestReporter) {
	core.VerifyAll(t)
}
