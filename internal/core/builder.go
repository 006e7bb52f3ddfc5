package core

import (
	"fmt"
	"strings"
)

// ExpectationBuilder configures one Expectation through chained calls. Every
// configuration method returns the builder so calls read as a sentence:
//
//	d.Expect(core.Once()).
//		ForMethod("Save").
//		WithParameters("key", 42).
//		WillReturn(nil)
//
// Constructing a builder immediately registers its expectation with the
// registry; there is no unregistered observable state.
//
// Misuse (see ConfigurationError) is fail-fast: the first error is recorded,
// reported through the TestReporter when one is attached, and every later
// configuration call becomes a no-op. Err exposes the recorded error for
// callers driving the builder without a reporter.
type ExpectationBuilder struct {
	registry *ExpectationRegistry
	exp      *Expectation
	methods  MethodSet
	reporter TestReporter // optional; nil means errors surface via Err only
	owner    any          // the double, for WillReturnSelf
	err      error
}

// NewExpectationBuilder wraps a fresh expectation governed by count in a
// builder and registers it with the registry. methods is the allow-list of
// configurable method names, pre-normalized to lower case.
func NewExpectationBuilder(
	registry *ExpectationRegistry,
	count CountMatcher,
	methods MethodSet,
) *ExpectationBuilder {
	builder := &ExpectationBuilder{
		registry: registry,
		exp:      NewExpectation(count),
		methods:  methods,
	}
	registry.register(builder.exp)

	return builder
}

// After sets the predecessor identifier: this expectation only matches once
// the expectation registered under id has matched at least once. Legal in any
// configuration state; repeatable; the last value wins.
func (b *ExpectationBuilder) After(id string) *ExpectationBuilder {
	if b.err != nil {
		return b
	}

	b.exp.SetAfter(id)

	return b
}

// AttachStub sets the expectation's stub behavior, replacing any prior one.
func (b *ExpectationBuilder) AttachStub(s Stub) *ExpectationBuilder {
	if b.err != nil {
		return b
	}

	b.exp.SetStub(s)

	return b
}

// Err returns the first configuration error, or nil.
func (b *ExpectationBuilder) Err() error {
	return b.err
}

// Expectation returns the expectation under construction. The registry owns
// it already; this accessor exists for inspection.
func (b *ExpectationBuilder) Expectation() *Expectation {
	return b.exp
}

// ForMethod installs the method name matcher. The constraint is either a
// literal method name (a string, checked case-insensitively for membership in
// the configurable method set) or a Matcher, which bypasses the membership
// check. Fails when a method matcher is already set, whatever constraint type
// was used either time, or when a literal name is not configurable.
func (b *ExpectationBuilder) ForMethod(constraint any) *ExpectationBuilder {
	if b.err != nil {
		return b
	}

	if b.exp.MethodMatcherSet() {
		return b.fail(&ConfigurationError{Cause: CauseMethodMatcherRedefined})
	}

	switch c := constraint.(type) {
	case string:
		name := strings.ToLower(c)
		if !b.methods.Contains(name) {
			return b.fail(&ConfigurationError{Cause: CauseMethodNotConfigurable, Method: c})
		}

		_ = b.exp.SetMethodMatcher(newLiteralMethodMatcher(name))
	case Matcher:
		_ = b.exp.SetMethodMatcher(newDelegatingMethodMatcher(c))
	default:
		//nolint:err113 // configuration error with dynamic context
		return b.fail(fmt.Errorf("method constraint must be a string or Matcher, got %T", constraint))
	}

	return b
}

// Identify registers this builder under id for later lookup and for After
// ordering chains. Legal in any state; repeatable. Collisions across builders
// are resolved by the registry (last write wins), not policed here.
func (b *ExpectationBuilder) Identify(id string) *ExpectationBuilder {
	if b.err != nil {
		return b
	}

	b.registry.registerIdentifier(id, b)

	return b
}

// WillPanic stubs the expectation to panic with value when matched.
func (b *ExpectationBuilder) WillPanic(value any) *ExpectationBuilder {
	return b.AttachStub(NewPanicStub(value))
}

// WillReturn stubs the return behavior. A single value installs a fixed
// single-value return; several values install a consecutive-calls stub that
// produces them one per call. No values installs an empty return tuple.
func (b *ExpectationBuilder) WillReturn(values ...any) *ExpectationBuilder {
	if len(values) > 1 {
		return b.AttachStub(NewConsecutiveStub(values...))
	}

	return b.AttachStub(NewReturnStub(values...))
}

// WillReturnArgument stubs the expectation to echo the index-th invocation
// argument back to the caller.
func (b *ExpectationBuilder) WillReturnArgument(index int) *ExpectationBuilder {
	return b.AttachStub(NewReturnArgumentStub(index))
}

// WillReturnCallback stubs the expectation to delegate to fn, which receives
// the invocation arguments and produces the full return tuple.
func (b *ExpectationBuilder) WillReturnCallback(fn func(args []any) []any) *ExpectationBuilder {
	return b.AttachStub(NewCallbackStub(fn))
}

// WillReturnIndirect stubs the expectation to dereference ptr at invocation
// time, so callers observe the referent's value as of each call.
func (b *ExpectationBuilder) WillReturnIndirect(ptr any) *ExpectationBuilder {
	return b.AttachStub(NewIndirectStub(ptr))
}

// WillReturnMap stubs the expectation with an argument-tuple lookup table.
// Each row holds argument values followed by the return values they map to.
func (b *ExpectationBuilder) WillReturnMap(rows [][]any) *ExpectationBuilder {
	return b.AttachStub(NewValueMapStub(rows))
}

// WillReturnOnConsecutiveCalls stubs the Nth matched call to return the Nth
// value. Calls past the end repeat the final value.
func (b *ExpectationBuilder) WillReturnOnConsecutiveCalls(values ...any) *ExpectationBuilder {
	return b.AttachStub(NewConsecutiveStub(values...))
}

// WillReturnSelf stubs the expectation to return the double itself, for
// doubling fluent interfaces.
func (b *ExpectationBuilder) WillReturnSelf() *ExpectationBuilder {
	return b.AttachStub(NewReturnSelfStub())
}

// WithAnyParameters installs a wildcard parameters matcher. Requires a method
// name matcher and no prior parameters matcher.
func (b *ExpectationBuilder) WithAnyParameters() *ExpectationBuilder {
	return b.setParameters(anyParameters{})
}

// WithConsecutiveParameters installs a matcher checking the Nth matched
// call's arguments against the Nth argument set. Same preconditions as
// WithParameters.
func (b *ExpectationBuilder) WithConsecutiveParameters(argSets ...[]any) *ExpectationBuilder {
	return b.setParameters(&consecutiveParameters{sets: argSets})
}

// WithParameters installs an exact-position parameters matcher built from the
// given constraint-or-literal values. Requires a method name matcher and no
// prior parameters matcher.
func (b *ExpectationBuilder) WithParameters(args ...any) *ExpectationBuilder {
	return b.setParameters(&exactParameters{expected: args})
}

// fail records the first configuration error and reports it through the
// attached reporter, if any.
func (b *ExpectationBuilder) fail(err error) *ExpectationBuilder {
	b.err = err

	if b.reporter != nil {
		b.reporter.Helper()
		b.reporter.Fatalf("standin: %v", err)
	}

	return b
}

// setParameters runs the shared parameters-matcher preconditions and installs
// the matcher.
func (b *ExpectationBuilder) setParameters(m ParametersMatcher) *ExpectationBuilder {
	if b.err != nil {
		return b
	}

	err := b.exp.SetParametersMatcher(m)
	if err != nil {
		return b.fail(err)
	}

	return b
}
