package core

import (
	"fmt"
	"reflect"
	"strings"
)

// Matcher defines the interface for flexible value matching.
// Compatible with gomega.GomegaMatcher via duck typing - any type
// implementing Match and FailureMessage will work.
type Matcher interface {
	Match(actual any) (success bool, err error)
	FailureMessage(actual any) string
}

// MatchValue checks if actual matches expected.
// If expected implements the Matcher interface, uses its Match method.
// Otherwise, uses reflect.DeepEqual for comparison.
// Returns (success, errorMessage). If success is true, errorMessage is empty.
func MatchValue(actual, expected any) (bool, string) {
	if matcher, ok := expected.(Matcher); ok {
		success, err := matcher.Match(actual)
		if err != nil {
			return false, err.Error()
		}

		if !success {
			return false, matcher.FailureMessage(actual)
		}

		return true, ""
	}

	if reflect.DeepEqual(actual, expected) {
		return true, ""
	}

	return false, fmt.Sprintf("expected %v, got %v", expected, actual)
}

// MethodNameMatcher decides whether an intercepted call's method name satisfies
// an expectation. It is either a literal name (compared case-insensitively) or
// an arbitrary Matcher supplied by the test author.
type MethodNameMatcher struct {
	literal string  // lower-cased; used when matcher is nil
	matcher Matcher // non-nil for matcher-object constraints
}

// Literal reports whether this matcher was built from a literal method name.
// Literal names are membership-checked against the configurable method set at
// configuration time; matcher objects bypass that check.
func (m *MethodNameMatcher) Literal() bool {
	return m.matcher == nil
}

// Matches checks the given invocation method name. Returns success and a
// failure description when the name doesn't match.
func (m *MethodNameMatcher) Matches(methodName string) (bool, string) {
	if m.matcher != nil {
		return MatchValue(methodName, m.matcher)
	}

	if strings.ToLower(methodName) == m.literal {
		return true, ""
	}

	return false, fmt.Sprintf("expected method %q, got %q", m.literal, methodName)
}

// newDelegatingMethodMatcher wraps an arbitrary matcher object as a method
// name matcher. No configurable-set membership check applies.
func newDelegatingMethodMatcher(matcher Matcher) *MethodNameMatcher {
	return &MethodNameMatcher{matcher: matcher}
}

// newLiteralMethodMatcher builds a case-insensitive literal method name
// matcher. The name is lower-cased once here; Matches lower-cases candidates.
func newLiteralMethodMatcher(name string) *MethodNameMatcher {
	return &MethodNameMatcher{literal: strings.ToLower(name)}
}

// ParametersMatcher decides whether one intercepted call's arguments satisfy an
// expectation. callIndex is how many calls the expectation has already matched,
// which consecutive-parameters matchers use to pick the right argument set.
type ParametersMatcher interface {
	// MatchArgs returns nil when args match, or an error describing the first
	// mismatch.
	MatchArgs(callIndex int, args []any) error
	// ExpectedArgs returns the argument values this matcher would accept for
	// the given call index, for use in mismatch reports. The second return is
	// false when no concrete argument list exists (wildcard, exhausted sets).
	ExpectedArgs(callIndex int) ([]any, bool)
}

// anyParameters matches any argument list.
type anyParameters struct{}

func (anyParameters) ExpectedArgs(int) ([]any, bool) { return nil, false }

func (anyParameters) MatchArgs(int, []any) error { return nil }

// consecutiveParameters checks the Nth matched call against the Nth configured
// argument set. Calls beyond the configured sets do not match.
type consecutiveParameters struct {
	sets [][]any
}

func (m *consecutiveParameters) ExpectedArgs(callIndex int) ([]any, bool) {
	if callIndex >= len(m.sets) {
		return nil, false
	}

	return m.sets[callIndex], true
}

func (m *consecutiveParameters) MatchArgs(callIndex int, args []any) error {
	if callIndex >= len(m.sets) {
		//nolint:err113 // validation error with dynamic context
		return fmt.Errorf("call %d exceeds the %d configured argument sets", callIndex+1, len(m.sets))
	}

	return matchArgList(m.sets[callIndex], args)
}

// exactParameters checks every call's arguments against one fixed,
// exact-position list of constraint-or-literal values.
type exactParameters struct {
	expected []any
}

func (m *exactParameters) ExpectedArgs(int) ([]any, bool) { return m.expected, true }

func (m *exactParameters) MatchArgs(_ int, args []any) error {
	return matchArgList(m.expected, args)
}

// matchArgList applies MatchValue position by position, failing on the first
// length or value mismatch.
func matchArgList(expected, actual []any) error {
	if len(actual) != len(expected) {
		//nolint:err113 // validation error with dynamic context
		return fmt.Errorf("expected %d args, got %d", len(expected), len(actual))
	}

	for i, want := range expected {
		ok, failureMsg := MatchValue(actual[i], want)
		if ok {
			continue
		}

		if failureMsg != "" {
			//nolint:err113 // validation error with dynamic context
			return fmt.Errorf("arg %d: %s", i, failureMsg)
		}
		//nolint:err113 // validation error with dynamic context
		return fmt.Errorf("arg %d: matcher failed for value %#v", i, actual[i])
	}

	return nil
}
