// Package match provides matchers for use with standin's ForMethod and
// WithParameters. This package is designed to be dot-imported alongside gomega
// matchers:
//
//	import (
//	    . "github.com/onsi/gomega"
//	    . "github.com/standinhq/standin/match"
//	)
//
//	d.Expect(standin.Once()).ForMethod("Add").WithParameters(BeNumerically(">", 0), BeAny)
package match

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// errTypeMismatch is a sentinel error for type assertion failures.
var errTypeMismatch = errors.New("type mismatch")

// Matcher defines the interface for flexible value matching.
// Compatible with gomega.GomegaMatcher via duck typing - any type
// implementing Match and FailureMessage will work.
type Matcher interface {
	Match(actual any) (success bool, err error)
	FailureMessage(actual any) string
}

// BeAny is a matcher that matches any value.
// Useful when you don't care about a particular argument.
//
//nolint:gochecknoglobals // Intentional exported constant-like value
var BeAny Matcher = anyMatcher{}

// DeepEqualTo returns a matcher comparing against expected with
// reflect.DeepEqual. Bare literals in WithParameters already compare this way;
// the matcher form exists for ForMethod and for mixing with other matchers.
func DeepEqualTo(expected any) Matcher {
	return &deepEqualMatcher{expected: expected}
}

// HavingPrefix returns a matcher for strings with the given prefix. Handy as a
// ForMethod constraint to cover a family of method names (e.g. every Get*).
func HavingPrefix(prefix string) Matcher {
	return &prefixMatcher{prefix: prefix}
}

// OfType returns a matcher that accepts any value of type T, regardless of
// value.
func OfType[T any]() Matcher {
	return &typeMatcher[T]{}
}

// Satisfy returns a matcher that uses a predicate function to check for a match.
// The predicate should return nil if the value matches, or an error describing
// the mismatch if it does not.
//
// Example:
//
//	d.Expect(standin.Once()).ForMethod("Add").WithParameters(Satisfy(func(x int) error {
//	    if x < 0 { return fmt.Errorf("expected positive, got %d", x) }
//	    return nil
//	}))
func Satisfy[T any](predicate func(T) error) Matcher {
	return &satisfyMatcher[T]{predicate: predicate}
}

// anyMatcher is the implementation of the BeAny matcher.
type anyMatcher struct{}

// FailureMessage returns an empty string since BeAny always matches.
func (anyMatcher) FailureMessage(any) string {
	return ""
}

// Match always returns true - matches any value.
func (anyMatcher) Match(any) (bool, error) {
	return true, nil
}

type deepEqualMatcher struct {
	expected any
}

func (m *deepEqualMatcher) FailureMessage(actual any) string {
	return fmt.Sprintf("expected %#v, got %#v", m.expected, actual)
}

func (m *deepEqualMatcher) Match(actual any) (bool, error) {
	return reflect.DeepEqual(actual, m.expected), nil
}

type prefixMatcher struct {
	prefix string
}

func (m *prefixMatcher) FailureMessage(actual any) string {
	return fmt.Sprintf("expected a string with prefix %q, got %#v", m.prefix, actual)
}

func (m *prefixMatcher) Match(actual any) (bool, error) {
	s, ok := actual.(string)
	if !ok {
		return false, fmt.Errorf("%w: expected string, got %T", errTypeMismatch, actual)
	}

	return strings.HasPrefix(s, m.prefix), nil
}

type satisfyMatcher[T any] struct {
	predicate func(T) error
	lastErr   error
}

func (m *satisfyMatcher[T]) FailureMessage(actual any) string {
	if m.lastErr != nil {
		return fmt.Sprintf("value %v does not satisfy predicate: %v", actual, m.lastErr)
	}

	return fmt.Sprintf("value %v does not satisfy predicate", actual)
}

func (m *satisfyMatcher[T]) Match(actual any) (bool, error) {
	val, ok := actual.(T)

	if !ok {
		return false, fmt.Errorf("%w: expected %T, got %T", errTypeMismatch, *new(T), actual)
	}

	m.lastErr = m.predicate(val)

	return m.lastErr == nil, nil
}

type typeMatcher[T any] struct{}

func (m *typeMatcher[T]) FailureMessage(actual any) string {
	return fmt.Sprintf("expected a value of type %T, got %T", *new(T), actual)
}

func (m *typeMatcher[T]) Match(actual any) (bool, error) {
	_, ok := actual.(T)

	return ok, nil
}
