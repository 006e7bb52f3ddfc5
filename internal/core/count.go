package core

import "fmt"

// CountMatcher constrains and verifies how many times one expectation may
// match. During dispatch it acts as a capacity check: an exhausted matcher
// takes the expectation out of consideration. At the end of the test it
// verifies the recorded total.
//
// The interface is sealed; construct values with AnyTimes, Once, Times,
// AtLeast, AtMost, or Never.
type CountMatcher interface {
	// matchable reports whether the expectation may match another call given
	// how many it has already recorded.
	matchable(recorded int) bool
	// verify returns nil when the recorded total satisfies the matcher.
	verify(recorded int) error
}

// AnyTimes returns a matcher satisfied by any number of invocations.
func AnyTimes() CountMatcher { return anyTimes{} }

// AtLeast returns a matcher requiring at least n invocations.
func AtLeast(n int) CountMatcher { return atLeast{min: n} }

// AtMost returns a matcher allowing up to n invocations.
func AtMost(n int) CountMatcher { return atMost{max: n} }

// Never returns a matcher requiring zero invocations. A call that would
// otherwise match falls through to later expectations or fails as unexpected.
func Never() CountMatcher { return exactly{want: 0} }

// Once returns a matcher requiring exactly one invocation.
func Once() CountMatcher { return exactly{want: 1} }

// Times returns a matcher requiring exactly n invocations.
func Times(n int) CountMatcher { return exactly{want: n} }

type anyTimes struct{}

func (anyTimes) matchable(int) bool { return true }

func (anyTimes) verify(int) error { return nil }

type atLeast struct {
	min int
}

func (m atLeast) matchable(int) bool { return true }

func (m atLeast) verify(recorded int) error {
	if recorded < m.min {
		//nolint:err113 // verification error with dynamic context
		return fmt.Errorf("expected at least %d invocation(s), recorded %d", m.min, recorded)
	}

	return nil
}

type atMost struct {
	max int
}

func (m atMost) matchable(recorded int) bool { return recorded < m.max }

func (m atMost) verify(recorded int) error {
	if recorded > m.max {
		//nolint:err113 // verification error with dynamic context
		return fmt.Errorf("expected at most %d invocation(s), recorded %d", m.max, recorded)
	}

	return nil
}

type exactly struct {
	want int
}

func (m exactly) matchable(recorded int) bool { return recorded < m.want }

func (m exactly) verify(recorded int) error {
	if recorded != m.want {
		//nolint:err113 // verification error with dynamic context
		return fmt.Errorf("expected exactly %d invocation(s), recorded %d", m.want, recorded)
	}

	return nil
}
