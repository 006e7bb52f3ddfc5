package core

import "fmt"

// Expectation is the accumulated configuration for one expected call on a
// double: an optional method name matcher, an optional parameters matcher, an
// optional stub, an optional predecessor identifier for ordering, and the
// invocation count matcher taken at construction.
//
// Configuration sequencing is enforced here: the method matcher may be set at
// most once, and the parameters matcher at most once and only after the method
// matcher. Stub, ordering, and identity are orthogonal and stay mutable.
type Expectation struct {
	methodMatcher *MethodNameMatcher
	paramsMatcher ParametersMatcher
	stub          Stub
	count         CountMatcher

	afterID  string
	hasAfter bool
	id       string
	hasID    bool

	recorded []Invocation
}

// NewExpectation creates an expectation governed by the given invocation
// count matcher. A nil count is treated as AnyTimes.
func NewExpectation(count CountMatcher) *Expectation {
	if count == nil {
		count = AnyTimes()
	}

	return &Expectation{count: count}
}

// After names the expectation that must match at least once before this one
// becomes eligible. Repeatable; the last value wins.
func (e *Expectation) After() (id string, ok bool) {
	return e.afterID, e.hasAfter
}

// ID returns the identifier this expectation was registered under, if any.
func (e *Expectation) ID() (string, bool) {
	return e.id, e.hasID
}

// Invocations returns the calls this expectation has matched, in order.
func (e *Expectation) Invocations() []Invocation {
	out := make([]Invocation, len(e.recorded))
	copy(out, e.recorded)

	return out
}

// MethodMatcherSet reports whether a method name matcher has been configured.
func (e *Expectation) MethodMatcherSet() bool {
	return e.methodMatcher != nil
}

// ParametersMatcherSet reports whether a parameters matcher has been configured.
func (e *Expectation) ParametersMatcherSet() bool {
	return e.paramsMatcher != nil
}

// SetAfter sets the predecessor identifier. Legal in any state.
func (e *Expectation) SetAfter(id string) {
	e.afterID = id
	e.hasAfter = true
}

// SetMethodMatcher installs the method name matcher. Fails with
// CauseMethodMatcherRedefined when one is already set, regardless of the
// constraint type used either time.
func (e *Expectation) SetMethodMatcher(m *MethodNameMatcher) error {
	if e.methodMatcher != nil {
		return &ConfigurationError{Cause: CauseMethodMatcherRedefined}
	}

	e.methodMatcher = m

	return nil
}

// SetParametersMatcher installs the parameters matcher. Fails with
// CauseParametersWithoutMethod when no method matcher exists yet, and with
// CauseParametersRedefined when a parameters matcher is already set.
func (e *Expectation) SetParametersMatcher(m ParametersMatcher) error {
	if e.methodMatcher == nil {
		return &ConfigurationError{Cause: CauseParametersWithoutMethod}
	}

	if e.paramsMatcher != nil {
		return &ConfigurationError{Cause: CauseParametersRedefined}
	}

	e.paramsMatcher = m

	return nil
}

// SetStub installs the stub behavior, replacing any prior one. Legal in any
// state.
func (e *Expectation) SetStub(s Stub) {
	e.stub = s
}

// matches returns nil when the invocation satisfies every configured
// constraint: method name, count capacity, predecessor ordering, and
// parameters. An expectation with no method matcher never matches.
func (e *Expectation) matches(inv Invocation, reg *ExpectationRegistry) error {
	if e.methodMatcher == nil {
		//nolint:err113 // match-failure description
		return fmt.Errorf("expectation has no method name matcher")
	}

	if ok, failure := e.methodMatcher.Matches(inv.Method); !ok {
		//nolint:err113 // match-failure description
		return fmt.Errorf("method name: %s", failure)
	}

	if !e.count.matchable(len(e.recorded)) {
		//nolint:err113 // match-failure description
		return fmt.Errorf("invocation count exhausted after %d call(s)", len(e.recorded))
	}

	if e.hasAfter && !reg.afterSatisfied(e.afterID) {
		//nolint:err113 // match-failure description
		return fmt.Errorf("ordered after %q, which has not matched yet", e.afterID)
	}

	if e.paramsMatcher != nil {
		err := e.paramsMatcher.MatchArgs(len(e.recorded), inv.Args)
		if err != nil {
			return fmt.Errorf("method %q: %w", inv.Method, err)
		}
	}

	return nil
}

// methodNameMatches reports whether only the method-name constraint passes,
// used to pick nearest-miss candidates for unexpected-invocation reports.
func (e *Expectation) methodNameMatches(method string) bool {
	if e.methodMatcher == nil {
		return false
	}

	ok, _ := e.methodMatcher.Matches(method)

	return ok
}

// record appends a matched invocation.
func (e *Expectation) record(inv Invocation) {
	e.recorded = append(e.recorded, inv)
}

// setID records the identifier the registry filed this expectation under.
func (e *Expectation) setID(id string) {
	e.id = id
	e.hasID = true
}

// verify checks the recorded invocation total against the count matcher.
func (e *Expectation) verify() error {
	err := e.count.verify(len(e.recorded))
	if err != nil {
		return fmt.Errorf("expectation %s: %w", e.label(), err)
	}

	return nil
}

// label names the expectation for verification messages.
func (e *Expectation) label() string {
	switch {
	case e.hasID:
		return fmt.Sprintf("%q", e.id)
	case e.methodMatcher != nil && e.methodMatcher.Literal():
		return fmt.Sprintf("for method %q", e.methodMatcher.literal)
	case e.methodMatcher != nil:
		return "with matcher-based method constraint"
	default:
		return "(unconfigured)"
	}
}
