package core

import (
	"errors"
	"sync"
)

// ExpectationRegistry owns every expectation configured on one double. It is
// append-only during the configuration phase, maps identifiers to builders for
// After ordering chains, and dispatches intercepted invocations against the
// expectations it owns.
type ExpectationRegistry struct {
	mu           sync.Mutex
	expectations []*Expectation
	identifiers  map[string]*ExpectationBuilder
}

// NewExpectationRegistry creates an empty registry.
func NewExpectationRegistry() *ExpectationRegistry {
	return &ExpectationRegistry{
		identifiers: make(map[string]*ExpectationBuilder),
	}
}

// BuilderByID returns the builder registered under id via Identify.
func (r *ExpectationRegistry) BuilderByID(id string) (*ExpectationBuilder, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	builder, ok := r.identifiers[id]

	return builder, ok
}

// Dispatch matches one intercepted invocation against the registered
// expectations, in registration order, first match wins. A match records the
// invocation and evaluates the expectation's stub; no stub means an empty
// return tuple. When nothing matches, the returned error is an
// *UnexpectedInvocationError describing the nearest same-method miss.
func (r *ExpectationRegistry) Dispatch(inv Invocation) ([]any, error) {
	r.mu.Lock()

	var stub Stub

	matched := false

	for _, exp := range r.expectations {
		if exp.matches(inv, r) != nil {
			continue
		}

		inv.Index = len(exp.recorded)
		exp.record(inv)
		stub = exp.stub
		matched = true

		break
	}

	if !matched {
		detail := r.describeNearestMiss(inv)
		r.mu.Unlock()

		return nil, &UnexpectedInvocationError{Method: inv.Method, Args: inv.Args, Detail: detail}
	}

	// The stub runs outside the lock: callbacks may configure or invoke the
	// double again, and panic stubs unwind through here.
	r.mu.Unlock()

	if stub == nil {
		return nil, nil
	}

	return stub.Invoke(inv)
}

// Expectations returns the registered expectations in registration order.
// Every expectation is visible here from the moment its builder is
// constructed, configured further or not.
func (r *ExpectationRegistry) Expectations() []*Expectation {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*Expectation, len(r.expectations))
	copy(out, r.expectations)

	return out
}

// VerifyAll checks every expectation's invocation count matcher and joins the
// failures, so a test reports all unmet expectations rather than the first.
func (r *ExpectationRegistry) VerifyAll() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error

	for _, exp := range r.expectations {
		err := exp.verify()
		if err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// afterSatisfied reports whether the expectation registered under id has
// matched at least once. Identifiers never registered are never satisfied.
// Callers hold r.mu.
func (r *ExpectationRegistry) afterSatisfied(id string) bool {
	builder, ok := r.identifiers[id]
	if !ok {
		return false
	}

	return len(builder.exp.recorded) > 0
}

// describeNearestMiss explains why the closest same-method expectation didn't
// match. Callers hold r.mu.
func (r *ExpectationRegistry) describeNearestMiss(inv Invocation) string {
	for _, exp := range r.expectations {
		if exp.methodNameMatches(inv.Method) {
			return describeMismatch(r, exp, inv)
		}
	}

	return "no expectation is configured for this method"
}

// register appends a freshly built expectation. Called exactly once per
// builder, at construction.
func (r *ExpectationRegistry) register(exp *Expectation) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.expectations = append(r.expectations, exp)
}

// registerIdentifier files the builder under id. Last write wins; collision
// policy belongs to the registry, not the builder.
func (r *ExpectationRegistry) registerIdentifier(id string, builder *ExpectationBuilder) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.identifiers[id] = builder
	builder.exp.setID(id)
}
