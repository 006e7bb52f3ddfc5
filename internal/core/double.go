// Package core provides the internal implementation of standin's expectation
// builder, matcher, stub, and dispatch infrastructure.
package core

import "sync"

// TestReporter is the minimal interface standin needs from test frameworks.
type TestReporter interface {
	Helper()
	Fatalf(format string, args ...any)
}

// Double is one test double: an expectation registry, the configurable method
// set for the doubled type, and the reporter misuse and match failures are
// surfaced through. Generated and hand-written doubles embed or hold one and
// route every intercepted method through Invoke.
type Double struct {
	t        TestReporter
	registry *ExpectationRegistry
	methods  MethodSet

	mu   sync.Mutex
	self any
}

// NewDouble creates a double for the given configurable method set, files it
// under t for VerifyAll, and, when the reporter supports Cleanup (like
// *testing.T), schedules automatic count verification at test end.
func NewDouble(t TestReporter, methods MethodSet) *Double {
	d := &Double{
		t:        t,
		registry: NewExpectationRegistry(),
		methods:  methods,
	}
	d.self = d

	doublesMu.Lock()
	doubles[t] = append(doubles[t], d)
	doublesMu.Unlock()

	if cr, ok := t.(cleanupRegistrar); ok {
		cr.Cleanup(func() {
			d.Verify()

			doublesMu.Lock()
			delete(doubles, t)
			doublesMu.Unlock()
		})
	}

	return d
}

// Expect starts configuring a new expected call governed by the given
// invocation count matcher. The expectation is registered immediately.
func (d *Double) Expect(count CountMatcher) *ExpectationBuilder {
	builder := NewExpectationBuilder(d.registry, count, d.methods)
	builder.reporter = d.t
	builder.owner = d

	return builder
}

// Invoke is the interception entry point: the doubled type's methods call it
// with their method name and arguments, and forward the returned tuple. An
// invocation no expectation matches fails the test.
func (d *Double) Invoke(method string, args ...any) []any {
	d.t.Helper()

	d.mu.Lock()
	self := d.self
	d.mu.Unlock()

	values, err := d.registry.Dispatch(Invocation{Method: method, Args: args, Self: self})
	if err != nil {
		d.t.Fatalf("standin: %v", err)

		return nil
	}

	return values
}

// Registry exposes the double's expectation registry.
func (d *Double) Registry() *ExpectationRegistry {
	return d.registry
}

// SetSelf overrides the value WillReturnSelf stubs produce. Typed doubles set
// this to their outer struct so fluent interfaces chain naturally; the default
// is the Double itself.
func (d *Double) SetSelf(v any) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.self = v
}

// Verify checks every expectation's invocation count and fails the test on
// the first unmet one, reporting all of them.
func (d *Double) Verify() {
	d.t.Helper()

	err := d.registry.VerifyAll()
	if err != nil {
		d.t.Fatalf("standin: unmet expectations:\n%v", err)
	}
}

// DoublesFor returns every double created under t, in creation order.
func DoublesFor(t TestReporter) []*Double {
	doublesMu.Lock()
	defer doublesMu.Unlock()

	tracked := make([]*Double, len(doubles[t]))
	copy(tracked, doubles[t])

	return tracked
}

// VerifyAll verifies every double created under t. Useful with reporters that
// don't support Cleanup; with *testing.T the same verification runs
// automatically.
func VerifyAll(t TestReporter) {
	for _, d := range DoublesFor(t) {
		d.Verify()
	}
}

// unexported variables.
var (
	//nolint:gochecknoglobals // Package-level registry is intentional for test coordination
	doubles = make(map[TestReporter][]*Double)
	//nolint:gochecknoglobals // Mutex for registry
	doublesMu sync.Mutex
)

// cleanupRegistrar is the interface needed for registering cleanup functions.
// This is satisfied by *testing.T and *testing.B.
type cleanupRegistrar interface {
	Cleanup(cleanupFunc func())
}
