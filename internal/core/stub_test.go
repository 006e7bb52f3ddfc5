package core_test

import (
	"testing"

	. "github.com/onsi/gomega" //nolint:revive // Dot import intentional for Gomega matcher DSL

	standin "github.com/standinhq/standin"
)

// stubbedRegistry builds a one-expectation registry for method "m" and runs
// the given builder configuration on it.
func stubbedRegistry(configure func(b *standin.ExpectationBuilder)) *standin.ExpectationRegistry {
	reg := standin.NewExpectationRegistry()
	builder := standin.NewExpectationBuilder(reg, standin.AnyTimes(), standin.NewMethodSet("m")).ForMethod("m")
	configure(builder)

	return reg
}

// TestStub_NoStubYieldsEmptyTuple verifies a matched expectation without a
// stub produces no return values.
func TestStub_NoStubYieldsEmptyTuple(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	reg := stubbedRegistry(func(*standin.ExpectationBuilder) {})

	values, err := reg.Dispatch(standin.Invocation{Method: "M"})
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(values).To(BeEmpty())
}

// TestStub_ReturnArgumentEchoesInvocationArg verifies the argument-echo stub.
func TestStub_ReturnArgumentEchoesInvocationArg(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	reg := stubbedRegistry(func(b *standin.ExpectationBuilder) { b.WillReturnArgument(1) })

	values, err := reg.Dispatch(standin.Invocation{Method: "M", Args: []any{"a", "b"}})
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(values).To(Equal([]any{"b"}))
}

// TestStub_ReturnArgumentOutOfRangeFails verifies the argument-echo stub
// reports an out-of-range index at invocation time.
func TestStub_ReturnArgumentOutOfRangeFails(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	reg := stubbedRegistry(func(b *standin.ExpectationBuilder) { b.WillReturnArgument(5) })

	_, err := reg.Dispatch(standin.Invocation{Method: "M", Args: []any{"only"}})
	g.Expect(err).To(HaveOccurred())
	g.Expect(err.Error()).To(ContainSubstring("out of range"))
}

// TestStub_CallbackReceivesArgsAndSuppliesTuple verifies the callback stub
// passes the invocation arguments through and its result becomes the return
// tuple.
func TestStub_CallbackReceivesArgsAndSuppliesTuple(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	reg := stubbedRegistry(func(b *standin.ExpectationBuilder) {
		b.WillReturnCallback(func(args []any) []any {
			total := 0
			for _, a := range args {
				total += a.(int)
			}

			return []any{total, nil}
		})
	})

	values, err := reg.Dispatch(standin.Invocation{Method: "M", Args: []any{2, 3}})
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(values).To(Equal([]any{5, nil}))
}

// TestStub_ValueMapLooksUpArgumentTuple verifies value-map rows supply the
// remainder of the matched row as the return tuple.
func TestStub_ValueMapLooksUpArgumentTuple(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	reg := stubbedRegistry(func(b *standin.ExpectationBuilder) {
		b.WillReturnMap([][]any{
			{"a", 1, "found-a", nil},
			{"b", 2, "found-b", nil},
		})
	})

	values, err := reg.Dispatch(standin.Invocation{Method: "M", Args: []any{"b", 2}})
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(values).To(Equal([]any{"found-b", nil}))
}

// TestStub_ValueMapMissFails verifies an argument tuple outside the map is an
// invocation-time error.
func TestStub_ValueMapMissFails(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	reg := stubbedRegistry(func(b *standin.ExpectationBuilder) {
		b.WillReturnMap([][]any{{"a", "found"}})
	})

	_, err := reg.Dispatch(standin.Invocation{Method: "M", Args: []any{"z"}})
	g.Expect(err).To(HaveOccurred())
	g.Expect(err.Error()).To(ContainSubstring("no value-map row matches"))
}

// TestStub_IndirectDereferencesAtInvocationTime verifies callers observe the
// pointer's referent as of each call, not as of configuration.
func TestStub_IndirectDereferencesAtInvocationTime(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	current := "before"
	reg := stubbedRegistry(func(b *standin.ExpectationBuilder) { b.WillReturnIndirect(&current) })

	values, err := reg.Dispatch(standin.Invocation{Method: "M"})
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(values).To(Equal([]any{"before"}))

	current = "after"

	values, err = reg.Dispatch(standin.Invocation{Method: "M"})
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(values).To(Equal([]any{"after"}))
}

// TestStub_ReturnSelfYieldsInvocationSelf verifies the self stub returns the
// double the call was intercepted on.
func TestStub_ReturnSelfYieldsInvocationSelf(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	reg := stubbedRegistry(func(b *standin.ExpectationBuilder) { b.WillReturnSelf() })

	owner := &struct{ name string }{name: "the double"}

	values, err := reg.Dispatch(standin.Invocation{Method: "M", Self: owner})
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(values).To(Equal([]any{owner}))
}

// TestStub_ConsecutiveRepeatsFinalValue verifies calls past the configured
// sequence repeat the final value.
func TestStub_ConsecutiveRepeatsFinalValue(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	reg := stubbedRegistry(func(b *standin.ExpectationBuilder) {
		b.WillReturnOnConsecutiveCalls("x", "y")
	})

	wants := []any{"x", "y", "y"}
	for _, want := range wants {
		values, err := reg.Dispatch(standin.Invocation{Method: "M"})
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(values).To(Equal([]any{want}))
	}
}

// TestStub_PanicPropagates verifies the panic stub unwinds through dispatch.
func TestStub_PanicPropagates(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	reg := stubbedRegistry(func(b *standin.ExpectationBuilder) { b.WillPanic("boom") })

	g.Expect(func() {
		_, _ = reg.Dispatch(standin.Invocation{Method: "M"})
	}).To(PanicWith("boom"))
}

// TestStub_AttachStubOverwrites verifies later stub attachments replace
// earlier ones.
func TestStub_AttachStubOverwrites(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	reg := stubbedRegistry(func(b *standin.ExpectationBuilder) {
		b.WillReturn("old").WillReturn("new")
	})

	values, err := reg.Dispatch(standin.Invocation{Method: "M"})
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(values).To(Equal([]any{"new"}))
}
