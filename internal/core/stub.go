package core

import (
	"fmt"
	"reflect"
)

// Invocation is one intercepted call on a double.
type Invocation struct {
	Method string
	Args   []any
	// Index is how many calls the matched expectation had recorded before
	// this one. Consecutive-value stubs and parameters matchers key off it.
	Index int
	// Self is the double the call was intercepted on, for WillReturnSelf.
	Self any
}

// Stub specifies what a matched invocation produces. Invoke returns the tuple
// of return values; it may also panic (WillPanic) or fail (bad configuration
// discovered at invocation time, like an out-of-range argument index).
type Stub interface {
	Invoke(inv Invocation) ([]any, error)
}

// NewCallbackStub returns a stub that delegates to fn for each invocation.
// The callback receives the invocation arguments and produces the full return
// tuple, so it also covers multi-value returns.
func NewCallbackStub(fn func(args []any) []any) Stub {
	return &callbackStub{fn: fn}
}

// NewConsecutiveStub returns a stub producing one single-value tuple per call:
// the first call gets values[0], the second values[1], and so on. Calls past
// the end repeat the final value.
func NewConsecutiveStub(values ...any) Stub {
	return &consecutiveStub{values: values}
}

// NewIndirectStub returns a stub that dereferences ptr at invocation time, so
// the caller observes whatever the pointer refers to when the call happens.
func NewIndirectStub(ptr any) Stub {
	return &indirectStub{ptr: ptr}
}

// NewPanicStub returns a stub that panics with value when invoked.
func NewPanicStub(value any) Stub {
	return &panicStub{value: value}
}

// NewReturnArgumentStub returns a stub that echoes the invocation's index-th
// argument back as the single return value.
func NewReturnArgumentStub(index int) Stub {
	return &returnArgumentStub{index: index}
}

// NewReturnSelfStub returns a stub producing the double itself, for fluent
// interfaces under test.
func NewReturnSelfStub() Stub {
	return returnSelfStub{}
}

// NewReturnStub returns a stub producing the same fixed tuple on every call.
func NewReturnStub(values ...any) Stub {
	return &returnStub{values: values}
}

// NewValueMapStub returns a stub that looks the argument tuple up in rows.
// Each row holds argument values followed by return values; the first row
// whose leading values deep-equal the invocation arguments supplies the
// remainder of the row as the return tuple.
func NewValueMapStub(rows [][]any) Stub {
	return &valueMapStub{rows: rows}
}

type callbackStub struct {
	fn func(args []any) []any
}

func (s *callbackStub) Invoke(inv Invocation) ([]any, error) {
	return s.fn(inv.Args), nil
}

type consecutiveStub struct {
	values []any
}

func (s *consecutiveStub) Invoke(inv Invocation) ([]any, error) {
	if len(s.values) == 0 {
		return nil, nil
	}

	idx := inv.Index
	if idx >= len(s.values) {
		idx = len(s.values) - 1
	}

	return []any{s.values[idx]}, nil
}

type indirectStub struct {
	ptr any
}

func (s *indirectStub) Invoke(Invocation) ([]any, error) {
	val := reflect.ValueOf(s.ptr)
	if val.Kind() != reflect.Pointer || val.IsNil() {
		//nolint:err113 // configuration error with dynamic context
		return nil, fmt.Errorf("indirect stub requires a non-nil pointer, got %T", s.ptr)
	}

	return []any{val.Elem().Interface()}, nil
}

type panicStub struct {
	value any
}

func (s *panicStub) Invoke(Invocation) ([]any, error) {
	panic(s.value)
}

type returnArgumentStub struct {
	index int
}

func (s *returnArgumentStub) Invoke(inv Invocation) ([]any, error) {
	if s.index < 0 || s.index >= len(inv.Args) {
		//nolint:err113 // configuration error with dynamic context
		return nil, fmt.Errorf(
			"return-argument stub index %d out of range for %d argument(s)", s.index, len(inv.Args),
		)
	}

	return []any{inv.Args[s.index]}, nil
}

type returnSelfStub struct{}

func (returnSelfStub) Invoke(inv Invocation) ([]any, error) {
	return []any{inv.Self}, nil
}

type returnStub struct {
	values []any
}

func (s *returnStub) Invoke(Invocation) ([]any, error) {
	return s.values, nil
}

type valueMapStub struct {
	rows [][]any
}

func (s *valueMapStub) Invoke(inv Invocation) ([]any, error) {
	for _, row := range s.rows {
		if len(row) < len(inv.Args) {
			continue
		}

		if reflect.DeepEqual(row[:len(inv.Args)], inv.Args) {
			return row[len(inv.Args):], nil
		}
	}

	//nolint:err113 // configuration error with dynamic context
	return nil, fmt.Errorf("no value-map row matches arguments:\n%s", formatArgs(inv.Args))
}
