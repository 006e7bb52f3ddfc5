package core

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// MethodSet is the allow-list of method names that are legally configurable on
// a double. Names are stored pre-normalized to lower case; membership lookups
// take already-lower-cased candidates, matching the case-insensitive literal
// method constraint.
type MethodSet map[string]struct{}

// MethodSetOf derives the method set from an interface type, given a nil
// pointer to it:
//
//	ms, err := core.MethodSetOf((*Store)(nil))
//
// Only the interface's declared methods are interceptable, which is how a Go
// double excludes nonexistent or otherwise unmockable methods.
func MethodSetOf(ifacePtr any) (MethodSet, error) {
	typ := reflect.TypeOf(ifacePtr)
	if typ == nil || typ.Kind() != reflect.Pointer || typ.Elem().Kind() != reflect.Interface {
		//nolint:err113 // configuration error with dynamic context
		return nil, fmt.Errorf("expected a nil interface pointer like (*Iface)(nil), got %T", ifacePtr)
	}

	iface := typ.Elem()
	set := make(MethodSet, iface.NumMethod())

	for i := range iface.NumMethod() {
		set[strings.ToLower(iface.Method(i).Name)] = struct{}{}
	}

	return set, nil
}

// NewMethodSet builds a method set from literal names, lower-casing each.
func NewMethodSet(names ...string) MethodSet {
	set := make(MethodSet, len(names))
	for _, name := range names {
		set[strings.ToLower(name)] = struct{}{}
	}

	return set
}

// Contains reports membership. The candidate must already be lower-cased.
func (s MethodSet) Contains(lowercaseName string) bool {
	_, ok := s[lowercaseName]

	return ok
}

// Names returns the member names, sorted, for error messages and generated
// code.
func (s MethodSet) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
