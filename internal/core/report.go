package core

import (
	"fmt"
	"strings"

	"github.com/akedrou/textdiff"
)

// describeMismatch explains why an invocation missed the given same-method
// expectation, including a unified diff of expected vs actual arguments when
// the expectation carries a concrete argument list.
func describeMismatch(reg *ExpectationRegistry, exp *Expectation, inv Invocation) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("nearest expectation %s did not match:\n", exp.label()))

	err := exp.matches(inv, reg)
	if err != nil {
		b.WriteString("  " + err.Error() + "\n")
	}

	if exp.paramsMatcher != nil {
		expected, ok := exp.paramsMatcher.ExpectedArgs(len(exp.recorded))
		if ok {
			b.WriteString(diffArgs(expected, inv.Args))
		}
	}

	return b.String()
}

// diffArgs renders a unified diff of two argument lists, one argument per
// line, for mismatch reports.
func diffArgs(expected, actual []any) string {
	return textdiff.Unified(
		"expected arguments",
		"actual arguments",
		formatArgs(expected),
		formatArgs(actual),
	)
}

// formatArgs renders an argument list one argument per line, indexed, with a
// trailing newline so the output diffs cleanly.
func formatArgs(args []any) string {
	if len(args) == 0 {
		return "  (none)\n"
	}

	var b strings.Builder

	for i, arg := range args {
		b.WriteString(fmt.Sprintf("  [%d] %#v\n", i, arg))
	}

	return b.String()
}
