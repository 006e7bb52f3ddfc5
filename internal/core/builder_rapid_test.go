package core_test

import (
	"errors"
	"testing"

	standin "github.com/standinhq/standin"
	"pgregory.net/rapid"
)

// TestBuilderStateMachine_Properties drives a builder with random sequences
// of configuration calls and checks it against a model of the legal
// sequencing: ForMethod at most once, parameters at most once and only after
// ForMethod, everything else always legal, first error sticky.
func TestBuilderStateMachine_Properties(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		reg := standin.NewExpectationRegistry()
		builder := standin.NewExpectationBuilder(reg, standin.AnyTimes(), standin.NewMethodSet("m"))

		methodSet := false
		paramsSet := false

		var wantErr error

		ops := []string{"forMethod", "withParams", "withAny", "withConsecutive", "stub", "after", "identify"}

		steps := rapid.IntRange(1, 12).Draw(rt, "steps")
		for range steps {
			op := rapid.SampledFrom(ops).Draw(rt, "op")

			if wantErr == nil {
				// Model the transition the builder's sequencing rules allow.
				switch op {
				case "forMethod":
					if methodSet {
						wantErr = &standin.ConfigurationError{Cause: standin.CauseMethodMatcherRedefined}
					} else {
						methodSet = true
					}
				case "withParams", "withAny", "withConsecutive":
					switch {
					case !methodSet:
						wantErr = &standin.ConfigurationError{Cause: standin.CauseParametersWithoutMethod}
					case paramsSet:
						wantErr = &standin.ConfigurationError{Cause: standin.CauseParametersRedefined}
					default:
						paramsSet = true
					}
				}
			}

			switch op {
			case "forMethod":
				builder.ForMethod("m")
			case "withParams":
				builder.WithParameters(1)
			case "withAny":
				builder.WithAnyParameters()
			case "withConsecutive":
				builder.WithConsecutiveParameters([]any{1})
			case "stub":
				builder.WillReturn(1)
			case "after":
				builder.After("id")
			case "identify":
				builder.Identify("id")
			}
		}

		err := builder.Err()

		if wantErr == nil && err != nil {
			rt.Fatalf("expected no error, got %v", err)
		}

		if wantErr != nil && !errors.Is(err, wantErr) {
			rt.Fatalf("expected %v, got %v", wantErr, err)
		}

		// Registration happened exactly once, at construction.
		if got := len(reg.Expectations()); got != 1 {
			rt.Fatalf("expected exactly 1 registered expectation, got %d", got)
		}
	})
}
