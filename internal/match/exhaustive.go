package match

import (
	"strings"

	"janus/internal/types"
)

// Result is an exhaustiveness verdict. A negative verdict always carries a
// concrete, enumerable list of missing patterns for diagnostics.
type Result struct {
	Exhaustive bool
	Missing    []Pattern
}

// MissingStrings renders the missing patterns for a diagnostic message.
func (r Result) MissingStrings() string {
	parts := make([]string, 0, len(r.Missing))
	for _, p := range r.Missing {
		parts = append(parts, "`"+p.String()+"`")
	}
	return strings.Join(parts, ", ")
}

// Check decides whether the patterns cover every value of the scrutinee
// type. Rule order:
//
//  1. a wildcard or bare binding anywhere makes the match exhaustive,
//     whatever the scrutinee;
//  2. a boolean scrutinee is exhaustive iff both literals appear;
//  3. every other domain (integers, floats, strings, compound or unknown
//     types) is effectively infinite and requires an explicit wildcard.
//
// Enum-variant, Optional and nested tuple/struct coverage are future
// refinements; until then those scrutinees fall under rule 3.
func Check(in *types.Interner, scrutinee types.TypeID, patterns []Pattern) Result {
	for _, p := range patterns {
		if p.Kind == PatWildcard || p.Kind == PatBinding {
			return Result{Exhaustive: true}
		}
	}

	if in != nil && in.Kind(scrutinee) == types.KindBool {
		return checkBool(patterns)
	}

	return Result{
		Exhaustive: false,
		Missing:    []Pattern{Wildcard()},
	}
}

func checkBool(patterns []Pattern) Result {
	var sawTrue, sawFalse bool
	for _, p := range patterns {
		if p.Kind == PatLiteral && p.Lit == LitBool {
			if p.BoolVal {
				sawTrue = true
			} else {
				sawFalse = true
			}
		}
	}
	if sawTrue && sawFalse {
		return Result{Exhaustive: true}
	}
	var missing []Pattern
	if !sawTrue {
		missing = append(missing, BoolLit(true))
	}
	if !sawFalse {
		missing = append(missing, BoolLit(false))
	}
	return Result{Exhaustive: false, Missing: missing}
}
