// Package variant turns a property-value assignment into a canonical
// variant code and a resolved set of condition tokens, either via a direct
// condition-mapping table or by evaluating a relation-rule ruleset.
package variant

import (
	"sort"
	"strconv"
	"strings"

	"ofmlcore/internal/core"
)

// Code computes the deterministic textual encoding of a complete property
// assignment: ascending-lexicographic NAME=VALUE pairs joined by ';'. Bool
// renders as 1/0, float renders as the nearest integer, string/choice
// render verbatim.
func Code(assignment map[string]core.Value) string {
	names := make([]string, 0, len(assignment))
	for name := range assignment {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+"="+renderValue(assignment[name]))
	}
	return strings.Join(parts, ";")
}

func renderValue(v core.Value) string {
	switch v.Kind() {
	case core.KindBool:
		if v.AsBool() {
			return "1"
		}
		return "0"
	case core.KindFloat:
		f, _ := v.AsFloat()
		return strconv.FormatInt(int64(roundHalfAwayFromZero(f)), 10)
	case core.KindInt, core.KindUint:
		i, _ := v.AsInt()
		return strconv.FormatInt(i, 10)
	default:
		return v.AsString()
	}
}

func roundHalfAwayFromZero(f float64) float64 {
	if f >= 0 {
		return float64(int64(f + 0.5))
	}
	return float64(int64(f - 0.5))
}

// ConditionMappingEntry is one entry of the direct condition-mapping table:
// {property class, property value} -> {variant condition token, human
// addendum}. Non-unique on either projection, unique on the pair.
type ConditionMappingEntry struct {
	PropertyClass string
	PropertyValue string
	Token         string
	Addendum      string
}

// Resolved is the set of condition tokens produced for a property
// assignment, with their human-readable addenda (empty string if the
// resolving entry/rule carried none).
type Resolved struct {
	Tokens  map[string]bool
	Addenda map[string]string
}

// HasTokens reports whether any token was resolved.
func (r Resolved) HasTokens() bool { return len(r.Tokens) > 0 }

// Contains reports whether token is a member of the resolved set.
func (r Resolved) Contains(token string) bool { return r.Tokens[token] }

// ResolveWithTable resolves the condition set using the direct
// condition-mapping table, the authoritative path per §4.G when a table is
// present for the active scope.
func ResolveWithTable(assignment map[string]core.Value, table []ConditionMappingEntry) Resolved {
	byKey := make(map[[2]string]ConditionMappingEntry, len(table))
	for _, e := range table {
		byKey[[2]string{e.PropertyClass, e.PropertyValue}] = e
	}

	resolved := Resolved{Tokens: make(map[string]bool), Addenda: make(map[string]string)}
	for propClass, v := range assignment {
		value := renderRawValue(v)
		if e, ok := byKey[[2]string{propClass, value}]; ok {
			resolved.Tokens[e.Token] = true
			if e.Addendum != "" {
				resolved.Addenda[e.Token] = e.Addendum
			}
		}
	}
	return resolved
}

// renderRawValue is the case-preserving string form used for
// condition-mapping lookups (as opposed to Code's variant-code rendering,
// which is lossy for floats).
func renderRawValue(v core.Value) string {
	switch v.Kind() {
	case core.KindBool:
		if v.AsBool() {
			return "1"
		}
		return "0"
	case core.KindFloat:
		f, _ := v.AsFloat()
		return strconv.FormatFloat(f, 'g', -1, 64)
	case core.KindInt, core.KindUint:
		i, _ := v.AsInt()
		return strconv.FormatInt(i, 10)
	default:
		return v.AsString()
	}
}

// ResolveWithRules resolves the condition set by evaluating every rule's
// guard against the assignment, used only when no condition-mapping table
// exists for the active scope.
func ResolveWithRules(assignment map[string]core.Value, rules []RelationRule) Resolved {
	resolved := Resolved{Tokens: make(map[string]bool), Addenda: make(map[string]string)}
	keyed := keyedAssignment(assignment)
	for _, rule := range rules {
		if rule.Guard.Eval(keyed) {
			for _, tok := range rule.Tokens {
				resolved.Tokens[tok] = true
			}
		}
	}
	return resolved
}

// Resolve applies the documented precedence: direct table first, relation
// rules second, empty set otherwise.
func Resolve(assignment map[string]core.Value, table []ConditionMappingEntry, rules []RelationRule) Resolved {
	if len(table) > 0 {
		return ResolveWithTable(assignment, table)
	}
	if len(rules) > 0 {
		return ResolveWithRules(assignment, rules)
	}
	return Resolved{Tokens: map[string]bool{}, Addenda: map[string]string{}}
}

// keyedAssignment uppercases property names and prefixes them M_ (unless
// already so), and uppercases their string form, for guard evaluation.
func keyedAssignment(assignment map[string]core.Value) map[string]string {
	out := make(map[string]string, len(assignment))
	for name, v := range assignment {
		key := strings.ToUpper(name)
		if !strings.HasPrefix(key, "M_") {
			key = "M_" + key
		}
		out[key] = strings.ToUpper(renderRawValue(v))
	}
	return out
}

