package price

import (
	"ofmlcore/internal/core"
	"ofmlcore/internal/variant"
)

// SelectBase implements the base-selection priority chain over a file's
// base-level entries for the matched article: (1) exact computed-token
// match, (2) token present in the resolved condition set, (3) empty or
// sentinel token, (4) the first entry.
func SelectBase(entries []Entry, computedToken string, resolved variant.Resolved) (Entry, bool) {
	if len(entries) == 0 {
		return Entry{}, false
	}

	for _, e := range entries {
		if computedToken != "" && e.ConditionToken == computedToken {
			return e, true
		}
	}
	for _, e := range entries {
		if e.ConditionToken != "" && resolved.Contains(e.ConditionToken) {
			return e, true
		}
	}
	for _, e := range entries {
		if e.ConditionToken == "" || e.ConditionToken == SentinelToken {
			return e, true
		}
	}
	return entries[0], true
}

// MatchSurcharges collects, de-duplicated by token, every surcharge entry
// whose condition applies: an empty token always matches (cross-cutting
// invariant), a non-empty token matches by direct membership in resolved
// when the resolved set is non-empty, else by the heuristic fallback
// against the raw property assignment.
func MatchSurcharges(entries []Entry, resolved variant.Resolved, assignment map[string]core.Value) []Entry {
	return matchConditional(entries, resolved, assignment)
}

// MatchDiscounts collects matching discount entries using the same rule as
// MatchSurcharges; an empty condition token on a discount entry always
// applies, matching the shared cross-cutting invariant.
func MatchDiscounts(entries []Entry, resolved variant.Resolved, assignment map[string]core.Value) []Entry {
	return matchConditional(entries, resolved, assignment)
}

func matchConditional(entries []Entry, resolved variant.Resolved, assignment map[string]core.Value) []Entry {
	seen := make(map[string]bool)
	var out []Entry
	for _, e := range entries {
		if e.ConditionToken == "" {
			out = append(out, e)
			continue
		}
		if seen[e.ConditionToken] {
			continue
		}
		matched := false
		if resolved.HasTokens() {
			matched = resolved.Contains(e.ConditionToken)
		} else {
			matched = heuristicMatch(e.ConditionToken, assignment)
		}
		if matched {
			seen[e.ConditionToken] = true
			out = append(out, e)
		}
	}
	return out
}
