package engine

import (
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"ofmlcore/internal/core"
	"ofmlcore/internal/ebase"
	"ofmlcore/internal/price"
	"ofmlcore/internal/variant"
)

// Well-known table names for the variant-resolution and pricing inputs not
// already covered by the catalog package's table-name contract (§6.3).
const (
	tableConditionMapping = "bedingungstabelle"
	tableRelationRules     = "relationsregeln"
	tableTaxSchemes        = "steuersaetze"
)

// variantRules is one manufacturer's variant-resolution inputs: a direct
// condition-mapping table if one is configured, otherwise a relation-rule
// ruleset, per the documented precedence in variant.Resolve.
type variantRules struct {
	ConditionMapping []variant.ConditionMappingEntry
	RelationRules    []variant.RelationRule
	TaxSchemes       []price.TaxScheme
}

func loadVariantRules(db *ebase.Database, log *zap.Logger) variantRules {
	var out variantRules

	if db.HasTable(tableConditionMapping) {
		records, err := db.ReadRecords(tableConditionMapping, -1)
		if err != nil {
			log.Warn("engine: failed to read condition mapping table", zap.Error(err))
		}
		for _, rec := range records {
			class := stringOf(rec, "property_class")
			value := stringOf(rec, "property_value")
			token := stringOf(rec, "token")
			if class == "" || token == "" {
				continue
			}
			out.ConditionMapping = append(out.ConditionMapping, variant.ConditionMappingEntry{
				PropertyClass: class,
				PropertyValue: value,
				Token:         token,
				Addendum:      stringOf(rec, "addendum"),
			})
		}
	}

	if len(out.ConditionMapping) == 0 && db.HasTable(tableRelationRules) {
		records, err := db.ReadRecords(tableRelationRules, -1)
		if err != nil {
			log.Warn("engine: failed to read relation rule table", zap.Error(err))
		}
		for _, rec := range records {
			rule, ok := decodeRelationRule(rec)
			if ok {
				out.RelationRules = append(out.RelationRules, rule)
			}
		}
	}

	if db.HasTable(tableTaxSchemes) {
		records, err := db.ReadRecords(tableTaxSchemes, -1)
		if err != nil {
			log.Warn("engine: failed to read tax scheme table", zap.Error(err))
		}
		for _, rec := range records {
			category := stringOf(rec, "category")
			rate, ok := rec["rate"]
			if category == "" || !ok {
				continue
			}
			r, ok := rate.AsFloat()
			if !ok {
				continue
			}
			out.TaxSchemes = append(out.TaxSchemes, price.TaxScheme{
				Category: category,
				Rate:     decimal.NewFromFloat(r),
			})
		}
	}

	return out
}

// decodeRelationRule reads one flat relation rule: a single leaf comparison
// (no And/Or/Not nesting) over one property key, plus the ordered tokens it
// contributes when the comparison holds. Storage-loaded rulesets are
// restricted to this flat shape; the full recursive Guard tree (And/Or/Not)
// remains available to callers constructing rules programmatically.
func decodeRelationRule(rec ebase.Record) (variant.RelationRule, bool) {
	key := stringOf(rec, "property_key")
	op := strings.ToUpper(stringOf(rec, "operator"))
	value := stringOf(rec, "value")
	tokensRaw := stringOf(rec, "tokens")
	if key == "" || tokensRaw == "" {
		return variant.RelationRule{}, false
	}

	var kind variant.GuardKind
	switch op {
	case "EQ", "":
		kind = variant.GuardEq
	case "NEQ":
		kind = variant.GuardNeq
	case "LT":
		kind = variant.GuardLt
	case "GT":
		kind = variant.GuardGt
	case "LE":
		kind = variant.GuardLe
	case "GE":
		kind = variant.GuardGe
	default:
		return variant.RelationRule{}, false
	}

	tokens := strings.Split(tokensRaw, ";")
	for i := range tokens {
		tokens[i] = strings.TrimSpace(tokens[i])
	}

	return variant.RelationRule{
		Guard:  variant.Guard{Kind: kind, Key: key, Value: value},
		Tokens: tokens,
	}, true
}

func stringOf(rec ebase.Record, name string) string {
	v, ok := rec[name]
	if !ok {
		return ""
	}
	if v.Kind() == core.KindString {
		return v.AsString()
	}
	return v.String()
}
