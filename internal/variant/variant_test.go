package variant

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ofmlcore/internal/core"
)

func TestVariantCodeDeterminism(t *testing.T) {
	assignment := map[string]core.Value{
		"COLOR":  core.StringValue("RED"),
		"WIDTH":  core.FloatValue(160.4),
		"ACTIVE": core.BoolValue(true),
	}
	code1 := Code(assignment)
	code2 := Code(assignment)
	assert.Equal(t, code1, code2)
	assert.Equal(t, "ACTIVE=1;COLOR=RED;WIDTH=160", code1)
}

func TestVariantCodeFloatRounding(t *testing.T) {
	assignment := map[string]core.Value{"W": core.FloatValue(160.6)}
	assert.Equal(t, "W=161", Code(assignment))
}

func TestResolveWithTablePrefersDirectLookup(t *testing.T) {
	assignment := map[string]core.Value{"COLOR": core.StringValue("RED")}
	table := []ConditionMappingEntry{
		{PropertyClass: "COLOR", PropertyValue: "RED", Token: "COLOR_RED"},
	}
	resolved := Resolve(assignment, table, nil)
	assert.True(t, resolved.Contains("COLOR_RED"))
}

func TestResolveWithRulesWhenNoTable(t *testing.T) {
	assignment := map[string]core.Value{"WIDTH": core.FloatValue(1600)}
	rules := []RelationRule{
		{
			Guard:  Guard{Kind: GuardGe, Key: "WIDTH", Value: "1500"},
			Tokens: []string{"WIDE"},
		},
	}
	resolved := Resolve(assignment, nil, rules)
	assert.True(t, resolved.Contains("WIDE"))
}

func TestResolveEmptyWhenNeitherProvided(t *testing.T) {
	resolved := Resolve(map[string]core.Value{"X": core.IntValue(1)}, nil, nil)
	assert.False(t, resolved.HasTokens())
}

func TestGuardAnd(t *testing.T) {
	keyed := map[string]string{"M_COLOR": "RED", "M_WIDTH": "1600"}
	g := Guard{
		Kind: GuardAnd,
		Left: &Guard{Kind: GuardEq, Key: "COLOR", Value: "RED"},
		Right: &Guard{Kind: GuardGe, Key: "WIDTH", Value: "1500"},
	}
	assert.True(t, g.Eval(keyed))
}

func TestGuardEqUppercasesStoredLiteral(t *testing.T) {
	keyed := map[string]string{"M_COLOR": "RED"}
	g := Guard{Kind: GuardEq, Key: "COLOR", Value: "red"}
	assert.True(t, g.Eval(keyed))
}
