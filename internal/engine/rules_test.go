package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ofmlcore/internal/core"
	"ofmlcore/internal/variant"
)

func TestDecodeRelationRuleBuildsGeGuard(t *testing.T) {
	rec := map[string]core.Value{
		"property_key": core.StringValue("M_WIDTH"),
		"operator":     core.StringValue("GE"),
		"value":        core.StringValue("800"),
		"tokens":       core.StringValue("WIDE; EXTRA"),
	}
	rule, ok := decodeRelationRule(rec)
	require.True(t, ok)
	assert.Equal(t, variant.GuardGe, rule.Guard.Kind)
	assert.Equal(t, []string{"WIDE", "EXTRA"}, rule.Tokens)
}

func TestDecodeRelationRuleRejectsMissingKey(t *testing.T) {
	rec := map[string]core.Value{
		"operator": core.StringValue("EQ"),
		"value":    core.StringValue("1"),
		"tokens":   core.StringValue("T1"),
	}
	_, ok := decodeRelationRule(rec)
	assert.False(t, ok)
}

func TestDecodeRelationRuleRejectsUnknownOperator(t *testing.T) {
	rec := map[string]core.Value{
		"property_key": core.StringValue("M_WIDTH"),
		"operator":     core.StringValue("BOGUS"),
		"value":        core.StringValue("1"),
		"tokens":       core.StringValue("T1"),
	}
	_, ok := decodeRelationRule(rec)
	assert.False(t, ok)
}

func TestDecodeRelationRuleDefaultsToEq(t *testing.T) {
	rec := map[string]core.Value{
		"property_key": core.StringValue("M_COLOR"),
		"value":        core.StringValue("RED"),
		"tokens":       core.StringValue("COL_RED"),
	}
	rule, ok := decodeRelationRule(rec)
	require.True(t, ok)
	assert.Equal(t, variant.GuardEq, rule.Guard.Kind)
}
