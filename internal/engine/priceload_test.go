package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ofmlcore/internal/core"
	"ofmlcore/internal/price"
)

func TestDecodePriceEntryFixedAmount(t *testing.T) {
	rec := map[string]core.Value{
		"article_id":      core.StringValue("ART1"),
		"level":           core.StringValue("SURCHARGE"),
		"condition_token": core.StringValue("COL_RED"),
		"currency":        core.StringValue("EUR"),
		"amount":          core.FloatValue(15.0),
		"is_fixed_amount": core.BoolValue(true),
	}
	entry, ok := decodePriceEntry(rec)
	require.True(t, ok)
	assert.Equal(t, price.LevelSurcharge, entry.Level)
	assert.True(t, entry.IsFixedAmount)
	assert.True(t, entry.Amount.Equal(entry.Amount.Abs())) // stored as non-negative magnitude
}

func TestDecodePriceEntryRejectsMissingArticle(t *testing.T) {
	rec := map[string]core.Value{
		"level":  core.StringValue("BASE"),
		"amount": core.FloatValue(100.0),
	}
	_, ok := decodePriceEntry(rec)
	assert.False(t, ok)
}

func TestDecodePriceEntryRejectsUnknownLevel(t *testing.T) {
	rec := map[string]core.Value{
		"article_id": core.StringValue("ART1"),
		"level":      core.StringValue("BOGUS"),
		"amount":     core.FloatValue(1.0),
	}
	_, ok := decodePriceEntry(rec)
	assert.False(t, ok)
}

func TestDecodePriceEntryDefaultsLevelToBase(t *testing.T) {
	rec := map[string]core.Value{
		"article_id": core.StringValue("ART1"),
		"amount":     core.FloatValue(100.0),
	}
	entry, ok := decodePriceEntry(rec)
	require.True(t, ok)
	assert.Equal(t, price.LevelBase, entry.Level)
}

func TestTimeFieldZeroWhenAbsent(t *testing.T) {
	rec := map[string]core.Value{}
	assert.True(t, timeField(rec, "valid_from").IsZero())
}

func TestTimeFieldDecodesUnixSeconds(t *testing.T) {
	rec := map[string]core.Value{"valid_from": core.IntValue(1700000000)}
	got := timeField(rec, "valid_from")
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), got)
}

func TestBoolFieldDefaultsWhenAbsent(t *testing.T) {
	rec := map[string]core.Value{}
	assert.True(t, boolField(rec, "is_fixed_amount", true))
	assert.False(t, boolField(rec, "is_fixed_amount", false))
}
