package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ofmlcore/internal/core"
)

func TestKindCodeIsPriceable(t *testing.T) {
	assert.True(t, KindProduct.IsPriceable())
	assert.False(t, KindAccessory.IsPriceable())
	assert.False(t, KindSparePart.IsPriceable())
}

func TestKindFromCode(t *testing.T) {
	assert.Equal(t, KindAccessory, kindFromCode("accessory"))
	assert.Equal(t, KindProduct, kindFromCode(""))
}

func TestStringFieldFallsBackToValueString(t *testing.T) {
	rec := map[string]core.Value{"n": core.IntValue(7)}
	assert.Equal(t, "7", stringField(rec, "n"))
	assert.Equal(t, "", stringField(rec, "missing"))
}

func TestContainsControlChar(t *testing.T) {
	assert.True(t, containsControlChar("abc\x01def"))
	assert.False(t, containsControlChar("abcdef"))
}
