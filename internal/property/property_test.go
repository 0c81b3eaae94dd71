package property

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ofmlcore/internal/core"
)

func intPtr(v int64) *int64     { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestReadOnlyRejectsSet(t *testing.T) {
	m := NewManager()
	m.Register(Definition{Name: "W", Type: Type{Kind: TypeInt}, InitialState: StateEnabled})
	require.NoError(t, m.Set("W", core.IntValue(10)))

	m.SetState("W", StateReadOnly)
	err := m.Set("W", core.IntValue(20))
	require.Error(t, err)
	var roErr *ReadOnlyError
	assert.ErrorAs(t, err, &roErr)

	v, _ := m.Get("W")
	got, _ := v.AsInt()
	assert.Equal(t, int64(10), got, "value must be unchanged after rejected set")
}

func TestIntBoundsInclusive(t *testing.T) {
	m := NewManager()
	m.Register(Definition{Name: "N", Type: Type{Kind: TypeInt, IntMin: intPtr(0), IntMax: intPtr(10)}})

	assert.NoError(t, m.Set("N", core.IntValue(0)))
	assert.NoError(t, m.Set("N", core.IntValue(10)))
	assert.Error(t, m.Set("N", core.IntValue(11)))
	assert.Error(t, m.Set("N", core.IntValue(-1)))
}

func TestFloatAcceptsIntPromotion(t *testing.T) {
	m := NewManager()
	m.Register(Definition{Name: "F", Type: Type{Kind: TypeFloat, FloatMin: floatPtr(0), FloatMax: floatPtr(100)}})
	assert.NoError(t, m.Set("F", core.IntValue(50)))
}

func TestIntRejectsFloat(t *testing.T) {
	m := NewManager()
	m.Register(Definition{Name: "N", Type: Type{Kind: TypeInt}})
	assert.Error(t, m.Set("N", core.FloatValue(1.5)))
}

func TestChoiceExactMatch(t *testing.T) {
	m := NewManager()
	m.Register(Definition{Name: "Color", Type: Type{Kind: TypeChoice, Options: []string{"RED", "BLUE"}}})
	assert.NoError(t, m.Set("Color", core.StringValue("RED")))
	assert.Error(t, m.Set("Color", core.StringValue("GREEN")))
}

func TestUndefinedPropertySetsUnconditionally(t *testing.T) {
	m := NewManager()
	err := m.Set("transient", core.StringValue("anything"))
	assert.NoError(t, err)
	v, ok := m.Get("transient")
	require.True(t, ok)
	assert.Equal(t, "anything", v.AsString())
}

func TestVisibleNamesExcludesHidden(t *testing.T) {
	m := NewManager()
	m.Register(Definition{Name: "A", InitialState: StateEnabled})
	m.Register(Definition{Name: "B", InitialState: StateHidden})
	visible := m.VisibleNames()
	assert.Equal(t, []string{"A"}, visible)
}
