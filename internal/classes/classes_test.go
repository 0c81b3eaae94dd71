package classes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenarioGMirror(t *testing.T) {
	inst, err := Instantiate("::ofml::go::GoMirror", []float64{0, 50.0})
	require.NoError(t, err)
	require.Equal(t, KindTransform, inst.Kind)

	got := inst.Transform.MirrorPoint([3]float64{30, 10, 5})
	assert.Equal(t, [3]float64{70, 10, 5}, got)
}

func TestStretchFixedPoint(t *testing.T) {
	axis := StretchAxis{Base: 100, Target: 160, Pivot: 20}

	assert.Equal(t, 10.0, axis.Apply(10))
	assert.Equal(t, 20.0, axis.Apply(20))

	got := axis.Apply(60)
	want := 20 + (60-20)*(160.0/100.0)
	assert.InDelta(t, want, got, 1e-9)
}

func TestUnknownClass(t *testing.T) {
	_, err := Instantiate("::ofml::go::NoSuchClass", nil)
	require.Error(t, err)
	var unknownErr *UnknownClassError
	assert.ErrorAs(t, err, &unknownErr)
}

func TestInvalidParamCount(t *testing.T) {
	_, err := Instantiate("::ofml::go::GoMirror", []float64{0})
	require.Error(t, err)
	var countErr *InvalidParamCountError
	assert.ErrorAs(t, err, &countErr)
}

func TestInvalidMirrorAxis(t *testing.T) {
	_, err := Instantiate("::ofml::go::GoMirror", []float64{3, 50})
	require.Error(t, err)
	var typeErr *InvalidParamTypeError
	assert.ErrorAs(t, err, &typeErr)
}

func TestPrimitiveGeometry(t *testing.T) {
	inst, err := Instantiate("::ofml::oi::OiSphere", []float64{12.5})
	require.NoError(t, err)
	assert.Equal(t, KindPrimitive, inst.Kind)
	assert.Equal(t, 12.5, inst.Primitive.R)
}

func TestRegisterClassExtendsRegistry(t *testing.T) {
	RegisterClass("::ofml::oi::OiCustomWidget", 1, func(name string, params []float64) (Instance, error) {
		return Instance{Kind: KindPrimitive, ClassName: name, Primitive: Primitive{Kind: PrimitiveBlock, W: params[0]}}, nil
	})
	assert.True(t, IsKnown("::ofml::oi::OiCustomWidget"))
}
