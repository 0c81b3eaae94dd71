package clsscan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ofmlcore/internal/clsast"
	"ofmlcore/internal/property"
)

func lit(v any) clsast.Node { return clsast.Literal{Value: v} }

func setupPropertyCall(name string, descriptor ...clsast.Node) clsast.Node {
	return clsast.Call{
		Callee: clsast.Identifier{Name: "setupProperty"},
		Args: []clsast.Node{
			clsast.Symbol{Name: name},
			clsast.Array{Elements: descriptor},
		},
	}
}

func TestScanExtractsFloatRange(t *testing.T) {
	body := []clsast.Node{
		setupPropertyCall("WIDTH", lit("Width"), lit("FLOAT"), lit(0.0), lit(3000.0)),
	}
	defs, errs := Scan(body)
	require.Empty(t, errs)
	require.Len(t, defs, 1)
	assert.Equal(t, "WIDTH", defs[0].Name)
	assert.Equal(t, "Width", defs[0].Label)
	assert.Equal(t, property.TypeFloat, defs[0].Type.Kind)
	require.NotNil(t, defs[0].Type.FloatMin)
	require.NotNil(t, defs[0].Type.FloatMax)
	assert.Equal(t, 0.0, *defs[0].Type.FloatMin)
	assert.Equal(t, 3000.0, *defs[0].Type.FloatMax)
}

func TestScanExtractsChoiceList(t *testing.T) {
	body := []clsast.Node{
		setupPropertyCall("COLOR", lit("Color"), lit("CHOICE"), lit("RED"), lit("BLUE")),
	}
	defs, errs := Scan(body)
	require.Empty(t, errs)
	require.Len(t, defs, 1)
	assert.Equal(t, property.TypeChoice, defs[0].Type.Kind)
	assert.Equal(t, []string{"RED", "BLUE"}, defs[0].Type.Options)
}

func TestScanExtractsBool(t *testing.T) {
	body := []clsast.Node{
		setupPropertyCall("HANDLE", lit("Has Handle"), lit("BOOL")),
	}
	defs, errs := Scan(body)
	require.Empty(t, errs)
	require.Len(t, defs, 1)
	assert.Equal(t, property.TypeBool, defs[0].Type.Kind)
}

func TestScanRecognizesTypeKeywordAliases(t *testing.T) {
	body := []clsast.Node{
		setupPropertyCall("HEIGHT", lit("Height"), lit("REAL"), lit(0.0), lit(2000.0)),
		setupPropertyCall("COUNT", lit("Count"), lit("INTEGER"), lit(int64(0)), lit(int64(10))),
		setupPropertyCall("LOCKED", lit("Locked"), lit("BOOLEAN")),
		setupPropertyCall("FINISH", lit("Finish"), lit("ENUM"), lit("MATTE"), lit("GLOSSY")),
	}
	defs, errs := Scan(body)
	require.Empty(t, errs)
	require.Len(t, defs, 4)
	assert.Equal(t, property.TypeFloat, defs[0].Type.Kind)
	assert.Equal(t, property.TypeInt, defs[1].Type.Kind)
	assert.Equal(t, property.TypeBool, defs[2].Type.Kind)
	assert.Equal(t, property.TypeChoice, defs[3].Type.Kind)
	assert.Equal(t, []string{"MATTE", "GLOSSY"}, defs[3].Type.Options)
}

func TestScanSkipsUnrelatedCalls(t *testing.T) {
	body := []clsast.Node{
		clsast.Call{Callee: clsast.Identifier{Name: "someOtherCall"}, Args: []clsast.Node{lit("x")}},
	}
	defs, errs := Scan(body)
	assert.Empty(t, errs)
	assert.Empty(t, defs)
}

func TestScanRecognizesDottedMemberAccess(t *testing.T) {
	body := []clsast.Node{
		clsast.Call{
			Callee: clsast.Identifier{Name: "this.setupProperty"},
			Args: []clsast.Node{
				clsast.Symbol{Name: "DEPTH"},
				clsast.Array{Elements: []clsast.Node{lit("Depth"), lit("INT"), lit(int64(0)), lit(int64(100))}},
			},
		},
	}
	defs, errs := Scan(body)
	require.Empty(t, errs)
	require.Len(t, defs, 1)
	assert.Equal(t, "DEPTH", defs[0].Name)
	assert.Equal(t, property.TypeInt, defs[0].Type.Kind)
}

func TestScanReportsMalformedCallWithoutAborting(t *testing.T) {
	body := []clsast.Node{
		setupPropertyCall("BAD", lit("Bad"), lit("UNKNOWN_TYPE")),
		setupPropertyCall("HANDLE", lit("Has Handle"), lit("BOOL")),
	}
	defs, errs := Scan(body)
	require.Len(t, errs, 1)
	require.Len(t, defs, 1)
	assert.Equal(t, "HANDLE", defs[0].Name)
}

func TestScanFindsNestedCallsInsideArguments(t *testing.T) {
	inner := setupPropertyCall("HANDLE", lit("Has Handle"), lit("BOOL"))
	body := []clsast.Node{
		clsast.Call{
			Callee: clsast.Identifier{Name: "block"},
			Args:   []clsast.Node{inner},
		},
	}
	defs, errs := Scan(body)
	require.Empty(t, errs)
	require.Len(t, defs, 1)
	assert.Equal(t, "HANDLE", defs[0].Name)
}
