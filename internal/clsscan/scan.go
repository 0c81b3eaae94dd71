// Package clsscan walks an already-parsed clsast expression tree looking
// for declarative property-registration calls and extracts property
// definitions from them, without evaluating or executing any part of the
// tree.
package clsscan

import (
	"fmt"

	"ofmlcore/internal/clsast"
	"ofmlcore/internal/property"
)

// setupPropertyName is the callee name this scan recognizes, either as a
// bare identifier or as the trailing segment of a dotted member-access
// identifier (e.g. "this.setupProperty").
const setupPropertyName = "setupProperty"

// ScanError reports a malformed setupProperty call found during the scan.
// The scan does not abort on a malformed call; it records the error for the
// caller and continues with the remaining calls.
type ScanError struct {
	Index   int
	Message string
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("clsscan: setupProperty call %d: %s", e.Index, e.Message)
}

// Scan walks body, a sequence of statement nodes from a class implementation,
// and extracts one property.Definition per well-formed setupProperty call
// found at any depth. Malformed calls are skipped and reported in errs
// rather than aborting the scan.
func Scan(body []clsast.Node) (defs []property.Definition, errs []error) {
	index := 0
	var walk func(n clsast.Node)
	walk = func(n clsast.Node) {
		switch v := n.(type) {
		case clsast.Call:
			if isSetupPropertyCall(v) {
				def, err := extractDefinition(v)
				if err != nil {
					errs = append(errs, &ScanError{Index: index, Message: err.Error()})
				} else {
					defs = append(defs, def)
				}
				index++
			}
			walk(v.Callee)
			for _, arg := range v.Args {
				walk(arg)
			}
		case clsast.Array:
			for _, el := range v.Elements {
				walk(el)
			}
		}
	}
	for _, n := range body {
		walk(n)
	}
	return defs, errs
}

func isSetupPropertyCall(call clsast.Call) bool {
	id, ok := call.Callee.(clsast.Identifier)
	if !ok {
		return false
	}
	if id.Name == setupPropertyName {
		return true
	}
	suffix := "." + setupPropertyName
	return len(id.Name) > len(suffix) && id.Name[len(id.Name)-len(suffix):] == suffix
}

// extractDefinition reads a call of the documented shape:
//
//	setupProperty(NAME, [LABEL, TYPE_KEYWORD, RANGE_OR_CHOICES...])
//
// where NAME is a symbol or identifier, LABEL is a string literal,
// TYPE_KEYWORD is one of "BOOL"/"BOOLEAN", "INT"/"INTEGER", "FLOAT"/"REAL",
// "STRING", "CHOICE"/"ENUM", and the remainder of the descriptor array is a
// two-element [min, max] range for INT/FLOAT or a flat list of choice
// literals for CHOICE.
func extractDefinition(call clsast.Call) (property.Definition, error) {
	if len(call.Args) != 2 {
		return property.Definition{}, fmt.Errorf("expected 2 arguments, got %d", len(call.Args))
	}

	name, err := nameOf(call.Args[0])
	if err != nil {
		return property.Definition{}, err
	}

	descriptor, ok := call.Args[1].(clsast.Array)
	if !ok {
		return property.Definition{}, fmt.Errorf("second argument must be an array literal")
	}
	if len(descriptor.Elements) < 2 {
		return property.Definition{}, fmt.Errorf("descriptor array must have at least [label, type]")
	}

	label, err := literalString(descriptor.Elements[0])
	if err != nil {
		return property.Definition{}, fmt.Errorf("label: %w", err)
	}
	typeKeyword, err := literalString(descriptor.Elements[1])
	if err != nil {
		return property.Definition{}, fmt.Errorf("type keyword: %w", err)
	}

	def := property.Definition{
		Name:         name,
		Label:        label,
		InitialState: property.StateEnabled,
	}

	rest := descriptor.Elements[2:]
	switch typeKeyword {
	case "BOOL", "BOOLEAN":
		def.Type = property.Type{Kind: property.TypeBool}
	case "INT", "INTEGER":
		min, max, err := numericRange(rest)
		if err != nil {
			return property.Definition{}, err
		}
		minInt, maxInt := int64(min), int64(max)
		def.Type = property.Type{Kind: property.TypeInt, IntMin: &minInt, IntMax: &maxInt}
	case "FLOAT", "REAL":
		min, max, err := numericRange(rest)
		if err != nil {
			return property.Definition{}, err
		}
		def.Type = property.Type{Kind: property.TypeFloat, FloatMin: &min, FloatMax: &max}
	case "STRING":
		def.Type = property.Type{Kind: property.TypeString}
	case "CHOICE", "ENUM":
		choices, err := literalStrings(rest)
		if err != nil {
			return property.Definition{}, err
		}
		def.Type = property.Type{Kind: property.TypeChoice, Options: choices}
	default:
		return property.Definition{}, fmt.Errorf("unknown type keyword %q", typeKeyword)
	}
	return def, nil
}

func nameOf(n clsast.Node) (string, error) {
	switch v := n.(type) {
	case clsast.Symbol:
		return v.Name, nil
	case clsast.Identifier:
		return v.Name, nil
	case clsast.Literal:
		if s, ok := v.Value.(string); ok {
			return s, nil
		}
	}
	return "", fmt.Errorf("first argument must be a symbol, identifier, or string literal")
}

func literalString(n clsast.Node) (string, error) {
	lit, ok := n.(clsast.Literal)
	if !ok {
		return "", fmt.Errorf("expected a literal")
	}
	s, ok := lit.Value.(string)
	if !ok {
		return "", fmt.Errorf("expected a string literal")
	}
	return s, nil
}

func literalStrings(nodes []clsast.Node) ([]string, error) {
	// A single nested Array, e.g. [["Red", "Blue"]], is flattened as well
	// as a flat list of string literals, e.g. ["Red", "Blue"].
	if len(nodes) == 1 {
		if arr, ok := nodes[0].(clsast.Array); ok {
			nodes = arr.Elements
		}
	}
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		s, err := literalString(n)
		if err != nil {
			return nil, fmt.Errorf("choice list: %w", err)
		}
		out = append(out, s)
	}
	return out, nil
}

func numericRange(nodes []clsast.Node) (min, max float64, err error) {
	// A single nested Array, e.g. [[0, 3000]], is flattened as well as a
	// flat pair, e.g. [0, 3000].
	if len(nodes) == 1 {
		if arr, ok := nodes[0].(clsast.Array); ok {
			nodes = arr.Elements
		}
	}
	if len(nodes) != 2 {
		return 0, 0, fmt.Errorf("expected a [min, max] range, got %d elements", len(nodes))
	}
	min, err = literalFloat(nodes[0])
	if err != nil {
		return 0, 0, fmt.Errorf("range min: %w", err)
	}
	max, err = literalFloat(nodes[1])
	if err != nil {
		return 0, 0, fmt.Errorf("range max: %w", err)
	}
	return min, max, nil
}

func literalFloat(n clsast.Node) (float64, error) {
	lit, ok := n.(clsast.Literal)
	if !ok {
		return 0, fmt.Errorf("expected a literal")
	}
	switch v := lit.Value.(type) {
	case float64:
		return v, nil
	case int64:
		return float64(v), nil
	case int:
		return float64(v), nil
	}
	return 0, fmt.Errorf("expected a numeric literal")
}
