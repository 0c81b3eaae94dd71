// Package classes implements the OFML class registry: mapping a fully
// qualified class name in the ::ofml::go::* (geometry operation) or
// ::ofml::oi::* (object instance) namespace, plus a positional parameter
// list, to a typed transform or primitive geometry descriptor.
package classes

import (
	"fmt"
	"sync"
)

// InstanceKind identifies which variant a ClassInstance carries.
type InstanceKind uint8

const (
	KindNone InstanceKind = iota
	KindTransform
	KindPrimitive
)

// TransformKind distinguishes the three transform shapes a class can
// describe.
type TransformKind uint8

const (
	TransformStretch TransformKind = iota
	TransformMirror
	TransformUniformScale
)

// StretchAxis is one axis's piecewise-linear stretch parameters.
type StretchAxis struct {
	Base   float64
	Target float64
	Pivot  float64
}

// Apply implements the documented stretch formula: unchanged at or before
// the pivot, linearly rescaled beyond it.
func (a StretchAxis) Apply(x float64) float64 {
	if x <= a.Pivot {
		return x
	}
	return a.Pivot + (x-a.Pivot)*(a.Target/a.Base)
}

// Transform is the parameter payload for a Transform-kind class instance.
type Transform struct {
	Kind TransformKind

	// Stretch: one entry per axis present (1-D or 2-D).
	StretchAxes []StretchAxis

	// Mirror.
	MirrorAxis   int
	MirrorOffset float64

	// UniformScale.
	ScaleX, ScaleY, ScaleZ float64
}

// MirrorPoint reflects a 3-vector across the configured axis, per the
// documented formula 2*offset - coord on the named axis only.
func (t Transform) MirrorPoint(p [3]float64) [3]float64 {
	out := p
	out[t.MirrorAxis] = 2*t.MirrorOffset - p[t.MirrorAxis]
	return out
}

// PrimitiveKind identifies which parametric primitive a Primitive-kind
// class instance describes.
type PrimitiveKind uint8

const (
	PrimitiveBlock PrimitiveKind = iota
	PrimitiveCylinder
	PrimitiveSphere
	PrimitiveEllipsoid
)

// Primitive is the parameter payload for a Primitive-kind class instance.
type Primitive struct {
	Kind PrimitiveKind
	W, H, D    float64 // block
	R          float64 // cylinder/sphere radius
	RX, RY, RZ float64 // ellipsoid
}

// Instance is the result of looking up and instantiating a class: exactly
// one of Transform or Primitive is meaningful, gated by Kind.
type Instance struct {
	Kind      InstanceKind
	ClassName string
	Transform Transform
	Primitive Primitive
}

type classSpec struct {
	minArity int
	build    func(name string, params []float64) (Instance, error)
}

var (
	mu       sync.RWMutex
	registry = make(map[string]classSpec)
)

func register(name string, minArity int, build func(string, []float64) (Instance, error)) {
	mu.Lock()
	defer mu.Unlock()
	registry[name] = classSpec{minArity: minArity, build: build}
}

// RegisterClass adds or replaces a class entry in the registry. Exported so
// callers can extend the closed variant set (§9's "reserve a Custom(name)
// arm for forward compatibility") without modifying this package.
func RegisterClass(name string, minArity int, build func(name string, params []float64) (Instance, error)) {
	register(name, minArity, build)
}

// IsKnown reports whether name has a registered class entry.
func IsKnown(name string) bool {
	mu.RLock()
	defer mu.RUnlock()
	_, ok := registry[name]
	return ok
}

// ExpectedParams returns the minimum arity registered for name.
func ExpectedParams(name string) (int, bool) {
	mu.RLock()
	defer mu.RUnlock()
	spec, ok := registry[name]
	if !ok {
		return 0, false
	}
	return spec.minArity, true
}

// Instantiate looks name up in the registry, validates arity, then builds
// the class instance described by name and params.
func Instantiate(name string, params []float64) (Instance, error) {
	mu.RLock()
	spec, ok := registry[name]
	mu.RUnlock()
	if !ok {
		return Instance{}, &UnknownClassError{Class: name}
	}
	if len(params) < spec.minArity {
		return Instance{}, &InvalidParamCountError{Class: name, Expected: spec.minArity, Got: len(params)}
	}
	return spec.build(name, params)
}

func init() {
	register("::ofml::go::GoStretch1D", 3, buildStretch1D)
	register("::ofml::go::GoStretch2D", 6, buildStretch2D)
	register("::ofml::go::GoMirror", 2, buildMirror)
	register("::ofml::go::GoScale", 3, buildUniformScale)
	register("::ofml::oi::OiBlock", 3, buildBlock)
	register("::ofml::oi::OiCylinder", 2, buildCylinder)
	register("::ofml::oi::OiSphere", 1, buildSphere)
	register("::ofml::oi::OiEllipsoid", 3, buildEllipsoid)
}

func buildStretch1D(name string, params []float64) (Instance, error) {
	return Instance{
		Kind:      KindTransform,
		ClassName: name,
		Transform: Transform{
			Kind:        TransformStretch,
			StretchAxes: []StretchAxis{{Base: params[0], Target: params[1], Pivot: params[2]}},
		},
	}, nil
}

func buildStretch2D(name string, params []float64) (Instance, error) {
	return Instance{
		Kind:      KindTransform,
		ClassName: name,
		Transform: Transform{
			Kind: TransformStretch,
			StretchAxes: []StretchAxis{
				{Base: params[0], Target: params[1], Pivot: params[2]},
				{Base: params[3], Target: params[4], Pivot: params[5]},
			},
		},
	}, nil
}

func buildMirror(name string, params []float64) (Instance, error) {
	axis := int(params[0])
	if axis < 0 || axis > 2 {
		return Instance{}, &InvalidParamTypeError{Class: name, Index: 0, Expected: "axis index in {0,1,2}", Got: fmt.Sprintf("%v", params[0])}
	}
	return Instance{
		Kind:      KindTransform,
		ClassName: name,
		Transform: Transform{Kind: TransformMirror, MirrorAxis: axis, MirrorOffset: params[1]},
	}, nil
}

func buildUniformScale(name string, params []float64) (Instance, error) {
	return Instance{
		Kind:      KindTransform,
		ClassName: name,
		Transform: Transform{Kind: TransformUniformScale, ScaleX: params[0], ScaleY: params[1], ScaleZ: params[2]},
	}, nil
}

func buildBlock(name string, params []float64) (Instance, error) {
	return Instance{Kind: KindPrimitive, ClassName: name, Primitive: Primitive{Kind: PrimitiveBlock, W: params[0], H: params[1], D: params[2]}}, nil
}

func buildCylinder(name string, params []float64) (Instance, error) {
	return Instance{Kind: KindPrimitive, ClassName: name, Primitive: Primitive{Kind: PrimitiveCylinder, R: params[0], H: params[1]}}, nil
}

func buildSphere(name string, params []float64) (Instance, error) {
	return Instance{Kind: KindPrimitive, ClassName: name, Primitive: Primitive{Kind: PrimitiveSphere, R: params[0]}}, nil
}

func buildEllipsoid(name string, params []float64) (Instance, error) {
	return Instance{Kind: KindPrimitive, ClassName: name, Primitive: Primitive{Kind: PrimitiveEllipsoid, RX: params[0], RY: params[1], RZ: params[2]}}, nil
}
