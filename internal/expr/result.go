package expr

// ResultKind identifies which geometry directive, if any, an expression
// produced.
type ResultKind uint8

const (
	ResultNone ResultKind = iota
	ResultImport
	ResultClassRef
	ResultEgmsRef
)

// Result is the outcome of evaluating an expression: at most one geometry
// directive (Import, ClassRef, EgmsRef), or None when the expression was
// purely numeric/stack manipulation.
type Result struct {
	Kind ResultKind

	// Import fields.
	Filename string
	ScaleX   float64
	ScaleY   float64
	ScaleZ   float64

	// ClassRef fields.
	ClassName string
	Params    []float64

	// EgmsRef fields.
	ObjectName string
}
