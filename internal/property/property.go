// Package property implements the typed property model: definitions,
// current values, per-property visibility/editability state, and
// validation against a definition's declared type.
package property

import (
	"sort"

	"ofmlcore/internal/core"
)

// State is one of the three visibility/editability states a property can be
// in.
type State uint8

const (
	StateHidden State = iota
	StateEnabled
	StateReadOnly
)

// TypeKind identifies which Type variant a Definition declares.
type TypeKind uint8

const (
	TypeBool TypeKind = iota
	TypeInt
	TypeFloat
	TypeString
	TypeChoice
)

// Type is the closed set of property type descriptors. Only the fields
// relevant to Kind are meaningful.
type Type struct {
	Kind TypeKind

	// Int/Float bounds; nil means unbounded on that side.
	IntMin, IntMax     *int64
	FloatMin, FloatMax *float64

	// Choice: ordered, unique allowed values.
	Options []string
}

// Definition is a property's static metadata.
type Definition struct {
	Name        string
	Label       string
	Type        Type
	InitialState State
	SortOrdinal int
	Description string
	Category    string
}

// Manager holds the full set of registered definitions, current values, and
// per-property state for one configuration.
type Manager struct {
	defs   map[string]Definition
	values map[string]core.Value
	states map[string]State
	order  []string
}

// NewManager returns an empty property manager.
func NewManager() *Manager {
	return &Manager{
		defs:   make(map[string]Definition),
		values: make(map[string]core.Value),
		states: make(map[string]State),
	}
}

// Register adds a definition and seeds its state from InitialState. It does
// not assign an initial value; callers that need a default call Set
// explicitly.
func (m *Manager) Register(def Definition) {
	if _, exists := m.defs[def.Name]; !exists {
		m.order = append(m.order, def.Name)
	}
	m.defs[def.Name] = def
	m.states[def.Name] = def.InitialState
}

// Definition returns the registered definition for name, if any.
func (m *Manager) Definition(name string) (Definition, bool) {
	d, ok := m.defs[name]
	return d, ok
}

// Get returns the current value for name, or the zero Value and false if
// never set.
func (m *Manager) Get(name string) (core.Value, bool) {
	v, ok := m.values[name]
	return v, ok
}

// Set validates v against name's definition (if one is registered) and, on
// success, stores it. Properties with no definition accept any value
// unconditionally (used for transient properties).
func (m *Manager) Set(name string, v core.Value) error {
	def, hasDef := m.defs[name]
	if !hasDef {
		m.values[name] = v
		return nil
	}

	if m.states[name] == StateReadOnly {
		return &ReadOnlyError{Property: name}
	}

	if err := validate(def, v); err != nil {
		return err
	}
	m.values[name] = v
	return nil
}

// State returns the current state of name, defaulting to StateEnabled if
// never registered.
func (m *Manager) State(name string) State {
	if s, ok := m.states[name]; ok {
		return s
	}
	return StateEnabled
}

// SetState updates name's state.
func (m *Manager) SetState(name string, s State) {
	m.states[name] = s
}

// Names returns every registered property name in registration order.
func (m *Manager) Names() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// VisibleNames returns registered property names with state != Hidden,
// sorted for deterministic enumeration.
func (m *Manager) VisibleNames() []string {
	out := make([]string, 0, len(m.order))
	for _, name := range m.order {
		if m.states[name] != StateHidden {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

func validate(def Definition, v core.Value) error {
	switch def.Type.Kind {
	case TypeBool:
		if v.Kind() != core.KindBool {
			return &InvalidValueError{Property: def.Name, Message: "expected bool"}
		}
	case TypeInt:
		i, ok := v.AsInt()
		if !ok || (v.Kind() != core.KindInt && v.Kind() != core.KindUint) {
			return &InvalidValueError{Property: def.Name, Message: "expected int"}
		}
		if def.Type.IntMin != nil && i < *def.Type.IntMin {
			return &InvalidValueError{Property: def.Name, Message: "value below minimum"}
		}
		if def.Type.IntMax != nil && i > *def.Type.IntMax {
			return &InvalidValueError{Property: def.Name, Message: "value above maximum"}
		}
	case TypeFloat:
		// Int values are promotable to a float definition; any other
		// non-numeric kind is rejected.
		f, ok := v.AsFloat()
		if !ok {
			return &InvalidValueError{Property: def.Name, Message: "expected float or int"}
		}
		if def.Type.FloatMin != nil && f < *def.Type.FloatMin {
			return &InvalidValueError{Property: def.Name, Message: "value below minimum"}
		}
		if def.Type.FloatMax != nil && f > *def.Type.FloatMax {
			return &InvalidValueError{Property: def.Name, Message: "value above maximum"}
		}
	case TypeString:
		if v.Kind() != core.KindString {
			return &InvalidValueError{Property: def.Name, Message: "expected string"}
		}
	case TypeChoice:
		if v.Kind() != core.KindString {
			return &InvalidValueError{Property: def.Name, Message: "expected string"}
		}
		found := false
		for _, opt := range def.Type.Options {
			if opt == v.AsString() {
				found = true
				break
			}
		}
		if !found {
			return &InvalidValueError{Property: def.Name, Message: "value not among allowed choices"}
		}
	}
	return nil
}
