package abi

import (
	"encoding/json"
	"fmt"
)

// Param is a named ABI parameter: a function input or output, an event
// input, a static data entry or an account state field.
type Param struct {
	Name string
	Type Type
}

// NewParam returns a new parameter of the specified name and type.
func NewParam(name string, typ Type) Param {
	return Param{Name: name, Type: typ}
}

type paramAux struct {
	Name       string  `json:"name"`
	Type       string  `json:"type"`
	Components []Param `json:"components,omitempty"`
}

// IsValid checks Param consistency and correctness.
func (p *Param) IsValid() error {
	if p.Name == "" {
		return fmt.Errorf("%w: empty or absent parameter name", ErrInvalidType)
	}
	return validComponents(&p.Type)
}

func validComponents(t *Type) error {
	switch t.Kind {
	case TupleT:
		if len(t.Components) == 0 {
			return fmt.Errorf("%w: tuple without components", ErrInvalidType)
		}
		for i := range t.Components {
			if err := t.Components[i].IsValid(); err != nil {
				return err
			}
		}
	case ArrayT, FixedArrayT, OptionalT:
		return validComponents(t.Elem)
	case MapT:
		return validComponents(t.Val)
	}
	return nil
}

// MarshalJSON implements the json.Marshaler interface.
func (p Param) MarshalJSON() ([]byte, error) {
	aux := paramAux{
		Name: p.Name,
		Type: p.Type.String(),
	}
	if tup := tupleNode(&p.Type); tup != nil {
		aux.Components = tup.Components
	}
	return json.Marshal(aux)
}

// UnmarshalJSON implements the json.Unmarshaler interface. The declared
// type is parsed per the ABI grammar and, when the declaration contains a
// tuple, the accompanying component list is attached to it.
func (p *Param) UnmarshalJSON(data []byte) error {
	aux := new(paramAux)
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}
	typ, err := ParseType(aux.Type)
	if err != nil {
		return fmt.Errorf("parameter %q: %w", aux.Name, err)
	}
	tup := tupleNode(&typ)
	if tup != nil {
		if len(aux.Components) == 0 {
			return fmt.Errorf("%w: parameter %q: tuple without components", ErrInvalidType, aux.Name)
		}
		tup.Components = aux.Components
	} else if len(aux.Components) != 0 {
		return fmt.Errorf("%w: parameter %q: components for a non-tuple type", ErrInvalidType, aux.Name)
	}
	p.Name = aux.Name
	p.Type = typ
	return nil
}

// tupleNode returns the tuple node of a type declaration, if any. A
// declaration string can mention "tuple" at most once (the grammar gives
// tuples no arguments and map keys can't be tuples), so the node is
// unambiguous.
func tupleNode(t *Type) *Type {
	switch t.Kind {
	case TupleT:
		return t
	case ArrayT, FixedArrayT, OptionalT:
		return tupleNode(t.Elem)
	case MapT:
		return tupleNode(t.Val)
	default:
		return nil
	}
}
