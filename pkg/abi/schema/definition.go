package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tvmkit/tvmabi/pkg/abi"
)

// Schema failure kinds. Both are permanent: retrying with the same
// arguments can't succeed.
var (
	// ErrMalformedABI is returned when the ABI text does not follow the
	// ABI grammar.
	ErrMalformedABI = errors.New("malformed ABI")
	// ErrMethodNotFound is returned when no function or event matches
	// the requested identity.
	ErrMethodNotFound = errors.New("method not found")
)

// DataField is a static data entry of the contract: a parameter with a
// fixed position in the initial data dictionary.
type DataField struct {
	abi.Param
	Key uint64
}

// Definition is a parsed contract interface. It is immutable once parsed
// and safe for concurrent use.
type Definition struct {
	Version       uint8
	VersionString string
	Header        []string
	Functions     []Function
	Events        []Event
	Data          []DataField
	Fields        []abi.Param
}

type definitionAux struct {
	ABIVersion    *uint8         `json:"ABI version"`
	ABIVersionAlt *uint8         `json:"abi_version"`
	Version       string         `json:"version"`
	Header        []string       `json:"header"`
	Functions     []functionAux  `json:"functions"`
	Events        []eventAux     `json:"events"`
	Data          []dataFieldAux `json:"data"`
	Fields        []abi.Param    `json:"fields"`
}

type functionAux struct {
	Name    string      `json:"name"`
	Inputs  []abi.Param `json:"inputs"`
	Outputs []abi.Param `json:"outputs"`
	ID      string      `json:"id,omitempty"`
}

type eventAux struct {
	Name   string      `json:"name"`
	Inputs []abi.Param `json:"inputs"`
	ID     string      `json:"id,omitempty"`
}

type dataFieldAux struct {
	Name       string      `json:"name"`
	Type       string      `json:"type"`
	Components []abi.Param `json:"components,omitempty"`
	Key        uint64      `json:"key"`
}

// ParseDefinition parses ABI text into a Definition, deriving function
// and event selectors. All parse and consistency failures are reported
// as ErrMalformedABI.
func ParseDefinition(abiText []byte) (*Definition, error) {
	aux := new(definitionAux)
	if err := json.Unmarshal(abiText, aux); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedABI, err)
	}

	d := &Definition{
		Version:       2,
		VersionString: aux.Version,
		Header:        aux.Header,
		Fields:        aux.Fields,
	}
	if aux.ABIVersion != nil {
		d.Version = *aux.ABIVersion
	} else if aux.ABIVersionAlt != nil {
		d.Version = *aux.ABIVersionAlt
	}
	if d.VersionString == "" {
		d.VersionString = strconv.Itoa(int(d.Version))
	}

	d.Functions = make([]Function, len(aux.Functions))
	for i := range aux.Functions {
		f := Function{
			Name:    aux.Functions[i].Name,
			Inputs:  aux.Functions[i].Inputs,
			Outputs: aux.Functions[i].Outputs,
		}
		id, pinned, err := explicitID(aux.Functions[i].ID)
		if err != nil {
			return nil, fmt.Errorf("%w: function %q: %w", ErrMalformedABI, f.Name, err)
		}
		if pinned {
			f.ID = id
		} else {
			f.ID = selectorOf(f.Signature(d.Version))
		}
		d.Functions[i] = f
	}

	d.Events = make([]Event, len(aux.Events))
	for i := range aux.Events {
		e := Event{
			Name:   aux.Events[i].Name,
			Inputs: aux.Events[i].Inputs,
		}
		id, pinned, err := explicitID(aux.Events[i].ID)
		if err != nil {
			return nil, fmt.Errorf("%w: event %q: %w", ErrMalformedABI, e.Name, err)
		}
		if pinned {
			e.ID = id
		} else {
			e.ID = selectorOf(e.Signature(d.Version)) & answerIDMask
		}
		d.Events[i] = e
	}

	d.Data = make([]DataField, len(aux.Data))
	for i := range aux.Data {
		p := new(abi.Param)
		b, err := json.Marshal(aux.Data[i])
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(b, p); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedABI, err)
		}
		d.Data[i] = DataField{Param: *p, Key: aux.Data[i].Key}
	}

	if err := d.IsValid(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedABI, err)
	}
	return d, nil
}

// explicitID parses a schema-pinned selector like "0x12345678".
func explicitID(s string) (uint32, bool, error) {
	if s == "" {
		return 0, false, nil
	}
	s = strings.TrimPrefix(s, "0x")
	id, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, false, fmt.Errorf("bad id: %w", err)
	}
	return uint32(id), true, nil
}

// IsValid checks Definition consistency and correctness.
func (d *Definition) IsValid() error {
	names := make(map[string]bool, len(d.Functions))
	ids := make(map[uint32]string, len(d.Functions))
	for i := range d.Functions {
		f := &d.Functions[i]
		if f.Name == "" {
			return errors.New("function with empty name")
		}
		if names[f.Name] {
			return fmt.Errorf("duplicate function %q", f.Name)
		}
		names[f.Name] = true
		if prev, ok := ids[f.InputID()]; ok {
			return fmt.Errorf("functions %q and %q share selector %#x", prev, f.Name, f.InputID())
		}
		ids[f.InputID()] = f.Name
		if err := paramsValid(f.Inputs); err != nil {
			return fmt.Errorf("function %q: %w", f.Name, err)
		}
		if err := paramsValid(f.Outputs); err != nil {
			return fmt.Errorf("function %q: %w", f.Name, err)
		}
	}

	enames := make(map[string]bool, len(d.Events))
	for i := range d.Events {
		e := &d.Events[i]
		if e.Name == "" {
			return errors.New("event with empty name")
		}
		if enames[e.Name] {
			return fmt.Errorf("duplicate event %q", e.Name)
		}
		enames[e.Name] = true
		if err := paramsValid(e.Inputs); err != nil {
			return fmt.Errorf("event %q: %w", e.Name, err)
		}
	}

	for i := range d.Data {
		if err := d.Data[i].IsValid(); err != nil {
			return fmt.Errorf("data field: %w", err)
		}
	}
	return paramsValid(d.Fields)
}

func paramsValid(params []abi.Param) error {
	for i := range params {
		if err := params[i].IsValid(); err != nil {
			return err
		}
	}
	return nil
}

// GetFunction returns the function with the specified name, nil when
// there is none.
func (d *Definition) GetFunction(name string) *Function {
	for i := range d.Functions {
		if d.Functions[i].Name == name {
			return &d.Functions[i]
		}
	}
	return nil
}

// GetFunctionByID returns the function matching the given selector in
// either its input or output form, nil when there is none.
func (d *Definition) GetFunctionByID(id uint32) *Function {
	for i := range d.Functions {
		if d.Functions[i].InputID() == id&answerIDMask {
			return &d.Functions[i]
		}
	}
	return nil
}

// GetEvent returns the event with the specified name, nil when there is
// none.
func (d *Definition) GetEvent(name string) *Event {
	for i := range d.Events {
		if d.Events[i].Name == name {
			return &d.Events[i]
		}
	}
	return nil
}

// GetEventByID returns the event with the given selector, nil when there
// is none.
func (d *Definition) GetEventByID(id uint32) *Event {
	for i := range d.Events {
		if d.Events[i].ID == id {
			return &d.Events[i]
		}
	}
	return nil
}
