package schema

import "fmt"

// MethodID identifies a function either by name or by numeric selector.
// The zero value is not usable, construct it with ByName or BySelector.
type MethodID struct {
	name     string
	selector uint32
	byID     bool
}

// ByName returns a MethodID matching functions by name.
func ByName(name string) MethodID {
	return MethodID{name: name}
}

// BySelector returns a MethodID matching functions by selector. Both the
// input and the output form of the selector match.
func BySelector(id uint32) MethodID {
	return MethodID{selector: id, byID: true}
}

// String implements the fmt.Stringer interface.
func (m MethodID) String() string {
	if m.byID {
		return fmt.Sprintf("%#08x", m.selector)
	}
	return m.name
}

// find looks the identified function up in the given definition.
func (m MethodID) find(d *Definition) *Function {
	if m.byID {
		return d.GetFunctionByID(m.selector)
	}
	return d.GetFunction(m.name)
}
