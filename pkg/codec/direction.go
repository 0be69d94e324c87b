package codec

import (
	"github.com/tvmkit/tvmabi/pkg/abi"
	"github.com/tvmkit/tvmabi/pkg/abi/schema"
)

// Direction selects which side of a function signature a message body
// belongs to.
type Direction byte

// Possible message directions.
const (
	// Input is a call into the function.
	Input Direction = iota
	// Output is an answer from the function.
	Output
)

// String implements the fmt.Stringer interface.
func (d Direction) String() string {
	if d == Input {
		return "input"
	}
	return "output"
}

// params returns the parameter list of the given function for this
// direction.
func (d Direction) params(f *schema.Function) []abi.Param {
	if d == Input {
		return f.Inputs
	}
	return f.Outputs
}

// selector returns the selector of the given function for this direction.
func (d Direction) selector(f *schema.Function) uint32 {
	if d == Input {
		return f.InputID()
	}
	return f.OutputID()
}
