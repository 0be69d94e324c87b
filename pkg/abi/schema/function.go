package schema

import (
	"crypto/sha256"
	"encoding/binary"
	"strconv"
	"strings"

	"github.com/tvmkit/tvmabi/pkg/abi"
)

// answerIDMask clears the bit distinguishing output (answer) messages
// from input (call) messages in a selector.
const answerIDMask = 0x7FFFFFFF

// Function describes a single callable contract function: its name,
// input and output parameter lists and the numeric selector derived from
// them.
type Function struct {
	Name    string      `json:"name"`
	Inputs  []abi.Param `json:"inputs"`
	Outputs []abi.Param `json:"outputs"`

	// ID is the base selector. Derived from the signature unless the
	// schema pins it explicitly.
	ID uint32 `json:"-"`
}

// Event describes a single contract event. Events only have inputs and
// their selector is always input-style.
type Event struct {
	Name   string      `json:"name"`
	Inputs []abi.Param `json:"inputs"`
	ID     uint32      `json:"-"`
}

// Signature returns the canonical function signature string the selector
// is derived from: name(inputs)(outputs)vN.
func (f *Function) Signature(version uint8) string {
	var b strings.Builder
	b.WriteString(f.Name)
	writeSigParams(&b, f.Inputs)
	writeSigParams(&b, f.Outputs)
	b.WriteByte('v')
	b.WriteString(strconv.Itoa(int(version)))
	return b.String()
}

// InputID returns the selector of a call to this function.
func (f *Function) InputID() uint32 {
	return f.ID & answerIDMask
}

// OutputID returns the selector of an answer from this function.
func (f *Function) OutputID() uint32 {
	return f.ID | (1 << 31)
}

// Signature returns the canonical event signature string: name(inputs)vN.
func (e *Event) Signature(version uint8) string {
	var b strings.Builder
	b.WriteString(e.Name)
	writeSigParams(&b, e.Inputs)
	b.WriteByte('v')
	b.WriteString(strconv.Itoa(int(version)))
	return b.String()
}

func writeSigParams(b *strings.Builder, params []abi.Param) {
	b.WriteByte('(')
	for i := range params {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(params[i].Type.SignatureString())
	}
	b.WriteByte(')')
}

// selectorOf derives a selector from a signature string: the first 32
// bits of its SHA-256 digest.
func selectorOf(signature string) uint32 {
	digest := sha256.Sum256([]byte(signature))
	return binary.BigEndian.Uint32(digest[:4])
}
