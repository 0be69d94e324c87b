package util

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/tvmkit/tvmabi/pkg/io"
)

// AddrHashSize is the size of the account hash part of an address.
const AddrHashSize = 32

// Address is a TVM account address: a signed 8-bit workchain identifier
// plus a 256-bit account hash. Its canonical textual form is
// "workchain:hash" with the hash in lowercase hex, e.g. "0:abc...".
type Address struct {
	Workchain int8
	Hash      [AddrHashSize]byte
}

// AddressFromString attempts to decode the canonical textual form
// into an Address.
func AddressFromString(s string) (Address, error) {
	var a Address

	wc, rest, found := strings.Cut(s, ":")
	if !found {
		return a, fmt.Errorf("invalid address %q: no workchain separator", s)
	}
	w, err := strconv.ParseInt(wc, 10, 8)
	if err != nil {
		return a, fmt.Errorf("invalid workchain in %q: %w", s, err)
	}
	if len(rest) != AddrHashSize*2 {
		return a, fmt.Errorf("invalid address %q: expected %d hex chars, got %d", s, AddrHashSize*2, len(rest))
	}
	b, err := hex.DecodeString(rest)
	if err != nil {
		return a, fmt.Errorf("invalid address %q: %w", s, err)
	}
	a.Workchain = int8(w)
	copy(a.Hash[:], b)
	return a, nil
}

// String implements the fmt.Stringer interface.
func (a Address) String() string {
	return strconv.Itoa(int(a.Workchain)) + ":" + hex.EncodeToString(a.Hash[:])
}

// Equals returns true if both Address values are the same.
func (a Address) Equals(other Address) bool {
	return a == other
}

// EncodeBinary implements the io.Serializable interface.
func (a *Address) EncodeBinary(w *io.BinWriter) {
	w.WriteB(byte(a.Workchain))
	w.WriteBytes(a.Hash[:])
}

// DecodeBinary implements the io.Serializable interface.
func (a *Address) DecodeBinary(r *io.BinReader) {
	a.Workchain = int8(r.ReadB())
	r.ReadBytes(a.Hash[:])
}

// MarshalJSON implements the json.Marshaler interface.
func (a Address) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.String() + `"`), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (a *Address) UnmarshalJSON(data []byte) error {
	l := len(data)
	if l < 2 || data[0] != '"' || data[l-1] != '"' {
		return fmt.Errorf("wrong format: %s", string(data))
	}
	addr, err := AddressFromString(string(data[1 : l-1]))
	if err != nil {
		return err
	}
	*a = addr
	return nil
}

// MarshalYAML implements the YAML marshaler interface.
func (a Address) MarshalYAML() (any, error) {
	return a.String(), nil
}

// UnmarshalYAML implements the YAML unmarshaler interface.
func (a *Address) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	addr, err := AddressFromString(s)
	if err != nil {
		return err
	}
	*a = addr
	return nil
}
