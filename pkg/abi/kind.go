package abi

import (
	"encoding/json"
	"errors"
)

// Kind is a tag identifying one of the ABI type variants. Its byte value
// doubles as the wire tag written before every encoded value.
type Kind byte

// This block defines all known ABI type variants.
const (
	BoolT       Kind = 0x10
	UintT       Kind = 0x11
	IntT        Kind = 0x12
	VarUintT    Kind = 0x13
	VarIntT     Kind = 0x14
	AddressT    Kind = 0x15
	BytesT      Kind = 0x16
	FixedBytesT Kind = 0x17
	StringT     Kind = 0x18
	CellT       Kind = 0x19
	TupleT      Kind = 0x20
	ArrayT      Kind = 0x21
	FixedArrayT Kind = 0x22
	OptionalT   Kind = 0x23
	MapT        Kind = 0x24
	InvalidT    Kind = 0xFF
)

// String implements the fmt.Stringer interface.
func (k Kind) String() string {
	switch k {
	case BoolT:
		return "bool"
	case UintT:
		return "uint"
	case IntT:
		return "int"
	case VarUintT:
		return "varuint"
	case VarIntT:
		return "varint"
	case AddressT:
		return "address"
	case BytesT:
		return "bytes"
	case FixedBytesT:
		return "fixedbytes"
	case StringT:
		return "string"
	case CellT:
		return "cell"
	case TupleT:
		return "tuple"
	case ArrayT:
		return "array"
	case FixedArrayT:
		return "fixedarray"
	case OptionalT:
		return "optional"
	case MapT:
		return "map"
	default:
		return "INVALID"
	}
}

// IsValid checks if k is a well defined ABI type variant.
func (k Kind) IsValid() bool {
	switch k {
	case BoolT, UintT, IntT, VarUintT, VarIntT, AddressT, BytesT,
		FixedBytesT, StringT, CellT, TupleT, ArrayT, FixedArrayT,
		OptionalT, MapT:
		return true
	default:
		return false
	}
}

// IsComposite returns true for variants whose values contain other values.
func (k Kind) IsComposite() bool {
	switch k {
	case TupleT, ArrayT, FixedArrayT, OptionalT, MapT:
		return true
	default:
		return false
	}
}

// MarshalJSON implements the json.Marshaler interface.
func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (k *Kind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for _, known := range []Kind{BoolT, UintT, IntT, VarUintT, VarIntT,
		AddressT, BytesT, FixedBytesT, StringT, CellT, TupleT, ArrayT,
		FixedArrayT, OptionalT, MapT} {
		if known.String() == s {
			*k = known
			return nil
		}
	}
	return errors.New("invalid Kind string")
}

// MarshalYAML implements the YAML marshaler interface.
func (k Kind) MarshalYAML() (any, error) {
	return k.String(), nil
}

// UnmarshalYAML implements the YAML unmarshaler interface.
func (k *Kind) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return k.UnmarshalJSON(b)
}
