package abi

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// MaxNestingDepth limits recursion of composite types. Declarations
// nesting deeper than this are rejected at parse time, which also bounds
// the work any encode or decode call can do per value.
const MaxNestingDepth = 32

// ErrInvalidType is returned when a type declaration does not follow
// the ABI type grammar.
var ErrInvalidType = errors.New("invalid type")

// Type is a recursive ABI type descriptor. Exactly one of the
// variant-specific fields is used depending on Kind: Bits for integer
// widths, Len for fixed-size bytes and arrays, Elem for array and
// optional elements, Key/Val for maps and Components for tuples.
type Type struct {
	Kind       Kind
	Bits       uint16
	Len        uint32
	Elem       *Type
	Key        *Type
	Val        *Type
	Components []Param
}

// ParseType parses a type declaration string in the ABI grammar:
//
//	uint8..uint256, int8..int256, varuint16, varuint32, varint16, varint32,
//	bool, address, bytes, fixedbytes1..fixedbytes32, string, cell, tuple,
//	optional(T), map(K,V), plus array suffixes T[] and T[N].
//
// Tuple components are not part of the grammar, they are attached from
// the schema, see Param.
func ParseType(s string) (Type, error) {
	return parseType(s, 0)
}

func parseType(s string, depth int) (Type, error) {
	if depth > MaxNestingDepth {
		return Type{}, fmt.Errorf("%w: nesting depth exceeds %d", ErrInvalidType, MaxNestingDepth)
	}
	if len(s) == 0 {
		return Type{}, fmt.Errorf("%w: empty declaration", ErrInvalidType)
	}

	// The rightmost array suffix is the outermost wrapper.
	if strings.HasSuffix(s, "]") {
		idx := strings.LastIndex(s, "[")
		if idx < 1 {
			return Type{}, fmt.Errorf("%w: unmatched ']' in %q", ErrInvalidType, s)
		}
		elem, err := parseType(s[:idx], depth+1)
		if err != nil {
			return Type{}, err
		}
		suffix := s[idx+1 : len(s)-1]
		if suffix == "" {
			return Type{Kind: ArrayT, Elem: &elem}, nil
		}
		n, err := strconv.ParseUint(suffix, 10, 32)
		if err != nil || n == 0 {
			return Type{}, fmt.Errorf("%w: bad array length in %q", ErrInvalidType, s)
		}
		return Type{Kind: FixedArrayT, Len: uint32(n), Elem: &elem}, nil
	}

	if inner, ok := strippedArg(s, "optional"); ok {
		elem, err := parseType(inner, depth+1)
		if err != nil {
			return Type{}, err
		}
		return Type{Kind: OptionalT, Elem: &elem}, nil
	}

	if inner, ok := strippedArg(s, "map"); ok {
		kstr, vstr, err := splitTopLevel(inner)
		if err != nil {
			return Type{}, fmt.Errorf("%w: %q: %w", ErrInvalidType, s, err)
		}
		key, err := parseType(kstr, depth+1)
		if err != nil {
			return Type{}, err
		}
		if !isValidMapKey(key) {
			return Type{}, fmt.Errorf("%w: %q is not a valid map key type", ErrInvalidType, kstr)
		}
		val, err := parseType(vstr, depth+1)
		if err != nil {
			return Type{}, err
		}
		return Type{Kind: MapT, Key: &key, Val: &val}, nil
	}

	switch s {
	case "bool":
		return Type{Kind: BoolT}, nil
	case "address", "address_std":
		return Type{Kind: AddressT}, nil
	case "bytes":
		return Type{Kind: BytesT}, nil
	case "string":
		return Type{Kind: StringT}, nil
	case "cell":
		return Type{Kind: CellT}, nil
	case "tuple":
		return Type{Kind: TupleT}, nil
	case "gram", "grams", "coins", "token":
		// Historical aliases for the native token amount type.
		return Type{Kind: VarUintT, Bits: 120}, nil
	}

	if rest, ok := strings.CutPrefix(s, "varuint"); ok {
		return parseVarIntBits(VarUintT, s, rest)
	}
	if rest, ok := strings.CutPrefix(s, "varint"); ok {
		return parseVarIntBits(VarIntT, s, rest)
	}
	if rest, ok := strings.CutPrefix(s, "uint"); ok {
		return parseIntBits(UintT, s, rest)
	}
	if rest, ok := strings.CutPrefix(s, "int"); ok {
		return parseIntBits(IntT, s, rest)
	}
	if rest, ok := strings.CutPrefix(s, "fixedbytes"); ok {
		n, err := strconv.ParseUint(rest, 10, 32)
		if err != nil || n == 0 || n > 32 {
			return Type{}, fmt.Errorf("%w: bad fixedbytes length in %q", ErrInvalidType, s)
		}
		return Type{Kind: FixedBytesT, Len: uint32(n)}, nil
	}

	return Type{}, fmt.Errorf("%w: unknown declaration %q", ErrInvalidType, s)
}

func parseIntBits(k Kind, s, rest string) (Type, error) {
	n, err := strconv.ParseUint(rest, 10, 16)
	if err != nil || n == 0 || n > 256 {
		return Type{}, fmt.Errorf("%w: bad integer width in %q", ErrInvalidType, s)
	}
	return Type{Kind: k, Bits: uint16(n)}, nil
}

// parseVarIntBits handles varuintN/varintN where N is the maximum encoded
// size in bytes including the length prefix, so the value itself occupies
// up to N-1 bytes.
func parseVarIntBits(k Kind, s, rest string) (Type, error) {
	n, err := strconv.ParseUint(rest, 10, 16)
	if err != nil || (n != 16 && n != 32) {
		return Type{}, fmt.Errorf("%w: bad variable integer size in %q", ErrInvalidType, s)
	}
	return Type{Kind: k, Bits: uint16(8 * (n - 1))}, nil
}

// strippedArg returns the parenthesized argument of a name(...) form.
func strippedArg(s, name string) (string, bool) {
	if !strings.HasPrefix(s, name+"(") || !strings.HasSuffix(s, ")") {
		return "", false
	}
	return s[len(name)+1 : len(s)-1], true
}

// splitTopLevel splits "K,V" at the comma not nested in parentheses.
func splitTopLevel(s string) (string, string, error) {
	var depth int
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				return s[:i], s[i+1:], nil
			}
		}
	}
	return "", "", errors.New("expected two comma-separated declarations")
}

func isValidMapKey(t Type) bool {
	switch t.Kind {
	case UintT, IntT, AddressT:
		return true
	default:
		return false
	}
}

// String implements the fmt.Stringer interface, returning the canonical
// type declaration. Tuple components are not part of the declaration.
func (t Type) String() string {
	switch t.Kind {
	case UintT:
		return "uint" + strconv.Itoa(int(t.Bits))
	case IntT:
		return "int" + strconv.Itoa(int(t.Bits))
	case VarUintT:
		return "varuint" + strconv.Itoa(int(t.Bits)/8+1)
	case VarIntT:
		return "varint" + strconv.Itoa(int(t.Bits)/8+1)
	case FixedBytesT:
		return "fixedbytes" + strconv.FormatUint(uint64(t.Len), 10)
	case ArrayT:
		return t.Elem.String() + "[]"
	case FixedArrayT:
		return t.Elem.String() + "[" + strconv.FormatUint(uint64(t.Len), 10) + "]"
	case OptionalT:
		return "optional(" + t.Elem.String() + ")"
	case MapT:
		return "map(" + t.Key.String() + "," + t.Val.String() + ")"
	default:
		return t.Kind.String()
	}
}

// SignatureString returns the type rendering used in function signatures
// for selector derivation. It differs from String in that tuples are
// expanded into a parenthesized list of their component types.
func (t Type) SignatureString() string {
	switch t.Kind {
	case TupleT:
		cc := make([]string, len(t.Components))
		for i := range t.Components {
			cc[i] = t.Components[i].Type.SignatureString()
		}
		return "(" + strings.Join(cc, ",") + ")"
	case ArrayT:
		return t.Elem.SignatureString() + "[]"
	case FixedArrayT:
		return t.Elem.SignatureString() + "[" + strconv.FormatUint(uint64(t.Len), 10) + "]"
	case OptionalT:
		return "optional(" + t.Elem.SignatureString() + ")"
	case MapT:
		return "map(" + t.Key.SignatureString() + "," + t.Val.SignatureString() + ")"
	default:
		return t.String()
	}
}

// Equals returns true if both types describe the same shape, including
// tuple component names.
func (t Type) Equals(other Type) bool {
	return reflect.DeepEqual(t, other)
}

// MarshalJSON implements the json.Marshaler interface.
func (t Type) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// UnmarshalJSON implements the json.Unmarshaler interface. Note that
// tuple components can't be a part of the declaration string, for
// schema parameters they're attached separately, see Param.
func (t *Type) UnmarshalJSON(data []byte) error {
	l := len(data)
	if l < 2 || data[0] != '"' || data[l-1] != '"' {
		return fmt.Errorf("%w: not a JSON string", ErrInvalidType)
	}
	typ, err := ParseType(string(data[1 : l-1]))
	if err != nil {
		return err
	}
	*t = typ
	return nil
}
