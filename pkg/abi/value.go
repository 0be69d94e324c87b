package abi

// Value is a single node of a value tree shaped after some Type. The
// payload depends on Type.Kind:
//
//	BoolT                        bool
//	UintT, IntT, VarUintT,
//	VarIntT                      *big.Int
//	AddressT                     util.Address
//	BytesT, FixedBytesT, CellT   []byte
//	StringT                      string
//	TupleT, ArrayT, FixedArrayT  []Value
//	OptionalT                    *Value, nil when absent
//	MapT                         []KeyValue, ordered by insertion
type Value struct {
	Type  Type
	Value any
}

// KeyValue is a single map entry.
type KeyValue struct {
	Key   Value
	Value Value
}

// NewValue returns a new value of the specified type with the given
// payload. No payload validation is performed here, ill-shaped values are
// rejected when encoded.
func NewValue(typ Type, payload any) Value {
	return Value{Type: typ, Value: payload}
}
