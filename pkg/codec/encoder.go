package codec

import (
	"fmt"
	"math/big"

	"github.com/tvmkit/tvmabi/pkg/abi"
	"github.com/tvmkit/tvmabi/pkg/abi/schema"
	"github.com/tvmkit/tvmabi/pkg/encoding/bigint"
	"github.com/tvmkit/tvmabi/pkg/io"
	"github.com/tvmkit/tvmabi/pkg/util"
)

// Encode produces the message body of a call to (Input) or an answer
// from (Output) the given function. Values are validated against the
// signature before any bytes are emitted: a wrong number of values is
// ErrArityMismatch, a structural or leaf-level shape violation is
// ErrTypeMismatch and a numeric or sized value exceeding its declaration
// is ErrValueOutOfRange.
//
// A function with no outputs answers with an empty body, so encoding
// such an answer yields zero bytes.
func Encode(f *schema.Function, dir Direction, vals []abi.Value) ([]byte, error) {
	params := dir.params(f)
	if err := checkShape(params, vals); err != nil {
		return nil, err
	}
	if dir == Output && len(params) == 0 {
		return []byte{}, nil
	}

	w := io.NewBufBinWriter()
	w.WriteU32BE(dir.selector(f))
	if err := encodeValues(w.BinWriter, vals); err != nil {
		return nil, err
	}
	if w.Err != nil {
		return nil, w.Err
	}
	return w.Bytes(), nil
}

// EncodeEvent produces the body of the given event.
func EncodeEvent(e *schema.Event, vals []abi.Value) ([]byte, error) {
	if err := checkShape(e.Inputs, vals); err != nil {
		return nil, err
	}
	w := io.NewBufBinWriter()
	w.WriteU32BE(e.ID)
	if err := encodeValues(w.BinWriter, vals); err != nil {
		return nil, err
	}
	if w.Err != nil {
		return nil, w.Err
	}
	return w.Bytes(), nil
}

// EncodeParams produces a bare parameter list without selector framing.
// It is used for static data and account state fields.
func EncodeParams(params []abi.Param, vals []abi.Value) ([]byte, error) {
	if err := checkShape(params, vals); err != nil {
		return nil, err
	}
	w := io.NewBufBinWriter()
	if err := encodeValues(w.BinWriter, vals); err != nil {
		return nil, err
	}
	if w.Err != nil {
		return nil, w.Err
	}
	return w.Bytes(), nil
}

// checkShape verifies the value list against the parameter list: arity
// first, then a full structural check of every tree.
func checkShape(params []abi.Param, vals []abi.Value) error {
	if len(vals) != len(params) {
		return fmt.Errorf("%w: %d values for %d parameters", ErrArityMismatch, len(vals), len(params))
	}
	for i := range params {
		if !vals[i].Type.Equals(params[i].Type) {
			return fmt.Errorf("%w: parameter %q declared %s, value is %s",
				ErrTypeMismatch, params[i].Name, params[i].Type, vals[i].Type)
		}
	}
	return nil
}

func encodeValues(w *io.BinWriter, vals []abi.Value) error {
	for i := range vals {
		if err := encodeValue(w, vals[i]); err != nil {
			return err
		}
	}
	return nil
}

func encodeValue(w *io.BinWriter, v abi.Value) error {
	t := v.Type
	w.WriteB(byte(t.Kind))

	switch t.Kind {
	case abi.BoolT:
		b, ok := v.Value.(bool)
		if !ok {
			return payloadErr(t, v.Value)
		}
		w.WriteBool(b)
	case abi.UintT:
		n, ok := v.Value.(*big.Int)
		if !ok {
			return payloadErr(t, v.Value)
		}
		if err := bigint.CheckUnsigned(n, t.Bits); err != nil {
			return fmt.Errorf("%w: %w", ErrValueOutOfRange, err)
		}
		w.WriteU16BE(t.Bits)
		w.WriteBytes(bigint.ToBytesUnsigned(n, t.Bits))
	case abi.IntT:
		n, ok := v.Value.(*big.Int)
		if !ok {
			return payloadErr(t, v.Value)
		}
		if err := bigint.CheckSigned(n, t.Bits); err != nil {
			return fmt.Errorf("%w: %w", ErrValueOutOfRange, err)
		}
		w.WriteU16BE(t.Bits)
		w.WriteBytes(bigint.ToBytesSigned(n, t.Bits))
	case abi.VarUintT:
		n, ok := v.Value.(*big.Int)
		if !ok {
			return payloadErr(t, v.Value)
		}
		if err := bigint.CheckUnsigned(n, t.Bits); err != nil {
			return fmt.Errorf("%w: %w", ErrValueOutOfRange, err)
		}
		w.WriteU16BE(t.Bits)
		w.WriteVarBytes(bigint.ToBytesVarUnsigned(n))
	case abi.VarIntT:
		n, ok := v.Value.(*big.Int)
		if !ok {
			return payloadErr(t, v.Value)
		}
		if err := bigint.CheckSigned(n, t.Bits); err != nil {
			return fmt.Errorf("%w: %w", ErrValueOutOfRange, err)
		}
		w.WriteU16BE(t.Bits)
		w.WriteVarBytes(bigint.ToBytesVarSigned(n))
	case abi.AddressT:
		a, ok := v.Value.(util.Address)
		if !ok {
			return payloadErr(t, v.Value)
		}
		a.EncodeBinary(w)
	case abi.BytesT, abi.CellT:
		b, ok := v.Value.([]byte)
		if !ok {
			return payloadErr(t, v.Value)
		}
		w.WriteVarBytes(b)
	case abi.FixedBytesT:
		b, ok := v.Value.([]byte)
		if !ok {
			return payloadErr(t, v.Value)
		}
		if uint32(len(b)) != t.Len {
			return fmt.Errorf("%w: %d bytes for %s", ErrValueOutOfRange, len(b), t)
		}
		w.WriteBytes(b)
	case abi.StringT:
		s, ok := v.Value.(string)
		if !ok {
			return payloadErr(t, v.Value)
		}
		w.WriteString(s)
	case abi.TupleT:
		elems, ok := v.Value.([]abi.Value)
		if !ok {
			return payloadErr(t, v.Value)
		}
		if len(elems) != len(t.Components) {
			return fmt.Errorf("%w: %d members for %d tuple components", ErrArityMismatch, len(elems), len(t.Components))
		}
		w.WriteVarUint(uint64(len(elems)))
		for i := range elems {
			if !elems[i].Type.Equals(t.Components[i].Type) {
				return fmt.Errorf("%w: tuple member %q declared %s, value is %s",
					ErrTypeMismatch, t.Components[i].Name, t.Components[i].Type, elems[i].Type)
			}
			if err := encodeValue(w, elems[i]); err != nil {
				return err
			}
		}
	case abi.ArrayT, abi.FixedArrayT:
		elems, ok := v.Value.([]abi.Value)
		if !ok {
			return payloadErr(t, v.Value)
		}
		if t.Kind == abi.FixedArrayT && uint32(len(elems)) != t.Len {
			return fmt.Errorf("%w: %d elements for %s", ErrValueOutOfRange, len(elems), t)
		}
		w.WriteVarUint(uint64(len(elems)))
		for i := range elems {
			if !elems[i].Type.Equals(*t.Elem) {
				return fmt.Errorf("%w: array element %d declared %s, value is %s",
					ErrTypeMismatch, i, t.Elem, elems[i].Type)
			}
			if err := encodeValue(w, elems[i]); err != nil {
				return err
			}
		}
	case abi.OptionalT:
		inner, ok := v.Value.(*abi.Value)
		if !ok && v.Value != nil {
			return payloadErr(t, v.Value)
		}
		if inner == nil {
			w.WriteBool(false)
			return nil
		}
		if !inner.Type.Equals(*t.Elem) {
			return fmt.Errorf("%w: optional declared %s, value is %s", ErrTypeMismatch, t.Elem, inner.Type)
		}
		w.WriteBool(true)
		return encodeValue(w, *inner)
	case abi.MapT:
		pairs, ok := v.Value.([]abi.KeyValue)
		if !ok {
			return payloadErr(t, v.Value)
		}
		w.WriteVarUint(uint64(len(pairs)))
		for i := range pairs {
			if !pairs[i].Key.Type.Equals(*t.Key) || !pairs[i].Value.Type.Equals(*t.Val) {
				return fmt.Errorf("%w: map entry %d does not match %s", ErrTypeMismatch, i, t)
			}
			if err := encodeValue(w, pairs[i].Key); err != nil {
				return err
			}
			if err := encodeValue(w, pairs[i].Value); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("%w: can't encode %s", ErrTypeMismatch, t.Kind)
	}
	return nil
}

func payloadErr(t abi.Type, payload any) error {
	return fmt.Errorf("%w: %T payload for %s", ErrTypeMismatch, payload, t)
}
