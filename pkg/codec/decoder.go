package codec

import (
	"fmt"

	"github.com/tvmkit/tvmabi/pkg/abi"
	"github.com/tvmkit/tvmabi/pkg/abi/schema"
	"github.com/tvmkit/tvmabi/pkg/encoding/bigint"
	"github.com/tvmkit/tvmabi/pkg/io"
	"github.com/tvmkit/tvmabi/pkg/util"
)

// Decode parses the message body of a call to (Input) or an answer from
// (Output) the given function into a value tree. A body shorter than the
// signature demands is ErrTruncatedInput, an encoded tag or selector not
// matching the signature is ErrTypeMismatch.
//
// An empty body for a direction declaring no parameters is a valid
// absent result: Decode returns (nil, nil) for it.
func Decode(f *schema.Function, dir Direction, body []byte) ([]abi.Value, error) {
	params := dir.params(f)
	if len(body) == 0 {
		if len(params) == 0 {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: empty body for %d parameters", ErrTruncatedInput, len(params))
	}

	r := io.NewBinReaderFromBuf(body)
	sel := r.ReadU32BE()
	if err := readErr(r); err != nil {
		return nil, err
	}
	if sel != dir.selector(f) {
		return nil, fmt.Errorf("%w: selector %#08x, expected %#08x for %s of %s",
			ErrTypeMismatch, sel, dir.selector(f), dir, f.Name)
	}
	return decodeTail(r, params)
}

// DecodeEvent parses the body of the given event.
func DecodeEvent(e *schema.Event, body []byte) ([]abi.Value, error) {
	r := io.NewBinReaderFromBuf(body)
	sel := r.ReadU32BE()
	if err := readErr(r); err != nil {
		return nil, err
	}
	if sel != e.ID {
		return nil, fmt.Errorf("%w: selector %#08x, expected %#08x for event %s",
			ErrTypeMismatch, sel, e.ID, e.Name)
	}
	return decodeTail(r, e.Inputs)
}

// DecodeParams parses a bare parameter list without selector framing.
// It is used for static data and account state fields.
func DecodeParams(params []abi.Param, data []byte) ([]abi.Value, error) {
	if len(data) == 0 && len(params) == 0 {
		return nil, nil
	}
	return decodeTail(io.NewBinReaderFromBuf(data), params)
}

func decodeTail(r *io.BinReader, params []abi.Param) ([]abi.Value, error) {
	vals := make([]abi.Value, len(params))
	for i := range params {
		v, err := decodeValue(r, params[i].Type)
		if err != nil {
			return nil, fmt.Errorf("parameter %q: %w", params[i].Name, err)
		}
		vals[i] = v
	}
	r.ReadB()
	if r.Err == nil {
		return nil, fmt.Errorf("%w: trailing data after the last parameter", ErrTypeMismatch)
	}
	return vals, nil
}

func decodeValue(r *io.BinReader, t abi.Type) (abi.Value, error) {
	v := abi.Value{Type: t}

	tag := r.ReadB()
	if err := readErr(r); err != nil {
		return v, err
	}
	if tag != byte(t.Kind) {
		return v, fmt.Errorf("%w: tag %s, expected %s", ErrTypeMismatch, abi.Kind(tag), t.Kind)
	}

	switch t.Kind {
	case abi.BoolT:
		v.Value = r.ReadBool()
	case abi.UintT, abi.IntT:
		bits := r.ReadU16BE()
		if err := readErr(r); err != nil {
			return v, err
		}
		if bits != t.Bits {
			return v, fmt.Errorf("%w: %d-bit integer, expected %s", ErrTypeMismatch, bits, t)
		}
		data := make([]byte, bigint.ByteLen(bits))
		r.ReadBytes(data)
		if err := readErr(r); err != nil {
			return v, err
		}
		if t.Kind == abi.UintT {
			v.Value = bigint.FromBytesUnsigned(data)
		} else {
			v.Value = bigint.FromBytesSigned(data)
		}
	case abi.VarUintT, abi.VarIntT:
		bits := r.ReadU16BE()
		if err := readErr(r); err != nil {
			return v, err
		}
		if bits != t.Bits {
			return v, fmt.Errorf("%w: %d-bit integer, expected %s", ErrTypeMismatch, bits, t)
		}
		data := r.ReadVarBytes(bigint.ByteLen(bits))
		if err := readErr(r); err != nil {
			return v, err
		}
		if t.Kind == abi.VarUintT {
			v.Value = bigint.FromBytesUnsigned(data)
		} else {
			v.Value = bigint.FromBytesSigned(data)
		}
	case abi.AddressT:
		var a util.Address
		a.DecodeBinary(r)
		if err := readErr(r); err != nil {
			return v, err
		}
		v.Value = a
	case abi.BytesT, abi.CellT:
		v.Value = r.ReadVarBytes()
	case abi.FixedBytesT:
		data := make([]byte, t.Len)
		r.ReadBytes(data)
		v.Value = data
	case abi.StringT:
		v.Value = r.ReadString()
	case abi.TupleT:
		n := r.ReadVarUint()
		if err := readErr(r); err != nil {
			return v, err
		}
		if n != uint64(len(t.Components)) {
			return v, fmt.Errorf("%w: %d members for %d tuple components", ErrTypeMismatch, n, len(t.Components))
		}
		elems := make([]abi.Value, len(t.Components))
		for i := range t.Components {
			elem, err := decodeValue(r, t.Components[i].Type)
			if err != nil {
				return v, fmt.Errorf("member %q: %w", t.Components[i].Name, err)
			}
			elems[i] = elem
		}
		v.Value = elems
	case abi.ArrayT, abi.FixedArrayT:
		n := r.ReadVarUint()
		if err := readErr(r); err != nil {
			return v, err
		}
		if n > io.MaxArraySize {
			return v, fmt.Errorf("%w: array of %d elements", ErrTruncatedInput, n)
		}
		if t.Kind == abi.FixedArrayT && n != uint64(t.Len) {
			return v, fmt.Errorf("%w: %d elements for %s", ErrTypeMismatch, n, t)
		}
		elems := make([]abi.Value, 0, min(n, 1024))
		for i := uint64(0); i < n; i++ {
			elem, err := decodeValue(r, *t.Elem)
			if err != nil {
				return v, fmt.Errorf("element %d: %w", i, err)
			}
			elems = append(elems, elem)
		}
		v.Value = elems
	case abi.OptionalT:
		present := r.ReadBool()
		if err := readErr(r); err != nil {
			return v, err
		}
		if !present {
			v.Value = (*abi.Value)(nil)
			return v, nil
		}
		inner, err := decodeValue(r, *t.Elem)
		if err != nil {
			return v, err
		}
		v.Value = &inner
	case abi.MapT:
		n := r.ReadVarUint()
		if err := readErr(r); err != nil {
			return v, err
		}
		if n > io.MaxArraySize {
			return v, fmt.Errorf("%w: map of %d entries", ErrTruncatedInput, n)
		}
		pairs := make([]abi.KeyValue, 0, min(n, 1024))
		for i := uint64(0); i < n; i++ {
			key, err := decodeValue(r, *t.Key)
			if err != nil {
				return v, fmt.Errorf("entry %d key: %w", i, err)
			}
			val, err := decodeValue(r, *t.Val)
			if err != nil {
				return v, fmt.Errorf("entry %d value: %w", i, err)
			}
			pairs = append(pairs, abi.KeyValue{Key: key, Value: val})
		}
		v.Value = pairs
	default:
		return v, fmt.Errorf("%w: can't decode %s", ErrTypeMismatch, t.Kind)
	}

	if err := readErr(r); err != nil {
		return v, err
	}
	return v, nil
}

// readErr translates reader failures into the codec taxonomy: running
// out of input mid-value means the body is shorter than the schema
// demands.
func readErr(r *io.BinReader) error {
	if r.Err != nil {
		return fmt.Errorf("%w: %w", ErrTruncatedInput, r.Err)
	}
	return nil
}
