package codec

import (
	"encoding/hex"
	gojson "encoding/json"
	"fmt"
	"math/big"
	"sort"
	"strings"

	json "github.com/nspcc-dev/go-ordered-json"
	"github.com/tvmkit/tvmabi/pkg/abi"
	"github.com/tvmkit/tvmabi/pkg/util"
)

// FromHost builds a value tree of the given type from ordinary Go data,
// so that callers can pass structured data produced by JSON decoding or
// built by hand instead of constructing abi.Value trees:
//
//	BoolT                        bool or "true"/"false"
//	integer types                *big.Int, any Go integer, json.Number
//	                             or a decimal/0x-hex string
//	AddressT                     util.Address or its textual form
//	BytesT, FixedBytesT, CellT   []byte or a hex string
//	StringT                      string
//	TupleT                       ordered JSON object, map keyed by
//	                             component name or a positional slice
//	ArrayT, FixedArrayT          []any
//	OptionalT                    nil for absent, the inner form otherwise
//	MapT                         ordered JSON object or a map with keys
//	                             in the key type's textual form
//
// Shape violations are ErrTypeMismatch, numeric conversions that lose
// value are ErrValueOutOfRange.
func FromHost(t abi.Type, host any) (abi.Value, error) {
	v := abi.Value{Type: t}

	switch t.Kind {
	case abi.BoolT:
		switch x := host.(type) {
		case bool:
			v.Value = x
		case string:
			switch x {
			case "true":
				v.Value = true
			case "false":
				v.Value = false
			default:
				return v, hostErr(t, host)
			}
		default:
			return v, hostErr(t, host)
		}
	case abi.UintT, abi.IntT, abi.VarUintT, abi.VarIntT:
		n, err := hostInt(host)
		if err != nil {
			return v, fmt.Errorf("%w for %s", err, t)
		}
		v.Value = n
	case abi.AddressT:
		switch x := host.(type) {
		case util.Address:
			v.Value = x
		case string:
			a, err := util.AddressFromString(x)
			if err != nil {
				return v, fmt.Errorf("%w: %w", ErrTypeMismatch, err)
			}
			v.Value = a
		default:
			return v, hostErr(t, host)
		}
	case abi.BytesT, abi.FixedBytesT, abi.CellT:
		b, err := hostBytes(host)
		if err != nil {
			return v, fmt.Errorf("%w for %s", err, t)
		}
		v.Value = b
	case abi.StringT:
		s, ok := host.(string)
		if !ok {
			return v, hostErr(t, host)
		}
		v.Value = s
	case abi.TupleT:
		members, err := hostTuple(t, host)
		if err != nil {
			return v, err
		}
		v.Value = members
	case abi.ArrayT, abi.FixedArrayT:
		elems, ok := host.([]any)
		if !ok {
			return v, hostErr(t, host)
		}
		vals := make([]abi.Value, len(elems))
		for i := range elems {
			elem, err := FromHost(*t.Elem, elems[i])
			if err != nil {
				return v, fmt.Errorf("element %d: %w", i, err)
			}
			vals[i] = elem
		}
		v.Value = vals
	case abi.OptionalT:
		if host == nil {
			v.Value = (*abi.Value)(nil)
			return v, nil
		}
		inner, err := FromHost(*t.Elem, host)
		if err != nil {
			return v, err
		}
		v.Value = &inner
	case abi.MapT:
		pairs, err := hostMap(t, host)
		if err != nil {
			return v, err
		}
		v.Value = pairs
	default:
		return v, hostErr(t, host)
	}
	return v, nil
}

// FromHostValues maps a host value per parameter. Hosts must have
// exactly one entry per parameter.
func FromHostValues(params []abi.Param, hosts []any) ([]abi.Value, error) {
	if len(hosts) != len(params) {
		return nil, fmt.Errorf("%w: %d values for %d parameters", ErrArityMismatch, len(hosts), len(params))
	}
	vals := make([]abi.Value, len(params))
	for i := range params {
		v, err := FromHost(params[i].Type, hosts[i])
		if err != nil {
			return nil, fmt.Errorf("parameter %q: %w", params[i].Name, err)
		}
		vals[i] = v
	}
	return vals, nil
}

// ToHost converts a value tree back to ordinary Go data: integers come
// out as *big.Int (the widest safe representation), addresses in their
// canonical textual form, byte values as hex strings, tuples and maps as
// ordered JSON objects and absent optionals as nil.
func ToHost(v abi.Value) any {
	switch v.Type.Kind {
	case abi.AddressT:
		return v.Value.(util.Address).String()
	case abi.BytesT, abi.FixedBytesT, abi.CellT:
		return hex.EncodeToString(v.Value.([]byte))
	case abi.TupleT:
		members := v.Value.([]abi.Value)
		obj := make(json.OrderedObject, len(members))
		for i := range members {
			obj[i].Key = v.Type.Components[i].Name
			obj[i].Value = ToHost(members[i])
		}
		return obj
	case abi.ArrayT, abi.FixedArrayT:
		elems := v.Value.([]abi.Value)
		out := make([]any, len(elems))
		for i := range elems {
			out[i] = ToHost(elems[i])
		}
		return out
	case abi.OptionalT:
		inner := v.Value.(*abi.Value)
		if inner == nil {
			return nil
		}
		return ToHost(*inner)
	case abi.MapT:
		pairs := v.Value.([]abi.KeyValue)
		obj := make(json.OrderedObject, len(pairs))
		for i := range pairs {
			obj[i].Key = keyString(pairs[i].Key)
			obj[i].Value = ToHost(pairs[i].Value)
		}
		return obj
	default:
		return v.Value
	}
}

// ToHostValues converts each value of a parameter list into an ordered
// JSON object keyed by parameter name.
func ToHostValues(params []abi.Param, vals []abi.Value) json.OrderedObject {
	obj := make(json.OrderedObject, len(vals))
	for i := range vals {
		obj[i].Key = params[i].Name
		obj[i].Value = ToHost(vals[i])
	}
	return obj
}

func hostInt(host any) (*big.Int, error) {
	switch x := host.(type) {
	case *big.Int:
		return x, nil
	case int:
		return big.NewInt(int64(x)), nil
	case int64:
		return big.NewInt(x), nil
	case uint64:
		return new(big.Int).SetUint64(x), nil
	case float64:
		n, acc := big.NewFloat(x).Int(nil)
		if acc != big.Exact {
			return nil, fmt.Errorf("%w: %v is not an integer", ErrValueOutOfRange, x)
		}
		return n, nil
	case gojson.Number:
		return intFromString(x.String())
	case json.Number:
		return intFromString(x.String())
	case string:
		return intFromString(x)
	default:
		return nil, fmt.Errorf("%w: %T is not an integer", ErrTypeMismatch, host)
	}
}

func intFromString(s string) (*big.Int, error) {
	base := 10
	if rest, ok := strings.CutPrefix(s, "0x"); ok {
		s, base = rest, 16
	}
	n, ok := new(big.Int).SetString(s, base)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not an integer", ErrTypeMismatch, s)
	}
	return n, nil
}

func hostBytes(host any) ([]byte, error) {
	switch x := host.(type) {
	case []byte:
		return x, nil
	case string:
		b, err := hex.DecodeString(strings.TrimPrefix(x, "0x"))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrTypeMismatch, err)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("%w: %T is not a byte value", ErrTypeMismatch, host)
	}
}

func hostTuple(t abi.Type, host any) ([]abi.Value, error) {
	byName := func(get func(name string) (any, bool)) ([]abi.Value, error) {
		members := make([]abi.Value, len(t.Components))
		for i := range t.Components {
			raw, ok := get(t.Components[i].Name)
			if !ok {
				return nil, fmt.Errorf("%w: no value for tuple member %q", ErrArityMismatch, t.Components[i].Name)
			}
			m, err := FromHost(t.Components[i].Type, raw)
			if err != nil {
				return nil, fmt.Errorf("member %q: %w", t.Components[i].Name, err)
			}
			members[i] = m
		}
		return members, nil
	}

	switch x := host.(type) {
	case json.OrderedObject:
		return byName(func(name string) (any, bool) {
			for i := range x {
				if x[i].Key == name {
					return x[i].Value, true
				}
			}
			return nil, false
		})
	case map[string]any:
		return byName(func(name string) (any, bool) {
			raw, ok := x[name]
			return raw, ok
		})
	case []any:
		if len(x) != len(t.Components) {
			return nil, fmt.Errorf("%w: %d values for %d tuple components", ErrArityMismatch, len(x), len(t.Components))
		}
		members := make([]abi.Value, len(x))
		for i := range x {
			m, err := FromHost(t.Components[i].Type, x[i])
			if err != nil {
				return nil, fmt.Errorf("member %q: %w", t.Components[i].Name, err)
			}
			members[i] = m
		}
		return members, nil
	default:
		return nil, hostErr(t, host)
	}
}

func hostMap(t abi.Type, host any) ([]abi.KeyValue, error) {
	pair := func(key string, raw any) (abi.KeyValue, error) {
		k, err := FromHost(*t.Key, key)
		if err != nil {
			return abi.KeyValue{}, fmt.Errorf("key %q: %w", key, err)
		}
		v, err := FromHost(*t.Val, raw)
		if err != nil {
			return abi.KeyValue{}, fmt.Errorf("value of %q: %w", key, err)
		}
		return abi.KeyValue{Key: k, Value: v}, nil
	}

	switch x := host.(type) {
	case json.OrderedObject:
		pairs := make([]abi.KeyValue, len(x))
		for i := range x {
			kv, err := pair(x[i].Key, x[i].Value)
			if err != nil {
				return nil, err
			}
			pairs[i] = kv
		}
		return pairs, nil
	case map[string]any:
		// No inherent order, sort keys for a deterministic encoding.
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		pairs := make([]abi.KeyValue, len(keys))
		for i, k := range keys {
			kv, err := pair(k, x[k])
			if err != nil {
				return nil, err
			}
			pairs[i] = kv
		}
		return pairs, nil
	default:
		return nil, hostErr(t, host)
	}
}

// keyString renders a map key in its textual form.
func keyString(k abi.Value) string {
	switch k.Type.Kind {
	case abi.AddressT:
		return k.Value.(util.Address).String()
	default:
		return k.Value.(*big.Int).String()
	}
}

func hostErr(t abi.Type, host any) error {
	return fmt.Errorf("%w: %T value for %s", ErrTypeMismatch, host, t)
}
