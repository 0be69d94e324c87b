package codec

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	json "github.com/nspcc-dev/go-ordered-json"
	"github.com/tvmkit/tvmabi/pkg/abi"
)

func TestFromHostScalars(t *testing.T) {
	v, err := FromHost(mustType(t, "bool"), true)
	require.NoError(t, err)
	assert.Equal(t, true, v.Value)

	v, err = FromHost(mustType(t, "bool"), "false")
	require.NoError(t, err)
	assert.Equal(t, false, v.Value)

	for _, host := range []any{big.NewInt(1000), 1000, int64(1000), uint64(1000), float64(1000), "1000", "0x3e8", json.Number("1000")} {
		v, err = FromHost(mustType(t, "uint128"), host)
		require.NoError(t, err, "%T", host)
		assert.Zero(t, big.NewInt(1000).Cmp(v.Value.(*big.Int)), "%T", host)
	}

	v, err = FromHost(mustType(t, "address"), testAddr.String())
	require.NoError(t, err)
	assert.Equal(t, testAddr, v.Value)

	v, err = FromHost(mustType(t, "bytes"), "0102ff")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 0xff}, v.Value)

	v, err = FromHost(mustType(t, "string"), "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", v.Value)
}

func TestFromHostErrors(t *testing.T) {
	_, err := FromHost(mustType(t, "bool"), 42)
	require.ErrorIs(t, err, ErrTypeMismatch)

	_, err = FromHost(mustType(t, "uint128"), 3.14)
	require.ErrorIs(t, err, ErrValueOutOfRange)

	_, err = FromHost(mustType(t, "uint128"), "not a number")
	require.ErrorIs(t, err, ErrTypeMismatch)

	_, err = FromHost(mustType(t, "address"), "bogus")
	require.ErrorIs(t, err, ErrTypeMismatch)

	_, err = FromHost(mustType(t, "bytes"), "zz")
	require.ErrorIs(t, err, ErrTypeMismatch)

	_, err = FromHost(mustType(t, "uint8[]"), "not a slice")
	require.ErrorIs(t, err, ErrTypeMismatch)
}

func TestFromHostComposites(t *testing.T) {
	v, err := FromHost(mustType(t, "uint8[]"), []any{1, 2, 3})
	require.NoError(t, err)
	elems := v.Value.([]abi.Value)
	require.Len(t, elems, 3)
	assert.Zero(t, big.NewInt(2).Cmp(elems[1].Value.(*big.Int)))

	v, err = FromHost(mustType(t, "optional(uint8)"), nil)
	require.NoError(t, err)
	assert.Equal(t, (*abi.Value)(nil), v.Value)

	v, err = FromHost(mustType(t, "optional(uint8)"), 7)
	require.NoError(t, err)
	require.NotNil(t, v.Value.(*abi.Value))

	v, err = FromHost(mustType(t, "map(uint8,bool)"), map[string]any{"2": true, "1": false})
	require.NoError(t, err)
	pairs := v.Value.([]abi.KeyValue)
	require.Len(t, pairs, 2)
	// Plain maps are sorted by key for a deterministic encoding.
	assert.Zero(t, big.NewInt(1).Cmp(pairs[0].Key.Value.(*big.Int)))
	assert.Zero(t, big.NewInt(2).Cmp(pairs[1].Key.Value.(*big.Int)))
}

func TestFromHostTuple(t *testing.T) {
	tup := abi.Type{Kind: abi.TupleT, Components: []abi.Param{
		abi.NewParam("addr", mustType(t, "address")),
		abi.NewParam("value", mustType(t, "uint128")),
	}}

	byName, err := FromHost(tup, map[string]any{
		"addr":  testAddr.String(),
		"value": 5,
	})
	require.NoError(t, err)

	ordered, err := FromHost(tup, json.OrderedObject{
		{Key: "value", Value: 5},
		{Key: "addr", Value: testAddr.String()},
	})
	require.NoError(t, err)
	// Members follow the schema order, not the host order.
	assert.Equal(t, byName, ordered)

	positional, err := FromHost(tup, []any{testAddr.String(), 5})
	require.NoError(t, err)
	assert.Equal(t, byName, positional)

	_, err = FromHost(tup, map[string]any{"addr": testAddr.String()})
	require.ErrorIs(t, err, ErrArityMismatch)

	_, err = FromHost(tup, []any{testAddr.String()})
	require.ErrorIs(t, err, ErrArityMismatch)
}

func TestToHost(t *testing.T) {
	assert.Equal(t, true, ToHost(abi.NewValue(mustType(t, "bool"), true)))
	assert.Equal(t, testAddr.String(), ToHost(abi.NewValue(mustType(t, "address"), testAddr)))
	assert.Equal(t, "0102", ToHost(abi.NewValue(mustType(t, "bytes"), []byte{1, 2})))
	assert.Nil(t, ToHost(abi.NewValue(mustType(t, "optional(uint8)"), (*abi.Value)(nil))))

	tup := abi.Type{Kind: abi.TupleT, Components: []abi.Param{
		abi.NewParam("a", mustType(t, "uint8")),
		abi.NewParam("b", mustType(t, "bool")),
	}}
	host := ToHost(abi.NewValue(tup, []abi.Value{
		abi.NewValue(mustType(t, "uint8"), big.NewInt(9)),
		abi.NewValue(mustType(t, "bool"), true),
	}))
	obj, ok := host.(json.OrderedObject)
	require.True(t, ok)
	require.Len(t, obj, 2)
	assert.Equal(t, "a", obj[0].Key)
	assert.Equal(t, "b", obj[1].Key)
}

func TestHostRoundTripThroughCodec(t *testing.T) {
	f := testFunction(t, "transfer")

	vals, err := FromHostValues(f.Inputs, []any{testAddr.String(), 1000})
	require.NoError(t, err)

	body, err := Encode(f, Input, vals)
	require.NoError(t, err)
	decoded, err := Decode(f, Input, body)
	require.NoError(t, err)

	host := ToHostValues(f.Inputs, decoded)
	require.Len(t, host, 2)
	assert.Equal(t, "to", host[0].Key)
	assert.Equal(t, testAddr.String(), host[0].Value)
	assert.Equal(t, "amount", host[1].Key)
	assert.Zero(t, big.NewInt(1000).Cmp(host[1].Value.(*big.Int)))
}

func TestKeyString(t *testing.T) {
	assert.Equal(t, "7", keyString(abi.NewValue(mustType(t, "uint8"), big.NewInt(7))))
	assert.Equal(t, testAddr.String(), keyString(abi.NewValue(mustType(t, "address"), testAddr)))
}
