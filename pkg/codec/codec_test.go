package codec

import (
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tvmkit/tvmabi/pkg/abi"
	"github.com/tvmkit/tvmabi/pkg/abi/schema"
	"github.com/tvmkit/tvmabi/pkg/util"
)

const transferABI = `{
	"ABI version": 2,
	"functions": [
		{
			"name": "transfer",
			"inputs": [
				{"name": "to", "type": "address"},
				{"name": "amount", "type": "uint128"}
			],
			"outputs": []
		},
		{
			"name": "describe",
			"inputs": [
				{"name": "flag", "type": "bool"},
				{"name": "note", "type": "string"},
				{"name": "payload", "type": "cell"},
				{"name": "checksum", "type": "fixedbytes4"},
				{"name": "delta", "type": "int64"},
				{"name": "fee", "type": "varuint16"},
				{"name": "tags", "type": "uint8[]"},
				{"name": "hint", "type": "optional(string)"},
				{"name": "balances", "type": "map(address,uint128)"}
			],
			"outputs": [
				{"name": "ok", "type": "bool"}
			]
		},
		{
			"name": "register",
			"inputs": [
				{"name": "info", "type": "tuple", "components": [
					{"name": "owner", "type": "address"},
					{"name": "stake", "type": "uint128"},
					{"name": "keys", "type": "uint256[2]"}
				]}
			],
			"outputs": []
		}
	]
}`

var testAddr = mustAddr("0:" + strings.Repeat("ab", 32))

func mustAddr(s string) util.Address {
	a, err := util.AddressFromString(s)
	if err != nil {
		panic(err)
	}
	return a
}

func testFunction(t *testing.T, name string) *schema.Function {
	t.Helper()
	d, err := schema.ParseDefinition([]byte(transferABI))
	require.NoError(t, err)
	f := d.GetFunction(name)
	require.NotNil(t, f)
	return f
}

func mustType(t *testing.T, decl string) abi.Type {
	t.Helper()
	typ, err := abi.ParseType(decl)
	require.NoError(t, err)
	return typ
}

func TestTransferRoundTrip(t *testing.T) {
	f := testFunction(t, "transfer")

	vals := []abi.Value{
		abi.NewValue(mustType(t, "address"), testAddr),
		abi.NewValue(mustType(t, "uint128"), big.NewInt(1000)),
	}
	body, err := Encode(f, Input, vals)
	require.NoError(t, err)
	require.NotEmpty(t, body)

	decoded, err := Decode(f, Input, body)
	require.NoError(t, err)
	assert.Equal(t, vals, decoded)
}

func TestEmptyOutputIsAbsent(t *testing.T) {
	f := testFunction(t, "transfer")

	body, err := Encode(f, Output, nil)
	require.NoError(t, err)
	require.Empty(t, body)

	decoded, err := Decode(f, Output, body)
	require.NoError(t, err)
	assert.Nil(t, decoded)
}

func TestAllTypesRoundTrip(t *testing.T) {
	f := testFunction(t, "describe")

	hint := abi.NewValue(mustType(t, "string"), "be careful")
	vals := []abi.Value{
		abi.NewValue(mustType(t, "bool"), true),
		abi.NewValue(mustType(t, "string"), "note text"),
		abi.NewValue(mustType(t, "cell"), []byte{0xb5, 0xee, 0x9c, 0x72}),
		abi.NewValue(mustType(t, "fixedbytes4"), []byte{1, 2, 3, 4}),
		abi.NewValue(mustType(t, "int64"), big.NewInt(-42)),
		abi.NewValue(mustType(t, "varuint16"), big.NewInt(100500)),
		abi.NewValue(mustType(t, "uint8[]"), []abi.Value{
			abi.NewValue(mustType(t, "uint8"), big.NewInt(1)),
			abi.NewValue(mustType(t, "uint8"), big.NewInt(2)),
		}),
		abi.NewValue(mustType(t, "optional(string)"), &hint),
		abi.NewValue(mustType(t, "map(address,uint128)"), []abi.KeyValue{
			{
				Key:   abi.NewValue(mustType(t, "address"), testAddr),
				Value: abi.NewValue(mustType(t, "uint128"), big.NewInt(7)),
			},
		}),
	}

	body, err := Encode(f, Input, vals)
	require.NoError(t, err)
	decoded, err := Decode(f, Input, body)
	require.NoError(t, err)
	assert.Equal(t, vals, decoded)

	out := []abi.Value{abi.NewValue(mustType(t, "bool"), false)}
	body, err = Encode(f, Output, out)
	require.NoError(t, err)
	decoded, err = Decode(f, Output, body)
	require.NoError(t, err)
	assert.Equal(t, out, decoded)
}

func TestAbsentOptionalRoundTrip(t *testing.T) {
	f := testFunction(t, "describe")

	vals := []abi.Value{
		abi.NewValue(mustType(t, "bool"), false),
		abi.NewValue(mustType(t, "string"), ""),
		abi.NewValue(mustType(t, "cell"), []byte{}),
		abi.NewValue(mustType(t, "fixedbytes4"), []byte{0, 0, 0, 0}),
		abi.NewValue(mustType(t, "int64"), big.NewInt(0)),
		abi.NewValue(mustType(t, "varuint16"), big.NewInt(0)),
		abi.NewValue(mustType(t, "uint8[]"), []abi.Value{}),
		abi.NewValue(mustType(t, "optional(string)"), (*abi.Value)(nil)),
		abi.NewValue(mustType(t, "map(address,uint128)"), []abi.KeyValue{}),
	}

	body, err := Encode(f, Input, vals)
	require.NoError(t, err)
	decoded, err := Decode(f, Input, body)
	require.NoError(t, err)
	assert.Equal(t, vals, decoded)
}

func TestTupleRoundTrip(t *testing.T) {
	f := testFunction(t, "register")

	u256 := mustType(t, "uint256")
	info := abi.NewValue(f.Inputs[0].Type, []abi.Value{
		abi.NewValue(mustType(t, "address"), testAddr),
		abi.NewValue(mustType(t, "uint128"), big.NewInt(1_000_000)),
		abi.NewValue(f.Inputs[0].Type.Components[2].Type, []abi.Value{
			abi.NewValue(u256, new(big.Int).Lsh(big.NewInt(1), 255)),
			abi.NewValue(u256, big.NewInt(2)),
		}),
	})

	body, err := Encode(f, Input, []abi.Value{info})
	require.NoError(t, err)
	decoded, err := Decode(f, Input, body)
	require.NoError(t, err)
	assert.Equal(t, []abi.Value{info}, decoded)
}

func TestEncodeArityMismatch(t *testing.T) {
	f := testFunction(t, "transfer")

	_, err := Encode(f, Input, []abi.Value{
		abi.NewValue(mustType(t, "address"), testAddr),
	})
	require.ErrorIs(t, err, ErrArityMismatch)

	_, err = Encode(f, Input, []abi.Value{
		abi.NewValue(mustType(t, "address"), testAddr),
		abi.NewValue(mustType(t, "uint128"), big.NewInt(1)),
		abi.NewValue(mustType(t, "uint128"), big.NewInt(2)),
	})
	require.ErrorIs(t, err, ErrArityMismatch)
}

func TestEncodeValueOutOfRange(t *testing.T) {
	f := testFunction(t, "transfer")

	over := new(big.Int).Lsh(big.NewInt(1), 128) // 2^128 does not fit uint128
	_, err := Encode(f, Input, []abi.Value{
		abi.NewValue(mustType(t, "address"), testAddr),
		abi.NewValue(mustType(t, "uint128"), over),
	})
	require.ErrorIs(t, err, ErrValueOutOfRange)

	_, err = Encode(f, Input, []abi.Value{
		abi.NewValue(mustType(t, "address"), testAddr),
		abi.NewValue(mustType(t, "uint128"), big.NewInt(-1)),
	})
	require.ErrorIs(t, err, ErrValueOutOfRange)
}

func TestEncodeTypeMismatch(t *testing.T) {
	f := testFunction(t, "transfer")

	// A scalar where the signature wants an address.
	_, err := Encode(f, Input, []abi.Value{
		abi.NewValue(mustType(t, "uint128"), big.NewInt(5)),
		abi.NewValue(mustType(t, "uint128"), big.NewInt(1000)),
	})
	require.ErrorIs(t, err, ErrTypeMismatch)

	// Right type, wrong payload.
	_, err = Encode(f, Input, []abi.Value{
		abi.NewValue(mustType(t, "address"), "not an address struct"),
		abi.NewValue(mustType(t, "uint128"), big.NewInt(1000)),
	})
	require.ErrorIs(t, err, ErrTypeMismatch)
}

func TestDecodeTruncated(t *testing.T) {
	f := testFunction(t, "transfer")

	vals := []abi.Value{
		abi.NewValue(mustType(t, "address"), testAddr),
		abi.NewValue(mustType(t, "uint128"), big.NewInt(1000)),
	}
	body, err := Encode(f, Input, vals)
	require.NoError(t, err)

	for _, cut := range []int{1, 4, 5, len(body) - 1} {
		_, err = Decode(f, Input, body[:cut])
		require.ErrorIs(t, err, ErrTruncatedInput, "cut at %d", cut)
	}

	_, err = Decode(f, Input, nil)
	require.ErrorIs(t, err, ErrTruncatedInput)
}

func TestDecodeSelectorMismatch(t *testing.T) {
	f := testFunction(t, "transfer")

	vals := []abi.Value{
		abi.NewValue(mustType(t, "address"), testAddr),
		abi.NewValue(mustType(t, "uint128"), big.NewInt(1000)),
	}
	body, err := Encode(f, Input, vals)
	require.NoError(t, err)

	bad := append([]byte{0xde, 0xad, 0xbe, 0xef}, body[4:]...)
	_, err = Decode(f, Input, bad)
	require.ErrorIs(t, err, ErrTypeMismatch)

	// An input body is not an output body.
	_, err = Decode(f, Output, body)
	require.ErrorIs(t, err, ErrTypeMismatch)
}

func TestDecodeTagMismatch(t *testing.T) {
	f := testFunction(t, "transfer")

	vals := []abi.Value{
		abi.NewValue(mustType(t, "address"), testAddr),
		abi.NewValue(mustType(t, "uint128"), big.NewInt(1000)),
	}
	body, err := Encode(f, Input, vals)
	require.NoError(t, err)

	// Corrupt the tag of the first parameter.
	bad := append([]byte{}, body...)
	bad[4] = byte(abi.StringT)
	_, err = Decode(f, Input, bad)
	require.ErrorIs(t, err, ErrTypeMismatch)
}

func TestDecodeTrailingData(t *testing.T) {
	f := testFunction(t, "transfer")

	vals := []abi.Value{
		abi.NewValue(mustType(t, "address"), testAddr),
		abi.NewValue(mustType(t, "uint128"), big.NewInt(1000)),
	}
	body, err := Encode(f, Input, vals)
	require.NoError(t, err)

	_, err = Decode(f, Input, append(body, 0x00))
	require.ErrorIs(t, err, ErrTypeMismatch)
}

func TestParamsRoundTrip(t *testing.T) {
	params := []abi.Param{
		abi.NewParam("_pubkey", mustType(t, "uint256")),
		abi.NewParam("_timestamp", mustType(t, "uint64")),
	}
	vals := []abi.Value{
		abi.NewValue(params[0].Type, new(big.Int).SetBytes(testAddr.Hash[:])),
		abi.NewValue(params[1].Type, big.NewInt(1700000000000)),
	}

	data, err := EncodeParams(params, vals)
	require.NoError(t, err)
	decoded, err := DecodeParams(params, data)
	require.NoError(t, err)
	assert.Equal(t, vals, decoded)

	decoded, err = DecodeParams(nil, nil)
	require.NoError(t, err)
	assert.Nil(t, decoded)
}

func TestEventRoundTrip(t *testing.T) {
	d, err := schema.ParseDefinition([]byte(`{
		"functions": [],
		"events": [
			{"name": "Deposit", "inputs": [
				{"name": "from", "type": "address"},
				{"name": "amount", "type": "uint128"}
			]}
		]
	}`))
	require.NoError(t, err)
	e := d.GetEvent("Deposit")
	require.NotNil(t, e)

	vals := []abi.Value{
		abi.NewValue(mustType(t, "address"), testAddr),
		abi.NewValue(mustType(t, "uint128"), big.NewInt(5)),
	}
	body, err := EncodeEvent(e, vals)
	require.NoError(t, err)
	decoded, err := DecodeEvent(e, body)
	require.NoError(t, err)
	assert.Equal(t, vals, decoded)
}
