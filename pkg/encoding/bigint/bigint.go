// Package bigint implements fixed-width big-endian integer encoding.
// Integers are carried as big.Int values so that widths above 64 bits
// round-trip without overflow; unsigned values up to 256 bits take a
// uint256-based fast path on decode.
package bigint

import (
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
)

// MaxBits is the widest integer type supported by the ABI.
const MaxBits = 256

var bigOne = big.NewInt(1)

// ByteLen returns the number of bytes occupied by an integer of the
// given bit width.
func ByteLen(bits uint16) int {
	return (int(bits) + 7) / 8
}

// CheckUnsigned verifies that v fits into an unsigned integer of the
// given bit width.
func CheckUnsigned(v *big.Int, bits uint16) error {
	if v.Sign() < 0 {
		return fmt.Errorf("negative value for uint%d", bits)
	}
	if v.BitLen() > int(bits) {
		return fmt.Errorf("value %s does not fit into uint%d", v, bits)
	}
	return nil
}

// CheckSigned verifies that v fits into a signed two's-complement
// integer of the given bit width.
func CheckSigned(v *big.Int, bits uint16) error {
	bound := new(big.Int).Lsh(bigOne, uint(bits)-1)
	if v.Sign() >= 0 {
		if v.Cmp(bound) >= 0 {
			return fmt.Errorf("value %s does not fit into int%d", v, bits)
		}
		return nil
	}
	if new(big.Int).Neg(v).Cmp(bound) > 0 {
		return fmt.Errorf("value %s does not fit into int%d", v, bits)
	}
	return nil
}

// ToBytesUnsigned converts v to a zero-extended big-endian representation
// of the given bit width. The value must pass CheckUnsigned.
func ToBytesUnsigned(v *big.Int, bits uint16) []byte {
	return v.FillBytes(make([]byte, ByteLen(bits)))
}

// ToBytesSigned converts v to a sign-extended big-endian two's-complement
// representation of the given bit width. The value must pass CheckSigned.
func ToBytesSigned(v *big.Int, bits uint16) []byte {
	if v.Sign() >= 0 {
		return v.FillBytes(make([]byte, ByteLen(bits)))
	}
	compl := new(big.Int).Lsh(bigOne, uint(ByteLen(bits))*8)
	compl.Add(compl, v)
	return compl.FillBytes(make([]byte, ByteLen(bits)))
}

// ToBytesVarUnsigned converts v to its minimal big-endian representation,
// empty for zero. The value must be non-negative.
func ToBytesVarUnsigned(v *big.Int) []byte {
	return v.Bytes()
}

// ToBytesVarSigned converts v to its minimal big-endian two's-complement
// representation, empty for zero.
func ToBytesVarSigned(v *big.Int) []byte {
	if v.Sign() == 0 {
		return []byte{}
	}
	abs := new(big.Int).Abs(v)
	bits := abs.BitLen() + 1
	if v.Sign() < 0 && abs.TrailingZeroBits() == uint(abs.BitLen()-1) {
		bits-- // -2^k packs into k+1 bits.
	}
	n := (bits + 7) / 8
	return ToBytesSigned(v, uint16(n*8))
}

// FromBytesUnsigned converts big-endian data to an unsigned integer.
func FromBytesUnsigned(data []byte) *big.Int {
	if len(data) == 0 {
		return new(big.Int)
	}
	if len(data) <= 32 {
		return new(uint256.Int).SetBytes(data).ToBig()
	}
	return new(big.Int).SetBytes(data)
}

// FromBytesSigned converts big-endian two's-complement data to an integer.
func FromBytesSigned(data []byte) *big.Int {
	v := new(big.Int).SetBytes(data)
	if len(data) == 0 || data[0]&0x80 == 0 {
		return v
	}
	compl := new(big.Int).Lsh(bigOne, uint(len(data))*8)
	return v.Sub(v, compl)
}
