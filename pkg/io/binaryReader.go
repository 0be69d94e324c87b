package io

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// MaxArraySize is the maximum size of an array or byte slice
// that can be decoded with a single length prefix.
const MaxArraySize = 0x1000000

// BinReader is a convenient wrapper around an io.Reader and err object.
// Used to simplify error handling when reading into a struct with many
// fields. The first error encountered sticks and turns all subsequent
// reads into no-ops.
type BinReader struct {
	r   io.Reader
	u   [8]byte
	Err error
}

// NewBinReaderFromIO makes a BinReader from io.Reader.
func NewBinReaderFromIO(ior io.Reader) *BinReader {
	return &BinReader{r: ior}
}

// NewBinReaderFromBuf makes a BinReader from a byte slice.
func NewBinReaderFromBuf(b []byte) *BinReader {
	return NewBinReaderFromIO(bytes.NewReader(b))
}

// ReadB reads a single byte from the underlying reader.
func (r *BinReader) ReadB() byte {
	r.ReadBytes(r.u[:1])
	if r.Err != nil {
		return 0
	}
	return r.u[0]
}

// ReadBool reads a single byte and interprets any non-zero value as true.
func (r *BinReader) ReadBool() bool {
	return r.ReadB() != 0
}

// ReadU16BE reads a uint16 value from the underlying reader in
// big-endian format.
func (r *BinReader) ReadU16BE() uint16 {
	r.ReadBytes(r.u[:2])
	if r.Err != nil {
		return 0
	}
	return binary.BigEndian.Uint16(r.u[:2])
}

// ReadU32BE reads a uint32 value from the underlying reader in
// big-endian format.
func (r *BinReader) ReadU32BE() uint32 {
	r.ReadBytes(r.u[:4])
	if r.Err != nil {
		return 0
	}
	return binary.BigEndian.Uint32(r.u[:4])
}

// ReadU64BE reads a uint64 value from the underlying reader in
// big-endian format.
func (r *BinReader) ReadU64BE() uint64 {
	r.ReadBytes(r.u[:8])
	if r.Err != nil {
		return 0
	}
	return binary.BigEndian.Uint64(r.u[:8])
}

// ReadVarUint reads a variable-length-encoded integer from the
// underlying reader.
func (r *BinReader) ReadVarUint() uint64 {
	if r.Err != nil {
		return 0
	}

	var b = r.ReadB()

	if b == 0xfd {
		return uint64(r.ReadU16BE())
	}
	if b == 0xfe {
		return uint64(r.ReadU32BE())
	}
	if b == 0xff {
		return r.ReadU64BE()
	}

	return uint64(b)
}

// ReadVarBytes reads the next set of bytes from the underlying reader.
// ReadVarUint is used to determine how large that slice is. The length
// is checked against maxSize (MaxArraySize when not given).
func (r *BinReader) ReadVarBytes(maxSize ...int) []byte {
	n := r.ReadVarUint()
	ms := MaxArraySize
	if len(maxSize) != 0 {
		ms = maxSize[0]
	}
	if n > uint64(ms) {
		if r.Err == nil {
			r.Err = fmt.Errorf("byte-slice is too big (%d)", n)
		}
		return nil
	}
	b := make([]byte, n)
	r.ReadBytes(b)
	if r.Err != nil {
		return nil
	}
	return b
}

// ReadBytes copies a fixed-size buffer from the reader.
func (r *BinReader) ReadBytes(buf []byte) {
	if r.Err != nil {
		return
	}
	_, r.Err = io.ReadFull(r.r, buf)
}

// ReadString calls ReadVarBytes and casts the result to a string.
func (r *BinReader) ReadString(maxSize ...int) string {
	b := r.ReadVarBytes(maxSize...)
	return string(b)
}
