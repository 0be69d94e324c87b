package io

// Serializable defines the binary encoding/decoding interface. Errors are
// carried by the reader/writer, so implementations only need to check them
// when the result affects control flow.
type Serializable interface {
	DecodeBinary(*BinReader)
	EncodeBinary(*BinWriter)
}

// ToByteArray serializes s to a byte slice.
func ToByteArray(s Serializable) ([]byte, error) {
	w := NewBufBinWriter()
	s.EncodeBinary(w.BinWriter)
	if w.Err != nil {
		return nil, w.Err
	}
	return w.Bytes(), nil
}

// FromByteArray deserializes s from the given byte slice.
func FromByteArray(s Serializable, data []byte) error {
	r := NewBinReaderFromBuf(data)
	s.DecodeBinary(r)
	return r.Err
}
