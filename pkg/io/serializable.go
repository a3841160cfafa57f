package io

// Serializable defines the binary encoding/decoding interface. Errors are
// returned via the Err field of the BinReader/BinWriter passed in.
type Serializable interface {
	DecodeBinary(*BinReader)
	EncodeBinary(*BinWriter)
}
