package codec

import (
	"bytes"
	"encoding/binary"
	"fmt"

	bin "github.com/gagliardetto/binary"
)

// FieldReader walks a byte buffer of fixed-width and u32-length-prefixed
// fields. All reads are bounds checked and return an error instead of
// panicking on truncated input.
type FieldReader struct {
	dec *bin.Decoder
}

// NewFieldReader returns a reader positioned at the start of data.
func NewFieldReader(data []byte) *FieldReader {
	return &FieldReader{dec: bin.NewBinDecoder(data)}
}

// Skip advances n bytes.
func (r *FieldReader) Skip(n int) error {
	if n > r.dec.Remaining() {
		return fmt.Errorf("skip %d bytes: only %d remaining", n, r.dec.Remaining())
	}
	return r.dec.SkipBytes(uint(n))
}

// Fixed reads exactly n bytes.
func (r *FieldReader) Fixed(n int) ([]byte, error) {
	if n > r.dec.Remaining() {
		return nil, fmt.Errorf("read %d bytes: only %d remaining", n, r.dec.Remaining())
	}
	return r.dec.ReadNBytes(n)
}

// PublicKey reads a 32-byte key and returns it base58 encoded.
func (r *FieldReader) PublicKey() (string, error) {
	b, err := r.Fixed(32)
	if err != nil {
		return "", err
	}
	return EncodeBase58(b), nil
}

// Prefixed reads a little-endian u32 length followed by that many bytes.
func (r *FieldReader) Prefixed() ([]byte, error) {
	if r.dec.Remaining() < 4 {
		return nil, fmt.Errorf("read length prefix: only %d remaining", r.dec.Remaining())
	}
	n, err := r.dec.ReadUint32(binary.LittleEndian)
	if err != nil {
		return nil, fmt.Errorf("read length prefix: %w", err)
	}
	if int64(n) > int64(r.dec.Remaining()) {
		return nil, fmt.Errorf("field length %d exceeds %d remaining bytes", n, r.dec.Remaining())
	}
	return r.dec.ReadNBytes(int(n))
}

// Remaining returns the number of unread bytes.
func (r *FieldReader) Remaining() int {
	return r.dec.Remaining()
}

// StripNulls removes every 0x00 byte from b.
func StripNulls(b []byte) []byte {
	return bytes.ReplaceAll(b, []byte{0}, nil)
}
