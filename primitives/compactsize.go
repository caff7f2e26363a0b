package primitives

import (
	"encoding/binary"
	"fmt"
)

// AppendCompactSize appends n to buf as a Bitcoin-style CompactSize varint,
// the same minimal-encoding scheme the teacher uses for every
// length-prefixed field (consensus/compactsize.go). Canonical encoding of
// transactions uses this varint for every repeated field and byte-string
// length; the block header encoding is fixed-width and does not use it.
func AppendCompactSize(buf []byte, n uint64) []byte {
	switch {
	case n < 0xfd:
		return append(buf, byte(n))
	case n <= 0xffff:
		buf = append(buf, 0xfd)
		var tmp [2]byte
		binary.LittleEndian.PutUint16(tmp[:], uint16(n))
		return append(buf, tmp[:]...)
	case n <= 0xffffffff:
		buf = append(buf, 0xfe)
		var tmp [4]byte
		binary.LittleEndian.PutUint32(tmp[:], uint32(n))
		return append(buf, tmp[:]...)
	default:
		buf = append(buf, 0xff)
		var tmp [8]byte
		binary.LittleEndian.PutUint64(tmp[:], n)
		return append(buf, tmp[:]...)
	}
}

// ReadCompactSize decodes one CompactSize value from the front of buf,
// rejecting non-minimal encodings, and returns the value plus the number
// of bytes consumed.
func ReadCompactSize(buf []byte) (uint64, int, error) {
	if len(buf) < 1 {
		return 0, 0, fmt.Errorf("primitives: compactsize: empty input")
	}
	tag := buf[0]
	switch {
	case tag < 0xfd:
		return uint64(tag), 1, nil
	case tag == 0xfd:
		if len(buf) < 3 {
			return 0, 0, fmt.Errorf("primitives: compactsize: truncated u16")
		}
		v := binary.LittleEndian.Uint16(buf[1:3])
		if v < 0xfd {
			return 0, 0, fmt.Errorf("primitives: compactsize: non-minimal 0xfd")
		}
		return uint64(v), 3, nil
	case tag == 0xfe:
		if len(buf) < 5 {
			return 0, 0, fmt.Errorf("primitives: compactsize: truncated u32")
		}
		v := binary.LittleEndian.Uint32(buf[1:5])
		if v <= 0xffff {
			return 0, 0, fmt.Errorf("primitives: compactsize: non-minimal 0xfe")
		}
		return uint64(v), 5, nil
	default:
		if len(buf) < 9 {
			return 0, 0, fmt.Errorf("primitives: compactsize: truncated u64")
		}
		v := binary.LittleEndian.Uint64(buf[1:9])
		if v <= 0xffffffff {
			return 0, 0, fmt.Errorf("primitives: compactsize: non-minimal 0xff")
		}
		return v, 9, nil
	}
}

// AppendBytes appends a CompactSize-prefixed byte string, the idiom every
// variable-length wire field in the teacher's encoder follows
// (consensus/encode.go's ScriptSig/Pubkey/Signature fields).
func AppendBytes(buf []byte, b []byte) []byte {
	buf = AppendCompactSize(buf, uint64(len(b)))
	return append(buf, b...)
}

// ReadBytes reads a CompactSize-prefixed byte string from the front of buf.
func ReadBytes(buf []byte) ([]byte, int, error) {
	n, consumed, err := ReadCompactSize(buf)
	if err != nil {
		return nil, 0, err
	}
	if uint64(len(buf)-consumed) < n {
		return nil, 0, fmt.Errorf("primitives: bytes: truncated (want %d, have %d)", n, len(buf)-consumed)
	}
	out := make([]byte, n)
	copy(out, buf[consumed:consumed+int(n)])
	return out, consumed + int(n), nil
}
