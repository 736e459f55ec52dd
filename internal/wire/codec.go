// Package wire implements the SLMP field, frame, device-address, and
// bit/BCD codecs shared by the binary and ASCII encodings of the 3E and 4E
// frame variants. Nothing in this package touches a socket; it is pure
// []byte/string transformation, which is what keeps it unit-testable
// without a live PLC.
package wire

import (
	"encoding/binary"
	"fmt"
	"strconv"
)

// Encoding selects how multi-byte fields are rendered on the wire.
type Encoding int

const (
	Binary Encoding = iota
	ASCII
)

// FrameKind selects the subheader/sequence-number layout.
type FrameKind int

const (
	Frame3E FrameKind = iota
	Frame4E
)

// PutUint16LE appends v as two little-endian bytes to dst.
func PutUint16LE(dst []byte, v uint16) []byte {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	return append(dst, b[:]...)
}

// PutUint32LE appends v as four little-endian bytes to dst.
func PutUint32LE(dst []byte, v uint32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return append(dst, b[:]...)
}

// Uint16LE reads a little-endian u16 from the front of b.
func Uint16LE(b []byte) uint16 { return binary.LittleEndian.Uint16(b) }

// Uint32LE reads a little-endian u32 from the front of b.
func Uint32LE(b []byte) uint32 { return binary.LittleEndian.Uint32(b) }

// HexUpper renders v as zero-padded uppercase hex of the given character
// width (e.g. width=4 -> "01F4"). Used for every ASCII-mode fixed-width
// field (network, pc, io, multidrop, length, timer, command, subcommand,
// addresses of hex-addressed devices, block sizes).
func HexUpper(v uint64, width int) string {
	return fmt.Sprintf("%0*X", width, v)
}

// ParseHexUpper parses exactly width hex characters from the front of s
// and returns the value plus the remaining string.
func ParseHexUpper(s string, width int) (uint64, string, error) {
	if len(s) < width {
		return 0, s, fmt.Errorf("wire: short hex field: need %d chars, have %d", width, len(s))
	}
	v, err := strconv.ParseUint(s[:width], 16, 64)
	if err != nil {
		return 0, s, fmt.Errorf("wire: invalid hex field %q: %w", s[:width], err)
	}
	return v, s[width:], nil
}

// Decimal renders v as zero-padded decimal of the given character width.
// Device read/write counts use decimal width 4; block sizes use hex width
// 4 instead (see DESIGN NOTES: Open question on inconsistent width).
func Decimal(v uint64, width int) string {
	return fmt.Sprintf("%0*d", width, v)
}

// ParseDecimal parses exactly width decimal characters from the front of s.
func ParseDecimal(s string, width int) (uint64, string, error) {
	if len(s) < width {
		return 0, s, fmt.Errorf("wire: short decimal field: need %d chars, have %d", width, len(s))
	}
	v, err := strconv.ParseUint(s[:width], 10, 64)
	if err != nil {
		return 0, s, fmt.Errorf("wire: invalid decimal field %q: %w", s[:width], err)
	}
	return v, s[width:], nil
}

// BytesToASCIIHex renders raw bytes as uppercase hex pairs, two characters
// per byte, high nibble first.
func BytesToASCIIHex(b []byte) string {
	const hexDigits = "0123456789ABCDEF"
	out := make([]byte, 0, len(b)*2)
	for _, c := range b {
		out = append(out, hexDigits[c>>4], hexDigits[c&0x0F])
	}
	return string(out)
}

// ASCIIHexToBytes decodes pairs of uppercase (or lowercase) hex digits into
// bytes. len(s) must be even.
func ASCIIHexToBytes(s string) ([]byte, error) {
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("wire: odd-length hex string %q", s)
	}
	out := make([]byte, len(s)/2)
	for i := range out {
		v, err := strconv.ParseUint(s[i*2:i*2+2], 16, 8)
		if err != nil {
			return nil, fmt.Errorf("wire: invalid hex byte %q: %w", s[i*2:i*2+2], err)
		}
		out[i] = byte(v)
	}
	return out, nil
}
