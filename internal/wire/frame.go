package wire

import "fmt"

// Target is the addressing quintuple carried in every request and echoed in
// every response (spec.md §3).
type Target struct {
	Network   uint8
	PC        uint8
	IO        uint16
	Multidrop uint8
}

// maxFrameBytes is the binary-mode wire limit (spec.md §4.1).
const maxFrameBytes = 8194

// BuildRequest assembles one complete outbound frame for a single transport
// write. seq is ignored for Frame3E (no sequence number on the wire).
func BuildRequest(enc Encoding, kind FrameKind, seq uint16, target Target, monitorTimer uint16, command, subcommand uint16, payload []byte) ([]byte, error) {
	if enc == Binary {
		return buildBinary(kind, seq, target, monitorTimer, command, subcommand, payload)
	}
	return buildASCII(kind, seq, target, monitorTimer, command, subcommand, payload)
}

func buildBinary(kind FrameKind, seq uint16, target Target, monitorTimer uint16, command, subcommand uint16, payload []byte) ([]byte, error) {
	out := make([]byte, 0, 32+len(payload))
	if kind == Frame4E {
		out = append(out, 0x54, 0x00)
		out = PutUint16LE(out, seq)
		out = append(out, 0x00, 0x00)
	} else {
		out = append(out, 0x50, 0x00)
	}
	out = append(out, target.Network, target.PC)
	out = PutUint16LE(out, target.IO)
	out = append(out, target.Multidrop)

	length := len(payload) + 6
	if length > 0xFFFF {
		return nil, fmt.Errorf("wire: payload too large (%d bytes)", len(payload))
	}
	out = PutUint16LE(out, uint16(length))
	out = PutUint16LE(out, monitorTimer)
	out = PutUint16LE(out, command)
	out = PutUint16LE(out, subcommand)
	out = append(out, payload...)

	if len(out) >= maxFrameBytes {
		return nil, fmt.Errorf("wire: frame of %d bytes exceeds the %d byte limit", len(out), maxFrameBytes)
	}
	return out, nil
}

func buildASCII(kind FrameKind, seq uint16, target Target, monitorTimer uint16, command, subcommand uint16, payload []byte) ([]byte, error) {
	var out []byte
	if kind == Frame4E {
		out = append(out, "5400"...)
		out = append(out, HexUpper(uint64(seq), 4)...)
		out = append(out, "0000"...)
	} else {
		out = append(out, "5000"...)
	}
	out = append(out, HexUpper(uint64(target.Network), 2)...)
	out = append(out, HexUpper(uint64(target.PC), 2)...)
	out = append(out, HexUpper(uint64(target.IO), 4)...)
	out = append(out, HexUpper(uint64(target.Multidrop), 2)...)

	length := len(payload) + 12
	if length > 0xFFFF {
		return nil, fmt.Errorf("wire: payload too large (%d chars)", len(payload))
	}
	out = append(out, HexUpper(uint64(length), 4)...)
	out = append(out, HexUpper(uint64(monitorTimer), 4)...)
	out = append(out, HexUpper(uint64(command), 4)...)
	out = append(out, HexUpper(uint64(subcommand), 4)...)
	out = append(out, payload...)

	if len(out) >= maxFrameBytes {
		return nil, fmt.Errorf("wire: frame of %d bytes exceeds the %d byte limit", len(out), maxFrameBytes)
	}
	return out, nil
}
