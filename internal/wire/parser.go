package wire

import "fmt"

// Record is a single fully parsed response frame.
type Record struct {
	Encoding Encoding
	Kind     FrameKind
	Seq      uint16
	Target   Target
	EndCode  uint16
	Body     []byte // binary: raw body bytes. ASCII: raw ASCII hex-digit characters.
}

// maxCarryBytes bounds the parser's internal buffer (twice the largest
// legal frame) so a malformed or runaway stream can't grow it forever.
const maxCarryBytes = 2 * maxFrameBytes

// ProtocolError reports bytes the parser could not reconcile with any known
// frame variant, a bad fixed constant, or a carry-buffer overflow. A short
// (incomplete) frame is not an error: Parser.Next simply returns (nil, nil)
// and waits for more bytes.
type ProtocolError struct {
	Msg string
}

func (e *ProtocolError) Error() string { return "wire: protocol error: " + e.Msg }

// Parser accumulates bytes from an arbitrarily chunked stream and emits
// Records in wire order (FIFO). It performs no I/O itself.
type Parser struct {
	carry []byte
}

// Feed appends newly read bytes to the internal carry buffer.
func (p *Parser) Feed(b []byte) error {
	if len(p.carry)+len(b) > maxCarryBytes {
		return &ProtocolError{Msg: fmt.Sprintf("carry buffer would exceed %d bytes", maxCarryBytes)}
	}
	p.carry = append(p.carry, b...)
	return nil
}

// Next attempts to extract one Record from the carry buffer. A nil Record
// with a nil error means "not enough data yet" — the carry is left intact
// for the next Feed.
func (p *Parser) Next() (*Record, error) {
	if len(p.carry) == 0 {
		return nil, nil
	}

	switch p.carry[0] {
	case 'D':
		return p.nextASCII()
	case 0xD0, 0xD4:
		return p.nextBinary()
	default:
		return nil, &ProtocolError{Msg: fmt.Sprintf("unrecognized leading byte 0x%02X", p.carry[0])}
	}
}

func (p *Parser) nextBinary() (*Record, error) {
	var kind FrameKind
	var headerLen int
	var seq uint16

	switch p.carry[0] {
	case 0xD0:
		if len(p.carry) < 2 {
			return nil, nil
		}
		if p.carry[1] != 0x00 {
			return nil, &ProtocolError{Msg: "bad 3E binary subheader second byte"}
		}
		kind, headerLen = Frame3E, 2
	case 0xD4:
		if len(p.carry) < 6 {
			return nil, nil
		}
		if p.carry[1] != 0x00 {
			return nil, &ProtocolError{Msg: "bad 4E binary subheader second byte"}
		}
		if p.carry[4] != 0x00 || p.carry[5] != 0x00 {
			return nil, &ProtocolError{Msg: "bad 4E binary reserved bytes"}
		}
		seq = Uint16LE(p.carry[2:4])
		kind, headerLen = Frame4E, 6
	}

	if len(p.carry) < headerLen+9 {
		return nil, nil
	}
	rest := p.carry[headerLen:]
	target := Target{
		Network:   rest[0],
		PC:        rest[1],
		IO:        Uint16LE(rest[2:4]),
		Multidrop: rest[4],
	}
	length := int(Uint16LE(rest[5:7]))
	endCode := Uint16LE(rest[7:9])

	bodyLen := length - 2
	if bodyLen < 0 {
		return nil, &ProtocolError{Msg: fmt.Sprintf("invalid binary length field %d", length)}
	}
	total := headerLen + 9 + bodyLen
	if len(p.carry) < total {
		return nil, nil
	}

	body := append([]byte(nil), p.carry[headerLen+9:total]...)
	p.carry = p.carry[total:]

	return &Record{Encoding: Binary, Kind: kind, Seq: seq, Target: target, EndCode: endCode, Body: body}, nil
}

func (p *Parser) nextASCII() (*Record, error) {
	const fixedHeaderPeek = 22
	if len(p.carry) < fixedHeaderPeek {
		return nil, nil
	}
	if p.carry[1] != '0' && p.carry[1] != '4' {
		return nil, &ProtocolError{Msg: fmt.Sprintf("unrecognized ASCII frame kind %q", p.carry[1])}
	}

	var kind FrameKind
	var headerLen int
	var seq uint16
	if p.carry[1] == '0' {
		kind, headerLen = Frame3E, 4
	} else {
		kind, headerLen = Frame4E, 12
		seqVal, _, err := ParseHexUpper(string(p.carry[4:8]), 4)
		if err != nil {
			return nil, &ProtocolError{Msg: "bad 4E ASCII sequence: " + err.Error()}
		}
		seq = uint16(seqVal)
	}

	const fixedFieldsLen = 18 // network(2) pc(2) io(4) multidrop(2) length(4) endcode(4)
	if len(p.carry) < headerLen+fixedFieldsLen {
		return nil, nil
	}
	rest := string(p.carry[headerLen : headerLen+fixedFieldsLen])

	network, rest, err := ParseHexUpper(rest, 2)
	if err != nil {
		return nil, &ProtocolError{Msg: err.Error()}
	}
	pc, rest, err := ParseHexUpper(rest, 2)
	if err != nil {
		return nil, &ProtocolError{Msg: err.Error()}
	}
	io, rest, err := ParseHexUpper(rest, 4)
	if err != nil {
		return nil, &ProtocolError{Msg: err.Error()}
	}
	multidrop, rest, err := ParseHexUpper(rest, 2)
	if err != nil {
		return nil, &ProtocolError{Msg: err.Error()}
	}
	length, rest, err := ParseHexUpper(rest, 4)
	if err != nil {
		return nil, &ProtocolError{Msg: err.Error()}
	}
	endCode, _, err := ParseHexUpper(rest, 4)
	if err != nil {
		return nil, &ProtocolError{Msg: err.Error()}
	}

	bodyLen := int(length) - 4
	if bodyLen < 0 {
		return nil, &ProtocolError{Msg: fmt.Sprintf("invalid ASCII length field %d", length)}
	}
	total := headerLen + fixedFieldsLen + bodyLen
	if len(p.carry) < total {
		return nil, nil
	}

	body := append([]byte(nil), p.carry[headerLen+fixedFieldsLen:total]...)
	p.carry = p.carry[total:]

	target := Target{Network: uint8(network), PC: uint8(pc), IO: uint16(io), Multidrop: uint8(multidrop)}
	return &Record{Encoding: ASCII, Kind: kind, Seq: seq, Target: target, EndCode: uint16(endCode), Body: body}, nil
}
