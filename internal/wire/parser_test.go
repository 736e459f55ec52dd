package wire

import "testing"

func TestParserScenario1BinaryResponse(t *testing.T) {
	raw := []byte{
		0xD4, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x01, 0x01, 0x01, 0x00, 0x01,
		0x06, 0x00, 0x00, 0x00,
		0x00, 0x01, 0x00, 0x11,
	}
	var p Parser
	if err := p.Feed(raw); err != nil {
		t.Fatalf("Feed error: %v", err)
	}
	rec, err := p.Next()
	if err != nil {
		t.Fatalf("Next error: %v", err)
	}
	if rec == nil {
		t.Fatal("Next returned nil record")
	}
	if rec.Kind != Frame4E || rec.Encoding != Binary {
		t.Fatalf("rec.Kind/Encoding = %v/%v, want Frame4E/Binary", rec.Kind, rec.Encoding)
	}
	if rec.Seq != 0 {
		t.Fatalf("rec.Seq = %d, want 0", rec.Seq)
	}
	wantTarget := Target{Network: 1, PC: 1, IO: 1, Multidrop: 1}
	if rec.Target != wantTarget {
		t.Fatalf("rec.Target = %+v, want %+v", rec.Target, wantTarget)
	}
	if rec.EndCode != 0 {
		t.Fatalf("rec.EndCode = %d, want 0", rec.EndCode)
	}
	wantBody := []byte{0x00, 0x01, 0x00, 0x11}
	if string(rec.Body) != string(wantBody) {
		t.Fatalf("rec.Body = % X, want % X", rec.Body, wantBody)
	}
}

func TestParserWaitsOnShortFrame(t *testing.T) {
	var p Parser
	if err := p.Feed([]byte{0xD4, 0x00, 0x00, 0x00}); err != nil {
		t.Fatalf("Feed error: %v", err)
	}
	rec, err := p.Next()
	if err != nil {
		t.Fatalf("Next error: %v", err)
	}
	if rec != nil {
		t.Fatal("Next should return nil for an incomplete frame")
	}
}

func TestParserFeedAcrossChunks(t *testing.T) {
	full := []byte{
		0xD0, 0x00,
		0x02, 0x02, 0x02, 0x00, 0x02,
		0x08, 0x00, 0x00, 0x00,
		0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF,
	}
	var p Parser
	if err := p.Feed(full[:5]); err != nil {
		t.Fatalf("Feed error: %v", err)
	}
	if rec, err := p.Next(); err != nil || rec != nil {
		t.Fatalf("Next on partial feed = (%v, %v), want (nil, nil)", rec, err)
	}
	if err := p.Feed(full[5:]); err != nil {
		t.Fatalf("Feed error: %v", err)
	}
	rec, err := p.Next()
	if err != nil {
		t.Fatalf("Next error: %v", err)
	}
	if rec == nil {
		t.Fatal("Next returned nil after full frame fed")
	}
	if string(rec.Body) != string([]byte{0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF}) {
		t.Fatalf("rec.Body = % X", rec.Body)
	}
}

func TestParserRejectsBadLeadingByte(t *testing.T) {
	var p Parser
	if err := p.Feed([]byte{0x00, 0x01, 0x02}); err != nil {
		t.Fatalf("Feed error: %v", err)
	}
	if _, err := p.Next(); err == nil {
		t.Fatal("expected a ProtocolError for an unrecognized leading byte")
	}
}

func TestParserOverflowsCarryBuffer(t *testing.T) {
	var p Parser
	chunk := make([]byte, maxCarryBytes)
	if err := p.Feed(chunk); err != nil {
		t.Fatalf("first feed should not overflow: %v", err)
	}
	if err := p.Feed([]byte{0x00}); err == nil {
		t.Fatal("expected an overflow error once the carry buffer exceeds its bound")
	}
}

// TestFrameRoundTripsTargetAndEndCode exercises the §8 property: the
// parser given a mirrored ("D"-prefixed) response for a built request
// round-trips the target quintuple and end-code, for every profile.
func TestFrameRoundTripsTargetAndEndCode(t *testing.T) {
	cases := []struct {
		name string
		enc  Encoding
		kind FrameKind
	}{
		{"binary-3E", Binary, Frame3E},
		{"binary-4E", Binary, Frame4E},
		{"ascii-3E", ASCII, Frame3E},
		{"ascii-4E", ASCII, Frame4E},
	}
	target := Target{Network: 3, PC: 0xFE, IO: 0x1234, Multidrop: 7}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := mirrorAsResponse(t, tc.enc, tc.kind, 5, target, 0x4242, []byte{0xAB, 0xCD})
			var p Parser
			if err := p.Feed(resp); err != nil {
				t.Fatalf("Feed error: %v", err)
			}
			rec, err := p.Next()
			if err != nil {
				t.Fatalf("Next error: %v", err)
			}
			if rec == nil {
				t.Fatal("Next returned nil")
			}
			if rec.Target != target {
				t.Fatalf("round-tripped target = %+v, want %+v", rec.Target, target)
			}
			if rec.EndCode != 0x4242 {
				t.Fatalf("round-tripped end-code = 0x%04X, want 0x4242", rec.EndCode)
			}
		})
	}
}

// mirrorAsResponse builds a response frame by hand (the parser's
// counterpart to BuildRequest, which this package does not need as a
// production function since only the transport ever manufactures
// responses, and in tests that role is played by a fake PLC).
func mirrorAsResponse(t *testing.T, enc Encoding, kind FrameKind, seq uint16, target Target, endCode uint16, body []byte) []byte {
	t.Helper()
	if enc == Binary {
		var out []byte
		if kind == Frame4E {
			out = append(out, 0xD4, 0x00)
			out = PutUint16LE(out, seq)
			out = append(out, 0x00, 0x00)
		} else {
			out = append(out, 0xD0, 0x00)
		}
		out = append(out, target.Network, target.PC)
		out = PutUint16LE(out, target.IO)
		out = append(out, target.Multidrop)
		out = PutUint16LE(out, uint16(len(body)+2))
		out = PutUint16LE(out, endCode)
		out = append(out, body...)
		return out
	}

	var out []byte
	if kind == Frame4E {
		out = append(out, "D400"...)
		out = append(out, HexUpper(uint64(seq), 4)...)
		out = append(out, "0000"...)
	} else {
		out = append(out, "D000"...)
	}
	out = append(out, HexUpper(uint64(target.Network), 2)...)
	out = append(out, HexUpper(uint64(target.PC), 2)...)
	out = append(out, HexUpper(uint64(target.IO), 4)...)
	out = append(out, HexUpper(uint64(target.Multidrop), 2)...)
	out = append(out, HexUpper(uint64(len(body)*2+4), 4)...)
	out = append(out, HexUpper(uint64(endCode), 4)...)
	out = append(out, BytesToASCIIHex(body)...)
	return out
}
