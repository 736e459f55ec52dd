package wire

import "testing"

func TestHexUpperRoundTrip(t *testing.T) {
	cases := []struct {
		v     uint64
		width int
		want  string
	}{
		{0, 4, "0000"},
		{0x1A, 2, "1A"},
		{0xFFFF, 4, "FFFF"},
	}
	for _, tc := range cases {
		got := HexUpper(tc.v, tc.width)
		if got != tc.want {
			t.Errorf("HexUpper(%d, %d) = %q, want %q", tc.v, tc.width, got, tc.want)
		}
		v, rest, err := ParseHexUpper(got+"tail", tc.width)
		if err != nil {
			t.Fatalf("ParseHexUpper(%q) error: %v", got, err)
		}
		if v != tc.v {
			t.Errorf("ParseHexUpper(%q) = %d, want %d", got, v, tc.v)
		}
		if rest != "tail" {
			t.Errorf("ParseHexUpper(%q) rest = %q, want %q", got, rest, "tail")
		}
	}
}

func TestDecimalRoundTrip(t *testing.T) {
	got := Decimal(7, 4)
	if got != "0007" {
		t.Fatalf("Decimal(7, 4) = %q, want %q", got, "0007")
	}
	v, rest, err := ParseDecimal(got+"X", 4)
	if err != nil {
		t.Fatalf("ParseDecimal error: %v", err)
	}
	if v != 7 || rest != "X" {
		t.Fatalf("ParseDecimal = (%d, %q), want (7, %q)", v, rest, "X")
	}
}

func TestBytesToASCIIHexRoundTrip(t *testing.T) {
	b := []byte{0x00, 0x1A, 0xFF}
	s := BytesToASCIIHex(b)
	if s != "001AFF" {
		t.Fatalf("BytesToASCIIHex = %q, want %q", s, "001AFF")
	}
	back, err := ASCIIHexToBytes(s)
	if err != nil {
		t.Fatalf("ASCIIHexToBytes error: %v", err)
	}
	if string(back) != string(b) {
		t.Fatalf("ASCIIHexToBytes roundtrip = %v, want %v", back, b)
	}
}

func TestASCIIHexToBytesOddLength(t *testing.T) {
	if _, err := ASCIIHexToBytes("ABC"); err == nil {
		t.Fatal("expected error for odd-length hex string")
	}
}

func TestUint16LEUint32LE(t *testing.T) {
	b := PutUint16LE(nil, 0x1234)
	if got := Uint16LE(b); got != 0x1234 {
		t.Fatalf("Uint16LE = 0x%04X, want 0x1234", got)
	}
	b32 := PutUint32LE(nil, 0xDEADBEEF)
	if got := Uint32LE(b32); got != 0xDEADBEEF {
		t.Fatalf("Uint32LE = 0x%08X, want 0xDEADBEEF", got)
	}
}
