package wire

import "testing"

func TestEncodeAddressBinaryScenario1(t *testing.T) {
	got, err := EncodeAddressBinary(nil, M, 100)
	if err != nil {
		t.Fatalf("EncodeAddressBinary error: %v", err)
	}
	want := []byte{0x64, 0x00, 0x00, 0x90}
	if string(got) != string(want) {
		t.Fatalf("EncodeAddressBinary(M, 100) = % X, want % X", got, want)
	}
}

func TestEncodeAddressBinaryRejectsWideOnly(t *testing.T) {
	if _, err := EncodeAddressBinary(nil, LTS, 10); err == nil {
		t.Fatal("expected error encoding a wide-only device in the 2-byte-address path")
	}
}

func TestEncodeAddressBoundaryAddresses(t *testing.T) {
	if _, err := EncodeAddressBinary(nil, M, 0); err == nil {
		t.Fatal("expected error for address 0")
	}
	if _, err := EncodeAddressBinary(nil, M, 0xFFF); err == nil {
		t.Fatal("expected error for address >= 0xFFF")
	}
	if _, err := EncodeAddressBinary(nil, M, 0xFFE); err != nil {
		t.Fatalf("address 0xFFE should be accepted: %v", err)
	}
}

func TestEncodeAddressASCIIHexVsDecimal(t *testing.T) {
	// TN is decimal-addressed.
	s, err := EncodeAddressASCII(TN, 100)
	if err != nil {
		t.Fatalf("EncodeAddressASCII(TN) error: %v", err)
	}
	if s != "TN000100" {
		t.Fatalf("EncodeAddressASCII(TN, 100) = %q, want %q", s, "TN000100")
	}

	// X is hex-addressed and a single-character name padded with '*'.
	s, err = EncodeAddressASCII(X, 0x1A)
	if err != nil {
		t.Fatalf("EncodeAddressASCII(X) error: %v", err)
	}
	if s != "X*00001A" {
		t.Fatalf("EncodeAddressASCII(X, 0x1A) = %q, want %q", s, "X*00001A")
	}
}

func TestDeviceCodeAttributes(t *testing.T) {
	if !X.HexAddressed() {
		t.Error("X should be hex-addressed")
	}
	if M.HexAddressed() {
		t.Error("M should not be hex-addressed")
	}
	if !LZ.WideOnly() {
		t.Error("LZ should be wide-only")
	}
	if M.WideOnly() {
		t.Error("M should not be wide-only")
	}
	if DeviceCode(0xEE).Valid() {
		t.Error("0xEE should not be a valid device code")
	}
}
