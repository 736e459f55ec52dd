package wire

import "fmt"

// DeviceCode identifies a PLC-internal memory region. The wire value is the
// single byte (binary mode) / one-or-two character name (ASCII mode) from
// the SLMP device table.
type DeviceCode uint8

const (
	SM   DeviceCode = 0x91
	SD   DeviceCode = 0xA9
	X    DeviceCode = 0x9C
	Y    DeviceCode = 0x9D
	M    DeviceCode = 0x90
	L    DeviceCode = 0x92
	F    DeviceCode = 0x93
	V    DeviceCode = 0x94
	B    DeviceCode = 0xA0
	D    DeviceCode = 0xA8
	W    DeviceCode = 0xB4
	TS   DeviceCode = 0xC1
	TC   DeviceCode = 0xC0
	TN   DeviceCode = 0xC2
	LTS  DeviceCode = 0x51
	LTC  DeviceCode = 0x50
	LTN  DeviceCode = 0x52
	SS   DeviceCode = 0xC7
	SC   DeviceCode = 0xC6
	SN   DeviceCode = 0xC8
	LSTS DeviceCode = 0x59
	LSTC DeviceCode = 0x58
	LSTN DeviceCode = 0x5A
	CS   DeviceCode = 0xC4
	CC   DeviceCode = 0xC3
	CN   DeviceCode = 0xC5
	SB   DeviceCode = 0xA1
	SW   DeviceCode = 0xB5
	DX   DeviceCode = 0xA2
	DY   DeviceCode = 0xA3
	Z    DeviceCode = 0xCC
	LZ   DeviceCode = 0x62
	R    DeviceCode = 0xAF
	ZR   DeviceCode = 0xB0
	RD   DeviceCode = 0x2C
	LCS  DeviceCode = 0x55
	LCC  DeviceCode = 0x54
	LCN  DeviceCode = 0x56
)

type deviceInfo struct {
	name        string
	hexAddress  bool
	wideOnly    bool
}

var deviceTable = map[DeviceCode]deviceInfo{
	SM:   {"SM", false, false},
	SD:   {"SD", false, false},
	X:    {"X", true, false},
	Y:    {"Y", true, false},
	M:    {"M", false, false},
	L:    {"L", false, false},
	F:    {"F", false, false},
	V:    {"V", false, false},
	B:    {"B", true, false},
	D:    {"D", false, false},
	W:    {"W", true, false},
	TS:   {"TS", false, false},
	TC:   {"TC", false, false},
	TN:   {"TN", false, false},
	LTS:  {"LTS", false, true},
	LTC:  {"LTC", false, true},
	LTN:  {"LTN", false, true},
	SS:   {"SS", false, false},
	SC:   {"SC", false, false},
	SN:   {"SN", false, false},
	LSTS: {"LSTS", false, true},
	LSTC: {"LSTC", false, true},
	LSTN: {"LSTN", false, true},
	CS:   {"CS", false, false},
	CC:   {"CC", false, false},
	CN:   {"CN", false, false},
	SB:   {"SB", true, false},
	SW:   {"SW", true, false},
	DX:   {"DX", true, false},
	DY:   {"DY", true, false},
	Z:    {"Z", false, false},
	LZ:   {"LZ", false, true},
	R:    {"R", false, false},
	ZR:   {"ZR", true, false},
	RD:   {"RD", false, true},
	LCS:  {"LCS", false, true},
	LCC:  {"LCC", false, true},
	LCN:  {"LCN", false, true},
}

// Name returns the device's short mnemonic ("M", "ZR", ...).
func (d DeviceCode) Name() string {
	if info, ok := deviceTable[d]; ok {
		return info.name
	}
	return fmt.Sprintf("DeviceCode(0x%02X)", uint8(d))
}

// HexAddressed reports whether the device's address is rendered as
// uppercase hex in ASCII mode (true) or decimal (false).
func (d DeviceCode) HexAddressed() bool {
	return deviceTable[d].hexAddress
}

// WideOnly reports whether this device code requires a 4-byte address and
// is therefore unusable by the 2-byte-address commands this core covers.
func (d DeviceCode) WideOnly() bool {
	return deviceTable[d].wideOnly
}

// Valid reports whether d is a recognized device code.
func (d DeviceCode) Valid() bool {
	_, ok := deviceTable[d]
	return ok
}

// maxNarrowAddress is the largest address a 3-byte (2-byte-address-command)
// field can carry before width or PLC convention makes it invalid for this
// core's commands (spec.md §8 boundary test: "address >= 0xFFF rejected").
const maxNarrowAddress = 0xFFE

// EncodeAddressBinary emits the 3-byte little-endian address followed by the
// device code byte, per §4.3. Returns an error for wide-only device codes or
// out-of-range addresses.
func EncodeAddressBinary(dst []byte, dev DeviceCode, address uint32) ([]byte, error) {
	if !dev.Valid() {
		return dst, fmt.Errorf("wire: unknown device code 0x%02X", uint8(dev))
	}
	if dev.WideOnly() {
		return dst, fmt.Errorf("wire: device %s requires a 4-byte address, unsupported by this command", dev.Name())
	}
	if address == 0 || address > maxNarrowAddress {
		return dst, fmt.Errorf("wire: address %d out of range (1..%d) for device %s", address, maxNarrowAddress, dev.Name())
	}
	var b [4]byte
	b4 := PutUint32LE(b[:0], address)
	dst = append(dst, b4[0], b4[1], b4[2])
	dst = append(dst, byte(dev))
	return dst, nil
}

// EncodeAddressASCII emits the device name (space-padded with '*' to width
// 2) followed by 6 characters of address: hex for hex-addressed devices,
// decimal otherwise.
func EncodeAddressASCII(dev DeviceCode, address uint32) (string, error) {
	if !dev.Valid() {
		return "", fmt.Errorf("wire: unknown device code 0x%02X", uint8(dev))
	}
	if dev.WideOnly() {
		return "", fmt.Errorf("wire: device %s requires a 4-byte address, unsupported by this command", dev.Name())
	}
	if address == 0 || address > maxNarrowAddress {
		return "", fmt.Errorf("wire: address %d out of range (1..%d) for device %s", address, maxNarrowAddress, dev.Name())
	}
	name := dev.Name()
	if len(name) == 1 {
		name += "*"
	}
	if len(name) != 2 {
		return "", fmt.Errorf("wire: device name %q does not fit the 2-character ASCII field", name)
	}
	if dev.HexAddressed() {
		return name + HexUpper(uint64(address), 6), nil
	}
	return name + Decimal(uint64(address), 6), nil
}
