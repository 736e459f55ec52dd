package slmp

import (
	"context"

	"github.com/slmpgo/slmp/internal/wire"
)

// BitWriteEntry is one (device, address, value) triple for WriteRandomBit.
type BitWriteEntry struct {
	Device  DeviceCode
	Address uint32
	Value   bool
}

// WordWriteEntry is one (device, address, value) triple for the word half
// of WriteRandomWord.
type WordWriteEntry struct {
	Device  DeviceCode
	Address uint32
	Value   uint16
}

// DwordWriteEntry is one (device, address, value) triple for the dword
// half of WriteRandomWord.
type DwordWriteEntry struct {
	Device  DeviceCode
	Address uint32
	Value   uint32
}

// BlockSpec names one block to read: its device, start address, and the
// count of words or of 16-bit-groups of bits it spans.
type BlockSpec struct {
	Device  DeviceCode
	Address uint32
	Count   uint16
}

// BlockWordWrite pairs a BlockSpec with the word values to write into it.
type BlockWordWrite struct {
	Spec   BlockSpec
	Values []uint16
}

// BlockBitWrite pairs a BlockSpec with the bit values to write into it;
// len(Values) must equal int(Spec.Count)*16.
type BlockBitWrite struct {
	Spec   BlockSpec
	Values []bool
}

func (c *Client) encodeAddress(dst []byte, dev DeviceCode, address uint32) ([]byte, string, error) {
	if c.cfg.Profile.Encoding == Binary {
		out, err := wire.EncodeAddressBinary(dst, dev, address)
		return out, "", err
	}
	s, err := wire.EncodeAddressASCII(dev, address)
	return nil, s, err
}

func appendCount(enc Encoding, ascii string, bin []byte, count uint16) ([]byte, string) {
	if enc == Binary {
		return wire.PutUint16LE(bin, count), ""
	}
	return nil, ascii + wire.Decimal(uint64(count), 4)
}

// ReadBit reads count bit-device values starting at address (spec.md §4.7
// "Device_Read (bit)", §8 scenario 1).
func (c *Client) ReadBit(ctx context.Context, dev DeviceCode, address uint32, count int, monitorTimer uint16) ([]bool, error) {
	if count <= 0 {
		return nil, invalidArgument("count must be positive")
	}
	enc := c.cfg.Profile.Encoding
	bin, ascii, err := c.encodeAddress(nil, dev, address)
	if err != nil {
		return nil, invalidArgument("%v", err)
	}
	bin, ascii = appendCount(enc, ascii, bin, uint16(count))

	var payload []byte
	if enc == Binary {
		payload = bin
	} else {
		payload = []byte(ascii)
	}

	rec, err := c.roundTrip(ctx, DeviceRead, subBit, monitorTimer, payload)
	if err != nil {
		return nil, err
	}
	if enc == Binary {
		return wire.UnpackNibbleBits(rec.Body, count), nil
	}
	if len(rec.Body) < count {
		return nil, protocolError(DeviceRead, nil)
	}
	out := make([]bool, count)
	for i := 0; i < count; i++ {
		out[i] = rec.Body[i] == '1'
	}
	return out, nil
}

// ReadWord reads count word-device values starting at address (spec.md
// §4.7 "Device_Read (word)", §8 scenario 2).
func (c *Client) ReadWord(ctx context.Context, dev DeviceCode, address uint32, count int, monitorTimer uint16) ([]uint16, error) {
	if count <= 0 {
		return nil, invalidArgument("count must be positive")
	}
	enc := c.cfg.Profile.Encoding
	bin, ascii, err := c.encodeAddress(nil, dev, address)
	if err != nil {
		return nil, invalidArgument("%v", err)
	}
	bin, ascii = appendCount(enc, ascii, bin, uint16(count))

	var payload []byte
	if enc == Binary {
		payload = bin
	} else {
		payload = []byte(ascii)
	}

	rec, err := c.roundTrip(ctx, DeviceRead, subWord, monitorTimer, payload)
	if err != nil {
		return nil, err
	}
	out := make([]uint16, count)
	if enc == Binary {
		if len(rec.Body) < count*2 {
			return nil, protocolError(DeviceRead, nil)
		}
		for i := 0; i < count; i++ {
			out[i] = wire.Uint16LE(rec.Body[i*2:])
		}
		return out, nil
	}
	body := string(rec.Body)
	for i := 0; i < count; i++ {
		v, rest, err := wire.ParseHexUpper(body, 4)
		if err != nil {
			return nil, protocolError(DeviceRead, err)
		}
		out[i] = uint16(v)
		body = rest
	}
	return out, nil
}

// WriteBit writes values to a run of bit-device addresses starting at
// address (spec.md §4.7 "Device_Write (bit/word)", §8 scenario 5).
func (c *Client) WriteBit(ctx context.Context, dev DeviceCode, address uint32, values []bool, monitorTimer uint16) error {
	if len(values) == 0 {
		return invalidArgument("values must not be empty")
	}
	enc := c.cfg.Profile.Encoding
	bin, ascii, err := c.encodeAddress(nil, dev, address)
	if err != nil {
		return invalidArgument("%v", err)
	}
	bin, ascii = appendCount(enc, ascii, bin, uint16(len(values)))

	var payload []byte
	if enc == Binary {
		payload = append(bin, wire.PackNibbleBits(values)...)
	} else {
		var b []byte
		for _, v := range values {
			if v {
				b = append(b, '1')
			} else {
				b = append(b, '0')
			}
		}
		payload = append([]byte(ascii), b...)
	}

	_, err = c.roundTrip(ctx, DeviceWrite, subBit, monitorTimer, payload)
	return err
}

// WriteWord writes values to a run of word-device addresses starting at
// address (spec.md §4.7 "Device_Write (bit/word)").
func (c *Client) WriteWord(ctx context.Context, dev DeviceCode, address uint32, values []uint16, monitorTimer uint16) error {
	if len(values) == 0 {
		return invalidArgument("values must not be empty")
	}
	enc := c.cfg.Profile.Encoding
	bin, ascii, err := c.encodeAddress(nil, dev, address)
	if err != nil {
		return invalidArgument("%v", err)
	}
	bin, ascii = appendCount(enc, ascii, bin, uint16(len(values)))

	var payload []byte
	if enc == Binary {
		for _, v := range values {
			bin = wire.PutUint16LE(bin, v)
		}
		payload = bin
	} else {
		for _, v := range values {
			ascii += wire.HexUpper(uint64(v), 4)
		}
		payload = []byte(ascii)
	}

	_, err = c.roundTrip(ctx, DeviceWrite, subWord, monitorTimer, payload)
	return err
}

// ReadRandom reads an arbitrary mix of word and dword devices named
// individually rather than as a contiguous run (spec.md §4.7
// "Device_ReadRandom").
func (c *Client) ReadRandom(ctx context.Context, words, dwords []DeviceAddress, monitorTimer uint16) (wordValues []uint16, dwordValues []uint32, err error) {
	if len(words) > 0xFF || len(dwords) > 0xFF {
		return nil, nil, invalidArgument("word_count and dword_count must each fit in a byte")
	}
	enc := c.cfg.Profile.Encoding
	var bin []byte
	ascii := ""
	if enc == Binary {
		bin = append(bin, byte(len(words)), byte(len(dwords)))
	} else {
		ascii += wire.HexUpper(uint64(len(words)), 2) + wire.HexUpper(uint64(len(dwords)), 2)
	}
	for _, entry := range append(append([]DeviceAddress{}, words...), dwords...) {
		b, a, encErr := c.encodeAddress(bin, entry.Device, entry.Address)
		if encErr != nil {
			return nil, nil, invalidArgument("%v", encErr)
		}
		if enc == Binary {
			bin = b
		} else {
			ascii += a
		}
	}

	payload := []byte(ascii)
	if enc == Binary {
		payload = bin
	}

	rec, err := c.roundTrip(ctx, DeviceReadRandom, subWord, monitorTimer, payload)
	if err != nil {
		return nil, nil, err
	}

	raw := rec.Body
	if enc == ASCII {
		raw, err = wire.ASCIIHexToBytes(string(rec.Body))
		if err != nil {
			return nil, nil, protocolError(DeviceReadRandom, err)
		}
	}
	need := len(words)*2 + len(dwords)*4
	if len(raw) < need {
		return nil, nil, protocolError(DeviceReadRandom, nil)
	}
	wordValues = make([]uint16, len(words))
	for i := range wordValues {
		wordValues[i] = wire.Uint16LE(raw[i*2:])
	}
	offset := len(words) * 2
	dwordValues = make([]uint32, len(dwords))
	for i := range dwordValues {
		dwordValues[i] = wire.Uint32LE(raw[offset+i*4:])
	}
	return wordValues, dwordValues, nil
}

// WriteRandomBit writes individually addressed bit devices (spec.md §4.7
// "Device_WriteRandom (bit)").
func (c *Client) WriteRandomBit(ctx context.Context, entries []BitWriteEntry, monitorTimer uint16) error {
	if len(entries) == 0 {
		return invalidArgument("entries must not be empty")
	}
	if len(entries) > 0xFF {
		return invalidArgument("count must fit in a byte")
	}
	enc := c.cfg.Profile.Encoding
	var bin []byte
	ascii := ""
	if enc == Binary {
		bin = append(bin, byte(len(entries)))
	} else {
		ascii = wire.HexUpper(uint64(len(entries)), 2)
	}
	for _, e := range entries {
		b, a, err := c.encodeAddress(bin, e.Device, e.Address)
		if err != nil {
			return invalidArgument("%v", err)
		}
		value := byte(0)
		if e.Value {
			value = 1
		}
		if enc == Binary {
			bin = append(b, value)
		} else {
			ascii += a + wire.BytesToASCIIHex([]byte{value})
		}
	}

	payload := []byte(ascii)
	if enc == Binary {
		payload = bin
	}
	_, err := c.roundTrip(ctx, DeviceWriteRandom, subBit, monitorTimer, payload)
	return err
}

// WriteRandomWord writes individually addressed word and dword devices
// (spec.md §4.7 "Device_WriteRandom (word/dword)").
func (c *Client) WriteRandomWord(ctx context.Context, words []WordWriteEntry, dwords []DwordWriteEntry, monitorTimer uint16) error {
	if len(words) > 0xFF || len(dwords) > 0xFF {
		return invalidArgument("word_count and dword_count must each fit in a byte")
	}
	enc := c.cfg.Profile.Encoding
	var bin []byte
	ascii := ""
	if enc == Binary {
		bin = append(bin, byte(len(words)), byte(len(dwords)))
	} else {
		ascii = wire.HexUpper(uint64(len(words)), 2) + wire.HexUpper(uint64(len(dwords)), 2)
	}
	for _, w := range words {
		b, a, err := c.encodeAddress(bin, w.Device, w.Address)
		if err != nil {
			return invalidArgument("%v", err)
		}
		if enc == Binary {
			bin = wire.PutUint16LE(b, w.Value)
		} else {
			ascii += a + wire.HexUpper(uint64(w.Value), 4)
		}
	}
	for _, d := range dwords {
		b, a, err := c.encodeAddress(bin, d.Device, d.Address)
		if err != nil {
			return invalidArgument("%v", err)
		}
		if enc == Binary {
			bin = wire.PutUint32LE(b, d.Value)
		} else {
			ascii += a + wire.HexUpper(uint64(d.Value), 8)
		}
	}

	payload := []byte(ascii)
	if enc == Binary {
		payload = bin
	}
	_, err := c.roundTrip(ctx, DeviceWriteRandom, subWord, monitorTimer, payload)
	return err
}

// EntryMonitorDevice registers the set of devices a later ExecuteMonitor
// call will re-read (spec.md §4.7 "Entry_Monitor_Device / Execute_Monitor").
func (c *Client) EntryMonitorDevice(ctx context.Context, words, dwords []DeviceAddress, monitorTimer uint16) error {
	total := len(words) + len(dwords)
	if total <= 1 || total > 192 {
		return invalidArgument("entry-monitor device count must be in (1, 192], got %d", total)
	}
	enc := c.cfg.Profile.Encoding
	var bin []byte
	ascii := ""
	if enc == Binary {
		bin = append(bin, byte(len(words)), byte(len(dwords)))
	} else {
		ascii = wire.HexUpper(uint64(len(words)), 2) + wire.HexUpper(uint64(len(dwords)), 2)
	}
	for _, entry := range append(append([]DeviceAddress{}, words...), dwords...) {
		b, a, err := c.encodeAddress(bin, entry.Device, entry.Address)
		if err != nil {
			return invalidArgument("%v", err)
		}
		if enc == Binary {
			bin = b
		} else {
			ascii += a
		}
	}

	payload := []byte(ascii)
	if enc == Binary {
		payload = bin
	}
	if _, err := c.roundTrip(ctx, DeviceEntryMonitorDevice, subWord, monitorTimer, payload); err != nil {
		return err
	}

	c.mu.Lock()
	c.monitor = MonitorRegistration{state: monitorRegistered, WordCount: len(words), DwordCount: len(dwords)}
	c.mu.Unlock()
	return nil
}

// ExecuteMonitor re-reads the devices registered by the most recent
// EntryMonitorDevice call. It is only legal once a registration exists.
func (c *Client) ExecuteMonitor(ctx context.Context, monitorTimer uint16) (wordValues []uint16, dwordValues []uint32, err error) {
	c.mu.Lock()
	reg := c.monitor
	c.mu.Unlock()
	if !reg.Registered() {
		return nil, nil, precondition("ExecuteMonitor called without a prior EntryMonitorDevice")
	}

	rec, err := c.roundTrip(ctx, DeviceExecuteMonitor, subWord, monitorTimer, nil)
	if err != nil {
		return nil, nil, err
	}

	enc := c.cfg.Profile.Encoding
	raw := rec.Body
	if enc == ASCII {
		raw, err = wire.ASCIIHexToBytes(string(rec.Body))
		if err != nil {
			return nil, nil, protocolError(DeviceExecuteMonitor, err)
		}
	}
	need := reg.WordCount*2 + reg.DwordCount*4
	if len(raw) < need {
		return nil, nil, protocolError(DeviceExecuteMonitor, nil)
	}
	wordValues = make([]uint16, reg.WordCount)
	for i := range wordValues {
		wordValues[i] = wire.Uint16LE(raw[i*2:])
	}
	offset := reg.WordCount * 2
	dwordValues = make([]uint32, reg.DwordCount)
	for i := range dwordValues {
		dwordValues[i] = wire.Uint32LE(raw[offset+i*4:])
	}
	return wordValues, dwordValues, nil
}

const maxBlockCount = 120

// ReadBlock reads a mix of word and bit blocks in one round trip
// (spec.md §4.7 "Read_Block", §8 scenario 6). A zero total block count
// is a valid degenerate read returning empty results.
func (c *Client) ReadBlock(ctx context.Context, wordBlocks, bitBlocks []BlockSpec, monitorTimer uint16) (wordResults [][]uint16, bitResults [][]bool, err error) {
	if len(wordBlocks)+len(bitBlocks) == 0 {
		return nil, nil, nil
	}
	if len(wordBlocks) > 0xFF || len(bitBlocks) > 0xFF {
		return nil, nil, invalidArgument("block counts must each fit in a byte")
	}
	enc := c.cfg.Profile.Encoding
	var bin []byte
	ascii := ""
	if enc == Binary {
		bin = append(bin, byte(len(wordBlocks)), byte(len(bitBlocks)))
	} else {
		ascii = wire.HexUpper(uint64(len(wordBlocks)), 2) + wire.HexUpper(uint64(len(bitBlocks)), 2)
	}
	for _, spec := range append(append([]BlockSpec{}, wordBlocks...), bitBlocks...) {
		b, a, encErr := c.encodeAddress(bin, spec.Device, spec.Address)
		if encErr != nil {
			return nil, nil, invalidArgument("%v", encErr)
		}
		if enc == Binary {
			bin = wire.PutUint16LE(b, spec.Count)
		} else {
			ascii += a + wire.HexUpper(uint64(spec.Count), 4)
		}
	}

	payload := []byte(ascii)
	if enc == Binary {
		payload = bin
	}

	rec, err := c.roundTrip(ctx, DeviceReadBlock, subWord, monitorTimer, payload)
	if err != nil {
		return nil, nil, err
	}

	raw := rec.Body
	if enc == ASCII {
		raw, err = wire.ASCIIHexToBytes(string(rec.Body))
		if err != nil {
			return nil, nil, protocolError(DeviceReadBlock, err)
		}
	}

	offset := 0
	wordResults = make([][]uint16, len(wordBlocks))
	for i, spec := range wordBlocks {
		n := int(spec.Count)
		if offset+n*2 > len(raw) {
			return nil, nil, protocolError(DeviceReadBlock, nil)
		}
		vals := make([]uint16, n)
		for j := 0; j < n; j++ {
			vals[j] = wire.Uint16LE(raw[offset+j*2:])
		}
		wordResults[i] = vals
		offset += n * 2
	}
	bitResults = make([][]bool, len(bitBlocks))
	for i, spec := range bitBlocks {
		n := int(spec.Count)
		byteLen := n * 2
		if offset+byteLen > len(raw) {
			return nil, nil, protocolError(DeviceReadBlock, nil)
		}
		bitResults[i] = wire.UnpackBits(raw[offset : offset+byteLen])
		offset += byteLen
	}
	return wordResults, bitResults, nil
}

// WriteBlock writes a mix of word and bit blocks in one round trip
// (spec.md §4.7 "Write_Block"). A zero total block count is a valid
// degenerate write.
func (c *Client) WriteBlock(ctx context.Context, wordBlocks []BlockWordWrite, bitBlocks []BlockBitWrite, monitorTimer uint16) error {
	total := len(wordBlocks) + len(bitBlocks)
	if total == 0 {
		return nil
	}
	if total > maxBlockCount {
		return invalidArgument("block total %d exceeds the %d block limit", total, maxBlockCount)
	}

	enc := c.cfg.Profile.Encoding
	var bin []byte
	ascii := ""
	if enc == Binary {
		bin = append(bin, byte(len(wordBlocks)), byte(len(bitBlocks)))
	} else {
		ascii = wire.HexUpper(uint64(len(wordBlocks)), 2) + wire.HexUpper(uint64(len(bitBlocks)), 2)
	}
	for _, w := range wordBlocks {
		if int(w.Spec.Count) != len(w.Values) {
			return invalidArgument("block value count %d does not match spec count %d", len(w.Values), w.Spec.Count)
		}
		b, a, err := c.encodeAddress(bin, w.Spec.Device, w.Spec.Address)
		if err != nil {
			return invalidArgument("%v", err)
		}
		if enc == Binary {
			bin = wire.PutUint16LE(b, w.Spec.Count)
		} else {
			ascii += a + wire.HexUpper(uint64(w.Spec.Count), 4)
		}
	}
	for _, bb := range bitBlocks {
		if int(bb.Spec.Count)*16 != len(bb.Values) {
			return invalidArgument("bit block value count %d does not match spec count*16 %d", len(bb.Values), int(bb.Spec.Count)*16)
		}
		b, a, err := c.encodeAddress(bin, bb.Spec.Device, bb.Spec.Address)
		if err != nil {
			return invalidArgument("%v", err)
		}
		if enc == Binary {
			bin = wire.PutUint16LE(b, bb.Spec.Count)
		} else {
			ascii += a + wire.HexUpper(uint64(bb.Spec.Count), 4)
		}
	}

	var valueBytes []byte
	for _, w := range wordBlocks {
		for _, v := range w.Values {
			valueBytes = wire.PutUint16LE(valueBytes, v)
		}
	}
	for _, bb := range bitBlocks {
		valueBytes = append(valueBytes, wire.PackBits(bb.Values)...)
	}

	var payload []byte
	if enc == Binary {
		payload = append(bin, valueBytes...)
	} else {
		payload = append([]byte(ascii), wire.BytesToASCIIHex(valueBytes)...)
	}

	_, err := c.roundTrip(ctx, DeviceWriteBlock, subWord, monitorTimer, payload)
	return err
}

// ReadTypeName returns the PLC's ASCII type name and numeric TypeCode
// (spec.md §4.7 "RemoteControl_ReadTypeName", §8 scenario 4).
func (c *Client) ReadTypeName(ctx context.Context, monitorTimer uint16) (string, TypeCode, error) {
	rec, err := c.roundTrip(ctx, RemoteControlReadTypeName, 0, monitorTimer, nil)
	if err != nil {
		return "", 0, err
	}
	enc := c.cfg.Profile.Encoding
	if enc == Binary {
		if len(rec.Body) < 18 {
			return "", 0, protocolError(RemoteControlReadTypeName, nil)
		}
		name := trimTypeName(string(rec.Body[:16]))
		code := TypeCode(wire.Uint16LE(rec.Body[16:18]))
		return name, code, nil
	}
	body := string(rec.Body)
	if len(body) < 20 {
		return "", 0, protocolError(RemoteControlReadTypeName, nil)
	}
	name := trimTypeName(body[:16])
	v, _, err := wire.ParseHexUpper(body[16:20], 4)
	if err != nil {
		return "", 0, protocolError(RemoteControlReadTypeName, err)
	}
	return name, TypeCode(v), nil
}

const maxSelfTestLength = 960

// SelfTest sends data (hex digits [0-9A-F] only, < 960 characters) and
// reports whether the PLC echoed it back unchanged (spec.md §4.7
// "SelfTest", §8 scenario 3).
func (c *Client) SelfTest(ctx context.Context, data string, monitorTimer uint16) (bool, error) {
	if len(data) >= maxSelfTestLength {
		return false, invalidArgument("self test data must be shorter than %d characters", maxSelfTestLength)
	}
	for _, r := range data {
		if !((r >= '0' && r <= '9') || (r >= 'A' && r <= 'F')) {
			return false, invalidArgument("self test data must be [0-9A-F] hex digits, got %q", r)
		}
	}
	enc := c.cfg.Profile.Encoding
	raw := []byte(data)

	var payload []byte
	if enc == Binary {
		payload = wire.PutUint16LE(nil, uint16(len(raw)))
		payload = append(payload, raw...)
	} else {
		payload = []byte(wire.Decimal(uint64(len(data)), 4) + data)
	}

	rec, err := c.roundTrip(ctx, SelfTestCommand, 0, monitorTimer, payload)
	if err != nil {
		return false, err
	}

	if enc == Binary {
		if len(rec.Body) < 2 {
			return false, protocolError(SelfTestCommand, nil)
		}
		echoLen := wire.Uint16LE(rec.Body[:2])
		if int(echoLen) != len(raw) {
			return false, nil
		}
		return string(rec.Body[2:]) == string(raw), nil
	}
	body := string(rec.Body)
	echoLen, rest, err := wire.ParseDecimal(body, 4)
	if err != nil {
		return false, protocolError(SelfTestCommand, err)
	}
	if int(echoLen) != len(data) {
		return false, nil
	}
	return rest == data, nil
}

// ClearErrorCode clears the PLC's latched error code (spec.md §4.7
// "ClearError_Code").
func (c *Client) ClearErrorCode(ctx context.Context, monitorTimer uint16) error {
	_, err := c.roundTrip(ctx, ClearErrorCode, 0, monitorTimer, nil)
	return err
}

const maxMemoryLength = 480

// MemoryRead reads length 2-byte-unit values starting at a raw PLC
// memory address (spec.md §4.7 "Memory_Read / Memory_Write").
func (c *Client) MemoryRead(ctx context.Context, address uint32, length uint16, monitorTimer uint16) ([]uint16, error) {
	if length == 0 || length > maxMemoryLength {
		return nil, invalidArgument("length must be in (0, %d]", maxMemoryLength)
	}
	enc := c.cfg.Profile.Encoding
	var payload []byte
	if enc == Binary {
		payload = wire.PutUint32LE(nil, address)
		payload = wire.PutUint16LE(payload, length)
	} else {
		payload = []byte(wire.HexUpper(uint64(address), 8) + wire.Decimal(uint64(length), 4))
	}

	rec, err := c.roundTrip(ctx, MemoryRead, 0, monitorTimer, payload)
	if err != nil {
		return nil, err
	}
	out := make([]uint16, length)
	if enc == Binary {
		if len(rec.Body) < int(length)*2 {
			return nil, protocolError(MemoryRead, nil)
		}
		for i := range out {
			out[i] = wire.Uint16LE(rec.Body[i*2:])
		}
		return out, nil
	}
	body := string(rec.Body)
	for i := range out {
		v, rest, err := wire.ParseHexUpper(body, 4)
		if err != nil {
			return nil, protocolError(MemoryRead, err)
		}
		out[i] = uint16(v)
		body = rest
	}
	return out, nil
}

// MemoryWrite writes values starting at a raw PLC memory address
// (spec.md §4.7 "Memory_Read / Memory_Write").
func (c *Client) MemoryWrite(ctx context.Context, address uint32, values []uint16, monitorTimer uint16) error {
	if len(values) == 0 || len(values) > maxMemoryLength {
		return invalidArgument("value count must be in (0, %d]", maxMemoryLength)
	}
	enc := c.cfg.Profile.Encoding
	var payload []byte
	if enc == Binary {
		payload = wire.PutUint32LE(nil, address)
		payload = wire.PutUint16LE(payload, uint16(len(values)))
		for _, v := range values {
			payload = wire.PutUint16LE(payload, v)
		}
	} else {
		s := wire.HexUpper(uint64(address), 8) + wire.Decimal(uint64(len(values)), 4)
		for _, v := range values {
			hi := byte(v >> 8)
			lo := byte(v)
			s += wire.BytesToASCIIHex([]byte{hi, lo})
		}
		payload = []byte(s)
	}

	_, err := c.roundTrip(ctx, MemoryWrite, 0, monitorTimer, payload)
	return err
}

func (c *Client) remoteControl(ctx context.Context, cmd CommandCode, monitorTimer uint16) error {
	_, err := c.roundTrip(ctx, cmd, 0, monitorTimer, nil)
	return err
}

// RemoteRun requests the PLC switch to RUN mode.
func (c *Client) RemoteRun(ctx context.Context, monitorTimer uint16) error {
	return c.remoteControl(ctx, RemoteControlRemoteRun, monitorTimer)
}

// RemoteStop requests the PLC switch to STOP mode.
func (c *Client) RemoteStop(ctx context.Context, monitorTimer uint16) error {
	return c.remoteControl(ctx, RemoteControlRemoteStop, monitorTimer)
}

// RemoteReset requests a PLC reset.
func (c *Client) RemoteReset(ctx context.Context, monitorTimer uint16) error {
	return c.remoteControl(ctx, RemoteControlRemoteReset, monitorTimer)
}

// RemoteLatchClear requests the PLC clear its latch-retained devices.
func (c *Client) RemoteLatchClear(ctx context.Context, monitorTimer uint16) error {
	return c.remoteControl(ctx, RemoteControlRemoteLatchClear, monitorTimer)
}
