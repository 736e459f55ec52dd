// Package slmp implements a client for Mitsubishi's SLMP (Seamless
// Message Protocol), the Ethernet request/response protocol spoken to
// MELSEC PLCs. It covers device-memory read/write, random and block
// access, monitor registration, remote control, self-test, and memory
// commands across all four wire variants: 3E/4E framing crossed with
// binary/ASCII encoding.
package slmp

import (
	"strings"

	"github.com/slmpgo/slmp/internal/wire"
)

// DeviceCode selects a PLC-internal memory region (bit array, word
// array, timer, counter, and so on). The full enumeration and its
// hex/decimal and narrow/wide attributes live in internal/wire; this
// alias keeps the public surface in package slmp.
type DeviceCode = wire.DeviceCode

// Device code constants, re-exported from the internal wire codec so
// callers never need to import internal packages.
const (
	SM   = wire.SM
	SD   = wire.SD
	X    = wire.X
	Y    = wire.Y
	M    = wire.M
	L    = wire.L
	F    = wire.F
	V    = wire.V
	B    = wire.B
	D    = wire.D
	W    = wire.W
	TS   = wire.TS
	TC   = wire.TC
	TN   = wire.TN
	LTS  = wire.LTS
	LTC  = wire.LTC
	LTN  = wire.LTN
	SS   = wire.SS
	SC   = wire.SC
	SN   = wire.SN
	LSTS = wire.LSTS
	LSTC = wire.LSTC
	LSTN = wire.LSTN
	CS   = wire.CS
	CC   = wire.CC
	CN   = wire.CN
	SB   = wire.SB
	SW   = wire.SW
	DX   = wire.DX
	DY   = wire.DY
	Z    = wire.Z
	LZ   = wire.LZ
	R    = wire.R
	ZR   = wire.ZR
	RD   = wire.RD
	LCS  = wire.LCS
	LCC  = wire.LCC
	LCN  = wire.LCN
)

// Target is the addressing quintuple carried in every request and
// echoed in every response (spec.md §3). It may be mutated between
// commands issued on the same Client.
type Target = wire.Target

// Encoding selects the wire's field representation.
type Encoding = wire.Encoding

const (
	Binary = wire.Binary
	ASCII  = wire.ASCII
)

// FrameKind selects the presence (4E) or absence (3E) of a sequence
// number on the wire.
type FrameKind = wire.FrameKind

const (
	Frame3E = wire.Frame3E
	Frame4E = wire.Frame4E
)

// TransportKind selects the socket type used to reach the PLC.
type TransportKind int

const (
	TCP TransportKind = iota
	UDP
)

// CommandCode is the 16-bit command field. Additional codes beyond this
// closed-ish list are accepted as pass-through values by any helper that
// takes a raw CommandCode.
type CommandCode uint16

const (
	DeviceRead              CommandCode = 0x0401
	DeviceWrite             CommandCode = 0x1401
	DeviceReadRandom        CommandCode = 0x0403
	DeviceWriteRandom       CommandCode = 0x1402
	DeviceEntryMonitorDevice CommandCode = 0x0801
	DeviceExecuteMonitor    CommandCode = 0x0802
	DeviceReadBlock         CommandCode = 0x0406
	DeviceWriteBlock        CommandCode = 0x1406
	MemoryRead              CommandCode = 0x0613
	MemoryWrite             CommandCode = 0x1613
	RemoteControlReadTypeName CommandCode = 0x0101
	RemoteControlRemoteRun     CommandCode = 0x1001
	RemoteControlRemoteStop    CommandCode = 0x1002
	RemoteControlRemotePause   CommandCode = 0x1003
	RemoteControlRemoteLatchClear CommandCode = 0x1005
	RemoteControlRemoteReset      CommandCode = 0x1006
	SelfTestCommand         CommandCode = 0x0619
	ClearErrorCode          CommandCode = 0x1617
	OnDemand                CommandCode = 0x2101
)

// subcommand values distinguishing bit-mode from word-mode device ops.
const (
	subWord uint16 = 0x0000
	subBit  uint16 = 0x0001
)

// EndCode is the response outcome field. 0 is success; everything else
// is a documented PLC-side error.
type EndCode uint16

const (
	Success           EndCode = 0x0000
	WrongCommand      EndCode = 0xC059
	WrongFormat       EndCode = 0xC05C
	WrongLength       EndCode = 0xC061
	Busy              EndCode = 0xCEE0
	ExceedReqLength   EndCode = 0xCEE1
	ExceedRespLength  EndCode = 0xCEE2
	RelayFailure      EndCode = 0xCF70
	TimeoutError      EndCode = 0xCF71
)

var endCodeNames = map[EndCode]string{
	Success:          "Success",
	WrongCommand:     "WrongCommand",
	WrongFormat:      "WrongFormat",
	WrongLength:      "WrongLength",
	Busy:             "Busy",
	ExceedReqLength:  "ExceedReqLength",
	ExceedRespLength: "ExceedRespLength",
	RelayFailure:     "RelayFailure",
	TimeoutError:     "TimeoutError",
}

func (e EndCode) String() string {
	if name, ok := endCodeNames[e]; ok {
		return name
	}
	return "EndCode(0x" + wire.HexUpper(uint64(e), 4) + ")"
}

// TypeCode identifies a PLC CPU model, returned by ReadTypeName.
type TypeCode uint16

const (
	TypeQ02UCPU    TypeCode = 0x0263
	TypeQ01UCPU    TypeCode = 0x0262
	TypeQ00UCPU    TypeCode = 0x0261
	TypeQ03UDCPU   TypeCode = 0x0268
	TypeQ04UDHCPU  TypeCode = 0x0269
	TypeQ06UDHCPU  TypeCode = 0x026A
	TypeUnknown    TypeCode = 0xFFFF
)

var typeCodeNames = map[TypeCode]string{
	TypeQ02UCPU:   "Q02UCPU",
	TypeQ01UCPU:   "Q01UCPU",
	TypeQ00UCPU:   "Q00UCPU",
	TypeQ03UDCPU:  "Q03UDCPU",
	TypeQ04UDHCPU: "Q04UDHCPU",
	TypeQ06UDHCPU: "Q06UDHCPU",
}

func (t TypeCode) String() string {
	if name, ok := typeCodeNames[t]; ok {
		return name
	}
	return "TypeCode(0x" + wire.HexUpper(uint64(t), 4) + ")"
}

// ProtocolProfile is immutable for the life of a session: the wire
// encoding, frame kind, and socket type it speaks (spec.md §3).
type ProtocolProfile struct {
	Encoding  Encoding
	Frame     FrameKind
	Transport TransportKind
}

// monitorState tracks the Entry/Execute monitor registration machine
// (spec.md §4.7 "State machine for monitor").
type monitorState int

const (
	monitorUnregistered monitorState = iota
	monitorRegistered
)

// MonitorRegistration records the counts last registered by
// EntryMonitorDevice, required to parse the matching ExecuteMonitor
// response.
type MonitorRegistration struct {
	state      monitorState
	WordCount  int
	DwordCount int
}

func (m MonitorRegistration) Registered() bool { return m.state == monitorRegistered }

// DeviceAddress names one (DeviceCode, address) pair, the unit the
// random and block commands repeat.
type DeviceAddress struct {
	Device  DeviceCode
	Address uint32
}

func trimTypeName(s string) string { return strings.TrimRight(s, " \x00") }
