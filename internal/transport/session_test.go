package transport

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/slmpgo/slmp/internal/wire"
)

// fakePLC wraps the far end of an in-memory pipe and lets a test
// hand-craft 4E binary response frames that mirror whatever seq a
// request carried. The pipe is the standard library's net.Pipe, a
// synchronous in-memory net.Conn pair.
type fakePLC struct {
	conn net.Conn
}

func newSessionOverPipe(t *testing.T, frame wire.FrameKind, decode DecodeFunc) (*Session, *fakePLC) {
	t.Helper()
	client, server := net.Pipe()
	s := New("pipe", TCP, wire.Binary, frame, decode, nil)
	s.attach(client)
	t.Cleanup(func() { s.Close() })
	return s, &fakePLC{conn: server}
}

// respond reads one request off the pipe (just enough to know it arrived)
// and writes back a canned 4E binary response for the given seq.
func (f *fakePLC) respond(t *testing.T, seq uint16, endCode uint16, body []byte) {
	t.Helper()
	buf := make([]byte, 256)
	if _, err := f.conn.Read(buf); err != nil {
		t.Fatalf("fake PLC read: %v", err)
	}
	var out []byte
	out = append(out, 0xD4, 0x00)
	out = wire.PutUint16LE(out, seq)
	out = append(out, 0x00, 0x00)
	out = append(out, 1, 1)
	out = wire.PutUint16LE(out, 1)
	out = append(out, 1)
	out = wire.PutUint16LE(out, uint16(len(body)+2))
	out = wire.PutUint16LE(out, endCode)
	out = append(out, body...)
	if _, err := f.conn.Write(out); err != nil {
		t.Fatalf("fake PLC write: %v", err)
	}
}

func TestSessionSendWaitRoundTrip(t *testing.T) {
	s, plc := newSessionOverPipe(t, wire.Frame4E, nil)
	ctx := context.Background()

	seq := s.NextSeq()
	target := wire.Target{Network: 1, PC: 1, IO: 1, Multidrop: 1}
	frameBytes, err := wire.BuildRequest(wire.Binary, wire.Frame4E, seq, target, 6, 0x0401, 0x0001, []byte{0x64, 0x00, 0x00, 0x90, 0x08, 0x00})
	if err != nil {
		t.Fatalf("BuildRequest: %v", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		plc.respond(t, seq, 0, []byte{0xAA, 0xBB})
	}()

	if err := s.Send(frameBytes, seq); err != nil {
		t.Fatalf("Send: %v", err)
	}
	rec, err := s.Wait(ctx, seq, 6)
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if rec.EndCode != 0 {
		t.Fatalf("rec.EndCode = %d, want 0", rec.EndCode)
	}
	if string(rec.Body) != string([]byte{0xAA, 0xBB}) {
		t.Fatalf("rec.Body = % X, want AA BB", rec.Body)
	}
	<-done
}

// TestSessionSequenceWrapsAfter256Sends locks in the spec.md §8 property
// that the 4E sequence counter is a u8 that wraps back to 0 after 256
// allocations, even though the wire carries it as a u16 LE.
func TestSessionSequenceWrapsAfter256Sends(t *testing.T) {
	s := New("pipe", TCP, wire.Binary, wire.Frame4E, nil, nil)
	var first uint16
	for i := 0; i < 256; i++ {
		v := s.NextSeq()
		if i == 0 {
			first = v
		}
	}
	wrapped := s.NextSeq()
	if wrapped != first {
		t.Fatalf("NextSeq after 256 allocations = %d, want it to wrap back to %d", wrapped, first)
	}
}

// TestSessionThreeESerializesOneOutstandingRequest exercises the spec.md
// §5 contract that a 3E session never allows a second request to acquire
// the serial gate until the first's matching Wait has released it.
func TestSessionThreeESerializesOneOutstandingRequest(t *testing.T) {
	s, plc := newSessionOverPipe(t, wire.Frame3E, nil)
	ctx := context.Background()

	release1, err := s.AcquireSerial(ctx)
	if err != nil {
		t.Fatalf("AcquireSerial: %v", err)
	}

	acquired2 := make(chan struct{})
	go func() {
		release2, err := s.AcquireSerial(ctx)
		if err != nil {
			t.Errorf("second AcquireSerial: %v", err)
			return
		}
		close(acquired2)
		release2()
	}()

	select {
	case <-acquired2:
		t.Fatal("second AcquireSerial should not succeed while the first holds the gate")
	case <-time.After(50 * time.Millisecond):
	}

	seq := s.NextSeq()
	target := wire.Target{}
	frameBytes, err := wire.BuildRequest(wire.Binary, wire.Frame3E, seq, target, 6, 0x0401, 0x0001, []byte{0x01})
	if err != nil {
		t.Fatalf("BuildRequest: %v", err)
	}
	go plc.respond(t, seq, 0, nil)
	if err := s.Send(frameBytes, seq); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if _, err := s.Wait(ctx, seq, 6); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	release1()

	select {
	case <-acquired2:
	case <-time.After(time.Second):
		t.Fatal("second AcquireSerial did not succeed after the first was released")
	}
}

func TestSessionPollOnDemand(t *testing.T) {
	decode := func(rec wire.Record) uint16 {
		return wire.Uint16LE(rec.Body[:2])
	}
	s, plc := newSessionOverPipe(t, wire.Frame4E, decode)

	done := make(chan struct{})
	go func() {
		defer close(done)
		// OnDemand pushes always carry seq 0 and echo the 0x2101 command
		// code as the first two body bytes (spec.md §4.5).
		plc.respond(t, 0, 0, []byte{0x01, 0x21, 0xFF, 0xFF})
	}()
	<-done

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if rec, ok := s.PollOnDemand(); ok {
			if rec.Body[0] != 0x01 || rec.Body[1] != 0x21 {
				t.Fatalf("unexpected OnDemand body % X", rec.Body)
			}
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("PollOnDemand never observed the pushed record")
}
