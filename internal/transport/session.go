// Package transport owns the single TCP or UDP socket a Session shares
// between the sending caller and a background receiver goroutine
// (spec.md §4.6, §5).
package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/slmpgo/slmp/internal/correlator"
	"github.com/slmpgo/slmp/internal/logging"
	"github.com/slmpgo/slmp/internal/metrics"
	"github.com/slmpgo/slmp/internal/wire"
)

// Kind selects the socket type.
type Kind int

const (
	TCP Kind = iota
	UDP
)

// recvChunk is the minimum per-iteration read size (spec.md §4.6: "≥ 512 bytes").
const recvChunk = 4096

// recvPoll is the short non-blocking poll interval applied as a read
// deadline, so the receiver loop can notice Close promptly.
const recvPoll = 200 * time.Millisecond

// DecodeFunc extracts the command code from a wire.Record's body so the
// correlator can fingerprint OnDemand pushes without re-touching bytes.
type DecodeFunc func(rec wire.Record) (command uint16)

// Session is one logical connection to a PLC: one socket, one receiver
// goroutine, a shared sequence counter, and the response correlator.
type Session struct {
	addr    string
	kind    Kind
	profile wire.Encoding
	frame   wire.FrameKind
	decode  DecodeFunc
	logger  logging.Logger
	metrics *metrics.Recorder

	mu       sync.Mutex // guards seq, conn, parser, refcount, recv lifecycle
	conn     net.Conn
	parser   *wire.Parser
	seq      uint16
	refcount int
	recvDone chan struct{}
	closing  bool

	corr *correlator.Correlator

	// threeEGate serializes 3E requests: the wire carries no sequence
	// number, so only one request may be outstanding at a time
	// (spec.md §4.5, §5).
	threeEGate chan struct{}
}

// New constructs an unopened Session. decode and logger may be nil.
func New(addr string, kind Kind, enc wire.Encoding, frame wire.FrameKind, decode DecodeFunc, logger logging.Logger) *Session {
	if logger == nil {
		logger = logging.Default()
	}
	s := &Session{
		addr:    addr,
		kind:    kind,
		profile: enc,
		frame:   frame,
		decode:  decode,
		logger:  logger.With(logging.F("component", "transport")),
		metrics: &metrics.Recorder{},
	}
	if frame == wire.Frame3E {
		s.threeEGate = make(chan struct{}, 1)
	}
	s.corr = correlator.New(s.metrics.RecordSuccess, s.metrics.RecordTimeout)
	return s
}

// Metrics returns a snapshot of this session's traffic metrics.
func (s *Session) Metrics() metrics.Snapshot { return s.metrics.Snapshot() }

// RecordFailure marks one command as failed for a reason other than a
// local wait timeout (a send failure, a wait that ended without a
// response for another reason, or a non-success end-code) — the caller
// already classified the error, this just feeds the counter
// Snapshot.Failed reports. Failures to decode a response body are not
// counted.
func (s *Session) RecordFailure() { s.metrics.RecordFailure() }

// Open dials the peer if this is the first Open call; nested opens
// increment a reference count and are otherwise no-ops (spec.md §4.6).
func (s *Session) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.refcount > 0 {
		s.refcount++
		return nil
	}

	network := "tcp"
	if s.kind == UDP {
		network = "udp"
	}
	dialer := net.Dialer{}
	conn, err := dialer.DialContext(ctx, network, s.addr)
	if err != nil {
		return fmt.Errorf("slmp: dial %s %s: %w", network, s.addr, err)
	}
	tuneSocket(conn, s.logger)
	s.attachLocked(conn)
	return nil
}

// attachLocked wires an already-established conn into the session. Open
// uses it after a real dial; tests use the attach wrapper below to drive
// the same receive-loop and correlator plumbing over a net.Pipe, without
// a live socket or tuneSocket's platform-specific syscalls.
func (s *Session) attachLocked(conn net.Conn) {
	s.conn = conn
	s.parser = &wire.Parser{}
	s.closing = false
	s.refcount = 1
	s.recvDone = make(chan struct{})
	go s.receiveLoop(conn, s.parser, s.recvDone)
}

// attach is the test-only entry point for attachLocked, used by
// session_test.go to exercise Send/Wait/receiveLoop over an in-process
// net.Pipe fake instead of a dialed socket.
func (s *Session) attach(conn net.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attachLocked(conn)
}

// Close decrements the reference count; at zero it shuts the socket down,
// joins the receiver goroutine, and fails every pending waiter with
// ErrCancelled.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.refcount == 0 {
		s.mu.Unlock()
		return nil
	}
	s.refcount--
	if s.refcount > 0 {
		s.mu.Unlock()
		return nil
	}
	s.closing = true
	conn := s.conn
	done := s.recvDone
	s.mu.Unlock()

	var closeErr error
	if conn != nil {
		closeErr = conn.Close()
	}
	if done != nil {
		<-done
	}
	s.corr.Close()
	return closeErr
}

// NextSeq allocates the next 4E sequence byte, wrapping after 0xFF
// (spec.md §3, §9: the wire emits a full u16 LE but the counter itself is
// a u8). For 3E, the returned sequence is always 0 and the caller must
// hold the gate returned by AcquireSerial.
func (s *Session) NextSeq() uint16 {
	if s.frame == wire.Frame3E {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.seq
	s.seq = uint16((uint8(s.seq) + 1))
	return v
}

// AcquireSerial blocks until this caller may issue the single outstanding
// 3E request; it is a no-op for 4E sessions. The returned release func
// must be called exactly once, after the matching Wait returns.
func (s *Session) AcquireSerial(ctx context.Context) (release func(), err error) {
	if s.threeEGate == nil {
		return func() {}, nil
	}
	select {
	case s.threeEGate <- struct{}{}:
		return func() { <-s.threeEGate }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Send writes one frame, already built by the caller, to the socket under
// the session mutex (spec.md §5). seq is used only for logging.
func (s *Session) Send(frameBytes []byte, seq uint16) error {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn == nil {
		return errors.New("slmp: session is not open")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.metrics.RecordSend()
	if _, err := conn.Write(frameBytes); err != nil {
		return fmt.Errorf("slmp: write frame: %w", err)
	}
	s.logger.Debug("sent frame", logging.F("seq", seq), logging.F("bytes", len(frameBytes)))
	return nil
}

// Wait blocks for the response to seq, per the correlator's contract.
func (s *Session) Wait(ctx context.Context, seq uint16, monitorTimer uint16) (wire.Record, error) {
	rec, err := s.corr.Wait(ctx, seq, monitorTimer)
	if err != nil {
		return wire.Record{}, err
	}
	return rec.Wire, nil
}

// PollOnDemand performs the non-blocking OnDemand scan (spec.md §4.5).
func (s *Session) PollOnDemand() (wire.Record, bool) {
	rec, ok := s.corr.PollOnDemand()
	if !ok {
		return wire.Record{}, false
	}
	return rec.Wire, true
}

func (s *Session) receiveLoop(conn net.Conn, parser *wire.Parser, done chan struct{}) {
	defer close(done)
	buf := make([]byte, recvChunk)

	for {
		s.mu.Lock()
		closing := s.closing
		s.mu.Unlock()
		if closing {
			return
		}

		_ = conn.SetReadDeadline(time.Now().Add(recvPoll))
		n, err := conn.Read(buf)
		if n > 0 {
			s.handleChunk(parser, buf[:n])
		}
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				continue
			}
			s.logger.Debug("receive loop ending", logging.F("error", err))
			return
		}
	}
}

func (s *Session) handleChunk(parser *wire.Parser, chunk []byte) {
	s.mu.Lock()
	feedErr := parser.Feed(chunk)
	s.mu.Unlock()
	if feedErr != nil {
		s.logger.Warn("carry buffer overflow, dropping chunk", logging.F("error", feedErr))
		return
	}

	for {
		s.mu.Lock()
		rec, err := parser.Next()
		s.mu.Unlock()
		if err != nil {
			s.logger.Warn("frame parse error", logging.F("error", err))
			return
		}
		if rec == nil {
			return
		}

		var command uint16
		if s.decode != nil {
			command = s.decode(*rec)
		}
		s.logger.Debug("received frame", logging.F("seq", rec.Seq), logging.F("endCode", rec.EndCode))
		s.corr.Deliver(rec.Seq, correlator.Record{Wire: *rec, Command: command})
	}
}
