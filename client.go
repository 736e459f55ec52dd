package slmp

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/slmpgo/slmp/internal/correlator"
	"github.com/slmpgo/slmp/internal/logging"
	"github.com/slmpgo/slmp/internal/metrics"
	"github.com/slmpgo/slmp/internal/transport"
	"github.com/slmpgo/slmp/internal/wire"
)

var (
	errCorrelatorTimeout   = correlator.ErrTimeout
	errCorrelatorCancelled = correlator.ErrCancelled
)

// Config describes how to reach and speak to one PLC (spec.md §6). It is
// a plain struct: no environment variables or flags are consulted by
// this package.
type Config struct {
	Address  string
	Port     int
	Profile  ProtocolProfile
	Logger   logging.Logger
	Timeout  time.Duration // default per-command context timeout when the caller passes context.Background
}

// DefaultPort is the SLMP default per spec.md §6.
const DefaultPort = 5000

func (c Config) addr() string {
	port := c.Port
	if port == 0 {
		port = DefaultPort
	}
	return fmt.Sprintf("%s:%d", c.Address, port)
}

// Client is a single SLMP session: one socket, one logical target
// quintuple, and the monitor registration state machine.
type Client struct {
	cfg     Config
	session *transport.Session
	logger  logging.Logger

	mu      sync.Mutex
	target  Target
	monitor MonitorRegistration
}

// Dial opens a Client against cfg's peer. The dial itself is cancellable
// via ctx; once open, the underlying socket's lifetime is independent of
// ctx.
func Dial(ctx context.Context, cfg Config, target Target) (*Client, error) {
	if cfg.Address == "" {
		return nil, invalidArgument("address must not be empty")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	kind := transport.TCP
	if cfg.Profile.Transport == UDP {
		kind = transport.UDP
	}

	c := &Client{cfg: cfg, logger: logger, target: target}
	c.session = transport.New(cfg.addr(), kind, cfg.Profile.Encoding, cfg.Profile.Frame, decodeOnDemandCommand(cfg.Profile.Encoding), logger)
	if err := c.session.Open(ctx); err != nil {
		return nil, transportError(err)
	}
	return c, nil
}

// Close tears the session down, failing every pending wait with
// Cancelled.
func (c *Client) Close() error {
	if err := c.session.Close(); err != nil {
		return transportError(err)
	}
	return nil
}

// SetTarget replaces the target quintuple used by subsequent commands
// (spec.md §3: "the quintuple may be mutated between requests").
func (c *Client) SetTarget(t Target) {
	c.mu.Lock()
	c.target = t
	c.mu.Unlock()
}

// Target returns the quintuple currently in effect.
func (c *Client) Target() Target {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target
}

// Metrics returns a snapshot of this client's round-trip latency and
// counters (SPEC_FULL.md §2 item 10).
func (c *Client) Metrics() metrics.Snapshot { return c.session.Metrics() }

// PollOnDemand performs a non-blocking scan for a pushed OnDemand
// message, returning its body and an ok flag (spec.md §4.5).
func (c *Client) PollOnDemand() (body []byte, ok bool, err error) {
	rec, found := c.session.PollOnDemand()
	if !found {
		return nil, false, nil
	}
	if rec.EndCode != uint16(Success) {
		return nil, true, communicationError(OnDemand, EndCode(rec.EndCode))
	}
	return onDemandPayload(c.cfg.Profile.Encoding, rec.Body), true, nil
}

// roundTrip sends one frame and waits for its matching response,
// applying the shared template from spec.md §4.7: build → send → wait →
// check end-code.
func (c *Client) roundTrip(ctx context.Context, cmd CommandCode, subcommand uint16, monitorTimer uint16, payload []byte) (wire.Record, error) {
	profile := c.cfg.Profile
	target := c.Target()

	if c.cfg.Timeout > 0 && ctx.Done() == nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	release, err := c.session.AcquireSerial(ctx)
	if err != nil {
		return wire.Record{}, cancelledError(err)
	}
	defer release()

	seq := c.session.NextSeq()
	frame, err := wire.BuildRequest(profile.Encoding, profile.Frame, seq, target, monitorTimer, uint16(cmd), subcommand, payload)
	if err != nil {
		return wire.Record{}, invalidArgument("%v", err)
	}
	if err := c.session.Send(frame, seq); err != nil {
		c.session.RecordFailure()
		return wire.Record{}, transportError(err)
	}

	rec, err := c.session.Wait(ctx, seq, monitorTimer)
	if err != nil {
		classified := classifyWaitErr(cmd, err)
		if classified.Kind != KindTimeout {
			c.session.RecordFailure()
		}
		return wire.Record{}, classified
	}
	if rec.EndCode != uint16(Success) {
		c.session.RecordFailure()
		return wire.Record{}, communicationError(cmd, EndCode(rec.EndCode))
	}
	return rec, nil
}

// decodeOnDemandCommand builds the transport.DecodeFunc used to
// fingerprint unsolicited pushes (DESIGN NOTES §9: match on the decoded
// command field, not a byte-prefix scan).
func decodeOnDemandCommand(enc Encoding) transport.DecodeFunc {
	return func(rec wire.Record) uint16 {
		if enc == Binary {
			if len(rec.Body) < 2 {
				return 0
			}
			return wire.Uint16LE(rec.Body[:2])
		}
		if len(rec.Body) < 4 {
			return 0
		}
		v, _, err := wire.ParseHexUpper(string(rec.Body[:4]), 4)
		if err != nil {
			return 0
		}
		return uint16(v)
	}
}

// onDemandPayload strips the command/subcommand echo from the front of
// an OnDemand body, returning the application payload behind it.
func onDemandPayload(enc Encoding, body []byte) []byte {
	if enc == Binary {
		if len(body) < 4 {
			return nil
		}
		return body[4:]
	}
	if len(body) < 8 {
		return nil
	}
	return body[8:]
}
