// Package correlator implements the SLMP response correlator (spec.md
// §4.5): a shared seq -> response mapping fed by a background receiver and
// drained by waiting callers, plus non-blocking on-demand message
// inspection.
package correlator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/slmpgo/slmp/internal/wire"
)

// onDemandCommand is the SLMP command code a PLC uses for unsolicited
// pushes (spec.md §3, §4.5).
const onDemandCommand = 0x2101

// minWaitBudget is the documented floor for a monitor_timer of 0 ("wait
// indefinitely" implemented as a large but finite budget).
const minWaitBudget = 100 * time.Second

// Record pairs a parsed wire.Record with the command code the caller
// associates with it, so OnDemand scanning doesn't need to re-decode body
// bytes to find the 0x2101 fingerprint (DESIGN NOTES §9).
type Record struct {
	Wire    wire.Record
	Command uint16
}

// ErrCancelled is returned to every waiter when the owning session is torn
// down while they are still blocked in Wait.
var ErrCancelled = fmt.Errorf("slmp: session closed while waiting")

// ErrTimeout is returned by Wait when the deadline elapses before a
// matching response arrives.
var ErrTimeout = fmt.Errorf("slmp: timed out waiting for response")

// Correlator maps sequence numbers to delivered responses.
type Correlator struct {
	mu        sync.Mutex
	cond      *sync.Cond
	pending   map[uint16]Record
	closed    bool
	onSuccess func(rtt time.Duration)
	onTimeout func()
}

// New constructs an empty Correlator. onSuccess/onTimeout (either may be
// nil) let the owning session feed latency samples into its metrics
// without the correlator knowing anything about metrics itself.
func New(onSuccess func(time.Duration), onTimeout func()) *Correlator {
	c := &Correlator{
		pending:   make(map[uint16]Record),
		onSuccess: onSuccess,
		onTimeout: onTimeout,
	}
	c.cond = sync.NewCond(&c.mu)
	return c
}

// Deliver is called by the receiver loop for every record it parses.
func (c *Correlator) Deliver(seq uint16, rec Record) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.pending[seq] = rec
	c.cond.Broadcast()
}

// Wait blocks until a response for seq arrives or the deadline elapses.
// monitorTimer is in 250ms units per spec.md §3/§5; 0 means "no finite
// local budget", implemented as minWaitBudget.
func (c *Correlator) Wait(ctx context.Context, seq uint16, monitorTimer uint16) (Record, error) {
	start := time.Now()
	budget := time.Duration(monitorTimer) * 250 * time.Millisecond
	if monitorTimer == 0 {
		budget = minWaitBudget
	}
	deadline := start.Add(budget)

	// sync.Cond has no deadline-aware wait, so a dedicated watcher
	// goroutine nudges the condition variable when the deadline (or
	// context) fires. This keeps the mutex-holding wait loop itself
	// simple and matches the "waiters don't hold other locks while
	// blocked" rule in spec.md §5.
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		timer := time.NewTimer(time.Until(deadline))
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
		case <-stop:
			return
		}
		c.mu.Lock()
		c.cond.Broadcast()
		c.mu.Unlock()
	}()

	c.mu.Lock()
	defer c.mu.Unlock()
	for {
		if rec, ok := c.pending[seq]; ok {
			delete(c.pending, seq)
			if c.onSuccess != nil {
				c.onSuccess(time.Since(start))
			}
			return rec, nil
		}
		if c.closed {
			return Record{}, ErrCancelled
		}
		if !time.Now().Before(deadline) {
			if c.onTimeout != nil {
				c.onTimeout()
			}
			return Record{}, ErrTimeout
		}
		if err := ctx.Err(); err != nil {
			return Record{}, err
		}
		c.cond.Wait()
	}
}

// Close fails every current and future waiter with ErrCancelled.
func (c *Correlator) Close() {
	c.mu.Lock()
	c.closed = true
	c.cond.Broadcast()
	c.mu.Unlock()
}

// PollOnDemand performs the non-blocking scan described in spec.md §4.5:
// it looks for a delivered record whose command is the OnDemand code,
// removes it, and returns it. Returns ok=false if none is pending.
func (c *Correlator) PollOnDemand() (rec Record, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for seq, r := range c.pending {
		if r.Command == onDemandCommand {
			delete(c.pending, seq)
			return r, true
		}
	}
	return Record{}, false
}
