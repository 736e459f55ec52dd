package correlator

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/slmpgo/slmp/internal/wire"
)

func TestDeliverThenWaitSucceedsImmediately(t *testing.T) {
	c := New(nil, nil)
	c.Deliver(1, Record{Wire: wire.Record{Seq: 1, EndCode: 0}})

	rec, err := c.Wait(context.Background(), 1, 4)
	if err != nil {
		t.Fatalf("Wait error: %v", err)
	}
	if rec.Wire.Seq != 1 {
		t.Fatalf("rec.Wire.Seq = %d, want 1", rec.Wire.Seq)
	}
}

func TestWaitBlocksUntilDelivery(t *testing.T) {
	c := New(nil, nil)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		time.Sleep(20 * time.Millisecond)
		c.Deliver(7, Record{Wire: wire.Record{Seq: 7}})
	}()

	rec, err := c.Wait(context.Background(), 7, 40)
	if err != nil {
		t.Fatalf("Wait error: %v", err)
	}
	if rec.Wire.Seq != 7 {
		t.Fatalf("rec.Wire.Seq = %d, want 7", rec.Wire.Seq)
	}
	wg.Wait()
}

func TestWaitTimesOut(t *testing.T) {
	c := New(nil, nil)
	start := time.Now()
	// monitor_timer=1 -> a 250ms budget, well under the minWaitBudget
	// floor that only applies to monitor_timer=0.
	_, err := c.Wait(context.Background(), 3, 1)
	elapsed := time.Since(start)
	if err != ErrTimeout {
		t.Fatalf("Wait error = %v, want ErrTimeout", err)
	}
	if elapsed < 250*time.Millisecond {
		t.Fatalf("Wait returned after %v, want at least 250ms", elapsed)
	}
	if elapsed >= minWaitBudget {
		t.Fatalf("Wait waited %v, a nonzero monitor_timer should not hit the 0-only %v floor", elapsed, minWaitBudget)
	}
}

func TestCloseCancelsWaiters(t *testing.T) {
	c := New(nil, nil)
	done := make(chan error, 1)
	go func() {
		_, err := c.Wait(context.Background(), 9, 600)
		done <- err
	}()

	time.Sleep(10 * time.Millisecond)
	c.Close()

	select {
	case err := <-done:
		if err != ErrCancelled {
			t.Fatalf("Wait error = %v, want ErrCancelled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Wait did not return after Close")
	}
}

func TestWaitRespectsContextCancellation(t *testing.T) {
	c := New(nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := c.Wait(ctx, 2, 600)
	if err != context.Canceled {
		t.Fatalf("Wait error = %v, want context.Canceled", err)
	}
}

func TestPollOnDemand(t *testing.T) {
	c := New(nil, nil)
	c.Deliver(0, Record{Wire: wire.Record{Seq: 0, EndCode: 0}, Command: onDemandCommand})
	c.Deliver(1, Record{Wire: wire.Record{Seq: 1, EndCode: 0}, Command: 0x0401})

	rec, ok := c.PollOnDemand()
	if !ok {
		t.Fatal("PollOnDemand should find the OnDemand record")
	}
	if rec.Command != onDemandCommand {
		t.Fatalf("PollOnDemand returned command 0x%04X, want 0x%04X", rec.Command, onDemandCommand)
	}

	if _, ok := c.PollOnDemand(); ok {
		t.Fatal("PollOnDemand should not find a second OnDemand record")
	}
}

func TestWaitCallsOnSuccessAndOnTimeout(t *testing.T) {
	var successCalls, timeoutCalls int
	var mu sync.Mutex
	c := New(
		func(time.Duration) { mu.Lock(); successCalls++; mu.Unlock() },
		func() { mu.Lock(); timeoutCalls++; mu.Unlock() },
	)

	c.Deliver(1, Record{Wire: wire.Record{Seq: 1}})
	if _, err := c.Wait(context.Background(), 1, 4); err != nil {
		t.Fatalf("Wait error: %v", err)
	}
	if _, err := c.Wait(context.Background(), 2, 1); err != ErrTimeout {
		t.Fatalf("Wait error = %v, want ErrTimeout", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if successCalls != 1 || timeoutCalls != 1 {
		t.Fatalf("successCalls=%d timeoutCalls=%d, want 1 and 1", successCalls, timeoutCalls)
	}
}
