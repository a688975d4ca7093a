package resilience

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestBulkhead_AllowsRequestsWithinLimit(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{
		Name:          "test",
		MaxConcurrent: 3,
	})

	var callCount int32

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := b.Execute(context.Background(), func() error {
				atomic.AddInt32(&callCount, 1)
				time.Sleep(10 * time.Millisecond)
				return nil
			})
			if err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		}()
	}

	wg.Wait()

	if callCount != 3 {
		t.Errorf("expected 3 calls, got %d", callCount)
	}
}

func TestBulkhead_QueuesWhenFull(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{
		Name:          "test",
		MaxConcurrent: 1,
	})

	started := make(chan struct{})
	release := make(chan struct{})

	go func() {
		b.Execute(context.Background(), func() error {
			close(started)
			<-release
			return nil
		})
	}()

	<-started

	// Second request queues until the slot frees up.
	done := make(chan error, 1)
	go func() {
		done <- b.Execute(context.Background(), func() error { return nil })
	}()

	select {
	case <-done:
		t.Fatal("second request should be queued while the slot is held")
	case <-time.After(20 * time.Millisecond):
	}

	close(release)

	if err := <-done; err != nil {
		t.Errorf("expected queued request to succeed, got %v", err)
	}
}

func TestBulkhead_ContextCancelledWhileWaiting(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{
		Name:          "test",
		MaxConcurrent: 1,
	})

	started := make(chan struct{})
	release := make(chan struct{})
	defer close(release)

	go func() {
		b.Execute(context.Background(), func() error {
			close(started)
			<-release
			return nil
		})
	}()

	<-started

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- b.Execute(ctx, func() error { return nil })
	}()

	cancel()

	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestBulkhead_TimesOutWaiting(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{
		Name:          "test",
		MaxConcurrent: 1,
		MaxWait:       20 * time.Millisecond,
	})

	started := make(chan struct{})
	release := make(chan struct{})
	defer close(release)

	go func() {
		b.Execute(context.Background(), func() error {
			close(started)
			<-release
			return nil
		})
	}()

	<-started

	err := b.Execute(context.Background(), func() error { return nil })
	if !errors.Is(err, ErrBulkheadTimeout) {
		t.Errorf("expected ErrBulkheadTimeout, got %v", err)
	}
}

func TestBulkhead_ExecuteWithResult(t *testing.T) {
	b := NewBulkhead(DefaultBulkheadConfig("test"))

	got, err := ExecuteWithResult(b, context.Background(), func() (string, error) {
		return "transcript", nil
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != "transcript" {
		t.Errorf("expected 'transcript', got %q", got)
	}
}

func TestBulkhead_Accounting(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{Name: "test", MaxConcurrent: 2})

	if b.MaxConcurrent() != 2 {
		t.Errorf("expected MaxConcurrent 2, got %d", b.MaxConcurrent())
	}
	if b.Available() != 2 {
		t.Errorf("expected 2 available, got %d", b.Available())
	}

	started := make(chan struct{})
	release := make(chan struct{})
	go func() {
		b.Execute(context.Background(), func() error {
			close(started)
			<-release
			return nil
		})
	}()

	<-started
	if b.InUse() != 1 {
		t.Errorf("expected 1 in use, got %d", b.InUse())
	}
	close(release)
}

func TestBulkhead_DefaultsZeroConcurrency(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{Name: "test", MaxConcurrent: 0})
	if b.MaxConcurrent() <= 0 {
		t.Error("expected a positive default for MaxConcurrent")
	}
}
