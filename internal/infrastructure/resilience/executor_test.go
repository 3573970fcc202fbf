package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastPolicy() Policy {
	return Policy{
		MaxAttempts:    3,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     2 * time.Millisecond,
		BreakerEnabled: false,
	}
}

func TestExecuteRetriesRetryableFailures(t *testing.T) {
	e := NewExecutor(fastPolicy())

	calls := 0
	err := e.Execute(context.Background(), "op", func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	}, func(error) Verdict { return Verdict{Retryable: true, RecordFailure: true} })

	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
}

func TestExecuteDoesNotRetryPermanentFailures(t *testing.T) {
	e := NewExecutor(fastPolicy())

	calls := 0
	err := e.Execute(context.Background(), "op", func(context.Context) error {
		calls++
		return errors.New("permanent")
	}, func(error) Verdict { return Verdict{Retryable: false, RecordFailure: true} })

	if err == nil {
		t.Fatalf("expected error")
	}
	if calls != 1 {
		t.Fatalf("expected single attempt, got %d", calls)
	}
}

func TestExecuteStopsOnCanceledContext(t *testing.T) {
	e := NewExecutor(fastPolicy())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := e.Execute(ctx, "op", func(context.Context) error {
		calls++
		return nil
	}, nil)

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if calls != 0 {
		t.Fatalf("callback should not run on canceled context, ran %d times", calls)
	}
}

func TestBreakerOpensAfterFailureRatio(t *testing.T) {
	policy := fastPolicy()
	policy.BreakerEnabled = true
	policy.BreakerMinRequests = 2
	policy.BreakerFailureRatio = 0.5
	policy.BreakerOpenTimeout = time.Minute
	policy.MaxAttempts = 1
	e := NewExecutor(policy)

	fail := func(context.Context) error { return errors.New("down") }
	classify := func(error) Verdict { return Verdict{Retryable: false, RecordFailure: true} }

	for i := 0; i < 2; i++ {
		_ = e.Execute(context.Background(), "op", fail, classify)
	}

	err := e.Execute(context.Background(), "op", fail, classify)
	if !IsCircuitOpen(err) {
		t.Fatalf("expected open circuit, got %v", err)
	}
}
