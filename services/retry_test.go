package services

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestWithRetry_FirstAttemptSucceeds(t *testing.T) {
	cfg := RetryConfig{MaxAttempts: 3, Delay: NoDelay}

	calls := 0
	err := WithRetry(context.Background(), cfg, func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("WithRetry() error = %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestWithRetry_EventualSuccess(t *testing.T) {
	cfg := RetryConfig{MaxAttempts: 3, Delay: NoDelay}

	calls := 0
	err := WithRetry(context.Background(), cfg, func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithRetry() error = %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestWithRetry_ExhaustsAttempts(t *testing.T) {
	cfg := RetryConfig{MaxAttempts: 3, Delay: NoDelay}

	underlying := errors.New("upstream down")
	calls := 0
	err := WithRetry(context.Background(), cfg, func() error {
		calls++
		return underlying
	})
	if calls != 3 {
		t.Errorf("calls = %d, want exactly 3", calls)
	}
	if !errors.Is(err, underlying) {
		t.Errorf("error %v does not wrap the last attempt error", err)
	}
}

func TestWithRetry_ContextCancelledDuringDelay(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := RetryConfig{
		MaxAttempts: 3,
		Delay:       func() time.Duration { return time.Hour },
	}

	calls := 0
	err := WithRetry(ctx, cfg, func() error {
		calls++
		return nil
	})
	if err == nil {
		t.Fatal("WithRetry() expected error on cancelled context")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
	if calls != 0 {
		t.Errorf("calls = %d, want 0", calls)
	}
}

func TestUniformJitter(t *testing.T) {
	min, max := 100*time.Millisecond, 3*time.Second
	draw := UniformJitter(min, max)
	for i := 0; i < 1000; i++ {
		d := draw()
		if d < min || d > max {
			t.Fatalf("draw %s outside [%s, %s]", d, min, max)
		}
	}
}

func TestUniformJitter_DegenerateRange(t *testing.T) {
	draw := UniformJitter(0, 0)
	if d := draw(); d != 0 {
		t.Errorf("draw = %s, want 0", d)
	}
	draw = UniformJitter(time.Second, time.Second)
	if d := draw(); d != time.Second {
		t.Errorf("draw = %s, want 1s", d)
	}
}
