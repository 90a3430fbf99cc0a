package utils

import (
	"errors"
	"testing"
	"time"
)

func TestRetrySucceedsAfterFailures(t *testing.T) {
	r := &RetryConfig{MaxAttempts: 3, BaseDelay: time.Millisecond, Logger: NewLogger()}

	calls := 0
	err := r.Do("flaky op", func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})

	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestRetryExhaustsAttempts(t *testing.T) {
	r := &RetryConfig{MaxAttempts: 2, BaseDelay: time.Millisecond, Logger: NewLogger()}

	sentinel := errors.New("hard failure")
	calls := 0
	err := r.Do("doomed op", func() error {
		calls++
		return sentinel
	})

	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
	if !errors.Is(err, sentinel) {
		t.Errorf("returned error should wrap the last failure, got %v", err)
	}
}

func TestRetryZeroAttemptsStillRunsOnce(t *testing.T) {
	r := &RetryConfig{Logger: NewLogger()}

	calls := 0
	_ = r.Do("op", func() error { calls++; return nil })
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}
