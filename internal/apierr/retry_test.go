package apierr_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/yhzhou/feedsum/internal/apierr"
)

func TestRetryWithBackoff(t *testing.T) {
	t.Parallel()

	t.Run("first success returns without waiting", func(t *testing.T) {
		t.Parallel()

		calls := 0
		got, err := apierr.RetryWithBackoff(
			context.Background(),
			apierr.RetryConfig{MaxRetries: 5, BaseDelay: time.Second, MaxDelay: time.Minute},
			func() (int, error) {
				calls++
				return 42, nil
			},
			func(error) bool { return true },
		)
		if err != nil {
			t.Fatalf("RetryWithBackoff() error: %v", err)
		}
		if got != 42 {
			t.Errorf("got %d, want 42", got)
		}
		if calls != 1 {
			t.Errorf("calls = %d, want 1", calls)
		}
	})

	t.Run("non-retryable error stops after one attempt", func(t *testing.T) {
		t.Parallel()

		calls := 0
		permanent := errors.New("permanent")
		_, err := apierr.RetryWithBackoff(
			context.Background(),
			apierr.RetryConfig{MaxRetries: 5, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond},
			func() (string, error) {
				calls++
				return "", permanent
			},
			func(error) bool { return false },
		)
		if !errors.Is(err, permanent) {
			t.Errorf("error = %v, want %v", err, permanent)
		}
		if calls != 1 {
			t.Errorf("calls = %d, want 1", calls)
		}
	})

	t.Run("transient failures retry until success", func(t *testing.T) {
		t.Parallel()

		calls := 0
		got, err := apierr.RetryWithBackoff(
			context.Background(),
			apierr.RetryConfig{MaxRetries: 3, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond},
			func() (string, error) {
				calls++
				if calls < 3 {
					return "", errors.New("transient")
				}
				return "done", nil
			},
			func(error) bool { return true },
		)
		if err != nil {
			t.Fatalf("RetryWithBackoff() error: %v", err)
		}
		if got != "done" {
			t.Errorf("got %q, want %q", got, "done")
		}
		if calls != 3 {
			t.Errorf("calls = %d, want 3", calls)
		}
	})

	t.Run("budget exhausted wraps the last error", func(t *testing.T) {
		t.Parallel()

		calls := 0
		transient := errors.New("still failing")
		_, err := apierr.RetryWithBackoff(
			context.Background(),
			apierr.RetryConfig{MaxRetries: 2, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond},
			func() (string, error) {
				calls++
				return "", transient
			},
			func(error) bool { return true },
		)
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if !errors.Is(err, transient) {
			t.Errorf("error should wrap last failure: %v", err)
		}
		if calls != 3 {
			t.Errorf("calls = %d, want 3 (1 initial + 2 retries)", calls)
		}
	})

	t.Run("cancelled context interrupts the wait", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		calls := 0
		_, err := apierr.RetryWithBackoff(
			ctx,
			apierr.RetryConfig{MaxRetries: 5, BaseDelay: time.Second, MaxDelay: time.Minute},
			func() (string, error) {
				calls++
				return "", errors.New("transient")
			},
			func(error) bool { return true },
		)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("error = %v, want context.Canceled", err)
		}
		if calls != 1 {
			t.Errorf("calls = %d, want 1", calls)
		}
	})

	t.Run("negative MaxRetries means a single attempt", func(t *testing.T) {
		t.Parallel()

		calls := 0
		_, err := apierr.RetryWithBackoff(
			context.Background(),
			apierr.RetryConfig{MaxRetries: -1, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond},
			func() (string, error) {
				calls++
				return "", errors.New("fails")
			},
			func(error) bool { return true },
		)
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if calls != 1 {
			t.Errorf("calls = %d, want 1", calls)
		}
	})
}
