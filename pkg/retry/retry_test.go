package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quickConfig(maxRetries int) *Config {
	return &Config{
		MaxRetries:   maxRetries,
		InitialDelay: 5 * time.Millisecond,
		MaxDelay:     50 * time.Millisecond,
		Multiplier:   2.0,
	}
}

func TestDo_SucceedsFirstTry(t *testing.T) {
	calls := 0
	err := Do(context.Background(), quickConfig(3), func() error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_SucceedsAfterRetries(t *testing.T) {
	calls := 0
	err := Do(context.Background(), quickConfig(3), func() error {
		calls++
		if calls < 3 {
			return errors.New("transient error")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_ReturnsLastErrorWhenExhausted(t *testing.T) {
	wantErr := errors.New("persistent error")
	calls := 0
	err := Do(context.Background(), quickConfig(2), func() error {
		calls++
		return wantErr
	})

	require.ErrorIs(t, err, wantErr)
	// Initial attempt plus two retries.
	assert.Equal(t, 3, calls)
}

func TestDo_NilConfigUsesDefaults(t *testing.T) {
	calls := 0
	err := Do(context.Background(), nil, func() error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_ContextCancellationStopsWaiting(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := &Config{
		MaxRetries:   5,
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     time.Second,
		Multiplier:   2.0,
	}

	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	calls := 0
	start := time.Now()
	err := Do(ctx, cfg, func() error {
		calls++
		return errors.New("still failing")
	})

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
	assert.Less(t, time.Since(start), 200*time.Millisecond)
}

func TestDo_BackoffGrowsAndCaps(t *testing.T) {
	cfg := &Config{
		MaxRetries:   3,
		InitialDelay: 40 * time.Millisecond,
		MaxDelay:     60 * time.Millisecond,
		Multiplier:   2.0,
	}

	var callTimes []time.Time
	err := Do(context.Background(), cfg, func() error {
		callTimes = append(callTimes, time.Now())
		return errors.New("still failing")
	})

	require.Error(t, err)
	require.Len(t, callTimes, 4)

	first := callTimes[1].Sub(callTimes[0])
	assert.GreaterOrEqual(t, first, 35*time.Millisecond)

	// Second and third waits are capped at MaxDelay.
	for i := 2; i < len(callTimes); i++ {
		delay := callTimes[i].Sub(callTimes[i-1])
		assert.Less(t, delay, 100*time.Millisecond)
	}
}

func TestDoWithResult_CarriesValue(t *testing.T) {
	calls := 0
	got, err := DoWithResult(context.Background(), quickConfig(3), func() (int, error) {
		calls++
		if calls < 2 {
			return 0, errors.New("transient error")
		}
		return 42, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 42, got)
	assert.Equal(t, 2, calls)
}

func TestDoWithResult_KeepsLastResultOnFailure(t *testing.T) {
	wantErr := errors.New("persistent error")
	got, err := DoWithResult(context.Background(), quickConfig(1), func() (string, error) {
		return "partial", wantErr
	})

	require.ErrorIs(t, err, wantErr)
	assert.Equal(t, "partial", got)
}

func TestDoIfRetryable_RetriesTransientErrors(t *testing.T) {
	calls := 0
	err := DoIfRetryable(context.Background(), quickConfig(3), func() error {
		calls++
		if calls < 3 {
			return errors.New("connection refused")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoIfRetryable_BailsOnPermanentErrors(t *testing.T) {
	wantErr := errors.New("password authentication failed")
	calls := 0
	err := DoIfRetryable(context.Background(), quickConfig(3), func() error {
		calls++
		return wantErr
	})

	require.ErrorIs(t, err, wantErr)
	assert.Equal(t, 1, calls)
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error", nil, false},
		{"connection refused", errors.New("connection refused"), true},
		{"uppercase variant", errors.New("Connection Refused"), true},
		{"connection reset", errors.New("read: connection reset by peer"), true},
		{"broken pipe", errors.New("write: broken pipe"), true},
		{"no such host", errors.New("dial tcp: lookup db: no such host"), true},
		{"io timeout", errors.New("i/o timeout"), true},
		{"network unreachable", errors.New("network is unreachable"), true},
		{"too many connections", errors.New("FATAL: too many connections"), true},
		{"deadlock", errors.New("deadlock detected"), true},
		{"postgres booting", errors.New("FATAL: the database system is starting up"), true},
		{"bad password", errors.New("password authentication failed"), false},
		{"permission denied", errors.New("permission denied for table skills"), false},
		{"bad dsn", errors.New("cannot parse `host=`: invalid dsn"), false},
		{"missing table", errors.New("relation does not exist"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}
