package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Finanzas-api/pkg/retry"
)

var errTransient = errors.New("transitorio")

func TestPolicy_UnReintento(t *testing.T) {
	p := retry.Policy{Timeout: time.Second, Retries: 1}
	calls := 0

	err := p.Do(context.Background(), func(context.Context) error {
		calls++
		if calls == 1 {
			return errTransient
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestPolicy_AgotaReintentos(t *testing.T) {
	p := retry.Policy{Timeout: time.Second, Retries: 1}
	calls := 0

	err := p.Do(context.Background(), func(context.Context) error {
		calls++
		return errTransient
	})

	assert.ErrorIs(t, err, errTransient)
	assert.Equal(t, 2, calls, "un intento más un único reintento")
}

func TestPolicy_ErrorNoReintentable(t *testing.T) {
	errFatal := errors.New("fatal")
	p := retry.Policy{Timeout: time.Second, Retries: 3, Retryable: func(err error) bool { return errors.Is(err, errTransient) }}
	calls := 0

	err := p.Do(context.Background(), func(context.Context) error {
		calls++
		return errFatal
	})

	assert.ErrorIs(t, err, errFatal)
	assert.Equal(t, 1, calls)
}

func TestPolicy_TimeoutPorIntento(t *testing.T) {
	p := retry.Policy{Timeout: 20 * time.Millisecond, Retries: 0}

	err := p.Do(context.Background(), func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
