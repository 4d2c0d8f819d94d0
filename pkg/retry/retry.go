// Package retry aplica un timeout acotado por intento y reintentos constantes sobre llamadas de red
// (resolución de tenant, lecturas del ledger).
package retry

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Policy configuración de reintentos. Timeout cero usa el de Default().
type Policy struct {
	Timeout time.Duration // timeout por intento
	Retries int           // reintentos adicionales al primer intento
	Delay   time.Duration // espera entre intentos
	// Retryable decide si un error admite reintento; nil = todos salvo cancelación del caller.
	Retryable func(error) bool
}

// Default timeout de 5s y un único reintento.
func Default() Policy {
	return Policy{Timeout: 5 * time.Second, Retries: 1, Delay: 200 * time.Millisecond}
}

// Do ejecuta op con timeout por intento; reintenta hasta Retries veces si el error es reintentable.
func (p Policy) Do(ctx context.Context, op func(ctx context.Context) error) error {
	if p.Timeout <= 0 {
		p.Timeout = Default().Timeout
	}
	if p.Retries < 0 {
		p.Retries = 0
	}
	var b backoff.BackOff = backoff.NewConstantBackOff(p.Delay)
	b = backoff.WithContext(backoff.WithMaxRetries(b, uint64(p.Retries)), ctx)

	return backoff.Retry(func() error {
		attemptCtx, cancel := context.WithTimeout(ctx, p.Timeout)
		defer cancel()
		err := op(attemptCtx)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil || !p.retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}, b)
}

func (p Policy) retryable(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	if p.Retryable == nil {
		return true
	}
	return p.Retryable(err) || errors.Is(err, context.DeadlineExceeded)
}
