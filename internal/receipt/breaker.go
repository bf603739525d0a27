package receipt

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/airwell-backend/internal/metrics"
	"github.com/sony/gobreaker/v2"
)

// BreakerVerifier guards another Verifier with a circuit breaker. Rejected
// receipts are answers, not outages, so they never trip the breaker.
type BreakerVerifier struct {
	next Verifier
	cb   *gobreaker.CircuitBreaker[*Result]
	name string
}

func NewBreakerVerifier(next Verifier) *BreakerVerifier {
	name := "apple-verify-receipt"
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[*Result](gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrInvalidReceipt)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("circuit breaker state change", "name", name, "from", from.String(), "to", to.String())
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
	})

	return &BreakerVerifier{next: next, cb: cb, name: name}
}

func (b *BreakerVerifier) Verify(ctx context.Context, req Request) (*Result, error) {
	res, err := b.cb.Execute(func() (*Result, error) {
		return b.next.Verify(ctx, req)
	})

	switch {
	case err == nil:
		metrics.ReceiptVerifications.WithLabelValues("valid").Inc()
		return res, nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.ReceiptVerifications.WithLabelValues("rejected").Inc()
		return nil, errors.Join(ErrUnavailable, err)
	case errors.Is(err, ErrInvalidReceipt):
		metrics.ReceiptVerifications.WithLabelValues("invalid").Inc()
		return nil, err
	default:
		metrics.ReceiptVerifications.WithLabelValues("error").Inc()
		return nil, err
	}
}

// State exposes the breaker state for health reporting.
func (b *BreakerVerifier) State() gobreaker.State {
	return b.cb.State()
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
