package api

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/tapmap-app/tapmap/internal/logging"
)

// errBreakerOpen is matched by classify; both open-state rejections from
// gobreaker collapse into it.
var errBreakerOpen = errors.New("circuit breaker open")

type breakerConfig struct {
	Name         string
	MaxRequests  uint32
	Interval     time.Duration
	Timeout      time.Duration
	FailureRatio float64
	MinRequests  uint32
}

func defaultBreakerConfig(name string) breakerConfig {
	return breakerConfig{
		Name:         name,
		MaxRequests:  1,
		Interval:     60 * time.Second,
		Timeout:      30 * time.Second,
		FailureRatio: 0.6,
		MinRequests:  5,
	}
}

// breaker wraps the request path with a circuit breaker so a backend that
// keeps failing stops eating the full request timeout on every call.
type breaker struct {
	cb *gobreaker.CircuitBreaker[*outcome]
}

func newBreaker(cfg breakerConfig, log logging.Logger) *breaker {
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn(context.Background(), "circuit breaker state change",
				"breaker", name, "from", from.String(), "to", to.String())
		},
	}

	return &breaker{cb: gobreaker.NewCircuitBreaker[*outcome](settings)}
}

func (b *breaker) execute(fn func() (*outcome, error)) (*outcome, error) {
	res, err := b.cb.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %w", errBreakerOpen, err)
	}
	return res, err
}
