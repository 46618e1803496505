package genai

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
)

// ErrUnavailable is returned while the breaker is open.
var ErrUnavailable = errors.New("genai: temporarily unavailable")

// BreakerConfig configures the circuit breaker around a Generator.
type BreakerConfig struct {
	Name string

	// FailureThreshold is the number of consecutive failures before opening.
	FailureThreshold uint32

	// OpenTimeout is how long the breaker stays open before a trial request.
	OpenTimeout time.Duration

	// OnStateChange is called after every transition with the new state name.
	OnStateChange func(name, from, to string)
}

// DefaultBreakerConfig opens after 5 consecutive failures and half-opens after 30s.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Name:             "genai",
		FailureThreshold: 5,
		OpenTimeout:      30 * time.Second,
	}
}

// Breaker wraps a Generator with a circuit breaker.
type Breaker struct {
	next Generator
	cb   *gobreaker.CircuitBreaker[string]
}

// NewBreaker wraps next.
func NewBreaker(next Generator, cfg BreakerConfig, logger *zerolog.Logger) *Breaker {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = DefaultBreakerConfig().FailureThreshold
	}
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		// Missing configuration and caller cancellation say nothing about the upstream.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotConfigured) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
			if cfg.OnStateChange != nil {
				cfg.OnStateChange(name, from.String(), to.String())
			}
		},
	}
	return &Breaker{
		next: next,
		cb:   gobreaker.NewCircuitBreaker[string](settings),
	}
}

// Generate forwards to the wrapped Generator unless the breaker is open.
func (b *Breaker) Generate(ctx context.Context, prompt string) (string, error) {
	text, err := b.cb.Execute(func() (string, error) {
		return b.next.Generate(ctx, prompt)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return "", errors.Join(ErrUnavailable, err)
	}
	return text, err
}

// State returns the breaker state name: closed, half-open or open.
func (b *Breaker) State() string {
	return b.cb.State().String()
}
