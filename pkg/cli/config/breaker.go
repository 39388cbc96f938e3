package config

import (
	"log/slog"
	"time"

	"github.com/secmon-lab/pipewatch/pkg/usecase"
	"github.com/secmon-lab/pipewatch/pkg/utils/breaker"
	"github.com/urfave/cli/v3"
)

// Breaker configures the circuit breaker in front of the fix suggester.
type Breaker struct {
	threshold    int
	resetTimeout time.Duration
}

func (x *Breaker) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:        "breaker-threshold",
			Usage:       "Consecutive failures that open the circuit",
			Category:    "Circuit breaker",
			Value:       usecase.DefaultBreakerThreshold,
			Destination: &x.threshold,
			Sources:     cli.EnvVars("PIPEWATCH_BREAKER_THRESHOLD"),
		},
		&cli.DurationFlag{
			Name:        "breaker-reset-timeout",
			Usage:       "Time the circuit stays open before a probe is allowed",
			Category:    "Circuit breaker",
			Value:       usecase.DefaultBreakerResetTimeout,
			Destination: &x.resetTimeout,
			Sources:     cli.EnvVars("PIPEWATCH_BREAKER_RESET_TIMEOUT"),
		},
	}
}

func (x *Breaker) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("threshold", x.threshold),
		slog.Duration("resetTimeout", x.resetTimeout),
	)
}

func (x *Breaker) New(name string) (*breaker.Breaker, error) {
	return breaker.New(x.threshold, x.resetTimeout, breaker.WithName(name))
}
