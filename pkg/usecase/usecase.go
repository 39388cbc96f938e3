package usecase

import (
	"time"

	"github.com/secmon-lab/pipewatch/pkg/domain/interfaces"
	"github.com/secmon-lab/pipewatch/pkg/infra"
	"github.com/secmon-lab/pipewatch/pkg/utils/breaker"
)

const (
	DefaultBreakerThreshold    = 5
	DefaultBreakerResetTimeout = 30 * time.Second
)

type UseCase struct {
	clients    *infra.Clients
	fixBreaker *breaker.Breaker
}

var _ interfaces.UseCase = (*UseCase)(nil)

type Option func(*UseCase)

// WithFixBreaker sets the circuit breaker guarding the fix suggestion provider.
func WithFixBreaker(b *breaker.Breaker) Option {
	return func(x *UseCase) {
		x.fixBreaker = b
	}
}

func New(clients *infra.Clients, options ...Option) *UseCase {
	x := &UseCase{
		clients: clients,
	}
	for _, opt := range options {
		opt(x)
	}

	if x.fixBreaker == nil {
		// Default parameters are always valid.
		b, err := breaker.New(DefaultBreakerThreshold, DefaultBreakerResetTimeout, breaker.WithName("fix-suggester"))
		if err != nil {
			panic(err)
		}
		x.fixBreaker = b
	}

	return x
}
