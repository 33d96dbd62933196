package offer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tbxark/offerwizard/form"
)

const (
	StrategyLocal  = "local"
	StrategyRemote = "remote"
)

// Service is the entry point used by the wizard. With a remote generator it
// falls back to the local heuristic on any remote failure.
type Service struct {
	remote Generator
	local  *LocalGenerator
}

// NewService builds a service. remote may be nil, in which case every batch
// comes from the local heuristic.
func NewService(remote Generator, opts ...LocalOption) *Service {
	return &Service{
		remote: remote,
		local:  NewLocalGenerator(opts...),
	}
}

func (s *Service) Strategy() string {
	if s.remote != nil {
		return StrategyRemote
	}
	return StrategyLocal
}

func (s *Service) Generate(ctx context.Context, data form.Data) ([]Option, error) {
	if err := data.Validate(); err != nil {
		return nil, err
	}

	var generator Generator = s.local
	if s.remote != nil {
		generator = NewFailbackGenerator(s.remote, s.local)
	}
	slog.Debug("generating offers", "strategy", s.Strategy(), "event", data.EventName)

	options, err := generator.Generate(ctx, data)
	if err != nil {
		return nil, err
	}
	if err := checkBatch(options); err != nil {
		return nil, err
	}
	return CloneAll(options), nil
}

func checkBatch(options []Option) error {
	if len(options) != BatchSize {
		return fmt.Errorf("%w: got %d offers", ErrGenerationEmpty, len(options))
	}
	for i, o := range options {
		if strings.TrimSpace(o.Title) == "" || strings.TrimSpace(o.Description) == "" || len(o.RedemptionSteps) == 0 {
			return fmt.Errorf("%w: offer %d is incomplete", ErrGenerationEmpty, i)
		}
	}
	return nil
}
