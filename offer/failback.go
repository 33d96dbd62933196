package offer

import (
	"context"
	"errors"
	"log/slog"

	"github.com/tbxark/offerwizard/form"
)

// FailbackGenerator tries generators in order and returns the first batch
// that succeeds. Incomplete data and cancellation stop the chain.
type FailbackGenerator struct {
	generators []Generator
}

func NewFailbackGenerator(generators ...Generator) *FailbackGenerator {
	return &FailbackGenerator{generators: generators}
}

func (g *FailbackGenerator) Generate(ctx context.Context, data form.Data) ([]Option, error) {
	lastErr := ErrGenerationEmpty
	for i, generator := range g.generators {
		options, err := generator.Generate(ctx, data)
		if err == nil {
			return options, nil
		}
		if errors.Is(err, form.ErrIncomplete) {
			return nil, err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		slog.Warn("offer generator failed, trying next", "index", i, "err", err)
		lastErr = err
	}
	return nil, lastErr
}
