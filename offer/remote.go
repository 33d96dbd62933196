package offer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tbxark/offerwizard/completion"
	"github.com/tbxark/offerwizard/form"
)

const (
	DefaultModel       = "gpt-4o-mini"
	DefaultTemperature = float32(0.7)
	DefaultMaxTokens   = 1024
	DefaultTimeout     = 30 * time.Second
)

// RemoteGenerator asks a completion service for a JSON array of offers and
// rejects any batch that breaks the offer constraints.
type RemoteGenerator struct {
	client       completion.Client
	model        string
	temperature  float32
	maxTokens    int
	timeout      time.Duration
	systemPrompt string
}

type RemoteOption func(*RemoteGenerator)

func WithModel(model string) RemoteOption {
	return func(g *RemoteGenerator) {
		if model != "" {
			g.model = model
		}
	}
}

func WithTemperature(temperature float32) RemoteOption {
	return func(g *RemoteGenerator) {
		g.temperature = temperature
	}
}

func WithMaxTokens(maxTokens int) RemoteOption {
	return func(g *RemoteGenerator) {
		if maxTokens > 0 {
			g.maxTokens = maxTokens
		}
	}
}

// WithTimeout bounds a single completion call. Zero keeps the default.
func WithTimeout(timeout time.Duration) RemoteOption {
	return func(g *RemoteGenerator) {
		if timeout > 0 {
			g.timeout = timeout
		}
	}
}

func WithSystemPrompt(prompt string) RemoteOption {
	return func(g *RemoteGenerator) {
		if prompt != "" {
			g.systemPrompt = prompt
		}
	}
}

func NewRemoteGenerator(client completion.Client, opts ...RemoteOption) *RemoteGenerator {
	g := &RemoteGenerator{
		client:       client,
		model:        DefaultModel,
		temperature:  DefaultTemperature,
		maxTokens:    DefaultMaxTokens,
		timeout:      DefaultTimeout,
		systemPrompt: DefaultSystemPrompt,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *RemoteGenerator) Generate(ctx context.Context, data form.Data) ([]Option, error) {
	if err := data.Validate(); err != nil {
		return nil, err
	}
	if g.client == nil {
		return nil, fmt.Errorf("%w: no completion client configured", ErrRemoteTransport)
	}

	userPrompt, err := BuildJSONPrompt(data)
	if err != nil {
		return nil, fmt.Errorf("build offer prompt: %w", err)
	}
	req := &completion.Request{
		Model: g.model,
		Messages: []completion.Message{
			{Role: completion.RoleSystem, Content: g.systemPrompt},
			{Role: completion.RoleUser, Content: userPrompt},
		},
		Temperature: g.temperature,
		MaxTokens:   g.maxTokens,
	}

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	resp, err := g.client.Complete(callCtx, req)
	if err != nil {
		slog.Warn("offer completion failed", "model", g.model, "elapsed", time.Since(start), "err", err)
		return nil, fmt.Errorf("%w: %w", ErrRemoteTransport, err)
	}
	if resp == nil {
		return nil, fmt.Errorf("%w: empty completion response", ErrRemoteTransport)
	}

	options, err := ParseOptions(resp.Content, data.Stand)
	if err != nil {
		logRejected(err)
		return nil, fmt.Errorf("parse completion %s: %w", resp.ID, err)
	}
	slog.Debug("remote offers accepted", "model", resp.Model, "finish_reason", resp.FinishReason, "elapsed", time.Since(start))
	return options, nil
}

func logRejected(err error) {
	var constraintErr *ConstraintError
	if errors.As(err, &constraintErr) {
		slog.Warn("remote offers rejected",
			"constraint", constraintErr.Constraint,
			"index", constraintErr.Index,
			"field", constraintErr.Field,
			"detail", constraintErr.Detail,
		)
		return
	}
	slog.Warn("remote offers rejected", "err", err)
}
