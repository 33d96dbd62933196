// Package offerwizard wires the configured offer generation strategy.
package offerwizard

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/tbxark/offerwizard/completion"
	"github.com/tbxark/offerwizard/config"
	"github.com/tbxark/offerwizard/offer"
)

// NewGenerator builds the offer service for conf. Remote strategies talk to an
// OpenAI compatible endpoint and fall back to the local heuristic.
func NewGenerator(ctx context.Context, conf *config.Config, opts ...offer.LocalOption) (*offer.Service, error) {
	if conf.Strategy == config.StrategyLocal {
		slog.Info("offer generator ready", "config", conf.String())
		return offer.NewService(nil, opts...), nil
	}
	cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:  conf.APIKey,
		Model:   conf.Model,
		BaseURL: conf.BaseURL,
		Timeout: conf.Timeout(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init chat model: %w", err)
	}
	return NewGeneratorWithChatModel(conf, cm, opts...)
}

// NewGeneratorWithChatModel is NewGenerator with a caller supplied model.
func NewGeneratorWithChatModel(conf *config.Config, cm model.ToolCallingChatModel, opts ...offer.LocalOption) (*offer.Service, error) {
	var remote offer.Generator
	switch conf.Strategy {
	case config.StrategyLocal:
	case config.StrategyRemote:
		remote = offer.NewRemoteGenerator(
			completion.NewChatModelClient(cm),
			offer.WithModel(conf.Model),
			offer.WithTemperature(conf.TemperatureValue()),
			offer.WithMaxTokens(conf.MaxTokens),
			offer.WithTimeout(conf.Timeout()),
		)
	case config.StrategyTool:
		tool, err := offer.NewToolBasedGenerator(cm, conf.TemperatureValue(), conf.MaxTokens, conf.Timeout())
		if err != nil {
			return nil, fmt.Errorf("failed to create tool-based generator: %w", err)
		}
		remote = tool
	default:
		return nil, fmt.Errorf("%w: unknown strategy %q", config.ErrInvalidConfig, conf.Strategy)
	}
	slog.Info("offer generator ready", "config", conf.String())
	return offer.NewService(remote, opts...), nil
}
