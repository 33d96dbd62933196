package offer

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/tbxark/offerwizard/form"
	"github.com/tbxark/offerwizard/structured"
)

const SubmitOffersToolName = "submit_offers"

// ToolBasedGenerator obtains the batch through a forced tool call instead of
// parsing free text. The same constraints as RemoteGenerator apply.
type ToolBasedGenerator struct {
	chain        *structured.Chain[form.Data, offerBatch]
	systemPrompt string
	temperature  float32
	maxTokens    int
	timeout      time.Duration
}

// NewToolBasedGenerator binds chatModel to the offer tool. A non-positive
// maxTokens or timeout selects the default.
func NewToolBasedGenerator(chatModel model.ToolCallingChatModel, temperature float32, maxTokens int, timeout time.Duration) (*ToolBasedGenerator, error) {
	g := &ToolBasedGenerator{
		systemPrompt: DefaultSystemPrompt,
		temperature:  temperature,
		maxTokens:    maxTokens,
		timeout:      timeout,
	}
	if g.maxTokens <= 0 {
		g.maxTokens = DefaultMaxTokens
	}
	if g.timeout <= 0 {
		g.timeout = DefaultTimeout
	}
	chain, err := structured.NewChain[form.Data, offerBatch](
		chatModel,
		g.buildPrompt,
		SubmitOffersToolName,
		"Submit exactly three trade show offers for the exhibitor",
	)
	if err != nil {
		return nil, fmt.Errorf("create offer chain: %w", err)
	}
	g.chain = chain
	return g, nil
}

func (g *ToolBasedGenerator) buildPrompt(ctx context.Context, data form.Data) ([]*schema.Message, error) {
	return []*schema.Message{
		schema.SystemMessage(g.systemPrompt),
		schema.UserMessage(BuildToolPrompt(data)),
	}, nil
}

func (g *ToolBasedGenerator) Generate(ctx context.Context, data form.Data) ([]Option, error) {
	if err := data.Validate(); err != nil {
		return nil, err
	}
	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	batch, err := g.chain.Invoke(callCtx, data,
		model.WithTemperature(g.temperature),
		model.WithMaxTokens(g.maxTokens),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRemoteTransport, err)
	}
	options, err := CheckOptions(batch.Offers, data.Stand)
	if err != nil {
		logRejected(err)
		return nil, fmt.Errorf("check tool offers: %w", err)
	}
	return options, nil
}
