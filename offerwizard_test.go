package offerwizard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/tbxark/offerwizard/config"
	"github.com/tbxark/offerwizard/form"
	"github.com/tbxark/offerwizard/offer"
)

type fakeChatModel struct {
	payload string
	tools   bool
}

func (f *fakeChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	options := model.GetCommonOptions(&model.Options{}, opts...)
	f.tools = len(options.Tools) > 0
	if f.tools {
		return &schema.Message{
			Role: schema.Assistant,
			ToolCalls: []schema.ToolCall{
				{Function: schema.FunctionCall{Name: offer.SubmitOffersToolName, Arguments: `{"offers":` + f.payload + `}`}},
			},
		}, nil
	}
	return schema.AssistantMessage(f.payload, nil), nil
}

func (f *fakeChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("not implemented")
}

func (f *fakeChatModel) WithTools(tools []*schema.ToolInfo) (model.ToolCallingChatModel, error) {
	return f, nil
}

func sampleData() form.Data {
	return form.Data{
		ExhibitorName:        "Acme",
		Category:             "Software",
		EventName:            "DevCon",
		Goal:                 "Booth Traffic",
		SecondaryActions:     []string{"Giveaway"},
		IncentiveDescription: "Spin the wheel for prizes",
	}
}

func remotePayload(t *testing.T) string {
	t.Helper()
	options := make([]offer.Option, offer.BatchSize)
	for i := range options {
		options[i] = offer.Option{
			Title:           fmt.Sprintf("Model offer %d", i+1),
			Description:     strings.Repeat("d", offer.MinDescriptionLength+i),
			RedemptionSteps: []string{"Come by"},
		}
	}
	out, err := sonic.MarshalString(options)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return out
}

func TestNewGeneratorLocal(t *testing.T) {
	svc, err := NewGenerator(context.Background(), &config.Config{Strategy: config.StrategyLocal})
	if err != nil {
		t.Fatalf("new generator: %v", err)
	}
	if svc.Strategy() != offer.StrategyLocal {
		t.Errorf("strategy = %q", svc.Strategy())
	}
	options, err := svc.Generate(context.Background(), sampleData())
	if err != nil || len(options) != offer.BatchSize {
		t.Fatalf("unexpected result %v, %v", options, err)
	}
}

func TestNewGeneratorWithChatModel(t *testing.T) {
	for _, strategy := range []string{config.StrategyRemote, config.StrategyTool} {
		t.Run(strategy, func(t *testing.T) {
			fake := &fakeChatModel{payload: remotePayload(t)}
			conf := &config.Config{Strategy: strategy, APIKey: "sk-test", Model: config.DefaultModel, TimeoutSeconds: 5}
			svc, err := NewGeneratorWithChatModel(conf, fake)
			if err != nil {
				t.Fatalf("new generator: %v", err)
			}
			options, err := svc.Generate(context.Background(), sampleData())
			if err != nil {
				t.Fatalf("generate failed: %v", err)
			}
			if options[0].Title != "Model offer 1" {
				t.Errorf("expected model batch, got %q", options[0].Title)
			}
			if fake.tools != (strategy == config.StrategyTool) {
				t.Errorf("tools passed = %v for strategy %s", fake.tools, strategy)
			}
		})
	}
}

func TestNewGeneratorUnknownStrategy(t *testing.T) {
	_, err := NewGeneratorWithChatModel(&config.Config{Strategy: "magic"}, &fakeChatModel{})
	if !errors.Is(err, config.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}
