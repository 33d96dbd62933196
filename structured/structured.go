// Package structured obtains typed output from a chat model by forcing a
// single tool call whose arguments are the result.
package structured

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"
)

type PromptBuilder[TInput any] func(ctx context.Context, input TInput) ([]*schema.Message, error)

type Chain[TInput, TOutput any] struct {
	PromptBuilder PromptBuilder[TInput]
	ChatModel     model.ToolCallingChatModel
	ToolInfo      *schema.ToolInfo
}

func NewChain[TInput, TOutput any](
	chatModel model.ToolCallingChatModel,
	promptBuilder PromptBuilder[TInput],
	toolName string,
	toolDesc string,
) (*Chain[TInput, TOutput], error) {
	if chatModel == nil {
		return nil, fmt.Errorf("chat model is required")
	}
	toolInfo, err := utils.GoStruct2ToolInfo[TOutput](toolName, toolDesc)
	if err != nil {
		return nil, fmt.Errorf("convert tool info failed: %w", err)
	}
	return &Chain[TInput, TOutput]{
		PromptBuilder: promptBuilder,
		ChatModel:     chatModel,
		ToolInfo:      toolInfo,
	}, nil
}

// Invoke builds the prompt for input, forces the tool call and decodes its
// arguments. Extra options (temperature, token budget) are passed through.
func (s *Chain[TInput, TOutput]) Invoke(ctx context.Context, input TInput, opts ...model.Option) (*TOutput, error) {
	messages, err := s.PromptBuilder(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("build prompt failed: %w", err)
	}

	callOpts := append([]model.Option{
		model.WithTools([]*schema.ToolInfo{s.ToolInfo}),
		model.WithToolChoice(schema.ToolChoiceForced, s.ToolInfo.Name),
	}, opts...)
	response, err := s.ChatModel.Generate(ctx, messages, callOpts...)
	if err != nil {
		return nil, fmt.Errorf("call model failed: %w", err)
	}

	args, err := s.arguments(response)
	if err != nil {
		return nil, err
	}

	var result TOutput
	if err := sonic.UnmarshalString(args, &result); err != nil {
		return nil, fmt.Errorf("parse ToolCall arguments failed: %w", err)
	}

	return &result, nil
}

func (s *Chain[TInput, TOutput]) arguments(response *schema.Message) (string, error) {
	if response == nil {
		return "", fmt.Errorf("empty model response")
	}
	for _, call := range response.ToolCalls {
		if call.Function.Name == s.ToolInfo.Name {
			return call.Function.Arguments, nil
		}
	}
	if len(response.ToolCalls) > 0 {
		return "", fmt.Errorf("model called %q instead of %q", response.ToolCalls[0].Function.Name, s.ToolInfo.Name)
	}
	return "", fmt.Errorf("no ToolCall found in model response: %s", response.Content)
}
