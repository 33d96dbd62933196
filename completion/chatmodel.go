package completion

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"
)

// ChatModelClient adapts an eino chat model to Client.
type ChatModelClient struct {
	chatModel model.BaseChatModel
}

func NewChatModelClient(chatModel model.BaseChatModel) *ChatModelClient {
	return &ChatModelClient{chatModel: chatModel}
}

func (c *ChatModelClient) Complete(ctx context.Context, req *Request) (*Response, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	messages := make([]*schema.Message, 0, len(req.Messages))
	for _, msg := range req.Messages {
		messages = append(messages, toSchemaMessage(msg))
	}

	opts := []model.Option{model.WithTemperature(req.Temperature)}
	if req.MaxTokens > 0 {
		opts = append(opts, model.WithMaxTokens(req.MaxTokens))
	}
	if req.Model != "" {
		opts = append(opts, model.WithModel(req.Model))
	}

	slog.Debug("completion request", "model", req.Model, "messages", len(messages), "max_tokens", req.MaxTokens)
	resp, err := c.chatModel.Generate(ctx, messages, opts...)
	if err != nil {
		return nil, fmt.Errorf("LLM call failed: %w", err)
	}
	if resp == nil {
		return nil, fmt.Errorf("LLM call failed: empty response")
	}

	out := &Response{
		ID:      uuid.NewString(),
		Created: time.Now(),
		Model:   req.Model,
		Content: resp.Content,
	}
	if resp.ResponseMeta != nil {
		out.FinishReason = resp.ResponseMeta.FinishReason
	}
	slog.Debug("completion response", "id", out.ID, "finish_reason", out.FinishReason, "content_len", len(out.Content))
	return out, nil
}

func toSchemaMessage(msg Message) *schema.Message {
	switch msg.Role {
	case RoleSystem:
		return schema.SystemMessage(msg.Content)
	case RoleAssistant:
		return schema.AssistantMessage(msg.Content, nil)
	default:
		return schema.UserMessage(msg.Content)
	}
}
