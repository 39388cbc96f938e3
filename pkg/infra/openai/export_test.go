package openai

import (
	"context"

	"github.com/sashabaranov/go-openai"
)

var (
	BuildPromptForTest      = buildPrompt
	IsReasoningModelForTest = isReasoningModel
)

type ChatFunc func(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)

func (f ChatFunc) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	return f(ctx, req)
}

func NewWithChatForTest(chat ChatFunc, model string) *Client {
	return &Client{chat: chat, model: model}
}
