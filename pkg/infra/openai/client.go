package openai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/sashabaranov/go-openai"
	"github.com/secmon-lab/pipewatch/pkg/domain/interfaces"
	"github.com/secmon-lab/pipewatch/pkg/domain/model"
	"github.com/secmon-lab/pipewatch/pkg/domain/types"
	"github.com/secmon-lab/pipewatch/pkg/utils/logging"
)

const (
	DefaultModel = "gpt-4o-mini"
	maxTokens    = 1024
)

const systemPrompt = `You are an application security engineer. Given one finding from an automated security scanner, reply with a short, concrete remediation: what to change and why. Reply in plain text, at most 8 lines, with a code snippet only when it helps.`

// chatClient is the subset of the go-openai client used here.
type chatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type Client struct {
	chat    chatClient
	model   string
	baseURL string
}

var _ interfaces.FixSuggester = (*Client)(nil)

type Option func(*Client)

func WithModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithBaseURL points the client to an OpenAI compatible endpoint.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

func New(apiKey types.OpenAIAPIKey, options ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, goerr.Wrap(types.ErrInvalidOption, "OpenAI API key is empty")
	}

	c := &Client{
		model: DefaultModel,
	}
	for _, opt := range options {
		opt(c)
	}

	cfg := openai.DefaultConfig(string(apiKey))
	if c.baseURL != "" {
		cfg.BaseURL = c.baseURL
	}
	c.chat = openai.NewClientWithConfig(cfg)

	return c, nil
}

func (c *Client) SuggestFix(ctx context.Context, tool string, finding model.Finding) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(tool, finding)},
		},
	}
	// Reasoning models only accept MaxCompletionTokens.
	if isReasoningModel(c.model) {
		req.MaxCompletionTokens = maxTokens
	} else {
		req.MaxTokens = maxTokens
	}

	logging.From(ctx).Debug("requesting fix suggestion",
		slog.String("model", c.model),
		slog.String("tool", tool),
		slog.String("finding", finding.ID),
	)

	resp, err := c.chat.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create chat completion",
			goerr.V("model", c.model),
			goerr.V("finding", finding.ID),
		)
	}
	if len(resp.Choices) == 0 {
		return "", goerr.New("chat completion returned no choices", goerr.V("model", c.model))
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func isReasoningModel(model string) bool {
	for _, prefix := range []string{"o1", "o3", "o4", "gpt-5"} {
		if strings.HasPrefix(model, prefix) {
			return true
		}
	}
	return false
}

func buildPrompt(tool string, f model.Finding) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Scanner: %s\n", tool)
	writeField(&b, "Rule", f.RuleID)
	writeField(&b, "Title", f.Title)
	writeField(&b, "Severity", f.Severity)
	writeField(&b, "CWE", f.CWE)
	if f.File != "" {
		if f.Line > 0 {
			fmt.Fprintf(&b, "Location: %s:%d\n", f.File, f.Line)
		} else {
			fmt.Fprintf(&b, "Location: %s\n", f.File)
		}
	}
	writeField(&b, "URL", f.URL)
	writeField(&b, "Description", f.Description)
	return b.String()
}

func writeField(b *strings.Builder, name, value string) {
	if value != "" {
		fmt.Fprintf(b, "%s: %s\n", name, value)
	}
}
