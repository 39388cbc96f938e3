package config

import (
	"log/slog"

	"github.com/secmon-lab/pipewatch/pkg/domain/interfaces"
	"github.com/secmon-lab/pipewatch/pkg/domain/types"
	"github.com/secmon-lab/pipewatch/pkg/infra/openai"
	"github.com/urfave/cli/v3"
)

type OpenAI struct {
	apiKey  types.OpenAIAPIKey `masq:"secret"`
	model   string
	baseURL string
}

func (x *OpenAI) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "openai-api-key",
			Usage:       "OpenAI API key. Fix suggestions are disabled when empty",
			Category:    "OpenAI",
			Destination: (*string)(&x.apiKey),
			Sources:     cli.EnvVars("PIPEWATCH_OPENAI_API_KEY"),
		},
		&cli.StringFlag{
			Name:        "openai-model",
			Usage:       "Chat model used for fix suggestions",
			Category:    "OpenAI",
			Value:       openai.DefaultModel,
			Destination: &x.model,
			Sources:     cli.EnvVars("PIPEWATCH_OPENAI_MODEL"),
		},
		&cli.StringFlag{
			Name:        "openai-base-url",
			Usage:       "Base URL of an OpenAI compatible API",
			Category:    "OpenAI",
			Destination: &x.baseURL,
			Sources:     cli.EnvVars("PIPEWATCH_OPENAI_BASE_URL"),
		},
	}
}

func (x *OpenAI) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("APIKey.len", len(x.apiKey)),
		slog.String("model", x.model),
		slog.String("baseURL", x.baseURL),
	)
}

// NewSuggester returns nil when no API key is configured.
func (x *OpenAI) NewSuggester() (interfaces.FixSuggester, error) {
	if x.apiKey == "" {
		return nil, nil
	}
	client, err := openai.New(x.apiKey, openai.WithModel(x.model), openai.WithBaseURL(x.baseURL))
	if err != nil {
		return nil, err
	}
	return client, nil
}
