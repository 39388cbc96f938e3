package types

import "log/slog"

type (
	// WorkerAPIKey is the shared secret the analysis worker sends in the x-api-key header.
	WorkerAPIKey string
	OpenAIAPIKey string
)

func (x WorkerAPIKey) LogValue() slog.Value {
	return slog.StringValue("***********")
}

func (x WorkerAPIKey) String() string {
	return "***********"
}

func (x OpenAIAPIKey) LogValue() slog.Value {
	return slog.StringValue("***********")
}

func (x OpenAIAPIKey) String() string {
	return "***********"
}
