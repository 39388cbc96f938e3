package infra

import (
	"net/http"

	"github.com/secmon-lab/pipewatch/pkg/domain/interfaces"
)

type Clients struct {
	httpClient         HTTPClient
	analysisRepository interfaces.AnalysisRepository
	fixSuggester       interfaces.FixSuggester
}

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Option func(*Clients)

func New(options ...Option) *Clients {
	client := &Clients{
		httpClient: http.DefaultClient,
	}

	for _, opt := range options {
		opt(client)
	}

	return client
}

func (x *Clients) HTTPClient() HTTPClient {
	return x.httpClient
}
func (x *Clients) AnalysisRepository() interfaces.AnalysisRepository {
	return x.analysisRepository
}
func (x *Clients) FixSuggester() interfaces.FixSuggester {
	return x.fixSuggester
}

func WithHTTPClient(client HTTPClient) Option {
	return func(x *Clients) {
		x.httpClient = client
	}
}

func WithAnalysisRepository(repo interfaces.AnalysisRepository) Option {
	return func(x *Clients) {
		x.analysisRepository = repo
	}
}

func WithFixSuggester(suggester interfaces.FixSuggester) Option {
	return func(x *Clients) {
		x.fixSuggester = suggester
	}
}
