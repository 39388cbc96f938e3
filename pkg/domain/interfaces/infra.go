package interfaces

//go:generate moq -out ../mock/infra.go -pkg mock . FixSuggester

import (
	"context"

	"github.com/secmon-lab/pipewatch/pkg/domain/model"
)

// FixSuggester asks an external AI provider for a remediation of a finding.
type FixSuggester interface {
	SuggestFix(ctx context.Context, tool string, finding model.Finding) (string, error)
}
