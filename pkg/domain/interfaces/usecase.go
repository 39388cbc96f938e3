package interfaces

//go:generate moq -out ../mock/usecase.go -pkg mock . UseCase

import (
	"context"

	"github.com/secmon-lab/pipewatch/pkg/domain/model"
	"github.com/secmon-lab/pipewatch/pkg/domain/types"
)

type UseCase interface {
	IngestAnalysisCallback(ctx context.Context, input *model.AnalysisCallback) (*model.CallbackResult, error)
	GetAnalysis(ctx context.Context, id types.AnalysisID) (*model.Analysis, error)
	SuggestFixes(ctx context.Context, id types.AnalysisID) ([]*model.FixSuggestion, error)
}
