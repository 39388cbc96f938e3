package interfaces

import (
	"context"

	"github.com/secmon-lab/pipewatch/pkg/domain/model"
	"github.com/secmon-lab/pipewatch/pkg/domain/types"
)

//go:generate moq -out ../mock/repository.go -pkg mock . AnalysisRepository

// AnalysisRepository is the persistence collaborator of the ingestion path.
// One callback performs exactly one FindByID followed by at most one Update;
// concurrent updates of the same analysis are last-write-wins.
type AnalysisRepository interface {
	Create(ctx context.Context, analysis *model.Analysis) error

	// FindByID returns an error wrapping repository.ErrNotFound when no
	// analysis has the id.
	FindByID(ctx context.Context, id types.AnalysisID) (*model.Analysis, error)

	// Update writes the non-nil fields of update in a single operation and
	// returns the resulting snapshot.
	Update(ctx context.Context, id types.AnalysisID, update *model.AnalysisUpdate) (*model.Analysis, error)
}
