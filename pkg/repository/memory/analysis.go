package memory

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/pipewatch/pkg/domain/model"
	"github.com/secmon-lab/pipewatch/pkg/domain/types"
	"github.com/secmon-lab/pipewatch/pkg/repository"
	"github.com/secmon-lab/pipewatch/pkg/utils/logging"
)

type analysisRepository struct {
	mu       sync.RWMutex
	analyses map[string]*model.Analysis
}

func (r *analysisRepository) Create(ctx context.Context, analysis *model.Analysis) error {
	if analysis.ID == "" {
		return goerr.Wrap(repository.ErrInvalidInput, "analysis ID is empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.analyses[string(analysis.ID)]; exists {
		return goerr.Wrap(repository.ErrAlreadyExists, "analysis already exists",
			goerr.V("analysisID", analysis.ID),
		)
	}

	r.analyses[string(analysis.ID)] = copyAnalysis(analysis)
	return nil
}

func (r *analysisRepository) FindByID(ctx context.Context, id types.AnalysisID) (*model.Analysis, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	analysis, exists := r.analyses[string(id)]
	if !exists {
		return nil, goerr.Wrap(repository.ErrNotFound, "analysis not found",
			goerr.V("analysisID", id),
		)
	}

	return copyAnalysis(analysis), nil
}

func (r *analysisRepository) Update(ctx context.Context, id types.AnalysisID, update *model.AnalysisUpdate) (*model.Analysis, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, exists := r.analyses[string(id)]
	if !exists {
		return nil, goerr.Wrap(repository.ErrNotFound, "analysis not found",
			goerr.V("analysisID", id),
		)
	}

	next, err := update.Apply(*copyAnalysis(current), logging.CtxTime(ctx).UTC().Truncate(time.Microsecond))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to apply update", goerr.V("analysisID", id))
	}

	r.analyses[string(id)] = copyAnalysis(&next)
	return copyAnalysis(&next), nil
}

func copyAnalysis(analysis *model.Analysis) *model.Analysis {
	if analysis == nil {
		return nil
	}
	cpy := *analysis

	if analysis.Logs != nil {
		cpy.Logs = make([]byte, len(analysis.Logs))
		copy(cpy.Logs, analysis.Logs)
	}
	if analysis.CompletedAt != nil {
		t := *analysis.CompletedAt
		cpy.CompletedAt = &t
	}

	return &cpy
}
