package memory

import (
	"github.com/secmon-lab/pipewatch/pkg/domain/interfaces"
	"github.com/secmon-lab/pipewatch/pkg/domain/model"
)

// New creates a new in-memory repository
func New() interfaces.AnalysisRepository {
	return &analysisRepository{
		analyses: make(map[string]*model.Analysis),
	}
}
