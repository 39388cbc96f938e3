package firestore

import (
	"context"
	"strings"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/pipewatch/pkg/domain/interfaces"
	"github.com/secmon-lab/pipewatch/pkg/domain/model"
	"github.com/secmon-lab/pipewatch/pkg/domain/types"
	"github.com/secmon-lab/pipewatch/pkg/repository"
	"github.com/secmon-lab/pipewatch/pkg/utils/logging"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const collectionAnalysis = "analysis"

type AnalysisRepository struct {
	client *firestore.Client
}

var _ interfaces.AnalysisRepository = (*AnalysisRepository)(nil)

// ToDocID validates an analysis ID for use as a Firestore document ID
func ToDocID(id types.AnalysisID) (string, error) {
	if id == "" {
		return "", goerr.Wrap(repository.ErrInvalidInput, "analysis ID is empty")
	}
	if strings.Contains(string(id), "/") || id == "." || id == ".." {
		return "", goerr.Wrap(repository.ErrInvalidInput, "analysis ID is not a valid document ID",
			goerr.V("analysisID", id),
		)
	}
	return string(id), nil
}

func (r *AnalysisRepository) doc(id types.AnalysisID) (*firestore.DocumentRef, error) {
	docID, err := ToDocID(id)
	if err != nil {
		return nil, err
	}
	return r.client.Collection(collectionAnalysis).Doc(docID), nil
}

func (r *AnalysisRepository) Create(ctx context.Context, analysis *model.Analysis) error {
	docRef, err := r.doc(analysis.ID)
	if err != nil {
		return err
	}

	if _, err := docRef.Create(ctx, analysis); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return goerr.Wrap(repository.ErrAlreadyExists, "analysis already exists",
				goerr.V("analysisID", analysis.ID),
			)
		}
		return goerr.Wrap(err, "failed to create analysis",
			goerr.V("analysisID", analysis.ID),
		)
	}

	return nil
}

func (r *AnalysisRepository) FindByID(ctx context.Context, id types.AnalysisID) (*model.Analysis, error) {
	docRef, err := r.doc(id)
	if err != nil {
		return nil, err
	}

	snap, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(repository.ErrNotFound, "analysis not found",
				goerr.V("analysisID", id),
			)
		}
		return nil, goerr.Wrap(err, "failed to get analysis",
			goerr.V("analysisID", id),
		)
	}

	var analysis model.Analysis
	if err := snap.DataTo(&analysis); err != nil {
		return nil, goerr.Wrap(err, "failed to decode analysis",
			goerr.V("analysisID", id),
		)
	}

	return &analysis, nil
}

// Update writes the set fields with one document update. Firestore rejects
// the update with NotFound when the document does not exist.
func (r *AnalysisRepository) Update(ctx context.Context, id types.AnalysisID, update *model.AnalysisUpdate) (*model.Analysis, error) {
	docRef, err := r.doc(id)
	if err != nil {
		return nil, err
	}

	updates, err := toFirestoreUpdates(update)
	if err != nil {
		return nil, err
	}
	updates = append(updates, firestore.Update{Path: "updated_at", Value: logging.CtxTime(ctx).UTC()})

	if _, err := docRef.Update(ctx, updates); err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(repository.ErrNotFound, "analysis not found",
				goerr.V("analysisID", id),
			)
		}
		return nil, goerr.Wrap(err, "failed to update analysis",
			goerr.V("analysisID", id),
		)
	}

	return r.FindByID(ctx, id)
}

func toFirestoreUpdates(update *model.AnalysisUpdate) ([]firestore.Update, error) {
	var updates []firestore.Update

	if update.Status != nil {
		updates = append(updates, firestore.Update{Path: "status", Value: string(*update.Status)})
	}
	if update.LegacyStatus != nil {
		updates = append(updates, firestore.Update{Path: "legacy_status", Value: string(*update.LegacyStatus)})
	}
	if update.Logs != nil {
		raw, err := model.MarshalLogs(update.Logs)
		if err != nil {
			return nil, err
		}
		updates = append(updates, firestore.Update{Path: "logs", Value: []byte(raw)})
	}
	if update.StaticAnalysisReport != nil {
		updates = append(updates, firestore.Update{Path: "static_analysis_report", Value: string(*update.StaticAnalysisReport)})
	}
	if update.PenetrationTestReport != nil {
		updates = append(updates, firestore.Update{Path: "penetration_test_report", Value: string(*update.PenetrationTestReport)})
	}

	counters := map[string]*int{
		"vulnerabilities_found": update.VulnerabilitiesFound,
		"critical_count":        update.CriticalCount,
		"high_count":            update.HighCount,
		"medium_count":          update.MediumCount,
		"low_count":             update.LowCount,
	}
	for _, path := range []string{"vulnerabilities_found", "critical_count", "high_count", "medium_count", "low_count"} {
		if v := counters[path]; v != nil {
			updates = append(updates, firestore.Update{Path: path, Value: *v})
		}
	}

	if update.CompletedAt != nil {
		updates = append(updates, firestore.Update{Path: "completed_at", Value: update.CompletedAt.UTC()})
	}

	return updates, nil
}
