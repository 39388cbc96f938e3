package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/option"
)

// New connects to Firestore. An empty databaseID selects the default
// database. opts are passed to the client as is, e.g. a credentials file.
func New(ctx context.Context, projectID, databaseID string, opts ...option.ClientOption) (*AnalysisRepository, error) {
	var client *firestore.Client
	var err error

	if databaseID != "" {
		client, err = firestore.NewClientWithDatabase(ctx, projectID, databaseID, opts...)
	} else {
		client, err = firestore.NewClient(ctx, projectID, opts...)
	}

	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Firestore client",
			goerr.V("projectID", projectID),
			goerr.V("databaseID", databaseID),
		)
	}

	return &AnalysisRepository{
		client: client,
	}, nil
}

func (r *AnalysisRepository) Close() error {
	return r.client.Close()
}
