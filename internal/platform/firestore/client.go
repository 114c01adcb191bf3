package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/phrazzld/flashcards-api/internal/config"
	"google.golang.org/api/option"
)

// NewClient opens a Firestore client for the configured project. An empty
// credentials file falls back to application default credentials.
func NewClient(ctx context.Context, cfg config.FirestoreConfig) (*firestore.Client, error) {
	if cfg.ProjectID == "" {
		return nil, fmt.Errorf("firestore project id cannot be empty")
	}

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := firestore.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}
	return client, nil
}
