package firestore

import (
	"context"

	fs "cloud.google.com/go/firestore"
	"github.com/pkg/errors"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	syncCollection = "hubspot_sync"

	settingsDocument         = "settings"
	lineItemSyncEnabledField = "line_item_sync_enabled"

	emergeSyncDocument = "emerge_sync"
	lastRunDateField   = "last_run_date"
)

// Store keeps the sync feature flags and the incremental sync cursor in
// firestore. Missing documents read as zero values so a fresh project
// starts clean.
type Store struct {
	client *fs.Client
}

func NewStore(ctx context.Context, project string, opts ...option.ClientOption) (*Store, error) {
	client, err := fs.NewClient(ctx, project, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "Failed to create firestore client.")
	}
	return &Store{client: client}, nil
}

// LineItemSyncEnabled reports whether line item sync is switched on.
func (s *Store) LineItemSyncEnabled() (bool, error) {
	doc, err := s.client.Collection(syncCollection).Doc(settingsDocument).
		Get(context.Background())
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return false, nil
		}
		return false, errors.Wrap(err, "Failed to read sync settings.")
	}

	enabled, ok := doc.Data()[lineItemSyncEnabledField].(bool)
	if !ok {
		return false, nil
	}
	return enabled, nil
}

// GetLastRunDate returns the stored sync cursor date, or empty when no
// sync has run yet.
func (s *Store) GetLastRunDate() (string, error) {
	doc, err := s.client.Collection(syncCollection).Doc(emergeSyncDocument).
		Get(context.Background())
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return "", nil
		}
		return "", errors.Wrap(err, "Failed to read sync cursor.")
	}

	date, ok := doc.Data()[lastRunDateField].(string)
	if !ok {
		return "", nil
	}
	return date, nil
}

// SetLastRunDate advances the sync cursor date.
func (s *Store) SetLastRunDate(date string) error {
	_, err := s.client.Collection(syncCollection).Doc(emergeSyncDocument).
		Set(context.Background(), map[string]interface{}{lastRunDateField: date},
			fs.MergeAll)
	if err != nil {
		return errors.Wrap(err, "Failed to write sync cursor.")
	}
	return nil
}

func (s *Store) Close() error {
	return s.client.Close()
}
