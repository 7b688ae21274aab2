package grade

import "context"

// Store is the persistence boundary for the five dependent grade stores.
// Point lookups return ErrNotFound on a miss.
type Store interface {
	// RunInTx executes fn against a store whose writes commit atomically.
	// Implementations without transaction support run fn directly; each
	// write then commits independently.
	RunInTx(ctx context.Context, fn func(Store) error) error

	GetRecord(ctx context.Context, activityID, studentID string) (Record, error)
	InsertRecord(ctx context.Context, r Record) error
	UpdateRecord(ctx context.Context, id string, value float64, graderID string, at int64) error

	GetInstanceByRecord(ctx context.Context, recordID string) (Instance, error)
	InsertInstance(ctx context.Context, in Instance) error
	UpdateInstance(ctx context.Context, id string, rawScore float64, at int64) error

	// ReplaceSelections deletes every stored selection for the instance and
	// inserts the given set. Full replace, never merge.
	ReplaceSelections(ctx context.Context, instanceID string, sels []StoredSelection) error
	ListSelections(ctx context.Context, instanceID string) ([]StoredSelection, error)

	UpsertNote(ctx context.Context, n Note) error
	UpsertCache(ctx context.Context, e CacheEntry) error
}
