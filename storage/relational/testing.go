package relational

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/poiesic/costar/storage"
)

// NewMemoryStore creates a private in-memory sqlite graph store with the
// schema already set up. Caller must close the store when done.
func NewMemoryStore() (storage.GraphStore, error) {
	dsn := fmt.Sprintf("file:costar-%s?mode=memory&cache=shared", uuid.NewString())
	store, err := OpenSQLite(dsn)
	if err != nil {
		return nil, err
	}
	if err := store.Setup(context.Background(), false); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}
