// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package badger

import (
	"context"

	"github.com/poiesic/costar/storage"
)

// Store implements storage.GraphStore for BadgerDB.
type Store struct {
	backend   *Backend
	chunkSize int
}

var _ storage.GraphStore = (*Store)(nil)

// NewStore opens a BadgerDB graph store rooted at path.
func NewStore(path string) (storage.GraphStore, error) {
	backend, err := OpenBackend(path, false)
	if err != nil {
		return nil, err
	}
	return newStore(backend), nil
}

func newStore(backend *Backend) *Store {
	return &Store{
		backend:   backend,
		chunkSize: storage.DefaultChunkSize,
	}
}

// Setup prepares the store. BadgerDB needs no schema, so only reset has an effect.
func (s *Store) Setup(ctx context.Context, reset bool) error {
	if !reset {
		return nil
	}
	s.backend.logger.Info("dropping all graph data")
	return s.backend.DropAll()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.backend.Close()
}
