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


package ingestion

import (
	"errors"
	"fmt"

	"github.com/poiesic/costar/partition"
)

var (
	// ErrStoreRequired is returned when a graph store is not provided.
	ErrStoreRequired = errors.New("graph store required")

	// ErrClientRequired is returned when a catalog client is not provided.
	ErrClientRequired = errors.New("catalog client required")

	// ErrMissingContributor is returned when an index inside the universe has
	// no contributor. The store and the universe size disagree.
	ErrMissingContributor = errors.New("no contributor at index")

	// ErrInvalidOption is returned when an option value is out of range.
	ErrInvalidOption = errors.New("invalid option")

	// ErrWorkerPanic wraps a panic recovered from a worker.
	ErrWorkerPanic = errors.New("worker panicked")
)

// PartitionError reports the failure of the worker that owned a partition.
type PartitionError struct {
	Partition int
	Range     partition.Range
	Err       error
}

func (e *PartitionError) Error() string {
	return fmt.Sprintf("partition %d %s: %v", e.Partition, e.Range, e.Err)
}

func (e *PartitionError) Unwrap() error {
	return e.Err
}
