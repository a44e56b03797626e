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


// Package partition divides the contributor index space into disjoint
// ranges, one per ingestion worker.
package partition

import (
	"errors"
	"fmt"
)

var (
	// ErrNegativeTotal indicates a negative universe size.
	ErrNegativeTotal = errors.New("total must not be negative")

	// ErrInvalidTaskCount indicates fewer than one task was requested.
	ErrInvalidTaskCount = errors.New("task count must be at least 1")
)

// Range is a half-open interval [Start, End) of contributor indices.
type Range struct {
	Start int64
	End   int64
}

// Len returns the number of indices in the range.
func (r Range) Len() int64 {
	return max(0, r.End-r.Start)
}

// Empty reports whether the range holds no indices.
func (r Range) Empty() bool {
	return r.Len() == 0
}

// Contains reports whether index falls inside the range.
func (r Range) Contains(index int64) bool {
	return index >= r.Start && index < r.End
}

func (r Range) String() string {
	return fmt.Sprintf("[%d, %d)", r.Start, r.End)
}

// Partition splits the 1-based index universe [1, total] into taskCount
// contiguous ranges. Every range but the last holds floor(total/taskCount)
// indices; the last absorbs the remainder and always ends at total+1. When
// total < taskCount the leading ranges are empty.
func Partition(total int64, taskCount int) ([]Range, error) {
	if total < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeTotal, total)
	}
	if taskCount < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTaskCount, taskCount)
	}

	size := total / int64(taskCount)
	ranges := make([]Range, taskCount)
	for i := range ranges {
		start := 1 + int64(i)*size
		ranges[i] = Range{Start: start, End: start + size}
	}
	ranges[taskCount-1].End = total + 1
	return ranges, nil
}
