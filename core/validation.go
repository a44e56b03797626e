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


package core

import "fmt"

// ValidateID checks that an ID is a usable catalog identifier.
func ValidateID(id ID) error {
	if id <= 0 {
		return fmt.Errorf("%w: value %d", ErrInvalidID, id)
	}
	return nil
}

// ValidateWork validates a Work according to domain rules.
//
// Validation rules:
//   - ID must be positive
//
// Title may be empty; some catalog entries have none.
func ValidateWork(work *Work) error {
	if work == nil {
		return fmt.Errorf("%w: work is nil", ErrInvalidWork)
	}
	if err := ValidateID(work.ID); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidWork, err)
	}
	return nil
}

// ValidateContributor validates a Contributor according to domain rules.
//
// Validation rules:
//   - ID must be positive
//   - Index must not be negative (0 means unassigned)
func ValidateContributor(contributor *Contributor) error {
	if contributor == nil {
		return fmt.Errorf("%w: contributor is nil", ErrInvalidContributor)
	}
	if err := ValidateID(contributor.ID); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidContributor, err)
	}
	if contributor.Index < 0 {
		return fmt.Errorf("%w: negative index %d", ErrInvalidContributor, contributor.Index)
	}
	return nil
}

// ValidateEdge validates an Edge according to domain rules.
// All three references must be positive IDs. Self-loops are valid.
func ValidateEdge(edge Edge) error {
	if err := ValidateID(edge.Source); err != nil {
		return fmt.Errorf("%w: source: %w", ErrInvalidEdge, err)
	}
	if err := ValidateID(edge.Target); err != nil {
		return fmt.Errorf("%w: target: %w", ErrInvalidEdge, err)
	}
	if err := ValidateID(edge.Contributor); err != nil {
		return fmt.Errorf("%w: contributor: %w", ErrInvalidEdge, err)
	}
	return nil
}
