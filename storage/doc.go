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


// Package storage provides the storage abstraction layer for costar.
//
// This package defines the repository interfaces through which ingestion,
// seeding and bulk loading persist the co-occurrence graph. Two backends
// implement them:
//
//   - storage/badger: an embedded BadgerDB store
//   - storage/relational: a gorm store over PostgreSQL or SQLite
//
// # Constructor Return Type Pattern
//
// Public backend constructors return the storage.GraphStore interface:
//
//	store, err := badger.NewStore(path)  // returns storage.GraphStore
//
// Internal constructors may return concrete types since they're only used
// within the implementation package.
//
// # Architecture
//
//   - GraphStore: Main interface combining all storage operations
//   - WorkRepository: Operations for works
//   - ContributorRepository: Operations for contributors and dense indices
//   - EdgeRepository: Operations for co-occurrence edges
//
// # Write Semantics
//
// Every write is an upsert that never fails on duplicates. Works and
// contributors keep their first stored values. Edges are identified by
// (Source, Target) and the first writer's contributor is retained.
// Contributor indices are assigned densely from 1 in insertion order.
//
// # Thread Safety
//
// All implementations must be thread-safe and support concurrent writers.
package storage
