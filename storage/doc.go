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


// Package storage provides the storage abstraction layer for campusbuddy.
//
// This package defines repository interfaces that decouple storage
// implementation from the conversation and ingestion pipelines. It allows
// for different storage backends (BadgerDB, in-memory, etc.) to be used
// interchangeably.
//
// # Constructor Return Type Pattern
//
// This package follows a strict "return interface" pattern for all public
// constructors to enforce abstraction and enable multiple storage backend
// implementations:
//
//	repo, err := badger.NewSessionRepository(backend)  // returns storage.SessionRepository
//
// Internal package constructors may return concrete types since they're only
// used within the implementation package.
//
// # Architecture
//
// The storage layer follows the Repository pattern:
//
//   - SessionRepository: conversation session lifecycle
//   - MessageRepository: ordered, immutable conversation turns
//   - DedupRepository: atomic fingerprint check-and-claim
//   - CursorRepository: harvest progress markers
//   - AttemptRepository: append-only ingestion audit log
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support concurrent
// access from multiple goroutines. DedupRepository in particular is the one
// resource mutated by concurrent ingestion workers; its check-and-claim is
// the sole synchronization primitive the ingestion pipeline relies on.
//
// # Context Support
//
// All repository methods accept context.Context for cancellation and timeout
// support. Pass context.Background() for operations without specific timeout
// requirements.
package storage
