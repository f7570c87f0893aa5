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

import "github.com/poiesic/campusbuddy/storage"

// MemoryStores bundles all repositories over one in-memory backend for tests.
type MemoryStores struct {
	Backend  *Backend
	Sessions storage.SessionRepository
	Messages storage.MessageRepository
	Dedup    storage.DedupRepository
	Cursors  storage.CursorRepository
	Attempts storage.AttemptRepository
}

// NewMemoryStores creates in-memory repositories for testing.
// Caller must call Close when done.
func NewMemoryStores() (*MemoryStores, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, err
	}

	sessions, err := NewSessionRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	messages, err := NewMessageRepository(backend)
	if err != nil {
		sessions.Close()
		backend.Close()
		return nil, err
	}

	attempts, err := NewAttemptRepository(backend)
	if err != nil {
		messages.Close()
		sessions.Close()
		backend.Close()
		return nil, err
	}

	return &MemoryStores{
		Backend:  backend,
		Sessions: sessions,
		Messages: messages,
		Dedup:    NewDedupRepository(backend),
		Cursors:  NewCursorRepository(backend),
		Attempts: attempts,
	}, nil
}

// Close releases all repositories and the backend.
func (m *MemoryStores) Close() error {
	m.Attempts.Close()
	m.Messages.Close()
	m.Sessions.Close()
	return m.Backend.Close()
}
