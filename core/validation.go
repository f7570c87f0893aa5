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

import (
	"fmt"
	"time"
)

// ValidateSession validates a Session according to domain rules.
//
// Validation rules:
//   - OwnerId must not be empty
//   - Status must be valid (Active or Reset)
//
// NOT validated (populated by the repository):
//   - ID (0 is valid from database sequences)
//   - CreatedAt / LastActiveAt
func ValidateSession(session *Session) error {
	if session == nil {
		return fmt.Errorf("%w: session is nil", ErrInvalidSession)
	}

	if session.OwnerId == "" {
		return fmt.Errorf("%w: %w", ErrInvalidSession, ErrEmptyOwner)
	}

	if session.Status != SessionActive && session.Status != SessionReset {
		return fmt.Errorf("%w: unknown status %d", ErrInvalidSession, session.Status)
	}

	return nil
}

// ValidateMessage validates a Message according to domain rules.
//
// Validation rules:
//   - Contents must not be empty
//   - Role must be valid (User or Assistant)
//   - Timestamp must not be in the future
//
// NOT validated (populated by the repository):
//   - ID and Ordinal (assigned on append)
func ValidateMessage(message *Message) error {
	if message == nil {
		return fmt.Errorf("%w: message is nil", ErrInvalidMessage)
	}

	if message.Contents == "" {
		return fmt.Errorf("%w: %w", ErrInvalidMessage, ErrEmptyContent)
	}

	if err := ValidateRole(message.Role); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidMessage, err)
	}

	if !IsValidTimestamp(message.Timestamp) {
		return fmt.Errorf("%w: %w", ErrInvalidMessage, ErrInvalidTimestamp)
	}

	return nil
}

// ValidateRole validates that a Role has a valid value.
func ValidateRole(role Role) error {
	if role != RoleUser && role != RoleAssistant {
		return fmt.Errorf("%w: %d", ErrInvalidRole, role)
	}
	return nil
}

// ValidateHarvestedItem validates a HarvestedItem before ingestion.
func ValidateHarvestedItem(item *HarvestedItem) error {
	if item == nil {
		return fmt.Errorf("%w: item is nil", ErrEmptyContent)
	}
	if item.SourceId == "" {
		return ErrEmptySourceId
	}
	if item.Contents == "" {
		return ErrEmptyContent
	}
	return nil
}

// ValidateAttemptOutcome validates that an AttemptOutcome has a valid value.
func ValidateAttemptOutcome(outcome AttemptOutcome) error {
	switch outcome {
	case OutcomeIngested, OutcomeSkippedDuplicate, OutcomeFailed:
		return nil
	}
	return fmt.Errorf("%w: %d", ErrInvalidOutcome, outcome)
}

// IsValidTimestamp reports whether a timestamp is not in the future.
func IsValidTimestamp(ts time.Time) bool {
	return !ts.After(time.Now().UTC())
}
