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


package storage

import (
	"github.com/poiesic/campusbuddy/core"
)

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, core.IDMUS.Size(id))
	core.IDMUS.Marshal(id, buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	id, _, err := core.IDMUS.Unmarshal(data)
	return id, err
}

// MarshalSession serializes a Session to bytes.
func MarshalSession(session *core.Session) []byte {
	buf := make([]byte, core.SessionMUS.Size(*session))
	core.SessionMUS.Marshal(*session, buf)
	return buf
}

// UnmarshalSession deserializes a Session from bytes.
func UnmarshalSession(data []byte) (*core.Session, error) {
	session, _, err := core.SessionMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// MarshalMessage serializes a Message to bytes.
func MarshalMessage(message *core.Message) []byte {
	buf := make([]byte, core.MessageMUS.Size(*message))
	core.MessageMUS.Marshal(*message, buf)
	return buf
}

// UnmarshalMessage deserializes a Message from bytes.
func UnmarshalMessage(data []byte) (*core.Message, error) {
	message, _, err := core.MessageMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &message, nil
}

// MarshalCursor serializes a SourceCursor to bytes.
func MarshalCursor(cursor *core.SourceCursor) []byte {
	buf := make([]byte, core.SourceCursorMUS.Size(*cursor))
	core.SourceCursorMUS.Marshal(*cursor, buf)
	return buf
}

// UnmarshalCursor deserializes a SourceCursor from bytes.
func UnmarshalCursor(data []byte) (*core.SourceCursor, error) {
	cursor, _, err := core.SourceCursorMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &cursor, nil
}

// MarshalDedupRecord serializes a DedupRecord to bytes.
func MarshalDedupRecord(record *core.DedupRecord) []byte {
	buf := make([]byte, core.DedupRecordMUS.Size(*record))
	core.DedupRecordMUS.Marshal(*record, buf)
	return buf
}

// UnmarshalDedupRecord deserializes a DedupRecord from bytes.
func UnmarshalDedupRecord(data []byte) (*core.DedupRecord, error) {
	record, _, err := core.DedupRecordMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// MarshalAttempt serializes an IngestionAttempt to bytes.
func MarshalAttempt(attempt *core.IngestionAttempt) []byte {
	buf := make([]byte, core.IngestionAttemptMUS.Size(*attempt))
	core.IngestionAttemptMUS.Marshal(*attempt, buf)
	return buf
}

// UnmarshalAttempt deserializes an IngestionAttempt from bytes.
func UnmarshalAttempt(data []byte) (*core.IngestionAttempt, error) {
	attempt, _, err := core.IngestionAttemptMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}
