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

// Package rag provides the client interface to the external retrieval
// service that stores and searches the knowledge base.
//
// The service owns chunking, embedding, and vector search. This package
// only speaks its HTTP API: semantic search for the conversation pipeline,
// and document ingestion for the ingestion pipeline.
//
// # Usage
//
//	client, err := rag.NewClient(rag.NewConfig(
//		rag.WithBaseURL("http://localhost:8100"),
//		rag.WithAPIKey(apiKey),
//	))
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
//	hits, err := client.Search(ctx, "when is the enrollment deadline", 5)
//
// # Error Handling
//
// Transport failures and 5xx responses wrap ErrUnavailable; 4xx responses
// wrap ErrRejected. Callers decide whether an error is retryable with
// errors.Is.
//
// # Thread Safety
//
// The client is safe for concurrent use.
package rag
