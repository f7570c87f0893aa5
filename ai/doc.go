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

// Package ai provides the abstraction for LLM answer generation.
//
// The conversation pipeline depends on the Generator interface rather than
// a concrete provider, so the model backend can be swapped without touching
// the pipeline.
//
// # Implementation Packages
//
//   - ai/openrouter: Production implementation over OpenAI-compatible chat
//     APIs (OpenRouter by default, any compatible server by configuration)
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// # Usage
//
//	gen, err := openrouter.NewGenerator(ai.NewConfig(
//	    ai.WithAPIKey(key),
//	))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer gen.Close()
//
//	answer, err := gen.Generate(ctx, systemPrompt, history, question)
//
// Generate performs exactly one provider call. Retry and fallback policy
// live in the chat package, which owns the turn semantics.
package ai
