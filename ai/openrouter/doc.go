// Package openrouter implements ai.Generator using OpenAI-compatible chat
// APIs via langchaingo.
//
// The default configuration targets OpenRouter, but any server speaking the
// OpenAI chat completion protocol works (Ollama, vLLM, LocalAI) by setting
// the host.
package openrouter
