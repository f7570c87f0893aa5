// Package chat implements the conversation pipeline.
//
// A turn loads the bounded recent history, searches the knowledge base,
// assembles a grounded prompt, generates an answer with one retry, and
// persists the user and assistant messages with strictly increasing
// ordinals. Retrieval failures degrade to an ungrounded answer; a double
// generation failure yields a deterministic fallback answer with only the
// user message persisted.
//
// Turns are serialized per session and independent across sessions.
package chat
