// Package llm is a chat-completions client for OpenAI-compatible language
// model endpoints (Groq, OpenRouter, OpenAI). It implements the completer
// used by semantic scoring.
//
// Requests ask for a JSON object reply. The client tolerates providers that
// answer through the streaming delta schema, the legacy text field, or tool
// call arguments.
//
// # Retry Behaviour
//
// HTTP 408/429/5xx, empty replies, and network timeouts are retried with
// exponential backoff (base 1s, max 10s, up to 5 attempts by default),
// honouring Retry-After. 401/403 are configuration errors and fail fast.
// Context cancellation aborts retries immediately.
package llm
