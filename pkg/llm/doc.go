// Package llm wraps OpenAI-compatible chat completion endpoints behind the
// small Client interface the pipeline consumes, with a circuit breaker for
// flaky endpoints and repair-tolerant parsing for structured output.
package llm
