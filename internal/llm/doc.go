// Package llm provides the narrative generation layer: language model
// clients for OpenAI and Anthropic, a tolerant response parser that always
// yields a usable narrative, retry logic, and response caching.
package llm
