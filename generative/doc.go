// Package generative wraps the generative-text backend behind a resilient
// Invoker: bounded attempts, permanent escalation to a fallback model after
// an early failure, typed retry classification and jittered exponential
// backoff. Provider bindings live in sub-packages (openai, anthropic) and
// implement the Backend interface; the invoker itself is provider neutral.
package generative
