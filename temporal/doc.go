// Package temporal turns free-form Spanish date and time expressions into
// canonical calendar values. Resolution is rule first: an ordered list of
// pure matchers is tried in fixed priority order and the first success
// wins. Only when no rule matches is the expression delegated to the
// generative model, whose strict-JSON answer is validated and clamped so a
// resolved date is never in the past.
package temporal
