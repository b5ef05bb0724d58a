// Package dialogue implements the deterministic state machine that drives
// a support conversation: menu navigation, prepaid top-ups, appointment
// booking and provider-switch intake. One inbound message produces exactly
// one state transition plus zero or more outbound replies. Global
// interrupts (cancel/greeting, portability interest, the debug command)
// are evaluated before any state-specific handler.
package dialogue
