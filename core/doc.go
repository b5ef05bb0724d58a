// Package core provides the foundational domain types and interfaces used by
// the support assistant. It defines the core abstractions for:
//
//   - Sessions (per-conversation dialogue state plus accumulated field data)
//   - States (the closed enum the dialogue engine transitions through)
//   - Parsed temporal values (calendar dates and clock times)
//   - External collaborators (chat transport, calendar, content, notifier)
//
// Concrete implementations live in their own packages; core stays free of
// third-party dependencies so every component can import it.
package core
