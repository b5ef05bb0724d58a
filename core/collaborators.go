package core

import (
	"context"
	"time"
	"unicode/utf8"
)

// MaxMessageLength caps outbound text. Longer replies are truncated with an
// ellipsis appended, uniformly for generative output and direct replies.
const MaxMessageLength = 4000

// MediaRef points at a binary attachment deliverable through the transport.
type MediaRef struct {
	Path     string `json:"path"`
	MIMEType string `json:"mime_type,omitempty"`
}

// ChatTransport delivers outbound messages to a conversation counterpart.
// Inbound delivery is push based: the transport invokes the dialogue engine
// for every received message and is expected to serialize deliveries per
// conversation id.
type ChatTransport interface {
	SendText(ctx context.Context, conversationID, text string) error
	SendMedia(ctx context.Context, conversationID string, media MediaRef, caption string) error
}

// CalendarService checks availability and books appointments. Instants are
// absolute; callers derive them from local date+time in the configured
// timezone.
type CalendarService interface {
	IsSlotFree(ctx context.Context, start, end time.Time) (bool, error)
	CreateEvent(ctx context.Context, summary, description string, start, end time.Time) (string, error)
}

// ContentProvider produces marketing content about the company. PitchText
// is cached and generatively composed from scraped site text, degrading to
// a static string when scraping or generation fails.
type ContentProvider interface {
	PitchText(ctx context.Context) (string, error)
	CompanyImage() (MediaRef, error)
}

// AdminNotifier raises best-effort alerts to the operator. Failures are
// logged by callers and never block the user-facing reply.
type AdminNotifier interface {
	Notify(ctx context.Context, text string) error
}

// Truncate caps s at max runes, appending an ellipsis when it was longer.
func Truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max]) + "…"
}
