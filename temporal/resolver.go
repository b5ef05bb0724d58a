package temporal

import (
	"context"
	"time"

	"github.com/celtia/supportbot/logging"
)

// FallbackAttempts is the reduced invoker budget wired for parse
// fallbacks; a user is waiting on every temporal resolution, so fewer
// retries than the invoker default.
const FallbackAttempts = 3

// Generator is the slice of the invoker the resolver needs. It is kept
// minimal so tests can disable or script the generative stage.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Options configure a Resolver.
type Options struct {
	// Now supplies the reference instant; defaults to time.Now. Tests pin
	// it to exercise roll-forward behavior on fixed base dates.
	Now func() time.Time

	Logger logging.Logger
}

// Resolver resolves free-form Spanish date/time expressions relative to a
// configured timezone. A nil Generator disables the generative fallback,
// leaving the deterministic cascade only.
type Resolver struct {
	gen    Generator
	loc    *time.Location
	now    func() time.Time
	logger logging.Logger
}

// NewResolver constructs a Resolver for the given timezone.
func NewResolver(gen Generator, loc *time.Location, optFns ...func(o *Options)) *Resolver {
	opts := Options{
		Now:    time.Now,
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Resolver{gen: gen, loc: loc, now: opts.Now, logger: opts.Logger}
}

// today returns midnight of the current day in the configured timezone.
func (r *Resolver) today() time.Time {
	n := r.now().In(r.loc)
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, r.loc)
}

func isoDate(t time.Time) string { return t.Format("2006-01-02") }
