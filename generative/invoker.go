package generative

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"time"

	"github.com/celtia/supportbot/logging"
)

const (
	// DefaultAttempts is the attempt budget per Generate call.
	DefaultAttempts = 4

	backoffBase  = 500 * time.Millisecond
	backoffFloor = 250 * time.Millisecond
	jitterFactor = 0.25
)

var errEmptyResponse = errors.New("empty response from model")

// Backend is the raw generative-text API: one prompt in, one completion
// out, addressed by model identifier.
type Backend interface {
	Generate(ctx context.Context, modelID, prompt string) (string, error)
}

// Options configures an Invoker.
type Options struct {
	// PrimaryModel is used for attempt 0. From attempt index 1 onward the
	// invoker permanently switches to FallbackModel.
	PrimaryModel  string
	FallbackModel string

	// Attempts is the per-call budget. Defaults to DefaultAttempts.
	Attempts int

	Logger logging.Logger
}

// Invoker drives a Backend with bounded retries, model escalation and
// jittered exponential backoff. Sleeping happens through a context-aware
// timer so other conversations keep progressing while one call backs off.
type Invoker struct {
	backend  Backend
	primary  string
	fallback string
	attempts int
	logger   logging.Logger

	// test seams
	sleep func(ctx context.Context, d time.Duration) error
	randF func() float64
}

// NewInvoker constructs an Invoker for the given backend.
func NewInvoker(backend Backend, optFns ...func(o *Options)) *Invoker {
	opts := Options{
		PrimaryModel:  "gpt-4o-mini",
		FallbackModel: "gpt-4o",
		Attempts:      DefaultAttempts,
		Logger:        logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Attempts <= 0 {
		opts.Attempts = DefaultAttempts
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	return &Invoker{
		backend:  backend,
		primary:  opts.PrimaryModel,
		fallback: opts.FallbackModel,
		attempts: opts.Attempts,
		logger:   opts.Logger,
		sleep:    sleepCtx,
		randF:    rand.Float64,
	}
}

// WithBudget returns a copy of the invoker using a different attempt
// budget. Callers with tighter latency needs (the temporal fallback) reuse
// the same backend and escalation policy under a smaller budget.
func (inv *Invoker) WithBudget(attempts int) *Invoker {
	clone := *inv
	if attempts > 0 {
		clone.attempts = attempts
	}
	return &clone
}

// Generate runs the prompt against the backend, retrying transient
// failures within the attempt budget. On the attempt with index 1 the
// invoker switches to the fallback model for the remainder of the budget.
// Non-retriable failures propagate immediately; after exhausting the
// budget the last encountered error is returned.
func (inv *Invoker) Generate(ctx context.Context, prompt string) (string, error) {
	modelID := inv.primary
	var lastErr *Error

	for attempt := 0; attempt < inv.attempts; attempt++ {
		if attempt == 1 {
			modelID = inv.fallback
		}

		text, err := inv.backend.Generate(ctx, modelID, prompt)
		if err == nil {
			if trimmed := strings.TrimSpace(text); trimmed != "" {
				return trimmed, nil
			}
			err = errEmptyResponse
		}

		cat := Classify(err)
		if errors.Is(err, errEmptyResponse) {
			cat = CategoryEmpty
		}
		lastErr = &Error{Category: cat, ModelID: modelID, Attempts: attempt + 1, Err: err}
		inv.logger.Warn("model call failed",
			"model", modelID, "attempt", attempt, "category", cat.String(), "error", err)

		if !cat.Retriable() || attempt == inv.attempts-1 {
			break
		}
		if err := inv.sleep(ctx, inv.backoff(attempt)); err != nil {
			return "", &Error{Category: CategoryNetwork, ModelID: modelID, Attempts: attempt + 1, Err: err}
		}
	}
	return "", lastErr
}

// backoff computes the delay after a failed attempt: base*2^attempt with
// symmetric ±25% jitter, floored at 250ms.
func (inv *Invoker) backoff(attempt int) time.Duration {
	base := float64(backoffBase) * float64(int64(1)<<uint(attempt))
	jitter := base * (inv.randF()*2*jitterFactor - jitterFactor)
	d := time.Duration(base + jitter)
	if d < backoffFloor {
		d = backoffFloor
	}
	return d
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
