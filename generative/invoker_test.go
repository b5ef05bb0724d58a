package generative

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedBackend returns canned results per attempt and records which
// model id each attempt used.
type scriptedBackend struct {
	results []result
	models  []string
	prompts []string
}

type result struct {
	text string
	err  error
}

func (b *scriptedBackend) Generate(_ context.Context, modelID, prompt string) (string, error) {
	b.models = append(b.models, modelID)
	b.prompts = append(b.prompts, prompt)
	i := len(b.models) - 1
	if i >= len(b.results) {
		return "", errors.New("script exhausted")
	}
	return b.results[i].text, b.results[i].err
}

func newTestInvoker(b Backend) *Invoker {
	inv := NewInvoker(b, func(o *Options) {
		o.PrimaryModel = "primary"
		o.FallbackModel = "fallback"
	})
	inv.sleep = func(context.Context, time.Duration) error { return nil }
	return inv
}

func TestInvoker_FirstAttemptSuccess(t *testing.T) {
	backend := &scriptedBackend{results: []result{{text: "  hola  "}}}
	inv := newTestInvoker(backend)

	out, err := inv.Generate(context.Background(), "saluda")

	require.NoError(t, err)
	assert.Equal(t, "hola", out)
	assert.Equal(t, []string{"primary"}, backend.models)
}

func TestInvoker_EscalatesToFallbackFromSecondAttempt(t *testing.T) {
	overloaded := errors.New("503 model overloaded")
	backend := &scriptedBackend{results: []result{
		{err: overloaded},
		{err: overloaded},
		{text: "listo"},
	}}
	inv := newTestInvoker(backend)

	out, err := inv.Generate(context.Background(), "p")

	require.NoError(t, err)
	assert.Equal(t, "listo", out)
	assert.Equal(t, []string{"primary", "fallback", "fallback"}, backend.models)
}

func TestInvoker_ExhaustsBudgetAndReturnsLastError(t *testing.T) {
	rate := errors.New("429 rate limit exceeded")
	backend := &scriptedBackend{results: []result{
		{err: rate}, {err: rate}, {err: rate}, {err: rate}, {err: rate},
	}}
	inv := newTestInvoker(backend)

	_, err := inv.Generate(context.Background(), "p")

	require.Error(t, err)
	assert.Len(t, backend.models, DefaultAttempts)

	var ge *Error
	require.ErrorAs(t, err, &ge)
	assert.Equal(t, CategoryRateLimited, ge.Category)
	assert.Equal(t, "fallback", ge.ModelID)
}

func TestInvoker_NonRetriablePropagatesImmediately(t *testing.T) {
	backend := &scriptedBackend{results: []result{
		{err: &Error{Category: CategoryInvalid, Err: errors.New("bad request")}},
		{text: "never reached"},
	}}
	inv := newTestInvoker(backend)

	_, err := inv.Generate(context.Background(), "p")

	require.Error(t, err)
	assert.Len(t, backend.models, 1, "invalid errors must not be retried")
}

func TestInvoker_BlankResponseIsRetried(t *testing.T) {
	backend := &scriptedBackend{results: []result{
		{text: "   "},
		{text: "respuesta"},
	}}
	inv := newTestInvoker(backend)

	out, err := inv.Generate(context.Background(), "p")

	require.NoError(t, err)
	assert.Equal(t, "respuesta", out)
	assert.Len(t, backend.models, 2)
}

func TestInvoker_WithBudgetLimitsAttempts(t *testing.T) {
	overloaded := errors.New("overloaded")
	backend := &scriptedBackend{results: []result{
		{err: overloaded}, {err: overloaded}, {err: overloaded}, {err: overloaded},
	}}
	inv := newTestInvoker(backend).WithBudget(2)
	inv.sleep = func(context.Context, time.Duration) error { return nil }

	_, err := inv.Generate(context.Background(), "p")

	require.Error(t, err)
	assert.Len(t, backend.models, 2)
}

func TestInvoker_BackoffBounds(t *testing.T) {
	inv := newTestInvoker(&scriptedBackend{})

	for attempt := 0; attempt < 4; attempt++ {
		base := float64(backoffBase) * float64(int64(1)<<uint(attempt))
		lo := time.Duration(base * (1 - jitterFactor))
		if lo < backoffFloor {
			lo = backoffFloor
		}
		hi := time.Duration(base * (1 + jitterFactor))

		for i := 0; i < 200; i++ {
			d := inv.backoff(attempt)
			require.GreaterOrEqual(t, d, lo, "attempt %d", attempt)
			require.LessOrEqual(t, d, hi, "attempt %d", attempt)
		}
	}
}

func TestInvoker_SleepHonorsContext(t *testing.T) {
	overloaded := errors.New("overloaded")
	backend := &scriptedBackend{results: []result{{err: overloaded}, {text: "x"}}}
	inv := NewInvoker(backend, func(o *Options) {
		o.PrimaryModel = "primary"
		o.FallbackModel = "fallback"
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := inv.Generate(ctx, "p")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
