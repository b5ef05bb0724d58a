package temporal

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGenerator scripts the generative fallback.
type fakeGenerator struct {
	out     string
	err     error
	prompts []string
}

func (g *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	return g.out, g.err
}

func resolverAt(t *testing.T, base string, gen Generator) *Resolver {
	t.Helper()
	loc, err := time.LoadLocation("America/Mexico_City")
	require.NoError(t, err)
	now, err := time.ParseInLocation("2006-01-02 15:04", base+" 10:00", loc)
	require.NoError(t, err)
	return NewResolver(gen, loc, func(o *Options) {
		o.Now = func() time.Time { return now }
	})
}

func TestResolveDate_RelativeWords(t *testing.T) {
	r := resolverAt(t, "2025-01-10", nil) // a Friday

	cases := []struct {
		input string
		want  string
	}{
		{"hoy", "2025-01-10"},
		{"quiero venir hoy mismo", "2025-01-10"},
		{"mañana", "2025-01-11"},
		{"manana", "2025-01-11"},
		{"pasado mañana", "2025-01-12"},
		{"pasado manana por favor", "2025-01-12"},
	}
	for _, tc := range cases {
		pd, ok := r.ResolveDate(context.Background(), tc.input)
		require.True(t, ok, "input %q", tc.input)
		assert.Equal(t, tc.want, pd.ISODate, "input %q", tc.input)
	}
}

func TestResolveDate_Weekdays(t *testing.T) {
	// 2025-01-10 is a Friday.
	r := resolverAt(t, "2025-01-10", nil)

	pd, ok := r.ResolveDate(context.Background(), "próximo jueves")
	require.True(t, ok)
	assert.Equal(t, "2025-01-16", pd.ISODate)
	assert.Equal(t, "próximo jueves", pd.Readable)

	// Same weekday as today never resolves to today.
	pd, ok = r.ResolveDate(context.Background(), "este viernes")
	require.True(t, ok)
	assert.Equal(t, "2025-01-17", pd.ISODate)

	pd, ok = r.ResolveDate(context.Background(), "este sabado")
	require.True(t, ok)
	assert.Equal(t, "2025-01-11", pd.ISODate)
}

func TestResolveDate_NumericSameYearStays(t *testing.T) {
	r := resolverAt(t, "2025-01-10", nil)

	pd, ok := r.ResolveDate(context.Background(), "17/08")
	require.True(t, ok)
	assert.Equal(t, "2025-08-17", pd.ISODate)
}

func TestResolveDate_NumericPastInYearRollsForwardOnce(t *testing.T) {
	r := resolverAt(t, "2025-09-01", nil)

	pd, ok := r.ResolveDate(context.Background(), "17/08")
	require.True(t, ok)
	assert.Equal(t, "2026-08-17", pd.ISODate)

	pd, ok = r.ResolveDate(context.Background(), "17-08")
	require.True(t, ok)
	assert.Equal(t, "2026-08-17", pd.ISODate)
}

func TestResolveDate_NumericExplicitYear(t *testing.T) {
	r := resolverAt(t, "2025-09-01", nil)

	pd, ok := r.ResolveDate(context.Background(), "17/08/2026")
	require.True(t, ok)
	assert.Equal(t, "2026-08-17", pd.ISODate)

	// An explicit past year is never surfaced.
	_, ok = r.ResolveDate(context.Background(), "17/08/2020")
	assert.False(t, ok)
}

func TestResolveDate_WrittenMonth(t *testing.T) {
	r := resolverAt(t, "2025-09-01", nil)

	pd, ok := r.ResolveDate(context.Background(), "17 de agosto")
	require.True(t, ok)
	assert.Equal(t, "2026-08-17", pd.ISODate)
	assert.Equal(t, "17 de agosto", pd.Readable)

	pd, ok = r.ResolveDate(context.Background(), "1 de enero de 2030")
	require.True(t, ok)
	assert.Equal(t, "2030-01-01", pd.ISODate)
}

func TestResolveDate_NeverReturnsPastThroughRules(t *testing.T) {
	r := resolverAt(t, "2025-06-15", nil)

	inputs := []string{"hoy", "mañana", "pasado mañana", "este lunes", "próximo domingo", "14/06", "1 de enero"}
	for _, input := range inputs {
		pd, ok := r.ResolveDate(context.Background(), input)
		require.True(t, ok, "input %q", input)
		assert.GreaterOrEqual(t, pd.ISODate, "2025-06-15", "input %q", input)
	}
}

func TestResolveDate_FallbackClampsPastToTomorrow(t *testing.T) {
	gen := &fakeGenerator{out: `{"isoDate":"2025-01-05","readable":"el cinco"}`}
	r := resolverAt(t, "2025-01-10", gen)

	pd, ok := r.ResolveDate(context.Background(), "el día de la fiesta")
	require.True(t, ok)
	assert.Equal(t, "2025-01-11", pd.ISODate)
	assert.Equal(t, "mañana", pd.Readable)
}

func TestResolveDate_FallbackAcceptsFencedJSON(t *testing.T) {
	gen := &fakeGenerator{out: "```json\n{\"isoDate\":\"2025-02-14\",\"readable\":\"14 de febrero\"}\n```"}
	r := resolverAt(t, "2025-01-10", gen)

	pd, ok := r.ResolveDate(context.Background(), "el día de san valentín")
	require.True(t, ok)
	assert.Equal(t, "2025-02-14", pd.ISODate)
	assert.Equal(t, "14 de febrero", pd.Readable)
}

func TestResolveDate_FallbackFailuresYieldAbsent(t *testing.T) {
	cases := []*fakeGenerator{
		{err: errors.New("backend busy")},
		{out: "no es una fecha"},
		{out: `{"isoDate":null,"readable":null}`},
		{out: `{"isoDate":"32/13/99","readable":"x"}`},
	}
	for _, gen := range cases {
		r := resolverAt(t, "2025-01-10", gen)
		_, ok := r.ResolveDate(context.Background(), "cuando sea")
		assert.False(t, ok)
	}
}

func TestResolveDate_NilGeneratorDisablesFallback(t *testing.T) {
	r := resolverAt(t, "2025-01-10", nil)

	_, ok := r.ResolveDate(context.Background(), "cuando caiga la primera lluvia")
	assert.False(t, ok)
}

func TestResolveDate_RulesRunBeforeGenerator(t *testing.T) {
	gen := &fakeGenerator{out: `{"isoDate":"2099-01-01","readable":"x"}`}
	r := resolverAt(t, "2025-01-10", gen)

	pd, ok := r.ResolveDate(context.Background(), "mañana")
	require.True(t, ok)
	assert.Equal(t, "2025-01-11", pd.ISODate)
	assert.Empty(t, gen.prompts, "deterministic match must not call the generator")
}
