package content

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedGenerator struct {
	out   string
	err   error
	calls int
}

func (g *scriptedGenerator) Generate(context.Context, string) (string, error) {
	g.calls++
	return g.out, g.err
}

const sampleHTML = `<html><head>
<script>var tracking = true;</script>
<style>body { color: red; }</style>
</head><body>
<h1>Celtia</h1>
<p>Planes de prepago con cobertura nacional.</p>
<svg><text>ignorado</text></svg>
</body></html>`

func newTestProvider(t *testing.T, gen Generator) (*Provider, *httptest.Server, *time.Time) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(sampleHTML))
	}))
	t.Cleanup(srv.Close)

	now := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	p := NewProvider(srv.URL, gen, func(o *Options) {
		o.Now = func() time.Time { return now }
	})
	return p, srv, &now
}

func TestProvider_ComposesPitchFromScrapedText(t *testing.T) {
	gen := &scriptedGenerator{out: "Cámbiate a Celtia hoy."}
	p, _, _ := newTestProvider(t, gen)

	text, err := p.PitchText(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Cámbiate a Celtia hoy.", text)
	assert.Equal(t, 1, gen.calls)
}

func TestProvider_ExtractTextSkipsNonContent(t *testing.T) {
	text, err := extractText(strings.NewReader(sampleHTML))
	require.NoError(t, err)
	assert.Contains(t, text, "Planes de prepago")
	assert.NotContains(t, text, "tracking")
	assert.NotContains(t, text, "color: red")
	assert.NotContains(t, text, "ignorado")
}

func TestProvider_PitchIsCachedWithinTTL(t *testing.T) {
	gen := &scriptedGenerator{out: "pitch"}
	p, _, now := newTestProvider(t, gen)

	_, _ = p.PitchText(context.Background())
	_, _ = p.PitchText(context.Background())
	assert.Equal(t, 1, gen.calls, "second call within TTL must hit the cache")

	*now = now.Add(DefaultPitchTTL + time.Minute)
	_, _ = p.PitchText(context.Background())
	assert.Equal(t, 2, gen.calls, "stale pitch must be recomposed")
}

func TestProvider_SiteCacheOutlivesPitchCache(t *testing.T) {
	gen := &scriptedGenerator{out: "pitch"}
	p, srv, now := newTestProvider(t, gen)

	fetches := 0
	srv.Config.Handler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fetches++
		_, _ = w.Write([]byte(sampleHTML))
	})

	_, _ = p.PitchText(context.Background())
	*now = now.Add(DefaultPitchTTL + time.Minute) // pitch stale, site fresh
	_, _ = p.PitchText(context.Background())

	assert.Equal(t, 1, fetches, "site scrape must be reused while fresh")
	assert.Equal(t, 2, gen.calls)
}

func TestProvider_GenerationFailureYieldsStaticPitch(t *testing.T) {
	gen := &scriptedGenerator{err: errors.New("model exhausted")}
	p, _, _ := newTestProvider(t, gen)

	text, err := p.PitchText(context.Background())
	require.NoError(t, err)
	assert.Contains(t, text, "Información sobre Celtia")
}

func TestProvider_ScrapeFailureYieldsStaticPitch(t *testing.T) {
	gen := &scriptedGenerator{out: "unused"}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	p := NewProvider(srv.URL, gen)
	text, err := p.PitchText(context.Background())
	require.NoError(t, err)
	assert.Contains(t, text, "Información sobre Celtia")
	assert.Equal(t, 0, gen.calls)
}

func TestProvider_CompanyImageRequiresFile(t *testing.T) {
	p := NewProvider("http://unused", nil, func(o *Options) {
		o.ImagePath = "does/not/exist.jpg"
	})
	_, err := p.CompanyImage()
	assert.Error(t, err)
}
