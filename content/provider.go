// Package content produces the marketing pitch shown for the company-info
// menu option: the public site is scraped, the text summarized by the
// generative model and both stages cached under independent freshness
// windows. Every failure degrades to a static pitch so the menu option
// always answers.
package content

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/html"

	"github.com/celtia/supportbot/core"
	"github.com/celtia/supportbot/logging"
)

const (
	// DefaultSiteTTL bounds how long raw scraped site text is reused.
	DefaultSiteTTL = 6 * time.Hour

	// DefaultPitchTTL bounds how long a composed pitch is reused.
	DefaultPitchTTL = 2 * time.Hour

	// maxSiteText caps the scraped text handed to the model.
	maxSiteText = 8000
)

const staticPitch = "📘 *Información sobre Celtia*\n\n" +
	"Gracias por tu interés en cambiarte con nosotros. Contamos con cobertura nacional " +
	"y opciones de prepago. Puedo ayudarte a revisar *paquetes*, *cobertura* y " +
	"*cómo contratar*. ¿Qué te gustaría saber primero?"

const pitchPromptFmt = `=== TEXTO DEL SITIO (recortado) ===
%s
=== FIN ===

Eres asesor de Celtia. Usa SOLO lo que veas arriba. Redacta un mensaje cálido (8–10 líneas) sobre beneficios de *cambiarse a Celtia* (planes, cobertura, facilidad). Invita a seguir con preguntas (paquetes, cobertura, cómo contratar). Evita inventar.`

// Generator is the slice of the invoker used to compose the pitch.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Options configure a Provider.
type Options struct {
	SiteTTL  time.Duration
	PitchTTL time.Duration

	// ImagePath locates the company image sent with the pitch.
	ImagePath string
	ImageMIME string

	HTTPClient *http.Client
	Logger     logging.Logger

	// Now supplies the clock; tests pin it to drive cache expiry.
	Now func() time.Time
}

type cacheEntry struct {
	text string
	at   time.Time
}

// Provider implements core.ContentProvider. Cache refresh is opportunistic:
// whichever call first observes staleness refreshes. Concurrent refreshes
// are not mutually excluded; refresh is idempotent and last-write-wins.
type Provider struct {
	siteURL   string
	gen       Generator
	imagePath string
	imageMIME string
	client    *http.Client
	logger    logging.Logger
	now       func() time.Time
	siteTTL   time.Duration
	pitchTTL  time.Duration

	mu    sync.RWMutex
	site  cacheEntry
	pitch cacheEntry
}

// NewProvider constructs a Provider scraping siteURL.
func NewProvider(siteURL string, gen Generator, optFns ...func(o *Options)) *Provider {
	opts := Options{
		SiteTTL:    DefaultSiteTTL,
		PitchTTL:   DefaultPitchTTL,
		ImagePath:  "assets/company-info.jpg",
		ImageMIME:  "image/jpeg",
		HTTPClient: http.DefaultClient,
		Logger:     logging.NoOpLogger{},
		Now:        time.Now,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Provider{
		siteURL:   siteURL,
		gen:       gen,
		imagePath: opts.ImagePath,
		imageMIME: opts.ImageMIME,
		client:    opts.HTTPClient,
		logger:    opts.Logger,
		now:       opts.Now,
		siteTTL:   opts.SiteTTL,
		pitchTTL:  opts.PitchTTL,
	}
}

// PitchText returns the cached pitch, composing a fresh one when stale.
// Scrape or generation failures cache and return the static pitch; the
// error return stays nil so callers always have something to send.
func (p *Provider) PitchText(ctx context.Context) (string, error) {
	now := p.now()
	p.mu.RLock()
	cached := p.pitch
	p.mu.RUnlock()
	if cached.text != "" && now.Sub(cached.at) < p.pitchTTL {
		return cached.text, nil
	}

	text, err := p.composePitch(ctx)
	if err != nil {
		p.logger.Warn("pitch composition failed, using static fallback", "error", err)
		text = staticPitch
	}

	p.mu.Lock()
	p.pitch = cacheEntry{text: text, at: now}
	p.mu.Unlock()
	return text, nil
}

// CompanyImage returns a reference to the local company image.
func (p *Provider) CompanyImage() (core.MediaRef, error) {
	if _, err := os.Stat(p.imagePath); err != nil {
		return core.MediaRef{}, fmt.Errorf("company image: %w", err)
	}
	return core.MediaRef{Path: p.imagePath, MIMEType: p.imageMIME}, nil
}

func (p *Provider) composePitch(ctx context.Context) (string, error) {
	siteText, err := p.siteText(ctx)
	if err != nil {
		return "", err
	}
	out, err := p.gen.Generate(ctx, fmt.Sprintf(pitchPromptFmt, siteText))
	if err != nil {
		return "", err
	}
	return core.Truncate(out, core.MaxMessageLength), nil
}

// siteText returns the cached scrape, fetching when stale.
func (p *Provider) siteText(ctx context.Context) (string, error) {
	now := p.now()
	p.mu.RLock()
	cached := p.site
	p.mu.RUnlock()
	if cached.text != "" && now.Sub(cached.at) < p.siteTTL {
		return cached.text, nil
	}

	text, err := p.scrape(ctx)
	if err != nil {
		return "", err
	}
	p.mu.Lock()
	p.site = cacheEntry{text: text, at: now}
	p.mu.Unlock()
	return text, nil
}

func (p *Provider) scrape(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.siteURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", p.siteURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching %s: HTTP %d", p.siteURL, resp.StatusCode)
	}
	text, err := extractText(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parsing %s: %w", p.siteURL, err)
	}
	return text, nil
}

// extractText walks the HTML tree collecting visible text, skipping
// script/style/noscript/svg subtrees, collapsing whitespace and capping
// the result.
func extractText(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "svg":
				return
			}
		}
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	collapsed := strings.Join(strings.Fields(sb.String()), " ")
	return core.Truncate(collapsed, maxSiteText), nil
}

var _ core.ContentProvider = (*Provider)(nil)
