package temporal

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/celtia/supportbot/core"
)

const datePromptFmt = `Interpreta una FECHA en español y responde SOLO JSON.
Zona horaria: %s.
Entrada: """%s"""
Devuelve: {"isoDate":"YYYY-MM-DD","readable":"<humanizado>"} o {"isoDate":null,"readable":null}.`

const timePromptFmt = `Interpreta una HORA en español y responde SOLO JSON (24h).
Ejemplos: "3 pm"->{"isoTime":"15:00"}, "15:30"->{"isoTime":"15:30"}, "mediodía"->{"isoTime":"12:00"}, "medianoche"->{"isoTime":"00:00"}.
Entrada: """%s"""
Devuelve: {"isoTime":"HH:MM","readable":"<humanizado>"} o {"isoTime":null,"readable":null}.`

// generateDate delegates a date expression to the model under a strict
// JSON contract. A resolved date behind today is clamped to tomorrow
// rather than rejected; every other failure yields an unresolved value.
func (r *Resolver) generateDate(ctx context.Context, input string, today time.Time) core.ParsedDate {
	prompt := fmt.Sprintf(datePromptFmt, r.loc.String(), input)
	out, err := r.gen.Generate(ctx, prompt)
	if err != nil {
		r.logger.Warn("date fallback failed", "error", err)
		return core.ParsedDate{}
	}

	body := stripFences(out)
	iso := gjson.Get(body, "isoDate").String()
	if iso == "" {
		return core.ParsedDate{}
	}
	parsed, err := time.ParseInLocation("2006-01-02", iso, r.loc)
	if err != nil {
		r.logger.Warn("date fallback returned malformed date", "value", iso)
		return core.ParsedDate{}
	}
	if parsed.Before(today) {
		tomorrow := today.AddDate(0, 0, 1)
		return core.ParsedDate{ISODate: isoDate(tomorrow), Readable: "mañana"}
	}

	readable := gjson.Get(body, "readable").String()
	if readable == "" {
		readable = iso
	}
	return core.ParsedDate{ISODate: iso, Readable: readable}
}

// generateTime delegates a time expression to the model. Failures are
// swallowed so the caller can simply re-prompt.
func (r *Resolver) generateTime(ctx context.Context, input string) core.ParsedTime {
	prompt := fmt.Sprintf(timePromptFmt, input)
	out, err := r.gen.Generate(ctx, prompt)
	if err != nil {
		r.logger.Warn("time fallback failed", "error", err)
		return core.ParsedTime{}
	}

	body := stripFences(out)
	iso := gjson.Get(body, "isoTime").String()
	if iso == "" {
		return core.ParsedTime{}
	}
	var hour, minute int
	if _, err := fmt.Sscanf(iso, "%d:%d", &hour, &minute); err != nil {
		r.logger.Warn("time fallback returned malformed time", "value", iso)
		return core.ParsedTime{}
	}
	pt, ok := clockTime(hour, minute)
	if !ok {
		return core.ParsedTime{}
	}
	if readable := gjson.Get(body, "readable").String(); readable != "" {
		pt.Readable = readable
	}
	return pt
}

// stripFences removes markdown code fences some models wrap around JSON.
func stripFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}
