package temporal

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/celtia/supportbot/core"
)

var (
	middayRe   = regexp.MustCompile(`\b(?:medio ?d[ií]a|mediod[ií]a)\b`)
	midnightRe = regexp.MustCompile(`\b(?:media ?noche|medianoche)\b`)
	amPmRe     = regexp.MustCompile(`\b(\d{1,2})(?::(\d{1,2}))?\s*([ap]m)\b`)
	clock24Re  = regexp.MustCompile(`\b(\d{1,2}):(\d{2})\b`)
	bareHourRe = regexp.MustCompile(`\b(\d{1,2})\b`)
	spacesRe   = regexp.MustCompile(`\s+`)
)

// ResolveTime resolves a free-form time expression to a 24-hour HH:MM
// value. The deterministic rules run first; unmatched input is delegated
// to the generative fallback, whose failures yield an unresolved result
// silently so the caller can re-prompt.
func (r *Resolver) ResolveTime(ctx context.Context, input string) (core.ParsedTime, bool) {
	if pt, ok := parseTimeByRules(input); ok {
		return pt, true
	}
	if r.gen == nil {
		return core.ParsedTime{}, false
	}
	pt := r.generateTime(ctx, input)
	return pt, pt.Resolved()
}

// parseTimeByRules applies the deterministic cascade: midday/midnight
// words, 12-hour am/pm, 24-hour hh:mm, then the bare-hour heuristic.
func parseTimeByRules(input string) (core.ParsedTime, bool) {
	t := strings.ToLower(strings.TrimSpace(input))
	t = spacesRe.ReplaceAllString(t, " ")
	t = strings.ReplaceAll(t, ".", "")

	if middayRe.MatchString(t) {
		return core.ParsedTime{ISOTime: "12:00", Readable: "mediodía"}, true
	}
	if midnightRe.MatchString(t) {
		return core.ParsedTime{ISOTime: "00:00", Readable: "medianoche"}, true
	}

	// hh[:mm] am|pm — 12am maps to 00, pm hours other than 12 add 12.
	if m := amPmRe.FindStringSubmatch(t); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute := 0
		if m[2] != "" {
			minute, _ = strconv.Atoi(m[2])
		}
		switch {
		case hour == 12 && m[3] == "am":
			hour = 0
		case hour != 12 && m[3] == "pm":
			hour += 12
		}
		return clockTime(hour, minute)
	}

	// hh:mm taken literally as 24-hour.
	if m := clock24Re.FindStringSubmatch(t); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		return clockTime(hour, minute)
	}

	// Bare hour: 1-11 without a suffix is assumed PM (business-hours
	// bias); 0 and 12-23 are taken literally.
	if m := bareHourRe.FindStringSubmatch(t); m != nil {
		hour, _ := strconv.Atoi(m[1])
		if hour >= 0 && hour <= 23 {
			if hour >= 1 && hour <= 11 {
				hour += 12
			}
			return clockTime(hour, 0)
		}
	}

	return core.ParsedTime{}, false
}

// clockTime validates ranges and renders HH:MM. Out-of-range components
// never produce a value.
func clockTime(hour, minute int) (core.ParsedTime, bool) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return core.ParsedTime{}, false
	}
	iso := fmt.Sprintf("%02d:%02d", hour, minute)
	return core.ParsedTime{ISOTime: iso, Readable: iso}, true
}
