package temporal

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/celtia/supportbot/core"
)

var weekdays = map[string]time.Weekday{
	"domingo":   time.Sunday,
	"lunes":     time.Monday,
	"martes":    time.Tuesday,
	"miércoles": time.Wednesday,
	"miercoles": time.Wednesday,
	"jueves":    time.Thursday,
	"viernes":   time.Friday,
	"sábado":    time.Saturday,
	"sabado":    time.Saturday,
}

var months = map[string]time.Month{
	"enero":      time.January,
	"febrero":    time.February,
	"marzo":      time.March,
	"abril":      time.April,
	"mayo":       time.May,
	"junio":      time.June,
	"julio":      time.July,
	"agosto":     time.August,
	"septiembre": time.September,
	"setiembre":  time.September,
	"octubre":    time.October,
	"noviembre":  time.November,
	"diciembre":  time.December,
}

var (
	todayRe    = regexp.MustCompile(`\bhoy\b`)
	afterTomRe = regexp.MustCompile(`\bpasado\s+ma[ñn]ana\b`)
	tomorrowRe = regexp.MustCompile(`\bma[ñn]ana\b`)
	weekdayRe  = regexp.MustCompile(`\b(pr[óo]ximo|este|esta)\s+(domingo|lunes|martes|mi[ée]rcoles|jueves|viernes|s[áa]bado)\b`)
	numericRe  = regexp.MustCompile(`\b(\d{1,2})[/-](\d{1,2})(?:[/-](\d{4}))?\b`)
	writtenRe  = regexp.MustCompile(`\b(\d{1,2})\s+de\s+(enero|febrero|marzo|abril|mayo|junio|julio|agosto|septiembre|setiembre|octubre|noviembre|diciembre)(?:\s+de\s+(\d{4}))?\b`)
)

// dateMatcher is one stage of the cascade. The bool reports whether the
// stage claimed the input; a claimed input with an unresolved ParsedDate
// stops the cascade without consulting the generative fallback.
type dateMatcher func(text string, today time.Time) (core.ParsedDate, bool)

var dateMatchers = []dateMatcher{
	matchToday,
	matchDayAfterTomorrow,
	matchTomorrow,
	matchWeekday,
	matchNumericDate,
	matchWrittenDate,
}

// ResolveDate resolves a free-form date expression. The second return is
// false when no stage (deterministic or generative) produced a date; the
// caller re-prompts without a state change.
func (r *Resolver) ResolveDate(ctx context.Context, input string) (core.ParsedDate, bool) {
	text := strings.ToLower(strings.TrimSpace(input))
	today := r.today()

	for _, match := range dateMatchers {
		if pd, claimed := match(text, today); claimed {
			return pd, pd.Resolved()
		}
	}

	if r.gen == nil {
		return core.ParsedDate{}, false
	}
	pd := r.generateDate(ctx, input, today)
	return pd, pd.Resolved()
}

func matchToday(text string, today time.Time) (core.ParsedDate, bool) {
	if !todayRe.MatchString(text) {
		return core.ParsedDate{}, false
	}
	return core.ParsedDate{ISODate: isoDate(today), Readable: "hoy"}, true
}

func matchDayAfterTomorrow(text string, today time.Time) (core.ParsedDate, bool) {
	if !afterTomRe.MatchString(text) {
		return core.ParsedDate{}, false
	}
	return core.ParsedDate{ISODate: isoDate(today.AddDate(0, 0, 2)), Readable: "pasado mañana"}, true
}

func matchTomorrow(text string, today time.Time) (core.ParsedDate, bool) {
	if !tomorrowRe.MatchString(text) {
		return core.ParsedDate{}, false
	}
	return core.ParsedDate{ISODate: isoDate(today.AddDate(0, 0, 1)), Readable: "mañana"}, true
}

// matchWeekday handles "próximo jueves" / "este sábado". The offset is
// (target - today) mod 7; a zero offset, or the "próximo" qualifier on the
// current weekday, means a full week ahead. This path never yields today.
func matchWeekday(text string, today time.Time) (core.ParsedDate, bool) {
	m := weekdayRe.FindStringSubmatch(text)
	if m == nil {
		return core.ParsedDate{}, false
	}
	qualifier, name := m[1], m[2]
	target := weekdays[name]
	offset := (int(target) - int(today.Weekday()) + 7) % 7
	if offset == 0 {
		offset = 7
	}
	d := today.AddDate(0, 0, offset)
	return core.ParsedDate{ISODate: isoDate(d), Readable: qualifier + " " + name}, true
}

// matchNumericDate handles dd/mm[/yyyy] and dd-mm[-yyyy]. A year-less date
// already behind today rolls forward exactly one year; an explicit past
// year is claimed but unresolved so the caller re-prompts instead of
// booking into the past.
func matchNumericDate(text string, today time.Time) (core.ParsedDate, bool) {
	m := numericRe.FindStringSubmatch(text)
	if m == nil {
		return core.ParsedDate{}, false
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	yearGiven := m[3] != ""
	year := today.Year()
	if yearGiven {
		year, _ = strconv.Atoi(m[3])
	}

	readable := fmt.Sprintf("%d/%d", day, month)
	if yearGiven {
		readable = fmt.Sprintf("%d/%d/%d", day, month, year)
	}
	pd, ok := buildDate(day, time.Month(month), year, yearGiven, today, readable)
	if !ok {
		return core.ParsedDate{}, false
	}
	return pd, true
}

// matchWrittenDate handles "17 de agosto [de 2025]" with the fixed month
// name table; year omission follows the same roll-forward rule as the
// numeric form.
func matchWrittenDate(text string, today time.Time) (core.ParsedDate, bool) {
	m := writtenRe.FindStringSubmatch(text)
	if m == nil {
		return core.ParsedDate{}, false
	}
	day, _ := strconv.Atoi(m[1])
	month := months[m[2]]
	yearGiven := m[3] != ""
	year := today.Year()
	if yearGiven {
		year, _ = strconv.Atoi(m[3])
	}

	readable := fmt.Sprintf("%d de %s", day, m[2])
	if yearGiven {
		readable = fmt.Sprintf("%d de %s de %d", day, m[2], year)
	}
	pd, ok := buildDate(day, month, year, yearGiven, today, readable)
	if !ok {
		return core.ParsedDate{}, false
	}
	return pd, true
}

// buildDate validates the calendar components and applies the roll-forward
// rule. The bool is false when the components do not form a real date, in
// which case the stage has not claimed the input.
func buildDate(day int, month time.Month, year int, yearGiven bool, today time.Time, readable string) (core.ParsedDate, bool) {
	if month < time.January || month > time.December || day < 1 || day > 31 {
		return core.ParsedDate{}, false
	}
	candidate := time.Date(year, month, day, 0, 0, 0, 0, today.Location())
	if candidate.Day() != day || candidate.Month() != month {
		// time.Date normalized an impossible day (e.g. 31 of February).
		return core.ParsedDate{}, false
	}
	if candidate.Before(today) {
		if !yearGiven {
			candidate = time.Date(year+1, month, day, 0, 0, 0, 0, today.Location())
		} else {
			// Explicit past year: claimed but unresolved, never surfaced.
			return core.ParsedDate{}, true
		}
	}
	return core.ParsedDate{ISODate: isoDate(candidate), Readable: readable}, true
}
