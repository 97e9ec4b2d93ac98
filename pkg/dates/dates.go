// Package dates resolves colloquial Spanish date expressions ("mañana",
// "el viernes", "15 de marzo") against a reference moment and renders
// dates in the clinic's long display form.
package dates

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Weekday and month names in the clinic's locale, indexed so that
// Weekdays[int(t.Weekday())] is the name of t's weekday.
var (
	Weekdays = []string{"domingo", "lunes", "martes", "miércoles", "jueves", "viernes", "sábado"}
	Months   = []string{"enero", "febrero", "marzo", "abril", "mayo", "junio",
		"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre"}
)

var (
	dayOfMonthRe = regexp.MustCompile(`(\d{1,2})\s*de\s*(\w+)`)
	numericRe    = regexp.MustCompile(`(\d{1,2})[/\-](\d{1,2})[/\-](\d{2,4})`)
)

// ParseColloquial resolves a free-text date expression relative to now.
// Matching is case-insensitive and substring-based; rules are checked in a
// fixed order and the first hit wins. Returns nil when no rule matches.
//
// Note the "mañana" rule runs before "pasado mañana", so any text containing
// "mañana" resolves to tomorrow even when "pasado" is also present. This
// mirrors the rule order the clinic has been running with.
func ParseColloquial(text string, now time.Time) *time.Time {
	lower := strings.ToLower(text)

	if strings.Contains(lower, "hoy") {
		return datePtr(now)
	}
	if strings.Contains(lower, "mañana") {
		return datePtr(now.AddDate(0, 0, 1))
	}
	if strings.Contains(lower, "pasado mañana") {
		return datePtr(now.AddDate(0, 0, 2))
	}

	for i, name := range Weekdays {
		if strings.Contains(lower, name) {
			offset := i - int(now.Weekday())
			if offset <= 0 {
				offset += 7 // always strictly in the future, never today
			}
			return datePtr(now.AddDate(0, 0, offset))
		}
	}

	if strings.Contains(lower, "próxima semana") || strings.Contains(lower, "la semana que viene") {
		return datePtr(now.AddDate(0, 0, 7))
	}

	// Specific date like "15 de febrero"
	if m := dayOfMonthRe.FindStringSubmatch(lower); m != nil {
		day, _ := strconv.Atoi(m[1])
		for idx, month := range Months {
			if strings.Contains(m[2], month) {
				date := time.Date(now.Year(), time.Month(idx+1), day, 0, 0, 0, 0, now.Location())
				if date.Before(now) {
					date = date.AddDate(1, 0, 0)
				}
				return &date
			}
		}
	}

	return nil
}

// ParseNumeric matches an explicit day/month/year expression such as
// "15/03/1985" or "15-03-85". A two-digit year above 50 is read as 19xx,
// 50 and below as 20xx. Returns nil when the text has no such pattern.
func ParseNumeric(text string, loc *time.Location) *time.Time {
	m := numericRe.FindStringSubmatch(text)
	if m == nil {
		return nil
	}

	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	if len(m[3]) == 2 {
		if year > 50 {
			year += 1900
		} else {
			year += 2000
		}
	}

	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
	return &date
}

// FormatLong renders a date as "viernes 15 de marzo"
func FormatLong(t time.Time) string {
	return fmt.Sprintf("%s %d de %s", Weekdays[int(t.Weekday())], t.Day(), Months[int(t.Month())-1])
}

// FormatISO renders a date as "2006-01-02"
func FormatISO(t time.Time) string {
	return t.Format("2006-01-02")
}

func datePtr(t time.Time) *time.Time {
	return &t
}
