// Package parsers holds the small text grammars used to turn scraped
// reset strings into instants. The formats are heuristic: claude.ai renders
// either a relative countdown ("in 2 hr 30 min") or a weekday wall-clock
// time ("Thu 10:00 AM"). New formats get added here, not in the detector.
package parsers

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	relativeResetRe = regexp.MustCompile(`(?i)\bin\s+(\d+)\s*hrs?\b(?:\s*(\d+)\s*mins?)?`)
	absoluteResetRe = regexp.MustCompile(`(?i)^\s*(sun|mon|tue|wed|thu|fri|sat)[a-z]*\.?\s+(\d{1,2}):(\d{2})\s*(am|pm)\s*$`)
	sessionResetRe  = regexp.MustCompile(`(?i)resets?\s+(in\s+\d+\s*hrs?(?:\s*\d+\s*mins?)?)`)
)

var weekdayByPrefix = map[string]time.Weekday{
	"sun": time.Sunday,
	"mon": time.Monday,
	"tue": time.Tuesday,
	"wed": time.Wednesday,
	"thu": time.Thursday,
	"fri": time.Friday,
	"sat": time.Saturday,
}

// ParseResetInstant resolves a scraped reset string against the reference
// instant the string was observed at. It reports false when the text matches
// neither grammar; callers treat that as best-effort enrichment and move on.
func ParseResetInstant(text string, ref time.Time) (time.Time, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, false
	}
	if t, ok := parseRelativeReset(text, ref); ok {
		return t, true
	}
	if t, ok := parseAbsoluteReset(text, ref); ok {
		return t, true
	}
	return time.Time{}, false
}

// parseRelativeReset handles "in H hr" and "in H hr M min".
func parseRelativeReset(text string, ref time.Time) (time.Time, bool) {
	m := relativeResetRe.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, false
	}
	hours, err := strconv.Atoi(m[1])
	if err != nil {
		return time.Time{}, false
	}
	minutes := 0
	if m[2] != "" {
		minutes, err = strconv.Atoi(m[2])
		if err != nil {
			return time.Time{}, false
		}
	}
	return ref.Add(time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute), true
}

// parseAbsoluteReset handles "<Weekday> HH:MM AM|PM", resolving to the next
// occurrence strictly after ref. A same-weekday time that already passed
// rolls forward a full week.
func parseAbsoluteReset(text string, ref time.Time) (time.Time, bool) {
	m := absoluteResetRe.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, false
	}

	weekday, ok := weekdayByPrefix[strings.ToLower(m[1])]
	if !ok {
		return time.Time{}, false
	}
	hour, err := strconv.Atoi(m[2])
	if err != nil || hour < 1 || hour > 12 {
		return time.Time{}, false
	}
	minute, err := strconv.Atoi(m[3])
	if err != nil || minute > 59 {
		return time.Time{}, false
	}

	switch strings.ToLower(m[4]) {
	case "am":
		if hour == 12 {
			hour = 0
		}
	case "pm":
		if hour != 12 {
			hour += 12
		}
	}

	dayOffset := (int(weekday) - int(ref.Weekday()) + 7) % 7
	candidate := time.Date(ref.Year(), ref.Month(), ref.Day(), hour, minute, 0, 0, ref.Location())
	candidate = candidate.AddDate(0, 0, dayOffset)
	if !candidate.After(ref) {
		candidate = candidate.AddDate(0, 0, 7)
	}
	return candidate, true
}

// ExtractSessionReset pulls a session reset phrase ("in 4 hr 59 min") out of
// free page text. Returns "" when no phrase is present.
func ExtractSessionReset(rawText string) string {
	m := sessionResetRe.FindStringSubmatch(rawText)
	if m == nil {
		return ""
	}
	return strings.Join(strings.Fields(m[1]), " ")
}
