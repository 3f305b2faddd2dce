// Package hours parses, formats, and evaluates weekly opening-hours schedules.
//
// The persisted form is a free-text string with one entry per day, e.g.
//
//	Montag: 09:00-12:00, 14:00-18:00
//	Dienstag: Geschlossen
//
// Entries may also be separated by whitespace on a single line
// ("Montag: 09-17 Dienstag: Geschlossen"). Both conventions go through the
// same parser; nothing in this package returns an error for malformed input.
package hours

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Days holds the localized day names in week order, Monday first.
var Days = [7]string{"Montag", "Dienstag", "Mittwoch", "Donnerstag", "Freitag", "Samstag", "Sonntag"}

const (
	// Closed is the time specification for a day without opening hours.
	Closed = "Geschlossen"

	// AlwaysOpen is the raw value for venues that never close.
	AlwaysOpen = "24/7"

	// MaxSlotsPerDay is the number of open intervals a single day may carry.
	// Extra ranges in the raw text are dropped by Parse.
	MaxSlotsPerDay = 2
)

// TimeSlot is a single open interval within a day in zero-padded 24h "HH:MM".
// A Close earlier than Open means the slot runs past midnight.
type TimeSlot struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

// DaySchedule holds the open intervals of one day. No slots means closed.
type DaySchedule struct {
	Day   string     `json:"day"`
	Slots []TimeSlot `json:"slots"`
}

// Schedule is a full week in Days order. It always has exactly seven entries.
type Schedule [7]DaySchedule

// headerRE matches an entry header: one or more comma-separated words
// followed by a colon. Times never match because they contain no letters.
var headerRE = regexp.MustCompile(`(\p{L}+(?:\s*,\s*\p{L}+)*)\s*:`)

// unitRE matches the "Uhr" unit users often type after a time.
var unitRE = regexp.MustCompile(`(?i)\buhr\b`)

// NewSchedule returns a week with every day closed.
func NewSchedule() Schedule {
	var s Schedule
	for i, d := range Days {
		s[i] = DaySchedule{Day: d, Slots: []TimeSlot{}}
	}
	return s
}

// Parse converts raw text into a Schedule. Days not mentioned, unknown day
// names, and malformed ranges all degrade to "closed" for the affected day.
func Parse(raw string) Schedule {
	s, _ := parse(raw)
	return s
}

// parse returns the schedule and the number of day entries it recognised.
// Each line is read on its own; a line may hold several headers. A later
// entry for the same day replaces an earlier one.
func parse(raw string) (Schedule, int) {
	s := NewSchedule()
	recognised := 0

	for _, line := range strings.Split(raw, "\n") {
		locs := headerRE.FindAllStringSubmatchIndex(line, -1)
		for i, loc := range locs {
			end := len(line)
			if i+1 < len(locs) {
				end = locs[i+1][0]
			}
			slots := parseSpec(line[loc[1]:end])

			for _, word := range strings.Split(line[loc[2]:loc[3]], ",") {
				idx := dayIndex(strings.TrimSpace(word))
				if idx < 0 {
					continue
				}
				s[idx].Slots = append([]TimeSlot{}, slots...)
				recognised++
			}
		}
	}
	return s, recognised
}

// dashRE collapses the spacing around a range separator so "8 - 17" stays
// one token.
var dashRE = regexp.MustCompile(`\s*[-–—]\s*`)

// parseSpec parses the text following a day header. Tokens that are not a
// range, such as notes or "Geschlossen", are ignored; no ranges means closed.
func parseSpec(spec string) []TimeSlot {
	spec = unitRE.ReplaceAllString(spec, "")
	spec = dashRE.ReplaceAllString(spec, "-")
	slots := []TimeSlot{}
	tokens := strings.FieldsFunc(spec, func(r rune) bool {
		return r == ',' || r == ';' || unicode.IsSpace(r)
	})
	for _, tok := range tokens {
		if len(slots) == MaxSlotsPerDay {
			break
		}
		if slot, ok := parseRange(tok); ok {
			slots = append(slots, slot)
		}
	}
	return slots
}

func parseRange(s string) (TimeSlot, bool) {
	open, closing, ok := strings.Cut(s, "-")
	if !ok {
		return TimeSlot{}, false
	}
	o, ok := parseClock(open)
	if !ok {
		return TimeSlot{}, false
	}
	c, ok := parseClock(closing)
	if !ok {
		return TimeSlot{}, false
	}
	return TimeSlot{Open: o, Close: c}, true
}

// parseClock normalises a loosely written time to "HH:MM".
// Accepts "8", "08", "830", "0830", "8:30", and "8.30".
func parseClock(s string) (string, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ".", ":"))

	hh, mm, found := strings.Cut(s, ":")
	if !found {
		switch len(s) {
		case 1, 2:
			hh, mm = s, "00"
		case 3:
			hh, mm = s[:1], s[1:]
		case 4:
			hh, mm = s[:2], s[2:]
		default:
			return "", false
		}
	}
	if len(hh) == 0 || len(hh) > 2 || len(mm) != 2 || !digits(hh) || !digits(mm) {
		return "", false
	}

	h, _ := strconv.Atoi(hh)
	m, _ := strconv.Atoi(mm)
	if h > 24 || m > 59 || (h == 24 && m != 0) {
		return "", false
	}
	return fmt.Sprintf("%02d:%02d", h, m), true
}

func digits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// dayIndex returns the week position of name, or -1 if it is not a day.
func dayIndex(name string) int {
	for i, d := range Days {
		if strings.EqualFold(d, name) {
			return i
		}
	}
	return -1
}

// Format serialises s into the canonical raw form, one line per day.
func Format(s Schedule) string {
	lines := make([]string, 0, len(s))
	for _, d := range s {
		lines = append(lines, d.Day+": "+formatSlots(d.Slots))
	}
	return strings.Join(lines, "\n")
}

func formatSlots(slots []TimeSlot) string {
	if len(slots) == 0 {
		return Closed
	}
	parts := make([]string, 0, len(slots))
	for _, sl := range slots {
		parts = append(parts, sl.Open+"-"+sl.Close)
	}
	return strings.Join(parts, ", ")
}

// Validate checks a Schedule submitted by the editor. Unlike Parse it
// rejects input instead of repairing it.
func Validate(s Schedule) error {
	var errs []error
	for i, d := range s {
		if d.Day != Days[i] {
			errs = append(errs, fmt.Errorf("entry %d: expected day %q, got %q", i+1, Days[i], d.Day))
			continue
		}
		if len(d.Slots) > MaxSlotsPerDay {
			errs = append(errs, fmt.Errorf("%s: at most %d time slots allowed", d.Day, MaxSlotsPerDay))
		}
		for _, sl := range d.Slots {
			if !canonical(sl.Open) || !canonical(sl.Close) {
				errs = append(errs, fmt.Errorf("%s: invalid time slot %q", d.Day, sl.Open+"-"+sl.Close))
			}
		}
	}
	return errors.Join(errs...)
}

func canonical(t string) bool {
	n, ok := parseClock(t)
	return ok && n == t
}

// minutes converts a canonical "HH:MM" into minutes since midnight, or -1.
func minutes(t string) int {
	if !canonical(t) {
		return -1
	}
	h, _ := strconv.Atoi(t[:2])
	m, _ := strconv.Atoi(t[3:])
	return h*60 + m
}
