package hours

import "strings"

// hoursSuffix is appended to the hours of open days in display output.
const hoursSuffix = " Uhr"

// alwaysOpenLabel is shown in place of hours for AlwaysOpen venues.
const alwaysOpenLabel = "24 Stunden geöffnet"

// DisplayEntry is one row of a rendered opening-hours table.
type DisplayEntry struct {
	Days  string `json:"days"`
	Hours string `json:"hours"`
}

// FormatForDisplay renders raw opening hours for cards and detail pages.
// Returns nil for empty input or input without a recognisable day.
func FormatForDisplay(raw string) []DisplayEntry {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if strings.EqualFold(raw, AlwaysOpen) {
		return []DisplayEntry{{Days: dayRange(Days[0], Days[len(Days)-1]), Hours: alwaysOpenLabel}}
	}
	s, recognised := parse(raw)
	if recognised == 0 {
		return nil
	}
	return s.Display()
}

// Display groups consecutive days with identical slots into one entry,
// e.g. "Montag - Freitag" / "09:00-17:00 Uhr".
func (s Schedule) Display() []DisplayEntry {
	var out []DisplayEntry
	for i := 0; i < len(s); {
		j := i
		for j+1 < len(s) && sameSlots(s[i].Slots, s[j+1].Slots) {
			j++
		}

		days := s[i].Day
		if j > i {
			days = dayRange(s[i].Day, s[j].Day)
		}
		out = append(out, DisplayEntry{Days: days, Hours: displayHours(s[i].Slots)})
		i = j + 1
	}
	return out
}

func displayHours(slots []TimeSlot) string {
	if len(slots) == 0 {
		return Closed
	}
	return formatSlots(slots) + hoursSuffix
}

func dayRange(first, last string) string {
	return first + " - " + last
}

func sameSlots(a, b []TimeSlot) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
