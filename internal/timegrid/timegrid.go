// Package timegrid defines the fixed weekly coordinate system of the
// institutional timetable and pure conversions between wall-clock "HH:MM"
// strings and grid coordinates.
package timegrid

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/campuskit/section-scheduler/internal/models"
)

// Days returns the subset of the canonical week matching the selection.
// Order is always the canonical MON..SUN order, never the selection's.
func Days(selection []models.Day) []models.Day {
	wanted := make(map[models.Day]struct{}, len(selection))
	for _, d := range selection {
		wanted[d] = struct{}{}
	}
	out := make([]models.Day, 0, len(wanted))
	for _, d := range models.AllDays {
		if _, ok := wanted[d]; ok {
			out = append(out, d)
		}
	}
	return out
}

// Sequence yields "HH:MM" strings from startHour:00 up to but not including
// endHour:00, stepping by the configured granularity. It is finite and
// restartable; the interactive grid and the read-only summary grid are two
// instantiations of the same generator at different granularities.
type Sequence struct {
	startMins int
	endMins   int
	granMins  int
	cursor    int
}

// NewSequence builds a time-slot sequence over [startHour, endHour).
func NewSequence(startHour, endHour, granMins int) *Sequence {
	if granMins <= 0 {
		granMins = 60
	}
	s := &Sequence{
		startMins: startHour * 60,
		endMins:   endHour * 60,
		granMins:  granMins,
	}
	s.Reset()
	return s
}

// Next returns the next time string, or false when the sequence is done.
func (s *Sequence) Next() (string, bool) {
	if s.cursor >= s.endMins {
		return "", false
	}
	t := formatMinutes(s.cursor)
	s.cursor += s.granMins
	return t, true
}

// Reset rewinds the sequence to its first slot.
func (s *Sequence) Reset() {
	s.cursor = s.startMins
}

// Collect drains a fresh pass of the sequence into a slice.
func (s *Sequence) Collect() []string {
	s.Reset()
	var out []string
	for {
		t, ok := s.Next()
		if !ok {
			break
		}
		out = append(out, t)
	}
	s.Reset()
	return out
}

// Minutes parses an "HH:MM" string into minutes from midnight.
func Minutes(t string) (int, error) {
	parts := strings.SplitN(t, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("malformed time %q", t)
	}
	hh, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("malformed time %q", t)
	}
	mm, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("malformed time %q", t)
	}
	if hh < 0 || hh > 23 || mm < 0 || mm > 59 {
		return 0, fmt.Errorf("time %q out of range", t)
	}
	return hh*60 + mm, nil
}

// BucketIndex maps a time to its bucket on a grid starting at startHour.
// Returns -1 for malformed input or a time before the grid opens.
func BucketIndex(t string, startHour, granMins int) int {
	mins, err := Minutes(t)
	if err != nil {
		return -1
	}
	offset := mins - startHour*60
	if offset < 0 || granMins <= 0 {
		return -1
	}
	return offset / granMins
}

// DurationInBuckets converts a start/end pair to a bucket count, flooring
// partial buckets. A degenerate or malformed end still occupies one bucket
// rather than disappearing from the grid.
func DurationInBuckets(start, end string, granMins int) int {
	startMins, err := Minutes(start)
	if err != nil {
		return 1
	}
	endMins, err := Minutes(end)
	if err != nil {
		return 1
	}
	if granMins <= 0 {
		return 1
	}
	buckets := (endMins - startMins) / granMins
	if buckets < 1 {
		return 1
	}
	return buckets
}

// Format12Hour renders a 24-hour "HH:MM" string in the institution's display
// convention: 12-hour clock, minutes dropped when zero. Empty input yields
// an empty string.
func Format12Hour(t string) string {
	if t == "" {
		return ""
	}
	mins, err := Minutes(t)
	if err != nil {
		return ""
	}
	hh := mins / 60
	mm := mins % 60

	suffix := "AM"
	if hh >= 12 {
		suffix = "PM"
	}
	display := hh % 12
	if display == 0 {
		display = 12
	}
	if mm == 0 {
		return fmt.Sprintf("%d %s", display, suffix)
	}
	return fmt.Sprintf("%d:%02d %s", display, mm, suffix)
}

func formatMinutes(mins int) string {
	return fmt.Sprintf("%02d:%02d", mins/60, mins%60)
}
