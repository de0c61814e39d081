package scheduler

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var timeRx = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)

// TimeOfDay is a local wall-clock time, minute precision.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// String renders the persisted zero-padded form.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// ParseTimeOfDay accepts "H:MM" or "HH:MM" in 24-hour form.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)
	m := timeRx.FindStringSubmatch(s)
	if m == nil {
		return TimeOfDay{}, &InvalidScheduleError{Value: s, Reason: "expected HH:MM"}
	}
	h, _ := strconv.Atoi(m[1])
	min, _ := strconv.Atoi(m[2])
	if h > 23 || min > 59 {
		return TimeOfDay{}, &InvalidScheduleError{Value: s, Reason: "out of range"}
	}
	return TimeOfDay{Hour: h, Minute: min}, nil
}

// ParseTimes validates and deduplicates times, keeping first-seen order.
func ParseTimes(times []string) ([]string, error) {
	seen := make(map[string]bool, len(times))
	out := make([]string, 0, len(times))
	for _, raw := range times {
		tod, err := ParseTimeOfDay(raw)
		if err != nil {
			return nil, err
		}
		if s := tod.String(); !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out, nil
}

// SplitTimes parses user text such as "09:00, 14:30 20:00".
func SplitTimes(text string) ([]string, error) {
	fields := strings.FieldsFunc(text, func(r rune) bool { return r == ',' || r == ';' || r == ' ' || r == '\n' })
	if len(fields) == 0 {
		return nil, &InvalidScheduleError{Value: text, Reason: "no times given"}
	}
	return ParseTimes(fields)
}

// LoadZone validates an IANA zone name.
func LoadZone(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, "local") {
		return nil, &InvalidScheduleError{Value: name, Reason: "expected an IANA timezone such as Europe/London"}
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, &InvalidScheduleError{Value: name, Reason: "unknown timezone"}
	}
	return loc, nil
}

// NextFire returns the first instant strictly after `after` at which the
// wall clock in loc reads tod. The offset is resolved for that day, so DST
// changes move the UTC instant and keep the local time.
func NextFire(after time.Time, tod TimeOfDay, loc *time.Location) time.Time {
	local := after.In(loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), tod.Hour, tod.Minute, 0, 0, loc)
	if !next.After(after) {
		next = time.Date(local.Year(), local.Month(), local.Day()+1, tod.Hour, tod.Minute, 0, 0, loc)
	}
	return next.UTC()
}
