package types

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// TimeRange is a half-open interval [Start, End) of minutes from midnight.
// Touching endpoints do not overlap, so back-to-back bookings are allowed.
type TimeRange struct {
	Start int
	End   int
}

// ParseTimeRange accepts "10:00-11:00" and the shorthand "10-11" used by the
// conversational agent.
func ParseTimeRange(value string) (TimeRange, error) {
	parts := strings.Split(strings.TrimSpace(value), "-")
	if len(parts) != 2 {
		return TimeRange{}, fmt.Errorf("time range %q must be start-end", value)
	}
	start, err := ParseClock(parts[0])
	if err != nil {
		return TimeRange{}, err
	}
	end, err := ParseClock(parts[1])
	if err != nil {
		return TimeRange{}, err
	}
	tr := TimeRange{Start: start, End: end}
	if err := tr.Validate(); err != nil {
		return TimeRange{}, err
	}
	return tr, nil
}

// ParseClock converts "10:30" or "10" into minutes from midnight.
func ParseClock(value string) (int, error) {
	raw := strings.TrimSpace(value)
	hourPart, minutePart, hasMinutes := strings.Cut(raw, ":")

	hour, err := strconv.Atoi(hourPart)
	if err != nil || hour < 0 || hour > 24 {
		return 0, fmt.Errorf("invalid hour in %q", value)
	}

	minute := 0
	if hasMinutes {
		minute, err = strconv.Atoi(minutePart)
		if err != nil || minute < 0 || minute > 59 {
			return 0, fmt.Errorf("invalid minute in %q", value)
		}
	}

	total := hour*60 + minute
	if total > 24*60 {
		return 0, fmt.Errorf("clock value %q is past midnight", value)
	}
	return total, nil
}

func (t TimeRange) Validate() error {
	if t.Start < 0 || t.End > 24*60 {
		return fmt.Errorf("time range %s is outside the day", t)
	}
	if t.Start >= t.End {
		return fmt.Errorf("time range %s must end after it starts", t)
	}
	return nil
}

// Overlaps applies half-open interval semantics: ranges that merely share an
// endpoint do not conflict.
func (t TimeRange) Overlaps(other TimeRange) bool {
	return t.Start < other.End && other.Start < t.End
}

func (t TimeRange) Minutes() int {
	return t.End - t.Start
}

func (t TimeRange) String() string {
	return fmt.Sprintf("%s-%s", formatClock(t.Start), formatClock(t.End))
}

func formatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

func (t TimeRange) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TimeRange) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseTimeRange(raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
