package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var clockRe = regexp.MustCompile(`^(\d{1,2})(?::|h)(\d{2})?$`)

// ParseClock converts a wall-clock time such as "08:30", "8h30" or "17h"
// into minutes since midnight. "24:00" is accepted as the end of the day.
func ParseClock(raw string) (int, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	m := clockRe.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("unable to parse clock time: %q", raw)
	}

	hour, _ := strconv.Atoi(m[1])
	minute := 0
	if m[2] != "" {
		minute, _ = strconv.Atoi(m[2])
	}
	if minute > 59 || hour > 24 || (hour == 24 && minute != 0) {
		return 0, fmt.Errorf("clock time out of range: %q", raw)
	}
	return hour*60 + minute, nil
}

// FormatClock renders minutes since midnight as "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
