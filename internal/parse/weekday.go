package parse

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"
)

var weekdaySepRe = regexp.MustCompile(`[\s,;]+`)

// weekdayNames accepts Vietnamese shorthand (T2..T7, CN) and English
// three-letter names.
var weekdayNames = map[string]time.Weekday{
	"cn": time.Sunday, "t2": time.Monday, "t3": time.Tuesday, "t4": time.Wednesday,
	"t5": time.Thursday, "t6": time.Friday, "t7": time.Saturday,
	"sun": time.Sunday, "mon": time.Monday, "tue": time.Tuesday, "wed": time.Wednesday,
	"thu": time.Thursday, "fri": time.Friday, "sat": time.Saturday,
}

// ParseWeekdays parses a list such as "T2,T4,CN" or "mon wed" into a
// sorted, de-duplicated set of weekdays. An empty input yields nil, which
// callers treat as every day.
func ParseWeekdays(raw string) ([]time.Weekday, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, nil
	}

	seen := make(map[time.Weekday]bool)
	for _, tok := range weekdaySepRe.Split(s, -1) {
		if tok == "" {
			continue
		}
		day, ok := weekdayNames[strings.ToLower(tok)]
		if !ok {
			return nil, fmt.Errorf("unknown weekday %q in %q", tok, raw)
		}
		seen[day] = true
	}

	days := make([]time.Weekday, 0, len(seen))
	for d := range seen {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })
	return days, nil
}
