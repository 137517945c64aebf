package parse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseClock(t *testing.T) {
	testCases := []struct {
		name      string
		raw       string
		expected  int
		expectErr bool
	}{
		{name: "Colon form", raw: "08:30", expected: 510},
		{name: "Single digit hour", raw: "7:05", expected: 425},
		{name: "Vietnamese form", raw: "17h30", expected: 1050},
		{name: "Hour only", raw: "13h", expected: 780},
		{name: "End of day", raw: "24:00", expected: 1440},
		{name: "Surrounding spaces", raw: " 09:00 ", expected: 540},
		{name: "Minute out of range", raw: "08:75", expectErr: true},
		{name: "Past end of day", raw: "24:30", expectErr: true},
		{name: "Garbage", raw: "noon", expectErr: true},
		{name: "Empty", raw: "", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseClock(tc.raw)
			if tc.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tc.expected, got)
			}
		})
	}
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "08:30", FormatClock(510))
	assert.Equal(t, "00:00", FormatClock(0))
	assert.Equal(t, "17:05", FormatClock(1025))
}

func TestParseWeekdays(t *testing.T) {
	testCases := []struct {
		name      string
		raw       string
		expected  []time.Weekday
		expectErr bool
	}{
		{name: "Vietnamese", raw: "T2,T4,CN", expected: []time.Weekday{time.Sunday, time.Monday, time.Wednesday}},
		{name: "English with spaces", raw: "mon wed", expected: []time.Weekday{time.Monday, time.Wednesday}},
		{name: "Mixed case and duplicates", raw: "Fri, t6;FRI", expected: []time.Weekday{time.Friday}},
		{name: "Empty means every day", raw: "  ", expected: nil},
		{name: "Unknown token", raw: "T2,T9", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseWeekdays(tc.raw)
			if tc.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tc.expected, got)
			}
		})
	}
}
