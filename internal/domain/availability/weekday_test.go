package availability

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWeekday_Wraps(t *testing.T) {
	assert.Equal(t, Sunday, Saturday.Next())
	assert.Equal(t, Saturday, Sunday.Prev())
	assert.Equal(t, Tuesday, Monday.Next())
}

func TestParseWeekday(t *testing.T) {
	tests := map[string]Weekday{
		"0":        Sunday,
		"5":        Friday,
		"friday":   Friday,
		"SAT":      Saturday,
		" Monday ": Monday,
	}
	for in, want := range tests {
		got, ok := ParseWeekday(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	_, ok := ParseWeekday("7")
	assert.False(t, ok)
	_, ok = ParseWeekday("someday")
	assert.False(t, ok)
}

func TestParseClock(t *testing.T) {
	m, err := ParseClock("09:30")
	assert.NoError(t, err)
	assert.Equal(t, 570, m)

	m, err = ParseClock("24:00")
	assert.NoError(t, err)
	assert.Equal(t, MinutesPerDay, m)

	_, err = ParseClock("25:00")
	assert.Error(t, err)

	assert.Equal(t, "07:05", FormatClock(425))
}
