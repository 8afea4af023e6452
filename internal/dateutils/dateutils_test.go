package dateutils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSheetDate(t *testing.T) {
	// 23:30 UTC on Jan 31 is already Feb 1 in IST.
	late := time.Date(2025, time.January, 31, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, "01/02", SheetDate(late))

	noon := time.Date(2025, time.March, 5, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "05/03", SheetDate(noon))
}

func TestMonthName(t *testing.T) {
	late := time.Date(2025, time.January, 31, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, "February", MonthName(late))

	noon := time.Date(2025, time.March, 5, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "March", MonthName(noon))
}

func TestNowIST(t *testing.T) {
	now := NowIST()
	_, offset := now.Zone()
	assert.Equal(t, 5*3600+30*60, offset)
}

func TestParseDayRange(t *testing.T) {
	start, end, err := ParseDayRange("5-10")
	require.NoError(t, err)
	assert.Equal(t, 5, start)
	assert.Equal(t, 10, end)

	start, end, err = ParseDayRange(" 1 - 31 ")
	require.NoError(t, err)
	assert.Equal(t, 1, start)
	assert.Equal(t, 31, end)

	for _, bad := range []string{"", "5", "five-ten", "5-"} {
		_, _, err := ParseDayRange(bad)
		assert.Error(t, err, "range %q must not parse", bad)
	}
}

func TestInDayRange(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2025, time.January, d, 12, 0, 0, 0, ist)
	}

	assert.True(t, InDayRange(day(5), "5-10"))
	assert.True(t, InDayRange(day(10), "5-10"))
	assert.True(t, InDayRange(day(7), "5-10"))
	assert.False(t, InDayRange(day(4), "5-10"))
	assert.False(t, InDayRange(day(11), "5-10"))
	assert.False(t, InDayRange(day(7), "garbage"))
}
