// Package dateutils handles the bot's date conventions: everything runs on
// IST, sheet dates are DD/MM and monthly sheets are named after the month.
package dateutils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const istName = "Asia/Kolkata"

// sheetDateLayout is the DD/MM format used in the Date column.
const sheetDateLayout = "02/01"

var ist *time.Location

func init() {
	loc, err := time.LoadLocation(istName)
	if err != nil {
		// tzdata missing; fixed offset keeps day-of-month math correct.
		loc = time.FixedZone("IST", 5*3600+30*60)
	}
	ist = loc
}

// NowIST returns the current time in the IST timezone.
func NowIST() time.Time {
	return time.Now().In(ist)
}

// SheetDate formats a time the way the Date column stores it (DD/MM).
func SheetDate(t time.Time) string {
	return t.In(ist).Format(sheetDateLayout)
}

// MonthName returns the monthly sheet name for a time ("January", ...).
func MonthName(t time.Time) string {
	return t.In(ist).Format("January")
}

// ParseDayRange parses an inclusive day-of-month range like "5-10".
func ParseDayRange(dateRange string) (start, end int, err error) {
	parts := strings.SplitN(dateRange, "-", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid date range %q", dateRange)
	}
	start, err = strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid date range %q: %w", dateRange, err)
	}
	end, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid date range %q: %w", dateRange, err)
	}
	return start, end, nil
}

// InDayRange reports whether t's day of month falls inside an inclusive
// "start-end" range. Malformed ranges never match.
func InDayRange(t time.Time, dateRange string) bool {
	start, end, err := ParseDayRange(dateRange)
	if err != nil {
		return false
	}
	day := t.In(ist).Day()
	return start <= day && day <= end
}
