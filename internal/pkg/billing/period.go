package billing

import (
	"time"

	"github.com/subsyncapp/subsync/app/models"
)

// ComputePeriodEnd returns the end of the billing period anchored at the given
// instant. Monthly adds one calendar month, yearly one calendar year; in both
// cases the day of month is clamped to the last valid day of the target month
// (Jan 31 + 1 month = Feb 28/29, Feb 29 + 1 year = Feb 28 on non-leap years).
// time.AddDate normalizes overflow into the following month instead, which
// would silently grant extra days, so the add is done by hand.
func ComputePeriodEnd(billing string, anchor time.Time) time.Time {
	switch billing {
	case models.BillingYearly:
		return addCalendar(anchor, 1, 0)
	default:
		return addCalendar(anchor, 0, 1)
	}
}

func addCalendar(t time.Time, years, months int) time.Time {
	year, month, day := t.Date()
	year += years
	m := int(month) + months
	for m > 12 {
		m -= 12
		year++
	}
	if last := daysInMonth(year, time.Month(m)); day > last {
		day = last
	}
	return time.Date(year, time.Month(m), day,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// daysInMonth uses the day-zero normalization trick: day 0 of the next month
// is the last day of this one.
func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
