package report

import (
	"time"
	_ "time/tzdata"

	"github.com/Mandoobi/jaber-backend/internal/domain/shared"
)

// DateLayout is the normalized calendar date stored on a report
const DateLayout = "2006-01-02"

// DefaultTimezone is used when a tenant has none configured
const DefaultTimezone = "Asia/Hebron"

// ReportDate is a calendar date in the tenant's timezone
type ReportDate struct {
	value string
	day   shared.Weekday
}

// ParseReportDate validates a YYYY-MM-DD string
func ParseReportDate(s string) (ReportDate, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return ReportDate{}, shared.NewDomainError("INVALID_DATE", "Report date must be formatted YYYY-MM-DD")
	}
	return ReportDate{value: t.Format(DateLayout), day: shared.WeekdayOf(t.Weekday())}, nil
}

// ReportDateOf returns the calendar date of t as seen in loc
func ReportDateOf(t time.Time, loc *time.Location) ReportDate {
	local := t.In(loc)
	return ReportDate{value: local.Format(DateLayout), day: shared.WeekdayOf(local.Weekday())}
}

// String returns the YYYY-MM-DD form
func (d ReportDate) String() string { return d.value }

// Weekday returns the day label of the date
func (d ReportDate) Weekday() shared.Weekday { return d.day }

// IsZero reports whether the date was never set
func (d ReportDate) IsZero() bool { return d.value == "" }

// StartOfMonth returns midnight on the first day of t's month in loc
func StartOfMonth(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, loc)
}
