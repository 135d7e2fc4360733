package shared

import "time"

// Weekday is the English day label used by reports and visit plans
type Weekday string

const (
	Sunday    Weekday = "Sunday"
	Monday    Weekday = "Monday"
	Tuesday   Weekday = "Tuesday"
	Wednesday Weekday = "Wednesday"
	Thursday  Weekday = "Thursday"
	Friday    Weekday = "Friday"
	Saturday  Weekday = "Saturday"
)

var weekdays = [...]Weekday{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

// WeekdayOf converts a time.Weekday
func WeekdayOf(d time.Weekday) Weekday {
	return weekdays[d]
}

// IsValid reports whether w is one of the seven labels
func (w Weekday) IsValid() bool {
	for _, d := range weekdays {
		if d == w {
			return true
		}
	}
	return false
}
