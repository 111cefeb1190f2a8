package models

import "time"

type Day string

const (
	Monday    Day = "MONDAY"
	Tuesday   Day = "TUESDAY"
	Wednesday Day = "WEDNESDAY"
	Thursday  Day = "THURSDAY"
	Friday    Day = "FRIDAY"
	Saturday  Day = "SATURDAY"
	Sunday    Day = "SUNDAY"
)

var weekdays = map[time.Weekday]Day{
	time.Monday:    Monday,
	time.Tuesday:   Tuesday,
	time.Wednesday: Wednesday,
	time.Thursday:  Thursday,
	time.Friday:    Friday,
	time.Saturday:  Saturday,
	time.Sunday:    Sunday,
}

// DayOf maps a time.Weekday onto the contract's day enum.
func DayOf(w time.Weekday) Day {
	return weekdays[w]
}

func (d Day) Valid() bool {
	for _, v := range weekdays {
		if v == d {
			return true
		}
	}
	return false
}

// WorkingHour is one availability window on a weekday. StartTime and EndTime
// are local clock strings in HH:mm.
type WorkingHour struct {
	Day       Day    `json:"day" validate:"weekday"`
	StartTime string `json:"startTime" validate:"hhmm"`
	EndTime   string `json:"endTime" validate:"hhmm"`
}
