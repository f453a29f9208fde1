package models

// Day is a weekday on the institutional timetable.
type Day string

const (
	DayMon Day = "MON"
	DayTue Day = "TUE"
	DayWed Day = "WED"
	DayThu Day = "THU"
	DayFri Day = "FRI"
	DaySat Day = "SAT"
	DaySun Day = "SUN"
)

// AllDays is the canonical week ordering. Sunday stays in the domain even
// though the interactive grid excludes it.
var AllDays = []Day{DayMon, DayTue, DayWed, DayThu, DayFri, DaySat, DaySun}

// Valid reports whether d is a known weekday code.
func (d Day) Valid() bool {
	for _, day := range AllDays {
		if day == d {
			return true
		}
	}
	return false
}
