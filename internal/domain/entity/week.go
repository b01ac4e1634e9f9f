package entity

import "strconv"

// DaysPerWeek days, index 0 is Monday.
const DaysPerWeek = 7

var DayLabels = [DaysPerWeek]string{"M", "T", "W", "Th", "F", "Sa", "Su"}

type Week [DaysPerWeek]bool

func ValidDay(day int) bool {
	return day >= 0 && day < DaysPerWeek
}

// DayKey is the map key a day is stored under in a community's activeMembers.
func DayKey(day int) string {
	return strconv.Itoa(day)
}

func (w Week) Any() bool {
	for _, on := range w {
		if on {
			return true
		}
	}
	return false
}

func (w Week) Set(day int, on bool) Week {
	if ValidDay(day) {
		w[day] = on
	}
	return w
}
