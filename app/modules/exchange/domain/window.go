package exchangedomain

import "time"

const (
	windowOpenHour  = 8
	windowCloseHour = 20
	windowStep      = 4 // hours between rotation turns
)

// FirstWindow is the first rotation turn after a competition completes:
// 08:00 local on the following day.
func FirstWindow(completedAt time.Time, loc *time.Location) time.Time {
	t := completedAt.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day()+1, windowOpenHour, 0, 0, 0, loc)
}

// NextWindow advances a turn by four hours on the local clock. A turn that
// would start at or after 20:00 moves to 08:00 the next day.
func NextWindow(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	hour := t.Hour() + windowStep
	if hour >= windowCloseHour {
		return time.Date(t.Year(), t.Month(), t.Day()+1, windowOpenHour, 0, 0, 0, loc)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), hour, t.Minute(), 0, 0, loc)
}

// Cutoff is 20:00 local on the day before the next competition starts. From
// then on every user may exchange.
func Cutoff(start time.Time, loc *time.Location) time.Time {
	t := start.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day()-1, windowCloseHour, 0, 0, 0, loc)
}
