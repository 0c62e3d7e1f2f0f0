package checkout

import (
	"fmt"
	"time"
)

// Delivery windows by weekday, minutes from midnight. Window ends are
// inclusive: Sunday 14:30-17:30, Saturday 09:30-19:30, weekdays 08:30-21:30.
const slotStep = 30

func deliveryWindow(day time.Weekday) (startMin, endMin int) {
	switch day {
	case time.Sunday:
		return 14*60 + 30, 17*60 + 30
	case time.Saturday:
		return 9*60 + 30, 19*60 + 30
	default:
		return 8*60 + 30, 21*60 + 30
	}
}

// TimeSlots enumerates the selectable delivery times for date as "HH:MM"
// strings on a 30-minute grid. When date is the same day as now, slots
// earlier than now+30m are discarded.
func TimeSlots(date time.Time, now time.Time) []string {
	start, end := deliveryWindow(date.Weekday())

	if sameDay(date, now) {
		cutoff := now.Add(slotStep * time.Minute)
		if !sameDay(cutoff, now) {
			// now+30m already rolled into the next day.
			return nil
		}
		cutoffMin := cutoff.Hour()*60 + cutoff.Minute()
		// Align the cutoff up to the next grid increment.
		if rem := cutoffMin % slotStep; rem != 0 {
			cutoffMin += slotStep - rem
		}
		if cutoffMin > start {
			start = cutoffMin
		}
	}

	var slots []string
	for m := start; m <= end; m += slotStep {
		slots = append(slots, fmt.Sprintf("%02d:%02d", m/60, m%60))
	}
	return slots
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
