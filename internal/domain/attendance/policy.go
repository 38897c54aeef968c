package attendance

import (
	"time"

	"github.com/cmlabs-hris/attendance-saas-go/internal/pkg/utils"
)

// DeriveStatus classifies a check-in at now against the local work start time.
// now must already be in the company location. An unparseable start time yields Present.
func DeriveStatus(now time.Time, workStartTime string, superLateThresholdMinutes int) Status {
	hour, minute, err := utils.ParseClock(workStartTime)
	if err != nil {
		return StatusPresent
	}

	start := utils.AtClock(now, hour, minute, now.Location())
	superLateCutoff := start.Add(time.Duration(superLateThresholdMinutes) * time.Minute)

	switch {
	case now.After(superLateCutoff):
		return StatusSuperLate
	case wallClockAfter(now, hour, minute):
		return StatusLate
	default:
		return StatusPresent
	}
}

// wallClockAfter compares the time-of-day of now with hour:minute, ignoring the date.
func wallClockAfter(now time.Time, hour, minute int) bool {
	nowOfDay := time.Duration(now.Hour())*time.Hour +
		time.Duration(now.Minute())*time.Minute +
		time.Duration(now.Second())*time.Second +
		time.Duration(now.Nanosecond())
	startOfDay := time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute
	return nowOfDay > startOfDay
}

// CheckoutOpensAt is the local instant on the day of now from which a normal checkout is allowed.
func CheckoutOpensAt(now time.Time, workEndTime string) (time.Time, bool) {
	hour, minute, err := utils.ParseClock(workEndTime)
	if err != nil {
		return time.Time{}, false
	}
	return utils.AtClock(now, hour, minute, now.Location()), true
}
