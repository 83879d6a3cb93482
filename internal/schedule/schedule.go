package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// parser accepts the standard five-field cron layout. The daily trigger is
// expressed as "M H * * *" so Next handles month/day rollover and DST shifts.
var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Daily is a once-a-day trigger at a fixed local wall time.
type Daily struct {
	hour   int
	minute int
	sched  cron.Schedule
}

// Parse converts a 24h "HH:MM" wall time into a Daily schedule.
func Parse(runAt string) (Daily, error) {
	parts := strings.Split(strings.TrimSpace(runAt), ":")
	if len(parts) != 2 {
		return Daily{}, fmt.Errorf("run time must be HH:MM, got %q", runAt)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return Daily{}, fmt.Errorf("run time hour %q is not a number", parts[0])
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return Daily{}, fmt.Errorf("run time minute %q is not a number", parts[1])
	}
	if hour < 0 || hour > 23 {
		return Daily{}, fmt.Errorf("run time hour must be in 0..23, got %d", hour)
	}
	if minute < 0 || minute > 59 {
		return Daily{}, fmt.Errorf("run time minute must be in 0..59, got %d", minute)
	}

	spec := fmt.Sprintf("%d %d * * *", minute, hour)
	sched, err := parser.Parse(spec)
	if err != nil {
		return Daily{}, fmt.Errorf("parse cron spec %q: %w", spec, err)
	}
	return Daily{hour: hour, minute: minute, sched: sched}, nil
}

// Next returns the first trigger strictly after t.
func (d Daily) Next(t time.Time) time.Time {
	return d.sched.Next(t)
}

func (d Daily) String() string {
	return fmt.Sprintf("%02d:%02d", d.hour, d.minute)
}
