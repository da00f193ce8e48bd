package ports

import "time"

type SchedulerService interface {
	Start()
	Stop()
	// ScheduleExpirySweep runs sweep at the given interval, replacing any
	// previously scheduled sweep.
	ScheduleExpirySweep(interval time.Duration, sweep func()) error
}
