package ports

type SchedulerService interface {
	Start()
	Stop()
	// ScheduleRecurring runs the task every interval seconds until Stop.
	ScheduleRecurring(intervalSeconds int64, task func()) error
}
