package tasks

// TaskSchedulerInterface is what the rest of the application needs from
// the background scheduler: start it, stop it, and push ad-hoc work in.
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}
