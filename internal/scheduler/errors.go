package scheduler

import "fmt"

// InvalidScheduleError reports a malformed time or timezone.
type InvalidScheduleError struct {
	Value  string
	Reason string
}

func (e *InvalidScheduleError) Error() string {
	return fmt.Sprintf("invalid schedule value %q: %s", e.Value, e.Reason)
}

// DeliveryError wraps a failed scheduled push. It is logged, never returned
// to the timer engine.
type DeliveryError struct {
	ChatID    int64
	TimeOfDay string
	Err       error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("deliver prompt to %d at %s: %v", e.ChatID, e.TimeOfDay, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }
