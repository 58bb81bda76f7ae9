package domain

import "time"

// Event is a passive record of something that happened inside an
// aggregate. Events are buffered on the aggregate and drained by the
// application layer after a successful commit; aggregates never dispatch
// them on their own.
type Event interface {
	EventName() string
	OccurredOn() time.Time
}

// EventRecorder is the event buffer embedded by aggregate roots.
type EventRecorder struct {
	events []Event
}

// Record appends an event to the buffer.
func (r *EventRecorder) Record(e Event) {
	r.events = append(r.events, e)
}

// PullEvents drains the buffer and clears it. Each event is returned
// exactly once; calling PullEvents twice in a row yields nil.
func (r *EventRecorder) PullEvents() []Event {
	events := r.events
	r.events = nil
	return events
}
