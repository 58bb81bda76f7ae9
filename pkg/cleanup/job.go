// Package cleanup defines the payload for the storage cleanup queue.
package cleanup

// Job is the JSON payload put on the RabbitMQ cleanup queue. The worker
// deletes each object path from the media bucket; missing objects are
// treated as already cleaned.
type Job struct {
	Paths  []string `json:"paths"`
	Reason string   `json:"reason,omitempty"`
}
