package persistence

import "time"

// JobEvent is a progress snapshot recorded while a job runs. Events survive
// until the job itself is pruned and back the history endpoint of the API.
type JobEvent struct {
	ID        int64     `json:"id"`
	JobID     string    `json:"job_id"`
	Progress  int       `json:"progress"`
	Step      string    `json:"step"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
