package jobs

import "time"

type Status string

const (
	StatusPending Status = "pending"
	StatusRunning Status = "running"
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

type EnqueueRequest struct {
	Source    string
	DedupeKey string
	Payload   JobPayload
}

type JobPayload struct {
	URL          string `json:"url"`
	VideoID      string `json:"video_id"`
	Title        string `json:"title"`
	OutputFolder string `json:"output_folder"`
}

// DubbingJob is one video's end-to-end dubbing run. Progress and Step are
// coarse job-level indicators; fine-grained resume state lives on disk as
// artifacts, never here.
type DubbingJob struct {
	ID        string     `json:"id"`
	Source    string     `json:"source"`
	DedupeKey string     `json:"dedupe_key"`
	Payload   JobPayload `json:"payload"`
	Status    Status     `json:"status"`
	Progress  int        `json:"progress"`
	Step      string     `json:"step,omitempty"`
	Error     string     `json:"error,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
