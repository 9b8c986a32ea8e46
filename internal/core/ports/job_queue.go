package ports

import (
	"context"
	"time"
)

// Background job names.
const (
	JobProcessCheckpoint = "process_checkpoint"
	JobSendNotification  = "send_notification"
)

// JobQueue hands work to background workers. Enqueue is fire-and-forget from
// the caller's perspective: the returned id is only used for logging.
type JobQueue interface {
	Enqueue(ctx context.Context, name string, payload any) (string, error)
}

// ProcessCheckpointPayload is the payload of JobProcessCheckpoint.
type ProcessCheckpointPayload struct {
	CheckpointID string    `json:"checkpoint_id"`
	TrackingID   string    `json:"tracking_id"`
	Status       string    `json:"status"`
	Timestamp    time.Time `json:"timestamp"`
}

// SendNotificationPayload is the payload of JobSendNotification.
type SendNotificationPayload struct {
	TrackingID string    `json:"tracking_id"`
	Status     string    `json:"status"`
	Location   string    `json:"location,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}
