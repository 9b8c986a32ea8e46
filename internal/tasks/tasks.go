// Package tasks implements the background jobs enqueued after a checkpoint
// is registered.
package tasks

import (
	"time"

	"tracking/internal/core/ports"
)

// Queue names.
const (
	QueueCheckpoints   = "checkpoints"
	QueueNotifications = "notifications"
)

// Spec describes where a job is queued and how it is retried.
type Spec struct {
	Name        string
	Queue       string
	MaxRetries  int
	BaseBackoff time.Duration
}

// Specs lists every job this service knows about.
func Specs() []Spec {
	return []Spec{
		{Name: ports.JobProcessCheckpoint, Queue: QueueCheckpoints, MaxRetries: 3, BaseBackoff: 60 * time.Second},
		{Name: ports.JobSendNotification, Queue: QueueNotifications, MaxRetries: 2, BaseBackoff: 30 * time.Second},
	}
}

// Queues returns the distinct queue names of Specs, in declaration order.
func Queues() []string {
	seen := make(map[string]bool)
	queues := make([]string, 0, 2)
	for _, spec := range Specs() {
		if !seen[spec.Queue] {
			seen[spec.Queue] = true
			queues = append(queues, spec.Queue)
		}
	}
	return queues
}
