package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"tracking/internal/core/ports"
	"tracking/internal/worker"

	"go.uber.org/zap"
)

// Notification is one status update addressed to a recipient.
type Notification struct {
	Recipient  string
	TrackingID string
	Status     string
	Location   string
	Timestamp  time.Time
}

// Notifier delivers notifications.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// LogNotifier writes notifications to the log instead of delivering them.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With(zap.String("component", "notifier"))}
}

func (n *LogNotifier) Notify(_ context.Context, notification Notification) error {
	n.logger.Info("notification sent",
		zap.String("recipient", notification.Recipient),
		zap.String("tracking_id", notification.TrackingID),
		zap.String("status", notification.Status),
		zap.String("location", notification.Location),
		zap.Time("timestamp", notification.Timestamp),
	)
	return nil
}

// SendNotificationHandler notifies the configured recipient about terminal
// and exception statuses.
type SendNotificationHandler struct {
	notifier  Notifier
	recipient string
}

func NewSendNotificationHandler(notifier Notifier, recipient string) *SendNotificationHandler {
	return &SendNotificationHandler{
		notifier:  notifier,
		recipient: recipient,
	}
}

func (h *SendNotificationHandler) Handle(ctx context.Context, raw []byte) error {
	var payload ports.SendNotificationPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return worker.Permanent(fmt.Errorf("decode payload: %w", err))
	}
	if payload.TrackingID == "" || payload.Status == "" {
		return worker.Permanent(fmt.Errorf("notification payload needs tracking_id and status, got %q", raw))
	}

	return h.notifier.Notify(ctx, Notification{
		Recipient:  h.recipient,
		TrackingID: payload.TrackingID,
		Status:     payload.Status,
		Location:   payload.Location,
		Timestamp:  payload.Timestamp,
	})
}
