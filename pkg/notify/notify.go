// Package notify fans notifications out to individual users. The API side
// enqueues tasks; the notifier worker renders and dispatches them.
package notify

import (
	"context"

	"fanhouse/pkg/logger"
	"fanhouse/pkg/queue"
)

// Notification types.
const (
	TypeNewPost = "new_post"
)

type Notifier interface {
	Notify(ctx context.Context, userID, notifType string, data map[string]interface{}) error
}

// TaskPublisher is the enqueue side of the notification queue.
type TaskPublisher interface {
	PublishNotificationTask(ctx context.Context, task queue.NotificationTask) error
}

type QueueNotifier struct {
	publisher TaskPublisher
}

func NewQueueNotifier(publisher TaskPublisher) *QueueNotifier {
	return &QueueNotifier{publisher: publisher}
}

func (n *QueueNotifier) Notify(ctx context.Context, userID, notifType string, data map[string]interface{}) error {
	return n.publisher.PublishNotificationTask(ctx, queue.NotificationTask{
		UserID:   userID,
		Type:     notifType,
		Data:     data,
		Priority: priorityFor(notifType),
	})
}

func priorityFor(notifType string) int {
	switch notifType {
	case TypeNewPost:
		return 5
	}
	return 1
}

// LogNotifier is used when no queue is reachable.
type LogNotifier struct {
	log *logger.Logger
}

func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(ctx context.Context, userID, notifType string, data map[string]interface{}) error {
	n.log.Info("[NOTIFY] %s notification to user %s: %v", notifType, userID, data)
	return nil
}
