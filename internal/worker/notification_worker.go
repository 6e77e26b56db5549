package worker

import (
	"github.com/spec-kit/crm-ticketing/internal/service"
)

// StartNotificationWorker hooks the notification service into the event
// stream. Safe to call with a nil service when notifications are off.
func StartNotificationWorker(notifications *service.NotificationService) {
	if notifications == nil {
		return
	}
	notifications.RegisterHandlers()
}
