package dto

import (
	"motordesk/internal/domain/notification"
)

// SendNotificationRequest dispatches an ad-hoc operator notification.
type SendNotificationRequest struct {
	Event        string  `json:"event" binding:"required"`
	Title        string  `json:"title" binding:"required"`
	Body         string  `json:"body"`
	Priority     string  `json:"priority"`
	TargetUserID *string `json:"targetUserId"`
}

// ToMessage converts DTO to the domain message.
func (r *SendNotificationRequest) ToMessage() notification.Message {
	priority := notification.Priority(r.Priority)
	if priority == "" {
		priority = notification.PriorityNormal
	}
	return notification.Message{
		Event:        r.Event,
		Title:        r.Title,
		Body:         r.Body,
		Priority:     priority,
		TargetUserID: r.TargetUserID,
	}
}
