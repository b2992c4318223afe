// internal/models/notification.go
package models

// Notification records one confirmation message sent for an application.
type Notification struct {
	ApplicationID string `json:"applicationId"`
	Recipient     string `json:"recipient"`
	Channel       string `json:"channel"` // "email", "sms"
	Status        string `json:"status"`  // "sent", "failed", "disabled"
	MessageID     string `json:"messageId,omitempty"`
	Error         string `json:"error,omitempty"`
}

// Notification channels and statuses.
const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"

	NotificationSent     = "sent"
	NotificationFailed   = "failed"
	NotificationDisabled = "disabled"
)
