// Package event names the broker topics crossing module boundaries and
// their JSON payloads.
package event

import "time"

const (
	// NotificationEmailTopic carries EmailMessage to the notification module.
	NotificationEmailTopic = "notification.email"
	// NotificationEmailConsumer is the consumer group, NSQ channel, NATS
	// queue group and Pub/Sub subscription reading NotificationEmailTopic.
	NotificationEmailConsumer = "notification_email_sender"

	// HeaderCorrelationID carries the request correlation id.
	HeaderCorrelationID = "cID"
)

// EmailKind selects the template rendered for an EmailMessage.
type EmailKind string

const (
	EmailKindOTP          EmailKind = "otp"
	EmailKindProfileViews EmailKind = "profile_views"
)

// EmailMessage asks the notification module to send one email.
type EmailMessage struct {
	Kind EmailKind `json:"kind"`
	To   string    `json:"to"`
	Name string    `json:"name,omitempty"`

	// otp
	Purpose string `json:"purpose,omitempty"`
	Code    string `json:"code,omitempty"`

	// profile_views
	ViewerName string      `json:"viewer_name,omitempty"`
	TotalViews int64       `json:"total_views,omitempty"`
	ViewedAt   []time.Time `json:"viewed_at,omitempty"`
}
