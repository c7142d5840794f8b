package domain

import (
	"context"
	"time"
)

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// JoinConfirmationEmailData holds data for the join confirmation email.
type JoinConfirmationEmailData struct {
	Email     string
	EventName string
	Location  string
	EventDate *time.Time
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendJoinConfirmation(ctx context.Context, data *JoinConfirmationEmailData) error
}

// Routing keys for published domain messages.
const (
	RoutingEventCreated = "event.created"
	RoutingEventUpdated = "event.updated"
	RoutingEventDeleted = "event.deleted"
	RoutingEventJoined  = "event.joined"
)

// Publisher publishes domain messages to a broker.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}
