package services

import (
	"context"
	"fmt"
	"log/slog"

	"socialevents/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer}
}

// SendJoinConfirmation sends the "join_confirmation" template to the joining user.
func (s *emailService) SendJoinConfirmation(ctx context.Context, data *domain.JoinConfirmationEmailData) error {
	if data == nil {
		return fmt.Errorf("join confirmation data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("join_confirmation", data)
	if err != nil {
		return fmt.Errorf("failed to render join_confirmation template: %w", err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send join confirmation email: %w", err)
	}
	slog.InfoContext(ctx, "join confirmation sent", "to", data.Email, "event", data.EventName)
	return nil
}
