// Package notifier composes and dispatches the platform's transactional
// emails. Everything funnels through a single Mailer so tests can observe
// outbound mail without an SMTP server.
package notifier

import (
	"context"

	"folklorika.bg/backend/pkg/mailer"
	"go.uber.org/zap"
)

// AssociationPendingData describes a newly submitted association awaiting
// moderation.
type AssociationPendingData struct {
	AssociationName string
	City            string
	ContactEmail    string
	UserName        string
	UserEmail       string
}

// EventPendingData describes a newly submitted event awaiting moderation.
type EventPendingData struct {
	EventTitle      string
	EventDate       string
	City            string
	UserName        string
	UserEmail       string
	AssociationName string
}

// Notifier sends the platform's transactional emails.
type Notifier interface {
	// AssociationPending and EventPending notify the moderation inbox.
	AssociationPending(ctx context.Context, data AssociationPendingData) error
	EventPending(ctx context.Context, data EventPendingData) error

	VerificationEmail(ctx context.Context, name, email, verifyURL string) error
	PasswordReset(ctx context.Context, name, email, resetURL string) error
	PasswordChanged(ctx context.Context, name, email string) error
	NewYearGreeting(ctx context.Context, name, email string) error
}

type emailNotifier struct {
	mailer     mailer.Mailer
	adminEmail string
	baseURL    string
	logger     *zap.Logger
}

// New creates the email-backed Notifier. adminEmail is the moderation inbox,
// baseURL is used for links back into the platform.
func New(m mailer.Mailer, adminEmail, baseURL string, logger *zap.Logger) Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &emailNotifier{
		mailer:     m,
		adminEmail: adminEmail,
		baseURL:    baseURL,
		logger:     logger,
	}
}

func (n *emailNotifier) AssociationPending(ctx context.Context, data AssociationPendingData) error {
	subject := "🎭 Ново сдружение чака одобрение - " + data.AssociationName
	body := associationPendingTemplate(data, n.baseURL)
	return n.mailer.Send(ctx, n.adminEmail, subject, body)
}

func (n *emailNotifier) EventPending(ctx context.Context, data EventPendingData) error {
	subject := "🎪 Ново събитие чака одобрение - " + data.EventTitle
	body := eventPendingTemplate(data, n.baseURL)
	return n.mailer.Send(ctx, n.adminEmail, subject, body)
}

func (n *emailNotifier) VerificationEmail(ctx context.Context, name, email, verifyURL string) error {
	subject := "Потвърдете вашия имейл адрес - Фолклорика"
	return n.mailer.Send(ctx, email, subject, verificationTemplate(name, verifyURL))
}

func (n *emailNotifier) PasswordReset(ctx context.Context, name, email, resetURL string) error {
	subject := "Нулиране на парола - Фолклорика"
	return n.mailer.Send(ctx, email, subject, passwordResetTemplate(name, resetURL))
}

func (n *emailNotifier) PasswordChanged(ctx context.Context, name, email string) error {
	subject := "Вашата парола беше променена - Фолклорика"
	return n.mailer.Send(ctx, email, subject, passwordChangedTemplate(name))
}

func (n *emailNotifier) NewYearGreeting(ctx context.Context, name, email string) error {
	subject := "🎉 Честита Нова Година от Фолклорика!"
	return n.mailer.Send(ctx, email, subject, newYearTemplate(name))
}
