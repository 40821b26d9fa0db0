package notifier

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedMail struct {
	to      string
	subject string
	body    string
}

type captureMailer struct {
	mails []capturedMail
}

func (m *captureMailer) Send(_ context.Context, to, subject, htmlBody string) error {
	m.mails = append(m.mails, capturedMail{to: to, subject: subject, body: htmlBody})
	return nil
}

func TestAssociationPendingGoesToAdminInbox(t *testing.T) {
	mailer := &captureMailer{}
	n := New(mailer, "admin@folklorika.bg", "http://localhost:3000", nil)

	err := n.AssociationPending(context.Background(), AssociationPendingData{
		AssociationName: "Жълтуша и Приятели",
		City:            "София",
		ContactEmail:    "club@example.com",
		UserName:        "Иван Петров",
		UserEmail:       "ivan@example.com",
	})
	require.NoError(t, err)

	require.Len(t, mailer.mails, 1)
	mail := mailer.mails[0]
	assert.Equal(t, "admin@folklorika.bg", mail.to)
	assert.Contains(t, mail.subject, "Жълтуша и Приятели")
	assert.Contains(t, mail.body, "София")
	assert.Contains(t, mail.body, "ivan@example.com")
	assert.Contains(t, mail.body, "http://localhost:3000/admin/associations")
}

func TestEventPendingIncludesAssociation(t *testing.T) {
	mailer := &captureMailer{}
	n := New(mailer, "admin@folklorika.bg", "http://localhost:3000", nil)

	err := n.EventPending(context.Background(), EventPendingData{
		EventTitle:      "Коледен концерт",
		EventDate:       "24.12.2026",
		City:            "София",
		UserName:        "Мария Иванова",
		UserEmail:       "maria@example.com",
		AssociationName: "Жълтуша",
	})
	require.NoError(t, err)

	require.Len(t, mailer.mails, 1)
	mail := mailer.mails[0]
	assert.Equal(t, "admin@folklorika.bg", mail.to)
	assert.Contains(t, mail.body, "24.12.2026")
	assert.Contains(t, mail.body, "Жълтуша")
	assert.Contains(t, mail.body, "http://localhost:3000/admin/events")
}

func TestVerificationEmailCarriesLink(t *testing.T) {
	mailer := &captureMailer{}
	n := New(mailer, "admin@folklorika.bg", "http://localhost:3000", nil)

	verifyURL := "http://localhost:8080/api/auth/verify?token=abc123"
	err := n.VerificationEmail(context.Background(), "Иван", "ivan@example.com", verifyURL)
	require.NoError(t, err)

	require.Len(t, mailer.mails, 1)
	mail := mailer.mails[0]
	assert.Equal(t, "ivan@example.com", mail.to)
	assert.Contains(t, mail.body, verifyURL)
	assert.Contains(t, mail.body, "Иван")
}
