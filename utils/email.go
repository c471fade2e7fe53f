package utils

import (
	"encoding/base64"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

// Attachment is an inline file sent with an email.
type Attachment struct {
	Filename string
	MIMEType string
	Data     []byte
}

// Mailer sends email through SendGrid.
type Mailer struct {
	apiKey   string
	fromName string
	from     string
	logger   *zap.Logger
}

func NewMailer(apiKey, fromEmail string, logger *zap.Logger) *Mailer {
	return &Mailer{
		apiKey:   apiKey,
		fromName: "Stylis",
		from:     fromEmail,
		logger:   logger.With(zap.String("system", "mailer")),
	}
}

// Enabled reports whether an API key is configured.
func (m *Mailer) Enabled() bool {
	return m.apiKey != ""
}

// SendEmail sends an email using SendGrid, with optional attachments
func (m *Mailer) SendEmail(toName, toEmail, subject, textContent, htmlContent string, attachments ...Attachment) error {
	if !m.Enabled() {
		return fmt.Errorf("SENDGRID_API_KEY is not set in environment variables")
	}

	message := buildMessage(mail.NewEmail(m.fromName, m.from), mail.NewEmail(toName, toEmail), subject, textContent, htmlContent, attachments)
	client := sendgrid.NewSendClient(m.apiKey)

	response, err := client.Send(message)
	if err != nil {
		m.logger.Error("failed to send email", zap.String("to", toEmail), zap.Error(err))
		return err
	}

	if response.StatusCode >= 400 {
		m.logger.Error("sendgrid rejected email", zap.Int("status", response.StatusCode), zap.String("body", response.Body))
		return fmt.Errorf("failed to send email, status code: %d", response.StatusCode)
	}

	m.logger.Info("email sent", zap.String("to", toEmail), zap.Int("status", response.StatusCode))
	return nil
}

func buildMessage(from, to *mail.Email, subject, textContent, htmlContent string, attachments []Attachment) *mail.SGMailV3 {
	message := mail.NewSingleEmail(from, subject, to, textContent, htmlContent)
	for _, a := range attachments {
		att := mail.NewAttachment()
		att.SetContent(base64.StdEncoding.EncodeToString(a.Data))
		att.SetType(a.MIMEType)
		att.SetFilename(a.Filename)
		att.SetDisposition("attachment")
		message.AddAttachment(att)
	}
	return message
}
