package email

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/realtyaura/aura/pkg/logger"
)

const defaultHost = "https://api.sendgrid.com"

// Message is a plain-text email to one recipient
type Message struct {
	ToEmail string `json:"to_email"`
	ToName  string `json:"to_name"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Service handles email sending
type Service struct {
	fromEmail   string
	fromName    string
	sendGridKey string
	host        string
	useSendGrid bool
	logger      logger.Logger
}

// NewService creates a new email service.
// If sendGridAPIKey is provided, emails are sent via SendGrid;
// otherwise they are only logged (development mode).
func NewService(fromEmail, fromName, sendGridAPIKey string, log logger.Logger) *Service {
	useSendGrid := sendGridAPIKey != ""
	if useSendGrid {
		log.Info("email service initialized with SendGrid")
	} else {
		log.Warn("email service in log-only mode, set SENDGRID_API_KEY to deliver mail")
	}

	return &Service{
		fromEmail:   fromEmail,
		fromName:    fromName,
		sendGridKey: sendGridAPIKey,
		host:        defaultHost,
		useSendGrid: useSendGrid,
		logger:      log,
	}
}

// WithHost points the SendGrid client at another API host
func (s *Service) WithHost(host string) *Service {
	s.host = host
	return s
}

// Enabled reports whether messages are actually delivered
func (s *Service) Enabled() bool {
	return s.useSendGrid
}

// Send delivers msg, or logs it in development mode
func (s *Service) Send(ctx context.Context, msg Message) error {
	if strings.TrimSpace(msg.ToEmail) == "" {
		return fmt.Errorf("recipient email is required")
	}
	if !s.useSendGrid {
		s.logger.Info("email not sent (development mode)",
			"to", msg.ToEmail, "name", msg.ToName, "subject", msg.Subject)
		return nil
	}
	return s.sendViaSendGrid(ctx, msg)
}

func (s *Service) sendViaSendGrid(ctx context.Context, msg Message) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail(msg.ToName, msg.ToEmail)
	message := mail.NewSingleEmail(from, msg.Subject, to, msg.Body, htmlBody(msg.Body))

	req := sendgrid.GetRequest(s.sendGridKey, "/v3/mail/send", s.host)
	req.Method = "POST"
	client := &sendgrid.Client{Request: req}

	response, err := client.SendWithContext(ctx, message)
	if err != nil {
		s.logger.Error("sendgrid request failed", "error", err, "to", msg.ToEmail)
		return fmt.Errorf("failed to send email: %w", err)
	}

	if response.StatusCode >= 400 {
		s.logger.Error("sendgrid returned error status", "status", response.StatusCode, "body", response.Body)
		return fmt.Errorf("sendgrid returned error status: %d", response.StatusCode)
	}

	s.logger.Info("email sent", "to", msg.ToEmail, "status", response.StatusCode)
	return nil
}

// htmlBody renders a plain-text body as escaped HTML paragraphs
func htmlBody(text string) string {
	var b strings.Builder
	b.WriteString("<html><body>")
	for _, para := range strings.Split(text, "\n\n") {
		b.WriteString("<p>")
		b.WriteString(strings.ReplaceAll(html.EscapeString(para), "\n", "<br>"))
		b.WriteString("</p>")
	}
	b.WriteString("</body></html>")
	return b.String()
}
