// Package notifier delivers candidate invitation emails.
package notifier

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/ItsMeCK/AIInterview/internal/config"
)

// Invitation is everything needed to compose one invitation email.
type Invitation struct {
	To       string
	JobTitle string
	Company  string
	Link     string
}

// Sender delivers invitations. Implementations must be safe for concurrent
// use.
type Sender interface {
	SendInvitation(ctx context.Context, inv Invitation) error
}

// SMTPClient sends invitations through a configured SMTP relay.
type SMTPClient struct {
	cfg config.SMTPConfig
}

func NewSMTPClient(cfg config.SMTPConfig) *SMTPClient {
	return &SMTPClient{cfg: cfg}
}

func (c *SMTPClient) SendInvitation(_ context.Context, inv Invitation) error {
	subject := fmt.Sprintf("Interview Invitation: %s at %s", inv.JobTitle, inv.Company)
	body := fmt.Sprintf(
		"Hello,\r\n\r\nYou have been invited to interview for the %s position at %s.\r\n\r\n"+
			"Start your interview here: %s\r\n\r\n"+
			"The link is personal to you. Please complete the interview in one sitting.\r\n",
		inv.JobTitle, inv.Company, inv.Link)

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", c.cfg.From)
	fmt.Fprintf(&msg, "To: %s\r\n", inv.To)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n")
	msg.WriteString(body)

	addr := fmt.Sprintf("%s:%d", c.cfg.Host, c.cfg.Port)
	var auth smtp.Auth
	if c.cfg.Username != "" {
		auth = smtp.PlainAuth("", c.cfg.Username, c.cfg.Password, c.cfg.Host)
	}
	if err := smtp.SendMail(addr, auth, c.cfg.From, []string{inv.To}, []byte(msg.String())); err != nil {
		return fmt.Errorf("send invitation email: %w", err)
	}
	return nil
}

// LogSender logs invitations instead of sending them. Used when SMTP is not
// configured, so local setups still surface the invitation link.
type LogSender struct{}

func (LogSender) SendInvitation(_ context.Context, inv Invitation) error {
	slog.Info("invitation email (smtp disabled)",
		"to", inv.To, "job_title", inv.JobTitle, "link", inv.Link)
	return nil
}
