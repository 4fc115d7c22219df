// Package mail builds and delivers the periodic hour-report email: an HTML
// summary of per-week hour tables with the full CSV attached.
package mail

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/w1ngnutt/spf-time/pkg/config"
)

// Message is a fully rendered report email.
type Message struct {
	Subject        string
	HTMLBody       string
	TextBody       string
	Attachment     []byte
	AttachmentName string
	Recipients     []string
}

// Sender delivers a rendered message. One attempt, no retry; the caller
// decides what to do with a failure.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// BuildReport assembles the report email for a date range. hoursTables is
// the pre-rendered weekly HTML; csvData becomes the attachment.
func BuildReport(cfg config.EmailConfig, dateRange string, hoursTables string, csvData string, now time.Time) Message {
	subject := fmt.Sprintf("%s - Generated %s", cfg.Subject(dateRange), now.Format("01/02/2006"))

	attachmentName := fmt.Sprintf("time_report_%s.csv",
		strings.ReplaceAll(strings.ReplaceAll(dateRange, " to ", "_to_"), "/", "-"))

	htmlBody := fmt.Sprintf(`<html>
<body>
    <h2>Time Tracking Report</h2>
    <p><strong>Report Period:</strong> %s</p>

    <h3>Hours Summary:</h3>
    %s
    <br>

    <p>Please find the attached CSV file containing detailed time tracking records for all employees.</p>

    <hr>
    <p><em>This report was automatically generated by the Time Tracking System.</em></p>
</body>
</html>
`, dateRange, hoursTables)

	textBody := fmt.Sprintf(`Time Tracking Report

Report Period: %s

Please find the attached CSV file containing detailed time tracking records for all employees.

This report was automatically generated by the Time Tracking System.
`, dateRange)

	return Message{
		Subject:        subject,
		HTMLBody:       htmlBody,
		TextBody:       textBody,
		Attachment:     []byte(csvData),
		AttachmentName: attachmentName,
		Recipients:     cfg.Recipients,
	}
}

// SMTPSender delivers messages over SMTP.
type SMTPSender struct {
	cfg    config.EmailConfig
	dialer *gomail.Dialer
}

// NewSMTPSender creates a sender from the email configuration.
func NewSMTPSender(cfg config.EmailConfig) *SMTPSender {
	return &SMTPSender{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
	}
}

// Send delivers the message. The context is consulted before dialing; the
// SMTP exchange itself is bounded by the server's timeouts.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(msg.Recipients) == 0 {
		return fmt.Errorf("no report recipients configured")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.cfg.FromEmail, s.cfg.FromName))
	m.SetHeader("To", msg.Recipients...)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.TextBody)
	m.AddAlternative("text/html", msg.HTMLBody)
	if len(msg.Attachment) > 0 {
		m.Attach(msg.AttachmentName,
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(msg.Attachment)
				return err
			}),
			gomail.SetHeader(map[string][]string{"Content-Type": {"text/csv"}}),
		)
	}

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send report email: %w", err)
	}
	return nil
}
