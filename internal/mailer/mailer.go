// Package mailer delivers job applications by email.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"jobpilot/internal/infra"
)

// Message is one application email. CVData wins over CVPath when both are set.
type Message struct {
	To             string
	ReplyTo        string
	JobTitle       string
	Company        string
	CVPath         string
	CVOriginalName string
	CVMimeType     string
	CVData         []byte
	ApplicantName  string
	CustomMessage  string
}

// Sender delivers a Message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

var ErrNoRecipient = errors.New("mailer: recipient is required")

// New returns an SMTP sender when SMTP is configured and a logging sender otherwise.
func New(cfg *infra.Config, password string, logger infra.Logger) Sender {
	if !cfg.SMTPEnabled() {
		logger.Warn().Msg("SMTP not configured; application emails will only be logged")
		return NewLogSender(logger)
	}
	return NewSMTPSender(SMTPOptions{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: password,
		From:     cfg.SMTPFrom,
	})
}

// Subject renders the subject line for msg.
func Subject(msg Message) string {
	return fmt.Sprintf("Application for %s at %s", strings.TrimSpace(msg.JobTitle), strings.TrimSpace(msg.Company))
}

// Body renders the plain text cover letter for msg.
func Body(msg Message) string {
	name := strings.TrimSpace(msg.ApplicantName)
	if name == "" {
		name = "the applicant"
	} else {
		name = cases.Title(language.Und).String(strings.ToLower(name))
	}

	var b strings.Builder
	b.WriteString("Dear Hiring Manager,\n\n")
	fmt.Fprintf(&b, "I am writing to apply for the %s position at %s.\n\n", strings.TrimSpace(msg.JobTitle), strings.TrimSpace(msg.Company))
	if custom := strings.TrimSpace(msg.CustomMessage); custom != "" {
		b.WriteString(custom)
		b.WriteString("\n\n")
	}
	b.WriteString("Please find my CV attached. I look forward to hearing from you.\n\n")
	b.WriteString("Best regards,\n")
	b.WriteString(name)
	b.WriteString("\n")
	return b.String()
}

func attachment(msg Message) ([]byte, error) {
	if len(msg.CVData) > 0 {
		return msg.CVData, nil
	}
	if strings.TrimSpace(msg.CVPath) == "" {
		return nil, nil
	}
	data, err := os.ReadFile(msg.CVPath)
	if err != nil {
		return nil, fmt.Errorf("mailer: read cv: %w", err)
	}
	return data, nil
}

// LogSender records messages in the log instead of delivering them.
type LogSender struct {
	logger infra.Logger
}

func NewLogSender(logger infra.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(msg.To) == "" {
		return ErrNoRecipient
	}
	data, err := attachment(msg)
	if err != nil {
		return err
	}
	s.logger.Info().
		Str("to", msg.To).
		Str("subject", Subject(msg)).
		Str("attachment", msg.CVOriginalName).
		Int("attachment_bytes", len(data)).
		Msg("application email (not delivered)")
	return nil
}
