// Package email defines the interface for transactional email delivery and
// provides a Resend-backed implementation.
package email

import (
	"context"
	"log/slog"
)

// ReportParams holds everything needed to send one assessment report.
type ReportParams struct {
	To      string // respondent address
	Name    string // respondent name, used in the display address
	Subject string
	HTML    string // rendered report body
}

// Sender is the interface the delivery worker uses to send email.
// Tests inject a stub that records calls without hitting the network.
type Sender interface {
	// SendReport delivers a rendered report and returns the provider's
	// message id.
	SendReport(ctx context.Context, p ReportParams) (string, error)
}

// LogSender logs reports instead of sending them. main wires it in
// development when RESEND_API_KEY is unset.
type LogSender struct {
	Logger *slog.Logger
}

func (s LogSender) SendReport(_ context.Context, p ReportParams) (string, error) {
	s.Logger.Info("email: report not sent (no provider configured)",
		"to", p.To,
		"subject", p.Subject,
		"html_bytes", len(p.HTML),
	)
	return "", nil
}
