package services

import (
	"fmt"
	"log"
	"strings"

	"case_registry_go/config"

	"github.com/resend/resend-go/v2"
)

// Email represents an email message
type Email struct {
	To       []string
	Subject  string
	HTMLBody string
	TextBody string
}

// EmailNotifier sends custodian e-mails through Resend
type EmailNotifier struct {
	APIKey   string
	From     string
	FromName string
	TestMode bool // When true, emails are logged to console instead of sent
}

func NewEmailNotifier(cfg *config.Config) *EmailNotifier {
	return &EmailNotifier{
		APIKey:   cfg.ResendAPIKey,
		From:     cfg.EmailFrom,
		FromName: cfg.EmailFromName,
		TestMode: cfg.EmailTestMode,
	}
}

// Send sends an email using the Resend API
func (n *EmailNotifier) Send(email *Email) error {
	// In development mode, log the email instead of sending
	if n.TestMode {
		logEmailToConsole(email)
		return nil
	}

	if n.APIKey == "" {
		return fmt.Errorf("RESEND_API_KEY not configured")
	}

	client := resend.NewClient(n.APIKey)
	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", n.FromName, n.From),
		To:      email.To,
		Subject: email.Subject,
		Html:    email.HTMLBody,
		Text:    email.TextBody,
	}

	// Validate we have at least one body
	if params.Html == "" && params.Text == "" {
		return fmt.Errorf("email must have either HTMLBody or TextBody")
	}

	sent, err := client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("failed to send email via Resend: %w", err)
	}

	log.Printf("Email sent successfully via Resend (ID: %s) to: %v", sent.Id, email.To)
	return nil
}

// SendAsync sends an email in a goroutine so callers never block on delivery
func (n *EmailNotifier) SendAsync(email *Email) {
	// Copy to avoid sharing the recipient slice with the caller
	emailCopy := &Email{
		To:       append([]string{}, email.To...),
		Subject:  email.Subject,
		HTMLBody: email.HTMLBody,
		TextBody: email.TextBody,
	}

	go func() {
		if err := n.Send(emailCopy); err != nil {
			log.Printf("Error sending async email: %v", err)
		}
	}()
}

// logEmailToConsole logs email details to console in development mode
func logEmailToConsole(email *Email) {
	separator := strings.Repeat("=", 60)
	log.Printf("\n%s\nEMAIL (test mode, not sent)\n%s", separator, separator)
	log.Printf("To: %v", email.To)
	log.Printf("Subject: %s", email.Subject)
	log.Printf("\n--- TEXT BODY ---\n%s", email.TextBody)
	log.Printf("%s\n", separator)
}
