package email

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type Config struct {
	SMTPHost      string
	SMTPPort      int
	SMTPUsername  string
	SMTPPassword  string
	FromEmail     string
	FromName      string
	PublicBaseURL string
}

func (c Config) Validate() error {
	if c.SMTPHost == "" {
		return fmt.Errorf("smtp host is required")
	}
	if c.FromEmail == "" {
		return fmt.Errorf("from email is required")
	}
	if c.PublicBaseURL == "" {
		return fmt.Errorf("public base url is required")
	}
	return nil
}

// SMTPProvider delivers mails over SMTP via gomail. Each send dials a fresh
// connection; volume is a handful of mails per signup/reset, not a queue.
type SMTPProvider struct {
	config Config
	dialer *gomail.Dialer
}

func NewSMTPProvider(config Config) (*SMTPProvider, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid email config: %w", err)
	}

	return &SMTPProvider{
		config: config,
		dialer: gomail.NewDialer(config.SMTPHost, config.SMTPPort, config.SMTPUsername, config.SMTPPassword),
	}, nil
}

func (p *SMTPProvider) SendConfirmation(to, token string) error {
	body, err := render("confirmation", templateData{
		ActionURL:  fmt.Sprintf("%s/confirm-email?token=%s", p.config.PublicBaseURL, token),
		ActionText: "Confirmer mon adresse email",
	})
	if err != nil {
		return err
	}
	return p.send(to, "Confirmez votre adresse email", body)
}

func (p *SMTPProvider) SendPasswordReset(to, token string) error {
	body, err := render("password_reset", templateData{
		ActionURL:  fmt.Sprintf("%s/reset-password?token=%s", p.config.PublicBaseURL, token),
		ActionText: "Réinitialiser mon mot de passe",
	})
	if err != nil {
		return err
	}
	return p.send(to, "Réinitialisation de votre mot de passe", body)
}

func (p *SMTPProvider) send(to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(p.config.FromEmail, p.config.FromName))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	if err := p.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}
