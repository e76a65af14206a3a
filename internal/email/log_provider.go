package email

import (
	"fmt"

	"github.com/mouwaficbdr/my-facebook/internal/logger"
)

// LogProvider simulates delivery outside production: the links land in the
// logs so the flow can be exercised without an SMTP server.
type LogProvider struct {
	PublicBaseURL string
}

func (p *LogProvider) SendConfirmation(to, token string) error {
	logger.Info("simulated confirmation email",
		"to", to,
		"link", fmt.Sprintf("%s/confirm-email?token=%s", p.PublicBaseURL, token),
	)
	return nil
}

func (p *LogProvider) SendPasswordReset(to, token string) error {
	logger.Info("simulated password reset email",
		"to", to,
		"link", fmt.Sprintf("%s/reset-password?token=%s", p.PublicBaseURL, token),
	)
	return nil
}
