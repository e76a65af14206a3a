// Package email delivers the out-of-band account mails: the confirmation
// link after signup and the password-reset link. Sends are best-effort from
// the caller's point of view; a delivery failure is logged, never surfaced.
package email

// Provider sends the auth flow's transactional mails.
type Provider interface {
	// SendConfirmation mails the email-confirmation link for token.
	SendConfirmation(to, token string) error

	// SendPasswordReset mails the password-reset link for token.
	SendPasswordReset(to, token string) error
}
