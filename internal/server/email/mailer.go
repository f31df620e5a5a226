// Package email dispatches transactional mail for the auth flow
// (address verification, password reset) over SMTP.
package email

import "context"

// Mailer sends the auth-flow notifications. Implementations must be safe for
// concurrent use; callers dispatch from background goroutines.
type Mailer interface {
	// SendVerification mails an email-verification link to the address.
	SendVerification(ctx context.Context, to, link string) error

	// SendPasswordReset mails a password-reset link to the address.
	SendPasswordReset(ctx context.Context, to, link string) error
}
