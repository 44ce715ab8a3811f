package mailgateway

import (
	"errors"
	"fmt"
)

// ErrNoRecipients is returned when a send names no recipient once blank
// entries are dropped.
var ErrNoRecipients = errors.New("at least one recipient is required")

// AuthorizationError rejects a sender, or a recipient for an allowed sender.
type AuthorizationError struct {
	Sender    string
	Recipient string // Empty when the sender itself is rejected.
}

func (e *AuthorizationError) Error() string {
	if e.Recipient == "" {
		return fmt.Sprintf("sender %q is not allowed", e.Sender)
	}
	return fmt.Sprintf("recipient %q is not allowed for sender %q", e.Recipient, e.Sender)
}

// IsSenderRejection reports whether the sender, rather than a recipient, was refused.
func (e *AuthorizationError) IsSenderRejection() bool {
	return e.Recipient == ""
}

// AttachmentError reports an attachment whose content could not be decoded.
type AttachmentError struct {
	Name string
	Err  error
}

func (e *AttachmentError) Error() string {
	return fmt.Sprintf("attachment %q has invalid base64 content: %v", e.Name, e.Err)
}

func (e *AttachmentError) Unwrap() error {
	return e.Err
}
