// Package mailgateway authorizes mailbox operations against the allow-list
// before handing them to the mail provider.
package mailgateway

import (
	"context"
	"encoding/base64"
	"log/slog"

	"github.com/Linux-Alex/GraphLink/models"
	"github.com/gabriel-vasile/mimetype"
)

// MessageLister reads a folder of a mailbox.
type MessageLister interface {
	ListMessages(ctx context.Context, mailbox string, q models.ListQuery) ([]models.MessageSummary, error)
}

// MessageSender sends a message as a mailbox, keeping a copy in its sent items.
type MessageSender interface {
	SendMessage(ctx context.Context, mailbox string, msg *models.OutgoingMessage) error
}

// Authorizer decides which senders and receivers are permitted.
// *allowlist.Store satisfies it.
type Authorizer interface {
	LookupAccount(email string) (models.AllowedAccount, bool)
	MatchReceiver(sender, receiver string) (string, bool)
}

// SendRequest is a message as submitted by a caller, before validation.
type SendRequest struct {
	To          []string
	Cc          []string
	Bcc         []string
	Subject     string
	Body        string // HTML
	Attachments []models.EmailAttachment
}

// Gateway checks every operation against the Authorizer and only then calls
// the provider. Rejected operations never reach the provider.
type Gateway struct {
	auth   Authorizer
	lister MessageLister
	sender MessageSender
}

func NewGateway(auth Authorizer, lister MessageLister, sender MessageSender) *Gateway {
	return &Gateway{auth: auth, lister: lister, sender: sender}
}

// IsSenderAllowed reports whether the gateway may act for sender.
func (g *Gateway) IsSenderAllowed(sender string) bool {
	_, ok := g.auth.LookupAccount(sender)
	return ok
}

// mailbox returns the configured address of sender's account. The provider
// is only ever called with that address, never the caller's spelling.
func (g *Gateway) mailbox(sender string) (string, error) {
	acc, ok := g.auth.LookupAccount(sender)
	if !ok {
		return "", &AuthorizationError{Sender: sender}
	}
	return acc.Email, nil
}

// ListMessages returns a snapshot of at most q.Top messages from sender's
// folder, newest first. Provider errors are returned unchanged in kind.
func (g *Gateway) ListMessages(ctx context.Context, sender string, q models.ListQuery) ([]models.MessageSummary, error) {
	mailbox, err := g.mailbox(sender)
	if err != nil {
		return nil, err
	}
	if q.Folder == "" {
		q.Folder = models.DefaultFolder
	}
	if q.Top <= 0 {
		q.Top = models.DefaultTop
	}
	if q.FromDate != nil {
		utc := q.FromDate.UTC()
		q.FromDate = &utc
	}

	return g.lister.ListMessages(ctx, mailbox, q)
}

// SendMessage validates the sender and every recipient, decodes attachments
// and sends. The first disallowed recipient aborts the whole send.
func (g *Gateway) SendMessage(ctx context.Context, sender string, req SendRequest) error {
	mailbox, err := g.mailbox(sender)
	if err != nil {
		return err
	}

	msg := &models.OutgoingMessage{
		Subject:  req.Subject,
		HTMLBody: req.Body,
		To:       dropBlank(req.To),
		Cc:       dropBlank(req.Cc),
		Bcc:      dropBlank(req.Bcc),
	}

	recipients := msg.Recipients()
	if len(recipients) == 0 {
		return ErrNoRecipients
	}
	for _, rcpt := range recipients {
		pattern, ok := g.auth.MatchReceiver(mailbox, rcpt)
		if !ok {
			return &AuthorizationError{Sender: sender, Recipient: rcpt}
		}
		slog.DebugContext(ctx, "Recipient authorized", "sender", mailbox, "recipient", rcpt, "pattern", pattern)
	}

	attachments, err := decodeAttachments(req.Attachments)
	if err != nil {
		return err
	}
	msg.Attachments = attachments

	if err := g.sender.SendMessage(ctx, mailbox, msg); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Email sent",
		"sender", mailbox,
		"recipients", len(recipients),
		"attachments", len(attachments),
	)
	return nil
}

func decodeAttachments(in []models.EmailAttachment) ([]models.FileAttachment, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make([]models.FileAttachment, 0, len(in))
	for _, a := range in {
		content, err := base64.StdEncoding.DecodeString(a.Base64Content)
		if err != nil {
			return nil, &AttachmentError{Name: a.Name, Err: err}
		}
		contentType := a.ContentType
		if contentType == "" {
			contentType = mimetype.Detect(content).String()
		}
		out = append(out, models.FileAttachment{
			Name:        a.Name,
			ContentType: contentType,
			Content:     content,
		})
	}
	return out, nil
}
