package models

import "time"

// DefaultFolder is the mail folder read when a request does not name one.
const DefaultFolder = "Inbox"

// DefaultTop is the number of messages returned when a request does not set a limit.
const DefaultTop = 10

// EmailRequest is the body of a send request. Address lists are
// semicolon-separated.
type EmailRequest struct {
	To          string            `json:"to"`
	Cc          string            `json:"cc,omitempty"`
	Bcc         string            `json:"bcc,omitempty"`
	Subject     string            `json:"subject"`
	Body        string            `json:"body"`
	Attachments []EmailAttachment `json:"attachments,omitempty"`
}

// EmailAttachment carries a file as base64 text.
type EmailAttachment struct {
	Name          string `json:"name"`
	ContentType   string `json:"contentType"`
	Base64Content string `json:"base64Content"`
}

// ListQuery scopes a message listing.
type ListQuery struct {
	Folder   string
	Top      int
	FromDate *time.Time // Inclusive lower bound on receivedDateTime, UTC.
}

// MessageSummary is the projection of a mailbox message returned to callers.
type MessageSummary struct {
	ID               string              `json:"id"`
	Subject          string              `json:"subject"`
	From             string              `json:"from,omitempty"`
	ReceivedDateTime *time.Time          `json:"receivedDateTime,omitempty"`
	BodyPreview      string              `json:"bodyPreview"`
	Attachments      []AttachmentSummary `json:"attachments"`
}

// AttachmentSummary describes an attachment without its content.
type AttachmentSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Size        int    `json:"size"`
	ContentType string `json:"contentType"`
}

// OutgoingMessage is a fully validated message ready for the provider.
type OutgoingMessage struct {
	Subject     string
	HTMLBody    string
	To          []string
	Cc          []string
	Bcc         []string
	Attachments []FileAttachment
}

// Recipients returns every address across To, Cc and Bcc in that order.
func (m *OutgoingMessage) Recipients() []string {
	all := make([]string, 0, len(m.To)+len(m.Cc)+len(m.Bcc))
	all = append(all, m.To...)
	all = append(all, m.Cc...)
	all = append(all, m.Bcc...)
	return all
}

// FileAttachment is a decoded attachment.
type FileAttachment struct {
	Name        string
	ContentType string
	Content     []byte
}
