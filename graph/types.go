package graph

import "time"

// Microsoft Graph v1.0 payload types, limited to the fields the gateway uses.

type messageCollection struct {
	Value []message `json:"value"`
}

type message struct {
	ID               string       `json:"id"`
	Subject          string       `json:"subject"`
	From             *recipient   `json:"from,omitempty"`
	ReceivedDateTime *time.Time   `json:"receivedDateTime,omitempty"`
	BodyPreview      string       `json:"bodyPreview"`
	Attachments      []attachment `json:"attachments,omitempty"`
}

type attachment struct {
	ODataType    string `json:"@odata.type,omitempty"`
	ID           string `json:"id,omitempty"`
	Name         string `json:"name"`
	Size         int    `json:"size,omitempty"`
	ContentType  string `json:"contentType"`
	ContentBytes []byte `json:"contentBytes,omitempty"` // base64 on the wire
	IsInline     bool   `json:"isInline"`
}

type recipient struct {
	EmailAddress emailAddress `json:"emailAddress"`
}

type emailAddress struct {
	Address string `json:"address"`
	Name    string `json:"name,omitempty"`
}

type itemBody struct {
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

type outgoingMessage struct {
	Subject       string       `json:"subject"`
	Body          itemBody     `json:"body"`
	ToRecipients  []recipient  `json:"toRecipients,omitempty"`
	CcRecipients  []recipient  `json:"ccRecipients,omitempty"`
	BccRecipients []recipient  `json:"bccRecipients,omitempty"`
	Attachments   []attachment `json:"attachments,omitempty"`
}

type sendMailRequest struct {
	Message         outgoingMessage `json:"message"`
	SaveToSentItems bool            `json:"saveToSentItems"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

const fileAttachmentType = "#microsoft.graph.fileAttachment"
