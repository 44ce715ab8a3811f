package routehandlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Linux-Alex/GraphLink/mailgateway"
	"github.com/Linux-Alex/GraphLink/models"
	"github.com/Linux-Alex/GraphLink/webutil"
	"github.com/araddon/dateparse"
	"github.com/go-chi/chi/v5"
)

const (
	ParamSenderEmail = "senderEmail"

	queryTop      = "top"
	queryFolder   = "folder"
	queryFromDate = "fromDate"

	maxTop          = 1000 // Graph's page size cap
	maxRequestBytes = 10 << 20
)

// EmailHandler serves the read and send endpoints of a sender mailbox.
type EmailHandler struct {
	Gateway *mailgateway.Gateway
}

func NewEmailHandler(gateway *mailgateway.Gateway) *EmailHandler {
	return &EmailHandler{Gateway: gateway}
}

// HandleGetEmails lists recent messages of a mailbox folder.
// Example route: GET /api/emails/{senderEmail}?top=10&folder=Inbox&fromDate=2024-01-01
func (h *EmailHandler) HandleGetEmails(w http.ResponseWriter, r *http.Request) error {
	sender, err := senderFromPath(r)
	if err != nil {
		return err
	}
	if !h.Gateway.IsSenderAllowed(sender) {
		return senderRejected(sender, nil)
	}

	query, err := parseListQuery(r.URL.Query())
	if err != nil {
		return err
	}

	messages, err := h.Gateway.ListMessages(r.Context(), sender, query)
	if err != nil {
		return mapGatewayError(err, "failed to list messages for "+sender)
	}
	if messages == nil {
		messages = []models.MessageSummary{}
	}

	webutil.RespondWithJSON(w, http.StatusOK, messages)
	return nil
}

// HandleSendEmail sends a message from a mailbox once every recipient has
// been authorized for it.
// Example route: POST /api/emails/{senderEmail}
func (h *EmailHandler) HandleSendEmail(w http.ResponseWriter, r *http.Request) error {
	sender, err := senderFromPath(r)
	if err != nil {
		return err
	}
	if !h.Gateway.IsSenderAllowed(sender) {
		return senderRejected(sender, nil)
	}

	var req models.EmailRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		return webutil.ErrBadRequest("Invalid request payload: " + err.Error())
	}

	err = h.Gateway.SendMessage(r.Context(), sender, mailgateway.SendRequest{
		To:          mailgateway.SplitRecipients(req.To),
		Cc:          mailgateway.SplitRecipients(req.Cc),
		Bcc:         mailgateway.SplitRecipients(req.Bcc),
		Subject:     req.Subject,
		Body:        req.Body,
		Attachments: req.Attachments,
	})
	if err != nil {
		return mapGatewayError(err, "failed to send email as "+sender)
	}

	webutil.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Email sent."})
	return nil
}

// senderFromPath returns the decoded sender segment. chi routes on RawPath
// when the request has one, and only then is the parameter still escaped.
func senderFromPath(r *http.Request) (string, error) {
	sender := chi.URLParam(r, ParamSenderEmail)
	if r.URL.RawPath != "" {
		decoded, err := url.PathUnescape(sender)
		if err != nil {
			return "", webutil.ErrBadRequest("Invalid sender email in path")
		}
		sender = decoded
	}
	if strings.TrimSpace(sender) == "" {
		return "", webutil.ErrBadRequest("Sender email is required")
	}
	return sender, nil
}

func parseListQuery(values url.Values) (models.ListQuery, error) {
	q := models.ListQuery{
		Folder: models.DefaultFolder,
		Top:    models.DefaultTop,
	}

	if raw := strings.TrimSpace(values.Get(queryTop)); raw != "" {
		top, err := strconv.Atoi(raw)
		if err != nil || top < 1 || top > maxTop {
			return q, webutil.ErrBadRequest(fmt.Sprintf("Query parameter 'top' must be an integer between 1 and %d", maxTop))
		}
		q.Top = top
	}

	if folder := strings.TrimSpace(values.Get(queryFolder)); folder != "" {
		q.Folder = folder
	}

	if raw := strings.TrimSpace(values.Get(queryFromDate)); raw != "" {
		from, err := dateparse.ParseIn(raw, time.UTC)
		if err != nil {
			return q, webutil.ErrBadRequestWrap("Query parameter 'fromDate' is not a valid date", err)
		}
		from = from.UTC()
		q.FromDate = &from
	}

	return q, nil
}

func senderRejected(sender string, cause error) error {
	msg := fmt.Sprintf("Sender '%s' is not allowed.", sender)
	if cause == nil {
		return webutil.ErrUnauthorized(msg)
	}
	return webutil.ErrUnauthorizedWrap(msg, cause)
}

func mapGatewayError(err error, action string) error {
	var authErr *mailgateway.AuthorizationError
	var attErr *mailgateway.AttachmentError

	switch {
	case errors.As(err, &authErr):
		if authErr.IsSenderRejection() {
			return senderRejected(authErr.Sender, err)
		}
		return webutil.ErrBadRequestWrap(
			fmt.Sprintf("Recipient '%s' is not allowed for sender '%s'.", authErr.Recipient, authErr.Sender), err)
	case errors.As(err, &attErr):
		return webutil.ErrBadRequestWrap(
			fmt.Sprintf("Attachment '%s' does not contain valid base64 content.", attErr.Name), err)
	case errors.Is(err, mailgateway.ErrNoRecipients):
		return webutil.ErrBadRequest("At least one recipient is required.")
	default:
		return fmt.Errorf("%s: %w", action, err)
	}
}
