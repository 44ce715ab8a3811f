// Package graph talks to the Microsoft Graph mail API on behalf of
// application-permissioned mailboxes.
package graph

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Linux-Alex/GraphLink/models"
	"github.com/google/uuid"
)

const (
	headerClientRequestID = "client-request-id"
	maxErrorBodyBytes     = 64 << 10
)

// Error is a non-success response from Graph.
type Error struct {
	StatusCode      int
	Code            string
	Message         string
	ClientRequestID string
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("graph returned status %d (%s): %s [client-request-id %s]", e.StatusCode, e.Code, e.Message, e.ClientRequestID)
	}
	return fmt.Sprintf("graph returned status %d: %s [client-request-id %s]", e.StatusCode, e.Message, e.ClientRequestID)
}

// Client lists and sends mail through Graph. The HTTP client is expected to
// authenticate requests, see Credential.HTTPClient.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

func NewClient(httpClient *http.Client, baseURL string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{httpClient: httpClient, baseURL: baseURL}
}

// ListMessages returns up to q.Top messages from a folder of mailbox, newest
// first, with attachment metadata expanded.
func (c *Client) ListMessages(ctx context.Context, mailbox string, q models.ListQuery) ([]models.MessageSummary, error) {
	folder := q.Folder
	if folder == "" {
		folder = models.DefaultFolder
	}
	top := q.Top
	if top <= 0 {
		top = models.DefaultTop
	}

	params := url.Values{}
	params.Set("$top", strconv.Itoa(top))
	params.Set("$orderby", "receivedDateTime desc")
	params.Set("$expand", "attachments")
	if q.FromDate != nil {
		params.Set("$filter", "receivedDateTime ge "+q.FromDate.UTC().Format(time.RFC3339Nano))
	}

	endpoint := c.userURL(mailbox) + "/mailFolders/" + url.PathEscape(folder) + "/messages?" + params.Encode()

	var page messageCollection
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &page); err != nil {
		return nil, fmt.Errorf("failed to list messages for %s/%s: %w", mailbox, folder, err)
	}

	out := make([]models.MessageSummary, 0, len(page.Value))
	for _, m := range page.Value {
		out = append(out, toSummary(m))
	}
	return out, nil
}

// SendMessage sends msg as mailbox and keeps a copy in its Sent Items.
func (c *Client) SendMessage(ctx context.Context, mailbox string, msg *models.OutgoingMessage) error {
	payload := sendMailRequest{
		Message: outgoingMessage{
			Subject:       msg.Subject,
			Body:          itemBody{ContentType: "HTML", Content: msg.HTMLBody},
			ToRecipients:  toRecipients(msg.To),
			CcRecipients:  toRecipients(msg.Cc),
			BccRecipients: toRecipients(msg.Bcc),
		},
		SaveToSentItems: true,
	}
	for _, a := range msg.Attachments {
		payload.Message.Attachments = append(payload.Message.Attachments, attachment{
			ODataType:    fileAttachmentType,
			Name:         a.Name,
			ContentType:  a.ContentType,
			ContentBytes: a.Content,
			IsInline:     false,
		})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal sendMail payload: %w", err)
	}

	if err := c.do(ctx, http.MethodPost, c.userURL(mailbox)+"/sendMail", body, nil); err != nil {
		return fmt.Errorf("failed to send mail as %s: %w", mailbox, err)
	}
	return nil
}

func (c *Client) userURL(mailbox string) string {
	return c.baseURL + "/users/" + url.PathEscape(mailbox)
}

func (c *Client) do(ctx context.Context, method, endpoint string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set(headerClientRequestID, requestID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	slog.DebugContext(ctx, "Graph call completed",
		"method", method,
		"status", resp.StatusCode,
		"client_request_id", requestID,
	)

	if resp.StatusCode >= 300 {
		return decodeError(resp, requestID)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response, requestID string) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	gerr := &Error{StatusCode: resp.StatusCode, ClientRequestID: requestID}

	var parsed errorResponse
	if json.Unmarshal(raw, &parsed) == nil && parsed.Error.Code != "" {
		gerr.Code = parsed.Error.Code
		gerr.Message = parsed.Error.Message
	} else {
		gerr.Message = strings.TrimSpace(string(raw))
	}
	return gerr
}

func toRecipients(addrs []string) []recipient {
	if len(addrs) == 0 {
		return nil
	}
	out := make([]recipient, 0, len(addrs))
	for _, a := range addrs {
		out = append(out, recipient{EmailAddress: emailAddress{Address: a}})
	}
	return out
}

func toSummary(m message) models.MessageSummary {
	s := models.MessageSummary{
		ID:               m.ID,
		Subject:          m.Subject,
		ReceivedDateTime: m.ReceivedDateTime,
		BodyPreview:      m.BodyPreview,
		Attachments:      make([]models.AttachmentSummary, 0, len(m.Attachments)),
	}
	if m.From != nil {
		s.From = m.From.EmailAddress.Address
	}
	for _, a := range m.Attachments {
		s.Attachments = append(s.Attachments, models.AttachmentSummary{
			ID:          a.ID,
			Name:        a.Name,
			Size:        a.Size,
			ContentType: a.ContentType,
		})
	}
	return s
}
