package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultEndpoint = "https://api.resend.com/emails"

// ResendClient is the concrete Sender backed by the Resend API.
type ResendClient struct {
	apiKey     string
	fromAddr   string // e.g. "assessments@example.com"
	fromName   string
	bcc        string // optional sales copy of every report
	endpoint   string
	httpClient *http.Client
}

// Option customises a ResendClient.
type Option func(*ResendClient)

// WithBCC copies every report to addr.
func WithBCC(addr string) Option {
	return func(c *ResendClient) { c.bcc = addr }
}

// WithEndpoint points the client at a different API URL.
func WithEndpoint(url string) Option {
	return func(c *ResendClient) { c.endpoint = url }
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *ResendClient) { c.httpClient = hc }
}

// NewResendClient returns a Sender that delivers email via Resend.
func NewResendClient(apiKey, fromAddr, fromName string, opts ...Option) *ResendClient {
	c := &ResendClient{
		apiKey:   apiKey,
		fromAddr: fromAddr,
		fromName: fromName,
		endpoint: defaultEndpoint,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// ─── RESEND API SHAPES ────────────────────────────────────────────────────────

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Bcc     []string `json:"bcc,omitempty"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

type resendResponse struct {
	ID string `json:"id"`
	// Resend reports failures either nested under "error" or flat at the
	// top level, depending on the endpoint version.
	Error *struct {
		Name       string `json:"name"`
		Message    string `json:"message"`
		StatusCode int    `json:"statusCode"`
	} `json:"error"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

// ─── SENDER IMPLEMENTATION ────────────────────────────────────────────────────

// SendReport sends the rendered report to the respondent.
func (c *ResendClient) SendReport(ctx context.Context, p ReportParams) (string, error) {
	if p.To == "" {
		return "", fmt.Errorf("email: missing recipient")
	}
	to := p.To
	if p.Name != "" {
		to = fmt.Sprintf("%s <%s>", p.Name, p.To)
	}

	req := resendRequest{
		From:    fmt.Sprintf("%s <%s>", c.fromName, c.fromAddr),
		To:      []string{to},
		Subject: p.Subject,
		HTML:    p.HTML,
	}
	if c.bcc != "" {
		req.Bcc = []string{c.bcc}
	}
	return c.send(ctx, req)
}

// ─── HTTP SEND ────────────────────────────────────────────────────────────────

func (c *ResendClient) send(ctx context.Context, reqBody resendRequest) (string, error) {
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("email: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("email: build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("email: http request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return "", fmt.Errorf("email: read response: %w", err)
	}

	var parsed resendResponse
	if err := json.Unmarshal(respBytes, &parsed); err != nil {
		return "", fmt.Errorf("email: unmarshal response (status %d): %w", resp.StatusCode, err)
	}

	if parsed.Error != nil {
		return "", fmt.Errorf("email: Resend error %s: %s", parsed.Error.Name, parsed.Error.Message)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if parsed.Message != "" {
			return "", fmt.Errorf("email: Resend error %s (status %d): %s", parsed.Name, resp.StatusCode, parsed.Message)
		}
		return "", fmt.Errorf("email: unexpected status %d: %.200s", resp.StatusCode, string(respBytes))
	}

	return parsed.ID, nil
}
