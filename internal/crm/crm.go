// Package crm syncs assessment respondents into the sales CRM.
package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Contact is one respondent and the assessment properties to record on them.
type Contact struct {
	Email      string
	Name       string
	Company    string
	Properties map[string]string // custom properties, merged last
}

// Syncer upserts a contact and returns the CRM's record id.
type Syncer interface {
	UpsertContact(ctx context.Context, c Contact) (string, error)
}

// Nop is used when no CRM token is configured.
type Nop struct{}

func (Nop) UpsertContact(context.Context, Contact) (string, error) { return "", nil }

// ─── HUBSPOT ──────────────────────────────────────────────────────────────────

const defaultBaseURL = "https://api.hubapi.com"

// HubSpotClient upserts contacts through the CRM v3 objects API using a
// private-app token.
type HubSpotClient struct {
	token      string
	baseURL    string
	httpClient *http.Client
}

// Option customises a HubSpotClient.
type Option func(*HubSpotClient)

// WithBaseURL points the client at a different API host.
func WithBaseURL(u string) Option {
	return func(c *HubSpotClient) { c.baseURL = strings.TrimRight(u, "/") }
}

// NewHubSpotClient returns a Syncer backed by HubSpot.
func NewHubSpotClient(token string, opts ...Option) *HubSpotClient {
	c := &HubSpotClient{
		token:      token,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type objectRequest struct {
	Properties map[string]string `json:"properties"`
}

type objectResponse struct {
	ID      string `json:"id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// UpsertContact creates the contact, or updates it by email when HubSpot
// reports that it already exists.
func (c *HubSpotClient) UpsertContact(ctx context.Context, ct Contact) (string, error) {
	if ct.Email == "" {
		return "", fmt.Errorf("crm: contact has no email")
	}
	props := properties(ct)

	id, status, err := c.do(ctx, http.MethodPost, "/crm/v3/objects/contacts", props)
	if err == nil {
		return id, nil
	}
	if status != http.StatusConflict {
		return "", err
	}

	path := "/crm/v3/objects/contacts/" + url.PathEscape(ct.Email) + "?idProperty=email"
	delete(props, "email")
	id, _, err = c.do(ctx, http.MethodPatch, path, props)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (c *HubSpotClient) do(ctx context.Context, method, path string, props map[string]string) (string, int, error) {
	body, err := json.Marshal(objectRequest{Properties: props})
	if err != nil {
		return "", 0, fmt.Errorf("crm: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return "", 0, fmt.Errorf("crm: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("crm: http request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return "", resp.StatusCode, fmt.Errorf("crm: read response: %w", err)
	}

	var parsed objectResponse
	_ = json.Unmarshal(respBytes, &parsed)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := parsed.Message
		if msg == "" {
			msg = fmt.Sprintf("%.200s", string(respBytes))
		}
		return "", resp.StatusCode, fmt.Errorf("crm: %s %s: status %d: %s", method, path, resp.StatusCode, msg)
	}
	return parsed.ID, resp.StatusCode, nil
}

func properties(ct Contact) map[string]string {
	props := map[string]string{"email": ct.Email}
	first, last, _ := strings.Cut(strings.TrimSpace(ct.Name), " ")
	if first != "" {
		props["firstname"] = first
	}
	if last = strings.TrimSpace(last); last != "" {
		props["lastname"] = last
	}
	if ct.Company != "" {
		props["company"] = ct.Company
	}
	for k, v := range ct.Properties {
		props[k] = v
	}
	return props
}
