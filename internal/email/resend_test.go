package email_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nyashahama/ai-readiness-assessments/internal/email"
)

func TestSendReport_Success(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer re_test" {
			t.Errorf("authorization = %q", r.Header.Get("Authorization"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"msg_123"}`))
	}))
	defer srv.Close()

	c := email.NewResendClient("re_test", "reports@example.com", "AI Assessments",
		email.WithEndpoint(srv.URL), email.WithBCC("sales@example.com"))

	id, err := c.SendReport(context.Background(), email.ReportParams{
		To: "thabo@example.com", Name: "Thabo", Subject: "Your results", HTML: "<p>hi</p>",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "msg_123" {
		t.Errorf("id = %q, want msg_123", id)
	}
	if got["from"] != "AI Assessments <reports@example.com>" {
		t.Errorf("from = %v", got["from"])
	}
	if to := got["to"].([]any); to[0] != "Thabo <thabo@example.com>" {
		t.Errorf("to = %v", to)
	}
	if bcc := got["bcc"].([]any); bcc[0] != "sales@example.com" {
		t.Errorf("bcc = %v", bcc)
	}
	if got["html"] != "<p>hi</p>" {
		t.Errorf("html = %v", got["html"])
	}
}

func TestSendReport_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"statusCode":422,"name":"validation_error","message":"Invalid to field"}`))
	}))
	defer srv.Close()

	c := email.NewResendClient("k", "a@b.co", "A", email.WithEndpoint(srv.URL))
	_, err := c.SendReport(context.Background(), email.ReportParams{To: "x@y.co", Subject: "s", HTML: "h"})
	if err == nil || !strings.Contains(err.Error(), "Invalid to field") {
		t.Errorf("err = %v, want Resend message", err)
	}
}

func TestSendReport_NonJSONFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := email.NewResendClient("k", "a@b.co", "A", email.WithEndpoint(srv.URL))
	if _, err := c.SendReport(context.Background(), email.ReportParams{To: "x@y.co"}); err == nil {
		t.Error("expected an error")
	}
}

func TestSendReport_MissingRecipient(t *testing.T) {
	c := email.NewResendClient("k", "a@b.co", "A")
	if _, err := c.SendReport(context.Background(), email.ReportParams{}); err == nil {
		t.Error("expected an error for an empty recipient")
	}
}
