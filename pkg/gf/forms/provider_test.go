package forms

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Uthayarahavan/google-form-automation/pkg/gf/logger"
	"github.com/Uthayarahavan/google-form-automation/pkg/gf/sentinel"
)

func TestCreateFormMockMode(t *testing.T) {
	tests := []struct {
		name        string
		accessToken string
		mockMode    bool
	}{
		{name: "explicit mock mode", accessToken: "token", mockMode: true},
		{name: "missing token forces mock mode", accessToken: "", mockMode: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClient("https://forms.example.com/v1", tt.accessToken, tt.mockMode, logger.NewNoopLogger())
			if !c.MockMode() {
				t.Fatal("expected provider to run in mock mode")
			}

			form, err := c.CreateForm(context.Background(), "Survey", "", []string{"Q1"})
			if err != nil {
				t.Fatalf("CreateForm() error = %v", err)
			}

			decoded := sentinel.Decode(form.FormURL)
			if decoded.Kind != sentinel.Mock {
				t.Errorf("FormURL = %q, want mock-marked", form.FormURL)
			}
			if form.FormID == "" {
				t.Error("FormID should not be empty")
			}
			if form.ResponseURL == "" || sentinel.Decode(form.ResponseURL).Degraded() {
				t.Errorf("ResponseURL = %q, want plain URL", form.ResponseURL)
			}
		})
	}
}

func TestCreateFormRemote(t *testing.T) {
	var batchCalled bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/forms":
			if got := r.Header.Get("Authorization"); got != "Bearer token" {
				t.Errorf("Authorization = %q", got)
			}
			var req struct {
				Info struct {
					Title string `json:"title"`
				} `json:"info"`
			}
			json.NewDecoder(r.Body).Decode(&req)
			if req.Info.Title != "Customer Survey" {
				t.Errorf("form title = %q", req.Info.Title)
			}
			json.NewEncoder(w).Encode(map[string]string{
				"formId":       "abc123",
				"responderUri": "https://docs.google.com/forms/d/e/abc123/viewform",
			})
		case strings.HasSuffix(r.URL.Path, ":batchUpdate"):
			batchCalled = true
			var req struct {
				Requests []json.RawMessage `json:"requests"`
			}
			json.NewDecoder(r.Body).Decode(&req)
			if len(req.Requests) != 2 {
				t.Errorf("batch has %d requests, want 2", len(req.Requests))
			}
			w.Write([]byte("{}"))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "token", false, logger.NewNoopLogger())
	form, err := c.CreateForm(context.Background(), "Customer Survey", "desc", []string{"Q1", "Q2"})
	if err != nil {
		t.Fatalf("CreateForm() error = %v", err)
	}

	if form.FormID != "abc123" {
		t.Errorf("FormID = %q, want abc123", form.FormID)
	}
	if form.FormURL != "https://docs.google.com/forms/d/e/abc123/viewform" {
		t.Errorf("FormURL = %q", form.FormURL)
	}
	if !strings.Contains(form.ResponseURL, "viewanalytics") {
		t.Errorf("ResponseURL = %q", form.ResponseURL)
	}
	if !batchCalled {
		t.Error("batchUpdate was not called")
	}
}

func TestCreateFormDegradesOnProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":{"message":"insufficient permissions"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "token", false, logger.NewNoopLogger())
	form, err := c.CreateForm(context.Background(), "Survey", "", []string{"Q1"})
	if err != nil {
		t.Fatalf("CreateForm() error = %v, want degraded result", err)
	}

	if sentinel.Decode(form.FormURL).Kind != sentinel.Error {
		t.Errorf("FormURL = %q, want error-marked", form.FormURL)
	}
}

func TestCreateFormDegradesOnTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := NewClient(srv.URL, "token", false, logger.NewNoopLogger())
	form, err := c.CreateForm(context.Background(), "Survey", "", []string{"Q1"})
	if err != nil {
		t.Fatalf("CreateForm() error = %v, want degraded result", err)
	}
	if sentinel.Decode(form.FormURL).Kind != sentinel.Error {
		t.Errorf("FormURL = %q, want error-marked", form.FormURL)
	}
}
