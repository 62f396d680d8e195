package survey

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Uthayarahavan/google-form-automation/pkg/gf/config"
	"github.com/Uthayarahavan/google-form-automation/pkg/gf/logger"
	"github.com/go-chi/chi/v5"
)

func newTestServer(t *testing.T) (*httptest.Server, *fixture) {
	t.Helper()
	f := newFixture()
	h := NewHandler(f.svc, &config.Config{}, logger.NewNoopLogger())

	r := chi.NewRouter()
	h.RegisterRoutes(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, f
}

func doJSON(t *testing.T, method, url, body string) (*http.Response, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("cannot create request: %v", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })

	var decoded map[string]any
	if resp.StatusCode != http.StatusNoContent {
		json.NewDecoder(resp.Body).Decode(&decoded)
	}
	return resp, decoded
}

func TestCreateSurveyEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, body := doJSON(t, "POST", srv.URL+"/api/surveys/", `{"title":"Feedback","questions":["Q1","Q2"]}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}
	if body["status"] != "draft" {
		t.Errorf("status = %v", body["status"])
	}
	if body["form_url"] == "" {
		t.Error("form_url missing")
	}
}

func TestCreateSurveyEndpointValidation(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		name       string
		payload    string
		wantDetail string
	}{
		{name: "missing title", payload: `{"questions":["Q1"]}`, wantDetail: "Title is required"},
		{name: "no questions", payload: `{"title":"T","questions":[]}`, wantDetail: "At least one question is required"},
		{name: "blank questions", payload: `{"title":"T","questions":["  "]}`, wantDetail: "At least one question is required"},
		{name: "invalid json", payload: `{`, wantDetail: "Invalid JSON body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := doJSON(t, "POST", srv.URL+"/api/surveys/", tt.payload)
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", resp.StatusCode)
			}
			detail, _ := body["detail"].(string)
			if !strings.Contains(detail, tt.wantDetail) {
				t.Errorf("detail = %q, want it to contain %q", detail, tt.wantDetail)
			}
		})
	}
}

func TestListSurveysEndpoint(t *testing.T) {
	srv, f := newTestServer(t)
	s := f.createSurvey(t)
	deleted := f.createSurvey(t)
	doJSON(t, "DELETE", srv.URL+"/api/surveys/"+deleted.ID, "")

	resp, body := doJSON(t, "GET", srv.URL+"/api/surveys/", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	surveys, _ := body["surveys"].([]any)
	if len(surveys) != 1 {
		t.Fatalf("got %d surveys, want 1", len(surveys))
	}
	first, _ := surveys[0].(map[string]any)
	if first["id"] != s.ID {
		t.Errorf("id = %v, want %s", first["id"], s.ID)
	}

	_, all := doJSON(t, "GET", srv.URL+"/api/surveys/?skip_deleted=false", "")
	if got, _ := all["surveys"].([]any); len(got) != 2 {
		t.Errorf("got %d surveys with skip_deleted=false, want 2", len(got))
	}
}

func TestGetSurveyEndpoint(t *testing.T) {
	srv, f := newTestServer(t)
	s := f.createSurvey(t)

	resp, body := doJSON(t, "GET", srv.URL+"/api/surveys/"+s.ID, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if body["id"] != s.ID || body["title"] != s.Title {
		t.Errorf("got %v/%v", body["id"], body["title"])
	}

	resp, body = doJSON(t, "GET", srv.URL+"/api/surveys/missing", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
	if detail, _ := body["detail"].(string); !strings.Contains(detail, "not found") {
		t.Errorf("detail = %q", detail)
	}
}

func TestApproveSurveyEndpoint(t *testing.T) {
	srv, f := newTestServer(t)
	s := f.createSurvey(t)

	resp, body := doJSON(t, "POST", srv.URL+"/api/surveys/"+s.ID+"/approve",
		`{"recipient_emails":["a@example.com","b@example.com"]}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %v", resp.StatusCode, body)
	}
	if body["status"] != "approved" {
		t.Errorf("status = %v", body["status"])
	}
	if body["email_status"] != EmailStatusSuccess {
		t.Errorf("email_status = %v", body["email_status"])
	}
	if len(f.mailer.sent) != 2 {
		t.Errorf("sent %d emails, want 2", len(f.mailer.sent))
	}

	// Second approval is rejected.
	resp, body = doJSON(t, "POST", srv.URL+"/api/surveys/"+s.ID+"/approve",
		`{"recipient_email":"a@example.com"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if body["detail"] != "Survey is already approved" {
		t.Errorf("detail = %v", body["detail"])
	}
}

func TestApproveSurveyEndpointRequiresRecipients(t *testing.T) {
	srv, f := newTestServer(t)
	s := f.createSurvey(t)

	resp, body := doJSON(t, "POST", srv.URL+"/api/surveys/"+s.ID+"/approve", `{}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if body["detail"] != "At least one recipient email is required" {
		t.Errorf("detail = %v", body["detail"])
	}
}

func TestGenerateEmailEndpoint(t *testing.T) {
	srv, f := newTestServer(t)
	s := f.createSurvey(t)

	resp, body := doJSON(t, "POST", srv.URL+"/api/surveys/"+s.ID+"/generate-email", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if body["success"] != true {
		t.Errorf("success = %v", body["success"])
	}
	if body["email_body"] == "" || body["timestamp"] == "" {
		t.Errorf("body = %v", body)
	}
}

func TestDeleteSurveyEndpoint(t *testing.T) {
	srv, f := newTestServer(t)
	s := f.createSurvey(t)

	resp, _ := doJSON(t, "DELETE", srv.URL+"/api/surveys/"+s.ID, "")
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", resp.StatusCode)
	}

	resp, _ = doJSON(t, "DELETE", srv.URL+"/api/surveys/missing", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}
