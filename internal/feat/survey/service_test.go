package survey

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/Uthayarahavan/google-form-automation/pkg/gf/config"
	"github.com/Uthayarahavan/google-form-automation/pkg/gf/forms"
	"github.com/Uthayarahavan/google-form-automation/pkg/gf/llm"
	"github.com/Uthayarahavan/google-form-automation/pkg/gf/logger"
	"github.com/Uthayarahavan/google-form-automation/pkg/gf/sentinel"
)

// --- Fakes ---

type fakeProvider struct {
	degraded bool
	created  int
}

func (f *fakeProvider) CreateForm(ctx context.Context, title, description string, questions []string) (*forms.Form, error) {
	f.created++
	url := "https://docs.google.com/forms/d/f1/viewform"
	if f.degraded {
		url = sentinel.MarkMock(url)
	}
	return &forms.Form{
		FormID:      "f1",
		FormURL:     url,
		ResponseURL: "https://docs.google.com/forms/d/f1/viewanalytics",
	}, nil
}

type fakeMailer struct {
	sent    []string
	failFor map[string]bool
}

func (f *fakeMailer) Send(ctx context.Context, to, subject, body string) error {
	if f.failFor[to] {
		return errors.New("relay rejected message")
	}
	f.sent = append(f.sent, to)
	return nil
}

type fakeDrafter struct {
	body  string
	err   error
	calls int
	seeds []string
}

func (f *fakeDrafter) DraftEmail(ctx context.Context, p llm.EmailPrompt) (string, error) {
	f.calls++
	f.seeds = append(f.seeds, p.Seed)
	if f.err != nil {
		return "", f.err
	}
	if f.body != "" {
		return f.body, nil
	}
	return fmt.Sprintf("AI draft for %s", p.Title), nil
}

func (f *fakeDrafter) IsConfigured() bool {
	return f.err == nil
}

type fixture struct {
	svc     Service
	store   *Store
	mailer  *fakeMailer
	drafter *fakeDrafter
}

func newFixture() *fixture {
	store := NewStore()
	mailer := &fakeMailer{failFor: map[string]bool{}}
	drafter := &fakeDrafter{}
	svc := NewService(store, &fakeProvider{}, mailer, drafter, &config.Config{}, logger.NewNoopLogger())
	return &fixture{svc: svc, store: store, mailer: mailer, drafter: drafter}
}

func (f *fixture) createSurvey(t *testing.T) *Survey {
	t.Helper()
	s, err := f.svc.CreateSurvey(context.Background(), "Customer Feedback", "Quarterly check-in", []string{"Q1", "Q2"}, "")
	if err != nil {
		t.Fatalf("CreateSurvey() error = %v", err)
	}
	return s
}

// --- Tests ---

func TestCreateSurvey(t *testing.T) {
	f := newFixture()

	s := f.createSurvey(t)

	if s.Status != StatusDraft {
		t.Errorf("status = %q, want draft", s.Status)
	}
	if s.FormURL == "" || s.ResponseURL == "" {
		t.Error("form URLs should be populated from the provider")
	}
	if len(s.Questions) != 2 {
		t.Errorf("questions = %v", s.Questions)
	}

	stored, ok := f.store.Get(s.ID)
	if !ok {
		t.Fatal("survey not stored")
	}
	if stored.Title != "Customer Feedback" {
		t.Errorf("stored title = %q", stored.Title)
	}
}

func TestListSurveysSkipsDeleted(t *testing.T) {
	f := newFixture()
	keep := f.createSurvey(t)
	gone := f.createSurvey(t)

	if err := f.svc.DeleteSurvey(context.Background(), gone.ID); err != nil {
		t.Fatalf("DeleteSurvey() error = %v", err)
	}

	surveys, err := f.svc.ListSurveys(context.Background(), true)
	if err != nil {
		t.Fatalf("ListSurveys() error = %v", err)
	}
	if len(surveys) != 1 || surveys[0].ID != keep.ID {
		t.Errorf("got %d surveys, want only %s", len(surveys), keep.ID)
	}

	all, err := f.svc.ListSurveys(context.Background(), false)
	if err != nil {
		t.Fatalf("ListSurveys() error = %v", err)
	}
	if len(all) != 2 {
		t.Errorf("got %d surveys with skipDeleted=false, want 2", len(all))
	}
	for _, s := range all {
		if s.ID == gone.ID && s.Status != StatusDeleted {
			t.Errorf("deleted survey status = %q", s.Status)
		}
	}
}

func TestGetSurveyNotFound(t *testing.T) {
	f := newFixture()
	if _, err := f.svc.GetSurvey(context.Background(), "missing"); !errors.Is(err, ErrSurveyNotFound) {
		t.Errorf("error = %v, want ErrSurveyNotFound", err)
	}
}

func TestApproveSurveyRejections(t *testing.T) {
	tests := []struct {
		name     string
		prepare  func(t *testing.T, f *fixture) string
		approval Approval
		wantErr  error
	}{
		{
			name:     "unknown survey",
			prepare:  func(t *testing.T, f *fixture) string { return "missing" },
			approval: Approval{RecipientEmail: "a@example.com"},
			wantErr:  ErrSurveyNotFound,
		},
		{
			name: "already approved",
			prepare: func(t *testing.T, f *fixture) string {
				s := f.createSurvey(t)
				if _, _, err := f.svc.ApproveSurvey(context.Background(), s.ID, Approval{RecipientEmail: "a@example.com"}); err != nil {
					t.Fatalf("first approval failed: %v", err)
				}
				return s.ID
			},
			approval: Approval{RecipientEmail: "a@example.com"},
			wantErr:  ErrAlreadyApproved,
		},
		{
			name: "deleted survey",
			prepare: func(t *testing.T, f *fixture) string {
				s := f.createSurvey(t)
				if err := f.svc.DeleteSurvey(context.Background(), s.ID); err != nil {
					t.Fatalf("delete failed: %v", err)
				}
				return s.ID
			},
			approval: Approval{RecipientEmail: "a@example.com"},
			wantErr:  ErrSurveyDeleted,
		},
		{
			name: "no recipients",
			prepare: func(t *testing.T, f *fixture) string {
				return f.createSurvey(t).ID
			},
			approval: Approval{},
			wantErr:  ErrNoRecipients,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			id := tt.prepare(t, f)

			_, _, err := f.svc.ApproveSurvey(context.Background(), id, tt.approval)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestApproveSurveyEmailReconciliation(t *testing.T) {
	recipients := []string{"a@example.com", "b@example.com", "c@example.com"}

	tests := []struct {
		name       string
		failFor    []string
		wantStatus string
	}{
		{name: "all sent", failFor: nil, wantStatus: EmailStatusSuccess},
		{name: "some failed", failFor: []string{"b@example.com"}, wantStatus: EmailStatusPartialSuccess},
		{name: "all failed", failFor: recipients, wantStatus: EmailStatusFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			s := f.createSurvey(t)
			for _, r := range tt.failFor {
				f.mailer.failFor[r] = true
			}

			approved, outcome, err := f.svc.ApproveSurvey(context.Background(), s.ID, Approval{RecipientEmails: recipients})
			if err != nil {
				t.Fatalf("ApproveSurvey() error = %v", err)
			}

			if outcome.Status != tt.wantStatus {
				t.Errorf("email status = %q, want %q", outcome.Status, tt.wantStatus)
			}
			// The survey is approved no matter how delivery went.
			if approved.Status != StatusApproved {
				t.Errorf("survey status = %q, want approved", approved.Status)
			}
			if approved.RecipientEmail != "a@example.com" {
				t.Errorf("recipient_email = %q, want first recipient", approved.RecipientEmail)
			}
		})
	}
}

func TestApproveSurveyDefaults(t *testing.T) {
	f := newFixture()
	s := f.createSurvey(t)

	approved, _, err := f.svc.ApproveSurvey(context.Background(), s.ID, Approval{RecipientEmail: "a@example.com"})
	if err != nil {
		t.Fatalf("ApproveSurvey() error = %v", err)
	}

	if approved.EmailSubject != "Survey: Customer Feedback" {
		t.Errorf("subject = %q", approved.EmailSubject)
	}
	if !strings.Contains(approved.EmailBody, "A new survey has been approved") {
		t.Errorf("body = %q, want default template", approved.EmailBody)
	}
	if !strings.Contains(approved.EmailBody, approved.FormURL) {
		t.Error("default body should include the form URL")
	}
}

func TestApproveSurveyBodyResolution(t *testing.T) {
	tests := []struct {
		name       string
		approval   Approval
		drafterErr error
		wantBody   string
		wantCalls  int
	}{
		{
			name:      "explicit body wins over AI",
			approval:  Approval{RecipientEmail: "a@example.com", EmailBody: "custom body", UseAIGeneratedContent: true},
			wantBody:  "custom body",
			wantCalls: 0,
		},
		{
			name:      "AI content when requested",
			approval:  Approval{RecipientEmail: "a@example.com", UseAIGeneratedContent: true},
			wantBody:  "AI draft for Customer Feedback",
			wantCalls: 1,
		},
		{
			name:       "AI failure falls back to default template",
			approval:   Approval{RecipientEmail: "a@example.com", UseAIGeneratedContent: true},
			drafterErr: errors.New("model unavailable"),
			wantBody:   "A new survey has been approved",
			wantCalls:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.drafter.err = tt.drafterErr
			s := f.createSurvey(t)

			approved, _, err := f.svc.ApproveSurvey(context.Background(), s.ID, tt.approval)
			if err != nil {
				t.Fatalf("ApproveSurvey() error = %v", err)
			}

			if !strings.Contains(approved.EmailBody, tt.wantBody) {
				t.Errorf("body = %q, want it to contain %q", approved.EmailBody, tt.wantBody)
			}
			if f.drafter.calls != tt.wantCalls {
				t.Errorf("drafter calls = %d, want %d", f.drafter.calls, tt.wantCalls)
			}
		})
	}
}

func TestGenerateEmailUsesFreshSeed(t *testing.T) {
	f := newFixture()
	s := f.createSurvey(t)

	body1, ts1, err := f.svc.GenerateEmail(context.Background(), s.ID)
	if err != nil {
		t.Fatalf("GenerateEmail() error = %v", err)
	}
	_, ts2, err := f.svc.GenerateEmail(context.Background(), s.ID)
	if err != nil {
		t.Fatalf("GenerateEmail() error = %v", err)
	}

	if body1 == "" || ts1 == "" {
		t.Error("generation should return body and timestamp")
	}
	if ts1 == ts2 {
		t.Error("each generation should carry a fresh timestamp")
	}
	if len(f.drafter.seeds) != 2 || f.drafter.seeds[0] == "" || f.drafter.seeds[0] == f.drafter.seeds[1] {
		t.Errorf("seeds = %v, want two distinct non-empty seeds", f.drafter.seeds)
	}
}

func TestGenerateEmailErrors(t *testing.T) {
	f := newFixture()

	if _, _, err := f.svc.GenerateEmail(context.Background(), "missing"); !errors.Is(err, ErrSurveyNotFound) {
		t.Errorf("error = %v, want ErrSurveyNotFound", err)
	}

	f.drafter.err = errors.New("quota exceeded")
	s := f.createSurvey(t)
	if _, _, err := f.svc.GenerateEmail(context.Background(), s.ID); err == nil {
		t.Error("GenerateEmail() should propagate drafter failures")
	}
}

func TestDeleteSurveyIsSoft(t *testing.T) {
	f := newFixture()
	s := f.createSurvey(t)

	if err := f.svc.DeleteSurvey(context.Background(), s.ID); err != nil {
		t.Fatalf("DeleteSurvey() error = %v", err)
	}

	stored, ok := f.store.Get(s.ID)
	if !ok {
		t.Fatal("soft-deleted survey should stay stored")
	}
	if stored.Status != StatusDeleted {
		t.Errorf("status = %q, want deleted", stored.Status)
	}

	if err := f.svc.DeleteSurvey(context.Background(), "missing"); !errors.Is(err, ErrSurveyNotFound) {
		t.Errorf("error = %v, want ErrSurveyNotFound", err)
	}
}
