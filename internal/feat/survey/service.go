package survey

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Uthayarahavan/google-form-automation/pkg/gf/config"
	"github.com/Uthayarahavan/google-form-automation/pkg/gf/forms"
	"github.com/Uthayarahavan/google-form-automation/pkg/gf/llm"
	"github.com/Uthayarahavan/google-form-automation/pkg/gf/logger"
	"github.com/Uthayarahavan/google-form-automation/pkg/gf/mail"
)

var (
	ErrSurveyNotFound  = errors.New("survey not found")
	ErrAlreadyApproved = errors.New("survey is already approved")
	ErrSurveyDeleted   = errors.New("cannot approve a deleted survey")
	ErrNoRecipients    = errors.New("at least one recipient email is required")
)

// Drafter generates AI email content for a survey.
type Drafter interface {
	DraftEmail(ctx context.Context, p llm.EmailPrompt) (string, error)
	IsConfigured() bool
}

type Service interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	CreateSurvey(ctx context.Context, title, description string, questions []string, recipientEmail string) (*Survey, error)
	ListSurveys(ctx context.Context, skipDeleted bool) ([]*Survey, error)
	GetSurvey(ctx context.Context, id string) (*Survey, error)
	ApproveSurvey(ctx context.Context, id string, approval Approval) (*Survey, EmailOutcome, error)
	GenerateEmail(ctx context.Context, id string) (body, timestamp string, err error)
	DeleteSurvey(ctx context.Context, id string) error
}

type service struct {
	store   *Store
	forms   forms.Provider
	mailer  mail.Mailer
	drafter Drafter
	cfg     *config.Config
	log     logger.Logger
}

func NewService(store *Store, provider forms.Provider, mailer mail.Mailer, drafter Drafter, cfg *config.Config, log logger.Logger) Service {
	return &service{
		store:   store,
		forms:   provider,
		mailer:  mailer,
		drafter: drafter,
		cfg:     cfg,
		log:     log,
	}
}

func (s *service) Start(ctx context.Context) error {
	s.log.Info("Survey service started")
	return nil
}

func (s *service) Stop(ctx context.Context) error {
	s.log.Info("Survey service stopped")
	return nil
}

// CreateSurvey creates the external form and stores a draft survey.
// Form creation never blocks the survey: a failing provider yields a
// sentinel-marked placeholder URL instead of an error.
func (s *service) CreateSurvey(ctx context.Context, title, description string, questions []string, recipientEmail string) (*Survey, error) {
	form, err := s.forms.CreateForm(ctx, title, description, questions)
	if err != nil {
		return nil, fmt.Errorf("cannot create form: %w", err)
	}

	survey := NewSurvey(title, description, questions)
	survey.FormID = form.FormID
	survey.FormURL = form.FormURL
	survey.ResponseURL = form.ResponseURL
	survey.RecipientEmail = recipientEmail

	s.store.Create(survey)
	s.log.Infof("Created survey %s (%s)", survey.ID, survey.Title)

	return survey, nil
}

func (s *service) ListSurveys(ctx context.Context, skipDeleted bool) ([]*Survey, error) {
	return s.store.List(skipDeleted), nil
}

func (s *service) GetSurvey(ctx context.Context, id string) (*Survey, error) {
	survey, ok := s.store.Get(id)
	if !ok {
		return nil, ErrSurveyNotFound
	}
	return survey, nil
}

// ApproveSurvey transitions a draft survey to approved and sends the
// notification email to every recipient. The survey ends up approved
// even when all sends fail; the outcome reports how delivery went.
func (s *service) ApproveSurvey(ctx context.Context, id string, approval Approval) (*Survey, EmailOutcome, error) {
	survey, ok := s.store.Get(id)
	if !ok {
		return nil, EmailOutcome{}, ErrSurveyNotFound
	}
	if survey.Status == StatusApproved {
		return nil, EmailOutcome{}, ErrAlreadyApproved
	}
	if survey.Status == StatusDeleted {
		return nil, EmailOutcome{}, ErrSurveyDeleted
	}

	recipients := approval.Recipients()
	if len(recipients) == 0 {
		return nil, EmailOutcome{}, ErrNoRecipients
	}

	subject := approval.EmailSubject
	if subject == "" {
		subject = "Survey: " + survey.Title
	}
	body := s.resolveEmailBody(ctx, survey, approval, recipients[0])

	survey.Status = StatusApproved
	survey.RecipientEmails = recipients
	survey.RecipientEmail = recipients[0]
	survey.EmailSubject = subject
	survey.EmailBody = body
	survey.UpdatedAt = time.Now().UTC()

	if !s.store.Update(survey) {
		return nil, EmailOutcome{}, fmt.Errorf("cannot update survey %s", id)
	}

	outcome := s.sendNotifications(ctx, recipients, subject, body)
	s.log.Infof("Approved survey %s, email status %s", survey.ID, outcome.Status)

	return survey, outcome, nil
}

// resolveEmailBody picks the notification body: an explicit body wins,
// then AI-generated content when requested (falling back to the
// default template on failure), then the default template.
func (s *service) resolveEmailBody(ctx context.Context, survey *Survey, approval Approval, firstRecipient string) string {
	if approval.EmailBody != "" {
		return approval.EmailBody
	}
	if approval.UseAIGeneratedContent {
		body, err := s.drafter.DraftEmail(ctx, llm.EmailPrompt{
			Title:          survey.Title,
			Description:    survey.Description,
			FormURL:        survey.FormURL,
			Questions:      survey.Questions,
			RecipientEmail: firstRecipient,
		})
		if err == nil {
			return body
		}
		s.log.Errorf("Cannot generate AI email content for survey %s: %v", survey.ID, err)
	}
	return defaultEmailBody(survey)
}

// sendNotifications sends one email per recipient and reconciles the
// per-recipient results into a single outcome.
func (s *service) sendNotifications(ctx context.Context, recipients []string, subject, body string) EmailOutcome {
	failed := 0
	for _, to := range recipients {
		if err := s.mailer.Send(ctx, to, subject, body); err != nil {
			failed++
			s.log.Errorf("Cannot send notification to %s: %v", to, err)
		}
	}

	switch {
	case failed == 0:
		return EmailOutcome{Status: EmailStatusSuccess, Detail: "Emails sent successfully"}
	case failed == len(recipients):
		return EmailOutcome{Status: EmailStatusFailed, Detail: "Failed to send all email notifications"}
	default:
		return EmailOutcome{Status: EmailStatusPartialSuccess, Detail: "Failed to send email to one or more recipients"}
	}
}

// GenerateEmail drafts a fresh AI email body for the survey without
// saving it. Each call carries a unique seed so repeated generations
// produce new content.
func (s *service) GenerateEmail(ctx context.Context, id string) (string, string, error) {
	survey, ok := s.store.Get(id)
	if !ok {
		return "", "", ErrSurveyNotFound
	}

	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	body, err := s.drafter.DraftEmail(ctx, llm.EmailPrompt{
		Title:       survey.Title,
		Description: survey.Description,
		FormURL:     survey.FormURL,
		Questions:   survey.Questions,
		Seed:        timestamp,
	})
	if err != nil {
		return "", "", fmt.Errorf("cannot generate AI email: %w", err)
	}
	return body, timestamp, nil
}

// DeleteSurvey soft-deletes a survey: it stays stored with status
// deleted and disappears from default listings.
func (s *service) DeleteSurvey(ctx context.Context, id string) error {
	survey, ok := s.store.Get(id)
	if !ok {
		return ErrSurveyNotFound
	}
	survey.Status = StatusDeleted
	survey.UpdatedAt = time.Now().UTC()
	if !s.store.Update(survey) {
		return fmt.Errorf("cannot update survey %s", id)
	}
	s.log.Infof("Deleted survey %s", id)
	return nil
}

func defaultEmailBody(survey *Survey) string {
	description := survey.Description
	if description == "" {
		description = "No description provided"
	}
	return fmt.Sprintf(`
Hello,

A new survey has been approved and is ready for your response:

Title: %s
Description: %s

Please click the following link to access the survey:
%s

Thank you for your participation!
`, survey.Title, description, survey.FormURL)
}
