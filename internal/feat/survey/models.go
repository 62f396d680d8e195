package survey

import (
	"time"

	"github.com/Uthayarahavan/google-form-automation/pkg/gf/model"
)

// Status is the lifecycle state of a survey.
type Status string

const (
	StatusDraft    Status = "draft"
	StatusApproved Status = "approved"
	StatusDeleted  Status = "deleted"
)

// Email dispatch outcomes reported after approval.
const (
	EmailStatusSuccess        = "SUCCESS"
	EmailStatusPartialSuccess = "PARTIAL_SUCCESS"
	EmailStatusFailed         = "FAILED"
)

// Survey is a managed survey backed by an externally hosted form.
type Survey struct {
	ID              string
	Title           string
	Description     string
	Questions       []string
	Status          Status
	FormID          string
	FormURL         string
	ResponseURL     string
	RecipientEmail  string
	RecipientEmails []string
	EmailSubject    string
	EmailBody       string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewSurvey creates a draft survey.
func NewSurvey(title, description string, questions []string) *Survey {
	now := time.Now().UTC()
	return &Survey{
		ID:          model.NewID(),
		Title:       title,
		Description: description,
		Questions:   questions,
		Status:      StatusDraft,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Clone returns a deep copy of the survey.
func (s *Survey) Clone() *Survey {
	c := *s
	c.Questions = append([]string(nil), s.Questions...)
	c.RecipientEmails = append([]string(nil), s.RecipientEmails...)
	return &c
}

// Approval carries the parameters of an approval request.
type Approval struct {
	RecipientEmail        string
	RecipientEmails       []string
	EmailSubject          string
	EmailBody             string
	UseAIGeneratedContent bool
}

// Recipients merges the single-recipient legacy field with the list
// form. The list wins when both are set.
func (a Approval) Recipients() []string {
	if len(a.RecipientEmails) > 0 {
		return a.RecipientEmails
	}
	if a.RecipientEmail != "" {
		return []string{a.RecipientEmail}
	}
	return nil
}

// EmailOutcome is the reconciled result of sending the approval
// notifications.
type EmailOutcome struct {
	Status string
	Detail string
}
