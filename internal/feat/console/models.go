package console

import "github.com/Uthayarahavan/google-form-automation/pkg/gf/surveyapi"

// DraftInput is the console's create-survey submission: freeform
// question text plus the indexes deselected during preview.
type DraftInput struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	QuestionsText string `json:"questions_text"`
	Excluded      []int  `json:"excluded,omitempty"`
}

// ApprovalInput carries the approval dialog's form fields.
type ApprovalInput struct {
	RecipientEmail  string `json:"recipient_email"`
	RecipientEmails string `json:"recipient_emails"`
	EmailSubject    string `json:"email_subject"`
	EmailBody       string `json:"email_body"`
	UseAI           bool   `json:"use_ai_generated_content"`
}

// ApprovalView is the state of an approval dialog after opening it.
type ApprovalView struct {
	Opened         bool      `json:"opened"`
	State          FlowState `json:"state"`
	Notice         string    `json:"notice,omitempty"`
	RecipientEmail string    `json:"recipient_email,omitempty"`
	EmailSubject   string    `json:"email_subject,omitempty"`
	EmailBody      string    `json:"email_body,omitempty"`
	UseAI          bool      `json:"use_ai_generated_content"`
}

// ApprovalResult is the outcome of a submit attempt.
type ApprovalResult struct {
	Submitted       bool              `json:"submitted"`
	NeedsGeneration bool              `json:"needs_generation,omitempty"`
	Notice          string            `json:"notice,omitempty"`
	ErrorDetail     string            `json:"error_detail,omitempty"`
	EmailStatus     string            `json:"email_status,omitempty"`
	EmailDetail     string            `json:"email_detail,omitempty"`
	Survey          *surveyapi.Survey `json:"survey,omitempty"`
}

// EmailState reflects the email body editor after an edit or AI toggle.
type EmailState struct {
	EmailBody  string `json:"email_body"`
	UseAI      bool   `json:"use_ai_generated_content"`
	Generating bool   `json:"generating"`
	Notice     string `json:"notice,omitempty"`
}
