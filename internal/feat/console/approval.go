package console

import (
	"fmt"
	"strings"

	"github.com/Uthayarahavan/google-form-automation/pkg/gf/surveyapi"
	"github.com/Uthayarahavan/google-form-automation/pkg/gf/validation"
)

// FlowState is the state of an approval dialog.
type FlowState string

const (
	FlowClosed     FlowState = "closed"
	FlowOpen       FlowState = "open"
	FlowSubmitting FlowState = "submitting"
)

// ApprovalFlow drives one survey's approval dialog: closed → open →
// submitting → closed on success, submitting → open on failure so the
// user can correct input.
type ApprovalFlow struct {
	state FlowState

	RecipientEmail  string // single recipient field
	RecipientEmails string // comma-separated additional recipients
	EmailSubject    string
	EmailBody       string
	UseAI           bool
	LastError       string
}

func NewApprovalFlow() *ApprovalFlow {
	return &ApprovalFlow{state: FlowClosed}
}

func (f *ApprovalFlow) State() FlowState {
	return f.state
}

// Open opens the approval dialog for a survey. An already-approved
// survey yields an informational no-op notice instead of opening.
// Opening prefills the subject, the default body template, and the
// survey's last-used recipient email.
func (f *ApprovalFlow) Open(s *surveyapi.Survey) (bool, string) {
	if s.Status == "approved" {
		return false, "This survey is already approved"
	}

	f.state = FlowOpen
	f.LastError = ""
	if f.EmailSubject == "" {
		f.EmailSubject = "Survey: " + s.Title
	}
	if f.EmailBody == "" {
		f.EmailBody = defaultEmailBody(s)
	}
	if f.RecipientEmail == "" {
		f.RecipientEmail = s.RecipientEmail
	}

	if s.IsMock {
		return true, "This is a mock survey. Approving it will not send a real email."
	}
	return true, ""
}

// Recipients merges the single recipient and the comma-separated list
// into trimmed, non-empty addresses.
func (f *ApprovalFlow) Recipients() []string {
	var recipients []string
	if r := strings.TrimSpace(f.RecipientEmail); r != "" {
		recipients = append(recipients, r)
	}
	for _, r := range strings.Split(f.RecipientEmails, ",") {
		if r = strings.TrimSpace(r); r != "" {
			recipients = append(recipients, r)
		}
	}
	return recipients
}

// Validate runs the pre-submit checks in order. needsGeneration is
// true when AI mode is on but no body exists yet: the caller should
// trigger a generation and re-prompt instead of submitting.
func (f *ApprovalFlow) Validate() (needsGeneration bool, errs validation.ValidationErrors) {
	if len(f.Recipients()) == 0 {
		errs.Add("recipient_email", "At least one recipient email is required")
		return false, errs
	}
	for _, r := range f.Recipients() {
		if !validation.IsEmail(r) {
			errs.Add("recipient_email", fmt.Sprintf("%q is not a valid email address", r))
			return false, errs
		}
	}

	if strings.TrimSpace(f.EmailBody) == "" {
		if f.UseAI {
			return true, nil
		}
		errs.Add("email_body", "Please provide an email body or enable AI-generated content")
		return false, errs
	}

	return false, nil
}

// BuildRequest assembles the approve payload, sending only the fields
// that are populated.
func (f *ApprovalFlow) BuildRequest() surveyapi.ApproveRequest {
	req := surveyapi.ApproveRequest{
		UseAIGeneratedContent: f.UseAI,
	}
	if r := strings.TrimSpace(f.RecipientEmail); r != "" {
		req.RecipientEmail = r
	}
	if extra := splitEmails(f.RecipientEmails); len(extra) > 0 {
		req.RecipientEmails = extra
	}
	if subject := strings.TrimSpace(f.EmailSubject); subject != "" {
		req.EmailSubject = subject
	}
	if body := strings.TrimSpace(f.EmailBody); body != "" {
		req.EmailBody = body
	}
	return req
}

// BeginSubmit moves the flow to submitting.
func (f *ApprovalFlow) BeginSubmit() error {
	if f.state != FlowOpen {
		return fmt.Errorf("approval flow is %s, not open", f.state)
	}
	f.state = FlowSubmitting
	f.LastError = ""
	return nil
}

// CompleteSubmit closes the flow after a successful approval.
func (f *ApprovalFlow) CompleteSubmit() {
	f.state = FlowClosed
	f.LastError = ""
}

// FailSubmit reopens the flow with the backend's error detail. A
// detail mentioning email is prefixed so delivery failures stand out
// from other approval failures.
func (f *ApprovalFlow) FailSubmit(detail string) {
	f.state = FlowOpen
	switch {
	case detail == "":
		f.LastError = "Failed to approve survey or send email. Please try again."
	case strings.Contains(strings.ToLower(detail), "email"):
		f.LastError = "Email error: " + detail
	default:
		f.LastError = detail
	}
}

func splitEmails(s string) []string {
	var emails []string
	for _, e := range strings.Split(s, ",") {
		if e = strings.TrimSpace(e); e != "" {
			emails = append(emails, e)
		}
	}
	return emails
}

func defaultEmailBody(s *surveyapi.Survey) string {
	description := s.Description
	if description == "" {
		description = "No description provided"
	}
	return fmt.Sprintf(`Hello,

A new survey has been approved and is ready for your response:

Title: %s
Description: %s

Please click the following link to access the survey:
%s

Thank you for your participation!
`, s.Title, description, s.FormURL)
}
