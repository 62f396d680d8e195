package survey

import "time"

// Wire DTOs use the snake_case field names the console expects.

type CreateSurveyRequest struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Questions      []string `json:"questions"`
	RecipientEmail string   `json:"recipient_email,omitempty"`
}

type ApproveSurveyRequest struct {
	RecipientEmail        string   `json:"recipient_email,omitempty"`
	RecipientEmails       []string `json:"recipient_emails,omitempty"`
	EmailSubject          string   `json:"email_subject,omitempty"`
	EmailBody             string   `json:"email_body,omitempty"`
	UseAIGeneratedContent bool     `json:"use_ai_generated_content,omitempty"`
}

type SurveyResponse struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Questions       []string  `json:"questions,omitempty"`
	Status          string    `json:"status"`
	FormURL         string    `json:"form_url"`
	ResponseURL     string    `json:"response_url,omitempty"`
	RecipientEmail  string    `json:"recipient_email,omitempty"`
	RecipientEmails []string  `json:"recipient_emails,omitempty"`
	EmailSubject    string    `json:"email_subject,omitempty"`
	EmailBody       string    `json:"email_body,omitempty"`
	EmailStatus     string    `json:"email_status,omitempty"`
	EmailDetail     string    `json:"email_detail,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type SurveyListResponse struct {
	Surveys []SurveyResponse `json:"surveys"`
}

type GenerateEmailResponse struct {
	Success   bool   `json:"success"`
	EmailBody string `json:"email_body"`
	Timestamp string `json:"timestamp"`
}

func toSurveyResponse(s *Survey) SurveyResponse {
	return SurveyResponse{
		ID:              s.ID,
		Title:           s.Title,
		Description:     s.Description,
		Questions:       s.Questions,
		Status:          string(s.Status),
		FormURL:         s.FormURL,
		ResponseURL:     s.ResponseURL,
		RecipientEmail:  s.RecipientEmail,
		RecipientEmails: s.RecipientEmails,
		EmailSubject:    s.EmailSubject,
		EmailBody:       s.EmailBody,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

func toApprovedSurveyResponse(s *Survey, outcome EmailOutcome) SurveyResponse {
	resp := toSurveyResponse(s)
	resp.EmailStatus = outcome.Status
	resp.EmailDetail = outcome.Detail
	return resp
}

func toSurveyListResponse(surveys []*Survey) SurveyListResponse {
	resp := SurveyListResponse{Surveys: make([]SurveyResponse, len(surveys))}
	for i, s := range surveys {
		resp.Surveys[i] = toSurveyResponse(s)
	}
	return resp
}

func (r ApproveSurveyRequest) toApproval() Approval {
	return Approval{
		RecipientEmail:        r.RecipientEmail,
		RecipientEmails:       r.RecipientEmails,
		EmailSubject:          r.EmailSubject,
		EmailBody:             r.EmailBody,
		UseAIGeneratedContent: r.UseAIGeneratedContent,
	}
}
