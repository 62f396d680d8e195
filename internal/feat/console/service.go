package console

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/Uthayarahavan/google-form-automation/pkg/gf/config"
	"github.com/Uthayarahavan/google-form-automation/pkg/gf/logger"
	"github.com/Uthayarahavan/google-form-automation/pkg/gf/surveyapi"
	"github.com/Uthayarahavan/google-form-automation/pkg/gf/validation"
)

var ErrApprovalNotOpen = errors.New("approval is not open")

type Service interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	PreviewQuestions(text string) ([]string, validation.ValidationErrors)
	CreateSurvey(ctx context.Context, input DraftInput) (*surveyapi.Survey, validation.ValidationErrors, error)
	ListSurveys(ctx context.Context) ([]surveyapi.Survey, error)
	GetSurvey(ctx context.Context, id string) (*surveyapi.Survey, error)
	OpenApproval(ctx context.Context, id string) (*ApprovalView, error)
	SubmitApproval(ctx context.Context, id string, input ApprovalInput) (*ApprovalResult, validation.ValidationErrors, error)
	GenerateEmail(ctx context.Context, id string) (*EmailState, error)
	EditEmailBody(id, body string) (*EmailState, error)
	SetAIMode(ctx context.Context, id string, enabled bool) (*EmailState, error)
	DeleteSurvey(ctx context.Context, id string) error
}

type service struct {
	api        surveyapi.API
	negotiator *Negotiator
	cfg        *config.Config
	log        logger.Logger

	mu       sync.Mutex
	flows    map[string]*ApprovalFlow
	cache    map[string]*surveyapi.Survey
	fetchSeq map[string]uint64
}

func NewService(api surveyapi.API, cfg *config.Config, log logger.Logger) Service {
	return &service{
		api:        api,
		negotiator: NewNegotiator(api, log),
		cfg:        cfg,
		log:        log,
		flows:      make(map[string]*ApprovalFlow),
		cache:      make(map[string]*surveyapi.Survey),
		fetchSeq:   make(map[string]uint64),
	}
}

func (s *service) Start(ctx context.Context) error {
	s.log.Info("Console service started")
	return nil
}

func (s *service) Stop(ctx context.Context) error {
	s.log.Info("Console service stopped")
	return nil
}

func (s *service) PreviewQuestions(text string) ([]string, validation.ValidationErrors) {
	return ParseQuestions(text)
}

// CreateSurvey builds a draft from the console input, applies the
// deselections made during preview, validates, and submits the
// selected questions.
func (s *service) CreateSurvey(ctx context.Context, input DraftInput) (*surveyapi.Survey, validation.ValidationErrors, error) {
	draft := NewDraft(input.Title, input.Description)
	if _, errs := draft.Preview(input.QuestionsText); errs.HasErrors() {
		return nil, errs, nil
	}
	for _, idx := range input.Excluded {
		if err := draft.Toggle(idx); err != nil {
			return nil, validation.NewSingleError("excluded", err.Error()), nil
		}
	}
	if errs := draft.Validate(); errs.HasErrors() {
		return nil, errs, nil
	}

	survey, err := s.api.Create(ctx, surveyapi.CreateRequest{
		Title:       draft.Title,
		Description: draft.Description,
		Questions:   draft.Selected(),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("cannot create survey: %w", err)
	}

	s.mu.Lock()
	s.cache[survey.ID] = survey
	s.mu.Unlock()

	return survey, nil, nil
}

func (s *service) ListSurveys(ctx context.Context) ([]surveyapi.Survey, error) {
	surveys, err := s.api.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("cannot list surveys: %w", err)
	}

	s.mu.Lock()
	for i := range surveys {
		survey := surveys[i]
		s.cache[survey.ID] = &survey
	}
	s.mu.Unlock()

	return surveys, nil
}

// GetSurvey fetches one survey. Fetches for the same id carry a
// sequence number; a fetch that completes after a newer one was issued
// is discarded in favor of the freshest cached record.
func (s *service) GetSurvey(ctx context.Context, id string) (*surveyapi.Survey, error) {
	s.mu.Lock()
	s.fetchSeq[id]++
	seq := s.fetchSeq[id]
	s.mu.Unlock()

	survey, err := s.api.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.fetchSeq[id] {
		if cached, ok := s.cache[id]; ok {
			return cached, nil
		}
		return survey, nil
	}
	s.cache[id] = survey
	return survey, nil
}

// OpenApproval opens the approval dialog for a survey. Opening an
// already-approved survey is a no-op with an informational notice.
func (s *service) OpenApproval(ctx context.Context, id string) (*ApprovalView, error) {
	survey, err := s.GetSurvey(ctx, id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	flow := s.flowLocked(id)
	opened, notice := flow.Open(survey)

	return &ApprovalView{
		Opened:         opened,
		State:          flow.State(),
		Notice:         notice,
		RecipientEmail: flow.RecipientEmail,
		EmailSubject:   flow.EmailSubject,
		EmailBody:      flow.EmailBody,
		UseAI:          flow.UseAI,
	}, nil
}

// SubmitApproval validates the dialog input and submits the approval.
// When AI mode is on with an empty body, no approval is sent: a
// generation is triggered instead and the caller is re-prompted.
func (s *service) SubmitApproval(ctx context.Context, id string, input ApprovalInput) (*ApprovalResult, validation.ValidationErrors, error) {
	s.mu.Lock()
	flow := s.flowLocked(id)
	if flow.State() != FlowOpen {
		s.mu.Unlock()
		return nil, nil, ErrApprovalNotOpen
	}
	flow.RecipientEmail = input.RecipientEmail
	flow.RecipientEmails = input.RecipientEmails
	flow.EmailSubject = input.EmailSubject
	flow.EmailBody = input.EmailBody
	flow.UseAI = input.UseAI

	needsGeneration, errs := flow.Validate()
	if errs.HasErrors() {
		s.mu.Unlock()
		return nil, errs, nil
	}
	if needsGeneration {
		s.mu.Unlock()
		return s.generateForSubmit(ctx, id, flow)
	}

	if err := flow.BeginSubmit(); err != nil {
		s.mu.Unlock()
		return nil, nil, err
	}
	req := flow.BuildRequest()
	s.mu.Unlock()

	survey, err := s.api.Approve(ctx, id, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		flow.FailSubmit(applicationDetail(err))
		return &ApprovalResult{ErrorDetail: flow.LastError}, nil, nil
	}

	flow.CompleteSubmit()
	s.cache[id] = survey

	return &ApprovalResult{
		Submitted:   true,
		EmailStatus: survey.EmailStatus,
		EmailDetail: survey.EmailDetail,
		Notice:      deliveryNotice(survey),
		Survey:      survey,
	}, nil, nil
}

// generateForSubmit handles the AI-mode-with-empty-body submit path:
// generate a body, park it in the flow, and ask the caller to review
// and submit again.
func (s *service) generateForSubmit(ctx context.Context, id string, flow *ApprovalFlow) (*ApprovalResult, validation.ValidationErrors, error) {
	body, err := s.negotiator.Generate(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		flow.LastError = "Failed to generate AI email content. Please try again or use a custom email."
		return &ApprovalResult{NeedsGeneration: true, ErrorDetail: flow.LastError}, nil, nil
	}
	flow.EmailBody = body
	return &ApprovalResult{
		NeedsGeneration: true,
		Notice:          "AI email content generated. Review the draft and submit again.",
	}, nil, nil
}

// GenerateEmail fetches a fresh AI draft on explicit user request and
// places it in the dialog.
func (s *service) GenerateEmail(ctx context.Context, id string) (*EmailState, error) {
	body, err := s.negotiator.Generate(ctx, id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	flow := s.flowLocked(id)
	flow.EmailBody = body
	return s.emailStateLocked(id, flow, ""), nil
}

// EditEmailBody applies a manual edit to the dialog's body. A
// substantial edit while AI mode is on switches AI mode off.
func (s *service) EditEmailBody(id, body string) (*EmailState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	flow := s.flowLocked(id)
	notice, err := s.negotiator.ApplyEdit(id, flow, body)
	if err != nil {
		return nil, err
	}
	return s.emailStateLocked(id, flow, notice), nil
}

// SetAIMode toggles AI content mode. Enabling it while the body is
// empty triggers exactly one generation; enabling it with content
// present triggers none.
func (s *service) SetAIMode(ctx context.Context, id string, enabled bool) (*EmailState, error) {
	s.mu.Lock()
	flow := s.flowLocked(id)
	flow.UseAI = enabled
	needsBody := enabled && strings.TrimSpace(flow.EmailBody) == "" && !s.negotiator.Generating(id)
	s.mu.Unlock()

	if !needsBody {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.emailStateLocked(id, flow, ""), nil
	}

	body, err := s.negotiator.Generate(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	flow.EmailBody = body
	return s.emailStateLocked(id, flow, "AI-generated email content created"), nil
}

// DeleteSurvey deletes the survey and drops its local dialog state.
func (s *service) DeleteSurvey(ctx context.Context, id string) error {
	if err := s.api.Delete(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.cache, id)
	delete(s.flows, id)
	return nil
}

func (s *service) flowLocked(id string) *ApprovalFlow {
	flow, ok := s.flows[id]
	if !ok {
		flow = NewApprovalFlow()
		s.flows[id] = flow
	}
	return flow
}

func (s *service) emailStateLocked(id string, flow *ApprovalFlow, notice string) *EmailState {
	return &EmailState{
		EmailBody:  flow.EmailBody,
		UseAI:      flow.UseAI,
		Generating: s.negotiator.Generating(id),
		Notice:     notice,
	}
}

func applicationDetail(err error) string {
	var apiErr *surveyapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Detail
	}
	return ""
}

// deliveryNotice maps the reconciled email status to the message shown
// after a successful approval.
func deliveryNotice(s *surveyapi.Survey) string {
	switch s.EmailStatus {
	case "SUCCESS":
		if s.IsMock {
			return "Survey approved successfully. (Note: This is a mock survey, email notifications are simulated)"
		}
		return "Survey approved and email notifications sent successfully!"
	case "PARTIAL_SUCCESS":
		return "Survey approved but some email notifications failed to send."
	case "FAILED":
		return "Survey approved but all email notifications failed to send."
	default:
		return "Survey approved successfully!"
	}
}
