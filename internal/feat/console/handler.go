package console

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Uthayarahavan/google-form-automation/pkg/gf/config"
	"github.com/Uthayarahavan/google-form-automation/pkg/gf/logger"
	"github.com/Uthayarahavan/google-form-automation/pkg/gf/surveyapi"
	"github.com/go-chi/chi/v5"
)

// Handler exposes the console workflow as a JSON surface.
type Handler struct {
	service Service
	cfg     *config.Config
	log     logger.Logger
}

// NewHandler creates a new console handler.
func NewHandler(service Service, cfg *config.Config, log logger.Logger) *Handler {
	return &Handler{
		service: service,
		cfg:     cfg,
		log:     log,
	}
}

// Start initializes the handler.
func (h *Handler) Start(ctx context.Context) error {
	h.log.Info("Console handler started")
	return nil
}

// RegisterRoutes registers the console routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	h.log.Info("Registering console routes")

	r.Route("/console", func(r chi.Router) {
		r.Post("/drafts/preview", h.PreviewDraft)
		r.Post("/drafts", h.CreateDraft)
		r.Get("/surveys", h.ListSurveys)
		r.Get("/surveys/{id}", h.GetSurvey)
		r.Post("/surveys/{id}/approval/open", h.OpenApproval)
		r.Post("/surveys/{id}/approval/submit", h.SubmitApproval)
		r.Post("/surveys/{id}/email/generate", h.GenerateEmail)
		r.Put("/surveys/{id}/email/body", h.EditEmailBody)
		r.Put("/surveys/{id}/email/ai", h.SetAIMode)
		r.Delete("/surveys/{id}", h.DeleteSurvey)
	})
}

// --- JSON helpers ---

func jsonOK(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(data)
}

func jsonCreated(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(data)
}

func jsonError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}

// upstreamError forwards an application error from the survey service
// with its original status and detail; anything else is a bad gateway.
func (h *Handler) upstreamError(w http.ResponseWriter, err error) {
	var apiErr *surveyapi.Error
	if errors.As(err, &apiErr) {
		jsonError(w, apiErr.Status, apiErr.Detail)
		return
	}
	h.log.Errorf("Upstream call failed: %v", err)
	jsonError(w, http.StatusBadGateway, "Survey service is unavailable")
}

// --- Endpoints ---

func (h *Handler) PreviewDraft(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	questions, errs := h.service.PreviewQuestions(req.Text)
	if errs.HasErrors() {
		jsonError(w, http.StatusBadRequest, errs.First().Message)
		return
	}

	jsonOK(w, map[string]any{"questions": questions})
}

func (h *Handler) CreateDraft(w http.ResponseWriter, r *http.Request) {
	var input DraftInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		jsonError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	survey, errs, err := h.service.CreateSurvey(r.Context(), input)
	if errs.HasErrors() {
		jsonError(w, http.StatusBadRequest, errs.First().Message)
		return
	}
	if err != nil {
		h.upstreamError(w, err)
		return
	}

	jsonCreated(w, survey)
}

func (h *Handler) ListSurveys(w http.ResponseWriter, r *http.Request) {
	surveys, err := h.service.ListSurveys(r.Context())
	if err != nil {
		h.upstreamError(w, err)
		return
	}
	jsonOK(w, map[string]any{"surveys": surveys})
}

func (h *Handler) GetSurvey(w http.ResponseWriter, r *http.Request) {
	survey, err := h.service.GetSurvey(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.upstreamError(w, err)
		return
	}
	jsonOK(w, survey)
}

func (h *Handler) OpenApproval(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.OpenApproval(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.upstreamError(w, err)
		return
	}
	jsonOK(w, view)
}

func (h *Handler) SubmitApproval(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var input ApprovalInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		jsonError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	result, errs, err := h.service.SubmitApproval(r.Context(), id, input)
	if errs.HasErrors() {
		jsonError(w, http.StatusBadRequest, errs.First().Message)
		return
	}
	if err != nil {
		if errors.Is(err, ErrApprovalNotOpen) {
			jsonError(w, http.StatusConflict, "Approval dialog is not open for this survey")
			return
		}
		h.upstreamError(w, err)
		return
	}

	jsonOK(w, result)
}

func (h *Handler) GenerateEmail(w http.ResponseWriter, r *http.Request) {
	state, err := h.service.GenerateEmail(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.upstreamError(w, err)
		return
	}
	jsonOK(w, state)
}

func (h *Handler) EditEmailBody(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Body string `json:"body"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	state, err := h.service.EditEmailBody(chi.URLParam(r, "id"), req.Body)
	if err != nil {
		jsonError(w, http.StatusConflict, err.Error())
		return
	}
	jsonOK(w, state)
}

func (h *Handler) SetAIMode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Enabled bool `json:"enabled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	state, err := h.service.SetAIMode(r.Context(), chi.URLParam(r, "id"), req.Enabled)
	if err != nil {
		h.upstreamError(w, err)
		return
	}
	jsonOK(w, state)
}

func (h *Handler) DeleteSurvey(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteSurvey(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.upstreamError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
