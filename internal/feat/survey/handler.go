package survey

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/Uthayarahavan/google-form-automation/pkg/gf/config"
	"github.com/Uthayarahavan/google-form-automation/pkg/gf/logger"
	"github.com/Uthayarahavan/google-form-automation/pkg/gf/validation"
	"github.com/go-chi/chi/v5"
)

// Handler implements the survey REST API.
type Handler struct {
	service Service
	cfg     *config.Config
	log     logger.Logger
}

// NewHandler creates a new survey handler.
func NewHandler(service Service, cfg *config.Config, log logger.Logger) *Handler {
	return &Handler{
		service: service,
		cfg:     cfg,
		log:     log,
	}
}

// Start initializes the handler.
func (h *Handler) Start(ctx context.Context) error {
	h.log.Info("Survey handler started")
	return nil
}

// RegisterRoutes registers the survey API routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	h.log.Info("Registering survey API routes")

	r.Route("/api", func(r chi.Router) {
		r.Post("/surveys/", h.CreateSurvey)
		r.Get("/surveys/", h.ListSurveys)
		r.Get("/surveys/{id}", h.GetSurvey)
		r.Post("/surveys/{id}/approve", h.ApproveSurvey)
		r.Post("/surveys/{id}/generate-email", h.GenerateEmail)
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

// jsonError writes the {"detail": ...} error body the console relies on.
func jsonError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}

// --- Endpoints ---

func (h *Handler) CreateSurvey(w http.ResponseWriter, r *http.Request) {
	var req CreateSurveyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if errs := validateCreate(req); errs.HasErrors() {
		jsonError(w, http.StatusBadRequest, errs.Error())
		return
	}

	survey, err := h.service.CreateSurvey(r.Context(), req.Title, req.Description, req.Questions, req.RecipientEmail)
	if err != nil {
		h.log.Errorf("Cannot create survey: %v", err)
		jsonError(w, http.StatusInternalServerError, "Failed to create survey: "+err.Error())
		return
	}

	jsonCreated(w, toSurveyResponse(survey))
}

func (h *Handler) ListSurveys(w http.ResponseWriter, r *http.Request) {
	skipDeleted := r.URL.Query().Get("skip_deleted") != "false"

	surveys, err := h.service.ListSurveys(r.Context(), skipDeleted)
	if err != nil {
		h.log.Errorf("Cannot list surveys: %v", err)
		jsonError(w, http.StatusInternalServerError, "Failed to fetch surveys")
		return
	}

	jsonOK(w, toSurveyListResponse(surveys))
}

func (h *Handler) GetSurvey(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	survey, err := h.service.GetSurvey(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrSurveyNotFound) {
			jsonError(w, http.StatusNotFound, "Survey with ID "+id+" not found")
			return
		}
		h.log.Errorf("Cannot get survey %s: %v", id, err)
		jsonError(w, http.StatusInternalServerError, "Failed to fetch survey")
		return
	}

	jsonOK(w, toSurveyResponse(survey))
}

func (h *Handler) ApproveSurvey(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req ApproveSurveyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	survey, outcome, err := h.service.ApproveSurvey(r.Context(), id, req.toApproval())
	if err != nil {
		switch {
		case errors.Is(err, ErrSurveyNotFound):
			jsonError(w, http.StatusNotFound, "Survey with ID "+id+" not found")
		case errors.Is(err, ErrAlreadyApproved):
			jsonError(w, http.StatusBadRequest, "Survey is already approved")
		case errors.Is(err, ErrSurveyDeleted):
			jsonError(w, http.StatusBadRequest, "Cannot approve a deleted survey")
		case errors.Is(err, ErrNoRecipients):
			jsonError(w, http.StatusBadRequest, "At least one recipient email is required")
		default:
			h.log.Errorf("Cannot approve survey %s: %v", id, err)
			jsonError(w, http.StatusInternalServerError, "Failed to update survey status")
		}
		return
	}

	jsonOK(w, toApprovedSurveyResponse(survey, outcome))
}

func (h *Handler) GenerateEmail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	body, timestamp, err := h.service.GenerateEmail(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrSurveyNotFound) {
			jsonError(w, http.StatusNotFound, "Survey with ID "+id+" not found")
			return
		}
		h.log.Errorf("Cannot generate email for survey %s: %v", id, err)
		jsonError(w, http.StatusInternalServerError, "Failed to generate AI email: "+err.Error())
		return
	}

	jsonOK(w, GenerateEmailResponse{
		Success:   true,
		EmailBody: body,
		Timestamp: timestamp,
	})
}

func (h *Handler) DeleteSurvey(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.DeleteSurvey(r.Context(), id); err != nil {
		if errors.Is(err, ErrSurveyNotFound) {
			jsonError(w, http.StatusNotFound, "Survey with ID "+id+" not found")
			return
		}
		h.log.Errorf("Cannot delete survey %s: %v", id, err)
		jsonError(w, http.StatusInternalServerError, "Failed to delete survey")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func validateCreate(req CreateSurveyRequest) validation.ValidationErrors {
	var errs validation.ValidationErrors

	if !validation.IsRequired(req.Title) {
		errs.Add("title", "Title is required")
	}
	hasQuestion := false
	for _, q := range req.Questions {
		if strings.TrimSpace(q) != "" {
			hasQuestion = true
			break
		}
	}
	if !hasQuestion {
		errs.Add("questions", "At least one question is required")
	}
	if req.RecipientEmail != "" && !validation.IsEmail(req.RecipientEmail) {
		errs.Add("recipient_email", "Must be a valid email address")
	}

	return errs
}
