package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/benvon/launch-coach/internal/database"
	"github.com/benvon/launch-coach/internal/models"
	"github.com/benvon/launch-coach/internal/validation"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// PlanBuilder generates and persists a roadmap plan from an intake profile.
type PlanBuilder interface {
	Build(ctx context.Context, intake models.IntakeProfile, email, name string) (*models.Plan, error)
}

// PlanHandler handles plan-related requests
type PlanHandler struct {
	planRepo database.PlanRepositoryInterface
	builder  PlanBuilder
}

// NewPlanHandler creates a new plan handler
func NewPlanHandler(planRepo database.PlanRepositoryInterface, builder PlanBuilder) *PlanHandler {
	return &PlanHandler{planRepo: planRepo, builder: builder}
}

// RegisterRoutes registers plan routes on the given router
// The router should already have the /plans prefix (e.g., from apiRouter.PathPrefix("/plans"))
func (h *PlanHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.CreatePlan).Methods("POST")
	r.HandleFunc("/{id}", h.GetPlan).Methods("GET")
	r.HandleFunc("/{id}/preferences", h.UpdatePreferences).Methods("PATCH")
	r.HandleFunc("/{id}/progress", h.UpdateProgress).Methods("POST")
	r.HandleFunc("/{id}/status", h.UpdateStatus).Methods("POST")
}

// CreatePlanRequest represents a create plan request
type CreatePlanRequest struct {
	Email  string               `json:"email" validate:"required,email,max=320"`
	Name   string               `json:"name" validate:"max=200"`
	Intake models.IntakeProfile `json:"intake" validate:"required"`
}

// UpdatePreferencesRequest carries the per-plan message settings. Omitted
// fields keep their current value.
type UpdatePreferencesRequest struct {
	CoachingStyle  *models.CoachingStyle  `json:"coaching_style,omitempty"`
	NudgeFrequency *models.NudgeFrequency `json:"nudge_frequency,omitempty"`
	ContentDepth   *models.ContentDepth   `json:"content_depth,omitempty"`
}

// UpdateProgressRequest marks a single task done or not done
type UpdateProgressRequest struct {
	TaskID    string `json:"task_id" validate:"required,max=100"`
	Completed *bool  `json:"completed" validate:"required"`
}

// UpdateStatusRequest changes the plan lifecycle status
type UpdateStatusRequest struct {
	Status models.PlanStatus `json:"status" validate:"required"`
}

// PlanResponse wraps a plan with its derived progress state
type PlanResponse struct {
	Plan           *models.Plan `json:"plan"`
	CompletedTasks []string     `json:"completed_tasks"`
	ProgressPct    int          `json:"progress_pct"`
}

// CreatePlan validates the intake profile and builds a new roadmap plan.
// Generation never fails for provider reasons; only persistence errors
// surface here.
func (h *PlanHandler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	var req CreatePlanRequest
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(&req); err != nil {
		if maxBytesErr, ok := err.(*http.MaxBytesError); ok {
			respondJSONError(w, http.StatusRequestEntityTooLarge, "Request Entity Too Large", fmt.Sprintf("Request body exceeds maximum size of %d bytes", maxBytesErr.Limit))
			return
		}
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}

	if err := validation.Validate.Struct(req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			for _, fieldError := range validationErrors {
				respondJSONError(w, http.StatusBadRequest, "Bad Request", fmt.Sprintf("Validation failed: %s", fieldError.Error()))
				return
			}
		}
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Validation failed")
		return
	}

	req.Name = validation.SanitizeText(req.Name)
	req.Intake.BusinessDescription = validation.SanitizeText(req.Intake.BusinessDescription)
	req.Intake.BusinessType = validation.SanitizeText(req.Intake.BusinessType)
	req.Intake.CustomerDescription = validation.SanitizeText(req.Intake.CustomerDescription)
	req.Intake.BiggestGap = validation.SanitizeText(req.Intake.BiggestGap)
	if req.Intake.BusinessDescription == "" || req.Intake.BusinessType == "" {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Business description and type cannot be empty after sanitization")
		return
	}

	plan, err := h.builder.Build(r.Context(), req.Intake, req.Email, req.Name)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to create plan")
		return
	}

	respondJSON(w, http.StatusCreated, PlanResponse{
		Plan:           plan,
		CompletedTasks: []string{},
		ProgressPct:    0,
	})
}

// GetPlan retrieves a plan by ID along with its completion state
func (h *PlanHandler) GetPlan(w http.ResponseWriter, r *http.Request) {
	plan, ok := h.planFromRequest(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	completed, err := h.planRepo.GetCompletedTasks(ctx, plan.ID)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve plan progress")
		return
	}

	taskIDs := make([]string, 0, len(completed))
	for id := range completed {
		taskIDs = append(taskIDs, id)
	}

	respondJSON(w, http.StatusOK, PlanResponse{
		Plan:           plan,
		CompletedTasks: taskIDs,
		ProgressPct:    completed.ProgressPct(len(plan.Roadmap.Tasks)),
	})
}

// UpdatePreferences changes a plan's coaching style, cadence, or content
// depth. Changes take effect on the next nudge cycle.
func (h *PlanHandler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	plan, ok := h.planFromRequest(w, r)
	if !ok {
		return
	}

	var req UpdatePreferencesRequest
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}

	prefs := models.Preferences{
		CoachingStyle:  plan.CoachingStyle,
		NudgeFrequency: plan.NudgeFrequency,
		ContentDepth:   plan.ContentDepth,
	}
	if req.CoachingStyle != nil {
		if err := validation.ValidateCoachingStyle(string(*req.CoachingStyle)); err != nil {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
			return
		}
		prefs.CoachingStyle = *req.CoachingStyle
	}
	if req.NudgeFrequency != nil {
		if err := validation.ValidateNudgeFrequency(string(*req.NudgeFrequency)); err != nil {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
			return
		}
		prefs.NudgeFrequency = *req.NudgeFrequency
	}
	if req.ContentDepth != nil {
		if err := validation.ValidateContentDepth(string(*req.ContentDepth)); err != nil {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
			return
		}
		prefs.ContentDepth = *req.ContentDepth
	}

	ctx := r.Context()
	if err := h.planRepo.UpdatePreferences(ctx, plan.ID, prefs); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to update preferences")
		return
	}

	plan.CoachingStyle = prefs.CoachingStyle
	plan.NudgeFrequency = prefs.NudgeFrequency
	plan.ContentDepth = prefs.ContentDepth
	respondJSON(w, http.StatusOK, plan)
}

// UpdateProgress marks a roadmap task completed or not completed
func (h *PlanHandler) UpdateProgress(w http.ResponseWriter, r *http.Request) {
	plan, ok := h.planFromRequest(w, r)
	if !ok {
		return
	}

	var req UpdateProgressRequest
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}

	if err := validation.Validate.Struct(req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Task ID and completed flag are required")
		return
	}

	if !planHasTask(plan, req.TaskID) {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Task does not belong to this plan")
		return
	}

	ctx := r.Context()
	if err := h.planRepo.SetTaskCompletion(ctx, plan.ID, req.TaskID, *req.Completed); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to update progress")
		return
	}

	completed, err := h.planRepo.GetCompletedTasks(ctx, plan.ID)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve plan progress")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"task_id":      req.TaskID,
		"completed":    *req.Completed,
		"progress_pct": completed.ProgressPct(len(plan.Roadmap.Tasks)),
	})
}

// UpdateStatus changes the plan lifecycle status. Only active plans are
// picked up by the nudge batch.
func (h *PlanHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	plan, ok := h.planFromRequest(w, r)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}

	if err := validation.ValidatePlanStatus(string(req.Status)); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	ctx := r.Context()
	if err := h.planRepo.UpdateStatus(ctx, plan.ID, req.Status); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to update status")
		return
	}

	plan.Status = req.Status
	respondJSON(w, http.StatusOK, plan)
}

// planFromRequest parses the path ID and loads the plan, writing the error
// response itself when either step fails.
func (h *PlanHandler) planFromRequest(w http.ResponseWriter, r *http.Request) (*models.Plan, bool) {
	vars := mux.Vars(r)
	id, err := uuid.Parse(vars["id"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid plan ID")
		return nil, false
	}

	plan, err := h.planRepo.GetByID(r.Context(), id)
	if err != nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Plan not found")
		return nil, false
	}
	return plan, true
}

func planHasTask(plan *models.Plan, taskID string) bool {
	for _, task := range plan.Roadmap.Tasks {
		if task.ID == taskID {
			return true
		}
	}
	return false
}
