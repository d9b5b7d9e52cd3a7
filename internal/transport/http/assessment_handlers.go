package http

import (
	"net/http"

	"assessment-service/internal/app"
	"assessment-service/internal/domain"
	"github.com/go-chi/chi/v5"
)

// AssessmentHandler serves stored assessments: generation, lookup, score updates and listings.
type AssessmentHandler struct {
	assessments *app.AssessmentService
}

func NewAssessmentHandler(assessments *app.AssessmentService) *AssessmentHandler {
	return &AssessmentHandler{assessments: assessments}
}

func (h *AssessmentHandler) Routes(r chi.Router) {
	r.Post("/assessments/generate", h.generate)
	r.Get("/assessments/{assessmentID}", h.get)
	r.Patch("/assessments/{assessmentID}", h.updateScore)
	r.Get("/users/{userID}/assessments", h.listByUser)
	r.Post("/courses/{courseID}/assessments", h.generateCourseEnd)
	r.Get("/courses/{courseID}/assessments", h.listByCourse)
}

func (h *AssessmentHandler) generate(w http.ResponseWriter, r *http.Request) {
	var req domain.GenerateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	req.CourseID = ""
	h.create(w, r, req)
}

func (h *AssessmentHandler) generateCourseEnd(w http.ResponseWriter, r *http.Request) {
	var req domain.GenerateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	req.CourseID = chi.URLParam(r, "courseID")
	h.create(w, r, req)
}

func (h *AssessmentHandler) create(w http.ResponseWriter, r *http.Request, req domain.GenerateRequest) {
	assessment, err := h.assessments.Generate(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, assessment)
}

func (h *AssessmentHandler) get(w http.ResponseWriter, r *http.Request) {
	assessment, err := h.assessments.Get(r.Context(), chi.URLParam(r, "assessmentID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, assessment)
}

type scoreRequest struct {
	Score *int `json:"score"`
}

func (h *AssessmentHandler) updateScore(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Score == nil {
		writeJSON(w, http.StatusBadRequest, errorPayload{Message: "score is required"})
		return
	}
	assessment, err := h.assessments.UpdateScore(r.Context(), chi.URLParam(r, "assessmentID"), *req.Score)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, assessment)
}

func (h *AssessmentHandler) listByUser(w http.ResponseWriter, r *http.Request) {
	list, err := h.assessments.ListByUser(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *AssessmentHandler) listByCourse(w http.ResponseWriter, r *http.Request) {
	list, err := h.assessments.ListByCourse(r.Context(), chi.URLParam(r, "courseID"), r.URL.Query().Get("userId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}
