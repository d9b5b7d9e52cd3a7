package http

import (
	"net/http"

	"assessment-service/internal/app"
	"assessment-service/internal/domain"
	"github.com/go-chi/chi/v5"
)

// SessionHandler exposes the session lifecycle over REST. Unlike WebSocket sessions,
// these live until DELETE or until the session store expires them.
type SessionHandler struct {
	sessions *app.SessionService
}

func NewSessionHandler(sessions *app.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

func (h *SessionHandler) Routes(r chi.Router) {
	r.Post("/", h.start)
	r.Route("/{sessionID}", func(r chi.Router) {
		r.Get("/", h.view)
		r.Delete("/", h.close)
		r.Post("/goto", h.goTo)
		r.Post("/next", h.next)
		r.Post("/previous", h.previous)
		r.Post("/answer", h.answer)
		r.Post("/submit", h.submit)
		r.Get("/result", h.result)
		r.Post("/review", h.review)
		r.Post("/restart", h.restart)
	})
}

type startRequest struct {
	AssessmentID string `json:"assessmentId"`
}

func (h *SessionHandler) start(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.AssessmentID == "" {
		writeJSON(w, http.StatusBadRequest, errorPayload{Message: "assessmentId is required"})
		return
	}
	view, err := h.sessions.Start(r.Context(), req.AssessmentID)
	if err != nil {
		writeJSON(w, statusFor(err), struct {
			errorPayload
			Session domain.SessionView `json:"session"`
		}{errorPayload{Message: err.Error()}, view})
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (h *SessionHandler) view(w http.ResponseWriter, r *http.Request) {
	view, err := h.sessions.View(r.Context(), chi.URLParam(r, "sessionID"))
	respondView(w, view, err)
}

func (h *SessionHandler) goTo(w http.ResponseWriter, r *http.Request) {
	var req gotoPayload
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	view, err := h.sessions.GoTo(r.Context(), chi.URLParam(r, "sessionID"), req.Index)
	respondView(w, view, err)
}

func (h *SessionHandler) next(w http.ResponseWriter, r *http.Request) {
	view, err := h.sessions.Next(r.Context(), chi.URLParam(r, "sessionID"))
	respondView(w, view, err)
}

func (h *SessionHandler) previous(w http.ResponseWriter, r *http.Request) {
	view, err := h.sessions.Previous(r.Context(), chi.URLParam(r, "sessionID"))
	respondView(w, view, err)
}

func (h *SessionHandler) answer(w http.ResponseWriter, r *http.Request) {
	var req answerPayload
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	id := chi.URLParam(r, "sessionID")
	var (
		view domain.SessionView
		err  error
	)
	if req.Index != nil {
		view, err = h.sessions.Record(r.Context(), id, *req.Index, req.Option)
	} else {
		view, err = h.sessions.Answer(r.Context(), id, req.Option)
	}
	respondView(w, view, err)
}

func (h *SessionHandler) submit(w http.ResponseWriter, r *http.Request) {
	res, err := h.sessions.Submit(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *SessionHandler) result(w http.ResponseWriter, r *http.Request) {
	res, err := h.sessions.Result(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *SessionHandler) review(w http.ResponseWriter, r *http.Request) {
	rev, err := h.sessions.Review(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rev)
}

func (h *SessionHandler) restart(w http.ResponseWriter, r *http.Request) {
	view, err := h.sessions.Restart(r.Context(), chi.URLParam(r, "sessionID"))
	respondView(w, view, err)
}

func (h *SessionHandler) close(w http.ResponseWriter, r *http.Request) {
	h.sessions.Close(r.Context(), chi.URLParam(r, "sessionID"))
	w.WriteHeader(http.StatusNoContent)
}

func respondView(w http.ResponseWriter, view domain.SessionView, err error) {
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
