package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"assessment-service/internal/domain"
	"assessment-service/internal/infra/memory"
)

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decode %s: %v", rec.Body.String(), err)
	}
	return out
}

func TestHealthz(t *testing.T) {
	h := newTestRouter(memory.NewAssessmentStore())
	rec := doJSON(t, h, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestSessionRESTFlow(t *testing.T) {
	h := newTestRouter(memory.NewAssessmentStore())

	rec := doJSON(t, h, http.MethodPost, "/api/sessions", map[string]any{"assessmentId": "a1"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("start: expected 201, got %d: %s", rec.Code, rec.Body)
	}
	view := decode[domain.SessionView](t, rec)
	base := "/api/sessions/" + view.SessionID

	rec = doJSON(t, h, http.MethodPost, base+"/answer", map[string]any{"option": "A"})
	if rec.Code != http.StatusOK {
		t.Fatalf("answer: %d %s", rec.Code, rec.Body)
	}

	rec = doJSON(t, h, http.MethodPost, base+"/submit", nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("early submit: expected 409, got %d", rec.Code)
	}

	rec = doJSON(t, h, http.MethodGet, base+"/result", nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("result before submit: expected 409, got %d", rec.Code)
	}

	doJSON(t, h, http.MethodPost, base+"/next", nil)
	doJSON(t, h, http.MethodPost, base+"/previous", nil)
	rec = doJSON(t, h, http.MethodPost, base+"/goto", map[string]any{"index": 2})
	view = decode[domain.SessionView](t, rec)
	if view.CurrentIndex != 2 {
		t.Fatalf("expected index 2, got %d", view.CurrentIndex)
	}
	doJSON(t, h, http.MethodPost, base+"/answer", map[string]any{"option": "G"})

	rec = doJSON(t, h, http.MethodPost, base+"/submit", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("submit: %d %s", rec.Code, rec.Body)
	}
	result := decode[domain.Result](t, rec)
	if result.Correct != 2 || result.Percentage != 67 || result.Message != "Well done!" {
		t.Fatalf("unexpected result %+v", result)
	}

	rec = doJSON(t, h, http.MethodPost, base+"/review", nil)
	review := decode[domain.Review](t, rec)
	if len(review.Items) != 3 || review.Items[1].Status != domain.StatusUnattempted {
		t.Fatalf("unexpected review %+v", review)
	}

	rec = doJSON(t, h, http.MethodPost, base+"/restart", nil)
	view = decode[domain.SessionView](t, rec)
	if view.Answered != 0 || view.Phase != domain.PhaseInProgress {
		t.Fatalf("unexpected view after restart %+v", view)
	}

	rec = doJSON(t, h, http.MethodDelete, base, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", rec.Code)
	}
	rec = doJSON(t, h, http.MethodGet, base, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rec.Code)
	}
}

func TestSessionStartErrors(t *testing.T) {
	h := newTestRouter(memory.NewAssessmentStore())

	rec := doJSON(t, h, http.MethodPost, "/api/sessions", map[string]any{})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	rec = doJSON(t, h, http.MethodPost, "/api/sessions", map[string]any{"assessmentId": "a1", "extra": true})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected unknown field rejected, got %d", rec.Code)
	}

	rec = doJSON(t, h, http.MethodPost, "/api/sessions", map[string]any{"assessmentId": "missing"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	body := decode[struct {
		Message string             `json:"message"`
		Session domain.SessionView `json:"session"`
	}](t, rec)
	if body.Session.Phase != domain.PhaseFailed || body.Message == "" {
		t.Fatalf("expected failed session in body, got %+v", body)
	}
}

func TestAssessmentRoutes(t *testing.T) {
	h := newTestRouter(memory.NewAssessmentStore())

	rec := doJSON(t, h, http.MethodPost, "/api/assessments/generate", map[string]any{"userId": "u1", "topic": "Letters"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("generate: %d %s", rec.Code, rec.Body)
	}
	created := decode[domain.Assessment](t, rec)
	if created.ID == "" || created.CourseID != "" || len(created.Questions) != 3 {
		t.Fatalf("unexpected assessment %+v", created)
	}

	rec = doJSON(t, h, http.MethodPost, "/api/courses/c9/assessments", map[string]any{
		"userId": "u1", "topic": "Letters", "skills": []string{"vowels"}, "difficultyLevel": "easy",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("course end: %d %s", rec.Code, rec.Body)
	}
	courseEnd := decode[domain.Assessment](t, rec)
	if courseEnd.CourseID != "c9" {
		t.Fatalf("expected course id from path, got %q", courseEnd.CourseID)
	}

	rec = doJSON(t, h, http.MethodPost, "/api/assessments/generate", map[string]any{"topic": "Letters"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing user: expected 400, got %d", rec.Code)
	}
	rec = doJSON(t, h, http.MethodPost, "/api/assessments/generate", map[string]any{"userId": "u1", "topic": "broken"})
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("malformed model output: expected 502, got %d", rec.Code)
	}

	rec = doJSON(t, h, http.MethodGet, "/api/assessments/"+created.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get: %d", rec.Code)
	}
	rec = doJSON(t, h, http.MethodGet, "/api/assessments/nope", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	rec = doJSON(t, h, http.MethodPatch, "/api/assessments/"+created.ID, map[string]any{"score": 70})
	if updated := decode[domain.Assessment](t, rec); updated.Score != 70 {
		t.Fatalf("expected score 70, got %+v", updated)
	}
	rec = doJSON(t, h, http.MethodPatch, "/api/assessments/"+created.ID, map[string]any{})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing score: expected 400, got %d", rec.Code)
	}

	rec = doJSON(t, h, http.MethodGet, "/api/users/u1/assessments", nil)
	if list := decode[[]domain.Assessment](t, rec); len(list) != 3 {
		t.Fatalf("expected seeded plus 2 generated, got %d", len(list))
	}
	rec = doJSON(t, h, http.MethodGet, "/api/courses/c9/assessments?userId=u1", nil)
	if list := decode[[]domain.Assessment](t, rec); len(list) != 1 || list[0].ID != courseEnd.ID {
		t.Fatalf("unexpected course listing %+v", list)
	}
	rec = doJSON(t, h, http.MethodGet, "/api/courses/c9/assessments?userId=u2", nil)
	if list := decode[[]domain.Assessment](t, rec); len(list) != 0 {
		t.Fatalf("expected empty listing, got %+v", list)
	}
}

func TestStatusFor(t *testing.T) {
	cases := map[error]int{
		domain.ErrSessionNotFound:                   http.StatusNotFound,
		domain.ErrInvalidRequest:                    http.StatusBadRequest,
		&domain.MalformedQuestionSetError{Index: 0}: http.StatusBadGateway,
		domain.ErrNotOnLastQuestion:                 http.StatusConflict,
		domain.ErrInvalidTransition:                 http.StatusConflict,
		errors.New("boom"):                          http.StatusInternalServerError,
	}
	for err, want := range cases {
		if got := statusFor(err); got != want {
			t.Fatalf("%v: expected %d, got %d", err, want, got)
		}
	}
}
