package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"quickquiz/internal/quiz"
)

func seededItems() []quiz.Item {
	build := func(text string, correct int) quiz.Item {
		options := []string{text + " a", text + " b", text + " c", text + " d"}
		id := quiz.MakeQuestionID(text, options)
		return quiz.Item{
			Question: quiz.Question{ID: id, Text: text, Options: options},
			Answer:   quiz.Answer{QuestionID: id, CorrectOptionIndex: correct, Reasoning: "because " + text},
		}
	}
	return []quiz.Item{
		build("q1", 1),
		build("q2", 0),
		build("q3", 3),
		build("q4", 2),
		build("q5", 1),
		build("q6", 0),
		build("q7", 2),
	}
}

func newTestRouter(t *testing.T) (http.Handler, []quiz.Item) {
	t.Helper()

	store := quiz.NewMemoryStore()
	items := seededItems()
	if err := store.SaveItems(context.Background(), items); err != nil {
		t.Fatalf("SaveItems failed: %v", err)
	}
	service := quiz.NewService(store, store, zerolog.Nop())
	return NewRouter(service, zerolog.Nop(), RouterOptions{LogBodyBytes: 128}), items
}

func serve(handler http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHandleQuestionsReturnsAtMostFiveWithoutAnswers(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := serve(router, http.MethodGet, "/api/questions", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	body := rec.Body.String()
	if strings.Contains(body, "correctOptionIndex") || strings.Contains(body, "reasoning") {
		t.Fatalf("questions payload leaked answer data: %s", body)
	}

	var payload questionsResponse
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(payload.Questions) != quiz.SampleSize {
		t.Fatalf("expected %d questions, got %d", quiz.SampleSize, len(payload.Questions))
	}
	seen := make(map[string]bool)
	for _, question := range payload.Questions {
		if seen[question.ID] {
			t.Fatalf("duplicate question %s in sample", question.ID)
		}
		seen[question.ID] = true
		if len(question.Options) != quiz.OptionCount {
			t.Fatalf("unexpected options: %+v", question)
		}
	}
}

func TestHandleAnswer(t *testing.T) {
	router, items := newTestRouter(t)

	rec := serve(router, http.MethodGet, "/api/answers/"+items[2].Question.ID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var payload answerResponse
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.CorrectOptionIndex != 3 || payload.Reasoning != "because q3" {
		t.Fatalf("unexpected answer payload: %+v", payload)
	}
}

func TestHandleAnswerErrors(t *testing.T) {
	router, _ := newTestRouter(t)

	tests := []struct {
		name   string
		target string
		status int
		error  string
	}{
		{name: "malformed id", target: "/api/answers/not-a-uuid", status: http.StatusBadRequest, error: "invalid id"},
		{name: "unknown id", target: "/api/answers/" + quiz.MakeQuestionID("missing", nil), status: http.StatusNotFound, error: "not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(router, http.MethodGet, tt.target, "")
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			var payload errorResponse
			if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if payload.Error != tt.error {
				t.Fatalf("error = %q, want %q", payload.Error, tt.error)
			}
		})
	}
}

func TestHandleScore(t *testing.T) {
	router, items := newTestRouter(t)
	q1 := items[0].Question.ID
	q2 := items[1].Question.ID

	tests := []struct {
		name string
		body string
		want int
	}{
		{name: "half right", body: `{"answers":[{"questionId":"` + q1 + `","selectedIndex":1},{"questionId":"` + q2 + `","selectedIndex":2}]}`, want: 50},
		{name: "duplicates count per entry", body: `{"answers":[{"questionId":"` + q1 + `","selectedIndex":1},{"questionId":"` + q1 + `","selectedIndex":1}]}`, want: 100},
		{name: "malformed id counts as wrong", body: `{"answers":[{"questionId":"` + q1 + `","selectedIndex":1},{"questionId":"nope","selectedIndex":0}]}`, want: 50},
		{name: "empty answers", body: `{"answers":[]}`, want: 0},
		{name: "missing answers", body: `{}`, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(router, http.MethodPost, "/api/score", tt.body)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, http.StatusOK, rec.Body.String())
			}
			var payload scoreResponse
			if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if payload.Percentage != tt.want {
				t.Fatalf("percentage = %d, want %d", payload.Percentage, tt.want)
			}
		})
	}
}

func TestHandleScoreRejectsBadBodies(t *testing.T) {
	router, items := newTestRouter(t)
	q1 := items[0].Question.ID

	rec := serve(router, http.MethodPost, "/api/score", `{"answers":`)
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), "invalid JSON body") {
		t.Fatalf("unexpected malformed JSON response: %d %s", rec.Code, rec.Body.String())
	}

	rec = serve(router, http.MethodPost, "/api/score", `{"answers":[{"questionId":"`+q1+`","selectedIndex":7}]}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	var payload errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if _, ok := payload.Fields["answers[0].selectedIndex"]; !ok {
		t.Fatalf("expected field error for selectedIndex, got %+v", payload)
	}

	rec = serve(router, http.MethodPost, "/api/score", `{"answers":[{"questionId":"`+q1+`"}]}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing selectedIndex status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestWriteMethodNotAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	writeMethodNotAllowed(rec, http.MethodPost)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
	if got := rec.Header().Get("Allow"); got != http.MethodPost {
		t.Fatalf("allow header = %q, want %q", got, http.MethodPost)
	}

	var payload errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Error != "method not allowed" {
		t.Fatalf("error payload = %q", payload.Error)
	}
}

func TestRouterMethodNotAllowed(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := serve(router, http.MethodGet, "/api/score", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
	if got := rec.Header().Get("Allow"); got != http.MethodPost {
		t.Fatalf("allow header = %q, want %q", got, http.MethodPost)
	}
}

func TestHandleQuestionsServiceUnavailable(t *testing.T) {
	api := NewAPI(nil, zerolog.Nop())
	req := httptest.NewRequest(http.MethodGet, "/api/questions", nil)
	rec := httptest.NewRecorder()

	api.HandleQuestions(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
	if !strings.Contains(rec.Body.String(), "quiz service unavailable") {
		t.Fatalf("unexpected response body: %s", rec.Body.String())
	}
}

type failingStore struct {
	quiz.MemoryStore
}

func (*failingStore) SampleQuestions(context.Context, int) ([]quiz.Question, error) {
	return nil, context.DeadlineExceeded
}

func TestHandleQuestionsStoreDown(t *testing.T) {
	store := &failingStore{}
	service := quiz.NewService(store, store, zerolog.Nop())
	router := NewRouter(service, zerolog.Nop(), RouterOptions{})

	rec := serve(router, http.MethodGet, "/api/questions", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
}

func TestHealthz(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := serve(router, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK || !bytes.Contains(rec.Body.Bytes(), []byte(`"ok":true`)) {
		t.Fatalf("unexpected healthz response: %d %s", rec.Code, rec.Body.String())
	}
}
