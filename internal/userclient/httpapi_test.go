package userclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"quickquiz/internal/httpapi"
	"quickquiz/internal/quiz"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func TestDoJSONReturnsServiceUnavailable(t *testing.T) {
	client := NewHTTPClient("http://example.test", &http.Client{
		Transport: roundTripperFunc(func(*http.Request) (*http.Response, error) {
			return nil, errors.New("dial error")
		}),
	})

	err := client.doJSON(context.Background(), http.MethodGet, "/healthz", nil, nil)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !errors.Is(err, ErrServiceUnavailable) {
		t.Fatalf("expected ErrServiceUnavailable wrapper, got %v", err)
	}
	if got := DescribeError(err, client.BaseURL()).Error(); !strings.Contains(got, "http://example.test") {
		t.Fatalf("described error should name the server, got %q", got)
	}
}

func TestDoJSONReturnsAPIErrorMessageFromBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(errorResponse{Error: "bad request payload"})
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, server.Client())
	err := client.doJSON(context.Background(), http.MethodGet, "/anything", nil, nil)
	if err == nil {
		t.Fatalf("expected API error")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T (%v)", err, err)
	}
	if apiErr.StatusCode != http.StatusBadRequest {
		t.Fatalf("status code = %d, want %d", apiErr.StatusCode, http.StatusBadRequest)
	}
	if apiErr.Message != "bad request payload" {
		t.Fatalf("message = %q, want %q", apiErr.Message, "bad request payload")
	}
	if !errors.Is(err, quiz.ErrInvalidInput) {
		t.Fatalf("expected 400 to unwrap to ErrInvalidInput")
	}
}

func TestSubmitScoreSendsAnswers(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/score" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var request scoreRequest
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(request.Answers) != 2 || request.Answers[1].SelectedIndex != 3 {
			t.Errorf("unexpected answers: %+v", request.Answers)
		}
		_ = json.NewEncoder(w).Encode(scoreResponse{Percentage: 50})
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, server.Client())
	got, err := client.SubmitScore(context.Background(), []quiz.SubmittedAnswer{
		{QuestionID: "a", SelectedIndex: 1},
		{QuestionID: "b", SelectedIndex: 3},
	})
	if err != nil {
		t.Fatalf("SubmitScore failed: %v", err)
	}
	if got != 50 {
		t.Fatalf("percentage = %d, want 50", got)
	}
}

// The client and server share one wire contract; run them against each other.
func TestClientAgainstRouter(t *testing.T) {
	store := quiz.NewMemoryStore()
	options := []string{"Mercury", "Venus", "Earth", "Mars"}
	id := quiz.MakeQuestionID("Closest planet to the sun?", options)
	err := store.SaveItems(context.Background(), []quiz.Item{{
		Question: quiz.Question{ID: id, Text: "Closest planet to the sun?", Options: options},
		Answer:   quiz.Answer{QuestionID: id, CorrectOptionIndex: 0, Reasoning: "Mercury orbits closest."},
	}})
	if err != nil {
		t.Fatalf("SaveItems failed: %v", err)
	}

	service := quiz.NewService(store, store, zerolog.Nop())
	server := httptest.NewServer(httpapi.NewRouter(service, zerolog.Nop(), httpapi.RouterOptions{}))
	defer server.Close()

	client := NewHTTPClient(server.URL+"/", server.Client())
	ctx := context.Background()

	questions, err := client.GetQuestions(ctx)
	if err != nil {
		t.Fatalf("GetQuestions failed: %v", err)
	}
	if len(questions) != 1 || questions[0].ID != id || len(questions[0].Options) != 4 {
		t.Fatalf("unexpected questions: %+v", questions)
	}

	answer, err := client.GetAnswer(ctx, id)
	if err != nil {
		t.Fatalf("GetAnswer failed: %v", err)
	}
	if answer.CorrectOptionIndex != 0 || answer.Reasoning != "Mercury orbits closest." {
		t.Fatalf("unexpected answer: %+v", answer)
	}

	if _, err := client.GetAnswer(ctx, "not-a-uuid"); !errors.Is(err, quiz.ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
	if _, err := client.GetAnswer(ctx, quiz.MakeQuestionID("other", nil)); !errors.Is(err, quiz.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	percentage, err := client.SubmitScore(ctx, nil)
	if err != nil || percentage != 0 {
		t.Fatalf("empty SubmitScore = (%d, %v), want (0, nil)", percentage, err)
	}

	percentage, err = client.SubmitScore(ctx, []quiz.SubmittedAnswer{{QuestionID: id, SelectedIndex: 0}})
	if err != nil || percentage != 100 {
		t.Fatalf("SubmitScore = (%d, %v), want (100, nil)", percentage, err)
	}
}
