package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"quickquiz/internal/quiz"
)

const maxRequestBodyBytes = 1 << 20

func writeServiceError(w http.ResponseWriter, err error) {
	var validationErr *quiz.ValidationError
	switch {
	case errors.As(err, &validationErr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid input", Fields: validationErr.Fields})
	case errors.Is(err, quiz.ErrInvalidID):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid id"})
	case errors.Is(err, quiz.ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid input"})
	case errors.Is(err, quiz.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	case errors.Is(err, quiz.ErrUnavailable):
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service unavailable"})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "request failed"})
	}
}

func toQuestionResponses(questions []quiz.Question) []questionResponse {
	response := make([]questionResponse, 0, len(questions))
	for _, question := range questions {
		response = append(response, questionResponse{
			ID:      question.ID,
			Text:    question.Text,
			Options: question.Options,
		})
	}
	return response
}

func toSubmittedAnswers(answers []scoreAnswer) []quiz.SubmittedAnswer {
	submitted := make([]quiz.SubmittedAnswer, 0, len(answers))
	for _, answer := range answers {
		item := quiz.SubmittedAnswer{QuestionID: answer.QuestionID}
		if answer.SelectedIndex != nil {
			item.SelectedIndex = *answer.SelectedIndex
		}
		submitted = append(submitted, item)
	}
	return submitted
}

func writeMethodNotAllowed(w http.ResponseWriter, allowedMethod string) {
	w.Header().Set("Allow", allowedMethod)
	writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}
