package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"quickquiz/internal/quiz"
)

func (a *API) HandleQuestions(w http.ResponseWriter, r *http.Request) {
	if a.service == nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "quiz service unavailable"})
		return
	}

	questions, err := a.service.SampleQuestions(r.Context())
	if err != nil {
		a.log.Error().Err(err).Msg("sample questions failed")
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, questionsResponse{
		Questions: toQuestionResponses(questions),
	})
}

func (a *API) HandleAnswer(w http.ResponseWriter, r *http.Request) {
	if a.service == nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "quiz service unavailable"})
		return
	}

	answer, err := a.service.LookupAnswer(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, answerResponse{
		CorrectOptionIndex: answer.CorrectOptionIndex,
		Reasoning:          answer.Reasoning,
	})
}

func (a *API) HandleScore(w http.ResponseWriter, r *http.Request) {
	if a.service == nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "quiz service unavailable"})
		return
	}

	defer r.Body.Close()

	var request scoreRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes))
	if err := decoder.Decode(&request); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	if err := quiz.Validate(request); err != nil {
		writeServiceError(w, err)
		return
	}

	percentage, err := a.service.Score(r.Context(), toSubmittedAnswers(request.Answers))
	if err != nil {
		a.log.Error().Err(err).Int("answers", len(request.Answers)).Msg("score failed")
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, scoreResponse{Percentage: percentage})
}

func (a *API) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{OK: true})
}
