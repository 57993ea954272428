package userclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"quickquiz/internal/quiz"
)

var ErrServiceUnavailable = errors.New("quiz service unavailable")

type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if strings.TrimSpace(e.Message) == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return e.Message
}

// Unwrap maps the HTTP status back onto the quiz error taxonomy so callers
// can use errors.Is(err, quiz.ErrNotFound) against either a local service or
// this client.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusBadRequest:
		if e.Message == "invalid id" {
			return quiz.ErrInvalidID
		}
		return quiz.ErrInvalidInput
	case http.StatusNotFound:
		return quiz.ErrNotFound
	case http.StatusServiceUnavailable:
		return quiz.ErrUnavailable
	default:
		return nil
	}
}

type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

type questionItem struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	Options []string `json:"options"`
}

type questionsResponse struct {
	Questions []questionItem `json:"questions"`
}

type answerResponse struct {
	CorrectOptionIndex int    `json:"correctOptionIndex"`
	Reasoning          string `json:"reasoning"`
}

type scoreRequest struct {
	Answers []quiz.SubmittedAnswer `json:"answers"`
}

type scoreResponse struct {
	Percentage int `json:"percentage"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func NewHTTPClient(baseURL string, httpClient *http.Client) *HTTPClient {
	baseURL = strings.TrimSpace(baseURL)
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		baseURL = "http://127.0.0.1:8080"
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &HTTPClient{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

func (c *HTTPClient) GetQuestions(ctx context.Context) ([]quiz.Question, error) {
	var payload questionsResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/questions", nil, &payload); err != nil {
		return nil, err
	}

	questions := make([]quiz.Question, 0, len(payload.Questions))
	for _, item := range payload.Questions {
		questions = append(questions, quiz.Question{
			ID:      item.ID,
			Text:    item.Text,
			Options: item.Options,
		})
	}
	return questions, nil
}

func (c *HTTPClient) GetAnswer(ctx context.Context, questionID string) (quiz.Answer, error) {
	if strings.TrimSpace(questionID) == "" {
		return quiz.Answer{}, quiz.ErrInvalidID
	}

	var payload answerResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/answers/"+url.PathEscape(questionID), nil, &payload); err != nil {
		return quiz.Answer{}, err
	}
	return quiz.Answer{
		QuestionID:         questionID,
		CorrectOptionIndex: payload.CorrectOptionIndex,
		Reasoning:          payload.Reasoning,
	}, nil
}

func (c *HTTPClient) SubmitScore(ctx context.Context, answers []quiz.SubmittedAnswer) (int, error) {
	request := scoreRequest{Answers: answers}
	if request.Answers == nil {
		request.Answers = []quiz.SubmittedAnswer{}
	}

	var payload scoreResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/score", request, &payload); err != nil {
		return 0, err
	}
	return payload.Percentage, nil
}

func (c *HTTPClient) doJSON(ctx context.Context, method, path string, requestBody any, responseBody any) error {
	fullURL := c.baseURL + path

	var body io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return err
		}
		body = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return err
	}
	if requestBody != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	defer response.Body.Close()

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		apiErr := APIError{StatusCode: response.StatusCode}
		var payload errorResponse
		if err := json.NewDecoder(response.Body).Decode(&payload); err == nil && strings.TrimSpace(payload.Error) != "" {
			apiErr.Message = payload.Error
		}
		if apiErr.Message == "" {
			apiErr.Message = response.Status
		}
		return &apiErr
	}

	if responseBody == nil {
		return nil
	}
	return json.NewDecoder(response.Body).Decode(responseBody)
}

// DescribeError turns a transport failure into a message naming the server.
func DescribeError(err error, serverURL string) error {
	if errors.Is(err, ErrServiceUnavailable) {
		return fmt.Errorf("quiz service unavailable at %s", serverURL)
	}
	return err
}
