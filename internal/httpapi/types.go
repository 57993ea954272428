package httpapi

type questionsResponse struct {
	Questions []questionResponse `json:"questions"`
}

// questionResponse is the only shape a question leaves the server in. It
// has no answer fields.
type questionResponse struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	Options []string `json:"options"`
}

type answerResponse struct {
	CorrectOptionIndex int    `json:"correctOptionIndex"`
	Reasoning          string `json:"reasoning"`
}

type scoreRequest struct {
	Answers []scoreAnswer `json:"answers" validate:"dive"`
}

// SelectedIndex is a pointer so a missing index is rejected rather than
// read as option 0.
type scoreAnswer struct {
	QuestionID    string `json:"questionId"`
	SelectedIndex *int   `json:"selectedIndex" validate:"required,min=0,max=3"`
}

type scoreResponse struct {
	Percentage int `json:"percentage"`
}

type healthResponse struct {
	OK bool `json:"ok"`
}

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}
