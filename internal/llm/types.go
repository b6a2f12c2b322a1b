package llm

// Message is a single chat turn sent to the model.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// API request/response types for OpenAI-compatible chat completions. The
// Azure variant uses the same wire shape behind a different URL and auth
// header.

type chatRequest struct {
	Model          string      `json:"model,omitempty"`
	Messages       []Message   `json:"messages"`
	Temperature    float64     `json:"temperature"`
	ResponseFormat *respFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []chatChoice `json:"choices"`
	Error   *apiError    `json:"error,omitempty"`
}

type chatChoice struct {
	Message Message `json:"message"`
}

type respFormat struct {
	Type string `json:"type"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}
