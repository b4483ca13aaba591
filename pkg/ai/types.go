package ai

import "context"

// CompletionRequest is a single system + user turn sent to a chat model.
type CompletionRequest struct {
	Model       string
	System      string
	User        string
	Temperature float32
}

// Completion is the text returned by the model.
type Completion struct {
	Content          string `json:"content"`
	Model            string `json:"model"`
	PromptTokens     int    `json:"prompt_tokens"`
	CompletionTokens int    `json:"completion_tokens"`
}

// Completer describes a chat model able to answer one prompt.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (Completion, error)
}
