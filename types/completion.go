package types

import "time"

// CompletionRequest is one chat-completion call: instructions plus sampling settings.
// Model is left empty to use the client's configured model.
type CompletionRequest struct {
	Model        string  `json:"model,omitempty"`
	SystemPrompt string  `json:"systemPrompt"`
	UserPrompt   string  `json:"userPrompt"`
	Temperature  float32 `json:"temperature"`
	MaxTokens    int     `json:"maxTokens"`
}

// GenerationAttempt is the diagnostic record of a single orchestration attempt.
type GenerationAttempt struct {
	RunID          string        `json:"runId"`
	Attempt        int           `json:"attempt"`
	Outcome        string        `json:"outcome"`
	ErrorMessage   string        `json:"errorMessage,omitempty"`
	ViolationCount int           `json:"violationCount"`
	RawExcerpt     string        `json:"rawExcerpt,omitempty"`
	SanitizedHead  string        `json:"sanitizedHead,omitempty"`
	Temperature    float32       `json:"temperature"`
	Latency        time.Duration `json:"latency"`
	CreatedAt      time.Time     `json:"createdAt"`
}

// AttemptOutcomeSuccess marks an attempt whose batch passed every stage.
const AttemptOutcomeSuccess = "SUCCESS"
