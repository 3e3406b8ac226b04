package recommendation

import (
	"fmt"
	"time"

	"github.com/NomadCrew/vacation-recommender/config"
)

// NewOrchestratorFromConfig assembles the prompt builder, validator and
// normalizer from configuration. The defaults file, when set, must parse and
// validate. opts are applied after the configured retry policy.
func NewOrchestratorFromConfig(pipeline config.PipelineConfig, completion config.CompletionConfig, completer Completer, opts ...Option) (*Orchestrator, error) {
	defaults := BuiltinDefaults()
	if pipeline.DefaultsFile != "" {
		loaded, err := LoadDefaultsFile(pipeline.DefaultsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load pipeline defaults from %s: %w", pipeline.DefaultsFile, err)
		}
		defaults = loaded
	}

	policy := RetryPolicyFromConfig(pipeline)
	all := append([]Option{WithRetryPolicy(policy)}, opts...)

	return NewOrchestrator(
		completer,
		NewPromptBuilder(pipeline.BatchSize, completion.MaxTokens, ""),
		NewValidator(pipeline.BatchSize),
		NewNormalizer(defaults),
		all...,
	), nil
}

// RetryPolicyFromConfig converts millisecond settings, falling back to the
// defaults for unset values.
func RetryPolicyFromConfig(pipeline config.PipelineConfig) RetryPolicy {
	p := DefaultRetryPolicy()
	if pipeline.MaxAttempts > 0 {
		p.MaxAttempts = pipeline.MaxAttempts
	}
	if pipeline.BaseDelayMs > 0 {
		p.BaseDelay = time.Duration(pipeline.BaseDelayMs) * time.Millisecond
	}
	if pipeline.MaxDelayMs > 0 {
		p.MaxDelay = time.Duration(pipeline.MaxDelayMs) * time.Millisecond
	}
	return p
}
