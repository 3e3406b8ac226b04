package recommendation

import (
	"context"
	"fmt"
	"math"
	"time"

	apperrors "github.com/NomadCrew/vacation-recommender/errors"
	"github.com/NomadCrew/vacation-recommender/logger"
	"github.com/NomadCrew/vacation-recommender/types"
	"go.uber.org/zap"
)

const (
	DefaultMaxAttempts = 3
	DefaultBaseDelay   = time.Second
	DefaultMaxDelay    = 3 * time.Second

	// Bytes of model text kept in logs and attempt records.
	excerptLen = 500

	RunResultSuccess   = "success"
	RunResultExhausted = "exhausted"
)

// Completer returns the raw text of one chat completion.
type Completer interface {
	Complete(ctx context.Context, req types.CompletionRequest) (string, error)
}

// AttemptObserver receives a record of every attempt, successful or not.
// Implementations must not block the run.
type AttemptObserver interface {
	ObserveAttempt(ctx context.Context, attempt types.GenerationAttempt)
}

// RetryPolicy bounds a run. The wait after failed attempt k is
// min(BaseDelay * 2^(k-1), MaxDelay).
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: DefaultMaxAttempts,
		BaseDelay:   DefaultBaseDelay,
		MaxDelay:    DefaultMaxDelay,
	}
}

// NextDelay returns the wait after failed attempt k (1-based).
func (p RetryPolicy) NextDelay(k int) time.Duration {
	if k < 1 {
		k = 1
	}
	d := p.BaseDelay
	for i := 1; i < k; i++ {
		if p.MaxDelay > 0 && d >= p.MaxDelay {
			break
		}
		if d > math.MaxInt64/2 {
			d = math.MaxInt64
			break
		}
		d *= 2
	}
	if p.MaxDelay > 0 && d > p.MaxDelay {
		return p.MaxDelay
	}
	return d
}

// State is the orchestrator's position in a run.
type State int

const (
	StateAttempting State = iota
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateAttempting:
		return "attempting"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ExhaustedRetriesError is the single error a run returns after its last
// failed attempt.
type ExhaustedRetriesError struct {
	RunID    string
	Attempts int
	LastKind apperrors.ErrorType
	Last     error
}

func (e *ExhaustedRetriesError) Error() string {
	return fmt.Sprintf("recommendation generation failed after %d attempt(s), last error %s: %v",
		e.Attempts, e.LastKind, e.Last)
}

func (e *ExhaustedRetriesError) Unwrap() error {
	return e.Last
}

// AppError converts the failure into the client-facing RETRIES_EXHAUSTED
// error. The attempt errors are kept as its cause.
func (e *ExhaustedRetriesError) AppError() *apperrors.AppError {
	return apperrors.RetriesExhausted(e.RunID, e)
}

// Result is a successful run.
type Result struct {
	RunID           string
	Attempts        int
	Recommendations []types.VacationRecommendation
}

// Orchestrator drives a run through its attempts. It holds no per-run state,
// so one instance serves concurrent runs.
type Orchestrator struct {
	completer  Completer
	prompts    *PromptBuilder
	validator  *Validator
	normalizer *Normalizer
	policy     RetryPolicy
	observers  []AttemptObserver
	metrics    *Metrics
	sleep      func(ctx context.Context, d time.Duration) error
	now        func() time.Time
	log        *zap.SugaredLogger
}

type Option func(*Orchestrator)

func WithRetryPolicy(p RetryPolicy) Option {
	return func(o *Orchestrator) {
		if p.MaxAttempts < 1 {
			p.MaxAttempts = 1
		}
		o.policy = p
	}
}

// WithSleep replaces the backoff wait. The function must return ctx.Err()
// when the context ends first.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(o *Orchestrator) {
		o.sleep = sleep
	}
}

func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		o.now = now
	}
}

func WithObserver(obs AttemptObserver) Option {
	return func(o *Orchestrator) {
		if obs != nil {
			o.observers = append(o.observers, obs)
		}
	}
}

// WithMetrics records attempts and run results on m.
func WithMetrics(m *Metrics) Option {
	return func(o *Orchestrator) {
		if m != nil {
			o.metrics = m
			o.observers = append(o.observers, m)
		}
	}
}

func NewOrchestrator(completer Completer, prompts *PromptBuilder, validator *Validator, normalizer *Normalizer, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		completer:  completer,
		prompts:    prompts,
		validator:  validator,
		normalizer: normalizer,
		policy:     DefaultRetryPolicy(),
		sleep:      sleepContext,
		now:        time.Now,
		log:        logger.GetLogger().Named("orchestrator"),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Policy returns the retry bounds in effect.
func (o *Orchestrator) Policy() RetryPolicy {
	return o.policy
}

// Run generates one batch. It returns either exactly BatchSize validated
// records or an *ExhaustedRetriesError. A context that ends during backoff
// stops the run with the context's error.
func (o *Orchestrator) Run(ctx context.Context, runID string, prefs types.UserPreferences) (*Result, error) {
	started := o.now()
	state := StateAttempting
	attempt := 1

	var (
		recs []types.VacationRecommendation
		last error
	)

	for {
		switch state {
		case StateAttempting:
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("run %s stopped before attempt %d: %w", runID, attempt, err)
			}

			recs, last = o.attempt(ctx, runID, attempt, prefs)
			if last == nil {
				state = StateSucceeded
				continue
			}
			if attempt >= o.policy.MaxAttempts {
				state = StateFailed
				continue
			}

			delay := o.policy.NextDelay(attempt)
			o.log.Infow("Retrying generation after backoff",
				"runId", runID,
				"failedAttempt", attempt,
				"delay", delay)
			if err := o.sleep(ctx, delay); err != nil {
				return nil, fmt.Errorf("run %s stopped during backoff after attempt %d: %w", runID, attempt, err)
			}
			attempt++

		case StateSucceeded:
			o.metrics.ObserveRun(RunResultSuccess, attempt, o.now().Sub(started))
			o.log.Infow("Generation succeeded",
				"runId", runID,
				"attempts", attempt,
				"count", len(recs))
			return &Result{RunID: runID, Attempts: attempt, Recommendations: recs}, nil

		case StateFailed:
			o.metrics.ObserveRun(RunResultExhausted, attempt, o.now().Sub(started))
			kind := apperrors.KindOf(last)
			o.log.Warnw("Generation exhausted retries",
				"runId", runID,
				"attempts", attempt,
				"lastKind", kind,
				"error", last)
			return nil, &ExhaustedRetriesError{RunID: runID, Attempts: attempt, LastKind: kind, Last: last}
		}
	}
}

// attempt runs one full pass of the pipeline and reports it to observers.
func (o *Orchestrator) attempt(ctx context.Context, runID string, k int, prefs types.UserPreferences) ([]types.VacationRecommendation, error) {
	req := o.prompts.Build(prefs, k)

	start := o.now()
	raw, err := o.completer.Complete(ctx, req)
	record := types.GenerationAttempt{
		RunID:       runID,
		Attempt:     k,
		Temperature: req.Temperature,
		Latency:     o.now().Sub(start),
		CreatedAt:   start,
		RawExcerpt:  logger.Truncate(raw, excerptLen),
	}

	var recs []types.VacationRecommendation
	if err == nil {
		var sanitized string
		recs, sanitized, record.ViolationCount, err = o.parse(raw, prefs)
		record.SanitizedHead = logger.Truncate(sanitized, excerptLen)
	}

	if err != nil {
		record.Outcome = string(apperrors.KindOf(err))
		record.ErrorMessage = err.Error()
		o.log.Warnw("Generation attempt failed",
			"runId", runID,
			"attempt", k,
			"strategy", StrategyFor(k).String(),
			"kind", record.Outcome,
			"violations", record.ViolationCount,
			"raw", record.RawExcerpt,
			"sanitized", record.SanitizedHead,
			"error", err)
	} else {
		record.Outcome = types.AttemptOutcomeSuccess
		o.log.Debugw("Generation attempt succeeded",
			"runId", runID,
			"attempt", k,
			"latency", record.Latency)
	}

	for _, obs := range o.observers {
		obs.ObserveAttempt(ctx, record)
	}
	if err != nil {
		return nil, err
	}
	return recs, nil
}

// parse takes raw model text to a validated batch. It also returns the
// sanitized text and the violation count for diagnostics.
func (o *Orchestrator) parse(raw string, prefs types.UserPreferences) ([]types.VacationRecommendation, string, int, error) {
	sanitized, err := Sanitize(raw)
	if err != nil {
		return nil, "", 0, err
	}

	value, err := Decode(sanitized)
	if err != nil {
		return nil, sanitized, 0, err
	}

	if violations := o.validator.ValidateCandidates(value); len(violations) > 0 {
		return nil, sanitized, len(violations), apperrors.SchemaInvalid(violations)
	}

	recs := o.normalizer.Normalize(value.Items(), prefs)
	if violations := o.validator.ValidateRecommendations(recs); len(violations) > 0 {
		return nil, sanitized, len(violations), apperrors.SchemaInvalid(violations)
	}
	return recs, sanitized, 0, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
