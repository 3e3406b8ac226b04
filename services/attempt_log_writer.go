// Package services provides business logic implementations.
package services

import (
	"context"
	"sync"
	"time"

	"github.com/NomadCrew/vacation-recommender/config"
	"github.com/NomadCrew/vacation-recommender/internal/store"
	"github.com/NomadCrew/vacation-recommender/logger"
	"github.com/NomadCrew/vacation-recommender/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

const attemptWriteTimeout = 5 * time.Second

// AttemptLogWriter persists attempt records in the background so a slow or
// absent database never delays a generation run. It implements
// recommendation.AttemptObserver.
type AttemptLogWriter struct {
	store   store.AttemptStore
	queue   chan types.GenerationAttempt
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
	logger  *zap.SugaredLogger
	metrics *attemptLogMetrics
	config  config.WorkerPoolConfig
	mu      sync.RWMutex
	running bool
}

type attemptLogMetrics struct {
	queueDepth    prometheus.Gauge
	written       prometheus.Counter
	dropped       prometheus.Counter
	errorCount    prometheus.Counter
	writeDuration prometheus.Histogram
}

// Singleton pattern for metrics (avoid double registration in tests).
var (
	alMetricsInstance *attemptLogMetrics
	alMetricsOnce     sync.Once
	alDefaultRegistry = prometheus.DefaultRegisterer
)

func newAttemptLogMetrics() *attemptLogMetrics {
	alMetricsOnce.Do(func() {
		alMetricsInstance = &attemptLogMetrics{
			queueDepth: promauto.With(alDefaultRegistry).NewGauge(prometheus.GaugeOpts{
				Name: "attempt_log_queue_depth",
				Help: "Attempt records waiting to be written",
			}),
			written: promauto.With(alDefaultRegistry).NewCounter(prometheus.CounterOpts{
				Name: "attempt_log_written_total",
				Help: "Attempt records written to the store",
			}),
			dropped: promauto.With(alDefaultRegistry).NewCounter(prometheus.CounterOpts{
				Name: "attempt_log_dropped_total",
				Help: "Attempt records dropped because the queue was full or closed",
			}),
			errorCount: promauto.With(alDefaultRegistry).NewCounter(prometheus.CounterOpts{
				Name: "attempt_log_errors_total",
				Help: "Attempt records the store rejected",
			}),
			writeDuration: promauto.With(alDefaultRegistry).NewHistogram(prometheus.HistogramOpts{
				Name:    "attempt_log_write_duration_seconds",
				Help:    "Time taken to write one attempt record",
				Buckets: []float64{.005, .01, .05, .1, .25, .5, 1, 2.5, 5},
			}),
		}
	})
	return alMetricsInstance
}

// resetAttemptLogMetricsForTesting resets the metrics singleton for test isolation.
func resetAttemptLogMetricsForTesting() {
	alDefaultRegistry = prometheus.NewRegistry()
	alMetricsInstance = nil
	alMetricsOnce = sync.Once{}
}

// NewAttemptLogWriter creates a writer. It must be started before records
// are accepted.
func NewAttemptLogWriter(s store.AttemptStore, cfg config.WorkerPoolConfig) *AttemptLogWriter {
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = 1
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &AttemptLogWriter{
		store:   s,
		queue:   make(chan types.GenerationAttempt, cfg.QueueSize),
		ctx:     ctx,
		cancel:  cancel,
		logger:  logger.GetLogger().Named("attempt-log"),
		metrics: newAttemptLogMetrics(),
		config:  cfg,
	}
}

// Start launches the workers. Calling it again is a no-op.
func (w *AttemptLogWriter) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		w.logger.Warn("Attempt log writer already running")
		return
	}
	w.running = true

	w.logger.Infow("Starting attempt log writer",
		"maxWorkers", w.config.MaxWorkers,
		"queueSize", w.config.QueueSize)

	for i := 0; i < w.config.MaxWorkers; i++ {
		w.wg.Add(1)
		go w.worker(i)
	}
}

func (w *AttemptLogWriter) worker(id int) {
	defer w.wg.Done()

	for attempt := range w.queue {
		w.metrics.queueDepth.Dec()
		w.write(id, attempt)
	}
}

func (w *AttemptLogWriter) write(workerID int, a types.GenerationAttempt) {
	start := time.Now()

	// w.ctx ends only when a shutdown times out.
	ctx, cancel := context.WithTimeout(w.ctx, attemptWriteTimeout)
	defer cancel()

	if err := w.store.SaveAttempt(ctx, a); err != nil {
		w.metrics.errorCount.Inc()
		w.logger.Errorw("Failed to persist generation attempt",
			"runId", a.RunID,
			"attempt", a.Attempt,
			"workerId", workerID,
			"error", err)
	} else {
		w.metrics.written.Inc()
	}
	w.metrics.writeDuration.Observe(time.Since(start).Seconds())
}

// ObserveAttempt queues a record without blocking. Records are dropped when
// the queue is full or the writer is stopped.
func (w *AttemptLogWriter) ObserveAttempt(_ context.Context, a types.GenerationAttempt) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if !w.running {
		w.metrics.dropped.Inc()
		return
	}

	select {
	case w.queue <- a:
		w.metrics.queueDepth.Inc()
	default:
		w.metrics.dropped.Inc()
		w.logger.Warnw("Attempt record dropped, queue full",
			"runId", a.RunID,
			"attempt", a.Attempt,
			"queueSize", w.config.QueueSize)
	}
}

// Shutdown stops accepting records and waits for queued ones to be written.
// It returns ctx.Err() if the context ends first.
func (w *AttemptLogWriter) Shutdown(ctx context.Context) error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	close(w.queue)
	w.mu.Unlock()

	w.logger.Info("Draining attempt log writer...")

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		w.cancel()
		w.logger.Info("Attempt log writer stopped")
		return nil
	case <-ctx.Done():
		w.cancel()
		w.logger.Warn("Attempt log writer shutdown timed out, some records may be lost")
		return ctx.Err()
	}
}

// QueueDepth returns the number of records waiting to be written.
func (w *AttemptLogWriter) QueueDepth() int {
	return len(w.queue)
}

func (w *AttemptLogWriter) IsRunning() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.running
}
