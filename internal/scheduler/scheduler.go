package scheduler

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"yqhp/gateway-bench/pkg/logger"
	"yqhp/gateway-bench/pkg/types"
)

// TargetFunc performs one request of the target operation.
// A nil error classifies the attempt as a success.
type TargetFunc func(ctx context.Context) error

// Recorder receives the outcome of every completed attempt.
type Recorder interface {
	Record(outcome types.RequestOutcome)
}

// Config contains the scheduler configuration.
type Config struct {
	// Concurrency is the number of workers (C).
	Concurrency int

	// Duration is the wall-clock length of the load phase (D).
	Duration time.Duration

	// Rate paces task submission in tasks per second. Zero disables pacing.
	Rate float64

	// ProgressInterval enables periodic progress logging when positive.
	ProgressInterval time.Duration

	// Progress reports completed attempts for progress logging.
	Progress func() int64

	// OnStateChange is called on every state transition.
	OnStateChange func(from, to State)
}

// RunStats describes a finished run.
type RunStats struct {
	StartTime time.Time
	EndTime   time.Time
	// Elapsed is measured from the Idle -> Running transition to Stopped.
	Elapsed time.Duration
	// Batches is the number of batches dispatched.
	Batches int
	// Submitted is the number of tasks handed to workers.
	Submitted int64
}

// Scheduler drives the load phase. A Scheduler runs exactly once.
type Scheduler struct {
	config   Config
	recorder Recorder
	log      *zap.Logger

	state atomic.Int32
}

// New creates a new scheduler in the Idle state.
func New(config Config, recorder Recorder, log *zap.Logger) *Scheduler {
	return &Scheduler{
		config:   config,
		recorder: recorder,
		log:      logger.OrNop(log).Named("scheduler"),
	}
}

// State returns the current lifecycle state.
func (s *Scheduler) State() State {
	return State(s.state.Load())
}

// BatchSize returns the number of tasks dispatched per batch (2×C).
func (s *Scheduler) BatchSize() int {
	return 2 * s.config.Concurrency
}

// Validate checks the configuration.
func (s *Scheduler) Validate() error {
	if s.config.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}
	if s.config.Duration <= 0 {
		return ErrInvalidDuration
	}
	if s.config.Rate < 0 {
		return ErrInvalidRate
	}
	if s.recorder == nil {
		return ErrNilRecorder
	}
	return nil
}

// Run executes the load phase and blocks until the Stopped state is reached.
//
// Cancelling ctx ends the Running state early the same way the deadline does:
// no further batches are dispatched and in-flight attempts are awaited. The
// cancellation is never propagated into an attempt that has already started.
func (s *Scheduler) Run(ctx context.Context, target TargetFunc) (*RunStats, error) {
	if target == nil {
		return nil, ErrNilTarget
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if !s.state.CompareAndSwap(int32(StateIdle), int32(StateRunning)) {
		return nil, ErrAlreadyStarted
	}

	batchSize := s.BatchSize()
	tasks := make(chan *sync.WaitGroup, batchSize)
	taskCtx := context.WithoutCancel(ctx)

	var workers sync.WaitGroup
	for i := 0; i < s.config.Concurrency; i++ {
		workers.Add(1)
		go func() {
			defer workers.Done()
			s.worker(taskCtx, tasks, target)
		}()
	}

	stats := &RunStats{StartTime: time.Now()}
	deadline := stats.StartTime.Add(s.config.Duration)
	s.notify(StateIdle, StateRunning)
	s.log.Info("load phase started",
		zap.Int("concurrency", s.config.Concurrency),
		zap.Duration("duration", s.config.Duration),
		zap.Int("batch_size", batchSize),
		zap.Float64("rate", s.config.Rate))

	stopProgress := s.startProgress()

	dispatchCtx, cancelDispatch := context.WithDeadline(ctx, deadline)
	limiter := s.newLimiter()

	for !s.expired(ctx, deadline) {
		var batch sync.WaitGroup
		dispatched := 0
		throttled := false
		for dispatched < batchSize {
			if s.expired(ctx, deadline) {
				break
			}
			if limiter != nil {
				// Wait fails fast when the next token would arrive after the deadline.
				if err := limiter.Wait(dispatchCtx); err != nil {
					throttled = true
					break
				}
			}
			batch.Add(1)
			tasks <- &batch
			dispatched++
		}
		if dispatched > 0 {
			stats.Batches++
			stats.Submitted += int64(dispatched)
		}

		if s.expired(ctx, deadline) {
			s.transition(StateRunning, StateDraining)
		}
		batch.Wait()

		if throttled {
			sleepUntil(ctx, deadline)
		}
	}
	cancelDispatch()

	// The loop may also exit on the post-batch check with nothing in flight.
	s.transition(StateRunning, StateDraining)
	close(tasks)
	workers.Wait()
	stopProgress()

	stats.EndTime = time.Now()
	stats.Elapsed = stats.EndTime.Sub(stats.StartTime)
	s.transition(StateDraining, StateStopped)

	s.log.Info("load phase stopped",
		zap.Duration("elapsed", stats.Elapsed),
		zap.Int("batches", stats.Batches),
		zap.Int64("submitted", stats.Submitted))

	return stats, nil
}

// worker executes tasks until the task channel is closed.
func (s *Scheduler) worker(ctx context.Context, tasks <-chan *sync.WaitGroup, target TargetFunc) {
	for batch := range tasks {
		s.execute(ctx, target)
		batch.Done()
	}
}

// execute runs one attempt, measures it and records the outcome.
func (s *Scheduler) execute(ctx context.Context, target TargetFunc) {
	start := time.Now()
	err := call(ctx, target)
	latency := time.Since(start)

	if err != nil {
		s.recorder.Record(types.Failure())
		return
	}
	s.recorder.Record(types.Success(latency))
}

// call invokes target and converts a panic into an error so a worker never dies.
func call(ctx context.Context, target TargetFunc) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("target panicked: %v", r)
		}
	}()
	return target(ctx)
}

func (s *Scheduler) expired(ctx context.Context, deadline time.Time) bool {
	return ctx.Err() != nil || !time.Now().Before(deadline)
}

// sleepUntil blocks until the deadline passes or ctx is done.
func sleepUntil(ctx context.Context, deadline time.Time) {
	timer := time.NewTimer(time.Until(deadline))
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

func (s *Scheduler) newLimiter() *rate.Limiter {
	if s.config.Rate <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(s.config.Rate), 1)
}

// transition moves from -> to if the scheduler is currently in from.
func (s *Scheduler) transition(from, to State) {
	if s.state.CompareAndSwap(int32(from), int32(to)) {
		s.notify(from, to)
	}
}

func (s *Scheduler) notify(from, to State) {
	s.log.Debug("state transition", zap.Stringer("from", from), zap.Stringer("to", to))
	if s.config.OnStateChange != nil {
		s.config.OnStateChange(from, to)
	}
}

// startProgress logs completed attempts periodically and returns a stop function.
func (s *Scheduler) startProgress() func() {
	if s.config.ProgressInterval <= 0 || s.config.Progress == nil {
		return func() {}
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(s.config.ProgressInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.log.Info("progress",
					zap.Stringer("state", s.State()),
					zap.Int64("completed", s.config.Progress()))
			case <-stop:
				return
			}
		}
	}()

	return func() {
		close(stop)
		<-done
	}
}
