package orchestration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/agbru/dwsim/internal/config"
	"github.com/agbru/dwsim/internal/dynamics"
	apperrors "github.com/agbru/dwsim/internal/errors"
	"github.com/agbru/dwsim/internal/histogram"
	"github.com/agbru/dwsim/internal/logging"
	"github.com/agbru/dwsim/internal/metrics"
	"github.com/agbru/dwsim/internal/progress"
	"github.com/agbru/dwsim/internal/telemetry"
)

// ProgressBufferSize is the capacity of the progress channel. Intermediate
// updates are dropped rather than blocking the engine when it is full.
const ProgressBufferSize = 64

// Runner executes batches of replicas. The zero value is not usable; create
// one with NewRunner.
type Runner struct {
	logger       logging.Logger
	metrics      *metrics.Metrics
	tracer       *telemetry.Tracer
	gate         *PauseGate
	newID        func() string
	liveOpinions bool
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l logging.Logger) RunnerOption {
	return func(r *Runner) { r.logger = l }
}

// WithMetrics feeds engine steps and replica outcomes to m.
func WithMetrics(m *metrics.Metrics) RunnerOption {
	return func(r *Runner) { r.metrics = m }
}

// WithTracer sets the tracer. The default uses the global provider.
func WithTracer(t *telemetry.Tracer) RunnerOption {
	return func(r *Runner) { r.tracer = t }
}

// WithPauseGate lets the caller pause the engine between steps.
func WithPauseGate(g *PauseGate) RunnerOption {
	return func(r *Runner) { r.gate = g }
}

// WithIDGenerator replaces the UUID generator used for batch and run IDs.
func WithIDGenerator(f func() string) RunnerOption {
	return func(r *Runner) { r.newID = f }
}

// WithLiveOpinions attaches the opinion vector to progress updates so a
// reporter can draw the distribution while it evolves.
func WithLiveOpinions() RunnerOption {
	return func(r *Runner) { r.liveOpinions = true }
}

// NewRunner creates a Runner.
func NewRunner(opts ...RunnerOption) *Runner {
	r := &Runner{
		logger: logging.Nop(),
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.tracer == nil {
		r.tracer = telemetry.NewTracer(nil)
	}
	return r
}

// Execute runs cfg.Runs replicas one after the other, replica k being seeded
// cfg.Seed+k. Progress is streamed to reporter, which runs in its own
// goroutine; both goroutines are joined before Execute returns.
//
// A replica interrupted by ctx carries the error in its RunResult and the
// remaining replicas are not started.
//
// Parameters:
//   - ctx: cancellation and deadline for the whole batch.
//   - cfg: the validated application configuration.
//   - reporter: the progress display (NullProgressReporter for quiet mode).
//   - out: the writer handed to the reporter.
//
// Returns:
//   - Batch: every replica attempted, in order, and the pooled histogram.
func (r *Runner) Execute(ctx context.Context, cfg config.AppConfig, reporter ProgressReporter, out io.Writer) Batch {
	batch := Batch{
		ID:     r.newID(),
		Config: cfg,
		Pooled: histogram.New(nil, cfg.Bins),
	}
	sim := cfg.Simulation()

	ctx, span := r.tracer.StartBatch(ctx, sim, cfg.Runs)
	defer span.End()

	r.logger.Info("simulation started",
		logging.String("batch_id", batch.ID),
		logging.Int("n", sim.Agents),
		logging.Int("m", sim.PairsPerStep),
		logging.Float64("eps", sim.Epsilon),
		logging.Int("t_max", sim.Steps),
		logging.Float64("mu", sim.Mu),
		logging.Uint64("seed", sim.Seed),
		logging.Int("runs", cfg.Runs),
	)
	if sim.Overshoots() {
		r.logger.Warn("mu above 0.5 makes interacting agents overshoot each other",
			logging.Float64("mu", sim.Mu))
	}
	if r.metrics != nil {
		r.metrics.SetAgents(sim.Agents)
	}

	start := time.Now()
	progressChan := make(chan progress.ProgressUpdate, ProgressBufferSize)

	var g errgroup.Group
	g.Go(func() error {
		reporter.DisplayProgress(progressChan, cfg.Runs, out)
		return nil
	})
	g.Go(func() error {
		defer close(progressChan)
		for k := range cfg.Runs {
			res := r.runReplica(ctx, sim.WithSeed(sim.Seed+uint64(k)), k, cfg, progressChan)
			batch.Runs = append(batch.Runs, res)
			if res.Err != nil {
				return nil
			}
			batch.Pooled.Merge(res.Histogram)
		}
		return nil
	})
	_ = g.Wait()
	batch.Duration = time.Since(start)

	if err := batch.FirstError(); err != nil {
		r.logger.Error("simulation interrupted", err,
			logging.String("batch_id", batch.ID),
			logging.Int("completed_runs", len(batch.Succeeded())))
	} else {
		r.logger.Info("simulation finished",
			logging.String("batch_id", batch.ID),
			logging.String("duration", batch.Duration.String()))
	}
	return batch
}

// tally counts interactions and updates over a replica.
type tally struct {
	interactions, updates int
}

func (t *tally) OnStep(stats dynamics.StepStats, _ []float64) {
	t.interactions += stats.Interactions
	t.updates += stats.Updates
}

func (r *Runner) runReplica(ctx context.Context, sim dynamics.Config, index int, cfg config.AppConfig, progressChan chan<- progress.ProgressUpdate) RunResult {
	res := RunResult{RunID: r.newID(), Index: index, Seed: sim.Seed}
	ctx, span := r.tracer.StartRun(ctx, res.RunID, index, sim.Seed)

	var pubOpts []progress.PublisherOption
	if r.liveOpinions {
		pubOpts = append(pubOpts, progress.WithOpinions())
	}
	pub := progress.NewPublisher(progressChan, index, sim.Steps, pubOpts...)
	counts := &tally{}
	opts := []dynamics.Option{dynamics.WithObserver(pub), dynamics.WithObserver(counts)}
	var rec *dynamics.Recorder
	if cfg.RecordEvery > 0 {
		rec = dynamics.NewRecorder(cfg.RecordEvery)
		opts = append(opts, dynamics.WithObserver(rec))
	}
	if r.metrics != nil {
		opts = append(opts, dynamics.WithObserver(r.metrics))
	}
	if r.gate != nil {
		opts = append(opts, dynamics.WithObserver(r.gate))
	}

	start := time.Now()
	engine, err := dynamics.New(sim, opts...)
	if err != nil {
		res.Err = apperrors.ConfigError{Cause: err}
		res.Duration = time.Since(start)
		r.finishReplica(span, res)
		return res
	}

	final, err := engine.Run(ctx)
	res.Duration = time.Since(start)
	res.Steps = engine.StepsDone()
	res.Interactions, res.Updates = counts.interactions, counts.updates
	if rec != nil {
		res.Snapshots = rec.Snapshots()
	}
	if err != nil {
		res.Err = err
		pub.Finish(context.WithoutCancel(ctx), engine.Opinions())
		r.finishReplica(span, res)
		return res
	}

	res.Final = final
	res.Histogram = histogram.New(final, cfg.Bins)
	res.Summary = histogram.Summarize(final)
	res.Clusters = histogram.Clusters(final, sim.Epsilon)
	pub.Finish(ctx, final)
	r.finishReplica(span, res)
	return res
}

func (r *Runner) finishReplica(span trace.Span, res RunResult) {
	telemetry.EndRun(span, res.Clusters, res.Updates, res.Err)

	status := metrics.StatusSuccess
	switch {
	case res.Err == nil:
	case errors.Is(res.Err, context.Canceled), errors.Is(res.Err, context.DeadlineExceeded):
		status = metrics.StatusCanceled
	default:
		status = metrics.StatusFailure
	}
	if r.metrics != nil {
		r.metrics.ObserveRun(status, res.Duration, res.Clusters)
		r.metrics.ObserveMemory(metrics.ReadMemory())
	}

	fields := []logging.Field{
		logging.String("run_id", res.RunID),
		logging.Int("run", res.Index),
		logging.Uint64("seed", res.Seed),
		logging.Int("steps", res.Steps),
		logging.String("status", status),
	}
	if res.Err == nil {
		fields = append(fields, logging.Int("clusters", res.Clusters), logging.Int("updates", res.Updates))
	}
	r.logger.Debug(fmt.Sprintf("replica %d done", res.Index+1), fields...)
}

// AnalyzeResults presents a finished batch and returns the process exit
// code. A batch with a failed replica is reported through handler and no
// result is presented.
func AnalyzeResults(batch Batch, opts PresentationOptions, presenter ResultPresenter, handler ErrorHandler, out io.Writer) int {
	if err := batch.FirstError(); err != nil {
		return handler.HandleError(err, batch.Duration, out)
	}
	presenter.PresentBatch(batch, opts, out)
	return apperrors.ExitSuccess
}
