package orchestration

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/agbru/dwsim/internal/config"
	"github.com/agbru/dwsim/internal/dynamics"
	apperrors "github.com/agbru/dwsim/internal/errors"
	"github.com/agbru/dwsim/internal/logging"
	"github.com/agbru/dwsim/internal/metrics"
	"github.com/agbru/dwsim/internal/progress"
)

// MockResultPresenter records what it was asked to present.
type MockResultPresenter struct {
	mu      sync.Mutex
	batches []Batch
}

func (m *MockResultPresenter) PresentBatch(batch Batch, _ PresentationOptions, _ io.Writer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batches = append(m.batches, batch)
}

// MockErrorHandler returns a fixed exit code and records the error.
type MockErrorHandler struct {
	code int
	err  error
}

func (m *MockErrorHandler) HandleError(err error, _ time.Duration, _ io.Writer) int {
	m.err = err
	return m.code
}

// recordingReporter keeps every update it receives.
type recordingReporter struct {
	updates []progress.ProgressUpdate
	numRuns int
}

func (r *recordingReporter) DisplayProgress(ch <-chan progress.ProgressUpdate, numRuns int, _ io.Writer) {
	r.numRuns = numRuns
	for u := range ch {
		r.updates = append(r.updates, u)
	}
}

func sequentialIDs() func() string {
	var n int
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func smallConfig() config.AppConfig {
	cfg := config.Default()
	cfg.Agents = 30
	cfg.PairsPerStep = 5
	cfg.Epsilon = 0.3
	cfg.Steps = 200
	cfg.Mu = 0.5
	cfg.Seed = 11
	return cfg
}

func TestRunner_Execute(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		runs        int
		recordEvery int
		wantSnaps   int
	}{
		{"single run", 1, 0, 0},
		{"replicas", 3, 0, 0},
		{"recorded history", 2, 50, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := smallConfig()
			cfg.Runs = tt.runs
			cfg.RecordEvery = tt.recordEvery

			batch := NewRunner(WithIDGenerator(sequentialIDs())).Execute(context.Background(), cfg, NullProgressReporter{}, io.Discard)

			if batch.ID != "id-1" {
				t.Errorf("batch ID = %q", batch.ID)
			}
			if len(batch.Runs) != tt.runs {
				t.Fatalf("got %d runs, want %d", len(batch.Runs), tt.runs)
			}
			if err := batch.FirstError(); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			for k, r := range batch.Runs {
				if r.Seed != cfg.Seed+uint64(k) || r.Index != k {
					t.Errorf("run %d has seed %d index %d", k, r.Seed, r.Index)
				}
				if r.RunID != fmt.Sprintf("id-%d", k+2) {
					t.Errorf("run %d ID = %q", k, r.RunID)
				}
				if len(r.Final) != cfg.Agents || r.Steps != cfg.Steps {
					t.Errorf("run %d: len(Final)=%d Steps=%d", k, len(r.Final), r.Steps)
				}
				if r.Interactions != cfg.Steps*cfg.PairsPerStep {
					t.Errorf("run %d Interactions = %d", k, r.Interactions)
				}
				if r.Clusters < 1 || r.Histogram.Total() != cfg.Agents {
					t.Errorf("run %d: Clusters=%d histogram total=%d", k, r.Clusters, r.Histogram.Total())
				}
				if len(r.Snapshots) != tt.wantSnaps {
					t.Errorf("run %d has %d snapshots, want %d", k, len(r.Snapshots), tt.wantSnaps)
				}
			}
			if batch.Pooled.Total() != tt.runs*cfg.Agents {
				t.Errorf("pooled total = %d, want %d", batch.Pooled.Total(), tt.runs*cfg.Agents)
			}
		})
	}
}

func TestRunner_ReplicaMatchesSingleRun(t *testing.T) {
	t.Parallel()
	cfg := smallConfig()
	cfg.Runs = 3
	batch := NewRunner().Execute(context.Background(), cfg, NullProgressReporter{}, io.Discard)

	engine, err := dynamics.New(cfg.Simulation().WithSeed(cfg.Seed + 2))
	if err != nil {
		t.Fatal(err)
	}
	want, err := engine.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(batch.Runs[2].Final, want) {
		t.Error("replica 2 should reproduce a single run seeded seed+2")
	}
}

func TestRunner_ReportsProgress(t *testing.T) {
	t.Parallel()
	cfg := smallConfig()
	cfg.Runs = 2
	reporter := &recordingReporter{}

	NewRunner().Execute(context.Background(), cfg, reporter, io.Discard)

	if reporter.numRuns != 2 {
		t.Errorf("reporter told numRuns=%d", reporter.numRuns)
	}
	completed := map[int]bool{}
	for _, u := range reporter.updates {
		if u.Value == 1 {
			completed[u.RunIndex] = true
		}
		if u.Opinions != nil {
			t.Error("opinions attached without WithLiveOpinions")
		}
	}
	if !completed[0] || !completed[1] {
		t.Errorf("every replica should report completion, got %v", completed)
	}
}

func TestRunner_LiveOpinions(t *testing.T) {
	t.Parallel()
	cfg := smallConfig()
	reporter := &recordingReporter{}

	NewRunner(WithLiveOpinions()).Execute(context.Background(), cfg, reporter, io.Discard)

	last := reporter.updates[len(reporter.updates)-1]
	if len(last.Opinions) != cfg.Agents {
		t.Errorf("final update carries %d opinions, want %d", len(last.Opinions), cfg.Agents)
	}
}

func TestRunner_Canceled(t *testing.T) {
	t.Parallel()
	cfg := smallConfig()
	cfg.Runs = 4
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	batch := NewRunner().Execute(ctx, cfg, NullProgressReporter{}, io.Discard)

	if len(batch.Runs) != 1 {
		t.Fatalf("remaining replicas should not start, got %d runs", len(batch.Runs))
	}
	err := batch.FirstError()
	var simErr apperrors.SimulationError
	if !errors.As(err, &simErr) || !errors.Is(err, context.Canceled) {
		t.Fatalf("expected a canceled SimulationError, got %v", err)
	}
	if batch.Runs[0].Final != nil {
		t.Error("a canceled replica has no final vector")
	}

	presenter := &MockResultPresenter{}
	handler := &MockErrorHandler{code: apperrors.ExitErrorCanceled}
	if code := AnalyzeResults(batch, PresentationOptions{}, presenter, handler, io.Discard); code != apperrors.ExitErrorCanceled {
		t.Errorf("exit code = %d", code)
	}
	if len(presenter.batches) != 0 || handler.err == nil {
		t.Error("failed batches go to the error handler only")
	}
}

func TestAnalyzeResults_Success(t *testing.T) {
	t.Parallel()
	batch := NewRunner().Execute(context.Background(), smallConfig(), NullProgressReporter{}, io.Discard)
	presenter := &MockResultPresenter{}
	handler := &MockErrorHandler{code: 99}

	if code := AnalyzeResults(batch, PresentationOptions{Bins: 20}, presenter, handler, io.Discard); code != apperrors.ExitSuccess {
		t.Errorf("exit code = %d", code)
	}
	if len(presenter.batches) != 1 || handler.err != nil {
		t.Errorf("presenter calls=%d handler err=%v", len(presenter.batches), handler.err)
	}
}

func TestRunner_LogsAndMetrics(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	logger := logging.NewStdLoggerAdapter(log.New(&buf, "", 0))
	m := metrics.New()
	cfg := smallConfig()
	cfg.Mu = 0.8
	cfg.Runs = 2

	NewRunner(WithLogger(logger), WithMetrics(m)).Execute(context.Background(), cfg, NullProgressReporter{}, io.Discard)

	logs := buf.String()
	for _, want := range []string{"[INFO] simulation started", "[WARN] mu above 0.5", "[INFO] simulation finished", "status=success"} {
		if !strings.Contains(logs, want) {
			t.Errorf("logs should contain %q:\n%s", want, logs)
		}
	}

	families, err := m.Registry().Gather()
	if err != nil {
		t.Fatal(err)
	}
	var steps float64
	for _, f := range families {
		if f.GetName() == "dwsim_steps_total" {
			steps = f.GetMetric()[0].GetCounter().GetValue()
		}
	}
	if steps != float64(cfg.Runs*cfg.Steps) {
		t.Errorf("dwsim_steps_total = %v, want %d", steps, cfg.Runs*cfg.Steps)
	}
}

func TestBatch_Document(t *testing.T) {
	t.Parallel()
	cfg := smallConfig()
	cfg.Runs = 2
	batch := NewRunner(WithIDGenerator(sequentialIDs())).Execute(context.Background(), cfg, NullProgressReporter{}, io.Discard)
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	doc := batch.Document(created)
	if doc.BatchID != "id-1" || !doc.CreatedAt.Equal(created) || doc.Params != cfg.Simulation() {
		t.Errorf("unexpected header %+v", doc)
	}
	if len(doc.Runs) != 2 || doc.Runs[1].RunID != "id-3" || len(doc.Runs[1].Final) != cfg.Agents {
		t.Errorf("unexpected runs %+v", doc.Runs)
	}
}

// TestRunner_NoDeadlock_SlowReporter verifies that a reporter slower than
// the engine never stalls the batch.
func TestRunner_NoDeadlock_SlowReporter(t *testing.T) {
	t.Parallel()
	cfg := smallConfig()
	cfg.Steps = 20000
	cfg.Runs = 2
	slow := ProgressReporterFunc(func(ch <-chan progress.ProgressUpdate, _ int, _ io.Writer) {
		for range ch {
			time.Sleep(time.Millisecond)
		}
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		NewRunner().Execute(context.Background(), cfg, slow, io.Discard)
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("DEADLOCK: Execute did not complete within timeout")
	}
}
