package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hmrtn/gtc-api/internal/chain"
	"github.com/hmrtn/gtc-api/internal/domain"
)

// Sources holds one page source per entity kind for a single chain
type Sources struct {
	Programs PageSource[domain.Program]
	Rounds   PageSource[domain.Round]
	Projects PageSource[domain.Project]
	Votes    PageSource[domain.Vote]
}

// StageReport describes one completed fetch, tag and load pass
type StageReport struct {
	Kind     domain.Kind   `json:"kind"`
	Pages    int           `json:"pages"`
	Fetched  int           `json:"fetched"`
	Batches  int           `json:"batches"`
	Inserted int64         `json:"inserted"`
	Duration time.Duration `json:"duration"`
}

// RunReport describes a run. On failure Stages holds only the stages that
// completed before the failing one.
type RunReport struct {
	RunID     string        `json:"runId"`
	Chain     chain.Chain   `json:"chain"`
	StartedAt time.Time     `json:"startedAt"`
	Duration  time.Duration `json:"duration"`
	Stages    []StageReport `json:"stages"`
}

// Fetched returns the total number of records fetched across stages
func (r *RunReport) Fetched() int {
	total := 0
	for _, s := range r.Stages {
		total += s.Fetched
	}
	return total
}

// Inserted returns the total number of records added across stages
func (r *RunReport) Inserted() int64 {
	var total int64
	for _, s := range r.Stages {
		total += s.Inserted
	}
	return total
}

// Runner executes ingestion runs
type Runner struct {
	loader   *Loader
	pageSize int
	metrics  *Metrics
	log      *zap.Logger
}

// NewRunner creates a new runner. metrics may be nil.
func NewRunner(loader *Loader, pageSize int, metrics *Metrics, log *zap.Logger) *Runner {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Runner{
		loader:   loader,
		pageSize: pageSize,
		metrics:  metrics,
		log:      log,
	}
}

// Run ingests programs, rounds, projects and votes for c, strictly in that
// order. The first failing stage ends the run with a *StageError and later
// stages are not attempted. Nothing is retried.
func (r *Runner) Run(ctx context.Context, c chain.Chain, src Sources) (*RunReport, error) {
	report := &RunReport{
		RunID:     uuid.NewString(),
		Chain:     c,
		StartedAt: time.Now(),
	}

	log := r.log.With(
		zap.String("run_id", report.RunID),
		zap.String("chain", string(c.Name)),
		zap.String("chain_id", c.ID))

	log.Info("Ingestion run started")

	stages := []struct {
		kind domain.Kind
		run  func() (StageReport, error)
	}{
		{domain.KindProgram, func() (StageReport, error) {
			return runStage(ctx, r, log, c.ID, domain.KindProgram, src.Programs)
		}},
		{domain.KindRound, func() (StageReport, error) {
			return runStage(ctx, r, log, c.ID, domain.KindRound, src.Rounds)
		}},
		{domain.KindProject, func() (StageReport, error) {
			return runStage(ctx, r, log, c.ID, domain.KindProject, src.Projects)
		}},
		{domain.KindVote, func() (StageReport, error) {
			return runStage(ctx, r, log, c.ID, domain.KindVote, src.Votes)
		}},
	}

	for _, stage := range stages {
		stageReport, err := stage.run()
		if err != nil {
			report.Duration = time.Since(report.StartedAt)
			r.metrics.observeRun(string(c.Name), true, report.Duration)
			log.Error("Ingestion run failed",
				zap.String("stage", string(stage.kind)),
				zap.Duration("duration", report.Duration),
				zap.Error(err))
			return report, &StageError{Kind: stage.kind, Err: err}
		}

		report.Stages = append(report.Stages, stageReport)
		r.metrics.observeStage(string(c.Name), stageReport)
	}

	report.Duration = time.Since(report.StartedAt)
	r.metrics.observeRun(string(c.Name), false, report.Duration)

	log.Info("Ingestion run completed",
		zap.Int("fetched", report.Fetched()),
		zap.Int64("inserted", report.Inserted()),
		zap.Duration("duration", report.Duration))

	return report, nil
}

var errNoSource = errors.New("no page source configured")

func runStage[T domain.Record[T]](ctx context.Context, r *Runner, log *zap.Logger, chainID string, kind domain.Kind, src PageSource[T]) (StageReport, error) {
	started := time.Now()
	stage := StageReport{Kind: kind}

	if src == nil {
		return stage, fmt.Errorf("%s: %w", kind.Plural(), errNoSource)
	}

	records, pages, err := FetchAll(ctx, src, r.pageSize)
	stage.Pages = pages
	if err != nil {
		return stage, err
	}
	stage.Fetched = len(records)

	log.Info("Fetched records",
		zap.String("kind", kind.Plural()),
		zap.Int("count", len(records)),
		zap.Int("pages", pages))

	result, err := LoadRecords(ctx, r.loader, kind, Tag(records, chainID))
	stage.Batches = result.Batches
	stage.Inserted = result.Inserted
	if err != nil {
		return stage, err
	}

	stage.Duration = time.Since(started)

	log.Info("Loaded records",
		zap.String("kind", kind.Plural()),
		zap.Int("batches", result.Batches),
		zap.Int64("inserted", result.Inserted),
		zap.Int("skipped", result.Attempted-int(result.Inserted)))

	return stage, nil
}
