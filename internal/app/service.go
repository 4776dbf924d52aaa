// Package service provides the league service that implements
// the dependencies required by the HTTP API and the report workers.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	eventqueue "github.com/okian/plains/internal/adapters/mq/queue"
	workerpool "github.com/okian/plains/internal/adapters/mq/worker"
	"github.com/okian/plains/internal/adapters/repository"
	"github.com/okian/plains/internal/domain/dedupe"
	"github.com/okian/plains/internal/domain/league"
	"github.com/okian/plains/internal/domain/model"
	"github.com/okian/plains/internal/domain/types"
	"github.com/okian/plains/pkg/logger"
	"github.com/okian/plains/pkg/metrics"
	"github.com/okian/plains/pkg/tracing"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultQueueSize       = 10_000
	defaultWorkerCount     = 1
	defaultMetricsInterval = 5 * time.Second
)

// SubmitOutcome tells what happened to a submitted match report.
type SubmitOutcome string

const (
	// Accepted means the report was queued for application.
	Accepted SubmitOutcome = metrics.ReportAccepted
	// Duplicate means a report with the same id was already seen.
	Duplicate SubmitOutcome = metrics.ReportDuplicate
	// Rejected means the report could not be queued.
	Rejected SubmitOutcome = metrics.ReportRejected
)

// Service owns a League and its standings board and serializes access to
// them. Match reports are applied asynchronously by a worker pool.
type Service struct {
	// mu guards the league and the lifecycle fields below.
	mu sync.Mutex

	league    *league.League
	standings *repository.TreapStore
	deduper   dedupe.Deduper
	queue     *eventqueue.InMemoryQueue
	pool      *workerpool.Pool
	started   bool
	applied   int64 // reports applied by stopped pools
	cancel    context.CancelFunc
	loopDone  chan struct{}

	// Configuration
	maxNodes        int
	queueSize       int
	workerCount     int
	dedupeTTL       time.Duration
	metricsInterval time.Duration

	tracer trace.Tracer
	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		queueSize:       defaultQueueSize,
		workerCount:     defaultWorkerCount,
		dedupeTTL:       dedupe.DefaultTTL,
		metricsInterval: defaultMetricsInterval,
		tracer:          tracing.Noop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start builds a fresh league, standings board, deduper, queue and worker pool.
// Starting a started service is a no-op.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	standings := repository.NewTreapStore()
	s.standings = standings
	s.league = league.New(
		league.WithMaxNodes(s.maxNodes),
		league.WithObserver(func(c league.Change) {
			if c.Retired {
				standings.Remove(context.Background(), c.TeamID)
				return
			}
			standings.Upsert(context.Background(), c.TeamID, c.Record)
		}),
	)
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithTTL(s.dedupeTTL))
	s.queue = eventqueue.NewInMemoryQueue(eventqueue.WithCapacity(s.queueSize))

	// Workers outlive the caller's context; Stop drains and cancels them.
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel
	s.pool = workerpool.NewPool(s.workerCount, s.queue, s, workerpool.WithLogger(s.logger.Named("worker")))
	s.pool.Start(runCtx)

	s.loopDone = make(chan struct{})
	go s.metricsLoop(runCtx, s.queue, s.loopDone)

	s.started = true
	metrics.UpdateQueue(0, s.queue.Cap())
	s.publishLeagueState()
	s.logger.Info(ctx, "league service started",
		logger.Int("max_nodes", s.maxNodes),
		logger.Int("queue_size", s.queueSize),
		logger.Int("workers", s.pool.Size()),
		logger.String("dedupe_ttl", s.dedupeTTL.String()),
	)
	return nil
}

// Stop drains queued reports and tears the components down. Operations
// return ErrNotStarted afterwards.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.started || s.pool == nil {
		s.mu.Unlock()
		return nil
	}
	pool, cancel, loopDone := s.pool, s.cancel, s.loopDone
	s.pool = nil
	s.mu.Unlock()

	s.logger.Info(ctx, "stopping league service...")

	// Workers take mu to apply reports, so drain without holding it.
	err := pool.Drain(ctx)
	if err != nil {
		s.logger.Warn(ctx, "report drain incomplete", logger.Error(err))
		_ = pool.Shutdown(ctx)
	}
	cancel()
	<-loopDone

	s.mu.Lock()
	s.started = false
	s.applied += pool.Processed()
	s.mu.Unlock()

	s.logger.Info(ctx, "league service stopped", logger.Int64("reports_applied", pool.Processed()))
	return err
}

// metricsLoop refreshes the queue and process gauges until ctx is cancelled.
func (s *Service) metricsLoop(ctx context.Context, q *eventqueue.InMemoryQueue, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(s.metricsInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			metrics.UpdateQueue(q.Len(ctx), q.Cap())
			metrics.CollectSystem()
		}
	}
}

// publishLeagueState pushes league population gauges. Callers hold mu.
func (s *Service) publishLeagueState() {
	st := s.league.Stats()
	metrics.UpdateLeagueState(st.LiveTeams, st.RetiredTeams, st.Jockeys, st.RecordValues, st.Nodes)
	metrics.UpdateStandingsSize(s.standings.Count(context.Background()))
}

// apply runs fn against the league under mu inside a span and records the outcome.
func (s *Service) apply(ctx context.Context, op string, mutates bool, fn func(*league.League) league.Output, attrs ...attribute.KeyValue) (league.Output, error) {
	ctx, span := s.tracer.Start(ctx, "league."+op, trace.WithAttributes(attrs...))
	defer span.End()

	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		span.SetStatus(codes.Error, ErrNotStarted.Error())
		return league.Output{}, ErrNotStarted
	}
	start := time.Now()
	out := fn(s.league)
	elapsed := time.Since(start)
	if mutates && out.Status == league.Success {
		s.publishLeagueState()
	}
	s.mu.Unlock()

	metrics.RecordOperation(op, out.Status.String(), elapsed)
	span.SetAttributes(attribute.String("league.status", out.Status.String()))

	switch out.Status {
	case league.Success:
		return out, nil
	case league.Failure:
		return out, fmt.Errorf("%s: %w", op, out.Status.Err())
	case league.AllocationError:
		s.logger.Warn(ctx, "league arena exhausted", logger.String("op", op), logger.Int("max_nodes", s.maxNodes))
	}
	span.SetStatus(codes.Error, out.Status.String())
	return out, fmt.Errorf("%s: %w", op, out.Status.Err())
}

func mutation(fn func(*league.League) league.Status) func(*league.League) league.Output {
	return func(l *league.League) league.Output {
		return league.Output{Status: fn(l)}
	}
}

// AddTeam registers a new team.
func (s *Service) AddTeam(ctx context.Context, teamID int) error {
	_, err := s.apply(ctx, metrics.OpAddTeam, true, mutation(func(l *league.League) league.Status {
		return l.AddTeam(teamID)
	}), attribute.Int("league.team_id", teamID))
	return err
}

// AddJockey registers a jockey in a live team.
func (s *Service) AddJockey(ctx context.Context, jockeyID, teamID int) error {
	_, err := s.apply(ctx, metrics.OpAddJockey, true, mutation(func(l *league.League) league.Status {
		return l.AddJockey(jockeyID, teamID)
	}), attribute.Int("league.jockey_id", jockeyID), attribute.Int("league.team_id", teamID))
	return err
}

// RecordMatch applies one match result synchronously.
func (s *Service) RecordMatch(ctx context.Context, winnerID, loserID int) error {
	_, err := s.apply(ctx, metrics.OpUpdateMatch, true, mutation(func(l *league.League) league.Status {
		return l.UpdateMatch(winnerID, loserID)
	}), attribute.Int("league.winner_id", winnerID), attribute.Int("league.loser_id", loserID))
	return err
}

// MergeTeams merges two live teams.
func (s *Service) MergeTeams(ctx context.Context, teamID1, teamID2 int) error {
	_, err := s.apply(ctx, metrics.OpMergeTeams, true, mutation(func(l *league.League) league.Status {
		return l.MergeTeams(teamID1, teamID2)
	}), attribute.Int("league.team_id_1", teamID1), attribute.Int("league.team_id_2", teamID2))
	if err == nil {
		s.logger.Debug(ctx, "teams merged", logger.Int("team_id_1", teamID1), logger.Int("team_id_2", teamID2))
	}
	return err
}

// UniteByRecord merges the unique team with record r into the unique team with record -r.
func (s *Service) UniteByRecord(ctx context.Context, record int) error {
	_, err := s.apply(ctx, metrics.OpUniteByRecord, true, mutation(func(l *league.League) league.Status {
		return l.UniteByRecord(record)
	}), attribute.Int("league.record", record))
	if err == nil {
		s.logger.Debug(ctx, "teams united by record", logger.Int("record", record))
	}
	return err
}

// JockeyRecord returns a jockey's personal record.
func (s *Service) JockeyRecord(ctx context.Context, jockeyID int) (int, error) {
	out, err := s.apply(ctx, metrics.OpJockeyRecord, false, func(l *league.League) league.Output {
		return l.JockeyRecord(jockeyID)
	}, attribute.Int("league.jockey_id", jockeyID))
	return out.Value, err
}

// TeamRecord returns a live team's record.
func (s *Service) TeamRecord(ctx context.Context, teamID int) (int, error) {
	out, err := s.apply(ctx, metrics.OpTeamRecord, false, func(l *league.League) league.Output {
		return l.TeamRecord(teamID)
	}, attribute.Int("league.team_id", teamID))
	return out.Value, err
}

// TeamOf returns the live team a jockey currently plays for.
func (s *Service) TeamOf(ctx context.Context, jockeyID int) (int, error) {
	out, err := s.apply(ctx, metrics.OpTeamOf, false, func(l *league.League) league.Output {
		return l.TeamOf(jockeyID)
	}, attribute.Int("league.jockey_id", jockeyID))
	return out.Value, err
}

// TeamSize returns the number of jockeys playing for a live team.
func (s *Service) TeamSize(ctx context.Context, teamID int) (int, error) {
	out, err := s.apply(ctx, metrics.OpTeamSize, false, func(l *league.League) league.Output {
		return l.TeamSize(teamID)
	}, attribute.Int("league.team_id", teamID))
	return out.Value, err
}

func (s *Service) board() (*repository.TreapStore, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.standings, nil
}

// Standings returns the top n live teams by record.
func (s *Service) Standings(ctx context.Context, n int) ([]types.Standing, error) {
	_, span := s.tracer.Start(ctx, "league.standings", trace.WithAttributes(attribute.Int("league.limit", n)))
	defer span.End()

	board, err := s.board()
	if err != nil {
		return nil, err
	}
	start := time.Now()
	entries, err := board.TopN(ctx, n)
	metrics.RecordStandingsQuery(time.Since(start))
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	out := make([]types.Standing, len(entries))
	for i, e := range entries {
		out[i] = types.Standing{Rank: e.Rank, TeamID: e.TeamID, Record: e.Record}
	}
	return out, nil
}

// Standing returns the rank and record of one live team.
func (s *Service) Standing(ctx context.Context, teamID int) (types.Standing, error) {
	board, err := s.board()
	if err != nil {
		return types.Standing{}, err
	}
	e, err := board.Rank(ctx, teamID)
	if err != nil {
		return types.Standing{}, err
	}
	return types.Standing{Rank: e.Rank, TeamID: e.TeamID, Record: e.Record}, nil
}

// SubmitReport queues a match report for asynchronous application. A report
// without an id gets a fresh one; a report id seen within the dedupe window
// is not applied again.
func (s *Service) SubmitReport(ctx context.Context, r model.MatchReport) (model.MatchReport, SubmitOutcome, error) {
	if r.WinnerID <= 0 || r.LoserID <= 0 || r.WinnerID == r.LoserID {
		metrics.RecordReport(metrics.ReportRejected)
		return r, Rejected, fmt.Errorf("report %d beat %d: %w", r.WinnerID, r.LoserID, ErrInvalidReport)
	}

	s.mu.Lock()
	started, deduper, queue := s.started, s.deduper, s.queue
	s.mu.Unlock()
	if !started {
		return r, Rejected, ErrNotStarted
	}

	if r.ReportID == "" {
		r.ReportID = uuid.NewString()
	}
	if r.TS.IsZero() {
		r.TS = time.Now().UTC()
	}

	if deduper.SeenAndRecord(ctx, r.ReportID) {
		metrics.RecordReport(metrics.ReportDuplicate)
		s.logger.Debug(ctx, "duplicate report skipped", logger.String("report_id", r.ReportID))
		return r, Duplicate, nil
	}

	if err := queue.Enqueue(ctx, r); err != nil {
		// Forget the id so the client can retry.
		deduper.Unrecord(ctx, r.ReportID)
		metrics.RecordReport(metrics.ReportRejected)
		if errors.Is(err, eventqueue.ErrFull) {
			s.logger.Warn(ctx, "report queue full", logger.String("report_id", r.ReportID), logger.Int("capacity", queue.Cap()))
		}
		return r, Rejected, fmt.Errorf("submit report %s: %w", r.ReportID, err)
	}
	metrics.RecordReport(metrics.ReportAccepted)
	return r, Accepted, nil
}

// GetStats returns league population and ingestion state.
func (s *Service) GetStats(ctx context.Context) types.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := types.Stats{
		QueueCapacity:  s.queueSize,
		WorkerCount:    s.workerCount,
		ReportsApplied: s.applied,
	}
	if !s.started {
		return stats
	}
	ls := s.league.Stats()
	stats.LiveTeams = ls.LiveTeams
	stats.RetiredTeams = ls.RetiredTeams
	stats.Jockeys = ls.Jockeys
	stats.RecordValues = ls.RecordValues
	stats.Nodes = ls.Nodes
	stats.QueueLength = s.queue.Len(ctx)
	stats.QueueCapacity = s.queue.Cap()
	stats.DedupeEntries = s.deduper.Size()
	stats.StandingsCount = s.standings.Count(ctx)
	if s.pool != nil {
		stats.WorkerCount = s.pool.Size()
		stats.ReportsApplied += s.pool.Processed()
	}

	metrics.UpdateQueue(stats.QueueLength, stats.QueueCapacity)
	metrics.CollectSystem()
	return stats
}

// Started reports whether the service is accepting operations.
func (s *Service) Started() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

// Verify checks the league's structural invariants.
func (s *Service) Verify() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return ErrNotStarted
	}
	return s.league.Verify()
}
