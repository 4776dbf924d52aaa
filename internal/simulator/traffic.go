package simulator

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/plains/internal/domain/league"
	"github.com/okian/plains/pkg/logger"
)

// Traffic defaults.
const (
	DefaultCommands = 10_000
	DefaultTimeout  = 10 * time.Second
	progressEvery   = 1_000
)

// TrafficConfig holds configuration for a traffic run.
type TrafficConfig struct {
	BaseURL  string        // Base URL of the service
	Commands int           // Number of commands to generate
	Seed     uint64        // Generator seed
	Timeout  time.Duration // HTTP request timeout
	Force    bool          // Run against a server that already holds data
	Verbose  bool          // Log every mismatch
}

// Mismatch is a command whose server outcome differed from the local one.
type Mismatch struct {
	Index  int
	Cmd    Command
	Local  league.Output
	Remote league.Output
}

// TrafficReport summarizes a traffic run.
type TrafficReport struct {
	Commands   int
	ByStatus   map[string]int
	Mismatches []Mismatch
	Duration   time.Duration
}

// RunTraffic generates commands, applies each one to the server and to a
// local League, and records every divergence. It returns ErrMismatch when
// any command diverged.
func RunTraffic(ctx context.Context, cfg TrafficConfig) (*TrafficReport, error) {
	if cfg.Commands <= 0 {
		cfg.Commands = DefaultCommands
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	log := logger.Get().Named("traffic")
	client := NewClient(cfg.BaseURL, cfg.Timeout)

	if err := client.Health(ctx); err != nil {
		return nil, fmt.Errorf("service health check failed: %w", err)
	}
	stats, err := client.Stats(ctx)
	if err != nil {
		return nil, err
	}
	if stats.Nodes > 0 && !cfg.Force {
		return nil, fmt.Errorf("%w: %d nodes", ErrDirtyServer, stats.Nodes)
	}

	log.Info(ctx, "starting league traffic",
		logger.String("base_url", cfg.BaseURL),
		logger.Int("commands", cfg.Commands),
		logger.Int64("seed", int64(cfg.Seed)),
	)

	report := &TrafficReport{ByStatus: make(map[string]int)}
	start := time.Now()
	local := league.New()
	gen := NewGenerator(cfg.Seed)
	for i := 0; i < cfg.Commands; i++ {
		if err := ctx.Err(); err != nil {
			return report, fmt.Errorf("traffic interrupted after %d commands: %w", i, err)
		}
		cmd := gen.Next()
		want := Apply(local, cmd)
		got, err := client.Apply(ctx, cmd)
		if err != nil {
			return report, fmt.Errorf("command %d: %w", i, err)
		}
		report.Commands++
		report.ByStatus[got.Status.String()]++
		if got != want {
			report.Mismatches = append(report.Mismatches, Mismatch{Index: i, Cmd: cmd, Local: want, Remote: got})
			if cfg.Verbose {
				log.Warn(ctx, "outcome mismatch",
					logger.Int("index", i),
					logger.String("command", cmd.String()),
					logger.String("local", Format(cmd, want)),
					logger.String("remote", Format(cmd, got)),
				)
			}
		}
		if (i+1)%progressEvery == 0 {
			log.Debug(ctx, "traffic progress", logger.Int("sent", i+1), logger.Int("mismatches", len(report.Mismatches)))
		}
	}
	report.Duration = time.Since(start)

	var perSecond float64
	if report.Duration > 0 {
		perSecond = float64(report.Commands) / report.Duration.Seconds()
	}
	log.Info(ctx, "traffic completed",
		logger.Int("commands", report.Commands),
		logger.Int("mismatches", len(report.Mismatches)),
		logger.String("duration", report.Duration.String()),
		logger.Float64("commands_per_second", perSecond),
		logger.Any("by_status", report.ByStatus),
	)
	if len(report.Mismatches) > 0 {
		return report, fmt.Errorf("%w: %d of %d commands", ErrMismatch, len(report.Mismatches), report.Commands)
	}
	return report, nil
}
