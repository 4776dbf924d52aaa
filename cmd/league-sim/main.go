// Command league-sim runs league command scripts and replays random traffic
// against a running league server.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/plains/internal/domain/league"
	"github.com/okian/plains/internal/simulator"
	"github.com/okian/plains/pkg/logger"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var logLevel string
	root := &cobra.Command{
		Use:           "league-sim",
		Short:         "Drive a plains league from scripts or random traffic",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := logger.InitWithOptions(logger.Options{Writer: cmd.ErrOrStderr()}); err != nil {
				return err
			}
			return logger.SetLevelString(logLevel)
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")
	root.AddCommand(newScriptCmd(), newTrafficCmd())
	return root
}

func newScriptCmd() *cobra.Command {
	var maxNodes int
	cmd := &cobra.Command{
		Use:   "script FILE",
		Short: "Execute a command script against an in-process league",
		Long: `Reads one command per line and prints each outcome.

Commands: add_team ID, add_jockey JID TID, update_match WINNER LOSER,
merge_teams ID1 ID2, unite_by_record R, get_jockey_record JID,
get_team_record TID. Text after '#' is ignored. Use "-" to read stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("open script: %w", err)
				}
				defer f.Close()
				in = f
			}
			return simulator.RunScript(cmd.Context(), in, cmd.OutOrStdout(), league.WithMaxNodes(maxNodes))
		},
	}
	cmd.Flags().IntVar(&maxNodes, "max-nodes", 0, "arena cap; 0 means unbounded")
	return cmd
}

func newTrafficCmd() *cobra.Command {
	cfg := simulator.TrafficConfig{}
	cmd := &cobra.Command{
		Use:   "traffic",
		Short: "Replay seeded random commands against a server and a local league",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := simulator.RunTraffic(cmd.Context(), cfg)
			if report != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "commands: %d mismatches: %d duration: %s\n",
					report.Commands, len(report.Mismatches), report.Duration)
				for _, m := range report.Mismatches {
					fmt.Fprintf(cmd.OutOrStdout(), "#%d %s: local %s, remote %s\n",
						m.Index, m.Cmd, simulator.Format(m.Cmd, m.Local), simulator.Format(m.Cmd, m.Remote))
				}
			}
			return err
		},
	}
	cmd.Flags().StringVar(&cfg.BaseURL, "url", "http://localhost:9080", "base URL of the league server")
	cmd.Flags().IntVar(&cfg.Commands, "commands", simulator.DefaultCommands, "number of commands to send")
	cmd.Flags().Uint64Var(&cfg.Seed, "seed", 1, "generator seed")
	cmd.Flags().DurationVar(&cfg.Timeout, "timeout", simulator.DefaultTimeout, "HTTP request timeout")
	cmd.Flags().BoolVar(&cfg.Force, "force", false, "run even if the server already holds data")
	cmd.Flags().BoolVarP(&cfg.Verbose, "verbose", "v", false, "log every mismatch")
	return cmd
}
