package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/zeusync/behave/internal/metrics"
	"github.com/zeusync/behave/pkg/behavior"
	"github.com/zeusync/behave/pkg/behavior/loader"
	"github.com/zeusync/behave/pkg/behavior/runner"
)

var errTreeFailed = errors.New("tree failed")

type runReport struct {
	runner.Result
	Fingerprint string         `json:"fingerprint"`
	Blackboard  map[string]any `json:"blackboard"`
}

func newRunCmd(cfg envConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <file>",
		Short: "Run a tree definition until it finishes",
		Long: `Builds the tree described by a YAML or JSON definition and advances it until
the root succeeds or fails. With --continuous the tree keeps being advanced
until --ticks steps were taken or the process is interrupted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := setup(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = app.Log.Sync() }()

			ticks, _ := cmd.Flags().GetUint64("ticks")
			interval, _ := cmd.Flags().GetDuration("interval")
			continuous, _ := cmd.Flags().GetBool("continuous")
			sets, _ := cmd.Flags().GetStringArray("set")
			addr, _ := cmd.Flags().GetString("metrics-addr")
			jsonMode, _ := cmd.Flags().GetBool("json")

			def, err := loader.LoadFile(args[0])
			if err != nil {
				return err
			}
			bb := behavior.NewBlackboard()
			if err := seed(bb, sets); err != nil {
				return err
			}
			fingerprint := fmt.Sprintf("%016x", def.Fingerprint())
			tree, err := def.NewTree(app.Registry,
				behavior.WithBlackboard(bb),
				behavior.WithLogger(app.Log.With(zap.String("fingerprint", fingerprint))),
				behavior.WithObserver(app.Observer),
			)
			if err != nil {
				return err
			}

			opts := []runner.Option{
				runner.WithLogger(app.Log),
				runner.WithMaxSteps(ticks),
				runner.WithInterval(interval),
			}
			if continuous {
				opts = append(opts, runner.WithContinuous())
			}
			r := runner.New(opts...)

			g, gctx := errgroup.WithContext(cmd.Context())
			serveCtx, stopServe := context.WithCancel(gctx)
			defer stopServe()
			if addr != "" {
				g.Go(func() error { return metrics.Serve(serveCtx, addr, app.Metrics, app.Log) })
			}
			var res runner.Result
			g.Go(func() error {
				defer stopServe()
				var err error
				res, err = r.Run(gctx, tree)
				return err
			})
			if err := g.Wait(); err != nil && !(continuous && errors.Is(err, context.Canceled)) {
				return err
			}

			report := runReport{Result: res, Fingerprint: fingerprint, Blackboard: bb.Snapshot()}
			if err := printReport(cmd.OutOrStdout(), report, bb.Keys(), jsonMode); err != nil {
				return err
			}
			if res.Status == behavior.StatusFailure && !continuous {
				return fmt.Errorf("%s: %w", tree.Name(), errTreeFailed)
			}
			return nil
		},
	}

	cmd.Flags().Uint64("ticks", cfg.Ticks, "Maximum number of steps; 0 means unbounded")
	cmd.Flags().Duration("interval", 0, "Minimum time between steps")
	cmd.Flags().Bool("continuous", false, "Keep advancing after the root finishes")
	cmd.Flags().StringArray("set", nil, "Seed the blackboard with key=value (value parsed as YAML)")
	cmd.Flags().String("metrics-addr", cfg.MetricsAddr, "Serve Prometheus metrics on this address while running")
	cmd.Flags().Bool("json", false, "Print the report as JSON")
	return cmd
}

// seed writes key=value pairs into bb. Values are parsed as YAML scalars so
// numbers and booleans keep their type.
func seed(bb behavior.Blackboard, pairs []string) error {
	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return fmt.Errorf("invalid --set %q, want key=value", pair)
		}
		var value any
		if err := yaml.Unmarshal([]byte(raw), &value); err != nil {
			return fmt.Errorf("--set %s: %w", key, err)
		}
		if value == nil {
			value = raw
		}
		bb.Set(key, value)
	}
	return nil
}

func printReport(w io.Writer, rep runReport, keys []string, jsonMode bool) error {
	if jsonMode {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}
	fmt.Fprintf(w, "tree:        %s\n", rep.Name)
	fmt.Fprintf(w, "fingerprint: %s\n", rep.Fingerprint)
	status := "not started"
	if rep.Status.Valid() {
		status = rep.Status.String()
	}
	fmt.Fprintf(w, "status:      %s\n", status)
	fmt.Fprintf(w, "steps:       %d\n", rep.Steps)
	fmt.Fprintf(w, "elapsed:     %s\n", rep.Elapsed.Round(time.Microsecond))
	if len(keys) == 0 {
		return nil
	}
	fmt.Fprintln(w, "blackboard:")
	for _, k := range keys {
		fmt.Fprintf(w, "  %s = %v\n", k, rep.Blackboard[k])
	}
	return nil
}
