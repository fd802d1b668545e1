package cmd

import (
	"github.com/pkg/errors"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/cube2222/shaclplan/execution"
	"github.com/cube2222/shaclplan/iteration"
	"github.com/cube2222/shaclplan/logs"
	"github.com/cube2222/shaclplan/outputs/formats"
)

var (
	outputFormat string
	prefetch     bool
	profileMode  string
)

var runCmd = &cobra.Command{
	Use:   "run <plan.yaml>",
	Args:  cobra.ExactArgs(1),
	Short: "Execute a plan and print its rows.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		switch profileMode {
		case "":
		case "cpu":
			defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.Quiet).Stop()
		case "mem":
			defer profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.Quiet).Stop()
		default:
			return errors.Errorf("unknown profile mode '%s'", profileMode)
		}

		cfg, done, err := setup()
		if err != nil {
			return err
		}
		defer done()

		formatter, err := formats.New(outputFormat, cmd.OutOrStdout())
		if err != nil {
			return err
		}

		conn, closeConn, err := openConnection(ctx, cfg, dataPaths)
		if err != nil {
			return err
		}
		defer closeConn()

		plan, err := buildPlan(args[0], conn, cfg)
		if err != nil {
			return err
		}
		if prefetch {
			plan = execution.NewPrefetch(plan, cfg.Execution.QueueCapacity)
		}

		scheduler := iteration.NewScheduler(nil)
		defer scheduler.Stop()

		executor := &execution.Executor{
			Scheduler:      scheduler,
			Logger:         logs.Logger,
			Timeout:        cfg.Execution.Timeout,
			Silent:         cfg.Execution.Silent,
			AssertOrdering: cfg.Execution.AssertOrdering,
		}
		stream, id, err := executor.Run(ctx, plan)
		if err != nil {
			return err
		}

		count := 0
		if err := iteration.ForEach(stream, func(row *execution.Row) error {
			count++
			return formatter.Write(row)
		}); err != nil {
			return errors.Wrapf(err, "run %s failed", id)
		}
		logs.Logger.Debug().Str("run", id.String()).Int("rows", count).Msg("run finished")

		return formatter.Close()
	},
}

func init() {
	runCmd.Flags().StringVarP(&outputFormat, "output", "o", "table", "Output format: table, csv or json.")
	runCmd.Flags().BoolVar(&prefetch, "prefetch", false, "Compute rows ahead of printing in a separate goroutine.")
	runCmd.Flags().StringVar(&profileMode, "profile", "", "Write a cpu or mem profile to the working directory.")
	rootCmd.AddCommand(runCmd)
}
