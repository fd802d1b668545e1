package cmd

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/cube2222/shaclplan/execution"
	"github.com/cube2222/shaclplan/graph"
)

var dot bool

var explainCmd = &cobra.Command{
	Use:   "explain <plan.yaml>",
	Args:  cobra.ExactArgs(1),
	Short: "Print the structure of a plan without running it.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, done, err := setup()
		if err != nil {
			return err
		}
		defer done()

		conn, closeConn, err := openConnection(cmd.Context(), cfg, dataPaths)
		if err != nil {
			return err
		}
		defer closeConn()

		plan, err := buildPlan(args[0], conn, cfg)
		if err != nil {
			return err
		}

		if !dot {
			fmt.Fprint(cmd.OutOrStdout(), execution.Explain(plan))
			return nil
		}
		g, err := graph.Show(plan.Visualize())
		if err != nil {
			return errors.Wrap(err, "couldn't render plan graph")
		}
		fmt.Fprintln(cmd.OutOrStdout(), g.String())
		return nil
	},
}

func init() {
	explainCmd.Flags().BoolVar(&dot, "dot", false, "Print the plan as a graphviz dot graph.")
	rootCmd.AddCommand(explainCmd)
}
