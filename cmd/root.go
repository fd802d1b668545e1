package cmd

import (
	"context"
	"os"
	"sync"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/cube2222/shaclplan/config"
	"github.com/cube2222/shaclplan/connection"
	"github.com/cube2222/shaclplan/connection/memory"
	"github.com/cube2222/shaclplan/execution"
	"github.com/cube2222/shaclplan/logs"
	"github.com/cube2222/shaclplan/planfile"
)

var (
	configPath string
	dataPaths  []string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "shaclplan",
	Short: "Run and inspect validation query plans over RDF data.",
	Example: `shaclplan run --data people.json plan.yaml
shaclplan explain --dot plan.yaml | dot -Tpng > plan.png`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func Execute(ctx context.Context) {
	cobra.CheckErr(rootCmd.ExecuteContext(ctx))
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the configuration file, ~/.shaclplan/config.yaml by default.")
	rootCmd.PersistentFlags().StringSliceVar(&dataPaths, "data", nil, "RDF/JSON files loaded into the in-memory store.")
}

// setup reads the configuration and starts logging. The returned function
// must be called once the command is done.
func setup() (*config.Config, func(), error) {
	cfg, err := config.Read(configPath)
	if err != nil {
		return nil, nil, errors.Wrap(err, "couldn't read config")
	}
	if err := logs.Initialize(cfg.Logging); err != nil {
		return nil, nil, errors.Wrap(err, "couldn't initialize logging")
	}
	return cfg, func() {
		_ = logs.CloseLogger()
	}, nil
}

// openConnection loads the data files concurrently into a new store, cached
// as configured.
func openConnection(ctx context.Context, cfg *config.Config, paths []string) (connection.Connection, func(), error) {
	store := memory.NewStore()

	g, ctx := errgroup.WithContext(ctx)
	var mu sync.Mutex
	total := 0
	for _, path := range paths {
		g.Go(func() error {
			f, err := os.Open(path)
			if err != nil {
				return errors.Wrapf(err, "couldn't open data file %s", path)
			}
			defer f.Close()

			quads, err := memory.LoadRDFJSON(f, nil)
			if err != nil {
				return errors.Wrapf(err, "couldn't load data file %s", path)
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			store.Add(quads...)

			mu.Lock()
			total += len(quads)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	logs.Logger.Debug().Int("statements", total).Int("files", len(paths)).Msg("loaded data")

	if cfg.Cache.ExistenceCheckEntries == 0 {
		return store, func() {}, nil
	}
	cached, err := connection.NewCachedConnection(store, cfg.Cache.ExistenceCheckEntries)
	if err != nil {
		return nil, nil, errors.Wrap(err, "couldn't create existence check cache")
	}
	return cached, cached.Close, nil
}

func buildPlan(path string, conn connection.Connection, cfg *config.Config) (execution.PlanNode, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "couldn't open plan file")
	}
	defer f.Close()

	file, err := planfile.Parse(f)
	if err != nil {
		return nil, err
	}
	builder := &planfile.Builder{
		Connection:    conn,
		BatchSize:     cfg.Execution.BatchSize,
		QueueCapacity: cfg.Execution.QueueCapacity,
	}
	plan, err := builder.Build(file)
	if err != nil {
		return nil, errors.Wrapf(err, "couldn't build plan from %s", path)
	}
	return plan, nil
}
