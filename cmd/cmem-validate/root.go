package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/eccenca/go-validation-plugins/config"
	"github.com/eccenca/go-validation-plugins/entities"
	"github.com/eccenca/go-validation-plugins/graph"
	"github.com/eccenca/go-validation-plugins/host"
	"github.com/eccenca/go-validation-plugins/logger"
	"github.com/eccenca/go-validation-plugins/plugin"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configFile string
	logLevel   string
	logJSON    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "cmem-validate",
		Short: "Validate JSON datasets and Knowledge Graphs",
		Long: `Runs the validation workflow plugins against a platform instance.

Connection settings are read from the environment (CMEM_BASE_URI,
OAUTH_GRANT_TYPE, OAUTH_CLIENT_ID, ...) or from a config file.

Examples:
  cmem-validate plugins
  cmem-validate entities --project p1 --schema-dataset schema --source-dataset persons
  cmem-validate graph --context-graph http://example.org/persons/ --output-results
  cmem-validate results --graph http://example.org/results/`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return logger.Initialize(opts.logJSON, opts.logLevel)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			logger.Sync()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "config file (yaml, toml or json)")
	flags.StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flags.BoolVar(&opts.logJSON, "log-json", false, "log as JSON")

	root.AddCommand(
		newPluginsCmd(),
		newEntitiesCmd(opts),
		newGraphCmd(opts),
		newResultsCmd(opts),
	)
	return root
}

// newRegistry registers both plugins backed by the given host services.
func newRegistry(datasets host.DatasetStore, graphs host.GraphStore,
	engine host.ShaclEngine) (*plugin.Registry, error) {

	reg := plugin.NewRegistry()
	if err := reg.Register(entities.Factory(datasets)); err != nil {
		return nil, err
	}
	if err := reg.Register(graph.Factory(graphs, engine)); err != nil {
		return nil, err
	}
	return reg, nil
}

// connect loads the configuration and creates a host client. Log settings
// of the configuration apply unless set by flags.
func connect(ctx context.Context, cmd *cobra.Command,
	opts *rootOptions) (*host.Client, error) {

	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return nil, err
	}
	if !cmd.Flags().Changed("log-level") && !cmd.Flags().Changed("log-json") {
		if err = logger.Initialize(cfg.Log.JSON, cfg.Log.Level); err != nil {
			return nil, err
		}
	}

	client, err := host.NewClient(ctx, cfg)
	if err != nil {
		return nil, errors.WithMessage(err, "failed to create host client")
	}
	logger.Named("cli").Debugw("connected", "base_uri", cfg.BaseURI,
		"grant_type", cfg.GrantType)
	return client, nil
}

// execute creates and runs a plugin and prints its report and output.
func execute(cmd *cobra.Command, opts *rootOptions, id, project string,
	values map[string]string, inputs []*plugin.Entities) error {

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	client, err := connect(ctx, cmd, opts)
	if err != nil {
		return err
	}
	reg, err := newRegistry(client, client, client)
	if err != nil {
		return err
	}
	p, err := reg.Create(id, values)
	if err != nil {
		return err
	}

	ectx := plugin.NewExecutionContext(project)
	ectx.TaskID = "cmem-validate"
	out, runErr := p.Execute(ctx, inputs, ectx)

	if report, ok := ectx.Report.Last(); ok {
		if err = printReport(report); err != nil {
			return err
		}
	}
	if runErr != nil {
		return runErr
	}
	return printEntities(out)
}
