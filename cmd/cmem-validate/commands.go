package main

import (
	"os"
	"os/signal"
	"strconv"

	"github.com/eccenca/go-validation-plugins/entities"
	"github.com/eccenca/go-validation-plugins/graph"
	vjson "github.com/eccenca/go-validation-plugins/json"
	"github.com/eccenca/go-validation-plugins/plugin"
	"github.com/eccenca/go-validation-plugins/rdf"
	"github.com/pkg/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newPluginsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plugins",
		Short: "List the available plugins and their parameters",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			reg, err := newRegistry(nil, nil, nil)
			if err != nil {
				return err
			}
			return printDescriptions(reg.List())
		},
	}
}

func newEntitiesCmd(opts *rootOptions) *cobra.Command {
	var (
		project       string
		schemaDataset string
		sourceDataset string
		targetDataset string
		inputFile     string
		fail          bool
	)

	cmd := &cobra.Command{
		Use:   "entities",
		Short: "Validate JSON documents against a JSON Schema",
		Long: `Validates the documents of a JSON dataset, or of a local JSON file
given with --input, against the JSON Schema held by another dataset.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			values := map[string]string{
				entities.ParamSchemaDataset:    schemaDataset,
				entities.ParamFailOnViolations: strconv.FormatBool(fail),
				entities.ParamSourceMode:       entities.ModeDataset,
				entities.ParamSourceDataset:    sourceDataset,
				entities.ParamTargetMode:       entities.ModeEntities,
			}
			if targetDataset != "" {
				values[entities.ParamTargetMode] = entities.ModeDataset
				values[entities.ParamTargetDataset] = targetDataset
			}

			var inputs []*plugin.Entities
			if inputFile != "" {
				values[entities.ParamSourceMode] = entities.ModeEntities
				in, err := readInput(inputFile)
				if err != nil {
					return err
				}
				inputs = append(inputs, in)
			}
			return execute(cmd, opts, entities.PluginID, project, values, inputs)
		},
	}

	f := cmd.Flags()
	f.StringVar(&project, "project", "", "project of the datasets")
	f.StringVar(&schemaDataset, "schema-dataset", "", "dataset holding the JSON Schema")
	f.StringVar(&sourceDataset, "source-dataset", "", "dataset holding the documents")
	f.StringVar(&targetDataset, "target-dataset", "", "dataset receiving the valid documents")
	f.StringVar(&inputFile, "input", "", "local JSON file with the documents")
	f.BoolVar(&fail, "fail-on-violations", false, "exit with an error on violations")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("schema-dataset")
	cmd.MarkFlagsMutuallyExclusive("source-dataset", "input")
	return cmd
}

// readInput wraps the documents of a local JSON file into entities.
func readInput(path string) (*plugin.Entities, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	docs, err := vjson.DecodeDocuments(data)
	if err != nil {
		return nil, errors.WithMessagef(err, "input %s", path)
	}
	in := &plugin.Entities{Schema: plugin.NewSchema("", entities.JSONPath)}
	for i, doc := range docs {
		b, err := vjson.Encode(doc)
		if err != nil {
			return nil, err
		}
		in.Entities = append(in.Entities, plugin.Entity{
			URI:    "file:" + path + "#" + strconv.Itoa(i),
			Values: [][]string{{string(b)}},
		})
	}
	return in, nil
}

func newGraphCmd(opts *rootOptions) *cobra.Command {
	var (
		project          string
		contextGraph     string
		shapeGraph       string
		query            string
		queryFile        string
		resultGraph      string
		outputResults    bool
		clearResultGraph bool
	)

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Validate Knowledge Graph resources with SHACL shapes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if queryFile != "" {
				b, err := os.ReadFile(queryFile)
				if err != nil {
					return errors.WithStack(err)
				}
				query = string(b)
			}
			values := map[string]string{
				graph.ParamContextGraph:     contextGraph,
				graph.ParamShapeGraph:       shapeGraph,
				graph.ParamQuery:            query,
				graph.ParamOutputResults:    strconv.FormatBool(outputResults),
				graph.ParamResultGraph:      resultGraph,
				graph.ParamClearResultGraph: strconv.FormatBool(clearResultGraph),
			}
			return execute(cmd, opts, graph.PluginID, project, values, nil)
		},
	}

	f := cmd.Flags()
	f.StringVar(&project, "project", "cmem-validate", "project reported to the plugin")
	f.StringVar(&contextGraph, "context-graph", "", "graph holding the resources to validate")
	f.StringVar(&shapeGraph, "shape-graph", graph.DefaultShapeGraph, "graph holding the shapes")
	f.StringVar(&query, "query", graph.DefaultQuery, "resource selection query template")
	f.StringVar(&queryFile, "query-file", "", "file holding the resource selection query template")
	f.StringVar(&resultGraph, "result-graph", "", "graph receiving the validation report")
	f.BoolVar(&outputResults, "output-results", false, "print violations as entities")
	f.BoolVar(&clearResultGraph, "clear-result-graph", false, "replace the result graph instead of adding to it")
	cmd.MarkFlagsMutuallyExclusive("query", "query-file")
	return cmd
}

func newResultsCmd(opts *rootOptions) *cobra.Command {
	var (
		graphIRI string
		del      bool
	)

	cmd := &cobra.Command{
		Use:   "results",
		Short: "Print or delete a validation result graph",
		Long: `Prints the statements of a graph written with graph --result-graph as
N-Triples, or deletes the graph with --delete.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			client, err := connect(ctx, cmd, opts)
			if err != nil {
				return err
			}
			if del {
				if err = client.Delete(ctx, graphIRI); err != nil {
					return err
				}
				pterm.Success.Printfln("deleted %s", graphIRI)
				return nil
			}

			data, err := client.Get(ctx, graphIRI)
			if err != nil {
				return err
			}
			pterm.Info.Printfln("%d statements in %s", rdf.CountTriples(data),
				graphIRI)
			_, err = cmd.OutOrStdout().Write(data)
			return errors.WithStack(err)
		},
	}

	f := cmd.Flags()
	f.StringVar(&graphIRI, "graph", "", "result graph IRI")
	f.BoolVar(&del, "delete", false, "delete the graph instead of printing it")
	_ = cmd.MarkFlagRequired("graph")
	return cmd
}
