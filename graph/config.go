package graph

import (
	"github.com/eccenca/go-validation-plugins/host"
	"github.com/eccenca/go-validation-plugins/plugin"
	"github.com/pkg/errors"
)

// Parameter names.
const (
	ParamContextGraph     = "context_graph"
	ParamShapeGraph       = "shape_graph"
	ParamQuery            = "sparql_query"
	ParamOutputResults    = "output_results"
	ParamResultGraph      = "result_graph"
	ParamClearResultGraph = "clear_result_graph"
)

// PluginID is the registration ID of ValidateGraph.
const PluginID = "cmem_plugin_validation-validate-ValidateGraph"

// DefaultShapeGraph is the shapes graph of the platform's own vocabulary.
const DefaultShapeGraph = "https://vocab.eccenca.com/shacl/"

// Description registers ValidateGraph with the host.
var Description = plugin.Description{
	ID:          PluginID,
	Label:       "Validate Knowledge Graph",
	Description: "Use SHACL shapes to validate resources in a Knowledge Graph.",
	Documentation: `Validates resources of a Knowledge Graph with SHACL shapes.

The selection query picks the resources to validate. It is a template;
{{context_graph}} and {{shape_graph}} are replaced with the configured
graph IRIs. The query has to bind the resources to ?resource.

Violations are returned as entities ('Output results') and the validation
report can be written to a result graph. The result graph is replaced
when 'Clear result graph' is enabled, otherwise the report is added to it.`,
	Parameters: []plugin.Parameter{
		{
			Name:        ParamContextGraph,
			Label:       "Context Graph",
			Description: "This graph holds the resources you want to validate.",
			Type:        plugin.TypeGraph,
		},
		{
			Name:        ParamShapeGraph,
			Label:       "Shape Graph",
			Description: "This graph holds the shapes you want to use for validation.",
			Type:        plugin.TypeGraph,
			Default:     DefaultShapeGraph,
		},
		{
			Name:        ParamQuery,
			Label:       "Resource Selection Query",
			Description: "This query selects the resources you want to validate.",
			Type:        plugin.TypeSPARQL,
			Default:     DefaultQuery,
			Advanced:    true,
		},
		{
			Name:        ParamOutputResults,
			Label:       "Output results",
			Description: "If enabled, the violations are returned as entities.",
			Type:        plugin.TypeBoolean,
			Default:     "false",
		},
		{
			Name:        ParamResultGraph,
			Label:       "Result graph",
			Description: "If set, the validation report is written to this graph.",
			Type:        plugin.TypeGraph,
		},
		{
			Name:        ParamClearResultGraph,
			Label:       "Clear result graph",
			Description: "If enabled, the result graph is replaced instead of extended.",
			Type:        plugin.TypeBoolean,
			Default:     "false",
			Advanced:    true,
		},
	},
}

// Config is the configuration of a ValidateGraph instance.
type Config struct {
	ContextGraph     string
	ShapeGraph       string
	Query            string
	OutputResults    bool
	ResultGraph      string
	ClearResultGraph bool
}

// New creates a ValidateGraph. Empty shape graph and query fall back to
// DefaultShapeGraph and DefaultQuery.
func New(cfg Config, store host.GraphStore, engine host.ShaclEngine) (
	*ValidateGraph, error) {

	if store == nil || engine == nil {
		return nil, errors.New("graph store and SHACL engine are required")
	}
	if cfg.ShapeGraph == "" {
		cfg.ShapeGraph = DefaultShapeGraph
	}
	if cfg.Query == "" {
		cfg.Query = DefaultQuery
	}
	return &ValidateGraph{cfg: cfg, store: store, engine: engine}, nil
}

// FromParameters creates a ValidateGraph from host parameters.
func FromParameters(params plugin.Parameters, store host.GraphStore,
	engine host.ShaclEngine) (*ValidateGraph, error) {

	output, err := params.Bool(ParamOutputResults)
	if err != nil {
		return nil, err
	}
	clearGraph, err := params.Bool(ParamClearResultGraph)
	if err != nil {
		return nil, err
	}
	return New(Config{
		ContextGraph:     params.String(ParamContextGraph),
		ShapeGraph:       params.String(ParamShapeGraph),
		Query:            params.String(ParamQuery),
		OutputResults:    output,
		ResultGraph:      params.String(ParamResultGraph),
		ClearResultGraph: clearGraph,
	}, store, engine)
}

// Factory returns the registry entry of ValidateGraph.
func Factory(store host.GraphStore, engine host.ShaclEngine) plugin.Factory {
	return plugin.Factory{
		Description: Description,
		New: func(params plugin.Parameters) (plugin.WorkflowPlugin, error) {
			return FromParameters(params, store, engine)
		},
	}
}
