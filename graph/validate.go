// Package graph implements the ValidateGraph workflow plugin, which
// validates resources of a Knowledge Graph with SHACL shapes.
package graph

import (
	"context"
	"fmt"

	"github.com/eccenca/go-validation-plugins/host"
	"github.com/eccenca/go-validation-plugins/logger"
	"github.com/eccenca/go-validation-plugins/plugin"
	"github.com/eccenca/go-validation-plugins/shacl"
	"github.com/google/uuid"
	"github.com/piprate/json-gold/ld"
	"github.com/pkg/errors"
)

var (
	// ErrMalformedQuery is matched by errors of selection queries that
	// cannot be rendered or that the store rejects.
	ErrMalformedQuery = host.ErrMalformedQuery
	// ErrEmptySelection is returned when the selection query selects no
	// resources.
	ErrEmptySelection = errors.New("Selection query returns empty result set")
)

// ResourceVar is the variable the selection query binds resources to.
const ResourceVar = "resource"

// Paths of violation entities. The focus node comes first.
const (
	PathFocusNode      = "focusNode"
	PathResultPath     = "resultPath"
	PathValue          = "value"
	PathResultMessage  = "resultMessage"
	PathResultSeverity = "resultSeverity"
	PathSourceShape    = "sourceShape"
)

// ValidateGraph validates resources of a graph with SHACL shapes.
type ValidateGraph struct {
	cfg    Config
	store  host.GraphStore
	engine host.ShaclEngine
}

var _ plugin.WorkflowPlugin = (*ValidateGraph)(nil)

// Config returns the configuration of the instance.
func (v *ValidateGraph) Config() Config {
	return v.cfg
}

// Execute selects the resources of the context graph, validates them and
// returns the violations as entities when output results is enabled.
func (v *ValidateGraph) Execute(ctx context.Context, _ []*plugin.Entities,
	ectx *plugin.ExecutionContext) (*plugin.Entities, error) {

	log := logger.Named("graph").With("context_graph", v.cfg.ContextGraph,
		"shape_graph", v.cfg.ShapeGraph)

	if v.cfg.ContextGraph == "" {
		return nil, host.MalformedQueryError("no context graph selected")
	}
	query, err := RenderQuery(v.cfg.Query, v.cfg.ContextGraph,
		v.cfg.ShapeGraph)
	if err != nil {
		return nil, err
	}

	exists, err := host.GraphExists(ctx, v.store, v.cfg.ShapeGraph)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, host.GraphNotFoundError(v.cfg.ShapeGraph)
	}

	focusNodes, err := v.selectResources(ctx, query)
	if err != nil {
		return nil, err
	}
	log.Infow("resources selected", "count", len(focusNodes))

	report, err := v.engine.Validate(ctx, host.ShaclRequest{
		ContextGraph: v.cfg.ContextGraph,
		ShapeGraph:   v.cfg.ShapeGraph,
		FocusNodes:   focusNodes,
	})
	if err != nil {
		return nil, err
	}
	violations := report.Violations()
	log.Infow("validation finished", "conforms", report.Conforms,
		"results", len(report.Results), "violations", len(violations))

	if v.cfg.ResultGraph != "" {
		if err = v.writeReport(ctx, report); err != nil {
			return nil, err
		}
	}

	ectx.Report.Update(executionReport(len(focusNodes), violations))

	if !v.cfg.OutputResults || len(violations) == 0 {
		return nil, nil
	}
	return violationEntities(violations), nil
}

func (v *ValidateGraph) selectResources(ctx context.Context, query string) (
	[]string, error) {

	res, err := v.store.Select(ctx, query)
	if err != nil {
		return nil, err
	}

	variable := ResourceVar
	if len(res.Vars) > 0 && !contains(res.Vars, ResourceVar) {
		variable = res.Vars[0]
	}
	seen := make(map[string]struct{})
	var nodes []string
	for _, n := range res.Column(variable) {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		nodes = append(nodes, n)
	}
	if len(nodes) == 0 {
		return nil, errors.WithStack(ErrEmptySelection)
	}
	return nodes, nil
}

func (v *ValidateGraph) writeReport(ctx context.Context,
	report *shacl.Report) error {

	nt, err := report.NTriples()
	if err != nil {
		return errors.WithMessage(err, "failed to serialize validation report")
	}
	if err = v.store.Post(ctx, v.cfg.ResultGraph, nt,
		v.cfg.ClearResultGraph); err != nil {
		return err
	}
	logger.Named("graph").Debugw("validation report written",
		"result_graph", v.cfg.ResultGraph, "replace", v.cfg.ClearResultGraph)
	return nil
}

func executionReport(resources int,
	violations []shacl.ValidationResult) plugin.ExecutionReport {

	report := plugin.ExecutionReport{
		EntityCount:   resources,
		Operation:     "validate",
		OperationDesc: " resources validated",
		Summary:       make([][2]string, 0, len(violations)),
		Warnings:      []string{},
	}
	for _, r := range violations {
		report.Summary = append(report.Summary, [2]string{r.FocusNode, r.Message})
	}
	if len(violations) > 0 {
		report.Warnings = append(report.Warnings, fmt.Sprintf(
			"Found %d violations in %d resources", len(violations), resources))
	}
	return report
}

func violationEntities(violations []shacl.ValidationResult) *plugin.Entities {
	out := &plugin.Entities{
		Schema: plugin.NewSchema(shacl.ClassValidationResult,
			PathFocusNode, PathResultPath, PathValue, PathResultMessage,
			PathResultSeverity, PathSourceShape),
		Entities: make([]plugin.Entity, 0, len(violations)),
	}
	for _, r := range violations {
		out.Entities = append(out.Entities, plugin.Entity{
			URI: resultURI(r.Node),
			Values: [][]string{
				values(r.FocusNode),
				values(r.ResultPath),
				values(r.Value),
				values(r.Message),
				values(r.Severity),
				values(r.SourceShape),
			},
		})
	}
	return out
}

func resultURI(node ld.Node) string {
	if iri, ok := node.(*ld.IRI); ok {
		return iri.Value
	}
	return "urn:uuid:" + uuid.NewString()
}

func values(v string) []string {
	if v == "" {
		return []string{}
	}
	return []string{v}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
