package graph

import (
	"context"
	"strings"
	"testing"

	"github.com/eccenca/go-validation-plugins/host"
	"github.com/eccenca/go-validation-plugins/host/hosttest"
	"github.com/eccenca/go-validation-plugins/plugin"
	"github.com/eccenca/go-validation-plugins/shacl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	existingGraph    = "https://ns.eccenca.com/data/queries/"
	notExistingGraph = "https://example.org/not-here"
	personsGraph     = "http://example.org/persons/"
	shapesGraph      = "http://docker.localhost/shapes-for-persons/"
	resultGraph      = "http://docker.localhost/results/"
)

type fixture struct {
	store *hosttest.GraphStore
	shacl *hosttest.Shacl
}

// newFixture serves persons for queries on the persons graph, query
// resources for the queries graph and a dataset for di:Dataset queries.
func newFixture(t *testing.T) fixture {
	t.Helper()
	store := hosttest.NewGraphStore(existingGraph, personsGraph, shapesGraph,
		DefaultShapeGraph)
	store.Query = func(query string) (*host.SelectResult, error) {
		switch {
		case strings.Contains(query, "di:Dataset"):
			return hosttest.SelectResources(
				"http://example.org/datasets/1")(query)
		case strings.Contains(query, "FROM <"+personsGraph+">"):
			return hosttest.SelectResources(
				"http://example.org/persons/1",
				"http://example.org/persons/2",
				"http://example.org/persons/2")(query)
		case strings.Contains(query, "FROM <"+existingGraph+">"):
			return hosttest.SelectResources(
				"https://ns.eccenca.com/data/queries/q1")(query)
		}
		return &host.SelectResult{Vars: []string{ResourceVar}}, nil
	}
	report := hosttest.LoadReport(t, "../shacl/testdata/report.jsonld")
	return fixture{store: store, shacl: hosttest.NewShacl(report)}
}

func (f fixture) execute(t *testing.T, cfg Config) (*plugin.Entities,
	*plugin.ExecutionContext, error) {

	t.Helper()
	v, err := New(cfg, f.store, f.shacl)
	require.NoError(t, err)
	ectx := plugin.NewExecutionContext("validate_graph_test_project")
	out, err := v.Execute(context.Background(), nil, ectx)
	return out, ectx, err
}

func TestFails(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.execute(t, Config{ContextGraph: ""})
	require.ErrorIs(t, err, ErrMalformedQuery)
	assert.Contains(t, err.Error(), "MALFORMED QUERY")

	_, _, err = f.execute(t, Config{ContextGraph: notExistingGraph})
	require.ErrorIs(t, err, ErrEmptySelection)
	assert.Contains(t, err.Error(), "Selection query returns empty result set")

	_, _, err = f.execute(t, Config{
		ContextGraph: existingGraph,
		ShapeGraph:   notExistingGraph,
	})
	require.ErrorIs(t, err, host.ErrGraphNotFound)
	assert.Contains(t, err.Error(), "does not exist in graph list")

	_, _, err = f.execute(t, Config{
		ContextGraph: personsGraph,
		Query:        "SELECT ?resource FROM <{{context_graph}> WHERE {}",
	})
	require.ErrorIs(t, err, ErrMalformedQuery)

	assert.Empty(t, f.shacl.Requests())
}

func TestOutputResults(t *testing.T) {
	f := newFixture(t)

	out, ectx, err := f.execute(t, Config{
		ContextGraph:  personsGraph,
		ShapeGraph:    shapesGraph,
		OutputResults: false,
	})
	require.NoError(t, err)
	assert.Nil(t, out)

	report, ok := ectx.Report.Last()
	require.True(t, ok)
	assert.Equal(t, 2, report.EntityCount)
	assert.Equal(t, [][2]string{
		{"http://example.org/persons/2", "Less than 1 values"},
	}, report.Summary)
	assert.Equal(t, []string{"Found 1 violations in 2 resources"},
		report.Warnings)

	out, _, err = f.execute(t, Config{
		ContextGraph:  personsGraph,
		ShapeGraph:    shapesGraph,
		OutputResults: true,
	})
	require.NoError(t, err)
	require.Equal(t, 1, out.Len(), "there should be a single violation entity")
	assert.Equal(t, []string{"http://example.org/persons/2"},
		out.Entities[0].Values[0],
		"focus node of the only violation should be person 2")
	assert.Equal(t, []string{"http://xmlns.com/foaf/0.1/name"},
		out.Values(0, PathResultPath))
	assert.Equal(t, []string{shacl.SeverityViolation},
		out.Values(0, PathResultSeverity))
	assert.Empty(t, out.Values(0, PathValue))
	assert.True(t, strings.HasPrefix(out.Entities[0].URI, "urn:uuid:"))

	requests := f.shacl.Requests()
	require.Len(t, requests, 2)
	assert.Equal(t, host.ShaclRequest{
		ContextGraph: personsGraph,
		ShapeGraph:   shapesGraph,
		FocusNodes: []string{
			"http://example.org/persons/1",
			"http://example.org/persons/2",
		},
	}, requests[1])
}

func TestSaveAsGraph(t *testing.T) {
	f := newFixture(t)
	cfg := Config{
		ContextGraph:     personsGraph,
		ShapeGraph:       shapesGraph,
		ResultGraph:      resultGraph,
		ClearResultGraph: false,
	}

	assert.Zero(t, f.store.Triples(resultGraph))
	_, _, err := f.execute(t, cfg)
	require.NoError(t, err)
	triples := f.store.Triples(resultGraph)
	assert.Positive(t, triples, "result graph should not be empty")

	_, _, err = f.execute(t, cfg)
	require.NoError(t, err)
	assert.Equal(t, triples*2, f.store.Triples(resultGraph),
		"result graph should have two equal result sets")

	cfg.ClearResultGraph = true
	_, _, err = f.execute(t, cfg)
	require.NoError(t, err)
	assert.Equal(t, triples, f.store.Triples(resultGraph),
		"result graph should have a single result set again")

	nt, err := f.store.Get(context.Background(), resultGraph)
	require.NoError(t, err)
	assert.Contains(t, string(nt), "<"+shacl.ClassValidationReport+">")
}

func TestDifferentQuery(t *testing.T) {
	f := newFixture(t)
	cfg := Config{
		ContextGraph:  personsGraph,
		ShapeGraph:    shapesGraph,
		OutputResults: true,
	}

	out, _, err := f.execute(t, cfg)
	require.NoError(t, err)
	assert.Equal(t, 1, out.Len(), "there should be a single violation entity")

	cfg.Query = `
PREFIX di: <https://vocab.eccenca.com/di/>
SELECT DISTINCT ?resource
FROM <{{context_graph}}>
WHERE {
    ?resource a di:Dataset.
    FILTER isIRI(?resource)
}
`
	out, ectx, err := f.execute(t, cfg)
	require.NoError(t, err)
	assert.Nil(t, out, "no violations, since no person was validated")

	report, _ := ectx.Report.Last()
	assert.Equal(t, 1, report.EntityCount)
	assert.Empty(t, report.Warnings)
}

func TestFromParameters(t *testing.T) {
	f := newFixture(t)
	reg := plugin.NewRegistry()
	require.NoError(t, reg.Register(Factory(f.store, f.shacl)))

	p, err := reg.Create(PluginID, map[string]string{
		ParamContextGraph: personsGraph,
	})
	require.NoError(t, err)
	cfg := p.(*ValidateGraph).Config()
	assert.Equal(t, DefaultShapeGraph, cfg.ShapeGraph)
	assert.Equal(t, DefaultQuery, cfg.Query)
	assert.False(t, cfg.OutputResults)
	assert.False(t, cfg.ClearResultGraph)

	_, err = reg.Create(PluginID, map[string]string{
		ParamContextGraph:  personsGraph,
		ParamOutputResults: "yes please",
	})
	require.ErrorIs(t, err, plugin.ErrConfiguration)

	// output results is off by default
	out, err := p.Execute(context.Background(), nil,
		plugin.NewExecutionContext("p"))
	require.NoError(t, err)
	assert.Nil(t, out)
	assert.Contains(t, f.store.Queries[0], "FROM <"+personsGraph+">")
}
