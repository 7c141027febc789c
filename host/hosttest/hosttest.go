// Package hosttest provides in-memory implementations of the host
// interfaces for plugin tests.
package hosttest

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"sort"
	"sync"
	"testing"

	"github.com/eccenca/go-validation-plugins/host"
	"github.com/eccenca/go-validation-plugins/shacl"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

var (
	_ host.DatasetStore = (*Datasets)(nil)
	_ host.GraphStore   = (*GraphStore)(nil)
	_ host.ShaclEngine  = (*Shacl)(nil)
)

// Datasets keeps dataset resources in memory, keyed by project and
// dataset.
type Datasets struct {
	m         sync.Mutex
	resources map[string][]byte
	writes    int
}

// NewDatasets returns an empty store.
func NewDatasets() *Datasets {
	return &Datasets{resources: make(map[string][]byte)}
}

func datasetKey(project, dataset string) string {
	project, dataset = host.SplitTaskID(project, dataset)
	return project + ":" + dataset
}

// Set stores body as the resource of dataset.
func (d *Datasets) Set(project, dataset string, body []byte) {
	d.m.Lock()
	defer d.m.Unlock()
	d.resources[datasetKey(project, dataset)] = body
}

// SetFile stores the content of a fixture file.
func (d *Datasets) SetFile(t testing.TB, project, dataset, path string) {
	t.Helper()
	body, err := os.ReadFile(path)
	require.NoError(t, err)
	d.Set(project, dataset, body)
}

// Content returns the resource of dataset.
func (d *Datasets) Content(project, dataset string) ([]byte, bool) {
	d.m.Lock()
	defer d.m.Unlock()
	body, ok := d.resources[datasetKey(project, dataset)]
	return body, ok
}

// Writes returns the number of PutDatasetResource calls.
func (d *Datasets) Writes() int {
	d.m.Lock()
	defer d.m.Unlock()
	return d.writes
}

func (d *Datasets) DatasetResource(_ context.Context, project,
	dataset string) ([]byte, error) {

	body, ok := d.Content(project, dataset)
	if !ok {
		return nil, errors.WithMessagef(host.ErrNoFileResource, "%s",
			datasetKey(project, dataset))
	}
	return body, nil
}

func (d *Datasets) PutDatasetResource(_ context.Context, project,
	dataset string, body []byte) error {

	d.m.Lock()
	defer d.m.Unlock()
	d.resources[datasetKey(project, dataset)] = bytes.Clone(body)
	d.writes++
	return nil
}

// SelectFunc answers SPARQL SELECT queries of a GraphStore.
type SelectFunc func(query string) (*host.SelectResult, error)

// SelectResources answers every query with iris bound to ?resource.
func SelectResources(iris ...string) SelectFunc {
	return func(string) (*host.SelectResult, error) {
		res := &host.SelectResult{Vars: []string{"resource"}}
		for _, iri := range iris {
			res.Bindings = append(res.Bindings, map[string]host.Binding{
				"resource": {Type: "uri", Value: iri},
			})
		}
		return res, nil
	}
}

// GraphStore keeps graphs as lists of N-Triples lines. Posting without
// replace appends lines as is, so posting the same triples twice doubles
// the graph, like a store that keeps blank nodes distinct.
type GraphStore struct {
	m      sync.Mutex
	graphs map[string][][]byte
	Query  SelectFunc
	// Queries records every query passed to Select.
	Queries []string
}

// NewGraphStore returns a store holding the given graphs, which are listed
// by Graphs even when empty.
func NewGraphStore(graphs ...string) *GraphStore {
	s := &GraphStore{graphs: make(map[string][][]byte)}
	for _, g := range graphs {
		s.graphs[g] = nil
	}
	return s
}

// Triples returns the number of statements in graph.
func (s *GraphStore) Triples(graph string) int {
	s.m.Lock()
	defer s.m.Unlock()
	return len(s.graphs[graph])
}

func (s *GraphStore) Select(_ context.Context, query string) (
	*host.SelectResult, error) {

	s.m.Lock()
	s.Queries = append(s.Queries, query)
	q := s.Query
	s.m.Unlock()

	if q == nil {
		return &host.SelectResult{}, nil
	}
	return q(query)
}

func (s *GraphStore) Graphs(context.Context) ([]string, error) {
	s.m.Lock()
	defer s.m.Unlock()
	out := make([]string, 0, len(s.graphs))
	for g := range s.graphs {
		out = append(out, g)
	}
	sort.Strings(out)
	return out, nil
}

func (s *GraphStore) Post(_ context.Context, graph string, ntriples []byte,
	replace bool) error {

	var lines [][]byte
	for _, line := range bytes.Split(ntriples, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		lines = append(lines, bytes.Clone(line))
	}

	s.m.Lock()
	defer s.m.Unlock()
	if replace {
		s.graphs[graph] = lines
	} else {
		s.graphs[graph] = append(s.graphs[graph], lines...)
	}
	return nil
}

func (s *GraphStore) Delete(_ context.Context, graph string) error {
	s.m.Lock()
	defer s.m.Unlock()
	delete(s.graphs, graph)
	return nil
}

func (s *GraphStore) Get(_ context.Context, graph string) ([]byte, error) {
	s.m.Lock()
	defer s.m.Unlock()
	lines, ok := s.graphs[graph]
	if !ok {
		return nil, host.GraphNotFoundError(graph)
	}
	var buf bytes.Buffer
	for _, line := range lines {
		buf.Write(line)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// Shacl answers validation requests from a fixed report, restricted to the
// requested focus nodes.
type Shacl struct {
	m        sync.Mutex
	report   *shacl.Report
	requests []host.ShaclRequest
}

// NewShacl returns an engine reporting the results of report.
func NewShacl(report *shacl.Report) *Shacl {
	return &Shacl{report: report}
}

// LoadReport reads a JSON-LD validation report fixture.
func LoadReport(t testing.TB, path string) *shacl.Report {
	t.Helper()
	body, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc any
	require.NoError(t, json.Unmarshal(body, &doc))
	report, err := shacl.ParseJSONLDReport(doc, nil)
	require.NoError(t, err)
	return report
}

// Requests returns the validation requests received so far.
func (s *Shacl) Requests() []host.ShaclRequest {
	s.m.Lock()
	defer s.m.Unlock()
	return append([]host.ShaclRequest(nil), s.requests...)
}

func (s *Shacl) Validate(_ context.Context, req host.ShaclRequest) (
	*shacl.Report, error) {

	s.m.Lock()
	s.requests = append(s.requests, req)
	s.m.Unlock()

	focus := make(map[string]struct{}, len(req.FocusNodes))
	for _, n := range req.FocusNodes {
		focus[n] = struct{}{}
	}
	var results []shacl.ValidationResult
	if s.report != nil {
		for _, r := range s.report.Results {
			if _, ok := focus[r.FocusNode]; ok {
				results = append(results, r)
			}
		}
	}
	return shacl.NewReport(results), nil
}
