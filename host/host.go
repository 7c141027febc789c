// Package host talks to the data-integration platform the plugins run in:
// the workspace API for datasets and resources, and the data platform API
// for named graphs, SPARQL and SHACL validation.
//
// Plugins depend on the narrow interfaces declared here. Client implements
// all of them over HTTP.
package host

import (
	"context"
	"strings"

	"github.com/eccenca/go-validation-plugins/shacl"
)

// DatasetStore reads and writes the file resources behind datasets.
type DatasetStore interface {
	// DatasetResource returns the content of the file resource the dataset
	// task of project is configured with.
	DatasetResource(ctx context.Context, project, dataset string) ([]byte, error)
	// PutDatasetResource replaces the content of the dataset's file
	// resource.
	PutDatasetResource(ctx context.Context, project, dataset string,
		body []byte) error
}

// GraphStore is the named-graph store of the platform.
type GraphStore interface {
	Select(ctx context.Context, query string) (*SelectResult, error)
	// Graphs lists the IRIs of all readable graphs.
	Graphs(ctx context.Context) ([]string, error)
	// Post writes N-Triples into graph, replacing its content when
	// replace is set and adding to it otherwise.
	Post(ctx context.Context, graph string, ntriples []byte, replace bool) error
	Delete(ctx context.Context, graph string) error
	// Get returns the graph as N-Triples.
	Get(ctx context.Context, graph string) ([]byte, error)
}

// ShaclRequest selects what a SHACL validation covers.
type ShaclRequest struct {
	ContextGraph string   `json:"contextGraph"`
	ShapeGraph   string   `json:"shapeGraph"`
	FocusNodes   []string `json:"resourceIris"`
}

// ShaclEngine validates resources of a graph against a shapes graph.
type ShaclEngine interface {
	Validate(ctx context.Context, req ShaclRequest) (*shacl.Report, error)
}

// Binding is one value of a SPARQL result row.
type Binding struct {
	Type     string
	Value    string
	Datatype string
	Lang     string
}

// SelectResult is a SPARQL SELECT result.
type SelectResult struct {
	Vars     []string
	Bindings []map[string]Binding
}

// Len returns the number of rows.
func (r *SelectResult) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Bindings)
}

// Column returns the values bound to v, skipping rows where v is unbound.
func (r *SelectResult) Column(v string) []string {
	if r == nil {
		return nil
	}
	out := make([]string, 0, len(r.Bindings))
	for _, row := range r.Bindings {
		if b, ok := row[v]; ok {
			out = append(out, b.Value)
		}
	}
	return out
}

// GraphExists reports whether iri is in the graph list of store.
func GraphExists(ctx context.Context, store GraphStore, iri string) (bool,
	error) {

	graphs, err := store.Graphs(ctx)
	if err != nil {
		return false, err
	}
	for _, g := range graphs {
		if g == iri {
			return true, nil
		}
	}
	return false, nil
}

// SplitTaskID resolves a task reference. References of the form
// "project:task" name a task of another project; plain IDs belong to
// project.
func SplitTaskID(project, id string) (string, string) {
	if p, t, ok := strings.Cut(id, ":"); ok && p != "" && t != "" {
		return p, t
	}
	return project, id
}
