package rdf

import (
	"github.com/piprate/json-gold/ld"
)

// Graph indexes the statements of a dataset by subject. Graph names are
// ignored.
type Graph struct {
	quads     []*ld.Quad
	bySubject map[string][]*ld.Quad
}

// NewGraph indexes every statement of ds.
func NewGraph(ds *ld.RDFDataset) *Graph {
	g := &Graph{bySubject: make(map[string][]*ld.Quad)}
	for _, quads := range ds.Graphs {
		for _, q := range quads {
			g.quads = append(g.quads, q)
			k := Key(q.Subject)
			g.bySubject[k] = append(g.bySubject[k], q)
		}
	}
	return g
}

// Len returns the number of statements.
func (g *Graph) Len() int {
	return len(g.quads)
}

// Objects returns the objects of (subject, predicate, ?o) statements.
func (g *Graph) Objects(subject ld.Node, predicate string) []ld.Node {
	var out []ld.Node
	for _, q := range g.bySubject[Key(subject)] {
		if q.Predicate.GetValue() == predicate {
			out = append(out, q.Object)
		}
	}
	return out
}

// Object returns the first object of (subject, predicate, ?o) or nil.
func (g *Graph) Object(subject ld.Node, predicate string) ld.Node {
	objs := g.Objects(subject, predicate)
	if len(objs) == 0 {
		return nil
	}
	return objs[0]
}

// Subjects returns the distinct subjects of (?s, predicate, object)
// statements in statement order.
func (g *Graph) Subjects(predicate string, object ld.Node) []ld.Node {
	want := Key(object)
	seen := make(map[string]struct{})
	var out []ld.Node
	for _, q := range g.quads {
		if q.Predicate.GetValue() != predicate || Key(q.Object) != want {
			continue
		}
		k := Key(q.Subject)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, q.Subject)
	}
	return out
}
