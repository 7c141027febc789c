// Package rdf wraps the json-gold RDF model with the few operations the
// plugins need: reading and writing N-Triples, converting JSON-LD, and
// looking up statements by subject or object.
package rdf

import (
	"bytes"
	"strings"

	"github.com/piprate/json-gold/ld"
	"github.com/pkg/errors"
)

// Frequently used IRIs.
const (
	RDFType   = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"
	XSDString = "http://www.w3.org/2001/XMLSchema#string"
)

const defaultGraph = "@default"

// ParseNTriples parses N-Triples (or N-Quads) into a dataset.
func ParseNTriples(data []byte) (*ld.RDFDataset, error) {
	ds, err := (&ld.NQuadRDFSerializer{}).Parse(string(data))
	if err != nil {
		return nil, errors.WithMessage(err, "invalid N-Triples")
	}
	return ds, nil
}

// SerializeNTriples writes all statements of ds as N-Triples, dropping
// graph names.
func SerializeNTriples(ds *ld.RDFDataset) ([]byte, error) {
	flat := ld.NewRDFDataset()
	for _, quads := range ds.Graphs {
		for _, q := range quads {
			flat.Graphs[defaultGraph] = append(flat.Graphs[defaultGraph],
				ld.NewQuad(q.Subject, q.Predicate, q.Object, defaultGraph))
		}
	}
	out, err := (&ld.NQuadRDFSerializer{}).Serialize(flat)
	if err != nil {
		return nil, err
	}
	s, ok := out.(string)
	if !ok {
		return nil, errors.New("[assertion] expected string from N-Quads serializer")
	}
	return []byte(s), nil
}

// CountTriples counts the statements of an N-Triples document without
// parsing it. Blank lines and comments are ignored.
func CountTriples(data []byte) int {
	n := 0
	for _, line := range bytes.Split(data, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		n++
	}
	return n
}

// FromJSONLD converts an expanded or compacted JSON-LD document into a
// dataset. Remote contexts are resolved through loader.
func FromJSONLD(doc any, loader ld.DocumentLoader) (*ld.RDFDataset, error) {
	proc := ld.NewJsonLdProcessor()
	options := ld.NewJsonLdOptions("")
	if loader != nil {
		options.DocumentLoader = loader
	}

	out, err := proc.ToRDF(doc, options)
	if err != nil {
		return nil, errors.WithMessage(err, "JSON-LD to RDF conversion failed")
	}
	ds, ok := out.(*ld.RDFDataset)
	if !ok {
		return nil, errors.New("[assertion] expected *ld.RDFDataset type")
	}
	return ds, nil
}

// Size returns the number of statements in ds over all graphs.
func Size(ds *ld.RDFDataset) int {
	n := 0
	for _, quads := range ds.Graphs {
		n += len(quads)
	}
	return n
}

// Key renders a node so it can be used as a map key. IRIs are wrapped in
// angle brackets, blank nodes keep their label and literals carry their
// datatype or language.
func Key(n ld.Node) string {
	switch v := n.(type) {
	case *ld.IRI:
		return "<" + v.Value + ">"
	case *ld.BlankNode:
		return v.Attribute
	case *ld.Literal:
		var b strings.Builder
		b.WriteString(`"` + v.Value + `"`)
		switch {
		case v.Language != "":
			b.WriteString("@" + v.Language)
		case v.Datatype != "" && v.Datatype != XSDString:
			b.WriteString("^^<" + v.Datatype + ">")
		}
		return b.String()
	default:
		return ""
	}
}

// Value returns the lexical value of a node: the IRI, the blank node label
// or the literal value.
func Value(n ld.Node) string {
	if n == nil {
		return ""
	}
	return n.GetValue()
}
