// Package shacl reads SHACL validation reports into Go values and writes
// them back as N-Triples.
package shacl

import (
	"sort"
	"strings"

	"github.com/eccenca/go-validation-plugins/loaders"
	"github.com/eccenca/go-validation-plugins/rdf"
	"github.com/piprate/json-gold/ld"
	"github.com/pkg/errors"
)

// ErrNoReport is returned when a dataset has no sh:ValidationReport node.
var ErrNoReport = errors.New("no sh:ValidationReport found")

// ValidationResult is one sh:ValidationResult of a report.
type ValidationResult struct {
	// Node is the result node itself, usually a blank node.
	Node                      ld.Node
	FocusNode                 string
	ResultPath                string
	Value                     string
	Message                   string
	Severity                  string
	SourceShape               string
	SourceConstraintComponent string
}

// IsViolation reports whether the result has severity sh:Violation.
func (r ValidationResult) IsViolation() bool {
	return r.Severity == SeverityViolation
}

// Report is a parsed SHACL validation report.
type Report struct {
	Conforms bool
	Results  []ValidationResult

	dataset *ld.RDFDataset
}

// Violations returns the results with severity sh:Violation.
func (r *Report) Violations() []ValidationResult {
	var out []ValidationResult
	for _, res := range r.Results {
		if res.IsViolation() {
			out = append(out, res)
		}
	}
	return out
}

// Dataset returns the statements the report was parsed from.
func (r *Report) Dataset() *ld.RDFDataset {
	return r.dataset
}

// NTriples serializes the report statements.
func (r *Report) NTriples() ([]byte, error) {
	if r.dataset == nil {
		return nil, nil
	}
	return rdf.SerializeNTriples(r.dataset)
}

// ParseReport extracts the validation report from ds. Results are ordered
// by focus node, path and message.
func ParseReport(ds *ld.RDFDataset) (*Report, error) {
	g := rdf.NewGraph(ds)
	reports := g.Subjects(rdf.RDFType, ld.NewIRI(ClassValidationReport))
	if len(reports) == 0 {
		return nil, ErrNoReport
	}
	if len(reports) > 1 {
		return nil, errors.Errorf("expected one sh:ValidationReport, found %d",
			len(reports))
	}
	reportNode := reports[0]

	report := &Report{dataset: ds}
	if c := g.Object(reportNode, PropConforms); c != nil {
		report.Conforms = strings.EqualFold(rdf.Value(c), "true")
	}

	for _, node := range g.Objects(reportNode, PropResult) {
		report.Results = append(report.Results, ValidationResult{
			Node:                      node,
			FocusNode:                 rdf.Value(g.Object(node, PropFocusNode)),
			ResultPath:                rdf.Value(g.Object(node, PropResultPath)),
			Value:                     rdf.Value(g.Object(node, PropValue)),
			Message:                   rdf.Value(g.Object(node, PropResultMessage)),
			Severity:                  rdf.Value(g.Object(node, PropResultSeverity)),
			SourceShape:               rdf.Value(g.Object(node, PropSourceShape)),
			SourceConstraintComponent: rdf.Value(g.Object(node, PropSourceConstraintComponent)),
		})
	}

	sort.SliceStable(report.Results, func(i, j int) bool {
		a, b := report.Results[i], report.Results[j]
		if a.FocusNode != b.FocusNode {
			return a.FocusNode < b.FocusNode
		}
		if a.ResultPath != b.ResultPath {
			return a.ResultPath < b.ResultPath
		}
		return a.Message < b.Message
	})

	if !report.Conforms && len(report.Results) == 0 {
		return nil, errors.New("non-conforming report without results")
	}
	return report, nil
}

// NewDocumentLoader returns a JSON-LD document loader serving the report
// context from memory.
func NewDocumentLoader(opts ...loaders.DocumentLoaderOption) (
	ld.DocumentLoader, error) {

	opts = append([]loaders.DocumentLoaderOption{
		loaders.WithEmbeddedDocumentBytes(ContextURL, []byte(ContextDocument)),
	}, opts...)
	return loaders.NewDocumentLoader(opts...)
}

// ParseJSONLDReport converts a JSON-LD validation report and parses it.
func ParseJSONLDReport(doc any, loader ld.DocumentLoader) (*Report, error) {
	if loader == nil {
		var err error
		loader, err = NewDocumentLoader()
		if err != nil {
			return nil, err
		}
	}
	ds, err := rdf.FromJSONLD(doc, loader)
	if err != nil {
		return nil, err
	}
	return ParseReport(ds)
}
