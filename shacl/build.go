package shacl

import (
	"fmt"

	"github.com/eccenca/go-validation-plugins/rdf"
	"github.com/piprate/json-gold/ld"
)

const xsdBoolean = "http://www.w3.org/2001/XMLSchema#boolean"

// NewReport builds a report and its statements from results. The report
// conforms when no result is a violation.
func NewReport(results []ValidationResult) *Report {
	ds := ld.NewRDFDataset()
	add := func(s ld.Node, p string, o ld.Node) {
		ds.Graphs["@default"] = append(ds.Graphs["@default"],
			ld.NewQuad(s, ld.NewIRI(p), o, "@default"))
	}

	report := &Report{Conforms: true, dataset: ds}
	reportNode := ld.NewBlankNode("_:report")
	add(reportNode, rdf.RDFType, ld.NewIRI(ClassValidationReport))

	for i, res := range results {
		if res.IsViolation() {
			report.Conforms = false
		}
		node := res.Node
		if node == nil {
			node = ld.NewBlankNode(fmt.Sprintf("_:result%d", i))
			res.Node = node
		}
		add(reportNode, PropResult, node)
		add(node, rdf.RDFType, ld.NewIRI(ClassValidationResult))
		addIRI := func(p, v string) {
			if v != "" {
				add(node, p, ld.NewIRI(v))
			}
		}
		addIRI(PropFocusNode, res.FocusNode)
		addIRI(PropResultPath, res.ResultPath)
		addIRI(PropResultSeverity, res.Severity)
		addIRI(PropSourceShape, res.SourceShape)
		addIRI(PropSourceConstraintComponent, res.SourceConstraintComponent)
		if res.Value != "" {
			add(node, PropValue, ld.NewLiteral(res.Value, rdf.XSDString, ""))
		}
		if res.Message != "" {
			add(node, PropResultMessage, ld.NewLiteral(res.Message, rdf.XSDString, ""))
		}
		report.Results = append(report.Results, res)
	}

	add(reportNode, PropConforms,
		ld.NewLiteral(fmt.Sprintf("%t", report.Conforms), xsdBoolean, ""))
	return report
}
