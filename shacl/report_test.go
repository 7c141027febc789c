package shacl

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/eccenca/go-validation-plugins/rdf"
	"github.com/piprate/json-gold/ld"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadJSONLD(t testing.TB, path string) any {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc any
	require.NoError(t, json.Unmarshal(data, &doc))
	return doc
}

func TestParseJSONLDReport(t *testing.T) {
	report, err := ParseJSONLDReport(loadJSONLD(t, "testdata/report.jsonld"), nil)
	require.NoError(t, err)

	assert.False(t, report.Conforms)
	require.Len(t, report.Results, 2)

	// ordered by focus node
	assert.Equal(t, "http://example.org/persons/1", report.Results[0].FocusNode)
	assert.Equal(t, SeverityWarning, report.Results[0].Severity)
	assert.Equal(t, "42", report.Results[0].Value)

	second := report.Results[1]
	assert.Equal(t, "http://example.org/persons/2", second.FocusNode)
	assert.Equal(t, "http://xmlns.com/foaf/0.1/name", second.ResultPath)
	assert.Equal(t, "Less than 1 values", second.Message)
	assert.Equal(t, SeverityViolation, second.Severity)
	assert.Equal(t, Namespace+"MinCountConstraintComponent",
		second.SourceConstraintComponent)

	violations := report.Violations()
	require.Len(t, violations, 1)
	assert.Equal(t, "http://example.org/persons/2", violations[0].FocusNode)
}

func TestParseJSONLDReportConforms(t *testing.T) {
	report, err := ParseJSONLDReport(loadJSONLD(t, "testdata/conforms.jsonld"), nil)
	require.NoError(t, err)
	assert.True(t, report.Conforms)
	assert.Empty(t, report.Results)
	assert.Empty(t, report.Violations())
}

func TestParseReportWithoutReportNode(t *testing.T) {
	ds, err := rdf.ParseNTriples([]byte("<urn:s> <urn:p> <urn:o> .\n"))
	require.NoError(t, err)
	_, err = ParseReport(ds)
	require.ErrorIs(t, err, ErrNoReport)
}

func TestReportNTriplesRoundTrip(t *testing.T) {
	report, err := ParseJSONLDReport(loadJSONLD(t, "testdata/report.jsonld"), nil)
	require.NoError(t, err)

	nt, err := report.NTriples()
	require.NoError(t, err)
	assert.Equal(t, rdf.Size(report.Dataset()), rdf.CountTriples(nt))

	ds, err := rdf.ParseNTriples(nt)
	require.NoError(t, err)
	again, err := ParseReport(ds)
	require.NoError(t, err)
	assert.Equal(t, len(report.Results), len(again.Results))
	assert.Equal(t, report.Results[1].FocusNode, again.Results[1].FocusNode)
}

func TestNewReport(t *testing.T) {
	report := NewReport([]ValidationResult{
		{
			FocusNode:  "http://example.org/persons/2",
			ResultPath: "http://xmlns.com/foaf/0.1/name",
			Message:    "Less than 1 values",
			Severity:   SeverityViolation,
		},
	})
	assert.False(t, report.Conforms)
	require.Len(t, report.Results, 1)
	assert.IsType(t, &ld.BlankNode{}, report.Results[0].Node)

	parsed, err := ParseReport(report.Dataset())
	require.NoError(t, err)
	assert.False(t, parsed.Conforms)
	require.Len(t, parsed.Violations(), 1)
	assert.Equal(t, "Less than 1 values", parsed.Violations()[0].Message)

	empty := NewReport(nil)
	assert.True(t, empty.Conforms)
	parsed, err = ParseReport(empty.Dataset())
	require.NoError(t, err)
	assert.True(t, parsed.Conforms)
}
