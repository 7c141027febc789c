package rdf

import (
	"os"
	"strings"
	"testing"

	"github.com/piprate/json-gold/ld"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAndSerializeNTriples(t *testing.T) {
	data, err := os.ReadFile("testdata/persons.nt")
	require.NoError(t, err)

	ds, err := ParseNTriples(data)
	require.NoError(t, err)
	assert.Equal(t, CountTriples(data), Size(ds))

	out, err := SerializeNTriples(ds)
	require.NoError(t, err)
	assert.Equal(t, Size(ds), CountTriples(out))
	assert.Contains(t, string(out),
		`<http://example.org/persons/1> <http://xmlns.com/foaf/0.1/name> "Alice" .`)
}

func TestSerializeDropsGraphNames(t *testing.T) {
	ds, err := ParseNTriples([]byte(
		"<urn:s> <urn:p> <urn:o> <urn:g> .\n<urn:s> <urn:p> \"x\" .\n"))
	require.NoError(t, err)

	out, err := SerializeNTriples(ds)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "<urn:g>")
	assert.Equal(t, 2, CountTriples(out))
}

func TestParseNTriplesInvalid(t *testing.T) {
	_, err := ParseNTriples([]byte("this is not rdf"))
	require.ErrorContains(t, err, "invalid N-Triples")
}

func TestCountTriples(t *testing.T) {
	assert.Equal(t, 0, CountTriples(nil))
	assert.Equal(t, 2, CountTriples([]byte("# comment\n<a> <b> <c> .\n\n<a> <b> <d> .\n")))
}

func TestFromJSONLD(t *testing.T) {
	doc := map[string]any{
		"@context": map[string]any{
			"name": "http://xmlns.com/foaf/0.1/name",
		},
		"@id":  "http://example.org/persons/1",
		"name": "Alice",
	}
	ds, err := FromJSONLD(doc, nil)
	require.NoError(t, err)
	require.Equal(t, 1, Size(ds))

	g := NewGraph(ds)
	name := g.Object(ld.NewIRI("http://example.org/persons/1"),
		"http://xmlns.com/foaf/0.1/name")
	require.NotNil(t, name)
	assert.Equal(t, "Alice", Value(name))
}

func TestGraphLookups(t *testing.T) {
	data, err := os.ReadFile("testdata/persons.nt")
	require.NoError(t, err)
	ds, err := ParseNTriples(data)
	require.NoError(t, err)

	g := NewGraph(ds)
	assert.Equal(t, Size(ds), g.Len())

	persons := g.Subjects(RDFType, ld.NewIRI("http://xmlns.com/foaf/0.1/Person"))
	require.Len(t, persons, 2)
	values := []string{Value(persons[0]), Value(persons[1])}
	assert.ElementsMatch(t,
		[]string{"http://example.org/persons/1", "http://example.org/persons/2"}, values)

	assert.Nil(t, g.Object(ld.NewIRI("http://example.org/persons/2"),
		"http://xmlns.com/foaf/0.1/name"))
}

func TestKey(t *testing.T) {
	assert.Equal(t, "<urn:x>", Key(ld.NewIRI("urn:x")))
	assert.Equal(t, "_:b0", Key(ld.NewBlankNode("_:b0")))
	assert.Equal(t, `"x"`, Key(ld.NewLiteral("x", XSDString, "")))
	assert.Equal(t, `"x"@en`, Key(ld.NewLiteral("x", "", "en")))
	assert.True(t, strings.HasSuffix(
		Key(ld.NewLiteral("1", "http://www.w3.org/2001/XMLSchema#integer", "")),
		"^^<http://www.w3.org/2001/XMLSchema#integer>"))
}
