package graph

import (
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/eccenca/go-validation-plugins/host"
)

// DefaultQuery selects every IRI resource with a type in the context graph.
const DefaultQuery = `SELECT DISTINCT ?resource
FROM <{{context_graph}}>
WHERE {
    ?resource a ?class .
    FILTER isIRI(?resource)
}`

// RenderQuery expands a selection query template. The template calls
// context_graph and shape_graph to get the graph IRIs; the sprig functions
// are available as well. Templates that fail to parse or execute yield
// errors matching ErrMalformedQuery.
func RenderQuery(tmpl, contextGraph, shapeGraph string) (string, error) {
	funcs := sprig.TxtFuncMap()
	funcs["context_graph"] = func() string { return contextGraph }
	funcs["shape_graph"] = func() string { return shapeGraph }

	t, err := template.New("sparql_query").
		Funcs(funcs).
		Option("missingkey=error").
		Parse(tmpl)
	if err != nil {
		return "", host.MalformedQueryError(err.Error())
	}

	var sb strings.Builder
	if err = t.Execute(&sb, nil); err != nil {
		return "", host.MalformedQueryError(err.Error())
	}
	query := strings.TrimSpace(sb.String())
	if query == "" {
		return "", host.MalformedQueryError("query is empty")
	}
	return query, nil
}
