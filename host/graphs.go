package host

import (
	"context"
	"net/http"
	"strconv"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

const (
	sparqlPath = "/proxy/default/sparql"
	graphPath  = "/proxy/default/graph"
)

// Select runs a SPARQL SELECT query. Queries the store rejects with
// HTTP 400 yield errors matching ErrMalformedQuery.
func (c *Client) Select(ctx context.Context, query string) (*SelectResult,
	error) {

	resp, err := c.dp.R().
		SetContext(ctx).
		SetHeader("Accept", "application/sparql-results+json").
		SetFormData(map[string]string{"query": query}).
		Post(sparqlPath)
	if err = check(resp, err); err != nil {
		var se *StatusError
		if errors.As(err, &se) && se.StatusCode == http.StatusBadRequest {
			return nil, MalformedQueryError(se.Body)
		}
		return nil, errors.WithMessage(err, "SPARQL query failed")
	}
	return parseSelectResult(resp.Body())
}

func parseSelectResult(body []byte) (*SelectResult, error) {
	if !gjson.ValidBytes(body) {
		return nil, errors.New("invalid SPARQL result document")
	}
	doc := gjson.ParseBytes(body)

	res := &SelectResult{}
	for _, v := range doc.Get("head.vars").Array() {
		res.Vars = append(res.Vars, v.String())
	}
	doc.Get("results.bindings").ForEach(func(_, row gjson.Result) bool {
		bindings := make(map[string]Binding)
		row.ForEach(func(name, b gjson.Result) bool {
			bindings[name.String()] = Binding{
				Type:     b.Get("type").String(),
				Value:    b.Get("value").String(),
				Datatype: b.Get("datatype").String(),
				Lang:     b.Get("xml:lang").String(),
			}
			return true
		})
		res.Bindings = append(res.Bindings, bindings)
		return true
	})
	return res, nil
}

// Graphs implements GraphStore.
func (c *Client) Graphs(ctx context.Context) ([]string, error) {
	resp, err := c.dp.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		Get("/graphs/list")
	if err = check(resp, err); err != nil {
		return nil, errors.WithMessage(err, "failed to list graphs")
	}
	if !gjson.ValidBytes(resp.Body()) {
		return nil, errors.New("invalid graph list")
	}

	var graphs []string
	for _, iri := range gjson.GetBytes(resp.Body(), "#.iri").Array() {
		graphs = append(graphs, iri.String())
	}
	return graphs, nil
}

// Post implements GraphStore.
func (c *Client) Post(ctx context.Context, graph string, ntriples []byte,
	replace bool) error {

	resp, err := c.dp.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/n-triples").
		SetQueryParams(map[string]string{
			"graph":   graph,
			"replace": strconv.FormatBool(replace),
		}).
		SetBody(ntriples).
		Post(graphPath)
	if err = check(resp, err); err != nil {
		return errors.WithMessagef(err, "failed to write graph %s", graph)
	}
	return nil
}

// Delete implements GraphStore.
func (c *Client) Delete(ctx context.Context, graph string) error {
	resp, err := c.dp.R().
		SetContext(ctx).
		SetQueryParam("graph", graph).
		Delete(graphPath)
	if err = check(resp, err); err != nil {
		return errors.WithMessagef(err, "failed to delete graph %s", graph)
	}
	return nil
}

// Get implements GraphStore.
func (c *Client) Get(ctx context.Context, graph string) ([]byte, error) {
	resp, err := c.dp.R().
		SetContext(ctx).
		SetHeader("Accept", "application/n-triples").
		SetQueryParam("graph", graph).
		Get(graphPath)
	if err = check(resp, err); err != nil {
		if IsStatus(err, http.StatusNotFound) {
			return nil, GraphNotFoundError(graph)
		}
		return nil, errors.WithMessagef(err, "failed to read graph %s", graph)
	}
	return resp.Body(), nil
}
