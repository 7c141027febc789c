package host

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/eccenca/go-validation-plugins/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func newTestClient(t *testing.T, mux *http.ServeMux) *Client {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		BaseURI:    srv.URL,
		DIEndpoint: srv.URL + "/dataintegration",
		DPEndpoint: srv.URL + "/dataplatform",
		Timeout:    5 * time.Second,
	}
	c, err := NewClient(context.Background(), cfg,
		WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return c
}

func TestTaskMetadataAndDatasetResource(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /dataintegration/workspace/projects/p1/tasks/persons",
		func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{"id":"persons","data":{"type":"json",`+
				`"parameters":{"file":{"value":"persons.json"}}}}`)
		})
	mux.HandleFunc("GET /dataintegration/workspace/projects/p1/resources/persons.json",
		func(w http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(w, `[{"name":"a"}]`)
		})
	var written []byte
	mux.HandleFunc("PUT /dataintegration/workspace/projects/p1/resources/persons.json",
		func(w http.ResponseWriter, r *http.Request) {
			written, _ = io.ReadAll(r.Body)
			w.WriteHeader(http.StatusNoContent)
		})

	c := newTestClient(t, mux)
	ctx := context.Background()

	meta, err := c.TaskMetadata(ctx, "p1", "persons")
	require.NoError(t, err)
	assert.Equal(t, "json", meta.Type())
	file, err := meta.FileResource()
	require.NoError(t, err)
	assert.Equal(t, "persons.json", file)

	body, err := c.DatasetResource(ctx, "p1", "persons")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"a"}]`, string(body))

	require.NoError(t, c.PutDatasetResource(ctx, "p1", "persons", []byte(`[]`)))
	assert.Equal(t, `[]`, string(written))
}

func TestDatasetWithoutFile(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /dataintegration/workspace/projects/p1/tasks/graph",
		func(w http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(w, `{"data":{"type":"eccencaDataPlatform",`+
				`"parameters":{"graph":"urn:g"}}}`)
		})
	c := newTestClient(t, mux)

	_, err := c.DatasetResource(context.Background(), "p1", "graph")
	require.ErrorIs(t, err, ErrNoFileResource)
}

func TestTaskMetadataNotFound(t *testing.T) {
	c := newTestClient(t, http.NewServeMux())
	_, err := c.TaskMetadata(context.Background(), "p1", "missing")
	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusNotFound))
}

func TestSelect(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /dataplatform/proxy/default/sparql",
		func(w http.ResponseWriter, r *http.Request) {
			assert.NoError(t, r.ParseForm())
			if r.PostForm.Get("query") == "broken" {
				http.Error(w, "Encountered \"broken\"", http.StatusBadRequest)
				return
			}
			assert.Equal(t, "application/sparql-results+json",
				r.Header.Get("Accept"))
			w.Header().Set("Content-Type", "application/sparql-results+json")
			_, _ = io.WriteString(w, `{"head":{"vars":["resource"]},`+
				`"results":{"bindings":[`+
				`{"resource":{"type":"uri","value":"http://example.org/persons/1"}},`+
				`{"resource":{"type":"uri","value":"http://example.org/persons/2"}},`+
				`{}]}}`)
		})
	c := newTestClient(t, mux)
	ctx := context.Background()

	res, err := c.Select(ctx, "SELECT ?resource WHERE { ?resource a ?c }")
	require.NoError(t, err)
	assert.Equal(t, []string{"resource"}, res.Vars)
	assert.Equal(t, 3, res.Len())
	assert.Equal(t, []string{
		"http://example.org/persons/1",
		"http://example.org/persons/2",
	}, res.Column("resource"))
	assert.Equal(t, "uri", res.Bindings[0]["resource"].Type)

	_, err = c.Select(ctx, "broken")
	require.ErrorIs(t, err, ErrMalformedQuery)
	assert.Contains(t, err.Error(), "MALFORMED QUERY")
}

func TestGraphs(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /dataplatform/graphs/list",
		func(w http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(w, `[{"iri":"urn:a","writeable":true},`+
				`{"iri":"https://vocab.eccenca.com/shacl/"}]`)
		})
	c := newTestClient(t, mux)

	graphs, err := c.Graphs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"urn:a", "https://vocab.eccenca.com/shacl/"}, graphs)

	ok, err := GraphExists(context.Background(), c, "urn:a")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = GraphExists(context.Background(), c, "urn:b")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGraphReadWrite(t *testing.T) {
	var (
		posted   []byte
		replaced string
		deleted  string
	)
	mux := http.NewServeMux()
	mux.HandleFunc("POST /dataplatform/proxy/default/graph",
		func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "urn:results", r.URL.Query().Get("graph"))
			assert.Equal(t, "application/n-triples", r.Header.Get("Content-Type"))
			replaced = r.URL.Query().Get("replace")
			posted, _ = io.ReadAll(r.Body)
			w.WriteHeader(http.StatusNoContent)
		})
	mux.HandleFunc("GET /dataplatform/proxy/default/graph",
		func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("graph") != "urn:results" {
				http.NotFound(w, r)
				return
			}
			_, _ = w.Write(posted)
		})
	mux.HandleFunc("DELETE /dataplatform/proxy/default/graph",
		func(w http.ResponseWriter, r *http.Request) {
			deleted = r.URL.Query().Get("graph")
			w.WriteHeader(http.StatusNoContent)
		})
	c := newTestClient(t, mux)
	ctx := context.Background()

	nt := []byte("<urn:s> <urn:p> <urn:o> .\n")
	require.NoError(t, c.Post(ctx, "urn:results", nt, true))
	assert.Equal(t, "true", replaced)
	assert.Equal(t, nt, posted)

	require.NoError(t, c.Post(ctx, "urn:results", nt, false))
	assert.Equal(t, "false", replaced)

	got, err := c.Get(ctx, "urn:results")
	require.NoError(t, err)
	assert.Equal(t, nt, got)

	_, err = c.Get(ctx, "urn:other")
	require.ErrorIs(t, err, ErrGraphNotFound)

	require.NoError(t, c.Delete(ctx, "urn:results"))
	assert.Equal(t, "urn:results", deleted)
}

func TestValidate(t *testing.T) {
	report, err := os.ReadFile("../shacl/testdata/report.jsonld")
	require.NoError(t, err)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /dataplatform/api/shacl/validation/resources",
		func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			assert.JSONEq(t, `{"contextGraph":"urn:data",`+
				`"shapeGraph":"urn:shapes",`+
				`"resourceIris":["http://example.org/persons/1",`+
				`"http://example.org/persons/2"]}`, string(body))
			w.Header().Set("Content-Type", "application/ld+json")
			_, _ = w.Write(report)
		})
	c := newTestClient(t, mux)

	res, err := c.Validate(context.Background(), ShaclRequest{
		ContextGraph: "urn:data",
		ShapeGraph:   "urn:shapes",
		FocusNodes: []string{
			"http://example.org/persons/1",
			"http://example.org/persons/2",
		},
	})
	require.NoError(t, err)
	assert.False(t, res.Conforms)
	require.Len(t, res.Violations(), 1)
	assert.Equal(t, "http://example.org/persons/2", res.Violations()[0].FocusNode)

	_, err = c.Validate(context.Background(), ShaclRequest{ContextGraph: "urn:data"})
	require.Error(t, err)
}

func TestBearerToken(t *testing.T) {
	var auth string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /dataplatform/graphs/list",
		func(w http.ResponseWriter, r *http.Request) {
			auth = r.Header.Get("Authorization")
			_, _ = io.WriteString(w, `[]`)
		})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	cfg := &config.Config{
		BaseURI:    srv.URL,
		DIEndpoint: srv.URL + "/dataintegration",
		DPEndpoint: srv.URL + "/dataplatform",
		GrantType:  config.GrantPrefetchedToken,
		Timeout:    5 * time.Second,
		SSLVerify:  true,
	}
	c, err := NewClient(context.Background(), cfg,
		WithTokenSource(oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: "secret",
		})))
	require.NoError(t, err)

	graphs, err := c.Graphs(context.Background())
	require.NoError(t, err)
	assert.Empty(t, graphs)
	assert.Equal(t, "Bearer secret", auth)
}

func TestReportContextWithoutToken(t *testing.T) {
	var contextAuth []string
	ctxSrv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			contextAuth = append(contextAuth, r.Header.Get("Authorization"))
			w.Header().Set("Content-Type", "application/ld+json")
			_, _ = io.WriteString(w, `{"@context":{"ex":"http://example.org/"}}`)
		}))
	defer ctxSrv.Close()

	body, err := os.ReadFile("../shacl/testdata/report.jsonld")
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(body, &doc))
	doc["@context"] = []any{doc["@context"], ctxSrv.URL + "/context.jsonld"}
	report, err := json.Marshal(doc)
	require.NoError(t, err)

	var platformAuth string
	mux := http.NewServeMux()
	mux.HandleFunc("POST /dataplatform/api/shacl/validation/resources",
		func(w http.ResponseWriter, r *http.Request) {
			platformAuth = r.Header.Get("Authorization")
			w.Header().Set("Content-Type", "application/ld+json")
			_, _ = w.Write(report)
		})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	cfg := &config.Config{
		BaseURI:    srv.URL,
		DIEndpoint: srv.URL + "/dataintegration",
		DPEndpoint: srv.URL + "/dataplatform",
		GrantType:  config.GrantPrefetchedToken,
		Timeout:    5 * time.Second,
		SSLVerify:  true,
	}
	c, err := NewClient(context.Background(), cfg,
		WithTokenSource(oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: "secret",
		})))
	require.NoError(t, err)

	res, err := c.Validate(context.Background(), ShaclRequest{
		ContextGraph: "urn:data",
		ShapeGraph:   "urn:shapes",
	})
	require.NoError(t, err)
	assert.Len(t, res.Violations(), 1)

	assert.Equal(t, "Bearer secret", platformAuth)
	require.NotEmpty(t, contextAuth)
	for _, auth := range contextAuth {
		assert.Empty(t, auth)
	}
}

func TestUnsupportedGrant(t *testing.T) {
	_, err := NewClient(context.Background(), &config.Config{
		GrantType: "password",
		Timeout:   time.Second,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported grant type")
}

func TestSplitTaskID(t *testing.T) {
	p, id := SplitTaskID("p1", "persons")
	assert.Equal(t, "p1", p)
	assert.Equal(t, "persons", id)

	p, id = SplitTaskID("p1", "other:persons")
	assert.Equal(t, "other", p)
	assert.Equal(t, "persons", id)
}
