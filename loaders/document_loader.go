package loaders

import (
	"context"
	"encoding/json"
	"net/http"
	"regexp"
	"strings"

	"github.com/piprate/json-gold/ld"
	"github.com/pkg/errors"
)

const (
	// An HTTP Accept header that prefers JSONLD.
	acceptHeader = "application/ld+json, application/json;q=0.9, application/javascript;q=0.5, text/javascript;q=0.5, text/plain;q=0.2, */*;q=0.1"

	// JSON-LD link header rel
	linkHeaderRel = "http://www.w3.org/ns/json-ld#context"
)

var rApplicationJSON = regexp.MustCompile(`^application/(\w*\+)?json$`)

type documentLoader struct {
	httpClient *http.Client
	embedDocs  map[string]*ld.RemoteDocument
}

// DocumentLoaderOption configures NewDocumentLoader.
type DocumentLoaderOption func(*documentLoader) error

// WithEmbeddedDocumentBytes serves u from doc without network access.
func WithEmbeddedDocumentBytes(u string, doc []byte) DocumentLoaderOption {
	return func(loader *documentLoader) error {
		rd := &ld.RemoteDocument{DocumentURL: u}
		if err := json.Unmarshal(doc, &rd.Document); err != nil {
			return errors.WithMessagef(err, "embedded document %s", u)
		}
		loader.embedDocs[u] = rd
		return nil
	}
}

// WithHTTPClient sets the client used for remote documents.
func WithHTTPClient(c *http.Client) DocumentLoaderOption {
	return func(loader *documentLoader) error {
		loader.httpClient = c
		return nil
	}
}

// NewDocumentLoader creates a JSON-LD document loader for http and https
// contexts. Documents are fetched on every call.
func NewDocumentLoader(opts ...DocumentLoaderOption) (ld.DocumentLoader,
	error) {

	loader := &documentLoader{embedDocs: make(map[string]*ld.RemoteDocument)}
	for _, opt := range opts {
		if err := opt(loader); err != nil {
			return nil, err
		}
	}
	return loader, nil
}

func (d *documentLoader) LoadDocument(u string) (*ld.RemoteDocument, error) {
	if doc, ok := d.embedDocs[u]; ok {
		return doc, nil
	}

	if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		return nil, ld.NewJsonLdError(ld.LoadingDocumentFailed,
			errors.Errorf("unsupported URL schema: %s", u))
	}

	res, err := HTTP{URL: u, Accept: acceptHeader, Client: d.httpClient}.
		do(context.Background())
	if err != nil {
		return nil, ld.NewJsonLdError(ld.LoadingDocumentFailed, err)
	}
	defer func() { _ = res.Body.Close() }()

	doc := &ld.RemoteDocument{DocumentURL: res.Request.URL.String()}

	contentType := res.Header.Get("Content-Type")
	linkHeader := res.Header.Get("Link")

	if len(linkHeader) > 0 {
		parsedLinkHeader := ld.ParseLinkHeader(linkHeader)
		contextLink := parsedLinkHeader[linkHeaderRel]
		if contextLink != nil && contentType != ld.ApplicationJSONLDType {
			if len(contextLink) > 1 {
				return nil, ld.NewJsonLdError(ld.MultipleContextLinkHeaders,
					nil)
			} else if len(contextLink) == 1 {
				doc.ContextURL = contextLink[0]["target"]
			}
		}

		// an alternate JSON-LD representation wins over plain responses
		alternateLink := parsedLinkHeader["alternate"]
		if len(alternateLink) > 0 &&
			alternateLink[0]["type"] == ld.ApplicationJSONLDType &&
			!rApplicationJSON.MatchString(contentType) {

			return d.LoadDocument(ld.Resolve(u, alternateLink[0]["target"]))
		}
	}

	doc.Document, err = ld.DocumentFromReader(res.Body)
	if err != nil {
		return nil, ld.NewJsonLdError(ld.LoadingDocumentFailed, err)
	}
	return doc, nil
}
