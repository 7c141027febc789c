package host

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/eccenca/go-validation-plugins/loaders"
	"github.com/eccenca/go-validation-plugins/shacl"
	"github.com/piprate/json-gold/ld"
	"github.com/pkg/errors"
)

// newReportLoader resolves report contexts with hc, which must not carry
// platform credentials.
func newReportLoader(hc *http.Client) (ld.DocumentLoader, error) {
	return shacl.NewDocumentLoader(loaders.WithHTTPClient(hc))
}

// Validate implements ShaclEngine. The platform answers with a JSON-LD
// validation report.
func (c *Client) Validate(ctx context.Context, req ShaclRequest) (
	*shacl.Report, error) {

	if req.ContextGraph == "" || req.ShapeGraph == "" {
		return nil, errors.New("context graph and shape graph are required")
	}

	resp, err := c.dp.R().
		SetContext(ctx).
		SetHeader("Accept", "application/ld+json").
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Post("/api/shacl/validation/resources")
	if err = check(resp, err); err != nil {
		return nil, errors.WithMessagef(err,
			"SHACL validation of %s failed", req.ContextGraph)
	}

	var doc any
	if err = json.Unmarshal(resp.Body(), &doc); err != nil {
		return nil, errors.WithMessage(err, "invalid SHACL report")
	}

	report, err := shacl.ParseJSONLDReport(doc, c.docLoader)
	if err != nil {
		return nil, errors.WithMessage(err, "invalid SHACL report")
	}
	return report, nil
}
