package host

import (
	"context"
	"crypto/tls"
	"net/http"
	"strings"

	"github.com/eccenca/go-validation-plugins/config"
	"github.com/eccenca/go-validation-plugins/logger"
	"github.com/go-resty/resty/v2"
	"github.com/piprate/json-gold/ld"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// Client implements DatasetStore, GraphStore and ShaclEngine against the
// platform's HTTP APIs.
type Client struct {
	di        *resty.Client
	dp        *resty.Client
	docLoader ld.DocumentLoader
}

var (
	_ DatasetStore = (*Client)(nil)
	_ GraphStore   = (*Client)(nil)
	_ ShaclEngine  = (*Client)(nil)
)

type clientOptions struct {
	httpClient  *http.Client
	tokenSource oauth2.TokenSource
	docLoader   ld.DocumentLoader
}

// ClientOpt configures NewClient.
type ClientOpt func(*clientOptions)

// WithHTTPClient uses hc as is. No token is added to requests.
func WithHTTPClient(hc *http.Client) ClientOpt {
	return func(o *clientOptions) {
		o.httpClient = hc
	}
}

// WithTokenSource overrides the token source derived from the config.
func WithTokenSource(ts oauth2.TokenSource) ClientOpt {
	return func(o *clientOptions) {
		o.tokenSource = ts
	}
}

// WithDocumentLoader sets the JSON-LD loader used to convert SHACL
// reports.
func WithDocumentLoader(l ld.DocumentLoader) ClientOpt {
	return func(o *clientOptions) {
		o.docLoader = l
	}
}

// NewClient creates a client for the endpoints in cfg. Requests carry a
// bearer token obtained with the configured OAuth grant.
func NewClient(ctx context.Context, cfg *config.Config,
	opts ...ClientOpt) (*Client, error) {

	if cfg == nil {
		return nil, errors.New("configuration is required")
	}
	var o clientOptions
	for _, opt := range opts {
		opt(&o)
	}

	// plain carries no token and serves requests to other hosts.
	hc, plain := o.httpClient, o.httpClient
	if hc == nil {
		base := http.DefaultTransport.(*http.Transport).Clone()
		if !cfg.SSLVerify {
			//nolint:gosec // explicitly requested by SSL_VERIFY=false
			base.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
		}
		plain = &http.Client{Transport: base, Timeout: cfg.Timeout}
		ctx = context.WithValue(ctx, oauth2.HTTPClient, plain)

		ts := o.tokenSource
		if ts == nil {
			var err error
			ts, err = tokenSource(ctx, cfg)
			if err != nil {
				return nil, err
			}
		}
		hc = oauth2.NewClient(ctx, ts)
	}

	if o.docLoader == nil {
		var err error
		o.docLoader, err = newReportLoader(plain)
		if err != nil {
			return nil, err
		}
	}

	return &Client{
		di:        newRestyClient(hc, cfg, cfg.DIEndpoint),
		dp:        newRestyClient(hc, cfg, cfg.DPEndpoint),
		docLoader: o.docLoader,
	}, nil
}

func tokenSource(ctx context.Context, cfg *config.Config) (oauth2.TokenSource,
	error) {

	switch cfg.GrantType {
	case config.GrantClientCredentials:
		cc := clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURI,
		}
		return cc.TokenSource(ctx), nil
	case config.GrantPrefetchedToken:
		return oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: strings.TrimSpace(cfg.AccessToken),
		}), nil
	default:
		return nil, errors.Errorf("unsupported grant type %q", cfg.GrantType)
	}
}

func newRestyClient(hc *http.Client, cfg *config.Config,
	baseURL string) *resty.Client {

	c := resty.NewWithClient(hc).
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("User-Agent", "go-validation-plugins")

	c.OnAfterResponse(func(_ *resty.Client, r *resty.Response) error {
		logger.Named("host").Debugw("host request",
			"method", r.Request.Method,
			"url", r.Request.URL,
			"status", r.StatusCode(),
			"duration", r.Time(),
		)
		return nil
	})
	return c
}

// check turns transport failures and non-2xx responses into errors.
func check(resp *resty.Response, err error) error {
	if err != nil {
		return errors.WithMessage(err, "host request failed")
	}
	if resp.IsError() {
		return errors.WithStack(&StatusError{
			Method:     resp.Request.Method,
			URL:        resp.Request.URL,
			StatusCode: resp.StatusCode(),
			Body:       strings.TrimSpace(resp.String()),
		})
	}
	return nil
}
