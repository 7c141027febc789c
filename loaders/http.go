package loaders

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
)

// ErrorURLEmpty is empty url error
var ErrorURLEmpty = errors.New("URL is empty")

// DefaultTimeout bounds a single remote document fetch.
const DefaultTimeout = 30 * time.Second

// HTTP is loader for http / https documents
type HTTP struct {
	URL string
	// Accept is sent as Accept header when not empty.
	Accept string
	// Client defaults to http.DefaultClient.
	Client  *http.Client
	Timeout time.Duration
}

// Load fetches the document by url
func (l HTTP) Load(ctx context.Context) ([]byte, error) {
	resp, err := l.do(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	return io.ReadAll(resp.Body)
}

func (l HTTP) do(ctx context.Context) (*http.Response, error) {
	if l.URL == "" {
		return nil, ErrorURLEmpty
	}
	u, err := url.Parse(l.URL)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.Errorf("unsupported URL scheme %q", u.Scheme)
	}

	timeout := l.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(),
		http.NoBody)
	if err != nil {
		cancel()
		return nil, err
	}
	if l.Accept != "" {
		req.Header.Set("Accept", l.Accept)
	}

	c := l.Client
	if c == nil {
		c = http.DefaultClient
	}
	resp, err := c.Do(req)
	if err != nil {
		cancel()
		return nil, errors.WithMessage(err, "http request failed")
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		cancel()
		return nil, errors.Errorf("request failed with status code %v",
			resp.StatusCode)
	}
	resp.Body = &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}
	return resp, nil
}

type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelOnClose) Close() error {
	defer c.cancel()
	return c.ReadCloser.Close()
}

// LoadURL resolves remote references of JSON schemas. It is installed as
// the LoadURL hook of the schema compiler, so only http and https
// references are followed.
func LoadURL(s string) (io.ReadCloser, error) {
	body, err := HTTP{URL: s, Accept: "application/schema+json, application/json;q=0.9"}.
		Load(context.Background())
	if err != nil {
		return nil, errors.WithMessagef(err, "failed to load %s", s)
	}
	return io.NopCloser(bytes.NewReader(body)), nil
}
