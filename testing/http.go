package testing

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

type mockedRouterTripper struct {
	t         testing.TB
	routes    map[string]string
	seenURLsM sync.Mutex
	seenURLs  map[string]struct{}
}

// RoundTrip serves the fixture file registered for the request. Routes are
// looked up as "METHOD url%%%body", "METHOD url" and finally "url".
func (m *mockedRouterTripper) RoundTrip(
	request *http.Request) (*http.Response, error) {

	urlStr := request.URL.String()
	var postData []byte
	if request.Body != nil && request.Method != http.MethodGet {
		var err error
		postData, err = io.ReadAll(request.Body)
		if err != nil {
			rr := httptest.NewRecorder()
			http.Error(rr, err.Error(), http.StatusInternalServerError)

			httpResp := rr.Result()
			httpResp.Request = request
			return httpResp, nil
		}
	}

	candidates := []string{request.Method + " " + urlStr, urlStr}
	if len(postData) > 0 {
		candidates = append(
			[]string{request.Method + " " + urlStr + "%%%" + string(postData)},
			candidates...)
	}

	var routerKey, respFile string
	var ok bool
	for _, k := range candidates {
		if respFile, ok = m.routes[k]; ok {
			routerKey = k
			break
		}
	}
	if !ok {
		var requestBodyStr = string(postData)
		if requestBodyStr == "" {
			m.t.Errorf("unexpected http request: %v %v", request.Method, urlStr)
		} else {
			m.t.Errorf("unexpected http request: %v %v\nBody: %v",
				request.Method, urlStr, requestBodyStr)
		}
		rr2 := httptest.NewRecorder()
		rr2.WriteHeader(http.StatusNotFound)
		httpResp := rr2.Result()
		httpResp.Request = request
		return httpResp, nil
	}

	m.seenURLsM.Lock()
	if m.seenURLs == nil {
		m.seenURLs = make(map[string]struct{})
	}
	m.seenURLs[routerKey] = struct{}{}
	m.seenURLsM.Unlock()

	rr := httptest.NewRecorder()
	serveReq := request.Clone(request.Context())
	serveReq.Method = http.MethodGet
	http.ServeFile(rr, serveReq, respFile)

	rr2 := rr.Result()
	rr2.Request = request
	return rr2, nil
}

type mockHTTPClientOptions struct {
	ignoreUntouchedURLs bool
}

// MockHTTPClientOption configures MockHTTPClient.
type MockHTTPClientOption func(*mockHTTPClientOptions)

// IgnoreUntouchedURLs disables the check that every route was requested.
func IgnoreUntouchedURLs() MockHTTPClientOption {
	return func(opts *mockHTTPClientOptions) {
		opts.ignoreUntouchedURLs = true
	}
}

// MockHTTPClient replaces http.DefaultTransport with a router serving
// fixture files and returns the function restoring it.
func MockHTTPClient(t testing.TB, routes map[string]string,
	opts ...MockHTTPClientOption) func() {

	var op mockHTTPClientOptions
	for _, o := range opts {
		o(&op)
	}

	oldRoundTripper := http.DefaultTransport
	transport := &mockedRouterTripper{t: t, routes: routes}
	http.DefaultTransport = transport
	return func() {
		http.DefaultTransport = oldRoundTripper

		if !op.ignoreUntouchedURLs {
			for u := range routes {
				_, ok := transport.seenURLs[u]
				assert.True(t, ok,
					"found a URL in routes that we did not touch: %v", u)
			}
		}
	}
}
