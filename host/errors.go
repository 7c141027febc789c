package host

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

var (
	// ErrMalformedQuery is matched by errors of queries the store rejects.
	ErrMalformedQuery = errors.New("MALFORMED QUERY")
	// ErrGraphNotFound is matched by errors about graphs missing from the
	// graph list.
	ErrGraphNotFound = errors.New("graph not found")
	// ErrNoFileResource is returned for dataset tasks without a file
	// parameter.
	ErrNoFileResource = errors.New("dataset has no file resource")
)

// kindError carries a message and matches a sentinel error with errors.Is.
type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Is(target error) bool { return target == e.kind }

// MalformedQueryError returns an error matching ErrMalformedQuery.
func MalformedQueryError(cause string) error {
	return errors.WithStack(&kindError{
		kind: ErrMalformedQuery,
		msg:  "MALFORMED QUERY: " + cause,
	})
}

// GraphNotFoundError returns an error matching ErrGraphNotFound.
func GraphNotFoundError(iri string) error {
	return errors.WithStack(&kindError{
		kind: ErrGraphNotFound,
		msg:  fmt.Sprintf("Graph %s does not exist in graph list.", iri),
	})
}

// StatusError is returned for non-2xx responses of the host.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s %s: %d %s", e.Method, e.URL, e.StatusCode,
		http.StatusText(e.StatusCode))
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}
