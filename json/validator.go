package json

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/eccenca/go-validation-plugins/loaders"
	"github.com/pkg/errors"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// schemaURL is the resource name the schema is registered under. Relative
// references inside the schema resolve against it.
const schemaURL = "schema.json"

// ValidationError describes why a document does not conform to a schema.
type ValidationError struct {
	// Message is the message of the most specific failing keyword.
	Message          string
	InstanceLocation string
	KeywordLocation  string

	cause *jsonschema.ValidationError
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Detailed returns the full validator output, listing every failing
// keyword.
func (e *ValidationError) Detailed() string {
	if e.cause == nil {
		return e.Message
	}
	return fmt.Sprintf("%#v", e.cause)
}

// CompileOpt configures Compile.
type CompileOpt func(c *jsonschema.Compiler)

// WithLoadURL replaces the loader for remote references.
func WithLoadURL(f func(s string) (io.ReadCloser, error)) CompileOpt {
	return func(c *jsonschema.Compiler) {
		c.LoadURL = f
	}
}

// WithDraft sets the draft used when the schema has no $schema keyword.
func WithDraft(d *jsonschema.Draft) CompileOpt {
	return func(c *jsonschema.Compiler) {
		c.Draft = d
	}
}

// Schema is a compiled JSON Schema.
type Schema struct {
	schema *jsonschema.Schema
}

// Compile parses and compiles a JSON Schema document. Remote references are
// loaded over http(s).
func Compile(schema []byte, opts ...CompileOpt) (*Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.LoadURL = loaders.LoadURL
	for _, opt := range opts {
		opt(compiler)
	}

	err := compiler.AddResource(schemaURL, bytes.NewReader(schema))
	if err != nil {
		return nil, errors.WithMessage(err, "invalid JSON schema")
	}
	sh, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, errors.WithMessage(err, "invalid JSON schema")
	}
	return &Schema{schema: sh}, nil
}

// Validate checks a decoded document. Violations are returned as
// *ValidationError.
func (s *Schema) Validate(doc any) error {
	err := s.schema.Validate(doc)
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	leaf := mostSpecific(ve)
	return &ValidationError{
		Message:          leaf.Message,
		InstanceLocation: leaf.InstanceLocation,
		KeywordLocation:  leaf.KeywordLocation,
		cause:            ve,
	}
}

// mostSpecific picks the failing keyword to report. Under anyOf and oneOf
// only the branch with the fewest failures is considered. Causes of object
// keywords come in map order, so leaves are ordered by location to keep
// the message stable between runs.
func mostSpecific(ve *jsonschema.ValidationError) *jsonschema.ValidationError {
	if len(ve.Causes) == 0 {
		return ve
	}
	causes := ve.Causes
	if isBranching(ve.KeywordLocation) {
		causes = []*jsonschema.ValidationError{closestBranch(ve.Causes)}
	}

	var best *jsonschema.ValidationError
	for _, c := range causes {
		leaf := mostSpecific(c)
		if best == nil || leafLess(leaf, best) {
			best = leaf
		}
	}
	return best
}

func isBranching(keywordLocation string) bool {
	return strings.HasSuffix(keywordLocation, "/anyOf") ||
		strings.HasSuffix(keywordLocation, "/oneOf")
}

func closestBranch(branches []*jsonschema.ValidationError) *jsonschema.ValidationError {
	best, bestN := branches[0], countLeaves(branches[0])
	for _, b := range branches[1:] {
		n := countLeaves(b)
		if n < bestN || (n == bestN && b.KeywordLocation < best.KeywordLocation) {
			best, bestN = b, n
		}
	}
	return best
}

func countLeaves(ve *jsonschema.ValidationError) int {
	if len(ve.Causes) == 0 {
		return 1
	}
	n := 0
	for _, c := range ve.Causes {
		n += countLeaves(c)
	}
	return n
}

func leafLess(a, b *jsonschema.ValidationError) bool {
	if a.InstanceLocation != b.InstanceLocation {
		return a.InstanceLocation < b.InstanceLocation
	}
	return a.KeywordLocation < b.KeywordLocation
}
