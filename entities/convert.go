package entities

import (
	vjson "github.com/eccenca/go-validation-plugins/json"
	"github.com/eccenca/go-validation-plugins/plugin"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// JSONPath is the entity path holding a whole JSON document.
const JSONPath = "json"

// DocumentTypeURI is the type of output entities.
const DocumentTypeURI = "https://vocab.eccenca.com/validation/JSONDocument"

// entityDocuments converts input entities to JSON documents. Entities with
// a json path are decoded from it; all other entities become an object of
// their path values.
func entityDocuments(inputs []*plugin.Entities) ([]any, error) {
	var docs []any
	for _, in := range inputs {
		if in == nil {
			continue
		}
		jsonIdx := in.Schema.PathIndex(JSONPath)
		for i, e := range in.Entities {
			if jsonIdx >= 0 && jsonIdx < len(e.Values) &&
				len(e.Values[jsonIdx]) == 1 {

				doc, err := vjson.DecodeDocument([]byte(e.Values[jsonIdx][0]))
				if err != nil {
					return nil, errors.WithMessagef(err, "entity %d (%s)",
						i, e.URI)
				}
				docs = append(docs, doc)
				continue
			}
			docs = append(docs, entityObject(in.Schema, e))
		}
	}
	return docs, nil
}

func entityObject(schema plugin.EntitySchema, e plugin.Entity) map[string]any {
	obj := make(map[string]any, len(schema.Paths))
	for i, p := range schema.Paths {
		if i >= len(e.Values) {
			break
		}
		switch vals := e.Values[i]; len(vals) {
		case 0:
		case 1:
			obj[p.Path] = vals[0]
		default:
			list := make([]any, len(vals))
			for j, v := range vals {
				list[j] = v
			}
			obj[p.Path] = list
		}
	}
	return obj
}

// documentEntities wraps documents into entities with a single json path.
func documentEntities(docs []any) (*plugin.Entities, error) {
	out := &plugin.Entities{
		Schema:   plugin.NewSchema(DocumentTypeURI, JSONPath),
		Entities: make([]plugin.Entity, 0, len(docs)),
	}
	for _, doc := range docs {
		data, err := vjson.Encode(doc)
		if err != nil {
			return nil, err
		}
		out.Entities = append(out.Entities, plugin.Entity{
			URI:    "urn:uuid:" + uuid.NewString(),
			Values: [][]string{{string(data)}},
		})
	}
	return out, nil
}
