package plugin

// EntityPath is a single column of an entity schema.
type EntityPath struct {
	Path      string
	ValueType string
}

// EntitySchema describes the columns shared by all entities of a
// collection.
type EntitySchema struct {
	TypeURI string
	Paths   []EntityPath
}

// PathIndex returns the position of path in the schema or -1.
func (s EntitySchema) PathIndex(path string) int {
	for i, p := range s.Paths {
		if p.Path == path {
			return i
		}
	}
	return -1
}

// Entity is one row. Values holds one value list per schema path.
type Entity struct {
	URI    string
	Values [][]string
}

// Entities is an entity collection with its schema.
type Entities struct {
	Schema   EntitySchema
	Entities []Entity
}

// NewSchema builds a schema whose paths all hold plain strings.
func NewSchema(typeURI string, paths ...string) EntitySchema {
	s := EntitySchema{TypeURI: typeURI, Paths: make([]EntityPath, len(paths))}
	for i, p := range paths {
		s.Paths[i] = EntityPath{Path: p}
	}
	return s
}

// Len returns the number of entities; it is safe on a nil collection.
func (e *Entities) Len() int {
	if e == nil {
		return 0
	}
	return len(e.Entities)
}

// Values returns the values of path for entity i, nil if the path is not in
// the schema.
func (e *Entities) Values(i int, path string) []string {
	idx := e.Schema.PathIndex(path)
	if idx < 0 || idx >= len(e.Entities[i].Values) {
		return nil
	}
	return e.Entities[i].Values[idx]
}
