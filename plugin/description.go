package plugin

import (
	"fmt"
	"strconv"
	"strings"
)

// ParameterType tells the host how to render and validate a parameter.
type ParameterType string

// Parameter types understood by the host configuration UI.
const (
	TypeString  ParameterType = "string"
	TypeBoolean ParameterType = "boolean"
	TypeDataset ParameterType = "dataset"
	TypeGraph   ParameterType = "graph"
	TypeSPARQL  ParameterType = "sparql"
	TypeChoice  ParameterType = "choice"
)

// Parameter declares one plugin parameter.
type Parameter struct {
	Name        string
	Label       string
	Description string
	Type        ParameterType
	// DatasetType restricts TypeDataset parameters, e.g. "json".
	DatasetType string
	// Options lists the allowed values of TypeChoice parameters.
	Options  []string
	Default  string
	Advanced bool
}

// Description is the registration record of a plugin.
type Description struct {
	ID            string
	Label         string
	Description   string
	Documentation string
	Parameters    []Parameter
}

// Parameter returns the declaration of name.
func (d Description) Parameter(name string) (Parameter, bool) {
	for _, p := range d.Parameters {
		if p.Name == name {
			return p, true
		}
	}
	return Parameter{}, false
}

// Parameters are the configured values of a plugin instance, as strings the
// way the host stores them. Lookups fall back to the declared defaults.
type Parameters struct {
	desc   Description
	values map[string]string
}

// NewParameters binds values to the declarations in desc. Unknown names
// and invalid choices are configuration errors.
func NewParameters(desc Description, values map[string]string) (Parameters,
	error) {

	for name, value := range values {
		p, ok := desc.Parameter(name)
		if !ok {
			return Parameters{}, ConfigurationError(
				"unknown parameter '" + name + "'")
		}
		if p.Type == TypeChoice && value != "" && !contains(p.Options, value) {
			return Parameters{}, ConfigurationError(
				"parameter '" + name + "' must be one of " +
					strings.Join(p.Options, ", "))
		}
	}
	return Parameters{desc: desc, values: values}, nil
}

// String returns the value of name or its declared default.
func (p Parameters) String(name string) string {
	if v, ok := p.values[name]; ok {
		return v
	}
	decl, _ := p.desc.Parameter(name)
	return decl.Default
}

// Bool parses the value of name as a boolean.
func (p Parameters) Bool(name string) (bool, error) {
	raw := p.String(name)
	if raw == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, ConfigurationError(fmt.Sprintf(
			"parameter '%s' is not a boolean: %q", name, raw))
	}
	return b, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
