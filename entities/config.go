package entities

import (
	"github.com/eccenca/go-validation-plugins/host"
	vjson "github.com/eccenca/go-validation-plugins/json"
	"github.com/eccenca/go-validation-plugins/plugin"
	"github.com/pkg/errors"
)

// Parameter names.
const (
	ParamSourceMode       = "source_mode"
	ParamTargetMode       = "target_mode"
	ParamSchemaDataset    = "json_schema_dataset"
	ParamFailOnViolations = "fail_on_violations"
	ParamSourceDataset    = "source_dataset"
	ParamTargetDataset    = "target_dataset"
)

// Source and target modes.
const (
	ModeDataset  = "dataset"
	ModeEntities = "entities"
)

// PluginID is the registration ID of ValidateEntity.
const PluginID = "cmem_plugin_validation-validate-ValidateEntity"

// Description registers ValidateEntity with the host.
var Description = plugin.Description{
	ID:          PluginID,
	Label:       "Validate Entity",
	Description: "Use JSON schema to validate entities or a JSON dataset.",
	Documentation: `Validates JSON documents against a JSON Schema.

Documents are read from a JSON dataset (source mode 'dataset') or from the
entities of the input port (source mode 'entities'). A dataset holding a
JSON array is validated element by element.

Valid documents are passed on as entities (target mode 'entities') or
written as a JSON array to a JSON dataset (target mode 'dataset').
Violations are reported as warnings, or fail the workflow when
'Fail workflow on violations' is enabled.`,
	Parameters: []plugin.Parameter{
		{
			Name:        ParamSourceMode,
			Label:       "Source mode",
			Description: "Where to read the JSON documents from.",
			Type:        plugin.TypeChoice,
			Options:     []string{ModeDataset, ModeEntities},
			Default:     ModeDataset,
		},
		{
			Name:        ParamTargetMode,
			Label:       "Target mode",
			Description: "Where to write the valid JSON documents to.",
			Type:        plugin.TypeChoice,
			Options:     []string{ModeEntities, ModeDataset},
			Default:     ModeEntities,
		},
		{
			Name:        ParamSchemaDataset,
			Label:       "JSON Schema Dataset",
			Description: "This dataset holds the JSON schema to use for validation.",
			Type:        plugin.TypeDataset,
			DatasetType: "json",
		},
		{
			Name:        ParamFailOnViolations,
			Label:       "Fail workflow on violations",
			Description: "If enabled, the workflow stops when a violation is found.",
			Type:        plugin.TypeBoolean,
			Default:     "false",
		},
		{
			Name:        ParamSourceDataset,
			Label:       "Source JSON Dataset",
			Description: "This dataset holds the resources you want to validate.",
			Type:        plugin.TypeDataset,
			DatasetType: "json",
			Advanced:    true,
		},
		{
			Name:        ParamTargetDataset,
			Label:       "Target JSON Dataset",
			Description: "This dataset receives the valid resources.",
			Type:        plugin.TypeDataset,
			DatasetType: "json",
			Advanced:    true,
		},
	},
}

// Source selects where documents are read from. It is one of
// DatasetSource and EntitiesSource.
type Source interface {
	source()
}

// DatasetSource reads the documents from the file resource of a JSON
// dataset.
type DatasetSource struct {
	Dataset string
}

// EntitiesSource reads the documents from the input entities.
type EntitiesSource struct{}

func (DatasetSource) source()  {}
func (EntitiesSource) source() {}

// Target selects where valid documents are written to. It is one of
// EntitiesTarget and DatasetTarget.
type Target interface {
	target()
}

// EntitiesTarget returns the valid documents as output entities.
type EntitiesTarget struct{}

// DatasetTarget writes the valid documents into the file resource of a
// JSON dataset.
type DatasetTarget struct {
	Dataset string
}

func (EntitiesTarget) target() {}
func (DatasetTarget) target()  {}

// Config is the validated configuration of a ValidateEntity instance.
type Config struct {
	Source           Source
	Target           Target
	SchemaDataset    string
	FailOnViolations bool
}

func (c Config) validate() error {
	switch s := c.Source.(type) {
	case DatasetSource:
		if s.Dataset == "" {
			return plugin.ConfigurationError("When using the source mode " +
				"'dataset', you need to select a Source JSON Dataset.")
		}
	case EntitiesSource:
	default:
		return plugin.ConfigurationError("unknown source mode")
	}

	switch t := c.Target.(type) {
	case DatasetTarget:
		if t.Dataset == "" {
			return plugin.ConfigurationError("When using the target mode " +
				"'dataset', you need to select a Target JSON dataset.")
		}
	case EntitiesTarget:
	default:
		return plugin.ConfigurationError("unknown target mode")
	}

	if c.SchemaDataset == "" {
		return plugin.ConfigurationError(
			"You need to select a JSON Schema Dataset.")
	}
	return nil
}

// Option configures a ValidateEntity instance.
type Option func(*ValidateEntity)

// WithCompileOptions passes options to the JSON Schema compiler.
func WithCompileOptions(opts ...vjson.CompileOpt) Option {
	return func(v *ValidateEntity) {
		v.compileOpts = append(v.compileOpts, opts...)
	}
}

// New creates a ValidateEntity reading datasets from store. Invalid
// configurations yield errors matching plugin.ErrConfiguration.
func New(cfg Config, store host.DatasetStore, opts ...Option) (
	*ValidateEntity, error) {

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if store == nil {
		return nil, errors.New("dataset store is required")
	}
	v := &ValidateEntity{cfg: cfg, store: store}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// FromParameters creates a ValidateEntity from host parameters.
func FromParameters(params plugin.Parameters, store host.DatasetStore,
	opts ...Option) (*ValidateEntity, error) {

	fail, err := params.Bool(ParamFailOnViolations)
	if err != nil {
		return nil, err
	}
	cfg := Config{
		SchemaDataset:    params.String(ParamSchemaDataset),
		FailOnViolations: fail,
	}

	switch params.String(ParamSourceMode) {
	case ModeDataset:
		cfg.Source = DatasetSource{Dataset: params.String(ParamSourceDataset)}
	case ModeEntities:
		cfg.Source = EntitiesSource{}
	}
	switch params.String(ParamTargetMode) {
	case ModeDataset:
		cfg.Target = DatasetTarget{Dataset: params.String(ParamTargetDataset)}
	case ModeEntities:
		cfg.Target = EntitiesTarget{}
	}
	return New(cfg, store, opts...)
}

// Factory returns the registry entry of ValidateEntity.
func Factory(store host.DatasetStore, opts ...Option) plugin.Factory {
	return plugin.Factory{
		Description: Description,
		New: func(params plugin.Parameters) (plugin.WorkflowPlugin, error) {
			return FromParameters(params, store, opts...)
		},
	}
}
