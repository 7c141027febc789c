// Package entities implements the ValidateEntity workflow plugin, which
// validates JSON documents against a JSON Schema.
package entities

import (
	"context"

	"github.com/eccenca/go-validation-plugins/host"
	vjson "github.com/eccenca/go-validation-plugins/json"
	"github.com/eccenca/go-validation-plugins/logger"
	"github.com/eccenca/go-validation-plugins/plugin"
	"github.com/pkg/errors"
)

// ErrViolations is matched by the error of an execution that failed
// because of schema violations.
var ErrViolations = errors.New("schema violations found")

type violationsError struct {
	msg string
}

func (e *violationsError) Error() string { return e.msg }

func (e *violationsError) Is(target error) bool {
	return target == ErrViolations
}

// ValidateEntity validates JSON documents against a JSON Schema.
type ValidateEntity struct {
	cfg         Config
	store       host.DatasetStore
	compileOpts []vjson.CompileOpt
}

var _ plugin.WorkflowPlugin = (*ValidateEntity)(nil)

// Config returns the configuration of the instance.
func (v *ValidateEntity) Config() Config {
	return v.cfg
}

// Execute validates every document of the source. Valid documents are
// returned as entities or written to the target dataset.
func (v *ValidateEntity) Execute(ctx context.Context, inputs []*plugin.Entities,
	ectx *plugin.ExecutionContext) (*plugin.Entities, error) {

	log := logger.Named("entities").With("project", ectx.ProjectID,
		"task", ectx.TaskID)

	schemaData, err := v.store.DatasetResource(ctx, ectx.ProjectID,
		v.cfg.SchemaDataset)
	if err != nil {
		return nil, errors.WithMessage(err, "failed to read JSON schema")
	}
	schema, err := vjson.Compile(schemaData, v.compileOpts...)
	if err != nil {
		return nil, err
	}

	docs, err := v.documents(ctx, inputs, ectx)
	if err != nil {
		return nil, err
	}

	var state State
	valid := make([]any, 0, len(docs))
	for i, doc := range docs {
		state.IncrementTotal()
		err = schema.Validate(doc)
		if err == nil {
			valid = append(valid, doc)
			continue
		}
		var ve *vjson.ValidationError
		if !errors.As(err, &ve) {
			return nil, errors.WithMessagef(err, "document %d", i)
		}
		log.Debugw("document violates schema", "index", i,
			"location", ve.InstanceLocation, "message", ve.Message)
		state.AddViolation(ve.Message)
	}

	msg := state.Message()
	report := plugin.ExecutionReport{
		EntityCount:   state.Total(),
		Operation:     "read",
		OperationDesc: " entities validated",
		Summary:       state.Summary(),
		Warnings:      []string{},
	}
	if v.cfg.FailOnViolations {
		report.Error = msg
	} else if msg != "" {
		report.Warnings = append(report.Warnings, msg)
	}
	ectx.Report.Update(report)
	log.Infow("validation finished", "total", state.Total(),
		"violations", state.Violations())

	if v.cfg.FailOnViolations && state.Violations() > 0 {
		return nil, errors.WithStack(&violationsError{msg: msg})
	}

	switch t := v.cfg.Target.(type) {
	case DatasetTarget:
		data, err := vjson.Encode(valid)
		if err != nil {
			return nil, err
		}
		if err = v.store.PutDatasetResource(ctx, ectx.ProjectID, t.Dataset,
			data); err != nil {
			return nil, errors.WithMessage(err, "failed to write target dataset")
		}
		log.Infow("valid documents written", "dataset", t.Dataset,
			"count", len(valid))
		return nil, nil
	default:
		return documentEntities(valid)
	}
}

func (v *ValidateEntity) documents(ctx context.Context,
	inputs []*plugin.Entities, ectx *plugin.ExecutionContext) ([]any, error) {

	switch s := v.cfg.Source.(type) {
	case DatasetSource:
		data, err := v.store.DatasetResource(ctx, ectx.ProjectID, s.Dataset)
		if err != nil {
			return nil, errors.WithMessage(err, "failed to read source dataset")
		}
		return vjson.DecodeDocuments(data)
	default:
		return entityDocuments(inputs)
	}
}
