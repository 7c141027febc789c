// Package plugin contains the contracts between workflow plugins and the
// data-integration host: plugin descriptions with typed parameters, the
// execution context with its report, and the entity model plugins consume
// and produce.
package plugin

import (
	"context"
	"sync"

	"github.com/pkg/errors"
)

// ErrConfiguration is matched by every error raised while constructing a
// plugin from its parameters. Such errors prevent the execution from
// starting.
var ErrConfiguration = errors.New("invalid plugin configuration")

type configurationError struct {
	msg string
}

func (e *configurationError) Error() string { return e.msg }

func (e *configurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// ConfigurationError returns an error with message msg that matches
// ErrConfiguration.
func ConfigurationError(msg string) error {
	return errors.WithStack(&configurationError{msg: msg})
}

// WorkflowPlugin is a workflow operator executed by the host.
type WorkflowPlugin interface {
	// Execute runs the operator once. A nil *Entities means the operator
	// produced no output.
	Execute(ctx context.Context, inputs []*Entities,
		ectx *ExecutionContext) (*Entities, error)
}

// ExecutionContext is what the host hands to a plugin for one execution.
type ExecutionContext struct {
	ProjectID string
	TaskID    string
	Report    *ReportUpdater
}

// NewExecutionContext returns a context for project with an empty report.
func NewExecutionContext(projectID string) *ExecutionContext {
	return &ExecutionContext{
		ProjectID: projectID,
		Report:    &ReportUpdater{},
	}
}

// ExecutionReport is the structured report shown by the host for an
// execution.
type ExecutionReport struct {
	EntityCount   int
	Operation     string
	OperationDesc string
	Summary       [][2]string
	Error         string
	Warnings      []string
}

// ReportUpdater collects the reports a plugin publishes during an
// execution. The host displays the last one.
type ReportUpdater struct {
	m       sync.Mutex
	reports []ExecutionReport
}

// Update publishes a new report.
func (r *ReportUpdater) Update(report ExecutionReport) {
	r.m.Lock()
	defer r.m.Unlock()
	r.reports = append(r.reports, report)
}

// Last returns the most recent report and false if none was published.
func (r *ReportUpdater) Last() (ExecutionReport, bool) {
	r.m.Lock()
	defer r.m.Unlock()
	if len(r.reports) == 0 {
		return ExecutionReport{}, false
	}
	return r.reports[len(r.reports)-1], true
}

// History returns all published reports in publication order.
func (r *ReportUpdater) History() []ExecutionReport {
	r.m.Lock()
	defer r.m.Unlock()
	out := make([]ExecutionReport, len(r.reports))
	copy(out, r.reports)
	return out
}
