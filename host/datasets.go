package host

import (
	"context"
	"net/http"

	"github.com/eccenca/go-validation-plugins/logger"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

// TaskMetadata is the workspace description of a task.
type TaskMetadata struct {
	Project string
	ID      string
	raw     gjson.Result
}

// Type returns the plugin type of the task, e.g. "json" for JSON datasets.
func (m *TaskMetadata) Type() string {
	return m.raw.Get("data.type").String()
}

// Parameter returns a task parameter value. Both the plain and the
// {"value": ...} parameter representations are understood.
func (m *TaskMetadata) Parameter(name string) string {
	p := m.raw.Get("data.parameters." + gjson.Escape(name))
	if p.IsObject() {
		return p.Get("value").String()
	}
	return p.String()
}

// FileResource returns the resource name of a file based dataset.
func (m *TaskMetadata) FileResource() (string, error) {
	file := m.Parameter("file")
	if file == "" {
		return "", errors.WithMessagef(ErrNoFileResource, "%s:%s",
			m.Project, m.ID)
	}
	return file, nil
}

// TaskMetadata fetches the description of a workspace task.
func (c *Client) TaskMetadata(ctx context.Context, project,
	task string) (*TaskMetadata, error) {

	resp, err := c.di.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetPathParams(map[string]string{"project": project, "task": task}).
		Get("/workspace/projects/{project}/tasks/{task}")
	if err = check(resp, err); err != nil {
		return nil, errors.WithMessagef(err, "failed to get task %s:%s",
			project, task)
	}
	if !gjson.ValidBytes(resp.Body()) {
		return nil, errors.Errorf("task %s:%s: invalid JSON response",
			project, task)
	}
	return &TaskMetadata{
		Project: project,
		ID:      task,
		raw:     gjson.ParseBytes(resp.Body()),
	}, nil
}

// Resource returns the content of a project file resource.
func (c *Client) Resource(ctx context.Context, project,
	name string) ([]byte, error) {

	resp, err := c.di.R().
		SetContext(ctx).
		SetPathParams(map[string]string{"project": project, "name": name}).
		Get("/workspace/projects/{project}/resources/{name}")
	if err = check(resp, err); err != nil {
		return nil, errors.WithMessagef(err, "failed to get resource %s of %s",
			name, project)
	}
	return resp.Body(), nil
}

// PutResource creates or replaces a project file resource.
func (c *Client) PutResource(ctx context.Context, project, name string,
	body []byte) error {

	resp, err := c.di.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/octet-stream").
		SetPathParams(map[string]string{"project": project, "name": name}).
		SetBody(body).
		Put("/workspace/projects/{project}/resources/{name}")
	if err = check(resp, err); err != nil {
		return errors.WithMessagef(err, "failed to write resource %s of %s",
			name, project)
	}
	if resp.StatusCode() != http.StatusNoContent &&
		resp.StatusCode() != http.StatusOK &&
		resp.StatusCode() != http.StatusCreated {
		return errors.Errorf("unexpected status writing resource %s: %d",
			name, resp.StatusCode())
	}
	return nil
}

// DatasetResource implements DatasetStore.
func (c *Client) DatasetResource(ctx context.Context, project,
	dataset string) ([]byte, error) {

	name, err := c.datasetFile(ctx, project, dataset)
	if err != nil {
		return nil, err
	}
	logger.Named("host").Debugw("reading dataset resource",
		"project", project, "dataset", dataset, "resource", name)
	return c.Resource(ctx, project, name)
}

// PutDatasetResource implements DatasetStore.
func (c *Client) PutDatasetResource(ctx context.Context, project,
	dataset string, body []byte) error {

	name, err := c.datasetFile(ctx, project, dataset)
	if err != nil {
		return err
	}
	logger.Named("host").Debugw("writing dataset resource",
		"project", project, "dataset", dataset, "resource", name,
		"bytes", len(body))
	return c.PutResource(ctx, project, name, body)
}

func (c *Client) datasetFile(ctx context.Context, project,
	dataset string) (string, error) {

	project, task := SplitTaskID(project, dataset)
	meta, err := c.TaskMetadata(ctx, project, task)
	if err != nil {
		return "", err
	}
	return meta.FileResource()
}
