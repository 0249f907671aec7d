package services

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/Infinities-ICT-Solutions/project-dashboard-cli/internal/schema"
	"github.com/goccy/go-json"
)

const resourceProjects = "projects"

type ProjectService struct {
	client *Client
}

func NewProjectService(c *Client) *ProjectService {
	return &ProjectService{client: c}
}

// Get fetches one project and validates it against the project schema. A
// malformed payload fails with *schema.ValidationError.
func (s *ProjectService) Get(ctx context.Context, id string) (*schema.Project, error) {
	raw, err := s.client.do(ctx, call{
		resource: resourceProjects, operation: "get",
		method: http.MethodGet, path: "/projects/" + url.PathEscape(id),
	})
	if err != nil {
		return nil, err
	}
	return schema.ParseProject(raw)
}

func (s *ProjectService) GetAll(ctx context.Context) ([]schema.Project, error) {
	var out []schema.Project
	err := s.client.doJSON(ctx, call{
		resource: resourceProjects, operation: "get_all",
		method: http.MethodGet, path: "/projects",
	}, nil, &out)
	return out, err
}

func (s *ProjectService) Create(ctx context.Context, p *schema.Project) (*schema.Project, error) {
	var out schema.Project
	err := s.client.doJSON(ctx, call{
		resource: resourceProjects, operation: "create",
		method: http.MethodPost, path: "/projects",
	}, p, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *ProjectService) Update(ctx context.Context, id string, p *schema.Project) (*schema.Project, error) {
	var out schema.Project
	err := s.client.doJSON(ctx, call{
		resource: resourceProjects, operation: "update",
		method: http.MethodPut, path: "/projects/" + url.PathEscape(id),
	}, p, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete returns whatever the API answers with, usually nothing.
func (s *ProjectService) Delete(ctx context.Context, id string) (json.RawMessage, error) {
	var out json.RawMessage
	err := s.client.doJSON(ctx, call{
		resource: resourceProjects, operation: "delete",
		method: http.MethodDelete, path: "/projects/" + url.PathEscape(id),
	}, nil, &out)
	return out, err
}

func (s *ProjectService) UpdateMetrics(ctx context.Context, id string, m *schema.Metrics) (json.RawMessage, error) {
	var out json.RawMessage
	err := s.client.doJSON(ctx, call{
		resource: resourceProjects, operation: "update_metrics",
		method: http.MethodPut, path: "/projects/" + url.PathEscape(id) + "/metrics",
	}, m, &out)
	return out, err
}

type completionRequest struct {
	CompletionDate schema.Date `json:"completionDate"`
}

func (s *ProjectService) MarkAsCompleted(ctx context.Context, id string, date time.Time) (json.RawMessage, error) {
	var out json.RawMessage
	err := s.client.doJSON(ctx, call{
		resource: resourceProjects, operation: "mark_completed",
		method: http.MethodPatch, path: "/projects/" + url.PathEscape(id) + "/completed",
	}, completionRequest{CompletionDate: schema.NewDate(date)}, &out)
	return out, err
}
