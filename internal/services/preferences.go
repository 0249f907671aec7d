package services

import (
	"context"
	"net/http"
)

type PreferenceService struct {
	client *Client
}

func NewPreferenceService(c *Client) *PreferenceService {
	return &PreferenceService{client: c}
}

// GetOrganisations lists the organisation names clients can belong to.
func (s *PreferenceService) GetOrganisations(ctx context.Context) ([]string, error) {
	var out []string
	err := s.client.doJSON(ctx, call{
		resource: "preferences", operation: "get_organisations",
		method: http.MethodGet, path: "/preferences/organisations",
	}, nil, &out)
	return out, err
}

// Services bundles one service per API resource over a shared Client.
type Services struct {
	Projects    *ProjectService
	Benchmarks  *BenchmarkService
	Users       *UserService
	Preferences *PreferenceService
}

func New(c *Client) *Services {
	return &Services{
		Projects:    NewProjectService(c),
		Benchmarks:  NewBenchmarkService(c),
		Users:       NewUserService(c),
		Preferences: NewPreferenceService(c),
	}
}
