package services

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Infinities-ICT-Solutions/project-dashboard-cli/internal/schema"
	"github.com/goccy/go-json"
)

const resourceBenchmarks = "benchmarks"

type BenchmarkService struct {
	client *Client
}

func NewBenchmarkService(c *Client) *BenchmarkService {
	return &BenchmarkService{client: c}
}

func (s *BenchmarkService) Get(ctx context.Context, id string) (*schema.Benchmark, error) {
	var out schema.Benchmark
	err := s.client.doJSON(ctx, call{
		resource: resourceBenchmarks, operation: "get",
		method: http.MethodGet, path: "/benchmarks/" + url.PathEscape(id),
	}, nil, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *BenchmarkService) GetAll(ctx context.Context) ([]schema.Benchmark, error) {
	var out []schema.Benchmark
	err := s.client.doJSON(ctx, call{
		resource: resourceBenchmarks, operation: "get_all",
		method: http.MethodGet, path: "/benchmarks",
	}, nil, &out)
	return out, err
}

func (s *BenchmarkService) Create(ctx context.Context, b *schema.Benchmark) (*schema.Benchmark, error) {
	var out schema.Benchmark
	err := s.client.doJSON(ctx, call{
		resource: resourceBenchmarks, operation: "create",
		method: http.MethodPost, path: "/benchmarks",
	}, b, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *BenchmarkService) Update(ctx context.Context, id string, b *schema.Benchmark) (*schema.Benchmark, error) {
	var out schema.Benchmark
	err := s.client.doJSON(ctx, call{
		resource: resourceBenchmarks, operation: "update",
		method: http.MethodPut, path: "/benchmarks/" + url.PathEscape(id),
	}, b, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *BenchmarkService) Delete(ctx context.Context, id string) (json.RawMessage, error) {
	var out json.RawMessage
	err := s.client.doJSON(ctx, call{
		resource: resourceBenchmarks, operation: "delete",
		method: http.MethodDelete, path: "/benchmarks/" + url.PathEscape(id),
	}, nil, &out)
	return out, err
}
