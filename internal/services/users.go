package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/Infinities-ICT-Solutions/project-dashboard-cli/internal/schema"
	"github.com/goccy/go-json"
)

const (
	resourceUsers   = "users"
	AvatarFormField = "avatar"
)

type UserService struct {
	client *Client
}

func NewUserService(c *Client) *UserService {
	return &UserService{client: c}
}

func (s *UserService) Get(ctx context.Context, id string) (*schema.User, error) {
	var out schema.User
	err := s.client.doJSON(ctx, call{
		resource: resourceUsers, operation: "get",
		method: http.MethodGet, path: "/users/" + url.PathEscape(id),
	}, nil, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *UserService) GetAll(ctx context.Context) ([]schema.User, error) {
	var out []schema.User
	err := s.client.doJSON(ctx, call{
		resource: resourceUsers, operation: "get_all",
		method: http.MethodGet, path: "/users",
	}, nil, &out)
	return out, err
}

// Me fetches the user behind the current token.
func (s *UserService) Me(ctx context.Context) (*schema.User, error) {
	var out schema.User
	err := s.client.doJSON(ctx, call{
		resource: resourceUsers, operation: "me",
		method: http.MethodGet, path: "/users/me",
	}, nil, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *UserService) Create(ctx context.Context, u *schema.User) (*schema.User, error) {
	var out schema.User
	err := s.client.doJSON(ctx, call{
		resource: resourceUsers, operation: "create",
		method: http.MethodPost, path: "/users",
	}, u, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *UserService) Update(ctx context.Context, id string, u *schema.User) (*schema.User, error) {
	var out schema.User
	err := s.client.doJSON(ctx, call{
		resource: resourceUsers, operation: "update",
		method: http.MethodPut, path: "/users/" + url.PathEscape(id),
	}, u, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *UserService) Delete(ctx context.Context, id string) (json.RawMessage, error) {
	var out json.RawMessage
	err := s.client.doJSON(ctx, call{
		resource: resourceUsers, operation: "delete",
		method: http.MethodDelete, path: "/users/" + url.PathEscape(id),
	}, nil, &out)
	return out, err
}

type AvatarUpload struct {
	ImageURL string `json:"imageUrl"`
}

// UploadAvatar posts file as a multipart form under the "avatar" field.
func (s *UserService) UploadAvatar(ctx context.Context, filename string, file io.Reader) (*AvatarUpload, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(AvatarFormField, filename)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("copy avatar: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	raw, err := s.client.do(ctx, call{
		resource: resourceUsers, operation: "upload_avatar",
		method: http.MethodPost, path: "/users/avatar",
		body: &buf, contentType: mw.FormDataContentType(),
	})
	if err != nil {
		return nil, err
	}
	var out AvatarUpload
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode upload_avatar response: %w", err)
	}
	return &out, nil
}
