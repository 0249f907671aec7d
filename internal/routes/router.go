package routes

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

const (
	LoginPath    = "/login"
	maxRedirects = 8
)

// Router navigates a Table. Guarded routes send an unauthenticated caller to
// LoginPath; redirects are followed.
type Router struct {
	table         *Table
	authenticated func() bool
	logger        *zap.Logger

	mu      sync.RWMutex
	current Match
}

func NewRouter(table *Table, authenticated func() bool, logger *zap.Logger) *Router {
	if authenticated == nil {
		authenticated = func() bool { return false }
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{table: table, authenticated: authenticated, logger: logger}
}

func (r *Router) Table() *Table { return r.table }

// Push navigates to path and records where navigation ended up.
func (r *Router) Push(path string) (Match, error) {
	target := path
	for i := 0; i <= maxRedirects; i++ {
		m, err := r.table.Resolve(target)
		if err != nil {
			return Match{}, fmt.Errorf("navigate to %q: %w", path, err)
		}
		if m.RequiresAuth && !r.authenticated() && normalize(target) != LoginPath {
			r.logger.Debug("auth guard redirect", zap.String("path", target))
			target = LoginPath
			continue
		}
		if m.Redirect != "" {
			target = m.Redirect
			continue
		}

		r.mu.Lock()
		r.current = m
		r.mu.Unlock()
		r.logger.Debug("navigated", zap.String("path", m.Path), zap.String("route", m.Name))
		return m, nil
	}
	return Match{}, fmt.Errorf("navigate to %q: too many redirects", path)
}

// Current returns the last successful navigation.
func (r *Router) Current() Match {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// CurrentPath returns the concrete path of the last navigation, or "/".
func (r *Router) CurrentPath() string {
	if p := r.Current().Path; p != "" {
		return p
	}
	return "/"
}
