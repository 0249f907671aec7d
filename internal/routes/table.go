package routes

import (
	"errors"
	"strings"
	"sync"
)

var ErrRouteNotFound = errors.New("route not found")

const (
	NameUnauthorized = "unauthorized"
	NameNotFound     = "not-found"
)

// Route is one node of the navigation tree. A child path starting with "/"
// is absolute; otherwise it is joined onto its parent's path.
type Route struct {
	Path         string
	Name         string
	Redirect     string
	RequiresAuth bool
	Children     []*Route

	catchAll  bool
	suffix401 bool
}

// CatchAll builds a fallback route that matches any path. When only401 is
// set it matches only paths ending in "401".
func CatchAll(name string, only401 bool) *Route {
	return &Route{Path: "/*", Name: name, catchAll: true, suffix401: only401}
}

// Match is the outcome of resolving a concrete path.
type Match struct {
	Name         string
	Pattern      string
	Path         string
	Params       map[string]string
	RequiresAuth bool
	Redirect     string
}

// Fallback reports whether the match came from a catch-all route.
func (m Match) Fallback() bool {
	return m.Name == NameNotFound || m.Name == NameUnauthorized
}

// Table is a mutable route tree. Routes can be removed but never re-added.
type Table struct {
	mu    sync.RWMutex
	roots []*Route
}

func NewTable(roots ...*Route) *Table {
	cp := make([]*Route, 0, len(roots))
	for _, r := range roots {
		cp = append(cp, cloneRoute(r))
	}
	return &Table{roots: cp}
}

// DefaultTable returns the dashboard's navigation tree.
func DefaultTable() *Table {
	return NewTable(
		&Route{Path: "/login", Name: "login"},
		&Route{Path: "/logout", Name: "logout"},
		&Route{
			Path:         "/",
			RequiresAuth: true,
			Redirect:     "/projects",
			Children: []*Route{
				{
					Path: "/projects",
					Children: []*Route{
						{Path: ""},
						{Path: "new", Name: "projects.new"},
						{Path: ":id"},
						{Path: ":id/edit", Name: "projects.edit"},
						{Path: ":id/metrics", Name: "projects.metrics"},
					},
				},
				{
					Path: "/benchmarks",
					Name: "benchmarks",
					Children: []*Route{
						{Path: "", Name: "benchmark.list"},
						{Path: "new", Name: "benchmark.new"},
						{Path: ":id", Name: "benchmark.edit"},
					},
				},
				{
					Path: "/users",
					Name: "users",
					Children: []*Route{
						{Path: "", Name: "user.list"},
						{Path: "new", Name: "user.new"},
						{Path: ":id", Name: "user.edit"},
					},
				},
				CatchAll(NameUnauthorized, true),
				CatchAll(NameNotFound, false),
			},
		},
	)
}

// Remove drops the named route together with its children. It reports
// whether anything was removed.
func (t *Table) Remove(name string) bool {
	if name == "" {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	var removed bool
	t.roots, removed = removeNamed(t.roots, name)
	return removed
}

func removeNamed(nodes []*Route, name string) ([]*Route, bool) {
	for i, n := range nodes {
		if n.Name == name {
			out := append(append([]*Route(nil), nodes[:i]...), nodes[i+1:]...)
			return out, true
		}
		if children, ok := removeNamed(n.Children, name); ok {
			n.Children = children
			return nodes, true
		}
	}
	return nodes, false
}

// Has reports whether a route with the given name is present.
func (t *Table) Has(name string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var found bool
	walk(t.roots, "", false, func(r *Route, _ string, _ bool) {
		if r.Name == name {
			found = true
		}
	})
	return found
}

// Names lists every named route, depth first.
func (t *Table) Names() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var names []string
	walk(t.roots, "", false, func(r *Route, _ string, _ bool) {
		if r.Name != "" {
			names = append(names, r.Name)
		}
	})
	return names
}

// Resolve finds the best match for path. Static segments outrank params and
// catch-alls are tried last, "401" before the generic one.
func (t *Table) Resolve(path string) (Match, error) {
	path = normalize(path)
	segs := split(path)

	t.mu.RLock()
	defer t.mu.RUnlock()

	var (
		best      Match
		bestScore = -1
		fallbacks []Match
	)
	walk(t.roots, "", false, func(r *Route, full string, auth bool) {
		if len(r.Children) > 0 && r.Redirect == "" {
			return
		}
		m := Match{Name: r.Name, Pattern: full, Path: path, RequiresAuth: auth, Redirect: r.Redirect}
		if r.catchAll {
			if r.suffix401 && !strings.HasSuffix(path, "401") {
				return
			}
			fallbacks = append(fallbacks, m)
			return
		}
		params, score, ok := matchSegments(split(full), segs)
		if !ok || score <= bestScore {
			return
		}
		m.Params = params
		best, bestScore = m, score
	})

	if bestScore >= 0 {
		return best, nil
	}
	for _, f := range fallbacks {
		if f.Name == NameUnauthorized {
			return f, nil
		}
	}
	if len(fallbacks) > 0 {
		return fallbacks[0], nil
	}
	return Match{}, ErrRouteNotFound
}

func walk(nodes []*Route, parent string, auth bool, fn func(r *Route, full string, auth bool)) {
	for _, n := range nodes {
		full := join(parent, n.Path)
		a := auth || n.RequiresAuth
		fn(n, full, a)
		walk(n.Children, full, a, fn)
	}
}

func matchSegments(pattern, segs []string) (map[string]string, int, bool) {
	if len(pattern) != len(segs) {
		return nil, 0, false
	}
	params := map[string]string{}
	score := 0
	for i, p := range pattern {
		if strings.HasPrefix(p, ":") {
			params[p[1:]] = segs[i]
			score++
			continue
		}
		if p != segs[i] {
			return nil, 0, false
		}
		score += 2
	}
	return params, score, true
}

func join(parent, child string) string {
	if strings.HasPrefix(child, "/") {
		return normalize(child)
	}
	if child == "" {
		return normalize(parent)
	}
	return normalize(strings.TrimSuffix(parent, "/") + "/" + child)
}

func normalize(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
		if p == "" {
			p = "/"
		}
	}
	return p
}

func split(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

func cloneRoute(r *Route) *Route {
	cp := *r
	cp.Children = make([]*Route, 0, len(r.Children))
	for _, c := range r.Children {
		cp.Children = append(cp.Children, cloneRoute(c))
	}
	return &cp
}
