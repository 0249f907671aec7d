package rolegate

import (
	"sync"

	"github.com/Infinities-ICT-Solutions/project-dashboard-cli/internal/routes"
	"github.com/Infinities-ICT-Solutions/project-dashboard-cli/internal/session"
	"go.uber.org/zap"
)

// Removals lists the route names a role loses. Admin and unknown lose nothing.
func Removals(role session.Role) []string {
	switch role {
	case session.RoleMember:
		return []string{"benchmarks", "users"}
	case session.RoleClient:
		return []string{"benchmarks", "users", "projects.edit", "projects.metrics"}
	default:
		return nil
	}
}

// Watcher prunes a router's table whenever the session role changes and
// then re-navigates to the current path so a now-hidden page falls through
// to not-found.
type Watcher struct {
	router *routes.Router
	logger *zap.Logger

	once        sync.Once
	unsubscribe func()
}

func NewWatcher(router *routes.Router, logger *zap.Logger) *Watcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{router: router, logger: logger}
}

// Attach subscribes to role changes. Further calls are no-ops.
func (w *Watcher) Attach(s *session.Session) {
	w.once.Do(func() {
		w.unsubscribe = s.Subscribe(w.Apply)
	})
}

// Detach stops watching.
func (w *Watcher) Detach() {
	if w.unsubscribe != nil {
		w.unsubscribe()
	}
}

// Apply runs the effect for role directly. Attach calls it on every change;
// bootstrap calls it once for a restored session.
func (w *Watcher) Apply(role session.Role) {
	names := Removals(role)
	if len(names) == 0 {
		return
	}

	table := w.router.Table()
	for _, name := range names {
		if table.Remove(name) {
			w.logger.Info("route removed for role", zap.String("route", name), zap.String("role", role.String()))
		}
	}

	path := w.router.CurrentPath()
	if _, err := w.router.Push(path); err != nil {
		w.logger.Warn("re-navigation after role change failed", zap.String("path", path), zap.Error(err))
	}
}

// Gate applies role's removals to table without navigating. The shell server
// uses it to build per-request tables.
func Gate(table *routes.Table, role session.Role) *routes.Table {
	for _, name := range Removals(role) {
		table.Remove(name)
	}
	return table
}
