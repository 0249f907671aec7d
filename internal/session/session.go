package session

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// Session holds the current bearer token and the claims decoded from it.
// The auth flow is its only writer; everything else reads.
type Session struct {
	namespace string
	logger    *zap.Logger

	mu     sync.RWMutex
	token  string
	claims *Claims
	role   Role

	subMu  sync.Mutex
	subs   map[int]func(Role)
	nextID int
}

// New creates an empty session. Roles are read from "<namespace>/roles".
func New(namespace string, logger *zap.Logger) *Session {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		namespace: namespace,
		logger:    logger,
		role:      RoleUnknown,
		subs:      make(map[int]func(Role)),
	}
}

// SetToken replaces the token and re-derives claims and role. A token that
// cannot be decoded leaves the session with no claims and RoleUnknown.
func (s *Session) SetToken(token string) {
	var claims *Claims
	if token != "" {
		c, err := DecodeClaims(token, s.namespace)
		if err != nil {
			s.logger.Debug("token decode failed, role falls back to unknown", zap.Error(err))
		} else {
			claims = c
		}
	}

	role := RoleUnknown
	if claims != nil {
		role = DeriveRole(claims.Roles)
	}

	s.mu.Lock()
	prev := s.role
	s.token = token
	s.claims = claims
	s.role = role
	s.mu.Unlock()

	if role != prev {
		s.notify(role)
	}
}

// Clear drops the token, as on logout.
func (s *Session) Clear() {
	s.SetToken("")
}

// Token returns the current bearer token, or "".
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Claims returns a copy of the decoded claims, or nil.
func (s *Session) Claims() *Claims {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.claims == nil {
		return nil
	}
	c := *s.claims
	c.Roles = append([]string(nil), s.claims.Roles...)
	return &c
}

// Role returns the derived role.
func (s *Session) Role() Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.role
}

// Authenticated reports whether a token is present.
func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// Subscribe registers fn to be called with the new role whenever the derived
// role changes. Callbacks run synchronously on the writer's goroutine in
// registration order. The returned func unsubscribes.
func (s *Session) Subscribe(fn func(Role)) func() {
	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Session) notify(role Role) {
	s.subMu.Lock()
	ids := make([]int, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(Role), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, s.subs[id])
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(role)
	}
}

// Restore loads a persisted token into the session. A store with nothing in
// it is not an error.
func (s *Session) Restore(ctx context.Context, store TokenStore) error {
	token, err := store.Load(ctx)
	if errors.Is(err, ErrNoToken) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("restore session: %w", err)
	}
	s.SetToken(token)
	return nil
}
