// Package store holds the client-side domain state: posts, notifications,
// conversations, and the authenticated session. Each store exclusively owns
// its collection, keeps derived fields consistent under every mutation, and
// hands consumers read-only snapshots.
package store

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"resona/internal/cache"
	"resona/internal/identity"
	"resona/internal/model"
)

// SessionStore owns the single authenticated session and its state machine:
//
//	anonymous -> authenticating -> authenticated | unauthenticated
//	unauthenticated <-> authenticated via Login/Signup/Logout
//
// IsLoading is true only while Restore, Login or Signup is in flight.
type SessionStore struct {
	mu       sync.Mutex
	cache    cache.SessionCache
	provider identity.Provider

	state SessionState
	user  *model.AuthUser

	subs []chan model.Session
}

// SessionState is an alias kept close to the store that drives it.
type SessionState = model.SessionState

// NewSessionStore creates a session store in the anonymous state. Restore
// must run before dependent consumers render from IsLoading.
func NewSessionStore(sessionCache cache.SessionCache, provider identity.Provider) *SessionStore {
	return &SessionStore{
		cache:    sessionCache,
		provider: provider,
		state:    model.SessionAnonymous,
	}
}

// Snapshot returns the session by value. The user pointer, when present,
// refers to a copy owned by the caller.
func (s *SessionStore) Snapshot() model.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *SessionStore) snapshotLocked() model.Session {
	snap := model.Session{
		State:           s.state,
		IsAuthenticated: s.state == model.SessionAuthenticated,
		IsLoading:       s.state == model.SessionAuthenticating || s.state == model.SessionAnonymous,
	}
	if s.user != nil {
		u := *s.user
		snap.User = &u
	}
	return snap
}

// CurrentUserID returns the signed-in user's id, or "" when unauthenticated.
// Perspective-dependent reads in the other stores take this by value.
func (s *SessionStore) CurrentUserID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return ""
	}
	return s.user.ID
}

// CurrentUser returns a copy of the signed-in user's profile and true, or a
// zero User and false when unauthenticated.
func (s *SessionStore) CurrentUser() (model.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return model.User{}, false
	}
	return s.user.User, true
}

// Subscribe registers an update channel that receives a snapshot after every
// state transition. Slow consumers miss intermediate snapshots rather than
// blocking the store.
func (s *SessionStore) Subscribe() <-chan model.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan model.Session, 8)
	s.subs = append(s.subs, ch)
	return ch
}

// transitionLocked installs the new state and fans the snapshot out.
func (s *SessionStore) transitionLocked(state SessionState, user *model.AuthUser) {
	s.state = state
	s.user = user

	snap := s.snapshotLocked()
	for _, ch := range s.subs {
		select {
		case ch <- snap:
		default:
		}
	}
}

// Restore loads a persisted session at startup. Corrupt or unreadable
// persisted state is cleared and the store lands in unauthenticated; restore
// failures never propagate to the caller.
func (s *SessionStore) Restore(ctx context.Context) {
	s.mu.Lock()
	s.transitionLocked(model.SessionAuthenticating, nil)
	s.mu.Unlock()

	token, userJSON, found, err := s.cache.LoadSession(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		log.Printf("[SessionStore] Restore FAILED: err=%v", err)
		s.transitionLocked(model.SessionUnauthenticated, nil)
		return
	}
	if !found {
		s.transitionLocked(model.SessionUnauthenticated, nil)
		return
	}

	var user model.User
	if err := json.Unmarshal([]byte(userJSON), &user); err != nil || user.ID == "" {
		log.Printf("[SessionStore] Restore: %v, clearing persisted session", model.ErrCorruptSession)
		if clearErr := s.cache.ClearSession(ctx); clearErr != nil {
			log.Printf("[SessionStore] ClearSession FAILED: err=%v", clearErr)
		}
		s.transitionLocked(model.SessionUnauthenticated, nil)
		return
	}

	s.transitionLocked(model.SessionAuthenticated, &model.AuthUser{User: user, AuthToken: token})
	log.Printf("[SessionStore] Restore OK: user=%s", user.ID)
}

// Login authenticates through the identity provider. Unlike every other
// session operation, its failure is returned to the caller so the UI can
// react; the store itself lands in unauthenticated.
func (s *SessionStore) Login(ctx context.Context, email, password string) error {
	s.mu.Lock()
	s.transitionLocked(model.SessionAuthenticating, nil)
	s.mu.Unlock()

	authUser, err := s.provider.Login(ctx, email, password)
	if err != nil {
		s.mu.Lock()
		s.transitionLocked(model.SessionUnauthenticated, nil)
		s.mu.Unlock()
		return err
	}

	s.persist(ctx, authUser)

	s.mu.Lock()
	s.transitionLocked(model.SessionAuthenticated, authUser)
	s.mu.Unlock()
	log.Printf("[SessionStore] Login OK: user=%s", authUser.ID)
	return nil
}

// Signup allocates a fresh account through the identity provider. Same
// transition shape as Login.
func (s *SessionStore) Signup(ctx context.Context, req model.SignupRequest) error {
	s.mu.Lock()
	s.transitionLocked(model.SessionAuthenticating, nil)
	s.mu.Unlock()

	authUser, err := s.provider.Signup(ctx, req)
	if err != nil {
		s.mu.Lock()
		s.transitionLocked(model.SessionUnauthenticated, nil)
		s.mu.Unlock()
		return err
	}

	s.persist(ctx, authUser)

	s.mu.Lock()
	s.transitionLocked(model.SessionAuthenticated, authUser)
	s.mu.Unlock()
	log.Printf("[SessionStore] Signup OK: user=%s", authUser.ID)
	return nil
}

// Logout clears durable storage and transitions to unauthenticated. The
// transition is unconditional; a storage failure is logged, not surfaced.
func (s *SessionStore) Logout(ctx context.Context) {
	if err := s.cache.ClearSession(ctx); err != nil {
		log.Printf("[SessionStore] Logout: clear session FAILED: err=%v", err)
	}

	s.mu.Lock()
	s.transitionLocked(model.SessionUnauthenticated, nil)
	s.mu.Unlock()
	log.Printf("[SessionStore] Logout OK")
}

// UpdateUser shallow-merges profile fields into the current user and
// re-persists the merged record. Reports model.ErrNotAuthenticated (and
// changes nothing) when no user is signed in.
func (s *SessionStore) UpdateUser(ctx context.Context, update model.UserUpdate) error {
	s.mu.Lock()
	if s.user == nil {
		s.mu.Unlock()
		return model.ErrNotAuthenticated
	}
	merged := *s.user
	merged.User = s.user.User.Merge(update)
	s.transitionLocked(s.state, &merged)
	s.mu.Unlock()

	s.persist(ctx, &merged)
	return nil
}

// persist writes {token, user JSON} to durable storage. Persistence failures
// do not invalidate the in-memory session.
func (s *SessionStore) persist(ctx context.Context, authUser *model.AuthUser) {
	userJSON, err := json.Marshal(authUser.User)
	if err != nil {
		log.Printf("[SessionStore] persist: marshal user FAILED: err=%v", err)
		return
	}
	if err := s.cache.SaveSession(ctx, authUser.AuthToken, string(userJSON)); err != nil {
		log.Printf("[SessionStore] persist FAILED: user=%s err=%v", authUser.ID, err)
	}
}
