package model

import "errors"

// SessionState names the states of the session lifecycle. Transitions are
// owned by the session store:
//
//	anonymous -> authenticating -> authenticated | unauthenticated
//	authenticated -> unauthenticated (logout)
//	unauthenticated -> authenticating (login/signup)
type SessionState string

const (
	// SessionAnonymous is the startup state before restore has run.
	SessionAnonymous SessionState = "anonymous"
	// SessionAuthenticating covers restore/login/signup in flight.
	SessionAuthenticating SessionState = "authenticating"
	// SessionAuthenticated means a user and token are held.
	SessionAuthenticated SessionState = "authenticated"
	// SessionUnauthenticated means no user is signed in.
	SessionUnauthenticated SessionState = "unauthenticated"
)

// Session is the read-only snapshot handed to consumers of the session store.
// Exactly one session exists per running client.
type Session struct {
	User            *AuthUser    `json:"user,omitempty"`
	State           SessionState `json:"state"`
	IsAuthenticated bool         `json:"is_authenticated"`
	IsLoading       bool         `json:"is_loading"`
}

// ErrCorruptSession is reported (never thrown outward) when persisted session
// data cannot be parsed during restore.
var ErrCorruptSession = errors.New("corrupt persisted session")
