package telegram

import (
	"sync"
	"time"

	"github.com/vadimtrunov/CineScope/internal/catalog"
	"github.com/vadimtrunov/CineScope/internal/explore"
)

// sessionManager manages per-user list views and access control.
type sessionManager struct {
	mu       sync.Mutex
	sessions map[int64]explore.State
	allowed  map[int64]bool // nil or empty = allow all
	clock    func() time.Time
}

// newSessionManager creates a session manager.
// If allowedUserIDs is empty, all users are allowed.
func newSessionManager(allowedUserIDs []int64, clock func() time.Time) *sessionManager {
	allowed := make(map[int64]bool, len(allowedUserIDs))
	for _, id := range allowedUserIDs {
		allowed[id] = true
	}
	return &sessionManager{
		sessions: make(map[int64]explore.State),
		allowed:  allowed,
		clock:    clock,
	}
}

// isAllowed checks if a user is authorized to use the bot.
func (sm *sessionManager) isAllowed(userID int64) bool {
	if len(sm.allowed) == 0 {
		return true
	}
	return sm.allowed[userID]
}

// apply runs a transition on the user's current state, creating an idle
// movie view on first use, and stores the result.
func (sm *sessionManager) apply(userID int64, transition func(explore.State) (explore.State, explore.Query)) (explore.State, explore.Query) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	st, ok := sm.sessions[userID]
	if !ok {
		st = explore.New(catalog.Movie, sm.clock)
	}
	st, q := transition(st)
	sm.sessions[userID] = st
	return st, q
}

// receive delivers a result to the user's current state and reports whether
// it was the one the state was waiting for. Results for replaced queries, or
// for a session reset in the meantime, leave the state unchanged.
func (sm *sessionManager) receive(userID int64, r explore.Result) (explore.State, bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	st, ok := sm.sessions[userID]
	if !ok {
		return explore.New(catalog.Movie, sm.clock), false
	}
	accepted := st.Pending() == r.Token
	st = st.Receive(r)
	sm.sessions[userID] = st
	return st, accepted
}

// reset clears a user's session, forcing a fresh view on next message.
func (sm *sessionManager) reset(userID int64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	delete(sm.sessions, userID)
}
