package keyguard

import "sync"

// Session describes the user session the lock screen runs in.
type Session interface {
	IsAdmin() bool
	IsUnlocked() bool

	// OnUnlock calls fn once, on the first unlock after registration, or
	// right away if the session is already unlocked. The returned function
	// drops the registration if it has not fired yet.
	OnUnlock(fn func()) (cancel func())
}

// UserSession is a Session whose unlock is triggered by calling Unlock.
type UserSession struct {
	admin bool

	mu       sync.Mutex
	unlocked bool
	nextID   int
	waiters  map[int]func()
}

// NewUserSession returns a session with the given initial state.
func NewUserSession(admin, unlocked bool) *UserSession {
	return &UserSession{admin: admin, unlocked: unlocked, waiters: make(map[int]func())}
}

func (s *UserSession) IsAdmin() bool { return s.admin }

func (s *UserSession) IsUnlocked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.unlocked
}

func (s *UserSession) OnUnlock(fn func()) func() {
	s.mu.Lock()
	if s.unlocked {
		s.mu.Unlock()
		fn()
		return func() {}
	}
	s.nextID++
	id := s.nextID
	s.waiters[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.waiters, id)
		s.mu.Unlock()
	}
}

// Unlock marks the session unlocked and runs the pending unlock callbacks.
// Later calls do nothing.
func (s *UserSession) Unlock() {
	s.mu.Lock()
	if s.unlocked {
		s.mu.Unlock()
		return
	}
	s.unlocked = true
	waiters := s.waiters
	s.waiters = make(map[int]func())
	s.mu.Unlock()

	for _, fn := range waiters {
		fn()
	}
}
