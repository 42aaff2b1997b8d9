package app

import (
	"sync"

	"arboriza/backend/internal/domain/profile"
	"arboriza/backend/internal/domain/tree"
	"arboriza/backend/internal/plantnet"

	"google.golang.org/genproto/googleapis/type/latlng"
)

// Session holds the per-user working state that outlives a single screen:
// who is signed in, which tree is open, the pending identification waiting
// to become a registration, and the last location fix. Safe for concurrent
// use; subscriptions write while screens read.
type Session struct {
	mu sync.RWMutex

	user            *profile.UserProfile
	currentTree     *tree.Tree
	pendingPlant    *plantnet.Match
	lastFix         *latlng.LatLng
	locationGranted bool
}

func NewSession() *Session {
	return &Session{}
}

func (s *Session) SetUser(u *profile.UserProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = u
}

func (s *Session) User() *profile.UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *Session) SignedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

func (s *Session) SetCurrentTree(t *tree.Tree) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentTree = t
}

func (s *Session) CurrentTree() *tree.Tree {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentTree
}

// SetPendingPlant stages an identification result for registration.
func (s *Session) SetPendingPlant(m *plantnet.Match) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pendingPlant = m
}

func (s *Session) PendingPlant() *plantnet.Match {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pendingPlant
}

// ClearPendingPlant drops the staged identification, after a registration
// or an uncertain result.
func (s *Session) ClearPendingPlant() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pendingPlant = nil
}

func (s *Session) SetFix(pos *latlng.LatLng) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastFix = pos
	s.locationGranted = pos != nil
}

func (s *Session) LastFix() *latlng.LatLng {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastFix == nil {
		return nil
	}
	fix := *s.lastFix
	return &fix
}

func (s *Session) LocationGranted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.locationGranted
}

// Reset clears everything, for logout.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.currentTree = nil
	s.pendingPlant = nil
	s.lastFix = nil
	s.locationGranted = false
}
