package services

import "sync"

// IdentityService holds the last-reported in-game identity: the active
// character name and the current map id. A game-side companion reports
// these over the API; both start unset. Map id zero is the "not in world"
// sentinel the login auto-start trigger keys on.
type IdentityService struct {
	mu            sync.RWMutex
	characterName string
	mapID         int
}

func NewIdentityService() *IdentityService {
	return &IdentityService{}
}

// Update replaces the reported identity.
func (s *IdentityService) Update(characterName string, mapID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.characterName = characterName
	s.mapID = mapID
}

// CharacterName returns the active character name, or "" if none has been
// reported yet (e.g. before the game session is active).
func (s *IdentityService) CharacterName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.characterName
}

func (s *IdentityService) MapID() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mapID
}
