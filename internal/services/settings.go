package services

import (
	"sync"
	"time"

	"github.com/yorudev/gw2-loot-tracker/internal/config"
)

// Settings holds the runtime-adjustable tracker settings. Initial values
// come from the environment; the API can change them while the service
// runs (changes are not persisted).
type Settings struct {
	mu           sync.RWMutex
	apiKey       string
	pollInterval time.Duration
	autoStart    AutoStartMode
}

func NewSettings(cfg *config.GW2Config) *Settings {
	mode, err := ParseAutoStartMode(cfg.AutoStart)
	if err != nil {
		mode = AutoStartDisabled
	}
	return &Settings{
		apiKey:       cfg.APIKey,
		pollInterval: cfg.PollInterval,
		autoStart:    mode,
	}
}

func (s *Settings) APIKey() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.apiKey
}

func (s *Settings) SetAPIKey(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apiKey = key
}

func (s *Settings) PollInterval() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pollInterval
}

func (s *Settings) SetPollInterval(d time.Duration) {
	if d < time.Second {
		d = time.Second
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pollInterval = d
}

func (s *Settings) AutoStart() AutoStartMode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.autoStart
}

func (s *Settings) SetAutoStart(mode AutoStartMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.autoStart = mode
}
