package service

import (
	"fmt"
	"sync"

	"simpleio/internal/core/domain"
	"simpleio/internal/core/port"

	"github.com/rs/zerolog/log"
)

// Settings is a named set of persistent preferences. It is safe for concurrent use;
// all reads and writes through one Settings are serialized.
type Settings struct {
	store port.PreferenceStore
	name  string
	mode  domain.AccessMode

	mu    sync.Mutex
	prefs port.Preferences
}

func NewSettings(store port.PreferenceStore, name string) *Settings {
	return &Settings{store: store, name: name, mode: domain.ModePrivate}
}

// SetMode changes the access mode used when the store is opened. Default is domain.ModePrivate.
func (s *Settings) SetMode(mode domain.AccessMode) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if mode != s.mode {
		s.mode = mode
		s.prefs = nil
	}
}

func (s *Settings) Name() string {
	return s.name
}

func (s *Settings) open() (port.Preferences, error) {
	if s.prefs != nil {
		return s.prefs, nil
	}

	if s.store == nil || s.name == "" {
		return nil, fmt.Errorf("%w: no preference store or store name", domain.ErrMissingInput)
	}

	p, err := s.store.Open(s.name, s.mode)
	if err != nil {
		return nil, fmt.Errorf("error opening settings %q: %w", s.name, err)
	}

	s.prefs = p
	return p, nil
}

// LoadString returns the value stored under key, or def if there is none.
func (s *Settings) LoadString(key, def string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.open()
	if err != nil {
		log.Error().Err(err).Str("store", s.name).Str("key", key).Msg("could not load setting")
		return def
	}
	return p.GetString(key, def)
}

func (s *Settings) LoadBool(key string, def bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.open()
	if err != nil {
		log.Error().Err(err).Str("store", s.name).Str("key", key).Msg("could not load setting")
		return def
	}
	return p.GetBool(key, def)
}

func (s *Settings) LoadInt(key string, def int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.open()
	if err != nil {
		log.Error().Err(err).Str("store", s.name).Str("key", key).Msg("could not load setting")
		return def
	}
	return p.GetInt(key, def)
}

func (s *Settings) StoreString(key, value string) error {
	return s.put(key, func(p port.Preferences) error { return p.PutString(key, value) })
}

func (s *Settings) StoreBool(key string, value bool) error {
	return s.put(key, func(p port.Preferences) error { return p.PutBool(key, value) })
}

func (s *Settings) StoreInt(key string, value int) error {
	return s.put(key, func(p port.Preferences) error { return p.PutInt(key, value) })
}

func (s *Settings) put(key string, write func(p port.Preferences) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l := log.With().Str("store", s.name).Str("key", key).Logger()

	p, err := s.open()
	if err != nil {
		l.Error().Err(err).Msg("could not store setting")
		return err
	}

	if err := write(p); err != nil {
		err = fmt.Errorf("error committing setting %q: %w", key, err)
		l.Error().Err(err).Send()
		return err
	}

	l.Debug().Msg("stored setting")
	return nil
}
