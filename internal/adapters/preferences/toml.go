package preferences

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"sync"

	"simpleio/internal/core/domain"
	"simpleio/internal/core/port"

	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/cast"
)

const fileExtension = ".toml"

// Store keeps every named preference set in its own TOML file inside dir.
type Store struct {
	fs  afero.Fs
	dir string

	mu   sync.Mutex
	sets map[string]*Preferences
}

func NewStore(fsys afero.Fs, dir string) *Store {
	return &Store{fs: fsys, dir: dir, sets: make(map[string]*Preferences)}
}

// Open returns the preference set name. Repeated calls return the same handle;
// mode only affects the permissions of a file created by the first write.
func (s *Store) Open(name string, mode domain.AccessMode) (port.Preferences, error) {
	if name == "" || filepath.Base(name) != name {
		return nil, fmt.Errorf("%w: invalid settings name %q", domain.ErrMissingInput, name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.sets[name]; ok {
		p.setMode(mode)
		return p, nil
	}

	path := filepath.Join(s.dir, name+fileExtension)
	values := make(map[string]any)

	data, err := afero.ReadFile(s.fs, path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &values); err != nil {
			return nil, fmt.Errorf("%w: error reading settings %q: %w", domain.ErrIO, name, err)
		}
	case !os.IsNotExist(err):
		return nil, fmt.Errorf("%w: %w", domain.ErrIO, err)
	}

	log.Debug().Str("store", name).Str("path", path).Int("keys", len(values)).Msg("opened settings")

	p := &Preferences{name: name, fs: s.fs, path: path, perm: mode.Perm(), values: values}
	s.sets[name] = p
	return p, nil
}

// Preferences is one named set of top level TOML keys. Keys are matched exactly.
type Preferences struct {
	name string
	fs   afero.Fs
	path string

	mu     sync.RWMutex
	perm   os.FileMode
	values map[string]any
}

func (p *Preferences) setMode(mode domain.AccessMode) {
	p.mu.Lock()
	p.perm = mode.Perm()
	p.mu.Unlock()
}

func (p *Preferences) get(key string) (any, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	v, ok := p.values[key]
	return v, ok
}

func (p *Preferences) GetString(key, def string) string {
	raw, ok := p.get(key)
	if !ok {
		return def
	}
	s, err := cast.ToStringE(raw)
	if err != nil {
		log.Warn().Err(err).Str("store", p.name).Str("key", key).Msg("setting is not a string")
		return def
	}
	return s
}

func (p *Preferences) GetBool(key string, def bool) bool {
	raw, ok := p.get(key)
	if !ok {
		return def
	}
	b, err := cast.ToBoolE(raw)
	if err != nil {
		log.Warn().Err(err).Str("store", p.name).Str("key", key).Msg("setting is not a bool")
		return def
	}
	return b
}

func (p *Preferences) GetInt(key string, def int) int {
	raw, ok := p.get(key)
	if !ok {
		return def
	}
	i, err := cast.ToIntE(raw)
	if err != nil {
		log.Warn().Err(err).Str("store", p.name).Str("key", key).Msg("setting is not an int")
		return def
	}
	return i
}

func (p *Preferences) PutString(key, value string) error {
	return p.put(key, value)
}

func (p *Preferences) PutBool(key string, value bool) error {
	return p.put(key, value)
}

func (p *Preferences) PutInt(key string, value int) error {
	return p.put(key, value)
}

// put writes the whole set; the in-memory value only changes once the file is written.
func (p *Preferences) put(key string, value any) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	next := maps.Clone(p.values)
	next[key] = value

	data, err := toml.Marshal(next)
	if err != nil {
		return fmt.Errorf("%w: error encoding settings %q: %w", domain.ErrIO, p.name, err)
	}
	if err := p.fs.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return fmt.Errorf("%w: error creating settings dir: %w", domain.ErrIO, err)
	}
	if err := afero.WriteFile(p.fs, p.path, data, p.perm); err != nil {
		return fmt.Errorf("%w: error writing settings %q: %w", domain.ErrIO, p.name, err)
	}

	p.values = next
	return nil
}
