package port

import "simpleio/internal/core/domain"

type PreferenceStore interface {
	// Open returns the named preference set, creating it on first write.
	Open(name string, mode domain.AccessMode) (Preferences, error)
}

// Preferences is one named key-value set. Every Put commits before returning.
type Preferences interface {
	GetString(key, def string) string
	GetBool(key string, def bool) bool
	GetInt(key string, def int) int
	PutString(key, value string) error
	PutBool(key string, value bool) error
	PutInt(key string, value int) error
}

type ObjectStore interface {
	// Save serializes v into the private file name.
	Save(name string, v any) error
	// Load deserializes the private file name into v, which must be a pointer.
	Load(name string, v any) error
}
