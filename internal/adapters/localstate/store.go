// Package localstate is a string key/value store persisted to one JSON file.
// It holds what a browser would keep in local storage: the session, cached
// registration flags and cached finance data.
package localstate

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Well-known keys.
const (
	KeyAuthenticated = "isAuthenticated"
	KeyLoginTime     = "loginTime"
	KeyUser          = "user"

	registeredSuffix = "_registered"
	expensesPrefix   = "finance_expenses_"
	targetPrefix     = "finance_target_"
	fileVersion      = "1"
	trueValue        = "true"
)

// RegisteredKey is the cache key of a challenge registration flag.
func RegisteredKey(challenge string) string { return challenge + registeredSuffix }

// ExpensesKey is the cache key of a user's expense list.
func ExpensesKey(user string) string { return expensesPrefix + user }

// TargetKey is the cache key of a user's monthly target.
func TargetKey(user string) string { return targetPrefix + user }

type persistenceFile struct {
	Version string            `json:"version"`
	SavedAt time.Time         `json:"saved_at"`
	Values  map[string]string `json:"values"`
}

// Option applies a configuration option to the Store.
type Option func(*Store)

// WithFilePermissions sets the permissions of the state file and its directory.
func WithFilePermissions(file, dir os.FileMode) Option {
	return func(s *Store) {
		if file != 0 {
			s.filePerm = file
		}
		if dir != 0 {
			s.dirPerm = dir
		}
	}
}

// Store is safe for concurrent use. Every mutation is written through.
type Store struct {
	mu       sync.RWMutex
	path     string
	values   map[string]string
	filePerm os.FileMode
	dirPerm  os.FileMode
}

// Open loads the store at path. An empty path keeps the store in memory.
// A missing file yields an empty store.
func Open(path string, opts ...Option) (*Store, error) {
	s := &Store{
		path:     path,
		values:   make(map[string]string),
		filePerm: 0o600,
		dirPerm:  0o700,
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the backing file, empty for in-memory stores.
func (s *Store) Path() string { return s.path }

// Get returns the value of key.
func (s *Store) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// Flag reports whether key holds "true".
func (s *Store) Flag(key string) bool {
	v, _ := s.Get(key)
	return v == trueValue
}

// Set stores value under key.
func (s *Store) Set(key, value string) error {
	return s.mutate(func(m map[string]string) { m[key] = value })
}

// SetFlag stores "true" under key.
func (s *Store) SetFlag(key string) error {
	return s.Set(key, trueValue)
}

// Delete removes key.
func (s *Store) Delete(key string) error {
	return s.mutate(func(m map[string]string) { delete(m, key) })
}

// Clear removes every key.
func (s *Store) Clear() error {
	return s.mutate(func(m map[string]string) {
		for k := range m {
			delete(m, k)
		}
	})
}

// Keys lists the stored keys in order.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SetJSON stores v encoded as JSON.
func (s *Store) SetJSON(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.Set(key, string(raw))
}

// GetJSON decodes the value of key into v. It reports false when the key is absent.
func (s *Store) GetJSON(key string, v any) (bool, error) {
	raw, ok := s.Get(key)
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return true, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// Session is a logged-in user.
type Session struct {
	User      string
	LoginTime time.Time
}

// Login records an authenticated session for user. Registration flags belong
// to the previous user and are dropped when the user changes.
func (s *Store) Login(user string, now time.Time) (Session, error) {
	user = strings.TrimSpace(user)
	if user == "" {
		return Session{}, ErrEmptyUser
	}
	err := s.mutate(func(m map[string]string) {
		if m[KeyUser] != user {
			for k := range m {
				if strings.HasSuffix(k, registeredSuffix) {
					delete(m, k)
				}
			}
		}
		m[KeyAuthenticated] = trueValue
		m[KeyLoginTime] = strconv.FormatInt(now.UnixMilli(), 10)
		m[KeyUser] = user
	})
	if err != nil {
		return Session{}, err
	}
	return Session{User: user, LoginTime: time.UnixMilli(now.UnixMilli())}, nil
}

// Session returns the live session. A missing, malformed or expired session
// clears the whole store and yields ErrNotAuthenticated.
func (s *Store) Session(now time.Time, ttl time.Duration) (Session, error) {
	s.mu.RLock()
	auth := s.values[KeyAuthenticated]
	loginRaw := s.values[KeyLoginTime]
	user := s.values[KeyUser]
	s.mu.RUnlock()

	loginMs, err := strconv.ParseInt(loginRaw, 10, 64)
	valid := auth == trueValue && err == nil && user != ""
	login := time.UnixMilli(loginMs)
	if !valid || now.Sub(login) >= ttl {
		if clearErr := s.Clear(); clearErr != nil {
			return Session{}, clearErr
		}
		return Session{}, ErrNotAuthenticated
	}
	return Session{User: user, LoginTime: login}, nil
}

// Logout forgets everything, like clearing browser storage.
func (s *Store) Logout() error {
	return s.Clear()
}

func (s *Store) mutate(fn func(map[string]string)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.values)
	return s.saveLocked()
}

// saveLocked writes the file atomically. Must be called with s.mu held.
func (s *Store) saveLocked() error {
	if s.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), s.dirPerm); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}
	raw, err := json.MarshalIndent(persistenceFile{
		Version: fileVersion,
		SavedAt: time.Now().UTC(),
		Values:  s.values,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, s.filePerm); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename state: %w", err)
	}
	return nil
}

func (s *Store) load() error {
	if s.path == "" {
		return nil
	}
	_ = os.Remove(s.path + ".tmp")

	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read state: %w", err)
	}
	var f persistenceFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return fmt.Errorf("decode state: %w", err)
	}
	if f.Values != nil {
		s.values = f.Values
	}
	return nil
}
