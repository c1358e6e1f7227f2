// Package sessionstore persists the authenticated user session of synapsectl between runs.
package sessionstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/synapsepay/go-synapse-client/core"
)

// ErrNoSession is returned by Load when nothing was saved.
var ErrNoSession = errors.New("no saved session, run `synapsectl login` first")

type Entry struct {
	UserID       string    `msgpack:"user_id"`
	OAuthKey     string    `msgpack:"oauth_key"`
	Fingerprint  string    `msgpack:"fingerprint,omitempty"`
	RefreshToken string    `msgpack:"refresh_token,omitempty"`
	ExpiresAt    string    `msgpack:"expires_at,omitempty"`
	SavedAt      time.Time `msgpack:"saved_at"`
}

// Context returns the SessionContext of the entry. Panics when the entry carries no oauth key.
func (e Entry) Context() core.SessionContext {
	return core.NewSessionContext(e.OAuthKey, e.Fingerprint)
}

// Expired reports whether ExpiresAt, a unix timestamp, lies in the past relative to now.
// Entries without a parsable expiry never expire.
func (e Entry) Expired(now time.Time) bool {
	ts, err := strconv.ParseInt(e.ExpiresAt, 10, 64)
	if err != nil || ts == 0 {
		return false
	}
	return now.After(time.Unix(ts, 0))
}

type Store struct {
	path string
}

func New(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Save(entry Entry) error {
	if entry.UserID == "" || entry.OAuthKey == "" {
		return fmt.Errorf("session entry needs a user id and an oauth key")
	}
	if entry.SavedAt.IsZero() {
		entry.SavedAt = time.Now().UTC()
	}
	data, err := msgpack.Marshal(&entry)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}

func (s *Store) Load() (Entry, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return Entry{}, ErrNoSession
	}
	if err != nil {
		return Entry{}, err
	}
	var entry Entry
	if err := msgpack.Unmarshal(data, &entry); err != nil {
		return Entry{}, fmt.Errorf("decode session %s: %w", s.path, err)
	}
	if entry.OAuthKey == "" {
		return Entry{}, ErrNoSession
	}
	return entry, nil
}

// Clear removes the saved session. Clearing an absent session is not an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
