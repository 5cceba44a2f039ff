package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	bolt "go.etcd.io/bbolt"
)

const bucketName = "github_responses"

// Entry is one cached API response body
type Entry struct {
	StoredAt time.Time       `json:"stored_at"`
	Body     json.RawMessage `json:"body"`
}

// Stats describes the cache contents
type Stats struct {
	Path    string
	Entries int
	Expired int
	Size    int64
}

// Manager is a bbolt-backed response cache keyed by request URL
type Manager struct {
	db     *bolt.DB
	path   string
	ttl    time.Duration
	logger *logrus.Logger
	now    func() time.Time
}

// NewManager opens (or creates) the cache file at path. A zero ttl never
// expires entries.
func NewManager(path string, ttl time.Duration, logger *logrus.Logger) (*Manager, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open cache %s: %w", path, err)
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create cache bucket: %w", err)
	}

	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Manager{
		db:     db,
		path:   path,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}, nil
}

// Get decodes the cached body for key into v. It reports false on a miss or
// when the entry is older than the TTL.
func (m *Manager) Get(key string, v interface{}) (bool, error) {
	var entry Entry
	found := false

	err := m.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(bucketName)).Get([]byte(key))
		if data == nil {
			return nil
		}
		found = true
		return json.Unmarshal(data, &entry)
	})
	if err != nil {
		return false, fmt.Errorf("failed to read cache entry %s: %w", key, err)
	}
	if !found || m.expired(entry) {
		return false, nil
	}

	if err := json.Unmarshal(entry.Body, v); err != nil {
		return false, fmt.Errorf("failed to decode cache entry %s: %w", key, err)
	}
	m.logger.WithField("key", key).Debug("Cache hit")
	return true, nil
}

// Set stores v under key
func (m *Manager) Set(key string, v interface{}) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}
	data, err := json.Marshal(Entry{StoredAt: m.now().UTC(), Body: body})
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	return m.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Put([]byte(key), data)
	})
}

// Prune removes expired entries and returns how many were dropped
func (m *Manager) Prune() (int, error) {
	removed := 0
	err := m.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		var stale [][]byte
		err := b.ForEach(func(k, v []byte) error {
			var entry Entry
			if err := json.Unmarshal(v, &entry); err != nil || m.expired(entry) {
				stale = append(stale, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, k := range stale {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		removed = len(stale)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to prune cache: %w", err)
	}
	if removed > 0 {
		m.logger.WithField("removed", removed).Info("Pruned expired cache entries")
	}
	return removed, nil
}

// Clear drops every entry
func (m *Manager) Clear() error {
	m.logger.Info("Clearing response cache")
	return m.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket([]byte(bucketName)); err != nil {
			return err
		}
		_, err := tx.CreateBucket([]byte(bucketName))
		return err
	})
}

// Stats counts entries and reports the file size
func (m *Manager) Stats() (Stats, error) {
	s := Stats{Path: m.path}
	err := m.db.View(func(tx *bolt.Tx) error {
		s.Size = tx.Size()
		return tx.Bucket([]byte(bucketName)).ForEach(func(_, v []byte) error {
			s.Entries++
			var entry Entry
			if err := json.Unmarshal(v, &entry); err != nil || m.expired(entry) {
				s.Expired++
			}
			return nil
		})
	})
	return s, err
}

// Close releases the database file lock
func (m *Manager) Close() error {
	return m.db.Close()
}

func (m *Manager) expired(entry Entry) bool {
	return m.ttl > 0 && m.now().Sub(entry.StoredAt) > m.ttl
}
