// Package tracker captures page views and meaningful clicks of a visitor
// and forwards them to the collector.
package tracker

import (
	"crypto/rand"
	"encoding/binary"
	"strconv"
	"sync"
	"time"
)

// SessionKey is the storage key holding the session id.
const SessionKey = "analytics_session_id"

// SessionStorage is a key-value store scoped to one browser tab.
type SessionStorage interface {
	Get(key string) (string, bool)
	Set(key, value string)
}

// MemoryStorage is a SessionStorage living as long as the process.
type MemoryStorage struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string]string)}
}

func (m *MemoryStorage) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok
}

func (m *MemoryStorage) Set(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
}

// GetOrSet returns the value under key, storing mint() first when the key
// is empty. The check and the store happen under one lock.
func (m *MemoryStorage) GetOrSet(key string, mint func() string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v := m.values[key]; v != "" {
		return v
	}
	v := mint()
	m.values[key] = v
	return v
}

// NewSessionID mints an id from a random part followed by the creation
// time in milliseconds, both base36.
func NewSessionID(now time.Time) string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		binary.LittleEndian.PutUint64(b[:], uint64(now.UnixNano()))
	}
	return strconv.FormatUint(binary.LittleEndian.Uint64(b[:]), 36) +
		strconv.FormatInt(now.UnixMilli(), 36)
}

// GetSessionID returns the stored session id, minting and storing one on
// first use.
func GetSessionID(s SessionStorage) string {
	return getSessionID(s, time.Now)
}

func getSessionID(s SessionStorage, now func() time.Time) string {
	if a, ok := s.(interface {
		GetOrSet(key string, mint func() string) string
	}); ok {
		return a.GetOrSet(SessionKey, func() string { return NewSessionID(now()) })
	}
	if id, ok := s.Get(SessionKey); ok && id != "" {
		return id
	}
	id := NewSessionID(now())
	s.Set(SessionKey, id)
	return id
}
