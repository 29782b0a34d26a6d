package session

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"sync"
)

// IDKey is the reserved wire field carrying the owning session identity.
const IDKey = "__sessionId"

// State is the per-client key/value payload owned by a session identity.
// The identity lives in its own field, so client data can never collide
// with it. All methods are safe for concurrent use.
type State struct {
	mu   sync.RWMutex
	id   string
	data map[string]string
}

// NewState returns a detached state holding a copy of data.
// The reserved IDKey entry, if present, is dropped.
func NewState(data map[string]string) *State {
	s := &State{data: make(map[string]string, len(data))}
	for k, v := range data {
		if k != IDKey {
			s.data[k] = v
		}
	}
	return s
}

// ID returns the owning session identity.
func (s *State) ID() string {
	if s == nil {
		return ""
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.id
}

// Get returns the value stored under key.
func (s *State) Get(key string) (string, bool) {
	if s == nil {
		return "", false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok
}

// Set stores value under key. The reserved IDKey is ignored.
func (s *State) Set(key, value string) {
	if s == nil || key == IDKey {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		s.data = make(map[string]string)
	}
	s.data[key] = value
}

// Delete removes key from the state.
func (s *State) Delete(key string) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
}

// Len returns the number of client data entries.
func (s *State) Len() int {
	if s == nil {
		return 0
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// Snapshot returns a copy of the client data without the identity.
func (s *State) Snapshot() map[string]string {
	if s == nil {
		return map[string]string{}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.nonNilData())
}

// Clone returns a detached copy. Changes to the copy are not visible to the
// original.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return &State{id: s.id, data: maps.Clone(s.nonNilData())}
}

// Equal reports whether both states carry the same identity and data.
func (s *State) Equal(other *State) bool {
	if s == nil || other == nil {
		return s == other
	}
	if s == other {
		return true
	}
	return s.ID() == other.ID() && maps.Equal(s.Snapshot(), other.Snapshot())
}

// MarshalJSON encodes the state as a flat string object with the identity
// under IDKey. HTML characters are written as is so the encoded size stays
// close to the size of the accepted input.
func (s *State) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("null"), nil
	}
	s.mu.RLock()
	wire := make(map[string]string, len(s.data)+1)
	maps.Copy(wire, s.data)
	wire[IDKey] = s.id
	s.mu.RUnlock()

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(wire); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// UnmarshalJSON decodes a flat string object. Non-string values and null are
// rejected with ErrSerialization.
func (s *State) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		return fmt.Errorf("%w: null state", ErrSerialization)
	}

	var wire map[string]string
	if err := json.Unmarshal(b, &wire); err != nil {
		return fmt.Errorf("%w: %v", ErrSerialization, err)
	}

	id := wire[IDKey]
	delete(wire, IDKey)
	if wire == nil {
		wire = make(map[string]string)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.id = id
	s.data = wire
	return nil
}

func (s *State) setID(id string) {
	s.mu.Lock()
	s.id = id
	s.mu.Unlock()
}

// replace swaps the contents of s for data in one critical section so
// readers see either the old or the new contents, never a partial mix.
func (s *State) replace(data map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		s.data = make(map[string]string, len(data))
	}
	clear(s.data)
	maps.Copy(s.data, data)
}

func (s *State) nonNilData() map[string]string {
	if s.data == nil {
		return map[string]string{}
	}
	return s.data
}
