package multiplayer

import (
	"sort"
	"sync"
)

// Store is the room registry. Implementations must be safe for concurrent use.
type Store interface {
	Get(id RoomID) (*Room, bool)
	Put(room *Room)
	Delete(id RoomID)
	List() []*Room
}

// MemoryStore keeps rooms in a map.
type MemoryStore struct {
	mu    sync.RWMutex
	rooms map[RoomID]*Room
}

// NewMemoryStore creates an empty in-memory registry.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rooms: make(map[RoomID]*Room)}
}

// Get retrieves a room by id.
func (s *MemoryStore) Get(id RoomID) (*Room, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rooms[id]
	return r, ok
}

// Put adds or replaces a room.
func (s *MemoryStore) Put(room *Room) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[room.ID()] = room
}

// Delete removes a room.
func (s *MemoryStore) Delete(id RoomID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, id)
}

// List returns all rooms ordered by id.
func (s *MemoryStore) List() []*Room {
	s.mu.RLock()
	out := make([]*Room, 0, len(s.rooms))
	for _, r := range s.rooms {
		out = append(out, r)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].ID() < out[j].ID()
	})
	return out
}
