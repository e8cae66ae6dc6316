package game

import (
	"sync"
	"time"

	cerr "github.com/armada-game/armada-backend/internal/error"
)

// RoomManager owns the code → room registry. Rooms are created
// lazily on first reference and pruned once their last player has
// left; the session manager's room index must always agree with
// this map.
type RoomManager struct {
	rooms      map[string]*Room
	cycleDelay time.Duration
	mu         sync.RWMutex
}

type RoomManagerOption func(*RoomManager)

// WithCycleDelay overrides the turn-cycle delay of every room the
// manager creates. Used by tests to keep the cycle fast.
func WithCycleDelay(d time.Duration) RoomManagerOption {
	return func(rm *RoomManager) {
		rm.cycleDelay = d
	}
}

func NewRoomManager(opts ...RoomManagerOption) *RoomManager {
	rm := &RoomManager{
		rooms:      make(map[string]*Room, 10),
		cycleDelay: DefaultTurnCycleDelay,
	}
	for _, opt := range opts {
		opt(rm)
	}
	return rm
}

// GetOrCreate returns the room for code, creating it on first
// reference. Codes are client-supplied and case-sensitive; no
// capacity check happens here, joining enforces it.
func (rm *RoomManager) GetOrCreate(code string) (*Room, bool) {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	if room, prs := rm.rooms[code]; prs {
		return room, false
	}

	room := NewRoom(code, rm.cycleDelay)
	rm.rooms[code] = room
	return room, true
}

func (rm *RoomManager) Find(code string) (*Room, error) {
	rm.mu.RLock()
	room, prs := rm.rooms[code]
	rm.mu.RUnlock()

	if !prs {
		return nil, cerr.ErrRoomNotExists(code)
	}
	return room, nil
}

// Prune removes the room if it has no players left. Must run after
// every disconnect-triggered removal.
func (rm *RoomManager) Prune(code string) {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	room, prs := rm.rooms[code]
	if !prs {
		return
	}
	if room.PlayerCount() == 0 {
		delete(rm.rooms, code)
	}
}

func (rm *RoomManager) RoomCount() int {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	return len(rm.rooms)
}
