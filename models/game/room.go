package game

import (
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	cerr "github.com/armada-game/armada-backend/internal/error"
)

// Room-wide turn control values. Exactly one holds at a time.
const (
	TurnStatePlacement = 0
	TurnStatePlayerOne = 1
	TurnStatePlayerTwo = 2
	// Resolution lock: a shot's outcome is being broadcast and the
	// next turn is pending on a timer. Shots are rejected while it
	// holds.
	TurnStateResolving = 4
	TurnStateOver      = -1
)

const (
	MaxPlayersPerRoom = 2

	// Delay before the next turn becomes active after a shot.
	DefaultTurnCycleDelay = 1500 * time.Millisecond
)

var (
	ErrRoomFull = errors.New("room already has two players")
	ErrNotTurn  = errors.New("not this player's turn")
)

type ShotOutcome uint8

const (
	ShotOutcomeMiss ShotOutcome = iota
	ShotOutcomeHit
	ShotOutcomeInvalid
)

// Room is one isolated two-player game instance addressed by a
// client-chosen code. All mutable state is guarded by mu; message
// handlers and timer callbacks alike serialize through it.
type Room struct {
	mu         sync.Mutex
	code       string
	players    []*PlayerSession // join order; TurnSlot == index+1
	turnState  int
	targets    int
	cycleDelay time.Duration
	scheduler  *TurnScheduler
}

func NewRoom(code string, cycleDelay time.Duration) *Room {
	if cycleDelay <= 0 {
		cycleDelay = DefaultTurnCycleDelay
	}
	return &Room{
		code:       code,
		players:    make([]*PlayerSession, 0, MaxPlayersPerRoom),
		turnState:  TurnStatePlacement,
		cycleDelay: cycleDelay,
		scheduler:  NewTurnScheduler(),
	}
}

func (r *Room) Code() string {
	return r.code
}

func (r *Room) PlayerCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.players)
}

// Snapshot returns the room-wide game state fields every outbound
// message carries.
func (r *Room) Snapshot() (targets, turn int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.targets, r.turnState
}

// AddPlayer registers a new identity with the next free turn slot.
// Returns the already-seated player (nil for the first joiner) so
// the caller can announce the arrival both ways.
func (r *Room) AddPlayer(sessionID, username string) (*PlayerSession, *PlayerSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.players) >= MaxPlayersPerRoom {
		return nil, nil, ErrRoomFull
	}

	player := NewPlayerSession(sessionID, username, len(r.players)+1)

	var other *PlayerSession
	if len(r.players) == 1 {
		other = r.players[0]
	}
	r.players = append(r.players, player)

	return player, other, nil
}

// RemovePlayer unwinds a disconnect: cancels all pending turn
// timers, drops the session and resets the room to the placement
// phase with a zero win threshold. Returns the remaining player
// (nil if none) and whether the room is now empty.
func (r *Room) RemovePlayer(sessionID string) (*PlayerSession, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.scheduler.CancelAll()

	for idx, p := range r.players {
		if p.SessionID == sessionID {
			r.players = append(r.players[:idx], r.players[idx+1:]...)
			break
		}
	}

	r.turnState = TurnStatePlacement
	r.targets = 0

	if len(r.players) == 0 {
		return nil, true
	}
	return r.players[0], false
}

func (r *Room) FindPlayer(sessionID string) (*PlayerSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.findPlayerLocked(sessionID)
}

func (r *Room) findPlayerLocked(sessionID string) (*PlayerSession, error) {
	for _, p := range r.players {
		if p.SessionID == sessionID {
			return p, nil
		}
	}
	return nil, cerr.ErrPlayerNotInRoom(sessionID, r.code)
}

func (r *Room) opponentLocked(player *PlayerSession) *PlayerSession {
	for _, p := range r.players {
		if p.SessionID != player.SessionID {
			return p
		}
	}
	return nil
}

// Opponent returns the other seated player, nil if alone.
func (r *Room) Opponent(sessionID string) *PlayerSession {
	r.mu.Lock()
	defer r.mu.Unlock()

	player, err := r.findPlayerLocked(sessionID)
	if err != nil {
		return nil
	}
	return r.opponentLocked(player)
}

func (r *Room) PlayerBySlot(slot int) *PlayerSession {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.players {
		if p.TurnSlot == slot {
			return p
		}
	}
	return nil
}

// SetReady toggles the readiness flag. bothReady is true only when
// two players are seated and both hold ready.
func (r *Room) SetReady(sessionID string, ready bool) (*PlayerSession, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	player, err := r.findPlayerLocked(sessionID)
	if err != nil {
		return nil, false, err
	}
	player.Ready = ready

	if len(r.players) < MaxPlayersPerRoom {
		return player, false, nil
	}
	return player, r.players[0].Ready && r.players[1].Ready, nil
}

// ResetPlacement replaces a player's board and fleet and clears
// their readiness. Turn state is untouched; this is a pre-game
// redo, not a room reset.
func (r *Room) ResetPlacement(sessionID string, board Board, fleet []PlacedShip) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	player, err := r.findPlayerLocked(sessionID)
	if err != nil {
		return err
	}
	player.resetPlacement(board, fleet)
	return nil
}

// PlacementResult carries everything the placement responses need.
type PlacementResult struct {
	OK       bool
	Turn     int
	Board    Board
	Fleet    []PlacedShip
	RawShips map[int]int
	Targets  int
}

// PlaceShip merges a client-reported placement. Geometry is
// trusted; the server only accounts for the fleet and keeps the
// win threshold as the running maximum of either player's total
// placed length.
func (r *Room) PlaceShip(sessionID string, board Board, ship PlacedShip) (PlacementResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.turnState != TurnStatePlacement {
		return PlacementResult{OK: false, Turn: r.turnState}, nil
	}

	player, err := r.findPlayerLocked(sessionID)
	if err != nil {
		return PlacementResult{}, err
	}

	player.applyPlacement(board, ship)
	if placed := player.placedLength(); placed > r.targets {
		r.targets = placed
	}

	return PlacementResult{
		OK:       true,
		Turn:     r.turnState,
		Board:    player.Board,
		Fleet:    player.Fleet,
		RawShips: player.ShipRemaining,
		Targets:  r.targets,
	}, nil
}

// Start picks the starting slot uniformly at random and makes that
// player's turn active.
func (r *Room) Start() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	slot := rand.IntN(MaxPlayersPerRoom) + 1
	r.turnState = slot
	return slot
}

// ShotResult is the outcome of one resolved shot against the
// opponent's board.
type ShotResult struct {
	Outcome       ShotOutcome
	I, J          int
	CellState     int
	ShipEvent     *ShipHitEvent
	ShooterHits   int
	ShooterMisses int

	OpponentSessionID string
	OpponentBoard     Board

	Win      bool
	NextSlot int
	Targets  int
	Turn     int
}

// ResolveShot evaluates a shot at (i, j) on the opponent's board.
// A shot is accepted iff the sender's slot equals the room's turn
// value; the resolution lock then holds until the scheduled cycle
// (or win) releases it.
func (r *Room) ResolveShot(sessionID string, i, j int) (ShotResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	shooter, err := r.findPlayerLocked(sessionID)
	if err != nil {
		return ShotResult{}, err
	}

	if r.turnState != shooter.TurnSlot {
		return ShotResult{}, ErrNotTurn
	}

	opponent := r.opponentLocked(shooter)
	if opponent == nil {
		return ShotResult{}, cerr.ErrOpponentMissing(r.code)
	}

	cell, ok := opponent.Board.At(i, j)
	if !ok {
		return ShotResult{}, cerr.ErrShotOutOfBounds(i, j)
	}

	res := ShotResult{
		I:                 i,
		J:                 j,
		OpponentSessionID: opponent.SessionID,
		NextSlot:          shooter.TurnSlot,
	}

	switch {
	case cell.CellState == CellStateEmpty:
		cell.CellState = CellStateMiss
		shooter.Misses++
		res.Outcome = ShotOutcomeMiss
		res.NextSlot = opponent.TurnSlot

	case cell.CellState > 0:
		res.ShipEvent = opponent.hitShip(cell.ShipID)
		cell.CellState = CellStateHit
		shooter.Hits++
		res.Outcome = ShotOutcomeHit
		res.Win = shooter.Hits == r.targets

	default:
		// Repeat shot at an already resolved cell. No counters move
		// and the shooter keeps the turn.
		res.Outcome = ShotOutcomeInvalid
	}

	r.turnState = TurnStateResolving

	res.CellState = cell.CellState
	res.ShooterHits = shooter.Hits
	res.ShooterMisses = shooter.Misses
	res.OpponentBoard = opponent.Board
	res.Targets = r.targets
	res.Turn = r.turnState

	return res, nil
}

// FinishWin moves the room to its terminal state. No further turns
// are scheduled; the room lingers until a disconnect tears it down.
func (r *Room) FinishWin() (targets, turn int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.turnState = TurnStateOver
	return r.targets, r.turnState
}

// ScheduleCycle arms the delayed turn handoff: after the room's
// cycle delay, turn ownership moves to slot and notify fires with
// the new state. The callback re-checks the turn state under the
// room lock so a timer racing teardown becomes a no-op.
func (r *Room) ScheduleCycle(slot int, notify func(targets, turn int)) {
	r.scheduler.Schedule(r.cycleDelay, func() {
		r.mu.Lock()
		if r.turnState == TurnStatePlacement || r.turnState == TurnStateOver {
			r.mu.Unlock()
			return
		}
		r.turnState = slot
		targets := r.targets
		r.mu.Unlock()

		notify(targets, slot)
	})
}

// PendingTimers reports outstanding cycle timers, for tests and
// teardown assertions.
func (r *Room) PendingTimers() int {
	return r.scheduler.Pending()
}
