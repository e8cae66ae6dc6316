package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCycleDelay = 5 * time.Millisecond

func emptyBoard(rows, cols int) Board {
	b := make(Board, rows)
	for i := range b {
		b[i] = make([]Cell, cols)
	}
	return b
}

// boardWithShip lays ship out over cells the way the client would
// report it: a positive cell marker plus the owning ship id.
func boardWithShip(rows, cols int, ship PlacedShip, cells [][2]int) Board {
	b := emptyBoard(rows, cols)
	for part, c := range cells {
		b[c[0]][c[1]] = Cell{CellState: ship.ID + 1, ShipID: ship.ID, ShipPart: part}
	}
	return b
}

func newTwoPlayerRoom(t *testing.T) *Room {
	t.Helper()

	r := NewRoom("room-test", testCycleDelay)
	_, _, err := r.AddPlayer("session-1", "alice")
	require.NoError(t, err)
	_, _, err = r.AddPlayer("session-2", "bob")
	require.NoError(t, err)
	return r
}

// startWithShooter starts the game and reports which session shoots
// first. The starting slot is random, so the caller adapts to it.
func startWithShooter(t *testing.T, r *Room) (shooterID, targetID string) {
	t.Helper()

	slot := r.Start()
	shooter := r.PlayerBySlot(slot)
	require.NotNil(t, shooter)

	target := r.Opponent(shooter.SessionID)
	require.NotNil(t, target)

	return shooter.SessionID, target.SessionID
}

// cycleTo releases the resolution lock the way the api layer does,
// waiting for the timer to fire.
func cycleTo(t *testing.T, r *Room, slot int) {
	t.Helper()

	done := make(chan struct{})
	r.ScheduleCycle(slot, func(_, _ int) { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("turn cycle never fired")
	}
}

func slotOf(t *testing.T, r *Room, sessionID string) int {
	t.Helper()

	p, err := r.FindPlayer(sessionID)
	require.NoError(t, err)
	return p.TurnSlot
}

func TestAddPlayerAssignsSlotsInJoinOrder(t *testing.T) {
	r := NewRoom("room-join", testCycleDelay)

	first, other, err := r.AddPlayer("session-1", "alice")
	require.NoError(t, err)
	assert.Nil(t, other)
	assert.Equal(t, 1, first.TurnSlot)

	second, other, err := r.AddPlayer("session-2", "bob")
	require.NoError(t, err)
	require.NotNil(t, other)
	assert.Equal(t, "session-1", other.SessionID)
	assert.Equal(t, 2, second.TurnSlot)

	_, _, err = r.AddPlayer("session-3", "carol")
	assert.ErrorIs(t, err, ErrRoomFull)
	assert.Equal(t, 2, r.PlayerCount())
}

func TestPlaceShipTracksRunningMaxTargets(t *testing.T) {
	r := newTwoPlayerRoom(t)

	carrier := PlacedShip{ID: 0, Name: "carrier", Length: 5}
	res, err := r.PlaceShip("session-1", emptyBoard(10, 10), carrier)
	require.NoError(t, err)
	assert.True(t, res.OK)
	assert.Equal(t, 5, res.Targets)
	assert.Equal(t, 5, res.RawShips[0])
	assert.Equal(t, 5, res.Fleet[0].Health)

	// The smaller fleet never lowers the threshold.
	destroyer := PlacedShip{ID: 1, Name: "destroyer", Length: 4}
	res, err = r.PlaceShip("session-2", emptyBoard(10, 10), destroyer)
	require.NoError(t, err)
	assert.Equal(t, 5, res.Targets)

	submarine := PlacedShip{ID: 2, Name: "submarine", Length: 3}
	res, err = r.PlaceShip("session-2", emptyBoard(10, 10), submarine)
	require.NoError(t, err)
	assert.Equal(t, 7, res.Targets)

	targets, turn := r.Snapshot()
	assert.Equal(t, 7, targets)
	assert.Equal(t, TurnStatePlacement, turn)
}

func TestFullFleetReachesFullLength(t *testing.T) {
	r := newTwoPlayerRoom(t)

	var res PlacementResult
	var err error
	for _, tmpl := range ShipCatalog {
		ship := PlacedShip{ID: tmpl.ID, Name: tmpl.Name, Length: tmpl.Length}
		res, err = r.PlaceShip("session-1", emptyBoard(10, 10), ship)
		require.NoError(t, err)
		require.True(t, res.OK)
	}

	assert.Equal(t, FullFleetLength, res.Targets)
	assert.Len(t, res.Fleet, len(ShipCatalog))
}

func TestPlaceShipRejectedOnceGameStarted(t *testing.T) {
	r := newTwoPlayerRoom(t)
	slot := r.Start()

	res, err := r.PlaceShip("session-1", emptyBoard(10, 10), PlacedShip{ID: 4, Length: 2})
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.Equal(t, slot, res.Turn)
}

func TestSetReadyBothSides(t *testing.T) {
	r := newTwoPlayerRoom(t)

	p, both, err := r.SetReady("session-1", true)
	require.NoError(t, err)
	assert.True(t, p.Ready)
	assert.False(t, both)

	_, both, err = r.SetReady("session-2", true)
	require.NoError(t, err)
	assert.True(t, both)

	_, both, err = r.SetReady("session-1", false)
	require.NoError(t, err)
	assert.False(t, both)
}

func TestResetPlacementClearsFleetAccounting(t *testing.T) {
	r := newTwoPlayerRoom(t)

	res, err := r.PlaceShip("session-1", emptyBoard(10, 10), PlacedShip{ID: 0, Name: "carrier", Length: 5})
	require.NoError(t, err)
	require.Equal(t, 5, res.RawShips[0])

	_, _, err = r.SetReady("session-1", true)
	require.NoError(t, err)

	require.NoError(t, r.ResetPlacement("session-1", emptyBoard(10, 10), nil))

	p, err := r.FindPlayer("session-1")
	require.NoError(t, err)
	assert.False(t, p.Ready)
	assert.Empty(t, p.Fleet)
	assert.Empty(t, p.ShipRemaining)

	res, err = r.PlaceShip("session-1", emptyBoard(10, 10), PlacedShip{ID: 4, Name: "scout", Length: 2})
	require.NoError(t, err)
	assert.Len(t, res.RawShips, 1)
	assert.Equal(t, 2, res.RawShips[4])
}

func TestResolveShotMiss(t *testing.T) {
	r := newTwoPlayerRoom(t)
	shooterID, targetID := startWithShooter(t, r)

	require.NoError(t, r.ResetPlacement(targetID, emptyBoard(5, 5), nil))

	res, err := r.ResolveShot(shooterID, 3, 3)
	require.NoError(t, err)

	assert.Equal(t, ShotOutcomeMiss, res.Outcome)
	assert.Equal(t, CellStateMiss, res.CellState)
	assert.Equal(t, 1, res.ShooterMisses)
	assert.Equal(t, 0, res.ShooterHits)
	assert.Equal(t, slotOf(t, r, targetID), res.NextSlot)
	assert.Equal(t, TurnStateResolving, res.Turn)
	assert.False(t, res.Win)

	cell, ok := res.OpponentBoard.At(3, 3)
	require.True(t, ok)
	assert.Equal(t, CellStateMiss, cell.CellState)
}

func TestResolveShotHitFoundThenSunk(t *testing.T) {
	r := newTwoPlayerRoom(t)

	scout := PlacedShip{ID: 4, Name: "scout", Length: 2}
	board := boardWithShip(5, 5, scout, [][2]int{{0, 0}, {0, 1}})
	_, err := r.PlaceShip("session-1", board, scout)
	require.NoError(t, err)
	_, err = r.PlaceShip("session-2", boardWithShip(5, 5, scout, [][2]int{{1, 1}, {1, 2}}), scout)
	require.NoError(t, err)

	shooterID, targetID := startWithShooter(t, r)

	targetCells := [][2]int{{0, 0}, {0, 1}}
	if targetID == "session-2" {
		targetCells = [][2]int{{1, 1}, {1, 2}}
	}

	res, err := r.ResolveShot(shooterID, targetCells[0][0], targetCells[0][1])
	require.NoError(t, err)
	assert.Equal(t, ShotOutcomeHit, res.Outcome)
	assert.Equal(t, CellStateHit, res.CellState)
	assert.Equal(t, 1, res.ShooterHits)
	require.NotNil(t, res.ShipEvent)
	assert.Equal(t, ShotActionFound, res.ShipEvent.ShotAction)
	assert.Equal(t, "scout", res.ShipEvent.ShipName)
	assert.Equal(t, 1, res.ShipEvent.RawShips[4])
	// a hit keeps the shooter's turn
	assert.Equal(t, slotOf(t, r, shooterID), res.NextSlot)
	assert.False(t, res.Win)

	cycleTo(t, r, res.NextSlot)

	res, err = r.ResolveShot(shooterID, targetCells[1][0], targetCells[1][1])
	require.NoError(t, err)
	require.NotNil(t, res.ShipEvent)
	assert.Equal(t, ShotActionSunk, res.ShipEvent.ShotAction)
	assert.Equal(t, 0, res.ShipEvent.RawShips[4])
	assert.Equal(t, 2, res.ShooterHits)
	// both fleets total 2, so two hits reach the threshold
	assert.True(t, res.Win)

	targets, turn := r.FinishWin()
	assert.Equal(t, 2, targets)
	assert.Equal(t, TurnStateOver, turn)
}

func TestResolveShotInvalidOnResolvedCell(t *testing.T) {
	r := newTwoPlayerRoom(t)
	shooterID, targetID := startWithShooter(t, r)

	board := emptyBoard(5, 5)
	board[2][2].CellState = CellStateMiss
	require.NoError(t, r.ResetPlacement(targetID, board, nil))

	res, err := r.ResolveShot(shooterID, 2, 2)
	require.NoError(t, err)

	assert.Equal(t, ShotOutcomeInvalid, res.Outcome)
	assert.Equal(t, CellStateMiss, res.CellState)
	assert.Equal(t, 0, res.ShooterHits)
	assert.Equal(t, 0, res.ShooterMisses)
	// the shooter keeps the turn after an invalid shot
	assert.Equal(t, slotOf(t, r, shooterID), res.NextSlot)
}

func TestResolveShotRejectedOutOfTurn(t *testing.T) {
	r := newTwoPlayerRoom(t)

	// still in placement, nobody holds the turn
	_, err := r.ResolveShot("session-1", 0, 0)
	assert.ErrorIs(t, err, ErrNotTurn)

	shooterID, targetID := startWithShooter(t, r)
	require.NoError(t, r.ResetPlacement(targetID, emptyBoard(5, 5), nil))

	_, err = r.ResolveShot(targetID, 0, 0)
	assert.ErrorIs(t, err, ErrNotTurn)

	// the resolution lock rejects even the active player
	_, err = r.ResolveShot(shooterID, 0, 0)
	require.NoError(t, err)
	_, err = r.ResolveShot(shooterID, 0, 1)
	assert.ErrorIs(t, err, ErrNotTurn)
}

func TestResolveShotOutOfBounds(t *testing.T) {
	r := newTwoPlayerRoom(t)
	shooterID, targetID := startWithShooter(t, r)
	require.NoError(t, r.ResetPlacement(targetID, emptyBoard(2, 2), nil))

	_, err := r.ResolveShot(shooterID, 5, 5)
	assert.Error(t, err)

	_, err = r.ResolveShot(shooterID, -1, 0)
	assert.Error(t, err)

	// a rejected shot never takes the resolution lock
	_, turn := r.Snapshot()
	assert.Equal(t, slotOf(t, r, shooterID), turn)
}

func TestRemovePlayerResetsRoom(t *testing.T) {
	r := newTwoPlayerRoom(t)

	_, err := r.PlaceShip("session-1", emptyBoard(5, 5), PlacedShip{ID: 4, Length: 2})
	require.NoError(t, err)

	slot := r.Start()
	r.ScheduleCycle(slot, func(_, _ int) {})
	require.Equal(t, 1, r.PendingTimers())

	remaining, empty := r.RemovePlayer("session-1")
	require.NotNil(t, remaining)
	assert.False(t, empty)
	assert.Equal(t, "session-2", remaining.SessionID)
	assert.Equal(t, 0, r.PendingTimers())

	targets, turn := r.Snapshot()
	assert.Equal(t, 0, targets)
	assert.Equal(t, TurnStatePlacement, turn)

	remaining, empty = r.RemovePlayer("session-2")
	assert.Nil(t, remaining)
	assert.True(t, empty)
}

func TestScheduledCycleSkippedAfterTeardown(t *testing.T) {
	r := NewRoom("room-teardown", 100*time.Millisecond)
	_, _, err := r.AddPlayer("session-1", "alice")
	require.NoError(t, err)
	_, _, err = r.AddPlayer("session-2", "bob")
	require.NoError(t, err)

	slot := r.Start()

	fired := make(chan struct{}, 1)
	r.ScheduleCycle(slot, func(_, _ int) { fired <- struct{}{} })

	r.RemovePlayer("session-1")
	r.RemovePlayer("session-2")

	select {
	case <-fired:
		t.Fatal("cycle fired against a torn-down room")
	case <-time.After(300 * time.Millisecond):
	}

	_, turn := r.Snapshot()
	assert.Equal(t, TurnStatePlacement, turn)
}

func TestStartPicksASeatedSlot(t *testing.T) {
	r := newTwoPlayerRoom(t)

	slot := r.Start()
	assert.Contains(t, []int{TurnStatePlayerOne, TurnStatePlayerTwo}, slot)

	_, turn := r.Snapshot()
	assert.Equal(t, slot, turn)
	assert.NotNil(t, r.PlayerBySlot(slot))
}
