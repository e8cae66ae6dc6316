package game

// PlayerSession is the per-room mutable record of one connected
// player. It holds no transport state; routing back to the
// connection goes through the session manager with SessionID.
type PlayerSession struct {
	SessionID     string
	Username      string
	Ready         bool
	TurnSlot      int
	Board         Board
	Fleet         []PlacedShip
	ShipRemaining map[int]int
	Hits          int
	Misses        int
}

func NewPlayerSession(sessionID, username string, turnSlot int) *PlayerSession {
	return &PlayerSession{
		SessionID:     sessionID,
		Username:      username,
		TurnSlot:      turnSlot,
		Board:         Board{},
		Fleet:         make([]PlacedShip, 0, len(ShipCatalog)),
		ShipRemaining: make(map[int]int, len(ShipCatalog)),
	}
}

// applyPlacement merges a freshly placed ship: the client sends the
// whole updated board, so the board is replaced, the ship appended
// and its full length recorded for the win-threshold accounting.
func (p *PlayerSession) applyPlacement(board Board, ship PlacedShip) {
	ship.Health = ship.Length
	p.Board = board
	p.Fleet = append(p.Fleet, ship)
	p.ShipRemaining[ship.ID] = ship.Length
}

// resetPlacement lets a player redo their setup before both sides
// are ready. Readiness is cleared; turn state is owned by the room.
func (p *PlayerSession) resetPlacement(board Board, fleet []PlacedShip) {
	p.Board = board
	p.Fleet = fleet
	p.ShipRemaining = make(map[int]int, len(ShipCatalog))
	p.Ready = false
}

// placedLength is the sum of this player's remaining ship lengths.
// Called only during the placement phase, so it equals the total
// placed length.
func (p *PlayerSession) placedLength() int {
	var total int
	for _, l := range p.ShipRemaining {
		total += l
	}
	return total
}

// hitShip resolves fleet damage for a hit on the given ship id.
// Returns nil if the id is not in the fleet, which only happens
// with an inconsistent client; the shot still counts as a hit.
func (p *PlayerSession) hitShip(shipID int) *ShipHitEvent {
	for idx := range p.Fleet {
		ship := &p.Fleet[idx]
		if ship.ID != shipID {
			continue
		}

		ship.Health--
		p.ShipRemaining[ship.ID]--

		action := ShotActionShip
		if ship.Health == 0 {
			action = ShotActionSunk
		} else if ship.Health == ship.Length-1 {
			action = ShotActionFound
		}

		return &ShipHitEvent{
			ShotAction: action,
			ShipName:   ship.Name,
			RawShips:   p.ShipRemaining,
		}
	}
	return nil
}
