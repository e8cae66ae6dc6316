package game

const (
	CellStateEmpty = 0
	CellStateMiss  = -1
	CellStateHit   = -2
	// any positive cellState is a client-assigned ship marker
)

// Cell is one square of a player's board, in the exact shape the
// client reports it. Once a cell becomes Miss or Hit it never
// reverts; repeat shots are rejected upstream.
type Cell struct {
	CellState int   `json:"cellState"`
	ShipID    int   `json:"shipID"`
	ShipPart  int   `json:"shipPart"`
	Direction []int `json:"direction"`
}

type Board [][]Cell

// At returns a pointer into the board so shot resolution can
// mutate the cell in place. The bounds guard keeps a malformed
// coordinate from panicking the room.
func (b Board) At(i, j int) (*Cell, bool) {
	if i < 0 || i >= len(b) {
		return nil, false
	}
	if j < 0 || j >= len(b[i]) {
		return nil, false
	}
	return &b[i][j], true
}
