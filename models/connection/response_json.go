package connection

import (
	mg "github.com/armada-game/armada-backend/models/game"
)

type RespInit struct {
	Action    string    `json:"action"`
	GameState GameState `json:"gameState"`
	ClientID  string    `json:"clientID"`
	TurnID    int       `json:"turnID"`
}

type RespGameFull struct {
	Action string `json:"action"`
}

type RespPlayerJoin struct {
	Action     string `json:"action"`
	Message    string `json:"message"`
	PlayerName string `json:"playerName"`
}

// RespGameState covers the outbound kinds that carry nothing but
// an action and a game state: Ready, UnReady, GameStart, CycleTurn,
// Win, Lose and StateChange.
type RespGameState struct {
	Action    string    `json:"action"`
	GameState GameState `json:"gameState"`
}

type RespPlaceShip struct {
	Action      string          `json:"action"`
	Result      bool            `json:"result"`
	Board       mg.Board        `json:"board,omitempty"`
	PlacedShips []mg.PlacedShip `json:"placedShips,omitempty"`
	GameState   *GameState      `json:"gameState,omitempty"`
	Message     string          `json:"message,omitempty"`
}

type RespOpponentPlaceShip struct {
	Action           string          `json:"action"`
	OpponentShips    []mg.PlacedShip `json:"opponentShips"`
	OpponentShipsRaw map[int]int     `json:"opponentShipsRaw"`
	GameState        GameState       `json:"gameState"`
}

type RespNotTurn struct {
	Action string `json:"action"`
}

type RespPlayerLeave struct {
	Action string `json:"action"`
}

// CellData is the shooter's view of the resolved cell: only its
// new state, never the ship layout underneath.
type CellData struct {
	CellState int `json:"cellState"`
}

// RespShotShooter is the shot result sent back to the shooter. The
// opponent board is deliberately omitted.
type RespShotShooter struct {
	Action       string      `json:"action"`
	ShotAction   string      `json:"shotAction,omitempty"`
	ShipName     string      `json:"shipName,omitempty"`
	RawShips     map[int]int `json:"rawShips,omitempty"`
	Opponent     bool        `json:"opponent"`
	I            int         `json:"i"`
	J            int         `json:"j"`
	CellData     CellData    `json:"cellData"`
	PlayerScore  int         `json:"playerScore"`
	PlayerMisses int         `json:"playerMisses"`
	GameState    GameState   `json:"gameState"`
}

// RespShotOpponent is the same event from the defender's side,
// carrying their full updated board.
type RespShotOpponent struct {
	Action         string      `json:"action"`
	ShotAction     string      `json:"shotAction,omitempty"`
	ShipName       string      `json:"shipName,omitempty"`
	RawShips       map[int]int `json:"rawShips,omitempty"`
	Opponent       bool        `json:"opponent"`
	Board          mg.Board    `json:"board"`
	OpponentScore  int         `json:"opponentScore"`
	OpponentMisses int         `json:"opponentMisses"`
	GameState      GameState   `json:"gameState"`
}
