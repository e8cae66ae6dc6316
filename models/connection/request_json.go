package connection

import (
	mg "github.com/armada-game/armada-backend/models/game"
)

type ReqJoin struct {
	Username string `json:"username"`
}

type ReqReady struct {
	ClientID string `json:"clientID"`
}

type ReqReset struct {
	ClientID    string          `json:"clientID"`
	Board       mg.Board        `json:"board"`
	PlacedShips []mg.PlacedShip `json:"placedShips"`
}

type ReqPlaceShip struct {
	ClientID string        `json:"clientID"`
	Board    mg.Board      `json:"board"`
	ShipData mg.PlacedShip `json:"shipData"`
}

type ReqShot struct {
	ClientID string `json:"clientID"`
	I        int    `json:"i"`
	J        int    `json:"j"`
}
