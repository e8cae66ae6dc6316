package game

const (
	// A shot hitting a ship for the first time reveals it,
	// hitting the last intact segment sinks it. Anything in
	// between is a plain ship hit.
	ShotActionShip  = "Ship"
	ShotActionFound = "Found"
	ShotActionSunk  = "Sunk"
)

// Combined length of the fixed fleet (5+4+3+3+2+2). Once both
// players have placed all six ships, the room's win threshold
// settles at this value.
const FullFleetLength = 19

type ShipTemplate struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Length int    `json:"length"`
}

// ShipCatalog is reference data only. The server never enforces
// that clients place exactly these ships; it bounds the fleet
// conceptually and feeds the tests.
var ShipCatalog = []ShipTemplate{
	{ID: 0, Name: "carrier", Length: 5},
	{ID: 1, Name: "destroyer", Length: 4},
	{ID: 2, Name: "submarine", Length: 3},
	{ID: 3, Name: "submarine", Length: 3},
	{ID: 4, Name: "scout", Length: 2},
	{ID: 5, Name: "scout", Length: 2},
}

// PlacedShip is one ship of a player's fleet as reported by the
// client. Health is set to Length at placement and only decreases.
type PlacedShip struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Length    int    `json:"length"`
	Health    int    `json:"health"`
	Direction []int  `json:"direction,omitempty"`
}

// ShipHitEvent describes the fleet-level outcome of a hit.
type ShipHitEvent struct {
	ShotAction string
	ShipName   string
	RawShips   map[int]int
}
