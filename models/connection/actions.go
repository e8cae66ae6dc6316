package connection

// Inbound actions. Every inbound message carries "action" and,
// after Join has been processed, "roomCode".
const (
	ActionJoin      = "Join"
	ActionReady     = "Ready"
	ActionUnReady   = "UnReady"
	ActionReset     = "Reset"
	ActionPlaceShip = "PlaceShip"
	ActionShot      = "Shot"
)

// Outbound actions.
const (
	ActionInit              = "Init"
	ActionGameFull          = "GameFull"
	ActionPlayerJoin        = "PlayerJoin"
	ActionOpponentPlaceShip = "OpponentPlaceShip"
	ActionGameStart         = "GameStart"
	ActionNotTurn           = "NotTurn"
	ActionMiss              = "Miss"
	ActionHit               = "Hit"
	ActionInvalidShot       = "InvalidShot"
	ActionCycleTurn         = "CycleTurn"
	ActionWin               = "Win"
	ActionLose              = "Lose"
	ActionPlayerLeave       = "PlayerLeave"
	ActionStateChange       = "StateChange"
)

// Display strings the clients render verbatim.
const (
	StatusStaging     = "Staging..."
	StatusReady       = "Ready"
	StatusStarting    = "Starting..."
	StatusThinking    = "Thinking..."
	StatusWaiting     = "Waiting..."
	StatusIdle        = "Waiting"
	StatusHappy       = "Happy"
	StatusSad         = "Sad"
	StatusDownhearted = "Downhearted"
	StatusContent     = "Content"
)

// Envelope is the discriminating prefix of every inbound message.
// The full typed payload is unmarshaled per action.
type Envelope struct {
	Action   string `json:"action"`
	RoomCode string `json:"roomCode"`
}

// GameState is the room-wide state block attached to most
// outbound messages.
type GameState struct {
	Targets        int    `json:"targets"`
	Turn           int    `json:"turn"`
	PlayerStatus   string `json:"playerStatus,omitempty"`
	OpponentStatus string `json:"opponentStatus,omitempty"`
}

func NewGameState(targets, turn int, playerStatus, opponentStatus string) GameState {
	return GameState{
		Targets:        targets,
		Turn:           turn,
		PlayerStatus:   playerStatus,
		OpponentStatus: opponentStatus,
	}
}
