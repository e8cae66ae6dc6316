package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	mc "github.com/armada-game/armada-backend/models/connection"
	mg "github.com/armada-game/armada-backend/models/game"
)

// Handlers return an error only when writing to the handling
// session's own connection failed; that breaks the session loop.
// Protocol violations are answered with a named result and stale or
// malformed requests are logged and dropped (the room is left
// untouched either way).

func (rp *RequestProcessor) handleJoin(session *mc.Session, roomCode string, payload []byte) error {
	var req mc.ReqJoin
	if err := json.Unmarshal(payload, &req); err != nil {
		log.Println("malformed Join payload:", err)
		return nil
	}

	room, created := rp.roomManager.GetOrCreate(roomCode)
	if created {
		rp.incrementRoomsCreated()
	}

	player, other, err := room.AddPlayer(session.Id(), req.Username)
	if errors.Is(err, mg.ErrRoomFull) {
		return rp.sessionManager.WriteToSessionConn(session, mc.RespGameFull{Action: mc.ActionGameFull})
	}
	if err != nil {
		log.Println(err)
		return nil
	}

	rp.sessionManager.RegisterRoom(session.Id(), roomCode)

	targets, turn := room.Snapshot()
	respInit := mc.RespInit{
		Action:    mc.ActionInit,
		GameState: mc.NewGameState(targets, turn, mc.StatusStaging, mc.StatusStaging),
		ClientID:  session.Id(),
		TurnID:    player.TurnSlot,
	}
	if err := rp.sessionManager.WriteToSessionConn(session, respInit); err != nil {
		return err
	}

	if other != nil {
		_ = rp.sessionManager.Communicate(other.SessionID, mc.RespPlayerJoin{
			Action:     mc.ActionPlayerJoin,
			Message:    "New player " + player.Username,
			PlayerName: player.Username,
		})

		// The second joiner also learns who got there first.
		return rp.sessionManager.WriteToSessionConn(session, mc.RespPlayerJoin{
			Action:     mc.ActionPlayerJoin,
			Message:    "First player " + other.Username,
			PlayerName: other.Username,
		})
	}

	return nil
}

func (rp *RequestProcessor) handleReadiness(session *mc.Session, roomCode string, payload []byte, ready bool) error {
	room, err := rp.roomManager.Find(roomCode)
	if err != nil {
		log.Println(err)
		return nil
	}

	var req mc.ReqReady
	if err := json.Unmarshal(payload, &req); err != nil {
		log.Println("malformed readiness payload:", err)
		return nil
	}

	player, bothReady, err := room.SetReady(req.ClientID, ready)
	if err != nil {
		log.Println(err)
		return nil
	}

	action := mc.ActionReady
	status := mc.StatusReady
	if !ready {
		action = mc.ActionUnReady
		status = mc.StatusStaging
	}

	targets, turn := room.Snapshot()
	if opponent := room.Opponent(player.SessionID); opponent != nil {
		_ = rp.sessionManager.Communicate(opponent.SessionID, mc.RespGameState{
			Action:    action,
			GameState: mc.NewGameState(targets, turn, "", status),
		})
	}
	if err := rp.sessionManager.WriteToSessionConn(session, mc.RespGameState{
		Action:    action,
		GameState: mc.NewGameState(targets, turn, status, ""),
	}); err != nil {
		return err
	}

	if ready && bothReady {
		rp.handleGameStart(room)
	}
	return nil
}

// handleGameStart fires once per game: random starting slot, a
// "starting" status to both sides, then the first turn cycle.
func (rp *RequestProcessor) handleGameStart(room *mg.Room) {
	slot := room.Start()

	targets, turn := room.Snapshot()
	respStart := mc.RespGameState{
		Action:    mc.ActionGameStart,
		GameState: mc.NewGameState(targets, turn, mc.StatusStarting, mc.StatusStarting),
	}

	starter := room.PlayerBySlot(slot)
	if starter == nil {
		return
	}
	_ = rp.sessionManager.Communicate(starter.SessionID, respStart)
	if opponent := room.Opponent(starter.SessionID); opponent != nil {
		_ = rp.sessionManager.Communicate(opponent.SessionID, respStart)
	}

	rp.scheduleCycle(room, slot)
}

// scheduleCycle arms the delayed turn handoff and wires its
// notifications: the player whose turn begins is told to think, the
// other to wait.
func (rp *RequestProcessor) scheduleCycle(room *mg.Room, slot int) {
	active := room.PlayerBySlot(slot)
	if active == nil {
		return
	}
	activeID := active.SessionID

	var otherID string
	if opponent := room.Opponent(activeID); opponent != nil {
		otherID = opponent.SessionID
	}

	room.ScheduleCycle(slot, func(targets, turn int) {
		_ = rp.sessionManager.Communicate(activeID, mc.RespGameState{
			Action:    mc.ActionCycleTurn,
			GameState: mc.NewGameState(targets, turn, mc.StatusThinking, mc.StatusIdle),
		})
		if otherID != "" {
			_ = rp.sessionManager.Communicate(otherID, mc.RespGameState{
				Action:    mc.ActionCycleTurn,
				GameState: mc.NewGameState(targets, turn, mc.StatusIdle, mc.StatusThinking),
			})
		}
	})
}

func (rp *RequestProcessor) handleReset(roomCode string, payload []byte) error {
	room, err := rp.roomManager.Find(roomCode)
	if err != nil {
		log.Println(err)
		return nil
	}

	var req mc.ReqReset
	if err := json.Unmarshal(payload, &req); err != nil {
		log.Println("malformed Reset payload:", err)
		return nil
	}

	// Reset is fire-and-forget: no acknowledgement goes out.
	if err := room.ResetPlacement(req.ClientID, req.Board, req.PlacedShips); err != nil {
		log.Println(err)
	}
	return nil
}

func (rp *RequestProcessor) handlePlaceShip(session *mc.Session, roomCode string, payload []byte) error {
	room, err := rp.roomManager.Find(roomCode)
	if err != nil {
		log.Println(err)
		return nil
	}

	var req mc.ReqPlaceShip
	if err := json.Unmarshal(payload, &req); err != nil {
		log.Println("malformed PlaceShip payload:", err)
		return nil
	}

	res, err := room.PlaceShip(req.ClientID, req.Board, req.ShipData)
	if err != nil {
		log.Println(err)
		return nil
	}

	if !res.OK {
		return rp.sessionManager.WriteToSessionConn(session, mc.RespPlaceShip{
			Action:  mc.ActionPlaceShip,
			Result:  false,
			Message: fmt.Sprintf("Turn is not 0 it is %d so placement not allowed", res.Turn),
		})
	}

	gs := mc.NewGameState(res.Targets, res.Turn, "", "")
	if err := rp.sessionManager.WriteToSessionConn(session, mc.RespPlaceShip{
		Action:      mc.ActionPlaceShip,
		Result:      true,
		Board:       res.Board,
		PlacedShips: res.Fleet,
		GameState:   &gs,
	}); err != nil {
		return err
	}

	// The opponent only ever sees the fleet inventory, not where it
	// sits on the board.
	if opponent := room.Opponent(req.ClientID); opponent != nil {
		_ = rp.sessionManager.Communicate(opponent.SessionID, mc.RespOpponentPlaceShip{
			Action:           mc.ActionOpponentPlaceShip,
			OpponentShips:    res.Fleet,
			OpponentShipsRaw: res.RawShips,
			GameState:        gs,
		})
	}
	return nil
}

func (rp *RequestProcessor) handleShot(session *mc.Session, roomCode string, payload []byte) error {
	room, err := rp.roomManager.Find(roomCode)
	if err != nil {
		log.Println(err)
		return nil
	}

	var req mc.ReqShot
	if err := json.Unmarshal(payload, &req); err != nil {
		log.Println("malformed Shot payload:", err)
		return nil
	}

	res, err := room.ResolveShot(req.ClientID, req.I, req.J)
	if errors.Is(err, mg.ErrNotTurn) {
		return rp.sessionManager.WriteToSessionConn(session, mc.RespNotTurn{Action: mc.ActionNotTurn})
	}
	if err != nil {
		log.Println(err)
		return nil
	}

	var action string
	switch res.Outcome {
	case mg.ShotOutcomeMiss:
		action = mc.ActionMiss
	case mg.ShotOutcomeHit:
		action = mc.ActionHit
	default:
		action = mc.ActionInvalidShot
	}

	var shotAction, shipName string
	var rawShips map[int]int
	if res.ShipEvent != nil {
		shotAction = res.ShipEvent.ShotAction
		shipName = res.ShipEvent.ShipName
		rawShips = res.ShipEvent.RawShips
	}

	// Both sides sit out the resolution lock on a waiting status
	// until the cycle timer (or the win) releases it.
	gs := mc.NewGameState(res.Targets, res.Turn, mc.StatusWaiting, mc.StatusWaiting)

	if err := rp.sessionManager.WriteToSessionConn(session, mc.RespShotShooter{
		Action:       action,
		ShotAction:   shotAction,
		ShipName:     shipName,
		RawShips:     rawShips,
		Opponent:     false,
		I:            res.I,
		J:            res.J,
		CellData:     mc.CellData{CellState: res.CellState},
		PlayerScore:  res.ShooterHits,
		PlayerMisses: res.ShooterMisses,
		GameState:    gs,
	}); err != nil {
		return err
	}

	_ = rp.sessionManager.Communicate(res.OpponentSessionID, mc.RespShotOpponent{
		Action:         action,
		ShotAction:     shotAction,
		ShipName:       shipName,
		RawShips:       rawShips,
		Opponent:       true,
		Board:          res.OpponentBoard,
		OpponentScore:  res.ShooterHits,
		OpponentMisses: res.ShooterMisses,
		GameState:      gs,
	})

	if res.Win {
		return rp.handleWin(session, room, res.OpponentSessionID)
	}

	rp.scheduleCycle(room, res.NextSlot)
	return nil
}

func (rp *RequestProcessor) handleWin(session *mc.Session, room *mg.Room, loserSessionID string) error {
	targets, turn := room.FinishWin()

	rp.incrementMatchesFinished()

	if err := rp.sessionManager.WriteToSessionConn(session, mc.RespGameState{
		Action:    mc.ActionWin,
		GameState: mc.NewGameState(targets, turn, mc.StatusHappy, mc.StatusDownhearted),
	}); err != nil {
		return err
	}

	_ = rp.sessionManager.Communicate(loserSessionID, mc.RespGameState{
		Action:    mc.ActionLose,
		GameState: mc.NewGameState(targets, turn, mc.StatusSad, mc.StatusContent),
	})
	return nil
}
