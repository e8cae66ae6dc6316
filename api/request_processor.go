package api

import (
	"context"
	"encoding/json"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sqlc-dev/pqtype"

	"github.com/armada-game/armada-backend/db/sqlc"
	mc "github.com/armada-game/armada-backend/models/connection"
	mg "github.com/armada-game/armada-backend/models/game"
)

var upgrader = websocket.Upgrader{

	// good average time since this is not a high-latency operation
	// such as video streaming
	HandshakeTimeout: time.Second * 5,

	// probably more than enough but this is a good average size
	ReadBufferSize:  2048,
	WriteBufferSize: 2048,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// RequestProcessor decodes inbound action-tagged JSON, routes it to
// the room registry and the addressed room, and owns the
// disconnect-driven cleanup. One reader goroutine per connection;
// all room mutation is serialized by the room's own lock.
type RequestProcessor struct {
	sessionManager *mc.SessionManager
	roomManager    *mg.RoomManager
	q              sqlc.Querier
	serverInet     pqtype.Inet
}

func NewRequestProcessor(
	sessionManager *mc.SessionManager,
	roomManager *mg.RoomManager,
	q sqlc.Querier,
) *RequestProcessor {
	return &RequestProcessor{
		sessionManager: sessionManager,
		roomManager:    roomManager,
		q:              q,
		serverInet:     pqtype.Inet{IPNet: serverIpNet(), Valid: true},
	}
}

// The analytics rows are keyed by the outward-facing server IP.
// Falls back to loopback when no non-loopback interface is up.
func serverIpNet() net.IPNet {
	loopback := net.IPNet{IP: net.IPv4(127, 0, 0, 1), Mask: net.CIDRMask(32, 32)}

	ifaces, err := net.Interfaces()
	if err != nil {
		return loopback
	}

	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 {
			continue
		}
		if iface.Flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		for _, addr := range addrs {
			if ipnet, ok := addr.(*net.IPNet); ok && ipnet.IP.To4() != nil && !ipnet.IP.IsLoopback() {
				return *ipnet
			}
		}
	}
	return loopback
}

// Expose this method to use it in testing
func (rp *RequestProcessor) GetServerInet() pqtype.Inet {
	return rp.serverInet
}

func (rp *RequestProcessor) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// use Upgrade method to make a websocket connection
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println(err)
		http.Error(w, "could not open websocket connection", http.StatusBadRequest)
		return
	}

	log.Println("a new connection established\tRemote Addr: ", conn.RemoteAddr().String())
	rp.processSessionRequests(rp.sessionManager.GenerateNewSession(conn))
}

func (rp *RequestProcessor) processSessionRequests(session *mc.Session) {
	defer rp.handleDisconnect(session)

sessionLoop:
	for {
		payload, err := rp.sessionManager.ReadFromSessionConn(session)
		if err != nil {
			// Retries are exhausted inside the read; whatever is
			// left is a dead connection.
			break sessionLoop
		}

		var env mc.Envelope
		if err := json.Unmarshal(payload, &env); err != nil {
			// Malformed input never kills the connection.
			log.Println("incoming msg is not valid json:", err)
			continue sessionLoop
		}

		switch env.Action {

		case mc.ActionJoin:
			err = rp.handleJoin(session, env.RoomCode, payload)

		case mc.ActionReady:
			err = rp.handleReadiness(session, env.RoomCode, payload, true)

		case mc.ActionUnReady:
			err = rp.handleReadiness(session, env.RoomCode, payload, false)

		case mc.ActionReset:
			err = rp.handleReset(env.RoomCode, payload)

		case mc.ActionPlaceShip:
			err = rp.handlePlaceShip(session, env.RoomCode, payload)

		case mc.ActionShot:
			err = rp.handleShot(session, env.RoomCode, payload)

		default:
			log.Printf("unrecognized action %q from session %s", env.Action, session.Id())
		}

		if err != nil {
			// Handlers only return errors for failed writes to this
			// session's own connection.
			break sessionLoop
		}
	}
}

// handleDisconnect unwinds everything a closed connection left
// behind: the room's pending timers, its seat in the room, the
// session index entry and, when the room empties, the room itself.
func (rp *RequestProcessor) handleDisconnect(session *mc.Session) {
	defer func() {
		session.Conn().Close()
		log.Println("connection closed:", session.Conn().RemoteAddr().String())
	}()

	sessionId := session.Id()
	roomCode, seated := rp.sessionManager.LookupRoom(sessionId)
	rp.sessionManager.TerminateSession(sessionId)

	if !seated {
		return
	}

	room, err := rp.roomManager.Find(roomCode)
	if err != nil {
		return
	}

	remaining, _ := room.RemovePlayer(sessionId)
	if remaining != nil {
		_ = rp.sessionManager.Communicate(remaining.SessionID, mc.RespPlayerLeave{Action: mc.ActionPlayerLeave})
		_ = rp.sessionManager.Communicate(remaining.SessionID, mc.RespGameState{
			Action:    mc.ActionStateChange,
			GameState: mc.NewGameState(0, mg.TurnStatePlacement, mc.StatusStaging, mc.StatusStaging),
		})
	}

	rp.roomManager.Prune(roomCode)
}

func (rp *RequestProcessor) incrementRoomsCreated() {
	if rp.q == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), sqlc.QuerierCtxTimeout)
	defer cancel()

	if err := rp.q.AnalyticsIncrementRoomsCreatedCount(ctx, rp.serverInet); err != nil {
		// for now not killing the game for it
		log.Println(err)
	}
}

func (rp *RequestProcessor) incrementMatchesFinished() {
	if rp.q == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), sqlc.QuerierCtxTimeout)
	defer cancel()

	if err := rp.q.AnalyticsIncrementMatchesFinishedCount(ctx, rp.serverInet); err != nil {
		log.Println(err)
	}
}
