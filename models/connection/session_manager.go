package connection

import (
	"encoding/base64"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	cerr "github.com/armada-game/armada-backend/internal/error"
)

// SessionManager owns every live connection and the session → room
// index used for O(1) disconnect routing. The index must stay
// consistent with the room registry's membership at all times.
type SessionManager struct {
	cleanupInterval time.Duration
	sessions        map[string]*Session
	roomIndex       map[string]string
	mu              sync.RWMutex
}

func NewSessionManager() *SessionManager {
	initMapSize := 10

	return &SessionManager{
		sessions:        make(map[string]*Session, initMapSize),
		roomIndex:       make(map[string]string, initMapSize),
		cleanupInterval: time.Minute * 20,
	}
}

func (sm *SessionManager) GenerateNewSession(conn *websocket.Conn) *Session {
	sessionId := base64.RawURLEncoding.EncodeToString([]byte(uuid.New().String()))
	session := NewSession(sessionId, conn)

	sm.mu.Lock()
	sm.sessions[sessionId] = session
	sm.mu.Unlock()

	return session
}

func (sm *SessionManager) FindSession(sessionId string) (*Session, error) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	session, prs := sm.sessions[sessionId]
	if !prs {
		return nil, cerr.ErrSessionNotFound(sessionId)
	}

	if session == nil {
		return nil, cerr.ErrSessionIsNil(sessionId)
	}

	return session, nil
}

func (sm *SessionManager) TerminateSession(sessionId string) {
	sm.mu.Lock()
	delete(sm.sessions, sessionId)
	delete(sm.roomIndex, sessionId)
	sm.mu.Unlock()
}

// RegisterRoom records which room a session joined.
func (sm *SessionManager) RegisterRoom(sessionId, roomCode string) {
	sm.mu.Lock()
	sm.roomIndex[sessionId] = roomCode
	sm.mu.Unlock()
}

// LookupRoom resolves a session to its room code on disconnect.
func (sm *SessionManager) LookupRoom(sessionId string) (string, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	code, prs := sm.roomIndex[sessionId]
	return code, prs
}

func (sm *SessionManager) UnregisterRoom(sessionId string) {
	sm.mu.Lock()
	delete(sm.roomIndex, sessionId)
	sm.mu.Unlock()
}

// Communicate sends msg to another session by id. Delivery failure
// on a closed connection is logged, never surfaced to the sender.
func (sm *SessionManager) Communicate(receiverSessionId string, msg interface{}) error {
	receiverSession, err := sm.FindSession(receiverSessionId)
	if err != nil {
		return err
	}
	return sm.WriteToSessionConn(receiverSession, msg)
}

func (sm *SessionManager) WriteToSessionConn(session *Session, msg interface{}) error {
	return session.writeToConnWithRetry(msg)
}

func (sm *SessionManager) ReadFromSessionConn(session *Session) ([]byte, error) {
	var retries uint8

	for {
		_, payload, err := session.conn.ReadMessage()
		if err == nil {
			return payload, nil
		}

		switch session.handleReadFromConnErr(err, retries) {
		case ConnLoopContinue:
			retries++
			continue

		default:
			return nil, err
		}
	}
}

// Sessions that connected but never joined a room within the
// cleanup interval are stale and removed, so dangling connections
// do not pile up. Sessions seated in a room are left alone.
func (sm *SessionManager) CleanupPeriodically() {
	assumedStaleConns := 10

	for {
		time.Sleep(sm.cleanupInterval)

		sm.mu.Lock()
		toDelete := make([]string, 0, assumedStaleConns)

		for id, session := range sm.sessions {
			if _, seated := sm.roomIndex[id]; seated {
				continue
			}
			if time.Since(session.createdAt) > sm.cleanupInterval {
				toDelete = append(toDelete, id)
			}
		}

		for _, id := range toDelete {
			delete(sm.sessions, id)
			log.Printf("removed stale session: %s", id)
		}
		sm.mu.Unlock()
	}
}
