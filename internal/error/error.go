package error

import "fmt"

func ErrRoomNotExists(code string) error {
	return fmt.Errorf("room with this code does not exist, code: %s", code)
}

func ErrPlayerNotInRoom(sessionID, code string) error {
	return fmt.Errorf("no player with this session in room %s, session: %s", code, sessionID)
}

func ErrOpponentMissing(code string) error {
	return fmt.Errorf("room has no opponent seated yet, code: %s", code)
}

func ErrShotOutOfBounds(i, j int) error {
	return fmt.Errorf("shot coordinates are outside the opponent board\ti: %d\tj: %d", i, j)
}

func ErrSessionNotFound(sessionID string) error {
	return fmt.Errorf("session with this id does not exist, id: %s", sessionID)
}

func ErrSessionIsNil(sessionID string) error {
	return fmt.Errorf("session with this id is nil, id: %s", sessionID)
}
