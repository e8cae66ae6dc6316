package sqlc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/sqlc-dev/pqtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAnalyticsManager(t *testing.T) (*AnalyticsManager, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewAnalyticsManager(New(db)), mock
}

func testServerInet() pqtype.Inet {
	return pqtype.Inet{
		IPNet: net.IPNet{IP: net.IPv4(10, 0, 0, 7), Mask: net.CIDRMask(24, 32)},
		Valid: true,
	}
}

func TestIncrementRoomsCreatedCount(t *testing.T) {
	am, mock := newTestAnalyticsManager(t)
	inet := testServerInet()

	mock.ExpectExec(`INSERT INTO game_server_analytics \(server_ip, rooms_created\)`).
		WithArgs(inet).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	require.NoError(t, am.IncrementRoomsCreatedCount(ctx, inet))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIncrementMatchesFinishedCount(t *testing.T) {
	am, mock := newTestAnalyticsManager(t)
	inet := testServerInet()

	mock.ExpectExec(`INSERT INTO game_server_analytics \(server_ip, matches_finished\)`).
		WithArgs(inet).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	require.NoError(t, am.IncrementMatchesFinishedCount(ctx, inet))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetRoomsCreatedCount(t *testing.T) {
	am, mock := newTestAnalyticsManager(t)
	inet := testServerInet()

	mock.ExpectQuery(`SELECT rooms_created FROM game_server_analytics WHERE server_ip = \$1`).
		WithArgs(inet).
		WillReturnRows(sqlmock.NewRows([]string{"rooms_created"}).AddRow(3))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	count, err := am.GetRoomsCreatedCount(ctx, inet)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetMatchesFinishedCount(t *testing.T) {
	am, mock := newTestAnalyticsManager(t)
	inet := testServerInet()

	mock.ExpectQuery(`SELECT matches_finished FROM game_server_analytics WHERE server_ip = \$1`).
		WithArgs(inet).
		WillReturnRows(sqlmock.NewRows([]string{"matches_finished"}).AddRow(12))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	count, err := am.GetMatchesFinishedCount(ctx, inet)
	require.NoError(t, err)
	assert.Equal(t, int64(12), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
