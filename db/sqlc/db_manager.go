package sqlc

import (
	"context"
	"time"

	"github.com/sqlc-dev/pqtype"
)

const (
	QuerierCtxTimeout = time.Second * 10
)

type AnalyticsManager struct {
	queries Querier
}

func NewAnalyticsManager(queries Querier) *AnalyticsManager {
	return &AnalyticsManager{queries: queries}
}

func (a *AnalyticsManager) IncrementRoomsCreatedCount(ctx context.Context, serverIpNet pqtype.Inet) error {
	return a.queries.AnalyticsIncrementRoomsCreatedCount(ctx, serverIpNet)
}

func (a *AnalyticsManager) IncrementMatchesFinishedCount(ctx context.Context, serverIpNet pqtype.Inet) error {
	return a.queries.AnalyticsIncrementMatchesFinishedCount(ctx, serverIpNet)
}

func (a *AnalyticsManager) GetRoomsCreatedCount(ctx context.Context, serverIpNet pqtype.Inet) (int64, error) {
	return a.queries.AnalyticsGetRoomsCreatedCount(ctx, serverIpNet)
}

func (a *AnalyticsManager) GetMatchesFinishedCount(ctx context.Context, serverIpNet pqtype.Inet) (int64, error) {
	return a.queries.AnalyticsGetMatchesFinishedCount(ctx, serverIpNet)
}
