package in

import (
	"context"

	"shelfmark/internal/modules/stats/dto"
)

type Usecase interface {
	GetStats(ctx context.Context, userID string) (dto.StatsOutput, error)
}
