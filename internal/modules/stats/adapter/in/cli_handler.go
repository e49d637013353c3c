package in

import (
	"context"

	"shelfmark/internal/modules/stats/dto"
	statsin "shelfmark/internal/modules/stats/port/in"
)

type CLIHandler struct {
	usecase statsin.Usecase
}

func NewCLIHandler(usecase statsin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) GetStats(ctx context.Context, userID string) (dto.StatsOutput, error) {
	return h.usecase.GetStats(ctx, userID)
}
