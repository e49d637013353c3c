package in

import (
	"context"

	"shelfmark/internal/modules/shelf/dto"
	shelfin "shelfmark/internal/modules/shelf/port/in"
)

type CLIHandler struct {
	usecase shelfin.Usecase
}

func NewCLIHandler(usecase shelfin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) GetShelf(ctx context.Context, userID string) (dto.ShelfOutput, error) {
	return h.usecase.GetShelf(ctx, userID)
}
