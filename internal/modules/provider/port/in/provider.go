package in

import (
	"context"

	"shelfmark/internal/modules/provider/dto"
)

type Usecase interface {
	List(ctx context.Context) ([]dto.ProviderInfo, error)
	Doctor(ctx context.Context) ([]dto.DoctorResult, error)
	Describe(ctx context.Context, providerName string) (dto.DescribeOutput, error)
	Lookup(ctx context.Context, input dto.LookupInput) (dto.LookupOutput, error)
}
