package usecase

import (
	"context"

	"shelfmark/internal/modules/provider/dto"
	providerin "shelfmark/internal/modules/provider/port/in"
	"shelfmark/internal/modules/provider/service"
)

type Interactor struct {
	svc *service.ProviderService
}

func NewInteractor(svc *service.ProviderService) providerin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) List(ctx context.Context) ([]dto.ProviderInfo, error) {
	return i.svc.List(ctx)
}

func (i *Interactor) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	return i.svc.Doctor(ctx)
}

func (i *Interactor) Describe(ctx context.Context, providerName string) (dto.DescribeOutput, error) {
	return i.svc.Describe(ctx, providerName)
}

func (i *Interactor) Lookup(ctx context.Context, input dto.LookupInput) (dto.LookupOutput, error) {
	return i.svc.Lookup(ctx, input)
}
