package usecase

import (
	"context"

	"github.com/totegamma/rfb-playground/internal/domain"
)

type EventUsecase struct {
	*CrudUsecase[domain.Event]
	repo EventRepository
}

func NewEventUsecase(repo EventRepository, publisher ChangePublisher) *EventUsecase {
	return &EventUsecase{
		CrudUsecase: NewCrudUsecase[domain.Event](domain.EventEntity, repo, publisher),
		repo:        repo,
	}
}

func (uc *EventUsecase) FindByRfbLocation(ctx context.Context, locationID int64) ([]domain.Event, error) {
	return uc.repo.FindByRfbLocation(ctx, locationID)
}

func (uc *EventUsecase) FindWithoutRfbLocation(ctx context.Context) ([]domain.Event, error) {
	return uc.repo.FindAllWhereRfbLocationIsNull(ctx)
}
