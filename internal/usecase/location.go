package usecase

import (
	"github.com/totegamma/rfb-playground/internal/domain"
)

type LocationUsecase struct {
	*CrudUsecase[domain.Location]
}

func NewLocationUsecase(repo LocationRepository, publisher ChangePublisher) *LocationUsecase {
	return &LocationUsecase{
		CrudUsecase: NewCrudUsecase[domain.Location](domain.LocationEntity, repo, publisher),
	}
}
