package usecase

import (
	"context"

	"github.com/totegamma/rfb-playground/internal/domain"
)

type UserUsecase struct {
	*CrudUsecase[domain.User]
	repo UserRepository
}

func NewUserUsecase(repo UserRepository, publisher ChangePublisher) *UserUsecase {
	return &UserUsecase{
		CrudUsecase: NewCrudUsecase[domain.User](domain.UserEntity, repo, publisher),
		repo:        repo,
	}
}

func (uc *UserUsecase) FindByHomeLocation(ctx context.Context, locationID int64) ([]domain.User, error) {
	return uc.repo.FindByHomeLocation(ctx, locationID)
}

func (uc *UserUsecase) FindWithoutHomeLocation(ctx context.Context) ([]domain.User, error) {
	return uc.repo.FindAllWhereHomeLocationIsNull(ctx)
}
