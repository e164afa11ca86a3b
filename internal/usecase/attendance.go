package usecase

import (
	"context"

	"github.com/totegamma/rfb-playground/internal/domain"
)

type AttendanceUsecase struct {
	*CrudUsecase[domain.EventAttendance]
	repo AttendanceRepository
}

func NewAttendanceUsecase(repo AttendanceRepository, publisher ChangePublisher) *AttendanceUsecase {
	return &AttendanceUsecase{
		CrudUsecase: NewCrudUsecase[domain.EventAttendance](domain.AttendanceEntity, repo, publisher),
		repo:        repo,
	}
}

func (uc *AttendanceUsecase) FindByRfbEvent(ctx context.Context, eventID int64) ([]domain.EventAttendance, error) {
	return uc.repo.FindByRfbEvent(ctx, eventID)
}

func (uc *AttendanceUsecase) FindWithoutRfbEvent(ctx context.Context) ([]domain.EventAttendance, error) {
	return uc.repo.FindAllWhereRfbEventIsNull(ctx)
}

func (uc *AttendanceUsecase) FindByRfbUser(ctx context.Context, userID int64) ([]domain.EventAttendance, error) {
	return uc.repo.FindByRfbUser(ctx, userID)
}

func (uc *AttendanceUsecase) FindWithoutRfbUser(ctx context.Context) ([]domain.EventAttendance, error) {
	return uc.repo.FindAllWhereRfbUserIsNull(ctx)
}
