package service

import (
	"context"
	"fmt"
	"time"

	"library-backend/internal/domain"
	"library-backend/internal/logger"
	"library-backend/internal/repository"
)

type fineService struct {
	fines repository.FineRepository
	users repository.UserRepository
}

func NewFineService(fines repository.FineRepository, users repository.UserRepository) FineService {
	return &fineService{fines: fines, users: users}
}

func (s *fineService) Pay(ctx context.Context, actor domain.Actor, fineID int32) (*domain.Fine, error) {
	if err := requireLibrarian(actor); err != nil {
		return nil, err
	}

	fine, err := s.fines.GetByID(ctx, fineID)
	if err != nil {
		return nil, err
	}
	if fine.Status == domain.FineStatusPaid {
		return nil, fmt.Errorf("%w: fine %d has already been paid", domain.ErrInvalidState, fineID)
	}

	// A WAIVED fine may still be paid; only PAID is final for payment.
	now := time.Now()
	fine.Status = domain.FineStatusPaid
	fine.PaidDate = &now
	if err := s.fines.Update(ctx, fine); err != nil {
		return nil, err
	}
	logger.Info("Fine paid", "fine_id", fineID, "user_id", fine.UserID, "amount_cents", fine.AmountCents)
	return fine, nil
}

func (s *fineService) Waive(ctx context.Context, actor domain.Actor, fineID int32) (*domain.Fine, error) {
	if err := requireLibrarian(actor); err != nil {
		return nil, err
	}

	fine, err := s.fines.GetByID(ctx, fineID)
	if err != nil {
		return nil, err
	}
	if fine.Status == domain.FineStatusPaid {
		return nil, fmt.Errorf("%w: cannot waive fine %d, it has already been paid", domain.ErrInvalidState, fineID)
	}
	if fine.Status == domain.FineStatusWaived {
		return fine, nil // waiving twice is a no-op
	}

	fine.Status = domain.FineStatusWaived
	if err := s.fines.Update(ctx, fine); err != nil {
		return nil, err
	}
	logger.Info("Fine waived", "fine_id", fineID, "user_id", fine.UserID)
	return fine, nil
}

func (s *fineService) MyFines(ctx context.Context, actor domain.Actor, status *domain.FineStatus) ([]domain.Fine, error) {
	if status != nil {
		return s.fines.ListByUserAndStatus(ctx, actor.UserID, *status)
	}
	return s.fines.ListByUser(ctx, actor.UserID)
}

func (s *fineService) FinesForUser(ctx context.Context, actor domain.Actor, userID int32, status *domain.FineStatus) ([]domain.Fine, error) {
	if err := requireSelfOrLibrarian(actor, userID); err != nil {
		return nil, err
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	if status != nil {
		return s.fines.ListByUserAndStatus(ctx, userID, *status)
	}
	return s.fines.ListByUser(ctx, userID)
}

func (s *fineService) AllFines(ctx context.Context, actor domain.Actor, status *domain.FineStatus) ([]domain.Fine, error) {
	if err := requireLibrarian(actor); err != nil {
		return nil, err
	}
	if status != nil {
		return s.fines.ListByStatus(ctx, *status)
	}
	return s.fines.ListAll(ctx)
}
