package service

import (
	"context"

	"library-backend/internal/domain"
	"library-backend/internal/repository"
)

type reportService struct {
	loans repository.LoanRepository
	users repository.UserRepository
}

func NewReportService(loans repository.LoanRepository, users repository.UserRepository) ReportService {
	return &reportService{loans: loans, users: users}
}

func (s *reportService) TopBorrowedBooks(ctx context.Context, actor domain.Actor, page, pageSize int32) ([]domain.BookBorrowCount, int32, error) {
	if err := requireLibrarian(actor); err != nil {
		return nil, 0, err
	}
	page, pageSize = normalizePage(page, pageSize)
	return s.loans.TopBorrowedBooks(ctx, page, pageSize)
}

func (s *reportService) UserActivityReport(ctx context.Context, actor domain.Actor, page, pageSize int32) ([]domain.UserActivity, int32, error) {
	if err := requireLibrarian(actor); err != nil {
		return nil, 0, err
	}
	page, pageSize = normalizePage(page, pageSize)

	users, count, err := s.users.List(ctx, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	report := make([]domain.UserActivity, 0, len(users))
	for _, u := range users {
		total, active, err := s.loans.CountByUser(ctx, u.ID)
		if err != nil {
			return nil, 0, err
		}
		report = append(report, domain.UserActivity{
			UserID:      u.ID,
			Username:    u.Username,
			FullName:    u.FullName,
			TotalLoans:  total,
			ActiveLoans: active,
		})
	}
	return report, count, nil
}

func normalizePage(page, pageSize int32) (int32, int32) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}
