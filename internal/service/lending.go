package service

import (
	"context"
	"fmt"
	"time"

	"library-backend/internal/config"
	"library-backend/internal/domain"
	"library-backend/internal/logger"
	"library-backend/internal/repository"
)

type lendingService struct {
	tx    repository.Transactor
	loans repository.LoanRepository
	users repository.UserRepository
	calc  FineCalculator
	cfg   config.LendingConfig
}

func NewLendingService(
	tx repository.Transactor,
	loans repository.LoanRepository,
	users repository.UserRepository,
	cfg config.LendingConfig,
) LendingService {
	return &lendingService{
		tx:    tx,
		loans: loans,
		users: users,
		calc:  NewFineCalculator(cfg),
		cfg:   cfg,
	}
}

func (s *lendingService) BorrowBook(ctx context.Context, actor domain.Actor, bookID int32, dueDate *time.Time) (*domain.Loan, error) {
	now := time.Now()
	if dueDate != nil && !dueDate.After(now) {
		return nil, fmt.Errorf("%w: due date must be in the future", domain.ErrInvalidArgument)
	}

	due := now.AddDate(0, 0, s.cfg.LoanPeriodDays)
	if dueDate != nil {
		due = *dueDate
	}

	var loan *domain.Loan
	err := s.tx.WithinTx(ctx, func(st repository.Stores) error {
		book, err := st.Books.GetByID(ctx, bookID)
		if err != nil {
			return err
		}

		hasActive, err := st.Loans.ExistsActive(ctx, bookID, actor.UserID)
		if err != nil {
			return err
		}
		if hasActive {
			return fmt.Errorf("%w: user %d already has an active loan for book %d", domain.ErrConflict, actor.UserID, bookID)
		}

		// Decrement before recording the loan: a crash in between leaves the
		// free-copy count undercounted, never overcounted.
		if err := st.Books.DecrementAvailable(ctx, bookID); err != nil {
			return err
		}

		loan = &domain.Loan{
			BookID:     bookID,
			UserID:     actor.UserID,
			BorrowDate: now,
			DueDate:    due,
		}
		if err := st.Loans.Create(ctx, loan); err != nil {
			return err
		}

		// If the borrower is claiming a held copy, close out the hold in the
		// same transaction. No-op for ordinary borrows.
		fulfilled, err := st.Reservations.FulfillForUser(ctx, bookID, actor.UserID)
		if err != nil {
			return err
		}
		if fulfilled {
			logger.Info("Reservation fulfilled by borrow", "book_id", bookID, "user_id", actor.UserID)
		}

		logger.Info("Book borrowed", "book_id", bookID, "title", book.Title, "user_id", actor.UserID, "due_date", due.Format("2006-01-02"))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return loan, nil
}

func (s *lendingService) ReturnLoan(ctx context.Context, actor domain.Actor, loanID int32) (*domain.Loan, *domain.Fine, error) {
	var (
		loan *domain.Loan
		fine *domain.Fine
	)
	err := s.tx.WithinTx(ctx, func(st repository.Stores) error {
		var err error
		loan, err = st.Loans.GetByID(ctx, loanID)
		if err != nil {
			return err
		}
		if !actor.IsLibrarian() && loan.UserID != actor.UserID {
			return fmt.Errorf("%w: loan %d belongs to another user", domain.ErrForbidden, loanID)
		}

		if loan.ReturnDate != nil {
			// Duplicate return attempts happen under retries. Report the
			// existing record; no copy freed, no fine reassessed, no waiter
			// promoted.
			logger.Warn("Ignoring duplicate return attempt", "loan_id", loanID, "returned_on", loan.ReturnDate.Format("2006-01-02"))
			return nil
		}

		now := time.Now()
		if err := st.Loans.SetReturned(ctx, loanID, now); err != nil {
			return err
		}
		loan.ReturnDate = &now

		if err := st.Books.IncrementAvailable(ctx, loan.BookID); err != nil {
			return err
		}

		fine, err = s.calc.Assess(ctx, st.Fines, loan)
		if err != nil {
			return err
		}
		if fine != nil {
			logger.Info("Fine assessed on return", "loan_id", loanID, "amount_cents", fine.AmountCents, "status", fine.Status)
		}

		promoted, err := st.Reservations.PromoteNext(ctx, loan.BookID, now.Add(s.holdDuration()))
		if err != nil {
			return err
		}
		if promoted != nil {
			logger.Info("Reservation promoted to hold", "reservation_id", promoted.ID, "book_id", loan.BookID, "user_id", promoted.UserID, "expires_at", promoted.ExpirationTime)
		}

		logger.Info("Book returned", "loan_id", loanID, "book_id", loan.BookID, "user_id", loan.UserID)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return loan, fine, nil
}

func (s *lendingService) MyHistory(ctx context.Context, actor domain.Actor) ([]domain.Loan, error) {
	return s.loans.ListByUser(ctx, actor.UserID)
}

func (s *lendingService) UserHistory(ctx context.Context, actor domain.Actor, userID int32) ([]domain.Loan, error) {
	if err := requireSelfOrLibrarian(actor, userID); err != nil {
		return nil, err
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.loans.ListByUser(ctx, userID)
}

func (s *lendingService) AllHistory(ctx context.Context, actor domain.Actor) ([]domain.Loan, error) {
	if err := requireLibrarian(actor); err != nil {
		return nil, err
	}
	return s.loans.ListAll(ctx)
}

func (s *lendingService) OverdueLoans(ctx context.Context, actor domain.Actor) ([]domain.Loan, error) {
	if err := requireLibrarian(actor); err != nil {
		return nil, err
	}
	return s.loans.ListOverdue(ctx, time.Now())
}

func (s *lendingService) holdDuration() time.Duration {
	return time.Duration(s.cfg.HoldDurationHours) * time.Hour
}
