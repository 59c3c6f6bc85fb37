package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"library-backend/internal/config"
	"library-backend/internal/domain"
	"library-backend/internal/repository"
)

// FineCalculator derives fines from a completed loan's dates. It is an
// immutable value constructed from the lending policy, so tests can run it
// with varied rates and the running process never sees a rate change.
type FineCalculator struct {
	dailyRateCents  int64
	gracePeriodDays int
}

func NewFineCalculator(cfg config.LendingConfig) FineCalculator {
	return FineCalculator{
		dailyRateCents:  cfg.DailyFineRateCents,
		gracePeriodDays: cfg.GracePeriodDays,
	}
}

// Assess applies the create-or-update-or-leave-alone decision table for the
// loan's fine. The loan must already be returned. The fine repository passed
// in is transaction-scoped, so assessment commits or rolls back together
// with the rest of the return operation.
//
// Returns nil when the book came back within the grace period and no fine
// exists. An existing PAID fine is never modified.
func (c FineCalculator) Assess(ctx context.Context, fines repository.FineRepository, loan *domain.Loan) (*domain.Fine, error) {
	if loan.ReturnDate == nil {
		return nil, fmt.Errorf("%w: fine can only be assessed for a returned loan (loan %d)", domain.ErrInvalidState, loan.ID)
	}

	existing, err := fines.GetByLoanID(ctx, loan.ID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	overdueDays := daysBetween(loan.DueDate, *loan.ReturnDate)
	if overdueDays <= c.gracePeriodDays {
		// On time or within grace: whatever fine exists (possibly none) is
		// left exactly as it is, even if already settled.
		return existing, nil
	}

	billableDays := overdueDays - c.gracePeriodDays
	amount := c.dailyRateCents * int64(billableDays)

	switch {
	case existing == nil:
		fine := &domain.Fine{
			LoanID:      loan.ID,
			UserID:      loan.UserID,
			AmountCents: amount,
			IssueDate:   time.Now(),
			Status:      domain.FineStatusPending,
		}
		if err := fines.Create(ctx, fine); err != nil {
			return nil, err
		}
		return fine, nil

	case existing.Status == domain.FineStatusPending && existing.AmountCents != amount:
		// Recomputation with corrected dates: refresh the pending amount.
		existing.AmountCents = amount
		existing.IssueDate = time.Now()
		if err := fines.Update(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil

	default:
		// PAID fines are immutable; WAIVED and matching PENDING fines stand.
		return existing, nil
	}
}

// daysBetween counts whole calendar days from a to b, negative when b is
// before a. Times of day are ignored.
func daysBetween(a, b time.Time) int {
	aDate := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bDate := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bDate.Sub(aDate) / (24 * time.Hour))
}
