package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"library-backend/internal/config"
	"library-backend/internal/domain"
)

func lendingPolicy() config.LendingConfig {
	return config.LendingConfig{
		DailyFineRateCents: 100,
		GracePeriodDays:    0,
		HoldDurationHours:  48,
		LoanPeriodDays:     14,
	}
}

func newLendingFixture() (*testStores, LendingService) {
	ts := newTestStores()
	tx := &fakeTransactor{stores: ts.stores()}
	return ts, NewLendingService(tx, ts.loans, ts.users, lendingPolicy())
}

func TestBorrowBook_Success(t *testing.T) {
	ts, svc := newLendingFixture()
	ctx := context.Background()
	patron := domain.Actor{UserID: 7, Role: domain.RolePatron}

	book := &domain.Book{ID: 3, Title: "The Go Programming Language", TotalCopies: 2, AvailableCopies: 1}
	ts.books.On("GetByID", ctx, int32(3)).Return(book, nil)
	ts.loans.On("ExistsActive", ctx, int32(3), int32(7)).Return(false, nil)
	ts.books.On("DecrementAvailable", ctx, int32(3)).Return(nil)
	ts.loans.On("Create", ctx, mock.AnythingOfType("*domain.Loan")).Return(nil)
	ts.reservations.On("FulfillForUser", ctx, int32(3), int32(7)).Return(false, nil)

	loan, err := svc.BorrowBook(ctx, patron, 3, nil)
	require.NoError(t, err)
	require.NotNil(t, loan)
	assert.Equal(t, int32(3), loan.BookID)
	assert.Equal(t, int32(7), loan.UserID)
	assert.Nil(t, loan.ReturnDate)

	// Default due date comes from the configured loan period.
	wantDue := time.Now().AddDate(0, 0, 14)
	assert.WithinDuration(t, wantDue, loan.DueDate, time.Minute)

	ts.assertExpectations(t)
}

func TestBorrowBook_FulfillsHeldReservation(t *testing.T) {
	ts, svc := newLendingFixture()
	ctx := context.Background()
	patron := domain.Actor{UserID: 9, Role: domain.RolePatron}

	book := &domain.Book{ID: 5, Title: "Dune", TotalCopies: 1, AvailableCopies: 1}
	ts.books.On("GetByID", ctx, int32(5)).Return(book, nil)
	ts.loans.On("ExistsActive", ctx, int32(5), int32(9)).Return(false, nil)
	ts.books.On("DecrementAvailable", ctx, int32(5)).Return(nil)
	ts.loans.On("Create", ctx, mock.AnythingOfType("*domain.Loan")).Return(nil)
	ts.reservations.On("FulfillForUser", ctx, int32(5), int32(9)).Return(true, nil)

	loan, err := svc.BorrowBook(ctx, patron, 5, nil)
	require.NoError(t, err)
	require.NotNil(t, loan)

	ts.assertExpectations(t)
}

func TestBorrowBook_NoCopiesAvailable(t *testing.T) {
	ts, svc := newLendingFixture()
	ctx := context.Background()
	patron := domain.Actor{UserID: 7, Role: domain.RolePatron}

	book := &domain.Book{ID: 3, Title: "Dune", TotalCopies: 2, AvailableCopies: 0}
	ts.books.On("GetByID", ctx, int32(3)).Return(book, nil)
	ts.loans.On("ExistsActive", ctx, int32(3), int32(7)).Return(false, nil)
	ts.books.On("DecrementAvailable", ctx, int32(3)).Return(domain.ErrUnavailable)

	loan, err := svc.BorrowBook(ctx, patron, 3, nil)
	assert.ErrorIs(t, err, domain.ErrUnavailable)
	assert.Nil(t, loan)

	ts.loans.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	ts.assertExpectations(t)
}

func TestBorrowBook_DuplicateActiveLoan(t *testing.T) {
	ts, svc := newLendingFixture()
	ctx := context.Background()
	patron := domain.Actor{UserID: 7, Role: domain.RolePatron}

	book := &domain.Book{ID: 3, Title: "Dune", TotalCopies: 2, AvailableCopies: 1}
	ts.books.On("GetByID", ctx, int32(3)).Return(book, nil)
	ts.loans.On("ExistsActive", ctx, int32(3), int32(7)).Return(true, nil)

	loan, err := svc.BorrowBook(ctx, patron, 3, nil)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Nil(t, loan)

	ts.books.AssertNotCalled(t, "DecrementAvailable", mock.Anything, mock.Anything)
	ts.assertExpectations(t)
}

func TestBorrowBook_UnknownBook(t *testing.T) {
	ts, svc := newLendingFixture()
	ctx := context.Background()
	patron := domain.Actor{UserID: 7, Role: domain.RolePatron}

	ts.books.On("GetByID", ctx, int32(99)).Return(nil, domain.ErrNotFound)

	loan, err := svc.BorrowBook(ctx, patron, 99, nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Nil(t, loan)
	ts.assertExpectations(t)
}

func TestBorrowBook_DueDateInPast(t *testing.T) {
	_, svc := newLendingFixture()
	ctx := context.Background()
	patron := domain.Actor{UserID: 7, Role: domain.RolePatron}

	past := time.Now().Add(-24 * time.Hour)
	loan, err := svc.BorrowBook(ctx, patron, 3, &past)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	assert.Nil(t, loan)
}

func TestReturnLoan_OnTime(t *testing.T) {
	ts, svc := newLendingFixture()
	ctx := context.Background()
	patron := domain.Actor{UserID: 7, Role: domain.RolePatron}

	loan := &domain.Loan{
		ID:         11,
		BookID:     3,
		UserID:     7,
		BorrowDate: time.Now().AddDate(0, 0, -5),
		DueDate:    time.Now().AddDate(0, 0, 9),
	}
	ts.loans.On("GetByID", ctx, int32(11)).Return(loan, nil)
	ts.loans.On("SetReturned", ctx, int32(11), mock.AnythingOfType("time.Time")).Return(nil)
	ts.books.On("IncrementAvailable", ctx, int32(3)).Return(nil)
	ts.fines.On("GetByLoanID", ctx, int32(11)).Return(nil, domain.ErrNotFound)
	ts.reservations.On("PromoteNext", ctx, int32(3), mock.AnythingOfType("time.Time")).Return(nil, nil)

	returned, fine, err := svc.ReturnLoan(ctx, patron, 11)
	require.NoError(t, err)
	require.NotNil(t, returned)
	assert.NotNil(t, returned.ReturnDate)
	assert.Nil(t, fine, "on-time return must not create a fine")

	ts.assertExpectations(t)
}

func TestReturnLoan_OverdueAssessesFineAndPromotes(t *testing.T) {
	ts, svc := newLendingFixture()
	ctx := context.Background()
	patron := domain.Actor{UserID: 7, Role: domain.RolePatron}

	loan := &domain.Loan{
		ID:         11,
		BookID:     3,
		UserID:     7,
		BorrowDate: time.Now().AddDate(0, 0, -19),
		DueDate:    time.Now().AddDate(0, 0, -5),
	}
	holdExpiry := time.Now().Add(48 * time.Hour)
	promoted := &domain.Reservation{ID: 21, BookID: 3, UserID: 8, Status: domain.ReservationStatusAvailable, ExpirationTime: &holdExpiry}

	ts.loans.On("GetByID", ctx, int32(11)).Return(loan, nil)
	ts.loans.On("SetReturned", ctx, int32(11), mock.AnythingOfType("time.Time")).Return(nil)
	ts.books.On("IncrementAvailable", ctx, int32(3)).Return(nil)
	ts.fines.On("GetByLoanID", ctx, int32(11)).Return(nil, domain.ErrNotFound)
	ts.fines.On("Create", ctx, mock.AnythingOfType("*domain.Fine")).Return(nil)
	ts.reservations.On("PromoteNext", ctx, int32(3), mock.AnythingOfType("time.Time")).Return(promoted, nil)

	_, fine, err := svc.ReturnLoan(ctx, patron, 11)
	require.NoError(t, err)
	require.NotNil(t, fine)
	assert.Equal(t, domain.FineStatusPending, fine.Status)
	assert.Equal(t, int64(5*100), fine.AmountCents)

	ts.assertExpectations(t)
}

func TestReturnLoan_DuplicateReturnIsNoOp(t *testing.T) {
	ts, svc := newLendingFixture()
	ctx := context.Background()
	patron := domain.Actor{UserID: 7, Role: domain.RolePatron}

	already := time.Now().AddDate(0, 0, -1)
	loan := &domain.Loan{
		ID:         11,
		BookID:     3,
		UserID:     7,
		BorrowDate: time.Now().AddDate(0, 0, -10),
		DueDate:    time.Now().AddDate(0, 0, -3),
		ReturnDate: &already,
	}
	ts.loans.On("GetByID", ctx, int32(11)).Return(loan, nil)

	returned, fine, err := svc.ReturnLoan(ctx, patron, 11)
	require.NoError(t, err)
	assert.Equal(t, &already, returned.ReturnDate)
	assert.Nil(t, fine)

	// The second return must not free a copy or touch the queue.
	ts.books.AssertNotCalled(t, "IncrementAvailable", mock.Anything, mock.Anything)
	ts.reservations.AssertNotCalled(t, "PromoteNext", mock.Anything, mock.Anything, mock.Anything)
	ts.assertExpectations(t)
}

func TestReturnLoan_ForbiddenForOtherPatron(t *testing.T) {
	ts, svc := newLendingFixture()
	ctx := context.Background()
	stranger := domain.Actor{UserID: 99, Role: domain.RolePatron}

	loan := &domain.Loan{ID: 11, BookID: 3, UserID: 7, DueDate: time.Now()}
	ts.loans.On("GetByID", ctx, int32(11)).Return(loan, nil)

	_, _, err := svc.ReturnLoan(ctx, stranger, 11)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	ts.assertExpectations(t)
}

func TestReturnLoan_LibrarianMayReturnForPatron(t *testing.T) {
	ts, svc := newLendingFixture()
	ctx := context.Background()
	librarian := domain.Actor{UserID: 1, Role: domain.RoleLibrarian}

	loan := &domain.Loan{
		ID:         11,
		BookID:     3,
		UserID:     7,
		BorrowDate: time.Now().AddDate(0, 0, -5),
		DueDate:    time.Now().AddDate(0, 0, 9),
	}
	ts.loans.On("GetByID", ctx, int32(11)).Return(loan, nil)
	ts.loans.On("SetReturned", ctx, int32(11), mock.AnythingOfType("time.Time")).Return(nil)
	ts.books.On("IncrementAvailable", ctx, int32(3)).Return(nil)
	ts.fines.On("GetByLoanID", ctx, int32(11)).Return(nil, domain.ErrNotFound)
	ts.reservations.On("PromoteNext", ctx, int32(3), mock.AnythingOfType("time.Time")).Return(nil, nil)

	_, _, err := svc.ReturnLoan(ctx, librarian, 11)
	require.NoError(t, err)
	ts.assertExpectations(t)
}

func TestUserHistory_RequiresSelfOrLibrarian(t *testing.T) {
	ts, svc := newLendingFixture()
	ctx := context.Background()

	_, err := svc.UserHistory(ctx, domain.Actor{UserID: 2, Role: domain.RolePatron}, 7)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	ts.users.On("GetByID", ctx, int32(7)).Return(&domain.User{ID: 7}, nil)
	ts.loans.On("ListByUser", ctx, int32(7)).Return([]domain.Loan{}, nil)
	_, err = svc.UserHistory(ctx, domain.Actor{UserID: 1, Role: domain.RoleLibrarian}, 7)
	assert.NoError(t, err)
	ts.assertExpectations(t)
}

func TestOverdueLoans_LibrarianOnly(t *testing.T) {
	ts, svc := newLendingFixture()
	ctx := context.Background()

	_, err := svc.OverdueLoans(ctx, domain.Actor{UserID: 7, Role: domain.RolePatron})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	ts.loans.On("ListOverdue", ctx, mock.AnythingOfType("time.Time")).Return([]domain.Loan{}, nil)
	_, err = svc.OverdueLoans(ctx, domain.Actor{UserID: 1, Role: domain.RoleLibrarian})
	assert.NoError(t, err)
	ts.assertExpectations(t)
}
