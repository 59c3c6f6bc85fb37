package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"library-backend/internal/domain"
	"library-backend/internal/repository"
)

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}
func (m *MockUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}
func (m *MockUserRepo) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) List(ctx context.Context, page, pageSize int32) ([]domain.User, int32, error) {
	args := m.Called(ctx, page, pageSize)
	return args.Get(0).([]domain.User), args.Get(1).(int32), args.Error(2)
}

// MockBookRepo
type MockBookRepo struct {
	mock.Mock
}

func (m *MockBookRepo) Create(ctx context.Context, book *domain.Book) error {
	args := m.Called(ctx, book)
	return args.Error(0)
}
func (m *MockBookRepo) GetByID(ctx context.Context, id int32) (*domain.Book, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Book), args.Error(1)
}
func (m *MockBookRepo) ExistsByISBN(ctx context.Context, isbn string) (bool, error) {
	args := m.Called(ctx, isbn)
	return args.Bool(0), args.Error(1)
}
func (m *MockBookRepo) Update(ctx context.Context, book *domain.Book) error {
	args := m.Called(ctx, book)
	return args.Error(0)
}
func (m *MockBookRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockBookRepo) Search(ctx context.Context, title, author, isbn, genre string, page, pageSize int32) ([]domain.Book, int32, error) {
	args := m.Called(ctx, title, author, isbn, genre, page, pageSize)
	return args.Get(0).([]domain.Book), args.Get(1).(int32), args.Error(2)
}
func (m *MockBookRepo) DecrementAvailable(ctx context.Context, bookID int32) error {
	args := m.Called(ctx, bookID)
	return args.Error(0)
}
func (m *MockBookRepo) IncrementAvailable(ctx context.Context, bookID int32) error {
	args := m.Called(ctx, bookID)
	return args.Error(0)
}
func (m *MockBookRepo) Resize(ctx context.Context, bookID, newTotal int32) error {
	args := m.Called(ctx, bookID, newTotal)
	return args.Error(0)
}

// MockLoanRepo
type MockLoanRepo struct {
	mock.Mock
}

func (m *MockLoanRepo) Create(ctx context.Context, loan *domain.Loan) error {
	args := m.Called(ctx, loan)
	return args.Error(0)
}
func (m *MockLoanRepo) GetByID(ctx context.Context, id int32) (*domain.Loan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}
func (m *MockLoanRepo) SetReturned(ctx context.Context, loanID int32, returnedOn time.Time) error {
	args := m.Called(ctx, loanID, returnedOn)
	return args.Error(0)
}
func (m *MockLoanRepo) ExistsActive(ctx context.Context, bookID, userID int32) (bool, error) {
	args := m.Called(ctx, bookID, userID)
	return args.Bool(0), args.Error(1)
}
func (m *MockLoanRepo) ExistsActiveForBook(ctx context.Context, bookID int32) (bool, error) {
	args := m.Called(ctx, bookID)
	return args.Bool(0), args.Error(1)
}
func (m *MockLoanRepo) ListByUser(ctx context.Context, userID int32) ([]domain.Loan, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Loan), args.Error(1)
}
func (m *MockLoanRepo) ListAll(ctx context.Context) ([]domain.Loan, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Loan), args.Error(1)
}
func (m *MockLoanRepo) ListOverdue(ctx context.Context, asOf time.Time) ([]domain.Loan, error) {
	args := m.Called(ctx, asOf)
	return args.Get(0).([]domain.Loan), args.Error(1)
}
func (m *MockLoanRepo) CountByUser(ctx context.Context, userID int32) (int64, int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}
func (m *MockLoanRepo) TopBorrowedBooks(ctx context.Context, page, pageSize int32) ([]domain.BookBorrowCount, int32, error) {
	args := m.Called(ctx, page, pageSize)
	return args.Get(0).([]domain.BookBorrowCount), args.Get(1).(int32), args.Error(2)
}

// MockReservationRepo
type MockReservationRepo struct {
	mock.Mock
}

func (m *MockReservationRepo) Create(ctx context.Context, res *domain.Reservation) error {
	args := m.Called(ctx, res)
	return args.Error(0)
}
func (m *MockReservationRepo) GetByID(ctx context.Context, id int32) (*domain.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}
func (m *MockReservationRepo) ExistsActive(ctx context.Context, bookID, userID int32) (bool, error) {
	args := m.Called(ctx, bookID, userID)
	return args.Bool(0), args.Error(1)
}
func (m *MockReservationRepo) UpdateStatus(ctx context.Context, id int32, status domain.ReservationStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}
func (m *MockReservationRepo) PromoteNext(ctx context.Context, bookID int32, expiresAt time.Time) (*domain.Reservation, error) {
	args := m.Called(ctx, bookID, expiresAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}
func (m *MockReservationRepo) FulfillForUser(ctx context.Context, bookID, userID int32) (bool, error) {
	args := m.Called(ctx, bookID, userID)
	return args.Bool(0), args.Error(1)
}
func (m *MockReservationRepo) MarkExpired(ctx context.Context, id int32, asOf time.Time) (bool, error) {
	args := m.Called(ctx, id, asOf)
	return args.Bool(0), args.Error(1)
}
func (m *MockReservationRepo) ListActiveByUser(ctx context.Context, userID int32) ([]domain.Reservation, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Reservation), args.Error(1)
}
func (m *MockReservationRepo) ListPendingByBook(ctx context.Context, bookID int32) ([]domain.Reservation, error) {
	args := m.Called(ctx, bookID)
	return args.Get(0).([]domain.Reservation), args.Error(1)
}
func (m *MockReservationRepo) ListActive(ctx context.Context) ([]domain.Reservation, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Reservation), args.Error(1)
}
func (m *MockReservationRepo) ListExpiredHolds(ctx context.Context, asOf time.Time) ([]domain.Reservation, error) {
	args := m.Called(ctx, asOf)
	return args.Get(0).([]domain.Reservation), args.Error(1)
}

// MockFineRepo
type MockFineRepo struct {
	mock.Mock
}

func (m *MockFineRepo) Create(ctx context.Context, fine *domain.Fine) error {
	args := m.Called(ctx, fine)
	return args.Error(0)
}
func (m *MockFineRepo) GetByID(ctx context.Context, id int32) (*domain.Fine, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Fine), args.Error(1)
}
func (m *MockFineRepo) GetByLoanID(ctx context.Context, loanID int32) (*domain.Fine, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Fine), args.Error(1)
}
func (m *MockFineRepo) Update(ctx context.Context, fine *domain.Fine) error {
	args := m.Called(ctx, fine)
	return args.Error(0)
}
func (m *MockFineRepo) ListByUser(ctx context.Context, userID int32) ([]domain.Fine, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Fine), args.Error(1)
}
func (m *MockFineRepo) ListByUserAndStatus(ctx context.Context, userID int32, status domain.FineStatus) ([]domain.Fine, error) {
	args := m.Called(ctx, userID, status)
	return args.Get(0).([]domain.Fine), args.Error(1)
}
func (m *MockFineRepo) ListByStatus(ctx context.Context, status domain.FineStatus) ([]domain.Fine, error) {
	args := m.Called(ctx, status)
	return args.Get(0).([]domain.Fine), args.Error(1)
}
func (m *MockFineRepo) ListAll(ctx context.Context) ([]domain.Fine, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Fine), args.Error(1)
}

// testStores groups fresh mocks for one test case.
type testStores struct {
	users        *MockUserRepo
	books        *MockBookRepo
	loans        *MockLoanRepo
	reservations *MockReservationRepo
	fines        *MockFineRepo
}

func newTestStores() *testStores {
	return &testStores{
		users:        &MockUserRepo{},
		books:        &MockBookRepo{},
		loans:        &MockLoanRepo{},
		reservations: &MockReservationRepo{},
		fines:        &MockFineRepo{},
	}
}

func (ts *testStores) stores() repository.Stores {
	return repository.Stores{
		Users:        ts.users,
		Books:        ts.books,
		Loans:        ts.loans,
		Reservations: ts.reservations,
		Fines:        ts.fines,
	}
}

func (ts *testStores) assertExpectations(t mock.TestingT) {
	ts.users.AssertExpectations(t)
	ts.books.AssertExpectations(t)
	ts.loans.AssertExpectations(t)
	ts.reservations.AssertExpectations(t)
	ts.fines.AssertExpectations(t)
}

// fakeTransactor runs the callback against the same mock stores, without a
// real transaction.
type fakeTransactor struct {
	stores repository.Stores
}

func (f *fakeTransactor) WithinTx(_ context.Context, fn func(repository.Stores) error) error {
	return fn(f.stores)
}
