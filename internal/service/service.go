package service

import (
	"context"
	"time"

	"library-backend/internal/domain"
)

// LendingService coordinates the compound borrow and return operations and
// the loan history queries.
type LendingService interface {
	// BorrowBook decrements the book's free-copy count and records the loan
	// in one transaction. dueDate is optional; when omitted the configured
	// loan period applies. If the borrower holds an AVAILABLE reservation for
	// the book it is fulfilled as part of the same transaction.
	BorrowBook(ctx context.Context, actor domain.Actor, bookID int32, dueDate *time.Time) (*domain.Loan, error)

	// ReturnLoan closes the loan, frees a copy, assesses any overdue fine and
	// promotes the next waiter, all in one transaction. Returning an already
	// closed loan is a no-op that reports the existing record. The returned
	// fine is nil when the book came back on time.
	ReturnLoan(ctx context.Context, actor domain.Actor, loanID int32) (*domain.Loan, *domain.Fine, error)

	MyHistory(ctx context.Context, actor domain.Actor) ([]domain.Loan, error)
	UserHistory(ctx context.Context, actor domain.Actor, userID int32) ([]domain.Loan, error)
	AllHistory(ctx context.Context, actor domain.Actor) ([]domain.Loan, error)
	OverdueLoans(ctx context.Context, actor domain.Actor) ([]domain.Loan, error)
}

// ReservationService owns the per-book waiting list and its state machine.
type ReservationService interface {
	Reserve(ctx context.Context, actor domain.Actor, bookID int32) (*domain.Reservation, error)
	Cancel(ctx context.Context, actor domain.Actor, reservationID int32) error
	MyActiveReservations(ctx context.Context, actor domain.Actor) ([]domain.Reservation, error)
	PendingForBook(ctx context.Context, actor domain.Actor, bookID int32) ([]domain.Reservation, error)
	AllActive(ctx context.Context, actor domain.Actor) ([]domain.Reservation, error)

	// ExpireStale moves every AVAILABLE reservation whose hold window has
	// elapsed to EXPIRED and promotes the next waiter for its book. Each
	// reservation's cascade runs in its own transaction so one failure does
	// not block the rest. It returns the number of reservations expired and
	// is safe to run concurrently with borrows and returns.
	ExpireStale(ctx context.Context) (int, error)
}

type FineService interface {
	Pay(ctx context.Context, actor domain.Actor, fineID int32) (*domain.Fine, error)
	Waive(ctx context.Context, actor domain.Actor, fineID int32) (*domain.Fine, error)
	MyFines(ctx context.Context, actor domain.Actor, status *domain.FineStatus) ([]domain.Fine, error)
	FinesForUser(ctx context.Context, actor domain.Actor, userID int32, status *domain.FineStatus) ([]domain.Fine, error)
	AllFines(ctx context.Context, actor domain.Actor, status *domain.FineStatus) ([]domain.Fine, error)
}

// CreateBookInput carries the catalog fields for a new book.
type CreateBookInput struct {
	Title           string
	Author          string
	ISBN            string
	Genre           string
	PublicationDate *time.Time
	TotalCopies     int32
}

// UpdateBookInput patches catalog fields; nil fields stay untouched.
// TotalCopies triggers the copy-count resize rules.
type UpdateBookInput struct {
	Title           *string
	Author          *string
	ISBN            *string
	Genre           *string
	PublicationDate *time.Time
	TotalCopies     *int32
}

type BookService interface {
	AddBook(ctx context.Context, actor domain.Actor, input CreateBookInput) (*domain.Book, error)
	GetBook(ctx context.Context, id int32) (*domain.Book, error)
	SearchBooks(ctx context.Context, title, author, isbn, genre string, page, pageSize int32) ([]domain.Book, int32, error)
	UpdateBook(ctx context.Context, actor domain.Actor, id int32, input UpdateBookInput) (*domain.Book, error)
	DeleteBook(ctx context.Context, actor domain.Actor, id int32) error
}

type AuthService interface {
	Signup(ctx context.Context, username, email, fullName, password string) (*domain.User, string, string, error) // user, access, refresh
	Login(ctx context.Context, username, password string) (*domain.User, string, string, error)
	Refresh(ctx context.Context, refreshToken string) (string, string, error)
}

type UserService interface {
	GetProfile(ctx context.Context, actor domain.Actor) (*domain.User, error)
	UpdateProfile(ctx context.Context, actor domain.Actor, email, fullName string) (*domain.User, error)
	ListUsers(ctx context.Context, actor domain.Actor, page, pageSize int32) ([]domain.User, int32, error)
}

type ReportService interface {
	TopBorrowedBooks(ctx context.Context, actor domain.Actor, page, pageSize int32) ([]domain.BookBorrowCount, int32, error)
	UserActivityReport(ctx context.Context, actor domain.Actor, page, pageSize int32) ([]domain.UserActivity, int32, error)
}
