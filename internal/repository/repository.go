package repository

import (
	"context"
	"time"

	"library-backend/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, user *domain.User) error
	List(ctx context.Context, page, pageSize int32) ([]domain.User, int32, error)
}

type BookRepository interface {
	Create(ctx context.Context, book *domain.Book) error
	GetByID(ctx context.Context, id int32) (*domain.Book, error)
	ExistsByISBN(ctx context.Context, isbn string) (bool, error)
	Update(ctx context.Context, book *domain.Book) error
	Delete(ctx context.Context, id int32) error
	Search(ctx context.Context, title, author, isbn, genre string, page, pageSize int32) ([]domain.Book, int32, error)

	// Copy-counter mutations. All three are single conditional statements so
	// concurrent callers serialize on the book row inside the database.
	//
	// DecrementAvailable returns domain.ErrUnavailable when no copy is free,
	// IncrementAvailable returns domain.ErrInvariantViolation when the
	// increment would exceed total_copies, and Resize returns
	// domain.ErrConflict when newTotal is below the copies currently on loan.
	DecrementAvailable(ctx context.Context, bookID int32) error
	IncrementAvailable(ctx context.Context, bookID int32) error
	Resize(ctx context.Context, bookID, newTotal int32) error
}

type LoanRepository interface {
	Create(ctx context.Context, loan *domain.Loan) error
	GetByID(ctx context.Context, id int32) (*domain.Loan, error)
	SetReturned(ctx context.Context, loanID int32, returnedOn time.Time) error
	ExistsActive(ctx context.Context, bookID, userID int32) (bool, error)
	ExistsActiveForBook(ctx context.Context, bookID int32) (bool, error)
	ListByUser(ctx context.Context, userID int32) ([]domain.Loan, error)
	ListAll(ctx context.Context) ([]domain.Loan, error)
	ListOverdue(ctx context.Context, asOf time.Time) ([]domain.Loan, error)
	CountByUser(ctx context.Context, userID int32) (total, active int64, err error)
	TopBorrowedBooks(ctx context.Context, page, pageSize int32) ([]domain.BookBorrowCount, int32, error)
}

type ReservationRepository interface {
	Create(ctx context.Context, res *domain.Reservation) error
	GetByID(ctx context.Context, id int32) (*domain.Reservation, error)
	ExistsActive(ctx context.Context, bookID, userID int32) (bool, error)
	UpdateStatus(ctx context.Context, id int32, status domain.ReservationStatus) error

	// PromoteNext atomically selects the oldest PENDING reservation for the
	// book (FIFO by reservation_time, ties by id) and moves it to AVAILABLE
	// with the given hold expiry. It returns nil when no PENDING reservation
	// exists.
	PromoteNext(ctx context.Context, bookID int32, expiresAt time.Time) (*domain.Reservation, error)

	// FulfillForUser moves the user's AVAILABLE reservation for the book (at
	// most one) to FULFILLED. It reports whether a reservation was fulfilled;
	// absence is not an error because not every borrow is reservation-driven.
	FulfillForUser(ctx context.Context, bookID, userID int32) (bool, error)

	// MarkExpired moves the reservation to EXPIRED only if it is still
	// AVAILABLE with an elapsed hold window, and reports whether it did.
	MarkExpired(ctx context.Context, id int32, asOf time.Time) (bool, error)

	ListActiveByUser(ctx context.Context, userID int32) ([]domain.Reservation, error)
	ListPendingByBook(ctx context.Context, bookID int32) ([]domain.Reservation, error)
	ListActive(ctx context.Context) ([]domain.Reservation, error)
	ListExpiredHolds(ctx context.Context, asOf time.Time) ([]domain.Reservation, error)
}

type FineRepository interface {
	Create(ctx context.Context, fine *domain.Fine) error
	GetByID(ctx context.Context, id int32) (*domain.Fine, error)
	GetByLoanID(ctx context.Context, loanID int32) (*domain.Fine, error)
	Update(ctx context.Context, fine *domain.Fine) error
	ListByUser(ctx context.Context, userID int32) ([]domain.Fine, error)
	ListByUserAndStatus(ctx context.Context, userID int32, status domain.FineStatus) ([]domain.Fine, error)
	ListByStatus(ctx context.Context, status domain.FineStatus) ([]domain.Fine, error)
	ListAll(ctx context.Context) ([]domain.Fine, error)
}

// Stores bundles every repository over one database handle, either the pooled
// connection or a single transaction.
type Stores struct {
	Users        UserRepository
	Books        BookRepository
	Loans        LoanRepository
	Reservations ReservationRepository
	Fines        FineRepository
}

// Transactor runs fn with transaction-scoped Stores. The compound lending
// operations (borrow, return, reserve, cancel, expiry cascade) run inside it
// so inventory counts, loan records and queue state move together or not at
// all.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(Stores) error) error
}
