package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"library-backend/internal/domain"
	"library-backend/internal/repository"
)

type loanRepository struct {
	db DBTX
}

func NewLoanRepository(db DBTX) repository.LoanRepository {
	return &loanRepository{db: db}
}

func (r *loanRepository) Create(ctx context.Context, l *domain.Loan) error {
	query := `INSERT INTO loans (book_id, user_id, borrow_date, due_date, return_date)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id`
	return r.db.QueryRowContext(ctx, query, l.BookID, l.UserID, l.BorrowDate, l.DueDate, l.ReturnDate).Scan(&l.ID)
}

func (r *loanRepository) GetByID(ctx context.Context, id int32) (*domain.Loan, error) {
	l := &domain.Loan{}
	query := `SELECT id, book_id, user_id, borrow_date, due_date, return_date FROM loans WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&l.ID, &l.BookID, &l.UserID, &l.BorrowDate, &l.DueDate, &l.ReturnDate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: loan %d", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (r *loanRepository) SetReturned(ctx context.Context, loanID int32, returnedOn time.Time) error {
	query := `UPDATE loans SET return_date = $2 WHERE id = $1 AND return_date IS NULL`
	res, err := r.db.ExecContext(ctx, query, loanID, returnedOn)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: loan %d is already closed", domain.ErrInvalidState, loanID)
	}
	return nil
}

func (r *loanRepository) ExistsActive(ctx context.Context, bookID, userID int32) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM loans WHERE book_id = $1 AND user_id = $2 AND return_date IS NULL)`
	err := r.db.QueryRowContext(ctx, query, bookID, userID).Scan(&exists)
	return exists, err
}

func (r *loanRepository) ExistsActiveForBook(ctx context.Context, bookID int32) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM loans WHERE book_id = $1 AND return_date IS NULL)`
	err := r.db.QueryRowContext(ctx, query, bookID).Scan(&exists)
	return exists, err
}

func (r *loanRepository) ListByUser(ctx context.Context, userID int32) ([]domain.Loan, error) {
	query := `SELECT id, book_id, user_id, borrow_date, due_date, return_date
	          FROM loans WHERE user_id = $1 ORDER BY borrow_date DESC, id DESC`
	return r.queryLoans(ctx, query, userID)
}

func (r *loanRepository) ListAll(ctx context.Context) ([]domain.Loan, error) {
	query := `SELECT id, book_id, user_id, borrow_date, due_date, return_date
	          FROM loans ORDER BY borrow_date DESC, id DESC`
	return r.queryLoans(ctx, query)
}

func (r *loanRepository) ListOverdue(ctx context.Context, asOf time.Time) ([]domain.Loan, error) {
	query := `SELECT id, book_id, user_id, borrow_date, due_date, return_date
	          FROM loans WHERE return_date IS NULL AND due_date < $1 ORDER BY due_date`
	return r.queryLoans(ctx, query, asOf)
}

func (r *loanRepository) CountByUser(ctx context.Context, userID int32) (int64, int64, error) {
	var total, active int64
	query := `SELECT count(*), count(*) FILTER (WHERE return_date IS NULL) FROM loans WHERE user_id = $1`
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&total, &active)
	return total, active, err
}

func (r *loanRepository) TopBorrowedBooks(ctx context.Context, page, pageSize int32) ([]domain.BookBorrowCount, int32, error) {
	var count int32
	countQuery := `SELECT count(DISTINCT book_id) FROM loans`
	if err := r.db.QueryRowContext(ctx, countQuery).Scan(&count); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	query := `SELECT l.book_id, b.title, b.author, count(*) AS borrow_count
	          FROM loans l JOIN books b ON b.id = l.book_id
	          GROUP BY l.book_id, b.title, b.author
	          ORDER BY borrow_count DESC, b.title
	          LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []domain.BookBorrowCount
	for rows.Next() {
		var row domain.BookBorrowCount
		if err := rows.Scan(&row.BookID, &row.Title, &row.Author, &row.BorrowCount); err != nil {
			return nil, 0, err
		}
		result = append(result, row)
	}
	return result, count, rows.Err()
}

func (r *loanRepository) queryLoans(ctx context.Context, query string, args ...interface{}) ([]domain.Loan, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var loans []domain.Loan
	for rows.Next() {
		var l domain.Loan
		if err := rows.Scan(&l.ID, &l.BookID, &l.UserID, &l.BorrowDate, &l.DueDate, &l.ReturnDate); err != nil {
			return nil, err
		}
		loans = append(loans, l)
	}
	return loans, rows.Err()
}
