package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"library-backend/internal/domain"
	"library-backend/internal/repository"
)

type fineRepository struct {
	db DBTX
}

func NewFineRepository(db DBTX) repository.FineRepository {
	return &fineRepository{db: db}
}

const fineColumns = `id, loan_id, user_id, amount_cents, issue_date, paid_date, status`

func (r *fineRepository) Create(ctx context.Context, f *domain.Fine) error {
	query := `INSERT INTO fines (loan_id, user_id, amount_cents, issue_date, paid_date, status)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	return r.db.QueryRowContext(ctx, query, f.LoanID, f.UserID, f.AmountCents, f.IssueDate, f.PaidDate, f.Status).Scan(&f.ID)
}

func (r *fineRepository) GetByID(ctx context.Context, id int32) (*domain.Fine, error) {
	query := `SELECT ` + fineColumns + ` FROM fines WHERE id = $1`
	f, err := r.scanFine(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: fine %d", domain.ErrNotFound, id)
	}
	return f, err
}

func (r *fineRepository) GetByLoanID(ctx context.Context, loanID int32) (*domain.Fine, error) {
	query := `SELECT ` + fineColumns + ` FROM fines WHERE loan_id = $1`
	f, err := r.scanFine(r.db.QueryRowContext(ctx, query, loanID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: no fine for loan %d", domain.ErrNotFound, loanID)
	}
	return f, err
}

func (r *fineRepository) Update(ctx context.Context, f *domain.Fine) error {
	query := `UPDATE fines SET amount_cents=$1, issue_date=$2, paid_date=$3, status=$4 WHERE id=$5`
	_, err := r.db.ExecContext(ctx, query, f.AmountCents, f.IssueDate, f.PaidDate, f.Status, f.ID)
	return err
}

func (r *fineRepository) ListByUser(ctx context.Context, userID int32) ([]domain.Fine, error) {
	query := `SELECT ` + fineColumns + ` FROM fines WHERE user_id = $1 ORDER BY issue_date DESC, id DESC`
	return r.queryFines(ctx, query, userID)
}

func (r *fineRepository) ListByUserAndStatus(ctx context.Context, userID int32, status domain.FineStatus) ([]domain.Fine, error) {
	query := `SELECT ` + fineColumns + ` FROM fines WHERE user_id = $1 AND status = $2 ORDER BY issue_date DESC, id DESC`
	return r.queryFines(ctx, query, userID, status)
}

func (r *fineRepository) ListByStatus(ctx context.Context, status domain.FineStatus) ([]domain.Fine, error) {
	query := `SELECT ` + fineColumns + ` FROM fines WHERE status = $1 ORDER BY issue_date DESC, id DESC`
	return r.queryFines(ctx, query, status)
}

func (r *fineRepository) ListAll(ctx context.Context) ([]domain.Fine, error) {
	query := `SELECT ` + fineColumns + ` FROM fines ORDER BY issue_date DESC, id DESC`
	return r.queryFines(ctx, query)
}

func (r *fineRepository) scanFine(row *sql.Row) (*domain.Fine, error) {
	f := &domain.Fine{}
	if err := row.Scan(&f.ID, &f.LoanID, &f.UserID, &f.AmountCents, &f.IssueDate, &f.PaidDate, &f.Status); err != nil {
		return nil, err
	}
	return f, nil
}

func (r *fineRepository) queryFines(ctx context.Context, query string, args ...interface{}) ([]domain.Fine, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fines []domain.Fine
	for rows.Next() {
		var f domain.Fine
		if err := rows.Scan(&f.ID, &f.LoanID, &f.UserID, &f.AmountCents, &f.IssueDate, &f.PaidDate, &f.Status); err != nil {
			return nil, err
		}
		fines = append(fines, f)
	}
	return fines, rows.Err()
}
