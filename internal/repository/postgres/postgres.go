package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"library-backend/internal/repository"

	_ "github.com/lib/pq"
)

// DBTX is the subset of database/sql shared by *sql.DB and *sql.Tx, so every
// repository can run either on the pool or inside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type Store struct {
	db *sql.DB
	repository.Stores
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:     db,
		Stores: newStores(db),
	}
}

func newStores(db DBTX) repository.Stores {
	return repository.Stores{
		Users:        NewUserRepository(db),
		Books:        NewBookRepository(db),
		Loans:        NewLoanRepository(db),
		Reservations: NewReservationRepository(db),
		Fines:        NewFineRepository(db),
	}
}

// WithinTx implements repository.Transactor. fn gets Stores bound to a single
// transaction; any error rolls everything back.
func (s *Store) WithinTx(ctx context.Context, fn func(repository.Stores) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(newStores(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	return tx.Commit()
}
