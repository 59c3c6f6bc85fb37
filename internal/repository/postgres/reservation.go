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

type reservationRepository struct {
	db DBTX
}

func NewReservationRepository(db DBTX) repository.ReservationRepository {
	return &reservationRepository{db: db}
}

const reservationColumns = `id, book_id, user_id, reservation_time, status, expiration_time`

func (r *reservationRepository) Create(ctx context.Context, res *domain.Reservation) error {
	query := `INSERT INTO reservations (book_id, user_id, reservation_time, status, expiration_time)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id`
	return r.db.QueryRowContext(ctx, query, res.BookID, res.UserID, res.ReservationTime, res.Status, res.ExpirationTime).Scan(&res.ID)
}

func (r *reservationRepository) GetByID(ctx context.Context, id int32) (*domain.Reservation, error) {
	res := &domain.Reservation{}
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&res.ID, &res.BookID, &res.UserID, &res.ReservationTime, &res.Status, &res.ExpirationTime)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: reservation %d", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (r *reservationRepository) ExistsActive(ctx context.Context, bookID, userID int32) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM reservations WHERE book_id = $1 AND user_id = $2 AND status IN ('PENDING', 'AVAILABLE'))`
	err := r.db.QueryRowContext(ctx, query, bookID, userID).Scan(&exists)
	return exists, err
}

func (r *reservationRepository) UpdateStatus(ctx context.Context, id int32, status domain.ReservationStatus) error {
	query := `UPDATE reservations SET status = $2 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, status)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: reservation %d", domain.ErrNotFound, id)
	}
	return nil
}

// PromoteNext selects and promotes the head of the book's FIFO queue in one
// statement. SKIP LOCKED keeps a concurrent return and expiry sweep from
// promoting the same waiter twice.
func (r *reservationRepository) PromoteNext(ctx context.Context, bookID int32, expiresAt time.Time) (*domain.Reservation, error) {
	query := `UPDATE reservations SET status = 'AVAILABLE', expiration_time = $2
	          WHERE id = (
	              SELECT id FROM reservations
	              WHERE book_id = $1 AND status = 'PENDING'
	              ORDER BY reservation_time, id
	              LIMIT 1
	              FOR UPDATE SKIP LOCKED
	          )
	          RETURNING ` + reservationColumns
	res := &domain.Reservation{}
	err := r.db.QueryRowContext(ctx, query, bookID, expiresAt).Scan(&res.ID, &res.BookID, &res.UserID, &res.ReservationTime, &res.Status, &res.ExpirationTime)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // empty queue, nothing to promote
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (r *reservationRepository) FulfillForUser(ctx context.Context, bookID, userID int32) (bool, error) {
	query := `UPDATE reservations SET status = 'FULFILLED', expiration_time = NULL
	          WHERE book_id = $1 AND user_id = $2 AND status = 'AVAILABLE'`
	res, err := r.db.ExecContext(ctx, query, bookID, userID)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *reservationRepository) MarkExpired(ctx context.Context, id int32, asOf time.Time) (bool, error) {
	query := `UPDATE reservations SET status = 'EXPIRED'
	          WHERE id = $1 AND status = 'AVAILABLE' AND expiration_time < $2`
	res, err := r.db.ExecContext(ctx, query, id, asOf)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *reservationRepository) ListActiveByUser(ctx context.Context, userID int32) ([]domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations
	          WHERE user_id = $1 AND status IN ('PENDING', 'AVAILABLE')
	          ORDER BY reservation_time, id`
	return r.queryReservations(ctx, query, userID)
}

func (r *reservationRepository) ListPendingByBook(ctx context.Context, bookID int32) ([]domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations
	          WHERE book_id = $1 AND status = 'PENDING'
	          ORDER BY reservation_time, id`
	return r.queryReservations(ctx, query, bookID)
}

func (r *reservationRepository) ListActive(ctx context.Context) ([]domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations
	          WHERE status IN ('PENDING', 'AVAILABLE')
	          ORDER BY reservation_time, id`
	return r.queryReservations(ctx, query)
}

func (r *reservationRepository) ListExpiredHolds(ctx context.Context, asOf time.Time) ([]domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations
	          WHERE status = 'AVAILABLE' AND expiration_time < $1
	          ORDER BY expiration_time, id`
	return r.queryReservations(ctx, query, asOf)
}

func (r *reservationRepository) queryReservations(ctx context.Context, query string, args ...interface{}) ([]domain.Reservation, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reservations []domain.Reservation
	for rows.Next() {
		var res domain.Reservation
		if err := rows.Scan(&res.ID, &res.BookID, &res.UserID, &res.ReservationTime, &res.Status, &res.ExpirationTime); err != nil {
			return nil, err
		}
		reservations = append(reservations, res)
	}
	return reservations, rows.Err()
}
