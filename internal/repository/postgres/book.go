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

type bookRepository struct {
	db DBTX
}

func NewBookRepository(db DBTX) repository.BookRepository {
	return &bookRepository{db: db}
}

func (r *bookRepository) Create(ctx context.Context, b *domain.Book) error {
	query := `INSERT INTO books (title, author, isbn, publication_date, genre, total_copies, available_copies, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	now := time.Now()
	return r.db.QueryRowContext(ctx, query, b.Title, b.Author, b.ISBN, b.PublicationDate, b.Genre, b.TotalCopies, b.AvailableCopies, now, now).Scan(&b.ID)
}

func (r *bookRepository) GetByID(ctx context.Context, id int32) (*domain.Book, error) {
	b := &domain.Book{}
	query := `SELECT id, title, author, isbn, publication_date, genre, total_copies, available_copies, created_on, updated_on
	          FROM books WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&b.ID, &b.Title, &b.Author, &b.ISBN, &b.PublicationDate, &b.Genre, &b.TotalCopies, &b.AvailableCopies, &b.CreatedOn, &b.UpdatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: book %d", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *bookRepository) ExistsByISBN(ctx context.Context, isbn string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM books WHERE isbn = $1)`
	err := r.db.QueryRowContext(ctx, query, isbn).Scan(&exists)
	return exists, err
}

func (r *bookRepository) Update(ctx context.Context, b *domain.Book) error {
	query := `UPDATE books SET title=$1, author=$2, isbn=$3, publication_date=$4, genre=$5, updated_on=$6 WHERE id=$7`
	_, err := r.db.ExecContext(ctx, query, b.Title, b.Author, b.ISBN, b.PublicationDate, b.Genre, time.Now(), b.ID)
	return err
}

func (r *bookRepository) Delete(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: book %d", domain.ErrNotFound, id)
	}
	return nil
}

func (r *bookRepository) Search(ctx context.Context, title, author, isbn, genre string, page, pageSize int32) ([]domain.Book, int32, error) {
	query := `SELECT id, title, author, isbn, publication_date, genre, total_copies, available_copies, created_on, updated_on
	          FROM books WHERE 1=1`

	args := []interface{}{}
	argIdx := 1
	if title != "" {
		query += fmt.Sprintf(" AND title ILIKE $%d", argIdx)
		args = append(args, "%"+title+"%")
		argIdx++
	}
	if author != "" {
		query += fmt.Sprintf(" AND author ILIKE $%d", argIdx)
		args = append(args, "%"+author+"%")
		argIdx++
	}
	if isbn != "" {
		query += fmt.Sprintf(" AND isbn = $%d", argIdx)
		args = append(args, isbn)
		argIdx++
	}
	if genre != "" {
		query += fmt.Sprintf(" AND genre ILIKE $%d", argIdx)
		args = append(args, "%"+genre+"%")
		argIdx++
	}

	var count int32
	countQuery := "SELECT count(*) FROM (" + query + ") as sub"
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	query += fmt.Sprintf(" ORDER BY title LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var books []domain.Book
	for rows.Next() {
		var b domain.Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.ISBN, &b.PublicationDate, &b.Genre, &b.TotalCopies, &b.AvailableCopies, &b.CreatedOn, &b.UpdatedOn); err != nil {
			return nil, 0, err
		}
		books = append(books, b)
	}
	return books, count, rows.Err()
}

// DecrementAvailable is the check-and-decrement primitive: the WHERE clause
// makes two concurrent borrows of the last copy resolve to exactly one
// success.
func (r *bookRepository) DecrementAvailable(ctx context.Context, bookID int32) error {
	query := `UPDATE books SET available_copies = available_copies - 1, updated_on = $2
	          WHERE id = $1 AND available_copies > 0`
	res, err := r.db.ExecContext(ctx, query, bookID, time.Now())
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: no free copy of book %d", domain.ErrUnavailable, bookID)
	}
	return nil
}

func (r *bookRepository) IncrementAvailable(ctx context.Context, bookID int32) error {
	query := `UPDATE books SET available_copies = available_copies + 1, updated_on = $2
	          WHERE id = $1 AND available_copies < total_copies`
	res, err := r.db.ExecContext(ctx, query, bookID, time.Now())
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		// Either the book vanished or available already equals total. Both
		// indicate a bookkeeping bug, not a caller mistake.
		return fmt.Errorf("%w: increment would exceed total copies for book %d", domain.ErrInvariantViolation, bookID)
	}
	return nil
}

// Resize refuses a total below the copies currently on loan and caps the
// available count at the new total, all in one statement.
func (r *bookRepository) Resize(ctx context.Context, bookID, newTotal int32) error {
	query := `UPDATE books SET total_copies = $2, available_copies = LEAST(available_copies, $2), updated_on = $3
	          WHERE id = $1 AND total_copies - available_copies <= $2`
	res, err := r.db.ExecContext(ctx, query, bookID, newTotal, time.Now())
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: book %d has more copies on loan than requested total %d", domain.ErrConflict, bookID, newTotal)
	}
	return nil
}
