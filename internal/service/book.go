package service

import (
	"context"
	"fmt"

	"library-backend/internal/domain"
	"library-backend/internal/logger"
	"library-backend/internal/repository"
)

type bookService struct {
	tx    repository.Transactor
	books repository.BookRepository
	loans repository.LoanRepository
}

func NewBookService(tx repository.Transactor, books repository.BookRepository, loans repository.LoanRepository) BookService {
	return &bookService{tx: tx, books: books, loans: loans}
}

func (s *bookService) AddBook(ctx context.Context, actor domain.Actor, input CreateBookInput) (*domain.Book, error) {
	if err := requireLibrarian(actor); err != nil {
		return nil, err
	}
	if input.TotalCopies < 0 {
		return nil, fmt.Errorf("%w: total copies cannot be negative", domain.ErrInvalidArgument)
	}

	exists, err := s.books.ExistsByISBN(ctx, input.ISBN)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: book with ISBN %s already exists", domain.ErrConflict, input.ISBN)
	}

	book := &domain.Book{
		Title:           input.Title,
		Author:          input.Author,
		ISBN:            input.ISBN,
		Genre:           input.Genre,
		PublicationDate: input.PublicationDate,
		TotalCopies:     input.TotalCopies,
		AvailableCopies: input.TotalCopies,
	}
	if err := s.books.Create(ctx, book); err != nil {
		return nil, err
	}
	logger.Info("Book added", "book_id", book.ID, "title", book.Title, "total_copies", book.TotalCopies)
	return book, nil
}

func (s *bookService) GetBook(ctx context.Context, id int32) (*domain.Book, error) {
	return s.books.GetByID(ctx, id)
}

func (s *bookService) SearchBooks(ctx context.Context, title, author, isbn, genre string, page, pageSize int32) ([]domain.Book, int32, error) {
	page, pageSize = normalizePage(page, pageSize)
	return s.books.Search(ctx, title, author, isbn, genre, page, pageSize)
}

func (s *bookService) UpdateBook(ctx context.Context, actor domain.Actor, id int32, input UpdateBookInput) (*domain.Book, error) {
	if err := requireLibrarian(actor); err != nil {
		return nil, err
	}
	if input.TotalCopies != nil && *input.TotalCopies < 0 {
		return nil, fmt.Errorf("%w: total copies cannot be negative", domain.ErrInvalidArgument)
	}

	var updated *domain.Book
	err := s.tx.WithinTx(ctx, func(st repository.Stores) error {
		book, err := st.Books.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if input.ISBN != nil && *input.ISBN != book.ISBN {
			exists, err := st.Books.ExistsByISBN(ctx, *input.ISBN)
			if err != nil {
				return err
			}
			if exists {
				return fmt.Errorf("%w: another book with ISBN %s already exists", domain.ErrConflict, *input.ISBN)
			}
			book.ISBN = *input.ISBN
		}
		if input.Title != nil {
			book.Title = *input.Title
		}
		if input.Author != nil {
			book.Author = *input.Author
		}
		if input.Genre != nil {
			book.Genre = *input.Genre
		}
		if input.PublicationDate != nil {
			book.PublicationDate = input.PublicationDate
		}
		if err := st.Books.Update(ctx, book); err != nil {
			return err
		}

		if input.TotalCopies != nil && *input.TotalCopies != book.TotalCopies {
			// Resize refuses totals below the copies currently on loan and
			// caps available at the new total, atomically.
			if err := st.Books.Resize(ctx, id, *input.TotalCopies); err != nil {
				return err
			}
		}

		updated, err = st.Books.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	logger.Info("Book updated", "book_id", id, "title", updated.Title)
	return updated, nil
}

func (s *bookService) DeleteBook(ctx context.Context, actor domain.Actor, id int32) error {
	if err := requireLibrarian(actor); err != nil {
		return err
	}

	return s.tx.WithinTx(ctx, func(st repository.Stores) error {
		book, err := st.Books.GetByID(ctx, id)
		if err != nil {
			return err
		}

		borrowed, err := st.Loans.ExistsActiveForBook(ctx, id)
		if err != nil {
			return err
		}
		if borrowed {
			return fmt.Errorf("%w: book %q is currently borrowed and cannot be deleted", domain.ErrConflict, book.Title)
		}

		if err := st.Books.Delete(ctx, id); err != nil {
			return err
		}
		logger.Info("Book deleted", "book_id", id, "title", book.Title)
		return nil
	})
}
