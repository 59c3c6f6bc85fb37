package service

import (
	"context"
	"fmt"
	"time"

	"library-backend/internal/config"
	"library-backend/internal/domain"
	"library-backend/internal/logger"
	"library-backend/internal/repository"
)

type reservationService struct {
	tx           repository.Transactor
	reservations repository.ReservationRepository
	books        repository.BookRepository
	cfg          config.LendingConfig
}

func NewReservationService(
	tx repository.Transactor,
	reservations repository.ReservationRepository,
	books repository.BookRepository,
	cfg config.LendingConfig,
) ReservationService {
	return &reservationService{
		tx:           tx,
		reservations: reservations,
		books:        books,
		cfg:          cfg,
	}
}

func (s *reservationService) Reserve(ctx context.Context, actor domain.Actor, bookID int32) (*domain.Reservation, error) {
	var reservation *domain.Reservation
	err := s.tx.WithinTx(ctx, func(st repository.Stores) error {
		book, err := st.Books.GetByID(ctx, bookID)
		if err != nil {
			return err
		}
		if book.AvailableCopies > 0 {
			return fmt.Errorf("%w: book %q has free copies, borrow it instead of reserving", domain.ErrUnavailable, book.Title)
		}

		active, err := st.Reservations.ExistsActive(ctx, bookID, actor.UserID)
		if err != nil {
			return err
		}
		if active {
			return fmt.Errorf("%w: user %d already has an active reservation for book %d", domain.ErrConflict, actor.UserID, bookID)
		}

		reservation = &domain.Reservation{
			BookID:          bookID,
			UserID:          actor.UserID,
			ReservationTime: time.Now(),
			Status:          domain.ReservationStatusPending,
		}
		if err := st.Reservations.Create(ctx, reservation); err != nil {
			return err
		}

		logger.Info("Reservation created", "reservation_id", reservation.ID, "book_id", bookID, "user_id", actor.UserID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reservation, nil
}

func (s *reservationService) Cancel(ctx context.Context, actor domain.Actor, reservationID int32) error {
	return s.tx.WithinTx(ctx, func(st repository.Stores) error {
		reservation, err := st.Reservations.GetByID(ctx, reservationID)
		if err != nil {
			return err
		}
		if !actor.IsLibrarian() && reservation.UserID != actor.UserID {
			return fmt.Errorf("%w: reservation %d belongs to another user", domain.ErrForbidden, reservationID)
		}
		if !reservation.ActiveReservation() {
			return fmt.Errorf("%w: only PENDING or AVAILABLE reservations can be canceled, current status %s", domain.ErrInvalidState, reservation.Status)
		}

		if err := st.Reservations.UpdateStatus(ctx, reservationID, domain.ReservationStatusCanceled); err != nil {
			return err
		}
		logger.Info("Reservation canceled", "reservation_id", reservationID, "by_user", actor.UserID)

		// Giving up a held copy hands the hold to the next waiter.
		if reservation.Status == domain.ReservationStatusAvailable {
			promoted, err := st.Reservations.PromoteNext(ctx, reservation.BookID, time.Now().Add(s.holdDuration()))
			if err != nil {
				return err
			}
			if promoted != nil {
				logger.Info("Reservation promoted after cancel", "reservation_id", promoted.ID, "book_id", reservation.BookID, "user_id", promoted.UserID)
			}
		}
		return nil
	})
}

func (s *reservationService) MyActiveReservations(ctx context.Context, actor domain.Actor) ([]domain.Reservation, error) {
	return s.reservations.ListActiveByUser(ctx, actor.UserID)
}

func (s *reservationService) PendingForBook(ctx context.Context, actor domain.Actor, bookID int32) ([]domain.Reservation, error) {
	if err := requireLibrarian(actor); err != nil {
		return nil, err
	}
	if _, err := s.books.GetByID(ctx, bookID); err != nil {
		return nil, err
	}
	return s.reservations.ListPendingByBook(ctx, bookID)
}

func (s *reservationService) AllActive(ctx context.Context, actor domain.Actor) ([]domain.Reservation, error) {
	if err := requireLibrarian(actor); err != nil {
		return nil, err
	}
	return s.reservations.ListActive(ctx)
}

func (s *reservationService) ExpireStale(ctx context.Context) (int, error) {
	now := time.Now()
	stale, err := s.reservations.ListExpiredHolds(ctx, now)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, candidate := range stale {
		// One transaction per reservation keeps each book's cascade
		// independent; MarkExpired re-checks the status so a borrow that
		// fulfilled the hold in the meantime is left alone.
		err := s.tx.WithinTx(ctx, func(st repository.Stores) error {
			ok, err := st.Reservations.MarkExpired(ctx, candidate.ID, now)
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
			expired++
			logger.Warn("Reservation hold expired", "reservation_id", candidate.ID, "book_id", candidate.BookID, "user_id", candidate.UserID)

			promoted, err := st.Reservations.PromoteNext(ctx, candidate.BookID, now.Add(s.holdDuration()))
			if err != nil {
				return err
			}
			if promoted != nil {
				logger.Info("Reservation promoted after expiry", "reservation_id", promoted.ID, "book_id", candidate.BookID, "user_id", promoted.UserID)
			}
			return nil
		})
		if err != nil {
			logger.Error("Failed to expire reservation", "reservation_id", candidate.ID, "error", err)
			// keep sweeping the rest
		}
	}
	return expired, nil
}

func (s *reservationService) holdDuration() time.Duration {
	return time.Duration(s.cfg.HoldDurationHours) * time.Hour
}
