package domain

import "time"

type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "PENDING"
	ReservationStatusAvailable ReservationStatus = "AVAILABLE"
	ReservationStatusFulfilled ReservationStatus = "FULFILLED"
	ReservationStatusExpired   ReservationStatus = "EXPIRED"
	ReservationStatusCanceled  ReservationStatus = "CANCELED"
)

// Reservation is a waiting-list entry for a book with no free copies.
//
// State machine:
//
//	PENDING   --promote (oldest first, one per freed copy)--> AVAILABLE
//	AVAILABLE --holder borrows the book-------------------->  FULFILLED
//	AVAILABLE --hold window elapses------------------------>  EXPIRED
//	PENDING | AVAILABLE --owner or librarian cancels------->  CANCELED
//
// FULFILLED, EXPIRED and CANCELED are terminal. ExpirationTime is set only
// while the reservation is AVAILABLE.
type Reservation struct {
	ID              int32             `json:"id"`
	BookID          int32             `json:"book_id"`
	UserID          int32             `json:"user_id"`
	ReservationTime time.Time         `json:"reservation_time"`
	Status          ReservationStatus `json:"status"`
	ExpirationTime  *time.Time        `json:"expiration_time,omitempty"`
}

// ActiveReservation reports whether the reservation still occupies the
// per-(book,user) uniqueness slot.
func (r *Reservation) ActiveReservation() bool {
	return r.Status == ReservationStatusPending || r.Status == ReservationStatusAvailable
}
