package jobs

import (
	"context"

	"library-backend/internal/logger"
)

// ExpireReservations sweeps AVAILABLE reservations whose hold window has
// elapsed, expiring each and promoting the next waiter for its book.
func (jr *JobRunner) ExpireReservations() {
	jr.runWithRecovery("ExpireReservations", func() {
		ctx := context.Background()

		expired, err := jr.services.Reservation.ExpireStale(ctx)
		if err != nil {
			logger.Error("Failed to expire stale reservations", "error", err)
			return
		}
		logger.Info("Expired stale reservations", "count", expired)
	})
}
