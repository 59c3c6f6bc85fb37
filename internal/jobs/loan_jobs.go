package jobs

import (
	"context"
	"time"

	"library-backend/internal/logger"
)

// ReportOverdueLoans logs every loan that is past its due date and still out.
// The fine itself is assessed at return time; this job gives librarians a
// daily picture of what is outstanding.
func (jr *JobRunner) ReportOverdueLoans() {
	jr.runWithRecovery("ReportOverdueLoans", func() {
		ctx := context.Background()

		loans, err := jr.store.Loans.ListOverdue(ctx, time.Now())
		if err != nil {
			logger.Error("Failed to list overdue loans", "error", err)
			return
		}

		logger.Info("Overdue loans report", "count", len(loans))
		for _, loan := range loans {
			logger.Debug("Overdue loan",
				"loan_id", loan.ID,
				"book_id", loan.BookID,
				"user_id", loan.UserID,
				"due_date", loan.DueDate.Format("2006-01-02"))
		}
	})
}
