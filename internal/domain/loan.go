package domain

import "time"

// Loan is a borrowing record. It is created on a successful borrow, mutated
// exactly once on return to set ReturnDate, and never deleted.
type Loan struct {
	ID         int32      `json:"id"`
	BookID     int32      `json:"book_id"`
	UserID     int32      `json:"user_id"`
	BorrowDate time.Time  `json:"borrow_date"`
	DueDate    time.Time  `json:"due_date"`
	ReturnDate *time.Time `json:"return_date,omitempty"`
}

// Active reports whether the loan has not been returned yet.
func (l *Loan) Active() bool {
	return l.ReturnDate == nil
}

// Overdue reports whether the loan is active and past its due date as of the
// given instant.
func (l *Loan) Overdue(asOf time.Time) bool {
	return l.Active() && l.DueDate.Before(asOf)
}

// BookBorrowCount is a report row: how often a book has been borrowed.
type BookBorrowCount struct {
	BookID      int32  `json:"book_id"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	BorrowCount int64  `json:"borrow_count"`
}

// UserActivity is a report row: a user's total and currently active loans.
type UserActivity struct {
	UserID      int32  `json:"user_id"`
	Username    string `json:"username"`
	FullName    string `json:"full_name"`
	TotalLoans  int64  `json:"total_loans"`
	ActiveLoans int64  `json:"active_loans"`
}
