package domain

import "time"

// Book is the catalog entry that owns the copy counters. The counters obey
// 0 <= available_copies <= total_copies on every mutation; the repository
// enforces this with conditional updates so concurrent borrows cannot drive
// the available count negative.
type Book struct {
	ID              int32      `json:"id"`
	Title           string     `json:"title"`
	Author          string     `json:"author"`
	ISBN            string     `json:"isbn"`
	PublicationDate *time.Time `json:"publication_date,omitempty"`
	Genre           string     `json:"genre"`
	TotalCopies     int32      `json:"total_copies"`
	AvailableCopies int32      `json:"available_copies"`
	CreatedOn       time.Time  `json:"created_on"`
	UpdatedOn       time.Time  `json:"updated_on"`
}

// BorrowedCopies is the number of copies currently out on loan.
func (b *Book) BorrowedCopies() int32 {
	return b.TotalCopies - b.AvailableCopies
}
