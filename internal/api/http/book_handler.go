package http

import (
	"net/http"
	"time"

	"library-backend/internal/service"
)

type BookHandler struct {
	books service.BookService
}

func NewBookHandler(books service.BookService) *BookHandler {
	return &BookHandler{books: books}
}

type createBookRequest struct {
	Title           string     `json:"title"`
	Author          string     `json:"author"`
	ISBN            string     `json:"isbn"`
	Genre           string     `json:"genre"`
	PublicationDate *time.Time `json:"publication_date"`
	TotalCopies     int32      `json:"total_copies"`
}

type updateBookRequest struct {
	Title           *string    `json:"title"`
	Author          *string    `json:"author"`
	ISBN            *string    `json:"isbn"`
	Genre           *string    `json:"genre"`
	PublicationDate *time.Time `json:"publication_date"`
	TotalCopies     *int32     `json:"total_copies"`
}

func (h *BookHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, err := ActorFromContext(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	var req createBookRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}

	book, err := h.books.AddBook(r.Context(), actor, service.CreateBookInput{
		Title:           req.Title,
		Author:          req.Author,
		ISBN:            req.ISBN,
		Genre:           req.Genre,
		PublicationDate: req.PublicationDate,
		TotalCopies:     req.TotalCopies,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, book)
}

func (h *BookHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	book, err := h.books.GetBook(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, book)
}

func (h *BookHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, pageSize := queryPage(r)

	books, total, err := h.books.SearchBooks(r.Context(),
		q.Get("title"), q.Get("author"), q.Get("isbn"), q.Get("genre"), page, pageSize)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, pagedResponse{Items: books, TotalCount: total, Page: page, PageSize: pageSize})
}

func (h *BookHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, err := ActorFromContext(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	var req updateBookRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, err)
		return
	}

	book, err := h.books.UpdateBook(r.Context(), actor, id, service.UpdateBookInput{
		Title:           req.Title,
		Author:          req.Author,
		ISBN:            req.ISBN,
		Genre:           req.Genre,
		PublicationDate: req.PublicationDate,
		TotalCopies:     req.TotalCopies,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, book)
}

func (h *BookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, err := ActorFromContext(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.books.DeleteBook(r.Context(), actor, id); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
