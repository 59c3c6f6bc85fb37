package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"golang.org/x/time/rate"

	"library-backend/internal/security"
)

// Handlers bundles every request handler the router mounts.
type Handlers struct {
	Auth         *AuthHandler
	Books        *BookHandler
	Lending      *LendingHandler
	Reservations *ReservationHandler
	Fines        *FineHandler
	Users        *UserHandler
	Reports      *ReportHandler
}

// NewRouter mounts all routes. Auth endpoints and the catalog read side are
// public; everything else requires a valid access token.
func NewRouter(h Handlers, tokens security.TokenManager) http.Handler {
	r := mux.NewRouter()
	r.Use(LoggingMiddleware)
	r.Use(RateLimitMiddleware(rate.Limit(20), 40))

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/auth/signup", h.Auth.Signup).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", h.Auth.Login).Methods(http.MethodPost)
	api.HandleFunc("/auth/refresh", h.Auth.Refresh).Methods(http.MethodPost)

	api.HandleFunc("/books", h.Books.Search).Methods(http.MethodGet)
	api.HandleFunc("/books/{id:[0-9]+}", h.Books.Get).Methods(http.MethodGet)

	auth := api.NewRoute().Subrouter()
	auth.Use(AuthMiddleware(tokens))

	auth.HandleFunc("/books", h.Books.Create).Methods(http.MethodPost)
	auth.HandleFunc("/books/{id:[0-9]+}", h.Books.Update).Methods(http.MethodPut)
	auth.HandleFunc("/books/{id:[0-9]+}", h.Books.Delete).Methods(http.MethodDelete)
	auth.HandleFunc("/books/{id:[0-9]+}/reservations", h.Reservations.PendingForBook).Methods(http.MethodGet)

	auth.HandleFunc("/loans", h.Lending.Borrow).Methods(http.MethodPost)
	auth.HandleFunc("/loans/{id:[0-9]+}/return", h.Lending.Return).Methods(http.MethodPost)
	auth.HandleFunc("/loans/me", h.Lending.MyHistory).Methods(http.MethodGet)
	auth.HandleFunc("/loans", h.Lending.AllHistory).Methods(http.MethodGet)
	auth.HandleFunc("/loans/overdue", h.Lending.Overdue).Methods(http.MethodGet)
	auth.HandleFunc("/users/{id:[0-9]+}/loans", h.Lending.UserHistory).Methods(http.MethodGet)

	auth.HandleFunc("/reservations", h.Reservations.Reserve).Methods(http.MethodPost)
	auth.HandleFunc("/reservations/{id:[0-9]+}", h.Reservations.Cancel).Methods(http.MethodDelete)
	auth.HandleFunc("/reservations/me", h.Reservations.Mine).Methods(http.MethodGet)
	auth.HandleFunc("/reservations", h.Reservations.AllActive).Methods(http.MethodGet)

	auth.HandleFunc("/fines/{id:[0-9]+}/pay", h.Fines.Pay).Methods(http.MethodPost)
	auth.HandleFunc("/fines/{id:[0-9]+}/waive", h.Fines.Waive).Methods(http.MethodPost)
	auth.HandleFunc("/fines/me", h.Fines.Mine).Methods(http.MethodGet)
	auth.HandleFunc("/fines", h.Fines.All).Methods(http.MethodGet)
	auth.HandleFunc("/users/{id:[0-9]+}/fines", h.Fines.ForUser).Methods(http.MethodGet)

	auth.HandleFunc("/users/me", h.Users.Me).Methods(http.MethodGet)
	auth.HandleFunc("/users/me", h.Users.UpdateMe).Methods(http.MethodPut)
	auth.HandleFunc("/users", h.Users.List).Methods(http.MethodGet)

	auth.HandleFunc("/reports/top-books", h.Reports.TopBorrowedBooks).Methods(http.MethodGet)
	auth.HandleFunc("/reports/user-activity", h.Reports.UserActivity).Methods(http.MethodGet)

	return r
}
