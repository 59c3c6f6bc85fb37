package http

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"library-backend/internal/logger"
	"library-backend/internal/security"
)

// AuthMiddleware validates the bearer token on every request and places the
// resulting actor into the request context.
func AuthMiddleware(tokens security.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing authorization header"})
				return
			}
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				respondJSON(w, http.StatusUnauthorized, errorResponse{Error: "authorization header must be a bearer token"})
				return
			}

			claims, err := tokens.ValidateToken(token)
			if err != nil {
				respondJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
				return
			}
			if claims.Type != security.TokenTypeAccess {
				respondJSON(w, http.StatusUnauthorized, errorResponse{Error: security.ErrWrongTokenType.Error()})
				return
			}

			next.ServeHTTP(w, r.WithContext(withActor(r.Context(), claims.Actor())))
		})
	}
}

// RateLimitMiddleware applies a per-client token bucket keyed by remote IP.
// Idle buckets are evicted so the map does not grow without bound.
func RateLimitMiddleware(rps rate.Limit, burst int) func(http.Handler) http.Handler {
	type client struct {
		limiter  *rate.Limiter
		lastSeen time.Time
	}

	var (
		mu      sync.Mutex
		clients = make(map[string]*client)
	)

	go func() {
		for range time.Tick(time.Minute) {
			mu.Lock()
			for ip, c := range clients {
				if time.Since(c.lastSeen) > 3*time.Minute {
					delete(clients, ip)
				}
			}
			mu.Unlock()
		}
	}()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}

			mu.Lock()
			c, found := clients[ip]
			if !found {
				c = &client{limiter: rate.NewLimiter(rps, burst)}
				clients[ip] = c
			}
			c.lastSeen = time.Now()
			allowed := c.limiter.Allow()
			mu.Unlock()

			if !allowed {
				respondJSON(w, http.StatusTooManyRequests, errorResponse{Error: "rate limit exceeded"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// LoggingMiddleware records one line per request with method, path, status and
// latency.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("Request handled",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
