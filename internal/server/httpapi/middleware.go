package httpapi

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/opsdeck/opsdeck/internal/logging"
	"github.com/opsdeck/opsdeck/internal/server/auth"
	"github.com/opsdeck/opsdeck/internal/server/models"
)

type contextKey string

const (
	currentUserKey contextKey = "currentUser"
	requestIDKey   contextKey = "requestID"
)

// RequestID tags every request with a generated id, exposed both in the
// context and the X-Request-Id response header.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-Id", id)
		ctx := context.WithValue(r.Context(), requestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestIDFromContext returns the id set by RequestID, if any.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// RequestLogger logs one line per request with method, path, status and
// duration.
func RequestLogger(logger logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			logger.Info(r.Context(), "request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration", time.Since(start).String(),
				"request_id", RequestIDFromContext(r.Context()),
			)
		})
	}
}

// UserLoader resolves the account an access token was minted for.
type UserLoader interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// BearerAuth validates the Authorization header, loads the account, and
// stores it in the request context. Missing or bad tokens yield 401;
// disabled accounts yield 400 like the rest of the inactive-user checks.
func BearerAuth(secret []byte, users UserLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				writeDetail(w, http.StatusUnauthorized, "not authenticated")
				return
			}
			token, found := strings.CutPrefix(header, "Bearer ")
			if !found || token == "" {
				writeDetail(w, http.StatusUnauthorized, "invalid authorization header")
				return
			}

			userID, err := auth.ParseAccessToken(token, secret)
			if err != nil {
				writeDetail(w, http.StatusUnauthorized, "could not validate credentials")
				return
			}

			user, err := users.GetByID(r.Context(), userID)
			if err != nil {
				writeDetail(w, http.StatusUnauthorized, "could not validate credentials")
				return
			}
			if !user.IsActive {
				writeDetail(w, http.StatusBadRequest, "inactive user")
				return
			}

			ctx := context.WithValue(r.Context(), currentUserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CurrentUser returns the account stored by BearerAuth.
func CurrentUser(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(currentUserKey).(*models.User)
	return u, ok
}

// RequireSuperuser rejects non-privileged accounts with 403.
func RequireSuperuser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := CurrentUser(r.Context())
		if !ok || !user.IsSuperuser {
			writeDetail(w, http.StatusForbidden, "the user doesn't have enough privileges")
			return
		}
		next.ServeHTTP(w, r)
	})
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type ipRateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rps      rate.Limit
	burst    int
}

func newIPRateLimiter(rps float64, burst int) *ipRateLimiter {
	rl := &ipRateLimiter{
		visitors: make(map[string]*visitor),
		rps:      rate.Limit(rps),
		burst:    burst,
	}
	go rl.cleanup()
	return rl
}

func (rl *ipRateLimiter) getLimiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[ip]
	if !exists {
		limiter := rate.NewLimiter(rl.rps, rl.burst)
		rl.visitors[ip] = &visitor{limiter: limiter, lastSeen: time.Now()}
		return limiter
	}

	v.lastSeen = time.Now()
	return v.limiter
}

func (rl *ipRateLimiter) cleanup() {
	for {
		time.Sleep(10 * time.Minute)
		rl.mu.Lock()
		for ip, v := range rl.visitors {
			if time.Since(v.lastSeen) > 10*time.Minute {
				delete(rl.visitors, ip)
			}
		}
		rl.mu.Unlock()
	}
}

// RateLimit limits requests per client IP. Used on the unauthenticated
// credential endpoints to slow down guessing.
func RateLimit(rps float64, burst int) func(http.Handler) http.Handler {
	limiter := newIPRateLimiter(rps, burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}

			if !limiter.getLimiter(ip).Allow() {
				writeDetail(w, http.StatusTooManyRequests, "too many requests")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
