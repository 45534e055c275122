package middleware

import (
	"net"
	"net/http"
	"os"
	"strconv"
	"sync"

	"golang.org/x/time/rate"
)

const (
	defaultRequestsPerSecond = 200 // per client IP
	defaultBurstLimit        = 400
)

type RateLimiter struct {
	limit   rate.Limit
	burst   int
	clients sync.Map
}

// NewRateLimiterFromEnv reads RATE_LIMIT_RPS and RATE_LIMIT_BURST.
func NewRateLimiterFromEnv() *RateLimiter {
	rps := defaultRequestsPerSecond
	if v, err := strconv.Atoi(os.Getenv("RATE_LIMIT_RPS")); err == nil && v > 0 {
		rps = v
	}
	burst := defaultBurstLimit
	if v, err := strconv.Atoi(os.Getenv("RATE_LIMIT_BURST")); err == nil && v > 0 {
		burst = v
	}
	return NewRateLimiter(rate.Limit(rps), burst)
}

func NewRateLimiter(limit rate.Limit, burst int) *RateLimiter {
	return &RateLimiter{limit: limit, burst: burst}
}

func (l *RateLimiter) limiter(ip string) *rate.Limiter {
	limiter, _ := l.clients.LoadOrStore(ip, rate.NewLimiter(l.limit, l.burst))
	return limiter.(*rate.Limiter)
}

func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		if !l.limiter(ip).Allow() {
			http.Error(w, "Too many requests", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func EnableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", os.Getenv("FRONTEND_URL"))
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, JWT-Token, X-Request-ID")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
