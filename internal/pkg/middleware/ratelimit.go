package middleware

import (
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"gostockflow/internal/domain"
	"gostockflow/internal/pkg/cache"
	"gostockflow/internal/pkg/logger"
	"gostockflow/internal/pkg/metrics"
)

// RateLimiter aplica uma janela fixa por IP usando contadores no Redis.
// Se o Redis falhar a requisição segue (fail-open) e o erro é logado.
func RateLimiter(client cache.Client, limit int, duration time.Duration, log logger.Logger, m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := "rate-limit:" + clientIP(r)

			count, err := client.IncrWindow(r.Context(), key, duration)
			if err != nil {
				log.Error("Falha ao consultar rate limiter", err)
				next.ServeHTTP(w, r)
				return
			}

			if count > int64(limit) {
				m.RateLimited()
				writeRateLimited(w)
				return
			}

			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(int64(limit)-count, 10))
			next.ServeHTTP(w, r)
		})
	}
}

// MemoryRateLimiter é a alternativa em memória (um único processo), via ulule/limiter.
func MemoryRateLimiter(limit int, duration time.Duration, m *metrics.Metrics) func(http.Handler) http.Handler {
	instance := limiter.New(memory.NewStore(), limiter.Rate{Period: duration, Limit: int64(limit)})
	mw := stdlib.NewMiddleware(instance,
		stdlib.WithLimitReachedHandler(func(w http.ResponseWriter, r *http.Request) {
			m.RateLimited()
			writeRateLimited(w)
		}),
	)
	return mw.Handler
}

func writeRateLimited(w http.ResponseWriter) {
	writeErrorBody(w, http.StatusTooManyRequests, domain.ErrorResponse{
		Code:     http.StatusTooManyRequests,
		Category: "RATE_LIMITED",
		Message:  "Limite de requisições excedido. Tente novamente mais tarde.",
	})
}

func clientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
