package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// ErrTooManyRequests is returned when a client exceeds its rate limit.
var ErrTooManyRequests = errors.New("Too many requests. Please wait a moment and try again.")

// NewLimiter builds an in-memory limiter from a rate such as "10-M"
// (ten requests per minute).
func NewLimiter(formatted string) (*limiter.Limiter, error) {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, err
	}
	return limiter.New(memory.NewStore(), rate), nil
}

// RateLimit returns an interceptor that limits calls per client IP. Only the
// listed procedures are limited; with none listed every call is. When
// trustForwarded is set the client IP is read from X-Forwarded-For or
// X-Real-IP before falling back to the peer address.
// Store errors let the call through.
func RateLimit(l *limiter.Limiter, trustForwarded bool, procedures ...string) connect.UnaryInterceptorFunc {
	only := make(map[string]bool, len(procedures))
	for _, p := range procedures {
		only[p] = true
	}

	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			procedure := req.Spec().Procedure
			if len(only) > 0 && !only[procedure] {
				return next(ctx, req)
			}

			ip := clientIP(req, trustForwarded)
			lctx, err := l.Get(ctx, procedure+"|"+ip)
			if err != nil {
				slog.Error("Rate limiter unavailable", "procedure", procedure, "error", err)
				return next(ctx, req)
			}

			if lctx.Reached {
				slog.Warn("Rate limit exceeded", "procedure", procedure, "client_ip", ip, "limit", lctx.Limit)
				cerr := connect.NewError(connect.CodeResourceExhausted, ErrTooManyRequests)
				retry := max(lctx.Reset-time.Now().Unix(), 1)
				cerr.Meta().Set("Retry-After", strconv.FormatInt(retry, 10))
				return nil, cerr
			}

			return next(ctx, req)
		}
	}
}

func clientIP(req connect.AnyRequest, trustForwarded bool) string {
	if trustForwarded {
		if xff := req.Header().Get("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			if ip := strings.TrimSpace(first); ip != "" {
				return ip
			}
		}
		if ip := strings.TrimSpace(req.Header().Get("X-Real-IP")); ip != "" {
			return ip
		}
	}

	addr := req.Peer().Addr
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}
