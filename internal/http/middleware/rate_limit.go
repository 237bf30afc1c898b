package middleware

import (
	"log"
	"net"
	"net/http"

	"github.com/ayres-originals/originals-api/internal/http/ban"
	rl "github.com/ayres-originals/originals-api/internal/http/rate_limiter"
)

// ClientKey identifies the caller by the remote IP. Forwarding headers are client controlled and
// only count when the router rewrites RemoteAddr from them behind a trusted proxy.
func ClientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RateLimit rejects banned clients and counts a strike for every request over the limit.
// bans may be nil, in which case only the token bucket applies.
func RateLimit(limiter *rl.Limiter, bans *ban.Tracker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := ClientKey(r)

			if bans != nil {
				banned, err := bans.IsBanned(r.Context(), key)
				if err != nil {
					log.Printf("ban lookup failed for %s: %v", key, err)
				}
				if banned {
					http.Error(w, "Too many violations, temporarily banned", http.StatusForbidden)
					return
				}
			}

			if !limiter.Allow(key) {
				if bans != nil {
					if _, err := bans.RecordStrike(r.Context(), key, r.URL.Path); err != nil {
						log.Printf("failed to record strike for %s: %v", key, err)
					}
				}
				http.Error(w, "Too many requests", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
