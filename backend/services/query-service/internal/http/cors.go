package httpserver

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"visiflow/backend/services/query-service/internal/metrics"
)

// OriginPolicy decides which browser origins may call the query API.
// An origin is allowed when it matches an exact entry or ends with one of
// the configured suffixes (subdomain allowance, e.g. ".climmatech.com").
type OriginPolicy struct {
	exact    map[string]struct{}
	suffixes []string
}

// NewOriginPolicy builds a policy from exact origins and domain suffixes.
func NewOriginPolicy(origins, suffixes []string) *OriginPolicy {
	exact := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		if o = strings.TrimSpace(o); o != "" {
			exact[o] = struct{}{}
		}
	}
	kept := make([]string, 0, len(suffixes))
	for _, s := range suffixes {
		if s = strings.TrimSpace(s); s != "" {
			kept = append(kept, s)
		}
	}
	return &OriginPolicy{exact: exact, suffixes: kept}
}

// Allowed reports whether the origin may call the API.
func (p *OriginPolicy) Allowed(origin string) bool {
	if _, ok := p.exact[origin]; ok {
		return true
	}
	for _, suffix := range p.suffixes {
		if strings.HasSuffix(origin, suffix) {
			return true
		}
	}
	return false
}

// CORS guards the wrapped handler with the origin policy. Disallowed
// origins get 403 and no allow-origin echo; requests without an Origin
// header (non-browser clients) pass through. Preflight OPTIONS requests
// are answered here.
func CORS(policy *OriginPolicy, logger *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" {
			if !policy.Allowed(origin) {
				metrics.IncQuery(metrics.ResultForbidden)
				logger.Warn("blocked request from unauthorized origin", zap.String("origin", origin))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte(`{"message":"forbidden: unauthorized origin"}`))
				return
			}
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "OPTIONS,GET,POST")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
