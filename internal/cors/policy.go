// Package cors resolves CORS response headers from a configured origin
// allowlist. The policy is a pure function of configuration and the request's
// Origin header; it performs no I/O.
package cors

import (
	"net/url"
	"strings"
)

const (
	allowMethods = "GET, POST, PUT, DELETE, OPTIONS"
	allowHeaders = "Content-Type, Authorization, X-User-Id"
)

// Policy is an ordered set of allowed origins. An empty set allows all.
type Policy struct {
	origins []string
}

// NewPolicy parses a comma-separated origin list. Entries are normalized;
// blank entries are dropped. An empty list means wildcard-allow-all.
func NewPolicy(allowedOrigins string) Policy {
	var origins []string
	for _, entry := range strings.Split(allowedOrigins, ",") {
		if o := normalizeOrigin(entry); o != "" {
			origins = append(origins, o)
		}
	}
	return Policy{origins: origins}
}

// Wildcard reports whether the policy allows every origin.
func (p Policy) Wildcard() bool { return len(p.origins) == 0 }

// Allows reports whether the given request origin is acceptable. Requests
// without an Origin header are always allowed (non-browser clients).
func (p Policy) Allows(origin string) bool {
	if p.Wildcard() || origin == "" {
		return true
	}
	normalized := normalizeOrigin(origin)
	for _, o := range p.origins {
		if o == normalized {
			return true
		}
	}
	return false
}

// Resolve returns the Access-Control-Allow-Origin value for a request origin:
// "*" under a wildcard policy, the normalized request origin when allowed,
// otherwise the first configured origin.
func (p Policy) Resolve(origin string) string {
	if p.Wildcard() {
		return "*"
	}
	if origin != "" && p.Allows(origin) {
		return normalizeOrigin(origin)
	}
	return p.origins[0]
}

// Headers computes the full CORS header set for a request origin.
// Credentials are never allowed together with a wildcard origin, and any
// origin-dependent response must vary on Origin for caches.
func (p Policy) Headers(origin string) map[string]string {
	resolved := p.Resolve(origin)

	h := map[string]string{
		"Access-Control-Allow-Origin":      resolved,
		"Access-Control-Allow-Methods":     allowMethods,
		"Access-Control-Allow-Headers":     allowHeaders,
		"Access-Control-Allow-Credentials": "true",
	}
	if resolved == "*" {
		h["Access-Control-Allow-Credentials"] = "false"
	} else {
		h["Vary"] = "Origin"
	}
	return h
}

// normalizeOrigin canonicalizes an origin string: trim whitespace, default to
// the https scheme, lowercase scheme and host, preserve an explicit port, and
// drop any trailing slash.
func normalizeOrigin(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	if !strings.Contains(s, "://") {
		s = "https://" + s
	}
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return strings.ToLower(strings.TrimSuffix(s, "/"))
	}
	return strings.ToLower(u.Scheme) + "://" + strings.ToLower(u.Host)
}
