package httpapi

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/learnia-cloud/course-search/internal/domain"
)

const maxBodyBytes = 1 << 20

// decodeJSONBody decodes the request body into v. An empty body decodes as an
// empty object so optional-body endpoints accept bare POSTs. Bodies flagged
// with Content-Transfer-Encoding: base64 are decoded before parsing, which
// some API gateways apply to binary-safe payloads.
func decodeJSONBody(r *http.Request, v any) error {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: read body: %v", domain.ErrInvalidBody, err)
	}

	if strings.EqualFold(r.Header.Get("Content-Transfer-Encoding"), "base64") {
		decoded, err := base64.StdEncoding.DecodeString(string(bytes.TrimSpace(raw)))
		if err != nil {
			return fmt.Errorf("%w: base64 body: %v", domain.ErrInvalidBody, err)
		}
		raw = decoded
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		raw = []byte("{}")
	}

	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidBody, err)
	}
	return nil
}

// queryInt parses an optional integer query parameter. Absent returns nil;
// malformed values surface as ErrInvalidParameter with the parameter name.
func queryInt(r *http.Request, name string) (*int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidParameter, name)
	}
	return &n, nil
}

// identityFromRequest resolves the caller identity. The primary source is the
// sub claim of a bearer token already verified upstream; the gateway strips
// unauthenticated traffic, so the claim is read without re-verification.
// Plain identity headers serve as a fallback for internal callers.
func identityFromRequest(r *http.Request) string {
	if sub := subjectFromBearer(r.Header.Get("Authorization")); sub != "" {
		return sub
	}
	if id := strings.TrimSpace(r.Header.Get("User-Id")); id != "" {
		return id
	}
	return strings.TrimSpace(r.Header.Get("X-User-Id"))
}

func subjectFromBearer(auth string) string {
	const bearerPrefix = "Bearer "
	if !strings.HasPrefix(auth, bearerPrefix) {
		return ""
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(auth[len(bearerPrefix):], claims); err != nil {
		return ""
	}
	sub, err := claims.GetSubject()
	if err != nil {
		return ""
	}
	return sub
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
