package httpapi

import (
	"encoding/base64"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"

	"github.com/learnia-cloud/course-search/internal/domain"
)

func TestDecodeJSONBody_EmptyBodyIsEmptyObject(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(""))

	var out favoriteRequest
	if err := decodeJSONBody(req, &out); err != nil {
		t.Fatalf("empty body should decode: %v", err)
	}
	if out.Action != "" {
		t.Errorf("action = %q, want empty", out.Action)
	}
}

func TestDecodeJSONBody_Base64(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte(`{"action": "add"}`))
	req := httptest.NewRequest("POST", "/", strings.NewReader(payload))
	req.Header.Set("Content-Transfer-Encoding", "base64")

	var out favoriteRequest
	if err := decodeJSONBody(req, &out); err != nil {
		t.Fatalf("base64 body should decode: %v", err)
	}
	if out.Action != "add" {
		t.Errorf("action = %q, want add", out.Action)
	}
}

func TestDecodeJSONBody_BadBase64(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader("%%%not base64%%%"))
	req.Header.Set("Content-Transfer-Encoding", "base64")

	var out favoriteRequest
	err := decodeJSONBody(req, &out)
	if !errors.Is(err, domain.ErrInvalidBody) {
		t.Fatalf("expected ErrInvalidBody, got %v", err)
	}
}

func TestDecodeJSONBody_Malformed(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"query":`))

	var out searchRequest
	err := decodeJSONBody(req, &out)
	if !errors.Is(err, domain.ErrInvalidBody) {
		t.Fatalf("expected ErrInvalidBody, got %v", err)
	}
}

func TestQueryInt(t *testing.T) {
	req := httptest.NewRequest("GET", "/?limit=7", nil)
	n, err := queryInt(req, "limit")
	if err != nil || n == nil || *n != 7 {
		t.Fatalf("queryInt = %v, %v", n, err)
	}

	req = httptest.NewRequest("GET", "/", nil)
	n, err = queryInt(req, "limit")
	if err != nil || n != nil {
		t.Fatalf("absent param should be nil, got %v, %v", n, err)
	}

	req = httptest.NewRequest("GET", "/?limit=ten", nil)
	_, err = queryInt(req, "limit")
	if !errors.Is(err, domain.ErrInvalidParameter) {
		t.Fatalf("expected ErrInvalidParameter, got %v", err)
	}
}

func TestIdentity_FromJWTSubject(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "user-42"})
	signed, err := token.SignedString([]byte("irrelevant"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed)

	if got := identityFromRequest(req); got != "user-42" {
		t.Errorf("identity = %q, want user-42", got)
	}
}

func TestIdentity_JWTWinsOverHeaders(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "jwt-user"})
	signed, _ := token.SignedString([]byte("irrelevant"))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	req.Header.Set("X-User-Id", "header-user")

	if got := identityFromRequest(req); got != "jwt-user" {
		t.Errorf("identity = %q, want jwt-user", got)
	}
}

func TestIdentity_HeaderFallbacks(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("User-Id", " user-9 ")
	if got := identityFromRequest(req); got != "user-9" {
		t.Errorf("identity = %q, want trimmed user-9", got)
	}

	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-User-Id", "user-10")
	if got := identityFromRequest(req); got != "user-10" {
		t.Errorf("identity = %q, want user-10", got)
	}
}

func TestIdentity_GarbageTokenFallsThrough(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer not.a.jwt")
	req.Header.Set("X-User-Id", "fallback-user")

	if got := identityFromRequest(req); got != "fallback-user" {
		t.Errorf("identity = %q, want fallback-user", got)
	}
}

func TestIdentity_Missing(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	if got := identityFromRequest(req); got != "" {
		t.Errorf("identity = %q, want empty", got)
	}
}
