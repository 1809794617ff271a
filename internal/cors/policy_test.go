package cors

import "testing"

func TestWildcardPolicy(t *testing.T) {
	p := NewPolicy("")

	if !p.Wildcard() {
		t.Fatal("empty origin list must be wildcard")
	}
	if !p.Allows("https://anywhere.example") {
		t.Error("wildcard must allow any origin")
	}

	h := p.Headers("https://anywhere.example")
	if h["Access-Control-Allow-Origin"] != "*" {
		t.Errorf("allow-origin = %q, want *", h["Access-Control-Allow-Origin"])
	}
	if h["Access-Control-Allow-Credentials"] != "false" {
		t.Error("wildcard must not allow credentials")
	}
	if _, ok := h["Vary"]; ok {
		t.Error("wildcard responses must not vary on origin")
	}
}

func TestAllowlistedOrigin(t *testing.T) {
	p := NewPolicy("https://app.learnia.cloud, https://staging.learnia.cloud")

	if p.Wildcard() {
		t.Fatal("configured policy must not be wildcard")
	}
	if !p.Allows("https://app.learnia.cloud") {
		t.Error("configured origin must be allowed")
	}
	if p.Allows("https://evil.example") {
		t.Error("unknown origin must be rejected")
	}

	h := p.Headers("https://staging.learnia.cloud")
	if h["Access-Control-Allow-Origin"] != "https://staging.learnia.cloud" {
		t.Errorf("allow-origin = %q, want echoed origin", h["Access-Control-Allow-Origin"])
	}
	if h["Access-Control-Allow-Credentials"] != "true" {
		t.Error("named origin should allow credentials")
	}
	if h["Vary"] != "Origin" {
		t.Error("named origin responses must vary on Origin")
	}
}

func TestDisallowedOriginFallsBackToFirst(t *testing.T) {
	p := NewPolicy("https://app.learnia.cloud,https://staging.learnia.cloud")

	h := p.Headers("https://evil.example")
	if h["Access-Control-Allow-Origin"] != "https://app.learnia.cloud" {
		t.Errorf("allow-origin = %q, want first configured origin", h["Access-Control-Allow-Origin"])
	}
}

func TestNoOriginHeaderAllowed(t *testing.T) {
	p := NewPolicy("https://app.learnia.cloud")
	if !p.Allows("") {
		t.Error("requests without Origin must be allowed")
	}
}

func TestNormalization(t *testing.T) {
	p := NewPolicy(" App.Learnia.Cloud , https://other.example/ ")

	if !p.Allows("https://app.learnia.cloud") {
		t.Error("schemeless entry must normalize to https")
	}
	if !p.Allows("HTTPS://OTHER.EXAMPLE") {
		t.Error("origin comparison must ignore case")
	}

	// Explicit port distinguishes origins.
	q := NewPolicy("http://localhost:3000")
	if !q.Allows("http://localhost:3000") {
		t.Error("origin with port must match itself")
	}
	if q.Allows("http://localhost:4000") {
		t.Error("different port is a different origin")
	}
}
