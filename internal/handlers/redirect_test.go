package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog"

	"github.com/aviranmz/thedude/internal/redirect"
)

// Token-shaped fixtures; the handler rejects anything that does not look
// like an issued token before touching the registry.
const (
	liveToken      = "11111111-1111-4111-8111-111111111111"
	deadToken      = "dddddddd-dddd-4ddd-8ddd-dddddddddddd"
	expiredToken   = "eeeeeeee-eeee-4eee-8eee-eeeeeeeeeeee"
	exhaustedToken = "aaaaaaaa-aaaa-4aaa-8aaa-aaaaaaaaaaaa"
)

type fakeResolver struct {
	destinations map[string]string
	errs         map[string]error
	lastVisitor  redirect.Visitor
	calls        int
}

func (f *fakeResolver) Resolve(ctx context.Context, token string, visitor redirect.Visitor) (string, error) {
	f.calls++
	f.lastVisitor = visitor
	if err, ok := f.errs[token]; ok {
		return "", err
	}
	if dest, ok := f.destinations[token]; ok {
		return dest, nil
	}
	return "", redirect.ErrNotFound
}

func newRedirectApp(resolver *fakeResolver) *fiber.App {
	app := fiber.New()
	handler := NewRedirectHandler(resolver, zerolog.Nop())
	app.Get("/r/:token", handler.Resolve)
	return app
}

func TestResolveRedirects(t *testing.T) {
	resolver := &fakeResolver{
		destinations: map[string]string{liveToken: "https://www.aviasales.com/search/LON0101MIL0202"},
	}
	app := newRedirectApp(resolver)

	req, _ := http.NewRequest("GET", "/r/"+liveToken, nil)
	req.Header.Set("User-Agent", "test-browser/1.0")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	if resp.StatusCode != http.StatusFound {
		t.Errorf("status = %d, want 302", resp.StatusCode)
	}
	if got := resp.Header.Get("Location"); got != "https://www.aviasales.com/search/LON0101MIL0202" {
		t.Errorf("Location = %q", got)
	}
	if resolver.lastVisitor.UserAgent != "test-browser/1.0" {
		t.Errorf("visitor UA = %q", resolver.lastVisitor.UserAgent)
	}
}

func TestResolveStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"unknown token", redirect.ErrNotFound, http.StatusNotFound},
		{"expired", redirect.ErrExpired, http.StatusGone},
		{"click limit", redirect.ErrLimitReached, http.StatusGone},
		{"store down", errors.New("connection refused"), http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newRedirectApp(&fakeResolver{errs: map[string]error{deadToken: tt.err}})

			req, _ := http.NewRequest("GET", "/r/"+deadToken, nil)
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}

			var body map[string]string
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatalf("body decode failed: %v", err)
			}
			if body["error"] == "" {
				t.Error("expected an error body")
			}
		})
	}
}

func TestResolveMalformedTokenSkipsRegistry(t *testing.T) {
	resolver := &fakeResolver{}
	app := newRedirectApp(resolver)

	req, _ := http.NewRequest("GET", "/r/not-a-token", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
	if resolver.calls != 0 {
		t.Errorf("registry called %d times for a malformed token", resolver.calls)
	}
}

func TestResolveExpiredAndLimitHaveDistinctBodies(t *testing.T) {
	app := newRedirectApp(&fakeResolver{errs: map[string]error{
		expiredToken:   redirect.ErrExpired,
		exhaustedToken: redirect.ErrLimitReached,
	}})

	bodies := map[string]string{}
	for _, token := range []string{expiredToken, exhaustedToken} {
		req, _ := http.NewRequest("GET", "/r/"+token, nil)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		var body map[string]string
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatalf("body decode failed: %v", err)
		}
		bodies[token] = body["error"]
	}

	if bodies[expiredToken] == bodies[exhaustedToken] {
		t.Errorf("expired and exhausted bodies must differ, both %q", bodies[expiredToken])
	}
}
