package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestCookieConfig_SetCookie(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		cfg      CookieConfig
		wantName string
	}{
		{"defaults", CookieConfig{TTL: time.Hour}, DefaultCookieName},
		{"custom name secure", CookieConfig{Name: "sid", TTL: 24 * time.Hour, Secure: true}, "sid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := httptest.NewRecorder()
			tt.cfg.SetCookie(rec, "tok")

			cookies := rec.Result().Cookies()
			if len(cookies) != 1 {
				t.Fatalf("got %d cookies, want 1", len(cookies))
			}
			c := cookies[0]

			if c.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", c.Name, tt.wantName)
			}
			if c.Value != "tok" {
				t.Errorf("Value = %q, want tok", c.Value)
			}
			if !c.HttpOnly {
				t.Error("cookie must be HttpOnly")
			}
			if c.SameSite != http.SameSiteLaxMode {
				t.Errorf("SameSite = %v, want Lax", c.SameSite)
			}
			if c.Path != "/" {
				t.Errorf("Path = %q, want /", c.Path)
			}
			if c.Secure != tt.cfg.Secure {
				t.Errorf("Secure = %v, want %v", c.Secure, tt.cfg.Secure)
			}
			if want := int(tt.cfg.TTL / time.Second); c.MaxAge != want {
				t.Errorf("MaxAge = %d, want %d", c.MaxAge, want)
			}
		})
	}
}

func TestCookieConfig_ClearCookie(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	CookieConfig{TTL: time.Hour}.ClearCookie(rec)

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("got %d cookies, want 1", len(cookies))
	}
	if cookies[0].MaxAge >= 0 {
		t.Errorf("MaxAge = %d, want negative", cookies[0].MaxAge)
	}
	if cookies[0].Value != "" {
		t.Errorf("Value = %q, want empty", cookies[0].Value)
	}
}

func TestCookieConfig_TokenFromRequest(t *testing.T) {
	t.Parallel()

	cfg := CookieConfig{Name: "sid"}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := cfg.TokenFromRequest(req); got != "" {
		t.Errorf("no cookie: got %q", got)
	}

	req.AddCookie(&http.Cookie{Name: "other", Value: "x"})
	req.AddCookie(&http.Cookie{Name: "sid", Value: "abc"})
	if got := cfg.TokenFromRequest(req); got != "abc" {
		t.Errorf("got %q, want abc", got)
	}
}
