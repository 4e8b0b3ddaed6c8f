package dto

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestDecodeCredentials(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		contentType string
		body        string
		want        CredentialsRequest
		wantErr     bool
	}{
		{
			name:        "form",
			contentType: "application/x-www-form-urlencoded",
			body:        "email=a%40x.com&password=secret1",
			want:        CredentialsRequest{Email: "a@x.com", Password: "secret1"},
		},
		{
			name:        "form missing password",
			contentType: "application/x-www-form-urlencoded",
			body:        "email=a%40x.com",
			want:        CredentialsRequest{Email: "a@x.com"},
		},
		{
			name:        "json",
			contentType: "application/json; charset=utf-8",
			body:        `{"email":"a@x.com","password":"secret1"}`,
			want:        CredentialsRequest{Email: "a@x.com", Password: "secret1"},
		},
		{
			name:        "json missing fields",
			contentType: "application/json",
			body:        `{}`,
			want:        CredentialsRequest{},
		},
		{
			name:        "malformed json",
			contentType: "application/json",
			body:        `{"email":`,
			wantErr:     true,
		},
		{
			name:        "malformed form",
			contentType: "application/x-www-form-urlencoded",
			body:        "email=%zz",
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", tt.contentType)

			got, err := DecodeCredentials(req)
			if tt.wantErr {
				if !errors.Is(err, ErrMalformedBody) {
					t.Fatalf("expected ErrMalformedBody, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}
