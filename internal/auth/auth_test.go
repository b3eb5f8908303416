package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGenerateSessionToken(t *testing.T) {
	plaintext, hash, err := GenerateSessionToken()
	if err != nil {
		t.Fatalf("GenerateSessionToken failed: %v", err)
	}
	if len(plaintext) != 64 {
		t.Errorf("expected 64-char hex token, got %d chars", len(plaintext))
	}
	if hash != HashToken(plaintext) {
		t.Error("returned hash does not match HashToken(plaintext)")
	}

	other, _, err := GenerateSessionToken()
	if err != nil {
		t.Fatal(err)
	}
	if other == plaintext {
		t.Error("expected distinct tokens across calls")
	}
}

func TestHashToken(t *testing.T) {
	a := HashToken("token-1")
	b := HashToken("token-1")
	c := HashToken("token-2")

	if a != b {
		t.Error("HashToken should be deterministic")
	}
	if a == c {
		t.Error("distinct tokens should produce distinct hashes")
	}
	if len(a) != 64 {
		t.Errorf("expected 64-char sha256 hex, got %d chars", len(a))
	}
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"missing header", "", ""},
		{"valid bearer", "Bearer abc123", "abc123"},
		{"case insensitive scheme", "bearer abc123", "abc123"},
		{"wrong scheme", "Basic abc123", ""},
		{"no token", "Bearer", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			if got := ExtractBearerToken(r); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUserContextRoundTrip(t *testing.T) {
	u := &User{ID: "u1", Name: "Alice", Email: "a@x.com"}
	ctx := ContextWithUser(context.Background(), u)

	got := UserFromContext(ctx)
	if got == nil || got.ID != "u1" {
		t.Fatalf("expected user u1 in context, got %+v", got)
	}

	if UserFromContext(context.Background()) != nil {
		t.Error("expected nil user from empty context")
	}
}

type fakeSessions struct {
	users map[string]*User
}

func (f *fakeSessions) LookupSession(_ context.Context, token string) (*User, error) {
	u, ok := f.users[token]
	if !ok {
		return nil, errors.New("no such session")
	}
	return u, nil
}

func TestSessionMiddleware(t *testing.T) {
	sessions := &fakeSessions{users: map[string]*User{
		"good-token": {ID: "u1", Email: "a@x.com"},
	}}

	var gotUser *User
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := SessionMiddleware(sessions)(inner)

	t.Run("valid token", func(t *testing.T) {
		gotUser = nil
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer good-token")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if gotUser == nil || gotUser.ID != "u1" {
			t.Errorf("expected user u1 in context, got %+v", gotUser)
		}
	})

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
		var body errorResponse
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode error body: %v", err)
		}
		if body.Error.Code != "unauthorized" {
			t.Errorf("expected code unauthorized, got %q", body.Error.Code)
		}
	})

	t.Run("unknown token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer bad-token")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}
