package user

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
)

func TestCheckPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("pw1234"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	u := &User{PasswordHash: string(hash)}

	if !CheckPassword(u, "pw1234") {
		t.Error("expected correct password to verify")
	}
	if CheckPassword(u, "wrong") {
		t.Error("expected wrong password to fail")
	}
	if CheckPassword(&User{}, "pw1234") {
		t.Error("expected empty hash to fail")
	}
}

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"unique violation", &pgconn.PgError{Code: "23505"}, true},
		{"wrapped unique violation", errors.Join(errors.New("creating user"), &pgconn.PgError{Code: "23505"}), true},
		{"other pg error", &pgconn.PgError{Code: "23503"}, false},
		{"plain error", errors.New("boom"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isUniqueViolation(tt.err); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
