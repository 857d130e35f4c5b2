package auth

import (
	"errors"
	"strings"
	"testing"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  error
	}{
		{
			name:     "valid password",
			password: "Sup3rSecret!",
			wantErr:  nil,
		},
		{
			name:     "minimum length",
			password: "Abcdef1!",
			wantErr:  nil,
		},
		{
			name:     "too short",
			password: "Ab1!",
			wantErr:  ErrWeakPassword,
		},
		{
			name:     "no uppercase",
			password: "sup3rsecret!",
			wantErr:  ErrWeakPassword,
		},
		{
			name:     "no digit",
			password: "SuperSecret!",
			wantErr:  ErrWeakPassword,
		},
		{
			name:     "no special character",
			password: "Sup3rSecret",
			wantErr:  ErrWeakPassword,
		},
		{
			name:     "special outside allowed set",
			password: "Sup3rSecret~",
			wantErr:  ErrWeakPassword,
		},
		{
			name:     "too long for bcrypt",
			password: "Aa1!" + strings.Repeat("x", 70),
			wantErr:  ErrPasswordTooLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidatePassword(%q) = %v, want %v", tt.password, err, tt.wantErr)
			}
		})
	}
}

func TestPasswordHasher(t *testing.T) {
	hasher := NewPasswordHasher()

	hash, err := hasher.Hash("Sup3rSecret!")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if hash == "Sup3rSecret!" {
		t.Fatal("hash must not equal the plain password")
	}

	if !hasher.Verify("Sup3rSecret!", hash) {
		t.Error("expected correct password to verify")
	}
	if hasher.Verify("WrongPass1!", hash) {
		t.Error("expected wrong password to fail verification")
	}
}
