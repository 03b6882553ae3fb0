package domain

import "context"

// User is a dashboard operator allowed to sign in
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
}

// PasswordHasher produces and checks encoded password hashes
type PasswordHasher interface {
	HashPassword(ctx context.Context, password string) (string, error)
	VerifyPassword(ctx context.Context, password, encodedHash string) (bool, error)
}
