package services

import (
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"secondspin/internal/apperr"
	"secondspin/internal/auth"
	"secondspin/internal/domain"
	"secondspin/internal/repos"
	"secondspin/internal/validate"
)

type AuthService struct {
	Users     *repos.UserRepo
	JWTSecret string
}

// Register creates an account and returns a signed token for it.
func (s *AuthService) Register(name, email, password string) (string, error) {
	if name == "" {
		return "", apperr.Validation("Name is required")
	}
	email, ok := validate.Email(email)
	if !ok {
		return "", apperr.Validation("Enter a valid email")
	}
	if !validate.Password(password) {
		return "", apperr.Validation("Password must be 8+ characters with upper, lower and digit")
	}
	if _, err := s.Users.ByEmail(email); err == nil {
		return "", apperr.Validation("An account with this email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return "", apperr.Internal("Could not create account", err)
	}
	u := domain.User{ID: uuid.NewString(), Email: email, Name: name, Hash: string(hash)}
	if err := s.Users.Create(u); err != nil {
		return "", apperr.Internal("Could not create account", err)
	}

	tok, err := auth.GenerateToken(s.JWTSecret, u.ID)
	if err != nil {
		return "", apperr.Internal("Could not issue token", err)
	}
	return tok, nil
}

// Login verifies credentials and returns a signed token.
func (s *AuthService) Login(email, password string) (string, error) {
	u, err := s.Users.ByEmail(email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", apperr.Auth("Invalid email or password")
		}
		return "", apperr.Internal("Could not sign in", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return "", apperr.Auth("Invalid email or password")
	}

	tok, err := auth.GenerateToken(s.JWTSecret, u.ID)
	if err != nil {
		return "", apperr.Internal("Could not issue token", err)
	}
	return tok, nil
}
