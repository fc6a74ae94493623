package client

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strings"
	"sync"

	"secondspin/internal/auth"
)

// TokenStore persists the credential between sessions (the localStorage
// analog).
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// ErrBadToken rejects credentials that don't look like signed tokens.
var ErrBadToken = errors.New("invalid authentication token")

// Token returns the adopted credential, or "" when signed out.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// SetToken adopts a credential: validates its shape (three dot-separated
// segments), persists it, and fetches the server cart.
func (c *Client) SetToken(ctx context.Context, token string) error {
	token = strings.Trim(token, `"`)
	if !auth.WellFormed(token) {
		return ErrBadToken
	}
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
	if err := c.tokens.Save(token); err != nil {
		c.notify("error", "Could not save login")
	}
	c.FetchCart(ctx)
	return nil
}

// Login exchanges credentials for a token and adopts it.
func (c *Client) Login(ctx context.Context, email, password string) error {
	env, err := c.call(ctx, http.MethodPost, "/api/user/login",
		map[string]any{"email": email, "password": password})
	if err != nil {
		return err
	}
	return c.SetToken(ctx, env.Token)
}

// Logout clears the credential, resets the cart, and wipes persisted
// storage.
func (c *Client) Logout() {
	c.mu.Lock()
	c.token = ""
	c.cart = map[string]map[string]int{}
	c.wishlist = nil
	c.mu.Unlock()
	if err := c.tokens.Clear(); err == nil {
		c.notify("info", "Logged out successfully")
	}
}

// FileTokenStore keeps the credential in a single file.
type FileTokenStore struct {
	Path string
}

func (s *FileTokenStore) Load() (string, error) {
	b, err := os.ReadFile(s.Path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

func (s *FileTokenStore) Save(token string) error {
	return os.WriteFile(s.Path, []byte(token), 0o600)
}

func (s *FileTokenStore) Clear() error {
	err := os.Remove(s.Path)
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}

// memTokenStore is the fallback when no store is configured.
type memTokenStore struct {
	mu  sync.Mutex
	tok string
}

func (s *memTokenStore) Load() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tok, nil
}

func (s *memTokenStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tok = token
	return nil
}

func (s *memTokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tok = ""
	return nil
}
