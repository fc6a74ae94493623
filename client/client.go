// Package client is a Go SDK for the secondspin API. It keeps a local,
// eventually-consistent mirror of the active catalog plus the signed-in
// user's cart and wishlist, so a UI can render without a round trip on
// every interaction. Local state may run ahead of the server: mutations
// apply locally first and server sync is best-effort, never rolled back.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"secondspin/internal/auth"
	"secondspin/internal/domain"
)

// Notify surfaces transient user-facing messages (the toast analog).
// Level is one of "success", "error", "info".
type Notify func(level, message string)

type Config struct {
	BaseURL    string
	HTTPClient *http.Client
	Tokens     TokenStore // optional; credential persistence
	Notify     Notify     // optional
}

type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenStore
	notify  Notify

	mu       sync.RWMutex
	token    string
	products []domain.Listing
	cart     map[string]map[string]int // listing id -> size -> qty
	wishlist []string
	busy     map[string]bool // per-listing in-flight flags
}

func New(cfg Config) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}
	n := cfg.Notify
	if n == nil {
		n = func(string, string) {}
	}
	ts := cfg.Tokens
	if ts == nil {
		ts = &memTokenStore{}
	}
	return &Client{
		baseURL: cfg.BaseURL,
		http:    hc,
		tokens:  ts,
		notify:  n,
		cart:    map[string]map[string]int{},
		busy:    map[string]bool{},
	}
}

// Init fetches the active catalog once and, independently, adopts a stored
// credential when it looks like a signed token. Both steps are best-effort;
// failures surface through Notify only.
func (c *Client) Init(ctx context.Context) {
	c.Refresh(ctx)
	if tok, err := c.tokens.Load(); err == nil && auth.WellFormed(tok) {
		c.mu.Lock()
		c.token = tok
		c.mu.Unlock()
		c.FetchCart(ctx)
	}
}

// Refresh re-fetches the full active catalog and replaces local state
// wholesale. On failure it returns the previous in-memory list and notifies;
// it never returns an error, so a caller can always render something.
func (c *Client) Refresh(ctx context.Context) []domain.Listing {
	env, err := c.call(ctx, http.MethodGet, "/api/product/list", nil)
	if err != nil {
		c.notify("error", "Error loading products")
		return c.Products()
	}
	c.mu.Lock()
	c.products = env.Products
	c.mu.Unlock()
	return c.Products()
}

// Products returns a copy of the cached catalog.
func (c *Client) Products() []domain.Listing {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.Listing, len(c.products))
	copy(out, c.products)
	return out
}

// Product looks up a cached listing by id.
func (c *Client) Product(id string) (domain.Listing, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, p := range c.products {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Listing{}, false
}

// AddProductToGlobalState upserts a listing into the cached catalog so a
// caller that just created it server-side can reflect it immediately. New
// listings go to the front (newest-first). Idempotent.
func (c *Client) AddProductToGlobalState(p domain.Listing) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.products {
		if c.products[i].ID == p.ID {
			c.products[i] = p
			return
		}
	}
	c.products = append([]domain.Listing{p}, c.products...)
}

// RemoveProductFromGlobalState drops a listing from the cached catalog.
// Idempotent; unknown ids are a no-op.
func (c *Client) RemoveProductFromGlobalState(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	kept := c.products[:0]
	for _, p := range c.products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	c.products = kept
}

// UpdateProductInGlobalState replaces the cached copy of a listing in place.
// Unknown ids are a no-op; it never inserts.
func (c *Client) UpdateProductInGlobalState(p domain.Listing) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.products {
		if c.products[i].ID == p.ID {
			c.products[i] = p
			return
		}
	}
}

// Busy reports whether a request touching this listing is in flight, so a
// UI can disable that listing's buttons without locking the whole page.
func (c *Client) Busy(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.busy[id]
}

func (c *Client) setBusy(id string, v bool) {
	c.mu.Lock()
	if v {
		c.busy[id] = true
	} else {
		delete(c.busy, id)
	}
	c.mu.Unlock()
}

// envelope is the uniform response shape; the transport status is always
// 200 on handled routes, so success is the only failure signal.
type envelope struct {
	Success  bool                      `json:"success"`
	Message  string                    `json:"message"`
	Products []domain.Listing          `json:"products"`
	Product  *domain.Listing           `json:"product"`
	CartData map[string]map[string]int `json:"cartData"`
	Wishlist []string                  `json:"wishlist"`
	Token    string                    `json:"token"`
}

func (c *Client) call(ctx context.Context, method, path string, body any) (*envelope, error) {
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if tok := c.Token(); tok != "" {
		req.Header.Set("token", tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	if !env.Success {
		msg := env.Message
		if msg == "" {
			msg = "request failed"
		}
		return &env, fmt.Errorf("%s", msg)
	}
	return &env, nil
}
