package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"secondspin/client"
	"secondspin/internal/auth"
	"secondspin/internal/domain"
)

// stubServer speaks the API envelope and records which paths were hit.
type stubServer struct {
	mu       sync.Mutex
	calls    []string
	down     bool // answer every request with a failure envelope
	products []domain.Listing
	cart     map[string]map[string]int
	wishlist []string
	token    string
}

func (s *stubServer) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.calls = append(s.calls, r.URL.Path)
		down := s.down
		s.mu.Unlock()

		resp := map[string]any{"success": true}
		if down {
			resp = map[string]any{"success": false, "message": "Something went wrong. Please try again."}
		} else {
			switch r.URL.Path {
			case "/api/product/list":
				resp["products"] = s.products
			case "/api/cart/get":
				resp["cartData"] = s.cart
			case "/api/user/login":
				resp["token"] = s.token
			case "/api/user/wishlist/get", "/api/user/wishlist/add", "/api/user/wishlist/remove":
				resp["wishlist"] = s.wishlist
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	})
}

func (s *stubServer) called(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		if c == path {
			n++
		}
	}
	return n
}

type notices struct {
	mu   sync.Mutex
	msgs []string
}

func (n *notices) notify(level, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.msgs = append(n.msgs, level+": "+message)
}

func (n *notices) all() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.msgs...)
}

func listing(id string, price float64) domain.Listing {
	return domain.Listing{ID: id, Name: "Item " + id, Price: price, Status: domain.StatusActive}
}

func signedToken(t *testing.T) string {
	t.Helper()
	tok, err := auth.GenerateToken("client-test-secret", "u-test")
	require.NoError(t, err)
	return tok
}

func newClient(t *testing.T, srv *stubServer, n *notices) *client.Client {
	t.Helper()
	ts := httptest.NewServer(srv.handler())
	t.Cleanup(ts.Close)
	cfg := client.Config{BaseURL: ts.URL}
	if n != nil {
		cfg.Notify = n.notify
	}
	return client.New(cfg)
}

func TestRefreshFailureReturnsPreviousList(t *testing.T) {
	srv := &stubServer{products: []domain.Listing{listing("p1", 10), listing("p2", 20)}}
	n := &notices{}
	c := newClient(t, srv, n)

	got := c.Refresh(context.Background())
	require.Len(t, got, 2)

	srv.mu.Lock()
	srv.down = true
	srv.mu.Unlock()

	got = c.Refresh(context.Background())
	assert.Len(t, got, 2, "failed refresh must return the previous list")
	assert.Equal(t, "p1", got[0].ID)
	assert.Contains(t, n.all(), "error: Error loading products")
}

func TestOptimisticCatalogMutations(t *testing.T) {
	c := client.New(client.Config{BaseURL: "http://unused.invalid"})

	p1, p2 := listing("p1", 10), listing("p2", 20)
	c.AddProductToGlobalState(p1)
	c.AddProductToGlobalState(p2)

	// Newest first.
	got := c.Products()
	require.Len(t, got, 2)
	assert.Equal(t, "p2", got[0].ID)

	// Re-adding an existing listing replaces in place, no duplicate.
	p1.Price = 12
	c.AddProductToGlobalState(p1)
	got = c.Products()
	require.Len(t, got, 2)
	assert.Equal(t, 12.0, got[1].Price)

	// Update never inserts unknown ids.
	c.UpdateProductInGlobalState(listing("ghost", 1))
	assert.Len(t, c.Products(), 2)

	p2.Name = "Renamed"
	c.UpdateProductInGlobalState(p2)
	found, ok := c.Product("p2")
	require.True(t, ok)
	assert.Equal(t, "Renamed", found.Name)

	// Remove is idempotent.
	c.RemoveProductFromGlobalState("p1")
	c.RemoveProductFromGlobalState("p1")
	got = c.Products()
	require.Len(t, got, 1)
	assert.Equal(t, "p2", got[0].ID)
}

func TestAddToCartRequiresSize(t *testing.T) {
	srv := &stubServer{}
	c := newClient(t, srv, nil)

	err := c.AddToCart(context.Background(), "p1", "")
	assert.ErrorIs(t, err, client.ErrNoSize)
	assert.Empty(t, c.Cart(), "rejected add must not touch local state")
	assert.Zero(t, srv.called("/api/cart/add"))
}

func TestAddToCartWithoutTokenStaysLocal(t *testing.T) {
	srv := &stubServer{}
	n := &notices{}
	c := newClient(t, srv, n)

	require.NoError(t, c.AddToCart(context.Background(), "p1", "M"))
	assert.Equal(t, 1, c.Cart()["p1"]["M"])
	assert.Zero(t, srv.called("/api/cart/add"), "no credential, no server sync")
	assert.Contains(t, n.all(), "info: Login to save your cart")
}

func TestAddToCartSyncFailureKeepsLocalChange(t *testing.T) {
	srv := &stubServer{}
	n := &notices{}
	c := newClient(t, srv, n)
	require.NoError(t, c.SetToken(context.Background(), signedToken(t)))

	srv.mu.Lock()
	srv.down = true
	srv.mu.Unlock()

	require.NoError(t, c.AddToCart(context.Background(), "p1", "M"))
	require.NoError(t, c.AddToCart(context.Background(), "p1", "M"))
	assert.Equal(t, 2, c.Cart()["p1"]["M"], "failed sync never rolls back")
	assert.Contains(t, n.all(), "error: Failed to add to cart")
}

func TestUpdateQuantityZeroCleansUp(t *testing.T) {
	srv := &stubServer{}
	c := newClient(t, srv, nil)
	ctx := context.Background()

	require.NoError(t, c.AddToCart(ctx, "p1", "M"))
	require.NoError(t, c.AddToCart(ctx, "p1", "L"))
	c.UpdateQuantity(ctx, "p1", "M", 3)
	assert.Equal(t, 4, c.CartCount())

	c.UpdateQuantity(ctx, "p1", "M", 0)
	assert.NotContains(t, c.Cart()["p1"], "M")

	// Last size removed drops the listing key entirely.
	c.UpdateQuantity(ctx, "p1", "L", 0)
	assert.Empty(t, c.Cart())

	// Negative quantities behave like zero, never landing in the mirror.
	require.NoError(t, c.AddToCart(ctx, "p2", "M"))
	c.UpdateQuantity(ctx, "p2", "M", -3)
	assert.Empty(t, c.Cart())
}

func TestCartAmountSkipsMissingListings(t *testing.T) {
	srv := &stubServer{products: []domain.Listing{listing("p1", 15)}}
	c := newClient(t, srv, nil)
	ctx := context.Background()

	c.Refresh(ctx)
	require.NoError(t, c.AddToCart(ctx, "p1", "M"))
	c.UpdateQuantity(ctx, "p1", "M", 2)
	require.NoError(t, c.AddToCart(ctx, "gone", "L"))
	c.UpdateQuantity(ctx, "gone", "L", 3)

	assert.Equal(t, 5, c.CartCount())
	assert.Equal(t, 30.0, c.CartAmount(), "uncached listing contributes zero")
}

func TestInitAdoptsStoredToken(t *testing.T) {
	tok := signedToken(t)
	path := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(path, []byte(tok), 0o600))

	srv := &stubServer{cart: map[string]map[string]int{"p1": {"M": 2}}}
	ts := httptest.NewServer(srv.handler())
	t.Cleanup(ts.Close)

	c := client.New(client.Config{BaseURL: ts.URL, Tokens: &client.FileTokenStore{Path: path}})
	c.Init(context.Background())

	assert.Equal(t, tok, c.Token())
	assert.Equal(t, 2, c.Cart()["p1"]["M"], "init fetches the server cart")
	assert.Equal(t, 1, srv.called("/api/product/list"))
}

func TestSetTokenRejectsMalformed(t *testing.T) {
	c := client.New(client.Config{BaseURL: "http://unused.invalid"})

	assert.ErrorIs(t, c.SetToken(context.Background(), "nope"), client.ErrBadToken)
	assert.Empty(t, c.Token())
}

func TestLoginAndLogoutLifecycle(t *testing.T) {
	tok := signedToken(t)
	path := filepath.Join(t.TempDir(), "token")
	srv := &stubServer{token: tok, cart: map[string]map[string]int{"p1": {"M": 1}}}
	ts := httptest.NewServer(srv.handler())
	t.Cleanup(ts.Close)
	n := &notices{}

	c := client.New(client.Config{BaseURL: ts.URL, Tokens: &client.FileTokenStore{Path: path}, Notify: n.notify})
	require.NoError(t, c.Login(context.Background(), "alice@secondspin.test", "Passw0rd!"))
	assert.Equal(t, tok, c.Token())
	assert.Equal(t, 1, c.CartCount())

	saved, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, tok, string(saved))

	c.Logout()
	assert.Empty(t, c.Token())
	assert.Empty(t, c.Cart())
	assert.Empty(t, c.Wishlist())
	_, err = os.ReadFile(path)
	assert.True(t, os.IsNotExist(err), "logout wipes the persisted credential")
	assert.Contains(t, n.all(), "info: Logged out successfully")
}

func TestWishlistMirrorsServerList(t *testing.T) {
	srv := &stubServer{wishlist: []string{"p1", "p2"}}
	n := &notices{}
	c := newClient(t, srv, n)
	require.NoError(t, c.SetToken(context.Background(), signedToken(t)))

	c.AddToWishlist(context.Background(), "p2")
	assert.Equal(t, []string{"p1", "p2"}, c.Wishlist())
	assert.Contains(t, n.all(), "success: Added to wishlist")

	// Signed-out wishlist adds only prompt for login.
	c.Logout()
	c.AddToWishlist(context.Background(), "p3")
	assert.Empty(t, c.Wishlist())
	assert.Contains(t, n.all(), "info: Login to use wishlist")
}
