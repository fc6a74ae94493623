package client

import (
	"context"
	"errors"
	"net/http"

	"secondspin/internal/domain"
)

// ErrNoSize rejects cart adds without a size selection, before any state
// changes locally or remotely.
var ErrNoSize = errors.New("select a product size")

// AddToCart puts one unit of (listing, size) into the cart. The local state
// changes first; the server is mirrored only when a credential is present,
// and a sync failure notifies without reverting the local change.
func (c *Client) AddToCart(ctx context.Context, itemID, size string) error {
	if size == "" {
		return ErrNoSize
	}

	c.mu.Lock()
	if c.cart[itemID] == nil {
		c.cart[itemID] = map[string]int{}
	}
	c.cart[itemID][size]++
	c.mu.Unlock()

	if c.Token() == "" {
		c.notify("info", "Login to save your cart")
		return nil
	}

	c.setBusy(itemID, true)
	defer c.setBusy(itemID, false)
	if _, err := c.call(ctx, http.MethodPost, "/api/cart/add",
		map[string]any{"itemId": itemID, "size": size}); err != nil {
		c.notify("error", "Failed to add to cart")
	}
	return nil
}

// UpdateQuantity pins the quantity for (listing, size). Zero or negative
// removes that size entry, and the listing entry entirely once no sizes
// remain. Server sync follows the same best-effort, no-rollback rule as
// AddToCart.
func (c *Client) UpdateQuantity(ctx context.Context, itemID, size string, quantity int) {
	if quantity < 0 {
		quantity = 0
	}
	c.mu.Lock()
	if quantity == 0 {
		if sizes := c.cart[itemID]; sizes != nil {
			delete(sizes, size)
			if len(sizes) == 0 {
				delete(c.cart, itemID)
			}
		}
	} else {
		if c.cart[itemID] == nil {
			c.cart[itemID] = map[string]int{}
		}
		c.cart[itemID][size] = quantity
	}
	c.mu.Unlock()

	if c.Token() == "" {
		return
	}

	c.setBusy(itemID, true)
	defer c.setBusy(itemID, false)
	if _, err := c.call(ctx, http.MethodPost, "/api/cart/update",
		map[string]any{"itemId": itemID, "size": size, "quantity": quantity}); err != nil {
		c.notify("error", "Error updating cart")
	}
}

// FetchCart replaces the local cart with the server's copy. Best-effort.
func (c *Client) FetchCart(ctx context.Context) {
	if c.Token() == "" {
		return
	}
	env, err := c.call(ctx, http.MethodPost, "/api/cart/get", map[string]any{})
	if err != nil {
		return
	}
	c.mu.Lock()
	if env.CartData != nil {
		c.cart = env.CartData
	} else {
		c.cart = map[string]map[string]int{}
	}
	c.mu.Unlock()
}

// Cart returns a deep copy of the local cart state.
func (c *Client) Cart() map[string]map[string]int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]map[string]int, len(c.cart))
	for id, sizes := range c.cart {
		cp := make(map[string]int, len(sizes))
		for s, q := range sizes {
			cp[s] = q
		}
		out[id] = cp
	}
	return out
}

// CartCount sums every quantity across all listings and sizes.
func (c *Client) CartCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	total := 0
	for _, sizes := range c.cart {
		for _, q := range sizes {
			total += q
		}
	}
	return total
}

// CartAmount sums quantity times the currently cached price. A listing
// absent from the cache contributes zero; the total catches up on the next
// refresh. Documented edge case, not a defect.
func (c *Client) CartAmount() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	total := 0.0
	for id, sizes := range c.cart {
		var info *domain.Listing
		for i := range c.products {
			if c.products[i].ID == id {
				info = &c.products[i]
				break
			}
		}
		if info == nil {
			continue
		}
		for _, q := range sizes {
			total += info.Price * float64(q)
		}
	}
	return total
}

// FetchWishlist replaces the local wishlist with the server's copy.
func (c *Client) FetchWishlist(ctx context.Context) {
	if c.Token() == "" {
		return
	}
	env, err := c.call(ctx, http.MethodPost, "/api/user/wishlist/get", map[string]any{})
	if err != nil {
		c.notify("error", "Failed to load wishlist")
		return
	}
	c.mu.Lock()
	c.wishlist = env.Wishlist
	c.mu.Unlock()
}

// AddToWishlist saves a listing server-side and mirrors the returned list.
func (c *Client) AddToWishlist(ctx context.Context, productID string) {
	if c.Token() == "" {
		c.notify("info", "Login to use wishlist")
		return
	}
	env, err := c.call(ctx, http.MethodPost, "/api/user/wishlist/add",
		map[string]any{"productId": productID})
	if err != nil {
		c.notify("error", "Failed to add to wishlist")
		return
	}
	c.mu.Lock()
	c.wishlist = env.Wishlist
	c.mu.Unlock()
	c.notify("success", "Added to wishlist")
}

// RemoveFromWishlist removes a listing server-side and mirrors the result.
func (c *Client) RemoveFromWishlist(ctx context.Context, productID string) {
	if c.Token() == "" {
		return
	}
	env, err := c.call(ctx, http.MethodPost, "/api/user/wishlist/remove",
		map[string]any{"productId": productID})
	if err != nil {
		c.notify("error", "Failed to remove from wishlist")
		return
	}
	c.mu.Lock()
	c.wishlist = env.Wishlist
	c.mu.Unlock()
	c.notify("info", "Removed from wishlist")
}

// Wishlist returns a copy of the local wishlist ids.
func (c *Client) Wishlist() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, len(c.wishlist))
	copy(out, c.wishlist)
	return out
}
