// Package session owns the login/logout/signup flows and the ordering rules
// between the token store and the resource cache: the token mutation always
// completes before any dependent cache invalidation, so a refetch can never
// race using a stale credential.
package session

import (
	"context"

	"github.com/opsdeck/opsdeck/internal/client/api"
	"github.com/opsdeck/opsdeck/internal/client/cache"
	"github.com/opsdeck/opsdeck/internal/client/tokenstore"
)

// Controller is the single writer of the token store. Mutation settlement
// elsewhere writes only to the cache; readers mutate nothing.
type Controller struct {
	tokens tokenstore.Store
	api    *api.Client
	cache  *cache.Cache
}

func NewController(tokens tokenstore.Store, client *api.Client, c *cache.Cache) *Controller {
	return &Controller{tokens: tokens, api: client, cache: c}
}

// Login exchanges credentials for a token, persists it, and marks the
// current-user entry for refetch. Invalid credentials surface as
// *api.AuthError; an unreachable server as *api.NetworkError. On failure
// nothing is stored and the cache is untouched.
func (c *Controller) Login(ctx context.Context, email, password string) error {
	tok, err := c.api.Login(ctx, email, password)
	if err != nil {
		return err
	}
	if err := c.tokens.Set(tok); err != nil {
		return err
	}
	// Token is stored; only now may dependents refetch under the new
	// session.
	c.cache.Invalidate(cache.CurrentUser)
	return nil
}

// SignUp registers a new account and then logs it in.
func (c *Controller) SignUp(ctx context.Context, email, password, fullName string) error {
	if err := c.api.SignUp(ctx, email, password, fullName); err != nil {
		return err
	}
	return c.Login(ctx, email, password)
}

// Logout destroys the credential and then clears every cached resource,
// since all subsequent requests are unauthenticated. It never calls the
// server; token validity is only ever checked lazily by the server
// rejecting a request.
func (c *Controller) Logout() error {
	if err := c.tokens.Clear(); err != nil {
		return err
	}
	c.cache.ClearAll()
	return nil
}

// HandleAuthRejection destroys the local session after the server rejected
// the stored credential. Token first, then cache, same as Logout; the cache
// is cleared even when the token removal fails, so nothing stale can render
// against a dead session.
func (c *Controller) HandleAuthRejection() {
	_ = c.tokens.Clear()
	c.cache.ClearAll()
}

// IsLoggedIn reports whether a credential is present. It performs no I/O,
// so route guards may call it synchronously before rendering anything.
func (c *Controller) IsLoggedIn() bool {
	return c.tokens.Get() != ""
}

// DeleteAccount removes the own account on the server and, on success,
// performs a full local logout. On failure the session stays intact but the
// entries a self-delete maps to are still invalidated, because the server
// state is unknown after a failed write.
func (c *Controller) DeleteAccount(ctx context.Context) error {
	if err := c.api.DeleteMe(ctx); err != nil {
		c.cache.Invalidate(cache.Users)
		c.cache.Invalidate(cache.CurrentUser)
		return err
	}
	return c.Logout()
}

// RecoverPassword requests a reset link for the given address. Works
// without a session.
func (c *Controller) RecoverPassword(ctx context.Context, email string) error {
	return c.api.RecoverPassword(ctx, email)
}

// ResetPassword completes a recovery with the token delivered via the reset
// link's query parameter.
func (c *Controller) ResetPassword(ctx context.Context, token, newPassword string) error {
	return c.api.ResetPassword(ctx, token, newPassword)
}
