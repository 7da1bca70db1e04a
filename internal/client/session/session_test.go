package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/opsdeck/opsdeck/internal/client/api"
	"github.com/opsdeck/opsdeck/internal/client/cache"
	"github.com/opsdeck/opsdeck/internal/client/models"
	"github.com/opsdeck/opsdeck/internal/client/tokenstore"
)

// backend fakes the auth endpoints and records the Authorization header of
// every request it sees.
type backend struct {
	mu          sync.Mutex
	password    string
	token       string
	authHeaders []string
	deleteFails bool
	rejectToken bool
}

func (b *backend) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.authHeaders = append(b.authHeaders, r.Header.Get("Authorization"))

		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/v1/login":
			var in struct {
				Email    string `json:"email"`
				Password string `json:"password"`
			}
			_ = json.NewDecoder(r.Body).Decode(&in)
			if in.Password != b.password {
				w.WriteHeader(http.StatusBadRequest)
				_ = json.NewEncoder(w).Encode(map[string]string{"detail": "incorrect email or password"})
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]string{"access_token": b.token, "token_type": "bearer"})
		case r.Method == http.MethodGet && r.URL.Path == "/api/v1/users/me":
			if b.rejectToken {
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]string{"detail": "could not validate credentials"})
				return
			}
			_ = json.NewEncoder(w).Encode(models.CurrentUser{ID: 1, Email: "admin@example.com", IsActive: true})
		case r.Method == http.MethodDelete && r.URL.Path == "/api/v1/users/me":
			if b.deleteFails {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusOK)
		}
	}
}

func newController(t *testing.T, b *backend) (*Controller, *api.Client, tokenstore.Store, *cache.Cache) {
	t.Helper()
	srv := httptest.NewServer(b.handler())
	t.Cleanup(srv.Close)

	tokens := tokenstore.NewMemStore()
	client := api.New(srv.URL, 5*time.Second, tokens.Get)
	c := cache.New()
	return NewController(tokens, client, c), client, tokens, c
}

func TestIsLoggedIn_TrueStrictlyBetweenLoginAndLogout(t *testing.T) {
	b := &backend{password: "secret", token: "tok-1"}
	ctrl, _, _, _ := newController(t, b)
	ctx := context.Background()

	require.False(t, ctrl.IsLoggedIn())

	require.NoError(t, ctrl.Login(ctx, "admin@example.com", "secret"))
	require.True(t, ctrl.IsLoggedIn())

	require.NoError(t, ctrl.Logout())
	require.False(t, ctrl.IsLoggedIn())
}

func TestLogin_InvalidCredentials(t *testing.T) {
	b := &backend{password: "secret", token: "tok-1"}
	ctrl, _, tokens, c := newController(t, b)
	ctx := context.Background()

	err := ctrl.Login(ctx, "admin@example.com", "wrongpass")

	var ae *api.AuthError
	require.ErrorAs(t, err, &ae)
	require.Equal(t, http.StatusBadRequest, ae.Status)
	require.Equal(t, "", tokens.Get(), "no token may be stored on failure")
	require.Equal(t, cache.Empty, c.State(cache.CurrentUser), "currentUser must remain absent")
}

func TestLogin_StoresTokenThenInvalidatesCurrentUser(t *testing.T) {
	b := &backend{password: "secret", token: "tok-1"}
	ctrl, client, tokens, c := newController(t, b)
	ctx := context.Background()

	// Simulate a previous session's cached current user.
	_, err := c.Read(ctx, cache.CurrentUser, func(ctx context.Context) (any, error) {
		return client.CurrentUser(ctx)
	})
	require.NoError(t, err)

	require.NoError(t, ctrl.Login(ctx, "admin@example.com", "secret"))
	require.Equal(t, "tok-1", tokens.Get())
	require.True(t, c.IsStale(cache.CurrentUser), "login must trigger a current-user refetch")
}

func TestLogout_NextRequestOmitsAuthorization(t *testing.T) {
	b := &backend{password: "secret", token: "tok-1"}
	ctrl, client, _, _ := newController(t, b)
	ctx := context.Background()

	require.NoError(t, ctrl.Login(ctx, "admin@example.com", "secret"))
	_, err := client.CurrentUser(ctx)
	require.NoError(t, err)

	require.NoError(t, ctrl.Logout())
	_, err = client.CurrentUser(ctx)
	require.NoError(t, err)

	b.mu.Lock()
	defer b.mu.Unlock()
	n := len(b.authHeaders)
	require.Equal(t, "Bearer tok-1", b.authHeaders[n-2], "request before logout carries the token")
	require.Equal(t, "", b.authHeaders[n-1], "the very next request after logout must omit it")
}

func TestLogout_NeverCallsServer(t *testing.T) {
	b := &backend{password: "secret", token: "tok-1"}
	ctrl, _, _, _ := newController(t, b)

	require.NoError(t, ctrl.Login(context.Background(), "admin@example.com", "secret"))
	b.mu.Lock()
	before := len(b.authHeaders)
	b.mu.Unlock()

	require.NoError(t, ctrl.Logout())

	b.mu.Lock()
	defer b.mu.Unlock()
	require.Equal(t, before, len(b.authHeaders))
}

func TestDeleteAccount_SuccessClearsSession(t *testing.T) {
	b := &backend{password: "secret", token: "tok-1"}
	ctrl, client, tokens, c := newController(t, b)
	ctx := context.Background()

	require.NoError(t, ctrl.Login(ctx, "admin@example.com", "secret"))
	_, err := c.Read(ctx, cache.CurrentUser, func(ctx context.Context) (any, error) {
		return client.CurrentUser(ctx)
	})
	require.NoError(t, err)

	require.NoError(t, ctrl.DeleteAccount(ctx))
	require.Equal(t, "", tokens.Get())
	require.Equal(t, cache.Empty, c.State(cache.CurrentUser))
	require.False(t, ctrl.IsLoggedIn())
}

func TestDeleteAccount_FailureKeepsSessionButSettles(t *testing.T) {
	b := &backend{password: "secret", token: "tok-1", deleteFails: true}
	ctrl, client, _, c := newController(t, b)
	ctx := context.Background()

	require.NoError(t, ctrl.Login(ctx, "admin@example.com", "secret"))
	_, err := c.Read(ctx, cache.CurrentUser, func(ctx context.Context) (any, error) {
		return client.CurrentUser(ctx)
	})
	require.NoError(t, err)

	err = ctrl.DeleteAccount(ctx)
	var se *api.ServerError
	require.ErrorAs(t, err, &se)
	require.True(t, ctrl.IsLoggedIn(), "failed delete must not log the user out")
	require.True(t, c.IsStale(cache.CurrentUser), "failed delete still settles its entries")
}

func TestHandleAuthRejection_DestroysSessionAfterServerRejectsToken(t *testing.T) {
	b := &backend{password: "secret", token: "tok-1"}
	ctrl, client, tokens, c := newController(t, b)
	ctx := context.Background()

	require.NoError(t, ctrl.Login(ctx, "admin@example.com", "secret"))
	_, err := c.Read(ctx, cache.CurrentUser, func(ctx context.Context) (any, error) {
		return client.CurrentUser(ctx)
	})
	require.NoError(t, err)

	// The token the server once accepted is now rejected, as after an
	// expiry or a server-side revocation.
	b.mu.Lock()
	b.rejectToken = true
	b.mu.Unlock()

	_, err = client.CurrentUser(ctx)
	var ae *api.AuthError
	require.ErrorAs(t, err, &ae)
	require.Equal(t, http.StatusUnauthorized, ae.Status)

	ctrl.HandleAuthRejection()
	require.False(t, ctrl.IsLoggedIn(), "a rejected credential must end the session")
	require.Equal(t, "", tokens.Get(), "the rejected token must be destroyed")
	require.Equal(t, cache.Empty, c.State(cache.CurrentUser), "no cached resource may survive the session")
}

func TestSignUp_RegistersThenLogsIn(t *testing.T) {
	b := &backend{password: "newpw", token: "tok-2"}
	ctrl, _, tokens, _ := newController(t, b)

	require.NoError(t, ctrl.SignUp(context.Background(), "new@example.com", "newpw", "New User"))
	require.Equal(t, "tok-2", tokens.Get())
	require.True(t, ctrl.IsLoggedIn())
}
