// Package resources binds cache keys to their API fetches and routes
// mutation settlement to the cache entries each mutation affects. It is the
// only layer that issues invalidations; readers never mutate.
package resources

import (
	"context"

	"github.com/opsdeck/opsdeck/internal/client/api"
	"github.com/opsdeck/opsdeck/internal/client/cache"
	"github.com/opsdeck/opsdeck/internal/client/models"
)

// Mutation is the closed set of write operations the client performs. Each
// value knows which cache entries it touches, so settlement never branches
// on resource-name strings.
type Mutation int

const (
	// MutationUserWrite: create/update/delete of a user record.
	MutationUserWrite Mutation = iota
	// MutationItemWrite: create/update/delete of an item record.
	MutationItemWrite
	// MutationSelfWrite: update-me or password change.
	MutationSelfWrite
	// MutationSelfDelete: deletion of the own account.
	MutationSelfDelete
)

// Keys returns the cache entries invalidated when the mutation settles.
func (m Mutation) Keys() []cache.Key {
	switch m {
	case MutationUserWrite:
		return []cache.Key{cache.Users}
	case MutationItemWrite:
		return []cache.Key{cache.Items}
	case MutationSelfWrite:
		return []cache.Key{cache.Users, cache.CurrentUser}
	case MutationSelfDelete:
		// The user list is invalidated too: a superuser viewing it would
		// otherwise keep seeing the deleted row.
		return []cache.Key{cache.Users, cache.CurrentUser}
	default:
		return nil
	}
}

// Store exposes cached reads and settling mutations over the API client.
type Store struct {
	api   *api.Client
	cache *cache.Cache
}

func NewStore(client *api.Client, c *cache.Cache) *Store {
	return &Store{api: client, cache: c}
}

// settle invalidates the mutation's entries. It runs on success and on
// failure alike: after a failed write the server state is unknown, so the
// cached copy cannot be trusted either.
func (s *Store) settle(m Mutation) {
	for _, k := range m.Keys() {
		s.cache.Invalidate(k)
	}
}

func read[T any](ctx context.Context, c *cache.Cache, key cache.Key, fetch func(context.Context) (T, error)) (T, error) {
	v, err := c.Read(ctx, key, func(ctx context.Context) (any, error) {
		return fetch(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// CurrentUser reads the authenticated account through the cache.
func (s *Store) CurrentUser(ctx context.Context) (models.CurrentUser, error) {
	return read(ctx, s.cache, cache.CurrentUser, s.api.CurrentUser)
}

// Users reads the user collection through the cache.
func (s *Store) Users(ctx context.Context) (models.UserList, error) {
	return read(ctx, s.cache, cache.Users, s.api.ListUsers)
}

// Items reads the item collection through the cache.
func (s *Store) Items(ctx context.Context) (models.ItemList, error) {
	return read(ctx, s.cache, cache.Items, s.api.ListItems)
}

// CreateUser issues the write and settles the users entry.
func (s *Store) CreateUser(ctx context.Context, in models.UserCreate) error {
	err := s.api.CreateUser(ctx, in)
	s.settle(MutationUserWrite)
	return err
}

func (s *Store) UpdateUser(ctx context.Context, id int64, in models.UserUpdate) error {
	err := s.api.UpdateUser(ctx, id, in)
	s.settle(MutationUserWrite)
	return err
}

func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	err := s.api.DeleteUser(ctx, id)
	s.settle(MutationUserWrite)
	return err
}

func (s *Store) CreateItem(ctx context.Context, in models.ItemCreate) error {
	err := s.api.CreateItem(ctx, in)
	s.settle(MutationItemWrite)
	return err
}

func (s *Store) UpdateItem(ctx context.Context, id int64, in models.ItemUpdate) error {
	err := s.api.UpdateItem(ctx, id, in)
	s.settle(MutationItemWrite)
	return err
}

func (s *Store) DeleteItem(ctx context.Context, id int64) error {
	err := s.api.DeleteItem(ctx, id)
	s.settle(MutationItemWrite)
	return err
}

// UpdateMe patches the own account and settles both the user list and the
// current-user entry.
func (s *Store) UpdateMe(ctx context.Context, in models.UserUpdateMe) error {
	err := s.api.UpdateMe(ctx, in)
	s.settle(MutationSelfWrite)
	return err
}

// ChangePassword changes the own password. The current-user entry is
// settled like any self-write even though the visible fields are unchanged.
func (s *Store) ChangePassword(ctx context.Context, current, newPassword string) error {
	err := s.api.UpdatePassword(ctx, current, newPassword)
	s.settle(MutationSelfWrite)
	return err
}
