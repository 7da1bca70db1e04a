package services

import (
	"context"
	"database/sql"
	"sort"
	"sync"

	"github.com/opsdeck/opsdeck/internal/common"
	"github.com/opsdeck/opsdeck/internal/dbx"
	"github.com/opsdeck/opsdeck/internal/server/models"
	itemsrepo "github.com/opsdeck/opsdeck/internal/server/repositories/items"
	usersrepo "github.com/opsdeck/opsdeck/internal/server/repositories/users"
)

// --- in-memory repositories for service tests ---

type memUsers struct {
	mu   sync.Mutex
	seq  int64
	byID map[int64]*models.User
}

func newMemUsers() *memUsers {
	return &memUsers{byID: map[int64]*models.User{}}
}

func copyUser(u *models.User) *models.User {
	c := *u
	return &c
}

func (m *memUsers) emailTaken(email string, exceptID int64) bool {
	for _, u := range m.byID {
		if u.Email == email && u.ID != exceptID {
			return true
		}
	}
	return false
}

func (m *memUsers) Create(ctx context.Context, user *models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.emailTaken(user.Email, 0) {
		return nil, common.ErrorAlreadyExists
	}
	m.seq++
	user.ID = m.seq
	m.byID[user.ID] = copyUser(user)
	return user, nil
}

func (m *memUsers) GetByID(ctx context.Context, id int64) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return copyUser(u), nil
}

func (m *memUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, common.ErrorNotFound
}

func (m *memUsers) List(ctx context.Context, skip, limit int64) ([]*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []*models.User
	for _, u := range m.byID {
		all = append(all, copyUser(u))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	if skip >= int64(len(all)) {
		return nil, nil
	}
	all = all[skip:]
	if limit < int64(len(all)) {
		all = all[:limit]
	}
	return all, nil
}

func (m *memUsers) Count(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.byID)), nil
}

func (m *memUsers) Update(ctx context.Context, user *models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[user.ID]; !ok {
		return nil, common.ErrorNotFound
	}
	if m.emailTaken(user.Email, user.ID) {
		return nil, common.ErrorAlreadyExists
	}
	m.byID[user.ID] = copyUser(user)
	return user, nil
}

func (m *memUsers) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return common.ErrorNotFound
	}
	delete(m.byID, id)
	return nil
}

type memItems struct {
	mu   sync.Mutex
	seq  int64
	byID map[int64]*models.Item
}

func newMemItems() *memItems {
	return &memItems{byID: map[int64]*models.Item{}}
}

func copyItem(i *models.Item) *models.Item {
	c := *i
	return &c
}

func (m *memItems) Create(ctx context.Context, item *models.Item) (*models.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	item.ID = m.seq
	m.byID[item.ID] = copyItem(item)
	return item, nil
}

func (m *memItems) GetByID(ctx context.Context, id int64) (*models.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i, ok := m.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return copyItem(i), nil
}

func (m *memItems) list(filter func(*models.Item) bool, skip, limit int64) []*models.Item {
	var all []*models.Item
	for _, i := range m.byID {
		if filter(i) {
			all = append(all, copyItem(i))
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	if skip >= int64(len(all)) {
		return nil
	}
	all = all[skip:]
	if limit < int64(len(all)) {
		all = all[:limit]
	}
	return all
}

func (m *memItems) ListAll(ctx context.Context, skip, limit int64) ([]*models.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.list(func(*models.Item) bool { return true }, skip, limit), nil
}

func (m *memItems) CountAll(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.byID)), nil
}

func (m *memItems) ListByOwner(ctx context.Context, ownerID, skip, limit int64) ([]*models.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.list(func(i *models.Item) bool { return i.OwnerID == ownerID }, skip, limit), nil
}

func (m *memItems) CountByOwner(ctx context.Context, ownerID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, i := range m.byID {
		if i.OwnerID == ownerID {
			n++
		}
	}
	return n, nil
}

func (m *memItems) Update(ctx context.Context, item *models.Item) (*models.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[item.ID]; !ok {
		return nil, common.ErrorNotFound
	}
	m.byID[item.ID] = copyItem(item)
	return item, nil
}

func (m *memItems) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return common.ErrorNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *memItems) DeleteByOwner(ctx context.Context, ownerID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, i := range m.byID {
		if i.OwnerID == ownerID {
			delete(m.byID, id)
		}
	}
	return nil
}

// fakeRepoManager hands out the in-memory repositories regardless of the
// DBTX it is given.
type fakeRepoManager struct {
	users *memUsers
	items *memItems
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{users: newMemUsers(), items: newMemItems()}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository       { return m.users }
func (m *fakeRepoManager) Items(db dbx.DBTX) itemsrepo.Repository       { return m.items }

// fakeMailer records sent recovery messages.
type fakeMailer struct {
	mu    sync.Mutex
	to    []string
	links []string
	err   error
}

func (f *fakeMailer) SendPasswordReset(ctx context.Context, email, link string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.to = append(f.to, email)
	f.links = append(f.links, link)
	return nil
}
