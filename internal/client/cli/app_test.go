package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/opsdeck/opsdeck/internal/client/models"
)

// stubInputs replaces the terminal prompts. Text answers are served in
// order; every password prompt returns password.
func stubInputs(t *testing.T, password string, answers ...string) {
	t.Helper()
	origST, origGP := getSimpleText, getPassword

	i := 0
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		if i >= len(answers) {
			return "", io.EOF
		}
		a := answers[i]
		i++
		return a, nil
	}
	getPassword = func(_ io.Writer, _ string) (string, error) { return password, nil }

	t.Cleanup(func() {
		getSimpleText = origST
		getPassword = origGP
	})
}

// fakeSession records calls and serves canned results.
type fakeSession struct {
	loggedIn bool

	loginEmail    string
	loginPassword string
	loginErr      error

	signUpEmail string
	signUpErr   error

	logoutCalled bool
	rejectCalled bool
	deleteCalled bool
	deleteErr    error

	recoverEmail string
	resetToken   string
}

func (f *fakeSession) Login(_ context.Context, email, password string) error {
	f.loginEmail, f.loginPassword = email, password
	if f.loginErr == nil {
		f.loggedIn = true
	}
	return f.loginErr
}

func (f *fakeSession) SignUp(_ context.Context, email, password, fullName string) error {
	f.signUpEmail = email
	return f.signUpErr
}

func (f *fakeSession) Logout() error {
	f.logoutCalled = true
	f.loggedIn = false
	return nil
}

func (f *fakeSession) HandleAuthRejection() {
	f.rejectCalled = true
	f.loggedIn = false
}

func (f *fakeSession) IsLoggedIn() bool { return f.loggedIn }

func (f *fakeSession) DeleteAccount(context.Context) error {
	f.deleteCalled = true
	if f.deleteErr == nil {
		f.loggedIn = false
	}
	return f.deleteErr
}

func (f *fakeSession) RecoverPassword(_ context.Context, email string) error {
	f.recoverEmail = email
	return nil
}

func (f *fakeSession) ResetPassword(_ context.Context, token, _ string) error {
	f.resetToken = token
	return nil
}

// fakeStore records mutations and serves canned lists.
type fakeStore struct {
	me    models.CurrentUser
	meErr error
	users models.UserList
	items models.ItemList

	createdItem  *models.ItemCreate
	createdUser  *models.UserCreate
	deletedItem  int64
	passwordOld  string
	passwordNew  string
	updateMeSeen *models.UserUpdateMe
}

func (f *fakeStore) CurrentUser(context.Context) (models.CurrentUser, error) {
	return f.me, f.meErr
}
func (f *fakeStore) Users(context.Context) (models.UserList, error)          { return f.users, nil }
func (f *fakeStore) Items(context.Context) (models.ItemList, error)          { return f.items, nil }

func (f *fakeStore) CreateUser(_ context.Context, in models.UserCreate) error {
	f.createdUser = &in
	return nil
}
func (f *fakeStore) UpdateUser(context.Context, int64, models.UserUpdate) error { return nil }
func (f *fakeStore) DeleteUser(context.Context, int64) error                    { return nil }

func (f *fakeStore) CreateItem(_ context.Context, in models.ItemCreate) error {
	f.createdItem = &in
	return nil
}
func (f *fakeStore) UpdateItem(context.Context, int64, models.ItemUpdate) error { return nil }
func (f *fakeStore) DeleteItem(_ context.Context, id int64) error {
	f.deletedItem = id
	return nil
}

func (f *fakeStore) UpdateMe(_ context.Context, in models.UserUpdateMe) error {
	f.updateMeSeen = &in
	return nil
}

func (f *fakeStore) ChangePassword(_ context.Context, current, newPassword string) error {
	f.passwordOld, f.passwordNew = current, newPassword
	return nil
}

func newTestApp(sess *fakeSession, store *fakeStore) (*App, *bytes.Buffer) {
	var buf bytes.Buffer
	return &App{
		session: sess,
		store:   store,
		guard:   NewGuard(sess),
		reader:  bufio.NewReader(strings.NewReader("")),
		out:     &buf,
	}, &buf
}
