package cli

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/opsdeck/opsdeck/internal/client/api"
	"github.com/opsdeck/opsdeck/internal/client/models"
)

func TestLogin_PassesPromptedCredentials(t *testing.T) {
	stubInputs(t, "s3cret", "admin@example.com")
	sess := &fakeSession{}
	a, buf := newTestApp(sess, &fakeStore{})

	require.NoError(t, a.Login(context.Background()))
	require.Equal(t, "admin@example.com", sess.loginEmail)
	require.Equal(t, "s3cret", sess.loginPassword)
	require.Contains(t, buf.String(), "Logged in as admin@example.com")
}

func TestDispatch_GuardedCommandRedirectsWhenLoggedOut(t *testing.T) {
	stubInputs(t, "pw", "user@example.com")
	sess := &fakeSession{loginErr: context.DeadlineExceeded}
	store := &fakeStore{items: models.ItemList{Data: []models.Item{{ID: 1, Title: "secret-item"}}, Count: 1}}
	a, buf := newTestApp(sess, store)

	a.Dispatch(context.Background(), "items")

	require.NotContains(t, buf.String(), "secret-item", "no protected content before authentication")
	require.Contains(t, buf.String(), "Please log in first")
}

func TestDispatch_ItemsListsAfterLogin(t *testing.T) {
	sess := &fakeSession{loggedIn: true}
	store := &fakeStore{items: models.ItemList{Data: []models.Item{{ID: 1, Title: "Foo"}}, Count: 1}}
	a, buf := newTestApp(sess, store)

	a.Dispatch(context.Background(), "items")
	require.Contains(t, buf.String(), "Foo")
}

func TestAddItem_SubmitsPromptedFields(t *testing.T) {
	stubInputs(t, "", "Foo", "a description")
	sess := &fakeSession{loggedIn: true}
	store := &fakeStore{}
	a, _ := newTestApp(sess, store)

	a.Dispatch(context.Background(), "itemadd")

	require.NotNil(t, store.createdItem)
	require.Equal(t, "Foo", store.createdItem.Title)
	require.Equal(t, "a description", store.createdItem.Description)
}

func TestDeleteItem_ConfirmationRequired(t *testing.T) {
	stubInputs(t, "", "7", "n")
	sess := &fakeSession{loggedIn: true}
	store := &fakeStore{}
	a, buf := newTestApp(sess, store)

	a.Dispatch(context.Background(), "itemdel")

	require.Zero(t, store.deletedItem, "declined confirmation must not delete")
	require.Contains(t, buf.String(), "Cancelled")
}

func TestDeleteItem_Confirmed(t *testing.T) {
	stubInputs(t, "", "7", "y")
	sess := &fakeSession{loggedIn: true}
	store := &fakeStore{}
	a, _ := newTestApp(sess, store)

	a.Dispatch(context.Background(), "itemdel")
	require.Equal(t, int64(7), store.deletedItem)
}

func TestChangePassword_SubmitsBothPasswords(t *testing.T) {
	stubInputs(t, "samepw")
	sess := &fakeSession{loggedIn: true}
	store := &fakeStore{}
	a, _ := newTestApp(sess, store)

	a.Dispatch(context.Background(), "passwd")
	require.Equal(t, "samepw", store.passwordOld)
	require.Equal(t, "samepw", store.passwordNew)
}

func TestAccountDelete_Confirmed(t *testing.T) {
	stubInputs(t, "", "y")
	sess := &fakeSession{loggedIn: true}
	a, buf := newTestApp(sess, &fakeStore{})

	a.Dispatch(context.Background(), "account-delete")

	require.True(t, sess.deleteCalled)
	require.False(t, sess.IsLoggedIn())
	require.Contains(t, buf.String(), "Account deleted")
}

func TestLogout_Dispatch(t *testing.T) {
	sess := &fakeSession{loggedIn: true}
	a, buf := newTestApp(sess, &fakeStore{})

	a.Dispatch(context.Background(), "logout")
	require.True(t, sess.logoutCalled)
	require.Contains(t, buf.String(), "Logged out")
}

func TestDispatch_ServerRejectsStoredTokenForcesLogout(t *testing.T) {
	sess := &fakeSession{loggedIn: true}
	store := &fakeStore{meErr: &api.AuthError{Status: http.StatusUnauthorized, Detail: "could not validate credentials"}}
	a, buf := newTestApp(sess, store)

	a.Dispatch(context.Background(), "whoami")

	require.True(t, sess.rejectCalled, "a 401 on a stored token must destroy the session")
	require.False(t, sess.IsLoggedIn())
	require.Contains(t, buf.String(), "logged out")
}

func TestLogin_RejectedCredentialsDoNotForceLogout(t *testing.T) {
	stubInputs(t, "wrongpw", "admin@example.com")
	sess := &fakeSession{loginErr: &api.AuthError{Status: http.StatusBadRequest, Detail: "incorrect email or password"}}
	a, buf := newTestApp(sess, &fakeStore{})

	require.Error(t, a.Login(context.Background()))
	require.False(t, sess.rejectCalled, "a failed login has no session to destroy")
	require.Contains(t, buf.String(), "Not allowed: incorrect email or password")
}

func TestWhoami_PrintsCurrentUser(t *testing.T) {
	sess := &fakeSession{loggedIn: true}
	store := &fakeStore{me: models.CurrentUser{ID: 3, Email: "me@example.com", FullName: "Me Myself", IsSuperuser: true}}
	a, buf := newTestApp(sess, store)

	a.Dispatch(context.Background(), "whoami")
	out := buf.String()
	require.Contains(t, out, "me@example.com")
	require.Contains(t, out, "Me Myself")
	require.Contains(t, out, "superuser")
}
