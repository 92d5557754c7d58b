package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/motormate/motormate/internal/models"
)

// fakeUsers is an in-memory UserCollection keyed by hex id.
type fakeUsers struct {
	byID map[string]models.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byID: map[string]models.User{}}
}

func (f *fakeUsers) InsertUser(_ context.Context, user models.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	f.byID[user.ID.Hex()] = user
	return nil
}

func (f *fakeUsers) FindUserByID(_ context.Context, id string) (*models.User, error) {
	user, ok := f.byID[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return &user, nil
}

func (f *fakeUsers) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range f.byID {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (f *fakeUsers) UpdateUser(_ context.Context, id string, user models.User) error {
	if _, ok := f.byID[id]; !ok {
		return mongo.ErrNoDocuments
	}
	f.byID[id] = user
	return nil
}

func (f *fakeUsers) UpdateLastLogin(_ context.Context, id string) error {
	user, ok := f.byID[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	now := time.Now()
	user.LastLogin = &now
	f.byID[id] = user
	return nil
}

func newTestAccounts() (*Accounts, *fakeUsers) {
	service, _ := NewService()
	users := newFakeUsers()
	return NewAccounts(users, service), users
}

func TestAccounts_RegisterAndSignIn(t *testing.T) {
	accounts, users := newTestAccounts()
	ctx := context.Background()

	resp, err := accounts.Register(ctx, models.RegisterRequest{
		Email:    "rider@example.com",
		Password: "longenoughpw",
		Mobile:   "9999999999",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "rider@example.com", resp.User.Email)
	assert.Len(t, users.byID, 1)

	// registering signs the session in
	userID, ok := accounts.Session().Current()
	assert.True(t, ok)
	assert.Equal(t, resp.User.ID.Hex(), userID)

	accounts.SignOut()
	_, ok = accounts.Session().Current()
	assert.False(t, ok)

	signed, err := accounts.SignIn(ctx, models.LoginRequest{
		Email:    "rider@example.com",
		Password: "longenoughpw",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, signed.Token)
	assert.NotNil(t, users.byID[signed.User.ID.Hex()].LastLogin)
}

func TestAccounts_RegisterValidation(t *testing.T) {
	accounts, _ := newTestAccounts()
	ctx := context.Background()

	tests := []struct {
		name string
		req  models.RegisterRequest
	}{
		{"bad email", models.RegisterRequest{Email: "nope", Password: "longenoughpw"}},
		{"short password", models.RegisterRequest{Email: "a@b.com", Password: "short"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := accounts.Register(ctx, tt.req)
			assert.Error(t, err)
		})
	}
}

func TestAccounts_RegisterDuplicateEmail(t *testing.T) {
	accounts, _ := newTestAccounts()
	ctx := context.Background()

	_, err := accounts.Register(ctx, models.RegisterRequest{Email: "a@b.com", Password: "longenoughpw"})
	require.NoError(t, err)

	_, err = accounts.Register(ctx, models.RegisterRequest{Email: "a@b.com", Password: "longenoughpw"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestAccounts_SignInWrongCredentials(t *testing.T) {
	accounts, _ := newTestAccounts()
	ctx := context.Background()

	_, err := accounts.Register(ctx, models.RegisterRequest{Email: "a@b.com", Password: "longenoughpw"})
	require.NoError(t, err)
	accounts.SignOut()

	_, err = accounts.SignIn(ctx, models.LoginRequest{Email: "a@b.com", Password: "wrongpassword"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = accounts.SignIn(ctx, models.LoginRequest{Email: "nobody@b.com", Password: "whatever"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// failed sign-ins leave the session signed out
	_, ok := accounts.Session().Current()
	assert.False(t, ok)
}

func TestAccounts_SessionObserver(t *testing.T) {
	accounts, _ := newTestAccounts()
	ctx := context.Background()

	var states []bool
	accounts.Session().OnChange(func(signedIn bool) {
		states = append(states, signedIn)
	})

	_, err := accounts.Register(ctx, models.RegisterRequest{Email: "a@b.com", Password: "longenoughpw"})
	require.NoError(t, err)
	accounts.SignOut()

	assert.Equal(t, []bool{true, false}, states)
}

func TestAccounts_SendPasswordReset(t *testing.T) {
	accounts, users := newTestAccounts()
	ctx := context.Background()

	resp, err := accounts.Register(ctx, models.RegisterRequest{Email: "a@b.com", Password: "longenoughpw"})
	require.NoError(t, err)

	require.NoError(t, accounts.SendPasswordReset(ctx, "a@b.com"))
	assert.NotEmpty(t, users.byID[resp.User.ID.Hex()].ResetToken)

	err = accounts.SendPasswordReset(ctx, "nobody@b.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
