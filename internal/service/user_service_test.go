package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"procurement/internal/authz"
	"procurement/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepo struct {
	users   map[string]*model.User
	refresh map[string]*model.RefreshToken
	resets  map[string]*model.PasswordResetToken
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:   map[string]*model.User{},
		refresh: map[string]*model.RefreshToken{},
		resets:  map[string]*model.PasswordResetToken{},
	}
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	user.ID = uuid.New()
	f.users[user.ID.String()] = user
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, errors.New("record not found")
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, errors.New("record not found")
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, errors.New("record not found")
}

func (f *fakeUserRepo) List(_ context.Context, _, _ int) ([]model.User, int64, error) {
	out := make([]model.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *model.User) error {
	if _, ok := f.users[user.ID.String()]; !ok {
		return errors.New("record not found")
	}
	f.users[user.ID.String()] = user
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id string) error {
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) SetOnline(_ context.Context, id string, online bool) error {
	if u, ok := f.users[id]; ok {
		u.IsOnline = online
	}
	return nil
}

func (f *fakeUserRepo) TouchActivity(_ context.Context, _, _ string) error { return nil }

func (f *fakeUserRepo) CreateRefreshToken(_ context.Context, token *model.RefreshToken) error {
	f.refresh[token.Token] = token
	return nil
}

func (f *fakeUserRepo) GetRefreshToken(_ context.Context, token string) (*model.RefreshToken, error) {
	if t, ok := f.refresh[token]; ok {
		return t, nil
	}
	return nil, errors.New("record not found")
}

func (f *fakeUserRepo) DeleteRefreshToken(_ context.Context, token string) error {
	delete(f.refresh, token)
	return nil
}

func (f *fakeUserRepo) CreateResetToken(_ context.Context, token *model.PasswordResetToken) error {
	token.ID = uuid.New()
	f.resets[token.Token] = token
	return nil
}

func (f *fakeUserRepo) GetResetToken(_ context.Context, token string) (*model.PasswordResetToken, error) {
	if t, ok := f.resets[token]; ok {
		return t, nil
	}
	return nil, errors.New("record not found")
}

func (f *fakeUserRepo) MarkResetTokenUsed(_ context.Context, id string) error {
	for _, t := range f.resets {
		if t.ID.String() == id {
			t.Used = true
			return nil
		}
	}
	return errors.New("record not found")
}

func newUserServiceForTest(repo *fakeUserRepo) UserService {
	return NewUserService(repo, authz.Default(), zap.NewNop())
}

func TestCreateUserSeedsRoleDefaults(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newUserServiceForTest(repo)

	created, err := svc.CreateUser(context.Background(), CreateUserRequest{
		Username: "entry1",
		Password: "secret123",
		FullName: "Entry One",
		Role:     string(authz.RoleDataEntry),
	})
	require.NoError(t, err)

	stored := repo.users[created.ID.String()]
	require.NotEmpty(t, stored.Permissions)

	var bag map[string]bool
	require.NoError(t, json.Unmarshal([]byte(stored.Permissions), &bag))
	assert.True(t, bag["items.create"])
	assert.False(t, bag["items.delete"])
	assert.False(t, bag["users.read"])
}

func TestCreateUserRejectsUnknownRole(t *testing.T) {
	svc := newUserServiceForTest(newFakeUserRepo())

	_, err := svc.CreateUser(context.Background(), CreateUserRequest{
		Username: "ghost",
		Password: "secret123",
		FullName: "Ghost",
		Role:     "auditor",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, authz.ErrUnknownRole)
}

func TestCreateUserRejectsDuplicateUsername(t *testing.T) {
	svc := newUserServiceForTest(newFakeUserRepo())
	ctx := context.Background()

	req := CreateUserRequest{
		Username: "entry1",
		Password: "secret123",
		FullName: "Entry One",
		Role:     string(authz.RoleDataEntry),
	}
	_, err := svc.CreateUser(ctx, req)
	require.NoError(t, err)

	_, err = svc.CreateUser(ctx, req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "username already exists")
}

func TestLoginVerifiesPassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newUserServiceForTest(repo)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, CreateUserRequest{
		Username: "buyer",
		Password: "correct-horse",
		FullName: "Buyer",
		Role:     string(authz.RolePurchasing),
	})
	require.NoError(t, err)

	_, err = svc.Login(ctx, LoginUserRequest{Username: "buyer", Password: "wrong"}, "10.0.0.1")
	require.Error(t, err)

	tokens, err := svc.Login(ctx, LoginUserRequest{Username: "buyer", Password: "correct-horse"}, "10.0.0.1")
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.Token)
	assert.NotEmpty(t, tokens.RefreshToken)

	user, err := repo.GetByUsername(ctx, "buyer")
	require.NoError(t, err)
	assert.True(t, user.IsOnline)
	assert.NotNil(t, user.LastLoginAt)
}

func TestLoginRejectsDisabledAccount(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newUserServiceForTest(repo)
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, CreateUserRequest{
		Username: "old-hand",
		Password: "secret123",
		FullName: "Old Hand",
		Role:     string(authz.RoleAccounting),
	})
	require.NoError(t, err)
	repo.users[created.ID.String()].IsActive = false

	_, err = svc.Login(ctx, LoginUserRequest{Username: "old-hand", Password: "secret123"}, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disabled")
}

func TestGetProfileReportsPermissionsAndSections(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newUserServiceForTest(repo)
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, CreateUserRequest{
		Username: "entry2",
		Password: "secret123",
		FullName: "Entry Two",
		Role:     string(authz.RoleDataEntry),
	})
	require.NoError(t, err)

	profile, err := svc.GetProfile(ctx, created.ID.String())
	require.NoError(t, err)
	assert.True(t, profile.Permissions["quotations.create"])
	assert.Equal(t, []authz.Section{
		authz.SectionQuotations, authz.SectionItems, authz.SectionReports,
	}, profile.Sections)
}

func TestUpdateUserRoleChangeReseedsPermissions(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newUserServiceForTest(repo)
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, CreateUserRequest{
		Username: "mover",
		Password: "secret123",
		FullName: "Mover",
		Role:     string(authz.RoleDataEntry),
	})
	require.NoError(t, err)

	_, err = svc.UpdateUser(ctx, created.ID.String(), UpdateUserRequest{
		Role: string(authz.RolePurchasing),
	})
	require.NoError(t, err)

	var bag map[string]bool
	require.NoError(t, json.Unmarshal([]byte(repo.users[created.ID.String()].Permissions), &bag))
	assert.True(t, bag["purchase_orders.create"])
	assert.False(t, bag["quotations.create"]) // data entry grant gone
}

func TestUpdatePermissionsValidatesCodes(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newUserServiceForTest(repo)
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, CreateUserRequest{
		Username: "target",
		Password: "secret123",
		FullName: "Target",
		Role:     string(authz.RoleDataEntry),
	})
	require.NoError(t, err)
	id := created.ID.String()

	err = svc.UpdatePermissions(ctx, id, authz.PermissionSet{"widgets.read": true})
	assert.ErrorIs(t, err, authz.ErrUnknownResource)

	err = svc.UpdatePermissions(ctx, id, authz.PermissionSet{"users.export": true})
	assert.ErrorIs(t, err, authz.ErrUnknownAction)

	err = svc.UpdatePermissions(ctx, id, authz.PermissionSet{"purchase_orders.delete": true})
	require.NoError(t, err)

	perms, err := svc.GetPermissions(ctx, id)
	require.NoError(t, err)
	assert.True(t, perms["purchase_orders.delete"])
}

func TestResetPasswordRehashes(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newUserServiceForTest(repo)
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, CreateUserRequest{
		Username: "resettee",
		Password: "original1",
		FullName: "Resettee",
		Role:     string(authz.RoleManager),
	})
	require.NoError(t, err)

	require.NoError(t, svc.ResetPassword(ctx, created.ID.String(), ResetPasswordRequest{NewPassword: "changed99"}))

	stored := repo.users[created.ID.String()]
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("changed99")))
	assert.Error(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("original1")))
}

func TestGetPermissionsLogsMalformedOverride(t *testing.T) {
	repo := newFakeUserRepo()
	core, logs := observer.New(zap.ErrorLevel)
	svc := NewUserService(repo, authz.Default(), zap.New(core))
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, CreateUserRequest{
		Username: "scrambled",
		Password: "secret123",
		FullName: "Scrambled",
		Role:     string(authz.RoleManager),
	})
	require.NoError(t, err)
	id := created.ID.String()
	repo.users[id].Permissions = `{"items.read": tru`

	perms, err := svc.GetPermissions(ctx, id)
	require.NoError(t, err)

	// Fallback still serves the role defaults.
	assert.True(t, perms[authz.Code(authz.ResourceItems, authz.ActionRead)])
	assert.True(t, perms[authz.Code(authz.ResourceItems, authz.ActionDelete)])

	// And the broken bag is visible to operators.
	require.Equal(t, 1, logs.Len())
	assert.Contains(t, logs.All()[0].Message, "malformed permission override")
}

func TestForgotPasswordRoundTrip(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newUserServiceForTest(repo)
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, CreateUserRequest{
		Username: "forgetful",
		Password: "original1",
		FullName: "Forgetful",
		Email:    "forgetful@example.com",
		Role:     string(authz.RoleDataEntry),
	})
	require.NoError(t, err)

	token, err := svc.ForgotPassword(ctx, ForgotPasswordRequest{Email: "forgetful@example.com"})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	issued := repo.resets[token]
	require.NotNil(t, issued)
	assert.Equal(t, created.ID, issued.UserID)
	assert.False(t, issued.Used)

	require.NoError(t, svc.RedeemPasswordReset(ctx, RedeemPasswordResetRequest{
		Token:       token,
		NewPassword: "reborn77",
	}))

	stored := repo.users[created.ID.String()]
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("reborn77")))
	assert.True(t, issued.Used)

	// A redeemed token is spent.
	err = svc.RedeemPasswordReset(ctx, RedeemPasswordResetRequest{
		Token:       token,
		NewPassword: "again888",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already used")
}

func TestForgotPasswordRejectsUnknownAndDisabled(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newUserServiceForTest(repo)
	ctx := context.Background()

	_, err := svc.ForgotPassword(ctx, ForgotPasswordRequest{Email: "nobody@example.com"})
	require.Error(t, err)

	created, err := svc.CreateUser(ctx, CreateUserRequest{
		Username: "dormant",
		Password: "original1",
		FullName: "Dormant",
		Email:    "dormant@example.com",
		Role:     string(authz.RoleAccounting),
	})
	require.NoError(t, err)
	repo.users[created.ID.String()].IsActive = false

	_, err = svc.ForgotPassword(ctx, ForgotPasswordRequest{Email: "dormant@example.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disabled")
}

func TestRedeemPasswordResetRejectsExpiredToken(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newUserServiceForTest(repo)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, CreateUserRequest{
		Username: "latecomer",
		Password: "original1",
		FullName: "Latecomer",
		Email:    "latecomer@example.com",
		Role:     string(authz.RolePurchasing),
	})
	require.NoError(t, err)

	token, err := svc.ForgotPassword(ctx, ForgotPasswordRequest{Email: "latecomer@example.com"})
	require.NoError(t, err)

	repo.resets[token].ExpiresAt = time.Now().Add(-time.Minute)

	err = svc.RedeemPasswordReset(ctx, RedeemPasswordResetRequest{
		Token:       token,
		NewPassword: "tooLate99",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expired")
}
