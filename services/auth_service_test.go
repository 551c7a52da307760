package services

import (
	"context"
	"testing"
	"time"

	"github.com/Pland4r/qcm-creator-hub/logger"
	"github.com/Pland4r/qcm-creator-hub/models"
	"github.com/Pland4r/qcm-creator-hub/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func newAuthService(t *testing.T) (*AuthService, *TokenService, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t)
	client, _ := testutil.NewRedis(t)
	tokens := NewTokenService("test-secret", "qcm-test", time.Hour, NewRedisRevocationStore(client))
	svc := NewAuthService(db, tokens, logger.Discard())
	svc.cost = bcrypt.MinCost
	require.NoError(t, svc.EnsureDefaultRoles(context.Background()))
	return svc, tokens, db
}

func TestEnsureDefaultRoles_Idempotent(t *testing.T) {
	svc, _, db := newAuthService(t)
	require.NoError(t, svc.EnsureDefaultRoles(context.Background()))

	var count int64
	require.NoError(t, db.Model(&models.Role{}).Count(&count).Error)
	assert.EqualValues(t, len(models.DefaultRoles), count)
}

func TestRegister_HashesPasswordAndAssignsDefaultRole(t *testing.T) {
	svc, _, db := newAuthService(t)

	user, err := svc.Register(context.Background(), &RegisterRequest{Username: "alice", Email: "a@x.com", Password: "pw1pw1"})
	require.NoError(t, err)
	require.NotZero(t, user.ID)

	var stored models.User
	require.NoError(t, db.Preload("Roles").First(&stored, user.ID).Error)
	assert.NotEqual(t, "pw1pw1", stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("pw1pw1")))
	assert.Equal(t, []string{models.RoleUser}, stored.RoleNames())
}

func TestRegister_Duplicates(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &RegisterRequest{Username: "alice", Email: "a@x.com", Password: "pw1pw1"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, &RegisterRequest{Username: "alice", Email: "other@x.com", Password: "pw1pw1"})
	assert.ErrorIs(t, err, ErrUsernameTaken)

	_, err = svc.Register(ctx, &RegisterRequest{Username: "alice2", Email: "a@x.com", Password: "pw1pw1"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegister_MissingDefaultRole(t *testing.T) {
	svc, _, db := newAuthService(t)
	require.NoError(t, db.Where("name = ?", models.RoleUser).Delete(&models.Role{}).Error)

	_, err := svc.Register(context.Background(), &RegisterRequest{Username: "alice", Email: "a@x.com", Password: "pw1pw1"})
	assert.ErrorIs(t, err, ErrRoleNotFound)

	var users int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	assert.Zero(t, users)
}

func TestLogin(t *testing.T) {
	svc, tokens, _ := newAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, &RegisterRequest{Username: "alice", Email: "a@x.com", Password: "pw1pw1"})
	require.NoError(t, err)

	resp, err := svc.Login(ctx, &LoginRequest{Username: "alice", Password: "pw1pw1"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", resp.Type)
	assert.Equal(t, user.ID, resp.ID)
	assert.Equal(t, "a@x.com", resp.Email)
	assert.Contains(t, resp.Roles, models.RoleUser)

	claims, err := tokens.Parse(ctx, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "alice", claims.Username)
}

func TestLogin_GenericFailure(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &RegisterRequest{Username: "alice", Email: "a@x.com", Password: "pw1pw1"})
	require.NoError(t, err)

	_, wrongPassword := svc.Login(ctx, &LoginRequest{Username: "alice", Password: "nope"})
	_, unknownUser := svc.Login(ctx, &LoginRequest{Username: "ghost", Password: "pw1pw1"})

	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownUser, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
}

func TestCurrentUser(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, &RegisterRequest{Username: "alice", Email: "a@x.com", Password: "pw1pw1"})
	require.NoError(t, err)

	me, err := svc.CurrentUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", me.Username)
	assert.Equal(t, []string{models.RoleUser}, me.Roles)

	_, err = svc.CurrentUser(ctx, 12345)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestLogout_RevokesToken(t *testing.T) {
	svc, tokens, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &RegisterRequest{Username: "alice", Email: "a@x.com", Password: "pw1pw1"})
	require.NoError(t, err)
	resp, err := svc.Login(ctx, &LoginRequest{Username: "alice", Password: "pw1pw1"})
	require.NoError(t, err)

	claims, err := tokens.Parse(ctx, resp.Token)
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx, claims))

	_, err = tokens.Parse(ctx, resp.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
