package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/sangkips/laundry-pos/pkg/apperror"
	"github.com/sangkips/laundry-pos/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthFixture() (*AuthService, *UserService, *fakeUserRepo, *utils.JWTManager) {
	roles := newFakeRoleRepo("admin", "manager", DefaultRole, "workshop")
	users := newFakeUserRepo(roles)
	jwt := utils.NewJWTManager("test-secret", 15*time.Minute, time.Hour)
	return NewAuthService(users, roles, jwt), NewUserService(users, roles), users, jwt
}

func TestAuth_RegisterAssignsCashierRole(t *testing.T) {
	auth, _, _, _ := newAuthFixture()

	user, err := auth.Register(context.Background(), &RegisterInput{
		FirstName: "Wanjiru",
		Email:     "  Wanjiru@Example.com ",
		Password:  "s3cret-pass",
	})
	require.NoError(t, err)

	assert.Equal(t, "wanjiru@example.com", user.Email)
	assert.NotEqual(t, "s3cret-pass", user.Password)
	assert.Equal(t, []string{DefaultRole}, user.RoleNames())

	_, err = auth.Register(context.Background(), &RegisterInput{FirstName: "Again", Email: "wanjiru@example.com", Password: "another-pass"})
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, apperror.GetAppError(err).Code)
}

func TestAuth_RegisterValidation(t *testing.T) {
	auth, _, _, _ := newAuthFixture()

	_, err := auth.Register(context.Background(), &RegisterInput{Email: "nope", Password: "short"})

	assert.ElementsMatch(t, []string{"email", "first_name", "password"}, fieldNames(t, err))
}

func TestAuth_LoginAndRefresh(t *testing.T) {
	auth, _, _, jwt := newAuthFixture()
	ctx := context.Background()
	_, err := auth.Register(ctx, &RegisterInput{FirstName: "Wanjiru", Email: "w@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)

	_, err = auth.Login(ctx, &LoginInput{Email: "w@example.com", Password: "wrong-pass"})
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)

	out, err := auth.Login(ctx, &LoginInput{Email: "W@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)
	assert.Equal(t, int64(900), out.ExpiresIn)

	claims, err := jwt.ValidateAccessToken(out.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, out.User.ID, claims.UserID)
	assert.Contains(t, claims.Roles, DefaultRole)

	_, err = jwt.ValidateAccessToken(out.RefreshToken)
	assert.Error(t, err)

	refreshed, err := auth.RefreshToken(ctx, out.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	_, err = auth.RefreshToken(ctx, out.AccessToken)
	assert.Error(t, err)
}

func TestAuth_DisabledAccountCannotLogin(t *testing.T) {
	auth, users, _, _ := newAuthFixture()
	ctx := context.Background()
	user, err := auth.Register(ctx, &RegisterInput{FirstName: "Kamau", Email: "k@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)

	_, err = users.SetActive(ctx, user.ID, false)
	require.NoError(t, err)

	_, err = auth.Login(ctx, &LoginInput{Email: "k@example.com", Password: "s3cret-pass"})
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, apperror.GetAppError(err).Code)
}

func TestAuth_ChangePassword(t *testing.T) {
	auth, _, _, _ := newAuthFixture()
	ctx := context.Background()
	user, err := auth.Register(ctx, &RegisterInput{FirstName: "Kamau", Email: "k@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)

	err = auth.ChangePassword(ctx, &ChangePasswordInput{UserID: user.ID, CurrentPassword: "bad", NewPassword: "new-s3cret"})
	assert.Equal(t, []string{"current_password"}, fieldNames(t, err))

	err = auth.ChangePassword(ctx, &ChangePasswordInput{UserID: user.ID, CurrentPassword: "s3cret-pass", NewPassword: "tiny"})
	assert.Equal(t, []string{"new_password"}, fieldNames(t, err))

	require.NoError(t, auth.ChangePassword(ctx, &ChangePasswordInput{UserID: user.ID, CurrentPassword: "s3cret-pass", NewPassword: "new-s3cret"}))
	_, err = auth.Login(ctx, &LoginInput{Email: "k@example.com", Password: "new-s3cret"})
	assert.NoError(t, err)
}
