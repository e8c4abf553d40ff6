package services

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
	"github.com/Dosada05/league-system/utils"
)

type stubUserRepo struct {
	repositories.UserRepository
	created   *models.User
	createErr error
	byEmail   *models.User
	getErr    error
}

func (s *stubUserRepo) Create(_ context.Context, _ repositories.SQLExecutor, user *models.User) error {
	if s.createErr != nil {
		return s.createErr
	}
	user.ID = 1
	s.created = user
	return nil
}

func (s *stubUserRepo) GetByEmail(context.Context, repositories.SQLExecutor, string) (*models.User, error) {
	return s.byEmail, s.getErr
}

func TestRegisterNormalizesEmail(t *testing.T) {
	repo := &stubUserRepo{}
	svc := &authService{userRepo: repo, jwtSecret: []byte("test-secret")}

	user, token, err := svc.Register(context.Background(), RegisterInput{
		Email:    "  Fan@Example.COM ",
		Nickname: " supporter ",
		Password: "correct horse",
	})
	require.NoError(t, err)
	assert.Equal(t, "fan@example.com", user.Email)
	assert.Equal(t, "supporter", user.Nickname)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.NotEmpty(t, token)

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, claims["user_id"])
	assert.Equal(t, string(models.RoleUser), claims["role"])
}

func TestRegisterValidation(t *testing.T) {
	svc := &authService{userRepo: &stubUserRepo{}, jwtSecret: []byte("x")}

	_, _, err := svc.Register(context.Background(), RegisterInput{Email: "not-an-email", Password: "long enough"})
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, _, err = svc.Register(context.Background(), RegisterInput{Email: "a@b.c", Password: "short"})
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestRegisterEmailConflict(t *testing.T) {
	repo := &stubUserRepo{createErr: repositories.ErrUserEmailConflict}
	svc := &authService{userRepo: repo, jwtSecret: []byte("x")}

	_, _, err := svc.Register(context.Background(), RegisterInput{Email: "a@b.c", Password: "long enough"})
	assert.ErrorIs(t, err, repositories.ErrUserEmailConflict)
}

func TestLogin(t *testing.T) {
	hash, err := utils.HashPassword("open sesame")
	require.NoError(t, err)

	repo := &stubUserRepo{byEmail: &models.User{ID: 3, Email: "a@b.c", PasswordHash: hash, Role: models.RoleUser}}
	svc := &authService{userRepo: repo, jwtSecret: []byte("x")}

	user, token, err := svc.Login(context.Background(), LoginInput{Email: "A@B.C", Password: "open sesame"})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Empty(t, user.PasswordHash, "hash never leaves the service")

	_, _, err = svc.Login(context.Background(), LoginInput{Email: "a@b.c", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	svc = &authService{userRepo: &stubUserRepo{getErr: repositories.ErrUserNotFound}, jwtSecret: []byte("x")}
	_, _, err = svc.Login(context.Background(), LoginInput{Email: "ghost@b.c", Password: "whatever"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
