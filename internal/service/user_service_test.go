package service

import (
	"context"
	"testing"

	"mcc-backend/internal/middleware"
	"mcc-backend/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fakeUserRepo struct {
	byUsername map[string]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byUsername: map[string]*model.User{}}
}

func (f *fakeUserRepo) add(username, password, role string, active bool) *model.User {
	hashed, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	user := &model.User{
		ID:       uuid.New(),
		Username: username,
		Password: string(hashed),
		Name:     username,
		Role:     role,
		Active:   active,
	}
	f.byUsername[username] = user
	return user
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	f.byUsername[user.Username] = user
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	for _, u := range f.byUsername {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	u, ok := f.byUsername[username]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) List(_ context.Context, page, limit int) ([]model.User, int64, error) {
	var out []model.User
	for _, u := range f.byUsername {
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *model.User) error {
	f.byUsername[user.Username] = user
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	for name, u := range f.byUsername {
		if u.ID == id {
			delete(f.byUsername, name)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func newUserTestService() (*fakeUserRepo, *fakeAuditRepo, UserService) {
	userRepo := newFakeUserRepo()
	audit := &fakeAuditRepo{}
	return userRepo, audit, NewUserService(userRepo, audit, fakeTxManager{})
}

func TestLogin(t *testing.T) {
	userRepo, _, svc := newUserTestService()
	userRepo.add("admin", "admin123", model.RoleAdmin, true)

	res, err := svc.Login(context.Background(), LoginRequest{Username: "admin", Password: "admin123"})
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)
	assert.Equal(t, "admin", res.User.Username)
	assert.Equal(t, model.RoleAdmin, res.User.Role)

	// Token carries identity claims and verifies against the configured secret
	token, err := jwt.Parse(res.Token, func(token *jwt.Token) (interface{}, error) {
		return middleware.GetJWTSecret(), nil
	})
	require.NoError(t, err)
	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, "admin", claims["username"])
	assert.Equal(t, model.RoleAdmin, claims["role"])
}

func TestLogin_WrongPassword(t *testing.T) {
	userRepo, _, svc := newUserTestService()
	userRepo.add("admin", "admin123", model.RoleAdmin, true)

	_, err := svc.Login(context.Background(), LoginRequest{Username: "admin", Password: "nope"})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestLogin_UnknownUser(t *testing.T) {
	_, _, svc := newUserTestService()

	_, err := svc.Login(context.Background(), LoginRequest{Username: "ghost", Password: "whatever"})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestLogin_InactiveUser(t *testing.T) {
	userRepo, _, svc := newUserTestService()
	userRepo.add("retired", "secreto", model.RoleUser, false)

	_, err := svc.Login(context.Background(), LoginRequest{Username: "retired", Password: "secreto"})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestCreateUser(t *testing.T) {
	userRepo, audit, svc := newUserTestService()

	res, err := svc.CreateUser(context.Background(), CreateUserRequest{
		Username: "usuario1",
		Password: "secreto123",
		Name:     "Usuario Uno",
		Role:     model.RoleUser,
	}, testActorID)
	require.NoError(t, err)
	assert.Equal(t, "usuario1", res.Username)
	assert.True(t, res.Active)

	// Password is stored hashed, never verbatim
	stored := userRepo.byUsername["usuario1"]
	require.NotNil(t, stored)
	assert.NotEqual(t, "secreto123", stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("secreto123")))

	require.Len(t, audit.entries, 1)
	assert.Equal(t, model.ActionCreateUser, audit.entries[0].Action)
}

func TestCreateUser_InvalidRole(t *testing.T) {
	_, _, svc := newUserTestService()

	_, err := svc.CreateUser(context.Background(), CreateUserRequest{
		Username: "usuario1",
		Password: "secreto123",
		Name:     "Usuario Uno",
		Role:     "superadmin",
	}, testActorID)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	userRepo, _, svc := newUserTestService()
	userRepo.add("admin", "admin123", model.RoleAdmin, true)

	_, err := svc.CreateUser(context.Background(), CreateUserRequest{
		Username: "admin",
		Password: "secreto123",
		Name:     "Otro Admin",
		Role:     model.RoleAdmin,
	}, testActorID)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateUser_DeactivateBlocksLogin(t *testing.T) {
	userRepo, _, svc := newUserTestService()
	user := userRepo.add("usuario1", "secreto123", model.RoleUser, true)

	inactive := false
	_, err := svc.UpdateUser(context.Background(), user.ID.String(), UpdateUserRequest{Active: &inactive}, testActorID)
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), LoginRequest{Username: "usuario1", Password: "secreto123"})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestDeleteUser_NotFound(t *testing.T) {
	_, _, svc := newUserTestService()

	err := svc.DeleteUser(context.Background(), uuid.NewString(), testActorID)
	assert.ErrorIs(t, err, ErrNotFound)
}
