package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"mcc-backend/internal/middleware"
	"mcc-backend/internal/model"
	"mcc-backend/internal/repository"
	"mcc-backend/pkg/pagination"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// --- DTOs ---

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type TokenResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type CreateUserRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

type UpdateUserRequest struct {
	Name   string `json:"name"`
	Role   string `json:"role"`
	Active *bool  `json:"active"`
}

type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Active   bool   `json:"active"`
}

type UserListResponse struct {
	Records    []UserResponse `json:"records"`
	Total      int64          `json:"total"`
	TotalPages int            `json:"totalPages"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
}

// --- Interface ---

type UserService interface {
	Login(ctx context.Context, req LoginRequest) (TokenResponse, error)
	CreateUser(ctx context.Context, req CreateUserRequest, actorID string) (UserResponse, error)
	GetUserByID(ctx context.Context, id string) (UserResponse, error)
	ListUsers(ctx context.Context, page, limit int) (UserListResponse, error)
	UpdateUser(ctx context.Context, id string, req UpdateUserRequest, actorID string) (UserResponse, error)
	DeleteUser(ctx context.Context, id string, actorID string) error
}

type userService struct {
	userRepo  repository.UserRepository
	auditRepo repository.AuditRepository
	txManager repository.TransactionManager
}

func NewUserService(
	userRepo repository.UserRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) UserService {
	return &userService{
		userRepo:  userRepo,
		auditRepo: auditRepo,
		txManager: txManager,
	}
}

func validRole(role string) bool {
	return role == model.RoleAdmin || role == model.RoleUser
}

// --- Implementation ---

func (s *userService) Login(ctx context.Context, req LoginRequest) (TokenResponse, error) {
	user, err := s.userRepo.GetByUsername(ctx, req.Username)
	if err != nil || !user.Active {
		return TokenResponse{}, fmt.Errorf("%w: unknown user or wrong password", ErrUnauthorized)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return TokenResponse{}, fmt.Errorf("%w: unknown user or wrong password", ErrUnauthorized)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      user.ID.String(),
		"username": user.Username,
		"role":     user.Role,
		"exp":      time.Now().Add(24 * time.Hour).Unix(),
	})

	tokenString, err := token.SignedString(middleware.GetJWTSecret())
	if err != nil {
		log.Printf("login: failed to sign token for %s: %v", req.Username, err)
		return TokenResponse{}, fmt.Errorf("%w: could not issue token", ErrStorage)
	}

	log.Printf("login: user %s signed in", user.Username)
	return TokenResponse{Token: tokenString, User: toUserResponse(*user)}, nil
}

func (s *userService) CreateUser(ctx context.Context, req CreateUserRequest, actorID string) (UserResponse, error) {
	if !validRole(req.Role) {
		return UserResponse{}, fmt.Errorf("%w: role must be admin or usuario", ErrValidation)
	}

	if _, err := s.userRepo.GetByUsername(ctx, req.Username); err == nil {
		return UserResponse{}, fmt.Errorf("%w: username already exists", ErrValidation)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return UserResponse{}, fmt.Errorf("%w: failed to hash password", ErrStorage)
	}

	user := model.User{
		Username: req.Username,
		Password: string(hashed),
		Name:     req.Name,
		Role:     req.Role,
		Active:   true,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.userRepo.Create(txCtx, &user); err != nil {
			return err
		}
		return writeAudit(txCtx, s.auditRepo, actorID, model.ActionCreateUser, user.ID.String(), user.Username, map[string]string{"username": req.Username, "role": req.Role})
	})
	if err != nil {
		log.Printf("users: failed to create %q: %v", req.Username, err)
		return UserResponse{}, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	return toUserResponse(user), nil
}

func (s *userService) GetUserByID(ctx context.Context, id string) (UserResponse, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return UserResponse{}, fmt.Errorf("%w: invalid user id", ErrValidation)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return UserResponse{}, fmt.Errorf("%w: user %s", ErrNotFound, id)
		}
		return UserResponse{}, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	return toUserResponse(*user), nil
}

func (s *userService) ListUsers(ctx context.Context, page, limit int) (UserListResponse, error) {
	users, total, err := s.userRepo.List(ctx, page, limit)
	if err != nil {
		log.Printf("users: failed to list (page=%d limit=%d): %v", page, limit, err)
		return UserListResponse{}, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	res := UserListResponse{
		Records:    make([]UserResponse, 0, len(users)),
		Total:      total,
		TotalPages: pagination.TotalPages(total, limit),
		Page:       page,
		Limit:      limit,
	}
	for _, u := range users {
		res.Records = append(res.Records, toUserResponse(u))
	}

	return res, nil
}

func (s *userService) UpdateUser(ctx context.Context, id string, req UpdateUserRequest, actorID string) (UserResponse, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return UserResponse{}, fmt.Errorf("%w: invalid user id", ErrValidation)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return UserResponse{}, fmt.Errorf("%w: user %s", ErrNotFound, id)
		}
		return UserResponse{}, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	if req.Role != "" {
		if !validRole(req.Role) {
			return UserResponse{}, fmt.Errorf("%w: role must be admin or usuario", ErrValidation)
		}
		user.Role = req.Role
	}
	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Active != nil {
		user.Active = *req.Active
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.userRepo.Update(txCtx, user); err != nil {
			return err
		}
		return writeAudit(txCtx, s.auditRepo, actorID, model.ActionUpdateUser, user.ID.String(), user.Username, req)
	})
	if err != nil {
		log.Printf("users: failed to update %s: %v", id, err)
		return UserResponse{}, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	return toUserResponse(*user), nil
}

func (s *userService) DeleteUser(ctx context.Context, id string, actorID string) error {
	userID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w: invalid user id", ErrValidation)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: user %s", ErrNotFound, id)
		}
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.userRepo.Delete(txCtx, userID); err != nil {
			return err
		}
		return writeAudit(txCtx, s.auditRepo, actorID, model.ActionDeleteUser, id, user.Username, nil)
	})
	if err != nil {
		log.Printf("users: failed to delete %s: %v", id, err)
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}

	return nil
}

func toUserResponse(u model.User) UserResponse {
	return UserResponse{
		ID:       u.ID.String(),
		Username: u.Username,
		Name:     u.Name,
		Role:     u.Role,
		Active:   u.Active,
	}
}
