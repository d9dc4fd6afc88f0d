package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"procurement/internal/authz"
	"procurement/internal/middleware"
	"procurement/internal/model"
	"procurement/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// DTOs for request validation
type CreateUserRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"omitempty,email"`
	Phone    string `json:"phone"`
	Role     string `json:"role" binding:"required"`
}

type UpdateUserRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email" binding:"omitempty,email"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
	IsActive *bool  `json:"is_active"`
}

type LoginUserRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type TokenResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
}

type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type RedeemPasswordResetRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

// UserResponse returns a User without exposing sensitive data
type UserResponse struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	FullName       string    `json:"full_name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	Role           string    `json:"role"`
	IsActive       bool      `json:"is_active"`
	IsOnline       bool      `json:"is_online"`
	LastLoginAt    string    `json:"last_login_at,omitempty"`
	LastActivityAt string    `json:"last_activity_at,omitempty"`
	CreatedAt      string    `json:"created_at"`
	UpdatedAt      string    `json:"updated_at"`
}

// ProfileResponse is the /me payload: the user plus their effective
// permissions and the sections they may navigate to
type ProfileResponse struct {
	User        UserResponse        `json:"user"`
	Permissions authz.PermissionSet `json:"permissions"`
	Sections    []authz.Section     `json:"sections"`
}

// UserService defines the interface for business logic related to User
type UserService interface {
	CreateUser(ctx context.Context, req CreateUserRequest) (*UserResponse, error)
	Login(ctx context.Context, req LoginUserRequest, ip string) (*TokenResponse, error)
	Logout(ctx context.Context, userID, refreshToken string) error
	Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error)
	GetProfile(ctx context.Context, id string) (*ProfileResponse, error)
	GetUserByID(ctx context.Context, id string) (*UserResponse, error)
	ListUsers(ctx context.Context, page, limit int) ([]UserResponse, int64, error)
	UpdateUser(ctx context.Context, id string, req UpdateUserRequest) (*UserResponse, error)
	DeleteUser(ctx context.Context, id string) error

	GetPermissions(ctx context.Context, id string) (authz.PermissionSet, error)
	UpdatePermissions(ctx context.Context, id string, perms authz.PermissionSet) error
	ResetPassword(ctx context.Context, id string, req ResetPasswordRequest) error
	ForgotPassword(ctx context.Context, req ForgotPasswordRequest) (string, error)
	RedeemPasswordReset(ctx context.Context, req RedeemPasswordResetRequest) error
}

type userService struct {
	repo  repository.UserRepository
	table authz.Table
	log   *zap.Logger
}

// NewUserService returns a new instance of UserService
func NewUserService(repo repository.UserRepository, table authz.Table, log *zap.Logger) UserService {
	return &userService{repo: repo, table: table, log: log}
}

func mapToResponse(user *model.User) *UserResponse {
	res := &UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		FullName:  user.FullName,
		Email:     user.Email,
		Phone:     user.Phone,
		Role:      user.Role,
		IsActive:  user.IsActive,
		IsOnline:  user.IsOnline,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
		UpdatedAt: user.UpdatedAt.Format(time.RFC3339),
	}
	if user.LastLoginAt != nil {
		res.LastLoginAt = user.LastLoginAt.Format(time.RFC3339)
	}
	if user.LastActivityAt != nil {
		res.LastActivityAt = user.LastActivityAt.Format(time.RFC3339)
	}
	return res
}

func (s *userService) CreateUser(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	// Seeding from the table also rejects unrecognized roles up front,
	// at creation time rather than lazily at the first permission check.
	defaults, err := s.table.DefaultPermissions(authz.Role(req.Role))
	if err != nil {
		return nil, fmt.Errorf("invalid role %q: %w", req.Role, err)
	}

	if _, err := s.repo.GetByUsername(ctx, req.Username); err == nil {
		return nil, errors.New("username already exists")
	}
	if req.Email != "" {
		if _, err := s.repo.GetByEmail(ctx, req.Email); err == nil {
			return nil, errors.New("email already exists")
		}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.New("failed to hash password")
	}

	seeded, err := json.Marshal(defaults)
	if err != nil {
		return nil, fmt.Errorf("failed to seed permissions: %w", err)
	}

	user := &model.User{
		Username:    req.Username,
		Password:    string(hashedPassword),
		FullName:    req.FullName,
		Email:       req.Email,
		Phone:       req.Phone,
		Role:        req.Role,
		Permissions: string(seeded),
		IsActive:    true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return mapToResponse(user), nil
}

func (s *userService) Login(ctx context.Context, req LoginUserRequest, ip string) (*TokenResponse, error) {
	user, err := s.repo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, errors.New("invalid username or password")
	}
	if !user.IsActive {
		return nil, errors.New("account is disabled")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, errors.New("invalid username or password")
	}

	accessToken, err := s.signAccessToken(user)
	if err != nil {
		return nil, err
	}

	refresh := &model.RefreshToken{
		UserID:    user.ID,
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(7 * 24 * time.Hour),
	}
	if err := s.repo.CreateRefreshToken(ctx, refresh); err != nil {
		return nil, err
	}

	now := time.Now()
	user.LastLoginAt = &now
	user.LastActivityAt = &now
	user.IsOnline = true
	if ip != "" {
		user.IPAddress = ip
	}
	if err := s.repo.Update(ctx, user); err != nil {
		s.log.Warn("failed to record login time", zap.String("user_id", user.ID.String()), zap.Error(err))
	}

	return &TokenResponse{Token: accessToken, RefreshToken: refresh.Token}, nil
}

func (s *userService) signAccessToken(user *model.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":  user.ID.String(),
		"role": user.Role,
		"name": user.FullName,
		"exp":  time.Now().Add(24 * time.Hour).Unix(),
		"iat":  time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(middleware.GetJWTSecret())
}

func (s *userService) Logout(ctx context.Context, userID, refreshToken string) error {
	if refreshToken != "" {
		if err := s.repo.DeleteRefreshToken(ctx, refreshToken); err != nil {
			s.log.Warn("failed to delete refresh token", zap.Error(err))
		}
	}
	return s.repo.SetOnline(ctx, userID, false)
}

func (s *userService) Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	stored, err := s.repo.GetRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, errors.New("invalid refresh token")
	}
	if time.Now().After(stored.ExpiresAt) {
		_ = s.repo.DeleteRefreshToken(ctx, refreshToken)
		return nil, errors.New("refresh token expired")
	}

	user, err := s.repo.GetByID(ctx, stored.UserID.String())
	if err != nil {
		return nil, errors.New("user not found")
	}
	if !user.IsActive {
		return nil, errors.New("account is disabled")
	}

	accessToken, err := s.signAccessToken(user)
	if err != nil {
		return nil, err
	}
	return &TokenResponse{Token: accessToken, RefreshToken: refreshToken}, nil
}

func (s *userService) GetProfile(ctx context.Context, id string) (*ProfileResponse, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	perms, err := s.table.EffectivePermissions(authz.Role(user.Role), user.Permissions)
	if err != nil {
		if !errors.Is(err, authz.ErrMalformedOverride) {
			return nil, err
		}
		s.log.Error("malformed permission override, using role defaults",
			zap.String("user_id", id), zap.Error(err))
	}

	sections, err := s.table.Sections(authz.Role(user.Role))
	if err != nil {
		return nil, err
	}

	return &ProfileResponse{
		User:        *mapToResponse(user),
		Permissions: perms,
		Sections:    sections,
	}, nil
}

func (s *userService) GetUserByID(ctx context.Context, id string) (*UserResponse, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return mapToResponse(user), nil
}

func (s *userService) ListUsers(ctx context.Context, page, limit int) ([]UserResponse, int64, error) {
	users, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}

	res := make([]UserResponse, 0, len(users))
	for i := range users {
		res = append(res, *mapToResponse(&users[i]))
	}
	return res, total, nil
}

func (s *userService) UpdateUser(ctx context.Context, id string, req UpdateUserRequest) (*UserResponse, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, errors.New("user not found")
	}

	if req.Role != "" && req.Role != user.Role {
		// Role change reseeds the override bag from the new role's defaults
		defaults, err := s.table.DefaultPermissions(authz.Role(req.Role))
		if err != nil {
			return nil, fmt.Errorf("invalid role %q: %w", req.Role, err)
		}
		seeded, err := json.Marshal(defaults)
		if err != nil {
			return nil, err
		}
		user.Role = req.Role
		user.Permissions = string(seeded)
	}
	if req.FullName != "" {
		user.FullName = req.FullName
	}
	if req.Email != "" {
		user.Email = req.Email
	}
	if req.Phone != "" {
		user.Phone = req.Phone
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return mapToResponse(user), nil
}

func (s *userService) DeleteUser(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return errors.New("user not found")
	}
	return s.repo.Delete(ctx, id)
}

func (s *userService) GetPermissions(ctx context.Context, id string) (authz.PermissionSet, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	perms, err := s.table.EffectivePermissions(authz.Role(user.Role), user.Permissions)
	if err != nil {
		if !errors.Is(err, authz.ErrMalformedOverride) {
			return nil, err
		}
		s.log.Error("malformed permission override, using role defaults",
			zap.String("user_id", id), zap.Error(err))
	}
	return perms, nil
}

func (s *userService) UpdatePermissions(ctx context.Context, id string, perms authz.PermissionSet) error {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return errors.New("user not found")
	}

	// Reject codes outside the enumerated vocabulary so typos fail loudly
	// instead of being stored and silently ignored.
	for code := range perms {
		resource, action, err := authz.SplitCode(code)
		if err != nil {
			return err
		}
		actions, err := authz.ActionsFor(resource)
		if err != nil {
			return err
		}
		valid := false
		for _, a := range actions {
			if a == action {
				valid = true
				break
			}
		}
		if !valid {
			return fmt.Errorf("%w: %q on %q", authz.ErrUnknownAction, action, resource)
		}
	}

	raw, err := json.Marshal(perms)
	if err != nil {
		return err
	}
	user.Permissions = string(raw)
	return s.repo.Update(ctx, user)
}

func (s *userService) ResetPassword(ctx context.Context, id string, req ResetPasswordRequest) error {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return errors.New("user not found")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return errors.New("failed to hash password")
	}
	user.Password = string(hashedPassword)
	return s.repo.Update(ctx, user)
}

const resetTokenTTL = time.Hour

// ForgotPassword issues a single-use reset token for the account behind the
// given email. Delivery is the caller's concern; no mail integration here.
func (s *userService) ForgotPassword(ctx context.Context, req ForgotPasswordRequest) (string, error) {
	user, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return "", errors.New("no account with this email")
	}
	if !user.IsActive {
		return "", errors.New("account is disabled")
	}

	token := &model.PasswordResetToken{
		UserID:    user.ID,
		Token:     uuid.NewString(),
		Email:     user.Email,
		ExpiresAt: time.Now().Add(resetTokenTTL),
	}
	if err := s.repo.CreateResetToken(ctx, token); err != nil {
		return "", err
	}
	return token.Token, nil
}

func (s *userService) RedeemPasswordReset(ctx context.Context, req RedeemPasswordResetRequest) error {
	stored, err := s.repo.GetResetToken(ctx, req.Token)
	if err != nil {
		return errors.New("invalid reset token")
	}
	if stored.Used {
		return errors.New("reset token already used")
	}
	if time.Now().After(stored.ExpiresAt) {
		return errors.New("reset token expired")
	}

	user, err := s.repo.GetByID(ctx, stored.UserID.String())
	if err != nil {
		return errors.New("user not found")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return errors.New("failed to hash password")
	}
	user.Password = string(hashedPassword)
	if err := s.repo.Update(ctx, user); err != nil {
		return err
	}
	return s.repo.MarkResetTokenUsed(ctx, stored.ID.String())
}
