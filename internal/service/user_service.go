package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"waste-service/internal/apperror"
	"waste-service/internal/model"
	"waste-service/internal/repository"
	"waste-service/pkg/logger"
	"waste-service/prometheus"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest accepted password
const MinPasswordLength = 6

// User listing page sizes
const (
	DefaultUserPageSize = 10
	MaxUserPageSize     = 100
)

// SignupInput carries a self-service registration
type SignupInput struct {
	Name       string
	Email      string
	Password   string
	Role       model.Role
	Address    string
	Phone      string
	WardNumber *int
}

// ProfileInput carries the editable profile fields
type ProfileInput struct {
	Name       string
	Address    string
	Phone      string
	WardNumber *int
}

// UserListParams is the admin user listing request
type UserListParams struct {
	Role   string
	Ward   *int
	Search string
	Page   int
	Limit  int
}

// UserPage is one page of the admin user listing
type UserPage struct {
	Users      []model.User `json:"users"`
	Total      int64        `json:"total"`
	Page       int          `json:"page"`
	Limit      int          `json:"limit"`
	TotalPages int          `json:"total_pages"`
}

// UserService handles accounts and sessions
type UserService struct {
	users     UserRepository
	tokens    TokenIssuer
	dashboard Invalidator
	hashCost  int
}

// NewUserService creates a UserService
func NewUserService(users UserRepository, tokens TokenIssuer, dashboard Invalidator) *UserService {
	return &UserService{
		users:     users,
		tokens:    tokens,
		dashboard: invalidatorOrNoop(dashboard),
		hashCost:  bcrypt.DefaultCost,
	}
}

// Signup registers a citizen or business account and opens a session
func (s *UserService) Signup(ctx context.Context, in SignupInput) (*model.User, string, error) {
	if in.Role == "" {
		in.Role = model.RoleUser
	}
	if in.Role != model.RoleUser && in.Role != model.RoleBusiness {
		return nil, "", apperror.Validation("role must be user or business")
	}

	user, err := s.create(ctx, in)
	if err != nil {
		return nil, "", err
	}

	token, err := s.issue(user)
	if err != nil {
		return nil, "", err
	}

	prometheus.RecordAuthOperation("signup")
	logger.FromContext(ctx).Info("User registered",
		zap.Uint("user_id", user.ID),
		zap.String("role", string(user.Role)))
	return user, token, nil
}

// CreateAdmin provisions an administrator account
func (s *UserService) CreateAdmin(ctx context.Context, name, email, password string) (*model.User, error) {
	user, err := s.create(ctx, SignupInput{Name: name, Email: email, Password: password, Role: model.RoleAdmin})
	if err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Info("Admin created", zap.Uint("user_id", user.ID), zap.String("email", user.Email))
	return user, nil
}

func (s *UserService) create(ctx context.Context, in SignupInput) (*model.User, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if name == "" {
		return nil, apperror.Validation("name is required")
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return nil, apperror.Validation("a valid email is required")
	}
	if len(in.Password) < MinPasswordLength {
		return nil, apperror.Validation("password must be at least %d characters", MinPasswordLength)
	}
	if !validWard(in.WardNumber) {
		return nil, apperror.Validation("ward number must be positive")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return nil, apperror.Upstream("failed to hash password", err)
	}

	user := &model.User{
		Name:       name,
		Email:      email,
		Password:   string(hashed),
		Role:       in.Role,
		Address:    strings.TrimSpace(in.Address),
		Phone:      strings.TrimSpace(in.Phone),
		WardNumber: in.WardNumber,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if apperror.IsConflict(err) {
			return nil, apperror.Conflict("user already exists")
		}
		return nil, err
	}

	s.dashboard.Invalidate(ctx)
	return user, nil
}

// Signin checks credentials and opens a session
func (s *UserService) Signin(ctx context.Context, email, password string) (*model.User, string, error) {
	log := logger.FromContext(ctx)
	invalid := apperror.Unauthorized("invalid email or password")

	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if apperror.IsNotFound(err) {
			prometheus.RecordAuthError("login_failure")
			log.Info("Signin with unknown email")
			return nil, "", invalid
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		prometheus.RecordAuthError("login_failure")
		if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			log.Error("Password comparison failed", zap.Error(err))
		}
		return nil, "", invalid
	}

	token, err := s.issue(user)
	if err != nil {
		return nil, "", err
	}

	prometheus.RecordAuthOperation("signin")
	log.Info("User signed in", zap.Uint("user_id", user.ID))
	return user, token, nil
}

func (s *UserService) issue(user *model.User) (string, error) {
	token, err := s.tokens.GenerateToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		prometheus.RecordAuthError("token_generation_failed")
		return "", apperror.Upstream("failed to generate token", err)
	}
	return token, nil
}

// GetMe returns the caller's profile
func (s *UserService) GetMe(ctx context.Context, userID uint) (*model.User, error) {
	return s.users.FindByID(ctx, userID)
}

// UpdateProfile replaces the caller's editable profile fields
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, in ProfileInput) (*model.User, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperror.Validation("name is required")
	}
	if !validWard(in.WardNumber) {
		return nil, apperror.Validation("ward number must be positive")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Name = name
	user.Address = strings.TrimSpace(in.Address)
	user.Phone = strings.TrimSpace(in.Phone)
	user.WardNumber = in.WardNumber

	if err := s.users.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}

	s.dashboard.Invalidate(ctx)
	prometheus.RecordAuthOperation("profile_update")
	return user, nil
}

// ListUsers returns one page of users for administrators
func (s *UserService) ListUsers(ctx context.Context, p UserListParams) (*UserPage, error) {
	role := model.Role(strings.TrimSpace(p.Role))
	if role != "" && !role.Valid() {
		return nil, apperror.Validation("unknown role %q", p.Role)
	}

	page, limit := pageBounds(p.Page, p.Limit, DefaultUserPageSize, MaxUserPageSize)
	users, total, err := s.users.List(ctx, repository.UserQuery{
		Role:   role,
		Ward:   p.Ward,
		Search: p.Search,
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		return nil, err
	}

	return &UserPage{
		Users:      nonNil(users),
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}, nil
}
