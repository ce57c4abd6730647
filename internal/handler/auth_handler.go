package handler

import (
	"net/http"
	"time"

	"waste-service/internal/middleware"
	"waste-service/internal/model"
	"waste-service/internal/service"
	"waste-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// CookieConfig controls the session cookie attributes
type CookieConfig struct {
	Secure bool
	MaxAge time.Duration
}

// SignupRequest defines the structure for account registration requests
type SignupRequest struct {
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=6"`
	Role       string `json:"role" validate:"omitempty,oneof=user business"`
	Address    string `json:"address"`
	Phone      string `json:"phone"`
	WardNumber *int   `json:"ward_number" validate:"omitempty,gt=0"`
}

// SigninRequest defines the structure for sign-in requests
type SigninRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ProfileRequest defines the structure for profile updates
type ProfileRequest struct {
	Name       string `json:"name" validate:"required"`
	Address    string `json:"address"`
	Phone      string `json:"phone"`
	WardNumber *int   `json:"ward_number" validate:"omitempty,gt=0"`
}

// AuthHandler serves the account and session endpoints
type AuthHandler struct {
	users  UserService
	cookie CookieConfig
}

// NewAuthHandler creates an AuthHandler
func NewAuthHandler(users UserService, cookie CookieConfig) *AuthHandler {
	return &AuthHandler{users: users, cookie: cookie}
}

// Signup registers an account and opens a session
func (h *AuthHandler) Signup(c echo.Context) error {
	var req SignupRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, token, err := h.users.Signup(c.Request().Context(), service.SignupInput{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		Role:       model.Role(req.Role),
		Address:    req.Address,
		Phone:      req.Phone,
		WardNumber: req.WardNumber,
	})
	if err != nil {
		return err
	}

	h.setSession(c, token)
	return respond(c, http.StatusCreated, echo.Map{
		"message": "user registered successfully",
		"user":    user,
	})
}

// Signin checks credentials and opens a session
func (h *AuthHandler) Signin(c echo.Context) error {
	var req SigninRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, token, err := h.users.Signin(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	h.setSession(c, token)
	return respond(c, http.StatusOK, echo.Map{
		"message": "signed in successfully",
		"user":    user,
	})
}

// Logout clears the session cookie
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
	})
	return respond(c, http.StatusOK, echo.Map{"message": "logged out successfully"})
}

// GetMe returns the caller's profile
func (h *AuthHandler) GetMe(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}

	user, err := h.users.GetMe(c.Request().Context(), id.UserID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, echo.Map{"user": user})
}

// UpdateProfile replaces the caller's editable profile fields
func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	id, err := caller(c)
	if err != nil {
		return err
	}

	var req ProfileRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.users.UpdateProfile(c.Request().Context(), id.UserID, service.ProfileInput{
		Name:       req.Name,
		Address:    req.Address,
		Phone:      req.Phone,
		WardNumber: req.WardNumber,
	})
	if err != nil {
		return err
	}

	logger.FromEcho(c).Info("Profile updated", zap.Uint("user_id", id.UserID))
	return respond(c, http.StatusOK, echo.Map{
		"message": "profile updated successfully",
		"user":    user,
	})
}

func (h *AuthHandler) setSession(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(h.cookie.MaxAge.Seconds()),
		Expires:  time.Now().Add(h.cookie.MaxAge),
	})
}
