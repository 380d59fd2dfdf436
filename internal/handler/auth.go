package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/wedding-marketplace/internal/config"
	"github.com/iliyamo/wedding-marketplace/internal/middleware"
	"github.com/iliyamo/wedding-marketplace/internal/model"
	"github.com/iliyamo/wedding-marketplace/internal/repository"
	"github.com/iliyamo/wedding-marketplace/internal/service"
	"github.com/iliyamo/wedding-marketplace/internal/utils"
	"github.com/iliyamo/wedding-marketplace/internal/validation"
)

const authTimeout = 5 * time.Second

// UserStore is the part of repository.UserRepo the auth endpoints use.
type UserStore interface {
	Create(ctx context.Context, u repository.NewUser, cost int) (uint64, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
}

// TokenStore is the part of repository.TokenRepo the auth endpoints use.
type TokenStore interface {
	StoreRefresh(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error
	ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error)
	RevokeByHash(ctx context.Context, tokenHash string) error
	RevokeAllForUser(ctx context.Context, userID uint64) error
}

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg    config.Config
	Users  UserStore
	Tokens TokenStore
}

func NewAuthHandler(cfg config.Config, u UserStore, t TokenStore) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Tokens: t}
}

type registerReq struct {
	Name     string  `json:"name" validate:"required,max=255"`
	Email    string  `json:"email" validate:"required,email,max=255"`
	Password string  `json:"password" validate:"required,min=8,max=72"`
	Role     string  `json:"role" validate:"required,oneof=couple vendor"`
	Phone    *string `json:"phone" validate:"omitempty,max=32"`
	Location *string `json:"location" validate:"omitempty,max=255"`
}

type loginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

type userPart struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type authResp struct {
	User    userPart  `json:"user"`
	Access  tokenPart `json:"access"`
	Refresh tokenPart `json:"refresh"`
}

// Register creates a couple or vendor account and signs it in.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Role = strings.ToLower(strings.TrimSpace(req.Role))
	if errs := validation.Struct(req); errs != nil {
		return fail(c, &service.ValidationError{Fields: errs})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), authTimeout)
	defer cancel()

	uid, err := h.Users.Create(ctx, repository.NewUser{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     model.Role(req.Role),
		Phone:    req.Phone,
		Location: req.Location,
	}, h.Cfg.BcryptCost)
	if errors.Is(err, repository.ErrEmailExists) {
		errs := validation.Errors{}
		errs.Add("email", "The email has already been taken.")
		return fail(c, &service.ValidationError{Fields: errs})
	}
	if err != nil {
		return fail(c, err)
	}
	u := model.User{ID: uid, Name: strings.TrimSpace(req.Name), Email: req.Email, Role: model.Role(req.Role)}
	return h.issue(ctx, c, http.StatusCreated, u)
}

// Login verifies the credentials and returns a fresh token pair.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if errs := validation.Struct(req); errs != nil {
		return fail(c, &service.ValidationError{Fields: errs})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), authTimeout)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	if err != nil {
		return fail(c, err)
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	return h.issue(ctx, c, http.StatusOK, u)
}

// Refresh rotates a refresh token: the presented one is revoked and a new
// pair is issued.
func (h *AuthHandler) Refresh(c echo.Context) error {
	hash, ok := refreshHash(c)
	if !ok {
		return badRequest(c, "refresh_token required")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), authTimeout)
	defer cancel()

	u, err := h.refreshOwner(ctx, hash)
	if err != nil {
		return h.refreshFailed(c, err)
	}
	if err := h.Tokens.RevokeByHash(ctx, hash); err != nil {
		return fail(c, err)
	}
	return h.issue(ctx, c, http.StatusOK, u)
}

// RefreshAccess returns a new access token and keeps the refresh token.
func (h *AuthHandler) RefreshAccess(c echo.Context) error {
	hash, ok := refreshHash(c)
	if !ok {
		return badRequest(c, "refresh_token required")
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), authTimeout)
	defer cancel()

	u, err := h.refreshOwner(ctx, hash)
	if err != nil {
		return h.refreshFailed(c, err)
	}
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, string(u.Role), h.Cfg.AccessTTLMin)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"access": tokenPart{Token: access.Token, Expires: access.Exp},
	})
}

// Logout revokes a single refresh token when one is posted, otherwise every
// refresh token of the bearer.
func (h *AuthHandler) Logout(c echo.Context) error {
	var uid uint64
	if raw, ok := strings.CutPrefix(c.Request().Header.Get(echo.HeaderAuthorization), "Bearer "); ok {
		if claims, err := utils.ParseAccessToken(h.Cfg.JWTSecret, strings.TrimSpace(raw)); err == nil {
			uid = claims.UserID
		}
	}
	var req refreshReq
	_ = c.Bind(&req)
	refresh := strings.TrimSpace(req.RefreshToken)

	ctx, cancel := context.WithTimeout(c.Request().Context(), authTimeout)
	defer cancel()

	switch {
	case refresh != "":
		hash := utils.HashRefreshRaw(refresh)
		if _, err := h.Tokens.ValidateRefresh(ctx, hash); err != nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
		}
		if err := h.Tokens.RevokeByHash(ctx, hash); err != nil {
			return fail(c, err)
		}
	case uid != 0:
		if err := h.Tokens.RevokeAllForUser(ctx, uid); err != nil {
			return fail(c, err)
		}
	default:
		return badRequest(c, "provide Authorization header or refresh_token")
	}
	return c.NoContent(http.StatusNoContent)
}

// Me returns the signed-in user.
func (h *AuthHandler) Me(c echo.Context) error {
	uid, ok := middleware.UserID(c)
	if !ok {
		return unauthenticated(c)
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), authTimeout)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"user": u.Summary(),
		"role": u.Role,
	})
}

func (h *AuthHandler) issue(ctx context.Context, c echo.Context, status int, u model.User) error {
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, string(u.Role), h.Cfg.AccessTTLMin)
	if err != nil {
		return fail(c, err)
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.RefreshTTLDays)
	if err != nil {
		return fail(c, err)
	}
	if err := h.Tokens.StoreRefresh(ctx, u.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return fail(c, err)
	}
	return c.JSON(status, authResp{
		User:    userPart{ID: u.ID, Name: u.Name, Email: u.Email, Role: string(u.Role)},
		Access:  tokenPart{Token: access.Token, Expires: access.Exp},
		Refresh: tokenPart{Token: refresh.Raw, Expires: refresh.Exp},
	})
}

func (h *AuthHandler) refreshOwner(ctx context.Context, hash string) (model.User, error) {
	uid, err := h.Tokens.ValidateRefresh(ctx, hash)
	if err != nil {
		return model.User{}, err
	}
	return h.Users.GetByID(ctx, uid)
}

func (h *AuthHandler) refreshFailed(c echo.Context, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh"})
	}
	return fail(c, err)
}

func refreshHash(c echo.Context) (string, bool) {
	var req refreshReq
	if err := c.Bind(&req); err != nil {
		return "", false
	}
	raw := strings.TrimSpace(req.RefreshToken)
	if raw == "" {
		return "", false
	}
	return utils.HashRefreshRaw(raw), true
}
