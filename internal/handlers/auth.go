package handlers

import (
	"errors"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/viewtube/backend/internal/logging"
	"github.com/viewtube/backend/internal/media"
	"github.com/viewtube/backend/internal/models"
	"github.com/viewtube/backend/internal/repositories"
)

const minPasswordLength = 8

// registerMaxMemory caps how much of the multipart register payload is
// buffered in memory before spilling to disk.
const registerMaxMemory = 10 << 20

// AuthHandler implements account registration and session endpoints.
type AuthHandler struct {
	Users    repositories.UserRepository
	Sessions SessionManager
	Uploader AssetUploader
	Limiter  RateLimiter
	NowFunc  func() time.Time
}

type userPayload struct {
	ID         models.Key `json:"id"`
	Username   string     `json:"username"`
	Email      string     `json:"email"`
	FullName   string     `json:"fullName"`
	Avatar     string     `json:"avatar"`
	CoverImage string     `json:"coverImage"`
	CreatedAt  time.Time  `json:"createdAt"`
}

type tokensPayload struct {
	AccessToken      string    `json:"accessToken"`
	AccessExpiresAt  time.Time `json:"accessExpiresAt"`
	RefreshToken     string    `json:"refreshToken"`
	RefreshExpiresAt time.Time `json:"refreshExpiresAt"`
}

type sessionPayload struct {
	User   userPayload   `json:"user"`
	Tokens tokensPayload `json:"tokens"`
}

func toUserPayload(user models.User) userPayload {
	return userPayload{
		ID:         user.ID,
		Username:   user.Username,
		Email:      user.Email,
		FullName:   user.FullName,
		Avatar:     user.Avatar,
		CoverImage: user.CoverImage,
		CreatedAt:  user.CreatedAt,
	}
}

func toTokensPayload(tokens models.SessionTokens) tokensPayload {
	return tokensPayload{
		AccessToken:      tokens.AccessToken,
		AccessExpiresAt:  tokens.AccessExpiresAt,
		RefreshToken:     tokens.RefreshToken,
		RefreshExpiresAt: tokens.RefreshExpiresAt,
	}
}

// Register handles POST /api/v1/auth/register. The payload is multipart so
// the avatar and cover image can ride along with the account fields.
func (h AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if !allowRequest(h.Limiter, r, "auth") {
		respondMessage(ctx, w, http.StatusTooManyRequests, "too many attempts, slow down")
		return
	}

	if err := r.ParseMultipartForm(registerMaxMemory); err != nil {
		logger.Warn("invalid register payload", "error", err)
		respondMessage(ctx, w, http.StatusBadRequest, "expected multipart form data")
		return
	}

	username := strings.TrimSpace(strings.ToLower(r.FormValue("username")))
	email := strings.TrimSpace(strings.ToLower(r.FormValue("email")))
	fullName := strings.TrimSpace(r.FormValue("fullName"))
	password := r.FormValue("password")

	if username == "" || email == "" || fullName == "" || password == "" {
		respondMessage(ctx, w, http.StatusBadRequest, "username, email, fullName and password are required")
		return
	}
	if _, err := mail.ParseAddress(email); err != nil {
		respondMessage(ctx, w, http.StatusBadRequest, "email address is invalid")
		return
	}
	if len(password) < minPasswordLength {
		respondMessage(ctx, w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	}

	avatarURL, err := h.uploadFormFile(r, "avatar", media.AssetAvatar)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			respondMessage(ctx, w, http.StatusBadRequest, "avatar file is required")
			return
		}
		logger.Error("store avatar", "error", err)
		respondMessage(ctx, w, http.StatusInternalServerError, "could not store avatar")
		return
	}

	coverURL, err := h.uploadFormFile(r, "coverImage", media.AssetCover)
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		logger.Error("store cover image", "error", err)
		respondMessage(ctx, w, http.StatusInternalServerError, "could not store cover image")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		respondError(ctx, w, err, "")
		return
	}

	now := h.now()
	user := models.User{
		ID:         models.NewKey(),
		Username:   username,
		Email:      email,
		Password:   string(hash),
		FullName:   fullName,
		Avatar:     avatarURL,
		CoverImage: coverURL,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := h.Users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			respondMessage(ctx, w, http.StatusConflict, "username or email already registered")
			return
		}
		respondError(ctx, w, err, "")
		return
	}

	logger.Info("user registered", "userId", user.ID, "username", user.Username)
	respondData(ctx, w, http.StatusCreated, toUserPayload(user), "user registered")
}

type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /api/v1/auth/login. Either username or email
// identifies the account.
func (h AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	if !allowRequest(h.Limiter, r, "auth") {
		respondMessage(ctx, w, http.StatusTooManyRequests, "too many attempts, slow down")
		return
	}

	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondMessage(ctx, w, http.StatusBadRequest, "invalid request body")
		return
	}

	identifier := strings.TrimSpace(strings.ToLower(req.Username))
	if identifier == "" {
		identifier = strings.TrimSpace(strings.ToLower(req.Email))
	}
	if identifier == "" || req.Password == "" {
		respondMessage(ctx, w, http.StatusBadRequest, "username or email and password are required")
		return
	}

	user, err := h.Users.FindByUsernameOrEmail(ctx, identifier)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			respondMessage(ctx, w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		respondError(ctx, w, err, "")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		logger.Warn("password mismatch", "userId", user.ID)
		respondMessage(ctx, w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	tokens, err := h.Sessions.Issue(ctx, user.ID)
	if err != nil {
		respondError(ctx, w, err, "")
		return
	}

	if err := h.Users.SetRefreshToken(ctx, user.ID, &tokens.RefreshToken); err != nil {
		logger.Error("persist refresh token", "userId", user.ID, "error", err)
	}

	logger.Info("user logged in", "userId", user.ID)
	respondData(ctx, w, http.StatusOK, sessionPayload{
		User:   toUserPayload(user),
		Tokens: toTokensPayload(tokens),
	}, "logged in")
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Refresh handles POST /api/v1/auth/refresh, rotating the token pair.
func (h AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req refreshRequest
	if err := decodeJSON(r, &req); err != nil {
		respondMessage(ctx, w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.RefreshToken) == "" {
		respondMessage(ctx, w, http.StatusBadRequest, "refreshToken is required")
		return
	}

	tokens, err := h.Sessions.Refresh(ctx, strings.TrimSpace(req.RefreshToken))
	if err != nil {
		respondError(ctx, w, err, "refresh token rejected")
		return
	}

	if userID, err := h.Sessions.Identity(ctx, tokens.AccessToken); err == nil {
		if err := h.Users.SetRefreshToken(ctx, userID, &tokens.RefreshToken); err != nil {
			logging.FromContext(ctx).Error("persist refresh token", "userId", userID, "error", err)
		}
	}

	respondData(ctx, w, http.StatusOK, toTokensPayload(tokens), "session refreshed")
}

// Logout handles POST /api/v1/auth/logout, revoking every session the
// caller holds.
func (h AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := principal(r, h.Sessions)
	if err != nil {
		respondError(ctx, w, err, "authentication required")
		return
	}

	h.Sessions.Revoke(ctx, userID)
	if err := h.Users.SetRefreshToken(ctx, userID, nil); err != nil {
		logging.FromContext(ctx).Error("clear refresh token", "userId", userID, "error", err)
	}

	respondData(ctx, w, http.StatusOK, nil, "logged out")
}

// CurrentUser handles GET /api/v1/users/me.
func (h AuthHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := principal(r, h.Sessions)
	if err != nil {
		respondError(ctx, w, err, "authentication required")
		return
	}

	user, err := h.Users.FindByID(ctx, userID)
	if err != nil {
		respondError(ctx, w, err, "user not found")
		return
	}

	respondData(ctx, w, http.StatusOK, toUserPayload(user), "current user")
}

func (h AuthHandler) uploadFormFile(r *http.Request, field, kind string) (string, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return "", err
	}
	defer file.Close()

	return h.Uploader.Upload(r.Context(), kind, header.Filename, file)
}

func (h AuthHandler) now() time.Time {
	if h.NowFunc != nil {
		return h.NowFunc()
	}
	return time.Now().UTC()
}
