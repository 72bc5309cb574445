package http

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/readinglists/internal/auth"
	"github.com/mrlokans/readinglists/internal/entities"
)

// UserService is the subset of auth.Service used by the controller.
type UserService interface {
	Register(ctx context.Context, input auth.RegisterInput) (*entities.User, error)
	Authenticate(ctx context.Context, username, password string) (*entities.User, error)
	GetProfile(ctx context.Context, userID uint) (*entities.User, error)
	UpdateProfile(ctx context.Context, userID uint, input auth.ProfileInput) (*entities.User, error)
}

// LoginLimiter throttles credential checks per client IP and username.
type LoginLimiter interface {
	Allow(ip, username string) (bool, time.Duration)
	RecordFailure(ip, username string) (bool, time.Duration)
	RecordSuccess(ip, username string)
}

// AuthEventRecorder receives login outcomes.
type AuthEventRecorder interface {
	LogAuth(userID uint, action, ipAddr string, success bool)
}

// ProfileResponse is the public representation of a user.
type ProfileResponse struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func newProfileResponse(u *entities.User) ProfileResponse {
	return ProfileResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

type tokenRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

type UsersController struct {
	users   UserService
	tokens  *auth.TokenService
	limiter LoginLimiter
	events  AuthEventRecorder
}

// NewUsersController creates the controller. limiter and events may be nil.
func NewUsersController(users UserService, tokens *auth.TokenService, limiter LoginLimiter, events AuthEventRecorder) *UsersController {
	return &UsersController{
		users:   users,
		tokens:  tokens,
		limiter: limiter,
		events:  events,
	}
}

// Register creates a new account.
// POST /api/users/register
func (uc *UsersController) Register(c *gin.Context) {
	var req auth.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	user, err := uc.users.Register(c.Request.Context(), req)
	if err != nil {
		respondDomainError(c, err, "register user")
		return
	}

	c.JSON(http.StatusCreated, SuccessResponse{
		Message: "user registered successfully",
		Data:    newProfileResponse(user),
	})
}

// ObtainToken exchanges credentials for an access/refresh token pair.
// POST /api/token
func (uc *UsersController) ObtainToken(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "username and password are required")
		return
	}

	ip := c.ClientIP()
	if uc.limiter != nil {
		if allowed, wait := uc.limiter.Allow(ip, req.Username); !allowed {
			uc.tooManyAttempts(c, wait)
			return
		}
	}

	user, err := uc.users.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if !errors.Is(err, auth.ErrInvalidCredentials) {
			respondInternalError(c, err, "authenticate")
			return
		}
		uc.recordAuth(0, "login_failed", ip, false)
		if uc.limiter != nil {
			if locked, wait := uc.limiter.RecordFailure(ip, req.Username); locked {
				uc.tooManyAttempts(c, wait)
				return
			}
		}
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: err.Error()})
		return
	}

	if uc.limiter != nil {
		uc.limiter.RecordSuccess(ip, req.Username)
	}

	pair, err := uc.tokens.IssuePair(user)
	if err != nil {
		respondInternalError(c, err, "issue tokens")
		return
	}

	uc.recordAuth(user.ID, "login", ip, true)
	c.JSON(http.StatusOK, pair)
}

// RefreshToken issues a new access token for a valid refresh token.
// POST /api/token/refresh
func (uc *UsersController) RefreshToken(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "refresh is required")
		return
	}

	access, expiresAt, err := uc.tokens.Refresh(req.Refresh)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "token is invalid or expired", Code: "token_not_valid"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access":            access,
		"access_expires_at": expiresAt,
	})
}

// GetProfile returns the current user's profile.
// GET /api/users/profile
func (uc *UsersController) GetProfile(c *gin.Context) {
	user, err := uc.users.GetProfile(c.Request.Context(), GetUserID(c))
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			respondNotFound(c, "user")
			return
		}
		respondInternalError(c, err, "get profile")
		return
	}
	c.JSON(http.StatusOK, newProfileResponse(user))
}

// UpdateProfile changes the current user's names or email.
// PUT /api/users/profile
func (uc *UsersController) UpdateProfile(c *gin.Context) {
	var req auth.ProfileInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	user, err := uc.users.UpdateProfile(c.Request.Context(), GetUserID(c), req)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			respondNotFound(c, "user")
			return
		}
		respondDomainError(c, err, "update profile")
		return
	}
	c.JSON(http.StatusOK, newProfileResponse(user))
}

func (uc *UsersController) tooManyAttempts(c *gin.Context, wait time.Duration) {
	seconds := int(math.Ceil(wait.Seconds()))
	c.Header("Retry-After", fmt.Sprintf("%d", seconds))
	respondError(c, http.StatusTooManyRequests, "too many login attempts, try again later")
}

func (uc *UsersController) recordAuth(userID uint, action, ip string, success bool) {
	if uc.events != nil {
		uc.events.LogAuth(userID, action, ip, success)
	}
}
