package handler

import (
	"net/http"

	"github.com/gitKrishh/finance-tracker/internal/middleware"
	"github.com/gitKrishh/finance-tracker/internal/models"
	"github.com/gitKrishh/finance-tracker/internal/store"
	"github.com/gitKrishh/finance-tracker/internal/token"
	"github.com/gitKrishh/finance-tracker/internal/util"

	"github.com/gin-gonic/gin"
)

const refreshTokenCookie = "refreshToken"

// AuthHandler serves registration, login, logout and token refresh.
type AuthHandler struct {
	Users         *store.UserStore
	Tokens        *token.Manager
	SecureCookies bool
}

func NewAuthHandler(users *store.UserStore, tokens *token.Manager, secureCookies bool) *AuthHandler {
	return &AuthHandler{Users: users, Tokens: tokens, SecureCookies: secureCookies}
}

// currentUser pulls the user the auth middleware resolved for this request.
func currentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(middleware.CurrentUserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	if !ok || user == nil {
		return nil, false
	}
	return user, true
}

type registerReq struct {
	FullName string `json:"fullName" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, util.BadRequest("All fields are required"))
		return
	}

	user, err := h.Users.Register(req.FullName, req.Email, req.Password)
	if err != nil {
		util.Fail(c, err)
		return
	}

	util.JSON(c, http.StatusCreated, user, "User registered successfully")
}

type loginReq struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, util.BadRequest("Email and password are required"))
		return
	}

	user, err := h.Users.Authenticate(req.Email, req.Password)
	if err != nil {
		util.Fail(c, err)
		return
	}

	accessToken, refreshToken, err := h.issueTokenPair(c, user)
	if err != nil {
		util.Fail(c, err)
		return
	}

	util.JSON(c, http.StatusOK, gin.H{
		"user":         user,
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
	}, "User logged in successfully")
}

// Logout clears the persisted refresh token and both cookies. Calling it for
// an already logged-out session succeeds the same way.
func (h *AuthHandler) Logout(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		util.Fail(c, util.Unauthorized("Unauthorized request"))
		return
	}

	if err := h.Users.ClearRefreshToken(user.ID); err != nil {
		util.Fail(c, err)
		return
	}

	h.clearTokenCookies(c)
	util.JSON(c, http.StatusOK, gin.H{}, "User logged out successfully")
}

type refreshReq struct {
	RefreshToken string `json:"refreshToken"`
}

// RefreshToken rotates the token pair. The presented refresh token must
// verify against the refresh secret and match the single value persisted on
// the user record.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var tokenStr string
	if cookie, err := c.Cookie(refreshTokenCookie); err == nil && cookie != "" {
		tokenStr = cookie
	}
	if tokenStr == "" {
		var req refreshReq
		if err := c.ShouldBindJSON(&req); err == nil {
			tokenStr = req.RefreshToken
		}
	}
	if tokenStr == "" {
		util.Fail(c, util.Unauthorized("Unauthorized request: No refresh token provided"))
		return
	}

	claims, err := h.Tokens.VerifyRefresh(tokenStr)
	if err != nil {
		util.Fail(c, util.Unauthorized("Invalid refresh token"))
		return
	}

	user, err := h.Users.GetByID(claims.UserID)
	if err != nil {
		util.Fail(c, util.Unauthorized("Invalid refresh token"))
		return
	}
	if user.RefreshToken == "" || user.RefreshToken != tokenStr {
		util.Fail(c, util.Unauthorized("Refresh token is expired or used"))
		return
	}

	accessToken, refreshToken, err := h.issueTokenPair(c, user)
	if err != nil {
		util.Fail(c, err)
		return
	}

	util.JSON(c, http.StatusOK, gin.H{
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
	}, "Access token refreshed")
}

// GetMe returns the authenticated user, sensitive fields excluded.
func (h *AuthHandler) GetMe(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		util.Fail(c, util.Unauthorized("Unauthorized request"))
		return
	}
	util.JSON(c, http.StatusOK, user, "Current user retrieved successfully")
}

// issueTokenPair generates both tokens, persists the refresh token on the
// user record and sets the transport cookies.
func (h *AuthHandler) issueTokenPair(c *gin.Context, user *models.User) (string, string, error) {
	accessToken, err := h.Tokens.IssueAccessToken(user)
	if err != nil {
		return "", "", util.Internal("Something went wrong while generating tokens")
	}
	refreshToken, err := h.Tokens.IssueRefreshToken(user)
	if err != nil {
		return "", "", util.Internal("Something went wrong while generating tokens")
	}
	if err := h.Users.SaveRefreshToken(user.ID, refreshToken); err != nil {
		return "", "", err
	}

	c.SetCookie(middleware.AccessTokenCookie, accessToken,
		int(h.Tokens.AccessTTL().Seconds()), "/", "", h.SecureCookies, true)
	c.SetCookie(refreshTokenCookie, refreshToken,
		int(h.Tokens.RefreshTTL().Seconds()), "/", "", h.SecureCookies, true)

	return accessToken, refreshToken, nil
}

func (h *AuthHandler) clearTokenCookies(c *gin.Context) {
	c.SetCookie(middleware.AccessTokenCookie, "", -1, "/", "", h.SecureCookies, true)
	c.SetCookie(refreshTokenCookie, "", -1, "/", "", h.SecureCookies, true)
}
