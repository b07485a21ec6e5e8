package httpgin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kirinyoku/eventhub/internal/domain"
	"github.com/kirinyoku/eventhub/internal/service/users"
)

// @Summary  Register
// @Tags     users
// @Param    req  body  RegisterRequest  true  "account"
// @Success  201  {object}  AuthResponse
// @Failure  400  {object}  ErrorResponse
// @Router   /users/register [post]
func (h *handlers) register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, bindingMessage(err))
		return
	}

	sess, err := h.Services.Users.Register(c.Request.Context(), users.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     domain.Role(req.Role),
	})
	if err != nil {
		respondErr(c, err)
		return
	}

	h.setTokenCookie(c, sess.Token)
	c.JSON(http.StatusCreated, AuthResponse{
		Message: "User registered successfully",
		Token:   sess.Token,
		User:    sess.User,
	})
}

// @Summary  Log in
// @Tags     users
// @Param    req  body  LoginRequest  true  "credentials"
// @Success  200  {object}  AuthResponse
// @Failure  401  {object}  ErrorResponse
// @Router   /users/login [post]
func (h *handlers) login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, bindingMessage(err))
		return
	}

	sess, err := h.Services.Users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondErr(c, err)
		return
	}

	h.setTokenCookie(c, sess.Token)
	c.JSON(http.StatusOK, AuthResponse{
		Message: "Logged in successfully",
		Token:   sess.Token,
		User:    sess.User,
	})
}

// @Summary   Log out and revoke the token
// @Tags      users
// @Security  BearerAuth
// @Success   200  {object}  MessageResponse
// @Router    /users/logout [post]
func (h *handlers) logout(c *gin.Context) {
	if err := h.Services.Users.Logout(c.Request.Context(), claimsFrom(c)); err != nil {
		respondErr(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(tokenCookie, "", -1, "/", "", h.CookieSecure, true)
	c.JSON(http.StatusOK, MessageResponse{Message: "Logged out successfully"})
}

// @Summary   Current user
// @Tags      users
// @Security  BearerAuth
// @Success   200  {object}  MeResponse
// @Failure   401  {object}  ErrorResponse
// @Router    /users/me [get]
func (h *handlers) me(c *gin.Context) {
	u, err := h.Services.Users.Me(c.Request.Context(), claimsFrom(c).UserID)
	if err != nil {
		respondErr(c, err)
		return
	}

	c.JSON(http.StatusOK, MeResponse{User: u})
}

func (h *handlers) setTokenCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(tokenCookie, token, int(h.Issuer.TTL().Seconds()), "/", "", h.CookieSecure, true)
}
