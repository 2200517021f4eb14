package handler

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/Saifullah3711/cac-multi-docs-mvp/config"
	"github.com/Saifullah3711/cac-multi-docs-mvp/middleware"
	"github.com/Saifullah3711/cac-multi-docs-mvp/model"
	"github.com/Saifullah3711/cac-multi-docs-mvp/pkg/logger"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandler serves the optional login page. The credential check compares
// against the single configured pair and is a placeholder, not access
// control. The configured password may be a bcrypt hash.
type AuthHandler struct {
	config *config.Config
}

func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{config: cfg}
}

func (h *AuthHandler) loginPage(name string, notices ...model.Notice) pageData {
	return pageData{
		Title:     pageTitle + " - Login",
		LoginName: name,
		Notices:   notices,
	}
}

// ShowLogin renders the login form.
func (h *AuthHandler) ShowLogin(c *gin.Context) {
	c.HTML(http.StatusOK, "login", h.loginPage(""))
}

// Login checks the posted credentials and sets the token cookie.
func (h *AuthHandler) Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	if !h.valid(username, password) {
		logger.Warn(c.Request.Context(), "login failed", "username", username, "client_ip", c.ClientIP())
		c.HTML(http.StatusUnauthorized, "login", h.loginPage(username, model.Notice{
			Level: model.NoticeError,
			Text:  "Invalid username or password",
		}))
		return
	}

	token, expiresAt, err := middleware.GenerateToken(username, &h.config.Auth)
	if err != nil {
		logger.Error(c.Request.Context(), "failed to generate token", "error", err)
		c.HTML(http.StatusInternalServerError, "login", h.loginPage(username, model.Notice{
			Level: model.NoticeError,
			Text:  "Failed to generate token",
		}))
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AuthCookieName, token, int(time.Until(expiresAt).Seconds()), "/", "", false, true)
	logger.Info(c.Request.Context(), "login succeeded", "username", username)
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *AuthHandler) valid(username, password string) bool {
	auth := h.config.Auth
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(auth.Username)) == 1
	return userOK && passwordMatches(auth.Password, password)
}

func passwordMatches(configured, password string) bool {
	if configured == "" {
		return false
	}
	if strings.HasPrefix(configured, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(configured), []byte(password)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(password), []byte(configured)) == 1
}

// Logout resets the session and clears the token cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	if state := middleware.GetSession(c); state != nil {
		state.Reset()
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AuthCookieName, "", -1, "/", "", false, true)
	logger.Info(c.Request.Context(), "logged out", "username", middleware.GetUsername(c))
	c.Redirect(http.StatusSeeOther, middleware.LoginPath)
}
