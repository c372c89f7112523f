package handler

import (
	"errors"
	"net/http"

	"github.com/eventi/backend/internal/application/identity"
	"github.com/eventi/backend/internal/domain/shared"
	"github.com/eventi/backend/internal/interfaces/http/dto"
	"github.com/eventi/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// MsgLoggedOut is flashed after a logout
const MsgLoggedOut = "Disconnessione effettuata."

// AuthHandler handles the login and logout pages
type AuthHandler struct {
	BaseHandler
	authService *identity.AuthService
	session     middleware.SessionConfig
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *identity.AuthService, session middleware.SessionConfig) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		session:     session,
	}
}

// LoginForm renders the login page; signed in users go straight to next
func (h *AuthHandler) LoginForm(c *gin.Context) {
	next := c.Query("next")
	if middleware.GetActor(c).Authenticated {
		h.Redirect(c, middleware.SafeNext(next))
		return
	}
	h.renderLogin(c, http.StatusOK, dto.LoginForm{Next: next}, "", nil)
}

// Login checks the submitted credentials and starts a session
func (h *AuthHandler) Login(c *gin.Context) {
	var form dto.LoginForm
	if verr := bindForm(c, &form); verr != nil {
		form.Password = ""
		h.renderLogin(c, http.StatusBadRequest, form, "", verr)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), identity.LoginInput{
		Username: form.Username,
		Password: form.Password,
		IP:       c.ClientIP(),
	})
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			form.Password = ""
			h.renderLogin(c, http.StatusOK, form, identity.MsgInvalidCredentials, nil)
			return
		}
		h.InternalError(c, err)
		return
	}

	middleware.SetSessionCookie(c, h.session, result.Token, result.ExpiresAt)
	h.Redirect(c, middleware.SafeNext(form.Next))
}

// LoginRateLimited renders the login page for a client over the attempt limit
func (h *AuthHandler) LoginRateLimited(c *gin.Context) {
	form := dto.LoginForm{
		Username: c.PostForm("username"),
		Next:     c.PostForm("next"),
	}
	h.renderLogin(c, http.StatusTooManyRequests, form, middleware.MsgTooManyLoginAttempts, nil)
}

// Logout revokes the session token and clears the cookie
func (h *AuthHandler) Logout(c *gin.Context) {
	if token := middleware.SessionToken(c, h.session); token != "" {
		if err := h.authService.Logout(c.Request.Context(), token); err != nil {
			h.InternalError(c, err)
			return
		}
	}
	middleware.ClearSessionCookie(c, h.session)
	h.FlashRedirect(c, middleware.FlashInfo, MsgLoggedOut, ListPath)
}

func (h *AuthHandler) renderLogin(c *gin.Context, status int, form dto.LoginForm, message string, verr *shared.ValidationError) {
	h.Render(c, status, PageLogin, gin.H{
		"Form":   form,
		"Error":  message,
		"Errors": verr,
	})
}
