package middleware

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/eventi/backend/internal/domain/event"
	"github.com/eventi/backend/internal/infrastructure/config"
	"github.com/eventi/backend/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ActorKey is the gin context key holding the request actor
const ActorKey = "actor"

// LoginPath is where RequireLogin sends anonymous visitors
const LoginPath = "/accounts/login/"

// Authenticator resolves a session token into the request actor
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (event.Actor, error)
}

// SessionConfig holds the attributes of the session and flash cookies
type SessionConfig struct {
	CookieName string
	Domain     string
	Path       string
	Secure     bool
	SameSite   http.SameSite
}

// DefaultSessionConfig returns the cookie settings used in development
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		CookieName: "eventi_session",
		Path:       "/",
		SameSite:   http.SameSiteLaxMode,
	}
}

// SessionConfigFrom maps the cookie section of the configuration
func SessionConfigFrom(cfg config.CookieConfig) SessionConfig {
	sc := DefaultSessionConfig()
	if cfg.Name != "" {
		sc.CookieName = cfg.Name
	}
	if cfg.Path != "" {
		sc.Path = cfg.Path
	}
	sc.Domain = cfg.Domain
	sc.Secure = cfg.Secure
	sc.SameSite = ParseSameSite(cfg.SameSite)
	return sc
}

// ParseSameSite maps strict, lax and none; anything else is lax
func ParseSameSite(s string) http.SameSite {
	switch strings.ToLower(s) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

// Session resolves the session cookie into the request actor.
// Invalid or revoked tokens are dropped and the request continues anonymously.
// It runs after the logger middleware so the username reaches the access log.
func Session(auth Authenticator, cfg SessionConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := event.Anonymous()

		if token := SessionToken(c, cfg); token != "" {
			a, err := auth.Authenticate(c.Request.Context(), token)
			if err != nil {
				logger.GetGinLogger(c).Debug("Discarding session cookie", zap.Error(err))
				ClearSessionCookie(c, cfg)
			} else {
				actor = a
			}
		}

		c.Set(ActorKey, actor)
		if actor.Authenticated {
			c.Request = c.Request.WithContext(logger.WithUsername(c.Request.Context(), actor.Username))
		}
		c.Next()
	}
}

// GetActor returns the actor set by Session, anonymous when unset
func GetActor(c *gin.Context) event.Actor {
	if v, ok := c.Get(ActorKey); ok {
		if actor, ok := v.(event.Actor); ok {
			return actor
		}
	}
	return event.Anonymous()
}

// RequireLogin redirects anonymous visitors to the login page,
// remembering the requested URL in the next parameter.
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetActor(c).Authenticated {
			c.Next()
			return
		}
		c.Redirect(http.StatusFound, LoginURL(c.Request.URL.RequestURI()))
		c.Abort()
	}
}

// LoginURL returns the login page address for a return location
func LoginURL(next string) string {
	if next == "" {
		return LoginPath
	}
	return LoginPath + "?next=" + url.QueryEscape(next)
}

// SafeNext accepts only local paths as a post-login redirect target
func SafeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}

// SessionToken reads the token from the session cookie
func SessionToken(c *gin.Context, cfg SessionConfig) string {
	token, err := c.Cookie(cfg.CookieName)
	if err != nil {
		return ""
	}
	return token
}

// SetSessionCookie stores the token until it expires
func SetSessionCookie(c *gin.Context, cfg SessionConfig, token string, expiresAt time.Time) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     cfg.CookieName,
		Value:    token,
		Path:     cfg.Path,
		Domain:   cfg.Domain,
		Expires:  expiresAt,
		MaxAge:   int(time.Until(expiresAt).Seconds()),
		Secure:   cfg.Secure,
		HttpOnly: true,
		SameSite: cfg.SameSite,
	})
}

// ClearSessionCookie removes the session cookie
func ClearSessionCookie(c *gin.Context, cfg SessionConfig) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     cfg.CookieName,
		Value:    "",
		Path:     cfg.Path,
		Domain:   cfg.Domain,
		MaxAge:   -1,
		Secure:   cfg.Secure,
		HttpOnly: true,
		SameSite: cfg.SameSite,
	})
}
