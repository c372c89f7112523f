package middleware

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Flash message levels, used as CSS classes by the layout
const (
	FlashSuccess = "success"
	FlashInfo    = "info"
	FlashWarning = "warning"
	FlashError   = "error"
)

const (
	flashConfigKey  = "flash_config"
	flashPendingKey = "flash_pending"
	flashCookie     = "_flash"
)

// FlashMessage is a one-time notice shown on the next rendered page
type FlashMessage struct {
	Level string `json:"level"`
	Text  string `json:"text"`
}

// Flash makes AddFlash and Flashes available to the handlers
func Flash(cfg SessionConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(flashConfigKey, cfg)
		c.Next()
	}
}

// AddFlash queues a message for the next page; it survives one redirect
func AddFlash(c *gin.Context, level, text string) {
	pending := pendingFlashes(c)
	pending = append(pending, FlashMessage{Level: level, Text: text})
	c.Set(flashPendingKey, pending)

	raw, err := json.Marshal(pending)
	if err != nil {
		return
	}
	setFlashCookie(c, base64.RawURLEncoding.EncodeToString(raw), 0)
}

// Flashes returns and consumes the queued messages, both those carried
// by the cookie and those added during this request.
func Flashes(c *gin.Context) []FlashMessage {
	var messages []FlashMessage

	if value, err := c.Cookie(flashName(c)); err == nil && value != "" {
		if raw, err := base64.RawURLEncoding.DecodeString(value); err == nil {
			var carried []FlashMessage
			if json.Unmarshal(raw, &carried) == nil {
				messages = append(messages, carried...)
			}
		}
		setFlashCookie(c, "", -1)
	}

	if pending := pendingFlashes(c); len(pending) > 0 {
		messages = append(messages, pending...)
		c.Set(flashPendingKey, []FlashMessage(nil))
		setFlashCookie(c, "", -1)
	}
	return messages
}

func pendingFlashes(c *gin.Context) []FlashMessage {
	if v, ok := c.Get(flashPendingKey); ok {
		if pending, ok := v.([]FlashMessage); ok {
			return pending
		}
	}
	return nil
}

func flashConfig(c *gin.Context) SessionConfig {
	if v, ok := c.Get(flashConfigKey); ok {
		if cfg, ok := v.(SessionConfig); ok {
			return cfg
		}
	}
	return DefaultSessionConfig()
}

func flashName(c *gin.Context) string {
	return flashConfig(c).CookieName + flashCookie
}

// setFlashCookie replaces any flash cookie already queued on the response,
// so the response carries a single Set-Cookie for it.
func setFlashCookie(c *gin.Context, value string, maxAge int) {
	cfg := flashConfig(c)
	name := cfg.CookieName + flashCookie
	cookie := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     cfg.Path,
		Domain:   cfg.Domain,
		MaxAge:   maxAge,
		Secure:   cfg.Secure,
		HttpOnly: true,
		SameSite: cfg.SameSite,
	}

	header := c.Writer.Header()
	var kept []string
	for _, v := range header.Values("Set-Cookie") {
		if !strings.HasPrefix(v, name+"=") {
			kept = append(kept, v)
		}
	}
	header.Del("Set-Cookie")
	for _, v := range kept {
		header.Add("Set-Cookie", v)
	}
	if v := cookie.String(); v != "" {
		header.Add("Set-Cookie", v)
	}
}
