// Package flash carries one-shot notices across a redirect in a signed
// cookie.
package flash

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"filebrowser/internal/logging"
)

const (
	CookieName = "fb_flash"

	KindSuccess = "success"
	KindError   = "error"

	pendingKey = "flash.pending"
	dirtyKey   = "flash.dirty"
	lifetime   = 10 * time.Minute

	// MaxCookieBytes bounds name=value of the flash cookie. Browsers drop
	// cookies above 4096 bytes.
	MaxCookieBytes = 4000
)

type Notice struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type claims struct {
	Notices []Notice `json:"notices"`
	jwt.RegisteredClaims
}

// Store signs notices with an HMAC key.
type Store struct {
	key    []byte
	method jwt.SigningMethod
}

func NewStore(secret string) (*Store, error) {
	if secret == "" {
		return nil, errors.New("flash secret is empty")
	}
	return &Store{key: []byte(secret), method: jwt.SigningMethodHS256}, nil
}

// Add queues a notice for the next rendered page. Notices added earlier in
// the same request, or still unread from a previous one, are kept. Nothing
// reaches the client until Save.
func (s *Store) Add(c *gin.Context, kind, message string) {
	notices := append(s.pending(c), Notice{Kind: kind, Message: message})
	c.Set(pendingKey, notices)
	c.Set(dirtyKey, true)
}

func (s *Store) Success(c *gin.Context, message string) { s.Add(c, KindSuccess, message) }

func (s *Store) Error(c *gin.Context, message string) { s.Add(c, KindError, message) }

// Save writes the notices queued by Add as a single cookie. It must run
// before the response headers are written. When the signed token would not
// fit in MaxCookieBytes the oldest notices are dropped; the newest one is
// always kept.
func (s *Store) Save(c *gin.Context) {
	if !c.GetBool(dirtyKey) {
		return
	}
	c.Set(dirtyKey, false)

	notices := s.pending(c)
	if len(notices) == 0 {
		return
	}

	limit := MaxCookieBytes - len(CookieName) - 1
	token, err := s.encode(notices)
	for err == nil && len(token) > limit && len(notices) > 1 {
		notices = notices[1:]
		token, err = s.encode(notices)
	}
	if err != nil {
		logging.FromContext(c).Warn("flash notices not saved", zap.Int("notices", len(notices)), zap.Error(err))
		return
	}
	if len(token) > limit {
		logging.FromContext(c).Warn("flash notice too large", zap.Int("bytes", len(token)))
		return
	}
	if dropped := len(s.pending(c)) - len(notices); dropped > 0 {
		logging.FromContext(c).Warn("flash notices truncated", zap.Int("dropped", dropped))
	}

	http.SetCookie(c.Writer, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(lifetime.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Pop returns every pending notice and clears the cookie.
func (s *Store) Pop(c *gin.Context) []Notice {
	notices := s.pending(c)
	c.Set(pendingKey, []Notice(nil))
	c.Set(dirtyKey, false)
	if _, err := c.Cookie(CookieName); err == nil {
		http.SetCookie(c.Writer, &http.Cookie{
			Name:     CookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return notices
}

func (s *Store) pending(c *gin.Context) []Notice {
	if v, ok := c.Get(pendingKey); ok {
		notices, _ := v.([]Notice)
		return notices
	}
	raw, err := c.Cookie(CookieName)
	if err != nil || raw == "" {
		return nil
	}
	notices, err := s.decode(raw)
	if err != nil {
		return nil
	}
	return notices
}

func (s *Store) encode(notices []Notice) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(s.method, claims{
		Notices: notices,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
		},
	})
	return token.SignedString(s.key)
}

func (s *Store) decode(raw string) ([]Notice, error) {
	var cl claims
	_, err := jwt.ParseWithClaims(raw, &cl, func(*jwt.Token) (interface{}, error) {
		return s.key, nil
	}, jwt.WithValidMethods([]string{s.method.Alg()}))
	if err != nil {
		return nil, err
	}
	return cl.Notices, nil
}
