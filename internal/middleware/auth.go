package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"portfolio-content-api/internal/models"
	"portfolio-content-api/internal/session"
)

const AuthContextKey = "auth"

// AuthContext is the per-request authentication state resolved from the cookie.
type AuthContext struct {
	Authenticated bool
	SessionID     string
}

// GetAuth returns the request's auth context; unauthenticated when Resolve did not run.
func GetAuth(c *gin.Context) AuthContext {
	if v, ok := c.Get(AuthContextKey); ok {
		if auth, ok := v.(AuthContext); ok {
			return auth
		}
	}
	return AuthContext{}
}

// SessionGate ties the admin session cookie to the session manager.
type SessionGate struct {
	manager    *session.Manager
	codec      *session.TokenCodec
	cookieName string
	secure     bool
	logger     *slog.Logger
}

func NewSessionGate(manager *session.Manager, codec *session.TokenCodec, cookieName string, secure bool, logger *slog.Logger) *SessionGate {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionGate{
		manager:    manager,
		codec:      codec,
		cookieName: cookieName,
		secure:     secure,
		logger:     logger,
	}
}

func (g *SessionGate) Manager() *session.Manager { return g.manager }

// Resolve reads the session cookie and stores an AuthContext on every request.
// Forged, expired or unknown tokens leave the request unauthenticated.
func (g *SessionGate) Resolve() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := AuthContext{}

		if token, err := c.Cookie(g.cookieName); err == nil && token != "" {
			if id, err := g.codec.Parse(token); err == nil {
				sess, err := g.manager.Lookup(c.Request.Context(), id)
				switch {
				case err == nil:
					auth = AuthContext{Authenticated: sess.AdminAuthenticated, SessionID: sess.ID}
				case !errors.Is(err, session.ErrNotFound):
					g.logger.Error("session lookup failed", "error", err)
				}
			}
		}

		c.Set(AuthContextKey, auth)
		c.Next()
	}
}

// RequireAdmin aborts with 401 unless the request carries an authenticated session.
func (g *SessionGate) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !GetAuth(c).Authenticated {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.Fail(models.CodeUnauthorized, "Unauthorized"))
			return
		}
		c.Next()
	}
}

// Issue writes the cookie for a freshly created session.
func (g *SessionGate) Issue(c *gin.Context, sess session.Session) error {
	token, err := g.codec.Issue(sess)
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(g.cookieName, token, int(g.manager.TTL().Seconds()), "/", "", g.secure, true)
	return nil
}

// Clear expires the session cookie on the client.
func (g *SessionGate) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(g.cookieName, "", -1, "/", "", g.secure, true)
}
