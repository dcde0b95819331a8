package identity

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AnonymousIdentityProvider owns the persistent anonymous token of a client.
// The token is a deduplication key, not a credential: clearing it makes the
// browser a new anonymous identity.
type AnonymousIdentityProvider interface {
	// Get returns the stored token, if any.
	Get(c *gin.Context) (string, bool)
	// Ensure returns the stored token, minting one on first use.
	Ensure(c *gin.Context) string
}

// DefaultCookie 匿名身份 cookie 名，与前端 localStorage 键名保持一致
const DefaultCookie = "school_anon_token"

// CookieProvider keeps the token in a long-lived cookie. Browsers with JS
// keep it in localStorage instead and send it with every request.
type CookieProvider struct {
	Name   string
	MaxAge int
	Secure bool
}

func NewCookieProvider() *CookieProvider {
	return &CookieProvider{
		Name:   DefaultCookie,
		MaxAge: 400 * 24 * 3600,
	}
}

var _ AnonymousIdentityProvider = (*CookieProvider)(nil)

func (p *CookieProvider) Get(c *gin.Context) (string, bool) {
	v, err := c.Cookie(p.Name)
	if err != nil || v == "" || len(v) > MaxTokenLen {
		return "", false
	}
	return v, true
}

func (p *CookieProvider) Ensure(c *gin.Context) string {
	if v, ok := p.Get(c); ok {
		return v
	}
	token := uuid.NewString()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(p.Name, token, p.MaxAge, "/", "", p.Secure, true)
	return token
}
