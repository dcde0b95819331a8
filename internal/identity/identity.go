// Package identity works out who is acting on a request: a session user or
// an anonymous visitor carrying a client-generated token.
package identity

import (
	"strconv"
	"strings"

	"sekolahku/internal/errs"
	"sekolahku/internal/middleware"
	"sekolahku/internal/models"

	"github.com/gin-gonic/gin"
)

type Kind int

const (
	Anonymous Kind = iota + 1
	Authenticated
)

// MaxTokenLen bounds anonymous tokens to what the likes table can store.
const MaxTokenLen = 128

const (
	TokenField  = "anon_token"
	TokenHeader = "X-Anon-Token"
)

// Identity is either Authenticated(UserID) or Anonymous(Token).
type Identity struct {
	Kind   Kind
	UserID uint
	Token  string
	User   *models.User
}

func FromUser(u *models.User) Identity {
	return Identity{Kind: Authenticated, UserID: u.ID, User: u}
}

func FromToken(token string) Identity {
	return Identity{Kind: Anonymous, Token: token}
}

func (i Identity) IsAuthenticated() bool {
	return i.Kind == Authenticated
}

func (i Identity) IsAdmin() bool {
	return i.Kind == Authenticated && i.User.IsAdmin()
}

// Key is the storage identity used for per-identity uniqueness.
func (i Identity) Key() string {
	if i.Kind == Authenticated {
		return "u:" + strconv.FormatUint(uint64(i.UserID), 10)
	}
	return "a:" + i.Token
}

// Resolver resolves the acting identity of a request.
type Resolver struct {
	Anon AnonymousIdentityProvider
}

func NewResolver(anon AnonymousIdentityProvider) *Resolver {
	return &Resolver{Anon: anon}
}

// Resolve prefers the session user. Visitors are identified by the token sent
// with the request (form, header, query), then by the provider's cookie.
func (r *Resolver) Resolve(c *gin.Context) (Identity, error) {
	if user := middleware.CurrentUser(c); user != nil {
		return FromUser(user), nil
	}

	token := RequestToken(c)
	if token == "" && r.Anon != nil {
		token, _ = r.Anon.Get(c)
	}
	token = strings.TrimSpace(token)
	if token == "" || len(token) > MaxTokenLen {
		return Identity{}, errs.Identity()
	}
	return FromToken(token), nil
}

// Optional resolves the identity without failing; ok is false for visitors
// that cannot be identified yet.
func (r *Resolver) Optional(c *gin.Context) (Identity, bool) {
	id, err := r.Resolve(c)
	return id, err == nil
}

// Commenter resolves the author of a comment. Visitors are attributed by the
// name they type, so one without a token is still an anonymous commenter.
func (r *Resolver) Commenter(c *gin.Context) Identity {
	if id, err := r.Resolve(c); err == nil {
		return id
	}
	return Identity{Kind: Anonymous}
}

// RequestToken reads the anonymous token the client sent explicitly.
func RequestToken(c *gin.Context) string {
	if v := c.PostForm(TokenField); v != "" {
		return v
	}
	if v := c.GetHeader(TokenHeader); v != "" {
		return v
	}
	return c.Query(TokenField)
}
