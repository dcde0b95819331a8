package handlers

import (
	"log"
	"net/http"
	"strings"

	"sekolahku/internal/errs"
	"sekolahku/internal/middleware"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// Render helper to inject common variables like 'current user'
func Render(c *gin.Context, code int, name string, obj gin.H) {
	if obj == nil {
		obj = gin.H{}
	}

	if user := middleware.CurrentUser(c); user != nil {
		obj["CurrentUser"] = user
	}
	obj["CurrentPath"] = c.Request.URL.Path

	c.HTML(code, name, obj)
}

// Error helper
func RenderError(c *gin.Context, code int, message string) {
	Render(c, code, "error.html", gin.H{"Error": message})
}

// JSONOK writes a successful discriminated result.
func JSONOK(c *gin.Context, obj gin.H) {
	if obj == nil {
		obj = gin.H{}
	}
	obj["ok"] = true
	c.JSON(http.StatusOK, obj)
}

// JSONError writes a failed discriminated result. Persistence details stay
// in the server log.
func JSONError(c *gin.Context, err error) {
	e := errs.As(err)
	if e.Kind == errs.PersistenceError {
		log.Printf("[api] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	body := gin.H{"kind": e.Kind, "message": e.Public()}
	if e.Field != "" {
		body["field"] = e.Field
	}
	c.JSON(errs.Status(err), gin.H{"ok": false, "error": body})
}

// wantsHTML is true for browser navigations, false for fetch/XHR callers.
func wantsHTML(c *gin.Context) bool {
	return c.NegotiateFormat(gin.MIMEJSON, gin.MIMEHTML) == gin.MIMEHTML
}

// safePath accepts only local absolute paths as revalidation targets.
func safePath(p string) string {
	p = strings.TrimSpace(p)
	if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.Contains(p, "\\") {
		return ""
	}
	return p
}

const flashCommentOK = "comment_ok"

func addFlash(c *gin.Context, key, msg string) {
	session := sessions.Default(c)
	session.AddFlash(msg, key)
	_ = session.Save()
}

func popFlash(c *gin.Context, key string) string {
	session := sessions.Default(c)
	flashes := session.Flashes(key)
	if len(flashes) == 0 {
		return ""
	}
	_ = session.Save()
	if s, ok := flashes[0].(string); ok {
		return s
	}
	return ""
}
