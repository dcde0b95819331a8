package router

import (
	"fmt"
	"html/template"
	"net/url"
	"path/filepath"
	"time"

	"github.com/gin-contrib/multitemplate"
)

// views 页面模板，键名与 handler 中 Render 的名字一致
var views = []string{
	"article/home.html",
	"article/list.html",
	"article/detail.html",
	"admin/comments.html",
	"auth/login.html",
	"error.html",
}

// LoadTemplates builds one template set per view: layouts, includes and the view itself.
func LoadTemplates(templatesDir string) multitemplate.Renderer {
	r := multitemplate.NewRenderer()

	layouts, err := filepath.Glob(templatesDir + "/layouts/*.html")
	if err != nil {
		panic(err)
	}

	includes, err := filepath.Glob(templatesDir + "/includes/*.html")
	if err != nil {
		panic(err)
	}

	assemble := func(view string) []string {
		files := make([]string, 0, len(layouts)+len(includes)+1)
		files = append(files, layouts...)
		files = append(files, includes...)
		files = append(files, view)
		return files
	}

	for _, name := range views {
		r.AddFromFilesFuncs(name, FuncMap(), assemble(templatesDir+"/views/"+name)...)
	}
	return r
}

// FuncMap 模板函数
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"add": func(a, b int) int {
			return a + b
		},
		"sub": func(a, b int) int {
			return a - b
		},
		"timeAgo": func(t interface{}) string {
			timeVal, ok := t.(time.Time)
			if !ok {
				return ""
			}
			return timeAgo(time.Since(timeVal))
		},
		"date": func(t time.Time) string {
			return t.Format("02/01/2006")
		},
		"eq": func(a, b interface{}) bool {
			return a == b
		},
		"gt": func(a, b int) bool {
			return a > b
		},
		"urlquery": func(s string) string {
			return url.QueryEscape(s)
		},
	}
}

func timeAgo(d time.Duration) string {
	seconds := int(d.Seconds())
	switch {
	case seconds < 60:
		return "baru saja"
	case seconds < 3600:
		return fmt.Sprintf("%d menit lalu", seconds/60)
	case seconds < 86400:
		return fmt.Sprintf("%d jam lalu", seconds/3600)
	case seconds < 2592000:
		return fmt.Sprintf("%d hari lalu", seconds/86400)
	case seconds < 31536000:
		return fmt.Sprintf("%d bulan lalu", seconds/2592000)
	}
	return fmt.Sprintf("%d tahun lalu", seconds/31536000)
}
