// Package templates holds the embedded HTML pages rendered by the web routes.
package templates

import (
	"embed"
	"fmt"
	"html/template"
	"time"
)

//go:embed *.tmpl
var files embed.FS

var funcs = template.FuncMap{
	"date": func(v interface{}) string {
		switch t := v.(type) {
		case time.Time:
			if t.IsZero() {
				return ""
			}
			return t.Format("02/01/2006")
		case *time.Time:
			if t == nil || t.IsZero() {
				return ""
			}
			return t.Format("02/01/2006")
		}
		return ""
	},
	"isodate": func(t *time.Time) string {
		if t == nil || t.IsZero() {
			return ""
		}
		return t.Format("2006-01-02")
	},
	"money": func(v float64) string {
		return fmt.Sprintf("%.2f", v)
	},
}

// Load parses every page template.
func Load() (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(files, "*.tmpl")
}

func MustLoad() *template.Template {
	return template.Must(Load())
}
