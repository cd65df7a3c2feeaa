// Package web holds the HTML templates and static assets compiled into the
// binary.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/developer-az/food-tracker/internal/nutrition"
	"github.com/developer-az/food-tracker/internal/util"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Static returns the static asset tree rooted at static/.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// Funcs are the helpers available to every page.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"fieldError": func(ve *util.ValidationError, field string) string {
			return ve.Field(field)
		},
		"nonFieldError": func(ve *util.ValidationError) string {
			return ve.NonField()
		},
		"dec": func(d decimal.Decimal, places int32) string {
			return d.StringFixed(places)
		},
		"pct": func(p nutrition.Progress, key string) string {
			v, ok := p[key]
			if !ok {
				return ""
			}
			return fmt.Sprintf("%.0f", v)
		},
		"date": func(t time.Time, layout string) string {
			if t.IsZero() {
				return ""
			}
			return t.Format(layout)
		},
		"title": func(s string) string {
			if s == "" {
				return s
			}
			return strings.ToUpper(s[:1]) + s[1:]
		},
	}
}

// Templates parses every page with Funcs.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(Funcs()).ParseFS(templateFS, "templates/*.html")
}
