package handlers

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"strings"

	"spotfinder/internal/models"
)

//go:embed templates/*.html templates/assets/*
var templatesFS embed.FS

// AssetsFS serves the stylesheet and scripts under /assets
func AssetsFS() http.FileSystem {
	sub, err := fs.Sub(templatesFS, "templates/assets")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}

// LoadTemplates parses the embedded page templates
func LoadTemplates() (*template.Template, error) {
	return template.New("").Funcs(TemplateFuncs()).ParseFS(templatesFS, "templates/*.html")
}

// TemplateFuncs are the helpers available to page templates
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"powerLabel": models.PowerLabel,
		"stars":      starString,
		"inc":        func(i int) int { return i + 1 },
		"starOptions": func() []int {
			opts := make([]int, 0, models.MaxStars)
			for s := models.MaxStars; s >= models.MinStars; s-- {
				opts = append(opts, s)
			}
			return opts
		},
		"sortKeys": func() []struct {
			Key   models.SortKey
			Label string
		} {
			return models.SortKeys
		},
	}
}

func starString(n int) string {
	n = models.ClampStars(n)
	return strings.Repeat("★", n) + strings.Repeat("☆", models.MaxStars-n)
}
