// Package views holds the embedded HTML pages and builds the fiber html engine that renders
// them inside the shared layout.
package views

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"

	"github.com/gofiber/template/html/v2"

	"github.com/civicdesk/grievance-service/internal/domain"
)

//go:embed templates/*.html
var templateFiles embed.FS

// Layout is the page every view is embedded into.
const Layout = "layout"

// New returns a loaded engine for use as fiber.Config.Views.
func New() (*html.Engine, error) {
	pages, err := fs.Sub(templateFiles, "templates")
	if err != nil {
		return nil, err
	}

	engine := html.NewFileSystem(http.FS(pages), ".html")
	engine.AddFunc("slug", func(d domain.Department) string { return d.Slug() })
	engine.AddFunc("deref", func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	})

	if err := engine.Load(); err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return engine, nil
}
