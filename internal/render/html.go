package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed templates/map.html.tmpl
var templateFS embed.FS

var mapTemplate = template.Must(template.ParseFS(templateFS, "templates/map.html.tmpl"))

// HTMLRenderer writes a scene as a self-contained Leaflet page.
type HTMLRenderer struct {
	title string
}

// NewHTMLRenderer creates a renderer whose pages carry the given title.
func NewHTMLRenderer(title string) *HTMLRenderer {
	if title == "" {
		title = "Earthquakes"
	}
	return &HTMLRenderer{title: title}
}

type pageData struct {
	Title string
	Scene *Scene
}

// Render executes the map template. The scene is embedded as JSON.
func (r *HTMLRenderer) Render(w io.Writer, scene *Scene) error {
	if err := mapTemplate.Execute(w, pageData{Title: r.title, Scene: scene}); err != nil {
		return fmt.Errorf("render map page: %w", err)
	}
	return nil
}
