package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

type linkData struct {
	Link string
}

func renderTemplate(name, link string) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, linkData{Link: link}); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}
