package handler

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log"
	"net/http"
)

//go:embed templates/*
var templateFS embed.FS

// PageHandler renders the browser view.
type PageHandler struct {
	templates *template.Template
	data      PageData
}

// PageData is passed to index.gohtml.
type PageData struct {
	AppName       string
	Version       string
	RemoteEnabled bool
}

// NewPageHandler parses the embedded templates once.
func NewPageHandler(data PageData) (*PageHandler, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/index.gohtml")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &PageHandler{templates: tmpl, data: data}, nil
}

// Index handles GET /
func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.templates.ExecuteTemplate(&buf, "index.gohtml", h.data); err != nil {
		log.Printf("[Page] Template error: %v", err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
