// Package api provides the menu HTTP server, its routes and API documentation.
package api

import (
	"bytes"
	_ "embed"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

//go:embed openapi.json
var openapiDocument []byte

// placeholderServer is the server entry in openapi.json replaced per request.
const placeholderServer = `"url": "//localhost:8080"`

const swaggerPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>GDP Menu API</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body style="margin:0">
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.onload = () => {
      window.ui = SwaggerUIBundle({ url: "{{SPEC_URL}}", dom_id: "#swagger-ui", deepLinking: true });
    };
  </script>
</body>
</html>`

// SwaggerUIHTML renders the Swagger UI page pointing at specURL.
func SwaggerUIHTML(specURL string) string {
	return strings.Replace(swaggerPage, "{{SPEC_URL}}", specURL, 1)
}

// DocsRouter serves Swagger UI and the OpenAPI document.
type DocsRouter struct {
	page []byte
}

// NewDocsRouter creates a documentation router whose UI loads specURL.
func NewDocsRouter(specURL string) *DocsRouter {
	return &DocsRouter{page: []byte(SwaggerUIHTML(specURL))}
}

// Routes returns the chi router for documentation endpoints.
func (d *DocsRouter) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/", d.ui)
	router.Get("/openapi.json", d.document)
	return router
}

func (d *DocsRouter) ui(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(d.page)
}

// document serves openapi.json with the server entry pointing at the host
// the request came in on, so "Try it out" works behind any proxy.
func (d *DocsRouter) document(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	server := `"url": "` + requestOrigin(r) + `"`
	_, _ = w.Write(bytes.Replace(openapiDocument, []byte(placeholderServer), []byte(server), 1))
}

func requestOrigin(r *http.Request) string {
	scheme := r.Header.Get("X-Forwarded-Proto")
	if scheme == "" {
		scheme = "http"
		if r.TLS != nil {
			scheme = "https"
		}
	}
	host := r.Header.Get("X-Forwarded-Host")
	if host == "" {
		host = r.Host
	}
	return scheme + "://" + host
}
