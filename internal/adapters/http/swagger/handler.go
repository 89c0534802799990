// Package swagger serves the embedded OpenAPI document of the search API.
package swagger

import (
	"context"
	_ "embed"
	"net/http"
	"strconv"
)

// Path is the route of the OpenAPI document.
const Path = "/openapi.yaml"

// OpenAPI is the document describing /search, /artist and the operational routes.
//
//go:embed openapi.yaml
var OpenAPI []byte

// Register mounts the document on mux. Only GET and HEAD are allowed.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("swagger: nil mux")
	}
	mux.HandleFunc(Path, serveDocument)
}

func serveDocument(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
	default:
		w.Header().Set("Allow", "GET, HEAD")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	h := w.Header()
	h.Set("Content-Type", "application/yaml; charset=utf-8")
	h.Set("Content-Length", strconv.Itoa(len(OpenAPI)))
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write(OpenAPI)
}
