package web

import (
	"io/fs"
	"net/http"
)

// RegisterRoutes registers all web GUI routes on the provided mux.
// Routes are relative to the base path; MountAt strips it.
// Static assets are served from the embedded filesystem at /static/*.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(staticAssets())))

	// Page routes. /summary/{id} is linked from the sidebar but has no page.
	mux.HandleFunc("GET /{$}", h.PRList)
	mux.HandleFunc("GET /pr/{id}", h.PRDetail)

	// Live view interaction.
	mux.HandleFunc("GET /views/{viewID}", h.ViewFragment)
	mux.HandleFunc("POST /views/{viewID}/events", h.ViewEvent)
	mux.HandleFunc("DELETE /views/{viewID}", h.UnmountView)
}

func staticAssets() fs.FS {
	sub, err := fs.Sub(StaticFS, "static")
	if err != nil {
		panic("web: static assets: " + err.Error())
	}
	return sub
}
