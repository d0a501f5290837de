package web

import (
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/facekiosk/facekiosk/internal/web/handlers"
	"github.com/facekiosk/facekiosk/internal/web/static"
)

func (s *Server) setupRoutes() {
	checkinHandler := handlers.NewCheckinHandler(s.kiosk)
	staffHandler := handlers.NewStaffHandler(s.kiosk)
	historyHandler := handlers.NewHistoryHandler(s.kiosk)
	settingsHandler := handlers.NewSettingsHandler(s.kiosk)
	syncHandler := handlers.NewSyncHandler(s.kiosk)
	statsHandler := handlers.NewStatsHandler(s.kiosk)

	// Health check
	s.router.Get("/api/v1/health", handlers.HealthCheck)

	// API routes
	s.router.Route("/api/v1", func(r chi.Router) {
		// Check-in
		r.Get("/state", checkinHandler.State)
		r.Post("/checkin", checkinHandler.Attempt)

		// Roster
		r.Get("/staff", staffHandler.List)
		r.Post("/staff", staffHandler.Create)
		r.Delete("/staff/{id}", staffHandler.Delete)
		r.Put("/staff/{id}/photo", staffHandler.UpdatePhoto)

		// Attendance
		r.Get("/history", historyHandler.List)

		// Settings
		r.Get("/settings", settingsHandler.Get)
		r.Put("/settings", settingsHandler.Update)
		r.Post("/settings/test", settingsHandler.Test)

		// Remote sync
		r.Post("/sync", syncHandler.Trigger)

		// Dashboard
		r.Get("/stats", statsHandler.Get)
	})

	// Serve static files for the kiosk frontend (SPA)
	s.router.Get("/*", s.serveSPA)
}

// serveSPA serves the single-page kiosk frontend.
func (s *Server) serveSPA(w http.ResponseWriter, r *http.Request) {
	if static.HasDist() {
		fs := static.GetFileSystem()
		path := r.URL.Path
		if path == "/" {
			path = "/index.html"
		}

		f, err := fs.Open(path)
		if err == nil {
			defer f.Close()

			stat, err := f.Stat()
			if err == nil && !stat.IsDir() {
				contentType := "application/octet-stream"
				switch {
				case strings.HasSuffix(path, ".html"):
					contentType = "text/html; charset=utf-8"
				case strings.HasSuffix(path, ".css"):
					contentType = "text/css; charset=utf-8"
				case strings.HasSuffix(path, ".js"):
					contentType = "application/javascript; charset=utf-8"
				case strings.HasSuffix(path, ".json"):
					contentType = "application/json"
				case strings.HasSuffix(path, ".svg"):
					contentType = "image/svg+xml"
				case strings.HasSuffix(path, ".png"):
					contentType = "image/png"
				case strings.HasSuffix(path, ".jpg"), strings.HasSuffix(path, ".jpeg"):
					contentType = "image/jpeg"
				case strings.HasSuffix(path, ".ico"):
					contentType = "image/x-icon"
				case strings.HasSuffix(path, ".woff2"):
					contentType = "font/woff2"
				case strings.HasSuffix(path, ".woff"):
					contentType = "font/woff"
				}

				w.Header().Set("Content-Type", contentType)

				if strings.HasPrefix(path, "/assets/") {
					w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
				}

				w.WriteHeader(http.StatusOK)
				io.Copy(w, f)
				return
			}
		}

		// For SPA routing, serve index.html for non-asset paths
		if !strings.HasPrefix(path, "/assets/") {
			indexFile, err := fs.Open("/index.html")
			if err == nil {
				defer indexFile.Close()
				w.Header().Set("Content-Type", "text/html; charset=utf-8")
				w.WriteHeader(http.StatusOK)
				io.Copy(w, indexFile)
				return
			}
		}
	}

	// Fallback: return placeholder page if no frontend is built
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`<!DOCTYPE html>
<html>
<head>
    <title>Attendance Kiosk</title>
    <style>
        body { font-family: system-ui, sans-serif; display: flex; justify-content: center; align-items: center; height: 100vh; margin: 0; background: #10141c; color: #eee; }
        .container { text-align: center; }
        h1 { color: #4fc3f7; }
        p { color: #aaa; }
        a { color: #4fc3f7; }
    </style>
</head>
<body>
    <div class="container">
        <h1>Attendance Kiosk</h1>
        <p>Frontend assets are missing from this build.</p>
        <p>API is available at <a href="/api/v1/health">/api/v1/health</a></p>
    </div>
</body>
</html>`))
}
