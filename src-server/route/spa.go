package route

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"calendar/src-server/model"
	"calendar/src-server/utils"
)

// SPA serves the built web client in production and falls back to
// index.html for client-side routes. Outside production the root only
// answers with a liveness line.
func SPA(muxer *http.ServeMux, as *utils.AppState) {
	if !as.Config.IsProduction() {
		muxer.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("Calendar App API is running..."))
		})
		return
	}

	files := http.FS(os.DirFS(as.Config.GetStaticWebClientDir()))
	indexFile, err := files.Open("index.html")
	if err != nil {
		slog.Error("Can't open index.html", "err", err)
		return
	}
	defer indexFile.Close()
	indexFileStat, err := indexFile.Stat()
	if err != nil {
		slog.Error("Can't get index.html stat", "err", err)
		return
	}
	// kept in memory so concurrent requests don't share a file offset
	indexContent, err := io.ReadAll(indexFile)
	if err != nil {
		slog.Error("Can't read index.html", "err", err)
		return
	}
	serveIndex := func(w http.ResponseWriter, r *http.Request) {
		http.ServeContent(w, r, indexFileStat.Name(), indexFileStat.ModTime(), bytes.NewReader(indexContent))
	}

	muxer.HandleFunc("GET /{filepath...}", func(w http.ResponseWriter, r *http.Request) {
		// unknown API paths get a 404, never the HTML shell
		if r.URL.Path == "/api" || strings.HasPrefix(r.URL.Path, "/api/") {
			writeMessage(w, http.StatusNotFound, "Not found")
			return
		}

		filepath := filepath.Clean(r.PathValue("filepath"))
		if filepath == "." {
			filepath = "index.html"
		}

		file, err := files.Open(filepath)
		if err != nil {
			serveIndex(w, r)
			return
		}
		defer file.Close()

		stat, err := file.Stat()
		if err != nil || stat.IsDir() {
			serveIndex(w, r)
			return
		}

		http.ServeContent(w, r, stat.Name(), stat.ModTime(), file)
	})
}

// Health reports whether the store answers.
func Health(muxer *http.ServeMux, as *utils.AppState) {
	muxer.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if err := model.Ping(r.Context(), as.BunDB); err != nil {
			slog.Warn("health check failed", "error", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("store unavailable"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}
