package harness

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-barry/harness/core"
	"go.uber.org/zap"
)

const DefaultConfigPath = "harness.config.yml"

type RuntimeConfig struct {
	Env        string
	Port       int
	ConfigPath string
}

var ListenAndServe = http.ListenAndServe

// Server is everything Start needs: the address, the root handler and, in
// dev, the reloader that file changes are broadcast to.
type Server struct {
	Addr     string
	Handler  http.Handler
	Config   core.Config
	Logger   *zap.Logger
	Reloader core.LiveReloaderInterface
}

func BuildServer(cfg RuntimeConfig) (*Server, error) {
	if cfg.ConfigPath == "" {
		cfg.ConfigPath = DefaultConfigPath
	}
	config := core.LoadConfig(cfg.ConfigPath)

	logger, err := core.NewLogger(config)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	mux := http.NewServeMux()
	publicDir := config.AppPath(config.PublicDir)
	cacheStaticDir := filepath.Join(config.AppPath(config.OutputDir), "static")

	runtime := core.RuntimeContext{Env: cfg.Env}
	srv := &Server{
		Addr:   fmt.Sprintf(":%d", cfg.Port),
		Config: config,
		Logger: logger,
	}

	if cfg.Env == "dev" {
		setupDevStaticRoutes(mux, publicDir)

		srv.Reloader = core.NewLiveReloader(logger)
		mux.HandleFunc(core.ReloadPath, srv.Reloader.Handler)
		runtime.EnableWatch = true
		runtime.ReloadPath = core.ReloadPath
	} else {
		mux.Handle("/static/", makeStaticHandler(publicDir, cacheStaticDir))
		for _, name := range []string{"favicon.ico", "robots.txt"} {
			file := filepath.Join(publicDir, name)
			mux.HandleFunc("/"+name, func(w http.ResponseWriter, r *http.Request) {
				serveFileWithHeaders(w, r, file, "public, max-age=31536000, immutable")
			})
		}
	}

	mux.Handle("/", core.NewRouter(config, runtime, logger))
	srv.Handler = mux
	return srv, nil
}

// Start builds the server and blocks serving it. In dev mode spec,
// component and layout edits trigger a live reload.
func Start(cfg RuntimeConfig) error {
	srv, err := BuildServer(cfg)
	if err != nil {
		return err
	}
	defer srv.Logger.Sync()

	if srv.Reloader != nil {
		watcher, err := core.NewSpecWatcher(srv.Config, func(string) {
			srv.Reloader.BroadcastReload()
		}, srv.Logger)
		if err != nil {
			return fmt.Errorf("creating watcher: %w", err)
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		if err := watcher.Start(ctx); err != nil {
			return fmt.Errorf("starting watcher: %w", err)
		}
		defer watcher.Close()
	}

	srv.Logger.Info("harness listening",
		zap.String("env", cfg.Env),
		zap.String("addr", srv.Addr),
		zap.String("spec_root", core.NewResolver(srv.Config).Root()))
	fmt.Printf("✅ Harness running at http://localhost:%d/runner\n", cfg.Port)

	if err := ListenAndServe(srv.Addr, srv.Handler); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

func setupDevStaticRoutes(mux *http.ServeMux, publicDir string) {
	mux.Handle("/static/", http.StripPrefix("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		http.FileServer(http.Dir(publicDir)).ServeHTTP(w, r)
	})))

	for _, name := range []string{"favicon.ico", "robots.txt"} {
		file := filepath.Join(publicDir, name)
		mux.HandleFunc("/"+name, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "no-store")
			http.ServeFile(w, r, file)
		})
	}
}

// makeStaticHandler serves /static/ from the minified cache, preferring a
// gzipped copy, and falls back to the public directory.
func makeStaticHandler(publicDir, cacheStaticDir string) http.Handler {
	const immutable = "public, max-age=31536000, immutable"

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rel := strings.TrimPrefix(r.URL.Path, "/static/")
		if strings.Contains(rel, "..") {
			http.Error(w, "invalid path", http.StatusBadRequest)
			return
		}

		cachedFile := filepath.Join(cacheStaticDir, rel)
		if acceptsGzip(r) {
			if _, err := os.Stat(cachedFile + ".gz"); err == nil {
				w.Header().Set("Content-Type", detectMimeType(cachedFile))
				w.Header().Set("Content-Encoding", "gzip")
				w.Header().Set("Vary", "Accept-Encoding")
				w.Header().Set("Cache-Control", immutable)
				http.ServeFile(w, r, cachedFile+".gz")
				return
			}
		}

		if _, err := os.Stat(cachedFile); err == nil {
			serveFileWithHeaders(w, r, cachedFile, immutable)
			return
		}

		publicFile := filepath.Join(publicDir, rel)
		if _, err := os.Stat(publicFile); err == nil {
			serveFileWithHeaders(w, r, publicFile, immutable)
			return
		}

		http.NotFound(w, r)
	})
}

func serveFileWithHeaders(w http.ResponseWriter, r *http.Request, path, cacheControl string) {
	w.Header().Set("Content-Type", detectMimeType(path))
	w.Header().Set("Cache-Control", cacheControl)
	http.ServeFile(w, r, path)
}

func detectMimeType(path string) string {
	switch filepath.Ext(path) {
	case ".css":
		return "text/css"
	case ".js":
		return "application/javascript"
	case ".map":
		return "application/json"
	case ".html":
		return "text/html; charset=utf-8"
	case ".webp":
		return "image/webp"
	case ".svg":
		return "image/svg+xml"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".woff":
		return "font/woff"
	case ".woff2":
		return "font/woff2"
	default:
		return "application/octet-stream"
	}
}

func acceptsGzip(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept-Encoding"), "gzip")
}
