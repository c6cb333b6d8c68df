package core

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type RuntimeContext struct {
	Env         string
	EnableWatch bool
	ReloadPath  string
}

// Router serves the component, spec and runner endpoints.
type Router struct {
	config   Config
	mux      chi.Router
	logger   *zap.Logger
	specs    *SpecServer
	renderer *ComponentRenderer
}

func NewRouter(config Config, runtime RuntimeContext, logger *zap.Logger) *Router {
	config = config.withDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &Router{
		config:   config,
		logger:   logger,
		specs:    NewSpecServer(NewResolver(config), NewCompiler(config)),
		renderer: NewComponentRenderer(config, runtime),
	}

	mux := chi.NewRouter()
	mux.Use(middleware.RequestID)
	mux.Use(requestLogger(logger))
	mux.Use(middleware.Recoverer)

	mux.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/runner", http.StatusFound)
	})
	mux.Get("/runner", r.handleRunner)
	mux.Get("/components", r.handleComponent)
	mux.Get("/components/*", r.handleComponent)
	mux.Get("/specs", r.handleSpec)
	mux.Get("/specs/*", r.handleSpec)

	r.mux = mux
	return r
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

func (r *Router) handleComponent(w http.ResponseWriter, req *http.Request) {
	className := req.URL.Query().Get("class")
	if className == "" {
		className = chi.URLParam(req, "*")
	}
	if className == "" {
		http.Error(w, "missing class parameter", http.StatusBadRequest)
		return
	}

	height, err := ResolveHeight(req.URL.Query().Get("height"), r.config.DefaultHeight)
	if err != nil {
		r.writeError(w, req, err)
		return
	}

	if r.config.DebugHeaders {
		w.Header().Set("X-Harness-Component", ComponentName(className))
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if err := r.renderer.Render(w, className, height); err != nil {
		r.writeError(w, req, err)
	}
}

func (r *Router) handleSpec(w http.ResponseWriter, req *http.Request) {
	name := req.URL.Query().Get("name")
	if name == "" {
		name = chi.URLParam(req, "*")
	}
	if name == "" {
		http.Error(w, "missing name parameter", http.StatusBadRequest)
		return
	}

	compiled, err := r.specs.Compile(req.Context(), name)
	if err != nil {
		r.writeError(w, req, err)
		return
	}

	if r.config.DebugHeaders {
		if path, err := r.specs.Resolver().SpecFile(name); err == nil {
			w.Header().Set("X-Harness-Spec", path)
		}
	}
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(compiled)
}

func (r *Router) handleRunner(w http.ResponseWriter, req *http.Request) {
	specs, err := r.specs.Resolver().ListSpecs()
	if err != nil {
		r.writeError(w, req, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := r.renderer.RenderRunner(w, specs); err != nil {
		r.writeError(w, req, err)
	}
}

func (r *Router) writeError(w http.ResponseWriter, req *http.Request, err error) {
	status := StatusForError(err)
	r.logger.Warn("request failed",
		zap.String("path", req.URL.Path),
		zap.String("request_id", middleware.GetReqID(req.Context())),
		zap.Int("status", status),
		zap.Error(err))

	http.Error(w, strings.TrimPrefix(err.Error(), "harness: "), status)
}

func StatusForError(err error) int {
	switch {
	case errors.Is(err, ErrInvalidSpecName), errors.Is(err, ErrInvalidHeight):
		return http.StatusBadRequest
	case IsNotFoundError(err):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			logger.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", status),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}
