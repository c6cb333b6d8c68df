package core

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func setupRouterTestEnv(t *testing.T) Config {
	t.Helper()
	root := t.TempDir()

	writeTempFile(t, root, "components/foo_bar.html", gridComponent)
	writeTempFile(t, root, "spec/javascripts/grid_spec.js.coffee", "describe 'grid', ->")
	writeTempFile(t, root, "spec/javascripts/helper.js.coffee", "helper = 1")
	writeTempFile(t, root, "spec/javascripts/broken_spec.js.coffee", "syntax error")
	withFakeCompiler(t)

	return Config{AppRoot: root}
}

func serve(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_RendersComponentFromQuery(t *testing.T) {
	router := NewRouter(setupRouterTestEnv(t), RuntimeContext{Env: "dev"}, nil)

	rec := serve(t, router, "/components?class=Foo::Bar&height=320")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("unexpected content type %q", ct)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `id="foo_bar"`) || !strings.Contains(body, `data-height="320"`) {
		t.Errorf("unexpected body: %s", body)
	}
}

func TestRouter_RendersComponentFromPathWithDefaultHeight(t *testing.T) {
	router := NewRouter(setupRouterTestEnv(t), RuntimeContext{}, nil)

	rec := serve(t, router, "/components/Foo::Bar")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `data-height="400"`) {
		t.Errorf("expected default height, got %s", rec.Body.String())
	}
}

func TestRouter_ComponentErrors(t *testing.T) {
	router := NewRouter(setupRouterTestEnv(t), RuntimeContext{}, nil)

	tests := map[string]int{
		"/components":                          http.StatusBadRequest,
		"/components?class=Foo::Bar&height=xl": http.StatusBadRequest,
		"/components?class=Nope::Missing":      http.StatusInternalServerError,
	}
	for target, status := range tests {
		if rec := serve(t, router, target); rec.Code != status {
			t.Errorf("%s: expected %d, got %d", target, status, rec.Code)
		}
	}
}

func TestRouter_ServesCompiledSpec(t *testing.T) {
	router := NewRouter(setupRouterTestEnv(t), RuntimeContext{}, nil)

	for _, target := range []string{"/specs/grid.js", "/specs/grid", "/specs?name=grid"} {
		rec := serve(t, router, target)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d: %s", target, rec.Code, rec.Body.String())
		}
		if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/javascript") {
			t.Errorf("%s: unexpected content type %q", target, ct)
		}
		if cc := rec.Header().Get("Cache-Control"); cc != "no-store" {
			t.Errorf("%s: expected no-store, got %q", target, cc)
		}
		if !strings.HasPrefix(rec.Body.String(), "(function() {") {
			t.Errorf("%s: expected compiled output, got %q", target, rec.Body.String())
		}
	}
}

func TestRouter_ServesFallbackSpec(t *testing.T) {
	router := NewRouter(setupRouterTestEnv(t), RuntimeContext{}, nil)

	rec := serve(t, router, "/specs/helper.js")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "helper = 1") {
		t.Errorf("expected fallback spec, got %d %q", rec.Code, rec.Body.String())
	}
}

func TestRouter_SpecErrors(t *testing.T) {
	router := NewRouter(setupRouterTestEnv(t), RuntimeContext{}, nil)

	tests := map[string]int{
		"/specs":                    http.StatusBadRequest,
		"/specs?name=missing":       http.StatusNotFound,
		"/specs?name=../../secrets": http.StatusBadRequest,
		"/specs/broken.js":          http.StatusInternalServerError,
	}
	for target, status := range tests {
		rec := serve(t, router, target)
		if rec.Code != status {
			t.Errorf("%s: expected %d, got %d", target, status, rec.Code)
		}
		if rec.Body.Len() == 0 {
			t.Errorf("%s: expected an error message, got empty body", target)
		}
	}
}

func TestRouter_DebugHeaders(t *testing.T) {
	cfg := setupRouterTestEnv(t)
	cfg.DebugHeaders = true
	router := NewRouter(cfg, RuntimeContext{}, nil)

	rec := serve(t, router, "/specs/grid.js")
	if !strings.HasSuffix(rec.Header().Get("X-Harness-Spec"), "grid_spec.js.coffee") {
		t.Errorf("expected spec debug header, got %q", rec.Header().Get("X-Harness-Spec"))
	}

	rec = serve(t, router, "/components?class=Foo::Bar")
	if rec.Header().Get("X-Harness-Component") != "foo_bar" {
		t.Errorf("expected component debug header, got %q", rec.Header().Get("X-Harness-Component"))
	}
}

func TestRouter_RunnerListsSpecs(t *testing.T) {
	router := NewRouter(setupRouterTestEnv(t), RuntimeContext{}, nil)

	rec := serve(t, router, "/runner")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "/specs/grid.js") || !strings.Contains(body, "/specs/broken.js") {
		t.Errorf("expected specs listed, got %s", body)
	}
	if strings.Contains(body, "/specs/helper.js") {
		t.Errorf("helpers without _spec suffix should not be listed: %s", body)
	}
}

func TestRouter_RootRedirectsToRunner(t *testing.T) {
	router := NewRouter(setupRouterTestEnv(t), RuntimeContext{}, nil)

	rec := serve(t, router, "/")
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/runner" {
		t.Errorf("expected redirect to /runner, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestRouter_LogsRequests(t *testing.T) {
	obs, logs := observer.New(zapcore.InfoLevel)
	router := NewRouter(setupRouterTestEnv(t), RuntimeContext{}, zap.New(obs))

	serve(t, router, "/specs?name=missing")

	failed := logs.FilterMessage("request failed").All()
	if len(failed) != 1 {
		t.Fatalf("expected one failure log, got %d", len(failed))
	}
	if status := failed[0].ContextMap()["status"]; status != int64(http.StatusNotFound) {
		t.Errorf("expected status 404 in failure log, got %v", status)
	}

	requests := logs.FilterMessage("request").All()
	if len(requests) != 1 {
		t.Fatalf("expected one request log, got %d", len(requests))
	}
	if path := requests[0].ContextMap()["path"]; path != "/specs" {
		t.Errorf("expected path /specs, got %v", path)
	}
}

func TestStatusForError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{ErrInvalidSpecName, http.StatusBadRequest},
		{ErrInvalidHeight, http.StatusBadRequest},
		{ErrSpecNotFound, http.StatusNotFound},
		{ErrNotFound, http.StatusNotFound},
		{ErrComponentNotFound, http.StatusInternalServerError},
		{ErrCompile, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := StatusForError(tt.err); got != tt.want {
			t.Errorf("StatusForError(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
