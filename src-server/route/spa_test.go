package route_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"calendar/src-server/route"
	"calendar/src-server/utils"
)

func newSPAServer(t *testing.T) *httptest.Server {
	t.Helper()
	muxer := http.NewServeMux()
	route.SPA(muxer, &utils.AppState{Config: utils.NewConfig()})
	server := httptest.NewServer(muxer)
	t.Cleanup(server.Close)
	return server
}

func TestSPADevelopment(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	server := newSPAServer(t)

	status, body := do(t, http.MethodGet, server.URL+"/", "")
	if status != http.StatusOK || string(body) != "Calendar App API is running..." {
		t.Error("unexpected liveness answer", status, string(body))
	}

	// only the root is served outside production
	if status, _ := do(t, http.MethodGet, server.URL+"/calendar/week", ""); status != http.StatusNotFound {
		t.Error("client routes should not be served in development, got", status)
	}
}

func TestSPAProduction(t *testing.T) {
	dir := t.TempDir()
	const index = "<!doctype html><div id=app></div>"
	const script = "console.log('calendar')"
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte(index), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(dir, "assets"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "assets", "app.js"), []byte(script), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("APP_ENV", "production")
	t.Setenv("STATIC_WEB_CLIENT_DIR", dir)
	server := newSPAServer(t)

	for _, tc := range []struct {
		path string
		want string
	}{
		{"/", index},
		{"/index.html", index},
		{"/calendar/week", index},
		{"/assets", index},
		{"/assets/app.js", script},
	} {
		status, body := do(t, http.MethodGet, server.URL+tc.path, "")
		if status != http.StatusOK || string(body) != tc.want {
			t.Errorf("GET %s: got %d %q, want %q", tc.path, status, body, tc.want)
		}
	}

	// case: unknown API paths stay JSON
	for _, path := range []string{"/api", "/api/nope"} {
		status, body := do(t, http.MethodGet, server.URL+path, "")
		if status != http.StatusNotFound {
			t.Error("GET", path, "should be 404, got", status)
			continue
		}
		if msg := decode[route.MessageRespBody](t, body); msg.Message != "Not found" {
			t.Error("unexpected body for", path, string(body))
		}
	}
}
