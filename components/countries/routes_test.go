package countries

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestMountPath_JoinsBasePath(t *testing.T) {
	if got := MountPath("/form"); got != "/form/api/countries" {
		t.Fatalf("unexpected mount path: %q", got)
	}
	if got := MountPath("form"); got != "/form/api/countries" {
		t.Fatalf("unexpected mount path: %q", got)
	}
	if got := MountPath("/form/", WithRoutePath("api/laender")); got != "/form/api/laender" {
		t.Fatalf("unexpected mount path: %q", got)
	}
	if got := MountPath(""); got != "/api/countries" {
		t.Fatalf("unexpected mount path: %q", got)
	}
}

func TestRegisterRoutes_RegistersHandler(t *testing.T) {
	mux := http.NewServeMux()
	pattern, err := New(WithCountries(fixture)).RegisterRoutes(mux, "/form")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if pattern != "/form/api/countries" {
		t.Fatalf("unexpected registered pattern: %q", pattern)
	}

	req := httptest.NewRequest(http.MethodGet, pattern+"?q=deu&limit=1", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}

func TestRegisterRoutes_MissingMux(t *testing.T) {
	if _, err := RegisterRoutes(nil, "/"); err == nil {
		t.Fatalf("expected error for nil mux")
	}
}
