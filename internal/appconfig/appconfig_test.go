package appconfig

import (
	"net/url"
	"reflect"
	"testing"
)

func testDefaults() Defaults {
	return Defaults{
		LiffID:     "default-liff",
		APIBaseURL: "https://api.example.com",
		Endpoints: map[string]string{
			EndpointRegister:   "/register",
			EndpointForgetTime: "/forget-time",
		},
		RequireLogin: true,
		Debug:        false,
	}
}

func TestResolvePrecedence(t *testing.T) {
	boolTrue := true
	override := &Override{
		LiffID:     "override-liff",
		APIBaseURL: "https://override.example.com/",
		Debug:      &boolTrue,
	}
	query := url.Values{}
	query.Set("liffId", "query-liff")

	cfg, warnings := Resolve(query, override, testDefaults())

	if cfg.LiffID != "query-liff" {
		t.Fatalf("query parameter must win, got %q", cfg.LiffID)
	}
	if cfg.APIBaseURL != "https://override.example.com" {
		t.Fatalf("override must win over default and trailing slash stripped, got %q", cfg.APIBaseURL)
	}
	if !cfg.Debug {
		t.Fatal("debug override must win over default")
	}
	if !cfg.RequireLogin {
		t.Fatal("requireLogin must fall back to default true")
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
}

func TestResolveBoolForms(t *testing.T) {
	cases := []struct {
		raw  string
		want bool
	}{
		{"1", true}, {"true", true}, {"YES", true}, {"y", true},
		{"0", false}, {"false", false}, {"No", false}, {"n", false},
	}
	for _, tc := range cases {
		query := url.Values{}
		query.Set("requireLogin", tc.raw)
		cfg, _ := Resolve(query, nil, testDefaults())
		if cfg.RequireLogin != tc.want {
			t.Fatalf("requireLogin=%q: got %v, want %v", tc.raw, cfg.RequireLogin, tc.want)
		}
	}

	// Unrecognized value falls through to the override layer.
	boolFalse := false
	query := url.Values{}
	query.Set("requireLogin", "maybe")
	cfg, _ := Resolve(query, &Override{RequireLogin: &boolFalse}, testDefaults())
	if cfg.RequireLogin {
		t.Fatal("unrecognized query bool must fall back to override")
	}
}

func TestResolveEndpointMerge(t *testing.T) {
	override := &Override{
		Endpoints: map[string]string{EndpointRegister: "/v2/register"},
	}
	cfg, _ := Resolve(url.Values{}, override, testDefaults())

	if cfg.Endpoint(EndpointRegister) != "/v2/register" {
		t.Fatalf("override must replace named endpoint, got %q", cfg.Endpoint(EndpointRegister))
	}
	if cfg.Endpoint(EndpointForgetTime) != "/forget-time" {
		t.Fatalf("unnamed endpoints must be retained, got %q", cfg.Endpoint(EndpointForgetTime))
	}
}

func TestResolveWarnings(t *testing.T) {
	defaults := testDefaults()
	defaults.LiffID = ""
	defaults.APIBaseURL = ""

	_, warnings := Resolve(url.Values{}, nil, defaults)
	if len(warnings) != 2 {
		t.Fatalf("expected warnings for missing liffId and apiBaseUrl, got %v", warnings)
	}
}

func TestResolveIdempotent(t *testing.T) {
	query := url.Values{}
	query.Set("debug", "1")
	override := &Override{APIBaseURL: "https://x.example.com"}

	first, _ := Resolve(query, override, testDefaults())
	second, _ := Resolve(query, override, testDefaults())
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("resolve must be deterministic: %+v vs %+v", first, second)
	}
}

func TestBuildURL(t *testing.T) {
	cases := []struct {
		base, path, want string
	}{
		{"https://api.x", "/r", "https://api.x/r"},
		{"https://api.x/", "/r", "https://api.x/r"},
		{"https://api.x", "r", "https://api.x/r"},
		{"", "/r", "/r"},
		{"https://api.x", "", "https://api.x"},
		{"https://api.x", "https://other/y", "https://other/y"},
		{"https://api.x", "http://other/y", "http://other/y"},
	}
	for _, tc := range cases {
		if got := BuildURL(tc.base, tc.path); got != tc.want {
			t.Fatalf("BuildURL(%q, %q) = %q, want %q", tc.base, tc.path, got, tc.want)
		}
	}
}

func TestDefaultsFor(t *testing.T) {
	dev := DefaultsFor("forgetTime", "localhost")
	if dev.APIBaseURL != "http://localhost:5000/api" {
		t.Fatalf("localhost must select dev backend, got %q", dev.APIBaseURL)
	}
	if dev.LiffID == DefaultsFor("register", "localhost").LiffID {
		t.Fatal("forgetTime feature must carry its own LIFF id")
	}

	prod := DefaultsFor("register", "app.example.com")
	if prod.APIBaseURL != "https://api.example.com" {
		t.Fatalf("non-localhost must select prod backend, got %q", prod.APIBaseURL)
	}
}
