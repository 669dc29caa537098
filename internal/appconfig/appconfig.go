package appconfig

import (
	"net/url"
	"strings"
)

// RuntimeConfig is resolved once at page bootstrap and passed explicitly to
// every component that needs it. There is no ambient global configuration.
type RuntimeConfig struct {
	LiffID       string
	APIBaseURL   string
	Endpoints    map[string]string
	RequireLogin bool
	Debug        bool
}

// Defaults are the built-in, lowest-priority configuration values.
type Defaults struct {
	LiffID       string
	APIBaseURL   string
	Endpoints    map[string]string
	RequireLogin bool
	Debug        bool
}

// Override is the deployment-supplied configuration layer. Nil pointer fields
// mean "not provided", letting the value fall through to the defaults.
type Override struct {
	LiffID       string
	APIBaseURL   string
	Endpoints    map[string]string
	RequireLogin *bool
	Debug        *bool
}

// Endpoint names used by the page controllers.
const (
	EndpointCompany             = "company"
	EndpointRegister            = "register"
	EndpointRegisterCheckStatus = "registerCheckStatus"
	EndpointRegisterApprove     = "registerApprove"
	EndpointForgetTime          = "forgetTime"
	EndpointForgetRequestInfo   = "forgetRequestInfo"
	EndpointForgetApprove       = "forgetRequestApprove"
	EndpointMissingTimestamps   = "missingTimestamps"
)

const (
	liffIDDefault    = "2006755947-ToZa51HW"
	liffIDForgetTime = "2006755947-3C7TBS5B"

	baseURLDev  = "http://localhost:5000/api"
	baseURLProd = "https://api.example.com"
)

// DefaultsFor returns the built-in defaults for a page feature
// ("register", "forgetTime" or anything else for the shared app) on the
// given hostname. Localhost selects the development backend.
func DefaultsFor(feature, hostname string) Defaults {
	liffID := liffIDDefault
	if feature == "forgetTime" {
		liffID = liffIDForgetTime
	}
	baseURL := baseURLProd
	if hostname == "localhost" || hostname == "127.0.0.1" {
		baseURL = baseURLDev
	}
	return Defaults{
		LiffID:     liffID,
		APIBaseURL: baseURL,
		Endpoints: map[string]string{
			EndpointCompany:             "/company",
			EndpointRegister:            "/register",
			EndpointRegisterCheckStatus: "/register/check-status",
			EndpointRegisterApprove:     "/register/approve",
			EndpointForgetTime:          "/forget-time",
			EndpointForgetRequestInfo:   "/forget-time/info",
			EndpointForgetApprove:       "/forget-time/approve",
			EndpointMissingTimestamps:   "/forget-time/missing",
		},
		RequireLogin: true,
		Debug:        false,
	}
}

// Resolve layers the three configuration sources per field, highest priority
// first: URL query parameters, then the deployment override, then the
// built-in defaults. It returns the resolved config plus human-readable
// warnings for fields that ended up empty; callers surface warnings
// non-fatally and proceed degraded.
func Resolve(query url.Values, override *Override, defaults Defaults) (RuntimeConfig, []string) {
	if override == nil {
		override = &Override{}
	}

	cfg := RuntimeConfig{
		LiffID: firstNonEmpty(query.Get("liffId"), override.LiffID, defaults.LiffID),
		APIBaseURL: normalizeBaseURL(
			firstNonEmpty(query.Get("apiBaseUrl"), override.APIBaseURL, defaults.APIBaseURL),
		),
		RequireLogin: resolveBool(query.Get("requireLogin"), override.RequireLogin, defaults.RequireLogin),
		Debug:        resolveBool(query.Get("debug"), override.Debug, defaults.Debug),
		Endpoints:    mergeEndpoints(defaults.Endpoints, override.Endpoints),
	}

	var warnings []string
	if cfg.LiffID == "" {
		warnings = append(warnings, "ขาด LIFF ID: ตั้งค่า override liffId หรือใส่ ?liffId=")
	}
	if cfg.APIBaseURL == "" {
		warnings = append(warnings, "ขาด API Base URL: ตั้งค่า override apiBaseUrl หรือใส่ ?apiBaseUrl=")
	}
	return cfg, warnings
}

// ParseBool maps the accepted string forms onto booleans. Unrecognized or
// empty values return fallback so the next configuration layer wins.
func ParseBool(value string, fallback bool) bool {
	parsed, ok := parseBool(value)
	if !ok {
		return fallback
	}
	return parsed
}

func parseBool(value string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "y":
		return true, true
	case "0", "false", "no", "n":
		return false, true
	}
	return false, false
}

// resolveBool applies query > override > default, where the query layer only
// wins when it carries a recognizable boolean form.
func resolveBool(queryValue string, override *bool, fallback bool) bool {
	if parsed, ok := parseBool(queryValue); ok {
		return parsed
	}
	if override != nil {
		return *override
	}
	return fallback
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func normalizeBaseURL(raw string) string {
	return strings.TrimRight(raw, "/")
}

// mergeEndpoints replaces individual named endpoints from the override while
// retaining all other defaults.
func mergeEndpoints(defaults, override map[string]string) map[string]string {
	merged := make(map[string]string, len(defaults)+len(override))
	for name, path := range defaults {
		merged[name] = path
	}
	for name, path := range override {
		merged[name] = path
	}
	return merged
}

// BuildURL joins an API base URL and a path with exactly one separator.
// Absolute paths pass through untouched; an empty base yields the path and an
// empty path yields the base.
func BuildURL(base, path string) string {
	base = normalizeBaseURL(base)
	if base == "" {
		return path
	}
	if path == "" {
		return base
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if strings.HasPrefix(path, "/") {
		return base + path
	}
	return base + "/" + path
}

// Endpoint returns the configured path for name, empty when unset.
func (c RuntimeConfig) Endpoint(name string) string {
	return c.Endpoints[name]
}
