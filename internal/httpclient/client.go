package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"liffapp/internal/appconfig"
)

// Result is the outcome of every backend call. Calls never return a Go error;
// callers branch exclusively on OK. Status is 0 for transport-level failures.
type Result struct {
	OK     bool
	Status int
	Data   any
	Err    string
}

// Multipart is a pre-encoded multipart/form-data body. ContentType carries
// the boundary and is used verbatim instead of the JSON default.
type Multipart struct {
	ContentType string
	Body        io.Reader
}

// Request describes one backend call. Body may be nil (no body sent), a
// *Multipart (passed through unmodified), or any JSON-serializable value.
type Request struct {
	BaseURL   string
	Path      string
	Method    string
	Body      any
	Headers   map[string]string
	AuthToken string
}

type Client struct {
	HTTP   *http.Client
	Logger *slog.Logger
}

func New() *Client {
	return &Client{HTTP: http.DefaultClient, Logger: slog.Default()}
}

// Do performs the request and normalizes the response into a Result.
//
// Success is HTTP 2xx, plus a tolerated 304 whose body looks like a success
// envelope. Response bodies are parsed as JSON only when the response
// declares a JSON content type; parse failures degrade to an absent body
// rather than failing the call.
func (c *Client) Do(ctx context.Context, req Request) Result {
	url := appconfig.BuildURL(req.BaseURL, req.Path)
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	body, contentType, err := encodeBody(req.Body)
	if err != nil {
		return Result{OK: false, Status: 0, Err: err.Error()}
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return Result{OK: false, Status: 0, Err: err.Error()}
	}

	for name, value := range req.Headers {
		httpReq.Header.Set(name, value)
	}
	if httpReq.Header.Get("Accept") == "" {
		httpReq.Header.Set("Accept", "application/json")
	}
	if contentType != "" && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	if req.AuthToken != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.AuthToken)
	}
	httpReq.Header.Set("Cache-Control", "no-store")
	if httpReq.Header.Get("X-Request-ID") == "" {
		httpReq.Header.Set("X-Request-ID", uuid.NewString())
	}

	res, err := c.httpClient().Do(httpReq)
	if err != nil {
		c.logger().Warn("request transport failure", "method", method, "url", url, "err", err)
		return Result{OK: false, Status: 0, Err: err.Error()}
	}
	defer res.Body.Close()

	return normalizeResponse(res)
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return http.DefaultClient
}

func (c *Client) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

func encodeBody(body any) (io.Reader, string, error) {
	switch b := body.(type) {
	case nil:
		return nil, "", nil
	case *Multipart:
		return b.Body, b.ContentType, nil
	default:
		encoded, err := json.Marshal(b)
		if err != nil {
			return nil, "", fmt.Errorf("encode request body: %w", err)
		}
		return bytes.NewReader(encoded), "application/json", nil
	}
}

func normalizeResponse(res *http.Response) Result {
	parsed := readJSONSafe(res)

	if res.StatusCode >= 200 && res.StatusCode < 300 {
		return Result{OK: true, Status: res.StatusCode, Data: parsed}
	}

	// A 304 carrying a recognizable success envelope is a soft success; some
	// backend revisions reply 304 with cached list payloads.
	if res.StatusCode == http.StatusNotModified {
		if payload, ok := softSuccessPayload(parsed); ok {
			return Result{OK: true, Status: res.StatusCode, Data: payload}
		}
	}

	return Result{
		OK:     false,
		Status: res.StatusCode,
		Data:   parsed,
		Err:    failureMessage(parsed, res.StatusCode),
	}
}

func readJSONSafe(res *http.Response) any {
	if !strings.Contains(res.Header.Get("Content-Type"), "application/json") {
		return nil
	}
	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil
	}
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil
	}
	return parsed
}

func softSuccessPayload(parsed any) (any, bool) {
	switch body := parsed.(type) {
	case []any:
		return body, true
	case map[string]any:
		data, hasData := body["data"]
		if _, isArray := data.([]any); isArray {
			return data, true
		}
		if body["status"] == "success" {
			if hasData && data != nil {
				return data, true
			}
			return body, true
		}
	}
	return nil, false
}

func failureMessage(parsed any, status int) string {
	if body, ok := parsed.(map[string]any); ok {
		for _, key := range []string{"message", "error", "msg"} {
			if text, ok := body[key].(string); ok && text != "" {
				return text
			}
		}
	}
	return fmt.Sprintf("Request failed (%d)", status)
}

// EnvelopeData unwraps the conventional backend envelope
// {status:"success", data:<payload>}, returning the payload. Flat responses
// without a data field pass through unchanged. This is the single supported
// envelope contract; call sites must not probe alternative shapes.
func EnvelopeData(data any) any {
	body, ok := data.(map[string]any)
	if !ok {
		return data
	}
	if payload, ok := body["data"]; ok && payload != nil {
		return payload
	}
	return data
}
