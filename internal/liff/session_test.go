package liff

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type countingOverlay struct {
	shown  int
	hidden int
}

func (o *countingOverlay) Show() { o.shown++ }
func (o *countingOverlay) Hide() { o.hidden++ }

type fakeClient struct {
	Unavailable

	initErr    error
	loggedIn   bool
	loginErr   error
	loggedOut  bool
	loginCalls []string
	profile    *Profile
	profileErr error
	idToken    string
	idTokenErr error
	decoded    map[string]any
	decodedErr error
	inClient   bool
	sendErr    error
	sent       []Message
	closed     bool
}

func (c *fakeClient) Init(ctx context.Context, appID string) error { return c.initErr }
func (c *fakeClient) IsLoggedIn() bool                             { return c.loggedIn }
func (c *fakeClient) Login(redirectURI string) error {
	c.loginCalls = append(c.loginCalls, redirectURI)
	return c.loginErr
}
func (c *fakeClient) Logout() { c.loggedOut = true }
func (c *fakeClient) Profile(context.Context) (*Profile, error) {
	return c.profile, c.profileErr
}
func (c *fakeClient) IDToken() (string, error)                { return c.idToken, c.idTokenErr }
func (c *fakeClient) DecodedIDToken() (map[string]any, error) { return c.decoded, c.decodedErr }
func (c *fakeClient) IsInClient() bool                        { return c.inClient }
func (c *fakeClient) SendMessages(_ context.Context, messages []Message) error {
	if c.sendErr != nil {
		return c.sendErr
	}
	c.sent = append(c.sent, messages...)
	return nil
}
func (c *fakeClient) CloseWindow() { c.closed = true }

func TestInitOrThrowOverlayPairs(t *testing.T) {
	overlay := &countingOverlay{}
	session := NewSession(&fakeClient{}, overlay, nil)
	if err := session.InitOrThrow(context.Background(), "liff-id"); err != nil {
		t.Fatalf("init: %v", err)
	}
	if overlay.shown != 1 || overlay.hidden != 1 {
		t.Fatalf("overlay must be shown and hidden exactly once, got %d/%d", overlay.shown, overlay.hidden)
	}

	failing := &fakeClient{initErr: errors.New("boom")}
	overlay = &countingOverlay{}
	session = NewSession(failing, overlay, nil)
	err := session.InitOrThrow(context.Background(), "liff-id")
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
	if overlay.shown != 1 || overlay.hidden != 1 {
		t.Fatalf("overlay must be released on failure too, got %d/%d", overlay.shown, overlay.hidden)
	}
}

func TestInitOrThrowConfigErrors(t *testing.T) {
	session := NewSession(nil, nil, nil)
	var cfgErr *ConfigError
	if err := session.InitOrThrow(context.Background(), "liff-id"); !errors.As(err, &cfgErr) {
		t.Fatalf("absent SDK must be a ConfigError, got %v", err)
	}

	session = NewSession(&fakeClient{}, nil, nil)
	if err := session.InitOrThrow(context.Background(), ""); !errors.As(err, &cfgErr) {
		t.Fatalf("empty app id must be a ConfigError, got %v", err)
	}
}

func TestEnsureLoggedIn(t *testing.T) {
	client := &fakeClient{loggedIn: true}
	overlay := &countingOverlay{}
	session := NewSession(client, overlay, nil)
	if err := session.EnsureLoggedIn("https://app/register"); err != nil {
		t.Fatalf("logged-in user must be a no-op: %v", err)
	}
	if overlay.shown != 0 || len(client.loginCalls) != 0 {
		t.Fatal("no redirect expected for a logged-in user")
	}

	client = &fakeClient{}
	overlay = &countingOverlay{}
	session = NewSession(client, overlay, nil)
	if err := session.EnsureLoggedIn("https://app/register"); err != nil {
		t.Fatalf("redirect path: %v", err)
	}
	if len(client.loginCalls) != 1 || client.loginCalls[0] != "https://app/register" {
		t.Fatalf("login redirect mismatch: %v", client.loginCalls)
	}
	if overlay.shown != 1 || overlay.hidden != 0 {
		t.Fatal("overlay stays up through a successful redirect")
	}

	client = &fakeClient{loginErr: errors.New("redirect blocked")}
	overlay = &countingOverlay{}
	session = NewSession(client, overlay, nil)
	if err := session.EnsureLoggedIn(""); err == nil {
		t.Fatal("failed redirect must re-raise")
	}
	if overlay.hidden != 1 {
		t.Fatal("overlay must be hidden when the redirect fails")
	}
}

func TestSafeAccessorsSwallowFailures(t *testing.T) {
	session := NewSession(&fakeClient{profileErr: errors.New("nope")}, nil, nil)
	if profile := session.GetProfileSafe(context.Background()); profile != nil {
		t.Fatalf("profile failure must yield nil, got %+v", profile)
	}

	session = NewSession(&fakeClient{profile: &Profile{UserID: "U1"}}, nil, nil)
	if profile := session.GetProfileSafe(context.Background()); profile == nil || profile.UserID != "U1" {
		t.Fatalf("profile mismatch: %+v", profile)
	}

	session = NewSession(&fakeClient{}, nil, nil)
	if token := session.GetAccessTokenSafe(); token != "" {
		t.Fatalf("access token failure must yield empty, got %q", token)
	}
}

func mintIDToken(t *testing.T, exp time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	return token
}

func TestGetIDTokenSafeFresh(t *testing.T) {
	token := mintIDToken(t, time.Now().Add(time.Hour))
	client := &fakeClient{idToken: token, decodedErr: errors.New("no decode support")}
	session := NewSession(client, nil, nil)

	if got := session.GetIDTokenSafe(""); got != token {
		t.Fatalf("fresh token must be returned, got %q", got)
	}
	if client.loggedOut {
		t.Fatal("fresh token must not trigger logout")
	}
}

func TestGetIDTokenSafeExpiredForcesRelogin(t *testing.T) {
	token := mintIDToken(t, time.Now().Add(-time.Minute))
	client := &fakeClient{idToken: token, decodedErr: errors.New("no decode support")}
	session := NewSession(client, &countingOverlay{}, nil)

	if got := session.GetIDTokenSafe("https://app/forget-time"); got != "" {
		t.Fatalf("expired token must yield empty, got %q", got)
	}
	if !client.loggedOut {
		t.Fatal("expired token must log out")
	}
	if len(client.loginCalls) != 1 {
		t.Fatalf("expired token must re-trigger login, got %v", client.loginCalls)
	}
}

func TestGetIDTokenSafePrefersSDKDecode(t *testing.T) {
	exp := float64(time.Now().Add(time.Hour).Unix())
	client := &fakeClient{idToken: "opaque-token", decoded: map[string]any{"exp": exp}}
	session := NewSession(client, nil, nil)
	if got := session.GetIDTokenSafe(""); got != "opaque-token" {
		t.Fatalf("SDK-decoded exp must be honored, got %q", got)
	}
}

func TestTrySendMessage(t *testing.T) {
	session := NewSession(nil, nil, nil)
	if result := session.TrySendMessage(context.Background(), "hi"); result.OK || result.Reason == "" {
		t.Fatalf("absent SDK must no-op with a reason, got %+v", result)
	}

	session = NewSession(&fakeClient{inClient: false}, nil, nil)
	if result := session.TrySendMessage(context.Background(), "hi"); result.OK || result.Reason == "" {
		t.Fatalf("outside the host client must no-op with a reason, got %+v", result)
	}

	client := &fakeClient{inClient: true}
	session = NewSession(client, nil, nil)
	if result := session.TrySendMessage(context.Background(), "สำเร็จ"); !result.OK {
		t.Fatalf("send must succeed, got %+v", result)
	}
	if len(client.sent) != 1 || client.sent[0].Text != "สำเร็จ" || client.sent[0].Type != "text" {
		t.Fatalf("message mismatch: %+v", client.sent)
	}
}
