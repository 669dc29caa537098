package pages

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"liffapp/internal/appconfig"
	"liffapp/internal/approval"
	"liffapp/internal/httpclient"
	"liffapp/internal/liff"
	"liffapp/internal/schedule"
	"liffapp/internal/ui"
)

type stubLiffClient struct {
	liff.Unavailable

	loggedIn   bool
	loginCalls []string
	profile    *liff.Profile
	token      string
	inClient   bool
	sent       []liff.Message
}

func (c *stubLiffClient) Init(ctx context.Context, appID string) error { return nil }
func (c *stubLiffClient) IsLoggedIn() bool                             { return c.loggedIn }
func (c *stubLiffClient) Login(redirectURI string) error {
	c.loginCalls = append(c.loginCalls, redirectURI)
	return nil
}
func (c *stubLiffClient) Profile(context.Context) (*liff.Profile, error) {
	if c.profile == nil {
		return nil, liff.ErrSDKUnavailable
	}
	return c.profile, nil
}
func (c *stubLiffClient) AccessToken() (string, error) { return c.token, nil }
func (c *stubLiffClient) IsInClient() bool             { return c.inClient }
func (c *stubLiffClient) SendMessages(_ context.Context, messages []liff.Message) error {
	c.sent = append(c.sent, messages...)
	return nil
}

func testConfig(server *httptest.Server) appconfig.RuntimeConfig {
	cfg, _ := appconfig.Resolve(nil, &appconfig.Override{
		LiffID:     "test-liff",
		APIBaseURL: server.URL,
	}, appconfig.DefaultsFor("default", "localhost"))
	return cfg
}

func testEnv(server *httptest.Server, client liff.Client, sched schedule.Scheduler) Env {
	return Env{
		Config:  testConfig(server),
		API:     httpclient.New(),
		Session: liff.NewSession(client, nil, nil),
		Sched:   sched,
	}
}

// mintApprovalToken signs a hint the way the backend mints deep-link tokens.
// The signature is irrelevant to the client, which never verifies it.
func mintApprovalToken(t *testing.T, hint *approval.Hint, expiresAt time.Time) string {
	t.Helper()
	hint.RegisteredClaims = jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(expiresAt)}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, hint).SignedString([]byte("stub-secret"))
	if err != nil {
		t.Fatalf("mint approval token: %v", err)
	}
	return token
}

type stubConfirmer struct {
	confirmed bool
	reason    string
	calls     []string
}

func (c *stubConfirmer) Confirm(action string) (bool, string) {
	c.calls = append(c.calls, action)
	return c.confirmed, c.reason
}

func lastNotice(t *testing.T, notices []ui.Notice) ui.Notice {
	t.Helper()
	if len(notices) == 0 {
		t.Fatal("expected at least one notice")
	}
	return notices[len(notices)-1]
}
