package liff

import (
	"context"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Overlay is the single global blocking overlay. Show/Hide are acquired and
// released in strict pairs around SDK initialization and login redirects.
type Overlay interface {
	Show()
	Hide()
}

// NopOverlay satisfies Overlay for headless runs.
type NopOverlay struct{}

func (NopOverlay) Show() {}
func (NopOverlay) Hide() {}

// Session adapts the raw SDK client to the lifecycle the page controllers
// need: guarded initialization, login enforcement and the *Safe accessors
// that swallow enrichment failures.
type Session struct {
	client  Client
	overlay Overlay
	logger  *slog.Logger
	now     func() time.Time
}

func NewSession(client Client, overlay Overlay, logger *slog.Logger) *Session {
	if client == nil {
		client = Unavailable{}
	}
	if overlay == nil {
		overlay = NopOverlay{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{client: client, overlay: overlay, logger: logger, now: time.Now}
}

// InitOrThrow initializes the SDK, holding the blocking overlay for the
// duration. The overlay is released on success and failure alike.
func (s *Session) InitOrThrow(ctx context.Context, appID string) error {
	if _, unavailable := s.client.(Unavailable); unavailable {
		return &ConfigError{Reason: "messaging SDK is not loaded"}
	}
	if appID == "" {
		return &ConfigError{Reason: "missing LIFF ID"}
	}

	s.overlay.Show()
	defer s.overlay.Hide()

	if err := s.client.Init(ctx, appID); err != nil {
		return &ConfigError{Reason: err.Error()}
	}
	return nil
}

func (s *Session) IsLoggedIn() bool {
	return s.client.IsLoggedIn()
}

// EnsureLoggedIn triggers the SDK login redirect when the user is not logged
// in. The overlay stays up through a successful redirect (the page is
// navigating away); a failed redirect releases it and re-raises the error.
func (s *Session) EnsureLoggedIn(redirectURI string) error {
	if s.client.IsLoggedIn() {
		return nil
	}

	s.overlay.Show()
	if err := s.client.Login(redirectURI); err != nil {
		s.overlay.Hide()
		return err
	}
	return nil
}

// GetProfileSafe returns the user profile, or nil on any failure. Profile
// data is optional enrichment; failures degrade to absent data.
func (s *Session) GetProfileSafe(ctx context.Context) *Profile {
	profile, err := s.client.Profile(ctx)
	if err != nil {
		s.logger.Debug("profile fetch failed", "err", err)
		return nil
	}
	return profile
}

func (s *Session) GetAccessTokenSafe() string {
	token, err := s.client.AccessToken()
	if err != nil {
		s.logger.Debug("access token fetch failed", "err", err)
		return ""
	}
	return token
}

// GetIDTokenSafe returns the id token, or empty on failure. When the token's
// exp has passed it proactively logs out and re-triggers login, returning
// empty. This is a best-effort freshness check, not a security boundary.
func (s *Session) GetIDTokenSafe(redirectURI string) string {
	token, err := s.client.IDToken()
	if err != nil || token == "" {
		return ""
	}

	if exp, ok := s.idTokenExpiry(token); ok && !exp.After(s.now()) {
		s.logger.Debug("id token expired, forcing re-login")
		s.client.Logout()
		if err := s.EnsureLoggedIn(redirectURI); err != nil {
			s.logger.Warn("re-login after expired id token failed", "err", err)
		}
		return ""
	}
	return token
}

func (s *Session) idTokenExpiry(token string) (time.Time, bool) {
	if decoded, err := s.client.DecodedIDToken(); err == nil {
		if raw, ok := decoded["exp"].(float64); ok {
			return time.Unix(int64(raw), 0), true
		}
	}

	// Fall back to decoding the middle JWT segment ourselves.
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// TrySendMessage pushes a text message into the chat. It no-ops with a
// reason when the SDK is absent or the app runs outside the host client.
func (s *Session) TrySendMessage(ctx context.Context, text string) SendResult {
	if _, unavailable := s.client.(Unavailable); unavailable {
		return SendResult{OK: false, Reason: "LIFF ไม่พร้อมใช้งาน"}
	}
	if !s.client.IsInClient() {
		return SendResult{OK: false, Reason: "ไม่อยู่ในไคลเอนต์ LINE"}
	}

	if err := s.client.SendMessages(ctx, []Message{{Type: "text", Text: text}}); err != nil {
		return SendResult{OK: false, Reason: err.Error()}
	}
	return SendResult{OK: true}
}

func (s *Session) CloseWindow() {
	s.client.CloseWindow()
}
