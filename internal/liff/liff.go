// Package liff wraps the host messaging platform's mini-app SDK behind an
// explicit capability interface. The SDK is optional from this system's
// perspective; when it is absent the Unavailable null client keeps every
// caller on the degraded path instead of probing for functions at runtime.
package liff

import (
	"context"
	"errors"
	"fmt"
)

var ErrSDKUnavailable = errors.New("messaging SDK is not available")

// ConfigError marks initialization failures that block the page: the SDK is
// missing or the app id is empty. These are surfaced to the user and the page
// degrades to a visible not-ready state.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("liff config error: %s", e.Reason)
}

type Profile struct {
	UserID        string `json:"userId"`
	DisplayName   string `json:"displayName"`
	PictureURL    string `json:"pictureUrl"`
	StatusMessage string `json:"statusMessage"`
}

type Message struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Client is the capability surface consumed from the host SDK. Implementations
// bridge to the real platform; tests and headless runs use fakes or
// Unavailable.
type Client interface {
	Init(ctx context.Context, appID string) error
	IsLoggedIn() bool
	Login(redirectURI string) error
	Logout()
	Profile(ctx context.Context) (*Profile, error)
	AccessToken() (string, error)
	IDToken() (string, error)
	DecodedIDToken() (map[string]any, error)
	IsInClient() bool
	SendMessages(ctx context.Context, messages []Message) error
	CloseWindow()
}

// Unavailable is the null client used when no host SDK was injected.
type Unavailable struct{}

func (Unavailable) Init(context.Context, string) error { return ErrSDKUnavailable }
func (Unavailable) IsLoggedIn() bool                   { return false }
func (Unavailable) Login(string) error                 { return ErrSDKUnavailable }
func (Unavailable) Logout()                            {}
func (Unavailable) Profile(context.Context) (*Profile, error) {
	return nil, ErrSDKUnavailable
}
func (Unavailable) AccessToken() (string, error)            { return "", ErrSDKUnavailable }
func (Unavailable) IDToken() (string, error)                { return "", ErrSDKUnavailable }
func (Unavailable) DecodedIDToken() (map[string]any, error) { return nil, ErrSDKUnavailable }
func (Unavailable) IsInClient() bool                        { return false }
func (Unavailable) SendMessages(context.Context, []Message) error {
	return ErrSDKUnavailable
}
func (Unavailable) CloseWindow() {}

// SendResult reports best-effort message delivery. A no-op delivery (SDK
// absent, outside the host client) carries the reason.
type SendResult struct {
	OK     bool
	Reason string
}
