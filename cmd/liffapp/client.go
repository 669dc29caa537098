package main

import (
	"context"

	"liffapp/internal/liff"
)

// devClient stands in for the host platform SDK during local development:
// always initialized, always logged in, with a fixed demo identity.
type devClient struct {
	profile liff.Profile
}

func (devClient) Init(context.Context, string) error { return nil }
func (devClient) IsLoggedIn() bool                   { return true }
func (devClient) Login(string) error                 { return nil }
func (devClient) Logout()                            {}

func (c devClient) Profile(context.Context) (*liff.Profile, error) {
	profile := c.profile
	return &profile, nil
}

func (devClient) AccessToken() (string, error) { return "dev-access-token", nil }
func (devClient) IDToken() (string, error)     { return "", nil }
func (devClient) DecodedIDToken() (map[string]any, error) {
	return nil, liff.ErrSDKUnavailable
}
func (devClient) IsInClient() bool { return false }
func (devClient) SendMessages(context.Context, []liff.Message) error {
	return nil
}
func (devClient) CloseWindow() {}
