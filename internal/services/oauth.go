// OAuth device flow for producing proxy credential files
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/oauth2"
)

const (
	youtubeScope  = "https://www.googleapis.com/auth/youtube"
	deviceAuthURL = "https://oauth2.googleapis.com/device/code"
	tokenURL      = "https://oauth2.googleapis.com/token"
)

// OAuthSetup drives the device authorization flow for YouTube Music. The
// device grant avoids running a local callback server: the user confirms a
// short code in their browser while the CLI polls for the token.
type OAuthSetup struct {
	config oauth2.Config
}

// NewOAuthSetup creates an OAuthSetup for a TV-and-limited-input OAuth client.
func NewOAuthSetup(clientID, clientSecret string) *OAuthSetup {
	return &OAuthSetup{
		config: oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Scopes:       []string{youtubeScope},
			Endpoint: oauth2.Endpoint{
				TokenURL:      tokenURL,
				DeviceAuthURL: deviceAuthURL,
			},
		},
	}
}

// Begin requests a device code and the verification URL the user must visit.
func (o *OAuthSetup) Begin(ctx context.Context) (*oauth2.DeviceAuthResponse, error) {
	if o.config.ClientID == "" || o.config.ClientSecret == "" {
		return nil, fmt.Errorf("missing oauth client credentials")
	}

	auth, err := o.config.DeviceAuth(ctx)
	if err != nil {
		return nil, fmt.Errorf("device authorization failed: %w", err)
	}

	return auth, nil
}

// Wait polls the token endpoint until the user approves the device code,
// the code expires, or ctx is canceled.
func (o *OAuthSetup) Wait(ctx context.Context, auth *oauth2.DeviceAuthResponse) (*oauth2.Token, error) {
	token, err := o.config.DeviceAccessToken(ctx, auth)
	if err != nil {
		return nil, fmt.Errorf("device token exchange failed: %w", err)
	}

	return token, nil
}

// Credentials renders a token as the oauth credential file the proxy
// service consumes.
func (o *OAuthSetup) Credentials(token *oauth2.Token) ([]byte, error) {
	if token == nil || token.AccessToken == "" {
		return nil, fmt.Errorf("empty token")
	}

	tokenType := token.TokenType
	if tokenType == "" {
		tokenType = "Bearer"
	}

	payload := struct {
		Scope        string `json:"scope"`
		TokenType    string `json:"token_type"`
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		ExpiresAt    int64  `json:"expires_at"`
		ExpiresIn    int64  `json:"expires_in"`
	}{
		Scope:        youtubeScope,
		TokenType:    tokenType,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    token.Expiry.Unix(),
		ExpiresIn:    int64(time.Until(token.Expiry).Seconds()),
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode credentials: %w", err)
	}

	return data, nil
}
