package calendar

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// ErrNotAuthenticated is returned by every transport call made without a
// valid credential.
var ErrNotAuthenticated = errors.New("google calendar not authenticated")

// RemoteError reports any transport failure other than missing credentials.
type RemoteError struct {
	Op  string
	Err error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("calendar %s failed: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }

// Client wraps the Google Calendar API for the primary calendar. The OAuth
// handlers rewrite service and token while chat requests read them, so both
// fields are guarded by mu.
type Client struct {
	mu              sync.RWMutex
	service         *calendar.Service
	config          *oauth2.Config
	credentialsFile string
	tokenFile       string
	token           *oauth2.Token
}

// NewClient creates a new Google Calendar client. A stored token is loaded
// and refreshed when possible; otherwise the user must run the OAuth flow.
func NewClient(credentialsFile, tokenFile string) (*Client, error) {
	config, err := loadOAuthConfig(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load OAuth config: %w", err)
	}

	client := &Client{
		config:          config,
		credentialsFile: credentialsFile,
		tokenFile:       tokenFile,
	}

	token, err := loadToken(tokenFile)
	if err == nil {
		client.token = token
		if err := client.tryInitService(); err != nil {
			// Token might be expired, but that's OK - user will need to re-auth
			fmt.Printf("Note: Could not initialize calendar service with existing token: %v\n", err)
		}
	}

	return client, nil
}

// tryInitService attempts to initialize the service, refreshing the token if needed
func (c *Client) tryInitService() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token == nil {
		return fmt.Errorf("no token available")
	}

	ctx := context.Background()

	if !c.token.Valid() && c.token.RefreshToken != "" {
		tokenSource := c.config.TokenSource(ctx, c.token)
		newToken, err := tokenSource.Token()
		if err != nil {
			return fmt.Errorf("failed to refresh token: %w", err)
		}
		c.token = newToken
		if err := saveToken(c.tokenFile, newToken); err != nil {
			fmt.Printf("Warning: could not save refreshed token: %v\n", err)
		}
	}

	return c.initService(ctx)
}

// IsAuthenticated returns true if the client holds a usable credential.
func (c *Client) IsAuthenticated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.service != nil
}

// currentService returns the live service handle, or nil when disconnected.
func (c *Client) currentService() *calendar.Service {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.service
}

// AuthURL returns the OAuth authorization URL.
func (c *Client) AuthURL() string {
	return c.config.AuthCodeURL("state-token", oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// initService initializes the Calendar service with the current token.
// The caller must hold mu.
func (c *Client) initService(ctx context.Context) error {
	if c.token == nil {
		return fmt.Errorf("no token available")
	}

	httpClient := c.config.Client(ctx, c.token)
	service, err := calendar.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return fmt.Errorf("failed to create calendar service: %w", err)
	}

	c.service = service
	return nil
}

// ExchangeCode exchanges an authorization code for a token and saves it.
func (c *Client) ExchangeCode(ctx context.Context, code string) error {
	token, err := c.config.Exchange(ctx, code)
	if err != nil {
		return fmt.Errorf("failed to exchange code for token: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.token = token
	if err := saveToken(c.tokenFile, token); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}

	return c.initService(ctx)
}

// Disconnect drops the credential and removes the stored token.
func (c *Client) Disconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.service = nil
	c.token = nil
	return removeToken(c.tokenFile)
}
