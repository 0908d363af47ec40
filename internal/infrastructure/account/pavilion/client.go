// Package pavilion verifies access tokens against the Pavilion account
// service and maps them to auction principals.
package pavilion

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/cricbid/auction-platform/internal/domain/user"
	"github.com/cricbid/auction-platform/internal/usecase"
)

type Client struct {
	httpClient    *http.Client
	introspectURL string
	cache         *principalCache
	logger        *slog.Logger
}

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	IntrospectPath string
	CacheTTL       time.Duration
	CacheMaxSize   int
	Logger         *slog.Logger
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	path := cfg.IntrospectPath
	if strings.TrimSpace(path) == "" {
		path = "/v1/tokens/introspect"
	}

	return &Client{
		httpClient:    httpClient,
		introspectURL: buildURL(cfg.BaseURL, path),
		cache:         newPrincipalCache(cfg.CacheTTL, cfg.CacheMaxSize),
		logger:        logger,
	}
}

func (c *Client) VerifyAccessToken(ctx context.Context, token string) (user.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return user.Principal{}, fmt.Errorf("%w: token is required", usecase.ErrUnauthorized)
	}

	cacheKey := hashToken(token)
	if principal, ok := c.cache.Get(cacheKey); ok {
		return principal, nil
	}

	encoded, err := sonic.Marshal(introspectRequest{Token: token})
	if err != nil {
		return user.Principal{}, fmt.Errorf("marshal introspect request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.introspectURL, bytes.NewReader(encoded))
	if err != nil {
		return user.Principal{}, fmt.Errorf("create introspect request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return user.Principal{}, fmt.Errorf("request introspection to pavilion: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return user.Principal{}, fmt.Errorf("%w: introspection denied", usecase.ErrUnauthorized)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return user.Principal{}, fmt.Errorf("read introspect response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.WarnContext(ctx, "pavilion introspection non-200",
			"status_code", resp.StatusCode,
		)
		return user.Principal{}, fmt.Errorf("pavilion introspection failed with status %d", resp.StatusCode)
	}

	var decoded introspectResponse
	if err := sonic.Unmarshal(body, &decoded); err != nil {
		return user.Principal{}, fmt.Errorf("unmarshal introspect response: %w", err)
	}

	if !decoded.Active {
		return user.Principal{}, fmt.Errorf("%w: inactive token", usecase.ErrUnauthorized)
	}
	if strings.TrimSpace(decoded.UserID) == "" {
		return user.Principal{}, fmt.Errorf("invalid introspect response: user_id is empty")
	}

	role, err := user.ParseRole(decoded.Role)
	if err != nil {
		c.logger.WarnContext(ctx, "pavilion returned unknown role, downgrading to viewer",
			"user_id", decoded.UserID,
			"role", decoded.Role,
		)
		role = user.RoleViewer
	}

	principal := user.Principal{
		UserID:      decoded.UserID,
		DisplayName: decoded.DisplayName,
		Role:        role,
		TeamIDs:     decoded.TeamIDs,
	}
	c.cache.Set(cacheKey, principal)

	return principal, nil
}

type introspectRequest struct {
	Token string `json:"token"`
}

type introspectResponse struct {
	Active      bool     `json:"active"`
	UserID      string   `json:"user_id"`
	DisplayName string   `json:"display_name"`
	Role        string   `json:"role"`
	TeamIDs     []string `json:"team_ids"`
}
