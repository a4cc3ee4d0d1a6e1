package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"todostock/internal/caching"
	"todostock/internal/common"
	"todostock/internal/models"
)

const (
	loginRateLimit  = 10
	loginRateWindow = time.Minute
)

// AuthService exchanges email and password for a session at the external identity provider.
// Passwords are never stored or checked locally.
type AuthService interface {
	Login(ctx context.Context, clientIP, email, password string) (*models.LoginResponse, error)
}

type authService struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	cacheSvc   caching.CacheService
}

func NewAuthService(baseURL, apiKey string, cacheSvc caching.CacheService, httpClient *http.Client) AuthService {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &authService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: httpClient,
		cacheSvc:   cacheSvc,
	}
}

type passwordGrantRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *authService) Login(ctx context.Context, clientIP, email, password string) (*models.LoginResponse, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, common.NewValidationError("email and password are required")
	}
	if s.baseURL == "" {
		return nil, fmt.Errorf("%w: identity provider not configured", common.ErrBackendUnavailable)
	}

	if s.cacheSvc != nil {
		limited, err := s.cacheSvc.IsRateLimited(ctx, "login:"+clientIP, loginRateLimit, loginRateWindow)
		if err != nil {
			log.Printf("WARN: login rate limit check failed: %v", err)
		} else if limited {
			return nil, common.ErrRateLimited
		}
	}

	body, err := json.Marshal(passwordGrantRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}

	endpoint := s.baseURL + "/token?" + url.Values{"grant_type": {"password"}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("apikey", s.apiKey)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusBadRequest, resp.StatusCode == http.StatusUnauthorized,
		resp.StatusCode == http.StatusUnprocessableEntity:
		io.Copy(io.Discard, resp.Body)
		return nil, common.ErrInvalidCredentials
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, common.ErrRateLimited
	default:
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: identity provider returned %d: %s", common.ErrBackendUnavailable, resp.StatusCode, snippet)
	}

	var session models.LoginResponse
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, fmt.Errorf("%w: invalid identity provider response: %v", common.ErrBackendUnavailable, err)
	}
	if session.AccessToken == "" {
		return nil, fmt.Errorf("%w: identity provider returned no access token", common.ErrBackendUnavailable)
	}
	return &session, nil
}
