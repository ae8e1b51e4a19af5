// Package upstream is the single client for the remote marketing API. Every
// outbound call in the app goes through it: one base URL, one rate limiter,
// one place that turns error prose into stable kinds.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/vibekrana/frontend-main/internal/models"
)

type Client struct {
	http           *http.Client
	baseURL        string
	limiter        *rate.Limiter
	surveyEndpoint bool
	logger         *log.Logger
}

type Options struct {
	BaseURL        string
	RPS            float64
	Burst          int
	SurveyEndpoint bool
	HTTPClient     *http.Client
	Logger         *log.Logger
}

func New(opts Options) *Client {
	c := &Client{
		http:           opts.HTTPClient,
		baseURL:        opts.BaseURL,
		surveyEndpoint: opts.SurveyEndpoint,
		logger:         opts.Logger,
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: 30 * time.Second}
	}
	if c.logger == nil {
		c.logger = log.Default()
	}
	rps := opts.RPS
	if rps <= 0 {
		rps = 5
	}
	burst := opts.Burst
	if burst <= 0 {
		burst = 10
	}
	c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	return c
}

// apiBody is the loose error envelope the remote API uses. Different
// endpoints populate different fields.
type apiBody struct {
	Error        string `json:"error"`
	Message      string `json:"message"`
	Detail       string `json:"detail"`
	TokenExpired bool   `json:"token_expired"`
}

func (b apiBody) text() string {
	switch {
	case b.Error != "":
		return b.Error
	case b.Message != "":
		return b.Message
	case b.Detail != "":
		return b.Detail
	}
	return ""
}

func (c *Client) do(ctx context.Context, method, path, token string, in, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Printf("[Upstream][Request] error method=%s path=%s err=%v", method, path, err)
		return &APIError{Status: 0, Kind: KindUnavailable, Message: "service unavailable"}
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb apiBody
		_ = json.Unmarshal(raw, &eb)
		msg := eb.text()
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		kind, field := classify(resp.StatusCode, msg)
		c.logger.Printf("[Upstream][Request] fail method=%s path=%s status=%d kind=%s", method, path, resp.StatusCode, kind)
		return &APIError{Status: resp.StatusCode, Kind: kind, Field: field, Message: msg, TokenExpired: eb.TokenExpired}
	}
	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

type LoginResult struct {
	Token            string `json:"token"`
	RegisteredUserID string `json:"registered_user_id"`
}

// Login authenticates against the remote API. Callers should present a
// generic failure message for KindUnauthorized, never the raw prose.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	var res LoginResult
	err := c.do(ctx, http.MethodPost, "/user/login", "", map[string]string{
		"username": username,
		"password": password,
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

type RegisterRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type RegisterResult struct {
	UserID string `json:"user_id"`
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) (*RegisterResult, error) {
	var res RegisterResult
	if err := c.do(ctx, http.MethodPost, "/user/register", "", req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// SubmitSurvey records onboarding answers. With the dedicated survey endpoint
// enabled it posts to /user/survey; otherwise it falls back to the legacy
// register overload that accepts a surveyData envelope.
func (c *Client) SubmitSurvey(ctx context.Context, token string, resp models.SurveyResponse) error {
	if c.surveyEndpoint {
		return c.do(ctx, http.MethodPost, "/user/survey", token, resp, nil)
	}
	return c.do(ctx, http.MethodPost, "/user/register", token, map[string]any{
		"surveyData": resp,
	}, nil)
}

func (c *Client) Profile(ctx context.Context, token, username string) (*models.UserProfile, error) {
	var p models.UserProfile
	if err := c.do(ctx, http.MethodGet, "/user/profile?username="+url.QueryEscape(username), token, nil, &p); err != nil {
		return nil, err
	}
	if p.Username == "" {
		p.Username = username
	}
	return &p, nil
}

type ProfileUpdate struct {
	Username     string `json:"username"`
	Name         string `json:"name,omitempty"`
	Email        string `json:"email,omitempty"`
	BusinessType string `json:"business_type,omitempty"`
}

// UpdateProfile sends the full editable snapshot and returns the profile as
// the API now sees it.
func (c *Client) UpdateProfile(ctx context.Context, token string, upd ProfileUpdate) (*models.UserProfile, error) {
	var p models.UserProfile
	if err := c.do(ctx, http.MethodPut, "/user/profile", token, upd, &p); err != nil {
		return nil, err
	}
	if p.Username == "" {
		p.Username = upd.Username
	}
	return &p, nil
}

// SocialStatus returns the per-platform connection map for appUser. Platforms
// the API omits are filled in as disconnected so callers always see the full
// set.
func (c *Client) SocialStatus(ctx context.Context, token, appUser string) (models.SocialStatus, error) {
	var raw map[string]json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/social/status?app_user="+url.QueryEscape(appUser), token, nil, &raw); err != nil {
		return nil, err
	}
	status := make(models.SocialStatus, len(models.Platforms))
	for _, p := range models.Platforms {
		status[p] = models.ConnectionStatus{}
	}
	for p, msg := range raw {
		var cs struct {
			Connected bool                     `json:"connected"`
			Detail    *models.ConnectionDetail `json:"detail"`
		}
		if err := json.Unmarshal(msg, &cs); err != nil {
			continue
		}
		status[p] = models.ConnectionStatus{Connected: cs.Connected, Detail: cs.Detail}
	}
	return status, nil
}

// ExchangeCode forwards a provider authorization code for token exchange and
// account linking on the remote side.
func (c *Client) ExchangeCode(ctx context.Context, platform, code, appUser string) error {
	return c.do(ctx, http.MethodPost, "/social/"+platform+"/exchange", "", map[string]string{
		"code":     code,
		"app_user": appUser,
	}, nil)
}

// Disconnect unlinks a platform account. On 401 the returned APIError carries
// TokenExpired when the API says the stored provider token lapsed.
func (c *Client) Disconnect(ctx context.Context, token, platform, appUser string) error {
	return c.do(ctx, http.MethodPost, "/social/"+platform+"/disconnect", token, map[string]string{
		"app_user": appUser,
	}, nil)
}

type GenerateResult struct {
	JobID   string   `json:"job_id"`
	Status  string   `json:"status"`
	Images  []string `json:"images"`
	Message string   `json:"message"`
}

func (c *Client) GenerateContent(ctx context.Context, token, appUser string, req models.ContentRequest) (*GenerateResult, error) {
	platforms := make([]string, 0, len(req.Platforms))
	for _, p := range models.ContentPlatforms {
		if req.Platforms[p] {
			platforms = append(platforms, p)
		}
	}
	var res GenerateResult
	err := c.do(ctx, http.MethodPost, "/content/generate", token, map[string]any{
		"app_user":     appUser,
		"prompt":       req.Prompt,
		"num_images":   req.NumImages,
		"content_type": req.ContentType,
		"platforms":    platforms,
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}
