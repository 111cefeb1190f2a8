// Package client is a typed client for the hospital backend, used through
// the gateway. It attaches the session credential, tears the session down on
// a 401, caches reads and refuses appointment transitions the state machine
// already rules out, without a network call.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/hms-gateway/internal/httperr"
	"github.com/BruksfildServices01/hms-gateway/internal/models"
	"github.com/BruksfildServices01/hms-gateway/internal/session"
)

const MsgSessionExpired = "Session expired. Please login again"

type Options struct {
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
}

type Client struct {
	base    string
	http    *http.Client
	session *session.Store
	cache   *Cache
	log     *zap.Logger
	now     func() time.Time
}

func New(opts Options, store *session.Store, log *zap.Logger) (*Client, error) {
	u, err := url.Parse(opts.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", opts.BaseURL)
	}
	if store == nil {
		return nil, fmt.Errorf("client: session store is required")
	}

	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Client{
		base:    strings.TrimSuffix(u.String(), "/"),
		http:    hc,
		session: store,
		cache:   NewCache(),
		log:     log,
		now:     time.Now,
	}, nil
}

func (c *Client) Session() *session.Store {
	return c.session
}

func (c *Client) Cache() *Cache {
	return c.cache
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

// mutate sends a write and drops cached reads under the given prefixes. A
// conflict also invalidates, since it means the cached view was stale.
func (c *Client) mutate(ctx context.Context, method, path string, in, out any, invalidate ...string) error {
	err := c.do(ctx, method, path, nil, in, out)
	if err == nil || httperr.IsConflict(err) {
		for _, p := range invalidate {
			c.cache.Invalidate(p)
		}
	}
	return err
}

// do waits for the session to be initialized so a restored credential is
// never missed, then performs one request.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	if err := c.session.Wait(ctx); err != nil {
		return err
	}

	key := path
	if len(query) > 0 {
		key += "?" + query.Encode()
	}

	cacheable := method == http.MethodGet
	if cacheable {
		if raw, ok := c.cache.Get(key); ok {
			return decode(raw, out)
		}
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+key, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	token, _ := c.session.Token()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: read body: %w", method, path, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return c.fail(ctx, resp.StatusCode, raw, token != "")
	}

	if cacheable {
		c.cache.Put(key, raw)
	}
	return decode(raw, out)
}

func (c *Client) fail(ctx context.Context, status int, raw []byte, hadToken bool) error {
	apiErr := httperr.Normalize(status, raw)
	if status != http.StatusUnauthorized || !hadToken {
		return apiErr
	}

	c.cache.Clear()
	if err := c.session.Logout(ctx); err != nil {
		c.log.Warn("logout after 401 failed", zap.Error(err))
	}
	apiErr.Message = MsgSessionExpired
	return apiErr
}

func decode(raw []byte, out any) error {
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// role is the acting role of the current session.
func (c *Client) role(ctx context.Context) (models.Role, error) {
	if err := c.session.Wait(ctx); err != nil {
		return "", err
	}
	cur, err := c.session.Current()
	if err != nil {
		return "", err
	}
	if !cur.Authenticated() {
		return "", httperr.NoToken()
	}
	return cur.User.Role, nil
}
