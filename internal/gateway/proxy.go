// Package gateway forwards API calls from the single-page app to the backend
// and rewrites backend failures into the uniform error shape.
package gateway

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/hms-gateway/internal/audit"
	"github.com/BruksfildServices01/hms-gateway/internal/httperr"
)

const (
	HeaderRequestID = "X-Request-ID"

	defaultTimeout = 30 * time.Second
)

// hopHeaders apply to a single connection and are never forwarded.
var hopHeaders = []string{
	"Connection",
	"Proxy-Connection",
	"Keep-Alive",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"Te",
	"Trailer",
	"Transfer-Encoding",
	"Upgrade",
}

// Auditor receives one event per forwarded mutation.
type Auditor interface {
	Dispatch(ev audit.Event)
}

type Options struct {
	// Target is the backend base URL, e.g. http://localhost:8080.
	Target  string
	Timeout time.Duration
	// Transport overrides the HTTP transport; tests use it to inject failures.
	Transport http.RoundTripper
	Auditor   Auditor
}

type Proxy struct {
	target  string
	client  *http.Client
	timeout time.Duration
	auditor Auditor
	log     *zap.Logger
}

func New(opts Options, log *zap.Logger) (*Proxy, error) {
	u, err := url.Parse(opts.Target)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid backend url %q", opts.Target)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	transport := opts.Transport
	if transport == nil {
		transport = &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConnsPerHost: 100,
			IdleConnTimeout:     90 * time.Second,
		}
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Proxy{
		target: strings.TrimSuffix(u.String(), "/"),
		client: &http.Client{
			Transport: transport,
			// redirects are the browser's business
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		timeout: timeout,
		auditor: opts.Auditor,
		log:     log,
	}, nil
}

func (p *Proxy) Target() string {
	return p.target
}

// Handle makes exactly one attempt against the backend. The backend call is
// detached from the client's cancellation and bounded by the proxy timeout.
func (p *Proxy) Handle(c *gin.Context) {
	start := time.Now()
	uri := c.Request.URL.RequestURI()

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		p.log.Warn("read request body", zap.String("path", uri), zap.Error(err))
		httperr.Abort(c, httperr.ProxyFailure())
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, c.Request.Method, p.target+uri, bytes.NewReader(body))
	if err != nil {
		p.log.Error("build backend request", zap.String("path", uri), zap.Error(err))
		httperr.Abort(c, httperr.ProxyFailure())
		return
	}
	req.Header = forwardHeaders(c.Request.Header)
	if req.Header.Get("Content-Type") == "" && len(body) > 0 {
		req.Header.Set("Content-Type", "application/json")
	}
	if ip := c.ClientIP(); ip != "" {
		req.Header.Set("X-Forwarded-For", ip)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		apiErr := p.transportError(err)
		p.log.Error("backend request failed",
			zap.String("method", req.Method),
			zap.String("path", uri),
			zap.Int("status", apiErr.Status),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		httperr.Abort(c, apiErr)
		p.record(c, apiErr.Status)
		return
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		p.log.Error("read backend response", zap.String("path", uri), zap.Error(err))
		httperr.Abort(c, httperr.ProxyFailure())
		p.record(c, http.StatusInternalServerError)
		return
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := httperr.Normalize(resp.StatusCode, respBody)
		p.log.Info("backend error",
			zap.String("method", req.Method),
			zap.String("path", uri),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", truncate(respBody, 512)),
		)
		httperr.Abort(c, apiErr)
		p.record(c, resp.StatusCode)
		return
	}

	copyHeaders(c.Writer.Header(), resp.Header)
	c.Writer.Header().Set("Content-Length", strconv.Itoa(len(respBody)))
	c.Status(resp.StatusCode)
	if len(respBody) > 0 {
		if _, err := c.Writer.Write(respBody); err != nil {
			p.log.Warn("write response body", zap.String("path", uri), zap.Error(err))
		}
	}
	p.record(c, resp.StatusCode)
}

func (p *Proxy) transportError(err error) *httperr.APIError {
	if Unreachable(err) {
		return httperr.ServiceUnavailable(p.target)
	}
	return httperr.ProxyFailure()
}

// Unreachable reports whether err means no connection could be made.
func Unreachable(err error) bool {
	if errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return true
	}
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}

func (p *Proxy) record(c *gin.Context, status int) {
	if p.auditor == nil {
		return
	}
	method := c.Request.Method
	if method == http.MethodGet || method == http.MethodHead || method == http.MethodOptions {
		return
	}

	ev := audit.Event{
		RequestID: c.GetHeader(HeaderRequestID),
		Action:    ActionName(method, c.Request.URL.Path),
		Method:    method,
		Path:      c.Request.URL.Path,
		Status:    status,
	}
	if pr, ok := PrincipalFrom(c); ok {
		ev.UserID = pr.Subject
		ev.Role = pr.Role()
	}
	p.auditor.Dispatch(ev)
}

// ActionName turns "PUT /doctor/appointments/42/accept" into
// "put:doctor.appointments.accept". Identifier segments are dropped.
func ActionName(method, path string) string {
	var parts []string
	for _, seg := range strings.Split(path, "/") {
		if seg == "" || isIdentifier(seg) {
			continue
		}
		parts = append(parts, seg)
	}
	return strings.ToLower(method) + ":" + strings.Join(parts, ".")
}

func isIdentifier(seg string) bool {
	if _, err := strconv.ParseInt(seg, 10, 64); err == nil {
		return true
	}
	_, err := uuid.Parse(seg)
	return err == nil
}

func forwardHeaders(in http.Header) http.Header {
	out := in.Clone()
	for _, f := range in.Values("Connection") {
		for _, name := range strings.Split(f, ",") {
			out.Del(strings.TrimSpace(name))
		}
	}
	for _, h := range hopHeaders {
		out.Del(h)
	}
	return out
}

func copyHeaders(dst, src http.Header) {
	for k, vv := range forwardHeaders(src) {
		if strings.EqualFold(k, "Content-Length") {
			continue
		}
		for _, v := range vv {
			dst.Add(k, v)
		}
	}
}

func truncate(b []byte, n int) []byte {
	if len(b) > n {
		return b[:n]
	}
	return b
}
