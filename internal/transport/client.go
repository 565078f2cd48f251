// Package transport implements the session-authenticated Redfish HTTP
// client: login/logout, GET/POST/PATCH/DELETE with ETag/If-Match
// concurrency control, bounded retry with jittered backoff, and translation
// of HTTP failures into *raiderr.Error, scoped to the Storage/Drive/Volume/
// Task resource family this session needs.
package transport

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"raidctl/internal/ctxkeys"
	"raidctl/internal/metrics"
	"raidctl/internal/raiderr"
	"raidctl/pkg/crypto"
	"raidctl/pkg/redfish"
)

// Config configures one Client.
type Config struct {
	Endpoint    string // e.g. https://10.0.0.5
	Username    string
	Password    string
	Vendor      string // free-form, used only for metrics labels and backoff tuning
	InsecureTLS bool
	Timeout     time.Duration
	Retries     int // 0 uses the vendor-tuned default
	Logger      *slog.Logger
}

// Client is a session-authenticated Redfish HTTP client. It implements
// resource.Loader.
type Client struct {
	cfg     Config
	hc      *http.Client
	baseURL *url.URL
	logger  *slog.Logger

	token       string
	sessionPath string

	retryMax  int
	retryBase time.Duration
	retryCap  time.Duration

	lastTaskLocation string

	// Root discovery, cached by Discover.
	systemsODataID        string
	managersODataID       string
	sessionServiceODataID string
	redfishVersion        string
}

// SystemsODataID returns the Systems collection link discovered by Discover.
func (c *Client) SystemsODataID() string { return c.systemsODataID }

// ManagersODataID returns the Managers collection link discovered by Discover.
func (c *Client) ManagersODataID() string { return c.managersODataID }

// RedfishVersion returns the RedfishVersion string discovered by Discover.
func (c *Client) RedfishVersion() string { return c.redfishVersion }

// New constructs a Client but does not open a session; call Open first.
func New(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("transport: endpoint is empty")
	}
	u, err := url.Parse(cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("transport: invalid endpoint: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("transport: unsupported endpoint scheme %q", u.Scheme)
	}

	transport := &http.Transport{
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: cfg.InsecureTLS,
			MinVersion:         tls.VersionTLS12,
		},
	}
	hc := &http.Client{
		Timeout:   maxDur(cfg.Timeout, 30*time.Second),
		Transport: transport,
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	profile := profileForVendor(cfg.Vendor)
	c := &Client{
		cfg:       cfg,
		hc:        hc,
		baseURL:   u,
		logger:    logger,
		retryMax:  profile.retryMax,
		retryBase: profile.retryBase,
		retryCap:  profile.retryCap,
	}
	if cfg.Retries > 0 {
		c.retryMax = cfg.Retries
	}
	return c, nil
}

type vendorProfile struct {
	retryMax  int
	retryBase time.Duration
	retryCap  time.Duration
}

func profileForVendor(vendor string) vendorProfile {
	profile := vendorProfile{retryMax: 5, retryBase: 200 * time.Millisecond, retryCap: 8 * time.Second}
	v := strings.ToLower(vendor)
	if strings.Contains(v, "dell") || strings.Contains(v, "idrac") {
		profile.retryMax = 7
		profile.retryCap = 15 * time.Second
	}
	return profile
}

// Open creates a Redfish session via SessionService/Sessions and stores the
// X-Auth-Token for subsequent requests.
func (c *Client) Open(ctx context.Context) error {
	if strings.TrimSpace(c.cfg.Username) == "" {
		return raiderr.New(raiderr.KindMissingAuthToken, "transport: no username configured for session auth")
	}

	body := map[string]string{"UserName": c.cfg.Username, "Password": c.cfg.Password}
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.buildURL("/redfish/v1/SessionService/Sessions"), bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.hc.Do(req)
	metrics.ObserveRedfishRequest(metrics.OpLogin, c.cfg.Vendor, statusOrErr(resp, err), time.Since(start))
	if err != nil {
		return raiderr.Wrap(raiderr.KindConnectionFailure, "transport: session login request failed", err)
	}
	defer drain(resp)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(resp.Body)
		return classifyStatus(resp.StatusCode, fmt.Sprintf("session login failed: %s", truncate(string(data), 512)))
	}

	if loc := resp.Header.Get("Location"); loc != "" {
		c.sessionPath = toPath(loc)
	}
	tok := resp.Header.Get("X-Auth-Token")
	if tok == "" {
		return raiderr.New(raiderr.KindMissingAuthToken, "transport: BMC did not return X-Auth-Token on session login")
	}
	c.token = tok
	c.logger.Debug("session opened", "correlation_id", ctxkeys.GetCorrelationID(ctx))
	return nil
}

// Discover fetches the Redfish service root and caches its Systems, Managers
// and SessionService oData links and its RedfishVersion, then fetches the
// Managers collection once to confirm it is readable. The resource id used
// to address Systems/{id} and Managers/{id} is resolved by ResourceID.
func (c *Client) Discover(ctx context.Context) error {
	var root redfish.ServiceRoot
	if _, err := c.Get(ctx, "/redfish/v1", &root); err != nil {
		return err
	}
	c.systemsODataID = root.Systems.ODataID
	c.managersODataID = root.Managers.ODataID
	c.sessionServiceODataID = root.SessionService.ODataID
	c.redfishVersion = root.RedfishVersion

	if c.managersODataID == "" {
		return nil
	}
	var managers redfish.ManagerCollection
	if _, err := c.Get(ctx, c.managersODataID, &managers); err != nil {
		return err
	}
	return nil
}

// ResourceID resolves the single Managers member id used to form
// "Systems/{id}" and "Managers/{id}" paths, calling Discover first when it
// has not run yet.
func (c *Client) ResourceID(ctx context.Context) (string, error) {
	if c.managersODataID == "" {
		if err := c.Discover(ctx); err != nil {
			return "", err
		}
	}
	var managers redfish.ManagerCollection
	if _, err := c.Get(ctx, c.managersODataID, &managers); err != nil {
		return "", err
	}
	if len(managers.Members) == 0 {
		return "", raiderr.New(raiderr.KindMissingAttribute, "transport: Managers collection has no members")
	}
	return lastPathSegment(managers.Members[0].ODataID), nil
}

// Close deletes the active session. A failure here is
// swallowed: it always returns nil so callers never need to special-case a
// logout failure during teardown.
func (c *Client) Close(ctx context.Context) error {
	if c.sessionPath == "" || c.token == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	_, _, err := c.do(ctx, metrics.OpLogout, http.MethodDelete, c.sessionPath, "", nil)
	if err != nil {
		c.logger.Debug("session close failed, ignoring", "error", err, "correlation_id", ctxkeys.GetCorrelationID(ctx))
	}
	c.sessionPath = ""
	c.token = ""
	return nil
}

// Get fetches and decodes the resource at odataID, returning the ETag the
// server reported (if any). Implements resource.Loader.
func (c *Client) Get(ctx context.Context, odataID string, out interface{}) (string, error) {
	etag, data, err := c.do(ctx, metrics.OpGet, http.MethodGet, odataID, "", nil)
	if err != nil {
		return "", err
	}
	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return "", raiderr.Wrap(raiderr.KindMalformedAttribute, "transport: decode response body", err)
		}
	}
	return etag, nil
}

// Post submits a creation request and returns the Location of any async
// Task the BMC reports (empty if the request completed synchronously).
func (c *Client) Post(ctx context.Context, odataID string, body interface{}, out interface{}) (taskLocation string, err error) {
	_, data, err := c.doWithBody(ctx, metrics.OpPost, http.MethodPost, odataID, "", body)
	if err != nil {
		return "", err
	}
	if out != nil && len(data) > 0 {
		if uerr := json.Unmarshal(data, out); uerr != nil {
			return "", raiderr.Wrap(raiderr.KindMalformedAttribute, "transport: decode response body", uerr)
		}
	}
	return c.lastTaskLocation, nil
}

// Patch applies a partial update, sending If-Match when etag is non-empty.
func (c *Client) Patch(ctx context.Context, odataID, etag string, body interface{}) error {
	_, _, err := c.doWithBody(ctx, metrics.OpPatch, http.MethodPatch, odataID, etag, body)
	return err
}

// Delete removes the resource at odataID, sending If-Match when etag is
// non-empty, and returns the Location of any async Task the BMC reports
// (empty if the delete completed synchronously).
func (c *Client) Delete(ctx context.Context, odataID, etag string) (taskLocation string, err error) {
	if _, _, err := c.do(ctx, metrics.OpDelete, http.MethodDelete, odataID, etag, nil); err != nil {
		return "", err
	}
	return c.lastTaskLocation, nil
}

func (c *Client) doWithBody(ctx context.Context, op, method, odataID, etag string, body interface{}) (string, []byte, error) {
	return c.doImpl(ctx, op, method, odataID, etag, body)
}

func (c *Client) do(ctx context.Context, op, method, odataID, etag string, _ interface{}) (string, []byte, error) {
	return c.doImpl(ctx, op, method, odataID, etag, nil)
}

func (c *Client) doImpl(ctx context.Context, op, method, odataID, etag string, body interface{}) (string, []byte, error) {
	var payload []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return "", nil, err
		}
		payload = b
	}

	attempts := c.retryMax
	if attempts <= 0 {
		attempts = 1
	}

	c.lastTaskLocation = ""
	var lastErr error
	reauthed := false
	for attempt := 1; attempt <= attempts; attempt++ {
		var rdr io.Reader
		if len(payload) > 0 {
			rdr = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.buildURL(odataID), rdr)
		if err != nil {
			return "", nil, err
		}
		req.Header.Set("Accept", "application/json")
		if len(payload) > 0 {
			req.Header.Set("Content-Type", "application/json")
		}
		if c.token != "" {
			req.Header.Set("X-Auth-Token", c.token)
		}
		if etag != "" {
			req.Header.Set("If-Match", etag)
		}
		if cid := ctxkeys.GetCorrelationID(ctx); cid != "" {
			req.Header.Set("X-Correlation-Id", cid)
		}

		c.logger.Debug("redfish request",
			"correlation_id", ctxkeys.GetCorrelationID(ctx),
			"method", method,
			"url", req.URL.String(),
			"attempt", attempt,
			"headers", crypto.RedactHeaders(headerMap(req.Header)),
		)

		start := time.Now()
		resp, err := c.hc.Do(req)
		duration := time.Since(start)
		if err != nil {
			metrics.ObserveRedfishRequest(op, c.cfg.Vendor, -1, duration)
			lastErr = raiderr.Wrap(raiderr.KindConnectionFailure, "transport: request failed", err)
			if attempt < attempts {
				metrics.IncRedfishRetry(op, c.cfg.Vendor)
				sleepCtx(ctx, c.backoff(attempt))
				continue
			}
			return "", nil, lastErr
		}

		data, _ := io.ReadAll(resp.Body)
		drain(resp)
		metrics.ObserveRedfishRequest(op, c.cfg.Vendor, resp.StatusCode, duration)
		c.logger.Debug("redfish response",
			"correlation_id", ctxkeys.GetCorrelationID(ctx),
			"method", method,
			"url", req.URL.String(),
			"status", resp.StatusCode,
			"duration", duration,
			"headers", crypto.RedactHeaders(headerMap(resp.Header)),
		)

		if resp.StatusCode == http.StatusUnauthorized && !reauthed {
			reauthed = true
			c.token = ""
			c.sessionPath = ""
			if serr := c.Open(ctx); serr == nil {
				metrics.IncRedfishRetry(op, c.cfg.Vendor)
				attempt--
				continue
			}
		}

		switch {
		case resp.StatusCode == http.StatusAccepted:
			c.lastTaskLocation = resp.Header.Get("Location")
			return resp.Header.Get("ETag"), data, nil
		case resp.StatusCode >= 200 && resp.StatusCode < 300:
			return resp.Header.Get("ETag"), data, nil
		case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
			lastErr = classifyStatus(resp.StatusCode, fmt.Sprintf("%s %s: status=%d body=%s", method, odataID, resp.StatusCode, truncate(string(data), 512)))
			if attempt < attempts {
				metrics.IncRedfishRetry(op, c.cfg.Vendor)
				sleep := c.backoff(attempt)
				if resp.StatusCode == http.StatusTooManyRequests {
					if ra, ok := parseRetryAfter(resp.Header.Get("Retry-After")); ok && ra > sleep {
						sleep = ra
					}
				}
				sleepCtx(ctx, sleep)
				continue
			}
			return "", nil, lastErr
		default:
			return "", nil, classifyStatus(resp.StatusCode, fmt.Sprintf("%s %s: status=%d body=%s", method, odataID, resp.StatusCode, truncate(string(data), 512)))
		}
	}
	return "", nil, lastErr
}

func classifyStatus(code int, msg string) error {
	switch {
	case code == http.StatusBadRequest || code == http.StatusUnprocessableEntity:
		return raiderr.New(raiderr.KindBadRequest, msg)
	case code == http.StatusNotFound:
		return raiderr.New(raiderr.KindResourceNotFound, msg)
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return raiderr.New(raiderr.KindAccessDenied, msg)
	case code >= 500:
		return raiderr.New(raiderr.KindServerError, msg)
	default:
		return raiderr.New(raiderr.KindHTTPOther, msg)
	}
}

func (c *Client) buildURL(rel string) string {
	rel = "/" + strings.TrimPrefix(rel, "/")
	u, err := url.JoinPath(c.baseURL.String(), rel)
	if err != nil {
		return strings.TrimRight(c.baseURL.String(), "/") + rel
	}
	return u
}

func (c *Client) backoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	base := c.retryBase
	if base <= 0 {
		base = 200 * time.Millisecond
	}
	cap := c.retryCap
	if cap <= 0 {
		cap = 8 * time.Second
	}
	d := base << (attempt - 1)
	if d > cap {
		d = cap
	}
	jitterRange := int64(d) / 5
	if jitterRange > 0 {
		d += time.Duration(time.Now().UnixNano() % jitterRange)
	}
	return d
}

func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

func parseRetryAfter(header string) (time.Duration, bool) {
	val := strings.TrimSpace(header)
	if val == "" {
		return 0, false
	}
	if secs, err := strconv.Atoi(val); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second, true
	}
	return 0, false
}

func lastPathSegment(odataID string) string {
	trimmed := strings.TrimRight(odataID, "/")
	if i := strings.LastIndex(trimmed, "/"); i >= 0 {
		return trimmed[i+1:]
	}
	return trimmed
}

func toPath(loc string) string {
	if strings.HasPrefix(loc, "/") {
		return loc
	}
	if u, err := url.Parse(loc); err == nil && u.Path != "" {
		return u.Path
	}
	return loc
}

func drain(resp *http.Response) {
	io.CopyN(io.Discard, resp.Body, 512)
	resp.Body.Close()
}

func statusOrErr(resp *http.Response, err error) int {
	if err != nil || resp == nil {
		return -1
	}
	return resp.StatusCode
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n]
}

func maxDur(a, b time.Duration) time.Duration {
	if a > b {
		return a
	}
	return b
}

// headerMap flattens an http.Header into the map[string]string shape
// crypto.RedactHeaders expects, joining repeated values with a comma.
func headerMap(h http.Header) map[string]string {
	m := make(map[string]string, len(h))
	for k, v := range h {
		m[k] = strings.Join(v, ",")
	}
	return m
}
