package fileindex

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/tuneport/backend/internal/providers"
	"github.com/tuneport/backend/internal/providers/psession"
	"github.com/tuneport/backend/internal/utils"
)

// client speaks the file server's CGI-style web API. All data endpoints
// require a session id obtained from the auth endpoint; the id is cached
// and refreshed through a psession.Session.
type client struct {
	baseURL  string
	account  string
	password string
	http     *http.Client
	session  *psession.Session
	logger   *utils.Logger
}

func newClient(cfg Config, logger *utils.Logger) *client {
	c := &client{
		baseURL:  cfg.BaseURL,
		account:  cfg.Account,
		password: cfg.Password,
		http:     &http.Client{Timeout: cfg.Timeout},
		logger:   logger,
	}
	c.session = psession.New(c.login, cfg.SessionTTL)
	return c
}

// login authenticates against the auth endpoint and returns a fresh
// session id. Two-factor failures are reported distinctly from plain
// bad credentials so callers can surface an actionable message.
func (c *client) login(ctx context.Context) (string, error) {
	q := url.Values{}
	q.Set("api", "SYNO.API.Auth")
	q.Set("version", "3")
	q.Set("method", "login")
	q.Set("account", c.account)
	q.Set("passwd", c.password)
	q.Set("session", "FileStation")
	q.Set("format", "sid")

	var resp loginResponse
	if err := c.getJSON(ctx, "/webapi/auth.cgi", q, &resp); err != nil {
		return "", err
	}
	if !resp.Success {
		switch resp.Error.Code {
		case codeBadCredentials:
			return "", providers.ErrBadCredentials
		case codeTwoFactorNeeded, codeTwoFactorFailed:
			return "", providers.ErrTwoFactorRequired
		default:
			return "", fmt.Errorf("%w: login failed with code %d", providers.ErrUnavailable, resp.Error.Code)
		}
	}
	if resp.Data.SID == "" {
		return "", fmt.Errorf("%w: login returned empty session id", providers.ErrUnavailable)
	}
	return resp.Data.SID, nil
}

// list returns the entries of a single folder, including size and
// modification time. An expired session is refreshed once and the call
// retried.
func (c *client) list(ctx context.Context, folder string) ([]fileEntry, error) {
	entries, err := c.listOnce(ctx, folder)
	if err == errSessionExpired {
		c.session.Invalidate()
		entries, err = c.listOnce(ctx, folder)
	}
	return entries, err
}

var errSessionExpired = fmt.Errorf("session expired")

func (c *client) listOnce(ctx context.Context, folder string) ([]fileEntry, error) {
	sid, err := c.session.Token(ctx)
	if err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("api", "SYNO.FileStation.List")
	q.Set("version", "2")
	q.Set("method", "list")
	q.Set("folder_path", folder)
	q.Set("additional", `["size","time"]`)
	q.Set("_sid", sid)

	var resp listResponse
	if err := c.getJSON(ctx, "/webapi/entry.cgi", q, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		if resp.Error.Code == codeSessionExpired {
			return nil, errSessionExpired
		}
		return nil, fmt.Errorf("%w: list %q failed with code %d", providers.ErrUnavailable, folder, resp.Error.Code)
	}
	return resp.Data.Files, nil
}

// head downloads at most n bytes from the start of a file. Used for
// bounded metadata extraction so large lossless files are never pulled
// in full.
func (c *client) head(ctx context.Context, path string, n int64) ([]byte, error) {
	sid, err := c.session.Token(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.downloadURL(path, sid), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Range", fmt.Sprintf("bytes=0-%d", n-1))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", providers.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		return nil, fmt.Errorf("%w: download %q returned status %d", providers.ErrUnavailable, path, resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, n))
}

// streamURL builds a direct download URL for a file, carrying the
// current session id so players can fetch it without extra headers.
func (c *client) streamURL(ctx context.Context, path string) (string, error) {
	sid, err := c.session.Token(ctx)
	if err != nil {
		return "", err
	}
	return c.downloadURL(path, sid), nil
}

func (c *client) downloadURL(path, sid string) string {
	q := url.Values{}
	q.Set("api", "SYNO.FileStation.Download")
	q.Set("version", "2")
	q.Set("method", "download")
	q.Set("path", path)
	q.Set("mode", "open")
	q.Set("_sid", sid)
	return c.baseURL + "/webapi/entry.cgi?" + q.Encode()
}

func (c *client) getJSON(ctx context.Context, endpoint string, q url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", providers.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s returned status %d", providers.ErrUnavailable, endpoint, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding %s response: %v", providers.ErrUnavailable, endpoint, err)
	}
	return nil
}
