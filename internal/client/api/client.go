package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/mediakeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) setToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Logout forgets the stored token.
func (c *Client) Logout() { c.setToken("") }

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token := c.Token(); token != "" {
		req.Header.Set(common.AuthorizationHeaderName, "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return &StatusError{Status: resp.StatusCode, Message: e.Error}
	}

	switch v := out.(type) {
	case nil:
		return nil
	case *string:
		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		*v = string(b)
		return nil
	default:
		return json.NewDecoder(resp.Body).Decode(out)
	}
}

func (c *Client) form(ctx context.Context, method, path string, values url.Values, out any) error {
	return c.do(ctx, method, path, strings.NewReader(values.Encode()), "application/x-www-form-urlencoded", out)
}

func (c *Client) Register(ctx context.Context, username, password string) (Account, error) {
	var acc Account
	err := c.form(ctx, http.MethodPut, "/api/users", url.Values{"username": {username}, "password": {password}}, &acc)
	return acc, err
}

// Login exchanges credentials for a token and keeps it for later calls.
func (c *Client) Login(ctx context.Context, username, password string) error {
	var token string
	if err := c.form(ctx, http.MethodPost, "/api/users/auth", url.Values{"username": {username}, "password": {password}}, &token); err != nil {
		return err
	}
	c.setToken(strings.TrimSpace(token))
	return nil
}

// WhoAmI reads the claims of the stored token without verifying it. The
// server remains the authority on whether the token is still good.
func (c *Client) WhoAmI() (Identity, error) {
	token := c.Token()
	if token == "" {
		return Identity{}, ErrNotLoggedIn
	}

	var claims struct {
		Name string `json:"name"`
		Role string `json:"roles"`
		jwt.RegisteredClaims
	}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return Identity{}, err
	}
	return Identity{ID: claims.Subject, Name: claims.Name, Role: claims.Role}, nil
}

func (c *Client) ListMedia(ctx context.Context) ([]Media, error) {
	var out []Media
	err := c.do(ctx, http.MethodGet, "/api/media", nil, "", &out)
	return out, err
}

// Upload sends the file at path as a new media record. The content type is
// derived from the file extension, falling back to sniffing the content.
func (c *Client) Upload(ctx context.Context, path, name, description string) (Media, error) {
	if c.Token() == "" {
		return Media{}, ErrNotLoggedIn
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Media{}, err
	}

	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("name", name); err != nil {
		return Media{}, err
	}
	if err := mw.WriteField("description", description); err != nil {
		return Media{}, err
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filepath.Base(path)))
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return Media{}, err
	}
	if _, err := part.Write(data); err != nil {
		return Media{}, err
	}
	if err := mw.Close(); err != nil {
		return Media{}, err
	}

	var m Media
	err = c.do(ctx, http.MethodPut, "/api/media", &body, mw.FormDataContentType(), &m)
	return m, err
}

func (c *Client) DeleteMedia(ctx context.Context, id uint64) error {
	if c.Token() == "" {
		return ErrNotLoggedIn
	}
	return c.do(ctx, http.MethodDelete, "/api/media?id="+strconv.FormatUint(id, 10), nil, "", nil)
}

// Ping reports whether the server answers its liveness probe.
func (c *Client) Ping(ctx context.Context) error {
	var s string
	if err := c.do(ctx, http.MethodGet, "/healthz", nil, "", &s); err != nil {
		return err
	}
	if s != "ok" {
		return errors.New("unexpected health reply")
	}
	return nil
}
