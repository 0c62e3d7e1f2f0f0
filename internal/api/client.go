// Package api is the client for the remote flower-shop REST API. It is the
// single source of truth for every view: queries are cached under resource
// tags and mutations invalidate the tags of whatever they touched, so
// dependent views refetch after every write.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Truongdat815/Web-b-n-hoa-sub001/internal/cache"
	"github.com/Truongdat815/Web-b-n-hoa-sub001/internal/logging"
)

// Credentials is the bearer token a call runs under. It is passed explicitly
// so request construction stays a pure function of (spec, credentials) with
// no ambient auth lookup.
type Credentials struct {
	Token string
}

// RequestSpec declares one upstream call.
type RequestSpec struct {
	Method string
	Path   string
	Query  url.Values
	Body   any

	// Multipart, when set, wins over Body.
	Multipart *MultipartPayload
}

type MultipartPayload struct {
	Field    string
	Filename string
	Content  io.Reader
	Fields   map[string]string
}

// NewRequest builds the HTTP request for spec against base. Pure: same
// inputs, same request.
func NewRequest(ctx context.Context, base string, spec RequestSpec, creds Credentials) (*http.Request, error) {
	u := strings.TrimRight(base, "/") + spec.Path
	if len(spec.Query) > 0 {
		u += "?" + spec.Query.Encode()
	}

	var body io.Reader
	contentType := ""
	switch {
	case spec.Multipart != nil:
		buf := &bytes.Buffer{}
		w := multipart.NewWriter(buf)
		for k, v := range spec.Multipart.Fields {
			if err := w.WriteField(k, v); err != nil {
				return nil, fmt.Errorf("write field: %w", err)
			}
		}
		fw, err := w.CreateFormFile(spec.Multipart.Field, spec.Multipart.Filename)
		if err != nil {
			return nil, fmt.Errorf("create form file: %w", err)
		}
		if _, err := io.Copy(fw, spec.Multipart.Content); err != nil {
			return nil, fmt.Errorf("copy form file: %w", err)
		}
		if err := w.Close(); err != nil {
			return nil, fmt.Errorf("close multipart: %w", err)
		}
		body = buf
		contentType = w.FormDataContentType()
	case spec.Body != nil:
		raw, err := json.Marshal(spec.Body)
		if err != nil {
			return nil, fmt.Errorf("marshal body: %w", err)
		}
		body = bytes.NewReader(raw)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, spec.Method, u, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if creds.Token != "" {
		req.Header.Set("Authorization", "Bearer "+creds.Token)
	}
	return req, nil
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      *cache.Registry
}

func NewClient(baseURL string, reg *cache.Registry) *Client {
	return &Client{
		baseURL: baseURL,
		cache:   reg,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   5 * time.Second,
					KeepAlive: 60 * time.Second,
				}).DialContext,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
	}
}

func (c *Client) Cache() *cache.Registry { return c.cache }

func (c *Client) do(ctx context.Context, spec RequestSpec, creds Credentials, out any) error {
	req, err := NewRequest(ctx, c.baseURL, spec, creds)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errorFromResponse(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// query runs a cacheable GET. Results are stored under tag, keyed by path,
// query and token subject, and served from the registry until the tag is
// invalidated.
func query[T any](ctx context.Context, c *Client, tag cache.Tag, spec RequestSpec, creds Credentials) (T, error) {
	key := cacheKey(spec, creds)
	if v, ok := c.cache.Get(tag, key); ok {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
	}
	gen := c.cache.Generation(tag)

	var out T
	if err := c.do(ctx, spec, creds, &out); err != nil {
		return out, err
	}
	c.cache.Put(tag, key, out, gen)
	return out, nil
}

// mutate runs a write and then invalidates every tag it names.
func (c *Client) mutate(ctx context.Context, spec RequestSpec, creds Credentials, out any, invalidates ...cache.Tag) error {
	if err := c.do(ctx, spec, creds, out); err != nil {
		return err
	}
	c.cache.Invalidate(invalidates...)
	logging.FromContext(ctx).Info("cache invalidated",
		"method", spec.Method, "path", spec.Path, "tags", tagStrings(invalidates))
	return nil
}

func cacheKey(spec RequestSpec, creds Credentials) string {
	return spec.Path + "?" + spec.Query.Encode() + "|" + tokenSubject(creds.Token)
}

// tokenSubject extracts the unverified sub claim so per-user queries do not
// share cache entries. Verification belongs to the upstream, not here.
func tokenSubject(token string) string {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return ""
	}
	sub, err := claims.GetSubject()
	if err != nil {
		return ""
	}
	return sub
}

func tagStrings(tags []cache.Tag) []string {
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = string(t)
	}
	return out
}
