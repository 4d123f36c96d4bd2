package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"leavectl/internal/session"
)

// Envelope is the response wrapper used by every API endpoint.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *EnvelopeError  `json:"error,omitempty"`
}

type EnvelopeError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Client issues authenticated calls against the HR API. Every call reads the
// bearer token from the session manager at request time, so a refresh in one
// place is visible to all subsequent calls.
type Client struct {
	baseURL  string
	http     *http.Client
	sessions *session.Manager
	log      *slog.Logger
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func WithLogger(log *slog.Logger) Option {
	return func(c *Client) { c.log = log }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

func New(baseURL string, sessions *session.Manager, opts ...Option) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: 30 * time.Second},
		sessions: sessions,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured API base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// Sessions exposes the session manager so the push channel can share the
// same token source.
func (c *Client) Sessions() *session.Manager { return c.sessions }

// Token returns the current bearer token or an auth-required error. No
// network I/O happens without a token.
func (c *Client) Token() (string, error) {
	pair, ok := c.sessions.Get()
	if !ok || pair.Token == "" {
		return "", authRequired()
	}
	return pair.Token, nil
}

// newRequest builds an authenticated JSON request.
func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	token, err := c.Token()
	if err != nil {
		return nil, err
	}
	req, err := c.newPublicRequest(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return req, nil
}

// newPublicRequest builds a JSON request without auth, for login and the
// OAuth code exchange.
func (c *Client) newPublicRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// Upload describes one file part of a multipart request.
type Upload struct {
	Field       string
	FileName    string
	ContentType string
	Data        []byte
}

// newUploadRequest builds an authenticated multipart request. Callers pick
// this variant over newRequest when the payload carries files.
func (c *Client) newUploadRequest(ctx context.Context, path string, uploads []Upload, fields map[string]string) (*http.Request, error) {
	token, err := c.Token()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return nil, fmt.Errorf("writing form field: %w", err)
		}
	}
	for _, up := range uploads {
		part, err := writer.CreateFormFile(up.Field, up.FileName)
		if err != nil {
			return nil, fmt.Errorf("creating form file: %w", err)
		}
		if _, err := part.Write(up.Data); err != nil {
			return nil, fmt.Errorf("writing form file: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("closing multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	return req, nil
}

// do executes the request and decodes the envelope's data into out. Every
// failure is returned as a classified *Error; nothing escapes raw.
func (c *Client) do(req *http.Request, out any, fallback string) error {
	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			err = ctxErr
		}
		return classify(err, fallback)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return classify(err, fallback)
	}

	var envelope Envelope
	decodeErr := json.Unmarshal(body, &envelope)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		serverMsg := ""
		if decodeErr == nil && envelope.Error != nil {
			serverMsg = envelope.Error.Message
		}
		apiErr := classifyStatus(resp.StatusCode, serverMsg, fallback)
		c.log.Debug("api call failed", "method", req.Method, "path", req.URL.Path, "status", resp.StatusCode)
		return apiErr
	}

	if out == nil {
		return nil
	}
	if decodeErr != nil {
		return classify(decodeErr, fallback)
	}
	if len(envelope.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return classify(err, fallback)
	}
	return nil
}

// doBlob executes the request and returns the raw body, for export
// endpoints that answer with a file instead of an envelope.
func (c *Client) doBlob(req *http.Request, fallback string) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			err = ctxErr
		}
		return nil, classify(err, fallback)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var envelope Envelope
		body, _ := io.ReadAll(resp.Body)
		serverMsg := ""
		if json.Unmarshal(body, &envelope) == nil && envelope.Error != nil {
			serverMsg = envelope.Error.Message
		}
		return nil, classifyStatus(resp.StatusCode, serverMsg, fallback)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classify(err, fallback)
	}
	return body, nil
}
