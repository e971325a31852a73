// Package portal is the HTTP client for the data portal API. Every request
// carries the bearer token and a fresh X-Request-ID.
package portal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	dialTimeout           = 10 * time.Second
	responseHeaderTimeout = 120 * time.Second
	maxErrorBody          = 4096
)

var (
	ErrNoToken     = errors.New("no API token provided")
	ErrBadResponse = errors.New("unexpected response from portal")
)

// StatusError is returned for any response with a status of 300 or above.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Code, http.StatusText(e.Code))
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// Logger receives request traces.
type Logger interface {
	Debug(format string, args ...any)
}

// Observer receives one call per completed request. Status is 0 when the
// request failed before a response arrived.
type Observer interface {
	ObserveRequest(method, endpoint string, status int, elapsed time.Duration)
}

// Client talks to one portal API base URL.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	log        Logger
	observer   Observer
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default transport (tests use the httptest
// server's client).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithLogger(l Logger) Option {
	return func(c *Client) { c.log = l }
}

func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

// New creates a client for baseURL (e.g. https://portal.example.org/api/v1).
// Connections time out after 10s, response headers after 120s; bodies are
// not time limited since uploads can be large.
func New(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Transport: &http.Transport{
				Proxy:                 http.ProxyFromEnvironment,
				DialContext:           (&net.Dialer{Timeout: dialTimeout}).DialContext,
				TLSHandshakeTimeout:   dialTimeout,
				ResponseHeaderTimeout: responseHeaderTimeout,
				MaxIdleConnsPerHost:   2,
			},
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// BaseURL returns the API root the client was created with.
func (c *Client) BaseURL() string { return c.baseURL }

// Ping checks that the API answers GET /test.
func (c *Client) Ping(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodGet, "/test", "/test", nil, nil)
}

// CreateDataset registers a new dataset.
func (c *Client) CreateDataset(ctx context.Context, req CreateDatasetRequest) (CreatedDataset, error) {
	var out CreatedDataset
	err := c.doJSON(ctx, http.MethodPost, "/dataset", "/dataset", req, &out)
	return out, err
}

// RegisterFile announces a data file and returns the id to upload it to.
func (c *Client) RegisterFile(ctx context.Context, datasetID int, meta FileMeta) (int, error) {
	var out registerResponse
	path := fmt.Sprintf("/dataset/%d/files", datasetID)
	if err := c.doJSON(ctx, http.MethodPost, "/dataset/{id}/files", path, meta, &out); err != nil {
		return 0, err
	}
	if out.FileID == nil || *out.FileID < 0 {
		return 0, fmt.Errorf("%w: no file id for dataset %d", ErrBadResponse, datasetID)
	}
	return *out.FileID, nil
}

// PutFile uploads the content of a registered data file.
func (c *Client) PutFile(ctx context.Context, datasetID, fileID int, localPath string) (UploadResult, error) {
	path := fmt.Sprintf("/dataset/%d/files/%d", datasetID, fileID)
	return c.upload(ctx, "/dataset/{id}/files/{fileId}", path, localPath, nil)
}

// PutExtraFile uploads a file that does not follow the naming convention.
func (c *Client) PutExtraFile(ctx context.Context, datasetID int, target ExtraTarget, localPath string) (UploadResult, error) {
	path := fmt.Sprintf("/dataset/%d/extrafiles", datasetID)
	fields := [][2]string{{"prefix", target.Prefix}, {"filename", target.Filename}}
	return c.upload(ctx, "/dataset/{id}/extrafiles", path, localPath, fields)
}

// DeleteDataset removes a dataset. With force the portal also deletes a
// dataset that still holds files.
func (c *Client) DeleteDataset(ctx context.Context, datasetID int, force bool) error {
	path := fmt.Sprintf("/dataset/%d", datasetID)
	if force {
		path += "?force=true"
	}
	return c.doJSON(ctx, http.MethodDelete, "/dataset/{id}", path, nil, nil)
}

// ListDatasets returns the caller's datasets.
func (c *Client) ListDatasets(ctx context.Context) ([]Dataset, error) {
	var out datasetsResponse
	if err := c.doJSON(ctx, http.MethodGet, "/dataset", "/dataset", nil, &out); err != nil {
		return nil, err
	}
	return out.Datasets, nil
}

// ListFiles returns every file in a dataset, extra files included.
func (c *Client) ListFiles(ctx context.Context, datasetID int) ([]File, error) {
	var out filesResponse
	path := fmt.Sprintf("/dataset/%d/files?limit=0&extrafiles=true", datasetID)
	if err := c.doJSON(ctx, http.MethodGet, "/dataset/{id}/files", path, nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *Client) doJSON(ctx context.Context, method, endpoint, path string, in, out any) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s body: %w", endpoint, err)
		}
		body = bytes.NewReader(b)
		contentType = "application/json"
	}
	return c.do(ctx, method, endpoint, path, body, contentType, out)
}

// upload streams localPath as the multipart part "data", preceded by the
// given form fields.
func (c *Client) upload(ctx context.Context, endpoint, path, localPath string, fields [][2]string) (UploadResult, error) {
	var out UploadResult

	f, err := os.Open(localPath)
	if err != nil {
		return out, err
	}
	defer f.Close()

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		pw.CloseWithError(writeMultipart(mw, fields, filepath.Base(localPath), f))
	}()

	err = c.do(ctx, http.MethodPut, endpoint, path, pr, mw.FormDataContentType(), &out)
	// Unblock the writer if the request ended before the body was consumed.
	pr.CloseWithError(io.ErrClosedPipe)
	return out, err
}

func writeMultipart(mw *multipart.Writer, fields [][2]string, filename string, r io.Reader) error {
	for _, kv := range fields {
		if err := mw.WriteField(kv[0], kv[1]); err != nil {
			return err
		}
	}
	part, err := mw.CreateFormFile("data", filename)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, r); err != nil {
		return err
	}
	return mw.Close()
}

func (c *Client) do(ctx context.Context, method, endpoint, path string, body io.Reader, contentType string, out any) error {
	if c.token == "" {
		return ErrNoToken
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request %s %s: %w", method, path, err)
	}
	reqID := uuid.NewString()
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("X-Request-ID", reqID)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(method, endpoint, 0, time.Since(start))
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	elapsed := time.Since(start)
	c.observe(method, endpoint, resp.StatusCode, elapsed)
	c.debug("%s %s -> %d in %s (request %s)", method, path, resp.StatusCode, elapsed.Round(time.Millisecond), reqID)

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Method: method, Path: path, Code: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrBadResponse, method, path, err)
	}
	return nil
}

func (c *Client) observe(method, endpoint string, status int, elapsed time.Duration) {
	if c.observer != nil {
		c.observer.ObserveRequest(method, endpoint, status, elapsed)
	}
}

func (c *Client) debug(format string, args ...any) {
	if c.log != nil {
		c.log.Debug(format, args...)
	}
}
