// Package api is the HTTP client for the document-QA backend. The backend is
// opaque: auth, ingestion, retrieval and answer generation all live server-side
// and this package only speaks its REST contract.
package api

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
)

// Client talks to one backend instance. The zero value is not usable; create
// it with New. Token is empty until SetToken is called after login.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New creates a client for the backend at baseURL. Per-request deadlines are
// the caller's responsibility (via context), so the underlying http.Client
// carries no timeout of its own.
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{},
	}
}

// SetToken installs the bearer token sent on authenticated requests.
func (c *Client) SetToken(token string) { c.token = token }

// Token returns the currently installed bearer token.
func (c *Client) Token() string { return c.token }

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, email, password string) (*Token, error) {
	var tok Token
	err := c.doJSON(ctx, http.MethodPost, "/auth/login", credentials{Email: email, Password: password}, &tok)
	if err != nil {
		return nil, err
	}
	return &tok, nil
}

// Signup creates an account. The user still has to log in afterwards.
func (c *Client) Signup(ctx context.Context, email, password string) error {
	return c.doJSON(ctx, http.MethodPost, "/auth/signup", credentials{Email: email, Password: password}, nil)
}

// ListDocuments fetches the caller's documents. The list is always re-fetched
// from the backend, never patched locally.
func (c *Client) ListDocuments(ctx context.Context) ([]DocumentRef, error) {
	var list documentList
	if err := c.doJSON(ctx, http.MethodGet, "/my-contracts", nil, &list); err != nil {
		return nil, err
	}
	return list.Contracts, nil
}

// DeleteDocument removes one document by id.
func (c *Client) DeleteDocument(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/contracts/%d", id), nil, nil)
}

// DeleteAllDocuments removes every document the caller owns.
func (c *Client) DeleteAllDocuments(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodDelete, "/my-contracts/all", nil, nil)
}

// Query asks a question with conversation context.
func (c *Client) Query(ctx context.Context, req QueryRequest) (*QueryResponse, error) {
	var resp QueryResponse
	if err := c.doJSON(ctx, http.MethodPost, "/query", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Upload sends the PDF at path as a multipart form. Callers gate the file
// extension before this is reached; the backend re-validates anyway.
func (c *Client) Upload(ctx context.Context, path string) (*UploadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("build multipart form: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("finalize multipart form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	c.authorize(req)

	var result UploadResult
	if err := c.do(req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// doJSON performs a JSON request against path and decodes the response into
// out (when non-nil). Non-2xx responses become *APIError carrying the body's
// detail field when present.
func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.authorize(req)

	return c.do(req, out)
}

func (c *Client) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		var eb errorBody
		if json.Unmarshal(data, &eb) == nil {
			apiErr.Detail = eb.Detail
		}
		return apiErr
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// IsTimeout reports whether err is a per-attempt deadline being exceeded
// rather than a hard transport or application failure.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// IsApplicationError reports whether err is a response the backend actually
// sent (non-ok status), as opposed to a network-level failure with no
// response. The distinction changes user-facing guidance.
func IsApplicationError(err error) bool {
	var ae *APIError
	return errors.As(err, &ae)
}
