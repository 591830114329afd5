// Package client implements the client side of the vault protocol: an HTTP
// client for the vault API and a Session that keeps the unlocked vault in memory.
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

	cryptoDomain "github.com/allisson/imageguard/internal/crypto/domain"
	apperrors "github.com/allisson/imageguard/internal/errors"
	"github.com/allisson/imageguard/internal/httputil"
	"github.com/allisson/imageguard/internal/vault/http/dto"
)

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 64 << 20

// APIError is a non-success response from the vault API. It unwraps to the
// domain error matching its status code, so callers can use errors.Is.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("vault api: %d %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("vault api: unexpected status %d", e.StatusCode)
}

// Unwrap maps the status code back to the domain taxonomy. Statuses outside
// the taxonomy unwrap to nil and are treated as internal failures.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusBadRequest, http.StatusRequestEntityTooLarge:
		return apperrors.ErrInvalidInput
	case http.StatusUnauthorized:
		return apperrors.ErrUnauthorized
	case http.StatusForbidden:
		return apperrors.ErrForbidden
	case http.StatusNotFound:
		return apperrors.ErrNotFound
	case http.StatusConflict:
		return apperrors.ErrConflict
	default:
		return nil
	}
}

// APIClient talks JSON over HTTP to the vault API mounted at baseURL
// (for example http://localhost:5000/api/vault).
type APIClient struct {
	client  *http.Client
	baseURL string
}

// NewAPIClient creates an APIClient. timeout bounds each request.
func NewAPIClient(baseURL string, timeout time.Duration) *APIClient {
	return &APIClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// NewAPIClientWithHTTPClient creates an APIClient using a caller supplied http.Client.
func NewAPIClientWithHTTPClient(baseURL string, httpClient *http.Client) *APIClient {
	return &APIClient{
		client:  httpClient,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Exists reports whether a vault is registered for imageHash.
func (c *APIClient) Exists(ctx context.Context, imageHash string) (bool, error) {
	var resp dto.ExistsResponse
	if err := c.do(ctx, http.MethodGet, "/"+url.PathEscape(imageHash), nil, http.StatusOK, &resp); err != nil {
		return false, err
	}
	return resp.Exists, nil
}

// Create registers a new vault.
func (c *APIClient) Create(
	ctx context.Context,
	imageHash, masterPassword string,
	pkg *cryptoDomain.EncryptedPackage,
) error {
	body := dto.CreateVaultRequest{
		ImageHash:      imageHash,
		MasterPassword: masterPassword,
		EncryptedData:  pkg.EncryptedData,
		Salt:           pkg.Salt,
		IV:             pkg.IV,
	}
	return c.do(ctx, http.MethodPost, "/create", body, http.StatusCreated, nil)
}

// Unlock asks the server to verify masterPassword and returns the stored package.
func (c *APIClient) Unlock(
	ctx context.Context,
	imageHash, masterPassword string,
) (*cryptoDomain.EncryptedPackage, error) {
	body := dto.UnlockVaultRequest{
		ImageHash:      imageHash,
		MasterPassword: masterPassword,
	}
	var resp dto.UnlockVaultResponse
	if err := c.do(ctx, http.MethodPost, "/unlock", body, http.StatusOK, &resp); err != nil {
		return nil, err
	}
	return &cryptoDomain.EncryptedPackage{
		EncryptedData: resp.EncryptedData,
		Salt:          resp.Salt,
		IV:            resp.IV,
	}, nil
}

// Update replaces the stored package of an existing vault.
func (c *APIClient) Update(
	ctx context.Context,
	imageHash, masterPassword string,
	pkg *cryptoDomain.EncryptedPackage,
) error {
	body := dto.UpdateVaultRequest{
		MasterPassword: masterPassword,
		EncryptedData:  pkg.EncryptedData,
		Salt:           pkg.Salt,
		IV:             pkg.IV,
	}
	return c.do(ctx, http.MethodPut, "/"+url.PathEscape(imageHash), body, http.StatusOK, nil)
}

func (c *APIClient) do(
	ctx context.Context,
	method, path string,
	payload any,
	wantStatus int,
	out any,
) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal payload: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != wantStatus {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var errResp httputil.ErrorResponse
		if json.Unmarshal(respBody, &errResp) == nil {
			apiErr.Code = errResp.Error
			apiErr.Message = errResp.Message
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}
