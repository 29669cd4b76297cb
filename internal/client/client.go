package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"restaurant-media-organizer/internal/models"
	"restaurant-media-organizer/internal/organizer"
)

// DefaultTimeout bounds every request when no timeout is configured.
const DefaultTimeout = 30 * time.Second

var _ organizer.Backend = (*Client)(nil)

// APIError is a request the API answered with an error.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// envelope is the wrapper around every API response.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
	Message string          `json:"message,omitempty"`
}

// UploadFile is one file of an upload.
type UploadFile struct {
	Name   string
	Reader io.Reader
}

// UploadResult is the API's answer to an upload.
type UploadResult struct {
	Uploaded []models.UploadedImage `json:"uploaded"`
	Count    int                    `json:"count"`
}

// Client talks to the business media API. It is the organizer's backend.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New creates a client for the API at baseURL authenticating with token.
func New(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

var (
	businessIDRule = validation.Required.Error("Business ID is required")
	folderPathRule = validation.Required.Error("Folder path is required")
	imageIDRule    = validation.Required.Error("Image ID is required")
	imageIDsRule   = validation.Required.Error("Image IDs are required")
	targetPathRule = validation.Required.Error("Target folder path is required")
)

func (c *Client) businessPath(businessID string, parts ...string) string {
	p := "/api/businesses/" + url.PathEscape(businessID)
	for _, part := range parts {
		p += "/" + part
	}
	return p
}

// GetBusiness fetches a business with its images and registered folders.
func (c *Client) GetBusiness(ctx context.Context, businessID string) (*models.Business, error) {
	if err := validation.Validate(businessID, businessIDRule); err != nil {
		return nil, err
	}
	var b models.Business
	if _, err := c.doJSON(ctx, http.MethodGet, c.businessPath(businessID), nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// DeleteBusinessImage deletes one image.
func (c *Client) DeleteBusinessImage(ctx context.Context, businessID, imageID string) error {
	if err := validation.Validate(businessID, businessIDRule); err != nil {
		return err
	}
	if err := validation.Validate(imageID, imageIDRule); err != nil {
		return err
	}
	_, err := c.doJSON(ctx, http.MethodDelete, c.businessPath(businessID, "images", url.PathEscape(imageID)), nil, nil)
	return err
}

// CreateFolder creates folderPath and reports whether the API accepted it.
func (c *Client) CreateFolder(ctx context.Context, businessID, folderPath string) (bool, error) {
	if err := validation.Validate(businessID, businessIDRule); err != nil {
		return false, err
	}
	if err := validation.Validate(folderPath, folderPathRule); err != nil {
		return false, err
	}
	body := map[string]string{"folderPath": folderPath}
	env, err := c.doJSON(ctx, http.MethodPost, c.businessPath(businessID, "folders"), body, nil)
	if err != nil {
		return false, err
	}
	return env.Success, nil
}

// RenameFolder renames oldPath to newPath and returns the updated business.
func (c *Client) RenameFolder(ctx context.Context, businessID, oldPath, newPath string) (*models.Business, error) {
	if err := validation.Validate(businessID, businessIDRule); err != nil {
		return nil, err
	}
	if err := validation.Validate(oldPath, folderPathRule); err != nil {
		return nil, err
	}
	if err := validation.Validate(newPath, folderPathRule); err != nil {
		return nil, err
	}
	body := map[string]string{"oldFolderPath": oldPath, "newFolderPath": newPath}
	var b models.Business
	if _, err := c.doJSON(ctx, http.MethodPatch, c.businessPath(businessID, "folders"), body, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// DeleteFolder deletes folderPath with everything below it and returns the
// updated business.
func (c *Client) DeleteFolder(ctx context.Context, businessID, folderPath string) (*models.Business, error) {
	if err := validation.Validate(businessID, businessIDRule); err != nil {
		return nil, err
	}
	if err := validation.Validate(folderPath, folderPathRule); err != nil {
		return nil, err
	}
	p := c.businessPath(businessID, "folders") + "?" + url.Values{"folderPath": {folderPath}}.Encode()
	var b models.Business
	if _, err := c.doJSON(ctx, http.MethodDelete, p, nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// MoveImages moves images into targetPath and returns the updated business.
func (c *Client) MoveImages(ctx context.Context, businessID string, imageIDs []string, targetPath string) (*models.Business, error) {
	if err := validation.Validate(businessID, businessIDRule); err != nil {
		return nil, err
	}
	if err := validation.Validate(imageIDs, imageIDsRule); err != nil {
		return nil, err
	}
	if err := validation.Validate(targetPath, targetPathRule); err != nil {
		return nil, err
	}
	body := map[string]interface{}{"imageIds": imageIDs, "targetFolderPath": targetPath}
	var b models.Business
	if _, err := c.doJSON(ctx, http.MethodPost, c.businessPath(businessID, "images", "move"), body, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// UploadImages uploads files into category. An empty category uploads to
// the root.
func (c *Client) UploadImages(ctx context.Context, businessID, category string, files ...UploadFile) (*UploadResult, error) {
	if err := validation.Validate(businessID, businessIDRule); err != nil {
		return nil, err
	}
	if err := validation.Validate(files, validation.Required.Error("At least one image is required")); err != nil {
		return nil, err
	}
	if category == "" {
		category = organizer.Uncategorized
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, f := range files {
		part, err := mw.CreateFormFile("images", f.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to create form file: %w", err)
		}
		if _, err := io.Copy(part, f.Reader); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", f.Name, err)
		}
	}
	if err := mw.WriteField("category", category); err != nil {
		return nil, fmt.Errorf("failed to write category: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish form: %w", err)
	}

	var result UploadResult
	if _, err := c.do(ctx, http.MethodPost, c.businessPath(businessID, "images"), &buf, mw.FormDataContentType(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Export streams the media listing of a business in format (csv or json)
// to w.
func (c *Client) Export(ctx context.Context, businessID, format string, w io.Writer) error {
	if err := validation.Validate(businessID, businessIDRule); err != nil {
		return err
	}
	if err := validation.Validate(format, validation.Required, validation.In("csv", "json")); err != nil {
		return fmt.Errorf("format: %w", err)
	}

	resp, err := c.send(ctx, http.MethodGet, c.businessPath(businessID, "export", format), nil, "")
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return apiErrorFrom(resp.StatusCode, body)
	}
	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("failed to read export: %w", err)
	}
	return nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out interface{}) (*envelope, error) {
	var (
		reader      io.Reader
		contentType string
	)
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
		contentType = "application/json"
	}
	return c.do(ctx, method, path, reader, contentType, out)
}

func (c *Client) send(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}

// do sends the request and unwraps the envelope into out. A non-2xx status
// or success=false is an *APIError.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out interface{}) (*envelope, error) {
	resp, err := c.send(ctx, method, path, body, contentType)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apiErrorFrom(resp.StatusCode, raw)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if !env.Success {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: env.message(resp.StatusCode)}
	}
	if out != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, fmt.Errorf("failed to parse response data: %w", err)
		}
	}
	return &env, nil
}

func (e *envelope) message(status int) string {
	switch {
	case e.Error != "":
		return e.Error
	case e.Message != "":
		return e.Message
	default:
		return http.StatusText(status)
	}
}

func apiErrorFrom(status int, body []byte) *APIError {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		msg := strings.TrimSpace(string(body))
		if msg == "" {
			msg = http.StatusText(status)
		}
		return &APIError{StatusCode: status, Message: msg}
	}
	return &APIError{StatusCode: status, Message: env.message(status)}
}
