// Package figma is a thin pass-through client for the Figma REST API. It
// returns raw JSON and carries no ticketing logic.
package figma

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"event-ticketing/pkg/logger"

	"go.uber.org/zap"
)

// DefaultBaseURL is the public Figma REST endpoint.
const DefaultBaseURL = "https://api.figma.com/v1"

// ErrFetchFailed is wrapped by every non-2xx upstream response.
var ErrFetchFailed = errors.New("figma fetch failed")

// APIError carries the upstream status of a failed request.
type APIError struct {
	StatusCode int
	Status     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("figma api error: %d %s", e.StatusCode, e.Status)
}

func (e *APIError) Unwrap() error { return ErrFetchFailed }

// ImageFormat is one of the render formats accepted by the images endpoint.
type ImageFormat string

const (
	FormatJPG ImageFormat = "jpg"
	FormatPNG ImageFormat = "png"
	FormatSVG ImageFormat = "svg"
	FormatPDF ImageFormat = "pdf"
)

// ExportOptions controls image rendering. Zero values fall back to png at
// scale 2.
type ExportOptions struct {
	Format ImageFormat
	Scale  float64
}

var fileIDPattern = regexp.MustCompile(`/file/([a-zA-Z0-9]+)`)

// ExtractFileID returns the file key from a Figma file URL such as
// https://www.figma.com/file/ABC123/My-Design.
func ExtractFileID(rawURL string) (string, bool) {
	match := fileIDPattern.FindStringSubmatch(rawURL)
	if match == nil {
		return "", false
	}
	return match[1], true
}

// Client talks to the Figma API with a personal access token. It is safe for
// concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	log        *zap.Logger
}

// New constructs a Client. An empty baseURL selects DefaultBaseURL.
func New(httpClient *http.Client, baseURL, token string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		log:        logger.WithComponent("figma"),
	}
}

// GetFile fetches the complete document tree of a file.
func (c *Client) GetFile(ctx context.Context, fileID string) (json.RawMessage, error) {
	return c.get(ctx, "/files/"+url.PathEscape(fileID), nil)
}

// GetComponents lists the published components of a file.
func (c *Client) GetComponents(ctx context.Context, fileID string) (json.RawMessage, error) {
	return c.get(ctx, "/files/"+url.PathEscape(fileID)+"/components", nil)
}

// GetStyles lists the published styles of a file.
func (c *Client) GetStyles(ctx context.Context, fileID string) (json.RawMessage, error) {
	return c.get(ctx, "/files/"+url.PathEscape(fileID)+"/styles", nil)
}

// ExportImages asks Figma to render the given nodes and returns the response
// holding the download URLs.
func (c *Client) ExportImages(ctx context.Context, fileID string, nodeIDs []string, opts ExportOptions) (json.RawMessage, error) {
	if opts.Format == "" {
		opts.Format = FormatPNG
	}
	if opts.Scale <= 0 {
		opts.Scale = 2
	}
	query := url.Values{}
	query.Set("ids", strings.Join(nodeIDs, ","))
	query.Set("format", string(opts.Format))
	query.Set("scale", strconv.FormatFloat(opts.Scale, 'f', -1, 64))

	return c.get(ctx, "/images/"+url.PathEscape(fileID), query)
}

func (c *Client) get(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("X-Figma-Token", c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("could not send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Warn("figma request failed", zap.String("path", path), zap.Int("status", resp.StatusCode))
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Status:     strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode))),
		}
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("could not read response body: %w", err)
	}
	if !json.Valid(b) {
		return nil, fmt.Errorf("could not decode response: invalid json")
	}
	return json.RawMessage(b), nil
}
