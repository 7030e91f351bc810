package client

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/magicletters/internal/client/models"
	"github.com/dmitrijs2005/magicletters/internal/netx"
	"github.com/go-playground/form/v4"
	"github.com/golang-jwt/jwt/v5"
	"github.com/qri-io/jsonschema"
)

//go:embed assigned_letters.schema.json
var assignedSchema []byte

const (
	DefaultPullPath = "/get_assigned_letters.php"
	DefaultPushPath = "/upload_letter_data.php"
	DefaultTimeout  = 30 * time.Second

	maxBody  = 8 << 20
	tokenTTL = 5 * time.Minute
)

type HTTPClient struct {
	baseURL  string
	pullPath string
	pushPath string
	secret   []byte
	http     *http.Client
	encoder  *form.Encoder
	schema   *jsonschema.Schema
}

type Option func(*HTTPClient)

// WithTimeout bounds every request, including reading the response.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) { c.http.Timeout = d }
}

func WithPaths(pull, push string) Option {
	return func(c *HTTPClient) {
		if pull != "" {
			c.pullPath = pull
		}
		if push != "" {
			c.pushPath = push
		}
	}
}

// WithSecret enables HS256 bearer tokens signed with secret.
func WithSecret(secret string) Option {
	return func(c *HTTPClient) { c.secret = []byte(secret) }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.http = hc }
}

func NewHTTPClient(baseURL string, opts ...Option) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid server url %q", baseURL)
	}

	schema := &jsonschema.Schema{}
	if err := json.Unmarshal(assignedSchema, schema); err != nil {
		return nil, fmt.Errorf("load response schema: %w", err)
	}

	c := &HTTPClient{
		baseURL:  strings.TrimRight(baseURL, "/"),
		pullPath: DefaultPullPath,
		pushPath: DefaultPushPath,
		http:     &http.Client{Timeout: DefaultTimeout},
		encoder:  form.NewEncoder(),
		schema:   schema,
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

type pullQuery struct {
	Phone string `form:"phone"`
}

type uploadFields struct {
	ServerID string `form:"server_id"`
	Message  string `form:"message"`
}

func (c *HTTPClient) FetchAssigned(ctx context.Context, phone string) ([]models.RemoteLetter, error) {
	q, err := c.encoder.Encode(pullQuery{Phone: phone})
	if err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+c.pullPath+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	body, err := c.do(req, phone)
	if err != nil {
		return nil, err
	}

	if err := c.validateAssigned(ctx, body); err != nil {
		return nil, err
	}

	var out []models.RemoteLetter
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("%w: decode letters: %v", ErrBadResponse, err)
	}
	if out == nil {
		out = []models.RemoteLetter{}
	}
	return out, nil
}

// validateAssigned accepts only a JSON array of records. An object carrying
// an "error" field is the server's failure signal, not an empty list.
func (c *HTTPClient) validateAssigned(ctx context.Context, body []byte) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var e struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(trimmed, &e); err == nil && e.Error != "" {
			return fmt.Errorf("%w: server error: %s", ErrBadResponse, e.Error)
		}
	}

	keyErrs, err := c.schema.ValidateBytes(ctx, trimmed)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	if len(keyErrs) > 0 {
		return fmt.Errorf("%w: %s", ErrBadResponse, keyErrs[0].Error())
	}
	return nil
}

func (c *HTTPClient) UploadLetter(ctx context.Context, up models.Upload) error {
	fields, err := c.encoder.Encode(uploadFields{ServerID: up.ServerID, Message: up.Message})
	if err != nil {
		return fmt.Errorf("encode fields: %w", err)
	}
	if _, ok := fields["message"]; !ok {
		fields.Set("message", "")
	}

	var files []netx.FilePart
	if up.Drawing != nil {
		files = append(files, filePart(*up.Drawing))
	}
	for _, p := range up.Photos {
		files = append(files, filePart(p))
	}

	body, contentType, err := netx.BuildMultipart(fields, files)
	if err != nil {
		return fmt.Errorf("build upload for %s: %w", up.LocalID, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+c.pushPath, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.do(req, up.OwnerPhone)
	if err != nil {
		return err
	}

	var ack struct {
		Success any    `json:"success"`
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(resp, &ack); err != nil {
		return fmt.Errorf("%w: decode upload response: %v", ErrBadResponse, err)
	}
	if !truthy(ack.Success) {
		reason := ack.Error
		if reason == "" {
			reason = ack.Message
		}
		return fmt.Errorf("%w: %s", ErrUploadRejected, reason)
	}
	return nil
}

func filePart(f models.UploadFile) netx.FilePart {
	return netx.FilePart{Field: f.Field, Path: f.Path, Name: f.Name, Data: f.Data, ContentType: f.ContentType}
}

// truthy mirrors how the server's PHP side reports success: true, 1 or "1".
func truthy(v any) bool {
	switch s := v.(type) {
	case bool:
		return s
	case float64:
		return s != 0
	case string:
		return s == "1" || strings.EqualFold(s, "true")
	}
	return false
}

// do sends req and returns the body of a 2xx response, mapping failures to
// the package's sentinel errors.
func (c *HTTPClient) do(req *http.Request, subject string) ([]byte, error) {
	if len(c.secret) > 0 {
		token, err := c.token(subject)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if netx.IsTimeout(err) {
			return nil, fmt.Errorf("%w: timeout: %w", ErrUnavailable, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := netx.ReadBody(resp, maxBody)
	var se *netx.StatusError
	switch {
	case errors.As(err, &se) && (se.Code == http.StatusUnauthorized || se.Code == http.StatusForbidden):
		return nil, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	case se != nil:
		return nil, fmt.Errorf("%w: %w", ErrBadResponse, err)
	case err != nil:
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return body, nil
}

func (c *HTTPClient) token(subject string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
