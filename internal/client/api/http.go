package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gymnastic-app/gymcli/internal/client/models"
)

// TokenSource supplies the current bearer token, or "" when the session is
// unauthenticated. The gateway reads it per request so a logout in another
// process is picked up immediately.
type TokenSource func(ctx context.Context) (string, error)

// HTTPClient implements Client over the JSON/REST endpoints of the backend.
type HTTPClient struct {
	baseURL string
	hc      *http.Client
	tokens  TokenSource
}

// NewHTTPClient builds a gateway for the API at baseURL. The timeout is the
// ceiling for every request; a zero value falls back to 15 seconds so a hung
// server can never wedge the UI forever.
func NewHTTPClient(baseURL string, timeout time.Duration, tokens TokenSource) *HTTPClient {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{Timeout: timeout},
		tokens:  tokens,
	}
}

func (c *HTTPClient) Close() error {
	c.hc.CloseIdleConnections()
	return nil
}

// newRequest builds a request with the common headers. A token is attached
// as "Authorization: Bearer <token>" only when one is present; an absent
// token means no Authorization header at all.
func (c *HTTPClient) newRequest(ctx context.Context, method, path, contentType string, body io.Reader) (*http.Request, error) {
	endpoint, err := url.JoinPath(c.baseURL, path)
	if err != nil {
		return nil, fmt.Errorf("failed to build url for %s: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, err
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("X-Request-Id", uuid.NewString())

	if c.tokens != nil {
		token, err := c.tokens(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to read token: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	return req, nil
}

// doJSON sends a JSON request and decodes a JSON response into out (which
// may be nil). Non-2xx responses are turned into sentinel errors carrying
// the server's detail text.
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	contentType := ""
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
		contentType = "application/json"
	}

	req, err := c.newRequest(ctx, method, path, contentType, reader)
	if err != nil {
		return err
	}

	return c.send(req, out)
}

func (c *HTTPClient) send(req *http.Request, out any) error {
	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return mapError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// apiError is the JSON error body shape: the backend reports failures in a
// "detail" field, older handlers in "message".
type apiError struct {
	Detail  string `json:"detail"`
	Message string `json:"message"`
}

func (e apiError) text() string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.Message
}

// mapError classifies a non-2xx response. The server's detail text is
// surfaced verbatim when present, with a generic fallback otherwise.
func mapError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var body apiError
	_ = json.Unmarshal(raw, &body)

	msg := body.text()
	if msg == "" {
		msg = fmt.Sprintf("unexpected response: %s", resp.Status)
	}

	var sentinel error
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		sentinel = ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		sentinel = ErrNotFound
	case resp.StatusCode >= 500:
		sentinel = ErrServer
	default:
		sentinel = ErrValidation
	}

	return fmt.Errorf("%w: %s", sentinel, msg)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"contrasena"`
}

// Login exchanges credentials for a token and the user record. A 401 is
// reported as ErrInvalidCredentials, keeping the server's own wording.
func (c *HTTPClient) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	err := c.doJSON(ctx, http.MethodPost, "/login", loginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			msg := strings.TrimPrefix(err.Error(), ErrUnauthorized.Error()+": ")
			return nil, fmt.Errorf("%w: %s", ErrInvalidCredentials, msg)
		}
		return nil, err
	}
	return &resp, nil
}

type registerResponse struct {
	Message string `json:"message"`
	Mensaje string `json:"mensaje"`
}

// Register creates an account and returns the server's confirmation text.
func (c *HTTPClient) Register(ctx context.Context, reqBody RegisterRequest) (string, error) {
	if reqBody.Role == "" {
		reqBody.Role = "usuario"
	}

	var resp registerResponse
	if err := c.doJSON(ctx, http.MethodPost, "/registro", reqBody, &resp); err != nil {
		return "", err
	}

	msg := resp.Message
	if msg == "" {
		msg = resp.Mensaje
	}
	if msg == "" {
		msg = "registered"
	}
	return msg, nil
}

// userEnvelope matches GET /usuarios/{id}, which wraps the record in a
// "usuario" field.
type userEnvelope struct {
	User models.User `json:"usuario"`
}

func (c *HTTPClient) GetUser(ctx context.Context, userID string) (*models.User, error) {
	var resp userEnvelope
	if err := c.doJSON(ctx, http.MethodGet, "/usuarios/"+userID, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

type usersEnvelope struct {
	Users []models.User `json:"usuarios"`
}

// ListUsers fetches every registered account. Admin-only on the server.
func (c *HTTPClient) ListUsers(ctx context.Context) ([]models.User, error) {
	var resp usersEnvelope
	if err := c.doJSON(ctx, http.MethodGet, "/usuarios/registrados", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Users, nil
}

func (c *HTTPClient) UpdateUser(ctx context.Context, userID string, patch UserPatch) (*models.User, error) {
	if patch.IsEmpty() {
		return nil, fmt.Errorf("%w: no fields to update", ErrValidation)
	}

	var resp models.User
	if err := c.doJSON(ctx, http.MethodPut, "/usuario/"+userID, patch, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

type verifyPasswordRequest struct {
	Password string `json:"contrasena"`
}

type verifyPasswordResponse struct {
	Valid bool `json:"valid"`
}

func (c *HTTPClient) VerifyPassword(ctx context.Context, userID, password string) (bool, error) {
	var resp verifyPasswordResponse
	err := c.doJSON(ctx, http.MethodPost, "/usuario/"+userID+"/verify-password", verifyPasswordRequest{Password: password}, &resp)
	if err != nil {
		return false, err
	}
	return resp.Valid, nil
}

func (c *HTTPClient) DeleteUser(ctx context.Context, userID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/usuarios/"+userID, nil, nil)
}

type uploadResponse struct {
	Path string `json:"ruta"`
}

// UploadProfileImage sends the image as a multipart "file" part and returns
// the server-relative path of the stored image. Callers compose the
// renderable URL themselves.
func (c *HTTPClient) UploadProfileImage(ctx context.Context, userID, filename string, image []byte) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("failed to build multipart body: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return "", fmt.Errorf("failed to write image data: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("failed to finish multipart body: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/usuario/"+userID+"/imagen_perfil", mw.FormDataContentType(), &buf)
	if err != nil {
		return "", err
	}

	var resp uploadResponse
	if err := c.send(req, &resp); err != nil {
		return "", err
	}
	return resp.Path, nil
}

type classesEnvelope struct {
	Classes []models.Class `json:"clases"`
}

func (c *HTTPClient) Classes(ctx context.Context) ([]models.Class, error) {
	var resp classesEnvelope
	if err := c.doJSON(ctx, http.MethodGet, "/clase", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Classes, nil
}

type scheduledClassesEnvelope struct {
	Classes []models.ScheduledClass `json:"clases"`
}

func (c *HTTPClient) ScheduledClasses(ctx context.Context) ([]models.ScheduledClass, error) {
	var resp scheduledClassesEnvelope
	if err := c.doJSON(ctx, http.MethodGet, "/clasesProgramadas", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Classes, nil
}

func (c *HTTPClient) ScheduleClass(ctx context.Context, class models.ScheduledClass) error {
	return c.doJSON(ctx, http.MethodPost, "/clasesProgramadas", class, nil)
}

type healthResponse struct {
	Status string `json:"status"`
}

// Ping probes the API health endpoint.
func (c *HTTPClient) Ping(ctx context.Context) error {
	var resp healthResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/health", nil, &resp); err != nil {
		return err
	}
	if resp.Status != "" && !strings.EqualFold(resp.Status, "ok") {
		return fmt.Errorf("%w: health status %q", ErrUnavailable, resp.Status)
	}
	return nil
}
