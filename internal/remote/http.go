package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/pocketorg/organizer/internal/model"
)

// claims mirrors the token payload issued by the sync server.
type claims struct {
	jwt.RegisteredClaims
	UserID string
	Login  string
}

// HTTPRemote talks JSON over HTTP to the PocketOrg sync server. It keeps the
// bearer token for the current identity and derives the Session from the
// token claims, so GetSession works without a round trip.
type HTTPRemote struct {
	baseURL string
	client  *http.Client

	mu        sync.RWMutex
	token     string
	callbacks []func(*Session)
}

func NewHTTPRemote(baseURL string) *HTTPRemote {
	return &HTTPRemote{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// Token returns the current bearer token, empty when logged out. Callers may
// persist it and restore it later with SetToken.
func (r *HTTPRemote) Token() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.token
}

// SetToken installs a bearer token (for example one restored from disk) and
// notifies auth-state subscribers with the resulting session.
func (r *HTTPRemote) SetToken(token string) {
	r.mu.Lock()
	r.token = token
	callbacks := append(([]func(*Session))(nil), r.callbacks...)
	r.mu.Unlock()

	session := sessionFromToken(token)
	for _, fn := range callbacks {
		fn(session)
	}
}

// Logout drops the token and notifies subscribers with a nil session.
func (r *HTTPRemote) Logout() {
	r.SetToken("")
}

func (r *HTTPRemote) OnAuthStateChange(fn func(*Session)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.callbacks = append(r.callbacks, fn)
}

func (r *HTTPRemote) GetSession(ctx context.Context) (*Session, error) {
	return sessionFromToken(r.Token()), nil
}

// sessionFromToken parses the token claims without verifying the signature:
// the server verified it when issuing, and the client only needs the
// identity for attribution. Expired tokens yield no session.
func sessionFromToken(token string) *Session {
	if token == "" {
		return nil
	}
	c := &claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, c); err != nil {
		return nil
	}
	if c.ExpiresAt != nil && c.ExpiresAt.Before(time.Now()) {
		return nil
	}
	if c.UserID == "" {
		return nil
	}
	return &Session{UserID: c.UserID, Login: c.Login}
}

type credentialsRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// Register creates an account and installs the returned token.
func (r *HTTPRemote) Register(ctx context.Context, login, password string) error {
	return r.authenticate(ctx, "/api/register", login, password)
}

// Login exchanges credentials for a token and installs it.
func (r *HTTPRemote) Login(ctx context.Context, login, password string) error {
	return r.authenticate(ctx, "/api/login", login, password)
}

func (r *HTTPRemote) authenticate(ctx context.Context, path, login, password string) error {
	var resp tokenResponse
	err := r.doJSON(ctx, http.MethodPost, path, credentialsRequest{Login: login, Password: password}, &resp)
	if err != nil {
		return err
	}
	r.SetToken(resp.Token)
	return nil
}

func (r *HTTPRemote) Ping(ctx context.Context) error {
	return r.doJSON(ctx, http.MethodGet, "/api/health", nil, nil)
}

type pullResponse struct {
	Changes map[model.Entity][]model.Record `json:"changes"`
}

func (r *HTTPRemote) PullChanges(ctx context.Context, since int64) (map[model.Entity][]model.Record, error) {
	var resp pullResponse
	path := "/api/sync/pull?since=" + strconv.FormatInt(since, 10)
	if err := r.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	if len(resp.Changes) == 0 {
		return nil, nil
	}
	return resp.Changes, nil
}

type pushRequest struct {
	Ops []model.QueueRecord `json:"ops"`
}

func (r *HTTPRemote) PushOps(ctx context.Context, batch []model.QueueRecord) error {
	return r.doJSON(ctx, http.MethodPost, "/api/sync/push", pushRequest{Ops: batch}, nil)
}

type presignPutResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// PresignAttachmentPut asks the server for a presigned upload slot for a
// receipt attachment.
func (r *HTTPRemote) PresignAttachmentPut(ctx context.Context) (key, url string, err error) {
	var resp presignPutResponse
	if err := r.doJSON(ctx, http.MethodPost, "/api/attachments/presign-put", nil, &resp); err != nil {
		return "", "", err
	}
	return resp.Key, resp.URL, nil
}

type presignGetResponse struct {
	URL string `json:"url"`
}

// PresignAttachmentGet asks the server for a presigned download URL for a
// previously uploaded attachment.
func (r *HTTPRemote) PresignAttachmentGet(ctx context.Context, key string) (string, error) {
	var resp presignGetResponse
	path := "/api/attachments/presign-get?key=" + key
	if err := r.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return "", err
	}
	return resp.URL, nil
}

// doJSON performs one request, mapping transport failures to ErrUnavailable
// and 401 responses to ErrUnauthorized.
func (r *HTTPRemote) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token := r.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.StatusCode >= 300:
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected status %s: %s", resp.Status, string(data))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
