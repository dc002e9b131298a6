package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pocketorg/organizer/internal/blob"
	"github.com/pocketorg/organizer/internal/engine"
	"github.com/pocketorg/organizer/internal/remote"
)

func stubInputs(t *testing.T, login, password string) {
	t.Helper()
	origST, origGP := getSimpleText, getPassword
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) { return login, nil }
	getPassword = func(_ io.Writer) (string, error) { return password, nil }
	t.Cleanup(func() {
		getSimpleText = origST
		getPassword = origGP
	})
}

func signedToken(t *testing.T, userID, login string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"UserID": userID,
		"Login":  login,
		"exp":    time.Now().Add(time.Hour).Unix(),
	})
	s, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

// authServer fakes the sync server's auth and sync endpoints so the whole
// login flow (token install, guest migration, background sync) can run
// against it.
type authServer struct {
	*httptest.Server

	mu        sync.Mutex
	regLogins []string
	loginErr  int // status to return from /api/login, 0 means success
}

func newAuthServer(t *testing.T) *authServer {
	t.Helper()
	s := &authServer{}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/api/register", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Login string `json:"login"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		s.mu.Lock()
		s.regLogins = append(s.regLogins, req.Login)
		s.mu.Unlock()
		_ = json.NewEncoder(w).Encode(map[string]string{"token": signedToken(t, "user-1", req.Login)})
	})
	mux.HandleFunc("/api/login", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		status := s.loginErr
		s.mu.Unlock()
		if status != 0 {
			w.WriteHeader(status)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"token": signedToken(t, "user-1", "alice")})
	})
	mux.HandleFunc("/api/sync/push", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/api/sync/pull", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"changes": map[string]any{}})
	})

	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

func newTestApp(t *testing.T, serverURL string) *App {
	t.Helper()
	rm := remote.NewHTTPRemote(serverURL)
	eng, err := engine.Open(context.Background(), engine.Config{
		Blobs:  blob.NewMemoryStore(),
		Remote: rm,
	})
	require.NoError(t, err)
	return &App{engine: eng, remote: rm, reader: bufio.NewReader(strings.NewReader(""))}
}

func TestRegister_Success(t *testing.T) {
	srv := newAuthServer(t)
	a := newTestApp(t, srv.URL)
	stubInputs(t, "alice", "secret-password")

	err := a.Register(context.Background())
	require.NoError(t, err)

	srv.mu.Lock()
	logins := append([]string(nil), srv.regLogins...)
	srv.mu.Unlock()
	require.Equal(t, []string{"alice"}, logins)

	assert.True(t, a.isLoggedIn())
	// fresh local data gets attributed to the new account right away
	assert.False(t, a.engine.GuestMode())
}

func TestLogin_InvalidCredentials(t *testing.T) {
	srv := newAuthServer(t)
	srv.loginErr = http.StatusUnauthorized
	a := newTestApp(t, srv.URL)
	stubInputs(t, "alice", "wrong")

	err := a.Login(context.Background())
	require.Error(t, err)
	assert.False(t, a.isLoggedIn())
}

func TestLogout(t *testing.T) {
	srv := newAuthServer(t)
	a := newTestApp(t, srv.URL)
	stubInputs(t, "alice", "secret-password")

	require.NoError(t, a.Login(context.Background()))
	require.True(t, a.isLoggedIn())

	require.NoError(t, a.Logout(context.Background()))
	assert.False(t, a.isLoggedIn())
}

func TestGetStatus(t *testing.T) {
	srv := newAuthServer(t)
	a := newTestApp(t, srv.URL)

	assert.Equal(t, "(guest)", a.getStatus())

	stubInputs(t, "alice", "secret-password")
	require.NoError(t, a.Login(context.Background()))
	assert.Contains(t, a.getStatus(), "alice")
}
