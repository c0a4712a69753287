package main

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"github.com/sushihentaime/bloglist/internal/blogservice"
	"github.com/sushihentaime/bloglist/internal/commentservice"
	"github.com/sushihentaime/bloglist/internal/common"
	"github.com/sushihentaime/bloglist/internal/userservice"
)

type testServer struct {
	*httptest.Server
}

func newTestServer(t *testing.T, h http.Handler) *testServer {
	ts := httptest.NewServer(h)

	t.Cleanup(ts.Close)

	return &testServer{ts}
}

func newTestConfig() *Config {
	return &Config{
		Port:           ":3003",
		Environment:    "testing",
		Version:        "1.0.0",
		TrustedOrigins: []string{"http://localhost:5173"},
		JWTSecret:      "test-secret",
		JWTTTL:         time.Hour,
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestApplication wires the services against a throwaway Postgres and RabbitMQ.
func newTestApplication(t *testing.T) (*application, *sql.DB) {
	db := common.TestDB("file://../migrations", t)
	logger := discardLogger()

	broker, err := common.NewMessageBroker(common.TestRabbitMQ(t))
	require.NoError(t, err)
	t.Cleanup(func() { broker.Close() })

	err = common.SetupBlogExchange(broker)
	require.NoError(t, err)

	cfg := newTestConfig()
	cache := common.NewCache(5*time.Minute, 10*time.Minute)

	app := &application{
		config:         cfg,
		logger:         logger,
		userService:    userservice.NewUserService(db, cache, []byte(cfg.JWTSecret), cfg.JWTTTL),
		blogService:    blogservice.NewBlogService(db, cache),
		commentService: commentservice.NewCommentService(db, broker, logger),
		broker:         broker,
	}

	return app, db
}

func (ts *testServer) do(t *testing.T, method, path string, token string, payload any) (int, http.Header, []byte) {
	var body io.Reader
	if payload != nil {
		jsonPayload, err := json.Marshal(payload)
		if err != nil {
			t.Fatal(err)
		}
		body = bytes.NewReader(jsonPayload)
	}

	req, err := http.NewRequest(method, ts.URL+path, body)
	if err != nil {
		t.Fatal(err)
	}

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
	}

	res, err := ts.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer res.Body.Close()

	responseBody, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatal(err)
	}

	return res.StatusCode, res.Header, responseBody
}

func (ts *testServer) get(t *testing.T, path string, token string) (int, []byte) {
	status, _, body := ts.do(t, http.MethodGet, path, token, nil)
	return status, body
}

func (ts *testServer) post(t *testing.T, path string, token string, payload any) (int, []byte) {
	status, _, body := ts.do(t, http.MethodPost, path, token, payload)
	return status, body
}

func (ts *testServer) put(t *testing.T, path string, token string, payload any) (int, []byte) {
	status, _, body := ts.do(t, http.MethodPut, path, token, payload)
	return status, body
}

func (ts *testServer) delete(t *testing.T, path string, token string) (int, []byte) {
	status, _, body := ts.do(t, http.MethodDelete, path, token, nil)
	return status, body
}

// decode unmarshals a response body into dst and fails the test on error.
func decode[T any](t *testing.T, body []byte) T {
	var dst T
	err := json.Unmarshal(body, &dst)
	if err != nil {
		t.Fatalf("could not decode %q: %v", body, err)
	}
	return dst
}

func errorMessage(t *testing.T, body []byte) string {
	return decode[envelope](t, body)["error"].(string)
}

// signedToken returns an HS256 token for a random user id that expires ttl from now.
func signedToken(t *testing.T, secret []byte, ttl time.Duration) string {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":       common.NewID(),
		"username": "ghost",
		"iat":      now.Unix(),
		"exp":      now.Add(ttl).Unix(),
	})

	tokenString, err := token.SignedString(secret)
	require.NoError(t, err)

	return tokenString
}
