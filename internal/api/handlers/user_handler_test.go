package handlers_test

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/mserrato/accounts-be/internal/api"
	"github.com/mserrato/accounts-be/internal/auth"
	"github.com/mserrato/accounts-be/internal/database"
	"github.com/mserrato/accounts-be/internal/services"
)

const testServiceToken = "svc-secret"

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { db.Close() })

	tokens, err := auth.NewTokenManager("handler-secret", time.Hour)
	require.NoError(t, err)
	serviceTokens, err := auth.NewStaticTokenVerifier(testServiceToken)
	require.NoError(t, err)

	userService := services.NewUserService(db, auth.NewPasswordHasher(), tokens)
	eventService := services.NewEventService(db)

	srv := httptest.NewServer(api.NewRouter(tokens, serviceTokens, userService, eventService))
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestUserCreate_ThenDuplicate(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	url := srv.URL + "/api/v1/users/create"

	resp := postJSON(t, url, `{"email":"a@b.com","password":"secret1"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.NotEmpty(t, body["id"])
	assert.Equal(t, "a@b.com", body["email"])
	assert.NotContains(t, body, "password")

	resp = postJSON(t, url, `{"email":"a@b.com","password":"secret1"}`)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	body = decodeBody(t, resp)
	assert.Equal(t, "CONFLICT_ERROR", body["code"])
}

func TestUserCreate_ValidationError(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/v1/users/create", `{"email":"not-an-email","password":"123"}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "VALIDATION_ERROR", body["code"])
	details, ok := body["details"].([]interface{})
	require.True(t, ok)
	assert.Len(t, details, 2)
}

func TestUserAuthenticate(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	resp := postJSON(t, srv.URL+"/api/v1/users/create", `{"email":"a@b.com","password":"secret1"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	authURL := srv.URL + "/api/v1/users/authenticate"

	t.Run("success returns user and token", func(t *testing.T) {
		resp := postJSON(t, authURL, `{"email":"a@b.com","password":"secret1"}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.NotEmpty(t, body["token"])
		user, ok := body["user"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "a@b.com", user["email"])
		assert.NotContains(t, user, "passwordHash")
	})

	t.Run("wrong password is 400", func(t *testing.T) {
		resp := postJSON(t, authURL, `{"email":"a@b.com","password":"wrong"}`)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, "BAD_REQUEST_ERROR", body["code"])
		assert.Equal(t, "Invalid email or password", body["error"])
	})

	t.Run("unknown email is 404", func(t *testing.T) {
		resp := postJSON(t, authURL, `{"email":"nobody@x.com","password":"x"}`)
		require.Equal(t, http.StatusNotFound, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, "NOT_FOUND_ERROR", body["code"])
	})
}

func TestUserMe(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	resp := postJSON(t, srv.URL+"/api/v1/users/create", `{"email":"a@b.com","password":"secret1"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = postJSON(t, srv.URL+"/api/v1/users/authenticate", `{"email":"a@b.com","password":"secret1"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token, _ := decodeBody(t, resp)["token"].(string)
	require.NotEmpty(t, token)

	t.Run("without token", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/api/v1/users/me")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("with token", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/v1/users/me", nil)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, "a@b.com", body["email"])
	})
}

func TestInternalRoutes_ServiceGate(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	resp := postJSON(t, srv.URL+"/api/v1/users/create", `{"email":"a@b.com","password":"secret1"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	get := func(t *testing.T, path, token string) *http.Response {
		t.Helper()
		req, err := http.NewRequest(http.MethodGet, srv.URL+path, nil)
		require.NoError(t, err)
		if token != "" {
			req.Header.Set("x-token", token)
		}
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		t.Cleanup(func() { resp.Body.Close() })
		return resp
	}

	t.Run("events without token", func(t *testing.T) {
		resp := get(t, "/api/v1/internal/events", "")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("events with wrong token", func(t *testing.T) {
		resp := get(t, "/api/v1/internal/events", "nope")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("events with token", func(t *testing.T) {
		resp := get(t, "/api/v1/internal/events", testServiceToken)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var events []map[string]interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&events))
		require.NotEmpty(t, events, "registration should have recorded an audit event")
		assert.Equal(t, "user.registered", events[0]["type"])
	})

	t.Run("status with token", func(t *testing.T) {
		resp := get(t, "/api/v1/internal/status", testServiceToken)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
