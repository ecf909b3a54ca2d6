package integration

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"chatroom-be/internal/bootstrap"
	"chatroom-be/internal/config"
	"chatroom-be/internal/pkg/serverutils"
	"chatroom-be/internal/server"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope = serverutils.BaseResponse[json.RawMessage]

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	// No external backends in the suite.
	t.Setenv("SNAPSHOT_PROVIDER", "none")
	t.Setenv("NATS_URL", "")
	t.Setenv("HASH_ITERATIONS", "64")
	t.Setenv("LOG_FILE_PATH", t.TempDir()+"/app.log")

	cfg := config.Load()
	container := bootstrap.NewContainer(cfg)
	srv := server.New(cfg, container)
	return srv.GetApp()
}

func postJSON(t *testing.T, app *fiber.App, path, token string, body interface{}) (*envelope, int) {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return &env, resp.StatusCode
}

func getJSON(t *testing.T, app *fiber.App, path, token string) (*envelope, int) {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return &env, resp.StatusCode
}

func TestChatFlow(t *testing.T) {
	app := newTestApp(t)

	// 1. Register
	env, status := postJSON(t, app, "/api/auth/register", "", map[string]string{
		"username":     "alice",
		"password":     "secret1",
		"display_name": "Alice",
	})
	require.Equal(t, 200, status)
	require.True(t, env.Success)

	// Duplicate registration is rejected.
	env, status = postJSON(t, app, "/api/auth/register", "", map[string]string{
		"username": "ALICE",
		"password": "secret1",
	})
	require.Equal(t, 400, status)
	assert.False(t, env.Success)

	// 2. Login
	env, status = postJSON(t, app, "/api/auth/login", "", map[string]string{
		"username": "alice",
		"password": "secret1",
	})
	require.Equal(t, 200, status)
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &login))
	require.NotEmpty(t, login.Token)

	// 3. Send a message
	env, status = postJSON(t, app, "/api/chat/send", login.Token, map[string]string{
		"text": "hello world",
	})
	require.Equal(t, 200, status)
	var sent struct {
		MessageId int64 `json:"message_id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &sent))
	assert.Equal(t, int64(1), sent.MessageId)

	// 4. Poll it back
	env, status = getJSON(t, app, "/api/chat/messages?since=0", login.Token)
	require.Equal(t, 200, status)
	var poll struct {
		Messages []struct {
			Id          int64  `json:"id"`
			Text        string `json:"text"`
			DisplayName string `json:"display_name"`
		} `json:"messages"`
		LastId       int64 `json:"lastId"`
		MessageCount int   `json:"messageCount"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &poll))
	require.Len(t, poll.Messages, 1)
	assert.Equal(t, "hello world", poll.Messages[0].Text)
	assert.Equal(t, "Alice", poll.Messages[0].DisplayName)
	assert.Equal(t, int64(1), poll.LastId)
	assert.Equal(t, 1, poll.MessageCount)

	// 5. The sender shows up as online
	env, status = getJSON(t, app, "/api/presence/online", login.Token)
	require.Equal(t, 200, status)
	var online struct {
		Users []struct {
			Username string `json:"username"`
		} `json:"users"`
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &online))
	require.Equal(t, 1, online.Count)
	assert.Equal(t, "alice", online.Users[0].Username)

	// 6. Logout, then the old token is dead
	_, status = postJSON(t, app, "/api/auth/logout", login.Token, map[string]string{})
	require.Equal(t, 200, status)

	env, status = postJSON(t, app, "/api/chat/send", login.Token, map[string]string{
		"text": "should fail",
	})
	assert.Equal(t, 401, status)
	assert.False(t, env.Success)
}

func TestAuthGuard(t *testing.T) {
	app := newTestApp(t)

	// No token at all.
	env, status := postJSON(t, app, "/api/chat/send", "", map[string]string{"text": "hi"})
	assert.Equal(t, 401, status)
	assert.False(t, env.Success)

	// A made-up token.
	env, status = getJSON(t, app, "/api/presence/online", "0123456789abcdef")
	assert.Equal(t, 401, status)
	assert.False(t, env.Success)
}

func TestTypingIndicator(t *testing.T) {
	app := newTestApp(t)

	tokens := make(map[string]string)
	for _, name := range []string{"alice", "bob"} {
		_, status := postJSON(t, app, "/api/auth/register", "", map[string]string{
			"username": name,
			"password": "secret1",
		})
		require.Equal(t, 200, status)

		env, status := postJSON(t, app, "/api/auth/login", "", map[string]string{
			"username": name,
			"password": "secret1",
		})
		require.Equal(t, 200, status)
		var login struct {
			Token string `json:"token"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &login))
		tokens[name] = login.Token
	}

	_, status := postJSON(t, app, "/api/presence/typing", tokens["bob"], map[string]bool{"typing": true})
	require.Equal(t, 200, status)

	// Alice sees bob typing; bob does not see himself.
	for name, wantCount := range map[string]int{"alice": 1, "bob": 0} {
		env, status := getJSON(t, app, "/api/presence/typing", tokens[name])
		require.Equal(t, 200, status)
		var typing struct {
			Count int `json:"count"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &typing))
		assert.Equal(t, wantCount, typing.Count, "viewer %s", name)
	}

	_, status = postJSON(t, app, "/api/presence/typing", tokens["bob"], map[string]bool{"typing": false})
	require.Equal(t, 200, status)

	env, status := getJSON(t, app, "/api/presence/typing", tokens["alice"])
	require.Equal(t, 200, status)
	var typing struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &typing))
	assert.Equal(t, 0, typing.Count)
}

func TestRouterErrorsKeepTheirStatus(t *testing.T) {
	app := newTestApp(t)

	// Unknown route: the router's 404 must survive the error middleware.
	req := httptest.NewRequest("GET", "/api/nope", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, 404, resp.StatusCode)

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	assert.False(t, env.Success)
	assert.Equal(t, 404, env.Code)
}

func TestStatusEndpoint(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest("GET", "/api/status", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, 200, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "online", body["status"])
	assert.EqualValues(t, 0, body["total_messages"])
}
