package auth_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gateway.example/filter-gateway/internal/auth"
	"gateway.example/filter-gateway/pkg/logger"
)

func newTestHandler(t *testing.T) *auth.Handler {
	t.Helper()
	log, err := logger.New(logger.WithLevel("error"))
	require.NoError(t, err)
	return auth.NewHandler(newTestService(), log)
}

func postJSON(t *testing.T, handler http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/auth", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestHandlerRegister(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)
	rec := postJSON(t, h.Register, `{"username":"alice","password":"pw"}`)

	require.Equal(t, http.StatusCreated, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "alice", body["username"])
	assert.NotContains(t, body, "password")
	assert.NotContains(t, body, "passwordHash")
}

func TestHandlerRegisterConflict(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)
	require.Equal(t, http.StatusCreated, postJSON(t, h.Register, `{"username":"alice","password":"pw"}`).Code)

	rec := postJSON(t, h.Register, `{"username":"alice","password":"pw"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHandlerRegisterBadRequests(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)

	assert.Equal(t, http.StatusBadRequest, postJSON(t, h.Register, `{broken`).Code)
	assert.Equal(t, http.StatusBadRequest, postJSON(t, h.Register, `{"username":"","password":"pw"}`).Code)
	assert.Equal(t, http.StatusBadRequest, postJSON(t, h.Register, `{"username":"alice","password":""}`).Code)
}

func TestHandlerLogin(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)
	require.Equal(t, http.StatusCreated, postJSON(t, h.Register, `{"username":"alice","password":"pw"}`).Code)

	rec := postJSON(t, h.Login, `{"username":"alice","password":"pw"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body["token"])
}

func TestHandlerLoginUnauthorized(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t)
	require.Equal(t, http.StatusCreated, postJSON(t, h.Register, `{"username":"alice","password":"pw"}`).Code)

	assert.Equal(t, http.StatusUnauthorized, postJSON(t, h.Login, `{"username":"alice","password":"nope"}`).Code)
	assert.Equal(t, http.StatusUnauthorized, postJSON(t, h.Login, `{"username":"ghost","password":"pw"}`).Code)
}
