package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/mintfolio/go-marketplace/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func post(t *testing.T, path string, user *testUser, body interface{}) *http.Response {
	t.Helper()

	data, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, tc.serverURL+path, bytes.NewReader(data))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if user != nil {
		req.AddCookie(&http.Cookie{Name: auth.JWTCookieKey, Value: user.jwt})
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func get(t *testing.T, path string) *http.Response {
	t.Helper()

	resp, err := http.Get(tc.serverURL + path)
	require.NoError(t, err)
	return resp
}

func unmarshalResponse(t *testing.T, resp *http.Response, into interface{}) {
	t.Helper()

	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(into))
}

func assertErrorCode(t *testing.T, resp *http.Response, status int, code string) {
	t.Helper()

	assert.Equal(t, status, resp.StatusCode)

	errResp := struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}{}
	unmarshalResponse(t, resp, &errResp)
	assert.Equal(t, code, errResp.Code)
	assert.NotEmpty(t, errResp.Error)
}

func mintForUser(t *testing.T, user *testUser, name string) uint64 {
	t.Helper()

	resp := post(t, "/tokens/mint", user, map[string]interface{}{
		"name":        name,
		"content_uri": fmt.Sprintf("ipfs://Qm%s", name),
		"collection":  "Route Tests",
		"royalty_bps": 500,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	out := struct {
		TokenID uint64 `json:"token_id"`
	}{}
	unmarshalResponse(t, resp, &out)
	require.NotZero(t, out.TokenID)
	return out.TokenID
}

func depositForUser(t *testing.T, user *testUser, amount int64) {
	t.Helper()

	resp := post(t, "/bank/deposit", user, map[string]interface{}{"amount": amount})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}
