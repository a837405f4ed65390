package fakeapi_test

import (
	"bytes"
	"encoding/json"
	"github.com/myrjola/reelcheck/internal/fakeapi"
	"github.com/myrjola/reelcheck/internal/testhelpers"
	"github.com/stretchr/testify/require"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
)

func do(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, h http.Handler) string {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/api/auth/login", "",
		map[string]string{"email": "analyst@example.com", "password": "hunter2"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}

func TestServer(t *testing.T) {
	srv := fakeapi.New(testhelpers.NewLogger(os.Stderr))
	srv.AddAccount("analyst@example.com", "hunter2")
	h := srv.Handler()

	t.Run("wrong password", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/auth/login", "",
			map[string]string{"email": "analyst@example.com", "password": "nope"})
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.JSONEq(t, `{"message": "Invalid email or password"}`, rec.Body.String())
	})

	t.Run("secured routes need a token", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/api/entries/get", "", nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		rec = do(t, h, http.MethodGet, "/api/entries/get", "garbage", nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("create then list and get", func(t *testing.T) {
		token := login(t, h)
		rec := do(t, h, http.MethodGet, "/api/auth/check-login", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.JSONEq(t, `{"logged_in": true, "email": "analyst@example.com"}`, rec.Body.String())

		rec = do(t, h, http.MethodPost, "/api/entries/create", token, map[string]any{
			"insta_reel_id": "XYZ123",
			"worthy":        false,
			"response":      map[string]any{"final": map[string]string{"summary": "ok"}},
			"feedback":      map[string]int{"final_rating": 5},
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		rec = do(t, h, http.MethodGet, "/api/entries/get", token, nil)
		var list struct {
			Entries []struct {
				ID     string `json:"_id"`
				ReelID string `json:"insta_reel_id"`
			} `json:"entries"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
		require.Len(t, list.Entries, 1)
		require.Equal(t, "XYZ123", list.Entries[0].ReelID)

		rec = do(t, h, http.MethodGet, "/api/entries/get/"+list.Entries[0].ID, token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), `"user_email":"analyst@example.com"`)

		rec = do(t, h, http.MethodGet, "/api/entries/get/missing", token, nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("rotated secret invalidates tokens", func(t *testing.T) {
		token := login(t, h)
		srv.RotateSecret()
		rec := do(t, h, http.MethodGet, "/api/auth/check-login", token, nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("canned verdicts", func(t *testing.T) {
		rec := do(t, h, http.MethodPost, "/api/checkAuthenticity", "",
			map[string]string{"url": "https://instagram.com/reel/not-worthy/", "log": "True"})
		require.Equal(t, http.StatusOK, rec.Code)
		require.JSONEq(t, fakeapi.NotWorthyResponse, rec.Body.String())

		rec = do(t, h, http.MethodPost, "/api/checkAuthenticity", "",
			map[string]string{"url": "https://instagram.com/reel/fail/", "log": "True"})
		require.Equal(t, http.StatusBadGateway, rec.Code)

		require.Equal(t, 2, srv.Calls(fakeapi.RouteCheck))
		require.Equal(t, []string{"https://instagram.com/reel/not-worthy/", "https://instagram.com/reel/fail/"},
			srv.CheckedURLs())
	})
}
