package main

import (
	"context"
	"github.com/PuerkitoBio/goquery"
	"github.com/donseba/go-htmx"
	"github.com/stretchr/testify/require"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func Test_secureHeaders(t *testing.T) {
	server := startTestServer(t)
	resp, err := server.Client().Get(context.Background(), "/login")
	require.NoError(t, err)
	defer func() {
		_ = resp.Body.Close()
	}()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "deny", resp.Header.Get("X-Frame-Options"))

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	require.NoError(t, err)
	nonce, ok := doc.Find("script").Attr("nonce")
	require.True(t, ok)
	require.Len(t, nonce, cspNonceLength)
	require.True(t, strings.Contains(resp.Header.Get("Content-Security-Policy"), "'nonce-"+nonce+"'"))
}

func Test_healthy(t *testing.T) {
	server := startTestServer(t)
	resp, err := server.Client().Get(context.Background(), "/api/healthy")
	require.NoError(t, err)
	defer func() {
		_ = resp.Body.Close()
	}()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "application/json", resp.Header.Get("Content-Type"))
}

func Test_application_redirect(t *testing.T) {
	app := &application{htmx: htmx.New()} //nolint:exhaustruct // only htmx is needed.

	t.Run("plain request gets see other", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/dashboard/check", nil)
		app.redirect(w, r, "/dashboard")
		require.Equal(t, http.StatusSeeOther, w.Code)
		require.Equal(t, "/dashboard", w.Header().Get("Location"))
	})

	t.Run("htmx request gets client-side redirect", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/dashboard/check", nil)
		r.Header.Set("HX-Request", "true")
		app.redirect(w, r, "/login")
		require.Equal(t, http.StatusNoContent, w.Code)
		require.Equal(t, "/login", w.Header().Get("HX-Redirect"))
		require.Empty(t, w.Header().Get("Location"))
	})
}
