package main

import (
	"context"
	"github.com/myrjola/reelcheck/internal/fakeapi"
	"github.com/stretchr/testify/require"
	"net/http"
	"net/url"
	"testing"
)

func Test_application_root(t *testing.T) {
	server := startTestServer(t)
	ctx := context.Background()
	client := server.Client()

	doc, err := client.GetDoc(ctx, "/")
	require.NoError(t, err)
	require.Equal(t, 1, doc.Find("form[action='/login']").Length(), "anonymous visitors land on the login page")
	require.Zero(t, server.api.Calls(fakeapi.RouteCheckLogin), "no token means no session check")

	server.login(t)
	doc, err = client.GetDoc(ctx, "/")
	require.NoError(t, err)
	require.Equal(t, 1, doc.Find("form[action='/dashboard/check']").Length(), "valid sessions land on the dashboard")
}

func Test_application_unknownPath(t *testing.T) {
	server := startTestServer(t)
	ctx := context.Background()
	client := server.Client()

	doc, err := client.GetDoc(ctx, "/unknown")
	require.NoError(t, err)
	require.Equal(t, 1, doc.Find("form[action='/login']").Length(), "anonymous visitors land on the login page")

	server.login(t)
	doc, err = client.GetDoc(ctx, "/unknown/nested")
	require.NoError(t, err)
	require.Equal(t, 1, doc.Find("form[action='/dashboard/check']").Length(), "valid sessions land on the dashboard")
}

func Test_application_login(t *testing.T) {
	ctx := context.Background()

	t.Run("wrong password shows the collaborator message", func(t *testing.T) {
		server := startTestServer(t)
		doc, err := server.Client().SubmitFormExpect(ctx, "/login", "/login", url.Values{
			"email":    {testEmail},
			"password": {"wrong"},
		}, http.StatusUnprocessableEntity)
		require.NoError(t, err)
		require.Equal(t, "Invalid email or password", doc.Find(".login-error").Text())
		email, _ := doc.Find("input[name=email]").Attr("value")
		require.Equal(t, testEmail, email, "email is kept")
	})

	t.Run("empty form is rejected before calling the collaborator", func(t *testing.T) {
		server := startTestServer(t)
		doc, err := server.Client().SubmitFormExpect(ctx, "/login", "/login", url.Values{
			"email":    {""},
			"password": {""},
		}, http.StatusUnprocessableEntity)
		require.NoError(t, err)
		require.Equal(t, "Please enter your email and password.", doc.Find(".login-error").Text())
		require.Zero(t, server.api.Calls(fakeapi.RouteLogin))
	})

	t.Run("authenticated visitor is sent to the dashboard", func(t *testing.T) {
		server := startTestServer(t)
		client := server.login(t)
		doc, err := client.GetDoc(ctx, "/login")
		require.NoError(t, err)
		require.Equal(t, 0, doc.Find("form[action='/login']").Length())
		require.Equal(t, testEmail, doc.Find(".identity-email").Text())
	})
}

func Test_application_logout(t *testing.T) {
	ctx := context.Background()
	server := startTestServer(t)
	client := server.login(t)

	doc, err := client.Logout(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, doc.Find("form[action='/login']").Length())
	require.Equal(t, 0, doc.Find("form[action='/logout']").Length())

	// The dashboard is guarded without calling the collaborator.
	calls := server.api.Calls(fakeapi.RouteCheckLogin)
	doc, err = client.GetDoc(ctx, "/dashboard")
	require.NoError(t, err)
	require.Equal(t, 1, doc.Find("form[action='/login']").Length())
	require.Equal(t, calls, server.api.Calls(fakeapi.RouteCheckLogin))
}

func Test_application_rejectedToken(t *testing.T) {
	ctx := context.Background()
	server := startTestServer(t)
	client := server.login(t)

	server.api.RotateSecret()

	doc, err := client.GetDoc(ctx, "/dashboard")
	require.NoError(t, err)
	require.Equal(t, 1, doc.Find("form[action='/login']").Length())
	require.Equal(t, sessionExpiredMsg, doc.Find(".flash").Text())

	// The token was cleared so logging in again works.
	server.login(t)
}
