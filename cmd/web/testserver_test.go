package main

import (
	"context"
	"github.com/myrjola/reelcheck/internal/e2etest"
	"github.com/myrjola/reelcheck/internal/fakeapi"
	"github.com/myrjola/reelcheck/internal/testhelpers"
	"github.com/stretchr/testify/require"
	"io"
	"net/http/httptest"
	"testing"
)

const (
	testEmail    = "analyst@example.com"
	testPassword = "correct horse battery staple"
)

type testServer struct {
	*e2etest.Server
	api *fakeapi.Server
}

// startTestServer starts the web server against a fresh fake collaborator with one account.
func startTestServer(t *testing.T) testServer {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	api := fakeapi.New(testhelpers.NewLogger(io.Discard))
	api.AddAccount(testEmail, testPassword)
	apiServer := httptest.NewServer(api.Handler())
	t.Cleanup(apiServer.Close)

	lookupEnv := func(key string) (string, bool) {
		switch key {
		case "REELCHECK_ADDR":
			return "localhost:0", true
		case "REELCHECK_SQLITE_URL":
			return ":memory:", true
		case "REELCHECK_API_URL":
			return apiServer.URL + "/api", true
		case "REELCHECK_SECURE_COOKIES":
			return "false", true
		default:
			return "", false
		}
	}

	server, err := e2etest.StartServer(ctx, io.Discard, lookupEnv, run)
	require.NoError(t, err)
	return testServer{Server: server, api: api}
}

// login logs in with the test account and returns the dashboard document's client.
func (s testServer) login(t *testing.T) *e2etest.Client {
	t.Helper()
	client := s.Client()
	doc, err := client.Login(context.Background(), testEmail, testPassword)
	require.NoError(t, err)
	require.Equal(t, testEmail, doc.Find(".identity-email").Text())
	return client
}
