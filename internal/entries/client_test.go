package entries_test

import (
	"context"
	"encoding/json"
	"github.com/myrjola/reelcheck/internal/apiclient"
	"github.com/myrjola/reelcheck/internal/entries"
	"github.com/myrjola/reelcheck/internal/fakeapi"
	"github.com/myrjola/reelcheck/internal/models"
	"github.com/myrjola/reelcheck/internal/session"
	"github.com/myrjola/reelcheck/internal/testhelpers"
	"github.com/stretchr/testify/require"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
)

type fixture struct {
	entries  *entries.Client
	sessions *session.Client
	fake     *fakeapi.Server
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	logger := testhelpers.NewLogger(os.Stderr)
	fake := fakeapi.New(logger)
	fake.AddAccount("analyst@example.com", "hunter2")
	srv := httptest.NewServer(fake.Handler())
	t.Cleanup(srv.Close)
	api := apiclient.New(srv.URL+"/api", srv.Client(), logger)
	store := &session.MemoryStore{}
	return fixture{
		entries:  entries.NewClient(api, api, store, logger),
		sessions: session.NewClient(api, store, logger),
		fake:     fake,
	}
}

func (f fixture) login(t *testing.T) {
	t.Helper()
	err := f.sessions.Login(context.Background(), models.Credentials{Email: "analyst@example.com", Password: "hunter2"})
	require.NoError(t, err)
}

func TestClient_CreateAndFetch(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.login(t)

	list, err := f.entries.ListEntries(ctx)
	require.NoError(t, err)
	require.Empty(t, list)

	result, err := f.entries.CheckAuthenticity(ctx, "https://instagram.com/reel/XYZ123/")
	require.NoError(t, err)
	require.True(t, result.Worthy)

	err = f.entries.CreateEntry(ctx, models.NewEntry{
		ReelID:   "XYZ123",
		Feedback: models.DefaultFeedback(),
		Result:   result,
	})
	require.NoError(t, err, "default feedback is accepted")

	list, err = f.entries.ListEntries(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "XYZ123", list[0].ReelID)

	detail, err := f.entries.GetEntry(ctx, list[0].ID)
	require.NoError(t, err)
	require.Equal(t, "analyst@example.com", detail.UserEmail)
	require.Equal(t, models.DefaultFeedback(), detail.Feedback)
	_, ok := detail.Verdict.(models.WorthyVerdict)
	require.True(t, ok)

	stored, ok := f.fake.StoredResponse("XYZ123")
	require.True(t, ok)
	var canned struct {
		Response json.RawMessage `json:"response"`
	}
	require.NoError(t, json.Unmarshal([]byte(fakeapi.WorthyResponse), &canned))
	require.JSONEq(t, string(canned.Response), string(stored), "verdict payload is posted unchanged")
}

func TestClient_Unauthorized(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.entries.ListEntries(ctx)
	require.ErrorIs(t, err, apiclient.ErrUnauthorized)

	err = f.entries.CreateEntry(ctx, models.NewEntry{ReelID: "X", Feedback: models.DefaultFeedback()})
	require.ErrorIs(t, err, apiclient.ErrUnauthorized)
}

func TestClient_GetEntryNotFound(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.login(t)

	_, err := f.entries.GetEntry(ctx, "missing")
	var remoteErr *apiclient.RemoteError
	require.ErrorAs(t, err, &remoteErr)
	require.Equal(t, http.StatusNotFound, remoteErr.StatusCode)
	require.Equal(t, "Entry not found", apiclient.Message(err))
}

func TestClient_CheckAuthenticity(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	result, err := f.entries.CheckAuthenticity(ctx, "https://instagram.com/p/not-worthy")
	require.NoError(t, err)
	_, ok := result.Verdict.(models.NotWorthyVerdict)
	require.True(t, ok)

	_, err = f.entries.CheckAuthenticity(ctx, "https://instagram.com/reel/fail/")
	require.Equal(t, "Could not download reel", apiclient.Message(err))
	require.Equal(t, 2, f.fake.Calls(fakeapi.RouteCheck))
}
