package entries

import (
	"context"
	"github.com/myrjola/reelcheck/internal/apiclient"
	"github.com/myrjola/reelcheck/internal/errors"
	"github.com/myrjola/reelcheck/internal/models"
	"github.com/myrjola/reelcheck/internal/session"
	"log/slog"
	"net/http"
	"net/url"
)

// Client talks to the entry collaborator with the session token and to the verdict collaborator without one.
type Client struct {
	api     *apiclient.Client
	verdict *apiclient.Client
	tokens  session.TokenStore
	logger  *slog.Logger
}

func NewClient(api, verdict *apiclient.Client, tokens session.TokenStore, logger *slog.Logger) *Client {
	return &Client{
		api:     api,
		verdict: verdict,
		tokens:  tokens,
		logger:  logger,
	}
}

type listResponse struct {
	Entries []models.EntrySummary `json:"entries"`
}

// ListEntries returns the summaries in the order the collaborator sends them.
func (c *Client) ListEntries(ctx context.Context) ([]models.EntrySummary, error) {
	var resp listResponse
	err := c.api.Do(ctx, apiclient.Request{
		Method: http.MethodGet,
		Path:   "/entries/get",
		Token:  c.tokens.Token(ctx),
		Body:   nil,
	}, &resp)
	if err != nil {
		return nil, errors.Wrap(err, "list entries")
	}
	if resp.Entries == nil {
		resp.Entries = []models.EntrySummary{}
	}
	return resp.Entries, nil
}

func (c *Client) GetEntry(ctx context.Context, id string) (models.EntryDetail, error) {
	var detail models.EntryDetail
	err := c.api.Do(ctx, apiclient.Request{
		Method: http.MethodGet,
		Path:   "/entries/get/" + url.PathEscape(id),
		Token:  c.tokens.Token(ctx),
		Body:   nil,
	}, &detail)
	if err != nil {
		return models.EntryDetail{}, errors.Wrap(err, "get entry", slog.String("entry_id", id))
	}
	return detail, nil
}

func (c *Client) CreateEntry(ctx context.Context, entry models.NewEntry) error {
	err := c.api.Do(ctx, apiclient.Request{
		Method: http.MethodPost,
		Path:   "/entries/create",
		Token:  c.tokens.Token(ctx),
		Body:   entry,
	}, nil)
	if err != nil {
		return errors.Wrap(err, "create entry", slog.String("reel_id", entry.ReelID))
	}
	c.logger.LogAttrs(ctx, slog.LevelInfo, "entry created", slog.String("reel_id", entry.ReelID))
	return nil
}

type checkRequest struct {
	URL string `json:"url"`
	Log string `json:"log"`
}

// CheckAuthenticity asks the verdict collaborator to assess the reel at reelURL. It can take minutes.
func (c *Client) CheckAuthenticity(ctx context.Context, reelURL string) (models.CheckResult, error) {
	var result models.CheckResult
	err := c.verdict.Do(ctx, apiclient.Request{
		Method: http.MethodPost,
		Path:   "/checkAuthenticity",
		Token:  "",
		Body:   checkRequest{URL: reelURL, Log: "True"},
	}, &result)
	if err != nil {
		return models.CheckResult{}, errors.Wrap(err, "check authenticity", slog.String("url", reelURL))
	}
	return result, nil
}
