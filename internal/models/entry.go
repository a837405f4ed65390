package models

import (
	"encoding/json"
	"github.com/myrjola/reelcheck/internal/errors"
	"time"
)

// Credentials are exchanged for a session token. They are never stored.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Identity is the account behind a valid session token.
type Identity struct {
	LoggedIn bool   `json:"logged_in"`
	Email    string `json:"email"`
}

// EntrySummary is a persisted test entry as listed by the entry collaborator.
type EntrySummary struct {
	ID        string `json:"_id"`
	Worthy    bool   `json:"worthy"`
	ReelID    string `json:"insta_reel_id"`
	CreatedAt string `json:"created_at"`
}

// createdAtLayouts covers RFC 3339 and the naive ISO timestamps produced by Python's datetime.isoformat.
var createdAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// CreatedTime parses CreatedAt. Timestamps without a zone are interpreted as UTC.
func (e EntrySummary) CreatedTime() (time.Time, bool) {
	for _, layout := range createdAtLayouts {
		if t, err := time.Parse(layout, e.CreatedAt); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// CreatedDisplay formats the creation time for humans, falling back to the raw value.
func (e EntrySummary) CreatedDisplay() string {
	if t, ok := e.CreatedTime(); ok {
		return t.Format("2006-01-02 15:04:05 MST")
	}
	return e.CreatedAt
}

// EntryDetail is a persisted test entry with its verdict and feedback.
type EntryDetail struct {
	EntrySummary
	UserEmail string
	Verdict   Verdict
	Feedback  Feedback
}

type entryDetailJSON struct {
	ID        string          `json:"_id"`
	Worthy    bool            `json:"worthy"`
	ReelID    string          `json:"insta_reel_id"`
	CreatedAt string          `json:"created_at"`
	UserEmail string          `json:"user_email"`
	Response  json.RawMessage `json:"response"`
	Feedback  Feedback        `json:"feedback"`
}

func (e *EntryDetail) UnmarshalJSON(data []byte) error {
	var (
		aux entryDetailJSON
		err error
	)
	if err = decodeLenient(data, &aux); err != nil {
		return errors.Wrap(err, "decode entry detail")
	}
	e.EntrySummary = EntrySummary{
		ID:        aux.ID,
		Worthy:    aux.Worthy,
		ReelID:    aux.ReelID,
		CreatedAt: aux.CreatedAt,
	}
	e.UserEmail = aux.UserEmail
	e.Feedback = aux.Feedback
	if e.Verdict, err = DecodeVerdict(aux.Worthy, aux.Response); err != nil {
		return errors.Wrap(err, "decode entry verdict")
	}
	return nil
}

// Result returns the entry's verdict in the same envelope the authenticity check produced.
func (e EntryDetail) Result() CheckResult {
	return CheckResult{Worthy: e.Worthy, Verdict: e.Verdict}
}

// NewEntry is the payload for persisting a reviewed reel.
type NewEntry struct {
	ReelID   string
	Feedback Feedback
	Result   CheckResult
}

func (e NewEntry) MarshalJSON() ([]byte, error) {
	raw := json.RawMessage("null")
	if e.Result.Verdict != nil {
		raw = e.Result.Verdict.Raw()
	}
	b, err := json.Marshal(struct {
		ReelID   string          `json:"insta_reel_id"`
		Feedback Feedback        `json:"feedback"`
		Worthy   bool            `json:"worthy"`
		Response json.RawMessage `json:"response"`
	}{
		ReelID:   e.ReelID,
		Feedback: e.Feedback,
		Worthy:   e.Result.Worthy,
		Response: raw,
	})
	if err != nil {
		return nil, errors.Wrap(err, "marshal new entry")
	}
	return b, nil
}
