package main

import (
	"github.com/myrjola/reelcheck/internal/models"
	"github.com/stretchr/testify/require"
	"net/url"
	"testing"
)

func Test_parseFeedback(t *testing.T) {
	t.Run("full form", func(t *testing.T) {
		form := url.Values{
			"transcript_rating":          {"1"},
			"description_rating":         {"2"},
			"not_worthy_reason_rating":   {"3"},
			"worthy_reason_rating":       {"4"},
			"urls_fetched_rating":        {"9"},
			"final_rating":               {"10"},
			"transcript_feedback":        {"a"},
			"description_feedback":       {"b"},
			"not_worthy_reason_feedback": {"c"},
			"worthy_reason_feedback":     {"d"},
			"urls_fetched_feedback":      {"e"},
			"final_feedback":             {"f"},
			"worthy_checked_correctly":   {"true"},
		}
		got, err := parseFeedback(form)
		require.NoError(t, err)
		require.Equal(t, models.Feedback{
			TranscriptRating:        1,
			TranscriptFeedback:      "a",
			DescriptionRating:       2,
			DescriptionFeedback:     "b",
			WorthyCheckedCorrectly:  true,
			NotWorthyReasonRating:   3,
			NotWorthyReasonFeedback: "c",
			WorthyReasonRating:      4,
			WorthyReasonFeedback:    "d",
			URLsFetchedRating:       9,
			URLsFetchedFeedback:     "e",
			FinalRating:             10,
			FinalFeedback:           "f",
		}, got)
	})

	t.Run("missing fields keep defaults and unchecked box is false", func(t *testing.T) {
		got, err := parseFeedback(url.Values{})
		require.NoError(t, err)
		want := models.DefaultFeedback()
		want.WorthyCheckedCorrectly = false
		require.Equal(t, want, got)
	})

	t.Run("non-numeric rating", func(t *testing.T) {
		_, err := parseFeedback(url.Values{"final_rating": {"great"}})
		require.ErrorIs(t, err, errInvalidRating)
	})
}
