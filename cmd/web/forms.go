package main

import (
	"github.com/myrjola/reelcheck/internal/errors"
	"github.com/myrjola/reelcheck/internal/models"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
)

var errInvalidRating = errors.NewSentinel("Ratings must be whole numbers between 1 and 10.")

// parseFeedback reads the feedback form. Missing ratings keep their defaults and an unchecked checkbox means false.
func parseFeedback(form url.Values) (models.Feedback, error) {
	f := models.DefaultFeedback()
	ratings := map[string]*int{
		"transcript_rating":        &f.TranscriptRating,
		"description_rating":       &f.DescriptionRating,
		"not_worthy_reason_rating": &f.NotWorthyReasonRating,
		"worthy_reason_rating":     &f.WorthyReasonRating,
		"urls_fetched_rating":      &f.URLsFetchedRating,
		"final_rating":             &f.FinalRating,
	}
	for name, target := range ratings {
		raw := strings.TrimSpace(form.Get(name))
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return models.Feedback{}, errors.Wrap(errInvalidRating, "parse rating",
				slog.String("rating", name), slog.String("value", raw))
		}
		*target = v
	}
	comments := map[string]*string{
		"transcript_feedback":        &f.TranscriptFeedback,
		"description_feedback":       &f.DescriptionFeedback,
		"not_worthy_reason_feedback": &f.NotWorthyReasonFeedback,
		"worthy_reason_feedback":     &f.WorthyReasonFeedback,
		"urls_fetched_feedback":      &f.URLsFetchedFeedback,
		"final_feedback":             &f.FinalFeedback,
	}
	for name, target := range comments {
		*target = form.Get(name)
	}
	f.WorthyCheckedCorrectly = form.Get("worthy_checked_correctly") != ""
	return f, nil
}
