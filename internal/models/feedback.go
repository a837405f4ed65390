package models

import (
	"github.com/myrjola/reelcheck/internal/errors"
	"log/slog"
)

const (
	MinRating     = 1
	MaxRating     = 10
	DefaultRating = 5
)

var ErrRatingOutOfRange = errors.NewSentinel("rating must be between 1 and 10")

// Feedback is the analyst's review of a verdict. It is attached to an entry when the entry is created and never
// changed afterwards.
type Feedback struct {
	TranscriptRating   int    `json:"transcript_rating"`
	TranscriptFeedback string `json:"transcript_feedback"`

	DescriptionRating   int    `json:"description_rating"`
	DescriptionFeedback string `json:"description_feedback"`

	WorthyCheckedCorrectly bool `json:"worthy_checked_correctly"`

	NotWorthyReasonRating   int    `json:"not_worthy_reason_rating"`
	NotWorthyReasonFeedback string `json:"not_worthy_reason_feedback"`

	WorthyReasonRating   int    `json:"worthy_reason_rating"`
	WorthyReasonFeedback string `json:"worthy_reason_feedback"`

	URLsFetchedRating   int    `json:"urls_fetched_rating"`
	URLsFetchedFeedback string `json:"urls_fetched_feedback"`

	FinalRating   int    `json:"final_rating"`
	FinalFeedback string `json:"final_feedback"`
}

// DefaultFeedback is the neutral starting point of the feedback form.
func DefaultFeedback() Feedback {
	return Feedback{
		TranscriptRating:        DefaultRating,
		TranscriptFeedback:      "",
		DescriptionRating:       DefaultRating,
		DescriptionFeedback:     "",
		WorthyCheckedCorrectly:  true,
		NotWorthyReasonRating:   DefaultRating,
		NotWorthyReasonFeedback: "",
		WorthyReasonRating:      DefaultRating,
		WorthyReasonFeedback:    "",
		URLsFetchedRating:       DefaultRating,
		URLsFetchedFeedback:     "",
		FinalRating:             DefaultRating,
		FinalFeedback:           "",
	}
}

// FeedbackRating is one rating of the feedback form. Name matches the JSON and form field name.
type FeedbackRating struct {
	Name  string
	Label string
	Value int
}

// FeedbackComment is one free-text comment of the feedback form. Name matches the JSON and form field name.
type FeedbackComment struct {
	Name        string
	Label       string
	Placeholder string
	Value       string
}

// Ratings lists the ratings in form order.
func (f Feedback) Ratings() []FeedbackRating {
	return []FeedbackRating{
		{Name: "transcript_rating", Label: "Transcript Rating", Value: f.TranscriptRating},
		{Name: "description_rating", Label: "Description Rating", Value: f.DescriptionRating},
		{Name: "not_worthy_reason_rating", Label: "Not Worthy Reason Rating", Value: f.NotWorthyReasonRating},
		{Name: "worthy_reason_rating", Label: "Worthy Reason Rating", Value: f.WorthyReasonRating},
		{Name: "urls_fetched_rating", Label: "URLs Fetched Rating", Value: f.URLsFetchedRating},
		{Name: "final_rating", Label: "Final Rating", Value: f.FinalRating},
	}
}

// Comments lists the free-text comments in form order.
func (f Feedback) Comments() []FeedbackComment {
	return []FeedbackComment{
		{Name: "transcript_feedback", Label: "Transcript Feedback",
			Placeholder: "Your feedback on the transcript...", Value: f.TranscriptFeedback},
		{Name: "description_feedback", Label: "Description Feedback",
			Placeholder: "Your feedback on the description...", Value: f.DescriptionFeedback},
		{Name: "not_worthy_reason_feedback", Label: "Not Worthy Reason Feedback",
			Placeholder: "Explain the reasoning for not worthy...", Value: f.NotWorthyReasonFeedback},
		{Name: "worthy_reason_feedback", Label: "Worthy Reason Feedback",
			Placeholder: "Explain the reasoning for worthy...", Value: f.WorthyReasonFeedback},
		{Name: "urls_fetched_feedback", Label: "URLs Fetched Feedback",
			Placeholder: "Feedback on the URLs fetched...", Value: f.URLsFetchedFeedback},
		{Name: "final_feedback", Label: "Final Feedback",
			Placeholder: "Any final feedback...", Value: f.FinalFeedback},
	}
}

// Validate checks that every rating is within [MinRating, MaxRating].
func (f Feedback) Validate() error {
	for _, r := range f.Ratings() {
		if r.Value < MinRating || r.Value > MaxRating {
			return errors.Wrap(ErrRatingOutOfRange, "validate feedback",
				slog.String("rating", r.Name), slog.Int("value", r.Value))
		}
	}
	return nil
}

// MapComments returns a copy of f with fn applied to every free-text comment.
func (f Feedback) MapComments(fn func(string) string) Feedback {
	f.TranscriptFeedback = fn(f.TranscriptFeedback)
	f.DescriptionFeedback = fn(f.DescriptionFeedback)
	f.NotWorthyReasonFeedback = fn(f.NotWorthyReasonFeedback)
	f.WorthyReasonFeedback = fn(f.WorthyReasonFeedback)
	f.URLsFetchedFeedback = fn(f.URLsFetchedFeedback)
	f.FinalFeedback = fn(f.FinalFeedback)
	return f
}
