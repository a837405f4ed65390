package models_test

import (
	"encoding/json"
	"github.com/myrjola/reelcheck/internal/models"
	"github.com/stretchr/testify/require"
	"testing"
)

const worthyResponse = `{
  "worthy": true,
  "response": {
    "link": {"filename": "reel.mp4", "width": 1080, "height": "1920", "videoUrl": "https://cdn.example/reel.mp4", "success": true},
    "video_and_audio": {"success": true, "video": "reel.mp4", "audio": "reel.mp3"},
    "transcription": "The moon landing was staged.",
    "description": {"success": true, "analysis": {
      "category": "history", "summary": "Moon landing claim", "is_worthy": true,
      "claims": [{"claim": "The moon landing was staged", "evidence": "speaker says so", "is_worth_verifying": true}]
    }},
    "if_worthy_response": {"overall_authenticity": "false", "overall_score": 0.1, "summary": "Debunked",
      "recommendation": "Flag", "individual_claims": [{"claim": "The moon landing was staged",
      "can_verify_with_llm": false, "authenticity_score": 0, "evidence_sources": ["https://nasa.gov"], "confidence": 0.9}]},
    "final": {"overall_authenticity": "false", "overall_score": 0.1, "summary": "Debunked",
      "recommendation": "Flag", "individual_claims": "not a list"},
    "extra_field": {"kept": true}
  }
}`

func TestCheckResult_UnmarshalJSON(t *testing.T) {
	t.Run("worthy tag selects worthy variant", func(t *testing.T) {
		var result models.CheckResult
		require.NoError(t, json.Unmarshal([]byte(worthyResponse), &result))
		require.True(t, result.Worthy)
		v, ok := result.Verdict.(models.WorthyVerdict)
		require.True(t, ok, "expected WorthyVerdict, got %T", result.Verdict)

		require.Equal(t, models.Some("1080"), v.Link.Width, "numbers are accepted as strings")
		require.Equal(t, models.Some("1920"), v.Link.Height)
		require.True(t, v.Link.Success.Valid)
		require.True(t, v.Link.Success.Value)
		require.Equal(t, "Moon landing claim", v.Description.Analysis.Summary.Value)
		require.False(t, v.Description.Analysis.WhyNotWorthy.Valid)

		claims := v.IfWorthy.IndividualClaims
		require.True(t, claims.IsList)
		require.Len(t, claims.Items, 1)
		claim := claims.Items[0]
		require.Equal(t, models.OptBool{Value: false, Valid: true}, claim.CanVerifyWithLLM)
		require.Equal(t, models.OptNumber{Value: 0, Valid: true}, claim.AuthenticityScore)
		require.False(t, claim.Evidence.Valid)
		require.Equal(t, []string{"https://nasa.gov"}, claim.EvidenceSources.Items)

		require.False(t, v.Final.IndividualClaims.IsList, "a string is not a claim list")
		require.True(t, v.Final.IndividualClaims.Empty())
	})

	t.Run("not worthy tag selects not worthy variant even with worthy fields", func(t *testing.T) {
		payload := `{"worthy": false, "response": {"if_worthy_response": {"summary": "ignored"},
			"not_worthy_response": {"summary": "Opinion", "reason": "No factual claims", "category": "lifestyle"},
			"final": {"summary": "Skip"}}}`
		var result models.CheckResult
		require.NoError(t, json.Unmarshal([]byte(payload), &result))
		v, ok := result.Verdict.(models.NotWorthyVerdict)
		require.True(t, ok, "expected NotWorthyVerdict, got %T", result.Verdict)
		require.Equal(t, models.Some("No factual claims"), v.NotWorthy.Reason)
		require.Equal(t, models.Some("Skip"), v.Final.Summary)
		require.False(t, v.Final.Reason.Valid)
	})

	t.Run("missing tag is rejected", func(t *testing.T) {
		var result models.CheckResult
		err := json.Unmarshal([]byte(`{"response": {}}`), &result)
		require.ErrorIs(t, err, models.ErrMissingWorthyTag)
	})

	t.Run("mismatched types are recorded as absent", func(t *testing.T) {
		payload := `{"worthy": true, "response": {"link": "oops", "transcription": false,
			"description": {"analysis": {"is_worthy": "yes", "claims": [42, {"claim": "ok"}]}}}}`
		var result models.CheckResult
		require.NoError(t, json.Unmarshal([]byte(payload), &result))
		common := result.Verdict.Shared()
		require.Equal(t, models.Link{}, common.Link)
		require.False(t, common.Transcription.Valid)
		require.False(t, common.Description.Analysis.IsWorthy.Valid)
		require.Len(t, common.Description.Analysis.Claims.Items, 2)
		require.Equal(t, models.Claim{}, common.Description.Analysis.Claims.Items[0])
		require.Equal(t, models.Some("ok"), common.Description.Analysis.Claims.Items[1].Claim)
	})

	t.Run("null response", func(t *testing.T) {
		var result models.CheckResult
		require.NoError(t, json.Unmarshal([]byte(`{"worthy": false, "response": null}`), &result))
		_, ok := result.Verdict.(models.NotWorthyVerdict)
		require.True(t, ok)
		require.JSONEq(t, `null`, string(result.Verdict.Raw()))
	})
}

func TestCheckResult_RoundTripKeepsUnknownFields(t *testing.T) {
	var result models.CheckResult
	require.NoError(t, json.Unmarshal([]byte(worthyResponse), &result))

	out, err := json.Marshal(result)
	require.NoError(t, err)
	require.JSONEq(t, worthyResponse, string(out))
}

func TestEntryDetail_UnmarshalJSON(t *testing.T) {
	payload := `{"_id": "e1", "worthy": false, "insta_reel_id": "ABC999", "created_at": "2025-03-01T10:20:30.123456",
		"user_email": "analyst@example.com", "response": {"not_worthy_response": {"reason": "satire"}},
		"feedback": {"transcript_rating": 7, "worthy_checked_correctly": false, "final_feedback": "fine"}}`
	var detail models.EntryDetail
	require.NoError(t, json.Unmarshal([]byte(payload), &detail))

	require.Equal(t, "e1", detail.ID)
	require.Equal(t, "ABC999", detail.ReelID)
	require.Equal(t, "analyst@example.com", detail.UserEmail)
	require.Equal(t, 7, detail.Feedback.TranscriptRating)
	require.False(t, detail.Feedback.WorthyCheckedCorrectly)
	require.Equal(t, "fine", detail.Feedback.FinalFeedback)

	v, ok := detail.Verdict.(models.NotWorthyVerdict)
	require.True(t, ok)
	require.Equal(t, models.Some("satire"), v.NotWorthy.Reason)

	created, ok := detail.CreatedTime()
	require.True(t, ok)
	require.Equal(t, 2025, created.Year())
	require.Equal(t, "2025-03-01 10:20:30 UTC", detail.CreatedDisplay())
}

func TestEntrySummary_CreatedDisplayFallsBackToRaw(t *testing.T) {
	summary := models.EntrySummary{CreatedAt: "yesterday"}
	require.Equal(t, "yesterday", summary.CreatedDisplay())
}

func TestNewEntry_MarshalJSON(t *testing.T) {
	var result models.CheckResult
	require.NoError(t, json.Unmarshal([]byte(worthyResponse), &result))
	entry := models.NewEntry{
		ReelID:   "XYZ123",
		Feedback: models.DefaultFeedback(),
		Result:   result,
	}
	out, err := json.Marshal(entry)
	require.NoError(t, err)

	var decoded struct {
		ReelID   string          `json:"insta_reel_id"`
		Worthy   bool            `json:"worthy"`
		Response json.RawMessage `json:"response"`
		Feedback map[string]any  `json:"feedback"`
	}
	require.NoError(t, json.Unmarshal(out, &decoded))
	require.Equal(t, "XYZ123", decoded.ReelID)
	require.True(t, decoded.Worthy)
	require.JSONEq(t, string(result.Verdict.Raw()), string(decoded.Response))
	require.InDelta(t, 5, decoded.Feedback["final_rating"], 0)
	require.Equal(t, true, decoded.Feedback["worthy_checked_correctly"])
}
