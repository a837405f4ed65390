package models

import (
	"bytes"
	"encoding/json"
	"github.com/myrjola/reelcheck/internal/errors"
)

// ErrMissingWorthyTag is returned when an authenticity check response lacks the boolean worthy discriminant.
var ErrMissingWorthyTag = errors.NewSentinel("verdict without worthy tag")

// Verdict is the authenticity-checking collaborator's structured answer. It is either a [WorthyVerdict] or a
// [NotWorthyVerdict], chosen by the worthy tag that accompanies it.
type Verdict interface {
	// IsWorthy returns the tag the verdict was decoded with.
	IsWorthy() bool
	// Shared returns the sections present in both variants.
	Shared() Common
	// Raw returns the JSON the verdict was decoded from, unchanged.
	Raw() json.RawMessage

	isVerdict()
}

// Link describes the downloaded reel.
type Link struct {
	Filename OptString `json:"filename"`
	Width    OptString `json:"width"`
	Height   OptString `json:"height"`
	VideoURL OptString `json:"videoUrl"`
	Success  OptBool   `json:"success"`
}

// VideoAndAudio is the result of splitting the reel into its video and audio tracks.
type VideoAndAudio struct {
	Success OptBool   `json:"success"`
	Video   OptString `json:"video"`
	Audio   OptString `json:"audio"`
}

// Claim is a factual assertion extracted from the reel. Extracted claims carry evidence and is_worth_verifying while
// verified claims carry the scoring fields, so every field is optional.
type Claim struct {
	Claim              OptString  `json:"claim"`
	Evidence           OptString  `json:"evidence"`
	IsWorthVerifying   OptBool    `json:"is_worth_verifying"`
	CanVerifyWithLLM   OptBool    `json:"can_verify_with_llm"`
	VerificationMethod OptString  `json:"verification_method"`
	AuthenticityScore  OptNumber  `json:"authenticity_score"`
	AuthenticityLabel  OptString  `json:"authenticity_label"`
	Explanation        OptString  `json:"explanation"`
	EvidenceSources    StringList `json:"evidence_sources"`
	Confidence         OptNumber  `json:"confidence"`
}

// ClaimList is a list of claims that remembers whether the JSON value was a list at all.
type ClaimList struct {
	Items  []Claim
	IsList bool
}

func (l *ClaimList) UnmarshalJSON(data []byte) error {
	*l = ClaimList{}
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		return nil
	}
	l.IsList = true
	l.Items = make([]Claim, 0, len(raw))
	for _, item := range raw {
		var c Claim
		if err := decodeLenient(item, &c); err != nil {
			return errors.Wrap(err, "decode claim")
		}
		l.Items = append(l.Items, c)
	}
	return nil
}

// Empty reports whether there is nothing to show, which covers null, non-list and zero-length values.
func (l ClaimList) Empty() bool {
	return !l.IsList || len(l.Items) == 0
}

// Analysis is the collaborator's reading of the reel description.
type Analysis struct {
	Category     OptString `json:"category"`
	Claims       ClaimList `json:"claims"`
	Summary      OptString `json:"summary"`
	IsWorthy     OptBool   `json:"is_worthy"`
	WhyNotWorthy OptString `json:"why_not_worthy"`
}

type Description struct {
	Success  OptBool  `json:"success"`
	Analysis Analysis `json:"analysis"`
}

// Common holds the sections shared by both verdict variants.
type Common struct {
	Link          Link          `json:"link"`
	VideoAndAudio VideoAndAudio `json:"video_and_audio"`
	Transcription OptString     `json:"transcription"`
	Description   Description   `json:"description"`
}

// Assessment is the claim-level verification of a worthy reel.
type Assessment struct {
	OverallAuthenticity OptString `json:"overall_authenticity"`
	OverallScore        OptNumber `json:"overall_score"`
	Summary             OptString `json:"summary"`
	Recommendation      OptString `json:"recommendation"`
	IndividualClaims    ClaimList `json:"individual_claims"`
}

// Rationale explains why a reel was not worth verifying.
type Rationale struct {
	Summary  OptString `json:"summary"`
	Reason   OptString `json:"reason"`
	Category OptString `json:"category"`
}

// WorthyVerdict is the verdict for reels that warranted full claim-level verification.
type WorthyVerdict struct {
	Common
	IfWorthy Assessment `json:"if_worthy_response"`
	Final    Assessment `json:"final"`

	raw json.RawMessage
}

func (v WorthyVerdict) IsWorthy() bool       { return true }
func (v WorthyVerdict) Shared() Common       { return v.Common }
func (v WorthyVerdict) Raw() json.RawMessage { return v.raw }
func (v WorthyVerdict) isVerdict()           {}

// NotWorthyVerdict is the verdict for reels that were triaged out.
type NotWorthyVerdict struct {
	Common
	NotWorthy Rationale `json:"not_worthy_response"`
	Final     Rationale `json:"final"`

	raw json.RawMessage
}

func (v NotWorthyVerdict) IsWorthy() bool       { return false }
func (v NotWorthyVerdict) Shared() Common       { return v.Common }
func (v NotWorthyVerdict) Raw() json.RawMessage { return v.raw }
func (v NotWorthyVerdict) isVerdict()           {}

// DecodeVerdict decodes the response payload into the variant selected by worthy.
//
// Field presence plays no part in choosing the variant. A missing or null payload decodes into a verdict with every
// field absent.
func DecodeVerdict(worthy bool, raw json.RawMessage) (Verdict, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		raw = json.RawMessage("null")
	}
	// Keep our own copy since the decoder may reuse its buffer.
	raw = append(json.RawMessage(nil), raw...)
	if worthy {
		v := WorthyVerdict{raw: raw}
		if err := decodeLenient(raw, &v); err != nil {
			return nil, errors.Wrap(err, "decode worthy verdict")
		}
		return v, nil
	}
	v := NotWorthyVerdict{raw: raw}
	if err := decodeLenient(raw, &v); err != nil {
		return nil, errors.Wrap(err, "decode not worthy verdict")
	}
	return v, nil
}

// CheckResult is the envelope returned by the authenticity check: the worthy tag and the tagged verdict.
type CheckResult struct {
	Worthy  bool
	Verdict Verdict
}

type checkResultJSON struct {
	Worthy   OptBool         `json:"worthy"`
	Response json.RawMessage `json:"response"`
}

func (r *CheckResult) UnmarshalJSON(data []byte) error {
	var (
		envelope checkResultJSON
		err      error
	)
	if err = decodeLenient(data, &envelope); err != nil {
		return errors.Wrap(err, "decode check result")
	}
	if !envelope.Worthy.Valid {
		return ErrMissingWorthyTag
	}
	r.Worthy = envelope.Worthy.Value
	if r.Verdict, err = DecodeVerdict(r.Worthy, envelope.Response); err != nil {
		return errors.Wrap(err, "decode verdict")
	}
	return nil
}

func (r CheckResult) MarshalJSON() ([]byte, error) {
	raw := json.RawMessage("null")
	if r.Verdict != nil {
		raw = r.Verdict.Raw()
	}
	b, err := json.Marshal(struct {
		Worthy   bool            `json:"worthy"`
		Response json.RawMessage `json:"response"`
	}{Worthy: r.Worthy, Response: raw})
	if err != nil {
		return nil, errors.Wrap(err, "marshal check result")
	}
	return b, nil
}
