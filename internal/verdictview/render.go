// Package verdictview turns an authenticity verdict into a structure the templates can print without making any
// decisions of their own.
package verdictview

import (
	"github.com/myrjola/reelcheck/internal/models"
)

const (
	// NotAvailable is printed for absent section fields.
	NotAvailable = "N/A"
	// NoClaims is the placeholder for an empty, null or malformed claim list.
	NoClaims = "No claims available."
	// ClaimFallbackHeading is used for claims without claim text.
	ClaimFallbackHeading = "Claim"
)

// View is the rendered verdict.
type View struct {
	Worthy   bool
	Sections []Section
}

// Section is one titled block of the verdict.
type Section struct {
	Title  string
	Fields []Field
	// Text is set for free-text sections such as the transcription.
	Text string
	// Claims is nil for sections without claims.
	Claims *Claims
}

type Field struct {
	Label string
	Value string
}

// Claims is a titled claim list. Placeholder is set instead of Items when there is nothing to list.
type Claims struct {
	Title       string
	Items       []Claim
	Placeholder string
}

// Claim is one rendered claim. Sources are printed between Fields and Trailing.
type Claim struct {
	Heading  string
	Fields   []Field
	Sources  []string
	Trailing []Field
}

// Render formats the verdict in result. It never fails: missing or malformed parts are rendered with defaults.
func Render(result models.CheckResult) View {
	var (
		common   models.Common
		sections []Section
	)
	if result.Verdict != nil {
		common = result.Verdict.Shared()
	}
	sections = append(sections,
		linkSection(common.Link),
		videoAndAudioSection(common.VideoAndAudio),
		Section{Title: "Transcription", Fields: nil, Text: orNA(common.Transcription), Claims: nil},
		descriptionSection(common.Description),
	)

	switch v := result.Verdict.(type) {
	case models.WorthyVerdict:
		sections = append(sections,
			assessmentSection("If Worthy Response", v.IfWorthy),
			assessmentSection("Final", v.Final))
	case models.NotWorthyVerdict:
		sections = append(sections,
			rationaleSection("Not Worthy Response", v.NotWorthy),
			rationaleSection("Final", v.Final))
	case nil:
		if result.Worthy {
			sections = append(sections,
				assessmentSection("If Worthy Response", models.Assessment{}),
				assessmentSection("Final", models.Assessment{}))
		} else {
			sections = append(sections,
				rationaleSection("Not Worthy Response", models.Rationale{}),
				rationaleSection("Final", models.Rationale{}))
		}
	}
	return View{Worthy: result.Worthy, Sections: sections}
}

func linkSection(l models.Link) Section {
	return Section{
		Title: "Link",
		Fields: []Field{
			{Label: "Filename", Value: orNA(l.Filename)},
			{Label: "Width", Value: orNA(l.Width)},
			{Label: "Height", Value: orNA(l.Height)},
			{Label: "Video URL", Value: orNA(l.VideoURL)},
			{Label: "Success", Value: boolOrNA(l.Success)},
		},
		Text:   "",
		Claims: nil,
	}
}

func videoAndAudioSection(va models.VideoAndAudio) Section {
	return Section{
		Title: "Video and Audio",
		Fields: []Field{
			{Label: "Success", Value: boolOrNA(va.Success)},
			{Label: "Video", Value: orNA(va.Video)},
			{Label: "Audio", Value: orNA(va.Audio)},
		},
		Text:   "",
		Claims: nil,
	}
}

func descriptionSection(d models.Description) Section {
	a := d.Analysis
	fields := []Field{
		{Label: "Success", Value: boolOrNA(d.Success)},
		{Label: "Category", Value: orNA(a.Category)},
		{Label: "Summary", Value: orNA(a.Summary)},
	}
	if a.IsWorthy.Valid {
		fields = append(fields, Field{Label: "Is Worthy", Value: yesNo(a.IsWorthy.Value)})
	}
	if a.WhyNotWorthy.NonEmpty() {
		fields = append(fields, Field{Label: "Why Not Worthy", Value: a.WhyNotWorthy.Value})
	}
	return Section{
		Title:  "Description & Analysis",
		Fields: fields,
		Text:   "",
		Claims: renderClaims("Claims", a.Claims),
	}
}

func assessmentSection(title string, a models.Assessment) Section {
	return Section{
		Title: title,
		Fields: []Field{
			{Label: "Overall Authenticity", Value: orNA(a.OverallAuthenticity)},
			{Label: "Overall Score", Value: numberOrNA(a.OverallScore)},
			{Label: "Summary", Value: orNA(a.Summary)},
			{Label: "Recommendation", Value: orNA(a.Recommendation)},
		},
		Text:   "",
		Claims: renderClaims("Individual Claims", a.IndividualClaims),
	}
}

func rationaleSection(title string, r models.Rationale) Section {
	return Section{
		Title: title,
		Fields: []Field{
			{Label: "Summary", Value: orNA(r.Summary)},
			{Label: "Reason", Value: orNA(r.Reason)},
			{Label: "Category", Value: orNA(r.Category)},
		},
		Text:   "",
		Claims: nil,
	}
}

func renderClaims(title string, list models.ClaimList) *Claims {
	if list.Empty() {
		return &Claims{Title: title, Items: nil, Placeholder: NoClaims}
	}
	items := make([]Claim, 0, len(list.Items))
	for _, c := range list.Items {
		items = append(items, renderClaim(c))
	}
	return &Claims{Title: title, Items: items, Placeholder: ""}
}

func renderClaim(c models.Claim) Claim {
	heading := ClaimFallbackHeading
	if c.Claim.Valid {
		heading = c.Claim.Value
	}
	var fields []Field
	addString := func(label string, s models.OptString) {
		if s.NonEmpty() {
			fields = append(fields, Field{Label: label, Value: s.Value})
		}
	}
	addBool := func(label string, b models.OptBool) {
		if b.Valid {
			fields = append(fields, Field{Label: label, Value: yesNo(b.Value)})
		}
	}
	addNumber := func(label string, n models.OptNumber) {
		if n.Valid {
			fields = append(fields, Field{Label: label, Value: n.String()})
		}
	}
	addString("Evidence", c.Evidence)
	addBool("Worth Verifying", c.IsWorthVerifying)
	addBool("Can Verify with LLM", c.CanVerifyWithLLM)
	addString("Verification Method", c.VerificationMethod)
	addNumber("Authenticity Score", c.AuthenticityScore)
	addString("Authenticity Label", c.AuthenticityLabel)
	addString("Explanation", c.Explanation)

	claim := Claim{
		Heading:  heading,
		Fields:   fields,
		Sources:  nil,
		Trailing: nil,
	}
	if len(c.EvidenceSources.Items) > 0 {
		claim.Sources = c.EvidenceSources.Items
	}
	if c.Confidence.Valid {
		claim.Trailing = []Field{{Label: "Confidence", Value: c.Confidence.String()}}
	}
	return claim
}

func orNA(s models.OptString) string {
	if !s.Valid {
		return NotAvailable
	}
	return s.Value
}

func boolOrNA(b models.OptBool) string {
	if !b.Valid {
		return NotAvailable
	}
	return yesNo(b.Value)
}

func numberOrNA(n models.OptNumber) string {
	if !n.Valid {
		return NotAvailable
	}
	return n.String()
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
