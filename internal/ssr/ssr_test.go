package ssr_test

import (
	"bytes"
	"github.com/PuerkitoBio/goquery"
	"github.com/myrjola/reelcheck/internal/ssr"
	"github.com/stretchr/testify/require"
	"strings"
	"testing"
)

func TestReplaceComponents(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		selector  string
		wantClass string
		wantAs    bool
	}{
		{
			name:      "primary button",
			input:     `<button as="button-primary">Check</button>`,
			selector:  "button",
			wantClass: "btn btn-primary",
			wantAs:    false,
		},
		{
			name:      "keeps existing classes",
			input:     `<span as="badge-worthy" class="small">Worthy</span>`,
			selector:  "span",
			wantClass: "small badge badge-worthy",
			wantAs:    false,
		},
		{
			name:      "unknown component is left alone",
			input:     `<div as="carousel">x</div>`,
			selector:  "div",
			wantClass: "",
			wantAs:    true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, ssr.ReplaceComponents(&buf, strings.NewReader(tt.input)))
			doc, err := goquery.NewDocumentFromReader(&buf)
			require.NoError(t, err)
			s := doc.Find(tt.selector)
			require.Equal(t, 1, s.Length())
			class, _ := s.Attr("class")
			require.Equal(t, tt.wantClass, class)
			_, hasAs := s.Attr("as")
			require.Equal(t, tt.wantAs, hasAs)
		})
	}
}

func TestReplaceComponents_KeepsDoctype(t *testing.T) {
	var buf bytes.Buffer
	input := `<!DOCTYPE html><html lang="en"><head><title>t</title></head><body><p>hi</p></body></html>`
	require.NoError(t, ssr.ReplaceComponents(&buf, strings.NewReader(input)))
	require.True(t, strings.HasPrefix(buf.String(), "<!DOCTYPE html>"), buf.String())
	require.Contains(t, buf.String(), `<html lang="en">`)
}
