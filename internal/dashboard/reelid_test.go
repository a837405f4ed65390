package dashboard_test

import (
	"github.com/myrjola/reelcheck/internal/dashboard"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestDeriveReelID(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{url: "https://instagram.com/reel/XYZ123/", want: "XYZ123"},
		{url: "https://instagram.com/p/ABC999", want: "ABC999"},
		{url: "https://www.instagram.com/reel/XYZ123/?igsh=abc", want: "XYZ123"},
		{url: "https://instagram.com/someone/p/DEF456/extra", want: "DEF456"},
		{url: "https://instagram.com/stories/someone/123", want: "123"},
		{url: "https://instagram.com/reel/", want: "reel"},
		{url: "https://x.com/reel/a%2Fb", want: "a%2Fb"},
		{url: "https://instagram.com/", want: ""},
		{url: "not a url///trailing/", want: "trailing"},
		{url: "instagram.com/reel/XYZ123", want: "XYZ123"},
		{url: "///", want: ""},
		{url: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			require.Equal(t, tt.want, dashboard.DeriveReelID(tt.url))
		})
	}
}
