package dashboard

import (
	"net/url"
	"strings"
)

// DeriveReelID extracts the reel id from a reel URL.
//
// For absolute URLs the path segment following the first "reel" or "p" segment wins, falling back to the last
// segment. Anything else falls back to the last non-empty slash-separated part of the raw string.
func DeriveReelID(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || !u.IsAbs() {
		return lastPart(rawURL)
	}
	// Split the escaped path so an encoded slash stays part of its segment.
	segments := nonEmpty(strings.Split(u.EscapedPath(), "/"))
	for i, segment := range segments {
		if (segment == "reel" || segment == "p") && i+1 < len(segments) {
			return segments[i+1]
		}
	}
	if len(segments) == 0 {
		return ""
	}
	return segments[len(segments)-1]
}

func lastPart(s string) string {
	parts := nonEmpty(strings.Split(s, "/"))
	if len(parts) == 0 {
		return ""
	}
	return parts[len(parts)-1]
}

func nonEmpty(parts []string) []string {
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
