package domain

import (
	"strings"

	"golang.org/x/text/cases"
)

// Platform identifies the social network a preview imitates.
type Platform string

const (
	PlatformFacebook  Platform = "facebook"
	PlatformInstagram Platform = "instagram"
	PlatformTwitter   Platform = "twitter"
	PlatformThreads   Platform = "threads"
	PlatformBluesky   Platform = "bluesky"
	PlatformLinkedIn  Platform = "linkedin"
	PlatformTikTok    Platform = "tiktok"
)

var platforms = []Platform{
	PlatformFacebook,
	PlatformInstagram,
	PlatformTwitter,
	PlatformThreads,
	PlatformBluesky,
	PlatformLinkedIn,
	PlatformTikTok,
}

// Platforms lists every supported platform.
func Platforms() []Platform {
	out := make([]Platform, len(platforms))
	copy(out, platforms)
	return out
}

// ParsePlatform normalizes free-form input. The boolean is false for unknown
// platforms.
func ParsePlatform(s string) (Platform, bool) {
	candidate := Platform(cases.Fold().String(strings.TrimSpace(s)))
	for _, p := range platforms {
		if p == candidate {
			return p, true
		}
	}
	return "", false
}

// VideoFirst reports whether post media for p is a video rather than an image.
func (p Platform) VideoFirst() bool {
	return p == PlatformTikTok
}
