package domain

import (
	"sync"

	"github.com/go-playground/validator/v10"
)

// TemplateVersion is the current layout version of a saved template.
const TemplateVersion = 1

// DefaultTemplateSlot is the storage key used when the caller names no slot.
const DefaultTemplateSlot = "fakepost-template"

// Template is a flat snapshot of every editor field.
type Template struct {
	Platform        Platform `json:"platform" validate:"omitempty,oneof=facebook instagram twitter threads bluesky linkedin tiktok"`
	ProfileName     string   `json:"profileName" validate:"max=200"`
	Username        string   `json:"username" validate:"max=200"`
	ProfilePicURL   string   `json:"profilePicUrl"`
	ProfilePicHint  string   `json:"profilePicPrompt" validate:"max=500"`
	PostTopic       string   `json:"postTopic" validate:"max=500"`
	PostContent     string   `json:"postContent" validate:"max=10000"`
	PostImageURL    string   `json:"postImageUrl"`
	PostVideoURL    string   `json:"postVideoUrl"`
	PostMediaPrompt string   `json:"postMediaPrompt" validate:"max=1000"`
	PostAudioURL    string   `json:"postAudioUrl"`
	Timestamp       string   `json:"timestamp" validate:"max=100"`
	IsVerified      bool     `json:"isVerified"`
	VerifiedColor   string   `json:"verifiedColor" validate:"omitempty,hexcolor"`
	Likes           int      `json:"likes" validate:"gte=0"`
	Reposts         int      `json:"reposts" validate:"gte=0"`
	Shares          int      `json:"shares" validate:"gte=0"`
	Recommendations int      `json:"recommendations" validate:"gte=0"`
	CommentCount    int      `json:"commentCount" validate:"gte=0,lte=20"`
}

// DefaultTemplate returns the editor's initial state.
func DefaultTemplate() Template {
	return Template{
		Platform:        PlatformFacebook,
		ProfileName:     "Jane Doe",
		Username:        "@janedoe",
		ProfilePicURL:   "https://placehold.co/48x48.png",
		ProfilePicHint:  "smiling woman",
		PostContent:     "Just enjoying a beautiful day at the park! It's amazing how a little bit of sunshine can change your whole mood. #blessed #naturelover #goodvibes",
		PostImageURL:    "https://placehold.co/600x400.png",
		Timestamp:       "2 hours ago",
		VerifiedColor:   "#1d9bf0",
		Likes:           128,
		Reposts:         12,
		Shares:          7,
		Recommendations: 3,
		CommentCount:    3,
	}
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator returns the process-wide struct validator.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Validate checks the template's field constraints.
func (t Template) Validate() error {
	if err := Validator().Struct(t); err != nil {
		return Validation(err.Error())
	}
	return nil
}
