package prompts

import (
	"strings"

	"fakepost/internal/domain"
)

// PostTextOutput is the decoded PostText response.
type PostTextOutput struct {
	PostContent string `json:"postContent" validate:"required"`
}

// GeneratedReply is a reply as the model returns it, before ids exist.
type GeneratedReply struct {
	Name           string `json:"name" validate:"required"`
	Comment        string `json:"comment" validate:"required"`
	ProfilePicHint string `json:"profilePicHint"`
}

// GeneratedComment is a comment as the model returns it.
type GeneratedComment struct {
	Name           string           `json:"name" validate:"required"`
	Comment        string           `json:"comment" validate:"required"`
	ProfilePicHint string           `json:"profilePicHint"`
	Replies        []GeneratedReply `json:"replies,omitempty" validate:"omitempty,max=2,dive"`
}

// CommentsOutput is the decoded Comments response.
type CommentsOutput struct {
	Comments []GeneratedComment `json:"comments" validate:"required,min=1,dive"`
}

// ToDomain converts the model output into domain comments without ids.
// Empty reply lists become absent.
func (o CommentsOutput) ToDomain() []domain.Comment {
	out := make([]domain.Comment, 0, len(o.Comments))
	for _, c := range o.Comments {
		comment := domain.Comment{
			Name:           strings.TrimSpace(c.Name),
			Comment:        strings.TrimSpace(c.Comment),
			ProfilePicHint: strings.TrimSpace(c.ProfilePicHint),
		}
		for _, r := range c.Replies {
			comment.Replies = append(comment.Replies, domain.Reply{
				Name:           strings.TrimSpace(r.Name),
				Comment:        strings.TrimSpace(r.Comment),
				ProfilePicHint: strings.TrimSpace(r.ProfilePicHint),
			})
		}
		out = append(out, comment)
	}
	return out
}

// RandomPostOutput is the decoded RandomPost response.
type RandomPostOutput struct {
	ProfileName      string `json:"profileName" validate:"required"`
	Username         string `json:"username" validate:"required"`
	ProfilePicPrompt string `json:"profilePicPrompt" validate:"required"`
	PostContent      string `json:"postContent" validate:"required"`
	PostMediaPrompt  string `json:"postMediaPrompt" validate:"required"`
}

// ToDomain converts the output into a RandomPost, prefixing the username
// with @ when the model left it off.
func (o RandomPostOutput) ToDomain() domain.RandomPost {
	username := strings.TrimSpace(o.Username)
	if !strings.HasPrefix(username, "@") {
		username = "@" + username
	}
	return domain.RandomPost{
		ProfileName:      strings.TrimSpace(o.ProfileName),
		Username:         username,
		ProfilePicPrompt: strings.TrimSpace(o.ProfilePicPrompt),
		PostContent:      strings.TrimSpace(o.PostContent),
		PostMediaPrompt:  strings.TrimSpace(o.PostMediaPrompt),
	}
}
