package domain

// Reply is a second-level comment. Replies never nest further.
type Reply struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Comment        string `json:"comment"`
	ProfilePicHint string `json:"profilePicHint"`
	ProfilePicURL  string `json:"profilePicUrl,omitempty"`
}

// Comment is a top-level generated comment.
type Comment struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Comment        string  `json:"comment"`
	ProfilePicHint string  `json:"profilePicHint"`
	ProfilePicURL  string  `json:"profilePicUrl,omitempty"`
	Replies        []Reply `json:"replies,omitempty"`
}

// CloneComments returns a deep copy of comments.
func CloneComments(comments []Comment) []Comment {
	if comments == nil {
		return nil
	}
	out := make([]Comment, len(comments))
	for i, c := range comments {
		out[i] = c
		if len(c.Replies) > 0 {
			out[i].Replies = append([]Reply(nil), c.Replies...)
		} else {
			out[i].Replies = nil
		}
	}
	return out
}
