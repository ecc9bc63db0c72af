package domain

// Media is generated post media. Exactly one of ImageURL or VideoURL is set.
type Media struct {
	ImageURL string `json:"imageUrl,omitempty"`
	VideoURL string `json:"videoUrl,omitempty"`
}

// RandomPost is the text bundle of a randomly generated post plus the media
// resolved for it.
type RandomPost struct {
	ProfileName      string `json:"profileName"`
	Username         string `json:"username"`
	ProfilePicPrompt string `json:"profilePicPrompt"`
	PostContent      string `json:"postContent"`
	PostMediaPrompt  string `json:"postMediaPrompt"`
	ProfilePicURL    string `json:"profilePicUrl,omitempty"`
	PostImageURL     string `json:"postImageUrl,omitempty"`
	PostVideoURL     string `json:"postVideoUrl,omitempty"`
}

// RandomPostBundle is the composite result of a random post generation.
type RandomPostBundle struct {
	Post     RandomPost `json:"post"`
	Comments []Comment  `json:"comments"`
}
