package handlers

import (
	"net/http"

	"fakepost/internal/domain"
)

type postTextRequest struct {
	Topic string `json:"topic"`
}

type postTextResponse struct {
	PostContent string `json:"postContent"`
}

func (a *App) PostText(w http.ResponseWriter, r *http.Request) {
	var req postTextRequest
	if !a.decode(w, r, &req) {
		return
	}
	res := a.Gen.GeneratePostText(generationContext(r), req.Topic)
	respond(a, w, res, func(v string) any { return postTextResponse{PostContent: v} })
}

type profilePictureRequest struct {
	Prompt string `json:"prompt"`
}

type imageResponse struct {
	ImageURL string `json:"imageUrl"`
}

func (a *App) ProfilePicture(w http.ResponseWriter, r *http.Request) {
	var req profilePictureRequest
	if !a.decode(w, r, &req) {
		return
	}
	res := a.Gen.GenerateProfilePicture(generationContext(r), req.Prompt)
	respond(a, w, res, func(v string) any { return imageResponse{ImageURL: v} })
}

type postMediaRequest struct {
	Prompt   string `json:"prompt"`
	Platform string `json:"platform"`
}

func (a *App) PostMedia(w http.ResponseWriter, r *http.Request) {
	var req postMediaRequest
	if !a.decode(w, r, &req) {
		return
	}
	res := a.Gen.GeneratePostMedia(generationContext(r), req.Prompt, req.Platform)
	respond(a, w, res, func(v domain.Media) any { return v })
}

type postAudioRequest struct {
	Text string `json:"text"`
}

type postAudioResponse struct {
	AudioDataURI string `json:"audioDataUri"`
}

func (a *App) PostAudio(w http.ResponseWriter, r *http.Request) {
	var req postAudioRequest
	if !a.decode(w, r, &req) {
		return
	}
	res := a.Gen.GeneratePostAudio(generationContext(r), req.Text)
	respond(a, w, res, func(v string) any { return postAudioResponse{AudioDataURI: v} })
}

type commentsRequest struct {
	PostContent      string `json:"postContent"`
	NumberOfComments int    `json:"numberOfComments"`
}

type commentsResponse struct {
	Comments []domain.Comment `json:"comments"`
}

func (a *App) Comments(w http.ResponseWriter, r *http.Request) {
	var req commentsRequest
	if !a.decode(w, r, &req) {
		return
	}
	res := a.Gen.GenerateComments(generationContext(r), req.PostContent, req.NumberOfComments)
	respond(a, w, res, func(v []domain.Comment) any { return commentsResponse{Comments: v} })
}

type randomPostRequest struct {
	Platform string `json:"platform"`
}

func (a *App) RandomPost(w http.ResponseWriter, r *http.Request) {
	var req randomPostRequest
	if !a.decode(w, r, &req) {
		return
	}
	res := a.Gen.GenerateRandomPost(generationContext(r), req.Platform)
	respond(a, w, res, func(v domain.RandomPostBundle) any { return v })
}
