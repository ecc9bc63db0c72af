package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"google.golang.org/genai"

	"fakepost/internal/domain"
	"fakepost/internal/gateway"
)

func TestConvertSchema(t *testing.T) {
	in := gateway.Object(
		gateway.Field{Name: "comments", Schema: gateway.Array(gateway.Object(
			gateway.Field{Name: "name", Schema: gateway.String("display name")},
		), "comments").WithItemCount(3, 3)},
	)
	out := convertSchema(in)
	if out.Type != genai.TypeObject || len(out.Required) != 1 || out.Required[0] != "comments" {
		t.Fatalf("root = %+v", out)
	}
	arr := out.Properties["comments"]
	if arr == nil || arr.Type != genai.TypeArray || *arr.MinItems != 3 || *arr.MaxItems != 3 {
		t.Fatalf("comments = %+v", arr)
	}
	if arr.Items.Properties["name"].Description != "display name" {
		t.Fatalf("items = %+v", arr.Items)
	}
	if convertSchema(nil) != nil {
		t.Fatal("nil schema converted")
	}
}

func TestNormalizeOperation(t *testing.T) {
	tests := []struct {
		name   string
		op     *genai.GenerateVideosOperation
		done   bool
		errMsg string
		videos int
	}{
		{"pending", &genai.GenerateVideosOperation{Name: "ops/1"}, false, "", 0},
		{"failed", &genai.GenerateVideosOperation{Name: "ops/1", Done: true, Error: map[string]any{"message": "blocked"}}, true, "blocked", 0},
		{"done", &genai.GenerateVideosOperation{Name: "ops/1", Done: true, Response: &genai.GenerateVideosResponse{
			GeneratedVideos: []*genai.GeneratedVideo{{Video: &genai.Video{URI: "https://files/v"}}, {Video: &genai.Video{}}},
		}}, true, "", 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := normalizeOperation(tc.op)
			if got.Done != tc.done || got.Error != tc.errMsg || len(got.Videos) != tc.videos {
				t.Fatalf("got %+v", got)
			}
			if tc.videos > 0 && got.Videos[0].MIMEType != "video/mp4" {
				t.Fatalf("mime = %q", got.Videos[0].MIMEType)
			}
		})
	}
}

func TestMapError(t *testing.T) {
	err := mapError(fmt.Errorf("call: %w", &genai.APIError{Code: http.StatusTooManyRequests, Message: "quota"}))
	var de *domain.Error
	if !errors.As(err, &de) || de.Kind != domain.KindTransport || de.Status != http.StatusTooManyRequests {
		t.Fatalf("err = %v", err)
	}
	if !errors.Is(mapError(context.Canceled), context.Canceled) {
		t.Fatal("cancellation not preserved")
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewClient(context.Background(), Options{}); err == nil {
		t.Fatal("expected error without api key")
	}
}

func TestInlineMediaFiltersByModality(t *testing.T) {
	resp := &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: []*genai.Part{
		{Text: "here you go"},
		{InlineData: &genai.Blob{MIMEType: "application/octet-stream", Data: []byte{9}}},
		{InlineData: &genai.Blob{MIMEType: "audio/L16;codec=pcm;rate=24000", Data: []byte{1, 0}}},
		{InlineData: &genai.Blob{MIMEType: "image/png", Data: []byte{1, 2, 3}}},
	}}}}}

	tests := []struct {
		modality gateway.Modality
		wantMIME string
	}{
		{gateway.ModalityImage, "image/png"},
		{gateway.ModalityAudio, "audio/L16;codec=pcm;rate=24000"},
	}
	for _, tc := range tests {
		media, err := inlineMedia(resp, tc.modality)
		if err != nil {
			t.Fatalf("%s: %v", tc.modality, err)
		}
		if media.MIMEType != tc.wantMIME {
			t.Fatalf("%s: mime = %q, want %q", tc.modality, media.MIMEType, tc.wantMIME)
		}
	}

	textOnly := &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{Content: &genai.Content{Parts: []*genai.Part{
		{InlineData: &genai.Blob{MIMEType: "text/plain", Data: []byte("no")}},
	}}}}}
	_, err := inlineMedia(textOnly, gateway.ModalityImage)
	if domain.KindOf(err) != domain.KindGeneration || domain.MessageOf(err) != "image generation failed" {
		t.Fatalf("err = %v", err)
	}
}
