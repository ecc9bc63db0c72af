package orchestrator

import (
	"context"

	"fakepost/internal/audio"
	"fakepost/internal/domain"
	"fakepost/internal/gateway"
	"fakepost/internal/prompts"
)

func (s *Service) postAudio(ctx context.Context, text string) (string, error) {
	tmpl := prompts.PostAudio(text)
	media, err := s.gw.GenerateMedia(ctx, gateway.MediaRequest{
		Model:    s.models.Speech,
		Prompt:   tmpl.Prompt,
		Modality: gateway.ModalityAudio,
		Voice:    s.voice,
	})
	if err != nil {
		return "", err
	}
	if media == nil || len(media.Data) == 0 {
		return "", domain.Generation("audio generation failed", nil)
	}
	uri, err := audio.DataURI(media.Data, audio.FormatFromMIME(media.MIMEType))
	if err != nil {
		return "", domain.Generation("audio encoding failed", err)
	}
	return uri, nil
}
