// Package gemini implements gateway.Gateway on the official
// google.golang.org/genai SDK. Downloads of generated files still go through
// the REST client, which already authenticates plain file URIs.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"fakepost/internal/domain"
	"fakepost/internal/gateway"
	"fakepost/internal/infra"
	rest "fakepost/internal/providers/genai"
)

// Options configures the SDK backend.
type Options struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
	Logger     *infra.Logger
}

// Client adapts genai.Client to gateway.Gateway.
type Client struct {
	sdk    *genai.Client
	files  *rest.Client
	logger *infra.Logger
}

// NewClient builds an SDK backed gateway. An API key is required; the
// synthetic mode lives in the REST backend only.
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	key := strings.TrimSpace(opts.APIKey)
	if key == "" {
		return nil, errors.New("gemini: api key is required for the sdk backend")
	}
	logger := opts.Logger
	if logger == nil {
		discard := zerolog.New(io.Discard)
		logger = &discard
	}

	cfg := &genai.ClientConfig{
		APIKey:     key,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: opts.HTTPClient,
	}
	if opts.BaseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: opts.BaseURL}
	}
	sdk, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini: create sdk client: %w", err)
	}
	files, err := rest.NewClient(rest.Options{APIKey: key, HTTPClient: opts.HTTPClient, Logger: logger})
	if err != nil {
		return nil, err
	}
	return &Client{sdk: sdk, files: files, logger: logger}, nil
}

func (c *Client) GenerateText(ctx context.Context, req gateway.TextRequest) (string, error) {
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   convertSchema(req.Schema),
	}
	if req.Temperature > 0 {
		t := req.Temperature
		cfg.Temperature = &t
	}
	resp, err := c.sdk.Models.GenerateContent(ctx, req.Model, genai.Text(req.Prompt), cfg)
	if err != nil {
		return "", mapError(err)
	}
	for _, part := range parts(resp) {
		if strings.TrimSpace(part.Text) != "" {
			return part.Text, nil
		}
	}
	return "", domain.Generation("the model returned no text", nil)
}

func (c *Client) GenerateMedia(ctx context.Context, req gateway.MediaRequest) (*gateway.Media, error) {
	cfg := &genai.GenerateContentConfig{}
	switch req.Modality {
	case gateway.ModalityAudio:
		cfg.ResponseModalities = []string{"AUDIO"}
		cfg.SpeechConfig = &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: req.Voice},
			},
		}
	default:
		cfg.ResponseModalities = []string{"TEXT", "IMAGE"}
	}
	resp, err := c.sdk.Models.GenerateContent(ctx, req.Model, genai.Text(req.Prompt), cfg)
	if err != nil {
		return nil, mapError(err)
	}
	return inlineMedia(resp, req.Modality)
}

// inlineMedia returns the first inline payload whose MIME type matches
// modality.
func inlineMedia(resp *genai.GenerateContentResponse, modality gateway.Modality) (*gateway.Media, error) {
	prefix, failure := "image/", "image generation failed"
	if modality == gateway.ModalityAudio {
		prefix, failure = "audio/", "audio generation failed"
	}
	for _, part := range parts(resp) {
		if part.InlineData == nil || len(part.InlineData.Data) == 0 {
			continue
		}
		if !strings.HasPrefix(strings.ToLower(part.InlineData.MIMEType), prefix) {
			continue
		}
		return &gateway.Media{MIMEType: part.InlineData.MIMEType, Data: part.InlineData.Data}, nil
	}
	return nil, domain.Generation(failure, errors.New("no media part in response"))
}

func (c *Client) SubmitVideo(ctx context.Context, req gateway.VideoRequest) (*gateway.Operation, error) {
	cfg := &genai.GenerateVideosConfig{
		NumberOfVideos: 1,
		AspectRatio:    req.AspectRatio,
	}
	if req.DurationSeconds > 0 {
		d := int32(req.DurationSeconds)
		cfg.DurationSeconds = &d
	}
	op, err := c.sdk.Models.GenerateVideos(ctx, req.Model, req.Prompt, nil, cfg)
	if err != nil {
		return nil, mapError(err)
	}
	if op == nil {
		return nil, nil
	}
	return normalizeOperation(op), nil
}

func (c *Client) Operation(ctx context.Context, op *gateway.Operation) (*gateway.Operation, error) {
	if op == nil || op.Name == "" {
		return nil, domain.Generation("operation name is required", nil)
	}
	next, err := c.sdk.Operations.GetVideosOperation(ctx, &genai.GenerateVideosOperation{Name: op.Name}, nil)
	if err != nil {
		return nil, mapError(err)
	}
	return normalizeOperation(next), nil
}

func (c *Client) Download(ctx context.Context, uri string) ([]byte, string, error) {
	return c.files.Download(ctx, uri)
}

func parts(resp *genai.GenerateContentResponse) []*genai.Part {
	if resp == nil {
		return nil
	}
	var out []*genai.Part
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, p := range cand.Content.Parts {
			if p != nil {
				out = append(out, p)
			}
		}
	}
	return out
}

func convertSchema(s *gateway.Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{
		Type:             genai.Type(s.Type),
		Description:      s.Description,
		PropertyOrdering: append([]string(nil), s.PropertyOrdering...),
		Required:         append([]string(nil), s.Required...),
		Items:            convertSchema(s.Items),
		MinItems:         s.MinItems,
		MaxItems:         s.MaxItems,
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = convertSchema(prop)
		}
	}
	return out
}

func normalizeOperation(op *genai.GenerateVideosOperation) *gateway.Operation {
	if op == nil {
		return nil
	}
	out := &gateway.Operation{Name: op.Name, Done: op.Done}
	if len(op.Error) > 0 {
		if msg, _ := op.Error["message"].(string); strings.TrimSpace(msg) != "" {
			out.Error = strings.TrimSpace(msg)
		} else {
			out.Error = fmt.Sprintf("operation failed: %v", op.Error)
		}
	}
	if op.Response != nil {
		for _, gen := range op.Response.GeneratedVideos {
			if gen == nil || gen.Video == nil || gen.Video.URI == "" {
				continue
			}
			mime := gen.Video.MIMEType
			if mime == "" {
				mime = "video/mp4"
			}
			out.Videos = append(out.Videos, gateway.VideoPart{URI: gen.Video.URI, MIMEType: mime})
		}
	}
	return out
}

// mapError turns SDK API errors into transport failures carrying the status.
func mapError(err error) error {
	var apiErr *genai.APIError
	if errors.As(err, &apiErr) {
		return domain.Transport(apiErr.Code, fmt.Errorf("gemini: %s", apiErr.Message))
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return err
	}
	return domain.Transport(0, fmt.Errorf("gemini: %w", err))
}

var _ gateway.Gateway = (*Client)(nil)
