package genai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"fakepost/internal/domain"
	"fakepost/internal/gateway"
	"fakepost/internal/infra"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultTimeout = 90 * time.Second
)

// Options controls how the Gemini REST client is configured.
type Options struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
	Logger     *infra.Logger
}

// Client talks to the Gemini REST API. Without an API key it serves
// deterministic synthetic output so the service stays usable in local and CI
// environments.
type Client struct {
	apiKey     string
	baseURL    string
	baseHost   string
	httpClient *http.Client
	logger     *infra.Logger
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts,omitempty"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mimeType,omitempty"`
	Data     string `json:"data,omitempty"`
}

type geminiSpeechConfig struct {
	VoiceConfig geminiVoiceConfig `json:"voiceConfig"`
}

type geminiVoiceConfig struct {
	PrebuiltVoiceConfig geminiPrebuiltVoice `json:"prebuiltVoiceConfig"`
}

type geminiPrebuiltVoice struct {
	VoiceName string `json:"voiceName"`
}

type geminiGenerationConfig struct {
	Temperature        float32             `json:"temperature,omitempty"`
	CandidateCount     int                 `json:"candidateCount,omitempty"`
	ResponseMimeType   string              `json:"responseMimeType,omitempty"`
	ResponseSchema     *gateway.Schema     `json:"responseSchema,omitempty"`
	ResponseModalities []string            `json:"responseModalities,omitempty"`
	SpeechConfig       *geminiSpeechConfig `json:"speechConfig,omitempty"`
}

type geminiGenerateContentRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiCandidate struct {
	Content      geminiContent `json:"content"`
	FinishReason string        `json:"finishReason,omitempty"`
}

type geminiGenerateContentResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
}

type geminiStatus struct {
	Code    int    `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

type geminiErrorResponse struct {
	Error geminiStatus `json:"error"`
}

type veoInstance struct {
	Prompt string `json:"prompt"`
}

type veoParameters struct {
	AspectRatio     string `json:"aspectRatio,omitempty"`
	DurationSeconds int    `json:"durationSeconds,omitempty"`
	SampleCount     int    `json:"sampleCount,omitempty"`
}

type veoPredictRequest struct {
	Instances  []veoInstance `json:"instances"`
	Parameters veoParameters `json:"parameters"`
}

type veoOperation struct {
	Name     string        `json:"name"`
	Done     bool          `json:"done"`
	Error    *geminiStatus `json:"error,omitempty"`
	Response *struct {
		GenerateVideoResponse struct {
			GeneratedSamples []struct {
				Video struct {
					URI      string `json:"uri"`
					MimeType string `json:"mimeType,omitempty"`
				} `json:"video"`
			} `json:"generatedSamples"`
		} `json:"generateVideoResponse"`
	} `json:"response,omitempty"`
}

// NewClient constructs a Gemini client with sane defaults. Callers may provide
// a nil HTTP client; a reusable one with a generous timeout will be created.
func NewClient(opts Options) (*Client, error) {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("genai: parse base url: %w", err)
	}

	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		logger = &discard
	}

	return &Client{
		apiKey:     strings.TrimSpace(opts.APIKey),
		baseURL:    baseURL,
		baseHost:   strings.ToLower(parsed.Host),
		httpClient: client,
		logger:     logger,
	}, nil
}

// Synthetic reports whether the client serves placeholder output.
func (c *Client) Synthetic() bool {
	return c.apiKey == ""
}

// GenerateText requests JSON output constrained by req.Schema and returns the
// first non-empty text part.
func (c *Client) GenerateText(ctx context.Context, req gateway.TextRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if c.Synthetic() {
		return c.syntheticText(req)
	}

	payload := geminiGenerateContentRequest{
		Contents: userContent(req.Prompt),
		GenerationConfig: &geminiGenerationConfig{
			Temperature:      req.Temperature,
			CandidateCount:   1,
			ResponseMimeType: "application/json",
			ResponseSchema:   req.Schema,
		},
	}
	var response geminiGenerateContentResponse
	if err := c.invokeGemini(ctx, modelPath(req.Model, "generateContent"), payload, &response); err != nil {
		return "", err
	}
	for _, candidate := range response.Candidates {
		for _, part := range candidate.Content.Parts {
			if strings.TrimSpace(part.Text) != "" {
				c.logger.Debug().Str("model", req.Model).Int("bytes", len(part.Text)).Msg("genai: generated text")
				return part.Text, nil
			}
		}
	}
	return "", domain.Generation("text generation failed", errors.New("no text part in response"))
}

// GenerateMedia requests a single inline image or audio payload.
func (c *Client) GenerateMedia(ctx context.Context, req gateway.MediaRequest) (*gateway.Media, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if c.Synthetic() {
		return c.syntheticMedia(req), nil
	}

	config := &geminiGenerationConfig{CandidateCount: 1}
	prefix := "image/"
	failure := "image generation failed"
	switch req.Modality {
	case gateway.ModalityAudio:
		config.ResponseModalities = []string{string(gateway.ModalityAudio)}
		config.SpeechConfig = &geminiSpeechConfig{
			VoiceConfig: geminiVoiceConfig{PrebuiltVoiceConfig: geminiPrebuiltVoice{VoiceName: req.Voice}},
		}
		prefix = "audio/"
		failure = "audio generation failed"
	default:
		config.ResponseModalities = []string{"TEXT", string(gateway.ModalityImage)}
	}

	payload := geminiGenerateContentRequest{
		Contents:         userContent(req.Prompt),
		GenerationConfig: config,
	}
	var response geminiGenerateContentResponse
	if err := c.invokeGemini(ctx, modelPath(req.Model, "generateContent"), payload, &response); err != nil {
		return nil, err
	}
	for _, candidate := range response.Candidates {
		for _, part := range candidate.Content.Parts {
			if part.InlineData == nil || part.InlineData.Data == "" {
				continue
			}
			if !strings.HasPrefix(strings.ToLower(part.InlineData.MimeType), prefix) {
				continue
			}
			data, err := base64.StdEncoding.DecodeString(part.InlineData.Data)
			if err != nil {
				return nil, domain.Generation(failure, fmt.Errorf("decode inline data: %w", err))
			}
			if len(data) == 0 {
				continue
			}
			c.logger.Debug().
				Str("model", req.Model).
				Str("mime", part.InlineData.MimeType).
				Int("bytes", len(data)).
				Msg("genai: generated media")
			return &gateway.Media{MIMEType: part.InlineData.MimeType, Data: data}, nil
		}
	}
	return nil, domain.Generation(failure, errors.New("no media part in response"))
}

// SubmitVideo starts a long-running Veo generation. A response without an
// operation name yields a nil operation and no error.
func (c *Client) SubmitVideo(ctx context.Context, req gateway.VideoRequest) (*gateway.Operation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if c.Synthetic() {
		return c.syntheticOperation(req), nil
	}

	payload := veoPredictRequest{
		Instances: []veoInstance{{Prompt: req.Prompt}},
		Parameters: veoParameters{
			AspectRatio:     req.AspectRatio,
			DurationSeconds: req.DurationSeconds,
			SampleCount:     1,
		},
	}
	var op veoOperation
	if err := c.invokeGemini(ctx, modelPath(req.Model, "predictLongRunning"), payload, &op); err != nil {
		return nil, err
	}
	if op.Name == "" {
		return nil, nil
	}
	c.logger.Debug().Str("model", req.Model).Str("operation", op.Name).Msg("genai: submitted video operation")
	return op.normalize(), nil
}

// Operation re-fetches the status of op.
func (c *Client) Operation(ctx context.Context, op *gateway.Operation) (*gateway.Operation, error) {
	if op == nil || op.Name == "" {
		return nil, domain.Generation("missing operation handle", nil)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if c.Synthetic() || strings.HasPrefix(op.Name, syntheticPrefix) {
		done := *op
		done.Done = true
		return &done, nil
	}

	var out veoOperation
	if err := c.call(ctx, http.MethodGet, "/"+strings.TrimLeft(op.Name, "/"), nil, &out); err != nil {
		return nil, err
	}
	return out.normalize(), nil
}

// Download fetches an authenticated provider file and returns its body and
// content type.
func (c *Client) Download(ctx context.Context, uri string) ([]byte, string, error) {
	if strings.HasPrefix(uri, syntheticPrefix) {
		return c.syntheticDownload(uri)
	}
	target := uri
	if !strings.HasPrefix(uri, "http://") && !strings.HasPrefix(uri, "https://") {
		target = c.baseURL + "/" + strings.TrimLeft(uri, "/")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, "", fmt.Errorf("create download request: %w", err)
	}
	// The key only ever goes to the provider's own host.
	if c.apiKey != "" && strings.EqualFold(req.URL.Host, c.baseHost) {
		req.Header.Set("x-goog-api-key", c.apiKey)
	} else if c.apiKey != "" {
		c.logger.Warn().Str("host", req.URL.Host).Msg("genai: downloading from foreign host without credentials")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", domain.Transport(0, fmt.Errorf("download file: %w", err))
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, "", domain.Transport(resp.StatusCode, fmt.Errorf("download file: %s", strings.TrimSpace(string(data))))
	}

	blob, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", domain.Transport(resp.StatusCode, fmt.Errorf("read file: %w", err))
	}
	return blob, resp.Header.Get("Content-Type"), nil
}

func (c *Client) invokeGemini(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	return c.call(ctx, http.MethodPost, path, body, out)
}

func (c *Client) call(ctx context.Context, method, path string, body []byte, out any) error {
	endpoint := c.baseURL + path
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Transport(0, fmt.Errorf("invoke gemini: %w", err))
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		var apiErr geminiErrorResponse
		if err := json.Unmarshal(data, &apiErr); err == nil && apiErr.Error.Message != "" {
			return domain.Transport(resp.StatusCode, fmt.Errorf("gemini: %s", apiErr.Error.Message))
		}
		if len(data) > 0 {
			return domain.Transport(resp.StatusCode, fmt.Errorf("gemini: %s", strings.TrimSpace(string(data))))
		}
		return domain.Transport(resp.StatusCode, errors.New("gemini: empty error response"))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return domain.Generation("decode provider response", err)
	}
	return nil
}

func (op veoOperation) normalize() *gateway.Operation {
	out := &gateway.Operation{Name: op.Name, Done: op.Done}
	if op.Error != nil {
		out.Error = strings.TrimSpace(op.Error.Message)
		if out.Error == "" {
			out.Error = fmt.Sprintf("operation failed with code %d", op.Error.Code)
		}
	}
	if op.Response != nil {
		for _, sample := range op.Response.GenerateVideoResponse.GeneratedSamples {
			if sample.Video.URI == "" {
				continue
			}
			mime := sample.Video.MimeType
			if mime == "" {
				mime = "video/mp4"
			}
			out.Videos = append(out.Videos, gateway.VideoPart{URI: sample.Video.URI, MIMEType: mime})
		}
	}
	return out
}

func userContent(prompt string) []geminiContent {
	return []geminiContent{{
		Role:  "user",
		Parts: []geminiPart{{Text: prompt}},
	}}
}

func modelPath(model, method string) string {
	return fmt.Sprintf("/models/%s:%s", url.PathEscape(model), method)
}

var _ gateway.Gateway = (*Client)(nil)
