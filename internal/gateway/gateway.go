// Package gateway defines the boundary to the generative model provider and
// the structured-output helpers every backend shares.
package gateway

import (
	"context"
	"encoding/base64"
	"strings"
)

// Modality selects the media a MediaRequest asks for.
type Modality string

const (
	ModalityImage Modality = "IMAGE"
	ModalityAudio Modality = "AUDIO"
)

// TextRequest asks for JSON text matching Schema.
type TextRequest struct {
	Model       string
	Prompt      string
	Schema      *Schema
	Temperature float32
}

// MediaRequest asks for a single inline media payload.
type MediaRequest struct {
	Model    string
	Prompt   string
	Modality Modality
	// Voice is the prebuilt voice preset for audio requests.
	Voice string
}

// Media is an inline media payload returned by the provider.
type Media struct {
	MIMEType string
	Data     []byte
}

// DataURI renders m as a data: URI.
func (m *Media) DataURI() string {
	if m == nil {
		return ""
	}
	return DataURI(m.MIMEType, m.Data)
}

// DataURI base64-encodes data under the given MIME type.
func DataURI(mimeType string, data []byte) string {
	var b strings.Builder
	b.Grow(len(mimeType) + base64.StdEncoding.EncodedLen(len(data)) + 13)
	b.WriteString("data:")
	b.WriteString(mimeType)
	b.WriteString(";base64,")
	b.WriteString(base64.StdEncoding.EncodeToString(data))
	return b.String()
}

// VideoRequest submits a long-running video generation.
type VideoRequest struct {
	Model           string
	Prompt          string
	AspectRatio     string
	DurationSeconds int
}

// VideoPart is one located output of a finished video operation. URI is a
// temporary, authenticated location.
type VideoPart struct {
	URI      string
	MIMEType string
}

// Operation is a handle on an in-progress remote video generation.
type Operation struct {
	Name   string
	Done   bool
	Error  string
	Videos []VideoPart
}

// Gateway issues requests to the generative model provider.
type Gateway interface {
	GenerateText(ctx context.Context, req TextRequest) (string, error)
	GenerateMedia(ctx context.Context, req MediaRequest) (*Media, error)
	SubmitVideo(ctx context.Context, req VideoRequest) (*Operation, error)
	Operation(ctx context.Context, op *Operation) (*Operation, error)
	Download(ctx context.Context, uri string) ([]byte, string, error)
}
