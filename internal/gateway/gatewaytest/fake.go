// Package gatewaytest provides a programmable gateway.Gateway for tests.
package gatewaytest

import (
	"context"
	"errors"
	"sync"

	"fakepost/internal/gateway"
)

// Fake dispatches each gateway call to the matching function field and
// records how many times it was invoked. Unset functions return an error.
type Fake struct {
	TextFunc      func(ctx context.Context, req gateway.TextRequest) (string, error)
	MediaFunc     func(ctx context.Context, req gateway.MediaRequest) (*gateway.Media, error)
	SubmitFunc    func(ctx context.Context, req gateway.VideoRequest) (*gateway.Operation, error)
	OperationFunc func(ctx context.Context, op *gateway.Operation) (*gateway.Operation, error)
	DownloadFunc  func(ctx context.Context, uri string) ([]byte, string, error)

	mu            sync.Mutex
	textCalls     []gateway.TextRequest
	mediaCalls    []gateway.MediaRequest
	submitCalls   int
	opCalls       int
	downloadCalls int
}

var errNotStubbed = errors.New("gatewaytest: call not stubbed")

func (f *Fake) GenerateText(ctx context.Context, req gateway.TextRequest) (string, error) {
	f.mu.Lock()
	f.textCalls = append(f.textCalls, req)
	f.mu.Unlock()
	if f.TextFunc == nil {
		return "", errNotStubbed
	}
	return f.TextFunc(ctx, req)
}

func (f *Fake) GenerateMedia(ctx context.Context, req gateway.MediaRequest) (*gateway.Media, error) {
	f.mu.Lock()
	f.mediaCalls = append(f.mediaCalls, req)
	f.mu.Unlock()
	if f.MediaFunc == nil {
		return nil, errNotStubbed
	}
	return f.MediaFunc(ctx, req)
}

func (f *Fake) SubmitVideo(ctx context.Context, req gateway.VideoRequest) (*gateway.Operation, error) {
	f.mu.Lock()
	f.submitCalls++
	f.mu.Unlock()
	if f.SubmitFunc == nil {
		return nil, errNotStubbed
	}
	return f.SubmitFunc(ctx, req)
}

func (f *Fake) Operation(ctx context.Context, op *gateway.Operation) (*gateway.Operation, error) {
	f.mu.Lock()
	f.opCalls++
	f.mu.Unlock()
	if f.OperationFunc == nil {
		return nil, errNotStubbed
	}
	return f.OperationFunc(ctx, op)
}

func (f *Fake) Download(ctx context.Context, uri string) ([]byte, string, error) {
	f.mu.Lock()
	f.downloadCalls++
	f.mu.Unlock()
	if f.DownloadFunc == nil {
		return nil, "", errNotStubbed
	}
	return f.DownloadFunc(ctx, uri)
}

// TextCalls returns the recorded text requests.
func (f *Fake) TextCalls() []gateway.TextRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]gateway.TextRequest(nil), f.textCalls...)
}

// MediaCalls returns the recorded media requests.
func (f *Fake) MediaCalls() []gateway.MediaRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]gateway.MediaRequest(nil), f.mediaCalls...)
}

// SubmitCalls returns how many video submissions were made.
func (f *Fake) SubmitCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitCalls
}

// OperationCalls returns how many operation polls were made.
func (f *Fake) OperationCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.opCalls
}

// DownloadCalls returns how many downloads were made.
func (f *Fake) DownloadCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.downloadCalls
}

// TotalCalls returns the number of gateway calls of any kind.
func (f *Fake) TotalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.textCalls) + len(f.mediaCalls) + f.submitCalls + f.opCalls + f.downloadCalls
}

var _ gateway.Gateway = (*Fake)(nil)
