// Package video drives long-running video generations to completion and
// materializes the result as a data URI.
package video

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"fakepost/internal/domain"
	"fakepost/internal/gateway"
	"fakepost/internal/infra"
)

const (
	DefaultInterval    = 5 * time.Second
	DefaultMaxAttempts = 60
	DefaultTimeout     = 6 * time.Minute
	defaultMIME        = "video/mp4"
)

// Options bounds a Poller. Zero values select the defaults.
type Options struct {
	Interval    time.Duration
	MaxAttempts int
	Timeout     time.Duration
	Logger      *infra.Logger
}

// Poller submits a video request and waits for the operation to finish.
type Poller struct {
	gw          gateway.Gateway
	interval    time.Duration
	maxAttempts int
	timeout     time.Duration
	logger      *infra.Logger
}

// NewPoller constructs a Poller over gw.
func NewPoller(gw gateway.Gateway, opts Options) *Poller {
	p := &Poller{
		gw:          gw,
		interval:    opts.Interval,
		maxAttempts: opts.MaxAttempts,
		timeout:     opts.Timeout,
		logger:      opts.Logger,
	}
	if p.interval <= 0 {
		p.interval = DefaultInterval
	}
	if p.maxAttempts <= 0 {
		p.maxAttempts = DefaultMaxAttempts
	}
	if p.timeout <= 0 {
		p.timeout = DefaultTimeout
	}
	if p.logger == nil {
		discard := zerolog.New(io.Discard)
		p.logger = &discard
	}
	return p
}

// Generate submits req, polls until the operation is done and downloads the
// first video part. Polling stops when ctx is cancelled, the attempt budget
// is spent or the wall-clock timeout expires.
func (p *Poller) Generate(ctx context.Context, req gateway.VideoRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	op, err := p.gw.SubmitVideo(ctx, req)
	if err != nil {
		return "", p.contextError(ctx, err)
	}
	if op == nil {
		return "", domain.Generation("expected the model to return an operation", nil)
	}

	attempts := 0
	for !op.Done {
		if attempts >= p.maxAttempts {
			return "", domain.Timeout(fmt.Sprintf("video generation did not finish after %d polls", attempts), nil)
		}
		if err := p.wait(ctx); err != nil {
			return "", p.contextError(ctx, err)
		}
		attempts++
		next, err := p.gw.Operation(ctx, op)
		if err != nil {
			return "", p.contextError(ctx, err)
		}
		if next == nil {
			return "", domain.Generation("operation status unavailable", nil)
		}
		op = next
		p.logger.Debug().Str("operation", op.Name).Int("attempt", attempts).Bool("done", op.Done).Msg("video: polled operation")
	}

	if op.Error != "" {
		return "", domain.Generation("video generation failed: "+op.Error, nil)
	}

	part, ok := firstVideo(op.Videos)
	if !ok {
		return "", domain.Generation("failed to find the generated video", nil)
	}

	data, contentType, err := p.gw.Download(ctx, part.URI)
	if err != nil {
		return "", p.contextError(ctx, err)
	}
	mime := part.MIMEType
	if mime == "" {
		mime = strings.TrimSpace(strings.Split(contentType, ";")[0])
	}
	if !strings.HasPrefix(mime, "video/") {
		mime = defaultMIME
	}
	return gateway.DataURI(mime, data), nil
}

func (p *Poller) wait(ctx context.Context) error {
	timer := time.NewTimer(p.interval)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// contextError turns an expired deadline into a Timeout failure and a
// caller cancellation into domain.ErrCancelled.
func (p *Poller) contextError(ctx context.Context, err error) error {
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return domain.Timeout(fmt.Sprintf("video generation exceeded %s", p.timeout), err)
	case errors.Is(ctx.Err(), context.Canceled):
		return fmt.Errorf("%w: %w", domain.ErrCancelled, err)
	}
	return err
}

func firstVideo(parts []gateway.VideoPart) (gateway.VideoPart, bool) {
	for _, part := range parts {
		if part.URI == "" {
			continue
		}
		if strings.HasPrefix(part.MIMEType, "video/") {
			return part, true
		}
	}
	return gateway.VideoPart{}, false
}
