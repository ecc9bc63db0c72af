// Package comments assigns identities to generated comments and decorates
// every commenter with a profile picture.
package comments

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"fakepost/internal/domain"
	"fakepost/internal/infra"
)

const DefaultConcurrency = 8

// PictureFunc produces a profile picture URL for a hint.
type PictureFunc func(ctx context.Context, hint string) (string, error)

// Sink receives each picture as soon as it is ready. Apply reports whether
// the update was accepted.
type Sink interface {
	Apply(id, url string) bool
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(id, url string) bool

func (f SinkFunc) Apply(id, url string) bool { return f(id, url) }

// Decorator fans one picture request out per commenter.
type Decorator struct {
	picture     PictureFunc
	concurrency int
	logger      *infra.Logger
}

// NewDecorator constructs a Decorator. A concurrency below one selects
// DefaultConcurrency.
func NewDecorator(picture PictureFunc, concurrency int, logger *infra.Logger) *Decorator {
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}
	if logger == nil {
		discard := zerolog.New(io.Discard)
		logger = &discard
	}
	return &Decorator{picture: picture, concurrency: concurrency, logger: logger}
}

type subject struct {
	id   string
	hint string
}

// Decorate requests a picture for every comment and reply and returns a
// decorated copy of comments. Failed subjects keep an empty picture URL.
// Each success is also handed to sink when sink is non-nil.
func (d *Decorator) Decorate(ctx context.Context, comments []domain.Comment, sink Sink) []domain.Comment {
	subjects := flatten(comments)
	if len(subjects) == 0 {
		return domain.CloneComments(comments)
	}

	var (
		mu       sync.Mutex
		pictures = make(map[string]string, len(subjects))
		failed   int
	)

	var g errgroup.Group
	g.SetLimit(d.concurrency)
	for _, s := range subjects {
		g.Go(func() error {
			url, err := d.picture(ctx, s.hint)
			if err == nil && url == "" {
				err = domain.Generation("empty picture", nil)
			}
			if err != nil {
				d.logger.Debug().Err(err).Str("comment_id", s.id).Msg("comments: picture failed")
				mu.Lock()
				failed++
				mu.Unlock()
				return nil
			}
			mu.Lock()
			pictures[s.id] = url
			mu.Unlock()
			if sink != nil {
				sink.Apply(s.id, url)
			}
			return nil
		})
	}
	_ = g.Wait()

	if failed > 0 {
		d.logger.Warn().Int("failed", failed).Int("total", len(subjects)).Msg("comments: partial decoration failure")
	}
	return Merge(comments, pictures)
}

// Merge returns a copy of comments with picture URLs applied by id. Entries
// missing from pictures keep their current URL.
func Merge(comments []domain.Comment, pictures map[string]string) []domain.Comment {
	out := domain.CloneComments(comments)
	for i := range out {
		if url, ok := pictures[out[i].ID]; ok {
			out[i].ProfilePicURL = url
		}
		for j := range out[i].Replies {
			if url, ok := pictures[out[i].Replies[j].ID]; ok {
				out[i].Replies[j].ProfilePicURL = url
			}
		}
	}
	return out
}

// AssignIDs returns a copy of comments where every comment and reply has a
// unique id. Empty reply lists are normalised to absent.
func AssignIDs(comments []domain.Comment) []domain.Comment {
	out := domain.CloneComments(comments)
	for i := range out {
		if strings.TrimSpace(out[i].ID) == "" {
			out[i].ID = uuid.NewString()
		}
		for j := range out[i].Replies {
			if strings.TrimSpace(out[i].Replies[j].ID) == "" {
				out[i].Replies[j].ID = uuid.NewString()
			}
		}
	}
	return out
}

func flatten(comments []domain.Comment) []subject {
	var out []subject
	for _, c := range comments {
		out = append(out, subject{id: c.ID, hint: c.ProfilePicHint})
		for _, r := range c.Replies {
			out = append(out, subject{id: r.ID, hint: r.ProfilePicHint})
		}
	}
	return out
}
