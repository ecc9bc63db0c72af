// Package orchestrator exposes the public generation operations. Every
// operation returns a domain.Result and never an error or panic.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"

	"fakepost/internal/comments"
	"fakepost/internal/domain"
	"fakepost/internal/gateway"
	"fakepost/internal/infra"
	"fakepost/internal/prompts"
	"fakepost/internal/session"
	"fakepost/internal/video"
)

const (
	MaxComments             = 20
	RandomPostComments      = 5
	defaultDecorationWindow = 3 * time.Minute
)

// User-facing failure messages.
const (
	msgContentFailed  = "An unexpected error occurred while generating the content. Please try again later."
	msgImageFailed    = "An unexpected error occurred while generating the image. Please try again later."
	msgMediaFailed    = "An unexpected error occurred while generating the media. Please try again later."
	msgAudioFailed    = "An unexpected error occurred while generating the audio. Please try again later."
	msgCommentsFailed = "An unexpected error occurred. Please try again later."
	msgRandomFailed   = "An unexpected error occurred while generating the random post. Please try again."
	msgCancelled      = "The request was cancelled."
)

// Models names the provider model used per content kind.
type Models struct {
	Text   string
	Image  string
	Speech string
	Video  string
}

// DefaultModels returns the stock model identifiers.
func DefaultModels() Models {
	return Models{
		Text:   "gemini-2.0-flash",
		Image:  "gemini-2.0-flash-preview-image-generation",
		Speech: "gemini-2.5-flash-preview-tts",
		Video:  "veo-2.0-generate-001",
	}
}

// Options configures a Service. Zero values select defaults.
type Options struct {
	Models                Models
	Voice                 string
	Poll                  video.Options
	DecorationConcurrency int
	DecorationTimeout     time.Duration
	Sessions              *session.Store
	Rand                  *rand.Rand
	Logger                *infra.Logger
}

// Service orchestrates prompt templates, the model gateway, the video
// poller and the comment decorator.
type Service struct {
	gw        gateway.Gateway
	models    Models
	voice     string
	poller    *video.Poller
	decorator *comments.Decorator
	sessions  *session.Store
	logger    *infra.Logger

	decorationTimeout time.Duration

	rngMu sync.Mutex
	rng   *rand.Rand

	background sync.WaitGroup
}

// New constructs a Service over gw.
func New(gw gateway.Gateway, opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		discard := zerolog.New(io.Discard)
		logger = &discard
	}
	models := DefaultModels()
	if opts.Models.Text != "" {
		models.Text = opts.Models.Text
	}
	if opts.Models.Image != "" {
		models.Image = opts.Models.Image
	}
	if opts.Models.Speech != "" {
		models.Speech = opts.Models.Speech
	}
	if opts.Models.Video != "" {
		models.Video = opts.Models.Video
	}
	voice := opts.Voice
	if voice == "" {
		voice = prompts.DefaultVoice
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	sessions := opts.Sessions
	if sessions == nil {
		sessions = session.NewStore(session.DefaultTTL)
	}
	timeout := opts.DecorationTimeout
	if timeout <= 0 {
		timeout = defaultDecorationWindow
	}
	poll := opts.Poll
	if poll.Logger == nil {
		poll.Logger = logger
	}

	s := &Service{
		gw:                gw,
		models:            models,
		voice:             voice,
		poller:            video.NewPoller(gw, poll),
		sessions:          sessions,
		logger:            logger,
		decorationTimeout: timeout,
		rng:               rng,
	}
	s.decorator = comments.NewDecorator(s.profilePicture, opts.DecorationConcurrency, logger)
	return s
}

// Sessions returns the session store background decoration writes into.
func (s *Service) Sessions() *session.Store {
	return s.sessions
}

// Wait blocks until every background decoration has finished.
func (s *Service) Wait() {
	s.background.Wait()
}

// GeneratePostText writes a short post about topic.
func (s *Service) GeneratePostText(ctx context.Context, topic string) (res domain.Result[string]) {
	defer recoverInto(s, &res, "post_text", msgContentFailed)
	if strings.TrimSpace(topic) == "" {
		return domain.Fail[string](domain.KindValidation, "The topic cannot be empty.")
	}
	text, err := s.postText(ctx, topic)
	if err != nil {
		return fail[string](ctx, s, "post_text", err, msgContentFailed)
	}
	return domain.Ok(text)
}

// GenerateProfilePicture renders a profile picture from a short description
// and returns it as a data URI.
func (s *Service) GenerateProfilePicture(ctx context.Context, prompt string) (res domain.Result[string]) {
	defer recoverInto(s, &res, "profile_picture", msgImageFailed)
	if strings.TrimSpace(prompt) == "" {
		return domain.Fail[string](domain.KindValidation, "The image description cannot be empty.")
	}
	url, err := s.profilePicture(ctx, prompt)
	if err != nil {
		return fail[string](ctx, s, "profile_picture", err, msgImageFailed)
	}
	return domain.Ok(url)
}

// GeneratePostMedia renders a video for video-first platforms and an image
// for every other platform.
func (s *Service) GeneratePostMedia(ctx context.Context, prompt string, platform string) (res domain.Result[domain.Media]) {
	defer recoverInto(s, &res, "post_media", msgMediaFailed)
	if strings.TrimSpace(prompt) == "" {
		return domain.Fail[domain.Media](domain.KindValidation, "The media description cannot be empty.")
	}
	p, ok := domain.ParsePlatform(platform)
	if !ok {
		return domain.Fail[domain.Media](domain.KindValidation, fmt.Sprintf("Unsupported platform %q.", platform))
	}
	media, err := s.postMedia(ctx, prompt, p)
	if err != nil {
		return fail[domain.Media](ctx, s, "post_media", err, msgMediaFailed)
	}
	return domain.Ok(media)
}

// GeneratePostAudio narrates text and returns a WAV data URI.
func (s *Service) GeneratePostAudio(ctx context.Context, text string) (res domain.Result[string]) {
	defer recoverInto(s, &res, "post_audio", msgAudioFailed)
	if strings.TrimSpace(text) == "" {
		return domain.Fail[string](domain.KindValidation, "The text to generate audio from cannot be empty.")
	}
	uri, err := s.postAudio(ctx, text)
	if err != nil {
		return fail[string](ctx, s, "post_audio", err, msgAudioFailed)
	}
	return domain.Ok(uri)
}

// GenerateComments writes count comments on postBody and decorates every
// commenter with a profile picture. Picture failures leave that commenter
// undecorated and never fail the result.
func (s *Service) GenerateComments(ctx context.Context, postBody string, count int) (res domain.Result[[]domain.Comment]) {
	defer recoverInto(s, &res, "comments", msgCommentsFailed)
	if err := validateComments(postBody, count); err != nil {
		return domain.Fail[[]domain.Comment](domain.KindValidation, domain.MessageOf(err))
	}
	list, err := s.comments(ctx, postBody, count)
	if err != nil {
		return fail[[]domain.Comment](ctx, s, "comments", err, msgCommentsFailed)
	}
	return domain.Ok(s.decorator.Decorate(ctx, list, nil))
}

func validateComments(postBody string, count int) error {
	switch {
	case strings.TrimSpace(postBody) == "":
		return domain.Validation("The post content cannot be empty.")
	case count <= 0:
		return domain.Validation("The number of comments must be greater than zero.")
	case count > MaxComments:
		return domain.Validation(fmt.Sprintf("The number of comments cannot exceed %d.", MaxComments))
	}
	return nil
}

// GenerateRandomPost invents a complete post for platform: text first, then
// profile picture, media and comments concurrently. Any sub-task failure
// fails the whole result.
func (s *Service) GenerateRandomPost(ctx context.Context, platform string) (res domain.Result[domain.RandomPostBundle]) {
	defer recoverInto(s, &res, "random_post", msgRandomFailed)
	p, ok := domain.ParsePlatform(platform)
	if !ok {
		return domain.Fail[domain.RandomPostBundle](domain.KindValidation, fmt.Sprintf("Unsupported platform %q.", platform))
	}

	s.rngMu.Lock()
	tmpl := prompts.RandomPost(s.rng, LocaleFrom(ctx))
	s.rngMu.Unlock()

	out, err := gateway.Generate[prompts.RandomPostOutput](ctx, s.gw, gateway.TextRequest{
		Model:  s.models.Text,
		Prompt: tmpl.Prompt,
		Schema: tmpl.Schema,
	})
	if err != nil {
		return fail[domain.RandomPostBundle](ctx, s, "random_post", err, msgRandomFailed)
	}
	post := out.ToDomain()
	s.logger.Debug().Str("topic", tmpl.Topic).Str("platform", string(p)).Msg("orchestrator: random post drafted")

	var (
		picture domain.Result[string]
		media   domain.Result[domain.Media]
		list    domain.Result[[]domain.Comment]
	)
	var g errgroup.Group
	g.Go(func() error {
		picture = s.GenerateProfilePicture(ctx, post.ProfilePicPrompt)
		return nil
	})
	g.Go(func() error {
		media = s.GeneratePostMedia(ctx, post.PostMediaPrompt, string(p))
		return nil
	})
	g.Go(func() error {
		list = s.GenerateComments(ctx, post.PostContent, RandomPostComments)
		return nil
	})
	_ = g.Wait()

	for _, sub := range []struct {
		ok   bool
		kind domain.Kind
		msg  string
	}{
		{picture.OK(), picture.Kind(), picture.Err()},
		{media.OK(), media.Kind(), media.Err()},
		{list.OK(), list.Kind(), list.Err()},
	} {
		if !sub.ok {
			s.logger.Error().Str("operation", "random_post").Str("cause", sub.msg).Msg("orchestrator: random post sub-task failed")
			return domain.Fail[domain.RandomPostBundle](sub.kind, "random generation failed: "+sub.msg)
		}
	}

	post.ProfilePicURL, _ = picture.Value()
	m, _ := media.Value()
	post.PostImageURL = m.ImageURL
	post.PostVideoURL = m.VideoURL
	decorated, _ := list.Value()
	return domain.Ok(domain.RandomPostBundle{Post: post, Comments: decorated})
}

// BoardComments is the immediate answer of GenerateCommentsAsync.
type BoardComments struct {
	Comments []domain.Comment `json:"comments"`
	Token    session.Token    `json:"token"`
}

// GenerateCommentsAsync writes comments, stores them undecorated on the
// session board and returns at once. Pictures are applied to the board in
// the background while the returned token is still current.
func (s *Service) GenerateCommentsAsync(ctx context.Context, sessionID, postBody string, count int) (res domain.Result[BoardComments]) {
	defer recoverInto(s, &res, "comments_async", msgCommentsFailed)
	if strings.TrimSpace(sessionID) == "" {
		return domain.Fail[BoardComments](domain.KindValidation, "The session id cannot be empty.")
	}
	if err := validateComments(postBody, count); err != nil {
		return domain.Fail[BoardComments](domain.KindValidation, domain.MessageOf(err))
	}
	list, err := s.comments(ctx, postBody, count)
	if err != nil {
		return fail[BoardComments](ctx, s, "comments_async", err, msgCommentsFailed)
	}

	board := s.sessions.Board(sessionID)
	token := board.Reset(list)

	bg, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.decorationTimeout)
	s.background.Add(1)
	go func() {
		defer s.background.Done()
		defer cancel()
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error().Interface("panic", rec).Str("session", sessionID).Msg("orchestrator: background decoration panicked")
			}
		}()
		s.decorator.Decorate(bg, list, comments.SinkFunc(func(id, url string) bool {
			return board.Apply(token, id, url)
		}))
	}()

	return domain.Ok(BoardComments{Comments: list, Token: token})
}

func (s *Service) postText(ctx context.Context, topic string) (string, error) {
	tmpl := prompts.PostText(topic, LocaleFrom(ctx))
	out, err := gateway.Generate[prompts.PostTextOutput](ctx, s.gw, gateway.TextRequest{
		Model:  s.models.Text,
		Prompt: tmpl.Prompt,
		Schema: tmpl.Schema,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out.PostContent), nil
}

func (s *Service) profilePicture(ctx context.Context, hint string) (string, error) {
	if strings.TrimSpace(hint) == "" {
		return "", domain.Validation("The image description cannot be empty.")
	}
	return s.image(ctx, prompts.ProfilePicture(hint))
}

func (s *Service) postMedia(ctx context.Context, prompt string, p domain.Platform) (domain.Media, error) {
	if p.VideoFirst() {
		tmpl := prompts.PostVideo(prompt)
		uri, err := s.poller.Generate(ctx, gateway.VideoRequest{
			Model:           s.models.Video,
			Prompt:          tmpl.Prompt,
			AspectRatio:     tmpl.AspectRatio,
			DurationSeconds: tmpl.DurationSeconds,
		})
		if err != nil {
			return domain.Media{}, err
		}
		return domain.Media{VideoURL: uri}, nil
	}
	uri, err := s.image(ctx, prompts.PostImage(prompt))
	if err != nil {
		return domain.Media{}, err
	}
	return domain.Media{ImageURL: uri}, nil
}

func (s *Service) image(ctx context.Context, tmpl prompts.Template) (string, error) {
	media, err := s.gw.GenerateMedia(ctx, gateway.MediaRequest{
		Model:    s.models.Image,
		Prompt:   tmpl.Prompt,
		Modality: gateway.ModalityImage,
	})
	if err != nil {
		return "", err
	}
	if media == nil || len(media.Data) == 0 {
		return "", domain.Generation("image generation failed", nil)
	}
	return media.DataURI(), nil
}

func (s *Service) comments(ctx context.Context, postBody string, count int) ([]domain.Comment, error) {
	tmpl := prompts.Comments(postBody, count, nil, LocaleFrom(ctx))
	out, err := gateway.Generate[prompts.CommentsOutput](ctx, s.gw, gateway.TextRequest{
		Model:  s.models.Text,
		Prompt: tmpl.Prompt,
		Schema: tmpl.Schema,
	})
	if err != nil {
		return nil, err
	}
	return comments.AssignIDs(out.ToDomain()), nil
}

// fail converts err into a failed Result. Validation messages surface
// verbatim; everything else is logged and replaced by userMessage.
func fail[T any](ctx context.Context, s *Service, op string, err error, userMessage string) domain.Result[T] {
	kind := domain.KindOf(err)
	if kind == domain.KindValidation {
		return domain.Fail[T](kind, domain.MessageOf(err))
	}
	if errors.Is(err, domain.ErrCancelled) || errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
		s.logger.Info().Str("operation", op).Msg("orchestrator: generation cancelled")
		return domain.Fail[T](domain.KindGeneration, msgCancelled)
	}
	s.logger.Error().Err(err).Str("operation", op).Str("kind", string(kind)).Msg("orchestrator: generation failed")
	return domain.Fail[T](kind, userMessage)
}

// recoverInto must be deferred directly so recover sees the panic.
func recoverInto[T any](s *Service, res *domain.Result[T], op, userMessage string) {
	rec := recover()
	if rec == nil {
		return
	}
	s.logger.Error().Interface("panic", rec).Bytes("stack", debug.Stack()).Str("operation", op).Msg("orchestrator: recovered panic")
	*res = domain.Fail[T](domain.KindGeneration, userMessage)
}

type localeKey struct{}

// WithLocale returns a context whose generations write in tag's language.
func WithLocale(ctx context.Context, tag language.Tag) context.Context {
	return context.WithValue(ctx, localeKey{}, tag)
}

// LocaleFrom returns the generation language stored in ctx, English by
// default.
func LocaleFrom(ctx context.Context) language.Tag {
	if tag, ok := ctx.Value(localeKey{}).(language.Tag); ok {
		return tag
	}
	return language.English
}
