// Command genctl runs one generation from the command line and prints the
// result as JSON.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"fakepost/internal/bootstrap"
	"fakepost/internal/infra"
	"fakepost/internal/orchestrator"
	"fakepost/internal/prompts"
)

type options struct {
	kind     string
	input    string
	platform string
	count    int
	locale   string
}

func main() {
	_ = godotenv.Load()

	var opts options
	flag.StringVar(&opts.kind, "kind", "text", "generation kind: text|picture|media|audio|comments|random")
	flag.StringVar(&opts.input, "input", "", "topic, prompt, text or post body depending on -kind")
	flag.StringVar(&opts.platform, "platform", "facebook", "target platform for media and random posts")
	flag.IntVar(&opts.count, "count", 3, "number of comments for -kind comments")
	flag.StringVar(&opts.locale, "locale", "en", "language the generated text is written in")
	flag.Parse()

	cfg, err := infra.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger := infra.NewLogger(cfg.AppEnv).With().Str("cmd", "genctl").Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gw, err := bootstrap.Gateway(ctx, cfg, bootstrap.APIKey(ctx, cfg, nil, &logger), &logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "gateway: %v\n", err)
		os.Exit(1)
	}
	svc := bootstrap.Orchestrator(cfg, gw, nil, &logger)

	ok, err := run(orchestrator.WithLocale(ctx, prompts.ParseLocale(opts.locale)), svc, opts, os.Stdout)
	svc.Wait()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if !ok {
		os.Exit(1)
	}
}

var errUnknownKind = errors.New("unknown -kind")

// run dispatches one generation and writes its JSON result to w. It reports
// whether the generation succeeded.
func run(ctx context.Context, svc *orchestrator.Service, opts options, w io.Writer) (bool, error) {
	var (
		result any
		ok     bool
	)
	switch opts.kind {
	case "text":
		res := svc.GeneratePostText(ctx, opts.input)
		result, ok = res, res.OK()
	case "picture":
		res := svc.GenerateProfilePicture(ctx, opts.input)
		result, ok = res, res.OK()
	case "media":
		res := svc.GeneratePostMedia(ctx, opts.input, opts.platform)
		result, ok = res, res.OK()
	case "audio":
		res := svc.GeneratePostAudio(ctx, opts.input)
		result, ok = res, res.OK()
	case "comments":
		res := svc.GenerateComments(ctx, opts.input, opts.count)
		result, ok = res, res.OK()
	case "random":
		res := svc.GenerateRandomPost(ctx, opts.platform)
		result, ok = res, res.OK()
	default:
		return false, fmt.Errorf("%w %q", errUnknownKind, opts.kind)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return false, err
	}
	return ok, nil
}
