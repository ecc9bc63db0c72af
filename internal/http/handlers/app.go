package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"fakepost/internal/domain"
	"fakepost/internal/infra"
	"fakepost/internal/middleware"
	"fakepost/internal/orchestrator"
	"fakepost/internal/prompts"
	"fakepost/internal/templates"
)

const maxBodyBytes = 1 << 20

type App struct {
	Gen       *orchestrator.Service
	Templates *templates.Service
	Logger    *infra.Logger
}

func NewApp(gen *orchestrator.Service, tmpl *templates.Service, logger *infra.Logger) *App {
	if logger == nil {
		discard := zerolog.New(io.Discard)
		logger = &discard
	}
	return &App{Gen: gen, Templates: tmpl, Logger: logger}
}

type errorResponse struct {
	Error string `json:"error"`
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, message string) {
	a.json(w, code, errorResponse{Error: message})
}

// decode reads a JSON body into dst and answers 400 itself on failure.
func (a *App) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			a.error(w, http.StatusRequestEntityTooLarge, "The request body is too large.")
			return false
		}
		a.error(w, http.StatusBadRequest, "The request body is not valid JSON.")
		return false
	}
	return true
}

// generationContext carries the request's negotiated locale into the
// orchestrator.
func generationContext(r *http.Request) context.Context {
	ctx := r.Context()
	return orchestrator.WithLocale(ctx, prompts.ParseLocale(middleware.LocaleFromContext(ctx)))
}

func statusFor(kind domain.Kind) int {
	switch kind {
	case "":
		return http.StatusOK
	case domain.KindValidation:
		return http.StatusUnprocessableEntity
	case domain.KindTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

// respond writes a successful result through shape, or the uniform error
// body with the status matching the failure kind.
func respond[T any](a *App, w http.ResponseWriter, res domain.Result[T], shape func(T) any) {
	v, ok := res.Value()
	if !ok {
		a.error(w, statusFor(res.Kind()), res.Err())
		return
	}
	a.json(w, http.StatusOK, shape(v))
}
