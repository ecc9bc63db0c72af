package templates

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"fakepost/internal/domain"
	"fakepost/internal/infra"
)

// Store persists one template per slot.
type Store interface {
	Save(ctx context.Context, slot string, t domain.Template) error
	// Load returns domain.ErrNotFound when nothing is saved under slot.
	Load(ctx context.Context, slot string) (domain.Template, error)
}

// Service fronts a Store for callers that always need a template.
type Service struct {
	store  Store
	logger *infra.Logger
}

// NewService constructs a Service over store.
func NewService(store Store, logger *infra.Logger) *Service {
	if logger == nil {
		discard := zerolog.New(io.Discard)
		logger = &discard
	}
	return &Service{store: store, logger: logger}
}

// Save stores t under slot, the default slot when slot is blank.
func (s *Service) Save(ctx context.Context, slot string, t domain.Template) (domain.Template, error) {
	if err := t.Validate(); err != nil {
		return domain.Template{}, err
	}
	if err := s.store.Save(ctx, slotKey(slot), t); err != nil {
		return domain.Template{}, err
	}
	return t, nil
}

// Load returns the template saved under slot. When nothing usable is stored
// it returns the default template and found=false; read failures are logged.
func (s *Service) Load(ctx context.Context, slot string) (domain.Template, bool) {
	key := slotKey(slot)
	t, err := s.store.Load(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn().Err(err).Str("slot", key).Msg("templates: load failed, using default")
		}
		return domain.DefaultTemplate(), false
	}
	return t, true
}

func slotKey(slot string) string {
	slot = strings.TrimSpace(slot)
	if slot == "" {
		return domain.DefaultTemplateSlot
	}
	return slot
}
