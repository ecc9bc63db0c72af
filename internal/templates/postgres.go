package templates

import (
	"context"
	"fmt"

	"fakepost/internal/domain"
	"fakepost/internal/infra"
	"fakepost/internal/sqlinline"
)

// PostgresStore keeps each slot as a row of fakepost_templates.
type PostgresStore struct {
	sql infra.SQLExecutor
}

// NewPostgresStore wraps a marker-checked SQL executor.
func NewPostgresStore(sql infra.SQLExecutor) *PostgresStore {
	return &PostgresStore{sql: sql}
}

// EnsureSchema creates the templates table when missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.sql.Exec(ctx, sqlinline.QCreateTemplatesTable); err != nil {
		return fmt.Errorf("templates: ensure schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Save(ctx context.Context, slot string, t domain.Template) error {
	raw, err := Encode(t)
	if err != nil {
		return err
	}
	if _, err := s.sql.Exec(ctx, sqlinline.QUpsertTemplate, slot, domain.TemplateVersion, string(raw)); err != nil {
		return fmt.Errorf("templates: upsert: %w", err)
	}
	return nil
}

func (s *PostgresStore) Load(ctx context.Context, slot string) (domain.Template, error) {
	var raw []byte
	if err := s.sql.QueryRow(ctx, sqlinline.QSelectTemplate, slot).Scan(&raw); err != nil {
		if infra.IsNoRows(err) {
			return domain.Template{}, domain.ErrNotFound
		}
		return domain.Template{}, fmt.Errorf("templates: select: %w", err)
	}
	return Decode(raw)
}

var _ Store = (*PostgresStore)(nil)
