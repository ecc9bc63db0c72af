// Package templates persists the editor's saved template behind a small
// versioned envelope.
package templates

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"fakepost/internal/domain"
)

// ErrUnsupportedVersion is returned for envelopes written by a newer release.
var ErrUnsupportedVersion = errors.New("templates: unsupported template version")

type envelope struct {
	Version  int             `json:"version"`
	Template json.RawMessage `json:"template"`
}

// Encode validates t and wraps it in the current envelope.
func Encode(t domain.Template) ([]byte, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	body, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("templates: marshal template: %w", err)
	}
	return json.Marshal(envelope{Version: domain.TemplateVersion, Template: body})
}

// Decode reads an envelope or a legacy unversioned blob. Fields absent from
// the stored data keep their DefaultTemplate values.
func Decode(raw []byte) (domain.Template, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return domain.Template{}, fmt.Errorf("templates: empty blob")
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return domain.Template{}, fmt.Errorf("templates: decode blob: %w", err)
	}

	body := raw
	if v, ok := probe["version"]; ok {
		var env envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			return domain.Template{}, fmt.Errorf("templates: decode envelope: %w", err)
		}
		switch {
		case env.Version > domain.TemplateVersion:
			return domain.Template{}, fmt.Errorf("%w: %s", ErrUnsupportedVersion, v)
		case env.Version < 1:
			return domain.Template{}, fmt.Errorf("templates: invalid version %s", v)
		}
		if len(env.Template) == 0 {
			return domain.Template{}, fmt.Errorf("templates: envelope has no template")
		}
		body = env.Template
	}

	t := domain.DefaultTemplate()
	if err := json.Unmarshal(body, &t); err != nil {
		return domain.Template{}, fmt.Errorf("templates: decode template: %w", err)
	}
	if err := t.Validate(); err != nil {
		return domain.Template{}, err
	}
	return t, nil
}
