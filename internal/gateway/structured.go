package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"fakepost/internal/domain"
)

// Generate runs a text request and decodes the model's JSON into T. The
// reply must conform to req.Schema and T's `validate` tags; callers never
// receive partially shaped data.
func Generate[T any](ctx context.Context, gw Gateway, req TextRequest) (T, error) {
	var zero T
	if strings.TrimSpace(req.Prompt) == "" {
		return zero, domain.Validation("prompt is required")
	}
	raw, err := gw.GenerateText(ctx, req)
	if err != nil {
		return zero, err
	}
	return DecodeSchema[T](raw, req.Schema)
}

// Decode parses model output into T and validates it.
func Decode[T any](raw string) (T, error) {
	return DecodeSchema[T](raw, nil)
}

// DecodeSchema is Decode plus a conformance check of the reply against
// schema. A nil schema skips the check.
func DecodeSchema[T any](raw string, schema *Schema) (T, error) {
	var zero T
	cleaned := ExtractJSON(raw)
	if cleaned == "" {
		return zero, domain.Generation("model returned an empty response", nil)
	}
	if schema != nil {
		var generic any
		if err := json.Unmarshal([]byte(cleaned), &generic); err != nil {
			return zero, domain.Generation("model returned malformed output", err)
		}
		if err := schema.Check(generic); err != nil {
			return zero, domain.Generation("model output did not match the expected shape", err)
		}
	}
	var decoded T
	if err := json.Unmarshal([]byte(cleaned), &decoded); err != nil {
		return zero, domain.Generation("model returned malformed output", err)
	}
	if err := domain.Validator().Struct(decoded); err != nil {
		var invalid *validator.InvalidValidationError
		if !errors.As(err, &invalid) {
			return zero, domain.Generation("model output did not match the expected shape", err)
		}
	}
	return decoded, nil
}

// ExtractJSON strips code fences and surrounding prose from a model reply.
func ExtractJSON(raw string) string {
	text := strings.TrimSpace(raw)
	if text == "" {
		return ""
	}
	text = trimCodeFence(text)
	start := strings.IndexAny(text, "{[")
	end := strings.LastIndexAny(text, "]}")
	if start >= 0 && end >= start {
		text = text[start : end+1]
	}
	return strings.TrimSpace(text)
}

func trimCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```JSON")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)
	if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return strings.TrimSpace(trimmed)
}
