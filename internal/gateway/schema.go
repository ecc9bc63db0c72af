package gateway

import (
	"fmt"
	"slices"
)

// Type is an OpenAPI subset type name as the provider spells it.
type Type string

const (
	TypeObject  Type = "OBJECT"
	TypeArray   Type = "ARRAY"
	TypeString  Type = "STRING"
	TypeInteger Type = "INTEGER"
	TypeBoolean Type = "BOOLEAN"
)

// Schema describes the JSON shape a text request must return.
type Schema struct {
	Type             Type               `json:"type"`
	Description      string             `json:"description,omitempty"`
	Properties       map[string]*Schema `json:"properties,omitempty"`
	PropertyOrdering []string           `json:"propertyOrdering,omitempty"`
	Required         []string           `json:"required,omitempty"`
	Items            *Schema            `json:"items,omitempty"`
	MinItems         *int64             `json:"minItems,omitempty"`
	MaxItems         *int64             `json:"maxItems,omitempty"`
}

// Field is one named property of an object schema.
type Field struct {
	Name     string
	Schema   *Schema
	Optional bool
}

// String returns a described string schema.
func String(description string) *Schema {
	return &Schema{Type: TypeString, Description: description}
}

// Array returns an array schema of items.
func Array(items *Schema, description string) *Schema {
	return &Schema{Type: TypeArray, Items: items, Description: description}
}

// Object returns an object schema whose properties keep the given order.
func Object(fields ...Field) *Schema {
	s := &Schema{Type: TypeObject, Properties: make(map[string]*Schema, len(fields))}
	for _, f := range fields {
		s.Properties[f.Name] = f.Schema
		s.PropertyOrdering = append(s.PropertyOrdering, f.Name)
		if !f.Optional {
			s.Required = append(s.Required, f.Name)
		}
	}
	return s
}

// WithItemCount pins an array schema's length bounds.
func (s *Schema) WithItemCount(min, max int) *Schema {
	lo, hi := int64(min), int64(max)
	s.MinItems = &lo
	s.MaxItems = &hi
	return s
}

// Check reports the first place where v, a value produced by
// encoding/json into an interface, breaks s. Required properties must be
// present and arrays must respect their item bounds. An empty array under an
// optional property counts as absent.
func (s *Schema) Check(v any) error {
	return s.check(v, "$")
}

func (s *Schema) check(v any, path string) error {
	if s == nil {
		return nil
	}
	switch s.Type {
	case TypeObject:
		obj, ok := v.(map[string]any)
		if !ok {
			return fmt.Errorf("%s: expected an object", path)
		}
		for _, name := range s.Required {
			if val, present := obj[name]; !present || val == nil {
				return fmt.Errorf("%s.%s: required property missing", path, name)
			}
		}
		for name, prop := range s.Properties {
			val, present := obj[name]
			if !present || val == nil {
				continue
			}
			if arr, isArr := val.([]any); isArr && len(arr) == 0 && !slices.Contains(s.Required, name) {
				continue
			}
			if err := prop.check(val, path+"."+name); err != nil {
				return err
			}
		}
	case TypeArray:
		arr, ok := v.([]any)
		if !ok {
			return fmt.Errorf("%s: expected an array", path)
		}
		if s.MinItems != nil && int64(len(arr)) < *s.MinItems {
			return fmt.Errorf("%s: %d items, want at least %d", path, len(arr), *s.MinItems)
		}
		if s.MaxItems != nil && int64(len(arr)) > *s.MaxItems {
			return fmt.Errorf("%s: %d items, want at most %d", path, len(arr), *s.MaxItems)
		}
		for i, item := range arr {
			if err := s.Items.check(item, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
	case TypeString:
		if _, ok := v.(string); !ok {
			return fmt.Errorf("%s: expected a string", path)
		}
	case TypeBoolean:
		if _, ok := v.(bool); !ok {
			return fmt.Errorf("%s: expected a boolean", path)
		}
	case TypeInteger:
		if _, ok := v.(float64); !ok {
			return fmt.Errorf("%s: expected a number", path)
		}
	}
	return nil
}
