// Copyright (c) ConvoFlow. All rights reserved.

package assistant

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// Schema is a JSON-Schema-like description of a tool's input (or a
// structured-output shape). Only the subset the completion APIs consume is
// modeled: object/array/primitive types, properties, required fields, enums.
type Schema struct {
	Type                 string             `json:"type"`
	Description          string             `json:"description,omitempty"`
	Properties           map[string]*Schema `json:"properties,omitempty"`
	Required             []string           `json:"required,omitempty"`
	Items                *Schema            `json:"items,omitempty"`
	Enum                 []string           `json:"enum,omitempty"`
	Minimum              *float64           `json:"minimum,omitempty"`
	Maximum              *float64           `json:"maximum,omitempty"`
	AdditionalProperties *bool              `json:"additionalProperties,omitempty"`
}

// ObjectSchema builds an object schema from properties and required names.
func ObjectSchema(properties map[string]*Schema, required ...string) *Schema {
	return &Schema{Type: "object", Properties: properties, Required: required}
}

// StringSchema builds a string schema with an optional description.
func StringSchema(description string) *Schema {
	return &Schema{Type: "string", Description: description}
}

// SchemaFor builds a [Schema] from a Go struct type using reflection.
// Field names come from `json` tags; `jsonschema` tags add metadata:
//
//	type WeatherArgs struct {
//	    Location string `json:"location" jsonschema:"description=City name,required"`
//	    Unit     string `json:"unit"     jsonschema:"enum=celsius|fahrenheit"`
//	}
func SchemaFor[T any]() *Schema {
	var zero T
	t := reflect.TypeOf(zero)
	if t == nil {
		return &Schema{Type: "object"}
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return schemaForType(t)
}

// StrictSchemaFor is [SchemaFor] with every property required and
// additionalProperties set to false, the shape strict structured-output
// endpoints demand. Fields already tagged required are not duplicated.
func StrictSchemaFor[T any]() *Schema {
	s := SchemaFor[T]()
	if s.Type != "object" {
		return s
	}
	required := make([]string, 0, len(s.Properties))
	for name := range s.Properties {
		required = append(required, name)
	}
	// Deterministic order for stable wire output.
	sort.Strings(required)
	s.Required = required
	f := false
	s.AdditionalProperties = &f
	return s
}

func schemaForType(t reflect.Type) *Schema {
	switch t.Kind() {
	case reflect.String:
		return &Schema{Type: "string"}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &Schema{Type: "integer"}
	case reflect.Float32, reflect.Float64:
		return &Schema{Type: "number"}
	case reflect.Bool:
		return &Schema{Type: "boolean"}
	case reflect.Slice, reflect.Array:
		return &Schema{Type: "array", Items: schemaForType(t.Elem())}
	case reflect.Ptr:
		return schemaForType(t.Elem())
	case reflect.Struct:
		return schemaForStruct(t)
	case reflect.Map:
		return &Schema{Type: "object"}
	default:
		return &Schema{Type: "string"}
	}
}

func schemaForStruct(t reflect.Type) *Schema {
	s := &Schema{
		Type:       "object",
		Properties: make(map[string]*Schema),
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		jsonTag := field.Tag.Get("json")
		if jsonTag == "-" {
			continue
		}
		name := field.Name
		if jsonTag != "" {
			if parts := strings.SplitN(jsonTag, ",", 2); parts[0] != "" {
				name = parts[0]
			}
		}

		prop := schemaForType(field.Type)

		if jsTag := field.Tag.Get("jsonschema"); jsTag != "" {
			for _, part := range strings.Split(jsTag, ",") {
				kv := strings.SplitN(part, "=", 2)
				key := strings.TrimSpace(kv[0])
				val := ""
				if len(kv) == 2 {
					val = strings.TrimSpace(kv[1])
				}
				switch key {
				case "description":
					prop.Description = val
				case "required":
					s.Required = append(s.Required, name)
				case "enum":
					for _, ev := range strings.Split(val, "|") {
						prop.Enum = append(prop.Enum, strings.TrimSpace(ev))
					}
				}
			}
		}

		s.Properties[name] = prop
	}

	return s
}

// Validate checks parsed arguments against the schema: every required field
// must be present, and present fields must match their declared primitive
// type. Unknown fields pass unless additionalProperties is false.
func (s *Schema) Validate(args map[string]any) error {
	if s == nil || s.Type != "object" {
		return nil
	}
	for _, field := range s.Required {
		if _, ok := args[field]; !ok {
			return fmt.Errorf("missing required field %q", field)
		}
	}
	for key, value := range args {
		prop, ok := s.Properties[key]
		if !ok {
			if s.AdditionalProperties != nil && !*s.AdditionalProperties {
				return fmt.Errorf("unexpected field %q", key)
			}
			continue
		}
		if err := validateValue(value, prop); err != nil {
			return fmt.Errorf("field %q: %w", key, err)
		}
	}
	return nil
}

func validateValue(value any, prop *Schema) error {
	if prop == nil || prop.Type == "" || value == nil {
		return nil
	}
	switch prop.Type {
	case "string":
		sv, ok := value.(string)
		if !ok {
			return fmt.Errorf("expected string, got %T", value)
		}
		if len(prop.Enum) > 0 && !containsString(prop.Enum, sv) {
			return fmt.Errorf("value %q not in enum %v", sv, prop.Enum)
		}
	case "number":
		if _, ok := value.(float64); !ok {
			return fmt.Errorf("expected number, got %T", value)
		}
	case "integer":
		f, ok := value.(float64)
		if !ok || f != float64(int64(f)) {
			return fmt.Errorf("expected integer, got %v", value)
		}
	case "boolean":
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("expected boolean, got %T", value)
		}
	case "array":
		items, ok := value.([]any)
		if !ok {
			return fmt.Errorf("expected array, got %T", value)
		}
		for i, item := range items {
			if err := validateValue(item, prop.Items); err != nil {
				return fmt.Errorf("item %d: %w", i, err)
			}
		}
	case "object":
		obj, ok := value.(map[string]any)
		if !ok {
			return fmt.Errorf("expected object, got %T", value)
		}
		return prop.Validate(obj)
	}
	return nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
