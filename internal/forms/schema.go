// Package forms models the dynamic form schemas attached to activity types
// and validates both schema definitions and the documents collected with them.
package forms

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/campuskit/institute-api/internal/apperr"
)

// Field types accepted in a form schema.
const (
	TypeText     = "text"
	TypeNumber   = "number"
	TypeDate     = "date"
	TypeSelect   = "select"
	TypeCheckbox = "checkbox"
)

var validTypes = []string{TypeText, TypeNumber, TypeDate, TypeSelect, TypeCheckbox}

// Field is a single descriptor within a form schema. Options are only
// meaningful for select and checkbox fields.
type Field struct {
	Key         string   `json:"key"`
	Label       string   `json:"label"`
	Type        string   `json:"type"`
	Options     []string `json:"options,omitempty"`
	Required    bool     `json:"required,omitempty"`
	Placeholder string   `json:"placeholder,omitempty"`
}

// Decode parses a raw JSON form schema into fields. The payload must be a
// JSON array; any other shape is rejected before validation runs.
func Decode(raw json.RawMessage) ([]Field, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil, nil
	}
	if !strings.HasPrefix(trimmed, "[") {
		return nil, apperr.InvalidInput("formSchema must be an array")
	}

	var fields []Field
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, apperr.InvalidInput("formSchema must be an array")
	}
	return fields, nil
}

// Validate checks a schema definition field by field, in order. The first
// violated rule aborts with its message; indices in messages are 1-based.
func Validate(fields []Field) error {
	seen := make(map[string]struct{}, len(fields))

	for i, field := range fields {
		pos := i + 1

		key := strings.TrimSpace(field.Key)
		if key == "" {
			return apperr.InvalidInput("Field %d: key is required", pos)
		}
		if strings.TrimSpace(field.Label) == "" {
			return apperr.InvalidInput("Field %d: label is required", pos)
		}
		if field.Type == "" {
			return apperr.InvalidInput("Field %d: type is required", pos)
		}
		if !isValidType(field.Type) {
			return apperr.InvalidInput("Field %d: type must be one of: %s", pos, strings.Join(validTypes, ", "))
		}
		if _, dup := seen[key]; dup {
			return apperr.InvalidInput("Field %d: duplicate key %q", pos, field.Key)
		}
		seen[key] = struct{}{}

		if (field.Type == TypeSelect || field.Type == TypeCheckbox) && len(field.Options) == 0 {
			return apperr.InvalidInput("Field %d: %s requires options array", pos, field.Type)
		}
	}

	return nil
}

// ValidateValues checks a submitted details document against a schema:
// required fields must be present, select values must come from the declared
// options, checkbox values must be a subset of them, and number/date fields
// must parse. Unknown keys are rejected so records stay queryable.
func ValidateValues(fields []Field, values map[string]interface{}) error {
	byKey := make(map[string]Field, len(fields))
	for _, field := range fields {
		byKey[strings.TrimSpace(field.Key)] = field
	}

	for key := range values {
		if _, ok := byKey[key]; !ok {
			return apperr.InvalidInput("field %q is not part of the activity form", key)
		}
	}

	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		value, present := values[key]
		if !present || value == nil {
			if field.Required {
				return apperr.InvalidInput("field %q is required", key)
			}
			continue
		}

		if err := validateValue(field, value); err != nil {
			return err
		}
	}

	return nil
}

func validateValue(field Field, value interface{}) error {
	key := strings.TrimSpace(field.Key)

	switch field.Type {
	case TypeText:
		if _, ok := value.(string); !ok {
			return apperr.InvalidInput("field %q must be a string", key)
		}
	case TypeNumber:
		switch v := value.(type) {
		case float64:
		case string:
			if _, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err != nil {
				return apperr.InvalidInput("field %q must be a number", key)
			}
		default:
			return apperr.InvalidInput("field %q must be a number", key)
		}
	case TypeDate:
		str, ok := value.(string)
		if !ok || !parseableDate(str) {
			return apperr.InvalidInput("field %q must be a valid date", key)
		}
	case TypeSelect:
		str, ok := value.(string)
		if !ok || !containsOption(field.Options, str) {
			return apperr.InvalidInput("field %q must be one of: %s", key, strings.Join(field.Options, ", "))
		}
	case TypeCheckbox:
		selected, err := checkboxValues(value)
		if err != nil {
			return apperr.InvalidInput("field %q must be a list of options", key)
		}
		for _, item := range selected {
			if !containsOption(field.Options, item) {
				return apperr.InvalidInput("field %q must only contain: %s", key, strings.Join(field.Options, ", "))
			}
		}
	}

	return nil
}

func isValidType(t string) bool {
	for _, valid := range validTypes {
		if t == valid {
			return true
		}
	}
	return false
}

func containsOption(options []string, value string) bool {
	for _, option := range options {
		if option == value {
			return true
		}
	}
	return false
}

func checkboxValues(value interface{}) ([]string, error) {
	switch v := value.(type) {
	case []string:
		return v, nil
	case []interface{}:
		items := make([]string, 0, len(v))
		for _, raw := range v {
			str, ok := raw.(string)
			if !ok {
				return nil, apperr.InvalidInput("checkbox values must be strings")
			}
			items = append(items, str)
		}
		return items, nil
	default:
		return nil, apperr.InvalidInput("checkbox values must be a list")
	}
}

func parseableDate(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if _, err := time.Parse(layout, value); err == nil {
			return true
		}
	}
	return false
}
